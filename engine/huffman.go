package engine

import (
	"sort"
)

// huffmanNode is one node of the flat Huffman tree. Leaves occupy
// [0, osz); internal nodes occupy [osz, 2*osz-1) (spec §3). Parent/left/
// right are indices into HuffmanTree.nodes, -1 meaning absent — a flat
// array of integer-indexed nodes rather than heap-allocated linked nodes,
// per spec §9's note on the tree/parent anti-tree.
type huffmanNode struct {
	parent, left, right int
	count               int64
	binary              bool
}

// sentinelCount stands in for "not yet computed" while an internal node is
// still being assigned a count during the merge below; it must compare
// larger than any real class count.
const sentinelCount = int64(1) << 62

// HuffmanTree is built once from per-class output counts and is immutable
// thereafter (spec §3, §4.3).
type HuffmanTree struct {
	osz       int
	nodes     []huffmanNode
	leafClass []int32   // sorted leaf position -> original class id
	paths     [][]int32 // per original class id, leaf-to-root internal node ids (offset by -osz)
	codes     [][]uint8 // aligned with paths; bit is the binary flag of each ancestor
}

// BuildHuffmanTree constructs the tree from per-class counts. counts need
// not be pre-sorted: classes are internally ordered by count descending
// (mirroring the classic Huffman-merge precondition that both the leaf and
// internal-node streams are individually sorted ascending, spec §4.3's
// invariant) and paths/codes are reported back against the caller's
// original class numbering.
func BuildHuffmanTree(counts []int64) *HuffmanTree {
	osz := len(counts)
	assert(osz > 0, "BuildHuffmanTree: empty counts")

	order := make([]int, osz)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	n := 2*osz - 1
	nodes := make([]huffmanNode, n)
	for i := 0; i < osz; i++ {
		nodes[i] = huffmanNode{parent: -1, left: -1, right: -1, count: counts[order[i]]}
	}
	for i := osz; i < n; i++ {
		nodes[i] = huffmanNode{parent: -1, left: -1, right: -1, count: sentinelCount}
	}

	leaf := osz - 1
	node := osz
	for i := osz; i < n; i++ {
		var picked [2]int
		for k := 0; k < 2; k++ {
			if leaf >= 0 && nodes[leaf].count < nodes[node].count {
				picked[k] = leaf
				leaf--
			} else {
				picked[k] = node
				node++
			}
		}
		nodes[picked[0]].parent = i
		nodes[picked[1]].parent = i
		nodes[picked[1]].binary = true
		nodes[i].left = picked[0]
		nodes[i].right = picked[1]
		nodes[i].count = addCounts(nodes[picked[0]].count, nodes[picked[1]].count)
	}

	t := &HuffmanTree{osz: osz, nodes: nodes, leafClass: make([]int32, osz)}
	for i, cls := range order {
		t.leafClass[i] = int32(cls)
	}
	t.buildPathsAndCodes(order)
	return t
}

func addCounts(a, b int64) int64 {
	if a >= sentinelCount || b >= sentinelCount {
		return sentinelCount
	}
	return a + b
}

func (t *HuffmanTree) buildPathsAndCodes(order []int) {
	t.paths = make([][]int32, t.osz)
	t.codes = make([][]uint8, t.osz)
	for leaf := 0; leaf < t.osz; leaf++ {
		var path []int32
		var code []uint8
		idx := leaf
		for t.nodes[idx].parent != -1 {
			parent := t.nodes[idx].parent
			path = append(path, int32(parent-t.osz))
			if t.nodes[idx].binary {
				code = append(code, 1)
			} else {
				code = append(code, 0)
			}
			idx = parent
		}
		originalClass := order[leaf]
		t.paths[originalClass] = path
		t.codes[originalClass] = code
	}
}

// Path returns the root-ward sequence of internal node ids (0-based,
// already offset by -osz so they index directly into wo_) for class c.
func (t *HuffmanTree) Path(c int) []int32 { return t.paths[c] }

// Code returns the bits aligned with Path(c): codes[i] is the binary flag
// of the ancestor named by paths[i].
func (t *HuffmanTree) Code(c int) []uint8 { return t.codes[c] }

// OSZ returns the number of leaf classes.
func (t *HuffmanTree) OSZ() int { return t.osz }

// Root returns the absolute node id of the tree root.
func (t *HuffmanTree) Root() int { return len(t.nodes) - 1 }

// IsLeaf reports whether the absolute node id names a leaf.
func (t *HuffmanTree) IsLeaf(node int) bool { return node < t.osz }

// Left returns the absolute node id of node's left child.
func (t *HuffmanTree) Left(node int) int { return t.nodes[node].left }

// Right returns the absolute node id of node's right child.
func (t *HuffmanTree) Right(node int) int { return t.nodes[node].right }

// LeafClass maps a leaf's absolute node id back to the caller's class id.
func (t *HuffmanTree) LeafClass(node int) int32 {
	assert(t.IsLeaf(node), "LeafClass: node is not a leaf")
	return t.leafClass[node]
}

// InternalIndex converts an absolute internal node id into the 0-based
// offset used to index wo_ (the same offset already baked into Path).
func (t *HuffmanTree) InternalIndex(node int) int {
	assert(node >= t.osz, "InternalIndex: node is not internal")
	return node - t.osz
}
