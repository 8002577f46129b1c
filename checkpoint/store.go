// Package checkpoint persists the shared parameter matrices to a bbolt
// database so a long Hogwild training run survives a restart. This is the
// "model serialization to disk beyond the vector primitive" spec.md §1
// explicitly keeps out of the engine package itself; it lives here,
// grounded in the teacher pack's bbolt-backed checkpointer
// (guiperry-HASHER's 1_DATA_MINER/internal/checkpoint).
package checkpoint

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/vecforge/vecforge/engine"
	"github.com/vecforge/vecforge/vecio"
)

var (
	bucketWi   = []byte("wi")
	bucketWo   = []byte("wo")
	bucketAttn = []byte("attn")
	bucketMeta = []byte("meta")

	keyBias = []byte("bias")
	keyStep = []byte("step")
)

// Store wraps a *bbolt.DB holding one bucket per parameter matrix plus a
// meta bucket for the bias vector and the training step counter.
type Store struct {
	db *bbolt.DB
}

// Open creates or opens the checkpoint database at path, creating buckets
// on first use.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketWi, bucketWo, bucketAttn, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("checkpoint: create buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save writes wi, wo, attn, bias, and step into the database, overwriting
// any previous snapshot. Rows are serialized with vecio's native-float
// format rather than JSON: each row is a large dense float slice, and a
// bitwise round trip (spec §8 invariant 5) is cheaper and exact that way.
func (s *Store) Save(step int64, wi, wo, attn *engine.Matrix, bias *engine.Vector) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := saveMatrix(tx.Bucket(bucketWi), wi); err != nil {
			return fmt.Errorf("save wi: %w", err)
		}
		if err := saveMatrix(tx.Bucket(bucketWo), wo); err != nil {
			return fmt.Errorf("save wo: %w", err)
		}
		if err := saveMatrix(tx.Bucket(bucketAttn), attn); err != nil {
			return fmt.Errorf("save attn: %w", err)
		}
		meta := tx.Bucket(bucketMeta)
		var buf bytes.Buffer
		if err := vecio.SaveVector(&buf, bias); err != nil {
			return fmt.Errorf("save bias: %w", err)
		}
		if err := meta.Put(keyBias, buf.Bytes()); err != nil {
			return err
		}
		stepBuf := make([]byte, 8)
		binary.NativeEndian.PutUint64(stepBuf, uint64(step))
		return meta.Put(keyStep, stepBuf)
	})
}

// Load restores wi, wo, attn, bias, and the training step from the most
// recent Save.
func (s *Store) Load() (wi, wo, attn *engine.Matrix, bias *engine.Vector, step int64, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		var e error
		if wi, e = loadMatrix(tx.Bucket(bucketWi)); e != nil {
			return fmt.Errorf("load wi: %w", e)
		}
		if wo, e = loadMatrix(tx.Bucket(bucketWo)); e != nil {
			return fmt.Errorf("load wo: %w", e)
		}
		if attn, e = loadMatrix(tx.Bucket(bucketAttn)); e != nil {
			return fmt.Errorf("load attn: %w", e)
		}
		meta := tx.Bucket(bucketMeta)
		biasBytes := meta.Get(keyBias)
		if biasBytes == nil {
			return fmt.Errorf("load bias: no checkpoint found")
		}
		bias, e = vecio.LoadVector(bytes.NewReader(biasBytes))
		if e != nil {
			return fmt.Errorf("load bias: %w", e)
		}
		stepBytes := meta.Get(keyStep)
		if stepBytes != nil {
			step = int64(binary.NativeEndian.Uint64(stepBytes))
		}
		return nil
	})
	return wi, wo, attn, bias, step, err
}

// saveMatrix writes each row under its row index as key, so a restart can
// reuse the bucket's byte layout without rewriting the whole matrix in one
// blob (and so a partial write only loses the rows in flight, not the
// whole matrix).
func saveMatrix(b *bbolt.Bucket, m *engine.Matrix) error {
	var dims bytes.Buffer
	if err := binary.Write(&dims, binary.NativeEndian, int64(m.Rows())); err != nil {
		return err
	}
	if err := binary.Write(&dims, binary.NativeEndian, int64(m.Cols())); err != nil {
		return err
	}
	if err := b.Put([]byte("dims"), dims.Bytes()); err != nil {
		return err
	}
	for r := 0; r < m.Rows(); r++ {
		var buf bytes.Buffer
		if err := binary.Write(&buf, binary.NativeEndian, m.Row(r)); err != nil {
			return err
		}
		if err := b.Put(rowKey(r), buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func loadMatrix(b *bbolt.Bucket) (*engine.Matrix, error) {
	dimsBytes := b.Get([]byte("dims"))
	if dimsBytes == nil {
		return nil, fmt.Errorf("no checkpoint found")
	}
	r := bytes.NewReader(dimsBytes)
	var rows, cols int64
	if err := binary.Read(r, binary.NativeEndian, &rows); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.NativeEndian, &cols); err != nil {
		return nil, err
	}
	data := make([]float64, rows*cols)
	for row := int64(0); row < rows; row++ {
		rowBytes := b.Get(rowKey(int(row)))
		if rowBytes == nil {
			return nil, fmt.Errorf("missing row %d", row)
		}
		if err := binary.Read(bytes.NewReader(rowBytes), binary.NativeEndian, data[row*cols:(row+1)*cols]); err != nil {
			return nil, err
		}
	}
	return engine.NewMatrixFromData(int(rows), int(cols), data), nil
}

func rowKey(r int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(r))
	return key
}
