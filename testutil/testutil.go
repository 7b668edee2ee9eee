package testutil

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63n returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Int63n(n int64) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63n(n)
}

// Bytes returns n pseudo-random bytes.
// Locks only once per call.
func (r *RNG) Bytes(n int) []byte {
	b := make([]byte, n)
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.rand.Read(b)
	return b
}

// Pattern returns n bytes of a repeating pattern whose period (251) is
// prime, so misplaced offsets show up as content mismatches.
func Pattern(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

// WriteOp is a positioned write.
type WriteOp struct {
	Offset int64
	Data   []byte
}

// RandomWrites generates count writes of 1..maxLen bytes. Each write starts
// inside or right at the end of the content produced by the previous ones,
// so the sequence mixes overwrites, partial overlaps and appends without gaps.
func (r *RNG) RandomWrites(count, maxLen int) []WriteOp {
	ops := make([]WriteOp, 0, count)
	var size int64
	for i := 0; i < count; i++ {
		var off int64
		if size > 0 {
			off = r.Int63n(size + 1)
		}
		data := r.Bytes(1 + r.Intn(maxLen))
		ops = append(ops, WriteOp{Offset: off, Data: data})
		size = max(size, off+int64(len(data)))
	}
	return ops
}

// Apply replays ops on model and returns the resulting content.
func Apply(model []byte, ops []WriteOp) []byte {
	for _, op := range ops {
		end := int(op.Offset) + len(op.Data)
		if end > len(model) {
			model = append(model, make([]byte, end-len(model))...)
		}
		copy(model[op.Offset:], op.Data)
	}
	return model
}

// TempFile writes data to name inside a fresh test directory and returns the path.
func TempFile(tb testing.TB, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}
