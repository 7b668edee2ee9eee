package stream

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/zunderbolt"
	"github.com/hupe1980/zunderbolt/internal/hash"
	"github.com/hupe1980/zunderbolt/platform"
	"github.com/hupe1980/zunderbolt/resource"
)

func TestCopyTo_TenThousandBytes(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "src.bin")
	dstPath := filepath.Join(dir, "dst.bin")
	data := pattern(10000)
	writeFile(t, srcPath, data)

	fp := platform.NewFaulty(nil)
	metrics := &zunderbolt.BasicMetricsCollector{}

	src, err := OpenFile(srcPath, Open, WithPlatform(fp))
	require.NoError(t, err)
	defer src.Close()
	dst, err := OpenFile(dstPath, CreateOrOverwrite, WithPlatform(fp))
	require.NoError(t, err)

	res, err := src.CopyTo(context.Background(), dst, 0, 0, 10000,
		WithBatchSize(4096), WithChecksum(true), WithCopyMetrics(metrics))
	require.NoError(t, err)

	assert.Equal(t, int64(10000), res.Bytes)
	assert.Equal(t, 3, res.Batches)
	assert.Equal(t, hash.CRC32C(data), res.Checksum)
	assert.Equal(t, 3, fp.Stats().Reads)
	assert.Equal(t, int64(10000), dst.Length())

	require.NoError(t, dst.Close())
	assert.LessOrEqual(t, fp.Stats().Writes, 3)

	onDisk, err := os.ReadFile(dstPath)
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	stats := metrics.GetStats()
	assert.EqualValues(t, 1, stats.CopyCount)
	assert.EqualValues(t, 10000, stats.CopyBytes)
	assert.EqualValues(t, 3, stats.CopyBatches)
}

func TestCopy_Offsets(t *testing.T) {
	src := NewMemory(pattern(100))
	dst := NewMemory([]byte("0123456789"))

	res, err := Copy(context.Background(), dst, src, 20, 5, 30, WithBatchSize(7))
	require.NoError(t, err)
	assert.Equal(t, int64(30), res.Bytes)
	assert.Equal(t, 5, res.Batches)

	want := append([]byte("01234"), pattern(100)[20:50]...)
	assert.Equal(t, want, dst.Bytes())
	assert.Equal(t, int64(50), src.Position())
	assert.Equal(t, int64(35), dst.Position())
}

func TestCopy_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	src := NewMemory(pattern(10))

	tests := []struct {
		name           string
		srcOff, dstOff int64
		n              int64
		opts           []CopyOption
	}{
		{"source offset at end", 10, 0, 0, nil},
		{"destination offset past end", 0, 1, 5, nil},
		{"range past source end", 5, 0, 6, nil},
		{"negative count", 0, 0, -1, nil},
		{"zero batch", 0, 0, 5, []CopyOption{WithBatchSize(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := NewMemory(nil)
			_, err := Copy(ctx, dst, src, tt.srcOff, tt.dstOff, tt.n, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, int64(0), dst.Length())
		})
	}
}

func TestCopy_ZeroBytes(t *testing.T) {
	res, err := Copy(context.Background(), NewMemory(nil), NewMemory(pattern(4)), 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, CopyResult{}, res)
}

func TestCopy_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Copy(ctx, NewMemory(nil), NewMemory(pattern(100)), 0, 0, 100)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), res.Bytes)
}

func TestCopy_WriteFailure(t *testing.T) {
	fp := platform.NewFaulty(nil)
	dstPath := filepath.Join(t.TempDir(), "ro-dst.bin")
	writeFile(t, dstPath, nil)

	dst, err := OpenFile(dstPath, Open, WithPlatform(fp), WithReadOnly())
	require.NoError(t, err)
	defer dst.Close()

	res, err := Copy(context.Background(), dst, NewMemory(pattern(10)), 0, 0, 10)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Equal(t, int64(0), res.Bytes)
}

func TestCopyAll(t *testing.T) {
	rc := resource.NewController(resource.Config{MaxConcurrentCopies: 2})

	var jobs []CopyJob
	var dsts []*Memory
	for i := 0; i < 8; i++ {
		dst := NewMemory(nil)
		dsts = append(dsts, dst)
		jobs = append(jobs, CopyJob{
			Dst:   dst,
			Src:   NewMemory(pattern(1000 + i*100)),
			Count: int64(1000 + i*100),
		})
	}

	results, err := CopyAll(context.Background(), jobs, WithBatchSize(256), WithCopyController(rc))
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, dst := range dsts {
		assert.Equal(t, pattern(1000+i*100), dst.Bytes())
		assert.Equal(t, int64(1000+i*100), results[i].Bytes)
	}
	assert.True(t, rc.TryAcquireCopySlot())
	assert.True(t, rc.TryAcquireCopySlot())
}

func TestCopyAll_FirstErrorReturned(t *testing.T) {
	jobs := []CopyJob{
		{Dst: NewMemory(nil), Src: NewMemory(pattern(10)), Count: 10},
		{Dst: NewMemory(nil), Src: NewMemory(pattern(10)), Count: 50},
	}

	results, err := CopyAll(context.Background(), jobs, WithConcurrency(1))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Len(t, results, 2)
}

func TestCopyOptionsFromConfig(t *testing.T) {
	cfg := zunderbolt.DefaultConfig()
	cfg.Copy.BatchSize = 123
	cfg.Copy.Checksum = true

	o := applyCopyOptions(CopyOptionsFromConfig(cfg))
	assert.Equal(t, 123, o.batchSize)
	assert.True(t, o.checksum)
	assert.Positive(t, o.concurrency)
}
