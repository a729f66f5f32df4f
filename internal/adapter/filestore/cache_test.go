package filestore

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counting[V any](calls *atomic.Int32, v V) func() (V, error) {
	return func() (V, error) {
		calls.Add(1)
		return v, nil
	}
}

func TestFileMemo_ParsesOncePerPath(t *testing.T) {
	m := newFileMemo[string](2)
	var calls atomic.Int32

	v, hit, err := m.load("/data/a.csv", counting(&calls, "A"))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "A", v)

	v, hit, err = m.load("/data/a.csv", counting(&calls, "other"))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "A", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFileMemo_ErrorIsNotCached(t *testing.T) {
	m := newFileMemo[int](2)
	boom := errors.New("boom")

	_, _, err := m.load("a", func() (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, m.size())

	v, hit, err := m.load("a", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v)
}

func TestFileMemo_EvictsBeyondDistinctPaths(t *testing.T) {
	m := newFileMemo[int](2)
	var calls atomic.Int32

	for _, key := range []string{"a", "b", "a", "c"} {
		_, _, err := m.load(key, counting(&calls, 1))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, m.size())

	// "b" was least recently used when "c" arrived.
	_, hit, _ := m.load("a", counting(&calls, 1))
	assert.True(t, hit)
	_, hit, _ = m.load("b", counting(&calls, 1))
	assert.False(t, hit)
}

func TestFileMemo_ConcurrentFirstLoadsShareOneParse(t *testing.T) {
	m := newFileMemo[int](1)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, _, err := m.load("a", func() (int, error) {
				calls.Add(1)
				<-release
				return 42, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	v, hit, err := m.load("a", counting(&calls, 0))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 42, v)
}

func TestFileMemo_MinimumSize(t *testing.T) {
	m := newFileMemo[int](0)
	var calls atomic.Int32

	_, _, err := m.load("a", counting(&calls, 1))
	require.NoError(t, err)
	_, hit, _ := m.load("a", counting(&calls, 1))
	assert.True(t, hit)
}
