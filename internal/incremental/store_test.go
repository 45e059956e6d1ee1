package incremental_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvvmgen/internal/guard"
	"mvvmgen/internal/incremental"
)

type facts struct {
	Name  string
	Flags []bool
	Tags  map[string]int
}

type model struct {
	Member string
	Count  int
}

func TestKeyIsCanonical(t *testing.T) {
	a := facts{Name: "Save", Flags: []bool{true}, Tags: map[string]int{"a": 1, "b": 2, "c": 3}}
	b := facts{Name: "Save", Flags: []bool{true}, Tags: map[string]int{"c": 3, "b": 2, "a": 1}}

	ka, err := incremental.KeyOf("validate", a)
	require.NoError(t, err)
	kb, err := incremental.KeyOf("validate", b)
	require.NoError(t, err)
	assert.Equal(t, ka, kb)

	for range 20 {
		kb, err = incremental.KeyOf("validate", facts{Name: "Save", Flags: []bool{true}, Tags: map[string]int{"b": 2, "c": 3, "a": 1}})
		require.NoError(t, err)
		require.Equal(t, ka, kb, "map order must not change the key")
	}

	kc, err := incremental.KeyOf("emit", a)
	require.NoError(t, err)
	assert.NotEqual(t, ka, kc, "stage name is part of the key")
	assert.False(t, ka.IsZero())
	assert.Len(t, ka.String(), 64)
}

func TestKeyRejectsNonStringMapKeys(t *testing.T) {
	_, err := incremental.KeyOf("validate", map[int]string{1: "a", 2: "b"})
	require.Error(t, err)
}

func TestMemoHitsAfterFirstCompute(t *testing.T) {
	store, err := incremental.New(16, nil)
	require.NoError(t, err)

	calls := 0
	compute := func() (model, error) {
		calls++
		return model{Member: "SaveCommand", Count: calls}, nil
	}
	in := facts{Name: "Save"}

	first, hit, err := incremental.Memo(store, "validate", in, compute)
	require.NoError(t, err)
	assert.False(t, hit)
	second, hit, err := incremental.Memo(store, "validate", in, compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	stats := store.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}

func TestMemoWithoutStoreAlwaysComputes(t *testing.T) {
	calls := 0
	for range 2 {
		_, hit, err := incremental.Memo[int](nil, "emit", 1, func() (int, error) { calls++; return calls, nil })
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, calls)
}

func TestDiskPersistence(t *testing.T) {
	dir := t.TempDir()
	disk, err := incremental.OpenDisk(dir)
	require.NoError(t, err)

	first, err := incremental.New(8, disk)
	require.NoError(t, err)
	_, _, err = incremental.Memo(first, "emit", facts{Name: "A"}, func() (model, error) {
		return model{Member: "A"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Stats().DiskWrites)

	second, err := incremental.New(8, disk)
	require.NoError(t, err)
	got, hit, err := incremental.Memo(second, "emit", facts{Name: "A"}, func() (model, error) {
		t.Fatal("should be served from disk")
		return model{}, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "A", got.Member)
	assert.Equal(t, uint64(1), second.Stats().DiskHits)

	require.NoError(t, disk.DropAll())
	third, err := incremental.New(8, disk)
	require.NoError(t, err)
	var out model
	ok, err := third.Get(mustKey(t, "emit", facts{Name: "A"}), &out)
	require.NoError(t, err)
	assert.False(t, ok, "DropAll empties the cache")
}

func TestSchemaMismatchIsAMiss(t *testing.T) {
	disk, err := incremental.OpenDisk(t.TempDir())
	require.NoError(t, err)
	key := mustKey(t, "validate", facts{Name: "old"})
	require.NoError(t, disk.Put(key, &incremental.Payload{Schema: incremental.SchemaVersion + 1, Data: []byte{0xc0}}))

	var p incremental.Payload
	_, err = disk.Get(key, &p)
	assert.True(t, errors.Is(err, incremental.ErrCacheSchema))

	store, err := incremental.New(4, disk)
	require.NoError(t, err)
	var out model
	ok, err := store.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := incremental.New(0, nil)
	var argErr *guard.ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, guard.ArgumentOutOfRange, argErr.Kind)
}

func mustKey(t *testing.T, stage string, v any) incremental.Key {
	t.Helper()
	k, err := incremental.KeyOf(stage, v)
	require.NoError(t, err)
	return k
}
