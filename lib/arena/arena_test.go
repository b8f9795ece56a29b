package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type xObject struct {
	id   string
	refs int
}

func TestArena_AllocateAndGet(t *testing.T) {
	arena := New[xObject](4)
	ids := make([]SlotID, 0, 10)
	for i := 0; i < 10; i++ {
		ids = append(ids, arena.Allocate(xObject{refs: i}))
	}
	require.Equal(t, int64(10), arena.Len())
	require.Equal(t, int64(10), arena.Cap())
	require.Len(t, arena.chunks, 3)

	for i, id := range ids {
		require.False(t, id.IsNil())
		require.Equal(t, uint32(i), id.Index())
		require.Equal(t, uint32(1), id.Generation())
		require.Equal(t, i, arena.Get(id).refs)
	}

	// Pointers are stable while the arena grows.
	first := arena.Get(ids[0])
	for i := 0; i < 100; i++ {
		arena.Allocate(xObject{})
	}
	first.id = "first"
	require.Equal(t, "first", arena.Get(ids[0]).id)
}

func TestArena_FreeAndRecycle(t *testing.T) {
	arena := New[xObject](2)
	a := arena.Allocate(xObject{id: "a"})
	b := arena.Allocate(xObject{id: "b"})

	arena.Free(a)
	require.Equal(t, int64(1), arena.Len())
	_, ok := arena.Lookup(a)
	require.False(t, ok)

	c := arena.Allocate(xObject{id: "c"})
	require.Equal(t, a.Index(), c.Index())
	require.Equal(t, uint32(2), c.Generation())
	require.NotEqual(t, a, c)

	// The stale identifier never resolves to the new tenant.
	_, ok = arena.Lookup(a)
	require.False(t, ok)
	require.Equal(t, "c", arena.Get(c).id)
	require.Equal(t, "b", arena.Get(b).id)
	require.Equal(t, int64(2), arena.Cap())
}

func TestArena_InvalidSlots(t *testing.T) {
	testcases := []struct {
		name string
		id   SlotID
	}{
		{"nil", Nil},
		{"out of bounds", SlotID{idx: 100, gen: 1}},
		{"wrong generation", SlotID{idx: 0, gen: 7}},
	}
	arena := New[xObject](0)
	arena.Allocate(xObject{})
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			_, ok := arena.Lookup(tc.id)
			require.False(tt, ok)
			require.Panics(tt, func() { arena.Get(tc.id) })
			require.Panics(tt, func() { arena.Free(tc.id) })
		})
	}
}

func TestArena_DoubleFree(t *testing.T) {
	arena := New[int](8)
	id := arena.Allocate(1)
	arena.Free(id)
	require.Panics(t, func() { arena.Free(id) })
}

func TestArena_Reset(t *testing.T) {
	arena := New[int](3)
	ids := []SlotID{arena.Allocate(1), arena.Allocate(2), arena.Allocate(3), arena.Allocate(4)}
	arena.Reset()
	require.Equal(t, int64(0), arena.Len())
	for _, id := range ids {
		_, ok := arena.Lookup(id)
		require.False(t, ok)
	}

	id := arena.Allocate(5)
	require.Equal(t, uint32(0), id.Index())
	require.Equal(t, uint32(2), id.Generation())
	require.Equal(t, int64(4), arena.Cap())
}

func TestArena_RetireExhaustedGeneration(t *testing.T) {
	arena := New[int](4)
	a := arena.Allocate(1)
	b := arena.Allocate(2)

	arena.at(a.Index()).gen = maxGeneration
	a = SlotID{idx: a.Index(), gen: maxGeneration}
	arena.Free(a)
	_, ok := arena.Lookup(a)
	require.False(t, ok)

	// The exhausted index is never handed out again.
	c := arena.Allocate(3)
	require.NotEqual(t, a.Index(), c.Index())
	require.Equal(t, uint32(2), c.Index())
	require.Equal(t, uint32(1), c.Generation())

	arena.Reset()
	for _, id := range []SlotID{arena.Allocate(4), arena.Allocate(5)} {
		require.NotEqual(t, a.Index(), id.Index())
		require.Greater(t, id.Generation(), uint32(1))
	}
	_, ok = arena.Lookup(b)
	require.False(t, ok)
}

func TestSlotIDString(t *testing.T) {
	require.Equal(t, "slot(nil)", Nil.String())
	require.Equal(t, "slot(3#2)", SlotID{idx: 3, gen: 2}.String())
}
