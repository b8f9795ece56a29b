package arena

import (
	"strconv"
)

// SlotID is the stable identifier of an arena entry.
// The zero value is Nil and never handed out, because
// the generations start from 1.
type SlotID struct {
	idx uint32
	gen uint32
}

var Nil = SlotID{}

const maxGeneration = ^uint32(0)

func (id SlotID) IsNil() bool {
	return id.gen == 0
}

func (id SlotID) Index() uint32 {
	return id.idx
}

func (id SlotID) Generation() uint32 {
	return id.gen
}

func (id SlotID) String() string {
	if id.IsNil() {
		return "slot(nil)"
	}
	return "slot(" + strconv.FormatUint(uint64(id.idx), 10) + "#" + strconv.FormatUint(uint64(id.gen), 10) + ")"
}

type entry[T any] struct {
	val  T
	gen  uint32
	live bool
}

// Arena is a generation checked slot table.
// Entries live in fixed capacity chunks, so the pointers returned
// by Get stay valid while the arena grows.
// Not thread safe.
type Arena[T any] struct {
	chunks   [][]entry[T]
	recycled []uint32 // free indices, LIFO
	chunkCap uint32
	next     uint32 // next never allocated index
	live     int64
}

func New[T any](chunkCap uint32) *Arena[T] {
	if chunkCap == 0 {
		chunkCap = 64
	}
	return &Arena[T]{
		chunks:   make([][]entry[T], 0, 8),
		recycled: make([]uint32, 0, chunkCap),
		chunkCap: chunkCap,
	}
}

func (arena *Arena[T]) at(idx uint32) *entry[T] {
	return &arena.chunks[idx/arena.chunkCap][idx%arena.chunkCap]
}

// Allocate stores v and returns its identifier.
// A recycled index is reused first, with its generation increased
// so that the stale identifiers never match it again.
func (arena *Arena[T]) Allocate(v T) SlotID {
	var idx uint32
	if rl := len(arena.recycled); rl > 0 {
		idx = arena.recycled[rl-1]
		arena.recycled = arena.recycled[:rl-1]
	} else {
		if arena.next == ^uint32(0) {
			panic( /* debug assertion */ "[arena] slot index overflow")
		}
		idx = arena.next
		arena.next++
		if int(idx/arena.chunkCap) >= len(arena.chunks) {
			arena.chunks = append(arena.chunks, make([]entry[T], arena.chunkCap))
		}
	}

	e := arena.at(idx)
	// Exhausted generations are retired on free, so no wrap here.
	e.gen++
	e.val = v
	e.live = true
	arena.live++
	return SlotID{idx: idx, gen: e.gen}
}

// Lookup returns the entry referenced by id, or false if id is nil,
// out of bounds, freed or stale.
func (arena *Arena[T]) Lookup(id SlotID) (*T, bool) {
	if id.IsNil() || id.idx >= arena.next {
		return nil, false
	}
	e := arena.at(id.idx)
	if !e.live || e.gen != id.gen {
		return nil, false
	}
	return &e.val, true
}

// Get is the Lookup that treats an invalid id as a broken invariant.
func (arena *Arena[T]) Get(id SlotID) *T {
	v, ok := arena.Lookup(id)
	if !ok {
		panic( /* debug assertion */ "[arena] dereference invalid " + id.String())
	}
	return v
}

// Free removes the entry and invalidates id permanently.
func (arena *Arena[T]) Free(id SlotID) {
	if _, ok := arena.Lookup(id); !ok {
		panic( /* debug assertion */ "[arena] free invalid " + id.String())
	}
	e := arena.at(id.idx)
	var zero T
	e.val = zero
	e.live = false
	arena.live--
	if e.gen == maxGeneration {
		// Retired, a reuse would wrap to a generation of stale ids.
		return
	}
	arena.recycled = append(arena.recycled, id.idx)
}

// Len returns the live entries count.
func (arena *Arena[T]) Len() int64 {
	return arena.live
}

// Cap returns how many slots have been touched so far.
func (arena *Arena[T]) Cap() int64 {
	return int64(arena.next)
}

// Reset frees all entries. The chunks are kept and every
// identifier handed out before turns stale.
func (arena *Arena[T]) Reset() {
	var zero T
	arena.recycled = arena.recycled[:0]
	for idx := arena.next; idx > 0; idx-- {
		e := arena.at(idx - 1)
		e.val = zero
		e.live = false
		if e.gen == maxGeneration {
			continue
		}
		arena.recycled = append(arena.recycled, idx-1)
	}
	arena.live = 0
}
