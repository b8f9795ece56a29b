package tree

import (
	"iter"
	"strconv"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(" + strconv.Itoa(int(c)) + ")"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "RBDirection(" + strconv.Itoa(int(d)) + ")"
}

// RBNode is the read-only view of a tree node.
// Left, Right and Parent return nil if the link is absent.
type RBNode[T any] interface {
	Val() T
	Color() RBColor
	Left() RBNode[T]
	Right() RBNode[T]
	Parent() RBNode[T]
}

// Iterator is a lazy, single-use sequence of values.
// It reads the tree while stepping, so the tree must not be
// mutated until the iterator is drained or dropped.
type Iterator[T any] interface {
	HasNext() bool
	Next() (T, bool)
}

type RBTreeStats struct {
	Nodes     int64
	Inserts   int64
	Removes   int64
	Rotations int64
}

// RBTree is an ordered set of unique values, balanced by
// the red-black rules. Not thread safe.
type RBTree[T any] interface {
	Len() int64
	Root() RBNode[T]
	Height() int
	Insert(val T) bool
	Remove(val T) error
	RemoveMin() (T, error)
	Contains(val T) bool
	Min() (T, bool)
	Max() (T, bool)
	// DfsIter visits in pre-order.
	DfsIter() Iterator[T]
	// BfsIter visits in level-order.
	BfsIter() Iterator[T]
	Dfs() iter.Seq[T]
	Bfs() iter.Seq[T]
	// Foreach visits in-order (sorted by the comparator).
	Foreach(action func(idx int64, color RBColor, val T) bool)
	Validate() error
	Stats() RBTreeStats
	Release()
}
