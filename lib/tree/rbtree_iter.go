package tree

import (
	"iter"

	"github.com/eapache/queue"

	"github.com/benz9527/xtree/lib/arena"
)

var (
	_ Iterator[int] = (*dfsIter[int])(nil)
	_ Iterator[int] = (*bfsIter[int])(nil)
)

// dfsIter is the pre-order iterator driven by an explicit slot stack.
// The right child is pushed before the left child, so the left subtree
// is visited first.
type dfsIter[T any] struct {
	tree  *rbTree[T]
	stack []arena.SlotID
}

func (it *dfsIter[T]) HasNext() bool {
	return len(it.stack) > 0
}

func (it *dfsIter[T]) Next() (val T, ok bool) {
	l := len(it.stack)
	if l <= 0 {
		return val, false
	}

	id := it.stack[l-1]
	it.stack = it.stack[:l-1]
	x := it.tree.node(id)
	if !x.right.IsNil() {
		it.stack = append(it.stack, x.right)
	}
	if !x.left.IsNil() {
		it.stack = append(it.stack, x.left)
	}
	return x.val, true
}

// bfsIter is the level-order iterator driven by a FIFO slot queue.
type bfsIter[T any] struct {
	tree  *rbTree[T]
	queue *queue.Queue
}

func (it *bfsIter[T]) HasNext() bool {
	return it.queue.Length() > 0
}

func (it *bfsIter[T]) Next() (val T, ok bool) {
	if it.queue.Length() <= 0 {
		return val, false
	}

	id := it.queue.Remove().(arena.SlotID)
	x := it.tree.node(id)
	if !x.left.IsNil() {
		it.queue.Add(x.left)
	}
	if !x.right.IsNil() {
		it.queue.Add(x.right)
	}
	return x.val, true
}

// Create a new iterator w/ a stack for DFS traversal.
func (tree *rbTree[T]) DfsIter() Iterator[T] {
	it := &dfsIter[T]{
		tree:  tree,
		stack: make([]arena.SlotID, 0, 32),
	}
	if !tree.root.IsNil() {
		it.stack = append(it.stack, tree.root)
	}
	return it
}

// Create a new iterator w/ a queue for BFS traversal.
func (tree *rbTree[T]) BfsIter() Iterator[T] {
	it := &bfsIter[T]{
		tree:  tree,
		queue: queue.New(),
	}
	if !tree.root.IsNil() {
		it.queue.Add(tree.root)
	}
	return it
}

// Dfs adapts DfsIter to range-over-func. Every range creates a fresh
// iterator, so the sequence can be ranged again after the tree changed.
func (tree *rbTree[T]) Dfs() iter.Seq[T] {
	return func(yield func(T) bool) {
		drain(tree.DfsIter(), yield)
	}
}

func (tree *rbTree[T]) Bfs() iter.Seq[T] {
	return func(yield func(T) bool) {
		drain(tree.BfsIter(), yield)
	}
}

func drain[T any](it Iterator[T], yield func(T) bool) {
	for val, ok := it.Next(); ok; val, ok = it.Next() {
		if !yield(val) {
			return
		}
	}
}
