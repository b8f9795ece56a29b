package tree

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
)

func isBlack[T any](node RBNode[T]) bool {
	return node == nil || node.Color() == Black
}

func isRed[T any](node RBNode[T]) bool {
	return node != nil && node.Color() == Red
}

func isRoot[T any](node RBNode[T]) bool {
	return node != nil && node.Parent() == nil
}

func blackDepthTo[T any](target, to RBNode[T]) int {
	depth := 0
	for aux := target; aux != nil && aux != to; aux = aux.Parent() {
		if isBlack[T](aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func RootColorValidate[T any](tree RBTree[T]) error {
	if root := tree.Root(); root != nil && root.Color() != Black {
		return errors.New("rbtree root is not black")
	}
	return nil
}

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[T any](tree RBTree[T]) error {
	size := tree.Len()
	aux := tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	stack := make([]RBNode[T], 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		if aux = stack[size-1]; isRed[T](aux) {
			if (!isRoot[T](aux) && isRed[T](aux.Parent())) ||
				(isRed[T](aux.Left()) || isRed[T](aux.Right())) {
				return fmt.Errorf("rbtree red violation at %v", aux.Val())
			}
		}

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// BFS traversal to load all nodes owning at least one NIL leaf.
func bfsLeaves[T any](tree RBTree[T]) []RBNode[T] {
	size := tree.Len()
	aux := tree.Root()
	if size <= 0 || aux == nil {
		return nil
	}

	leaves := make([]RBNode[T], 0, size>>1+1)
	queue := make([]RBNode[T], 0, size>>1+1)
	defer func() {
		clear(queue)
	}()
	queue = append(queue, aux)

	for len(queue) > 0 {
		aux = queue[0]
		l, r := aux.Left(), aux.Right()
		if /* nil leaves, keep one */ l == nil || r == nil {
			leaves = append(leaves, aux)
		}
		if l != nil {
			queue = append(queue, l)
		}
		if r != nil {
			queue = append(queue, r)
		}
		queue = queue[1:]
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
	        /  \
	     <8>    [15]
	     / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

2-3-4 tree like:

	       <8> --- [13] --- <15>
	      /  \             /    \
	     /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[T any](tree RBTree[T]) error {
	leaves := bfsLeaves[T](tree)
	if leaves == nil {
		return nil
	}

	root := tree.Root()
	blackDepth := blackDepthTo[T](leaves[0], root)
	for i := 1; i < len(leaves); i++ {
		if depth := blackDepthTo[T](leaves[i], root); depth != blackDepth {
			return fmt.Errorf("rbtree black violation at %v, black depth %d, expected %d",
				leaves[i].Val(), depth, blackDepth)
		}
	}
	return nil
}

// OrderValidate checks the strict ascending in-order sequence, the parent
// links and the node count in one in-order pass.
func OrderValidate[T any](tree RBTree[T], cmp infra.Comparator[T]) error {
	aux := tree.Root()
	if aux == nil {
		if tree.Len() != 0 {
			return fmt.Errorf("rbtree size %d with nil root", tree.Len())
		}
		return nil
	}
	if aux.Parent() != nil {
		return errors.New("rbtree root has a parent")
	}

	var (
		stack   = make([]RBNode[T], 0, 32)
		prev    RBNode[T]
		visited int64
	)
	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}
	for l := len(stack); l > 0; l = len(stack) {
		aux = stack[l-1]
		stack = stack[:l-1]
		visited++

		if prev != nil && cmp(prev.Val(), aux.Val()) >= 0 {
			return fmt.Errorf("rbtree order violation between %v and %v", prev.Val(), aux.Val())
		}
		for _, child := range []RBNode[T]{aux.Left(), aux.Right()} {
			if child != nil && child.Parent() != aux {
				return fmt.Errorf("rbtree broken parent link under %v", aux.Val())
			}
		}
		prev = aux

		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}

	if visited != tree.Len() {
		return fmt.Errorf("rbtree size %d, but %d nodes reachable", tree.Len(), visited)
	}
	return nil
}

// HeightValidate checks the height bound 2*log2(n+1) of a red-black tree.
func HeightValidate[T any](tree RBTree[T]) error {
	n, h := tree.Len(), tree.Height()
	if bound := 2 * math.Log2(float64(n+1)); float64(h) > bound {
		return fmt.Errorf("rbtree height %d exceeds bound %.2f of %d nodes", h, bound, n)
	}
	return nil
}

// Validate combines all the rbtree rules.
func Validate[T any](tree RBTree[T], cmp infra.Comparator[T]) error {
	return multierr.Combine(
		RootColorValidate[T](tree),
		RedViolationValidate[T](tree),
		BlackViolationValidate[T](tree),
		OrderValidate[T](tree, cmp),
		HeightValidate[T](tree),
	)
}
