package tree

import (
	"github.com/benz9527/xtree/lib/arena"
)

// rbNode is the record kept in the arena. The color lives inside
// the record, so freeing a slot drops its color at the same time.
type rbNode[T any] struct {
	parent arena.SlotID
	left   arena.SlotID
	right  arena.SlotID
	val    T
	color  RBColor
}

var _ RBNode[int] = rbNodeRef[int]{}

// rbNodeRef exposes a live node through the RBNode interface.
// It is only valid until the next mutation of the tree.
type rbNodeRef[T any] struct {
	tree *rbTree[T]
	id   arena.SlotID
}

func (ref rbNodeRef[T]) node() *rbNode[T] {
	return ref.tree.node(ref.id)
}

func (ref rbNodeRef[T]) Val() T {
	return ref.node().val
}

func (ref rbNodeRef[T]) Color() RBColor {
	return ref.node().color
}

func (ref rbNodeRef[T]) Left() RBNode[T] {
	return ref.tree.nodeRef(ref.node().left)
}

func (ref rbNodeRef[T]) Right() RBNode[T] {
	return ref.tree.nodeRef(ref.node().right)
}

func (ref rbNodeRef[T]) Parent() RBNode[T] {
	return ref.tree.nodeRef(ref.node().parent)
}

func (tree *rbTree[T]) nodeRef(id arena.SlotID) RBNode[T] {
	if id.IsNil() {
		return nil
	}
	return rbNodeRef[T]{tree: tree, id: id}
}

func (tree *rbTree[T]) node(id arena.SlotID) *rbNode[T] {
	return tree.nodes.Get(id)
}

// Absent links are the black NIL leaves.
func (tree *rbTree[T]) isRed(id arena.SlotID) bool {
	return !id.IsNil() && tree.node(id).color == Red
}

func (tree *rbTree[T]) isBlack(id arena.SlotID) bool {
	return !tree.isRed(id)
}

func (tree *rbTree[T]) direction(id arena.SlotID) RBDirection {
	if id.IsNil() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	p := tree.node(id).parent
	if p.IsNil() {
		return Root
	}
	if tree.node(p).left == id {
		return Left
	}
	return Right
}

func (tree *rbTree[T]) sibling(id arena.SlotID) arena.SlotID {
	switch dir := tree.direction(id); dir {
	case Left:
		return tree.node(tree.node(id).parent).right
	case Right:
		return tree.node(tree.node(id).parent).left
	default:
	}
	return arena.Nil
}

func (tree *rbTree[T]) minimum(id arena.SlotID) arena.SlotID {
	aux := id
	for !aux.IsNil() {
		l := tree.node(aux).left
		if l.IsNil() {
			break
		}
		aux = l
	}
	return aux
}

func (tree *rbTree[T]) maximum(id arena.SlotID) arena.SlotID {
	aux := id
	for !aux.IsNil() {
		r := tree.node(aux).right
		if r.IsNil() {
			break
		}
		aux = r
	}
	return aux
}

// The pred node of the current node is its previous node in sorted order.
func (tree *rbTree[T]) pred(id arena.SlotID) arena.SlotID {
	if id.IsNil() {
		return arena.Nil
	}
	x := tree.node(id)
	if !x.left.IsNil() {
		return tree.maximum(x.left)
	}

	// Backtrack to father node that is the x's pred.
	aux, p := id, x.parent
	for !p.IsNil() && tree.node(p).left == aux {
		aux = p
		p = tree.node(p).parent
	}
	return p
}

// The succ node of the current node is its next node in sorted order.
func (tree *rbTree[T]) succ(id arena.SlotID) arena.SlotID {
	if id.IsNil() {
		return arena.Nil
	}
	x := tree.node(id)
	if !x.right.IsNil() {
		return tree.minimum(x.right)
	}

	// Backtrack to father node that is the x's succ.
	aux, p := id, x.parent
	for !p.IsNil() && tree.node(p).right == aux {
		aux = p
		p = tree.node(p).parent
	}
	return p
}
