package tree

import (
	"sync/atomic"

	"github.com/benz9527/xtree/lib/arena"
)

// Binary search core. Balancing policy free, it only knows the comparator
// and hands over to the rebalance functions.

// findNodeIndex walks down from root, turns left if the value is less than
// the current node, right if greater.
func (tree *rbTree[T]) findNodeIndex(val T) arena.SlotID {
	for aux := tree.root; !aux.IsNil(); {
		x := tree.node(aux)
		res := tree.cmp(val, x.val)
		if /* equal */ res == 0 {
			return aux
		} else /* less */ if res < 0 {
			aux = x.left
		} else /* greater */ {
			aux = x.right
		}
	}
	return arena.Nil
}

// insertLeaf attaches a new red leaf at the first absent child slot.
// The equal value is rejected, so the tree stays a set.
// i1: Empty rbtree, the new node becomes root and is painted black by rebalance.
func (tree *rbTree[T]) insertLeaf(val T) (arena.SlotID, bool) {
	if /* i1 */ tree.root.IsNil() {
		z := tree.nodes.Allocate(rbNode[T]{
			val:   val,
			color: Red,
		})
		tree.root = z
		tree.insertRebalance(z)
		atomic.AddInt64(&tree.count, 1)
		atomic.AddInt64(&tree.inserts, 1)
		return z, true
	}

	var (
		x, y = tree.root, arena.Nil
		res  int64
	)
	for !x.IsNil() {
		y = x
		xn := tree.node(x)
		res = tree.cmp(val, xn.val)
		if /* equal */ res == 0 {
			return x, false
		} else /* less */ if res < 0 {
			x = xn.left
		} else /* greater */ {
			x = xn.right
		}
	}

	if y.IsNil() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] insert a new value into nil node")
	}

	z := tree.nodes.Allocate(rbNode[T]{
		val:    val,
		color:  Red,
		parent: y,
	})
	if /* less */ res < 0 {
		tree.node(y).left = z
	} else /* greater */ {
		tree.node(y).right = z
	}

	atomic.AddInt64(&tree.count, 1)
	atomic.AddInt64(&tree.inserts, 1)
	tree.insertRebalance(z)
	return z, true
}

// transplant puts the subtree rooted at v to the position of u.
// u's own links are left untouched.
func (tree *rbTree[T]) transplant(u, v arena.SlotID) {
	p := tree.node(u).parent
	switch dir := tree.direction(u); dir {
	case Root:
		tree.root = v
	case Left:
		tree.node(p).left = v
	case Right:
		tree.node(p).right = v
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to transplant")
	}
	if !v.IsNil() {
		tree.node(v).parent = p
	}
}

/*
r1: Only a root node, remove directly.

r2: Current node Z has left and right node.
Find node Z's succ (or pred) Y to be removed instead.
Copy the value only. Y has one child at most.

	  |                    |
	  Z                    Y
	 / \                  / \
	L  ..   copy(Y, Z)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  Y  ..                Y  ..  (unlink)

r3: (1) Y is a red leaf node, unlink directly.

r3: (2) Y is a black leaf node, rebalance while Y is still linked,
it stands for the NIL leaf carrying the extra black. (black-violation)

r4: Y is not a leaf node but contains a not nil child node.
The child node must be a red node, repaint it into black after splice.
*/
func (tree *rbTree[T]) removeLeaf(z arena.SlotID) T {
	zn := tree.node(z)
	removed := zn.val

	y := z
	if /* r2 */ !zn.left.IsNil() && !zn.right.IsNil() {
		if tree.isRmBorrowPred {
			y = tree.pred(z)
		} else {
			y = tree.succ(z)
		}
		zn.val = tree.node(y).val
	}

	yn := tree.node(y)
	replace := yn.left
	if replace.IsNil() {
		replace = yn.right
	}

	if /* r1 */ yn.parent.IsNil() && replace.IsNil() {
		tree.root = arena.Nil
	} else if /* r3 */ replace.IsNil() {
		if /* r3 (2) */ yn.color == Black {
			tree.removeRebalance(y)
		}
		tree.transplant(y, arena.Nil)
	} else /* r4 */ {
		tree.transplant(y, replace)
		if yn.color == Black {
			if tree.isRed(replace) {
				tree.node(replace).color = Black
			} else {
				tree.removeRebalance(replace)
			}
		}
	}

	tree.nodes.Free(y)
	atomic.AddInt64(&tree.count, -1)
	atomic.AddInt64(&tree.removes, 1)
	return removed
}
