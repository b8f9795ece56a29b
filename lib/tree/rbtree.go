package tree

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/arena"
	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/xlog"
)

const defaultArenaChunk = 256

var _ RBTree[int] = (*rbTree[int])(nil)

type rbTree[T any] struct {
	nodes          *arena.Arena[rbNode[T]]
	cmp            infra.Comparator[T]
	logger         xlog.XLogger
	root           arena.SlotID
	count          int64
	inserts        int64
	removes        int64
	rotations      int64
	arenaChunk     uint32
	isDesc         bool
	isRmBorrowPred bool
}

func (tree *rbTree[T]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[T]) Root() RBNode[T] {
	return tree.nodeRef(tree.root)
}

func (tree *rbTree[T]) Stats() RBTreeStats {
	return RBTreeStats{
		Nodes:     atomic.LoadInt64(&tree.count),
		Inserts:   atomic.LoadInt64(&tree.inserts),
		Removes:   atomic.LoadInt64(&tree.removes),
		Rotations: atomic.LoadInt64(&tree.rotations),
	}
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// The longest path nodes' number is 2 * shortest path nodes' number.

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[T]) leftRotate(x arena.SlotID) {
	xn := tree.node(x)
	if xn.right.IsNil() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x.right is nil")
	}

	p, y, dir := xn.parent, xn.right, tree.direction(x)
	yn := tree.node(y)
	xn.right, yn.left = yn.left, x
	if !xn.right.IsNil() {
		tree.node(xn.right).parent = x
	}
	xn.parent = y
	tree.relink(p, y, dir)
}

/*
		 |                         |
		 X                         L
		/ \     rightRotate(X)    / \
	   L   S    ============>   Lc   X
	  / \                           / \
	Lc   Ld                       Ld   S
*/
func (tree *rbTree[T]) rightRotate(x arena.SlotID) {
	xn := tree.node(x)
	if xn.left.IsNil() {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x.left is nil")
	}

	p, y, dir := xn.parent, xn.left, tree.direction(x)
	yn := tree.node(y)
	xn.left, yn.right = yn.right, x
	if !xn.left.IsNil() {
		tree.node(xn.left).parent = x
	}
	xn.parent = y
	tree.relink(p, y, dir)
}

// relink hangs the rotated subtree root y under p at the old direction.
func (tree *rbTree[T]) relink(p, y arena.SlotID, dir RBDirection) {
	switch dir {
	case Root:
		tree.root = y
	case Left:
		tree.node(p).left = y
	case Right:
		tree.node(p).right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to rotate")
	}
	tree.node(y).parent = p
	atomic.AddInt64(&tree.rotations, 1)
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Current node X's parent P is black, so hold p3 and p4.

im2: Current node X's parent P is red and P is root, repaint P into black.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Recursive to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[T]) insertRebalance(x arena.SlotID) {
	for !x.IsNil() {
		xn := tree.node(x)
		if xn.parent.IsNil() {
			xn.color = Black
			return
		}

		p := xn.parent
		pn := tree.node(p)
		if /* im1 */ pn.color == Black {
			return
		}

		if /* im2 */ pn.parent.IsNil() {
			pn.color = Black
			return
		}

		g := pn.parent
		if u := tree.sibling(p); /* im3 */ tree.isRed(u) {
			pn.color = Black
			tree.node(u).color = Black
			tree.node(g).color = Red
			x = g
			continue
		}

		pdir := tree.direction(p)
		if dir := tree.direction(x); /* im4 */ dir != pdir {
			switch dir {
			case Left:
				tree.rightRotate(p)
			case Right:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] insert violate (im4)")
			}
			p, pn = x, xn // enter im5 to fix
		}

		switch /* im5 */ pdir {
		case Left:
			tree.rightRotate(g)
		case Right:
			tree.leftRotate(g)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] insert violate (im5)")
		}
		pn.color = Black
		tree.node(g).color = Red
		return
	}
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) X is left node of P, left rotate P
(2) X is right node of P, right rotate P.
(3) repaint S into black, P into red.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  ======>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
is black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Paint the S into red to satisfy p4 locally. Then recursive to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, right rotate S.
(2) If X is right node of P, left rotate S.
(3) Repaint S into red, Sc into black
Enter into rm5 to fix.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm5: Current node X's sibling S is black, nephew node Sd is red.
Ignore X's parent P's color (red or black is okay)
(1) If X is left node of P, left rotate P.
(2) If X is right node of P, right rotate P.
(3) Swap P and S's color.
(4) Repaint Sd into black.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[T]) removeRebalance(x arena.SlotID) {
	for {
		if tree.node(x).parent.IsNil() {
			// Root absorbs the extra black.
			return
		}

		p, dir := tree.node(x).parent, tree.direction(x)
		s := tree.sibling(x)
		if /* rm1 */ tree.isRed(s) {
			switch dir {
			case Left:
				tree.leftRotate(p)
			case Right:
				tree.rightRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm1)")
			}
			tree.node(s).color = Black
			tree.node(p).color = Red // ready to enter rm2
			s = tree.sibling(x)
		}

		if s.IsNil() {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove black node without sibling")
		}

		sn := tree.node(s)
		var sc, sd arena.SlotID
		switch dir {
		case Left:
			sc, sd = sn.left, sn.right
		case Right:
			sc, sd = sn.right, sn.left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm2)")
		}

		if tree.isBlack(sc) && tree.isBlack(sd) {
			sn.color = Red
			if /* rm2 */ tree.isRed(p) {
				tree.node(p).color = Black
				return
			}
			/* rm3 */
			x = p
			continue
		}

		if /* rm4 */ tree.isBlack(sd) {
			switch dir {
			case Left:
				tree.rightRotate(s)
			case Right:
				tree.leftRotate(s)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[rbtree] remove violate (rm4)")
			}
			tree.node(sc).color = Black
			sn.color = Red
			s, sd = sc, s
			sn = tree.node(s)
		}

		switch /* rm5 */ dir {
		case Left:
			tree.leftRotate(p)
		case Right:
			tree.rightRotate(p)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] remove violate (rm5)")
		}
		pn := tree.node(p)
		sn.color = pn.color
		pn.color = Black
		tree.node(sd).color = Black
		return
	}
}

func (tree *rbTree[T]) Insert(val T) bool {
	_, ok := tree.insertLeaf(val)
	return ok
}

func (tree *rbTree[T]) Remove(val T) error {
	z := tree.findNodeIndex(val)
	if z.IsNil() {
		tree.logger.Debug("[rbtree] remove absent value", zap.Any("val", val))
		return infra.WrapErrorStackWithMessage(ErrNodeNotFound, "[rbtree] remove")
	}
	tree.removeLeaf(z)
	return nil
}

func (tree *rbTree[T]) RemoveMin() (T, error) {
	if tree.root.IsNil() {
		var zero T
		return zero, infra.WrapErrorStackWithMessage(ErrNodeNotFound, "[rbtree] remove min from empty tree")
	}
	return tree.removeLeaf(tree.minimum(tree.root)), nil
}

func (tree *rbTree[T]) Contains(val T) bool {
	return !tree.findNodeIndex(val).IsNil()
}

func (tree *rbTree[T]) Min() (val T, ok bool) {
	if tree.root.IsNil() {
		return val, false
	}
	return tree.node(tree.minimum(tree.root)).val, true
}

func (tree *rbTree[T]) Max() (val T, ok bool) {
	if tree.root.IsNil() {
		return val, false
	}
	return tree.node(tree.maximum(tree.root)).val, true
}

// Height counts the nodes on the longest root to leaf path.
func (tree *rbTree[T]) Height() int {
	if tree.root.IsNil() {
		return 0
	}

	height := 0
	level := []arena.SlotID{tree.root}
	next := make([]arena.SlotID, 0, 2)
	for len(level) > 0 {
		height++
		for _, id := range level {
			x := tree.node(id)
			if !x.left.IsNil() {
				next = append(next, x.left)
			}
			if !x.right.IsNil() {
				next = append(next, x.right)
			}
		}
		level, next = next, level[:0]
	}
	return height
}

// Inorder traversal to implement the sorted visit.
func (tree *rbTree[T]) Foreach(action func(idx int64, color RBColor, val T) bool) {
	size := atomic.LoadInt64(&tree.count)
	aux := tree.root
	if size <= 0 || aux.IsNil() {
		return
	}

	stack := make([]arena.SlotID, 0, size>>1)
	defer func() {
		clear(stack)
	}()

	for ; !aux.IsNil(); aux = tree.node(aux).left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size = int64(len(stack)); size > 0; size = int64(len(stack)) {
		x := tree.node(stack[size-1])
		if !action(idx, x.color, x.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = x.right; !aux.IsNil(); aux = tree.node(aux).left {
			stack = append(stack, aux)
		}
	}
}

func (tree *rbTree[T]) Validate() error {
	return Validate[T](tree, tree.cmp)
}

// Release drops all nodes at once. The identifiers handed out before
// are stale afterwards, so the old iterators panic instead of reading
// recycled slots.
func (tree *rbTree[T]) Release() {
	released := atomic.SwapInt64(&tree.count, 0)
	tree.root = arena.Nil
	tree.nodes.Reset()
	tree.logger.Debug("[rbtree] released", zap.Int64("nodes", released))
}

type RBTreeOpt[T any] func(*rbTree[T])

func WithRBTreeDesc[T any]() RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		tree.isDesc = true
	}
}

func WithRBTreeRemoveBorrowPred[T any]() RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		tree.isRmBorrowPred = true
	}
}

func WithRBTreeLogger[T any](logger xlog.XLogger) RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		if logger != nil {
			tree.logger = logger.Named("rbtree")
		}
	}
}

func WithRBTreeArenaChunk[T any](n uint32) RBTreeOpt[T] {
	return func(tree *rbTree[T]) {
		if n > 0 {
			tree.arenaChunk = n
		}
	}
}

// NewRBTree creates a set of the built-in ordered types.
func NewRBTree[T infra.OrderedKey](opts ...RBTreeOpt[T]) RBTree[T] {
	return newRBTree[T](infra.AscComparator[T](), opts...)
}

// NewRBTreeFunc creates a set ordered by cmp, which must be a total order.
func NewRBTreeFunc[T any](cmp infra.Comparator[T], opts ...RBTreeOpt[T]) RBTree[T] {
	if cmp == nil {
		panic( /* debug assertion */ "[rbtree] nil comparator")
	}
	return newRBTree[T](cmp, opts...)
}

func newRBTree[T any](cmp infra.Comparator[T], opts ...RBTreeOpt[T]) *rbTree[T] {
	tree := &rbTree[T]{
		cmp:            cmp,
		root:           arena.Nil,
		arenaChunk:     defaultArenaChunk,
		isDesc:         false,
		isRmBorrowPred: false,
	}

	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}

	if tree.isDesc {
		tree.cmp = infra.Reverse(tree.cmp)
	}
	if tree.logger == nil {
		tree.logger = xlog.NewNopXLogger()
	}
	tree.nodes = arena.New[rbNode[T]](tree.arenaChunk)
	return tree
}
