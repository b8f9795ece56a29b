package tree

import (
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func drainIter[T any](it Iterator[T]) []T {
	res := make([]T, 0, 8)
	for it.HasNext() {
		val, ok := it.Next()
		if !ok {
			break
		}
		res = append(res, val)
	}
	return res
}

func TestRbtreeIter_Small(t *testing.T) {
	tree := NewRBTree[int]()
	for _, val := range []int{5, 3, 8} {
		tree.Insert(val)
	}
	require.Equal(t, []int{5, 3, 8}, drainIter(tree.DfsIter()))
	require.Equal(t, []int{5, 3, 8}, drainIter(tree.BfsIter()))
}

func TestRbtreeIter_Traversal(t *testing.T) {
	tree := NewRBTree[int]()
	for _, val := range []int{5, 3, 8, 1, 4, 7, 9} {
		tree.Insert(val)
	}
	// 5B(3B(1R,4R),8B(7R,9R))
	require.Equal(t, []int{5, 3, 1, 4, 8, 7, 9}, drainIter(tree.DfsIter()))
	require.Equal(t, []int{5, 3, 8, 1, 4, 7, 9}, drainIter(tree.BfsIter()))
	require.Equal(t, []int{5, 3, 1, 4, 8, 7, 9}, slices.Collect(tree.Dfs()))
	require.Equal(t, []int{5, 3, 8, 1, 4, 7, 9}, slices.Collect(tree.Bfs()))
}

func TestRbtreeIter_Exhausted(t *testing.T) {
	tree := NewRBTree[int]()
	tree.Insert(1)

	for _, it := range []Iterator[int]{tree.DfsIter(), tree.BfsIter()} {
		require.True(t, it.HasNext())
		val, ok := it.Next()
		require.True(t, ok)
		require.Equal(t, 1, val)
		require.False(t, it.HasNext())
		_, ok = it.Next()
		require.False(t, ok)
	}
}

func TestRbtreeIter_SeqBreakAndRestart(t *testing.T) {
	tree := NewRBTree[int]()
	for i := 0; i < 64; i++ {
		tree.Insert(i)
	}

	seq := tree.Dfs()
	taken := make([]int, 0, 3)
	for val := range seq {
		taken = append(taken, val)
		if len(taken) == 3 {
			break
		}
	}
	require.Len(t, taken, 3)

	// Ranging again starts from the root.
	again := slices.Collect(seq)
	require.Len(t, again, 64)
	require.Equal(t, taken, again[:3])

	tree.Insert(64)
	require.Len(t, slices.Collect(seq), 65)
	require.Len(t, slices.Collect(tree.Bfs()), 65)
}

func TestRbtreeIter_VisitAllOnce(t *testing.T) {
	values := lo.Shuffle(lo.Range(2048))
	tree := NewRBTree[int]()
	for _, val := range values {
		tree.Insert(val)
	}

	for name, got := range map[string][]int{
		"dfs": drainIter(tree.DfsIter()),
		"bfs": drainIter(tree.BfsIter()),
	} {
		t.Run(name, func(t *testing.T) {
			require.Len(t, got, len(values))
			require.Len(t, lo.Uniq(got), len(values))
			require.Equal(t, tree.Root().Val(), got[0])
			slices.Sort(got)
			require.Equal(t, lo.Range(2048), got)
		})
	}
}

func TestRbtreeIter_AfterRemoveAll(t *testing.T) {
	tree := NewRBTree[int]()
	values := lo.Range(100)
	for _, val := range values {
		tree.Insert(val)
	}
	for _, val := range lo.Shuffle(values) {
		require.NoError(t, tree.Remove(val))
	}
	require.Empty(t, drainIter(tree.DfsIter()))
	require.Empty(t, drainIter(tree.BfsIter()))
	require.Empty(t, slices.Collect(tree.Dfs()))
}
