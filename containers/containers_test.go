package containers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cvrp/containers"
)

func TestSparseIntSet(t *testing.T) {
	s := containers.NewSparseIntSet(10)

	s.Insert(3)
	s.Insert(7)
	s.Insert(3)
	require.Equal(t, 2, s.Size())
	require.True(t, s.Contains(3))
	require.False(t, s.Contains(4))
	require.Equal(t, []int{3, 7}, s.Elements())

	s.Clear()
	require.Equal(t, 0, s.Size())
	require.False(t, s.Contains(3))

	s.InsertUnchecked(9)
	require.Equal(t, []int{9}, s.Elements())
}

func TestBitMatrix(t *testing.T) {
	m := containers.NewBitMatrix(3)

	m.Set(0, 5)
	m.Set(0, 6)
	m.Set(1, 5)
	require.True(t, m.IsSet(0, 5))
	require.False(t, m.IsSet(2, 5))

	m.Overwrite(0, 2)
	require.True(t, m.IsSet(2, 5))
	require.True(t, m.IsSet(2, 6))
	require.ElementsMatch(t, []int{5, 6}, m.Entries(2, nil))

	m.Reset(0)
	require.False(t, m.IsSet(0, 5))
	require.True(t, m.IsSet(2, 5), "overwritten row must be independent of the source")
}

func TestWelford(t *testing.T) {
	var w containers.Welford

	require.Zero(t, w.Mean())

	w.Update(2)
	w.Update(4)
	w.Update(6)
	require.InDelta(t, 4.0, w.Mean(), 1e-12)

	w.Reset()
	require.Zero(t, w.Mean())
	w.Update(10)
	require.InDelta(t, 10.0, w.Mean(), 1e-12)
}
