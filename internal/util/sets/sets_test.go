package sets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddAllCollapsesDuplicates(t *testing.T) {
	s := New("b")
	s.AddAll("b", "a")
	s.AddAll("a", "c")
	require.Equal(t, 3, s.Len())
	require.True(t, s.Has("a"))
	require.False(t, s.Has("z"))
	require.Equal(t, []string{"a", "b", "c"}, s.Sorted())
}

func TestSortedEmptyIsNotNil(t *testing.T) {
	got := New[string]().Sorted()
	require.NotNil(t, got)
	require.Empty(t, got)
}
