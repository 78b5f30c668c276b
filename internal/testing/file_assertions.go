package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TreeAssertions checks files under a site root. Paths are slash-separated
// and relative to the root. Failures stop the test.
type TreeAssertions struct {
	t    *testing.T
	root string
}

func NewTreeAssertions(t *testing.T, root string) *TreeAssertions {
	return &TreeAssertions{t: t, root: root}
}

func (a *TreeAssertions) abs(rel string) string {
	return filepath.Join(a.root, filepath.FromSlash(rel))
}

func (a *TreeAssertions) FileExists(rel string) *TreeAssertions {
	a.t.Helper()
	require.FileExists(a.t, a.abs(rel))
	return a
}

func (a *TreeAssertions) FileNotExists(rel string) *TreeAssertions {
	a.t.Helper()
	require.NoFileExists(a.t, a.abs(rel))
	return a
}

// FileEquals compares the whole file byte for byte.
func (a *TreeAssertions) FileEquals(rel, want string) *TreeAssertions {
	a.t.Helper()
	got, err := os.ReadFile(a.abs(rel))
	require.NoError(a.t, err)
	require.Equal(a.t, want, string(got), "content of %s", rel)
	return a
}
