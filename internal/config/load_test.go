package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadMissingOptionalFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	require.NoError(t, err)
	require.Equal(t, Default().OutputFiles(), s.OutputFiles())
}

func TestLoadMissingRequiredFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "site.yaml"), true)
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestLoadSiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "malvolio.yaml")
	writeFile(t, path, `
templates_dir: layout
output_dir: public
source_dir: src
pages:
  - name: note
  - name: talk
    url_prefix: talks
`)

	s, err := Load(path, true)
	require.NoError(t, err)
	require.Equal(t, "layout", s.TemplatesDir())
	require.Equal(t, filepath.Join("public", "index.html"), s.IndexOutput())

	pages := s.Pages()
	require.Len(t, pages, 2)
	require.Equal(t, filepath.Join("src", "note", "meta.yaml"), pages[0].MetaFile)
	require.Equal(t, "talks", pages[1].URLPrefix)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "malvolio.yaml")
	writeFile(t, path, "outptu_dir: typo\n")

	_, err := Load(path, true)
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvOutputDir, "out")
	t.Setenv(EnvSourceDir, "")

	s, err := Load(filepath.Join(t.TempDir(), DefaultFile), false)
	require.NoError(t, err)
	require.Equal(t, "out", s.OutputDir())
	require.Equal(t, filepath.Join("out", "thought.html"), s.Pages()[0].OutputFile)
	require.Equal(t, "content", s.SourceDir())
}

func TestParseExpandsEnvironment(t *testing.T) {
	t.Setenv("SITE_OUT", "build")
	f, err := Parse([]byte("output_dir: ${SITE_OUT}/html\n"))
	require.NoError(t, err)
	require.Equal(t, "build/html", f.OutputDir)
}

func TestParseEmptyDocument(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, File{}, f)
}

func TestParseRejectsNamelessPage(t *testing.T) {
	_, err := Parse([]byte("pages:\n  - template: x.html\n"))
	require.Error(t, err)
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, ".env"), "MALVOLIO_TEST_FROM_ENV=one\nMALVOLIO_TEST_PRESET=file\n")
	t.Setenv("MALVOLIO_TEST_PRESET", "process")
	t.Setenv("MALVOLIO_TEST_FROM_ENV", "")
	require.NoError(t, os.Unsetenv("MALVOLIO_TEST_FROM_ENV"))

	loaded, err := LoadEnvFiles()
	require.NoError(t, err)
	require.Equal(t, []string{".env"}, loaded)
	require.Equal(t, "one", os.Getenv("MALVOLIO_TEST_FROM_ENV"))
	require.Equal(t, "process", os.Getenv("MALVOLIO_TEST_PRESET"))
}
