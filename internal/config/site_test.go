package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
)

func TestDefaultInstallsBuiltinPageTypes(t *testing.T) {
	s := Default()

	require.Equal(t, "templates", s.TemplatesDir())
	require.Equal(t, "docs", s.OutputDir())
	require.Equal(t, "content", s.SourceDir())
	require.Equal(t, filepath.Join("docs", "index.html"), s.IndexOutput())
	require.Equal(t, filepath.Join("docs", "music.html"), s.SecondaryOutput())

	pages := s.Pages()
	require.Len(t, pages, 2)
	require.Equal(t, PageType{
		Name:       "thought",
		MetaFile:   filepath.Join("content", "thought", "meta.yaml"),
		URLPrefix:  "content/thought",
		Template:   "thought.html",
		OutputFile: filepath.Join("docs", "thought.html"),
		SourceDir:  filepath.Join("content", "thought"),
	}, pages[0])
	require.Equal(t, "experience", pages[1].Name)
	require.Equal(t, "content/experience", pages[1].URLPrefix)
}

func TestDerivedViews(t *testing.T) {
	s := Default()

	require.Equal(t, []string{
		filepath.Join("docs", "index.html"),
		filepath.Join("docs", "thought.html"),
		filepath.Join("docs", "experience.html"),
	}, s.OutputFiles())
	require.Equal(t, []string{filepath.Join("docs", "content")}, s.OutputDirs())
	require.Equal(t, []string{"templates", "content"}, s.WatchPaths())
}

func TestCustomPagesReplaceDefaults(t *testing.T) {
	s := New(
		WithOutputDir("public"),
		WithSourceDir("src"),
		WithPages(
			PageType{Name: "note"},
			PageType{Name: "talk", URLPrefix: "talks", Template: "talks.html"},
		),
	)

	pages := s.Pages()
	require.Len(t, pages, 2)
	require.Equal(t, filepath.Join("src", "note", "meta.yaml"), pages[0].MetaFile)
	require.Equal(t, "content/note", pages[0].URLPrefix)
	require.Equal(t, filepath.Join("public", "note.html"), pages[0].OutputFile)
	require.Equal(t, "talks", pages[1].URLPrefix)
	require.Equal(t, "talks.html", pages[1].Template)

	require.Equal(t, []string{
		filepath.Join("public", "content"),
		filepath.Join("public", "talks"),
	}, s.OutputDirs())
}

func TestOutputDirsNeverIncludesOutputRoot(t *testing.T) {
	s := New(WithPages(
		PageType{Name: "root", URLPrefix: "."},
		PageType{Name: "slash", URLPrefix: "/"},
	))
	require.Empty(t, s.OutputDirs())
}

func TestPagesReturnsCopy(t *testing.T) {
	s := Default()
	pages := s.Pages()
	pages[0].Name = "mutated"
	require.Equal(t, "thought", s.Pages()[0].Name)
}

func TestPageTypeHelpers(t *testing.T) {
	p := NewPageType("thought", "content", "docs")
	require.Equal(t, "content/thought/hello.html", p.Href("hello"))
	require.Equal(t, filepath.Join("content", "thought", "hello.html"), p.ContentFile("hello"))
	require.Equal(t, filepath.Join("docs", "content", "thought", "hello.html"), Default().ContentOutput(p, "hello"))
}

func TestNewPerformsNoIO(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	s := New(WithTemplatesDir(missing), WithSourceDir(missing))
	require.Equal(t, missing, s.TemplatesDir())
	_, err := os.Stat(missing)
	require.True(t, os.IsNotExist(err))
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	tpl := filepath.Join(dir, "templates")
	src := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(tpl, 0o750))

	s := New(WithTemplatesDir(tpl), WithSourceDir(src))
	err := s.Validate()
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	require.NoError(t, os.MkdirAll(src, 0o750))
	require.NoError(t, s.Validate())

	dup := New(WithTemplatesDir(tpl), WithSourceDir(src), WithPages(PageType{Name: "a"}, PageType{Name: "a"}))
	err = dup.Validate()
	require.Error(t, err)
	require.True(t, derrors.HasCategory(err, derrors.CategoryValidation))
}
