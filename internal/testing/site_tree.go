package testing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/malvolio/internal/config"
)

// SiteTree lays out templates and content below a temporary root using the
// default directory names.
type SiteTree struct {
	t    *testing.T
	root string
}

// NewSiteTree creates an empty tree in t.TempDir().
func NewSiteTree(t *testing.T) *SiteTree {
	t.Helper()
	return &SiteTree{t: t, root: t.TempDir()}
}

// Root returns the tree's root directory.
func (st *SiteTree) Root() string { return st.root }

// Path joins rel (slash separated) onto the root.
func (st *SiteTree) Path(rel string) string {
	return filepath.Join(st.root, filepath.FromSlash(rel))
}

// WithFile writes content to rel, creating parent directories.
func (st *SiteTree) WithFile(rel, content string) *SiteTree {
	st.t.Helper()
	p := st.Path(rel)
	require.NoError(st.t, os.MkdirAll(filepath.Dir(p), testDirPermissions))
	require.NoError(st.t, os.WriteFile(p, []byte(content), testFilePermissions))
	return st
}

// WithTemplate writes a template into the templates directory.
func (st *SiteTree) WithTemplate(name, body string) *SiteTree {
	st.t.Helper()
	return st.WithFile(config.DefaultTemplatesDir+"/"+name, body)
}

// WithDefaultTemplates writes minimal outer, index, secondary and listing
// templates for the default page types. Listings render one link per item.
func (st *SiteTree) WithDefaultTemplates() *SiteTree {
	st.t.Helper()
	listing := `{{ range .items }}<a href="{{ .Href }}">{{ .Title }}</a>{{ end }}`
	return st.
		WithTemplate(config.BaseTemplate, "<html><body>{{ .content }}</body></html>").
		WithTemplate(config.IndexTemplate, "<h1>Home</h1>").
		WithTemplate(config.SecondaryTemplate, "<h1>Music</h1>").
		WithTemplate("thought.html", listing).
		WithTemplate("experience.html", listing)
}

// WithMeta writes the metadata file of a page type.
func (st *SiteTree) WithMeta(pageType, yamlBody string) *SiteTree {
	st.t.Helper()
	return st.WithFile(config.DefaultSourceDir+"/"+pageType+"/"+config.MetaFileName, yamlBody)
}

// WithFragment writes the HTML fragment for slug of a page type.
func (st *SiteTree) WithFragment(pageType, slug, html string) *SiteTree {
	st.t.Helper()
	return st.WithFile(config.DefaultSourceDir+"/"+pageType+"/"+slug+".html", html)
}

// Site returns a configuration rooted at the tree. opts are applied after
// the directory options.
func (st *SiteTree) Site(opts ...config.Option) *config.Site {
	base := []config.Option{
		config.WithTemplatesDir(st.Path(config.DefaultTemplatesDir)),
		config.WithSourceDir(st.Path(config.DefaultSourceDir)),
		config.WithOutputDir(st.Path(config.DefaultOutputDir)),
	}
	return config.New(append(base, opts...)...)
}

// Assert returns file assertions relative to the tree root.
func (st *SiteTree) Assert() *TreeAssertions {
	return NewTreeAssertions(st.t, st.root)
}
