// Package config holds the site configuration model: global paths plus the
// ordered list of page types the builder renders.
//
// A Site is immutable once constructed. Construction performs no I/O and no
// validation; a missing or unreadable path surfaces only when the builder
// touches it.
package config

import (
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Fixed template names looked up in the templates directory.
const (
	BaseTemplate      = "base.html"
	IndexTemplate     = "index.html"
	SecondaryTemplate = "music.html"
)

// Built-in path defaults, relative to the working directory.
const (
	DefaultTemplatesDir = "templates"
	DefaultOutputDir    = "docs"
	DefaultSourceDir    = "content"

	// MetaFileName is the metadata file expected in every page type's source directory.
	MetaFileName = "meta.yaml"

	// ContentURLRoot is the first URL segment of the default page type prefixes.
	ContentURLRoot = "content"
)

// PageType describes one category of content (for example "thought").
// MetaFile and SourceDir are read-only inputs.
type PageType struct {
	Name       string `yaml:"name"`
	MetaFile   string `yaml:"meta_file"`
	URLPrefix  string `yaml:"url_prefix"`
	Template   string `yaml:"template"`
	OutputFile string `yaml:"output_file"`
	SourceDir  string `yaml:"source_dir"`
}

// NewPageType derives a page type from its name using the conventional layout:
// metadata and fragments under <sourceDir>/<name>, links under content/<name>,
// listing rendered from <name>.html into <outputDir>/<name>.html.
func NewPageType(name, sourceDir, outputDir string) PageType {
	return PageType{
		Name:       name,
		MetaFile:   filepath.Join(sourceDir, name, MetaFileName),
		URLPrefix:  path.Join(ContentURLRoot, name),
		Template:   name + ".html",
		OutputFile: filepath.Join(outputDir, name+".html"),
		SourceDir:  filepath.Join(sourceDir, name),
	}
}

// withDefaults fills empty fields from the conventional layout.
func (p PageType) withDefaults(sourceDir, outputDir string) PageType {
	d := NewPageType(p.Name, sourceDir, outputDir)
	if p.MetaFile == "" {
		p.MetaFile = d.MetaFile
	}
	if p.URLPrefix == "" {
		p.URLPrefix = d.URLPrefix
	}
	if p.Template == "" {
		p.Template = d.Template
	}
	if p.OutputFile == "" {
		p.OutputFile = d.OutputFile
	}
	if p.SourceDir == "" {
		p.SourceDir = d.SourceDir
	}
	return p
}

// ContentFile returns the fragment path for slug.
func (p PageType) ContentFile(slug string) string {
	return filepath.Join(p.SourceDir, slug+".html")
}

// Href returns the public link for slug.
func (p PageType) Href(slug string) string {
	return p.URLPrefix + "/" + slug + ".html"
}

// Site holds the global settings and the ordered page types.
type Site struct {
	templatesDir    string
	outputDir       string
	sourceDir       string
	indexOutput     string
	secondaryOutput string
	pages           []PageType
}

// Option customizes a Site during construction.
type Option func(*Site)

// WithTemplatesDir sets the templates directory.
func WithTemplatesDir(dir string) Option { return func(s *Site) { s.templatesDir = dir } }

// WithOutputDir sets the output root directory.
func WithOutputDir(dir string) Option { return func(s *Site) { s.outputDir = dir } }

// WithSourceDir sets the content source directory.
func WithSourceDir(dir string) Option { return func(s *Site) { s.sourceDir = dir } }

// WithIndexOutput sets the index page output path.
func WithIndexOutput(p string) Option { return func(s *Site) { s.indexOutput = p } }

// WithSecondaryOutput sets the secondary page output path.
func WithSecondaryOutput(p string) Option { return func(s *Site) { s.secondaryOutput = p } }

// WithPages replaces the page type list. Empty fields of each page type are
// derived from its name once the directories are known.
func WithPages(pages ...PageType) Option {
	return func(s *Site) { s.pages = slices.Clone(pages) }
}

// New builds a Site. When no page types are supplied the defaults
// ("thought", "experience") are installed.
func New(opts ...Option) *Site {
	s := &Site{
		templatesDir: DefaultTemplatesDir,
		outputDir:    DefaultOutputDir,
		sourceDir:    DefaultSourceDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.indexOutput == "" {
		s.indexOutput = filepath.Join(s.outputDir, IndexTemplate)
	}
	if s.secondaryOutput == "" {
		s.secondaryOutput = filepath.Join(s.outputDir, SecondaryTemplate)
	}
	if len(s.pages) == 0 {
		s.pages = DefaultPages(s.sourceDir, s.outputDir)
	} else {
		for i := range s.pages {
			s.pages[i] = s.pages[i].withDefaults(s.sourceDir, s.outputDir)
		}
	}
	return s
}

// Default returns the built-in configuration.
func Default() *Site { return New() }

// DefaultPages returns the built-in page types.
func DefaultPages(sourceDir, outputDir string) []PageType {
	return []PageType{
		NewPageType("thought", sourceDir, outputDir),
		NewPageType("experience", sourceDir, outputDir),
	}
}

func (s *Site) TemplatesDir() string    { return s.templatesDir }
func (s *Site) OutputDir() string       { return s.outputDir }
func (s *Site) SourceDir() string       { return s.sourceDir }
func (s *Site) IndexOutput() string     { return s.indexOutput }
func (s *Site) SecondaryOutput() string { return s.secondaryOutput }

// Pages returns a copy of the configured page types in order.
func (s *Site) Pages() []PageType { return slices.Clone(s.pages) }

// ContentOutput returns where the sub-page for slug of page type p is written.
func (s *Site) ContentOutput(p PageType, slug string) string {
	return filepath.Join(s.outputDir, filepath.FromSlash(p.URLPrefix), slug+".html")
}

// OutputFiles lists the generated files removed by clean: the index and every listing page.
func (s *Site) OutputFiles() []string {
	files := make([]string, 0, len(s.pages)+1)
	files = append(files, s.indexOutput)
	for _, p := range s.pages {
		files = append(files, p.OutputFile)
	}
	return files
}

// OutputDirs lists the generated content subtrees removed by clean. Each entry
// is the first segment of a page type's URL prefix under the output root, so
// the defaults yield <output>/content. Prefixes that do not start with a
// concrete directory never contribute, which keeps the output root itself safe.
func (s *Site) OutputDirs() []string {
	var dirs []string
	for _, p := range s.pages {
		first, _, _ := strings.Cut(strings.Trim(path.Clean("/"+p.URLPrefix), "/"), "/")
		if first == "" || first == "." || first == ".." {
			continue
		}
		dir := filepath.Join(s.outputDir, first)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// WatchPaths lists the directories watched in serve mode.
func (s *Site) WatchPaths() []string {
	return []string{s.templatesDir, s.sourceDir}
}
