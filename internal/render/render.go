// Package render turns named templates from a templates directory into HTML.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Renderer renders the template called name with the given bindings.
type Renderer interface {
	Render(name string, bindings map[string]any) (string, error)
}

// ErrTemplateNotFound is returned when a template file does not exist.
var ErrTemplateNotFound = errors.New("template not found")

// Engine renders html/template files from a directory. Templates are parsed on
// every call so edits are picked up by the next build without a restart.
// Bindings are exposed as the template's dot, so a binding "items" is read as
// {{ .items }}. Values of type template.HTML are inserted without escaping.
type Engine struct {
	dir   string
	funcs template.FuncMap
}

// NewEngine creates an engine reading templates from dir.
func NewEngine(dir string) *Engine {
	return &Engine{dir: dir, funcs: Funcs()}
}

// Dir returns the templates directory.
func (e *Engine) Dir() string { return e.dir }

// Render implements Renderer.
func (e *Engine) Render(name string, bindings map[string]any) (string, error) {
	path := filepath.Join(e.dir, filepath.FromSlash(name))
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, path)
		}
		return "", fmt.Errorf("read template %s: %w", path, err)
	}

	tpl, err := template.New(name).Funcs(e.funcs).Option("missingkey=zero").Parse(string(src))
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}

	if bindings == nil {
		bindings = map[string]any{}
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, bindings); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Funcs returns the helpers available to every template.
func Funcs() template.FuncMap {
	titler := cases.Title(language.English)
	return template.FuncMap{
		"title": func(s string) string { return titler.String(s) },
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"join":  strings.Join,
		"safe":  func(s string) template.HTML { return template.HTML(s) }, // #nosec G203 -- authors own their templates
		"contains": func(list []string, v string) bool {
			for _, s := range list {
				if s == v {
					return true
				}
			}
			return false
		},
	}
}
