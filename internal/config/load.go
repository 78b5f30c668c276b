package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
)

// DefaultFile is the site file looked up when --config is not given.
const DefaultFile = "malvolio.yaml"

// File is the on-disk shape of a site file. Every field is optional.
type File struct {
	TemplatesDir    string     `yaml:"templates_dir"`
	OutputDir       string     `yaml:"output_dir"`
	SourceDir       string     `yaml:"source_dir"`
	IndexOutput     string     `yaml:"index_output"`
	SecondaryOutput string     `yaml:"secondary_output"`
	Pages           []PageType `yaml:"pages"`
}

func (f File) options() []Option {
	var opts []Option
	if f.TemplatesDir != "" {
		opts = append(opts, WithTemplatesDir(f.TemplatesDir))
	}
	if f.OutputDir != "" {
		opts = append(opts, WithOutputDir(f.OutputDir))
	}
	if f.SourceDir != "" {
		opts = append(opts, WithSourceDir(f.SourceDir))
	}
	if f.IndexOutput != "" {
		opts = append(opts, WithIndexOutput(f.IndexOutput))
	}
	if f.SecondaryOutput != "" {
		opts = append(opts, WithSecondaryOutput(f.SecondaryOutput))
	}
	if len(f.Pages) > 0 {
		opts = append(opts, WithPages(f.Pages...))
	}
	return opts
}

// Load builds a Site from the site file at path, then applies MALVOLIO_* path
// overrides from the environment. A missing file falls back to the built-in
// defaults unless required is set.
func Load(path string, required bool) (*Site, error) {
	var opts []Option

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
	case err != nil:
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "read site file").
			Fatal().
			AtPath(path).
			Build()
	default:
		f, perr := Parse(data)
		if perr != nil {
			return nil, derrors.WrapError(perr, derrors.CategoryConfig, "parse site file").
				Fatal().
				AtPath(path).
				Build()
		}
		opts = f.options()
	}

	opts = append(opts, envOptions()...)
	return New(opts...), nil
}

// Parse decodes a site file. Environment references (${VAR}) are expanded
// before decoding and unknown keys are rejected.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader([]byte(os.ExpandEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	for _, p := range f.Pages {
		if p.Name == "" {
			return File{}, errors.New("page entry without a name")
		}
	}
	return f, nil
}
