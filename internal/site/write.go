package site

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
)

// writeOutput creates missing parent directories, then replaces the file at
// path with content.
func writeOutput(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 -- published site tree
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create output directory").
			Fatal().
			AtPath(filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { // #nosec G306 -- published site tree
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write output file").
			Fatal().
			AtPath(path).
			Build()
	}
	return nil
}

// readSource returns the file content and false when path does not exist.
func readSource(path string) (string, bool, error) {
	// #nosec G304 -- paths come from the site configuration
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, derrors.WrapError(err, derrors.CategoryFileSystem, "read source file").
			Fatal().
			AtPath(path).
			Build()
	}
	return string(data), true, nil
}

// exists reports whether path exists. Errors other than absence are returned.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, derrors.WrapError(err, derrors.CategoryFileSystem, "stat path").
			Fatal().
			AtPath(path).
			Build()
	}
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "remove output file").
			Fatal().
			AtPath(path).
			Build()
	}
	return nil
}

func removeDir(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "remove output directory").
			Fatal().
			AtPath(path).
			Build()
	}
	return nil
}
