package config

import (
	"fmt"
	"os"

	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
)

// Validate checks that the input directories exist. Construction never calls
// it; serve mode does before installing watches.
func (s *Site) Validate() error {
	for _, dir := range s.WatchPaths() {
		st, err := os.Stat(dir)
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryConfig, "input directory not accessible").
				Fatal().
				AtPath(dir).
				Build()
		}
		if !st.IsDir() {
			return derrors.ConfigError(fmt.Sprintf("input path is not a directory: %s", dir)).
				AtPath(dir).
				Build()
		}
	}
	seen := make(map[string]struct{}, len(s.pages))
	for _, p := range s.pages {
		if p.Name == "" {
			return derrors.ValidationError("page type without a name").Build()
		}
		if _, dup := seen[p.Name]; dup {
			return derrors.ValidationError(fmt.Sprintf("duplicate page type %q", p.Name)).Build()
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
