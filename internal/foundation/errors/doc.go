// Package errors classifies failures so the CLI can log them with structured
// fields and pick an exit code from the category alone.
//
//	err := errors.WrapError(parseErr, errors.CategoryMetadata, "parse metadata file").
//		Fatal().
//		AtPath(metaFile).
//		ForPageType("thought").
//		Build()
package errors
