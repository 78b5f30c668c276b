package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Exit codes returned by the CLI.
const (
	ExitOK       = 0
	ExitGeneric  = 1
	ExitUsage    = 2
	ExitConfig   = 7
	ExitInternal = 10
	ExitBuild    = 11
	ExitServer   = 12
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: ExitUsage,
	CategoryConfig:     ExitConfig,
	CategoryBuild:      ExitBuild,
	CategoryTemplate:   ExitBuild,
	CategoryMetadata:   ExitBuild,
	CategoryFileSystem: ExitBuild,
	CategoryNotFound:   ExitBuild,
	CategoryServer:     ExitServer,
	CategoryInternal:   ExitInternal,
}

var slogLevels = map[ErrorSeverity]slog.Level{
	SeverityInfo:    slog.LevelInfo,
	SeverityWarning: slog.LevelWarn,
}

// CLIErrorAdapter turns a command's error into a log record, a one-line
// message for the user and a process exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger, out: os.Stderr}
}

// WithOutput redirects the user-facing message.
func (a *CLIErrorAdapter) WithOutput(w io.Writer) *CLIErrorAdapter {
	a.out = w
	return a
}

// ExitCodeFor maps err to an exit code. Unclassified errors give ExitGeneric.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitGeneric
	}
	if code, known := exitCodes[classified.Category()]; known {
		return code
	}
	return ExitGeneric
}

// FormatError renders err for the terminal. Verbose mode prints the full
// wrapped chain; otherwise the category prefix is left out.
func (a *CLIErrorAdapter) FormatError(err error) string {
	switch classified, ok := AsClassified(err); {
	case err == nil:
		return ""
	case !ok || a.verbose:
		return fmt.Sprintf("Error: %v", err)
	default:
		msg := "Error: " + classified.Message()
		if p := classified.Path(); p != "" {
			msg += " (" + p + ")"
		}
		if c := classified.Cause(); c != nil {
			msg += ": " + c.Error()
		}
		return msg
	}
}

// Report logs err, prints it and returns the exit code. Nil reports nothing.
func (a *CLIErrorAdapter) Report(err error) int {
	if err == nil {
		return ExitOK
	}
	a.log(err)
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) log(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}
	attrs := make([]slog.Attr, 0, len(classified.Context())+2)
	attrs = append(attrs, slog.String("category", string(classified.Category())))
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if c := classified.Cause(); c != nil {
		attrs = append(attrs, slog.String("error", c.Error()))
	}
	level, found := slogLevels[classified.Severity()]
	if !found {
		level = slog.LevelError
	}
	a.logger.LogAttrs(context.Background(), level, classified.Message(), attrs...)
}
