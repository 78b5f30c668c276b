package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyPageType   = "page_type"
	KeySlug       = "slug"
	KeyTemplate   = "template"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyPort       = "port"
	KeyOp         = "op"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func PageType(name string) slog.Attr  { return slog.String(KeyPageType, name) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Template(name string) slog.Attr  { return slog.String(KeyTemplate, name) }
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Port(p int) slog.Attr            { return slog.Int(KeyPort, p) }
func Op(op string) slog.Attr          { return slog.String(KeyOp, op) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Duration converts d into the canonical millisecond attribute.
func Duration(d time.Duration) slog.Attr {
	return DurationMS(float64(d.Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
