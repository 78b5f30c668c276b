package site

import (
	"fmt"
	"html/template"
	"log/slog"

	"git.home.luguber.info/inful/malvolio/internal/config"
	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
	"git.home.luguber.info/inful/malvolio/internal/logfields"
	"git.home.luguber.info/inful/malvolio/internal/meta"
	"git.home.luguber.info/inful/malvolio/internal/metrics"
	"git.home.luguber.info/inful/malvolio/internal/readtime"
)

// Template binding names.
const (
	bindContent = "content"
	bindItems   = "items"
	bindTags    = "all_tags"
)

func (b *Builder) render(name string, bindings map[string]any) (string, error) {
	out, err := b.renderer.Render(name, bindings)
	if err != nil {
		return "", derrors.WrapError(err, derrors.CategoryTemplate, "render template").
			Fatal().
			ForTemplate(name).
			Build()
	}
	return out, nil
}

// wrap places an HTML fragment into the shared outer template.
func (b *Builder) wrap(fragment string) (string, error) {
	return b.render(config.BaseTemplate, map[string]any{
		bindContent: template.HTML(fragment), // #nosec G203 -- fragments are site sources
	})
}

func (b *Builder) emit(log *slog.Logger, rep *Report, path, html string, kind metrics.PageKind) error {
	if err := writeOutput(path, html); err != nil {
		return err
	}
	rep.Written = append(rep.Written, path)
	b.recorder.IncPageWritten(kind)
	log.Info("Rendered", logfields.Path(path))
	return nil
}

func (b *Builder) warn(log *slog.Logger, rep *Report, w Warning, msg string) {
	rep.Warnings = append(rep.Warnings, w)
	b.recorder.IncWarning(w.Reason)
	attrs := []any{logfields.Path(w.Path)}
	if w.Slug != "" {
		attrs = append(attrs, logfields.Slug(w.Slug))
	}
	log.Warn(msg, attrs...)
}

// renderFixed renders a page that has no inputs besides its inner template.
func (b *Builder) renderFixed(log *slog.Logger, rep *Report, inner, output string, kind metrics.PageKind) error {
	fragment, err := b.render(inner, nil)
	if err != nil {
		return err
	}
	html, err := b.wrap(fragment)
	if err != nil {
		return err
	}
	return b.emit(log, rep, output, html, kind)
}

// renderPageType renders the listing page of p, then its content sub-pages.
func (b *Builder) renderPageType(log *slog.Logger, rep *Report, p config.PageType) error {
	found, err := exists(p.MetaFile)
	if err != nil {
		return err
	}
	if !found {
		b.warn(log, rep, Warning{Reason: ReasonMissingMeta, PageType: p.Name, Path: p.MetaFile},
			"Meta file not found, skipping page type")
		return nil
	}

	doc, err := meta.Load(p.MetaFile)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryMetadata, "parse metadata file").
			Fatal().
			AtPath(p.MetaFile).
			ForPageType(p.Name).
			Build()
	}
	if len(doc) == 0 {
		b.warn(log, rep, Warning{Reason: ReasonEmptyMeta, PageType: p.Name, Path: p.MetaFile},
			"Meta file is empty, rendering with no items")
	}

	items, err := b.items(p, doc)
	if err != nil {
		return err
	}

	fragment, err := b.render(p.Template, map[string]any{
		bindItems: items,
		bindTags:  collectTags(items),
	})
	if err != nil {
		return err
	}
	html, err := b.wrap(fragment)
	if err != nil {
		return err
	}
	if err := b.emit(log, rep, p.OutputFile, html, metrics.PageListing); err != nil {
		return err
	}

	return b.renderContentPages(log, rep, p, items)
}

// items builds the render records for doc in file order.
func (b *Builder) items(p config.PageType, doc meta.Document) ([]Item, error) {
	items := make([]Item, 0, len(doc))
	for _, e := range doc {
		minutes := 1
		src, ok, err := readSource(p.ContentFile(e.Key))
		if err != nil {
			return nil, err
		}
		if ok {
			minutes = readtime.Estimate(src)
		}
		items = append(items, newItem(p, e, minutes))
	}
	return items, nil
}

// renderContentPages wraps each item's fragment verbatim in the outer template.
func (b *Builder) renderContentPages(log *slog.Logger, rep *Report, p config.PageType, items []Item) error {
	for _, it := range items {
		source := p.ContentFile(it.Key)
		raw, ok, err := readSource(source)
		if err != nil {
			return err
		}
		if !ok {
			b.warn(log, rep, Warning{Reason: ReasonMissingFragment, PageType: p.Name, Slug: it.Key, Path: source},
				"Content file not found, skipping")
			continue
		}
		html, err := b.wrap(raw)
		if err != nil {
			return fmt.Errorf("content page %s/%s: %w", p.Name, it.Key, err)
		}
		if err := b.emit(log, rep, b.cfg.ContentOutput(p, it.Key), html, metrics.PageContent); err != nil {
			return err
		}
	}
	return nil
}
