package commands

import (
	"git.home.luguber.info/inful/malvolio/internal/render"
	"git.home.luguber.info/inful/malvolio/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Clean bool `help:"Clean output files before building"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadSite()
	if err != nil {
		return err
	}
	builder := site.New(cfg, render.NewEngine(cfg.TemplatesDir()), site.WithLogger(g.Logger))
	if b.Clean {
		_, err = builder.Rebuild()
	} else {
		_, err = builder.Build()
	}
	return err
}
