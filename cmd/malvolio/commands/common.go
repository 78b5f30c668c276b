package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/malvolio/internal/config"
	derrors "git.home.luguber.info/inful/malvolio/internal/foundation/errors"
	"git.home.luguber.info/inful/malvolio/internal/logfields"
	"git.home.luguber.info/inful/malvolio/internal/version"
)

// Global carries process-wide state shared by all subcommands.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file. A missing default file means built-in defaults." default:"${default_config}"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Build the site once"`
	Serve ServeCmd `cmd:"" help:"Start development server with live reload"`

	stderr io.Writer
	logger *slog.Logger
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(c.logger)
	return nil
}

// parseLogLevel picks info, or debug with --verbose. MALVOLIO_LOG_LEVEL wins when set.
func parseLogLevel(verbose bool) slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(config.EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// loadSite reads the site file named by --config. Only an explicitly chosen
// file has to exist.
func (c *CLI) loadSite() (*config.Site, error) {
	return config.Load(c.Config, c.Config != config.DefaultFile)
}

// exitCode is thrown by kong's exit hook (--help, --version) and recovered in Execute.
type exitCode int

// Execute runs the command line in args and returns the process exit status.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) (code int) {
	envFiles, envErr := config.LoadEnvFiles()

	cli := &CLI{stderr: stderr}
	parser, err := kong.New(cli,
		kong.Name("malvolio"),
		kong.Description("A minimal static site generator for personal webpages."),
		kong.Writers(stdout, stderr),
		kong.Vars{
			"version":        version.String(),
			"default_config": config.DefaultFile,
		},
		kong.Exit(func(c int) { panic(exitCode(c)) }),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "malvolio:", err)
		return 10
	}

	defer func() {
		if r := recover(); r != nil {
			c, ok := r.(exitCode)
			if !ok {
				panic(r)
			}
			code = int(c)
		}
	}()

	kctx, err := parser.Parse(args)
	if err != nil {
		var pe *kong.ParseError
		if errors.As(err, &pe) && pe.Context != nil && pe.Context.Selected() == nil {
			_ = pe.Context.PrintUsage(false)
			return derrors.ExitGeneric
		}
		_, _ = fmt.Fprintf(stderr, "malvolio: error: %v\n", err)
		return derrors.ExitUsage
	}

	adapter := derrors.NewCLIErrorAdapter(cli.Verbose, cli.logger).WithOutput(stderr)
	if envErr != nil {
		return adapter.Report(derrors.WrapError(envErr, derrors.CategoryConfig, "load env file").Fatal().Build())
	}
	for _, f := range envFiles {
		cli.logger.Debug("Loaded env file", logfields.Path(f))
	}

	g := &Global{Ctx: ctx, Stdout: stdout, Logger: cli.logger}
	return adapter.Report(kctx.Run(g, cli))
}
