package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf"
	"github.com/alnah/go-leasepdf/internal/config"
	"github.com/alnah/go-leasepdf/internal/hints"
	"github.com/alnah/go-leasepdf/internal/logging"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage      = errors.New("invalid usage")
	ErrReadRecord = errors.New("failed to read contract record")
	ErrWritePDF   = errors.New("failed to write PDF file")
)

// Command names.
const (
	cmdGenerate = "generate"
	cmdDownload = "download"
	cmdPreview  = "preview"
	cmdServe    = "serve"
	cmdDoctor   = "doctor"
	cmdVersion  = "version"
	cmdHelp     = "help"
)

// runMain dispatches the command in args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case cmdGenerate, cmdDownload, cmdPreview:
		err = runRender(ctx, cmd, rest, env)
	case cmdServe:
		err = runServe(ctx, rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "leasepdf %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// hintFor returns an actionable hint for well-known failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, leasepdf.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		var searched []string
		if dir, dirErr := os.UserConfigDir(); dirErr == nil {
			searched = append(searched, filepath.Join(dir, "leasepdf", "config.yaml"))
		}
		return hints.ForConfigNotFound(searched)
	case errors.Is(err, leasepdf.ErrClauseSetNotFound):
		return hints.ForClauseSetNotFound(leasepdf.ClauseSets())
	case errors.Is(err, ErrReadRecord), errors.Is(err, leasepdf.ErrRecordParse):
		return hints.ForRecordFile()
	case errors.Is(err, leasepdf.ErrOutputWrite), errors.Is(err, ErrWritePDF):
		return hints.ForOutputDirectory()
	}
	return ""
}

// loadSettings resolves the effective config: flags > env vars > config file > defaults.
func loadSettings(common *commonFlags, engine *engineFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig(env.Getenv)
	warnUnknownEnvVars(env.Stderr, env.Environ())

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg := config.DefaultConfig()
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(engine, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(f *engineFlags, cfg *config.Config) {
	if f.relay != "" {
		cfg.Relay.URL = f.relay
	}
	if len(f.proxies) > 0 {
		cfg.Relay.Proxies = f.proxies
	}
	if f.timeout != "" {
		cfg.Relay.Timeout = f.timeout
	}
	if f.browser {
		cfg.Relay.Browser = true
	}
	if f.clauses != "" {
		cfg.Clauses.Name = f.clauses
	}
	if f.assetPath != "" {
		cfg.Clauses.BasePath = f.assetPath
	}
	if f.pageSize != "" {
		cfg.Page.Size = f.pageSize
	}
	if f.optimize {
		cfg.Output.Optimize = true
	}
}

// newLogger builds the CLI logger. --verbose forces debug and --quiet
// forces error, otherwise log.level applies.
func newLogger(cfg *config.Config, common *commonFlags, env *Environment) (*zap.Logger, error) {
	level := cfg.Log.Level
	switch {
	case common.verbose:
		level = "debug"
	case common.quiet:
		level = "error"
	}
	if cfg.Log.Format == "json" {
		return logging.New(level, cfg.Log.Format)
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.NewWriter(env.Stderr, lvl), nil
}

// generatorOptions maps the effective config to library options.
// allowLocal is true for the CLI, whose records come from the local user.
func generatorOptions(cfg *config.Config, logger *zap.Logger, allowLocal bool) []leasepdf.Option {
	page := leasepdf.DefaultPageSettings()
	if cfg.Page.Size != "" {
		page.Size = cfg.Page.Size
	}
	if cfg.Page.Margin != 0 {
		page.Margin = cfg.Page.Margin
	}
	if cfg.Page.FontSize != 0 {
		page.FontSize = cfg.Page.FontSize
	}

	opts := []leasepdf.Option{
		leasepdf.WithPage(page),
		leasepdf.WithRelayURL(cfg.Relay.URL),
		leasepdf.WithProxies(cfg.Relay.Proxies...),
		leasepdf.WithAttemptTimeout(cfg.Relay.AttemptTimeout()),
		leasepdf.WithMaxImageBytes(cfg.Relay.MaxBytes),
		leasepdf.WithBrowserDrawer(cfg.Relay.Browser),
		leasepdf.WithAllowLocalFiles(allowLocal),
		leasepdf.WithClauseSet(cfg.Clauses.Name),
		leasepdf.WithAssetPath(cfg.Clauses.BasePath),
		leasepdf.WithOptimize(cfg.Output.Optimize),
		leasepdf.WithLogger(logger),
	}
	if cfg.Output.FilenameDate != "" {
		opts = append(opts, leasepdf.WithFilenameDate(cfg.Output.FilenameDate))
	}
	return opts
}
