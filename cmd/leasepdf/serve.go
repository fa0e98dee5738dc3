package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf"
)

// runServe starts the HTTP API and the trusted image relay.
// Local image files are never allowed: requests come from the network.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 0 {
		return fmt.Errorf("%w: serve takes no arguments", ErrUsage)
	}

	cfg, err := loadSettings(&flags.common, &flags.engine, env)
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	logger, err := newLogger(cfg, &flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	gen, err := env.NewGenerator(generatorOptions(cfg, logger, false)...)
	if err != nil {
		return err
	}
	defer func() { _ = gen.Close() }()

	logger.Info("serving", zap.String("addr", cfg.Server.Addr))
	return gen.Serve(ctx, cfg.Server.Addr, leasepdf.ServerOptions{
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
		RelayTimeout:  cfg.Relay.AttemptTimeout(),
		RelayMaxBytes: cfg.Relay.MaxBytes,
	})
}
