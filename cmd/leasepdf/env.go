package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/go-leasepdf"
)

// Generator is the part of *leasepdf.Generator the commands use.
type Generator interface {
	Generate(ctx context.Context, in leasepdf.Input) (*leasepdf.Result, error)
	Download(ctx context.Context, in leasepdf.Input, dir string) (*leasepdf.Result, error)
	Preview(ctx context.Context, in leasepdf.Input, dir string) (*leasepdf.PreviewResult, error)
	Serve(ctx context.Context, addr string, opts leasepdf.ServerOptions) error
	Close() error
}

// Compile-time interface implementation check.
var _ Generator = (*leasepdf.Generator)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now          func() time.Time
	Stdin        io.Reader
	Stdout       io.Writer
	Stderr       io.Writer
	Getenv       func(string) string
	Environ      func() []string
	NewGenerator func(opts ...leasepdf.Option) (Generator, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:          time.Now,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Getenv:       os.Getenv,
		Environ:      os.Environ,
		NewGenerator: newGenerator,
	}
}

func newGenerator(opts ...leasepdf.Option) (Generator, error) {
	g, err := leasepdf.NewGenerator(opts...)
	if err != nil {
		return nil, err
	}
	return g, nil
}
