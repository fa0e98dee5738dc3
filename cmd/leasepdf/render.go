package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-leasepdf"
	"github.com/alnah/go-leasepdf/internal/config"
	"github.com/alnah/go-leasepdf/internal/fileutil"
	"github.com/alnah/go-leasepdf/internal/hints"
)

// maxRecordBytes bounds record files and stdin.
const maxRecordBytes = 4 << 20

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// runRender handles generate, download and preview.
func runRender(ctx context.Context, cmd string, args []string, env *Environment) error {
	flags, positional, err := parseRenderFlags(cmd, args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: %s expects one record file (or '-' for stdin)", ErrUsage, cmd)
	}

	cfg, err := loadSettings(&flags.common, &flags.engine, env)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, &flags.common, env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	record, err := readRecord(positional[0], env.Stdin)
	if err != nil {
		return err
	}

	gen, err := env.NewGenerator(generatorOptions(cfg, logger, true)...)
	if err != nil {
		return err
	}
	defer func() { _ = gen.Close() }()

	in := leasepdf.Input{
		Record:          record,
		LessorSignature: flags.signature.lessor,
		LesseeSignature: flags.signature.lessee,
	}
	dir := flags.dir
	if dir == "" {
		dir = cfg.Output.DefaultDir
	}

	var res *leasepdf.Result
	switch cmd {
	case cmdGenerate:
		res, err = generateTo(ctx, gen, in, flags.output, dir, env.Stdout)
	case cmdDownload:
		res, err = gen.Download(ctx, in, dir)
	case cmdPreview:
		var pr *leasepdf.PreviewResult
		pr, err = gen.Preview(ctx, in, dir)
		if err == nil {
			res = pr.Result
			if pr.Notice != "" {
				fmt.Fprintln(env.Stderr, pr.Notice)
			}
		}
	}
	if err != nil {
		return err
	}

	report(env.Stderr, res, cfg, flags.common.quiet)
	logger.Debug("done", zap.String("generation_id", res.GenerationID))
	return nil
}

// generateTo writes the PDF to output: a file, "-" for stdout, or the derived
// filename in dir when output is empty.
func generateTo(ctx context.Context, gen Generator, in leasepdf.Input, output, dir string, stdout io.Writer) (*leasepdf.Result, error) {
	if output == "" {
		return gen.Download(ctx, in, dir)
	}

	res, err := gen.Generate(ctx, in)
	if err != nil {
		return nil, err
	}
	if output == "-" {
		if _, err := stdout.Write(res.PDF); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
		}
		return res, nil
	}

	if parent := filepath.Dir(output); parent != "." {
		if err := os.MkdirAll(parent, dirPermissions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
		}
	}
	if err := fileutil.WriteAtomic(output, res.PDF, filePermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWritePDF, err)
	}
	res.Path = output
	return res, nil
}

// readRecord reads and parses a record file, or stdin for "-".
func readRecord(path string, stdin io.Reader) (map[string]any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxRecordBytes+1))
		if err == nil && len(data) > maxRecordBytes {
			err = fmt.Errorf("%w: stdin (max %d bytes)", fileutil.ErrFileTooLarge, maxRecordBytes)
		}
	} else {
		data, err = fileutil.ReadLimited(path, maxRecordBytes)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadRecord, err)
	}
	return leasepdf.ParseRecord(data)
}

// report prints the outcome and any degraded image slots to w.
func report(w io.Writer, res *leasepdf.Result, cfg *config.Config, quiet bool) {
	if len(res.Missing) > 0 {
		fmt.Fprintf(w, "warning: images unavailable: %s%s\n",
			strings.Join(res.Missing, ", "), hints.ForImageFetch(cfg.Relay.URL != ""))
	}
	if quiet || res.Path == "" {
		return
	}
	fmt.Fprintf(w, "%s (%d pages)\n", res.Path, res.Pages)
}
