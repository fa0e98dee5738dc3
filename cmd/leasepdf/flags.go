package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// engineFlags override the image and clause settings of the config file.
type engineFlags struct {
	relay     string
	proxies   []string
	timeout   string
	browser   bool
	clauses   string
	assetPath string
	pageSize  string
	optimize  bool
}

// signatureFlags name explicit signature images.
type signatureFlags struct {
	lessor string
	lessee string
}

// renderFlags holds all flags for generate, download and preview.
type renderFlags struct {
	common    commonFlags
	engine    engineFlags
	signature signatureFlags
	output    string // generate: output file, "-" for stdout
	dir       string // download, preview: output directory
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common commonFlags
	engine engineFlags
	addr   string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addEngineFlags adds image resolution and clause flags to a FlagSet.
func addEngineFlags(fs *flag.FlagSet, f *engineFlags) {
	fs.StringVar(&f.relay, "relay", "", "trusted image relay URL")
	fs.StringArrayVar(&f.proxies, "proxy", nil, "third-party image relay (repeatable, tried in order)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-attempt image timeout (8s to 15s)")
	fs.BoolVar(&f.browser, "browser", false, "draw remote images in headless Chrome")
	fs.StringVar(&f.clauses, "clauses", "", "clause set name")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory with custom clauses/{name}.yaml")
	fs.StringVarP(&f.pageSize, "page-size", "p", "", "page size: a4, a5, letter, legal")
	fs.BoolVar(&f.optimize, "optimize", false, "optimize the PDF after generation")
}

// addSignatureFlags adds signature image flags to a FlagSet.
func addSignatureFlags(fs *flag.FlagSet, f *signatureFlags) {
	fs.StringVar(&f.lessor, "lessor-sig", "", "lessor signature: file, URL or data URI")
	fs.StringVar(&f.lessee, "lessee-sig", "", "lessee signature: file, URL or data URI")
}

// parseRenderFlags parses generate, download or preview flags and returns
// positional args.
func parseRenderFlags(cmd string, args []string, stderr io.Writer) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &renderFlags{}

	if cmd == cmdGenerate {
		fs.StringVarP(&f.output, "output", "o", "", "output file (\"-\" = stdout)")
	} else {
		fs.StringVarP(&f.dir, "dir", "d", "", "output directory")
	}
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)
	addSignatureFlags(fs, &f.signature)

	fs.Usage = func() { printCommandUsage(stderr, cmd) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve flags.
func parseServeFlags(args []string, stderr io.Writer) (*serveFlags, []string, error) {
	fs := flag.NewFlagSet(cmdServe, flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &serveFlags{}

	fs.StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	addCommonFlags(fs, &f.common)
	addEngineFlags(fs, &f.engine)

	fs.Usage = func() { printCommandUsage(stderr, cmdServe) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// usageError marks a flag parsing failure as a usage error. Help requests
// pass through unchanged.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
