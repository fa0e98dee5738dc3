package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: leasepdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Generate a contract PDF from a record")
	fmt.Fprintln(w, "  download   Generate and save under the derived file name")
	fmt.Fprintln(w, "  preview    Generate and open in a browser window")
	fmt.Fprintln(w, "  serve      Run the HTTP API and image relay")
	fmt.Fprintln(w, "  doctor     Check system configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'leasepdf help <command>' for details on a specific command.")
}

// printCommandUsage prints usage for one command.
func printCommandUsage(w io.Writer, cmd string) {
	switch cmd {
	case cmdGenerate:
		fmt.Fprintln(w, "Usage: leasepdf generate <record> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Generate a contract PDF. <record> is a JSON or YAML file, or '-' for stdin.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "  -o, --output <path>       Output file, '-' for stdout (default: derived name)")
	case cmdDownload:
		fmt.Fprintln(w, "Usage: leasepdf download <record> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Generate a contract PDF named hop-dong-<id>-<date>.pdf.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "  -d, --dir <path>          Output directory (default: output.defaultDir or .)")
	case cmdPreview:
		fmt.Fprintln(w, "Usage: leasepdf preview <record> [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Generate a contract PDF and open it in Chrome. When no window can be")
		fmt.Fprintln(w, "opened the file is saved instead, as with download.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Output:")
		fmt.Fprintln(w, "  -d, --dir <path>          Fallback directory (default: output.defaultDir or .)")
	case cmdServe:
		fmt.Fprintln(w, "Usage: leasepdf serve [flags]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Serve POST /contracts/pdf, GET /relay?url= and GET /healthz.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Server:")
		fmt.Fprintln(w, "      --addr <addr>         Listen address (default: :8080)")
	case cmdDoctor:
		fmt.Fprintln(w, "Usage: leasepdf doctor [--json]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Check Chrome, clause sets and configuration.")
		return
	case cmdVersion:
		fmt.Fprintln(w, "Usage: leasepdf version")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show version information.")
		return
	case cmdHelp:
		fmt.Fprintln(w, "Usage: leasepdf help [command]")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Show help for a command.")
		return
	}

	if cmd != cmdServe {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Signatures:")
		fmt.Fprintln(w, "      --lessor-sig <ref>    Lessor signature: file, URL or data URI")
		fmt.Fprintln(w, "      --lessee-sig <ref>    Lessee signature: file, URL or data URI")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Images:")
	fmt.Fprintln(w, "      --relay <url>         Trusted image relay")
	fmt.Fprintln(w, "      --proxy <url>         Third-party relay, repeatable ({url} placeholder)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-attempt timeout (8s to 15s)")
	fmt.Fprintln(w, "      --browser             Draw remote images in headless Chrome")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --clauses <name>      Clause set (default: standard)")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory with clauses/<name>.yaml")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, a5, letter, legal")
	fmt.Fprintln(w, "      --optimize            Optimize the PDF after generation")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  LEASEPDF_CONFIG, LEASEPDF_RELAY_URL, LEASEPDF_TIMEOUT,")
	fmt.Fprintln(w, "  LEASEPDF_OUTPUT_DIR, LEASEPDF_CLAUSES")
}

// knownCommand reports whether cmd has a help page.
func knownCommand(cmd string) bool {
	switch cmd {
	case cmdGenerate, cmdDownload, cmdPreview, cmdServe, cmdDoctor, cmdVersion, cmdHelp:
		return true
	}
	return false
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if !knownCommand(args[0]) {
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	printCommandUsage(env.Stdout, args[0])
	return ExitSuccess
}
