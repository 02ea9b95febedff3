// statelink - shareable link codec CLI tool
//
// Usage:
//
//	statelink encode [--json] <tool> [file]   Encode a JSON state as a shareable link
//	statelink decode <url>                    Decode a shareable link to JSON state
//	statelink tools                           List tools, paths and parameters
//	statelink serve                           Run the HTTP share service
//	statelink version                         Print version info
//
// Global flags: --config <file>, --base-url <url>, --log-level <level>.
//
// If no file is given, encode reads from stdin.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/Neumenon/statelink/config"
	"github.com/Neumenon/statelink/registry"
	"github.com/Neumenon/statelink/urlstate"
)

const version = "0.3.0"

// errNothingRestorable is returned by decode when a link carries no state.
var errNothingRestorable = errors.New("link holds no restorable state")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "statelink: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command runs against.
type env struct {
	cfg    *config.Config
	reg    *registry.Registry
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
}

func run(ctx context.Context, cmd string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	switch cmd {
	case "version", "--version", "-v":
		fmt.Fprintf(stdout, "statelink %s\n", version)
		return nil
	case "help", "--help", "-h":
		printUsage(stdout)
		return nil
	}

	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	baseURL := fs.String("base-url", "", "site origin prepended to tool paths")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	asJSON := fs.Bool("json", false, "encode: print url, query and fingerprint as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFile(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if fs.Changed("base-url") {
		cfg.BaseURL = *baseURL
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	logger, err := cfg.NewLogger(stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	gen, err := cfg.NewIDGenerator()
	if err != nil {
		return err
	}
	reg := registry.WithIDs(gen)
	for name, path := range cfg.Paths {
		if err := reg.Override(name, path); err != nil {
			return fmt.Errorf("paths.%s: %w", name, err)
		}
	}

	e := &env{cfg: cfg, reg: reg, logger: logger, stdin: stdin, stdout: stdout}
	rest := fs.Args()

	switch cmd {
	case "encode":
		return e.encode(rest, *asJSON)
	case "decode":
		return e.decode(rest)
	case "tools":
		return e.tools()
	case "serve":
		return e.serve(ctx)
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `statelink - shareable link codec (v%s)

Usage:
  statelink encode [--json] <tool> [file]   Encode a JSON state as a shareable link
  statelink decode <url>                    Decode a shareable link to JSON state
  statelink tools                           List tools, paths and parameters
  statelink serve                           Run the HTTP share service
  statelink version                         Print version info

Flags:
  --config <file>      YAML configuration file
  --base-url <url>     Site origin prepended to tool paths
  --log-level <level>  debug, info, warn or error

If no file is given, encode reads from stdin.

Examples:
  echo '{"tiles":[{"type":"x","value":1,"x":10,"y":20}]}' | statelink encode tiles
  statelink decode 'https://example.org/games/countdown?src=1,2,3&tgt=6'
`, version)
}

func (e *env) encode(args []string, asJSON bool) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: statelink encode <tool> [file]")
	}

	input := e.stdin
	if len(args) == 2 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open file: %w", err)
		}
		defer f.Close()
		input = f
	}

	data, err := io.ReadAll(io.LimitReader(input, urlstate.MaxInputLength+1))
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	if len(data) > urlstate.MaxInputLength {
		return fmt.Errorf("state exceeds %d bytes", urlstate.MaxInputLength)
	}

	link, err := e.reg.Link(args[0], data, e.cfg.BaseURL)
	if err != nil {
		return err
	}
	e.logger.Debug("encoded", "tool", args[0], "bytes", len(link.Query), "fingerprint", link.Fingerprint)

	if asJSON {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(link)
	}
	_, err = fmt.Fprintln(e.stdout, link.URL)
	return err
}

func (e *env) decode(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: statelink decode <url>")
	}

	tool, state, ok, err := e.reg.Resolve(args[0])
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", tool.Name(), errNothingRestorable)
	}

	var out bytes.Buffer
	if err := json.Indent(&out, state, "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(e.stdout)
	return err
}

func (e *env) tools() error {
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tPARAMETERS")
	for _, t := range e.reg.List() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Name(), t.Path(), strings.Join(t.Keys(), ","))
	}
	return tw.Flush()
}
