package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/codec"
	"github.com/marmos91/docroots/pkg/config"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
	"github.com/marmos91/docroots/pkg/provider"
	"github.com/spf13/afero"
)

const usage = `docroots - browse configured roots through document ids

Usage:
  docroots [flags] <command> [arguments]

Commands:
  init [-force]              Write a sample configuration file
  roots [-columns c1,c2]     List configured roots
  stat <id>                  Describe one document
  ls [-columns c1,c2] <id>   List the children of a directory document
  cat <id>                   Copy a document to stdout
  write [-mode wt] <id>      Copy stdin into an existing document
  resolve <path>             Print the document id of a filesystem path
  journal [id]               Show recorded write completions

Flags:
`

// defaultWriteMode truncates, matching a shell redirection.
var defaultWriteMode = provider.MustParseMode("wt")

func main() {
	configPath := flag.String("config", "", "Configuration file path or s3://bucket/key URL (default: $XDG_CONFIG_HOME/docroots/config.yaml)")
	logLevel := flag.String("log-level", "", "Override the configured log level (DEBUG, INFO, WARN, ERROR)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	command, args := flag.Arg(0), flag.Args()[1:]

	// init runs before any configuration exists
	if command == "init" {
		runInit(args)
		return
	}

	// Create cancellable context for SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Interrupted, cancelling...")
		cancel()
	}()

	// A broken configuration still yields a usable provider with zero roots
	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		logger.Error("Configuration error, starting with zero roots: %v", err)
	}
	if *logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(*logLevel)
	}
	if err := logger.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	logger.Debug("Loaded configuration: %s", cfg)

	p, err := config.InitializeProvider(ctx, afero.NewOsFs(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize provider: %v", err)
	}

	runErr := run(ctx, p, command, args)

	// Close explicitly: os.Exit skips deferred calls
	if err := p.Journal().Close(); err != nil {
		logger.Error("Failed to close journal: %v", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "docroots %s: %v\n", command, runErr)
		cancel()
		os.Exit(exitCode(runErr))
	}
}

func run(ctx context.Context, p *provider.Provider, command string, args []string) error {
	switch command {
	case "roots":
		return runRoots(p, args)
	case "stat":
		return runStat(ctx, p, args)
	case "ls":
		return runList(ctx, p, args)
	case "cat":
		return runCat(ctx, p, args)
	case "write":
		return runWrite(ctx, p, args)
	case "resolve":
		return runResolve(p, args)
	case "journal":
		return runJournal(ctx, p, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// exitCode maps provider error codes to process exit codes.
func exitCode(err error) int {
	switch document.CodeOf(err) {
	case document.ErrNotFound, document.ErrUnknownRoot, document.ErrNoContainingRoot:
		return 3
	case document.ErrInvalidID, document.ErrInvalidArgument:
		return 2
	case document.ErrReadOnly:
		return 4
	default:
		return 1
	}
}

func runInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing configuration file")
	path := fs.String("path", "", "Write to this path instead of the default location")
	_ = fs.Parse(args)

	if *path != "" {
		if err := config.InitConfigToPath(*path, *force); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		fmt.Printf("Configuration written to %s\n", *path)
		return
	}

	written, err := config.InitConfig(*force)
	if err != nil {
		log.Fatalf("Failed to write configuration: %v", err)
	}
	fmt.Printf("Configuration written to %s\n", written)
}

func parseColumns(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func runRoots(p *provider.Provider, args []string) error {
	fs := flag.NewFlagSet("roots", flag.ExitOnError)
	columns := fs.String("columns", "", "Comma-separated projection (default: all root columns)")
	_ = fs.Parse(args)

	printCursor(os.Stdout, p.QueryRoots(parseColumns(*columns)))
	return nil
}

func runStat(ctx context.Context, p *provider.Provider, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one document id")
	}

	cur, err := p.QueryDocument(ctx, document.ID(args[0]), nil)
	if err != nil {
		return err
	}
	printCursor(os.Stdout, cur)
	return nil
}

func runList(ctx context.Context, p *provider.Provider, args []string) error {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	columns := fs.String("columns", "", "Comma-separated projection (default: all document columns)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id")
	}

	cur, err := p.QueryChildDocuments(ctx, document.ID(fs.Arg(0)), parseColumns(*columns))
	if err != nil {
		return err
	}
	printCursor(os.Stdout, cur)
	return nil
}

func runCat(ctx context.Context, p *provider.Provider, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one document id")
	}

	f, err := p.OpenForRead(ctx, document.ID(args[0]))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = io.Copy(os.Stdout, f)
	return err
}

func runWrite(ctx context.Context, p *provider.Provider, args []string) error {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	mode := fs.String("mode", defaultWriteMode.String(), "Open mode (w, wt, wa, rw, rwt)")
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id")
	}

	f, err := p.OpenDocument(ctx, document.ID(fs.Arg(0)), *mode)
	if err != nil {
		return err
	}

	n, copyErr := io.Copy(f, os.Stdin)
	closeErr := f.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return closeErr
	}

	logger.Info("Wrote %d bytes to %s", n, fs.Arg(0))
	return nil
}

func runResolve(p *provider.Provider, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected exactly one path")
	}

	id, err := codec.New(p.Registry()).Encode(args[0])
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

func runJournal(ctx context.Context, p *provider.Provider, args []string) error {
	var completions []journal.Completion

	switch len(args) {
	case 0:
		list, err := p.Journal().List(ctx)
		if err != nil {
			return err
		}
		completions = list
	case 1:
		c, err := p.Journal().Last(ctx, document.ID(args[0]))
		if err != nil {
			return err
		}
		completions = append(completions, *c)
	default:
		return fmt.Errorf("expected at most one document id")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DOCUMENT\tMODE\tCLOSED\tERROR\tID")
	for _, c := range completions {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.DocumentID, c.Mode, c.ClosedAt.Format(time.RFC3339), c.Error, c.ID)
	}
	return w.Flush()
}

// printCursor renders a cursor as an aligned table. Nil values print as "-".
func printCursor(out io.Writer, cur *provider.Cursor) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	columns := cur.Columns()
	_, _ = fmt.Fprintln(w, strings.ToUpper(strings.Join(columns, "\t")))

	for i := 0; i < cur.Len(); i++ {
		cells := make([]string, len(columns))
		for j, v := range cur.Row(i) {
			if v == nil {
				cells[j] = "-"
				continue
			}
			cells[j] = fmt.Sprint(v)
		}
		_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	_ = w.Flush()
}
