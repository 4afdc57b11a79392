package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/uno-inspect/inspect"
	"github.com/wippyai/uno-inspect/snapshot"
)

func main() {
	var (
		snapFile    = flag.String("snapshot", "", "Path to snapshot YAML file")
		expand      = flag.Int("expand", 0, "Expand children to this depth")
		maxDepth    = flag.Int("depth", 0, "Descriptor nesting limit (default 64)")
		debug       = flag.Bool("debug", false, "Log resolution details to stderr")
		diag        = flag.Bool("diag", false, "Fail loudly on malformed records")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *snapFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: unoinspect -snapshot <file.yaml> [-expand n] [-debug] [-diag]")
		fmt.Fprintln(os.Stderr, "       unoinspect -snapshot <file.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	logger := zap.NewNop()
	if *debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
	}
	defer func() { _ = logger.Sync() }()

	opts := []inspect.Option{
		inspect.WithLogger(logger),
		inspect.WithDiagnostics(*diag),
		inspect.WithMaxDepth(*maxDepth),
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*snapFile, logger, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*snapFile, *expand, logger, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(snapFile string, expand int, logger *zap.Logger, opts []inspect.Option) error {
	ctx := context.Background()

	img, roots, err := snapshot.Load(ctx, snapFile, snapshot.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	defer img.Close(ctx)

	sess := inspect.New(opts...)
	img.SetFormatter(sess)

	printTree(os.Stdout, sess, newRoots(roots), expand)
	st := sess.Stats()
	logger.Debug("descriptor cache",
		zap.Int("resolved", st.Resolved),
		zap.Int("unresolved", st.Unresolved),
		zap.Uint64("hits", st.Hits),
		zap.Uint64("misses", st.Misses))
	return nil
}
