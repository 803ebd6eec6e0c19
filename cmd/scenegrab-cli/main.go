// Command scenegrab-cli analyzes a video from the terminal, writing scene
// thumbnails and downloads into an output directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/heimdex/scenegrab/internal/backend"
	"github.com/heimdex/scenegrab/internal/config"
	"github.com/heimdex/scenegrab/internal/controller"
	"github.com/heimdex/scenegrab/internal/logging"
	"github.com/heimdex/scenegrab/internal/save"
	"github.com/heimdex/scenegrab/internal/terminal"
	"github.com/heimdex/scenegrab/internal/view"
)

const defaultOutDir = "scenegrab-out"

type options struct {
	url      string
	selected []int
	all      bool
	video    bool
	outDir   string
	backend  string
	timeout  time.Duration
	logLevel string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	cfg, err := config.New()
	if err != nil {
		fmt.Fprintf(stderr, "error: failed to load config: %v\n", err)
		return 1
	}

	level := cfg.LogLevel()
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger := logging.NewLogger(level, logging.FormatText)

	backendURL := cfg.BackendURL()
	if opts.backend != "" {
		backendURL = opts.backend
	}
	timeout := cfg.BackendTimeout()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	if err := save.PrepareDir(opts.outDir); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	client := backend.NewHTTPClient(backendURL, timeout, logger)
	surface := terminal.New(stdout, stderr, opts.outDir, logger)
	ctrl := controller.New(client, surface, logger)

	if err := ctrl.RunAnalysis(ctx, opts.url); err != nil {
		return 1
	}

	failed := false
	dispatch := func(kind view.ActionKind) {
		action, ok := surface.Action(kind)
		if !ok {
			fmt.Fprintf(stderr, "! %s is not available for this video\n", kind)
			failed = true
			return
		}
		if err := ctrl.Dispatch(ctx, action); err != nil {
			failed = true
		}
	}

	switch {
	case opts.all:
		dispatch(view.ActionDownloadAll)
	case len(opts.selected) > 0:
		surface.SetChecked(opts.selected)
		dispatch(view.ActionDownloadSelected)
	}
	if opts.video {
		dispatch(view.ActionDownloadVideo)
	}

	if failed {
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var selection string

	fs := flag.NewFlagSet("scenegrab-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.url, "url", "", "video URL to analyze (or pass it as the first argument)")
	fs.StringVar(&selection, "select", "", "comma-separated scene indices to download, e.g. 0,2")
	fs.BoolVar(&opts.all, "all", false, "download every scene")
	fs.BoolVar(&opts.video, "video", false, "ask the backend to download the video")
	fs.StringVar(&opts.outDir, "out", defaultOutDir, "directory for thumbnails and archives")
	fs.StringVar(&opts.backend, "backend", "", "backend base URL (overrides config)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "per-request backend timeout (overrides config)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: scenegrab-cli [flags] <url>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.url == "" && fs.NArg() > 0 {
		opts.url = fs.Arg(0)
	}

	sel, err := parseSelection(selection)
	if err != nil {
		return opts, err
	}
	opts.selected = sel
	return opts, nil
}

// parseSelection reads a list like "0, 2,5". Empty input selects nothing.
func parseSelection(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var idx []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		i, err := strconv.Atoi(part)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("invalid scene index %q", part)
		}
		idx = append(idx, i)
	}
	return idx, nil
}
