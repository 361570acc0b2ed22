// Package main provides the overlay-diff CLI. It snapshots a document
// collection before and after a patching/overlay step and dumps normalized
// copies of both states plus one unified-diff report per changed document.
//
// Modes:
//   - TWO-DIR : overlay-diff [flags] <pre_dir> <post_dir>
//   - WATCH   : overlay-diff -watch [flags] <dir>
//     (capture, wait for the patch step to touch the tree and settle,
//     capture again)
//
// Key design goals:
//   - Deterministic output layout (pre-patch/, post-patch/, diffs/)
//   - One bad document never aborts the batch
//   - Stable diff bytes: canonical JSON rendering, fixed hunk shape
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"overlay-diff/internal/config"
	"overlay-diff/internal/docset"
	"overlay-diff/internal/dump"
	"overlay-diff/internal/fsdocs"
	"overlay-diff/internal/trigger"
	"overlay-diff/internal/ziputil"
)

// Config is the fully resolved CLI configuration: file/env config from
// internal/config overlaid with flags and positional arguments.
type Config struct {
	preDir  string
	postDir string // empty in watch mode
	watch   bool

	out          string
	context      int
	mergeHunks   bool
	archive      string
	settle       time.Duration
	maxFileBytes int64
	exclude      []string
	logLevel     string
}

// parseFlags resolves flags and positionals from args (without the program
// name). Split out of main so it is testable, flag errors included.
func parseFlags(args []string) (Config, error) {
	fs := flag.NewFlagSet("overlay-diff", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage:\n")
		fmt.Fprintf(fs.Output(), "  TWO-DIR : overlay-diff [flags] <pre_dir> <post_dir>\n")
		fmt.Fprintf(fs.Output(), "  WATCH   : overlay-diff -watch [flags] <dir>\n")
		fmt.Fprintln(fs.Output(), "\nFlags:")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to overlay-diff.yaml (optional)")
	out := fs.String("out", "", "dump root directory (wiped and rebuilt every run)")
	ctxLines := fs.Int("context", 0, "context line window for diff hunks")
	mergeHunks := fs.Bool("merge-hunks", false, "merge overlapping hunks like standard diff tools")
	archive := fs.String("archive", "", "also package the dump tree into this zip file")
	watch := fs.Bool("watch", false, "single-directory mode: wait for the patch step, then diff")
	settle := fs.Int("settle", 0, "watch mode: seconds of quiet before the post-patch capture")
	maxFileBytes := fs.Int64("max-file-bytes", 0, "skip collection files larger than this (0 = config default)")
	exclude := fs.String("exclude", "", "comma-separated base-name prefixes to exclude from the walk")
	logLevel := fs.String("log-level", "", "zerolog level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	fileCfg, err := config.Load(*configPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		watch:        *watch,
		out:          fileCfg.Out,
		context:      fileCfg.Context,
		mergeHunks:   fileCfg.MergeHunks,
		archive:      fileCfg.Archive,
		settle:       time.Duration(fileCfg.SettleSeconds) * time.Second,
		maxFileBytes: fileCfg.MaxFileBytes,
		exclude:      fileCfg.Exclude,
		logLevel:     fileCfg.LogLevel,
	}
	if *out != "" {
		cfg.out = *out
	}
	if *ctxLines > 0 {
		cfg.context = *ctxLines
	}
	if *mergeHunks {
		cfg.mergeHunks = true
	}
	if *archive != "" {
		cfg.archive = *archive
	}
	if *settle > 0 {
		cfg.settle = time.Duration(*settle) * time.Second
	}
	if *maxFileBytes > 0 {
		cfg.maxFileBytes = *maxFileBytes
	}
	if *exclude != "" {
		cfg.exclude = splitCSV(*exclude)
	}
	if *logLevel != "" {
		cfg.logLevel = *logLevel
	}

	switch {
	case cfg.watch:
		if fs.NArg() != 1 {
			return Config{}, fmt.Errorf("watch mode needs exactly one <dir> argument")
		}
		cfg.preDir = filepath.Clean(fs.Arg(0))
	default:
		if fs.NArg() != 2 {
			return Config{}, fmt.Errorf("need <pre_dir> and <post_dir> arguments")
		}
		cfg.preDir = filepath.Clean(fs.Arg(0))
		cfg.postDir = filepath.Clean(fs.Arg(1))
	}
	return cfg, nil
}

// splitCSV converts a comma-separated list into a slice, trimming spaces
// and dropping empty items.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

func run(cfg Config) error {
	log := newLogger(cfg.logLevel)

	walkOpt := fsdocs.Options{
		Exclude:      cfg.exclude,
		MaxFileBytes: cfg.maxFileBytes,
	}

	d := dump.New(cfg.out, log)
	d.Context = cfg.context
	d.MergeHunks = cfg.mergeHunks

	d.CapturePrePatch(fsdocs.New(cfg.preDir, walkOpt))

	var post docset.Collection
	if cfg.watch {
		// The post capture must run exactly once, whether the tree settles
		// or the user interrupts to force it early. Whichever notification
		// arrives first wins; the other is ignored.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		ready := make(chan struct{})
		once := trigger.NewOnce(func() { close(ready) })
		go func() {
			if err := trigger.WaitSettled(ctx, cfg.preDir, cfg.settle, log); err == nil {
				once.Fire()
			}
		}()
		go func() {
			<-ctx.Done()
			once.Fire()
		}()
		log.Info().Str("dir", cfg.preDir).Dur("settle", cfg.settle).Msg("waiting for patch step")
		<-ready
		post = fsdocs.New(cfg.preDir, walkOpt)
	} else {
		post = fsdocs.New(cfg.postDir, walkOpt)
	}

	counts, err := d.CapturePostPatchAndDiff(post)
	if err != nil {
		return err
	}

	if cfg.archive != "" {
		if err := ziputil.ArchiveTree(cfg.archive, cfg.out); err != nil {
			return fmt.Errorf("archiving dump: %w", err)
		}
	}

	fmt.Printf(
		"Wrote patch dump %s (diffed=%d, unchanged=%d, new=%d, deleted=%d, errors=%d)\n",
		cfg.out, counts.Diffed, counts.Unchanged, counts.Added, counts.Deleted, counts.Errors,
	)
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
