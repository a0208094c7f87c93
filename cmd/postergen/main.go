// Package main provides the CLI entry point for postergen.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/postergen/pkg/adapters/ffmpegsource"
	"github.com/user/postergen/pkg/adapters/filesink"
	"github.com/user/postergen/pkg/adapters/logger"
	"github.com/user/postergen/pkg/adapters/nullsink"
	"github.com/user/postergen/pkg/adapters/osfilesystem"
	"github.com/user/postergen/pkg/config"
	"github.com/user/postergen/pkg/framecache"
	"github.com/user/postergen/pkg/library"
	"github.com/user/postergen/pkg/locking"
	"github.com/user/postergen/pkg/ports"
	"github.com/user/postergen/pkg/poster"
	"github.com/user/postergen/pkg/server"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "postergen",
		Usage:   l10n.T("Generate custom posters from video frames"),
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			renderCommand(),
			probeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loggingFlags are shared by every subcommand.
func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Value:   "info",
			Usage:   l10n.T("Log level (debug, info, warn, error)"),
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"Q"},
			Usage:   l10n.T("Suppress all log output"),
		},
	}
}

func newLogger(c *cli.Context, fallback string) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	level := c.String("log-level")
	if !c.IsSet("log-level") && fallback != "" {
		level = fallback
	}
	return logger.NewConsole(ports.ParseLogLevel(level))
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn(l10n.T("Interrupted, shutting down..."))
		cancel()
	}()

	return ctx, cancel
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: l10n.T("Run the poster generator HTTP API"),
		Flags: loggingFlags(),
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.Context)
			if err != nil {
				return err
			}

			log := newLogger(c, cfg.LogLevel)
			ctx, cancel := signalContext(log)
			defer cancel()

			source, err := ffmpegsource.New(ffmpegsource.Options{
				FFmpegPath:    cfg.FFmpegPath,
				FFprobePath:   cfg.FFprobePath,
				MaxConcurrent: cfg.MaxConcurrentExtracts,
			}, log)
			if err != nil {
				return err
			}

			fs := osfilesystem.New()
			if err := fs.MkdirAll(cfg.CacheDir); err != nil {
				return fmt.Errorf("create cache directory: %w", err)
			}

			// File locks let several instances share one cache directory.
			var locks locking.Group
			locks, err = locking.NewFileLock(cfg.CacheDir)
			if err != nil {
				log.Warn(l10n.T("File locking unavailable, falling back to in-process locks"))
				locks = locking.NewMemLock()
			}

			cache, err := framecache.New(framecache.Options{
				Dir:              cfg.CacheDir,
				MaxBytes:         cfg.MaxCacheBytes(),
				PreviewWidth:     cfg.PreviewMaxWidth,
				Quality:          cfg.ThumbnailQuality,
				ThumbnailWorkers: runtime.NumCPU(),
			}, source, fs, locks, log)
			if err != nil {
				return err
			}

			compositor, err := poster.New(poster.Options{
				Width:     cfg.PosterWidth,
				Height:    cfg.PosterHeight,
				OutputDir: cfg.OutputPath,
				FontsDir:  cfg.FontsDir,
			}, source, fs, nullsink.New(), log)
			if err != nil {
				return err
			}

			lib := library.New(cfg.VideoPathsList(), source, log)
			handlers := server.NewHandlers(lib, cache, compositor, log)

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.Port),
				Handler:           server.NewRouter(handlers, log),
				ReadHeaderTimeout: 10 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer shutdownCancel()
				srv.Shutdown(shutdownCtx)
			}()

			log.Info(l10n.F("Listening on :%d (%d video roots)", cfg.Port, len(lib.Roots())))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     l10n.T("Render a poster from a scene file"),
		ArgsUsage: "<scene.yaml>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   l10n.T("Output directory for the rendered poster"),
			},
			&cli.StringFlag{
				Name:  "fonts",
				Usage: l10n.T("Directory searched first for fonts"),
			},
			&cli.IntFlag{
				Name:    "width",
				Aliases: []string{"W"},
				Value:   1000,
				Usage:   l10n.T("Poster width in pixels"),
			},
			&cli.IntFlag{
				Name:    "height",
				Aliases: []string{"H"},
				Value:   1500,
				Usage:   l10n.T("Poster height in pixels"),
			},
			&cli.StringFlag{
				Name:  "ffmpeg",
				Usage: l10n.T("Path to ffmpeg executable"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   l10n.T("Save intermediate render stages"),
			},
			&cli.StringFlag{
				Name:  "debug-dir",
				Value: "./debug",
				Usage: l10n.T("Directory for debug output"),
			},
		}, loggingFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("render requires exactly one scene file argument"), 1)
			}

			log := newLogger(c, "")
			ctx, cancel := signalContext(log)
			defer cancel()

			data, err := os.ReadFile(c.Args().First())
			if err != nil {
				return fmt.Errorf("read scene file: %w", err)
			}
			var scene poster.Scene
			if err := yaml.Unmarshal(data, &scene); err != nil {
				return fmt.Errorf("parse scene file: %w", err)
			}

			source, err := ffmpegsource.New(ffmpegsource.Options{
				FFmpegPath: c.String("ffmpeg"),
			}, log)
			if err != nil {
				return err
			}

			fs := osfilesystem.New()

			var sink ports.DebugSink
			if c.Bool("debug") {
				if err := fs.MkdirAll(c.String("debug-dir")); err != nil {
					return fmt.Errorf("create debug directory: %w", err)
				}
				sink = filesink.New(c.String("debug-dir"), fs)
			} else {
				sink = nullsink.New()
			}

			compositor, err := poster.New(poster.Options{
				Width:     c.Int("width"),
				Height:    c.Int("height"),
				OutputDir: c.String("output"),
				FontsDir:  c.String("fonts"),
			}, source, fs, sink, log)
			if err != nil {
				return err
			}

			name, err := compositor.Render(ctx, &scene)
			if err != nil {
				return err
			}

			fmt.Println(l10n.F("Poster saved as %s", name))
			return nil
		},
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Print video metadata as JSON"),
		ArgsUsage: "<video>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "ffprobe",
				Usage: l10n.T("Path to ffprobe executable"),
			},
		}, loggingFlags()...),
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit(l10n.T("probe requires exactly one video argument"), 1)
			}

			log := newLogger(c, "")
			ctx, cancel := signalContext(log)
			defer cancel()

			source, err := ffmpegsource.New(ffmpegsource.Options{
				FFprobePath: c.String("ffprobe"),
			}, log)
			if err != nil {
				return err
			}

			info, err := source.Probe(ctx, c.Args().First())
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
