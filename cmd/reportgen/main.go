// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	jsoniter "github.com/json-iterator/go"
	"github.com/poiesic/reportgen"
	"github.com/poiesic/reportgen/ai"
	"github.com/poiesic/reportgen/batch"
	"github.com/poiesic/reportgen/catalog"
	"github.com/poiesic/reportgen/core"
	"github.com/poiesic/reportgen/server"
	"github.com/poiesic/reportgen/storage/badger"
	"github.com/urfave/cli/v2"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newService builds the report service for a command. Tests replace it to
// avoid network calls.
var newService = func(ctx context.Context, c *cli.Context, opts ...reportgen.Option) (*reportgen.Service, error) {
	cfg, err := loadAIConfig(c)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return reportgen.NewService(ctx, append([]reportgen.Option{reportgen.WithConfig(cfg)}, opts...)...)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	backendFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Model backend (googleai, openai). Overrides REPORTGEN_BACKEND",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model identifier. Overrides REPORTGEN_MODEL",
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible API host URL. Overrides REPORTGEN_HOST",
		},
	}

	return &cli.App{
		Name:  "reportgen",
		Usage: "Generate product catalog reports with a language model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file to load before reading the environment (skipped if missing)",
				Value: ".env",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate one report from a product file",
				Action: generateCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "products",
						Aliases:  []string{"p"},
						Usage:    "Product file (.json, .yaml, .yml, or - for JSON on stdin)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Report type (pricing, catalog, stock). Overrides the type in the file",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (markdown, json)",
						Value: formatMarkdown,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to a BadgerDB archive directory to keep the report in",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Reuse an archived report for an identical request (requires --db)",
					},
				}, backendFlags...),
			},
			{
				Name:   "batch",
				Usage:  "Generate several report types for the same products concurrently",
				Action: batchCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "products",
						Aliases:  []string{"p"},
						Usage:    "Product file (.json, .yaml, .yml, or - for JSON on stdin)",
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:  "types",
						Usage: "Report types to generate (default: all)",
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of concurrent model calls",
						Value: 3,
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format (markdown, json)",
						Value: formatMarkdown,
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to a BadgerDB archive directory to keep the reports in",
					},
				}, backendFlags...),
			},
			{
				Name:   "serve",
				Usage:  "Serve the reports HTTP API",
				Action: serveCommand,
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8080",
					},
					&cli.StringFlag{
						Name:    "db",
						Aliases: []string{"d"},
						Usage:   "Path to a BadgerDB archive directory",
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "Sustained requests per second on /api (0 disables limiting)",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "burst",
						Usage: "Maximum request burst on /api",
						Value: 5,
					},
				}, backendFlags...),
			},
			{
				Name:   "history",
				Usage:  "List or show archived reports",
				Action: historyCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the BadgerDB archive directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of reports to list",
						Value: 10,
					},
					&cli.StringFlag{
						Name:  "id",
						Usage: "Show a single report by ID",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Output format for --id (markdown, json)",
						Value: formatMarkdown,
					},
				},
			},
		},
	}
}

func generateCommand(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}

	req, err := catalog.Load(c.String("products"))
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}
	if c.IsSet("type") {
		reportType, err := core.ParseReportType(c.String("type"))
		if err != nil {
			return err
		}
		req.ReportType = reportType
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, c, archiveOptions(c)...)
	if err != nil {
		return err
	}
	defer svc.Close()

	rep, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}
	return writeReport(c.App.Writer, format, rep)
}

func batchCommand(c *cli.Context) error {
	format, err := outputFormat(c)
	if err != nil {
		return err
	}

	var types []core.ReportType
	for _, name := range c.StringSlice("types") {
		reportType, err := core.ParseReportType(name)
		if err != nil {
			return err
		}
		types = append(types, reportType)
	}

	req, err := catalog.Load(c.String("products"))
	if err != nil {
		return fmt.Errorf("failed to load products: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := append(archiveOptions(c), reportgen.WithPoolSize(c.Int("pool-size")))
	svc, err := newService(ctx, c, opts...)
	if err != nil {
		return err
	}
	defer svc.Close()

	results := svc.GenerateAll(ctx, req.Products, types...)
	return writeBatch(c.App.Writer, format, results)
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, c, archiveOptions(c)...)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := server.New(svc,
		server.WithAddr(c.String("addr")),
		server.WithRateLimit(c.Float64("rate"), c.Int("burst")),
	)
	return srv.ListenAndServe(ctx)
}

func historyCommand(c *cli.Context) error {
	ctx := context.Background()

	repo, err := badger.NewRepository(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer repo.Close()

	if id := c.String("id"); id != "" {
		format, err := outputFormat(c)
		if err != nil {
			return err
		}
		archived, err := repo.GetReport(ctx, id)
		if err != nil {
			return fmt.Errorf("report %s: %w", id, err)
		}
		return writeReport(c.App.Writer, format, archived.Report())
	}

	if c.Int("limit") <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	recent, err := repo.GetRecentReports(ctx, c.Int("limit"))
	if err != nil {
		return err
	}
	for _, r := range recent {
		fmt.Fprintf(c.App.Writer, "%s  %s  %-8s  %-10s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.ID, r.ReportType, r.Extraction, r.Model)
	}
	return nil
}

// loadAIConfig reads the environment (and --env-file) and applies any
// backend flags given on the command line.
func loadAIConfig(c *cli.Context) (*ai.Config, error) {
	var opts []ai.ConfigOption
	if c.IsSet("backend") {
		opts = append(opts, ai.WithBackend(c.String("backend")))
	}
	if c.IsSet("model") {
		opts = append(opts, ai.WithModel(c.String("model")))
	}
	if c.IsSet("host") {
		opts = append(opts, ai.WithHost(c.String("host")))
	}
	return ai.LoadConfig(c.String("env-file"), opts...)
}

func archiveOptions(c *cli.Context) []reportgen.Option {
	var opts []reportgen.Option
	if db := c.String("db"); db != "" {
		opts = append(opts, reportgen.WithArchive(db), reportgen.WithCache(c.Bool("cached")))
	}
	return opts
}

func outputFormat(c *cli.Context) (string, error) {
	format := strings.ToLower(c.String("format"))
	switch format {
	case formatMarkdown, formatJSON:
		return format, nil
	}
	return "", fmt.Errorf("invalid format %q: must be one of markdown, json", format)
}

func writeReport(w io.Writer, format string, rep *core.Report) error {
	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	_, err := fmt.Fprintf(w, "# %s\n\n%s\n", rep.Title, rep.Content)
	return err
}

// batchOutput is the JSON shape of one batch result.
type batchOutput struct {
	Type   core.ReportType `json:"type"`
	Report *core.Report    `json:"report,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func writeBatch(w io.Writer, format string, results []batch.Result) error {
	failed := 0
	out := make([]batchOutput, len(results))
	for i, res := range results {
		out[i] = batchOutput{Type: res.Type, Report: res.Report}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
			failed++
		}
	}

	if format == formatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		for i, res := range results {
			if i > 0 {
				fmt.Fprint(w, "\n---\n\n")
			}
			if res.Err != nil {
				fmt.Fprintf(w, "# %s\n\nerror: %v\n", res.Type.Title(), res.Err)
				continue
			}
			if err := writeReport(w, format, res.Report); err != nil {
				return err
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports failed", failed, len(results))
	}
	return nil
}

// setupLogger configures the global slog logger based on the log-level flag.
func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
