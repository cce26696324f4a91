package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/docgen/internal/config"
	"github.com/hpungsan/docgen/internal/db"
	"github.com/hpungsan/docgen/internal/embed"
	"github.com/hpungsan/docgen/internal/errors"
	"github.com/hpungsan/docgen/internal/mcp"
	"github.com/hpungsan/docgen/internal/ops"
	"github.com/hpungsan/docgen/internal/web"
)

// newCLIApp creates the CLI application with all commands. baseDir holds the
// symbol index; commands that need it open it on demand.
func newCLIApp(cfg *config.Config, baseDir string) *cli.App {
	app := &cli.App{
		Name:    "docgen",
		Usage:   "Generate manual pages and Markdown from annotated C comments",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Log pipeline steps to stderr"},
		},
		Commands: []*cli.Command{
			generateCmd(cfg, baseDir),
			checkCmd(cfg, baseDir),
			extractCmd(cfg),
			compileCmd(cfg),
			indexCmd(cfg, baseDir),
			lookupCmd(baseDir),
			serveCmd(cfg, baseDir),
			mcpCmd(cfg, baseDir),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// renderFlags are shared by generate and check.
func renderFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: manpage|markdown (default from config)"},
		&cli.StringFlag{Name: "section", Aliases: []string{"s"}, Usage: "Manual section (default from config)"},
		&cli.BoolFlag{Name: "index", Usage: "Resolve embeds missing from the inputs through the symbol index"},
	}
}

// generateCmd creates the generate command.
func generateCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Render every annotated entity into the output directory",
		ArgsUsage: "<files...>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Existing output directory (default from config)"},
		}, renderFlags()...),
		Action: func(c *cli.Context) error {
			extra, closeIndex, err := openExtra(c, baseDir)
			if err != nil {
				return outputError(err)
			}
			defer closeIndex()

			output, err := ops.Generate(c.Context, cfg, ops.GenerateInput{
				Paths:     c.Args().Slice(),
				OutputDir: c.String("output"),
				Format:    c.String("format"),
				Section:   c.String("section"),
				Extra:     extra,
				Log:       newLogger(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// checkCmd creates the check command.
func checkCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate annotations and markup without writing files",
		ArgsUsage: "<files...>",
		Flags:     renderFlags(),
		Action: func(c *cli.Context) error {
			extra, closeIndex, err := openExtra(c, baseDir)
			if err != nil {
				return outputError(err)
			}
			defer closeIndex()

			output, err := ops.Check(c.Context, cfg, ops.CheckInput{
				Paths:   c.Args().Slice(),
				Format:  c.String("format"),
				Section: c.String("section"),
				Extra:   extra,
				Log:     newLogger(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// extractCmd creates the extract command.
func extractCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Print the extracted records as JSON",
		ArgsUsage: "<files...>",
		Action: func(c *cli.Context) error {
			output, err := ops.Extract(c.Context, cfg, ops.ExtractInput{
				Paths: c.Args().Slice(),
				Log:   newLogger(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// compileCmd creates the compile command.
func compileCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "Print the intermediate compiled form",
		ArgsUsage: "<files...>",
		Action: func(c *cli.Context) error {
			output, err := ops.Compile(c.Context, cfg, ops.CompileInput{
				Paths: c.Args().Slice(),
				Log:   newLogger(c),
			})
			if err != nil {
				return outputError(err)
			}

			_, err = io.WriteString(os.Stdout, output.Text)
			return err
		},
	}
}

// indexCmd creates the index command.
func indexCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Store embeddable signatures in the symbol index",
		ArgsUsage: "<files...>",
		Action: func(c *cli.Context) error {
			database, err := db.Init(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer database.Close()

			output, err := ops.Index(c.Context, database, cfg, ops.IndexInput{
				Paths: c.Args().Slice(),
				Log:   newLogger(c),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// lookupCmd creates the lookup command.
func lookupCmd(baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Show one indexed symbol, or list the index",
		ArgsUsage: "[name]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "function|macro_function|constant|structure"},
			&cli.StringFlag{Name: "prefix", Aliases: []string{"p"}, Usage: "Name prefix filter"},
			&cli.StringFlag{Name: "file", Usage: "Only symbols from this source file"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultLookupLimit, Usage: "Max results"},
			&cli.IntFlag{Name: "offset", Usage: "Pagination offset"},
		},
		Action: func(c *cli.Context) error {
			database, err := db.Init(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer database.Close()

			output, err := ops.Lookup(database, ops.LookupInput{
				Name:   c.Args().First(),
				Kind:   c.String("kind"),
				Prefix: c.String("prefix"),
				File:   c.String("file"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Preview the rendered documents in a browser",
		ArgsUsage: "<files...>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8484, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewConfig(0, "no source files given"))
			}
			database, err := db.Init(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer database.Close()

			srv := web.NewServer(database, cfg, c.Args().Slice(), Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server on stdio",
		Action: func(c *cli.Context) error {
			database, err := db.Init(baseDir)
			if err != nil {
				return outputError(err)
			}
			defer database.Close()

			return mcp.Run(database, cfg, Version)
		},
	}
}

// Helper functions

// openExtra opens the symbol index when --index is set. The returned func
// closes it.
func openExtra(c *cli.Context, baseDir string) (embed.Source, func(), error) {
	if !c.Bool("index") {
		return nil, func() {}, nil
	}
	database, err := db.Init(baseDir)
	if err != nil {
		return nil, func() {}, err
	}
	return db.Index{DB: database}, func() { database.Close() }, nil
}

// newLogger returns a debug logger on stderr when --verbose is set.
func newLogger(c *cli.Context) *slog.Logger {
	if !c.Bool("verbose") {
		return nil
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI as "file:line: [CODE] message".
func outputError(err error) error {
	dErr, ok := errors.As(err)
	if !ok {
		return cli.Exit(err.Error(), 1)
	}
	prefix := ""
	if file, ok := dErr.Details["file"].(string); ok {
		prefix = file + ":"
	}
	if dErr.Line > 0 {
		prefix += strconv.Itoa(dErr.Line) + ":"
	}
	if prefix != "" {
		prefix += " "
	}
	return cli.Exit(fmt.Sprintf("%s[%s] %s", prefix, dErr.Code, dErr.Message), 1)
}
