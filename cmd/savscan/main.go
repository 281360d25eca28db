package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/savscan/internal"
	"github.com/starford/savscan/internal/apperr"
	pkgconfig "github.com/starford/savscan/pkg/config"
)

var version = "dev"

const (
	configEnv         = "SAVSCAN_CONFIG_FILE"
	defaultConfigFile = "savscan.yaml"
)

const usageText = `savscan - inspect and search game save files

Usage:
  savscan <file.sav>                       print the root-level summary
  savscan <file.sav> "<text>"              find string values equal to or containing text
  savscan <file.sav> --key <substring>     find keys whose name contains substring
  savscan <file.sav> "<text>" --key <sub>  both searches

Flags (before or after the file):
  -k, --key <substring>   key search
      --case-sensitive    match case exactly
  -f, --format <name>     text, json or yaml (default text)
      --no-color          disable colour in text output
  -w, --watch             re-run whenever the file changes
  -c, --config <file>     config file (default savscan.yaml, env SAVSCAN_CONFIG_FILE)

  -h, --help              show this help
      --version           print the version

Commands:
  savscan serve           HTTP API over save.dir
  savscan mcp             MCP tools over stdio
`

func loadConfig(path string) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func defaultConfigPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	return defaultConfigFile
}

// root hands subcommands their own arguments and treats everything else as
// a scan.
func root(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()
	if len(args) > 0 {
		for _, sub := range subcommands() {
			if sub.HasName(args[0]) {
				return sub.Run(ctx, args)
			}
		}
	}
	return scan(ctx, cmd, args)
}

func scan(ctx context.Context, cmd *cli.Command, args []string) error {
	inv := invocation{config: defaultConfigPath()}
	inv.parse(args)
	out := cmd.Root().Writer
	switch {
	case inv.help:
		_, err := fmt.Fprint(out, usageText)
		return err
	case inv.version:
		_, err := fmt.Fprintf(out, "savscan version %s\n", version)
		return err
	case inv.req.Path == "":
		return apperr.ErrUsage
	}

	cfg, err := loadConfig(inv.config)
	if err != nil {
		return err
	}
	return internal.Run(ctx, inv.req,
		internal.WithConfig(cfg),
		internal.WithVersion(version),
		internal.WithOutput(out, cmd.Root().ErrWriter),
	)
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if err := internal.Serve(ctx, internal.WithConfig(cfg), internal.WithVersion(version)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file (optional)",
		DefaultText: defaultConfigFile,
		Value:       defaultConfigFile,
		Sources:     cli.EnvVars(configEnv),
	}
}

func subcommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:   "serve",
			Usage:  "Serve the read-only HTTP API over the save directory",
			Flags:  []cli.Flag{configFlag()},
			Action: serve,
		},
		{
			Name:   "mcp",
			Usage:  "Serve MCP tools over stdio",
			Flags:  []cli.Flag{configFlag()},
			Action: serveMCP,
		},
	}
}

// newCommand builds the root command. Scan flags may follow the save path
// and unknown ones are skipped, so the root leaves flag parsing to
// invocation.parse.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:            "savscan",
		Usage:           "Inspect and search compressed JSON game save files",
		Version:         version,
		HideVersion:     true,
		HideHelp:        true,
		SkipFlagParsing: true,
		Action:          root,
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, apperr.ErrUsage) {
			fmt.Fprint(os.Stderr, usageText)
			os.Exit(2)
		}
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
