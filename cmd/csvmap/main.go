package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/csvmap/internal/config"
	"github.com/JonMunkholm/csvmap/internal/core"
	_ "github.com/JonMunkholm/csvmap/internal/core/tables" // Register built-in schemas
	"github.com/JonMunkholm/csvmap/internal/logging"
)

// Options are the command line flags. Flags override the environment.
type Options struct {
	Schema       string   `short:"s" long:"schema" description:"Key of a registered schema"`
	SchemaFile   string   `short:"f" long:"schema-file" description:"Schema file (.yaml, .json or .hcl)"`
	Mapping      string   `short:"m" long:"mapping" description:"Mapping file of source header to target columns"`
	Templates    string   `short:"t" long:"templates" description:"Import templates file (default: $CSVMAP_TEMPLATES)"`
	SaveMapping  string   `long:"save-mapping" description:"Write the mapping used to this file"`
	SaveTemplate string   `long:"save-template" description:"Add the mapping used to the templates file under this name"`
	NoAutoMap    bool     `long:"no-automap" description:"Do not suggest mappings for unmapped headers"`
	Threshold    float64  `long:"threshold" description:"Auto-map similarity threshold (default: $AUTOMAP_THRESHOLD)"`
	Mode         string   `long:"mode" description:"Auto-map direction" choice:"source" choice:"target"`
	Output       string   `short:"o" long:"output" description:"Output CSV file (default: stdout)"`
	Report       string   `short:"r" long:"report" description:"Write a JSON validation report to this file"`
	Delimiter    string   `short:"d" long:"delimiter" description:"Input and output field separator (default: $CSVMAP_DELIMITER or sniffed)"`
	NoHeader     bool     `long:"no-header" description:"Leave the header row out of the output"`
	Strict       bool     `long:"strict" description:"Abort on the first failed transform step"`
	FailInvalid  bool     `long:"fail-on-invalid" description:"Exit with status 1 when any row fails validation"`
	List         bool     `short:"l" long:"list" description:"List registered schemas and exit"`
	Verbose      []bool   `short:"v" long:"verbose" description:"Show verbose debug information"`
	Args         struct {
		Input string `positional-arg-name:"input" description:"Input CSV file, or - for stdin"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	if _, err := flags.Parse(&opts); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(2)
	}
	if len(opts.Verbose) > 0 {
		cfg.Logging.Level = "debug"
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	slog.Debug("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg, &opts, os.Stdin, os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, errInvalidRows):
		os.Exit(1)
	default:
		slog.Debug("run failed", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		os.Exit(1)
	}
}
