package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aschepis/backscratcher/blocks/block"
	"github.com/aschepis/backscratcher/blocks/blocks"
	"github.com/aschepis/backscratcher/blocks/config"
	blocklogger "github.com/aschepis/backscratcher/blocks/logger"
	"github.com/rs/zerolog"
)

const usage = `usage: blockrun [flags] <command> [args]

commands:
  list                      list registered blocks
  schema -id ID             print the input and output schema of a block
  run -id ID -input JSON    run a block and print its results as JSON lines
  verify                    run every block fixture against a stubbed endpoint
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("blockrun", flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	var (
		configPath = fs.String("config", config.GetConfigPath(), "Path to config file")
		logFile    = fs.String("logfile", "", "Path to log file. If not set, logs to stderr")
		pretty     = fs.Bool("pretty", false, "Use pretty console output (only valid when logfile is not set)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *logFile != "" && *pretty {
		return fmt.Errorf("--logfile and --pretty are mutually exclusive")
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *pretty {
		cfg.Log.Pretty = true
	}

	logger, logCloser, err := blocklogger.InitWithOptions(cfg.Log.File, cfg.Log.Pretty, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logCloser.Close() //nolint:errcheck // No remedy for log close errors

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	logger.Debug().Str("command", cmd).Str("host", cfg.Ollama.Host).Msg("blockrun starting")

	switch cmd {
	case "list":
		reg, err := newRegistry(cfg, logger)
		if err != nil {
			return err
		}
		return listBlocks(reg, stdout)
	case "schema":
		return schemaCommand(cfg, logger, cmdArgs, stdout)
	case "run":
		return runCommand(ctx, cfg, logger, cmdArgs, stdout)
	case "verify":
		reg := block.NewRegistry(logger)
		if err := blocks.RegisterAll(reg, blocks.FixtureDeps(logger)); err != nil {
			return err
		}
		if err := reg.VerifyAll(ctx); err != nil {
			return fmt.Errorf("fixture verification failed: %w", err)
		}
		fmt.Fprintf(stdout, "%d blocks verified\n", len(reg.List()))
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// newRegistry registers every block against the configured endpoint.
func newRegistry(cfg *config.Config, logger zerolog.Logger) (*block.Registry, error) {
	client, err := config.NewOllamaClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama client: %w", err)
	}
	reg := block.NewRegistry(logger)
	err = blocks.RegisterAll(reg, blocks.Deps{
		Generator:    client,
		ModelCreator: client,
		Logger:       logger,
		RetryDelay:   cfg.Retry.Delay,
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

type blockSummary struct {
	ID          string           `json:"id"`
	Description string           `json:"description"`
	Categories  []block.Category `json:"categories"`
	Inputs      []string         `json:"inputs"`
	Outputs     []string         `json:"outputs"`
}

func listBlocks(reg *block.Registry, stdout io.Writer) error {
	enc := json.NewEncoder(stdout)
	for _, b := range reg.List() {
		err := enc.Encode(blockSummary{
			ID:          b.ID(),
			Description: b.Description(),
			Categories:  b.Categories(),
			Inputs:      b.InputSchema().Fields(),
			Outputs:     b.OutputSchema().Fields(),
		})
		if err != nil {
			return fmt.Errorf("failed to write block: %w", err)
		}
	}
	return nil
}

func schemaCommand(cfg *config.Config, logger zerolog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	id := fs.String("id", "", "Block id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := newRegistry(cfg, logger)
	if err != nil {
		return err
	}
	b, ok := reg.Get(*id)
	if !ok {
		return fmt.Errorf("unknown block: %q", *id)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"id":     b.ID(),
		"input":  b.InputSchema(),
		"output": b.OutputSchema(),
	})
}

func runCommand(ctx context.Context, cfg *config.Config, logger zerolog.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var (
		id    = fs.String("id", "", "Block id")
		input = fs.String("input", "{}", "Block input as a JSON object")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var values map[string]any
	if err := json.Unmarshal([]byte(*input), &values); err != nil {
		return fmt.Errorf("failed to parse input: %w", err)
	}

	reg, err := newRegistry(cfg, logger)
	if err != nil {
		return err
	}
	results, err := reg.Run(ctx, *id, values)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}
	return nil
}
