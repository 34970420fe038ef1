package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/db"
	"github.com/tendhq/tend/internal/extract"
	"github.com/tendhq/tend/internal/mcp"
	"github.com/tendhq/tend/internal/recall"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"serve": true, "extract": true,
	"task": true, "goal": true, "activity": true,
	"area": true, "journal": true,
	"recall": true, "review": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _                  _
  | |_ ___ _ __   __| |
  | __/ _ \ '_ \ / _' |
  | ||  __/ | | | (_| |
   \__\___|_| |_|\__,_|

  Personal life-management companion

  Usage: tend <command> [options]
         tend --help

  MCP server mode requires piped input.`)
}

// appEnv bundles everything the CLI and servers need at startup.
type appEnv struct {
	baseDir    string
	reportsDir string
	cfg        *config.Config
	pipeline   *extract.Pipeline
	embedder   recall.Embedder
	generator  extract.Generator
}

// buildEnv resolves the base directory and assembles the model clients.
// Remote services are optional: with no API key the extractor runs
// heuristics only and recall requires caller-supplied vectors.
func buildEnv(baseDir string, cfg *config.Config) *appEnv {
	env := &appEnv{
		baseDir:    baseDir,
		reportsDir: filepath.Join(baseDir, "reports"),
		cfg:        cfg,
	}

	if cfg.ModelAPIKey != "" {
		gen := extract.NewAnthropicGenerator(
			cfg.ModelName, cfg.ModelAPIKey, cfg.ModelBaseURL,
			time.Duration(cfg.ModelTimeoutSeconds)*time.Second)
		env.generator = gen
		env.embedder = recall.NewEmbeddingClient(cfg.EmbedModel, cfg.ModelAPIKey, cfg.EmbedBaseURL)
	}
	env.pipeline = extract.NewPipeline(env.generator, cfg.MaxExtractItems)

	return env
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Join(homeDir, ".tend")

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	cfg, err := config.Load(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	env := buildEnv(baseDir, cfg)

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(database, env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'tend --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	if err := mcp.Run(mcp.Deps{
		DB:         database,
		Cfg:        cfg,
		Pipeline:   env.pipeline,
		Embedder:   env.embedder,
		ReportsDir: env.reportsDir,
	}, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
