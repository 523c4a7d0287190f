package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/mask-studio-mcp/internal/config"
	"github.com/ironsheep/mask-studio-mcp/internal/ocr"
	"github.com/ironsheep/mask-studio-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

type rootFlags struct {
	configPath string
	debug      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mask-mcp: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "mask-mcp",
		Short: "MCP server for region-mask image editing",
		Long: `mask-mcp serves region-mask editors over the Model Context Protocol.

A host UI forwards pointer and key events; the server maps them into native
image pixels, keeps each editor's selection and paint, and produces the
[EDIT_ZONE: y1, x1, y2, x2] annotated prompt for a generation model.

This server communicates via MCP protocol over stdin/stdout.
Configure it in your MCP client (e.g., Claude Desktop).

Environment variables:
  MASK_MCP_CONFIG=<path>       Config file (same as --config)
  MASK_MCP_LOG_LEVEL=debug     Enable debug logging`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.Debug() {
				log.Printf("Mask MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
			}

			srv := server.New(cfg, Version)
			return srv.Run()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.SetVersionTemplate(versionText())

	cmd.AddCommand(newVersionCommand())
	cmd.AddCommand(newConfigCommand(flags))

	return cmd
}

// loadConfig resolves configuration and sets up logging. Logs go to stderr
// because stdout carries the MCP protocol.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.debug {
		cfg.LogLevel = config.LevelDebug
	}
	return cfg, nil
}

func versionText() string {
	return fmt.Sprintf("mask-mcp %s\n  Build time: %s\n  Git commit: %s\n", Version, BuildTime, GitCommit)
}

func versionDetail() string {
	return versionText() + fmt.Sprintf("  Tesseract:  %s\n", ocr.Version())
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionDetail())
		},
	}
}

func newConfigCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

func writeConfig(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
