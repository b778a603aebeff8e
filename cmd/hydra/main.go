package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vango-dev/hydra/internal/config"
	"github.com/vango-dev/hydra/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┬ ┬┌┬┐┬─┐┌─┐
  ╠═╣└┬┘ ││├┬┘├─┤
  ╩ ╩ ┴ ─┴┘┴└─┴ ┴
`

// globalFlags are shared by every command.
type globalFlags struct {
	configPath string
	debug      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "hydra",
		Short: "Render, hydrate and serve reconciled UI trees",
		Long: `Hydra renders virtual node trees to HTML, hydrates existing markup
and keeps pages live over a WebSocket.

Commands read hydra.json, hydra.toml or hydra.yaml from the working
directory unless --config names a file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: hydra.{json,toml,yaml} in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		renderCmd(flags),
		hydrateCmd(flags),
		serveCmd(flags),
		appsCmd(),
		initCmd(),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file. Without --config a missing file is not
// an error and defaults are used.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f.configPath != "" {
		cfg, err = config.LoadFile(f.configPath)
	} else {
		cfg, err = config.Load(".")
		if errors.HasCode(err, "E140") {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if f.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// newLogger builds the slog logger the config asks for.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	switch cfg.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	case "pretty":
		return slog.New(charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           charmlog.Level(cfg.SlogLevel()),
			Prefix:          "hydra",
		}))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// printBanner prints the ASCII art banner.
func printBanner(w io.Writer) {
	fmt.Fprintln(w, styleBanner.Render(banner))
}

var (
	styleBanner  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleSuccess.Render("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", styleDim.Render(fmt.Sprintf(format, args...)))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", styleWarning.Render("⚠"), fmt.Sprintf(format, args...))
}
