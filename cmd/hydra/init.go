package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydra/internal/config"
	"github.com/vango-dev/hydra/internal/errors"
)

func initCmd() *cobra.Command {
	var (
		format string
		app    string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default config file",
		Long: `Write a config file with default values.

Examples:
  hydra init
  hydra init --format yaml --app todo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if _, ok := config.FormatOf("hydra." + format); !ok {
				return errors.New("E142").WithDetailf("Unknown format %q", format).
					WithSuggestion("Use json, toml or yaml")
			}
			path := filepath.Join(dir, "hydra."+format)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.New()
			cfg.Name = filepath.Base(mustAbs(dir))
			if app != "" {
				cfg.Render.App = app
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "Config format: json, toml or yaml")
	cmd.Flags().StringVar(&app, "app", "", "Demo app to render and serve")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config")
	return cmd
}

func mustAbs(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
