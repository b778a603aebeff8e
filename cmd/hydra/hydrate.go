package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydra/internal/config"
	"github.com/vango-dev/hydra/internal/demo"
	"github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/dom"
	"github.com/vango-dev/hydra/pkg/instrument"
	"github.com/vango-dev/hydra/pkg/reconcile"
	"github.com/vango-dev/hydra/pkg/render"
)

type hydrateOptions struct {
	file      string
	container string
	clicks    []string
}

func hydrateCmd(flags *globalFlags) *cobra.Command {
	opts := &hydrateOptions{}

	cmd := &cobra.Command{
		Use:   "hydrate [app]",
		Short: "Hydrate a rendered page and report the repairs",
		Long: `Hydrate the markup of a page against a demo app.

The converged container markup is printed to stdout. Mismatches and the
mutations made to repair them are summarized on stderr. --click dispatches
click events to elements by id after hydration.

Examples:
  hydra render counter --out page.html && hydra hydrate counter --file page.html
  hydra hydrate counter --file page.html --click inc --click inc`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			name := cfg.Render.App
			if len(args) == 1 {
				name = args[0]
			}
			return runHydrate(cmd, cfg, name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Page to hydrate (required)")
	cmd.Flags().StringVar(&opts.container, "container", render.DefaultContainerID, "Id of the container element")
	cmd.Flags().StringArrayVar(&opts.clicks, "click", nil, "Click the element with this id after hydration (repeatable)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// repairCounter counts hydration mismatches and DOM mutations.
type repairCounter struct {
	instrument.Nop
	mismatches map[string]int
	mutations  map[dom.MutationKind]int
}

func (c *repairCounter) HydrationMismatch(kind string) { c.mismatches[kind]++ }
func (c *repairCounter) Mutation(kind dom.MutationKind) { c.mutations[kind]++ }

func runHydrate(cmd *cobra.Command, cfg *config.Config, name string, opts *hydrateOptions) error {
	app, err := demo.Lookup(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(opts.file)
	if err != nil {
		return err
	}
	doc, err := dom.ParseDocument(bytes.NewReader(data))
	if err != nil {
		return err
	}
	container := doc.GetElementByID(opts.container)
	if container == nil {
		return errors.New("E102").WithDetailf("%s has no #%s element", opts.file, opts.container)
	}

	counter := &repairCounter{
		mismatches: make(map[string]int),
		mutations:  make(map[dom.MutationKind]int),
	}
	services := demo.Services()
	defer services.Close()

	root, err := reconcile.HydrateElement(doc, container, app.Tree(),
		reconcile.WithLogger(newLogger(cfg, cmd.ErrOrStderr())),
		reconcile.WithServices(services),
		reconcile.WithHooks(counter),
		reconcile.WithMaxCascade(cfg.Scheduler.MaxCascade),
	)
	if err != nil {
		return err
	}
	defer root.Unmount()

	w := cmd.ErrOrStderr()
	report(w, "hydrated", counter)

	for _, id := range opts.clicks {
		target := doc.GetElementByID(id)
		if target == nil {
			warn(w, "no element #%s", id)
			continue
		}
		clear(counter.mutations)
		if _, err := root.Dispatch(target, dom.NewEvent("click", nil)); err != nil {
			return err
		}
		report(w, "clicked #"+id, counter)
	}

	fmt.Fprintln(cmd.OutOrStdout(), dom.InnerHTML(container))
	return nil
}

func report(w io.Writer, what string, c *repairCounter) {
	total := 0
	for _, n := range c.mutations {
		total += n
	}
	success(w, "%s: %d mismatches, %d mutations", what, sum(c.mismatches), total)

	kinds := make([]string, 0, len(c.mismatches))
	for k := range c.mismatches {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		info(w, "%s mismatch × %d", k, c.mismatches[k])
	}
	for kind, n := range c.mutations {
		info(w, "%s × %d", kind, n)
	}
}

func sum(m map[string]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
