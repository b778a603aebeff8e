package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/hydra/internal/config"
	"github.com/vango-dev/hydra/internal/demo"
	"github.com/vango-dev/hydra/internal/errors"
	"github.com/vango-dev/hydra/pkg/render"
	"github.com/vango-dev/hydra/pkg/snapshot"
)

type renderOptions struct {
	out          string
	publish      bool
	name         string
	fragment     bool
	noSeparators bool
}

func renderCmd(flags *globalFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [app]",
		Short: "Render a demo app to HTML",
		Long: `Render a demo app to HTML.

The page is streamed to stdout unless --out names a file. With --publish
the page is stored as a snapshot: in the snapshot directory, or in S3 when
snapshot.s3.bucket is configured.

Examples:
  hydra render counter
  hydra render todo --out todo.html
  hydra render todo --publish --name release-1`,
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
			return runRender(cmd, cfg, name, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Write the page to a file")
	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Publish the page as a snapshot")
	cmd.Flags().StringVar(&opts.name, "name", "", "Snapshot name (default: <app>-<uuid>)")
	cmd.Flags().BoolVar(&opts.fragment, "fragment", false, "Render only the tree, without the page shell")
	cmd.Flags().BoolVar(&opts.noSeparators, "no-separators", false, "Omit the comments between adjacent text nodes")
	return cmd
}

func runRender(cmd *cobra.Command, cfg *config.Config, name string, opts *renderOptions) error {
	app, err := demo.Lookup(name)
	if err != nil {
		return err
	}
	page := pageData(cfg, app)
	rc := render.RendererConfig{NoSeparators: opts.noSeparators}

	if !opts.publish && opts.out == "" {
		if opts.fragment {
			return render.NewRenderer(rc).RenderToWriter(cmd.OutOrStdout(), page.Body)
		}
		return render.NewStreamingRenderer(cmd.OutOrStdout(), rc).RenderPage(page)
	}

	var buf bytes.Buffer
	r := render.NewRenderer(rc)
	if opts.fragment {
		err = r.RenderToWriter(&buf, page.Body)
	} else {
		err = r.RenderPage(&buf, page)
	}
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	if opts.out != "" {
		if err := os.WriteFile(opts.out, buf.Bytes(), 0644); err != nil {
			return err
		}
		success(w, "Wrote %s (%d bytes)", opts.out, buf.Len())
	}
	if opts.publish {
		pub, err := newPublisher(cfg)
		if err != nil {
			return err
		}
		loc, err := pub.Publish(cmd.Context(), snapshot.NewSnapshot(opts.name, app.Name, buf.Bytes()))
		if err != nil {
			return errors.New("E150").WithDetailf("app %q", app.Name).Wrap(err)
		}
		success(w, "Published %s", loc)
	}
	return nil
}

// newPublisher picks S3 when a bucket is configured, the snapshot
// directory otherwise.
func newPublisher(cfg *config.Config) (snapshot.Publisher, error) {
	if cfg.UseS3() {
		s3cfg := cfg.Snapshot.S3
		client := snapshot.NewS3Client(snapshot.S3Config{Region: s3cfg.Region, Endpoint: s3cfg.Endpoint})
		return snapshot.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix), nil
	}
	store, err := snapshot.NewDiskStore(cfg.SnapshotDir())
	if err != nil {
		return nil, errors.New("E150").WithDetail("cannot create the snapshot directory").Wrap(err)
	}
	return store, nil
}

// pageData builds the page shell of app from the render config.
func pageData(cfg *config.Config, app demo.App) render.PageData {
	title := cfg.Render.Title
	if title == "" {
		title = app.Name
	}
	return render.PageData{
		Body:        app.Tree(),
		Title:       title,
		Lang:        cfg.Render.Lang,
		StyleSheets: cfg.Render.StyleSheets,
	}
}
