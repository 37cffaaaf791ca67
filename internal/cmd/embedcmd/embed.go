// Package embedcmd provides the embed command.
package embedcmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/open-cli-collective/shelf-cli/internal/config"
	"github.com/open-cli-collective/shelf-cli/internal/view"
	"github.com/open-cli-collective/shelf-cli/pkg/decorate"
	"github.com/open-cli-collective/shelf-cli/pkg/embed"
)

// maxConcurrentProbes bounds the HEAD requests in flight.
const maxConcurrentProbes = 4

type embedOptions struct {
	configPath string
	urls       []string
	file       string
	timeout    time.Duration
	output     string
	noColor    bool
	out        io.Writer
	errOut     io.Writer
}

// NewCmdEmbed creates the embed command.
func NewCmdEmbed() *cobra.Command {
	opts := &embedOptions{}

	cmd := &cobra.Command{
		Use:   "embed [url...]",
		Short: "Resolve how embedded URLs will be shown",
		Long: `Probe embedded URLs with HEAD requests and report whether each one is
shown as an image or as a file block, with its type, name and size.

URLs are taken from the arguments and from the ![[url]] references in
--file.`,
		Example: `  # Probe one URL
  shelf embed https://example.com/report.pdf

  # Probe every embed in a document
  shelf embed --file notes.md -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.urls = args
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			opts.errOut = cmd.ErrOrStderr()
			return runEmbed(opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Markdown document to collect embeds from")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Probe timeout (default from config)")

	return cmd
}

// collect returns the URLs to probe in first-seen order without duplicates.
func collect(opts *embedOptions) ([]string, error) {
	seen := make(map[string]bool)
	var urls []string
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, u := range opts.urls {
		add(u)
	}

	if opts.file != "" {
		src, err := os.ReadFile(opts.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		set := decorate.NewEngine(nil).Compute(decorate.NewState(src, decorate.Select(), true))
		for _, d := range set.OfKind(decorate.KindEmbed) {
			if w, ok := d.Widget.(*decorate.EmbedWidget); ok {
				add(w.Src)
			}
		}
	}

	return urls, nil
}

func runEmbed(opts *embedOptions, httpClient *http.Client) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	cfg, err := config.LoadWithEnv(config.PathOrDefault(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	urls, err := collect(opts)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs to resolve: pass URLs or --file")
	}

	timeout := cfg.Timeout()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	}
	warn := view.NewRenderer(view.FormatTable, opts.noColor)
	if opts.errOut != nil {
		warn.SetWriter(opts.errOut)
	} else {
		warn.SetWriter(os.Stderr)
	}

	views, err := resolveAll(context.Background(), embed.NewResolver(httpClient), urls, timeout)
	if err != nil {
		warn.Warning(fmt.Sprintf("some embeds did not load: %v", err))
	}

	headers := []string{"URL", "STATE", "MIME", "ICON", "FILENAME", "SIZE"}
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.Src,
			v.State.String(),
			orDash(v.MIME),
			string(v.Icon),
			orDash(v.FileName),
			size(v.Size),
		})
	}

	renderer.RenderTable(headers, rows)
	return nil
}

// resolveAll mounts a widget per URL and waits for each probe to settle.
// Views keep the order of urls. Probes still running at the timeout keep
// their loading view, and the context error is returned with the views.
func resolveAll(ctx context.Context, resolver *embed.Resolver, urls []string, timeout time.Duration) ([]embed.View, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	views := make([]embed.View, len(urls))

	var g errgroup.Group
	g.SetLimit(maxConcurrentProbes)
	for i, u := range urls {
		g.Go(func() error {
			w := embed.NewWidget(u, resolver)
			w.Mount(ctx, nil)
			defer w.Unmount()

			_ = w.Wait(ctx)
			views[i] = w.View()
			if views[i].State == embed.StateLoading {
				return ctx.Err()
			}
			return nil
		})
	}

	return views, g.Wait()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func size(n int64) string {
	if n < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(n))
}
