package decoratecmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/internal/preview"
	"github.com/open-cli-collective/shelf-cli/internal/view"
	"github.com/open-cli-collective/shelf-cli/pkg/decorate"
)

type renderOptions struct {
	configPath string
	file       string
	cursor     int
	selections []string
	preview    bool
	previewSet bool
	html       bool
	holdToOpen bool
	timeout    time.Duration
	noColor    bool
	stdin      io.Reader
	out        io.Writer
	errOut     io.Writer
}

// NewCmdRender creates the render command.
func NewCmdRender() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a document with its decorations applied",
		Long: `Render a markdown document the way the editor shows it.

Rendered blocks are drawn in boxes and embedded URLs are probed and shown
as image or file blocks. Embeds that do not answer within the probe timeout
stay in the loading state.

Reads from stdin when no file is given.`,
		Example: `  # Render to the terminal
  shelf render notes.md

  # Keep the block under the cursor as source
  shelf render notes.md --cursor 120

  # Emit the decorated document as HTML
  shelf render notes.md --html > notes.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.file = args[0]
			}
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.previewSet = cmd.Flags().Changed("preview")
			opts.stdin = cmd.InOrStdin()
			opts.out = cmd.OutOrStdout()
			opts.errOut = cmd.ErrOrStderr()
			return runRender(opts, nil)
		},
	}

	cmd.Flags().IntVar(&opts.cursor, "cursor", -1, "Cursor offset (-1 for none)")
	cmd.Flags().StringArrayVar(&opts.selections, "select", nil, "Selected range as from:to (repeatable)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Render every block regardless of the cursor")
	cmd.Flags().BoolVar(&opts.html, "html", false, "Output HTML instead of terminal text")
	cmd.Flags().BoolVar(&opts.holdToOpen, "hold-to-open", false, "Mark file blocks as openable")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Embed probe timeout (default from config)")

	return cmd
}

func runRender(opts *renderOptions, httpClient *http.Client) error {
	cfg, tags, err := renderConfig(opts.configPath)
	if err != nil {
		return err
	}

	src, err := ReadSource(opts.file, opts.stdin)
	if err != nil {
		return err
	}

	sel, err := Selection(opts.cursor, opts.selections)
	if err != nil {
		return err
	}

	previewMode := cfg.Preview
	if opts.previewSet {
		previewMode = opts.preview
	}

	timeout := cfg.Timeout()
	if opts.timeout > 0 {
		timeout = opts.timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	out := opts.out
	if out == nil {
		out = os.Stdout
	}
	warn := view.NewRenderer(view.FormatTable, opts.noColor)
	if opts.errOut != nil {
		warn.SetWriter(opts.errOut)
	} else {
		warn.SetWriter(os.Stderr)
	}

	session := decorate.NewSession(tags, decorate.WithHTTPClient(httpClient))
	defer session.Close()

	set := session.Decorations(decorate.NewState(src, sel, previewMode))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	views, err := preview.Settle(ctx, session, set)
	if err != nil {
		warn.Warning(fmt.Sprintf("some embeds did not load: %v", err))
	}

	style := preview.DefaultStyle()
	if opts.noColor {
		style = preview.PlainStyle()
	}
	printer := preview.NewPrinter(style, views)
	printer.HoldToOpen = opts.holdToOpen

	if opts.html {
		doc, err := printer.HTML(src, set)
		if err != nil {
			return fmt.Errorf("failed to render HTML: %w", err)
		}
		_, err = fmt.Fprintln(out, doc)
		return err
	}

	_, err = io.WriteString(out, printer.Render(src, set))
	return err
}
