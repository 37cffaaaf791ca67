// Package decoratecmd provides the decorate and render commands.
package decoratecmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/internal/config"
	"github.com/open-cli-collective/shelf-cli/internal/view"
	"github.com/open-cli-collective/shelf-cli/pkg/decorate"
	"github.com/open-cli-collective/shelf-cli/pkg/md"
)

type decorateOptions struct {
	configPath string
	file       string
	cursor     int
	selections []string
	bounds     string
	preview    bool
	previewSet bool
	output     string
	noColor    bool
	stdin      io.Reader
	out        io.Writer
}

// NewCmdDecorate creates the decorate command.
func NewCmdDecorate() *cobra.Command {
	opts := &decorateOptions{}

	cmd := &cobra.Command{
		Use:   "decorate [file]",
		Short: "List the decorations for a document",
		Long: `Compute the decorations an editor would draw over a markdown document.

Tables, blockquotes and {% tag %} spans are replaced by rendered markup
unless the cursor or a selection touches them. ![[url]] references get an
embed widget, and their delimiters are hidden while not being edited.

Reads from stdin when no file is given.`,
		Example: `  # Decorations with no cursor
  shelf decorate notes.md

  # Cursor at offset 42 with a selection
  shelf decorate notes.md --cursor 42 --select 100:120

  # Only the visible range, as JSON
  shelf decorate notes.md --range 0:500 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.file = args[0]
			}
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.previewSet = cmd.Flags().Changed("preview")
			opts.stdin = cmd.InOrStdin()
			return runDecorate(opts)
		},
	}

	cmd.Flags().IntVar(&opts.cursor, "cursor", -1, "Cursor offset (-1 for none)")
	cmd.Flags().StringArrayVar(&opts.selections, "select", nil, "Selected range as from:to (repeatable)")
	cmd.Flags().StringVar(&opts.bounds, "range", "", "Only decorate nodes intersecting from:to")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "Render every block regardless of the cursor")

	return cmd
}

// ReadSource reads file, or in when file is empty or "-".
func ReadSource(file string, in io.Reader) ([]byte, error) {
	if file == "" || file == "-" {
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// ParseRange parses "from:to" into a normalized range.
func ParseRange(s string) (decorate.Range, error) {
	from, to, ok := strings.Cut(s, ":")
	if !ok {
		return decorate.Range{}, fmt.Errorf("invalid range %q: expected from:to", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil || a < 0 {
		return decorate.Range{}, fmt.Errorf("invalid range %q: bad start", s)
	}
	b, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil || b < 0 {
		return decorate.Range{}, fmt.Errorf("invalid range %q: bad end", s)
	}
	return decorate.NewRange(a, b), nil
}

// Selection builds the selection from a cursor offset and extra ranges. The
// cursor comes first when set.
func Selection(cursor int, ranges []string) (decorate.Selection, error) {
	var sel []decorate.Range
	if cursor >= 0 {
		sel = append(sel, decorate.Cursor(cursor))
	}
	for _, r := range ranges {
		rng, err := ParseRange(r)
		if err != nil {
			return decorate.Selection{}, err
		}
		sel = append(sel, rng)
	}
	return decorate.Select(sel...), nil
}

// renderConfig loads the tag configuration without requiring a deployment.
func renderConfig(configPath string) (*config.Config, *md.Config, error) {
	cfg, err := config.LoadWithEnv(config.PathOrDefault(configPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	tags, err := cfg.LoadRenderConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load render config: %w", err)
	}
	return cfg, tags, nil
}

func runDecorate(opts *decorateOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

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

	preview := cfg.Preview
	if opts.previewSet {
		preview = opts.preview
	}

	engine := decorate.NewEngine(tags)
	state := decorate.NewState(src, sel, preview)

	var set *decorate.Set
	if opts.bounds != "" {
		bounds, err := ParseRange(opts.bounds)
		if err != nil {
			return err
		}
		set = engine.ComputeRange(state, bounds.From, bounds.To)
	} else {
		set = engine.Compute(state)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	}

	if set.Len() == 0 {
		if renderer.Format() == view.FormatJSON {
			return renderer.RenderJSON([]struct{}{})
		}
		renderer.RenderText("No decorations.")
		return nil
	}

	headers := []string{"FROM", "TO", "KIND", "BLOCK", "DETAIL"}
	var rows [][]string
	for _, d := range set.All() {
		rows = append(rows, []string{
			strconv.Itoa(d.From),
			strconv.Itoa(d.To),
			d.Kind.String(),
			strconv.FormatBool(d.Block),
			detail(d),
		})
	}

	renderer.RenderTable(headers, rows)
	return nil
}

func detail(d decorate.Decoration) string {
	switch w := d.Widget.(type) {
	case *decorate.BlockWidget:
		return view.Truncate(strings.Join(strings.Fields(w.Source), " "), 50)
	case *decorate.EmbedWidget:
		return w.Src
	}
	return d.Class
}
