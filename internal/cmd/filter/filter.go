// Package filter provides the filter command.
package filter

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/api"
	"github.com/open-cli-collective/shelf-cli/internal/config"
	"github.com/open-cli-collective/shelf-cli/internal/view"
	"github.com/open-cli-collective/shelf-cli/pkg/valueeditor"
)

type filterOptions struct {
	configPath    string
	field         string
	operator      string
	values        []string
	combinator    string
	not           bool
	listsAsArrays bool
	run           bool
	limit         int
	cursor        string
	output        string
	noColor       bool
	out           io.Writer
}

// NewCmdFilter creates the filter command.
func NewCmdFilter() *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Build an asset filter rule",
		Long: `Build a query-builder rule for one field and print it as JSON.

Without --field the field, operator and value are picked interactively,
using the input that suits the field type: a select for option fields, a
pair of inputs for between, a switch or checkbox for flags.

With --run the rule is sent to the backend and matching assets are listed.`,
		Example: `  # Interactive
  shelf filter

  # Non-interactive
  shelf filter --field status --op in --value active --value retired

  # A range, run against the backend
  shelf filter --field warranty --op between --value 2024-01-01 --value 2025-01-01 --run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.out = cmd.OutOrStdout()
			return runFilter(opts, nil)
		},
	}

	cmd.Flags().StringVar(&opts.field, "field", "", "Field name (interactive when empty)")
	cmd.Flags().StringVar(&opts.operator, "op", "", "Operator (default: first operator for the field type)")
	cmd.Flags().StringArrayVar(&opts.values, "value", nil, "Value (repeat for ranges and lists)")
	cmd.Flags().StringVar(&opts.combinator, "combinator", "and", "Rule group combinator: and, or")
	cmd.Flags().BoolVar(&opts.not, "not", false, "Negate the rule group")
	cmd.Flags().BoolVar(&opts.listsAsArrays, "lists-as-arrays", false, "Send ranges and lists as arrays instead of comma-joined strings")
	cmd.Flags().BoolVar(&opts.run, "run", false, "Run the filter and list matching assets")
	cmd.Flags().IntVarP(&opts.limit, "limit", "l", 25, "Maximum number of assets to return")
	cmd.Flags().StringVar(&opts.cursor, "cursor", "", "Continue cursor from a previous page")

	return cmd
}

func runFilter(opts *filterOptions, client *api.Client) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}
	if opts.combinator != "and" && opts.combinator != "or" {
		return fmt.Errorf("invalid combinator %q: must be and or or", opts.combinator)
	}

	cfg, err := config.LoadWithEnv(config.PathOrDefault(opts.configPath))
	if err != nil {
		return fmt.Errorf("failed to load config: %w (run 'shelf init' to configure)", err)
	}

	backend := func() (*api.Client, error) {
		if client != nil {
			return client, nil
		}
		resolved, err := config.Resolve(opts.configPath)
		if err != nil {
			return nil, err
		}
		client = api.NewClient(resolved.URL, resolved.Token)
		return client, nil
	}

	ctx := context.Background()

	fields, err := loadFields(ctx, cfg, backend)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("no filterable fields defined")
	}

	interactive := opts.field == ""
	if interactive {
		if opts.field, err = pickField(fields); err != nil {
			return err
		}
	}

	field, ok := api.FieldByName(fields, opts.field)
	if !ok {
		return fmt.Errorf("unknown field %q", opts.field)
	}

	if opts.operator == "" && interactive {
		if opts.operator, err = pickOperator(field); err != nil {
			return err
		}
	}
	operator, err := resolveOperator(field, opts.operator)
	if err != nil {
		return err
	}

	var value any
	if interactive || (len(opts.values) == 0 && needsValue(operator)) {
		value, err = editValue(field, operator, opts.listsAsArrays)
	} else {
		value, err = flagValue(field, operator, opts.values, opts.listsAsArrays)
	}
	if err != nil {
		return err
	}

	group := api.RuleGroup{
		Combinator: opts.combinator,
		Not:        opts.not,
		Rules:      []api.Rule{{Field: field.Name, Operator: operator, Value: value}},
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	}

	if !opts.run {
		return renderer.RenderJSON(group)
	}

	c, err := backend()
	if err != nil {
		return err
	}
	page, err := c.FilterAssets(ctx, &api.FilterOptions{
		Query:  group,
		Limit:  opts.limit,
		Cursor: opts.cursor,
	})
	if err != nil {
		return fmt.Errorf("failed to filter assets: %w", err)
	}

	return renderPage(renderer, page, field)
}

func loadFields(ctx context.Context, cfg *config.Config, backend func() (*api.Client, error)) ([]api.Field, error) {
	if cfg.FieldsFile != "" {
		return api.LoadFieldsFile(cfg.FieldsFile)
	}

	c, err := backend()
	if err != nil {
		return nil, err
	}
	fields, err := c.ListFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	return fields, nil
}

func pickField(fields []api.Field) (string, error) {
	options := make([]huh.Option[string], 0, len(fields))
	for _, f := range fields {
		options = append(options, huh.NewOption(f.Title(), f.Name))
	}

	var name string
	err := huh.NewSelect[string]().
		Title("Field").
		Options(options...).
		Value(&name).
		Run()
	return name, err
}

func pickOperator(field api.Field) (string, error) {
	ops := valueeditor.Operators(field.Type)
	options := make([]huh.Option[string], 0, len(ops))
	for _, op := range ops {
		options = append(options, huh.NewOption(op.Label, op.Name))
	}

	var name string
	err := huh.NewSelect[string]().
		Title("Operator").
		Options(options...).
		Value(&name).
		Run()
	return name, err
}

// resolveOperator checks op against the operators of the field type. An
// empty op selects the first one.
func resolveOperator(field api.Field, op string) (string, error) {
	ops := valueeditor.Operators(field.Type)
	if op == "" {
		return ops[0].Name, nil
	}

	names := make([]string, 0, len(ops))
	for _, o := range ops {
		if o.Name == op {
			return op, nil
		}
		names = append(names, o.Name)
	}
	return "", fmt.Errorf("operator %q does not apply to %s field %s: use one of %s",
		op, field.Type, field.Name, strings.Join(names, ", "))
}

func needsValue(op string) bool {
	return op != valueeditor.OpNull && op != valueeditor.OpNotNull
}

func isRange(op string) bool {
	return op == valueeditor.OpBetween || op == valueeditor.OpNotBetween
}

func isList(field api.Field, op string) bool {
	return field.Type == valueeditor.TypeMultiSelect || op == valueeditor.OpIn || op == valueeditor.OpNotIn
}

// flagValue builds the rule value from --value flags.
func flagValue(field api.Field, op string, values []string, listsAsArrays bool) (any, error) {
	if !needsValue(op) {
		return nil, nil
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("--value is required for operator %s", op)
	}

	for _, v := range values {
		if err := checkValue(field, v); err != nil {
			return nil, err
		}
	}

	switch {
	case isRange(op):
		if len(values) != 2 {
			return nil, fmt.Errorf("operator %s takes two values, got %d", op, len(values))
		}
		pair := valueeditor.MultiValue(nil, 0, values[0], listsAsArrays)
		return valueeditor.MultiValue(valueeditor.ValueAsArray(pair), 1, values[1], listsAsArrays), nil
	case isList(field, op):
		if listsAsArrays {
			return values, nil
		}
		return strings.Join(values, ","), nil
	}

	if len(values) > 1 {
		return nil, fmt.Errorf("operator %s takes one value, got %d", op, len(values))
	}

	switch field.Type {
	case valueeditor.TypeSwitch, valueeditor.TypeCheckbox:
		b, err := strconv.ParseBool(values[0])
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for %s: expected true or false", values[0], field.Name)
		}
		return b, nil
	}
	return values[0], nil
}

// checkValue rejects values the field's control could not produce.
func checkValue(field api.Field, v string) error {
	if len(field.Options) > 0 {
		for _, o := range field.Options {
			if o.Name == v {
				return nil
			}
		}
		return fmt.Errorf("invalid value %q for %s: not one of its options", v, field.Name)
	}
	if field.InputType == "number" {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid value %q for %s: expected a number", v, field.Name)
		}
	}
	return nil
}

// ruleValue holds the latest value emitted by a rule's controls.
type ruleValue struct {
	value any
}

func (r *ruleValue) set(v any) {
	r.value = v
}

// valueBinding renders the value control for a rule and binds it to form
// fields. Commit stores the edits in the returned ruleValue.
func valueBinding(field api.Field, op string, listsAsArrays bool) (*valueeditor.Binding, *ruleValue) {
	rv := &ruleValue{}

	control := valueeditor.Render(valueeditor.Props{
		Type:          field.Type,
		Operator:      op,
		Options:       field.Options,
		InputType:     field.InputType,
		Placeholder:   field.Placeholder,
		Title:         field.Title(),
		Separator:     "and",
		ListsAsArrays: listsAsArrays,
		RuleID:        field.Name,
		OnChange:      rv.set,
	})

	return valueeditor.Bind(control), rv
}

func editValue(field api.Field, op string, listsAsArrays bool) (any, error) {
	binding, rv := valueBinding(field, op, listsAsArrays)
	if binding.Empty() {
		return nil, nil
	}

	if err := huh.NewForm(binding.Group()).Run(); err != nil {
		return nil, err
	}
	binding.Commit()
	return rv.value, nil
}

func renderPage(renderer *view.Renderer, page *api.AssetPage, field api.Field) error {
	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(page)
	}

	if len(page.Page) == 0 {
		renderer.RenderText("No assets match.")
		return nil
	}

	headers := []string{"ID", "CREATED", strings.ToUpper(field.Name)}
	rows := make([][]string, 0, len(page.Page))
	for _, asset := range page.Page {
		created := "-"
		if !asset.CreationTime.IsZero() {
			created = asset.CreationTime.Format("2006-01-02")
		}
		value := "-"
		if v, ok := asset.Fields[field.Name]; ok && v != nil {
			value = view.Truncate(fmt.Sprint(v), 40)
		}
		rows = append(rows, []string{asset.ID, created, value})
	}

	renderer.RenderTable(headers, rows)

	if page.HasMore() {
		renderer.RenderText(fmt.Sprintf("\n(more results, continue with --cursor %s)", page.ContinueCursor))
	}
	return nil
}
