package api

import (
	"context"
	"fmt"
)

// Rule is one field comparison of a filter.
type Rule struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
}

// RuleGroup joins rules with a combinator ("and" or "or").
type RuleGroup struct {
	Combinator string `json:"combinator"`
	Not        bool   `json:"not,omitempty"`
	Rules      []Rule `json:"rules"`
}

// Asset is one shelf asset. Fields holds the values keyed by field name.
type Asset struct {
	ID           string                 `json:"_id"`
	CreationTime Time                   `json:"_creationTime,omitempty"`
	Fields       map[string]interface{} `json:"fields"`
}

// AssetPage is one page of filter results.
type AssetPage struct {
	Page           []Asset `json:"page"`
	IsDone         bool    `json:"isDone"`
	ContinueCursor string  `json:"continueCursor"`
}

// HasMore returns true if there are more results available.
func (p *AssetPage) HasMore() bool {
	return !p.IsDone && p.ContinueCursor != ""
}

// FilterOptions contains options for filtering assets.
type FilterOptions struct {
	Query  RuleGroup
	Limit  int    // page size (default 25)
	Cursor string // continue cursor from a previous page
}

type paginationOpts struct {
	NumItems int     `json:"numItems"`
	Cursor   *string `json:"cursor"`
}

type filterArgs struct {
	Query          RuleGroup      `json:"query"`
	PaginationOpts paginationOpts `json:"paginationOpts"`
}

// FilterAssets returns the assets matching a rule group.
func (c *Client) FilterAssets(ctx context.Context, opts *FilterOptions) (*AssetPage, error) {
	if opts == nil || len(opts.Query.Rules) == 0 {
		return nil, fmt.Errorf("filter requires at least one rule")
	}

	args := filterArgs{
		Query:          opts.Query,
		PaginationOpts: paginationOpts{NumItems: 25},
	}
	if args.Query.Combinator == "" {
		args.Query.Combinator = "and"
	}
	if opts.Limit > 0 {
		args.PaginationOpts.NumItems = opts.Limit
	}
	if opts.Cursor != "" {
		cursor := opts.Cursor
		args.PaginationOpts.Cursor = &cursor
	}

	var page AssetPage
	if err := c.Query(ctx, "assets:filter", args, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
