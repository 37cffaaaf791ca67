package api

import (
	"context"
	"encoding/json"
	"fmt"
)

type functionRequest struct {
	Path   string      `json:"path"`
	Args   interface{} `json:"args"`
	Format string      `json:"format"`
}

type functionResponse struct {
	Status       string          `json:"status"`
	Value        json.RawMessage `json:"value"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	ErrorData    json.RawMessage `json:"errorData,omitempty"`
	LogLines     []string        `json:"logLines,omitempty"`
}

// Query runs a read-only backend function and decodes its value into out.
func (c *Client) Query(ctx context.Context, path string, args, out interface{}) error {
	return c.call(ctx, "/api/query", path, args, out)
}

// Mutation runs a backend function that writes data.
func (c *Client) Mutation(ctx context.Context, path string, args, out interface{}) error {
	return c.call(ctx, "/api/mutation", path, args, out)
}

// Action runs a backend function that may call third-party services.
func (c *Client) Action(ctx context.Context, path string, args, out interface{}) error {
	return c.call(ctx, "/api/action", path, args, out)
}

func (c *Client) call(ctx context.Context, endpoint, path string, args, out interface{}) error {
	if args == nil {
		args = struct{}{}
	}

	body, err := c.Post(ctx, endpoint, functionRequest{Path: path, Args: args, Format: "json"})
	if err != nil {
		return err
	}

	var resp functionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}

	if resp.Status == "error" {
		return &ErrorResponse{
			Message: resp.ErrorMessage,
			Data:    resp.ErrorData,
		}
	}

	if out == nil || len(resp.Value) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Value, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}
