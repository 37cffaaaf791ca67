package api

import (
	"context"
	"fmt"

	"github.com/open-cli-collective/shelf-cli/pkg/auth"
)

type signInParams struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Flow     string `json:"flow"`
}

type signInArgs struct {
	Provider string       `json:"provider"`
	Params   signInParams `json:"params"`
}

type signInResult struct {
	Tokens *Session `json:"tokens"`
}

// SignIn creates a session for a validated profile using the password
// provider.
func (c *Client) SignIn(ctx context.Context, profile auth.Profile, password string) (*Session, error) {
	args := signInArgs{
		Provider: "password",
		Params: signInParams{
			Email:    profile.Email,
			Password: password,
			Flow:     "signIn",
		},
	}

	var result signInResult
	if err := c.Action(ctx, "auth:signIn", args, &result); err != nil {
		return nil, err
	}
	if result.Tokens == nil || result.Tokens.Token == "" {
		return nil, fmt.Errorf("sign-in returned no session")
	}

	return result.Tokens, nil
}

// Viewer returns the account the client's token belongs to.
func (c *Client) Viewer(ctx context.Context) (*User, error) {
	var user *User
	if err := c.Query(ctx, "users:viewer", nil, &user); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &ErrorResponse{StatusCode: 401, Message: "not signed in"}
	}
	return user, nil
}
