// Package login provides the login command.
package login

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/shelf-cli/api"
	"github.com/open-cli-collective/shelf-cli/internal/config"
	"github.com/open-cli-collective/shelf-cli/internal/view"
	"github.com/open-cli-collective/shelf-cli/pkg/auth"
)

type loginOptions struct {
	configPath    string
	email         string
	password      string
	passwordStdin bool
	output        string
	noColor       bool
	stdin         io.Reader
	out           io.Writer
}

// NewCmdLogin creates the login command.
func NewCmdLogin() *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Long: `Sign in to the configured deployment and store the session token.

The email must be a valid address and the password at least 16 characters
long. Both are checked before anything is sent.`,
		Example: `  # Interactive sign-in
  shelf login

  # Non-interactive
  echo "$SHELF_PASSWORD" | shelf login --email ada@example.com --password-stdin`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			return runLogin(opts, nil)
		},
	}

	cmd.Flags().StringVarP(&opts.email, "email", "e", "", "Account email")
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "Read the password from stdin")

	return cmd
}

func runLogin(opts *loginOptions, client *api.Client) error {
	configPath := config.PathOrDefault(opts.configPath)

	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w (run 'shelf init' to configure)", err)
	}

	if client == nil {
		cfg.NormalizeURL()
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w (run 'shelf init' to configure)", err)
		}
		client = api.NewClient(cfg.URL, "")
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.out != nil {
		renderer.SetWriter(opts.out)
	}

	if err := collectCredentials(opts, cfg.Email); err != nil {
		return err
	}

	profile, err := auth.Params{Email: opts.email, Password: opts.password}.Profile()
	if err != nil {
		var verr *auth.ValidationError
		if errors.As(err, &verr) {
			renderIssues(renderer, verr)
		}
		return err
	}

	session, err := client.SignIn(context.Background(), profile, opts.password)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	cfg.Email = profile.Email
	cfg.Token = session.Token
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	if renderer.Format() == view.FormatJSON {
		return renderer.RenderJSON(profile)
	}
	renderer.Success(fmt.Sprintf("Signed in as %s", profile.Email))
	return nil
}

// collectCredentials fills in whatever the flags left out.
func collectCredentials(opts *loginOptions, savedEmail string) error {
	if opts.passwordStdin {
		if opts.email == "" {
			return fmt.Errorf("--email is required with --password-stdin")
		}
		in := opts.stdin
		if in == nil {
			in = os.Stdin
		}
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read password: %w", err)
		}
		opts.password = strings.TrimRight(line, "\r\n")
		return nil
	}

	if opts.email != "" && opts.password != "" {
		return nil
	}

	if opts.email == "" {
		opts.email = savedEmail
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&opts.email),

			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", auth.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&opts.password),
		),
	).Run()
}

func renderIssues(renderer *view.Renderer, verr *auth.ValidationError) {
	if renderer.Format() == view.FormatJSON {
		_ = renderer.RenderJSON(verr)
		return
	}

	fields := make([]string, 0, len(verr.Fields))
	for field := range verr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, msg := range verr.Messages(field) {
			renderer.Error(fmt.Sprintf("%s: %s", field, msg))
		}
	}
}
