// Command session-token prints a signed session token for local testing of
// the mutating post routes. The secret is read from the same configuration as
// the server (POSTDESK_AUTH_SESSION_SECRET or config.yaml).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/postdesk/internal/auth"
	"github.com/phrazzld/postdesk/internal/config"
	"github.com/phrazzld/postdesk/internal/domain"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "session-token: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("session-token", flag.ContinueOnError)
	role := fs.String("role", domain.RoleAdmin.String(), "Role claim (admin or user)")
	subject := fs.String("sub", "local-admin", "Subject claim")
	name := fs.String("name", "", "Name claim")
	email := fs.String("email", "", "Email claim")
	cookie := fs.Bool("cookie", false, "Print a Cookie header instead of the bare token")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed := domain.ParseRole(*role)
	if parsed == domain.RoleUnknown {
		return fmt.Errorf("unknown role %q", *role)
	}

	cfg, err := config.LoadAuth()
	if err != nil {
		return err
	}

	issuer, err := auth.NewIssuer(*cfg)
	if err != nil {
		return err
	}

	token, err := issuer.GenerateToken(context.Background(), auth.Session{
		Subject: *subject,
		Name:    *name,
		Email:   *email,
		Role:    parsed,
	})
	if err != nil {
		return err
	}

	if *cookie {
		_, err = fmt.Fprintf(out, "Cookie: %s=%s\n", cfg.SessionCookie, token)
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
