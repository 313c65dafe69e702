// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"techblog/internal/session"
)

type AuthCmd struct {
	flags *Flags

	access  string
	refresh string
}

// NewAuthCmd creates the login, logout and whoami commands.
func NewAuthCmd(flags *Flags) *AuthCmd {
	return &AuthCmd{flags: flags}
}

// Register adds the account commands to the application.
func (cmd *AuthCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands,
		&cli.Command{
			Name:  "login",
			Usage: "Sign in and store the token pair in the credential file",
			Description: `Prints the backend login link. After signing in in the browser, paste the
access and refresh tokens shown on the callback page. Both can also be
passed as flags for non-interactive use.`,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:        "access-token",
					Destination: &cmd.access,
				},
				&cli.StringFlag{
					Name:        "refresh-token",
					Destination: &cmd.refresh,
				},
			},
			Action: cmd.login,
		},
		&cli.Command{
			Name:   "logout",
			Usage:  "Forget the stored credentials",
			Action: cmd.logout,
		},
		&cli.Command{
			Name:   "whoami",
			Usage:  "Show the signed-in member",
			Action: cmd.whoami,
		},
	)
	return app
}

func (cmd *AuthCmd) login(ctx context.Context, c *cli.Command) error {
	client, creds, err := remoteClient(cmd.flags)
	if err != nil {
		return err
	}
	w := c.Root().Writer

	if cmd.access == "" || cmd.refresh == "" {
		info, err := client.LoginInfo(ctx)
		if err != nil {
			return fmt.Errorf("load login link: %w", err)
		}
		if info.Description != "" {
			_, _ = fmt.Fprintln(w, metaStyle.Render(info.Description))
		}
		_, _ = fmt.Fprintln(w, titleStyle.Render(info.URL))

		form := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Access token").
				Value(&cmd.access).
				Validate(required),
			huh.NewInput().
				Title("Refresh token").
				EchoMode(huh.EchoModePassword).
				Value(&cmd.refresh).
				Validate(required),
		))
		if err := form.RunWithContext(ctx); err != nil {
			return err
		}
	}

	if err := creds.SetCredentials(strings.TrimSpace(cmd.access), strings.TrimSpace(cmd.refresh)); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	me, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("verify credentials: %w", err)
	}
	if !me.Authenticated {
		_ = creds.ClearCredentials()
		return errors.New("the backend rejected these tokens")
	}
	_, _ = fmt.Fprintf(w, "signed in as %s\n", me.Name)
	return nil
}

func (cmd *AuthCmd) logout(_ context.Context, c *cli.Command) error {
	if err := cmd.flags.Credentials().ClearCredentials(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	_, _ = fmt.Fprintln(c.Root().Writer, "signed out")
	return nil
}

func (cmd *AuthCmd) whoami(ctx context.Context, c *cli.Command) error {
	client, creds, err := remoteClient(cmd.flags)
	if err != nil {
		return err
	}
	w := c.Root().Writer

	if !session.Load(creds).Authenticated() {
		_, _ = fmt.Fprintln(w, "not signed in")
		return nil
	}

	me, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("load member: %w", err)
	}
	if !me.Authenticated {
		_, _ = fmt.Fprintln(w, "session expired, run login again")
		return nil
	}

	status := "활성"
	if !me.Activated {
		status = "미활성"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", titleStyle.Render(me.Name), metaStyle.Render(fmt.Sprintf("(%s, %s, %s)", me.MemberID, me.Role, status)))
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}
