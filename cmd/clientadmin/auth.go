package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/straye-as/client-admin/internal/auth"
	"github.com/straye-as/client-admin/internal/domain"
)

var loginEmail string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with an email address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := current.context(cmd)
		defer cancel()

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			var err error
			if email, err = current.term.prompt(ctx, "Email"); err != nil {
				return err
			}
		}
		if err := domain.NewValidator().Struct(domain.LoginRequest{Email: email}); err != nil {
			return &domain.APIError{
				Type:   domain.ErrorTypeValidation,
				Title:  "Validation Error",
				Status: 400,
				Errors: domain.FieldErrors(err),
			}
		}

		user, err := current.session.Login(ctx, email)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", displayName(user), current.session.Role())
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !current.session.IsLoggedIn() {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
			return nil
		}
		current.session.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in operator and what they may do",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !current.session.IsLoggedIn() {
			current.nav.Navigate(auth.RouteLogin)
			return domain.ErrNotLoggedIn
		}
		user := current.session.CurrentUser()
		out := cmd.OutOrStdout()
		pairs := []string{
			"Name", displayName(user),
			"Email", current.session.Email(),
			"Role", string(current.session.Role()),
		}
		if info, err := current.session.TokenInfo(); err == nil && !info.ExpiresAt.IsZero() {
			expires := info.ExpiresAt.Local().Format(time.RFC1123)
			if info.Expired(time.Now()) {
				expires += " (expired)"
			}
			pairs = append(pairs, "Expires", expires)
		}
		fields(out, "Operator", pairs...)

		perms := auth.Permissions(current.session.Role())
		names := make([]string, len(perms))
		for i, p := range perms {
			names[i] = string(p)
		}
		fmt.Fprintf(out, "\n%s\n%s\n", titleStyle.Render("Permissions"), strings.Join(names, "\n"))
		return nil
	},
}

func displayName(u *domain.User) string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email address to sign in with")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
