package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Truella/Framez/internal/session"
)

func newSignUpCmd(e *env) *cobra.Command {
	var in session.SignUpInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.app.Session.SignUp(cmd.Context(), in); err != nil {
				return err
			}
			return e.printMe(cmd)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "email address")
	f.StringVar(&in.Password, "password", "", "password (8+ characters)")
	f.StringVar(&in.ConfirmPassword, "confirm", "", "password again")
	f.StringVar(&in.Username, "username", "", "username (letters, digits, underscore)")
	f.StringVar(&in.FullName, "name", "", "full name")
	return cmd
}

func newSignInCmd(e *env) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := e.app.Session.SignIn(cmd.Context(), email, password); err != nil {
				return err
			}
			return e.printMe(cmd)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newSignOutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.app.Session.SignOut(cmd.Context())
		},
	}
}

func newWhoAmICmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.printMe(cmd)
		},
	}
}

func (e *env) printMe(cmd *cobra.Command) error {
	u := e.app.Session.Current()
	if u == nil {
		return errSignedOut
	}
	fmt.Fprintf(cmd.OutOrStdout(), "@%s (%s) <%s>\nid: %s\n", u.Username, u.FullName, u.Email, u.ID)
	return nil
}
