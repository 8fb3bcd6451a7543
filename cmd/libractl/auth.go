// cmd/libractl/auth.go
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			resp, err := a.client.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.session.SetUser(&resp.User); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			if err := a.session.SetToken(resp.Token); err != nil {
				return fmt.Errorf("persist token: %w", err)
			}

			fmt.Printf("Signed in as %s (%s)\n", resp.Name, resp.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email address")
	cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readPassword("Choose a password: ")
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			resp, err := a.client.SignUp(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			if err := a.session.SetUser(&resp.User); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			if err := a.session.SetToken(resp.Token); err != nil {
				return fmt.Errorf("persist token: %w", err)
			}

			fmt.Printf("Welcome, %s! You are signed in.\n", resp.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email address")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the persisted session and token",
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(_ *cobra.Command, _ []string) error {
			u, err := a.currentUser()
			if err != nil {
				return err
			}
			fmt.Printf("%s <%s> (%s)\n", u.Name, u.Email, u.Role)
			return nil
		},
	}
}
