package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) registerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, err := GetSimpleText(a.in, "Email", a.out)
			if err != nil {
				return err
			}
			name, err := GetSimpleText(a.in, "Name", a.out)
			if err != nil {
				return err
			}
			pw, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer wipe(pw)

			u, err := a.client.Register(cmd.Context(), email, string(pw), name)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(a.out, "Registered %s, now run 'gjcli login'\n", u.Email)
			return nil
		},
	}
}

func (a *App) loginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = GetSimpleText(a.in, "Email", a.out); err != nil {
					return err
				}
			}
			pw, err := getPassword(a.out)
			if err != nil {
				return err
			}
			defer wipe(pw)

			u, err := a.client.Login(cmd.Context(), email, string(pw))
			if err != nil {
				return explain(err)
			}
			if err := a.store.Save(a.client.Token()); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			fmt.Fprintf(a.out, "Logged in as %s\n", u.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.client.Token() != "" {
				if err := a.client.Logout(cmd.Context()); err != nil {
					fmt.Fprintf(a.out, "warning: server logout failed: %v\n", err)
				}
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}
