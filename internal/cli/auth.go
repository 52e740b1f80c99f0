package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/BloggingApp/post-web/internal/model"
	"github.com/BloggingApp/post-web/internal/service"
	"github.com/spf13/cobra"
)

func (a *app) loginCmd() *cobra.Command {
	var form service.LoginForm

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the posts API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Password == "" {
				password, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				form.Password = password
			}
			form.Email = strings.TrimSpace(form.Email)

			if err := form.Validate(); err != nil {
				return err
			}
			if err := a.session.Login(cmd.Context(), form.Email, form.Password); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Login successful, signed in as %s (%s)\n", form.Email, a.session.State().Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password, read from stdin when empty")

	return cmd
}

func (a *app) registerCmd() *cobra.Command {
	var form service.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if form.Password == "" {
				password, err := readLine(cmd.InOrStdin())
				if err != nil {
					return err
				}
				form.Password = password
			}
			form.Username = strings.TrimSpace(form.Username)
			form.Email = strings.TrimSpace(form.Email)

			if err := form.Validate(); err != nil {
				return err
			}
			resp, err := a.session.Register(cmd.Context(), form.Username, form.Email, form.Password, model.Role(form.Role))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Username, "username", "", "display name")
	cmd.Flags().StringVar(&form.Email, "email", "", "account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "account password, read from stdin when empty")
	cmd.Flags().StringVar(&form.Role, "role", string(model.RoleUser), "account role: user or admin")

	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			claims := a.session.Claims()
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", claims.Email, claims.Role)
			if !claims.ExpiresAt.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "session expires %s\n", claims.ExpiresAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
