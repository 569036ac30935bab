package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/phoneauth/internal/client/client"
	"github.com/dmitrijs2005/phoneauth/internal/server/models"
	"github.com/spf13/cobra"
)

type registerOptions struct {
	firstName string
	lastName  string
	phone     string
	email     string
}

func newRegisterCmd(a *App) *cobra.Command {
	opts := &registerOptions{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create an account. Missing fields are prompted for; the password is
always prompted for twice without echo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.register(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&opts.lastName, "last-name", "", "last name")
	cmd.Flags().StringVarP(&opts.phone, "phone", "p", "", "9-digit phone number")
	cmd.Flags().StringVarP(&opts.email, "email", "e", "", "email address (optional)")

	return cmd
}

func (a *App) register(cmd *cobra.Command, opts *registerOptions) error {
	p := newPrompter(cmd)

	ask := func(val *string, flag, prompt string) error {
		if cmd.Flags().Changed(flag) {
			return nil
		}
		v, err := p.text(prompt)
		if err != nil {
			return err
		}
		*val = v
		return nil
	}

	if err := ask(&opts.firstName, "first-name", "First name"); err != nil {
		return err
	}
	if err := ask(&opts.lastName, "last-name", "Last name"); err != nil {
		return err
	}
	if err := ask(&opts.phone, "phone", "Phone"); err != nil {
		return err
	}
	if err := ask(&opts.email, "email", "Email (optional)"); err != nil {
		return err
	}

	password, err := p.password("Password")
	if err != nil {
		return err
	}

	confirmation, err := p.password("Confirm password")
	if err != nil {
		return err
	}

	req := models.RegisterRequest{
		FirstName:            opts.firstName,
		LastName:             opts.lastName,
		Phone:                opts.phone,
		Password:             password,
		PasswordConfirmation: confirmation,
	}
	if email := strings.TrimSpace(opts.email); email != "" {
		req.Email = &email
	}

	resp, err := a.api.Register(cmd.Context(), req)
	if err != nil {
		return err
	}

	if err := a.tokens.Save(resp.Token); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
	return nil
}

func newLoginCmd(a *App) *cobra.Command {
	var phone string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with phone and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.login(cmd, phone)
		},
	}

	cmd.Flags().StringVarP(&phone, "phone", "p", "", "9-digit phone number")

	return cmd
}

func (a *App) login(cmd *cobra.Command, phone string) error {
	p := newPrompter(cmd)

	if phone == "" {
		v, err := p.text("Phone")
		if err != nil {
			return err
		}
		phone = v
	}

	password, err := p.password("Password")
	if err != nil {
		return err
	}

	resp, err := a.api.Login(cmd.Context(), models.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return err
	}

	if err := a.tokens.Save(resp.AccessToken); err != nil {
		return err
	}

	name := phone
	if resp.User != nil {
		name = strings.TrimSpace(resp.User.FirstName + " " + resp.User.LastName)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (token expires in %d seconds)\n", name, resp.ExpiresIn)
	return nil
}

func newMeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.tokens.Load()
			if err != nil {
				return err
			}

			u, err := a.api.Me(cmd.Context(), token)
			if err != nil {
				return err
			}

			printUser(cmd, u)
			return nil
		},
	}
}

func printUser(cmd *cobra.Command, u *models.User) {
	w := cmd.OutOrStdout()
	email := "-"
	if u.Email != nil {
		email = *u.Email
	}
	fmt.Fprintf(w, "ID:      %s\n", u.ID)
	fmt.Fprintf(w, "Name:    %s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(w, "Phone:   %s\n", u.Phone)
	fmt.Fprintf(w, "Email:   %s\n", email)
	fmt.Fprintf(w, "Created: %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
}

func newRefreshCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the current token for a new one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.tokens.Load()
			if err != nil {
				return err
			}

			resp, err := a.api.Refresh(cmd.Context(), token)
			if err != nil {
				return err
			}

			if err := a.tokens.Save(resp.AccessToken); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token refreshed (expires in %d seconds)\n", resp.ExpiresIn)
			return nil
		},
	}
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the current token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.tokens.Load()
			if err != nil {
				return err
			}

			resp, err := a.api.Logout(cmd.Context(), token)
			switch {
			case errors.Is(err, client.ErrUnauthorized):
				// The server no longer accepts the token; drop it locally anyway.
				if err := a.tokens.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Session already ended")
				return nil
			case err != nil:
				return err
			}

			if err := a.tokens.Clear(); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}
