package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/friendbook/internal/account"
)

// SignupOptions holds flags for the signup command.
type SignupOptions struct {
	*RootOptions
	Input account.SignupInput
}

// NewSignupCommand creates the signup command.
func NewSignupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new user",
		Long: `Register a new user. Signing up does not log you in.

Example:
  friendbook signup --firstname Ada --surname Lovelace --username ada@example.com \
    --password secret --day 10 --month Dec --year 1990 --gender Female`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts.RootOptions, cmd, func(a *app) error {
				u, err := a.accounts.Signup(cmd.Context(), opts.Input)
				if err != nil {
					return err
				}
				return a.out.Success(viewOf(u), "Signup successful! Please log in.")
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Input.Firstname, "firstname", "", "first name (required)")
	f.StringVar(&opts.Input.Surname, "surname", "", "surname (required)")
	f.StringVar(&opts.Input.Username, "username", "", "email or mobile number (required)")
	f.StringVar(&opts.Input.Password, "password", "", "password (required)")
	f.StringVar(&opts.Input.Gender, "gender", "", "gender (default \"Not specified\")")
	f.StringVar(&opts.Input.Day, "day", "", "birth day, 1-31 (required)")
	f.StringVar(&opts.Input.Month, "month", "", "birth month, Jan-Dec (required)")
	f.StringVar(&opts.Input.Year, "year", "", "birth year (required)")

	return cmd
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and start a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				u, err := a.accounts.Login(cmd.Context(), args[0], password)
				if err != nil {
					return err
				}
				return a.out.Success(viewOf(u), "Logged in as "+displayLine(u))
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				if err := a.accounts.Logout(cmd.Context()); err != nil {
					return err
				}
				return a.out.Success(map[string]bool{"logged_out": true}, "Logged out.")
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(a *app) error {
				u, err := a.accounts.Current(cmd.Context())
				if err != nil {
					return err
				}
				return a.out.Success(viewOf(u), fmt.Sprintf("%s\n%s, born %s", displayLine(u), u.Gender, u.Birthdate))
			})
		},
	}
}
