package cli

import (
	"fmt"
	"io"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/spf13/cobra"
)

func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var creds domain.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, err := opts.Shop(cmd.Context())
			if err != nil {
				return err
			}
			sess, err := shop.Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			v := userView{
				Username: sess.User.Username,
				Email:    sess.User.Email,
				Phone:    sess.User.Phone,
			}
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s\n", displayName(sess.User))
			})
		},
	}

	cmd.Flags().StringVarP(&creds.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&creds.Email, "email", "e", "", "email")
	cmd.Flags().StringVarP(&creds.Password, "password", "p", "", "password")
	return cmd
}

func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	var reg domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, err := opts.Shop(cmd.Context())
			if err != nil {
				return err
			}
			if err := shop.Register(cmd.Context(), reg); err != nil {
				return err
			}
			v := userView{Username: reg.Username, Email: reg.Email, Phone: reg.Phone}
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				fmt.Fprintf(w, "Registered %s, run 'shop login' to sign in\n", reg.Username)
			})
		},
	}

	cmd.Flags().StringVarP(&reg.Username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&reg.Email, "email", "e", "", "email")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	cmd.Flags().StringVarP(&reg.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&reg.ConfirmPassword, "confirm-password", "", "password again")
	return cmd
}

func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, err := opts.Shop(cmd.Context())
			if err != nil {
				return err
			}
			return shop.Logout()
		},
	}
}

func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			shop, sess, err := session(cmd, opts)
			if err != nil {
				return err
			}
			u, err := shop.Whoami(cmd.Context(), sess)
			if err != nil {
				return err
			}
			v := userView{Username: u.Username, Email: u.Email, Phone: u.Phone}
			return newPrinter(opts, cmd).print(v, func(w io.Writer) {
				fmt.Fprintf(w, "Username:\t%s\n", v.Username)
				fmt.Fprintf(w, "Email:\t%s\n", v.Email)
				fmt.Fprintf(w, "Phone:\t%s\n", v.Phone)
			})
		},
	}
}

func displayName(u domain.User) string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
