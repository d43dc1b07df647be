package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/existflow/jera/internal/api"
	"github.com/existflow/jera/internal/model"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage authentication",
	Long:  `Log in to the project-management server, create an account, or end the session.`,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the server",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the saved session",
	RunE:  runLogout,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE:  runRegister,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE:  runStatus,
}

var (
	loginUsername string
	loginRemember bool
)

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(statusCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when empty)")
	loginCmd.Flags().BoolVar(&loginRemember, "remember", true, "Record the remember-me preference with the session")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	creds := model.LoginCredentials{Username: loginUsername}
	if creds.Username == "" {
		creds.Username = p.line("Username")
	}
	creds.Password = p.secret("Password")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔄 Logging in...")
	sess, err := a.client.Login(cmd.Context(), creds)
	if errors.Is(err, api.ErrLoginUserMismatch) {
		return fmt.Errorf("%w; the server accepted the credentials but does not list this user", err)
	}
	if err != nil {
		return err
	}

	if err := a.session.Login(cmd.Context(), sess.User, sess.Token, loginRemember); err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ Logged in as %s (%s)\n", sess.User.Name, sess.User.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !a.session.State().Authenticated {
		fmt.Fprintln(out, "Not logged in.")
		return nil
	}

	if err := a.session.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(out, "✅ Logged out successfully.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}

	p := newPrompter(cmd)
	reg := model.Registration{
		CreateUserRequest: model.CreateUserRequest{
			Name:     p.line("Name"),
			Username: p.line("Username"),
			Email:    p.line("Email"),
			Password: p.secret("Password"),
		},
		ConfirmPassword: p.secret("Confirm Password"),
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔄 Creating account...")
	user, err := a.client.Register(cmd.Context(), reg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ Account created for %s. Log in with: jera auth login -u %s\n", user.Name, user.Username)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server:   %s\n", a.client.BaseURL())

	st := a.session.State()
	if !st.Authenticated {
		fmt.Fprintln(out, "Session:  not logged in")
		return nil
	}
	fmt.Fprintf(out, "User:     %s (%s, id %d)\n", st.User.Name, st.User.Username, st.User.ID)
	if exp, ok := a.session.Expiry(); ok {
		left := time.Until(exp).Round(time.Minute)
		if left <= 0 {
			fmt.Fprintf(out, "Token:    expired at %s\n", exp.Local().Format(time.RFC1123))
		} else {
			fmt.Fprintf(out, "Token:    expires in %s\n", left)
		}
	}
	fmt.Fprintf(out, "Remember: %v\n", st.RememberMe)
	return nil
}
