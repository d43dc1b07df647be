package cli

import (
	"fmt"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:               "user",
	Aliases:           []string{"users", "u"},
	Short:             "Manage user accounts",
	PersistentPreRunE: requireSession,
}

var userListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List users",
	RunE:    runUserList,
}

var userNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a user account",
	Long: `Create a user account. Missing fields are prompted for.

Examples:
  jera user new --name "Ana Lima" --username ana --email ana@example.com`,
	RunE: runUserNew,
}

var userEditCmd = &cobra.Command{
	Use:   "edit [user-id]",
	Short: "Change a user's name, username or email",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserEdit,
}

var userDeleteCmd = &cobra.Command{
	Use:     "delete [user-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a user account",
	Args:    cobra.ExactArgs(1),
	RunE:    runUserDelete,
}

func init() {
	userListCmd.Flags().StringP("search", "s", "", "Search name, username and email")
	for _, c := range []*cobra.Command{userNewCmd, userEditCmd} {
		c.Flags().String("name", "", "Full name")
		c.Flags().String("username", "", "Username")
		c.Flags().String("email", "", "Email address")
	}
	userDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userNewCmd)
	userCmd.AddCommand(userEditCmd)
	userCmd.AddCommand(userDeleteCmd)
}

func usersPage(cmd *cobra.Command) (*view.UsersPage, *app, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return view.NewUsersPage(a.client, a.data, a.session, notifier(cmd)), a, nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	page, a, err := usersPage(cmd)
	if err != nil {
		return err
	}
	if err := page.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	search, _ := cmd.Flags().GetString("search")
	printUsers(cmd.OutOrStdout(), page.List(search), a.session.UserID())
	return nil
}

func runUserNew(cmd *cobra.Command, args []string) error {
	page, _, err := usersPage(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	p := newPrompter(cmd)
	ask := func(flag, label string) string {
		if v, _ := flags.GetString(flag); v != "" {
			return v
		}
		return p.line(label)
	}

	req := model.CreateUserRequest{
		Name:     ask("name", "Name"),
		Username: ask("username", "Username"),
		Email:    ask("email", "Email"),
	}
	req.Password = p.secret("Password")
	return page.Create(cmd.Context(), req)
}

func runUserEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, a, err := usersPage(cmd)
	if err != nil {
		return err
	}
	user, err := a.client.GetUser(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("user not found: %d: %w", id, err)
	}

	req := model.UpdateUserRequest{Name: user.Name, Username: user.Username, Email: user.Email}
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name, _ = flags.GetString("name")
	}
	if flags.Changed("username") {
		req.Username, _ = flags.GetString("username")
	}
	if flags.Changed("email") {
		req.Email, _ = flags.GetString("email")
	}
	return page.Update(cmd.Context(), id, req)
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, a, err := usersPage(cmd)
	if err != nil {
		return err
	}
	if me := a.session.UserID(); me != nil && *me == id {
		return view.ErrDeleteSelf
	}
	user, err := a.client.GetUser(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("user not found: %d: %w", id, err)
	}
	if !confirmDelete(cmd, fmt.Sprintf("user %q (#%d)", user.Username, id)) {
		return nil
	}
	return page.Delete(cmd.Context(), id)
}
