package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:               "admin",
	Aliases:           []string{"admins"},
	Short:             "Manage administrator privileges",
	PersistentPreRunE: requireSession,
}

var adminListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List administrators",
	RunE:    runAdminList,
}

var adminShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show whether a user is an administrator",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminShow,
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant [user-id]",
	Short: "Make a user an administrator",
	Long: `Make a user an administrator.

Examples:
  jera admin grant 4 --level moderator --permissions users.read,tasks.write`,
	Args: cobra.ExactArgs(1),
	RunE: runAdminGrant,
}

var adminEditCmd = &cobra.Command{
	Use:   "edit [admin-id]",
	Short: "Change an administrator's level or permissions",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminEdit,
}

var adminRevokeCmd = &cobra.Command{
	Use:     "revoke [admin-id]",
	Aliases: []string{"rm"},
	Short:   "Remove administrator privileges",
	Args:    cobra.ExactArgs(1),
	RunE:    runAdminRevoke,
}

var adminActivateCmd = &cobra.Command{
	Use:   "activate [admin-id]",
	Short: "Activate an administrator",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setAdminActive(cmd, args[0], true) },
}

var adminDeactivateCmd = &cobra.Command{
	Use:   "deactivate [admin-id]",
	Short: "Deactivate an administrator",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return setAdminActive(cmd, args[0], false) },
}

func init() {
	adminListCmd.Flags().String("level", "", "Only this level (super, moderator, support)")
	adminListCmd.Flags().StringP("search", "s", "", "Search user name and level")
	for _, c := range []*cobra.Command{adminGrantCmd, adminEditCmd} {
		c.Flags().String("level", "", "Level (super, moderator, support)")
		c.Flags().StringSlice("permissions", nil, "Comma-separated permissions")
	}
	adminRevokeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	adminCmd.AddCommand(adminListCmd)
	adminCmd.AddCommand(adminShowCmd)
	adminCmd.AddCommand(adminGrantCmd)
	adminCmd.AddCommand(adminEditCmd)
	adminCmd.AddCommand(adminRevokeCmd)
	adminCmd.AddCommand(adminActivateCmd)
	adminCmd.AddCommand(adminDeactivateCmd)
}

func adminsPage(cmd *cobra.Command) (*view.AdministratorsPage, *app, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return view.NewAdministratorsPage(a.client, a.data, notifier(cmd)), a, nil
}

func levelFlag(cmd *cobra.Command) (model.AdminLevel, error) {
	raw, _ := cmd.Flags().GetString("level")
	if raw == "" || raw == "all" {
		return "", nil
	}
	return model.ParseAdminLevel(raw)
}

func runAdminList(cmd *cobra.Command, args []string) error {
	page, _, err := adminsPage(cmd)
	if err != nil {
		return err
	}
	level, err := levelFlag(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if err := page.SetLevel(ctx, level); err != nil {
		return fmt.Errorf("failed to list administrators: %w", err)
	}
	if err := page.Load(ctx); err != nil {
		return fmt.Errorf("failed to list administrators: %w", err)
	}
	search, _ := cmd.Flags().GetString("search")
	printAdmins(cmd.OutOrStdout(), page.Cards(search))
	return nil
}

func runAdminShow(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, a, err := adminsPage(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	user, err := a.client.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("user not found: %d: %w", userID, err)
	}
	admin, err := page.ForUser(ctx, userID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if admin == nil {
		fmt.Fprintf(out, "%s (@%s) is not an administrator.\n", user.Name, user.Username)
		return nil
	}
	state := "inactive"
	if admin.Active {
		state = "active"
	}
	fmt.Fprintf(out, "\n🛡  %s (@%s)\n", user.Name, user.Username)
	rule(out)
	fmt.Fprintf(out, "  Admin ID:     %d\n", admin.ID)
	fmt.Fprintf(out, "  Level:        %s\n", admin.Level)
	fmt.Fprintf(out, "  State:        %s\n", state)
	if len(admin.Permissions) > 0 {
		fmt.Fprintf(out, "  Permissions:  %s\n", strings.Join(admin.Permissions, ", "))
	}
	if !admin.CreatedAt.IsZero() {
		fmt.Fprintf(out, "  Since:        %s\n", admin.CreatedAt.Local().Format("Jan 2, 2006"))
	}
	fmt.Fprintln(out)
	return nil
}

func adminRequest(cmd *cobra.Command, req model.AdministratorRequest) (model.AdministratorRequest, error) {
	flags := cmd.Flags()
	if flags.Changed("level") {
		level, err := levelFlag(cmd)
		if err != nil {
			return req, err
		}
		req.Level = level
	}
	if flags.Changed("permissions") {
		req.Permissions, _ = flags.GetStringSlice("permissions")
	}
	return req, nil
}

func runAdminGrant(cmd *cobra.Command, args []string) error {
	userID, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, _, err := adminsPage(cmd)
	if err != nil {
		return err
	}
	req, err := adminRequest(cmd, model.AdministratorRequest{UserID: userID, Level: model.AdminSupport})
	if err != nil {
		return err
	}
	return page.Grant(cmd.Context(), req)
}

func runAdminEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, a, err := adminsPage(cmd)
	if err != nil {
		return err
	}
	admin, err := a.client.GetAdministrator(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("administrator not found: %d: %w", id, err)
	}
	req, err := adminRequest(cmd, model.AdministratorRequest{
		UserID:      admin.UserID,
		Level:       admin.Level,
		Permissions: admin.Permissions,
	})
	if err != nil {
		return err
	}
	return page.Update(cmd.Context(), id, req)
}

func runAdminRevoke(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, _, err := adminsPage(cmd)
	if err != nil {
		return err
	}
	if !confirmDelete(cmd, fmt.Sprintf("administrator #%d", id)) {
		return nil
	}
	return page.Revoke(cmd.Context(), id)
}

func setAdminActive(cmd *cobra.Command, arg string, active bool) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	page, _, err := adminsPage(cmd)
	if err != nil {
		return err
	}
	return page.SetActive(cmd.Context(), id, active)
}
