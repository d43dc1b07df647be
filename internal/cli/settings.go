package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage local preferences",
	Long:  `Preferences are kept on this machine only and are never sent to the server.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show preferences",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one preference",
	Long: `Change one preference.

Keys: ` + strings.Join(view.SettingKeys, ", ") + `

Examples:
  jera settings set theme dark
  jera settings set notifications.push true`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default preferences",
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
}

func settingsPage(cmd *cobra.Command) (*view.SettingsPage, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, err
	}
	return view.NewSettingsPage(a.db, notifier(cmd)), nil
}

func printSettings(w io.Writer, s model.Settings) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	fmt.Fprintln(w, "⚙️  Settings")
	rule(w)
	fmt.Fprintf(w, "  notifications.email    %s\n", onOff(s.Notifications.Email))
	fmt.Fprintf(w, "  notifications.push     %s\n", onOff(s.Notifications.Push))
	fmt.Fprintf(w, "  notifications.desktop  %s\n", onOff(s.Notifications.Desktop))
	fmt.Fprintf(w, "  notifications.weekly   %s\n", onOff(s.Notifications.Weekly))
	fmt.Fprintf(w, "  theme                  %s\n", s.Theme)
	fmt.Fprintf(w, "  language               %s\n", s.Language)
	fmt.Fprintf(w, "  timezone               %s\n", s.Timezone)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	page, err := settingsPage(cmd)
	if err != nil {
		return err
	}
	s, err := page.Load(cmd.Context())
	if err != nil {
		return err
	}
	printSettings(cmd.OutOrStdout(), s)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	page, err := settingsPage(cmd)
	if err != nil {
		return err
	}
	_, err = page.Set(cmd.Context(), args[0], args[1])
	return err
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	page, err := settingsPage(cmd)
	if err != nil {
		return err
	}
	s, err := page.Reset(cmd.Context())
	if err != nil {
		return err
	}
	printSettings(cmd.OutOrStdout(), s)
	return nil
}
