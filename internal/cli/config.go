package cli

import (
	"fmt"
	"net/url"

	"github.com/existflow/jera/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change client configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.Path()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "⚙️  Configuration")
		rule(out)
		fmt.Fprintf(out, "  File:            %s\n", path)
		fmt.Fprintf(out, "  API URL:         %s\n", cfg.APIURL)
		fmt.Fprintf(out, "  Confirm delete:  %v\n", cfg.ConfirmDelete)
		if cfg.RequestsPerSecond > 0 {
			fmt.Fprintf(out, "  Rate limit:      %.1f req/s\n", cfg.RequestsPerSecond)
		} else {
			fmt.Fprintln(out, "  Rate limit:      off")
		}
		fmt.Fprintf(out, "  Log:             %s %s (%s)\n", cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
		if cfg.MetricsAddr != "" {
			fmt.Fprintf(out, "  Metrics:         %s\n", cfg.MetricsAddr)
		}
		return nil
	},
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url [url]",
	Short: "Point the client at another server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := url.Parse(args[0])
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid url %q", args[0])
		}
		cfg.APIURL = args[0]
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ API URL set to %s\n", cfg.APIURL)
		return nil
	},
}

var configConfirmCmd = &cobra.Command{
	Use:   "confirm-delete [on|off]",
	Short: "Turn the delete confirmation prompt on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "on", "true":
			cfg.ConfirmDelete = true
		case "off", "false":
			cfg.ConfirmDelete = false
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Confirm delete: %v\n", cfg.ConfirmDelete)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetURLCmd)
	configCmd.AddCommand(configConfirmCmd)
}
