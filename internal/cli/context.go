package cli

import (
	"fmt"

	"github.com/existflow/jera/internal/storage"
	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the default project",
	Long: `Set or view the current project context.

When a context is set, new sprints and tasks go to that project unless
--project is given.

Examples:
  jera context              # Show current context
  jera context set 3        # Use project 3 by default
  jera context clear        # Clear context`,
	PersistentPreRunE: requireSession,
	RunE:              runContextShow,
}

var contextSetCmd = &cobra.Command{
	Use:   "set [project-id]",
	Short: "Set the current project context",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextSet,
}

var contextClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the current context",
	RunE:  runContextClear,
}

func init() {
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextClearCmd)
}

// projectFlag returns --project, falling back to the context.
func projectFlag(cmd *cobra.Command, kv storage.KV) int64 {
	id, _ := cmd.Flags().GetInt64("project")
	if id == 0 && !cmd.Flags().Changed("project") {
		id = storage.CurrentProject(cmd.Context(), kv)
	}
	return id
}

func runContextShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	id := storage.CurrentProject(cmd.Context(), a.db)
	if id == 0 {
		fmt.Fprintln(out, "📥 No project context set")
		return nil
	}

	project, err := a.client.GetProject(cmd.Context(), id)
	if err != nil {
		fmt.Fprintf(out, "⚠️  Context set to project %d but it could not be loaded: %v\n", id, err)
		return nil
	}
	tasks, _ := a.client.TasksByProject(cmd.Context(), id)
	fmt.Fprintf(out, "📁 Current context: %s (%d%% of %d tasks done)\n", project.Name, view.CompletionPercent(tasks), len(tasks))
	return nil
}

func runContextSet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}

	project, err := a.client.GetProject(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("project not found: %d: %w", id, err)
	}
	if err := storage.SetCurrentProject(cmd.Context(), a.db, id); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📁 Switched to: %s\n", project.Name)
	return nil
}

func runContextClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	if err := storage.SetCurrentProject(cmd.Context(), a.db, 0); err != nil {
		return fmt.Errorf("failed to clear context: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "📥 Context cleared")
	return nil
}
