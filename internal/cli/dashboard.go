package cli

import (
	"fmt"

	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:               "dashboard",
	Aliases:           []string{"dash"},
	Short:             "Summarize your projects, tasks and sprints",
	PersistentPreRunE: requireSession,
	RunE:              runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	dash := view.NewDashboard(a.data, a.session)
	if err := dash.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to load dashboard: %w", err)
	}
	s := dash.Summary()

	out := cmd.OutOrStdout()
	name := "there"
	if u := a.session.User(); u != nil {
		name = u.Name
	}
	fmt.Fprintf(out, "\n👋 Welcome back, %s\n", name)
	rule(out)
	fmt.Fprintf(out, "  📁 Active projects:  %d\n", s.ActiveProjects)
	fmt.Fprintf(out, "  📝 Active tasks:     %d\n", s.ActiveTasks)
	fmt.Fprintf(out, "  🏃 Active sprints:   %d\n", s.ActiveSprints)
	rule(out)

	if len(s.Recent) == 0 {
		fmt.Fprintln(out, "  No projects yet. Create one with: jera project new <name>")
		fmt.Fprintln(out)
		return nil
	}
	fmt.Fprintln(out, "  Recent projects")
	tasks := a.data.Tasks.State().Data
	for _, p := range s.Recent {
		percent := view.CompletionPercent(view.TasksOf(tasks, p.ID))
		fmt.Fprintf(out, "  %-5d  %-30s  %s %3d%%  %s\n",
			p.ID, truncate(p.Name, 30), progressBar(percent, 10), percent, view.StatusLabel(string(p.Status)))
	}
	fmt.Fprintln(out)
	return nil
}
