package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var sprintCmd = &cobra.Command{
	Use:               "sprint",
	Aliases:           []string{"sprints", "s"},
	Short:             "Manage sprints",
	PersistentPreRunE: requireSession,
}

var sprintListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sprints",
	Long: `List sprints with their progress and time left.

Examples:
  jera sprint list
  jera sprint list --project 3 --status in_progress`,
	RunE: runSprintList,
}

var sprintShowCmd = &cobra.Command{
	Use:   "show [sprint-id]",
	Short: "Show a sprint and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSprintShow,
}

var sprintNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new sprint",
	Long: `Create a sprint in a project. The project comes from --project or the
current context.

Examples:
  jera sprint new "Sprint 1" --project 3 --start 2024-01-15 --end 2024-01-29`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSprintNew,
}

var sprintEditCmd = &cobra.Command{
	Use:   "edit [sprint-id]",
	Short: "Change a sprint",
	Args:  cobra.ExactArgs(1),
	RunE:  runSprintEdit,
}

var sprintDeleteCmd = &cobra.Command{
	Use:     "delete [sprint-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a sprint",
	Args:    cobra.ExactArgs(1),
	RunE:    runSprintDelete,
}

func init() {
	sprintListCmd.Flags().StringP("search", "s", "", "Search name, project and description")
	sprintListCmd.Flags().String("status", "", "Filter by status (planning, in_progress, ended)")
	sprintListCmd.Flags().Int64P("project", "P", 0, "Only sprints of this project")
	sprintListCmd.Flags().BoolP("mine", "m", false, "Only sprints of projects I created")

	for _, c := range []*cobra.Command{sprintNewCmd, sprintEditCmd} {
		c.Flags().StringP("description", "d", "", "Description")
		c.Flags().String("status", "", "Status (planning, in_progress, ended)")
		c.Flags().String("start", "", "Start date (YYYY-MM-DD)")
		c.Flags().String("end", "", "End date (YYYY-MM-DD)")
		c.Flags().Int64P("project", "P", 0, "Project id")
	}
	sprintEditCmd.Flags().String("name", "", "New name")
	sprintDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	sprintCmd.AddCommand(sprintListCmd)
	sprintCmd.AddCommand(sprintShowCmd)
	sprintCmd.AddCommand(sprintNewCmd)
	sprintCmd.AddCommand(sprintEditCmd)
	sprintCmd.AddCommand(sprintDeleteCmd)
}

func sprintsPage(cmd *cobra.Command) (*view.SprintsPage, *app, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return view.NewSprintsPage(a.client, a.data, a.session, notifier(cmd)), a, nil
}

func sprintStatusFlag(cmd *cobra.Command) (model.SprintStatus, error) {
	raw, _ := cmd.Flags().GetString("status")
	if raw == "" || raw == "all" {
		return "", nil
	}
	return model.ParseSprintStatus(raw)
}

func runSprintList(cmd *cobra.Command, args []string) error {
	page, _, err := sprintsPage(cmd)
	if err != nil {
		return err
	}
	if err := page.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to list sprints: %w", err)
	}

	status, err := sprintStatusFlag(cmd)
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	mine, _ := cmd.Flags().GetBool("mine")
	project, _ := cmd.Flags().GetInt64("project")

	printSprints(cmd.OutOrStdout(), page.Cards(view.Filter{Search: search, Status: string(status), Mine: mine}, project))
	return nil
}

func runSprintShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	sprint, err := a.client.GetSprint(ctx, id)
	if err != nil {
		return fmt.Errorf("sprint not found: %d: %w", id, err)
	}
	tasks := a.data.TasksBySprint(id)
	defer tasks.Close()
	if err := tasks.Load(ctx); err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if err := a.data.LoadAll(ctx); err != nil {
		return err
	}

	projects := a.data.Projects.State().Data
	own := tasks.State().Data
	percent := view.CompletionPercent(own)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n🏃 %s  (#%d)\n", sprint.Name, sprint.ID)
	rule(out)
	if sprint.Description != "" {
		fmt.Fprintf(out, "  %s\n\n", sprint.Description)
	}
	fmt.Fprintf(out, "  Project:   %s\n", view.ProjectName(projects, sprint.ProjectID))
	fmt.Fprintf(out, "  Status:    %s\n", view.StatusLabel(string(sprint.Status)))
	fmt.Fprintf(out, "  Dates:     %s to %s\n", view.FormatDate(sprint.StartDate), view.FormatDate(sprint.EndDate))
	if sprint.EndDate.IsSet() {
		fmt.Fprintf(out, "  Ends:      %s\n", deadline(sprint.EndDate, view.DaysRemaining(sprint.EndDate, nowFunc())))
	}
	fmt.Fprintf(out, "  Progress:  %s %d%%\n", progressBar(percent, 20), percent)

	cards := view.BuildTaskCards(own, projects, a.data.Sprints.State().Data, a.data.Users.State().Data)
	printTasks(out, cards, view.StatsOf(own))
	return nil
}

func sprintRequest(cmd *cobra.Command, req model.SprintRequest) (model.SprintRequest, error) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name, _ = flags.GetString("name")
	}
	if flags.Changed("description") {
		req.Description, _ = flags.GetString("description")
	}
	if flags.Changed("status") {
		status, err := sprintStatusFlag(cmd)
		if err != nil {
			return req, err
		}
		req.Status = status
	}
	if flags.Changed("project") {
		req.ProjectID, _ = flags.GetInt64("project")
	}
	for name, dst := range map[string]*model.Date{"start": &req.StartDate, "end": &req.EndDate} {
		if !flags.Changed(name) {
			continue
		}
		d, err := dateFlag(cmd, name)
		if err != nil {
			return req, err
		}
		*dst = d
	}
	return req, nil
}

func runSprintNew(cmd *cobra.Command, args []string) error {
	page, a, err := sprintsPage(cmd)
	if err != nil {
		return err
	}
	req, err := sprintRequest(cmd, model.SprintRequest{
		Name:      strings.Join(args, " "),
		ProjectID: projectFlag(cmd, a.db),
	})
	if err != nil {
		return err
	}
	return page.Create(cmd.Context(), req)
}

func runSprintEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, a, err := sprintsPage(cmd)
	if err != nil {
		return err
	}
	existing, err := a.client.GetSprint(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("sprint not found: %d: %w", id, err)
	}
	req, err := sprintRequest(cmd, existing.Request())
	if err != nil {
		return err
	}
	return page.Update(cmd.Context(), id, req)
}

func runSprintDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	page, a, err := sprintsPage(cmd)
	if err != nil {
		return err
	}
	sprint, err := a.client.GetSprint(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("sprint not found: %d: %w", id, err)
	}
	if !confirmDelete(cmd, fmt.Sprintf("sprint %q (#%d)", sprint.Name, id)) {
		return nil
	}
	return page.Delete(cmd.Context(), id)
}
