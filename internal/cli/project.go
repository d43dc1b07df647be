package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:               "project",
	Aliases:           []string{"projects", "p"},
	Short:             "Manage projects",
	Long:              `Create, list, and manage projects.`,
	PersistentPreRunE: requireSession,
}

var projectListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List projects",
	Long: `List projects with their progress.

Examples:
  jera project list
  jera project list --mine --status "in progress"
  jera project list -s crm`,
	RunE: runProjectList,
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show a project and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create a new project",
	Long: `Create a new project owned by the current user.

Examples:
  jera project new "CRM" --deadline 2024-03-01
  jera project new "Website" -d "Marketing site" --status "in progress"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProjectNew,
}

var projectEditCmd = &cobra.Command{
	Use:   "edit [project-id]",
	Short: "Change a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectEdit,
}

var projectDeleteCmd = &cobra.Command{
	Use:     "delete [project-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a project",
	Args:    cobra.ExactArgs(1),
	RunE:    runProjectDelete,
}

func init() {
	projectListCmd.Flags().StringP("search", "s", "", "Search name and description")
	projectListCmd.Flags().String("status", "", "Filter by status (to do, in progress, done)")
	projectListCmd.Flags().BoolP("mine", "m", false, "Only projects I created")

	for _, c := range []*cobra.Command{projectNewCmd, projectEditCmd} {
		c.Flags().StringP("description", "d", "", "Description")
		c.Flags().String("status", "", "Status (to do, in progress, done)")
		c.Flags().String("start", "", "Start date (YYYY-MM-DD)")
		c.Flags().String("deadline", "", "Deadline (YYYY-MM-DD)")
	}
	projectEditCmd.Flags().String("name", "", "New name")
	projectDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectNewCmd)
	projectCmd.AddCommand(projectEditCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}

func projectsPage(cmd *cobra.Command) (*view.ProjectsPage, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, err
	}
	return view.NewProjectsPage(a.client, a.data, a.session, notifier(cmd)), nil
}

// statusFlag parses --status when given.
func statusFlag(cmd *cobra.Command) (model.Status, error) {
	raw, _ := cmd.Flags().GetString("status")
	if raw == "" || raw == "all" {
		return "", nil
	}
	return model.ParseStatus(raw)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	page, err := projectsPage(cmd)
	if err != nil {
		return err
	}
	if err := page.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to list projects: %w", err)
	}

	status, err := statusFlag(cmd)
	if err != nil {
		return err
	}
	search, _ := cmd.Flags().GetString("search")
	mine, _ := cmd.Flags().GetBool("mine")

	printProjects(cmd.OutOrStdout(), page.Cards(view.Filter{Search: search, Status: string(status), Mine: mine}))
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	project, err := a.client.GetProject(ctx, id)
	if err != nil {
		return fmt.Errorf("project not found: %d: %w", id, err)
	}
	users := a.data.Users
	sprints := a.data.Sprints
	tasks := a.data.TasksByProject(id)
	defer tasks.Close()
	for _, load := range []func(context.Context) error{users.Load, sprints.Load, tasks.Load} {
		if err := load(ctx); err != nil {
			return fmt.Errorf("failed to load project details: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	own := tasks.State().Data
	percent := view.CompletionPercent(own)
	fmt.Fprintf(out, "\n📁 %s  (#%d)\n", project.Name, project.ID)
	rule(out)
	if project.Description != "" {
		fmt.Fprintf(out, "  %s\n\n", project.Description)
	}
	fmt.Fprintf(out, "  Status:    %s\n", view.StatusLabel(string(project.Status)))
	fmt.Fprintf(out, "  Creator:   %s\n", view.UserName(users.State().Data, project.CreatorID))
	fmt.Fprintf(out, "  Start:     %s\n", view.FormatDate(project.StartDate))
	if project.Deadline.IsSet() {
		fmt.Fprintf(out, "  Deadline:  %s\n", deadline(project.Deadline, view.DaysRemaining(project.Deadline, nowFunc())))
	}
	fmt.Fprintf(out, "  Progress:  %s %d%%\n", progressBar(percent, 20), percent)

	cards := view.BuildTaskCards(own, []model.Project{*project}, sprints.State().Data, users.State().Data)
	printTasks(out, cards, view.StatsOf(own))
	return nil
}

func projectRequest(cmd *cobra.Command, req model.ProjectRequest) (model.ProjectRequest, error) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name, _ = flags.GetString("name")
	}
	if flags.Changed("description") {
		req.Description, _ = flags.GetString("description")
	}
	if flags.Changed("status") {
		status, err := statusFlag(cmd)
		if err != nil {
			return req, err
		}
		req.Status = status
	}
	if flags.Changed("start") {
		d, err := dateFlag(cmd, "start")
		if err != nil {
			return req, err
		}
		req.StartDate = d
	}
	if flags.Changed("deadline") {
		d, err := dateFlag(cmd, "deadline")
		if err != nil {
			return req, err
		}
		req.Deadline = d
	}
	return req, nil
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	page, err := projectsPage(cmd)
	if err != nil {
		return err
	}
	req, err := projectRequest(cmd, model.ProjectRequest{Name: strings.Join(args, " ")})
	if err != nil {
		return err
	}
	if !req.StartDate.IsSet() {
		req.StartDate = model.NewDate(nowFunc())
	}
	return page.Create(cmd.Context(), req)
}

func runProjectEdit(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	existing, err := a.client.GetProject(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("project not found: %d: %w", id, err)
	}
	req, err := projectRequest(cmd, existing.Request())
	if err != nil {
		return err
	}
	page, _ := projectsPage(cmd)
	return page.Update(cmd.Context(), id, req)
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
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
	if !confirmDelete(cmd, fmt.Sprintf("project %q (#%d)", project.Name, id)) {
		return nil
	}
	page, _ := projectsPage(cmd)
	return page.Delete(cmd.Context(), id)
}
