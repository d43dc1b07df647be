package cli

import (
	"fmt"
	"strings"

	"github.com/existflow/jera/internal/model"
	"github.com/existflow/jera/internal/view"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:               "task",
	Aliases:           []string{"tasks", "t"},
	Short:             "Manage tasks",
	PersistentPreRunE: requireSession,
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks, highest priority first.

Examples:
  jera task list --mine
  jera task list --project 3 --status "in progress"
  jera task list -s login`,
	RunE: runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskNewCmd = &cobra.Command{
	Use:     "new [name]",
	Aliases: []string{"add"},
	Short:   "Add a new task",
	Long: `Add a task to a project. The project comes from --project or the current
context; the assignee defaults to you.

Examples:
  jera task new "Login page" --project 3
  jera task new "Fix export" -P 3 --priority high --sprint 7 --assignee 2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTaskNew,
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Change a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskEdit,
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Move a task to another status",
	Long: `Move a task to another status.

Examples:
  jera task status 12 "in progress"
  jera task status 12 done`,
	Args: cobra.MinimumNArgs(2),
	RunE: runTaskStatus,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark a task as completed.

Examples:
  jera task done 12
  jera task done 12 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runTaskDone,
}

var taskDeleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runTaskDelete,
}

func init() {
	taskListCmd.Flags().StringP("search", "s", "", "Search name, description and project")
	taskListCmd.Flags().String("status", "", "Filter by status (to do, in progress, done)")
	taskListCmd.Flags().Int64P("project", "P", 0, "Only tasks of this project")
	taskListCmd.Flags().Int64("sprint", 0, "Only tasks of this sprint")
	taskListCmd.Flags().Int64("assignee", 0, "Only tasks assigned to this user")
	taskListCmd.Flags().BoolP("mine", "m", false, "Only tasks assigned to me")

	for _, c := range []*cobra.Command{taskNewCmd, taskEditCmd} {
		c.Flags().StringP("description", "d", "", "Description")
		c.Flags().String("status", "", "Status (to do, in progress, done)")
		c.Flags().StringP("priority", "p", "", "Priority (low, medium, high)")
		c.Flags().Int64P("project", "P", 0, "Project id")
		c.Flags().Int64("sprint", 0, "Sprint id (0 for none)")
		c.Flags().Int64("assignee", 0, "Assignee user id")
	}
	taskEditCmd.Flags().String("name", "", "New name")
	taskDoneCmd.Flags().Bool("undo", false, "Mark task as not done")
	taskDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskNewCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskDeleteCmd)
}

func tasksPage(cmd *cobra.Command) (*view.TasksPage, *app, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return view.NewTasksPage(a.client, a.data, a.session, notifier(cmd)), a, nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	page, _, err := tasksPage(cmd)
	if err != nil {
		return err
	}
	if err := page.Load(cmd.Context()); err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	status, err := statusFlag(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	search, _ := flags.GetString("search")
	mine, _ := flags.GetBool("mine")
	f := view.TaskFilter{Filter: view.Filter{Search: search, Status: string(status), Mine: mine}}
	f.ProjectID, _ = flags.GetInt64("project")
	f.SprintID, _ = flags.GetInt64("sprint")
	f.AssigneeID, _ = flags.GetInt64("assignee")

	printTasks(cmd.OutOrStdout(), page.Cards(f), page.Stats(f))
	return nil
}

// loadTask fetches one task by id argument.
func loadTask(cmd *cobra.Command, a *app, arg string) (*model.Task, error) {
	id, err := parseID(arg)
	if err != nil {
		return nil, err
	}
	task, err := a.client.GetTask(cmd.Context(), id)
	if err != nil {
		return nil, fmt.Errorf("task not found: %d: %w", id, err)
	}
	return task, nil
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	task, err := loadTask(cmd, a, args[0])
	if err != nil {
		return err
	}
	if err := a.data.LoadAll(cmd.Context()); err != nil {
		return err
	}
	card := view.BuildTaskCards([]model.Task{*task},
		a.data.Projects.State().Data, a.data.Sprints.State().Data, a.data.Users.State().Data)[0]

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n📝 %s  (#%d)\n", task.Name, task.ID)
	rule(out)
	if task.Description != "" {
		fmt.Fprintf(out, "  %s\n\n", task.Description)
	}
	fmt.Fprintf(out, "  Status:    %s\n", card.Status)
	fmt.Fprintf(out, "  Priority:  %s\n", card.Priority)
	fmt.Fprintf(out, "  Project:   %s\n", card.Project)
	if card.Sprint != "" {
		fmt.Fprintf(out, "  Sprint:    %s\n", card.Sprint)
	}
	fmt.Fprintf(out, "  Assignee:  %s\n", card.Assignee)
	if !task.CreatedAt.IsZero() {
		fmt.Fprintf(out, "  Created:   %s\n", task.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
	}
	if task.CompletedAt != nil {
		fmt.Fprintf(out, "  Completed: %s\n", task.CompletedAt.Local().Format("Jan 2, 2006 15:04"))
	}
	fmt.Fprintln(out)
	return nil
}

func taskRequest(cmd *cobra.Command, req model.TaskRequest) (model.TaskRequest, error) {
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
	if flags.Changed("priority") {
		raw, _ := flags.GetString("priority")
		p, err := model.ParsePriority(raw)
		if err != nil {
			return req, err
		}
		req.Priority = p
	}
	if flags.Changed("project") {
		req.ProjectID, _ = flags.GetInt64("project")
	}
	if flags.Changed("sprint") {
		req.SprintID, _ = flags.GetInt64("sprint")
	}
	if flags.Changed("assignee") {
		req.AssigneeID, _ = flags.GetInt64("assignee")
	}
	return req, nil
}

func runTaskNew(cmd *cobra.Command, args []string) error {
	page, a, err := tasksPage(cmd)
	if err != nil {
		return err
	}
	req, err := taskRequest(cmd, model.TaskRequest{
		Name:      strings.Join(args, " "),
		ProjectID: projectFlag(cmd, a.db),
	})
	if err != nil {
		return err
	}
	return page.Create(cmd.Context(), req)
}

func runTaskEdit(cmd *cobra.Command, args []string) error {
	page, a, err := tasksPage(cmd)
	if err != nil {
		return err
	}
	task, err := loadTask(cmd, a, args[0])
	if err != nil {
		return err
	}
	req, err := taskRequest(cmd, task.Request())
	if err != nil {
		return err
	}
	return page.Update(cmd.Context(), task.ID, req)
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	status, err := model.ParseStatus(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	page, a, err := tasksPage(cmd)
	if err != nil {
		return err
	}
	task, err := loadTask(cmd, a, args[0])
	if err != nil {
		return err
	}
	return page.SetStatus(cmd.Context(), *task, status)
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	page, a, err := tasksPage(cmd)
	if err != nil {
		return err
	}
	task, err := loadTask(cmd, a, args[0])
	if err != nil {
		return err
	}

	undo, _ := cmd.Flags().GetBool("undo")
	status := model.StatusDone
	if undo {
		status = model.StatusToDo
	}
	if err := page.SetStatus(cmd.Context(), *task, status); err != nil {
		return err
	}

	if undo {
		fmt.Fprintf(cmd.OutOrStdout(), "○ Reopened: %q\n", task.Name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed: %q\n", task.Name)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	page, a, err := tasksPage(cmd)
	if err != nil {
		return err
	}
	task, err := loadTask(cmd, a, args[0])
	if err != nil {
		return err
	}
	if !confirmDelete(cmd, fmt.Sprintf("%q (#%d)", task.Name, task.ID)) {
		return nil
	}
	return page.Delete(cmd.Context(), task.ID)
}
