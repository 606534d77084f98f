package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewTaskCmd builds the "task" command group.
func NewTaskCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(clientFn, outputFn),
		newTaskCreateCmd(clientFn, outputFn),
		newTaskShowCmd(clientFn, outputFn),
		newTaskFromTemplateCmd(clientFn, outputFn),
	)

	return cmd
}

func newTaskListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			tasks, err := client.ListTasks(ListTasksOpts{Status: status})
			if err != nil {
				return err
			}

			headers := []string{"ID", "TITLE", "TYPE", "PRIORITY", "STATUS"}
			rows := make([][]string, len(tasks))
			for i, t := range tasks {
				rows[i] = []string{t.ID, t.Title, t.Type, t.Priority, t.Status}
			}

			out.Print(headers, rows, tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (default: pending)")
	return cmd
}

func newTaskCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var title, description, taskType, priority string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create and submit a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			task, err := client.CreateTask(CreateTaskRequest{
				Title:       title,
				Description: description,
				Type:        taskType,
				Priority:    priority,
			})
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Task created: %s", task.ID))
			out.Print(
				[]string{"ID", "TITLE", "TYPE", "PRIORITY", "STATUS"},
				[][]string{{task.ID, task.Title, task.Type, task.Priority, task.Status}},
				task,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&taskType, "type", "", "Task type (required)")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Task priority")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("type")

	return cmd
}

func newTaskShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			task, err := client.GetTask(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "TITLE", "TYPE", "PRIORITY", "STATUS"},
				[][]string{{task.ID, task.Title, task.Type, task.Priority, task.Status}},
				task,
			)
			return nil
		},
	}
}

func newTaskFromTemplateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var templateName, title, varsJSON string

	cmd := &cobra.Command{
		Use:   "from-template",
		Short: "Submit a task built from a registered template",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var variables map[string]any
			if varsJSON != "" {
				if err := json.Unmarshal([]byte(varsJSON), &variables); err != nil {
					return fmt.Errorf("invalid --vars JSON: %w", err)
				}
			}

			result, err := client.SubmitTaskFromTemplate(SubmitTaskFromTemplateRequest{
				TemplateName: templateName,
				Title:        title,
				Variables:    variables,
			})
			if err != nil {
				return err
			}

			out.JSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateName, "template", "", "Template name (required)")
	cmd.Flags().StringVar(&title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&varsJSON, "vars", "", "Template variables as a JSON object")
	cmd.MarkFlagRequired("template")
	cmd.MarkFlagRequired("title")

	return cmd
}
