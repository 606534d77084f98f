package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewWorkflowCmd builds the "workflow" command group.
func NewWorkflowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Execute and inspect workflows",
	}

	cmd.AddCommand(
		newWorkflowExecuteCmd(clientFn, outputFn),
		newWorkflowStatusCmd(clientFn, outputFn),
		newWorkflowCancelCmd(clientFn, outputFn),
		newWorkflowApproveCmd(clientFn, outputFn),
	)

	return cmd
}

func newWorkflowExecuteCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file, varsJSON string

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a workflow definition read from --file",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			definition, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read workflow file: %w", err)
			}

			var inputs map[string]any
			if varsJSON != "" {
				if err := json.Unmarshal([]byte(varsJSON), &inputs); err != nil {
					return fmt.Errorf("invalid --inputs JSON: %w", err)
				}
			}

			result, err := client.ExecuteWorkflow(json.RawMessage(definition), inputs)
			if err != nil {
				return err
			}

			out.JSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to a JSON workflow definition (required)")
	cmd.Flags().StringVar(&varsJSON, "inputs", "", "Workflow inputs as a JSON object")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newWorkflowStatusCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID",
		Short: "Show a workflow's current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			status, err := client.GetWorkflowStatus(args[0])
			if err != nil {
				return err
			}

			out.Print(
				[]string{"ID", "STATUS"},
				[][]string{{status.ID, status.Status}},
				status,
			)
			return nil
		},
	}
}

func newWorkflowCancelCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a running workflow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.CancelWorkflow(args[0])
			if err != nil {
				return err
			}

			out.Success("cancellation requested")
			out.JSON(result)
			return nil
		},
	}
}

func newWorkflowApproveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var approver, comment string
	var reject bool

	cmd := &cobra.Command{
		Use:   "approve STEP_ID",
		Short: "Resolve a parked approval step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			result, err := client.ResolveApproval(args[0], ApprovalDecisionRequest{
				Approved: !reject,
				Approver: approver,
				Comment:  comment,
			})
			if err != nil {
				return err
			}

			out.JSON(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&approver, "approver", "", "Identity of the approving user (required)")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional approval comment")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject instead of approve")
	cmd.MarkFlagRequired("approver")

	return cmd
}
