package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fixwell/mrt/internal/output"
	"github.com/fixwell/mrt/internal/tracker"
)

var (
	submitTitle       string
	submitDescription string
	submitPriority    string
	submitStatus      string

	listSkip  int
	listLimit int
)

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Submit and inspect maintenance requests",
}

var requestSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a new maintenance request",
	Long: "Submit a maintenance request. The description is classified into a\n" +
		"category and summarized before the record is persisted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := getService()
		if err != nil {
			return err
		}

		req, err := svc.Create(context.Background(), tracker.CreateInput{
			Title:       submitTitle,
			Description: submitDescription,
			Priority:    submitPriority,
			Status:      submitStatus,
		})
		if err != nil {
			return err
		}

		ui.Success("Request #%d created (%s)", req.ID, req.Reference)
		if req.Category != nil {
			ui.Info("Category: %s", output.Cyan(*req.Category))
		}
		if req.AISummary != nil {
			ui.Info("Summary:  %s", *req.AISummary)
		}
		return nil
	},
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List maintenance requests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := getService()
		if err != nil {
			return err
		}

		page, err := svc.List(context.Background(), listSkip, listLimit)
		if err != nil {
			return err
		}

		if page.Total == 0 {
			ui.Info("No maintenance requests yet")
			return nil
		}

		table := ui.Table([]string{"ID", "TITLE", "CATEGORY", "PRIORITY", "STATUS", "CREATED"})
		for _, req := range page.Items {
			category := "-"
			if req.Category != nil {
				category = *req.Category
			}
			table.Append([]string{
				strconv.FormatInt(req.ID, 10),
				req.Title,
				category,
				output.PriorityColor(string(req.Priority)),
				output.StatusColor(string(req.Status)),
				req.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		if err := table.Render(); err != nil {
			return err
		}

		fmt.Fprintf(ui.Out, "\nPage %d of %d (%d total)\n", page.Page, page.Pages, page.Total)
		return nil
	},
}

var requestShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one maintenance request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid request id: %s", args[0])
		}

		svc, err := getService()
		if err != nil {
			return err
		}

		req, err := svc.Get(context.Background(), id)
		if err != nil {
			return err
		}

		fmt.Fprintf(ui.Out, "%s #%d\n", output.Cyan(req.Title), req.ID)
		fmt.Fprintf(ui.Out, "Reference:  %s\n", req.Reference)
		if req.Category != nil {
			fmt.Fprintf(ui.Out, "Category:   %s\n", *req.Category)
		}
		if req.AISummary != nil {
			fmt.Fprintf(ui.Out, "Summary:    %s\n", *req.AISummary)
		}
		fmt.Fprintf(ui.Out, "Priority:   %s\n", output.PriorityColor(string(req.Priority)))
		fmt.Fprintf(ui.Out, "Status:     %s\n", output.StatusColor(string(req.Status)))
		fmt.Fprintf(ui.Out, "Created:    %s\n", req.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(ui.Out, "\n%s\n", req.Description)
		return nil
	},
}

func init() {
	requestSubmitCmd.Flags().StringVarP(&submitTitle, "title", "t", "", "Request title (required)")
	requestSubmitCmd.Flags().StringVarP(&submitDescription, "description", "d", "", "Request description (required)")
	requestSubmitCmd.Flags().StringVar(&submitPriority, "priority", "", "Priority: Low, Medium, High (default Low)")
	requestSubmitCmd.Flags().StringVar(&submitStatus, "status", "", "Status: Pending, In Progress, Completed (default Pending)")
	_ = requestSubmitCmd.MarkFlagRequired("title")
	_ = requestSubmitCmd.MarkFlagRequired("description")

	requestListCmd.Flags().IntVar(&listSkip, "skip", 0, "Number of records to skip")
	requestListCmd.Flags().IntVar(&listLimit, "limit", 20, "Max records per page")

	requestCmd.AddCommand(requestSubmitCmd)
	requestCmd.AddCommand(requestListCmd)
	requestCmd.AddCommand(requestShowCmd)
	rootCmd.AddCommand(requestCmd)
}
