package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewReportsCommand creates the reports command group
func NewReportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reports",
		Aliases: []string{"report"},
		Short:   "Generate and download data API reports",
		Long:    "Start revenue and subscription report jobs, wait for them and download the results",
	}

	cmd.AddCommand(newReportsGenerateCommand("revenue", "Start a revenue report job"))
	cmd.AddCommand(newReportsGenerateCommand("subscription", "Start a subscription report job"))
	cmd.AddCommand(newReportsJobsCommand())
	cmd.AddCommand(newReportsJobCommand())
	cmd.AddCommand(newReportsWaitCommand())
	cmd.AddCommand(newReportsDownloadCommand())

	return cmd
}

func renderJob(cmd *cobra.Command, job *fastspring.ReportJob) error {
	return render(cmd, job, func(table *tablewriter.Table) {
		table.Header("Property", "Value")
		_ = table.Append("ID", job.ID)
		_ = table.Append("Name", orNA(job.Name))
		_ = table.Append("Status", job.Status)
		_ = table.Append("Progress", fmt.Sprintf("%d%%", job.Progress))
		_ = table.Append("Created", orNA(job.Created))
		_ = table.Append("Updated", orNA(job.Updated))

		if job.Error != "" {
			_ = table.Append("Error", job.Error)
		}
	})
}

func newReportsGenerateCommand(kind, short string) *cobra.Command {
	var (
		request fastspring.ReportRequest
		wait    bool
		maxWait time.Duration
	)

	cmd := &cobra.Command{
		Use:   kind,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			for name, value := range map[string]string{"start": request.Filter.StartDate, "end": request.Filter.EndDate} {
				err := requireDate(name, value)
				if err != nil {
					return err
				}
			}

			request.Async = true

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			generate := client.Reports().Revenue
			if kind == "subscription" {
				generate = client.Reports().Subscription
			}

			job, err := generate(cmd.Context(), &request)
			if err != nil {
				return fmt.Errorf("failed to start %s report: %w", kind, err)
			}

			if wait {
				job, err = waitForJob(cmd.Context(), client.Reports(), job.ID, maxWait)
				if err != nil {
					return err
				}
			}

			return renderJob(cmd, job)
		},
	}

	cmd.Flags().StringVar(&request.Filter.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&request.Filter.EndDate, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&request.Filter.Countries, "country", nil, "only these countries")
	cmd.Flags().StringSliceVar(&request.Filter.ProductPaths, "product", nil, "only these product paths")
	cmd.Flags().StringSliceVar(&request.ReportColumns, "columns", nil, "report columns")
	cmd.Flags().StringSliceVar(&request.GroupBy, "group-by", nil, "group rows by these columns")
	cmd.Flags().StringSliceVar(&request.NotificationEmails, "notify", nil, "email addresses to notify when done")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for the job to finish")
	cmd.Flags().DurationVar(&maxWait, "max-wait", constants.DefaultJobPollTimeout, "how long --wait waits")

	return cmd
}

func newReportsJobsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List report jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			jobs, err := client.Reports().ListJobs(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list report jobs: %w", err)
			}

			return render(cmd, jobs, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Status", "Progress", "Created")

				for _, job := range jobs.Jobs {
					_ = table.Append(job.ID, job.Name, job.Status, fmt.Sprintf("%d%%", job.Progress), orNA(job.Created))
				}
			})
		},
	}
}

func newReportsJobCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "job JOB_ID",
		Short: "Get a report job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			job, err := client.Reports().GetJob(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get report job: %w", err)
			}

			return renderJob(cmd, job)
		},
	}
}

func newReportsWaitCommand() *cobra.Command {
	var maxWait time.Duration

	cmd := &cobra.Command{
		Use:   "wait JOB_ID",
		Short: "Wait for a report job to finish",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			job, err := waitForJob(cmd.Context(), client.Reports(), args[0], maxWait)
			if err != nil {
				return err
			}

			return renderJob(cmd, job)
		},
	}

	cmd.Flags().DurationVar(&maxWait, "max-wait", constants.DefaultJobPollTimeout, "how long to wait")

	return cmd
}

func waitForJob(ctx context.Context, reports fastspring.ReportsClient, jobID string, maxWait time.Duration) (*fastspring.ReportJob, error) {
	ctx, cancel := context.WithTimeout(ctx, pollTimeout(maxWait))
	defer cancel()

	job, err := reports.PollUntilComplete(ctx, jobID)
	if err != nil {
		return job, fmt.Errorf("waiting for report job: %w", err)
	}

	return job, nil
}

func newReportsDownloadCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "download JOB_ID",
		Short: "Download the CSV of a finished report job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			data, err := client.Reports().Download(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to download report: %w", err)
			}

			if file == "" || file == "-" {
				_, err = cmd.OutOrStdout().Write(data)

				return err
			}

			err = os.WriteFile(file, data, constants.ConfigFilePerm)
			if err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}

			printResult(cmd, "Saved report to %s (%d bytes)", file, len(data))

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "write the CSV to this file instead of stdout")

	return cmd
}
