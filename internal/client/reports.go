package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/internal/http"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// ReportsClient implements fastspring.ReportsClient.
type ReportsClient struct {
	httpClient   *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
}

// NewReportsClient creates a new reports client.
func NewReportsClient(httpClient *http.Client) *ReportsClient {
	return &ReportsClient{
		httpClient:   httpClient,
		pollInterval: constants.DefaultJobPollInterval,
		pollTimeout:  constants.DefaultJobPollTimeout,
	}
}

// NewReportsClientWithPolling creates a reports client with custom polling settings.
func NewReportsClientWithPolling(httpClient *http.Client, interval, timeout time.Duration) *ReportsClient {
	return &ReportsClient{
		httpClient:   httpClient,
		pollInterval: interval,
		pollTimeout:  timeout,
	}
}

// Revenue implements fastspring.ReportsClient.Revenue.
func (c *ReportsClient) Revenue(ctx context.Context, request *fastspring.ReportRequest) (*fastspring.ReportJob, error) {
	return c.generate(ctx, "/data/v1/revenue", request, "revenue")
}

// Subscription implements fastspring.ReportsClient.Subscription.
func (c *ReportsClient) Subscription(ctx context.Context, request *fastspring.ReportRequest) (*fastspring.ReportJob, error) {
	return c.generate(ctx, "/data/v1/subscription", request, "subscription")
}

func (c *ReportsClient) generate(ctx context.Context, template string, request *fastspring.ReportRequest, kind string) (*fastspring.ReportJob, error) {
	body, err := validated(request)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodPost,
		Template: template,
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("generating %s report: %w", kind, err)
	}

	return decode[fastspring.ReportJob](resp, "report job")
}

// ListJobs implements fastspring.ReportsClient.ListJobs.
func (c *ReportsClient) ListJobs(ctx context.Context) (*fastspring.ReportJobList, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/data/v1/jobs",
	})
	if err != nil {
		return nil, fmt.Errorf("listing report jobs: %w", err)
	}

	return decode[fastspring.ReportJobList](resp, "report jobs")
}

// GetJob implements fastspring.ReportsClient.GetJob.
func (c *ReportsClient) GetJob(ctx context.Context, jobID string) (*fastspring.ReportJob, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/data/v1/jobs/{job_id}",
		Params:   map[string]string{"job_id": jobID},
	})
	if err != nil {
		return nil, fmt.Errorf("getting report job: %w", err)
	}

	return decode[fastspring.ReportJob](resp, "report job")
}

// Download implements fastspring.ReportsClient.Download. The report is
// returned as raw CSV.
func (c *ReportsClient) Download(ctx context.Context, jobID string) ([]byte, error) {
	resp, err := c.httpClient.Fetch(ctx, &http.Call{
		Method:   http.MethodGet,
		Template: "/data/v1/downloads/{job_id}",
		Params:   map[string]string{"job_id": jobID},
		Headers:  map[string]string{"Accept": "text/csv"},
	})
	if err != nil {
		return nil, fmt.Errorf("downloading report: %w", err)
	}

	return resp.Body, nil
}

// PollUntilComplete implements fastspring.ReportsClient.PollUntilComplete.
// It polls the job until it reaches a terminal state.
func (c *ReportsClient) PollUntilComplete(ctx context.Context, jobID string) (*fastspring.ReportJob, error) {
	pollCtx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	job, err := c.GetJob(pollCtx, jobID)
	if err != nil {
		return nil, fmt.Errorf("getting job status: %w", err)
	}

	for !job.Done() {
		select {
		case <-pollCtx.Done():
			// Return the last known state on timeout
			return job, fmt.Errorf("%w %s: %w", constants.ErrJobPollTimeout, jobID, pollCtx.Err())
		case <-ticker.C:
			next, err := c.GetJob(pollCtx, jobID)
			if err != nil {
				if pollCtx.Err() != nil {
					return job, fmt.Errorf("%w %s: %w", constants.ErrJobPollTimeout, jobID, pollCtx.Err())
				}

				return nil, fmt.Errorf("getting job status: %w", err)
			}

			job = next
		}
	}

	if job.Status != constants.JobStateCompleted {
		return job, fmt.Errorf("%w: %s", constants.ErrJobFailed, jobFailure(job))
	}

	return job, nil
}

func jobFailure(job *fastspring.ReportJob) string {
	if job.Error != "" {
		return job.Error
	}

	return "job ended in state " + job.Status
}
