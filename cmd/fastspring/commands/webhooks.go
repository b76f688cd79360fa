package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/internal/relay"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewWebhooksCommand creates the webhooks command group
func NewWebhooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook", "hooks"},
		Short:   "Manage webhooks",
		Long:    "List, create, update and delete webhook endpoints, or receive webhook deliveries",
	}

	cmd.AddCommand(newWebhooksListCommand())
	cmd.AddCommand(newWebhooksGetCommand())
	cmd.AddCommand(newWebhooksUpsertCommand())
	cmd.AddCommand(newWebhooksDeleteCommand())
	cmd.AddCommand(newWebhooksServeCommand())

	return cmd
}

func renderWebhooks(cmd *cobra.Command, webhooks []fastspring.Webhook, value interface{}) error {
	return render(cmd, value, func(table *tablewriter.Table) {
		table.Header("ID", "URL", "Enabled", "Live", "Events")

		for _, webhook := range webhooks {
			events := "all"
			if len(webhook.Events) > 0 {
				events = strings.Join(webhook.Events, ", ")
			}

			_ = table.Append(webhook.ID, webhook.URL, fmt.Sprintf("%t", webhook.Enabled), fmt.Sprintf("%t", webhook.Live), events)
		}
	})
}

func newWebhooksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			webhooks, err := client.Webhooks().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list webhooks: %w", err)
			}

			return renderWebhooks(cmd, webhooks.Webhooks, webhooks)
		},
	}
}

func newWebhooksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get WEBHOOK_ID",
		Short: "Get a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get webhook: %w", err)
			}

			return renderWebhooks(cmd, []fastspring.Webhook{*webhook}, webhook)
		},
	}
}

func newWebhooksUpsertCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update webhooks",
		Long:  "Create or update webhooks from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.WebhookRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			webhooks, err := client.Webhooks().Upsert(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to save webhooks: %w", err)
			}

			return renderWebhooks(cmd, webhooks.Webhooks, webhooks)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newWebhooksDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete WEBHOOK_ID",
		Short: "Delete a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirm(cmd, force, fmt.Sprintf("Delete webhook %s?", args[0]))
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			_, err = client.Webhooks().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete webhook: %w", err)
			}

			printResult(cmd, "Deleted webhook %s", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func newWebhooksServeCommand() *cobra.Command {
	var (
		listen  string
		path    string
		secret  string
		natsURL string
		prefix  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Receive webhook deliveries and relay them to NATS",
		Long: `Run an HTTP receiver for FastSpring webhook deliveries. Each delivery is
checked against the webhook's HMAC secret and every event in it is published
to NATS. Prometheus metrics are served on /metrics, including
fastspring_webhook_deliveries_total by result and fastspring_webhook_events_total
by publish outcome.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = viper.GetString("webhook_secret")
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}

			publisher, err := relay.NewNATSPublisher(natsServer(natsURL), prefix)
			if err != nil {
				return err
			}
			defer func() { _ = publisher.Close() }()

			handler, err := relay.NewWebhookHandler(secret, publisher, logger)
			if err != nil {
				return err
			}

			handler.WithMetrics(relay.NewWebhookMetrics(prometheus.DefaultRegisterer, "fastspring"))

			router := handler.Routes(path)
			router.Handle("/metrics", promhttp.Handler())

			server := &http.Server{
				Addr:              listen,
				Handler:           traced(router, "webhook"),
				ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
			}

			logger.Info("Receiving webhooks", map[string]interface{}{
				"listen": listen,
				"path":   orDefault(path, constants.DefaultWebhookPath),
			})

			return serveUntilDone(cmd.Context(), server)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", ":8080", "listen address")
	cmd.Flags().StringVar(&path, "path", constants.DefaultWebhookPath, "delivery path")
	cmd.Flags().StringVar(&secret, "secret", "", "webhook HMAC secret (default from config webhook_secret)")
	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL")
	cmd.Flags().StringVar(&prefix, "subject-prefix", constants.DefaultSubjectPrefix, "NATS subject prefix")

	return cmd
}

// serveUntilDone runs server until ctx is done, then shuts it down.
func serveUntilDone(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("webhook receiver: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
	defer cancel()

	err := server.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutting down webhook receiver: %w", err)
	}

	return nil
}
