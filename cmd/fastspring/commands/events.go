package commands

import (
	"fmt"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/internal/relay"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/nats-io/nats.go"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewEventsCommand creates the events command group
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "events",
		Aliases: []string{"event"},
		Short:   "Read and relay events",
		Long:    "List processed and unprocessed events, mark them processed, or relay them to NATS",
	}

	cmd.AddCommand(newEventsListCommand())
	cmd.AddCommand(newEventsMarkCommand())
	cmd.AddCommand(newEventsRelayCommand())

	return cmd
}

func newEventsListCommand() *cobra.Command {
	var processed bool

	params := &fastspring.EventListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events",
		Long:  "List unprocessed events, or processed events with --processed",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			list := client.Events().ListUnprocessed
			if processed {
				list = client.Events().ListProcessed
			}

			events, err := list(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list events: %w", err)
			}

			return render(cmd, events, func(table *tablewriter.Table) {
				table.Header("ID", "Type", "Live", "Processed", "Created")

				for _, event := range events.Events {
					_ = table.Append(
						event.ID,
						event.Type,
						fmt.Sprintf("%t", event.Live),
						fmt.Sprintf("%t", event.Processed),
						formatMillis(event.Created),
					)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&processed, "processed", false, "list processed events")
	cmd.Flags().IntVar(&params.Days, "days", 0, "only events from the last N days")
	cmd.Flags().Int64Var(&params.Begin, "begin", 0, "start time in epoch milliseconds")
	cmd.Flags().Int64Var(&params.End, "end", 0, "end time in epoch milliseconds")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	return cmd
}

func newEventsMarkCommand() *cobra.Command {
	var unprocessed bool

	cmd := &cobra.Command{
		Use:   "mark EVENT_ID",
		Short: "Mark an event processed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			_, err = client.Events().Update(cmd.Context(), args[0], &fastspring.EventUpdateRequest{Processed: !unprocessed})
			if err != nil {
				return fmt.Errorf("failed to update event: %w", err)
			}

			state := "processed"
			if unprocessed {
				state = "unprocessed"
			}

			printResult(cmd, "Marked event %s %s", args[0], state)

			return nil
		},
	}

	cmd.Flags().BoolVar(&unprocessed, "unprocessed", false, "mark the event unprocessed instead")

	return cmd
}

func newEventsRelayCommand() *cobra.Command {
	var (
		natsURL  string
		prefix   string
		interval time.Duration
		days     int
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Relay unprocessed events to NATS",
		Long: `Poll unprocessed events and publish each one to NATS as
<subject-prefix>.<event type>. An event is marked processed only after it was
published, so events that fail to publish are retried on the next poll.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
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

			poller := relay.NewPoller(client.Events(), publisher,
				relay.WithInterval(interval),
				relay.WithLookback(days),
				relay.WithLogger(logger),
			)

			if once {
				relayed, err := poller.Poll(cmd.Context())
				printResult(cmd, "Relayed %d events", relayed)

				return err
			}

			logger.Info("Relaying events", map[string]interface{}{
				"nats":     natsServer(natsURL),
				"interval": interval.String(),
			})

			return poller.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats-url", "", "NATS server URL (default from config nats_url, then "+nats.DefaultURL+")")
	cmd.Flags().StringVar(&prefix, "subject-prefix", constants.DefaultSubjectPrefix, "NATS subject prefix")
	cmd.Flags().DurationVar(&interval, "interval", constants.DefaultEventPollInterval, "delay between polls")
	cmd.Flags().IntVar(&days, "days", 0, "only relay events from the last N days")
	cmd.Flags().BoolVar(&once, "once", false, "poll once and exit")

	return cmd
}

func natsServer(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if configured := viper.GetString("nats_url"); configured != "" {
		return configured
	}

	return nats.DefaultURL
}
