package commands

import (
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewSubscriptionsCommand creates the subscriptions command group
func NewSubscriptionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subscription", "subs"},
		Short:   "Manage subscriptions",
		Long:    "List, update, cancel, pause, resume and rebill subscriptions",
	}

	cmd.AddCommand(newSubscriptionsListCommand())
	cmd.AddCommand(newSubscriptionsGetCommand())
	cmd.AddCommand(newSubscriptionsUpdateCommand())
	cmd.AddCommand(newSubscriptionsCancelCommand())
	cmd.AddCommand(newSubscriptionsEntriesCommand())
	cmd.AddCommand(newSubscriptionsHistoryCommand())
	cmd.AddCommand(newSubscriptionsPauseCommand())
	cmd.AddCommand(newSubscriptionsResumeCommand())
	cmd.AddCommand(newSubscriptionsConvertTrialCommand())
	cmd.AddCommand(newSubscriptionsEstimateCommand())
	cmd.AddCommand(newSubscriptionsChargeCommand())

	return cmd
}

func renderSubscriptionStatuses(cmd *cobra.Command, result *fastspring.SubscriptionsResult) error {
	return render(cmd, result, func(table *tablewriter.Table) {
		table.Header("Subscription", "Action", "Result")

		for _, status := range result.Subscriptions {
			_ = table.Append(status.Subscription, status.Action, status.Result)
		}
	})
}

func renderSubscriptionStatus(cmd *cobra.Command, status *fastspring.SubscriptionStatus) error {
	return render(cmd, status, func(table *tablewriter.Table) {
		table.Header("Subscription", "Action", "Result", "Resume Date")
		_ = table.Append(status.Subscription, status.Action, status.Result, orNA(status.ResumeDate))
	})
}

func newSubscriptionsListCommand() *cobra.Command {
	params := &fastspring.SubscriptionListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		RunE: func(cmd *cobra.Command, args []string) error {
			for name, value := range map[string]string{"begin": params.Begin, "end": params.End} {
				err := requireDate(name, value)
				if err != nil {
					return err
				}
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			subscriptions, err := client.Subscriptions().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list subscriptions: %w", err)
			}

			return render(cmd, subscriptions, func(table *tablewriter.Table) {
				table.Header("ID", "Product", "State", "Price", "Next Charge")

				for _, ref := range subscriptions.Subscriptions {
					if ref.Object == nil {
						_ = table.Append(ref.ID, "", "", "", "")

						continue
					}

					subscription := ref.Object
					_ = table.Append(
						ref.ID,
						subscription.Product,
						subscription.State,
						orNA(subscription.PriceDisplay),
						formatMillis(subscription.Next),
					)
				}
			})
		},
	}

	cmd.Flags().StringVar(&params.Accounts, "accounts", "", "comma separated account ids")
	cmd.Flags().StringVar(&params.Products, "products", "", "comma separated product paths")
	cmd.Flags().StringVar(&params.Status, "status", "", "active, canceled, deactivated, overdue or trial")
	cmd.Flags().StringVar(&params.Event, "event", "", "date filter event (activated, canceled, deactivated, next_charge)")
	cmd.Flags().StringVar(&params.Begin, "begin", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.End, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.Scope, "scope", "", "live, test or all")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	return cmd
}

func newSubscriptionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SUBSCRIPTION_ID",
		Short: "Get subscription details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			subscription, err := client.Subscriptions().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get subscription: %w", err)
			}

			return render(cmd, subscription, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", subscription.Identifier())
				_ = table.Append("Account", orNA(subscription.Account))
				_ = table.Append("Product", orNA(subscription.Product))
				_ = table.Append("State", orNA(subscription.State))
				_ = table.Append("Quantity", fmt.Sprintf("%d", subscription.Quantity))
				_ = table.Append("Price", orNA(subscription.PriceDisplay))
				_ = table.Append("Interval", fmt.Sprintf("%d %s", subscription.IntervalLength, subscription.IntervalUnit))
				_ = table.Append("Auto Renew", fmt.Sprintf("%t", subscription.AutoRenew))
				_ = table.Append("Paused", fmt.Sprintf("%t", subscription.Paused))
				_ = table.Append("Next Charge", formatMillis(subscription.Next))
				_ = table.Append("Ends", formatMillis(subscription.End))
			})
		},
	}
}

func newSubscriptionsUpdateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update subscriptions",
		Long:  "Update one or more subscriptions from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.SubscriptionsUpdateRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Subscriptions().Update(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to update subscriptions: %w", err)
			}

			return renderSubscriptionStatuses(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newSubscriptionsCancelCommand() *cobra.Command {
	var (
		immediately bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "cancel SUBSCRIPTION_ID",
		Short: "Cancel a subscription",
		Long:  "Cancel a subscription at the end of the current period, or right away with --immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirm(cmd, force, fmt.Sprintf("Cancel subscription %s?", args[0]))
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var params *fastspring.SubscriptionCancelParams
			if immediately {
				params = fastspring.CancelImmediately()
			}

			result, err := client.Subscriptions().Cancel(cmd.Context(), args[0], params)
			if err != nil {
				return fmt.Errorf("failed to cancel subscription: %w", err)
			}

			return renderSubscriptionStatuses(cmd, result)
		},
	}

	cmd.Flags().BoolVar(&immediately, "immediately", false, "cancel now instead of at the end of the period")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func newSubscriptionsEntriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "entries SUBSCRIPTION_ID",
		Short: "List billing periods and their orders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			entries, err := client.Subscriptions().Entries(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get subscription entries: %w", err)
			}

			return render(cmd, entries, func(table *tablewriter.Table) {
				table.Header("Begin", "End", "Order", "Total")

				for _, entry := range entries {
					_ = table.Append(entry.BeginPeriodDate, entry.EndPeriodDate, entry.Order.Identifier(), orNA(entry.Order.TotalDisplay))
				}
			})
		},
	}
}

func newSubscriptionsHistoryCommand() *cobra.Command {
	params := &fastspring.SubscriptionHistoryParams{}

	cmd := &cobra.Command{
		Use:   "history SUBSCRIPTION_ID",
		Short: "Show plan change history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			history, err := client.Subscriptions().History(cmd.Context(), args[0], params)
			if err != nil {
				return fmt.Errorf("failed to get subscription history: %w", err)
			}

			return render(cmd, history, func(table *tablewriter.Table) {
				table.Header("When", "Type", "Product", "Quantity", "Price")

				for _, change := range history.History {
					_ = table.Append(
						formatMillis(change.Timestamp),
						change.Type,
						change.Product,
						fmt.Sprintf("%d", change.Quantity),
						fmt.Sprintf("%g", change.Price),
					)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&params.IncludeAdditionalInfo, "details", false, "include additional information")
	cmd.Flags().StringVar(&params.Scope, "scope", "", "live, test or all")

	return cmd
}

func newSubscriptionsPauseCommand() *cobra.Command {
	var periods int

	cmd := &cobra.Command{
		Use:   "pause SUBSCRIPTION_ID",
		Short: "Pause a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := client.Subscriptions().Pause(cmd.Context(), args[0], &fastspring.SubscriptionPauseRequest{PausePeriodCount: periods})
			if err != nil {
				return fmt.Errorf("failed to pause subscription: %w", err)
			}

			return renderSubscriptionStatus(cmd, status)
		},
	}

	cmd.Flags().IntVar(&periods, "periods", 1, "number of billing periods to pause for")

	return cmd
}

func newSubscriptionsResumeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resume SUBSCRIPTION_ID",
		Short: "Resume a paused subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := client.Subscriptions().Resume(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to resume subscription: %w", err)
			}

			return renderSubscriptionStatus(cmd, status)
		},
	}
}

func newSubscriptionsConvertTrialCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert-trial SUBSCRIPTION_ID",
		Short: "Convert a trial into a paid subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := client.Subscriptions().ConvertTrial(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to convert trial: %w", err)
			}

			return renderSubscriptionStatus(cmd, status)
		},
	}
}

func newSubscriptionsEstimateCommand() *cobra.Command {
	var (
		product  string
		quantity int
		coupons  []string
	)

	cmd := &cobra.Command{
		Use:   "estimate SUBSCRIPTION_ID",
		Short: "Estimate the proration of a plan change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			estimate, err := client.Subscriptions().EstimateProration(cmd.Context(), &fastspring.ProrationEstimateRequest{
				Subscription: args[0],
				Product:      product,
				Quantity:     quantity,
				Coupons:      coupons,
			})
			if err != nil {
				return fmt.Errorf("failed to estimate proration: %w", err)
			}

			return render(cmd, estimate, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("Current Plan", fmt.Sprintf("%s x%d", estimate.CurrentPlan.Product, estimate.CurrentPlan.Quantity))
				_ = table.Append("Proposed Plan", fmt.Sprintf("%s x%d", estimate.ProposedPlan.Product, estimate.ProposedPlan.Quantity))
				_ = table.Append("Charge", fmt.Sprintf("%g %s", estimate.ProratedCharge, estimate.Currency))
				_ = table.Append("Credit", fmt.Sprintf("%g %s", estimate.ProratedCredit, estimate.Currency))
				_ = table.Append("Total", orNA(estimate.ProratedTotalText))
			})
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "new product path")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "new quantity")
	cmd.Flags().StringSliceVar(&coupons, "coupon", nil, "coupon codes to apply")

	return cmd
}

func newSubscriptionsChargeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "charge SUBSCRIPTION_ID...",
		Short: "Rebill managed subscriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			request := &fastspring.SubscriptionChargeRequest{}
			for _, id := range args {
				request.Subscriptions = append(request.Subscriptions, fastspring.SubscriptionCharge{Subscription: id})
			}

			result, err := client.Subscriptions().Charge(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to charge subscriptions: %w", err)
			}

			return renderSubscriptionStatuses(cmd, result)
		},
	}
}
