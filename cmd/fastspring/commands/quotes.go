package commands

import (
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewQuotesCommand creates the quotes command group
func NewQuotesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quotes",
		Aliases: []string{"quote"},
		Short:   "Manage sales quotes",
		Long:    "List, create, update and cancel sales quotes",
	}

	cmd.AddCommand(newQuotesListCommand())
	cmd.AddCommand(newQuotesGetCommand())
	cmd.AddCommand(newQuotesCreateCommand())
	cmd.AddCommand(newQuotesUpdateCommand())
	cmd.AddCommand(newQuotesCancelCommand())

	return cmd
}

func renderQuote(cmd *cobra.Command, quote *fastspring.Quote) error {
	return render(cmd, quote, func(table *tablewriter.Table) {
		table.Header("Property", "Value")
		_ = table.Append("ID", quote.ID)
		_ = table.Append("Name", orNA(quote.Name))
		_ = table.Append("Status", orNA(quote.Status))
		_ = table.Append("Currency", orNA(quote.Currency))
		_ = table.Append("Total", fmt.Sprintf("%g", quote.Total))
		_ = table.Append("Expires", orNA(quote.Expires))
		_ = table.Append("URL", orNA(quote.QuoteURL))

		for _, item := range quote.Items {
			_ = table.Append("Item", fmt.Sprintf("%s x%d", item.Product, item.Quantity))
		}
	})
}

func newQuotesListCommand() *cobra.Command {
	params := &fastspring.QuoteListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			quotes, err := client.Quotes().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list quotes: %w", err)
			}

			return render(cmd, quotes, func(table *tablewriter.Table) {
				table.Header("ID", "Name", "Status", "Total", "Expires")

				for _, quote := range quotes.Quotes {
					_ = table.Append(quote.ID, quote.Name, quote.Status, fmt.Sprintf("%g %s", quote.Total, quote.Currency), orNA(quote.Expires))
				}
			})
		},
	}

	cmd.Flags().StringSliceVar(&params.Statuses, "status", nil, "only quotes in these statuses (OPEN, CANCELED, COMPLETED, EXPIRED)")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	return cmd
}

func newQuotesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get QUOTE_ID",
		Short: "Get quote details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			quote, err := client.Quotes().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get quote: %w", err)
			}

			return renderQuote(cmd, quote)
		},
	}
}

func newQuotesCreateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a quote",
		Long:  "Create a quote from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.QuoteRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			quote, err := client.Quotes().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create quote: %w", err)
			}

			return renderQuote(cmd, quote)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newQuotesUpdateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "update QUOTE_ID",
		Short: "Update a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.QuoteRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			quote, err := client.Quotes().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update quote: %w", err)
			}

			return renderQuote(cmd, quote)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newQuotesCancelCommand() *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "cancel QUOTE_ID",
		Short: "Cancel a quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var request *fastspring.QuoteCancelRequest
			if note != "" {
				request = &fastspring.QuoteCancelRequest{Note: note}
			}

			quote, err := client.Quotes().Cancel(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to cancel quote: %w", err)
			}

			printResult(cmd, "Quote %s is %s", quote.ID, orNA(quote.Status))

			return nil
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "cancellation note")

	return cmd
}
