package commands

import (
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewSessionsCommand creates the sessions command group
func NewSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Create checkout sessions",
	}

	cmd.AddCommand(newSessionsCreateCommand())

	return cmd
}

func newSessionsCreateCommand() *cobra.Command {
	var (
		account  string
		products []string
		coupon   string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a checkout session for an account",
		Long:  "Create a checkout session. Each --product adds one unit of that product",
		RunE: func(cmd *cobra.Command, args []string) error {
			request := &fastspring.SessionRequest{
				Account: account,
				Coupon:  coupon,
			}

			for _, product := range products {
				request.Items = append(request.Items, fastspring.SessionItem{Product: product, Quantity: 1})
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			session, err := client.Sessions().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}

			return render(cmd, session, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", session.ID)
				_ = table.Append("Account", session.Account)
				_ = table.Append("Currency", orNA(session.Currency))
				_ = table.Append("Subtotal", fmt.Sprintf("%g", session.Subtotal))
				_ = table.Append("Expires", formatMillis(session.Expires))
			})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringSliceVar(&products, "product", nil, "product path")
	cmd.Flags().StringVar(&coupon, "coupon", "", "coupon code")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}
