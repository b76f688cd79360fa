package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewOrdersCommand creates the orders command group
func NewOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "Read and tag orders",
		Long:    "List, inspect and update FastSpring orders",
	}

	cmd.AddCommand(newOrdersListCommand())
	cmd.AddCommand(newOrdersGetCommand())
	cmd.AddCommand(newOrdersUpdateCommand())

	return cmd
}

func renderOrders(cmd *cobra.Command, orders *fastspring.OrderList) error {
	return render(cmd, orders, func(table *tablewriter.Table) {
		table.Header("ID", "Reference", "Total", "Completed", "Changed")

		for _, ref := range orders.Orders {
			if ref.Object == nil {
				_ = table.Append(ref.ID, "", "", "", "")

				continue
			}

			order := ref.Object
			_ = table.Append(
				ref.ID,
				order.Reference,
				orNA(order.TotalDisplay),
				fmt.Sprintf("%t", order.Completed),
				formatMillis(order.Changed),
			)
		}
	})
}

func newOrdersListCommand() *cobra.Command {
	var products []string

	params := &fastspring.OrderListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		Long:  "List orders by date range, or the orders containing given products with --product",
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

			var orders *fastspring.OrderList
			if len(products) > 0 {
				orders, err = client.Orders().ListByProduct(cmd.Context(), strings.Join(products, ","))
			} else {
				orders, err = client.Orders().List(cmd.Context(), params)
			}

			if err != nil {
				return fmt.Errorf("failed to list orders: %w", err)
			}

			return renderOrders(cmd, orders)
		},
	}

	cmd.Flags().StringSliceVar(&products, "product", nil, "only orders containing these product paths")
	cmd.Flags().StringVar(&params.Begin, "begin", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&params.End, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&params.Days, "days", 0, "only orders from the last N days")
	cmd.Flags().BoolVar(&params.ReturnsOnly, "returns", false, "only orders with returns")
	cmd.Flags().StringVar(&params.Scope, "scope", "", "live, test or all")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	return cmd
}

func newOrdersGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ORDER_ID",
		Short: "Get order details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			order, err := client.Orders().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get order: %w", err)
			}

			return render(cmd, order, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", order.Identifier())
				_ = table.Append("Reference", orNA(order.Reference))
				_ = table.Append("Account", orNA(order.Account))
				_ = table.Append("Total", orNA(order.TotalDisplay))
				_ = table.Append("Currency", orNA(order.Currency))
				_ = table.Append("Live", fmt.Sprintf("%t", order.Live))
				_ = table.Append("Completed", fmt.Sprintf("%t", order.Completed))
				_ = table.Append("Changed", formatMillis(order.Changed))

				for _, item := range order.Items {
					_ = table.Append("Item", fmt.Sprintf("%s x%d %s", item.Product, item.Quantity, item.SubtotalDisplay))
				}
			})
		},
	}
}

func newOrdersUpdateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update order tags and attributes",
		Long:  "Update the tags and attributes of one or more orders from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.OrderUpdateRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Orders().Update(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to update orders: %w", err)
			}

			return render(cmd, result, func(table *tablewriter.Table) {
				table.Header("Order", "Result")

				for _, status := range result.Orders {
					_ = table.Append(status.Order, status.Result)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}
