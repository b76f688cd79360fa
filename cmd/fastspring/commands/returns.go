package commands

import (
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewReturnsCommand creates the returns command group
func NewReturnsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "returns",
		Aliases: []string{"return"},
		Short:   "Create and read returns",
	}

	cmd.AddCommand(newReturnsGetCommand())
	cmd.AddCommand(newReturnsCreateCommand())

	return cmd
}

func renderReturns(cmd *cobra.Command, returns *fastspring.ReturnList) error {
	return render(cmd, returns, func(table *tablewriter.Table) {
		table.Header("Return", "Order", "Total", "Reason", "Result")

		for _, entry := range returns.Returns {
			_ = table.Append(entry.Return, entry.Order, orNA(entry.TotalDisplay), orNA(entry.Reason), orNA(entry.Result))
		}
	})
}

func newReturnsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get RETURN_ID",
		Short: "Get a return",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			returns, err := client.Returns().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get return: %w", err)
			}

			return renderReturns(cmd, returns)
		},
	}
}

func newReturnsCreateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create returns",
		Long:  "Create one or more returns from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.ReturnRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			returns, err := client.Returns().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create returns: %w", err)
			}

			return renderReturns(cmd, returns)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}
