package commands

import (
	"fmt"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewAccountsCommand creates the accounts command group
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acct"},
		Short:   "Manage customer accounts",
		Long:    "List, look up, create and update FastSpring customer accounts",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsGetCommand())
	cmd.AddCommand(newAccountsCreateCommand())
	cmd.AddCommand(newAccountsUpdateCommand())
	cmd.AddCommand(newAccountsManagementURLCommand())

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	params := &fastspring.AccountListParams{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List or look up accounts",
		Long:  "List account ids, or look up accounts by email, external id, order or subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			accounts, err := client.Accounts().List(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			return render(cmd, accounts, func(table *tablewriter.Table) {
				table.Header("ID", "Email", "Name", "Country")

				for _, ref := range accounts.Accounts {
					if ref.Object == nil {
						_ = table.Append(ref.ID, "", "", "")

						continue
					}

					account := ref.Object
					_ = table.Append(
						ref.ID,
						account.Contact.Email,
						account.Contact.First+" "+account.Contact.Last,
						account.Country,
					)
				}
			})
		},
	}

	cmd.Flags().StringVar(&params.Email, "email", "", "look up by email address")
	cmd.Flags().StringVar(&params.Global, "global", "", "look up by global key")
	cmd.Flags().StringVar(&params.Custom, "custom", "", "look up by custom key")
	cmd.Flags().StringVar(&params.OrderID, "order-id", "", "look up by order id")
	cmd.Flags().StringVar(&params.OrderReference, "order-reference", "", "look up by order reference")
	cmd.Flags().StringVar(&params.SubscriptionID, "subscription-id", "", "look up by subscription id")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	return cmd
}

func newAccountsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ACCOUNT_ID",
		Short: "Get account details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			account, err := client.Accounts().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			return render(cmd, account, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", account.Identifier())
				_ = table.Append("Name", account.Contact.First+" "+account.Contact.Last)
				_ = table.Append("Email", orNA(account.Contact.Email))
				_ = table.Append("Company", orNA(account.Contact.Company))
				_ = table.Append("Country", orNA(account.Country))
				_ = table.Append("Language", orNA(account.Language))
				_ = table.Append("Custom Key", orNA(account.Lookup.Custom))
				_ = table.Append("Orders", fmt.Sprintf("%d", len(account.Orders)))
				_ = table.Append("Subscriptions", fmt.Sprintf("%d", len(account.Subscriptions)))
			})
		},
	}
}

func newAccountsCreateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long:  "Create an account from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.AccountCreateRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Accounts().Create(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			printResult(cmd, "Created account %s", orNA(result.ID))

			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newAccountsUpdateCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "update ACCOUNT_ID",
		Short: "Update an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.AccountUpdateRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			_, err = client.Accounts().Update(cmd.Context(), args[0], request)
			if err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			printResult(cmd, "Updated account %s", args[0])

			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newAccountsManagementURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "management-url ACCOUNT_ID",
		Short: "Get a one-time account management link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			links, err := client.Accounts().ManagementURL(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get management URL: %w", err)
			}

			return render(cmd, links, func(table *tablewriter.Table) {
				table.Header("Account", "URL")

				for _, link := range links.Accounts {
					_ = table.Append(link.Account, link.URL)
				}
			})
		},
	}
}
