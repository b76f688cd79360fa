package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewProductsCommand creates the products command group
func NewProductsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Manage the product catalog",
		Long:    "List, create, update and delete products, their offers and their prices",
	}

	cmd.AddCommand(newProductsListCommand())
	cmd.AddCommand(newProductsGetCommand())
	cmd.AddCommand(newProductsUpsertCommand())
	cmd.AddCommand(newProductsDeleteCommand())
	cmd.AddCommand(newProductsOffersCommand())
	cmd.AddCommand(newProductsPricesCommand())
	cmd.AddCommand(newProductsLocalesCommand())

	return cmd
}

func newProductsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List product paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			products, err := client.Products().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			return render(cmd, products, func(table *tablewriter.Table) {
				table.Header("Product")

				for _, path := range products.Products {
					_ = table.Append(path)
				}
			})
		},
	}
}

func newProductsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get PRODUCT_PATH...",
		Short: "Get product definitions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			products, err := client.Products().Get(cmd.Context(), strings.Join(args, ","))
			if err != nil {
				return fmt.Errorf("failed to get products: %w", err)
			}

			return render(cmd, products, func(table *tablewriter.Table) {
				table.Header("Product", "Display", "Format", "Price", "Description")

				for _, product := range products.Products {
					price := constants.NotAvailable
					if product.Pricing != nil {
						price = describePrice(product.Pricing.Price)
					}

					summary := ""
					if description, ok := product.Description["summary"]; ok {
						summary = truncate(description["en"], constants.DescriptionDisplayLength)
					}

					_ = table.Append(product.Product, product.Display["en"], orNA(product.Format), price, summary)
				}
			})
		},
	}
}

func describePrice(price fastspring.Price) string {
	if len(price) == 0 {
		return constants.NotAvailable
	}

	currencies := make([]string, 0, len(price))
	for currency := range price {
		currencies = append(currencies, currency)
	}

	sort.Strings(currencies)

	parts := make([]string, 0, len(currencies))
	for _, currency := range currencies {
		parts = append(parts, fmt.Sprintf("%g %s", price[currency], currency))
	}

	return strings.Join(parts, ", ")
}

func renderProductStatuses(cmd *cobra.Command, result *fastspring.ProductsResult) error {
	return render(cmd, result, func(table *tablewriter.Table) {
		table.Header("Product", "Action", "Result")

		for _, status := range result.Products {
			_ = table.Append(status.Product, status.Action, status.Result)
		}
	})
}

func newProductsUpsertCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update products",
		Long:  "Create or update products from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.ProductsRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Products().Upsert(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to save products: %w", err)
			}

			return renderProductStatuses(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newProductsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete PRODUCT_PATH...",
		Short: "Delete products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := strings.Join(args, ",")

			err := confirm(cmd, force, fmt.Sprintf("Delete %s?", paths))
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Products().Delete(cmd.Context(), paths)
			if err != nil {
				return fmt.Errorf("failed to delete products: %w", err)
			}

			return renderProductStatuses(cmd, result)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func newProductsOffersCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "offers PRODUCT_PATH",
		Short: "Show or replace the offers of a product",
		Long:  "Show the offers of a product, or replace the offers of one type with --from-file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var offers *fastspring.ProductOffers

			if fromFile != "" {
				request, err := readRequestFile[fastspring.ProductOffersRequest](cmd, fromFile)
				if err != nil {
					return err
				}

				offers, err = client.Products().UpdateOffers(cmd.Context(), args[0], request)
				if err != nil {
					return fmt.Errorf("failed to update offers: %w", err)
				}
			} else {
				offers, err = client.Products().Offers(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to get offers: %w", err)
				}
			}

			return render(cmd, offers, func(table *tablewriter.Table) {
				table.Header("Type", "Display", "Items")

				for _, offer := range offers.Offers {
					_ = table.Append(offer.Type, offer.Display["en"], strings.Join(offer.Items, ", "))
				}
			})
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "offer request file (- for stdin)")

	return cmd
}

func newProductsPricesCommand() *cobra.Command {
	params := &fastspring.PriceParams{}

	cmd := &cobra.Command{
		Use:   "prices [PRODUCT_PATH]",
		Short: "Show localized prices",
		Long:  "Show localized prices of every product, or of one product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var prices *fastspring.ProductPriceList
			if len(args) == 1 {
				prices, err = client.Products().Price(cmd.Context(), args[0], params)
			} else {
				prices, err = client.Products().Prices(cmd.Context(), params)
			}

			if err != nil {
				return fmt.Errorf("failed to get prices: %w", err)
			}

			return render(cmd, prices, func(table *tablewriter.Table) {
				table.Header("Product", "Country", "Currency", "Price")

				for _, product := range prices.Products {
					countries := make([]string, 0, len(product.Pricing))
					for country := range product.Pricing {
						countries = append(countries, country)
					}

					sort.Strings(countries)

					for _, country := range countries {
						point := product.Pricing[country]
						_ = table.Append(product.Product, country, point.Currency, point.Display)
					}
				}
			})
		},
	}

	cmd.Flags().StringVar(&params.Country, "country", "", "two letter country code")
	cmd.Flags().StringVar(&params.Currency, "currency", "", "three letter currency code")
	cmd.Flags().IntVar(&params.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	return cmd
}

func newProductsLocalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locales PRODUCT_PATH",
		Short: "List the languages a product is localized in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			locales, err := client.Products().Locales(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get locales: %w", err)
			}

			return render(cmd, locales, func(table *tablewriter.Table) {
				table.Header("Product", "Languages")

				for _, product := range locales.Products {
					_ = table.Append(product.Product, strings.Join(product.Languages, ", "))
				}
			})
		},
	}
}
