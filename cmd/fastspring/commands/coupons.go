package commands

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewCouponsCommand creates the coupons command group
func NewCouponsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "coupons",
		Aliases: []string{"coupon"},
		Short:   "Manage coupons",
		Long:    "List, create, update and delete coupons and their codes",
	}

	cmd.AddCommand(newCouponsListCommand())
	cmd.AddCommand(newCouponsGetCommand())
	cmd.AddCommand(newCouponsUpsertCommand())
	cmd.AddCommand(newCouponsDeleteCommand())
	cmd.AddCommand(newCouponsCodesCommand())

	return cmd
}

func newCouponsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List coupon ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			coupons, err := client.Coupons().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list coupons: %w", err)
			}

			return render(cmd, coupons, func(table *tablewriter.Table) {
				table.Header("Coupon")

				for _, id := range coupons.Coupons {
					_ = table.Append(id)
				}
			})
		},
	}
}

func newCouponsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get COUPON_ID",
		Short: "Get coupon details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			coupon, err := client.Coupons().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get coupon: %w", err)
			}

			return render(cmd, coupon, func(table *tablewriter.Table) {
				table.Header("Property", "Value")
				_ = table.Append("ID", coupon.ID)
				_ = table.Append("Reason", orNA(coupon.Reason["en"]))
				_ = table.Append("Combine", fmt.Sprintf("%t", coupon.Combine))
				_ = table.Append("Limit", fmt.Sprintf("%d", coupon.Limit))

				for i, discount := range couponDiscounts(coupon) {
					_ = table.Append(fmt.Sprintf("Discount %d", i+1), describeDiscount(discount))
				}

				if coupon.Available != nil {
					_ = table.Append("Available", orNA(coupon.Available.Start)+" - "+orNA(coupon.Available.End))
				}
			})
		},
	}
}

func couponDiscounts(coupon *fastspring.Coupon) []fastspring.CouponDiscount {
	if coupon.Discount != nil {
		return append([]fastspring.CouponDiscount{*coupon.Discount}, coupon.Discounts...)
	}

	return coupon.Discounts
}

func describeDiscount(discount fastspring.CouponDiscount) string {
	var text string
	if discount.Type == "percent" {
		text = fmt.Sprintf("%g%%", discount.Percent)
	} else {
		amounts := make([]string, 0, len(discount.Amount))
		for currency, amount := range discount.Amount {
			amounts = append(amounts, fmt.Sprintf("%g %s", amount, currency))
		}

		text = strings.Join(amounts, ", ")
	}

	if len(discount.Products) > 0 {
		text += " on " + strings.Join(discount.Products, ", ")
	}

	return text
}

func newCouponsUpsertCommand() *cobra.Command {
	var fromFile string

	cmd := &cobra.Command{
		Use:   "upsert",
		Short: "Create or update a coupon",
		Long:  "Create or update a coupon from a JSON or YAML request file",
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := readRequestFile[fastspring.CouponRequest](cmd, fromFile)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			coupon, err := client.Coupons().Upsert(cmd.Context(), request)
			if err != nil {
				return fmt.Errorf("failed to save coupon: %w", err)
			}

			printResult(cmd, "Saved coupon %s", coupon.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "request file (- for stdin)")
	_ = cmd.MarkFlagRequired("from-file")

	return cmd
}

func newCouponsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete COUPON_ID",
		Short: "Delete a coupon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirm(cmd, force, fmt.Sprintf("Delete coupon %s?", args[0]))
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			_, err = client.Coupons().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete coupon: %w", err)
			}

			printResult(cmd, "Deleted coupon %s", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}

func newCouponsCodesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Manage coupon codes",
	}

	cmd.AddCommand(newCouponsCodesListCommand())
	cmd.AddCommand(newCouponsCodesAddCommand())
	cmd.AddCommand(newCouponsCodesDeleteCommand())

	return cmd
}

func renderCodes(cmd *cobra.Command, codes *fastspring.CouponCodes) error {
	return render(cmd, codes, func(table *tablewriter.Table) {
		table.Header("Code")

		for _, code := range codes.Codes {
			_ = table.Append(code)
		}
	})
}

func newCouponsCodesListCommand() *cobra.Command {
	var codes []string

	cmd := &cobra.Command{
		Use:   "list COUPON_ID",
		Short: "List the codes of a coupon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var lookup *fastspring.CouponCodesLookup
			if len(codes) > 0 {
				lookup = &fastspring.CouponCodesLookup{Codes: codes}
			}

			result, err := client.Coupons().LookupCodes(cmd.Context(), args[0], lookup)
			if err != nil {
				return fmt.Errorf("failed to list coupon codes: %w", err)
			}

			return renderCodes(cmd, result)
		},
	}

	cmd.Flags().StringSliceVar(&codes, "code", nil, "only return these codes")

	return cmd
}

func newCouponsCodesAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add COUPON_ID CODE...",
		Short: "Add codes to a coupon",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			result, err := client.Coupons().AddCodes(cmd.Context(), args[0], &fastspring.CouponCodesRequest{Codes: args[1:]})
			if err != nil {
				return fmt.Errorf("failed to add coupon codes: %w", err)
			}

			return renderCodes(cmd, result)
		},
	}
}

func newCouponsCodesDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete COUPON_ID",
		Short: "Delete every code of a coupon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := confirm(cmd, force, fmt.Sprintf("Delete all codes of coupon %s?", args[0]))
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			_, err = client.Coupons().DeleteCodes(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete coupon codes: %w", err)
			}

			printResult(cmd, "Deleted codes of coupon %s", args[0])

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation")

	return cmd
}
