package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	domain "github.com/aq2208/gorder-storefront/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newMenuCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "List menu items and their per-kg prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			cat, err := catalogFrom(cfg)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE/KG")
			for _, it := range cat.Items() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", it.ID, it.Name, it.PricePerKg.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func newRatesCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "List courier rate tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			rates, err := cfg.RateTable()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "STATE\tCHARGES/KG")
			for _, tier := range rates.Tiers() {
				fmt.Fprintf(w, "%s\t%s\n", tier.Region, tier.RatePerKg.StringFixed(2))
			}
			return w.Flush()
		},
	}
}

func newQuoteCmd(f *rootFlags) *cobra.Command {
	var (
		state string
		lines []string
	)
	cmd := &cobra.Command{
		Use:     "quote",
		Short:   "Price a cart for a destination state",
		Example: "  storefrontctl quote --state telangana --line chicken=2 --line mutton=0.5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			cat, err := catalogFrom(cfg)
			if err != nil {
				return err
			}
			rates, err := cfg.RateTable()
			if err != nil {
				return err
			}

			cart := domain.NewCart("storefrontctl")
			for _, raw := range lines {
				id, qty, err := parseLine(raw)
				if err != nil {
					return err
				}
				if err := cart.AddItem(cat, id, qty); err != nil {
					return err
				}
			}

			q := domain.Price(cart, state, rates)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "state\t%s\n", q.Region)
			fmt.Fprintf(w, "weight_kg\t%s\n", q.TotalWeight.String())
			fmt.Fprintf(w, "subtotal\t%s\n", q.Subtotal.StringFixed(2))
			fmt.Fprintf(w, "courier\t%s\n", q.CourierCharges.StringFixed(2))
			fmt.Fprintf(w, "total\t%s\n", q.GrandTotal.StringFixed(2))
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "destination state")
	cmd.Flags().StringArrayVar(&lines, "line", nil, "cart line as <menu_item_id>=<kg>; repeatable")
	_ = cmd.MarkFlagRequired("state")
	return cmd
}

// parseLine reads "<id>=<kg>"; a bare id means one kilogram.
func parseLine(raw string) (string, decimal.Decimal, error) {
	id, qty, found := strings.Cut(raw, "=")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", decimal.Zero, fmt.Errorf("line %q: missing menu item id", raw)
	}
	if !found {
		return id, decimal.NewFromInt(1), nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(qty))
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("line %q: %w", raw, err)
	}
	return id, d, nil
}
