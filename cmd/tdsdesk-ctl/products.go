package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"tdsdesk/internal/adapters/catalog/xlsx"
	"tdsdesk/internal/modkit/module"
	adom "tdsdesk/internal/services/assistant/domain"
	productsmod "tdsdesk/internal/services/products/module"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var findLimit int

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Catalog maintenance",
}

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Upsert catalog rows from a spreadsheet export",
	Long: `Reads the first sheet of the workbook. The header row must name the code and
description columns; brand, balance, price and the other product fields are optional.
Rows are upserted on (branch_id, code) in one transaction.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		rows, err := xlsx.Read(f)
		if err != nil {
			return err
		}

		s, err := open(cmd.Context(), "ctl")
		if err != nil {
			return err
		}
		defer s.close()

		pp := module.MustPortsOf[productsmod.Ports](productsmod.New(s.deps))
		res, err := pp.Importer.Import(cmd.Context(), rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "upserted %d, skipped %d\n", res.Upserted, res.Skipped)
		return nil
	},
}

var findCmd = &cobra.Command{
	Use:   "find <identifier>",
	Short: "List catalog rows the matcher would consider for an identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := open(cmd.Context(), "ctl")
		if err != nil {
			return err
		}
		defer s.close()

		pp := module.MustPortsOf[productsmod.Ports](productsmod.New(s.deps))
		found, err := pp.Matcher.Find(cmd.Context(), args[0], findLimit)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no match")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCODE\tDESCRIPTION\tBRAND\tBALANCE\tPRICE")
		for _, p := range found {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Code, p.Description, p.Brand, p.Balance, price(p.Price))
		}
		return tw.Flush()
	},
}

func price(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return adom.BRL(d.Decimal)
}

func init() {
	findCmd.Flags().IntVar(&findLimit, "limit", 10, "maximum rows to list")
	productsCmd.AddCommand(importCmd, findCmd)
	rootCmd.AddCommand(productsCmd)
}
