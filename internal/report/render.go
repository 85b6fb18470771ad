package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/invoice-ledger/internal/reconcile"
)

// DefaultCurrency is used when no currency code is given.
const DefaultCurrency = money.CAD

// formatAmount displays d in currency, e.g. "$1,234.50". Amounts are scaled
// to the currency's minor unit, so JPY shows no decimals and BHD shows three.
func formatAmount(d decimal.Decimal, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		currency = DefaultCurrency
		c = money.GetCurrency(currency)
	}
	minor := d.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, currency).Display()
}

// WriteText renders a result as the console report: the item table, the
// additional charges and the summary by GL description.
func WriteText(w io.Writer, res reconcile.Result, currency string) error {
	var b strings.Builder
	rule := strings.Repeat("=", 100)

	if n := res.Singleton.InvoiceNumber; n != "" {
		fmt.Fprintf(&b, "Invoice Number: %s\n", n)
	}

	fmt.Fprintf(&b, "%s\n", rule)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM CODE\tQTY\tUNIT PRICE\tLINE TOTAL\tGL CODE\tGL DESCRIPTION")
	for _, item := range res.Items {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			item.ItemCode,
			item.Quantity,
			formatAmount(item.UnitPrice, currency),
			formatAmount(item.LineTotal, currency),
			item.CategoryCode,
			item.CategoryDescription,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(&b, "%s\n", rule)

	s := res.Singleton
	b.WriteString("\nAdditional Charges:\n")
	fmt.Fprintf(&b, "Tariff Amount: %s\n", formatAmount(s.TariffAmount, currency))
	fmt.Fprintf(&b, "Fuel Surcharge: %s\n", formatAmount(s.FuelSurcharge, currency))
	fmt.Fprintf(&b, "GST/HST/VAT: %s\n", formatAmount(s.TaxAmount, currency))

	short := strings.Repeat("=", 50)
	fmt.Fprintf(&b, "\nSummary by GL Description:\n%s\n", short)
	for _, c := range res.CategoryTotals {
		fmt.Fprintf(&b, "%s: %s\n", c.Description, formatAmount(c.Total, currency))
	}
	fmt.Fprintf(&b, "%s\n", short)
	fmt.Fprintf(&b, "Total Amount: %s\n", formatAmount(res.GrandTotal, currency))
	fmt.Fprintf(&b, "Additional Charges: %s\n", formatAmount(s.Charges(), currency))
	fmt.Fprintf(&b, "Grand Total: %s\n", formatAmount(res.TotalWithCharges, currency))

	_, err := io.WriteString(w, b.String())
	return err
}

const (
	itemsSheet   = "Items"
	summarySheet = "Summary"
)

// WriteXLSX exports a result as a workbook with an Items sheet and a
// Summary sheet.
func WriteXLSX(w io.Writer, res reconcile.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	items := [][]any{{"Item Code", "Quantity", "Unit Price", "Line Total", "GL Code", "GL Description"}}
	for _, item := range res.Items {
		items = append(items, []any{
			string(item.ItemCode),
			item.Quantity,
			item.UnitPrice.InexactFloat64(),
			item.LineTotal.InexactFloat64(),
			item.CategoryCode,
			item.CategoryDescription,
		})
	}
	if err := writeRows(f, itemsSheet, items); err != nil {
		return err
	}

	summary := [][]any{{"GL Description", "Amount"}}
	for _, c := range res.CategoryTotals {
		summary = append(summary, []any{c.Description, c.Total.InexactFloat64()})
	}
	s := res.Singleton
	summary = append(summary,
		[]any{},
		[]any{"Invoice Number", s.InvoiceNumber},
		[]any{"Total Amount", res.GrandTotal.InexactFloat64()},
		[]any{"Tariff Amount", s.TariffAmount.InexactFloat64()},
		[]any{"Fuel Surcharge", s.FuelSurcharge.InexactFloat64()},
		[]any{"GST/HST/VAT", s.TaxAmount.InexactFloat64()},
		[]any{"Grand Total", res.TotalWithCharges.InexactFloat64()},
	)
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
