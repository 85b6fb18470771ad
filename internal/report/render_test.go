package report

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/zombor/invoice-ledger/internal/extract"
	"github.com/zombor/invoice-ledger/internal/lookup"
	"github.com/zombor/invoice-ledger/internal/reconcile"
)

func sampleResult() reconcile.Result {
	index := lookup.Build([]lookup.Row{
		{ItemCode: "12345", GLCode: "5010", GLDescription: "Food"},
		{ItemCode: "54321", GLCode: "5020", GLDescription: "Paper"},
	})
	candidates := []extract.LineItemCandidate{
		{ItemCode: "00012345", Quantity: 400, UnitPrice: decimal.RequireFromString("3.125")},
		{ItemCode: "00054321", Quantity: 2, UnitPrice: decimal.RequireFromString("3.00")},
		{ItemCode: "99999999", Quantity: 1, UnitPrice: decimal.RequireFromString("1.25")},
	}
	singleton := extract.SingletonFields{
		InvoiceNumber: "5057820314",
		TariffAmount:  decimal.RequireFromString("1.50"),
		FuelSurcharge: decimal.RequireFromString("3.75"),
		TaxAmount:     decimal.RequireFromString("4.23"),
	}
	return reconcile.NewEngine(index).Reconcile(candidates, singleton)
}

var _ = Describe("formatAmount", func() {
	DescribeTable("display",
		func(amount, currency, expected string) {
			Expect(formatAmount(decimal.RequireFromString(amount), currency)).To(Equal(expected))
		},
		Entry("small amounts", "3.75", "CAD", "$3.75"),
		Entry("thousands separators", "1250.00", "CAD", "$1,250.00"),
		Entry("zero", "0", "CAD", "$0.00"),
		Entry("other currencies", "10.50", "EUR", "€10.50"),
		Entry("currencies without minor units", "1234.00", "JPY", "¥1,234"),
		Entry("currencies with three decimals", "1234.00", "BHD", "1,234.000 .د.ب"),
		Entry("rounding to the minor unit", "1234.5", "JPY", "¥1,235"),
		Entry("unknown currencies fall back", "2.00", "XYZ", "$2.00"),
	)
})

var _ = Describe("WriteText", func() {
	var (
		res reconcile.Result
		out string
	)

	BeforeEach(func() {
		res = sampleResult()
	})

	JustBeforeEach(func() {
		var buf bytes.Buffer
		Expect(WriteText(&buf, res, DefaultCurrency)).To(Succeed())
		out = buf.String()
	})

	It("starts with the invoice number", func() {
		Expect(out).To(HavePrefix("Invoice Number: 5057820314\n"))
	})

	It("lists every item with its category", func() {
		lines := strings.Split(out, "\n")
		Expect(lines).To(ContainElement(MatchRegexp(`^ITEM CODE\s+QTY\s+UNIT PRICE\s+LINE TOTAL\s+GL CODE\s+GL DESCRIPTION$`)))
		Expect(lines).To(ContainElement(MatchRegexp(`^00012345\s+400\s+\$3\.13\s+\$1,250\.00\s+5010\s+Food$`)))
		Expect(lines).To(ContainElement(MatchRegexp(`^99999999\s+1\s+\$1\.25\s+\$1\.25\s+NOT_FOUND\s+NOT_FOUND$`)))
	})

	It("lists the additional charges", func() {
		Expect(out).To(ContainSubstring("Additional Charges:\nTariff Amount: $1.50\nFuel Surcharge: $3.75\nGST/HST/VAT: $4.23\n"))
	})

	It("summarizes by category, largest first", func() {
		summary := out[strings.Index(out, "Summary by GL Description:"):]
		Expect(summary).To(ContainSubstring("Food: $1,250.00\nPaper: $6.00\nNOT_FOUND: $1.25\n"))
	})

	It("ends with the totals", func() {
		Expect(out).To(HaveSuffix("Total Amount: $1,257.25\nAdditional Charges: $9.48\nGrand Total: $1,266.73\n"))
	})

	When("there is no invoice number", func() {
		BeforeEach(func() {
			res.Singleton.InvoiceNumber = ""
		})

		It("omits the line", func() {
			Expect(out).NotTo(ContainSubstring("Invoice Number"))
			Expect(out).To(HavePrefix(strings.Repeat("=", 100)))
		})
	})

	It("displays amounts in the minor unit of another currency", func() {
		var buf bytes.Buffer
		Expect(WriteText(&buf, res, "JPY")).To(Succeed())
		Expect(buf.String()).To(ContainSubstring("Food: ¥1,250\n"))
		Expect(buf.String()).To(HaveSuffix("Grand Total: ¥1,267\n"))
	})

	When("the invoice is empty", func() {
		BeforeEach(func() {
			res = reconcile.NewEngine(lookup.Build(nil)).Reconcile(nil, extract.SingletonFields{})
		})

		It("reports zero totals", func() {
			Expect(out).To(ContainSubstring("Grand Total: $0.00"))
		})
	})
})

var _ = Describe("WriteXLSX", func() {
	var f *excelize.File

	BeforeEach(func() {
		var buf bytes.Buffer
		Expect(WriteXLSX(&buf, sampleResult())).To(Succeed())

		var err error
		f, err = excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(f.Close)
	})

	It("has an items sheet and a summary sheet", func() {
		Expect(f.GetSheetList()).To(Equal([]string{"Items", "Summary"}))
	})

	It("writes one row per item", func() {
		rows, err := f.GetRows("Items")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(4))
		Expect(rows[0]).To(Equal([]string{"Item Code", "Quantity", "Unit Price", "Line Total", "GL Code", "GL Description"}))
		Expect(rows[1]).To(Equal([]string{"00012345", "400", "3.125", "1250", "5010", "Food"}))
		Expect(rows[3][5]).To(Equal("NOT_FOUND"))
	})

	It("writes the category totals and the charges", func() {
		rows, err := f.GetRows("Summary")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows[0]).To(Equal([]string{"GL Description", "Amount"}))
		Expect(rows[1]).To(Equal([]string{"Food", "1250"}))
		Expect(rows[2]).To(Equal([]string{"Paper", "6"}))
		Expect(rows[3]).To(Equal([]string{"NOT_FOUND", "1.25"}))
		Expect(rows).To(ContainElement([]string{"Invoice Number", "5057820314"}))
		Expect(rows).To(ContainElement([]string{"Grand Total", "1266.73"}))
	})
})
