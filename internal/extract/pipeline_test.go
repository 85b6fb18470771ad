package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Pipeline", func() {
	var (
		pipeline   *Pipeline
		pages      []string
		candidates []LineItemCandidate
		singleton  SingletonFields
	)

	BeforeEach(func() {
		var err error
		pipeline, err = NewPipeline(DefaultLayout())
		Expect(err).NotTo(HaveOccurred())
	})

	JustBeforeEach(func() {
		candidates, singleton = pipeline.Extract(pages)
	})

	When("there are no pages", func() {
		BeforeEach(func() {
			pages = nil
		})

		It("returns no candidates", func() {
			Expect(candidates).To(BeEmpty())
		})

		It("leaves the singleton fields at their defaults", func() {
			Expect(singleton.InvoiceNumber).To(BeEmpty())
			Expect(singleton.TariffAmount.IsZero()).To(BeTrue())
			Expect(singleton.FuelSurcharge.IsZero()).To(BeTrue())
			Expect(singleton.TaxAmount.IsZero()).To(BeTrue())
		})
	})

	When("the invoice spans several pages", func() {
		BeforeEach(func() {
			pages = []string{
				"Invoice Number : 5057820314\n" +
					"ITEM DESCRIPTION ORD SHP PACK PRICE EXT\n" +
					"00012345 COFFEE 10 10 0.00 2.50 25.00\r\n" +
					"Tariff Allocation 99.99\n" +
					"12345678 CUPS 2 2 0.00 4.00 8.00",
				"Invoice Number : 1111\n" +
					"54321 LIDS 1 1 0.00 3.00 3.00\n" +
					"Page subtotal 36.00",
				"Tariff Allocation 1.50\n" +
					"Fuel Surcharge 12.50 0.00 3.75\n" +
					"GST/HST/VAT 4.88",
			}
		})

		It("collects item rows in document order", func() {
			Expect(candidates).To(HaveLen(3))
			Expect(candidates[0].ItemCode).To(Equal(ItemCode("00012345")))
			Expect(candidates[1].ItemCode).To(Equal(ItemCode("12345678")))
			Expect(candidates[2].ItemCode).To(Equal(ItemCode("00054321")))
		})

		It("strips carriage returns before recognizing", func() {
			Expect(candidates[0].UnitPrice.StringFixed(2)).To(Equal("0.00"))
			Expect(candidates[0].Quantity).To(Equal(10))
		})

		It("reads the invoice number from the first page", func() {
			Expect(singleton.InvoiceNumber).To(Equal("5057820314"))
		})

		It("reads the charges from the last page only", func() {
			Expect(singleton.TariffAmount.StringFixed(2)).To(Equal("1.50"))
			Expect(singleton.FuelSurcharge.StringFixed(2)).To(Equal("3.75"))
			Expect(singleton.TaxAmount.StringFixed(2)).To(Equal("4.88"))
		})
	})

	When("the invoice number only appears after the first page", func() {
		BeforeEach(func() {
			pages = []string{"no header here", "Invoice Number : 77"}
		})

		It("leaves the invoice number absent", func() {
			Expect(singleton.InvoiceNumber).To(BeEmpty())
		})
	})

	When("a row carries an overflowing quantity", func() {
		BeforeEach(func() {
			pages = []string{"00012345 18446744073709551615 0.00 2.50 5.00\n00054321 2 0.00 1.00 2.00"}
		})

		It("skips that row and keeps the rest", func() {
			Expect(candidates).To(HaveLen(1))
			Expect(candidates[0].ItemCode).To(Equal(ItemCode("00054321")))
			Expect(candidates[0].Quantity).To(Equal(2))
		})
	})

	When("the invoice has a single page", func() {
		BeforeEach(func() {
			pages = []string{"Invoice Number: 9\n00012345 1 1 0.00 2.00 2.00\nFuel Surcharge 4.20\nGST/HST/VAT 0.26"}
		})

		It("reads header and footer fields from it", func() {
			Expect(singleton.InvoiceNumber).To(Equal("9"))
			Expect(singleton.FuelSurcharge.StringFixed(2)).To(Equal("4.20"))
			Expect(singleton.TaxAmount.StringFixed(2)).To(Equal("0.26"))
			Expect(singleton.TariffAmount.IsZero()).To(BeTrue())
			Expect(candidates).To(HaveLen(1))
		})
	})
})

var _ = Describe("NewPipeline", func() {
	var layout Layout

	BeforeEach(func() {
		layout = DefaultLayout()
	})

	It("rejects an index outside the required token count", func() {
		layout.UnitPriceIndex = 4
		_, err := NewPipeline(layout)
		Expect(err).To(MatchError(ContainSubstring("unit_price_index")))
	})

	It("rejects a non-positive token count", func() {
		layout.MinNumericTokens = 0
		_, err := NewPipeline(layout)
		Expect(err).To(MatchError(ContainSubstring("min_numeric_tokens")))
	})

	It("rejects an invalid field pattern", func() {
		layout.TaxPattern = `GST(`
		_, err := NewPipeline(layout)
		Expect(err).To(MatchError(ContainSubstring("tax_pattern")))
	})
})
