package document

import (
	"bytes"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// buildPDF writes a minimal PDF with one Helvetica text line per page.
func buildPDF(pageLines ...string) []byte {
	var objects []string
	kids := make([]string, len(pageLines))
	for i, line := range pageLines {
		pageObj := 4 + i*2
		contentObj := pageObj + 1
		kids[i] = fmt.Sprintf("%d 0 R", pageObj)
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", line)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", contentObj),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects = append([]string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageLines)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}, objects...)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

var _ = Describe("PDF", func() {
	When("the PDF has a text layer", func() {
		It("returns one text block per page", func() {
			pages, err := PDF{}.Pages(buildPDF("Invoice Number : 5057820314", "GST/HST/VAT 4.88"))
			Expect(err).NotTo(HaveOccurred())
			Expect(pages).To(HaveLen(2))
			Expect(pages[0]).To(ContainSubstring("Invoice Number : 5057820314"))
			Expect(pages[1]).To(ContainSubstring("GST/HST/VAT 4.88"))
		})
	})

	When("the data is not a PDF", func() {
		It("returns an error", func() {
			_, err := PDF{}.Pages([]byte("not a pdf"))
			Expect(err).To(MatchError(ContainSubstring("opening PDF")))
		})
	})
})

var _ = Describe("Text", func() {
	DescribeTable("splitting pages",
		func(input string, expected []string) {
			pages, err := Text{}.Pages([]byte(input))
			Expect(err).NotTo(HaveOccurred())
			if expected == nil {
				Expect(pages).To(BeEmpty())
				return
			}
			Expect(pages).To(Equal(expected))
		},
		Entry("empty input", "", nil),
		Entry("single page", "line 1\nline 2", []string{"line 1\nline 2"}),
		Entry("form feed separated", "page 1\fpage 2", []string{"page 1", "page 2"}),
		Entry("trailing form feed", "page 1\fpage 2\f", []string{"page 1", "page 2"}),
		Entry("windows line endings", "a\r\nb", []string{"a\nb"}),
	)
})

var _ = Describe("Text with binary input", func() {
	DescribeTable("rejecting non-text data",
		func(input []byte) {
			pages, err := Text{}.Pages(input)
			Expect(err).To(MatchError(ErrNotText))
			Expect(pages).To(BeNil())
		},
		Entry("JPEG header", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F'}),
		Entry("invalid UTF-8", []byte("Invoice \xc3\x28 Number")),
		Entry("NUL bytes", []byte("00012345 1\x00 2 3")),
	)

	It("accepts accented UTF-8 text", func() {
		pages, err := Text{}.Pages([]byte("Café 00012345"))
		Expect(err).NotTo(HaveOccurred())
		Expect(pages).To(Equal([]string{"Café 00012345"}))
	})
})

var _ = Describe("Detect", func() {
	It("recognizes the PDF header", func() {
		Expect(IsPDF([]byte("%PDF-1.7\n"))).To(BeTrue())
		Expect(IsPDF([]byte("\n %PDF-1.4"))).To(BeTrue())
		Expect(IsPDF([]byte("Invoice Number : 1"))).To(BeFalse())
	})

	It("reads text input as text", func() {
		pages, err := Detect{}.Pages([]byte("a\fb"))
		Expect(err).NotTo(HaveOccurred())
		Expect(pages).To(Equal([]string{"a", "b"}))
	})

	It("rejects binary input that is not a PDF", func() {
		_, err := Detect{}.Pages([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10})
		Expect(err).To(MatchError(ErrNotText))
	})

	It("reads PDF input with MuPDF", func() {
		pages, err := Detect{}.Pages(buildPDF("Fuel Surcharge 4.20"))
		Expect(err).NotTo(HaveOccurred())
		Expect(pages).To(HaveLen(1))
		Expect(pages[0]).To(ContainSubstring("Fuel Surcharge 4.20"))
	})
})
