package infra

// receipt_pdf.go renders the customer receipt of a sale as a small
// thermal-style PDF (74 × 105 mm) with go-pdf/fpdf. Files are written to
// <storagePath>/<invoice_no>.pdf and overwritten on re-render.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// Receipt is everything printed on a receipt, already resolved to names.
type Receipt struct {
	ShopName      string
	InvoiceNo     string
	CreatedAt     time.Time
	CustomerName  string
	MechanicName  string
	PaymentMethod string
	Lines         []ReceiptLine
	Discount      decimal.Decimal
	Total         decimal.Decimal
}

type ReceiptLine struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Subtotal decimal.Decimal
}

// ReceiptFileName is the file name a receipt for invoiceNo is stored under.
func ReceiptFileName(invoiceNo string) string {
	return strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(invoiceNo) + ".pdf"
}

// RenderReceiptPDF writes r to storagePath and returns the file path.
func RenderReceiptPDF(r Receipt, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, ReceiptFileName(r.InvoiceNo))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	w := pageW - 8

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(w, 6, r.ShopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(w, 4, "Service & Sparepart Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(w, 4, r.InvoiceNo, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(w, 4, r.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if r.CustomerName != "" {
		pdf.CellFormat(w, 4, "Customer: "+r.CustomerName, "", 1, "L", false, 0, "")
	}
	if r.MechanicName != "" {
		pdf.CellFormat(w, 4, "Mechanic: "+r.MechanicName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	colName, colQty, colSub := w*0.52, w*0.14, w*0.34

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(colName, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colSub, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, l := range r.Lines {
		name := l.Name
		if len(name) > 24 {
			name = name[:23] + "."
		}
		pdf.CellFormat(colName, 4, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 4, fmt.Sprintf("x%d", l.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(colSub, 4, formatMoney(l.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	if !r.Discount.IsZero() {
		pdf.CellFormat(colName+colQty, 4, "Discount", "", 0, "L", false, 0, "")
		pdf.CellFormat(colSub, 4, "-"+formatMoney(r.Discount), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colName+colQty, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(colSub, 6, formatMoney(r.Total), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(w, 4, "Paid by "+r.PaymentMethod, "", 1, "L", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(w, 4, "Thank you, ride safe!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// formatMoney prints whole rupiah with dot thousands separators: Rp 1.250.000.
func formatMoney(d decimal.Decimal) string {
	s := d.Round(0).Abs().StringFixed(0)
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	if d.IsNegative() {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
