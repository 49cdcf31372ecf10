package reports

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const pdfFamily = "Report"

//go:embed fonts/DejaVuSansCondensed.ttf
var dejaVuRegular []byte

//go:embed fonts/DejaVuSansCondensed-Bold.ttf
var dejaVuBold []byte

// Font is the TrueType family PDF reports are set in. Text is written as
// UTF-8, so any script the font has glyphs for renders. Bold falls back to
// Regular when empty.
type Font struct {
	Regular []byte
	Bold    []byte
}

// DefaultFont is DejaVu Sans Condensed, which covers Latin, Greek and
// Cyrillic. CJK names need a font such as Noto Sans CJK via LoadFont.
func DefaultFont() *Font {
	return &Font{Regular: dejaVuRegular, Bold: dejaVuBold}
}

// LoadFont reads TrueType files for PDF reports. boldPath may be empty.
func LoadFont(regularPath, boldPath string) (*Font, error) {
	regular, err := os.ReadFile(regularPath)
	if err != nil {
		return nil, fmt.Errorf("read report font: %w", err)
	}
	f := &Font{Regular: regular}
	if boldPath != "" {
		if f.Bold, err = os.ReadFile(boldPath); err != nil {
			return nil, fmt.Errorf("read report bold font: %w", err)
		}
	}
	return f, nil
}

// A4 landscape leaves 277mm between the default 10mm margins.
var pdfColumnWidths = []float64{10, 52, 34, 50, 18, 25, 25, 21, 21, 21}

func WritePDF(w io.Writer, txs []models.Transaction, meta Meta) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	font := meta.Font
	if font == nil || len(font.Regular) == 0 {
		font = DefaultFont()
	}
	bold := font.Bold
	if len(bold) == 0 {
		bold = font.Regular
	}
	pdf.AddUTF8FontFromBytes(pdfFamily, "", font.Regular)
	pdf.AddUTF8FontFromBytes(pdfFamily, "B", bold)
	title := fmt.Sprintf("Laporan Penjualan - %s", meta.Username)

	pdf.SetTitle(title, true)
	pdf.SetCreationDate(meta.PrintedAt)
	pdf.AddPage()

	pdf.SetFont(pdfFamily, "B", 14)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFamily, "", 10)
	pdf.CellFormat(0, 6, "Periode: "+meta.period(), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Tanggal Cetak: "+meta.PrintedAt.Format(timeLayout), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(pdfFamily, "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range columns {
		pdf.CellFormat(pdfColumnWidths[i], 7, c, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	rows, totals := buildRows(txs, meta)
	pdf.SetFont(pdfFamily, "", 7)
	for _, r := range rows {
		cells := []string{
			strconv.Itoa(r.No),
			r.ID,
			r.Time,
			r.ProductName,
			strconv.Itoa(r.Quantity),
			FormatNumber(r.Price),
			FormatNumber(r.Total),
			FormatNumber(r.Tunai),
			FormatNumber(r.QR),
			FormatNumber(r.Transfer),
		}
		for i, cell := range cells {
			align := "R"
			if i >= 1 && i <= 3 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnWidths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(pdfFamily, "B", 7)
	totalCells := []string{
		"", "", "", "Total",
		strconv.Itoa(totals.Quantity),
		"",
		FormatNumber(totals.Total),
		FormatNumber(totals.Tunai),
		FormatNumber(totals.QR),
		FormatNumber(totals.Transfer),
	}
	for i, cell := range totalCells {
		align := "R"
		if i == 3 {
			align = "L"
		}
		pdf.CellFormat(pdfColumnWidths[i], 6, cell, "1", 0, align, true, 0, "")
	}
	pdf.Ln(10)

	summary := Summarize(txs)
	pdf.SetFont(pdfFamily, "", 10)
	lines := [][2]string{
		{"Total Penjualan", FormatIDR(summary.TotalSales)},
		{string(models.PaymentCash), FormatIDR(summary.Tunai)},
		{string(models.PaymentQR), FormatIDR(summary.QR)},
		{string(models.PaymentTransfer), FormatIDR(summary.Transfer)},
	}
	for _, l := range lines {
		pdf.CellFormat(40, 6, l[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, l[1], "", 1, "R", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return pdf.Output(w)
}
