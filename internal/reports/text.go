package reports

import (
	"fmt"
	"strings"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

// Text renders the shareable plain-text sales report.
func Text(txs []models.Transaction, meta Meta) string {
	var b strings.Builder
	b.WriteString("Laporan Penjualan - 店\n")
	fmt.Fprintf(&b, "Tanggal Cetak: %s\n\n", meta.PrintedAt.Format(timeLayout))

	for i, line := range GroupByProduct(txs) {
		fmt.Fprintf(&b, "%d. %s = %dx%s=%s\n",
			i+1, line.ProductName, line.Quantity, FormatCompact(line.Price), FormatCompact(line.Total))
	}

	summary := Summarize(txs)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Total = %s\n\n", FormatIDR(summary.TotalSales))

	if summary.Tunai.IsPositive() {
		fmt.Fprintf(&b, "Tunai = %s\n", FormatIDR(summary.Tunai))
	}
	if summary.QR.IsPositive() {
		fmt.Fprintf(&b, "QR = %s\n", FormatIDR(summary.QR))
	}
	if summary.Transfer.IsPositive() {
		fmt.Fprintf(&b, "Transfer = %s\n", FormatIDR(summary.Transfer))
	}

	return b.String()
}
