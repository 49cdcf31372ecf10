package reports

import (
	"github.com/shopspring/decimal"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

// Summarize totals sales and payments per method.
func Summarize(txs []models.Transaction) models.SalesSummary {
	summary := models.SalesSummary{
		TotalSales: decimal.Zero,
		Tunai:      decimal.Zero,
		QR:         decimal.Zero,
		Transfer:   decimal.Zero,
	}
	for _, t := range txs {
		summary.TotalSales = summary.TotalSales.Add(t.Total)
		summary.Count++
		for _, p := range t.Payments {
			switch p.Method {
			case models.PaymentCash:
				summary.Tunai = summary.Tunai.Add(p.Amount)
			case models.PaymentQR:
				summary.QR = summary.QR.Add(p.Amount)
			case models.PaymentTransfer:
				summary.Transfer = summary.Transfer.Add(p.Amount)
			}
		}
	}
	return summary
}

type ProductLine struct {
	Key         string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
}

func groupKey(t models.Transaction) string {
	if t.ProductID != "" {
		return "id:" + t.ProductID
	}
	return "name:" + t.ProductName
}

// GroupByProduct merges transactions of the same product in first-seen
// order. The price of the first transaction seen is kept.
func GroupByProduct(txs []models.Transaction) []ProductLine {
	index := make(map[string]int)
	var lines []ProductLine
	for _, t := range txs {
		key := groupKey(t)
		i, ok := index[key]
		if !ok {
			i = len(lines)
			index[key] = i
			lines = append(lines, ProductLine{
				Key:         key,
				ProductName: t.ProductName,
				Price:       t.Price,
				Total:       decimal.Zero,
			})
		}
		lines[i].Quantity += t.Quantity
		lines[i].Total = lines[i].Total.Add(t.Total)
	}
	return lines
}

// Row is one transaction flattened into report columns.
type Row struct {
	No          int
	ID          string
	Time        string
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Total       decimal.Decimal
	Tunai       decimal.Decimal
	QR          decimal.Decimal
	Transfer    decimal.Decimal
}

type Totals struct {
	Quantity int
	Total    decimal.Decimal
	Tunai    decimal.Decimal
	QR       decimal.Decimal
	Transfer decimal.Decimal
}

var columns = []string{
	"No", "ID Transaksi", "Waktu", "Nama Produk", "Kuantitas",
	"Harga Satuan", "Total Penjualan", "Tunai", "QR", "Transfer",
}

const timeLayout = "2006-01-02 15:04:05"

func buildRows(txs []models.Transaction, meta Meta) ([]Row, Totals) {
	loc := meta.location()
	rows := make([]Row, 0, len(txs))
	totals := Totals{Total: decimal.Zero, Tunai: decimal.Zero, QR: decimal.Zero, Transfer: decimal.Zero}
	for i, t := range txs {
		row := Row{
			No:          i + 1,
			ID:          t.ID,
			Time:        t.Timestamp.In(loc).Format(timeLayout),
			ProductName: t.ProductName,
			Quantity:    t.Quantity,
			Price:       t.Price,
			Total:       t.Total,
			Tunai:       t.PaidBy(models.PaymentCash),
			QR:          t.PaidBy(models.PaymentQR),
			Transfer:    t.PaidBy(models.PaymentTransfer),
		}
		rows = append(rows, row)

		totals.Quantity += row.Quantity
		totals.Total = totals.Total.Add(row.Total)
		totals.Tunai = totals.Tunai.Add(row.Tunai)
		totals.QR = totals.QR.Add(row.QR)
		totals.Transfer = totals.Transfer.Add(row.Transfer)
	}
	return rows, totals
}
