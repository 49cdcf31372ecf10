package reports

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

func WriteCSV(w io.Writer, txs []models.Transaction, meta Meta) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}

	rows, _ := buildRows(txs, meta)
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.No),
			r.ID,
			r.Time,
			r.ProductName,
			strconv.Itoa(r.Quantity),
			r.Price.String(),
			r.Total.String(),
			r.Tunai.String(),
			r.QR.String(),
			r.Transfer.String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
