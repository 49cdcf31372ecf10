package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const SheetName = "Laporan Penjualan"

var columnWidths = []float64{5, 38, 20, 25, 10, 15, 15, 15, 15, 15}

const headerRow = 4

func WriteExcel(w io.Writer, txs []models.Transaction, meta Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))

	titles := []string{
		fmt.Sprintf("Laporan Penjualan - %s", meta.Username),
		fmt.Sprintf("Periode: %s", meta.period()),
	}
	for i, title := range titles {
		row := i + 1
		if err := f.SetCellValue(SheetName, fmt.Sprintf("A%d", row), title); err != nil {
			return err
		}
		if err := f.MergeCell(SheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row)); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", headerRow), &header); err != nil {
		return err
	}

	rows, totals := buildRows(txs, meta)
	for i, r := range rows {
		values := []interface{}{
			r.No,
			r.ID,
			r.Time,
			r.ProductName,
			r.Quantity,
			r.Price.InexactFloat64(),
			r.Total.InexactFloat64(),
			r.Tunai.InexactFloat64(),
			r.QR.InexactFloat64(),
			r.Transfer.InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", headerRow+1+i), &values); err != nil {
			return err
		}
	}

	totalRow := []interface{}{
		"", "", "", "Total",
		totals.Quantity,
		"",
		totals.Total.InexactFloat64(),
		totals.Tunai.InexactFloat64(),
		totals.QR.InexactFloat64(),
		totals.Transfer.InexactFloat64(),
	}
	if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", headerRow+1+len(rows)), &totalRow); err != nil {
		return err
	}

	for i, width := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}

	return f.Write(w)
}
