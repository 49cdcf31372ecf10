package reports

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

type Format string

const (
	FormatText  Format = "txt"
	FormatCSV   Format = "csv"
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

var Formats = []Format{FormatText, FormatCSV, FormatExcel, FormatPDF}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Meta describes who a report is for and when it was printed. Transaction
// times are rendered in PrintedAt's location.
type Meta struct {
	Username  string
	PrintedAt time.Time
	// Font sets PDF output. Nil uses DefaultFont.
	Font *Font
}

func (m Meta) location() *time.Location {
	if m.PrintedAt.IsZero() {
		return time.UTC
	}
	return m.PrintedAt.Location()
}

func (m Meta) period() string {
	return m.PrintedAt.Format("January 2006")
}

// FileName returns the download name used for a report format.
func FileName(f Format, meta Meta) string {
	switch f {
	case FormatExcel, FormatPDF:
		return fmt.Sprintf("Laporan_Penjualan_%s_%s.%s", sanitize(meta.Username), meta.PrintedAt.Format("20060102"), f)
	default:
		return fmt.Sprintf("laporan_penjualan_%s.%s", meta.PrintedAt.Format("2006-01-02"), f)
	}
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == '"' || r == ':' || r < ' ':
			return '_'
		case r == ' ':
			return '_'
		}
		return r
	}, name)
}

// Render writes txs in the requested format.
func Render(w io.Writer, f Format, txs []models.Transaction, meta Meta) error {
	switch f {
	case FormatText:
		_, err := io.WriteString(w, Text(txs, meta))
		return err
	case FormatCSV:
		return WriteCSV(w, txs, meta)
	case FormatExcel:
		return WriteExcel(w, txs, meta)
	case FormatPDF:
		return WritePDF(w, txs, meta)
	}
	return fmt.Errorf("unknown report format %q", f)
}
