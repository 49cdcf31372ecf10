package api

import (
	"net/http"
	"time"

	"github.com/8gymsport-prog/penjualan/internal/models"
)

const (
	dateLayout   = "2006-01-02"
	msgDate      = "Format tanggal harus YYYY-MM-DD."
	msgDateRange = "Tanggal akhir tidak boleh sebelum tanggal awal."
)

// dateRange reads the inclusive from/to days of the query in the report
// timezone. Both default to today.
func (h *Handler) dateRange(r *http.Request) (models.DateRange, error) {
	today := models.Day(h.now().In(h.opts.Location))
	verr := &models.ValidationError{}

	parse := func(field string, fallback models.DateRange) models.DateRange {
		v := r.URL.Query().Get(field)
		if v == "" {
			return fallback
		}
		t, err := time.ParseInLocation(dateLayout, v, h.opts.Location)
		if err != nil {
			verr.Add(field, msgDate)
			return fallback
		}
		return models.Day(t)
	}

	from := parse("from", today)
	to := parse("to", today)
	if err := verr.OrNil(); err != nil {
		return models.DateRange{}, err
	}
	if to.From.Before(from.From) {
		return models.DateRange{}, models.NewValidationError("to", msgDateRange)
	}
	return models.DateRange{From: from.From, To: to.To}, nil
}
