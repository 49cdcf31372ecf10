package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/8gymsport-prog/penjualan/internal/models"
	"github.com/8gymsport-prog/penjualan/internal/reports"
	"github.com/8gymsport-prog/penjualan/internal/telemetry"
)

const msgReportFormat = "Format laporan tidak didukung."

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	rng, err := h.dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	txs, err := h.Sales.List(r.Context(), currentUser(r).ID, rng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(txs))
}

func (h *Handler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var in models.TransactionInput
	if !decodeJSON(w, r, &in) {
		return
	}

	tx, err := h.Sales.Record(r.Context(), currentUser(r).ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) QuickSale(w http.ResponseWriter, r *http.Request) {
	var in models.QuickSaleInput
	if !decodeJSON(w, r, &in) {
		return
	}

	tx, err := h.Sales.QuickSale(r.Context(), currentUser(r).ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var in models.TransactionInput
	if !decodeJSON(w, r, &in) {
		return
	}

	tx, err := h.Sales.Update(r.Context(), currentUser(r).ID, r.PathValue("id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.Sales.Delete(r.Context(), currentUser(r).ID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearTransactions(w http.ResponseWriter, r *http.Request) {
	rng, err := h.dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	n, err := h.Sales.Clear(r.Context(), currentUser(r).ID, rng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	rng, err := h.dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := h.Sales.Summary(r.Context(), currentUser(r).ID, rng)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// DownloadReport renders the range's transactions in the requested format.
// The text report can be previewed inline with ?inline=1.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	format, err := reports.ParseFormat(r.PathValue("format"))
	if err != nil {
		writeError(w, models.NewValidationError("format", msgReportFormat))
		return
	}

	rng, err := h.dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user := currentUser(r)
	txs, err := h.Sales.List(r.Context(), user.ID, rng)
	if err != nil {
		writeError(w, err)
		return
	}

	meta := reports.Meta{Username: user.Username, PrintedAt: h.now().In(h.opts.Location), Font: h.opts.ReportFont}

	var buf bytes.Buffer
	if err := reports.Render(&buf, format, txs, meta); err != nil {
		slog.Error("Failed to render report", "user_id", user.ID, "format", format, "error", err)
		writeError(w, err)
		return
	}
	telemetry.ReportsGenerated.WithLabelValues(string(format)).Inc()

	disposition := "attachment"
	if format == reports.FormatText && r.URL.Query().Get("inline") == "1" {
		disposition = "inline"
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, reports.FileName(format, meta)))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
