package http

import (
	"log/slog"
	"net/http"
	"strings"

	"cashbook/internal/core"
	"cashbook/internal/export"
	"cashbook/internal/store"
)

// exportFilter builds the entry filter for the export endpoints. Without
// a date parameter the whole history is exported.
func exportFilter(r *http.Request) (store.Filter, core.Date) {
	f := store.Filter{}
	name := core.Today()
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			f[store.FieldDate] = string(d)
			name = d
		}
	}
	return f, name
}

func (s *Server) handleExportSelf(w http.ResponseWriter, r *http.Request) {
	f, date := exportFilter(r)
	entries, parties := s.fetchEntriesAndParties(r.Context(), f)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(date)+`"`)

	if err := export.WriteSelfReport(w, core.BuildSelfReport(entries, parties)); err != nil {
		slog.ErrorContext(r.Context(), "Self report export failed", "error", err)
	}
}

func (s *Server) handleExportBank(w http.ResponseWriter, r *http.Request) {
	f, date := exportFilter(r)
	entries, parties := s.fetchEntriesAndParties(r.Context(), f)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(date)+`"`)

	if err := export.WriteBankReport(w, core.BuildBankReport(entries, parties)); err != nil {
		slog.ErrorContext(r.Context(), "Bank report export failed", "error", err)
	}
}
