package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"cashbook/internal/core"
)

func errorFragment(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

func successFragment(w http.ResponseWriter, msg string) {
	// HX-Refresh makes the page re-fetch its lists after a mutation.
	w.Header().Set("HX-Refresh", "true")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(msg) + `</div>`))
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		errorFragment(w, http.StatusBadRequest, "Invalid request format")
		return false
	}
	return true
}

// refuseIfUnconfigured blocks writes while the store credentials are
// missing or placeholders.
func (s *Server) refuseIfUnconfigured(w http.ResponseWriter) bool {
	if s.writesDisabled() {
		errorFragment(w, http.StatusServiceUnavailable,
			"Saving is disabled: "+s.configError)
		return true
	}
	return false
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if s.refuseIfUnconfigured(w) {
		return
	}

	date := core.Today()
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			errorFragment(w, http.StatusUnprocessableEntity, "Invalid date")
			return
		}
		date = d
	}

	amount, err := core.ParseAmount(r.Form.Get("amount"))
	if err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Invalid amount")
		return
	}

	entry := core.Entry{
		Date:      date,
		AccountNo: sanitizeInput(r.Form.Get("account_no")),
		Amount:    amount,
		Collector: sanitizeInput(r.Form.Get("collector")),
	}
	if err := entry.Validate(); err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Invalid entry: "+err.Error())
		return
	}

	var saved *core.Entry
	if s.service != nil {
		saved, err = s.service.CreateEntry(r.Context(), entry)
		if err != nil {
			slog.ErrorContext(r.Context(), "Entry create error", "error", err,
				"account_no", entry.AccountNo, "date", entry.Date)
			errorFragment(w, http.StatusInternalServerError, "Failed to save entry")
			return
		}
	} else {
		saved = s.gw.AddEntry(r.Context(), entry)
		if saved == nil {
			errorFragment(w, http.StatusInternalServerError, "Failed to save entry")
			return
		}
	}

	successFragment(w, "Recorded Rs. "+core.FormatAmount(saved.Amount)+
		" from account "+saved.AccountNo+" ("+saved.Collector+")")
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if s.refuseIfUnconfigured(w) {
		return
	}

	if r.Form.Get("confirm") != "yes" {
		errorFragment(w, http.StatusBadRequest, "Deletion requires confirmation")
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Invalid entry id")
		return
	}

	if s.service != nil {
		if err := s.service.DeleteEntry(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Entry delete error", "error", err, "id", id)
			errorFragment(w, http.StatusInternalServerError, "Failed to delete entry")
			return
		}
	} else if !s.gw.DeleteEntry(r.Context(), id) {
		errorFragment(w, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	successFragment(w, "Entry deleted")
}

func (s *Server) handleCreateParty(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if s.refuseIfUnconfigured(w) {
		return
	}

	party := core.Party{
		AccountNo: sanitizeInput(r.Form.Get("account_no")),
		Name:      sanitizeInput(r.Form.Get("name")),
	}
	if err := party.Validate(); err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Invalid party: "+err.Error())
		return
	}

	saved := s.gw.AddParty(r.Context(), party)
	if saved == nil {
		errorFragment(w, http.StatusInternalServerError, "Failed to save party")
		return
	}

	successFragment(w, "Added "+saved.Name+" ("+saved.AccountNo+")")
}

func (s *Server) handleDeleteParty(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	if s.refuseIfUnconfigured(w) {
		return
	}

	if r.Form.Get("confirm") != "yes" {
		errorFragment(w, http.StatusBadRequest, "Deletion requires confirmation")
		return
	}

	id, err := strconv.ParseInt(strings.TrimSpace(r.Form.Get("id")), 10, 64)
	if err != nil {
		errorFragment(w, http.StatusUnprocessableEntity, "Invalid party id")
		return
	}

	if !s.gw.DeleteParty(r.Context(), id) {
		errorFragment(w, http.StatusInternalServerError, "Failed to delete party")
		return
	}

	successFragment(w, "Party deleted")
}
