package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cashbook/internal/core"
	"cashbook/internal/store"
)

// pageData carries the fields every page template needs.
type pageData struct {
	Title       string
	ConfigError string
}

type entryView struct {
	ID        int64
	Date      string
	PartyName string
	AccountNo string
	Amount    string
	Collector string
}

type partyTotalView struct {
	Name  string
	Total string
}

const fetchTimeout = 7 * time.Second

// fetchEntriesAndParties loads both record sets concurrently, the way the
// dashboard pages always consume them together.
func (s *Server) fetchEntriesAndParties(ctx context.Context, f store.Filter) ([]core.Entry, []core.Party) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var (
		entries []core.Entry
		parties []core.Party
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries = s.gw.FilterEntries(gctx, f)
		return nil
	})
	g.Go(func() error {
		parties = s.gw.ListParties(gctx)
		return nil
	})
	_ = g.Wait()
	return entries, parties
}

func entryViews(entries []core.Entry, parties []core.Party) []entryView {
	index := core.PartyIndex(parties)
	views := make([]entryView, 0, len(entries))
	for _, e := range entries {
		name := "Unknown (" + e.AccountNo + ")"
		if n, ok := index[e.AccountNo]; ok {
			name = n
		}
		views = append(views, entryView{
			ID:        e.ID,
			Date:      e.Date.Display(),
			PartyName: name,
			AccountNo: e.AccountNo,
			Amount:    core.FormatAmount(e.Amount),
			Collector: e.Collector,
		})
	}
	return views
}

func queryDate(r *http.Request) core.Date {
	if v := strings.TrimSpace(r.URL.Query().Get("date")); v != "" {
		if d, err := core.ParseDate(v); err == nil {
			return d
		}
	}
	return core.Today()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleIndex renders the daily entry form with the selected date's
// collections underneath.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	date := queryDate(r)
	entries, parties := s.fetchEntriesAndParties(r.Context(),
		store.Filter{store.FieldDate: string(date)})

	data := struct {
		pageData
		Date        core.Date
		DateDisplay string
		Collectors  []string
		Entries     []entryView
		Total       string
	}{
		pageData:    pageData{Title: "Daily Collections", ConfigError: s.configError},
		Date:        date,
		DateDisplay: date.Display(),
		Collectors:  core.Collectors,
		Entries:     entryViews(entries, parties),
		Total:       core.FormatAmount(core.TotalForDate(entries)),
	}
	s.render(w, r, "index.html", data)
}

// handleCollections renders the history page with date/account filters.
func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request) {
	filterDate := strings.TrimSpace(r.URL.Query().Get("date"))
	filterAccount := strings.TrimSpace(r.URL.Query().Get("account_no"))

	f := store.Filter{}
	if filterDate != "" {
		f[store.FieldDate] = filterDate
	}
	if filterAccount != "" {
		f[store.FieldAccountNo] = filterAccount
	}

	entries, parties := s.fetchEntriesAndParties(r.Context(), f)

	data := struct {
		pageData
		FilterDate    string
		FilterAccount string
		Entries       []entryView
		Total         string
	}{
		pageData:      pageData{Title: "Collection History", ConfigError: s.configError},
		FilterDate:    filterDate,
		FilterAccount: filterAccount,
		Entries:       entryViews(entries, parties),
		Total:         core.FormatAmount(core.TotalForDate(entries)),
	}
	s.render(w, r, "collections.html", data)
}

type partyView struct {
	ID        int64
	AccountNo string
	Name      string
}

// handleMasterData renders the party master data page.
func (s *Server) handleMasterData(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	parties := s.gw.ListParties(ctx)
	views := make([]partyView, 0, len(parties))
	for _, p := range parties {
		views = append(views, partyView{ID: p.ID, AccountNo: p.AccountNo, Name: p.Name})
	}

	data := struct {
		pageData
		Parties []partyView
	}{
		pageData: pageData{Title: "Master Data", ConfigError: s.configError},
		Parties:  views,
	}
	s.render(w, r, "master_data.html", data)
}

// handleReports renders totals for a date plus the per-party breakdown
// and export links.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	date := queryDate(r)
	entries, parties := s.fetchEntriesAndParties(r.Context(),
		store.Filter{store.FieldDate: string(date)})

	totals := core.GroupByParty(entries, parties)
	totalViews := make([]partyTotalView, 0, len(totals))
	for _, t := range totals {
		totalViews = append(totalViews, partyTotalView{
			Name:  t.Name,
			Total: core.FormatAmount(t.Total),
		})
	}

	data := struct {
		pageData
		Date        core.Date
		DateDisplay string
		Total       string
		PartyTotals []partyTotalView
		Entries     []entryView
	}{
		pageData:    pageData{Title: "Reports", ConfigError: s.configError},
		Date:        date,
		DateDisplay: date.Display(),
		Total:       core.FormatAmount(core.TotalForDate(entries)),
		PartyTotals: totalViews,
		Entries:     entryViews(entries, parties),
	}
	s.render(w, r, "reports.html", data)
}

// handleProfile renders the configuration status page.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	data := struct {
		pageData
		Collectors    []string
		StoreWritable bool
	}{
		pageData:      pageData{Title: "Profile", ConfigError: s.configError},
		Collectors:    core.Collectors,
		StoreWritable: !s.writesDisabled(),
	}
	s.render(w, r, "profile.html", data)
}

// handlePartySearch renders the party picker partial. Matches by name
// substring or account number prefix; parties that already have an entry
// for the requested date are left out.
func (s *Server) handlePartySearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	date := queryDate(r)

	// Unfiltered: the running total per party spans all dates.
	entries, parties := s.fetchEntriesAndParties(r.Context(), nil)

	type match struct {
		AccountNo string
		Name      string
		Total     string
	}
	var matches []match
	for _, p := range parties {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.HasPrefix(p.AccountNo, q) {
			continue
		}
		if core.HasEntryOn(entries, p.AccountNo, date) {
			continue
		}
		matches = append(matches, match{
			AccountNo: p.AccountNo,
			Name:      p.Name,
			Total:     core.FormatAmount(core.TotalForParty(entries, p.AccountNo)),
		})
	}

	s.render(w, r, "party_results.html", struct {
		Query   string
		Matches []match
	}{Query: q, Matches: matches})
}
