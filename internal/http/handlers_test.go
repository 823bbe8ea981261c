package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
	"cashbook/internal/export"
	"cashbook/internal/gateway"
	"cashbook/internal/store/memory"
)

func newTestServer(t *testing.T, configError string) (*Server, *memory.Store) {
	t.Helper()
	mem := memory.New()
	s := NewServer(":0", gateway.New(mem), nil, configError)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s, mem
}

func seed(t *testing.T, mem *memory.Store) {
	t.Helper()
	mem.Seed([]core.Party{
		{AccountNo: "101", Name: "Acme Traders"},
		{AccountNo: "102", Name: "Beta Co"},
	})
	_, err := mem.InsertEntry(context.Background(), core.Entry{
		Date:      "2025-01-01",
		AccountNo: "101",
		Amount:    decimal.NewFromInt(100),
		Collector: "Kalpesh",
	})
	require.NoError(t, err)
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersTotal(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem)

	rec := get(s, "/?date=2025-01-01")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "100.00")
	assert.Contains(t, body, "Acme Traders")
	assert.Contains(t, body, "01/01/2025")
}

func TestCreateEntry(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem)

	rec := postForm(s, "/entries", url.Values{
		"date":       {"2025-01-02"},
		"account_no": {"102"},
		"amount":     {"50.5"},
		"collector":  {"Sanjay"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	assert.Contains(t, rec.Body.String(), "50.50")

	entries, err := mem.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCreateEntryValidationBeforeStore(t *testing.T) {
	cases := map[string]url.Values{
		"bad account":  {"account_no": {"12"}, "amount": {"10"}, "collector": {"Kalpesh"}},
		"bad amount":   {"account_no": {"101"}, "amount": {"-5"}, "collector": {"Kalpesh"}},
		"bad date":     {"account_no": {"101"}, "amount": {"10"}, "collector": {"Kalpesh"}, "date": {"01-01-2025"}},
		"no collector": {"account_no": {"101"}, "amount": {"10"}},
	}
	for name, form := range cases {
		t.Run(name, func(t *testing.T) {
			s, mem := newTestServer(t, "")
			rec := postForm(s, "/entries", form)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Contains(t, rec.Body.String(), `class="error"`)

			entries, err := mem.ListEntries(context.Background())
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestWritesRefusedWhenUnconfigured(t *testing.T) {
	s, mem := newTestServer(t, "store credentials are not configured")

	rec := postForm(s, "/entries", url.Values{
		"account_no": {"101"},
		"amount":     {"10"},
		"collector":  {"Kalpesh"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = postForm(s, "/parties", url.Values{
		"account_no": {"103"},
		"name":       {"Gamma Ltd"},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	entries, err := mem.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConfigErrorBannerOnPages(t *testing.T) {
	s, _ := newTestServer(t, "store credentials still hold placeholder values")
	for _, path := range []string{"/", "/collections", "/master-data", "/reports", "/profile"} {
		rec := get(s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "placeholder values", path)
	}
}

func TestDeleteEntryRequiresConfirmation(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem)

	rec := postForm(s, "/entries/delete", url.Values{"id": {"2"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := mem.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDeleteEntryWithConfirmation(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem)

	entries, err := mem.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	rec := postForm(s, "/entries/delete", url.Values{
		"id":      {"3"}, // seeded entry follows the two seeded parties
		"confirm": {"yes"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	entries, err = mem.ListEntries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateParty(t *testing.T) {
	s, mem := newTestServer(t, "")

	rec := postForm(s, "/parties", url.Values{
		"account_no": {"103"},
		"name":       {"Gamma Ltd"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	parties, err := mem.ListParties(context.Background())
	require.NoError(t, err)
	require.Len(t, parties, 1)
	assert.Equal(t, "Gamma Ltd", parties[0].Name)
}

func TestPartySearchSuppressesPaidParties(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem) // Acme already has an entry on 2025-01-01

	rec := get(s, "/ui/party-search?date=2025-01-01")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "Acme Traders")
	assert.Contains(t, body, "Beta Co")
}

func TestPartySearchByQuery(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem)

	rec := get(s, "/ui/party-search?date=2025-01-02&q=acme")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Acme Traders")
	assert.NotContains(t, body, "Beta Co")
	// Running total across all dates.
	assert.Contains(t, body, "100.00")
}

func TestExportBankCSV(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem)

	rec := get(s, "/export/bank.csv?date=2025-01-01")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), export.FileName("2025-01-01"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, export.BankHeader, lines[0])
	assert.Equal(t, "01/01/2025,101,Cash Collection - Acme Traders,100.00,100.00", lines[1])
}

func TestExportSelfCSV(t *testing.T) {
	s, mem := newTestServer(t, "")
	seed(t, mem)

	rec := get(s, "/export/self.csv?date=2025-01-01")
	require.Equal(t, http.StatusOK, rec.Code)

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, export.SelfHeader, lines[0])
	assert.Equal(t, "1,01/01/2025,Acme Traders,101,100.00,Kalpesh", lines[1])
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t, "")
	assert.Equal(t, http.StatusOK, get(s, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(s, "/readyz").Code)
}

func TestUnknownPathIs404(t *testing.T) {
	s, _ := newTestServer(t, "")
	assert.Equal(t, http.StatusNotFound, get(s, "/nope").Code)
}

func TestMethodNotAllowedOnWrites(t *testing.T) {
	s, _ := newTestServer(t, "")
	assert.Equal(t, http.StatusMethodNotAllowed, get(s, "/entries").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, get(s, "/parties").Code)
}
