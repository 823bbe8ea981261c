// Package postgrest implements the record store against a hosted
// PostgREST endpoint, the primary backend in production.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"cashbook/internal/core"
	"cashbook/internal/store"
)

const (
	entriesTable = "cash_collections"
	partiesTable = "parties"

	defaultTimeout = 10 * time.Second
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ store.Store = (*Client)(nil)

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type entryRecord struct {
	ID        int64           `json:"id,omitempty"`
	Date      string          `json:"date"`
	AccountNo string          `json:"account_no"`
	Amount    decimal.Decimal `json:"amount"`
	Collector string          `json:"collector"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

type partyRecord struct {
	ID        int64     `json:"id,omitempty"`
	AccountNo string    `json:"account_no"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (r entryRecord) toEntry() core.Entry {
	return core.Entry{
		ID:        r.ID,
		Date:      core.Date(r.Date),
		AccountNo: r.AccountNo,
		Amount:    r.Amount,
		Collector: r.Collector,
		CreatedAt: r.CreatedAt,
	}
}

func fromEntry(e core.Entry) entryRecord {
	return entryRecord{
		Date:      string(e.Date),
		AccountNo: e.AccountNo,
		Amount:    e.Amount,
		Collector: e.Collector,
	}
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any) ([]byte, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: unexpected status %d: %s", method, table, resp.StatusCode, data)
	}
	return data, nil
}

func (c *Client) ListEntries(ctx context.Context) ([]core.Entry, error) {
	return c.FilterEntries(ctx, nil)
}

func (c *Client) FilterEntries(ctx context.Context, f store.Filter) ([]core.Entry, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "date.desc")
	if date := f[store.FieldDate]; date != "" {
		q.Set("date", "eq."+date)
	}
	if acct := f[store.FieldAccountNo]; acct != "" {
		q.Set("account_no", "eq."+acct)
	}

	data, err := c.do(ctx, http.MethodGet, entriesTable, q, nil)
	if err != nil {
		return nil, err
	}

	var records []entryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode collections: %w", err)
	}
	entries := make([]core.Entry, len(records))
	for i, r := range records {
		entries[i] = r.toEntry()
	}
	return entries, nil
}

func (c *Client) InsertEntry(ctx context.Context, e core.Entry) (*core.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, entriesTable, nil, []entryRecord{fromEntry(e)})
	if err != nil {
		return nil, err
	}

	var records []entryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode inserted collection: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("insert collection: empty representation")
	}
	saved := records[0].toEntry()
	return &saved, nil
}

func (c *Client) UpdateEntry(ctx context.Context, id int64, e core.Entry) (*core.Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	data, err := c.do(ctx, http.MethodPatch, entriesTable, q, fromEntry(e))
	if err != nil {
		return nil, err
	}

	var records []entryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode updated collection: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("update collection %d: no matching row", id)
	}
	saved := records[0].toEntry()
	return &saved, nil
}

func (c *Client) DeleteEntry(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	_, err := c.do(ctx, http.MethodDelete, entriesTable, q, nil)
	return err
}

func (c *Client) ListParties(ctx context.Context) ([]core.Party, error) {
	return c.FilterParties(ctx, nil)
}

func (c *Client) FilterParties(ctx context.Context, f store.Filter) ([]core.Party, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "name.asc")
	if acct := f[store.FieldAccountNo]; acct != "" {
		q.Set("account_no", "eq."+acct)
	}

	data, err := c.do(ctx, http.MethodGet, partiesTable, q, nil)
	if err != nil {
		return nil, err
	}

	var records []partyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode parties: %w", err)
	}
	parties := make([]core.Party, len(records))
	for i, r := range records {
		parties[i] = core.Party{ID: r.ID, AccountNo: r.AccountNo, Name: r.Name, CreatedAt: r.CreatedAt}
	}
	return parties, nil
}

func (c *Client) InsertParty(ctx context.Context, p core.Party) (*core.Party, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, partiesTable, nil,
		[]partyRecord{{AccountNo: p.AccountNo, Name: p.Name}})
	if err != nil {
		return nil, err
	}

	var records []partyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode inserted party: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("insert party: empty representation")
	}
	saved := core.Party{ID: records[0].ID, AccountNo: records[0].AccountNo, Name: records[0].Name, CreatedAt: records[0].CreatedAt}
	return &saved, nil
}

func (c *Client) UpdateParty(ctx context.Context, id int64, p core.Party) (*core.Party, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	data, err := c.do(ctx, http.MethodPatch, partiesTable, q,
		partyRecord{AccountNo: p.AccountNo, Name: p.Name})
	if err != nil {
		return nil, err
	}

	var records []partyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode updated party: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("update party %d: no matching row", id)
	}
	saved := core.Party{ID: records[0].ID, AccountNo: records[0].AccountNo, Name: records[0].Name, CreatedAt: records[0].CreatedAt}
	return &saved, nil
}

func (c *Client) DeleteParty(ctx context.Context, id int64) error {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	_, err := c.do(ctx, http.MethodDelete, partiesTable, q, nil)
	return err
}
