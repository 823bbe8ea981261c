package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date, acct, amount string) Entry {
	return Entry{
		Date:      Date(date),
		AccountNo: acct,
		Amount:    decimal.RequireFromString(amount),
		Collector: "Kalpesh",
	}
}

var (
	sampleEntries = []Entry{
		entry("2025-01-01", "101", "100"),
		entry("2025-01-01", "102", "50"),
		entry("2025-01-02", "101", "25"),
	}
	sampleParties = []Party{
		{AccountNo: "101", Name: "Acme Traders"},
		{AccountNo: "102", Name: "Beta Co"},
	}
)

func TestTotalForDate(t *testing.T) {
	assert.True(t, TotalForDate(nil).IsZero())
	assert.Equal(t, "175", TotalForDate(sampleEntries).String())
}

func TestTotalForParty(t *testing.T) {
	assert.Equal(t, "125", TotalForParty(sampleEntries, "101").String())
	assert.Equal(t, "50", TotalForParty(sampleEntries, "102").String())
	assert.True(t, TotalForParty(sampleEntries, "999").IsZero())
}

func TestGroupByParty(t *testing.T) {
	got := GroupByParty(sampleEntries, sampleParties)
	require.Len(t, got, 2)
	// First-seen order of distinct accounts: 101 then 102.
	assert.Equal(t, "Acme Traders", got[0].Name)
	assert.Equal(t, "125", got[0].Total.String())
	assert.Equal(t, "Beta Co", got[1].Name)
	assert.Equal(t, "50", got[1].Total.String())
}

func TestGroupByPartyEmptyEntries(t *testing.T) {
	assert.Empty(t, GroupByParty(nil, sampleParties))
}

func TestGroupByPartyUnknownAccount(t *testing.T) {
	got := GroupByParty([]Entry{entry("2025-01-01", "999", "10")}, sampleParties)
	require.Len(t, got, 1)
	assert.Equal(t, "Unknown (999)", got[0].Name)
}

func TestGroupByPartyDistinctAccountCount(t *testing.T) {
	// Output length tracks distinct account numbers in the entries,
	// regardless of party list size.
	got := GroupByParty(sampleEntries, nil)
	assert.Len(t, got, 2)
}

func TestPartyIndexLastWriteWins(t *testing.T) {
	parties := []Party{
		{AccountNo: "101", Name: "Old Name"},
		{AccountNo: "101", Name: "New Name"},
	}
	got := GroupByParty([]Entry{entry("2025-01-01", "101", "10")}, parties)
	require.Len(t, got, 1)
	assert.Equal(t, "New Name", got[0].Name)
}

func TestBuildBankReport(t *testing.T) {
	rows := BuildBankReport(sampleEntries, sampleParties)
	require.Len(t, rows, len(sampleEntries))

	assert.Equal(t, []string{"100.00", "150.00", "175.00"},
		[]string{rows[0].Balance, rows[1].Balance, rows[2].Balance})
	assert.Equal(t, "Cash Collection - Acme Traders", rows[0].Particulars)
	assert.Equal(t, "Cash Collection - Beta Co", rows[1].Particulars)
	assert.Equal(t, "Cash Collection - Acme Traders", rows[2].Particulars)

	// Final balance equals the total over the same multiset.
	assert.Equal(t, FormatAmount(TotalForDate(sampleEntries)), rows[2].Balance)

	// Dates non-decreasing.
	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Date, rows[i].Date)
	}
}

func TestBuildBankReportStableOnEqualDates(t *testing.T) {
	entries := []Entry{
		entry("2025-01-01", "103", "1"),
		entry("2025-01-01", "101", "2"),
		entry("2025-01-01", "102", "3"),
	}
	rows := BuildBankReport(entries, nil)
	require.Len(t, rows, 3)
	assert.Equal(t, "103", rows[0].AccountNo)
	assert.Equal(t, "101", rows[1].AccountNo)
	assert.Equal(t, "102", rows[2].AccountNo)
}

func TestBuildBankReportDoesNotReorderInput(t *testing.T) {
	entries := []Entry{
		entry("2025-01-02", "101", "1"),
		entry("2025-01-01", "102", "2"),
	}
	BuildBankReport(entries, nil)
	assert.Equal(t, Date("2025-01-02"), entries[0].Date)
}

func TestBuildBankReportShortensLongNames(t *testing.T) {
	parties := []Party{{AccountNo: "101", Name: "Shree Ganesh Trading Company"}}
	rows := BuildBankReport([]Entry{entry("2025-01-01", "101", "10")}, parties)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cash Collection - Shree Ganesh", rows[0].Particulars)
}

func TestBuildBankReportUnknownParty(t *testing.T) {
	rows := BuildBankReport([]Entry{entry("2025-01-01", "999", "10")}, sampleParties)
	require.Len(t, rows, 1)
	assert.Equal(t, "Cash Collection - Unknown", rows[0].Particulars)
}

func TestBuildSelfReport(t *testing.T) {
	entries := []Entry{
		entry("2025-01-02", "101", "25"), // input order kept, no sorting
		entry("2025-01-01", "102", "50"),
	}
	rows := BuildSelfReport(entries, sampleParties)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].SerialNo)
	assert.Equal(t, 2, rows[1].SerialNo)
	assert.Equal(t, "Acme Traders", rows[0].PartyName)
	assert.Equal(t, "25.00", rows[0].Amount)
	assert.Equal(t, Date("2025-01-02"), rows[0].Date)
	assert.Equal(t, "Kalpesh", rows[0].Collector)
}

func TestHasEntryOn(t *testing.T) {
	assert.False(t, HasEntryOn(nil, "101", "2025-01-01"))
	assert.True(t, HasEntryOn(sampleEntries, "101", "2025-01-01"))
	assert.True(t, HasEntryOn(sampleEntries, "101", "2025-01-02"))
	assert.False(t, HasEntryOn(sampleEntries, "102", "2025-01-02"))
	assert.False(t, HasEntryOn(sampleEntries, "999", "2025-01-01"))
}
