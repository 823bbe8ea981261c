package export

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashbook/internal/core"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "Cash_Collections_2025-01-02.csv", FileName("2025-01-02"))
}

func TestWriteSelfReport(t *testing.T) {
	entries := []core.Entry{{
		Date:      "2025-01-02",
		AccountNo: "101",
		Amount:    decimal.RequireFromString("25.5"),
		Collector: "Sanjay",
	}}
	parties := []core.Party{{AccountNo: "101", Name: "Acme Traders"}}

	var buf strings.Builder
	require.NoError(t, WriteSelfReport(&buf, core.BuildSelfReport(entries, parties)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, SelfHeader, lines[0])
	assert.Equal(t, "1,02/01/2025,Acme Traders,101,25.50,Sanjay", lines[1])
}

func TestWriteBankReport(t *testing.T) {
	entries := []core.Entry{
		{Date: "2025-01-02", AccountNo: "101", Amount: decimal.NewFromInt(25), Collector: "Kalpesh"},
		{Date: "2025-01-01", AccountNo: "102", Amount: decimal.NewFromInt(50), Collector: "Kalpesh"},
	}
	parties := []core.Party{
		{AccountNo: "101", Name: "Acme Traders"},
		{AccountNo: "102", Name: "Beta Co"},
	}

	var buf strings.Builder
	require.NoError(t, WriteBankReport(&buf, core.BuildBankReport(entries, parties)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, BankHeader, lines[0])
	// Rows come out date ascending with a running balance.
	assert.Equal(t, "01/01/2025,102,Cash Collection - Beta Co,50.00,50.00", lines[1])
	assert.Equal(t, "02/01/2025,101,Cash Collection - Acme Traders,25.00,75.00", lines[2])
}

func TestWriteSelfReportEmpty(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, WriteSelfReport(&buf, nil))
	assert.Equal(t, SelfHeader+"\n", buf.String())
}

func TestMarshalSelfRowQuotedComma(t *testing.T) {
	row := core.SelfRow{
		SerialNo:  1,
		Date:      "2025-01-01",
		PartyName: "Shah, Mehta & Sons",
		AccountNo: "103",
		Amount:    "10.00",
		Collector: "Vipul",
	}
	var buf strings.Builder
	require.NoError(t, WriteSelfReport(&buf, []core.SelfRow{row}))
	assert.Contains(t, buf.String(), `"Shah, Mehta & Sons"`)
}
