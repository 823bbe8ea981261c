package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// PartyTotal is one row of the collections-by-party report.
	PartyTotal struct {
		Name  string
		Total decimal.Decimal
	}

	// BankRow is one row of the bank-format export: date-ascending with a
	// running balance.
	BankRow struct {
		Date        Date
		AccountNo   string
		Particulars string
		Credit      string // formatted to two decimals
		Balance     string // formatted to two decimals
	}

	// SelfRow is one row of the self-format export: input order preserved,
	// 1-based serial number.
	SelfRow struct {
		SerialNo  int
		Date      Date
		PartyName string
		AccountNo string
		Amount    string // formatted to two decimals
		Collector string
	}
)

// TotalForDate sums the amounts of the given entries. Callers pre-filter by
// date at the store; this is the plain arithmetic sum, zero for an empty
// sequence.
func TotalForDate(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalForParty sums the amounts of entries matching accountNo.
func TotalForParty(entries []Entry, accountNo string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.AccountNo == accountNo {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// PartyIndex builds the account_no -> display name lookup used by every
// report. Later parties overwrite earlier ones on duplicate account numbers.
func PartyIndex(parties []Party) map[string]string {
	idx := make(map[string]string, len(parties))
	for _, p := range parties {
		idx[p.AccountNo] = p.Name
	}
	return idx
}

// GroupByParty accumulates a total per account number, preserving the
// first-seen order of distinct accounts in the entry sequence. Accounts
// without a matching party are labeled "Unknown (<account_no>)".
func GroupByParty(entries []Entry, parties []Party) []PartyTotal {
	idx := PartyIndex(parties)

	byAccount := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	for _, e := range entries {
		if _, seen := byAccount[e.AccountNo]; !seen {
			order = append(order, e.AccountNo)
		}
		byAccount[e.AccountNo] = byAccount[e.AccountNo].Add(e.Amount)
	}

	out := make([]PartyTotal, 0, len(order))
	for _, acct := range order {
		name, ok := idx[acct]
		if !ok {
			name = "Unknown (" + acct + ")"
		}
		out = append(out, PartyTotal{Name: name, Total: byAccount[acct]})
	}
	return out
}

// BuildBankReport sorts entries ascending by date (stable, so entries on the
// same date keep their input order) and walks them with a running balance
// starting from zero. Particulars take the form
// "Cash Collection - <shortened party name>", where the shortened name is
// the first two whitespace-delimited tokens, or "Unknown" when the account
// has no party.
func BuildBankReport(entries []Entry, parties []Party) []BankRow {
	idx := PartyIndex(parties)

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	rows := make([]BankRow, 0, len(sorted))
	balance := decimal.Zero
	for _, e := range sorted {
		balance = balance.Add(e.Amount)
		name := "Unknown"
		if n, ok := idx[e.AccountNo]; ok {
			name = shortName(n)
		}
		rows = append(rows, BankRow{
			Date:        e.Date,
			AccountNo:   e.AccountNo,
			Particulars: "Cash Collection - " + name,
			Credit:      FormatAmount(e.Amount),
			Balance:     FormatAmount(balance),
		})
	}
	return rows
}

// BuildSelfReport preserves input order and full party names, numbering rows
// from 1. Unresolved accounts are labeled "Unknown".
func BuildSelfReport(entries []Entry, parties []Party) []SelfRow {
	idx := PartyIndex(parties)

	rows := make([]SelfRow, 0, len(entries))
	for i, e := range entries {
		name, ok := idx[e.AccountNo]
		if !ok {
			name = "Unknown"
		}
		rows = append(rows, SelfRow{
			SerialNo:  i + 1,
			Date:      e.Date,
			PartyName: name,
			AccountNo: e.AccountNo,
			Amount:    FormatAmount(e.Amount),
			Collector: e.Collector,
		})
	}
	return rows
}

// HasEntryOn reports whether any entry matches both accountNo and date. The
// party search uses it to hide parties that already paid today.
func HasEntryOn(entries []Entry, accountNo string, date Date) bool {
	for _, e := range entries {
		if e.AccountNo == accountNo && e.Date == date {
			return true
		}
	}
	return false
}

func shortName(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.Join(tokens, " ")
}
