package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cashbook/internal/core"
)

// SelfHeader is the CSV header for the self-format report.
const SelfHeader = "Sr. No,Date,Party Name,Account No,Amount (Rs.),Collector"

// BankHeader is the CSV header for the bank-format report.
const BankHeader = "Transaction Date,Account Number,Particulars,Credit (Rs.),Balance (Rs.)"

const (
	selfNumFields    = 6
	colSelfSerial    = 0
	colSelfDate      = 1
	colSelfParty     = 2
	colSelfAccount   = 3
	colSelfAmount    = 4
	colSelfCollector = 5

	bankNumFields      = 5
	colBankDate        = 0
	colBankAccount     = 1
	colBankParticulars = 2
	colBankCredit      = 3
	colBankBalance     = 4
)

// FileName returns the download file name for a report on the given date.
func FileName(date core.Date) string {
	return fmt.Sprintf("Cash_Collections_%s.csv", date)
}

// WriteSelfReport writes self-format rows to w, header included.
func WriteSelfReport(w io.Writer, rows []core.SelfRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(SelfHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalSelfRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteBankReport writes bank-format rows to w, header included.
func WriteBankReport(w io.Writer, rows []core.BankRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(BankHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, row := range rows {
		if err := cw.Write(MarshalBankRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalSelfRow converts a SelfRow to a CSV row. Dates are rendered in
// dd/mm/yyyy display form.
func MarshalSelfRow(r core.SelfRow) []string {
	row := make([]string, selfNumFields)
	row[colSelfSerial] = strconv.Itoa(r.SerialNo)
	row[colSelfDate] = r.Date.Display()
	row[colSelfParty] = r.PartyName
	row[colSelfAccount] = r.AccountNo
	row[colSelfAmount] = r.Amount
	row[colSelfCollector] = r.Collector
	return row
}

// MarshalBankRow converts a BankRow to a CSV row.
func MarshalBankRow(r core.BankRow) []string {
	row := make([]string, bankNumFields)
	row[colBankDate] = r.Date.Display()
	row[colBankAccount] = r.AccountNo
	row[colBankParticulars] = r.Particulars
	row[colBankCredit] = r.Credit
	row[colBankBalance] = r.Balance
	return row
}
