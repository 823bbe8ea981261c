package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// Collectors is the fixed set offered by the entry form. The store accepts
// any non-empty collector string.
var Collectors = []string{"Kalpesh", "Sanjay", "Supan", "Vipul"}

type (
	// Date is a calendar date in ISO 8601 form (YYYY-MM-DD, no time
	// component). ISO dates compare chronologically as plain strings, which
	// is what the store filters and the report sort rely on.
	Date string

	// Entry is one recorded cash collection transaction.
	Entry struct {
		ID        int64 // store-assigned; zero before persistence
		Date      Date
		AccountNo string
		Amount    decimal.Decimal
		Collector string
		CreatedAt time.Time
	}

	// Party is a master-data record mapping a 3-digit account number to a
	// display name.
	Party struct {
		ID        int64
		AccountNo string
		Name      string
		CreatedAt time.Time
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAccountNo = errors.New("account number must be a 3-digit number")
	ErrInvalidAmount    = errors.New("amount must be a positive number")
	ErrEmptyCollector   = errors.New("empty collector")
	ErrEmptyName        = errors.New("empty party name")
)

// Today returns the current calendar date.
func Today() Date {
	return Date(time.Now().Format(dateFormat))
}

// ParseDate validates an ISO date string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(dateFormat, s); err != nil {
		return "", ErrInvalidDate
	}
	return Date(s), nil
}

func (d Date) Validate() error {
	_, err := ParseDate(string(d))
	return err
}

// Display renders the date as dd/mm/yyyy for page tables.
func (d Date) Display() string {
	t, err := time.Parse(dateFormat, string(d))
	if err != nil {
		return string(d)
	}
	return t.Format("02/01/2006")
}

// ValidAccountNo reports whether s is exactly 3 ASCII digits.
func ValidAccountNo(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !ValidAccountNo(e.AccountNo) {
		return ErrInvalidAccountNo
	}
	if e.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Collector) == "" {
		return ErrEmptyCollector
	}
	return nil
}

func (p Party) Validate() error {
	if !ValidAccountNo(p.AccountNo) {
		return ErrInvalidAccountNo
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}
