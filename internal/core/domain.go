package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format used everywhere in the
// domain. Dates are carried as fixed-width strings so that month grouping
// is a plain prefix operation.
const DateLayout = "2006-01-02"

type (
	// ShareRatio is the fixed fractional division of an expense between the
	// two household parties. Components are expected in [0,1]; they are not
	// required to sum to exactly 1.
	ShareRatio struct {
		PartyA float64 `json:"partyA"`
		PartyB float64 `json:"partyB"`
	}

	// Category is a named expense category with its cost-split ratio.
	// ID is assigned by storage on creation and is empty before persistence.
	Category struct {
		ID         string     `json:"id,omitempty"`
		Name       string     `json:"name"`
		ShareRatio ShareRatio `json:"shareRatio"`
	}

	// Expense is one recorded household expense. Amount is an integral
	// currency unit; PartyAAmount and PartyBAmount are derived via the
	// category's share ratio and may jointly differ from Amount by one unit
	// due to independent rounding.
	Expense struct {
		ID           string `json:"id,omitempty"`
		UserID       string `json:"userId"`
		Date         string `json:"date"` // YYYY-MM-DD, empty when unparseable
		CategoryID   string `json:"categoryId"`
		Amount       int64  `json:"amount"`
		Memo         string `json:"memo,omitempty"`
		PartyAAmount int64  `json:"partyAAmount"`
		PartyBAmount int64  `json:"partyBAmount"`
	}
)

var (
	ErrEmptyName       = errors.New("empty category name")
	ErrInvalidRatio    = errors.New("share ratio out of range")
	ErrEmptyUserID     = errors.New("empty user id")
	ErrEmptyCategoryID = errors.New("empty category id")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
)

func (r ShareRatio) Validate() error {
	if r.PartyA < 0 || r.PartyA > 1 || r.PartyB < 0 || r.PartyB > 1 {
		return ErrInvalidRatio
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return c.ShareRatio.Validate()
}

// Validate checks an expense for the manual-entry path, where a parseable
// date is required. Imported expenses may legitimately carry an empty date
// (the normalizer degrades unparseable cells) and skip this check.
func (e Expense) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(e.CategoryID) == "" {
		return ErrEmptyCategoryID
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	if e.Amount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MonthKey returns the YYYY-MM prefix of the expense date, or the empty
// string when the date is empty or shorter than a full month prefix.
func (e Expense) MonthKey() string {
	if len(e.Date) < 7 {
		return ""
	}
	return e.Date[:7]
}
