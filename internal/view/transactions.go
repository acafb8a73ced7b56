// Package view derives the rows, totals and pages shown on the dashboard
// from cached collections. Nothing here mutates its input.
package view

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"financehub/internal/domain"
)

type SortField string

const (
	SortDate        SortField = "date"
	SortDescription SortField = "description"
	SortAmount      SortField = "amount"
	SortStatus      SortField = "status"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

const DefaultPageSize = 8

// State holds the filter, sort and page selection of the transactions page.
// Empty filter strings mean the filter is unset.
type State struct {
	Search        string
	Type          domain.TransactionType
	Status        domain.TransactionStatus
	Category      string
	SortField     SortField
	SortDirection SortDirection
	Page          int
	PageSize      int
}

func DefaultState() State {
	return State{
		SortField:     SortDate,
		SortDirection: Desc,
		Page:          1,
		PageSize:      DefaultPageSize,
	}
}

// ToggleSort flips the direction when field is already the sort field and
// otherwise switches to field, descending.
func ToggleSort(s State, field SortField) State {
	if s.SortField == field {
		if s.SortDirection == Asc {
			s.SortDirection = Desc
		} else {
			s.SortDirection = Asc
		}
		return s
	}
	s.SortField = field
	s.SortDirection = Desc
	return s
}

type Result struct {
	Rows         []domain.Transaction `json:"rows"`
	Total        int                  `json:"total"`
	TotalPages   int                  `json:"totalPages"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"pageSize"`
	TotalCredits domain.Amount        `json:"totalCredits"`
	TotalDebits  domain.Amount        `json:"totalDebits"`
	Net          domain.Amount        `json:"net"`
}

// Derive filters, sorts, aggregates and paginates txns.
func Derive(txns []domain.Transaction, s State) Result {
	sorted := Sorted(txns, s)

	var res Result
	for _, t := range sorted {
		switch t.Type {
		case domain.TransactionCredit:
			res.TotalCredits += t.Amount
		case domain.TransactionDebit:
			res.TotalDebits += t.Amount
		}
	}
	res.Net = res.TotalCredits - res.TotalDebits

	size := s.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	res.Total = len(sorted)
	res.PageSize = size
	res.TotalPages = (res.Total + size - 1) / size
	res.Page = min(max(s.Page, 1), max(res.TotalPages, 1))

	start := min((res.Page-1)*size, res.Total)
	end := min(start+size, res.Total)
	res.Rows = sorted[start:end]
	return res
}

// Sorted returns the filtered rows in display order, before pagination.
func Sorted(txns []domain.Transaction, s State) []domain.Transaction {
	rows := Filter(txns, s)
	slices.SortStableFunc(rows, comparator(s.SortField, s.SortDirection))
	return rows
}

// Filter returns a new slice with the rows matching the search text and the
// type, status and category filters.
func Filter(txns []domain.Transaction, s State) []domain.Transaction {
	needle := strings.ToLower(s.Search)
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(t.ID), needle) &&
			!strings.Contains(strings.ToLower(t.Category), needle) {
			continue
		}
		if s.Type != "" && t.Type != s.Type {
			continue
		}
		if s.Status != "" && t.Status != s.Status {
			continue
		}
		if s.Category != "" && t.Category != s.Category {
			continue
		}
		out = append(out, t)
	}
	return out
}

func comparator(field SortField, dir SortDirection) func(a, b domain.Transaction) int {
	var cmpFn func(a, b domain.Transaction) int
	switch field {
	case SortDescription:
		col := collate.New(language.English)
		cmpFn = func(a, b domain.Transaction) int { return col.CompareString(a.Description, b.Description) }
	case SortAmount:
		cmpFn = func(a, b domain.Transaction) int { return cmp.Compare(a.Amount, b.Amount) }
	case SortStatus:
		col := collate.New(language.English)
		cmpFn = func(a, b domain.Transaction) int { return col.CompareString(string(a.Status), string(b.Status)) }
	default:
		cmpFn = compareDates
	}
	if dir == Asc {
		return cmpFn
	}
	return func(a, b domain.Transaction) int { return -cmpFn(a, b) }
}

// compareDates orders unparsable dates before every parsable one.
func compareDates(a, b domain.Transaction) int {
	ta, errA := time.Parse(domain.DateLayout, a.Date)
	tb, errB := time.Parse(domain.DateLayout, b.Date)
	switch {
	case errA != nil && errB != nil:
		return 0
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	}
	return ta.Compare(tb)
}

// Categories returns the distinct categories of txns in first-seen order.
func Categories(txns []domain.Transaction) []string {
	seen := make(map[string]struct{}, len(txns))
	out := make([]string, 0)
	for _, t := range txns {
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	return out
}
