package view

import (
	"bytes"
	"reflect"
	"testing"

	"financehub/internal/domain"
	"financehub/internal/repository"
)

func ids(rows []domain.Transaction) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestDeriveTypeFilterAndTotals(t *testing.T) {
	txns := []domain.Transaction{
		{ID: "TXN001", Date: "2024-12-20", Description: "Salary Deposit", Type: domain.TransactionCredit, Amount: 850000, Status: domain.TransactionCompleted, Category: "Income"},
		{ID: "TXN002", Date: "2024-12-19", Description: "Amazon Purchase", Type: domain.TransactionDebit, Amount: 15699, Status: domain.TransactionCompleted, Category: "Shopping"},
	}

	s := DefaultState()
	s.Type = domain.TransactionCredit
	res := Derive(txns, s)
	if !reflect.DeepEqual(ids(res.Rows), []string{"TXN001"}) {
		t.Fatalf("unexpected rows %v", ids(res.Rows))
	}
	if res.TotalCredits != 850000 || res.TotalDebits != 0 {
		t.Fatalf("totals follow the filtered set: %+v", res)
	}

	all := Derive(txns, DefaultState())
	if all.TotalCredits != 850000 || all.TotalDebits != 15699 || all.Net != 834301 {
		t.Fatalf("unexpected totals %+v", all)
	}
}

func TestFiltersCommute(t *testing.T) {
	txns := repository.DefaultTransactions()
	s := DefaultState()
	s.Search = "c"
	s.Type = domain.TransactionDebit
	s.Status = domain.TransactionCompleted

	direct := Filter(txns, s)

	step := Filter(txns, State{Status: s.Status})
	step = Filter(step, State{Type: s.Type})
	step = Filter(step, State{Search: s.Search})

	if !reflect.DeepEqual(ids(direct), ids(step)) {
		t.Fatalf("filter order changed the result: %v vs %v", ids(direct), ids(step))
	}
}

func TestSearchMatchesIDAndCategoryCaseInsensitive(t *testing.T) {
	txns := repository.DefaultTransactions()
	got := Filter(txns, State{Search: "txn01"})
	if !reflect.DeepEqual(ids(got), []string{"TXN010", "TXN011", "TXN012"}) {
		t.Fatalf("id search: %v", ids(got))
	}
	got = Filter(txns, State{Search: "INCOME"})
	if !reflect.DeepEqual(ids(got), []string{"TXN001", "TXN009"}) {
		t.Fatalf("category search: %v", ids(got))
	}
}

func TestDescendingReversesAscendingForDistinctKeys(t *testing.T) {
	txns := repository.DefaultTransactions()
	asc := Sorted(txns, State{SortField: SortAmount, SortDirection: Asc})
	desc := Sorted(txns, State{SortField: SortAmount, SortDirection: Desc})
	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("position %d: %s vs %s", i, asc[i].ID, desc[len(desc)-1-i].ID)
		}
	}
}

func TestSortIsStableForEqualKeys(t *testing.T) {
	txns := repository.DefaultTransactions()
	rows := Sorted(txns, State{SortField: SortDate, SortDirection: Desc})
	// TXN002 and TXN003 share a date and keep their input order.
	if rows[1].ID != "TXN002" || rows[2].ID != "TXN003" {
		t.Fatalf("unstable order: %v", ids(rows[:3]))
	}
	asc := Sorted(txns, State{SortField: SortDate, SortDirection: Asc})
	if asc[0].ID != "TXN012" || asc[len(asc)-1].ID != "TXN001" {
		t.Fatalf("ascending dates: %v", ids(asc))
	}
}

func TestUnparsableDatesSortFirstAscending(t *testing.T) {
	txns := []domain.Transaction{{ID: "A", Date: "2024-01-02"}, {ID: "B", Date: "someday"}}
	rows := Sorted(txns, State{SortField: SortDate, SortDirection: Asc})
	if rows[0].ID != "B" {
		t.Fatalf("expected unparsable date first, got %v", ids(rows))
	}
}

func TestDescriptionSortUsesCollation(t *testing.T) {
	txns := []domain.Transaction{{ID: "1", Description: "banana"}, {ID: "2", Description: "Apple"}, {ID: "3", Description: "cherry"}}
	rows := Sorted(txns, State{SortField: SortDescription, SortDirection: Asc})
	if !reflect.DeepEqual(ids(rows), []string{"2", "1", "3"}) {
		t.Fatalf("collated order: %v", ids(rows))
	}
}

func TestPaginationClampsPage(t *testing.T) {
	txns := repository.DefaultTransactions()
	s := DefaultState()

	s.Page = 2
	res := Derive(txns, s)
	if res.TotalPages != 2 || len(res.Rows) != 4 || res.Page != 2 {
		t.Fatalf("page 2: %+v", res)
	}

	s.Page = 9
	if res := Derive(txns, s); res.Page != 2 {
		t.Fatalf("expected clamp to last page, got %d", res.Page)
	}
	s.Page = 0
	if res := Derive(txns, s); res.Page != 1 || len(res.Rows) != 8 {
		t.Fatalf("expected clamp to first page, got %+v", res)
	}

	s.Search = "no such thing"
	empty := Derive(txns, s)
	if empty.TotalPages != 0 || empty.Page != 1 || len(empty.Rows) != 0 {
		t.Fatalf("empty result: %+v", empty)
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	txns := repository.DefaultTransactions()
	before := ids(txns)
	Derive(txns, State{SortField: SortAmount, SortDirection: Asc, Page: 1})
	if !reflect.DeepEqual(before, ids(txns)) {
		t.Fatalf("input reordered")
	}
}

func TestToggleSort(t *testing.T) {
	s := DefaultState()
	s = ToggleSort(s, SortDate)
	if s.SortDirection != Asc {
		t.Fatalf("same field should flip direction")
	}
	s = ToggleSort(s, SortAmount)
	if s.SortField != SortAmount || s.SortDirection != Desc {
		t.Fatalf("new field should reset to descending: %+v", s)
	}
}

func TestCategoriesFirstSeenOrder(t *testing.T) {
	got := Categories(repository.DefaultTransactions())
	want := []string{"Income", "Shopping", "Utilities", "Investment", "Food", "Transfer", "Entertainment", "Transportation", "Insurance", "Health"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []domain.Transaction{{ID: "TXN002", Date: "2024-12-19", Description: "Amazon, Inc", Type: domain.TransactionDebit, Amount: 15699, Category: "Shopping", Account: "Credit Card", Status: domain.TransactionCompleted}}
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "ID,Date,Description,Type,Amount,Category,Account,Status\nTXN002,2024-12-19,\"Amazon, Inc\",debit,156.99,Shopping,Credit Card,completed\n"
	if buf.String() != want {
		t.Fatalf("got %q", buf.String())
	}
}

func TestUserSearchAndStats(t *testing.T) {
	users := repository.DefaultUsers()
	if got := FilterUsers(users, "   "); len(got) != len(users) {
		t.Fatalf("blank search should return all, got %d", len(got))
	}
	got := FilterUsers(users, "editor")
	if len(got) != 2 || got[0].ID != "2" || got[1].ID != "5" {
		t.Fatalf("role search: %+v", got)
	}
	if got := FilterUsers(users, "SARAH.W"); len(got) != 1 || got[0].ID != "4" {
		t.Fatalf("email search: %+v", got)
	}
	stats := UserStats(users)
	if stats != (Stats{Total: 5, Active: 4, Inactive: 1, Admins: 1}) {
		t.Fatalf("stats: %+v", stats)
	}
}
