package view

import (
	"encoding/csv"
	"fmt"
	"io"

	"financehub/internal/domain"
)

var csvHeader = []string{"ID", "Date", "Description", "Type", "Amount", "Category", "Account", "Status"}

// WriteCSV writes rows with a header line.
func WriteCSV(w io.Writer, rows []domain.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range rows {
		record := []string{t.ID, t.Date, t.Description, string(t.Type), t.Amount.String(), t.Category, t.Account, string(t.Status)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
