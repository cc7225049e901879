package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"kharcha/internal/core"
)

func TestWriteExpenses(t *testing.T) {
	expenses := []core.Expense{
		{
			Title:         "Cab, airport run",
			CategoryName:  "Travel",
			Amount:        core.Money{Paise: 32050},
			Date:          core.NewDate(2025, time.April, 1),
			PaymentMethod: core.PayUPI,
			Description:   `said "keep the change"`,
			Location:      "Airport",
		},
		{
			Title:         "Groceries",
			CategoryName:  "Food",
			Amount:        core.Money{Paise: 250000},
			Date:          core.NewDate(2025, time.March, 5),
			PaymentMethod: core.PayCard,
			Tags:          "monthly, essentials",
		},
	}

	var buf bytes.Buffer
	if err := WriteExpenses(&buf, expenses); err != nil {
		t.Fatalf("WriteExpenses() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}

	wantHeader := "Date,Title,Category,Amount,Payment Method,Description,Tags,Location"
	if got := strings.Join(rows[0], ","); got != wantHeader {
		t.Errorf("header = %q, want %q", got, wantHeader)
	}

	want := [][]string{
		{"2025-04-01", "Cab, airport run", "Travel", "320.50", "UPI", `said "keep the change"`, "", "Airport"},
		{"2025-03-05", "Groceries", "Food", "2500.00", "Debit/Credit Card", "", "monthly, essentials", ""},
	}
	for i, w := range want {
		got := rows[i+1]
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("row %d col %d = %q, want %q", i, j, got[j], w[j])
			}
		}
	}
}

func TestWriteExpensesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExpenses(&buf, nil); err != nil {
		t.Fatalf("WriteExpenses(nil) error = %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("re-read csv: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
