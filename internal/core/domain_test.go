package core

import (
	"testing"
	"time"
)

func validExpense() Expense {
	return Expense{
		UserID:        1,
		CategoryID:    2,
		Title:         "Groceries",
		Amount:        Money{Paise: 45000},
		Date:          NewDate(2025, time.June, 15),
		PaymentMethod: PayUPI,
	}
}

func TestExpenseValidate(t *testing.T) {
	if err := validExpense().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
	}{
		{"empty title", func(e *Expense) { e.Title = "  " }},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }},
		{"zero date", func(e *Expense) { e.Date = Date{} }},
		{"no category", func(e *Expense) { e.CategoryID = 0 }},
		{"bad payment method", func(e *Expense) { e.PaymentMethod = "crypto" }},
		{"recurring without period", func(e *Expense) { e.IsRecurring = true }},
		{"period without recurring", func(e *Expense) { e.RecurringEach = Monthly }},
	}
	for _, tc := range cases {
		e := validExpense()
		tc.mutate(&e)
		if err := e.Validate(); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}

	e := validExpense()
	e.IsRecurring = true
	e.RecurringEach = Weekly
	if err := e.Validate(); err != nil {
		t.Fatalf("recurring with period: expected ok, got %v", err)
	}
}

func TestIncomeValidate(t *testing.T) {
	good := Income{
		UserID: 1,
		Title:  "June salary",
		Amount: Money{Paise: 5000000},
		Source: SourceSalary,
		Date:   NewDate(2025, time.June, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.Source = "lottery"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{
		UserID:     1,
		CategoryID: 2,
		Amount:     Money{Paise: 100000},
		PeriodType: Monthly,
		StartDate:  NewDate(2025, time.June, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bad := good
	bad.PeriodType = "quarterly"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestPaymentMethodLabel(t *testing.T) {
	cases := []struct {
		method PaymentMethod
		want   string
	}{
		{PayCash, "Cash"},
		{PayCard, "Debit/Credit Card"},
		{PayUPI, "UPI"},
		{PayNetBanking, "Net Banking"},
		{PayWallet, "Digital Wallet"},
		{PayCheque, "Cheque"},
		{PayOther, "Other"},
		{"unknown", "Other"},
	}
	for _, tc := range cases {
		if got := tc.method.Label(); got != tc.want {
			t.Fatalf("Label(%q) = %q, want %q", tc.method, got, tc.want)
		}
	}
}

func TestTagList(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 0},
		{"  ", 0},
		{"food", 1},
		{"food,travel", 2},
		{"food, travel, ,weekend", 3},
	}
	for _, tc := range cases {
		e := Expense{Tags: tc.raw}
		if got := e.TagList(); len(got) != tc.want {
			t.Fatalf("TagList(%q) = %v, want %d tags", tc.raw, got, tc.want)
		}
	}
}

func TestExpenseFilterValidate(t *testing.T) {
	neg := Money{Paise: -100}
	pos := Money{Paise: 100}

	if err := (ExpenseFilter{}).Validate(); err != nil {
		t.Fatalf("empty filter: expected ok, got %v", err)
	}
	if err := (ExpenseFilter{AmountMin: &pos, AmountMax: &pos}).Validate(); err != nil {
		t.Fatalf("positive bounds: expected ok, got %v", err)
	}
	if err := (ExpenseFilter{AmountMin: &neg}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount_min")
	}
	if err := (ExpenseFilter{AmountMax: &neg}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount_max")
	}
	if err := (ExpenseFilter{PaymentMethod: "iou"}).Validate(); err == nil {
		t.Fatalf("expected error for unknown payment method")
	}
}
