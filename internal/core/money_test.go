package core

import "testing"

func TestParseDecimalToPaise(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"0.01", 1, true},
		{"0", 0, true},
		{" 950.00 ", 95000, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{".5", 50, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"12a", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToPaise(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("ParseDecimalToPaise(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToPaise(%q) expected error", tc.in)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("ParseDecimalToPaise(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	cases := []struct {
		paise int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{0, "0.00"},
		{-1234, "-12.34"},
	}
	for _, tc := range cases {
		if got := (Money{Paise: tc.paise}).Decimal(); got != tc.want {
			t.Fatalf("Decimal(%d) = %q, want %q", tc.paise, got, tc.want)
		}
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a := Money{Paise: 95000}
	b := Money{Paise: 100000}
	if got := b.Sub(a); got.Paise != 5000 {
		t.Fatalf("Sub = %d, want 5000", got.Paise)
	}
	if got := a.Sub(b); got.Paise != -5000 {
		t.Fatalf("Sub below zero = %d, want -5000", got.Paise)
	}
	if got := a.Add(b); got.Paise != 195000 {
		t.Fatalf("Add = %d, want 195000", got.Paise)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Paise: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Paise: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if err := (Money{Paise: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}
