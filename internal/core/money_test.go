package core

import (
	"encoding/json"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 0, false}, // only a dot separator is accepted
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"180.50", 18050, true},
		{"-1", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{180.50, 18050},
		{60, 6000},
		{899.99, 89999},
		{0, 0},
		{-12.5, -1250},
		{10.555, 1056}, // rounds away from zero
	}
	for _, tc := range cases {
		if got := MoneyFromFloat(tc.in); got.Cents != tc.out {
			t.Errorf("MoneyFromFloat(%v) = %d, want %d", tc.in, got.Cents, tc.out)
		}
	}
}

func TestMoneyRupees(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{18050, "₹180.50"},
		{0, "₹0.00"},
		{6000, "₹60.00"},
		{100000, "₹1,000.00"},
		{123456789, "₹12,34,567.89"}, // en-IN grouping: 3 then 2s
		{12345678901, "₹12,34,56,789.01"},
		{-6000, "-₹60.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Rupees(); got != tc.want {
			t.Errorf("Rupees(%d) = %q, want %q", tc.cents, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(Money{Cents: 18050})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "180.50" {
		t.Fatalf("marshal = %s, want 180.50", b)
	}

	var m Money
	if err := json.Unmarshal([]byte("180.5"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 18050 {
		t.Fatalf("unmarshal cents = %d, want 18050", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"abc"`), &m); err == nil {
		t.Fatal("expected error for quoted amount")
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	for _, cents := range []int64{1, 99, 100, 18050, 89999, 129900, -50} {
		b, err := json.Marshal(Money{Cents: cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", cents, err)
		}
		var m Money
		if err := json.Unmarshal(b, &m); err != nil {
			t.Fatalf("unmarshal %s: %v", b, err)
		}
		if m.Cents != cents {
			t.Fatalf("round trip %d -> %s -> %d", cents, b, m.Cents)
		}
	}
}
