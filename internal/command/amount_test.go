package command

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"plain", "50000", 50000, false},
		{"thousand k", "50k", 50000, false},
		{"thousand K upper", "50K", 50000, false},
		{"thousand word", "3 nghìn", 3000, false},
		{"million tr", "2tr", 2000000, false},
		{"million word", "2 triệu", 2000000, false},
		{"grouped dots", "50.000", 50000, false},
		{"grouped commas", "1,000k", 1000000, false},
		{"decimal via grouping", "1.5k", 15000, false},
		{"garbage", "abc", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadAmount) {
					t.Errorf("ParseAmount(%q) err = %v, want ErrBadAmount", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) err = %v", tt.in, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitAmountContent(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		wantAmount string
		wantNote   string
	}{
		{"amount and note", "50k tiền ăn trưa", "50k", "ăn trưa"},
		{"amount only", "200k", "200k", ""},
		{"million with note", "2tr tiền nhà", "2tr", "nhà"},
		{"no amount", "chưa rõ bao nhiêu", "", "chưa rõ bao nhiêu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, note := SplitAmountContent(tt.in)
			if amount != tt.wantAmount || note != tt.wantNote {
				t.Errorf("SplitAmountContent(%q) = (%q, %q), want (%q, %q)",
					tt.in, amount, note, tt.wantAmount, tt.wantNote)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{500, "500"},
		{50000, "50.000"},
		{2000000, "2.000.000"},
		{-70000, "-70.000"},
	}
	for _, tt := range tests {
		if got := formatAmount(tt.in); got != tt.want {
			t.Errorf("formatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
