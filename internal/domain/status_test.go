package domain

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "exact", input: "Applied", want: StatusApplied},
		{name: "lowercase", input: "interviewing", want: StatusInterviewing},
		{name: "padded", input: "  offer ", want: StatusOffer},
		{name: "unknown", input: "Hired", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("ParseStatus(%q) error = %v, want ErrValidation", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatus(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStatusesColumnOrder(t *testing.T) {
	want := []Status{"Wishlist", "Applied", "Interviewing", "Offer", "Rejected", "Ghosting"}
	if len(Statuses) != len(want) {
		t.Fatalf("len(Statuses) = %d, want %d", len(Statuses), len(want))
	}
	for i := range want {
		if Statuses[i] != want[i] {
			t.Errorf("Statuses[%d] = %q, want %q", i, Statuses[i], want[i])
		}
	}
}

func TestEnumValid(t *testing.T) {
	if Status("wishlist").Valid() {
		t.Error("Valid() should be case-sensitive")
	}
	if !JobTypeFullTime.Valid() || JobType("Part-Time").Valid() {
		t.Error("JobType.Valid() mismatch")
	}
	if !CurrencySGD.Valid() || Currency("EUR").Valid() {
		t.Error("Currency.Valid() mismatch")
	}
}
