package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func ptr[T any](v T) *T { return &v }

func TestFieldsPrepare(t *testing.T) {
	tests := []struct {
		name      string
		in        Fields
		wantField string
	}{
		{name: "minimal", in: Fields{Company: "Acme", Role: "Engineer"}},
		{name: "blank company", in: Fields{Company: "   ", Role: "Engineer"}, wantField: "company"},
		{name: "missing role", in: Fields{Company: "Acme"}, wantField: "role"},
		{name: "bad status", in: Fields{Company: "Acme", Role: "Eng", Status: "Hired"}, wantField: "status"},
		{name: "bad job type", in: Fields{Company: "Acme", Role: "Eng", JobType: "Gig"}, wantField: "job_type"},
		{name: "bad currency", in: Fields{Company: "Acme", Role: "Eng", Currency: "EUR"}, wantField: "currency"},
		{name: "negative salary", in: Fields{Company: "Acme", Role: "Eng", Salary: ptr(-1.0)}, wantField: "salary"},
		{name: "zero salary", in: Fields{Company: "Acme", Role: "Eng", Salary: ptr(0.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Prepare()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Prepare() unexpected error: %v", err)
				}
				return
			}
			ve, ok := AsValidation(err)
			if !ok {
				t.Fatalf("Prepare() error = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
			}
			if !errors.Is(err, ErrValidation) {
				t.Error("ValidationError should unwrap to ErrValidation")
			}
		})
	}
}

func TestFieldsDefaults(t *testing.T) {
	got, err := Fields{Company: " Acme ", Role: "Engineer"}.Prepare()
	if err != nil {
		t.Fatalf("Prepare() unexpected error: %v", err)
	}
	if got.Company != "Acme" {
		t.Errorf("Company = %q, want trimmed", got.Company)
	}
	if got.Status != StatusWishlist || got.JobType != JobTypeFullTime || got.Currency != CurrencyRM {
		t.Errorf("defaults = (%s, %s, %s), want (Wishlist, Full-Time, RM)", got.Status, got.JobType, got.Currency)
	}
}

func TestPatchApply(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	base := Fields{Company: "Acme", Role: "Engineer", Salary: ptr(5000.0), Notes: "old"}.WithDefaults().Record("id-1", now)

	t.Run("only present fields change", func(t *testing.T) {
		rec := base.Clone()
		Patch{Notes: ptr("new")}.Apply(&rec)
		if rec.Notes != "new" || rec.Company != "Acme" || rec.Salary == nil || *rec.Salary != 5000 {
			t.Errorf("Apply() = %+v", rec)
		}
	})

	t.Run("null salary clears", func(t *testing.T) {
		rec := base.Clone()
		Patch{Salary: SetAmount(nil)}.Apply(&rec)
		if rec.Salary != nil {
			t.Errorf("Salary = %v, want nil", *rec.Salary)
		}
	})

	t.Run("clone does not alias salary", func(t *testing.T) {
		rec := base.Clone()
		*rec.Salary = 1
		if *base.Salary != 5000 {
			t.Error("Clone() shares the salary pointer")
		}
	})
}

func TestPatchJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantSet    bool
		wantAmount *float64
	}{
		{name: "absent", body: `{"notes":"x"}`},
		{name: "null", body: `{"salary":null}`, wantSet: true},
		{name: "value", body: `{"salary":4200.5}`, wantSet: true, wantAmount: ptr(4200.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Patch
			if err := json.Unmarshal([]byte(tt.body), &p); err != nil {
				t.Fatalf("Unmarshal() error: %v", err)
			}
			if p.Salary.Set != tt.wantSet {
				t.Errorf("Salary.Set = %v, want %v", p.Salary.Set, tt.wantSet)
			}
			if (p.Salary.Amount == nil) != (tt.wantAmount == nil) {
				t.Fatalf("Salary.Amount = %v, want %v", p.Salary.Amount, tt.wantAmount)
			}
			if tt.wantAmount != nil && *p.Salary.Amount != *tt.wantAmount {
				t.Errorf("Salary.Amount = %v, want %v", *p.Salary.Amount, *tt.wantAmount)
			}
		})
	}

	out, err := json.Marshal(StatusPatch(StatusApplied))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(out) != `{"status":"Applied"}` {
		t.Errorf("Marshal(StatusPatch) = %s", out)
	}
}

func TestPatchValidate(t *testing.T) {
	tests := []struct {
		name      string
		patch     Patch
		wantField string
	}{
		{name: "empty", patch: Patch{}},
		{name: "notes only", patch: Patch{Notes: ptr("called back")}},
		{name: "blank company", patch: Patch{Company: ptr("")}, wantField: "company"},
		{name: "bad status", patch: Patch{Status: ptr(Status("Done"))}, wantField: "status"},
		{name: "negative salary", patch: Patch{Salary: SetAmount(ptr(-5.0))}, wantField: "salary"},
		{name: "clear salary", patch: Patch{Salary: SetAmount(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			ve, ok := AsValidation(err)
			if !ok || ve.Field != tt.wantField {
				t.Errorf("Validate() error = %v, want field %q", err, tt.wantField)
			}
		})
	}
}

func TestPatchOnlyStatus(t *testing.T) {
	if !StatusPatch(StatusOffer).OnlyStatus() {
		t.Error("StatusPatch should be OnlyStatus")
	}
	p := StatusPatch(StatusOffer)
	p.Notes = ptr("x")
	if p.OnlyStatus() {
		t.Error("patch with notes should not be OnlyStatus")
	}
	if (Patch{}).OnlyStatus() {
		t.Error("empty patch should not be OnlyStatus")
	}
}
