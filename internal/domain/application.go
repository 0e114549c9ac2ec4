package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// JobApplication is one tracked application. ID, CreatedAt and UpdatedAt are owned by the store.
type JobApplication struct {
	ID        string    `json:"id"`
	Company   string    `json:"company"`
	Role      string    `json:"role"`
	Status    Status    `json:"status"`
	JobType   JobType   `json:"job_type"`
	Salary    *float64  `json:"salary"`
	Currency  Currency  `json:"currency"`
	Location  string    `json:"location"`
	JobLink   string    `json:"job_link"`
	Benefits  string    `json:"benefits"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers can hand records across goroutines.
func (a JobApplication) Clone() JobApplication {
	if a.Salary != nil {
		s := *a.Salary
		a.Salary = &s
	}
	return a
}

// Fields is the create payload.
type Fields struct {
	Company  string   `json:"company" yaml:"company" validate:"required,max=200"`
	Role     string   `json:"role" yaml:"role" validate:"required,max=200"`
	Status   Status   `json:"status" yaml:"status" validate:"jobstatus"`
	JobType  JobType  `json:"job_type" yaml:"job_type" validate:"jobtype"`
	Salary   *float64 `json:"salary" yaml:"salary" validate:"omitnil,gte=0"`
	Currency Currency `json:"currency" yaml:"currency" validate:"currency"`
	Location string   `json:"location" yaml:"location" validate:"max=200"`
	JobLink  string   `json:"job_link" yaml:"job_link" validate:"max=2048"`
	Benefits string   `json:"benefits" yaml:"benefits" validate:"max=2000"`
	Notes    string   `json:"notes" yaml:"notes" validate:"max=10000"`
}

// Normalize trims every free-text field in place.
func (f *Fields) Normalize() {
	f.Company = strings.TrimSpace(f.Company)
	f.Role = strings.TrimSpace(f.Role)
	f.Location = strings.TrimSpace(f.Location)
	f.JobLink = strings.TrimSpace(f.JobLink)
	f.Benefits = strings.TrimSpace(f.Benefits)
	f.Notes = strings.TrimSpace(f.Notes)
}

// WithDefaults fills status, job type and currency when they are unset.
func (f Fields) WithDefaults() Fields {
	if f.Status == "" {
		f.Status = StatusWishlist
	}
	if f.JobType == "" {
		f.JobType = JobTypeFullTime
	}
	if f.Currency == "" {
		f.Currency = CurrencyRM
	}
	return f
}

// Prepare normalizes, applies defaults and validates. Callers use the returned value.
func (f Fields) Prepare() (Fields, error) {
	f.Normalize()
	f = f.WithDefaults()
	if err := f.Validate(); err != nil {
		return Fields{}, err
	}
	return f, nil
}

func (f Fields) Validate() error {
	if err := validate.Struct(f); err != nil {
		return translate(err, "")
	}
	return nil
}

// Record builds a stored record from validated fields.
func (f Fields) Record(id string, now time.Time) JobApplication {
	rec := JobApplication{
		ID:        id,
		Company:   f.Company,
		Role:      f.Role,
		Status:    f.Status,
		JobType:   f.JobType,
		Currency:  f.Currency,
		Location:  f.Location,
		JobLink:   f.JobLink,
		Benefits:  f.Benefits,
		Notes:     f.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if f.Salary != nil {
		s := *f.Salary
		rec.Salary = &s
	}
	return rec
}

// OptionalAmount tells an absent salary apart from an explicit null, which clears it.
type OptionalAmount struct {
	Set    bool
	Amount *float64
}

// SetAmount returns a present value; nil clears.
func SetAmount(v *float64) OptionalAmount {
	return OptionalAmount{Set: true, Amount: v}
}

func (o OptionalAmount) IsZero() bool { return !o.Set }

func (o *OptionalAmount) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Amount = nil
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Amount = &v
	return nil
}

func (o OptionalAmount) MarshalJSON() ([]byte, error) {
	if o.Amount == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Amount)
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Company  *string        `json:"company,omitempty"`
	Role     *string        `json:"role,omitempty"`
	Status   *Status        `json:"status,omitempty"`
	JobType  *JobType       `json:"job_type,omitempty"`
	Salary   OptionalAmount `json:"salary,omitzero"`
	Currency *Currency      `json:"currency,omitempty"`
	Location *string        `json:"location,omitempty"`
	JobLink  *string        `json:"job_link,omitempty"`
	Benefits *string        `json:"benefits,omitempty"`
	Notes    *string        `json:"notes,omitempty"`
}

// StatusPatch is the payload issued for a column move.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s}
}

func (p Patch) IsEmpty() bool {
	return p.Company == nil && p.Role == nil && p.Status == nil && p.JobType == nil &&
		!p.Salary.Set && p.Currency == nil && p.Location == nil && p.JobLink == nil &&
		p.Benefits == nil && p.Notes == nil
}

// OnlyStatus reports whether the patch carries a status change and nothing else.
func (p Patch) OnlyStatus() bool {
	if p.Status == nil {
		return false
	}
	q := p
	q.Status = nil
	return q.IsEmpty()
}

func (p *Patch) Normalize() {
	for _, s := range []*string{p.Company, p.Role, p.Location, p.JobLink, p.Benefits, p.Notes} {
		if s != nil {
			*s = strings.TrimSpace(*s)
		}
	}
}

// Validate checks only the fields present in the patch.
func (p Patch) Validate() error {
	if p.Company != nil {
		if err := checkVar("company", *p.Company, "required,max=200"); err != nil {
			return err
		}
	}
	if p.Role != nil {
		if err := checkVar("role", *p.Role, "required,max=200"); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := checkVar("status", string(*p.Status), "jobstatus"); err != nil {
			return err
		}
	}
	if p.JobType != nil {
		if err := checkVar("job_type", string(*p.JobType), "jobtype"); err != nil {
			return err
		}
	}
	if p.Salary.Set && p.Salary.Amount != nil {
		if err := checkVar("salary", *p.Salary.Amount, "gte=0"); err != nil {
			return err
		}
	}
	if p.Currency != nil {
		if err := checkVar("currency", string(*p.Currency), "currency"); err != nil {
			return err
		}
	}
	optional := []struct {
		field string
		value *string
		tag   string
	}{
		{"location", p.Location, "max=200"},
		{"job_link", p.JobLink, "max=2048"},
		{"benefits", p.Benefits, "max=2000"},
		{"notes", p.Notes, "max=10000"},
	}
	for _, o := range optional {
		if o.value == nil {
			continue
		}
		if err := checkVar(o.field, *o.value, o.tag); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the present fields onto rec. Timestamps are left to the caller.
func (p Patch) Apply(rec *JobApplication) {
	if p.Company != nil {
		rec.Company = *p.Company
	}
	if p.Role != nil {
		rec.Role = *p.Role
	}
	if p.Status != nil {
		rec.Status = *p.Status
	}
	if p.JobType != nil {
		rec.JobType = *p.JobType
	}
	if p.Salary.Set {
		rec.Salary = nil
		if p.Salary.Amount != nil {
			s := *p.Salary.Amount
			rec.Salary = &s
		}
	}
	if p.Currency != nil {
		rec.Currency = *p.Currency
	}
	if p.Location != nil {
		rec.Location = *p.Location
	}
	if p.JobLink != nil {
		rec.JobLink = *p.JobLink
	}
	if p.Benefits != nil {
		rec.Benefits = *p.Benefits
	}
	if p.Notes != nil {
		rec.Notes = *p.Notes
	}
}
