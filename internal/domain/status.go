package domain

import (
	"fmt"
	"strings"
)

// Status is the pipeline stage of an application. It is also the board column.
type Status string

const (
	StatusWishlist     Status = "Wishlist"
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
	StatusGhosting     Status = "Ghosting"
)

// Statuses lists every stage in board column order.
var Statuses = []Status{
	StatusWishlist,
	StatusApplied,
	StatusInterviewing,
	StatusOffer,
	StatusRejected,
	StatusGhosting,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus resolves a stage name case-insensitively ("interviewing" -> Interviewing).
func ParseStatus(raw string) (Status, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range Statuses {
		if strings.EqualFold(raw, string(v)) {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", raw)}
}

type JobType string

const (
	JobTypeInternship JobType = "Internship"
	JobTypeFullTime   JobType = "Full-Time"
	JobTypeContract   JobType = "Contract"
)

var JobTypes = []JobType{JobTypeInternship, JobTypeFullTime, JobTypeContract}

func (t JobType) Valid() bool {
	for _, v := range JobTypes {
		if t == v {
			return true
		}
	}
	return false
}

func ParseJobType(raw string) (JobType, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range JobTypes {
		if strings.EqualFold(raw, string(v)) {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "job_type", Reason: fmt.Sprintf("unknown job type %q", raw)}
}

type Currency string

const (
	CurrencyRM  Currency = "RM"
	CurrencyUSD Currency = "USD"
	CurrencySGD Currency = "SGD"
)

var Currencies = []Currency{CurrencyRM, CurrencyUSD, CurrencySGD}

func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

func ParseCurrency(raw string) (Currency, error) {
	raw = strings.TrimSpace(raw)
	for _, v := range Currencies {
		if strings.EqualFold(raw, string(v)) {
			return v, nil
		}
	}
	return "", &ValidationError{Field: "currency", Reason: fmt.Sprintf("unknown currency %q", raw)}
}
