// Package record reconciles loosely-shaped contract records into one canonical schema.
//
// Upstream services deliver contracts with mixed key conventions (camelCase and
// snake_case), synonymous field names, nested or flat party objects and numbers
// encoded as strings. Reconcile applies an ordered alias table once, at the
// boundary, so that rendering code never branches on alternate spellings again.
//
// Missing data is represented, never signaled: text fields that are always
// printed default to Placeholder, optional collections stay empty and dates stay
// zero.
package record

import (
	"time"

	"github.com/alnah/go-leasepdf/internal/dateutil"
)

// Placeholder is printed in place of any missing display text.
const Placeholder = "[Chưa cập nhật]"

// DefaultPaymentDay is the day of month rent is due when the record is silent.
const DefaultPaymentDay = 5

// UtilityType classifies a meter reading.
type UtilityType string

// Utility types.
const (
	UtilityElectric UtilityType = "electric"
	UtilityWater    UtilityType = "water"
)

// Contract is the canonical contract record.
// Parties[0] is the lessor, Parties[1] the primary lessee, the rest co-occupants.
type Contract struct {
	ID              string
	Parties         []Party
	Room            Room
	Start           time.Time
	End             time.Time
	Terms           Terms
	Utilities       []UtilityReading
	Notes           string
	Documents       []string
	LessorSignature Signature
	LesseeSignature Signature
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CanceledAt      time.Time
	Status          string
}

// Party is one contracting person.
// Present is false for placeholder parties synthesized for a missing role.
type Party struct {
	Name          string
	IDNumber      string
	IDIssuedDate  time.Time
	IDIssuedPlace string
	BirthDate     time.Time
	Phone         string
	Email         string
	Address       string
	IDCard        IDCard
	Present       bool
}

// IDCard holds image references for both sides of an identity card.
type IDCard struct {
	Front string
	Back  string
}

// HasImages reports whether at least one side has an image reference.
func (c IDCard) HasImages() bool {
	return c.Front != "" || c.Back != ""
}

// Room describes the leased premises.
type Room struct {
	Name         string
	Address      string
	Area         float64 // square meters, 0 = unknown
	MaxOccupants int     // 0 = unknown
	Price        int64
}

// Terms holds the monetary terms of the lease, in VND.
type Terms struct {
	MonthlyRent   int64
	Deposit       int64
	PaymentDay    int
	PaymentMethod string
	ElectricRate  int64
	WaterRate     int64
	ServiceFee    int64
}

// UtilityReading is one meter reading with its billed total.
type UtilityReading struct {
	Type      UtilityType
	Previous  float64
	Current   float64
	UnitPrice int64
	Total     int64
}

// Consumption returns the metered quantity, never negative.
func (u UtilityReading) Consumption() float64 {
	if u.Current < u.Previous {
		return 0
	}
	return u.Current - u.Previous
}

// Signature is a signature image reference with the time it was made.
type Signature struct {
	Image    string
	SignedAt time.Time
}

// Term is the lease duration derived from the interval.
type Term struct {
	Months     int // calendar month difference between start and end
	ApproxDays int // Months * 30
	Days       int // exact day count, end inclusive
}

// placeholderParty stands in for a missing role.
func placeholderParty() Party {
	return Party{
		Name:     Placeholder,
		IDNumber: Placeholder,
		Phone:    Placeholder,
		Address:  Placeholder,
	}
}

// Lessor returns the first party or a placeholder.
func (c *Contract) Lessor() Party {
	if len(c.Parties) > 0 {
		return c.Parties[0]
	}
	return placeholderParty()
}

// Lessee returns the second party or a placeholder.
func (c *Contract) Lessee() Party {
	if len(c.Parties) > 1 {
		return c.Parties[1]
	}
	return placeholderParty()
}

// HasLessee reports whether a real primary lessee was supplied.
func (c *Contract) HasLessee() bool {
	return len(c.Parties) > 1 && c.Parties[1].Present
}

// CoOccupants returns the parties after the primary lessee.
func (c *Contract) CoOccupants() []Party {
	if len(c.Parties) <= 2 {
		return nil
	}
	return c.Parties[2:]
}

// Term derives the lease duration. Zero when either bound is missing.
func (c *Contract) Term() Term {
	if c.Start.IsZero() || c.End.IsZero() {
		return Term{}
	}
	months := dateutil.MonthsBetween(c.Start, c.End)
	return Term{
		Months:     months,
		ApproxDays: months * 30,
		Days:       dateutil.DaysInclusive(c.Start, c.End),
	}
}

// Readings returns the readings of one utility type, in input order.
func (c *Contract) Readings(t UtilityType) []UtilityReading {
	var out []UtilityReading
	for _, u := range c.Utilities {
		if u.Type == t {
			out = append(out, u)
		}
	}
	return out
}

// UtilitiesTotal sums the billed totals of all readings.
func (c *Contract) UtilitiesTotal() int64 {
	var sum int64
	for _, u := range c.Utilities {
		sum += u.Total
	}
	return sum
}

// Canceled reports whether the contract carries a cancellation.
func (c *Contract) Canceled() bool {
	return !c.CanceledAt.IsZero() || c.Status == "canceled" || c.Status == "cancelled"
}
