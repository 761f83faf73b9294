package types

import (
	"strings"
	"time"

	"github.com/jonathan/payroll-analysis/internal/currency"
)

// Sex is the roster's binary sex indicator, with an explicit unknown for unparseable input.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

// ParseSex reads "M"/"F" (or "Male"/"Female") in any case.
func ParseSex(raw string) Sex {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "M", "MALE":
		return SexMale
	case "F", "FEMALE":
		return SexFemale
	}
	return SexUnknown
}

// Indicator returns 1 for male and 0 for female. ok is false when unknown.
func (s Sex) Indicator() (v int, ok bool) {
	switch s {
	case SexMale:
		return 1, true
	case SexFemale:
		return 0, true
	}
	return 0, false
}

// Label returns a display label.
func (s Sex) Label() string {
	switch s {
	case SexMale:
		return "Male"
	case SexFemale:
		return "Female"
	}
	return "Unknown"
}

// EthnicGroup is the roster's ethnic group code.
type EthnicGroup string

const (
	EthnicAsian    EthnicGroup = "ASIAN"
	EthnicWhite    EthnicGroup = "WHITE"
	EthnicHispanic EthnicGroup = "HISPA"
	EthnicBlack    EthnicGroup = "BLACK"
	EthnicAmerInd  EthnicGroup = "AMIND"
	EthnicNotSpec  EthnicGroup = "NSPEC"
	EthnicUnknown  EthnicGroup = "UNKNOWN"
)

// EthnicGroups lists the known codes in display order, unknown last.
var EthnicGroups = []EthnicGroup{
	EthnicAsian,
	EthnicWhite,
	EthnicHispanic,
	EthnicBlack,
	EthnicAmerInd,
	EthnicNotSpec,
	EthnicUnknown,
}

// ParseEthnicGroup maps a roster code onto the closed set. Anything else is EthnicUnknown.
func ParseEthnicGroup(raw string) EthnicGroup {
	code := EthnicGroup(strings.ToUpper(strings.TrimSpace(raw)))
	switch code {
	case EthnicAsian, EthnicWhite, EthnicHispanic, EthnicBlack, EthnicAmerInd, EthnicNotSpec:
		return code
	case "HISPANIC":
		return EthnicHispanic
	}
	return EthnicUnknown
}

// Label returns a display label.
func (g EthnicGroup) Label() string {
	switch g {
	case EthnicAsian:
		return "Asian"
	case EthnicWhite:
		return "White"
	case EthnicHispanic:
		return "Hispanic"
	case EthnicBlack:
		return "Black"
	case EthnicAmerInd:
		return "American Indian"
	case EthnicNotSpec:
		return "Not Specified"
	}
	return "Unknown"
}

// RosterRecord is one employee's entry in the personnel roster.
// LastName and FirstName hold the comparison form: trimmed, whitespace-collapsed, uppercased.
type RosterRecord struct {
	LastName             string          `json:"last_name"`
	FirstName            string          `json:"first_name"`
	Sex                  Sex             `json:"sex"`
	EthnicGroup          EthnicGroup     `json:"ethnic_group"`
	JobTitle             string          `json:"job_title"`
	JobTitleCategory     string          `json:"job_title_category,omitempty"`
	JobTitleRank         int             `json:"job_title_rank"`
	HourlyRate           currency.Amount `json:"hourly_rate"`
	MonthlyRate          currency.Amount `json:"monthly_rate"`
	AnnualRate           currency.Amount `json:"annual_rate"`
	EffectiveDate        *time.Time      `json:"effective_date,omitempty"`
	MonthsSinceEffective *int            `json:"months_since_effective,omitempty"`
	Row                  int             `json:"row"`
}

// WithJobTitleRank returns a copy of r with the title bucket and its ordinal set.
func (r RosterRecord) WithJobTitleRank(category string, rank int) RosterRecord {
	r.JobTitleCategory = category
	r.JobTitleRank = rank
	return r
}

// MonthsBetween counts whole calendar months from start to end. It is negative when end precedes start.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months > 0 && end.Day() < start.Day() {
		months--
	} else if months < 0 && end.Day() > start.Day() {
		months++
	}
	return months
}
