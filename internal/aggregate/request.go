package aggregate

import (
	"fmt"
	"strings"

	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/jonathan/payroll-analysis/internal/types"
)

// Dimension selects a grouping field of an earnings record.
type Dimension string

const (
	DimYear               Dimension = "year"
	DimDepartment         Dimension = "department"
	DimDepartmentCategory Dimension = "department_category"
	DimTitle              Dimension = "title"
	DimTitleCategory      Dimension = "title_category"
	DimName               Dimension = "name"
	DimPostal             Dimension = "postal"
)

var dimensions = []Dimension{DimYear, DimDepartment, DimDepartmentCategory, DimTitle, DimTitleCategory, DimName, DimPostal}

// Measure selects a numeric field of an earnings record.
type Measure string

const (
	MeasureTotalGross     Measure = "total_gross"
	MeasureRegular        Measure = "regular"
	MeasureOvertime       Measure = "overtime"
	MeasureDetail         Measure = "detail"
	MeasureOther          Measure = "other"
	MeasureInjured        Measure = "injured"
	MeasureRetro          Measure = "retro"
	MeasureQuinnEducation Measure = "quinn_education"
)

var measures = []Measure{MeasureTotalGross, MeasureRegular, MeasureOvertime, MeasureDetail, MeasureOther, MeasureInjured, MeasureRetro, MeasureQuinnEducation}

// Op is an aggregation operation.
type Op string

const (
	OpSum               Op = "sum"
	OpMean              Op = "mean"
	OpCount             Op = "count"
	OpPercentageOfTotal Op = "percentage_of_total"
	OpMeanRatio         Op = "mean_ratio"
)

var ops = []Op{OpSum, OpMean, OpCount, OpPercentageOfTotal, OpMeanRatio}

// Policy decides how a missing measure value is treated.
type Policy string

const (
	// PolicySkipMissing leaves records with a missing value out of the computation.
	PolicySkipMissing Policy = "skip_missing"
	// PolicyMissingAsZero counts a missing value as 0.
	PolicyMissingAsZero Policy = "missing_as_zero"
)

// Request describes one aggregation.
type Request struct {
	GroupBy     []Dimension `json:"group_by"`
	Measure     Measure     `json:"measure"`
	Denominator Measure     `json:"denominator,omitempty"`
	Op          Op          `json:"op"`
	Policy      Policy      `json:"policy"`
}

// Validate checks that every selector is known and that ratio ops have a denominator.
func (r Request) Validate() error {
	for _, d := range r.GroupBy {
		if !contains(dimensions, d) {
			return &RequestError{Field: "group_by", Message: fmt.Sprintf("unknown dimension %q", d)}
		}
	}
	if r.Measure != "" && !contains(measures, r.Measure) {
		return &RequestError{Field: "measure", Message: fmt.Sprintf("unknown measure %q", r.Measure)}
	}
	if !contains(ops, r.Op) {
		return &RequestError{Field: "op", Message: fmt.Sprintf("unknown op %q", r.Op)}
	}
	if r.Op != OpCount && r.Measure == "" {
		return &RequestError{Field: "measure", Message: fmt.Sprintf("op %s requires a measure", r.Op)}
	}
	if r.Op == OpPercentageOfTotal || r.Op == OpMeanRatio {
		if r.Denominator == "" {
			return &RequestError{Field: "denominator", Message: fmt.Sprintf("op %s requires a denominator", r.Op)}
		}
		if !contains(measures, r.Denominator) {
			return &RequestError{Field: "denominator", Message: fmt.Sprintf("unknown measure %q", r.Denominator)}
		}
	}
	switch r.Policy {
	case "", PolicySkipMissing, PolicyMissingAsZero:
	default:
		return &RequestError{Field: "policy", Message: fmt.Sprintf("unknown policy %q", r.Policy)}
	}
	return nil
}

func (r Request) policy() Policy {
	if r.Policy == "" {
		return PolicySkipMissing
	}
	return r.Policy
}

// ParseDimensions splits a comma-separated dimension list.
func ParseDimensions(s string) ([]Dimension, error) {
	var out []Dimension
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d := Dimension(part)
		if !contains(dimensions, d) {
			return nil, &RequestError{Field: "group_by", Message: fmt.Sprintf("unknown dimension %q", part)}
		}
		out = append(out, d)
	}
	return out, nil
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// dimensionValue renders a grouping field of r.
func dimensionValue(r types.EarningsRecord, d Dimension) string {
	switch d {
	case DimYear:
		return fmt.Sprintf("%d", r.Year)
	case DimDepartment:
		return r.Department
	case DimDepartmentCategory:
		return r.DepartmentCategory
	case DimTitle:
		return r.Title
	case DimTitleCategory:
		return r.TitleCategory
	case DimName:
		return r.Name
	case DimPostal:
		return r.Postal
	}
	return ""
}

// MeasureValue returns a numeric field of r. Only total_gross can be missing.
func MeasureValue(r types.EarningsRecord, m Measure) currency.Amount {
	switch m {
	case MeasureTotalGross:
		return r.TotalGross
	case MeasureRegular:
		return currency.New(r.Regular)
	case MeasureOvertime:
		return currency.New(r.Overtime)
	case MeasureDetail:
		return currency.New(r.Detail)
	case MeasureOther:
		return currency.New(r.Other)
	case MeasureInjured:
		return currency.New(r.Injured)
	case MeasureRetro:
		return currency.New(r.Retro)
	case MeasureQuinnEducation:
		return currency.New(r.QuinnEducation)
	}
	return currency.Missing
}
