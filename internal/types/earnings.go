// Package types provides the canonical record and dataset types shared by the payroll analysis stages.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/jonathan/payroll-analysis/internal/currency"
	"github.com/shopspring/decimal"
)

// Component names a pay component column of an earnings report.
type Component string

// Pay components in display order.
const (
	ComponentRegular        Component = "REGULAR"
	ComponentOvertime       Component = "OVERTIME"
	ComponentDetail         Component = "DETAIL"
	ComponentQuinnEducation Component = "QUINN_EDUCATION"
	ComponentInjured        Component = "INJURED"
	ComponentRetro          Component = "RETRO"
	ComponentOther          Component = "OTHER"
)

// Components lists every pay component in display order.
var Components = []Component{
	ComponentRegular,
	ComponentOvertime,
	ComponentDetail,
	ComponentQuinnEducation,
	ComponentInjured,
	ComponentRetro,
	ComponentOther,
}

// EarningsRecord is one employee-year row of an earnings report.
// Records are values; derived fields are set through the With* methods which return a copy.
type EarningsRecord struct {
	Name               string          `json:"name"`
	Department         string          `json:"department"`
	DepartmentCategory string          `json:"department_category,omitempty"`
	Title              string          `json:"title,omitempty"`
	TitleCategory      string          `json:"title_category,omitempty"`
	Postal             string          `json:"postal,omitempty"`
	TotalGross         currency.Amount `json:"total_gross"`
	Regular            decimal.Decimal `json:"regular"`
	Overtime           decimal.Decimal `json:"overtime"`
	Detail             decimal.Decimal `json:"detail"`
	Other              decimal.Decimal `json:"other"`
	Injured            decimal.Decimal `json:"injured"`
	Retro              decimal.Decimal `json:"retro"`
	QuinnEducation     decimal.Decimal `json:"quinn_education"`
	Year               int             `json:"year"`
	Row                int             `json:"row"`
}

// WithDepartmentCategory returns a copy of r with the department bucket set.
func (r EarningsRecord) WithDepartmentCategory(category string) EarningsRecord {
	r.DepartmentCategory = category
	return r
}

// WithTitleCategory returns a copy of r with the title bucket set.
func (r EarningsRecord) WithTitleCategory(category string) EarningsRecord {
	r.TitleCategory = category
	return r
}

// Component returns the amount for one pay component.
func (r EarningsRecord) Component(c Component) decimal.Decimal {
	switch c {
	case ComponentRegular:
		return r.Regular
	case ComponentOvertime:
		return r.Overtime
	case ComponentDetail:
		return r.Detail
	case ComponentQuinnEducation:
		return r.QuinnEducation
	case ComponentInjured:
		return r.Injured
	case ComponentRetro:
		return r.Retro
	case ComponentOther:
		return r.Other
	}
	return decimal.Zero
}

// ComponentSum adds every pay component.
func (r EarningsRecord) ComponentSum() decimal.Decimal {
	sum := decimal.Zero
	for _, c := range Components {
		sum = sum.Add(r.Component(c))
	}
	return sum
}

// PersonKey identifies a person within a year: name, department and year.
type PersonKey struct {
	Name       string
	Department string
	Year       int
}

// PersonKey returns the duplicate-detection key of r.
func (r EarningsRecord) PersonKey() PersonKey {
	return PersonKey{Name: r.Name, Department: r.Department, Year: r.Year}
}
