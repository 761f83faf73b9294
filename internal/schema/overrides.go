package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AliasFile is the YAML layout for alias overrides:
//
//	earnings:
//	  aliases:
//	    "TOTAL PAY": TOTAL_GROSS
//	  years:
//	    2012:
//	      "OTHER PAY": OTHER
//	roster:
//	  aliases:
//	    "SURNAME": LAST_NAME
type AliasFile struct {
	Earnings AliasOverrides `yaml:"earnings"`
	Roster   AliasOverrides `yaml:"roster"`
	Overtime AliasOverrides `yaml:"overtime"`
}

// AliasOverrides adds aliases to one built-in table.
type AliasOverrides struct {
	Aliases map[string]string         `yaml:"aliases"`
	Years   map[int]map[string]string `yaml:"years"`
}

// Apply registers the overrides on t.
func (o AliasOverrides) Apply(t *AliasTable) {
	for header, field := range o.Aliases {
		t.Add(header, Field(CleanHeader(field)))
	}
	for year, aliases := range o.Years {
		for header, field := range aliases {
			t.AddForYear(year, header, Field(CleanHeader(field)))
		}
	}
}

// Tables bundles the three alias tables used by the loaders.
type Tables struct {
	Earnings *AliasTable
	Roster   *AliasTable
	Overtime *AliasTable
}

// DefaultTables returns the built-in alias tables with no overrides.
func DefaultTables() Tables {
	return Tables{
		Earnings: EarningsAliases(),
		Roster:   RosterAliases(),
		Overtime: OvertimeAliases(),
	}
}

// ParseAliasFile decodes alias overrides from YAML bytes.
func ParseAliasFile(data []byte) (*AliasFile, error) {
	var f AliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &OverrideError{Message: "failed to parse YAML", Cause: err}
	}
	return &f, nil
}

// LoadAliasFile reads the override file at path and applies it on top of the built-in tables.
// An empty path returns the defaults.
func LoadAliasFile(path string) (Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, &OverrideError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	f, err := ParseAliasFile(data)
	if err != nil {
		return tables, err
	}

	f.Earnings.Apply(tables.Earnings)
	f.Roster.Apply(tables.Roster)
	f.Overtime.Apply(tables.Overtime)
	return tables, nil
}
