package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RuleConfig is one keyword rule in a tables file.
type RuleConfig struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
	Exclude  []string `yaml:"exclude,omitempty"`
}

// TableConfig is one table in a tables file.
type TableConfig struct {
	Name    string       `yaml:"name"`
	Default string       `yaml:"default"`
	Rules   []RuleConfig `yaml:"rules"`
}

// TablesFile is the YAML layout:
//
//	tables:
//	  - name: title
//	    default: Other
//	    rules:
//	      - category: Captain
//	        keywords: [captain, capt]
type TablesFile struct {
	Tables []TableConfig `yaml:"tables"`
}

// Build converts the config into a Table.
func (c TableConfig) Build() (*Table, error) {
	if c.Name == "" {
		return nil, &TableError{Message: "table name is required"}
	}
	rules := make([]Rule, 0, len(c.Rules))
	for i, rc := range c.Rules {
		if rc.Category == "" {
			return nil, &TableError{Message: fmt.Sprintf("table %s rule %d: category is required", c.Name, i)}
		}
		if len(rc.Keywords) == 0 {
			return nil, &TableError{Message: fmt.Sprintf("table %s rule %s: at least one keyword is required", c.Name, rc.Category)}
		}
		match := Keywords(rc.Keywords...)
		if len(rc.Exclude) > 0 {
			match = All(match, Not(Keywords(rc.Exclude...)))
		}
		rules = append(rules, Rule{Category: rc.Category, Match: match})
	}
	return NewTable(c.Name, rules, c.Default), nil
}

// ParseTables decodes a tables file and builds every table, keyed by name.
func ParseTables(data []byte) (map[string]*Table, error) {
	var f TablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &TableError{Message: "failed to parse YAML", Cause: err}
	}
	out := make(map[string]*Table, len(f.Tables))
	for _, tc := range f.Tables {
		t, err := tc.Build()
		if err != nil {
			return nil, err
		}
		out[t.Name] = t
	}
	return out, nil
}

// LoadTables reads a tables file. Tables named "department" or "title" replace the built-in
// ones; an empty path returns the built-ins.
func LoadTables(path string) (department *Table, title *Table, err error) {
	department, title = DepartmentTable(), TitleTable()
	if path == "" {
		return department, title, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &TableError{Message: fmt.Sprintf("failed to read %s", path), Cause: err}
	}
	tables, err := ParseTables(data)
	if err != nil {
		return nil, nil, err
	}
	if t, ok := tables["department"]; ok {
		department = t
	}
	if t, ok := tables["title"]; ok {
		title = t
	}
	return department, title, nil
}
