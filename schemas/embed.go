// Package schemas embeds the JSON Schemas of the reports written by payroll_agent.
package schemas

import "embed"

// Schema file names.
const (
	LoadReport = "load_report.schema.json"
	LinkReport = "link_report.schema.json"
)

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
