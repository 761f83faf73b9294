package schema

// Field is a canonical column name.
type Field string

// Earnings report fields.
const (
	FieldName           Field = "NAME"
	FieldDepartmentName Field = "DEPARTMENT_NAME"
	FieldTitle          Field = "TITLE"
	FieldRegular        Field = "REGULAR"
	FieldRetro          Field = "RETRO"
	FieldOther          Field = "OTHER"
	FieldOvertime       Field = "OVERTIME"
	FieldInjured        Field = "INJURED"
	FieldDetail         Field = "DETAIL"
	FieldQuinnEducation Field = "QUINN_EDUCATION"
	FieldTotalGross     Field = "TOTAL_GROSS"
	FieldPostal         Field = "POSTAL"
)

// Roster fields.
const (
	FieldLastName      Field = "LAST_NAME"
	FieldFirstName     Field = "FIRST_NAME"
	FieldSex           Field = "SEX"
	FieldEthnicGroup   Field = "ETHNIC_GROUP"
	FieldJobTitle      Field = "JOB_TITLE"
	FieldHourlyRate    Field = "HOURLY_RATE"
	FieldMonthlyRate   Field = "MONTHLY_RATE"
	FieldAnnualRate    Field = "ANNUAL_RATE"
	FieldEffectiveDate Field = "EFFECTIVE_DATE"
)

// Overtime log fields.
const (
	FieldEmployeeID  Field = "EMPLOYEE_ID"
	FieldRank        Field = "RANK"
	FieldAssignment  Field = "ASSIGNED_DESC"
	FieldOTDate      Field = "OT_DATE"
	FieldOTHours     Field = "OT_HOURS"
	FieldHoursWorked Field = "HOURS_WORKED"
	FieldHoursPaid   Field = "HOURS_PAID"
)

// EarningsNumericFields lists the currency columns of an earnings report.
var EarningsNumericFields = []Field{
	FieldRegular,
	FieldRetro,
	FieldOther,
	FieldOvertime,
	FieldInjured,
	FieldDetail,
	FieldQuinnEducation,
	FieldTotalGross,
}

// EarningsRequired are the fields an earnings file cannot be loaded without.
var EarningsRequired = []Field{FieldDepartmentName, FieldTotalGross}

// RosterRequired are the fields a roster file cannot be loaded without.
var RosterRequired = []Field{FieldLastName, FieldFirstName}

// earningsAliases maps cleaned header spellings seen across report years.
var earningsAliases = map[string]Field{
	"NAME":                      FieldName,
	"DEPARTMENT":                FieldDepartmentName,
	"DEPARTMENT_NAME":           FieldDepartmentName,
	"TITLE":                     FieldTitle,
	"REGULAR":                   FieldRegular,
	"RETRO":                     FieldRetro,
	"OTHER":                     FieldOther,
	"OVERTIME":                  FieldOvertime,
	"INJURED":                   FieldInjured,
	"DETAIL":                    FieldDetail,
	"DETAILS":                   FieldDetail,
	"QUINN":                     FieldQuinnEducation,
	"QUINN_EDUCATION":           FieldQuinnEducation,
	"QUINN/EDUCATION_INCENTIVE": FieldQuinnEducation,
	"TOTAL_EARNINGS":            FieldTotalGross,
	"TOTAL_GROSS":               FieldTotalGross,
	"POSTAL":                    FieldPostal,
	"ZIP":                       FieldPostal,
}

// rosterAliases maps the personnel roster spellings.
var rosterAliases = map[string]Field{
	"LAST":           FieldLastName,
	"LAST_NAME":      FieldLastName,
	"FIRST":          FieldFirstName,
	"FIRST_NAME":     FieldFirstName,
	"SEX":            FieldSex,
	"GENDER":         FieldSex,
	"ETHNIC_GRP":     FieldEthnicGroup,
	"ETHNIC_GROUP":   FieldEthnicGroup,
	"JOB_TITLE":      FieldJobTitle,
	"TITLE":          FieldJobTitle,
	"HOURLY_RATE":    FieldHourlyRate,
	"HOURLY_RT":      FieldHourlyRate,
	"MONTHLY_RATE":   FieldMonthlyRate,
	"MONTHLY_RT":     FieldMonthlyRate,
	"ANNUAL_RATE":    FieldAnnualRate,
	"ANNUAL_RT":      FieldAnnualRate,
	"EFF_DATE":       FieldEffectiveDate,
	"EFFECTIVE_DATE": FieldEffectiveDate,
}

// overtimeAliases covers both the OTHOURS logs and the older hours-worked exports.
var overtimeAliases = map[string]Field{
	"ID":            FieldEmployeeID,
	"EMP._ID":       FieldEmployeeID,
	"EMP_ID":        FieldEmployeeID,
	"EMPLOYEE_ID":   FieldEmployeeID,
	"RANK":          FieldRank,
	"ASSIGNED_DESC": FieldAssignment,
	"ASSIGNED":      FieldAssignment,
	"OTDATE":        FieldOTDate,
	"OT_DATE":       FieldOTDate,
	"OTHOURS":       FieldOTHours,
	"OT_HOURS":      FieldOTHours,
	"HOURS_WORKED":  FieldHoursWorked,
	"HOURS_PAID":    FieldHoursPaid,
}

// EarningsAliases returns a fresh alias table for earnings reports.
func EarningsAliases() *AliasTable {
	return NewAliasTable("earnings", earningsAliases)
}

// RosterAliases returns a fresh alias table for the personnel roster.
func RosterAliases() *AliasTable {
	return NewAliasTable("roster", rosterAliases)
}

// OvertimeAliases returns a fresh alias table for overtime logs.
func OvertimeAliases() *AliasTable {
	return NewAliasTable("overtime", overtimeAliases)
}
