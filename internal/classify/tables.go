package classify

// Title categories, highest rank first.
const (
	TitleCommissioner = "Commissioner"
	TitleSupnInChief  = "Supn-In Chief"
	TitleSupnBPD      = "Supn BPD"
	TitleDepSupn      = "Dep Supn"
	TitleCaptain      = "Captain"
	TitleLieutenant   = "Lieutenant"
	TitleSergeant     = "Sergeant"
	TitleDetective    = "Detective"
	TitleOfficer      = "Officer"
)

// Department categories.
const (
	DepartmentPolice         = "Police"
	DepartmentFire           = "Fire"
	DepartmentSchools        = "Schools"
	DepartmentLibrary        = "Library"
	DepartmentPublicWorks    = "Public Works"
	DepartmentParks          = "Parks"
	DepartmentTransportation = "Transportation"
)

// TitleTable ranks police job titles. Rule order doubles as the rank ordinal:
// Commissioner is 0 and Other is last. A title naming two ranks buckets under the
// higher one, so "Sergeant Detective" is a Sergeant.
func TitleTable() *Table {
	return NewTable("title", []Rule{
		KeywordRule(TitleCommissioner, "commissioner"),
		KeywordRule(TitleSupnInChief, "supn-in chief", "supn in chief"),
		{Category: TitleSupnBPD, Match: All(Keywords("supn bpd"), Not(Keywords("dep supn")))},
		KeywordRule(TitleDepSupn, "dep supn"),
		KeywordRule(TitleCaptain, "captain"),
		KeywordRule(TitleLieutenant, "lieutenant"),
		KeywordRule(TitleSergeant, "sergeant"),
		KeywordRule(TitleDetective, "detective"),
		KeywordRule(TitleOfficer, "officer"),
	}, Other)
}

// DepartmentTable buckets department names.
func DepartmentTable() *Table {
	return NewTable("department", []Rule{
		KeywordRule(DepartmentPolice, "police", "bpd"),
		KeywordRule(DepartmentFire, "fire", "bfd"),
		KeywordRule(DepartmentSchools, "bps", "school"),
		KeywordRule(DepartmentLibrary, "library"),
		KeywordRule(DepartmentPublicWorks, "public works"),
		KeywordRule(DepartmentParks, "parks"),
		KeywordRule(DepartmentTransportation, "transportation"),
	}, Other)
}
