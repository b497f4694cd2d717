package recommend

// FieldCategories 目标专业 → 院校开设专业关键词
var FieldCategories = map[string][]string{
	"Computer Science / IT":    {"Computer Science", "IT", "Information Technology", "Software", "Data", "AI", "Machine Learning"},
	"Engineering":              {"Engineering", "Mechanical", "Electrical", "Civil", "Software Engineering"},
	"Data Science / Analytics": {"Data Science", "Data Analytics", "Analytics", "Statistics", "Big Data"},
	"Business / MBA":           {"Business", "MBA", "Commerce", "Management", "Accounting", "Finance"},
	"Medicine / Public Health": {"Medicine", "Healthcare", "Public Health", "Nursing", "Pharmacy"},
	"Arts / Design":            {"Arts", "Design", "Humanities", "Liberal Arts", "Fine Arts"},
	"Law":                      {"Law", "Legal Studies"},
}

// MajorToFields 本科专业 → 可能的目标专业
var MajorToFields = map[string][]string{
	"Computer Science":         {"Computer Science / IT", "Data Science / Analytics"},
	"Engineering / Technology": {"Engineering", "Computer Science / IT"},
	"Science":                  {"Data Science / Analytics", "Medicine / Public Health"},
	"Business / Commerce":      {"Business / MBA"},
	"Arts / Humanities":        {"Arts / Design", "Law"},
	"Medicine / Healthcare":    {"Medicine / Public Health"},
	"Law":                      {"Law"},
}

// 学术成绩分类词
var (
	academicHighWords = []string{"excellent", "distinction", "first class", "outstanding", "high"}
	academicMidWords  = []string{"good", "average", "medium", "second class", "merit"}
	academicLowWords  = []string{"low", "poor", "pass", "below average", "third class"}
)
