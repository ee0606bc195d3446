// Package orgcode is the single source of truth for department and position
// codes. Handlers and services must not keep their own name/code maps.
package orgcode

const (
	DeptBusiness        = "BD" // 業務部
	DeptConsumerFinance = "FD" // 消金部
	DeptLoan            = "LD" // 借貸部

	PosManager    = "M" // 經理
	PosSupervisor = "S" // 主管
	PosStaff      = "C" // 科員

	RoleUser  = "user"
	RoleAdmin = "admin"
)

var departmentNames = map[string]string{
	DeptBusiness:        "業務部",
	DeptConsumerFinance: "消金部",
	DeptLoan:            "借貸部",
}

var positionNames = map[string]string{
	PosManager:    "經理",
	PosSupervisor: "主管",
	PosStaff:      "科員",
}

var positionRanks = map[string]int{
	PosStaff:      1,
	PosSupervisor: 2,
	PosManager:    3,
}

// NormalizeDepartment accepts either a code or a display name and returns the
// canonical code.
func NormalizeDepartment(v string) (string, bool) {
	if _, ok := departmentNames[v]; ok {
		return v, true
	}
	for code, name := range departmentNames {
		if name == v {
			return code, true
		}
	}
	return "", false
}

// NormalizePosition accepts either a code or a display name and returns the
// canonical code.
func NormalizePosition(v string) (string, bool) {
	if _, ok := positionNames[v]; ok {
		return v, true
	}
	for code, name := range positionNames {
		if name == v {
			return code, true
		}
	}
	return "", false
}

func DepartmentName(code string) string {
	return departmentNames[code]
}

func PositionName(code string) string {
	return positionNames[code]
}

// AccountPrefix returns the three letter prefix used for provisioned account
// names, e.g. BD manager -> "BDM".
func AccountPrefix(department, position string) (string, bool) {
	dept, ok := NormalizeDepartment(department)
	if !ok {
		return "", false
	}
	pos, ok := NormalizePosition(position)
	if !ok {
		return "", false
	}
	return dept + pos, true
}

func PositionRank(position string) int {
	return positionRanks[position]
}

// RankAtLeast reports whether position sits at or above min in the
// C < S < M ladder. Unknown codes always rank below.
func RankAtLeast(position, min string) bool {
	pr, ok := positionRanks[position]
	if !ok {
		return false
	}
	mr, ok := positionRanks[min]
	if !ok {
		return false
	}
	return pr >= mr
}

func Departments() []string {
	return []string{DeptBusiness, DeptConsumerFinance, DeptLoan}
}

func Positions() []string {
	return []string{PosManager, PosSupervisor, PosStaff}
}
