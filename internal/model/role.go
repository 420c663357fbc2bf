package model

import "strings"

// Role is the closed set of personas that can be selected inside a store
type Role string

const (
	RoleFacility Role = "FACILITY"
	RoleSafety   Role = "SAFETY"
	RoleSales    Role = "SALES"
	RoleSupport  Role = "SUPPORT"
)

// Capability describes everything that differs between roles.
// Behavior that depends on the role must consult this table instead of
// branching on the role value.
type Capability struct {
	FieldRole         bool   `json:"field_role"`
	ValidatesWorkType bool   `json:"validates_work_type"`
	Label             string `json:"label"`
	ShortLabel        string `json:"short_label"`
	InspectorName     string `json:"inspector_name"`
	AccentColor       string `json:"accent_color"`
}

var capabilities = map[Role]Capability{
	RoleFacility: {
		FieldRole:     true,
		Label:         "Facility Inspection",
		ShortLabel:    "Facility",
		InspectorName: "Facility Inspector",
		AccentColor:   "blue",
	},
	RoleSafety: {
		FieldRole:         true,
		ValidatesWorkType: true,
		Label:             "Safety Inspection",
		ShortLabel:        "Safety",
		InspectorName:     "Safety Manager",
		AccentColor:       "emerald",
	},
	RoleSales: {
		FieldRole:     true,
		Label:         "Sales Inspection",
		ShortLabel:    "Sales",
		InspectorName: "Sales Manager",
		AccentColor:   "purple",
	},
	RoleSupport: {
		Label:       "Monitoring Center",
		ShortLabel:  "Support",
		AccentColor: "slate",
	},
}

// FieldRoles lists the inspector roles in their display order
var FieldRoles = []Role{RoleFacility, RoleSafety, RoleSales}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, ok := capabilities[r]
	return ok
}

// Capability returns the capability row for r; unknown roles get the zero value
func (r Role) Capability() Capability {
	return capabilities[r]
}

// IsFieldRole reports whether r submits inspection logs
func (r Role) IsFieldRole() bool {
	return capabilities[r].FieldRole
}

// ParseRole converts user input into a Role. Case and surrounding space
// are ignored.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}
