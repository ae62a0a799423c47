package notification

// Role is a stakeholder that can receive workflow notifications
type Role string

const (
	RoleBuyer           Role = "buyer"
	RoleExporter        Role = "exporter"
	RoleLandInspector   Role = "land_inspector"
	RoleWarehouse       Role = "warehouse"
	RoleRegulatorDDGOTS Role = "regulator_ddgots"
	RoleRegulatorDDGAF  Role = "regulator_ddgaf"
	RolePortInspector   Role = "port_inspector"
)

// AllRoles returns the closed set of roles in a stable order
func AllRoles() []Role {
	return []Role{
		RoleBuyer,
		RoleExporter,
		RoleLandInspector,
		RoleWarehouse,
		RoleRegulatorDDGOTS,
		RoleRegulatorDDGAF,
		RolePortInspector,
	}
}

// IsValid reports whether r belongs to the closed role set
func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleExporter, RoleLandInspector, RoleWarehouse,
		RoleRegulatorDDGOTS, RoleRegulatorDDGAF, RolePortInspector:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string into a Role, reporting false for unknown roles
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
