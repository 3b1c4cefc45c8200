package access

import "github.com/dukerupert/siag/internal/model"

type caseRule func(c *model.Case, user string) bool

func allowAll(*model.Case, string) bool { return true }

func sectorRule(s model.Sector) caseRule {
	return func(c *model.Case, _ string) bool {
		return c.ResponsibleSector == s
	}
}

func responsibleOrSector(s model.Sector) caseRule {
	return func(c *model.Case, user string) bool {
		return c.Responsible == user || c.ResponsibleSector == s
	}
}

// caseRules holds one entry per role. Adding a role without a rule breaks
// the length assertion below at compile time.
var caseRules = [...]caseRule{
	RoleNone:              allowAll,
	RoleAdmin:             allowAll,
	RoleInternalLegalLead: allowAll,
	RoleExternalLawyer: func(c *model.Case, user string) bool {
		return c.Lawyer == user
	},
	RoleHR:        responsibleOrSector(model.SectorHR),
	RolePayroll:   responsibleOrSector(model.SectorPayroll),
	RoleSales:     sectorRule(model.SectorSales),
	RoleLogistics: sectorRule(model.SectorLogistics),
	RoleFleet:     sectorRule(model.SectorFleet),
}

var _ = [1]struct{}{}[len(caseRules)-int(roleCount)]

// CanSeeCase reports whether user, acting as role, may see c. A nil case is
// never visible and roles outside the enumeration fail closed.
func CanSeeCase(c *model.Case, user string, role Role) bool {
	if c == nil {
		return false
	}
	if !role.valid() {
		return false
	}
	rule := caseRules[role]
	if rule == nil {
		return false
	}
	return rule(c, user)
}

// SectorOnly reports whether the role sees tasks only through assignment.
func SectorOnly(role Role) bool {
	switch role {
	case RoleSales, RoleLogistics, RoleFleet:
		return true
	}
	return false
}
