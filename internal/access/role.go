// Package access decides which cases a dashboard user may see. The result is
// advisory UI filtering, not a security boundary.
package access

import (
	"fmt"
	"strings"
)

// Role is the closed set of dashboard roles.
type Role uint8

const (
	// RoleNone means no role was supplied; it is unrestricted.
	RoleNone Role = iota
	RoleAdmin
	RoleInternalLegalLead
	RoleExternalLawyer
	RoleHR
	RolePayroll
	RoleSales
	RoleLogistics
	RoleFleet

	roleCount

	// RoleUnknown is the parse result for names outside the enumeration.
	RoleUnknown Role = 255
)

var roleNames = [roleCount]string{
	RoleNone:              "",
	RoleAdmin:             "admin",
	RoleInternalLegalLead: "internal_legal_lead",
	RoleExternalLawyer:    "external_lawyer",
	RoleHR:                "hr",
	RolePayroll:           "dp",
	RoleSales:             "sales",
	RoleLogistics:         "logistics",
	RoleFleet:             "fleet",
}

var roleLabels = [roleCount]string{
	RoleNone:              "Sem papel",
	RoleAdmin:             "Administrador",
	RoleInternalLegalLead: "Responsável Jurídico Interno",
	RoleExternalLawyer:    "Advogado Externo",
	RoleHR:                "RH",
	RolePayroll:           "DP",
	RoleSales:             "Vendas",
	RoleLogistics:         "Logística",
	RoleFleet:             "Frota",
}

// Roles returns every named role, RoleNone excluded.
func Roles() []Role {
	out := make([]Role, 0, roleCount-1)
	for r := RoleAdmin; r < roleCount; r++ {
		out = append(out, r)
	}
	return out
}

// ParseRole maps a wire name to a Role. The empty string is RoleNone;
// any other unrecognized name is RoleUnknown with an error.
func ParseRole(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, name := range roleNames {
		if name == s {
			return Role(r), nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) valid() bool { return r < roleCount }

func (r Role) String() string {
	if !r.valid() {
		return "unknown"
	}
	return roleNames[r]
}

// Label is the pt-BR display name.
func (r Role) Label() string {
	if !r.valid() {
		return "Desconhecido"
	}
	return roleLabels[r]
}

// Unrestricted reports whether the role sees every case.
func (r Role) Unrestricted() bool {
	return r == RoleNone || r == RoleAdmin || r == RoleInternalLegalLead
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
