package auth

import "github.com/docuport/console-gateway/internal/domain"

// Section names a console area whose visibility is role-gated.
type Section string

const (
	SectionDashboard  Section = "dashboard"
	SectionDocuments  Section = "documents"
	SectionChat       Section = "chat"
	SectionSignatures Section = "signatures"
	SectionPeople     Section = "people"
	SectionTenants    Section = "tenants"
	SectionSettings   Section = "settings"
)

// invitable is the fixed hierarchy table. Each company role's invitable set
// is a subset of the one above it. The system operator sits outside the
// chain: it administers tenants, not company-internal roles.
var invitable = map[domain.Role][]domain.Role{
	domain.RoleSystemOperator: {},
	domain.RoleHRAdmin:        {domain.RoleHRAdmin, domain.RoleHRManager, domain.RoleEmployee, domain.RoleCustomer},
	domain.RoleHRManager:      {domain.RoleEmployee, domain.RoleCustomer},
	domain.RoleEmployee:       {domain.RoleCustomer},
	domain.RoleCustomer:       {},
}

var sections = map[domain.Role][]Section{
	domain.RoleSystemOperator: {SectionDashboard, SectionDocuments, SectionChat, SectionTenants, SectionSettings},
	domain.RoleHRAdmin:        {SectionDashboard, SectionDocuments, SectionChat, SectionSignatures, SectionPeople, SectionSettings},
	domain.RoleHRManager:      {SectionDashboard, SectionDocuments, SectionChat, SectionSignatures, SectionPeople},
	domain.RoleEmployee:       {SectionDashboard, SectionDocuments, SectionChat, SectionSignatures},
	domain.RoleCustomer:       {SectionDashboard, SectionDocuments, SectionSignatures},
}

// InvitableRoles returns the roles the given role may invite. Unknown roles
// resolve to the empty set.
func InvitableRoles(role domain.Role) []domain.Role {
	set, ok := invitable[role]
	if !ok {
		return nil
	}
	out := make([]domain.Role, len(set))
	copy(out, set)
	return out
}

// CanInvite reports whether actor may invite target into its tenant.
func CanInvite(actor, target domain.Role) bool {
	for _, r := range invitable[actor] {
		if r == target {
			return true
		}
	}
	return false
}

// CanManage reports whether the actor may edit or deactivate the target.
// Self-management is always denied; profile edits go through a separate flow.
func CanManage(actor, target *domain.Identity) bool {
	if actor == nil || target == nil {
		return false
	}
	if actor.ID == target.ID {
		return false
	}
	return CanInvite(actor.Role, target.Role)
}

// CanAdministerTenants reports whether the role manages tenants themselves.
func CanAdministerTenants(role domain.Role) bool {
	return role == domain.RoleSystemOperator
}

// VisibleSections returns the console areas the role may see. Unknown roles
// see nothing.
func VisibleSections(role domain.Role) []Section {
	set, ok := sections[role]
	if !ok {
		return nil
	}
	out := make([]Section, len(set))
	copy(out, set)
	return out
}
