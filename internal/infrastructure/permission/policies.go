package permission

import (
	"github.com/csiqueira956/cflow-gestor-backend-sub002/internal/domain/user"
)

const (
	ResourceLead         = "lead"
	ResourceUser         = "user"
	ResourceFile         = "file"
	ResourceSubscription = "subscription"
)

const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionCancel = "cancel"
)

// DefaultPolicies is the baseline granted to each tenant role.
func DefaultPolicies() [][]string {
	admin := string(user.RoleAdmin)
	manager := string(user.RoleManager)
	seller := string(user.RoleSeller)

	return [][]string{
		// Admin manages the whole tenant
		{admin, ResourceLead, ActionRead},
		{admin, ResourceLead, ActionCreate},
		{admin, ResourceLead, ActionUpdate},
		{admin, ResourceLead, ActionDelete},
		{admin, ResourceUser, ActionRead},
		{admin, ResourceUser, ActionCreate},
		{admin, ResourceUser, ActionDelete},
		{admin, ResourceFile, ActionRead},
		{admin, ResourceFile, ActionCreate},
		{admin, ResourceFile, ActionDelete},
		{admin, ResourceSubscription, ActionRead},
		{admin, ResourceSubscription, ActionUpdate},
		{admin, ResourceSubscription, ActionCancel},

		// Manager runs the board but not the team roster or billing
		{manager, ResourceLead, ActionRead},
		{manager, ResourceLead, ActionCreate},
		{manager, ResourceLead, ActionUpdate},
		{manager, ResourceLead, ActionDelete},
		{manager, ResourceUser, ActionRead},
		{manager, ResourceFile, ActionRead},
		{manager, ResourceFile, ActionCreate},
		{manager, ResourceFile, ActionDelete},
		{manager, ResourceSubscription, ActionRead},

		// Seller works leads
		{seller, ResourceLead, ActionRead},
		{seller, ResourceLead, ActionCreate},
		{seller, ResourceLead, ActionUpdate},
		{seller, ResourceUser, ActionRead},
		{seller, ResourceFile, ActionRead},
		{seller, ResourceFile, ActionCreate},
		{seller, ResourceFile, ActionDelete},
		{seller, ResourceSubscription, ActionRead},
	}
}

// SeedDefaultPolicies adds any missing default rule. Rules already stored,
// including extra grants added by an operator, are left untouched.
func (e *Enforcer) SeedDefaultPolicies() error {
	for _, p := range DefaultPolicies() {
		if err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}
	e.logger.Infow("default permissions seeded", "rules", len(DefaultPolicies()))
	return nil
}
