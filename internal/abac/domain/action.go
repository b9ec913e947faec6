package domain

import "slices"

// Action is an operation subject to authorization. The vocabulary is fixed.
type Action string

const (
	ActionCaseView        Action = "case.view"
	ActionCaseCreate      Action = "case.create"
	ActionCaseAssignJudge Action = "case.assign.judge"
	ActionUserCreate      Action = "user.create"
	ActionUserEdit        Action = "user.edit"
	ActionUserDeactivate  Action = "user.deactivate"
	ActionUserList        Action = "user.list"
	ActionAdminABAC       Action = "admin.abac"
	ActionVaultResolve    Action = "vault.resolve"
	ActionVaultAudit      Action = "vault.audit"
)

// Attribute names referenced by the action catalog and by clearance checks.
const (
	AttrViewCases         = "view_cases"
	AttrCreateCases       = "create_cases"
	AttrAssignCases       = "assign_cases"
	AttrManageUsers       = "manage_users"
	AttrViewUsers         = "view_users"
	AttrManageABAC        = "manage_abac"
	AttrResolveIdentities = "resolve_identities"
	AttrViewAuditLog      = "view_audit_log"
)

var actionAttributes = map[Action]string{
	ActionCaseView:        AttrViewCases,
	ActionCaseCreate:      AttrCreateCases,
	ActionCaseAssignJudge: AttrAssignCases,
	ActionUserCreate:      AttrManageUsers,
	ActionUserEdit:        AttrManageUsers,
	ActionUserDeactivate:  AttrManageUsers,
	ActionUserList:        AttrViewUsers,
	ActionAdminABAC:       AttrManageABAC,
	ActionVaultResolve:    AttrResolveIdentities,
	ActionVaultAudit:      AttrViewAuditLog,
}

// RequiredAttribute returns the attribute an allow rule must reference for the action.
func (a Action) RequiredAttribute() (string, bool) {
	name, ok := actionAttributes[a]
	return name, ok
}

// IsValid reports whether the action belongs to the catalog.
func (a Action) IsValid() bool {
	_, ok := actionAttributes[a]
	return ok
}

// Actions returns the catalog in a stable order.
func Actions() []Action {
	actions := make([]Action, 0, len(actionAttributes))
	for a := range actionAttributes {
		actions = append(actions, a)
	}
	slices.Sort(actions)
	return actions
}
