package store

// Role is a user's access level. Roles are stored on the users table and
// re-resolved from it on every facade call; handlers never pass a role in.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleManager        Role = "manager"
	RoleProjectManager Role = "project_manager"
	RoleEmployee       Role = "employee"
	RoleViewer         Role = "viewer"
)

// Roles lists every valid role, in privilege order.
var Roles = []Role{RoleAdmin, RoleManager, RoleProjectManager, RoleEmployee, RoleViewer}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	for _, r := range Roles {
		if Role(s) == r {
			return true
		}
	}
	return false
}

// opClass groups facade operations that share one authorization rule.
type opClass int

const (
	opManageProjects opClass = iota // create/update/delete project
	opManageTasks                   // create/update/delete/clone task
	opManageEmployees               // create/update/delete employee, link user
	opManageOrgUnits                // organizations and departments
	opAssignEmployees               // rewrite project assignment set
	opChangeRole                    // change another user's role
	opManageUsers                   // list users, link-candidate queries
)

// capabilities is the closed policy table. A missing entry means "no".
var capabilities = map[opClass]map[Role]bool{
	opManageProjects: {
		RoleAdmin:          true,
		RoleProjectManager: true,
	},
	opManageTasks: {
		RoleAdmin:          true,
		RoleProjectManager: true,
	},
	opManageEmployees: {
		RoleAdmin:   true,
		RoleManager: true,
	},
	opManageOrgUnits: {
		RoleAdmin: true,
	},
	opAssignEmployees: {
		RoleAdmin:          true,
		RoleProjectManager: true,
	},
	opChangeRole: {
		RoleAdmin: true,
	},
	opManageUsers: {
		RoleAdmin: true,
	},
}

// roleCan reports whether role holds the capability for op.
func roleCan(role Role, op opClass) bool {
	return capabilities[op][role]
}

// EntryScope is the visibility predicate for time-entry reads and writes.
// When All is false the adapter must add "userId = UserID" to the query
// itself, never filter after retrieval.
type EntryScope struct {
	All    bool
	UserID string
}

// entryScopeFor returns the time-entry scope for a role. Admins, managers and
// project managers operate across all users; employees and viewers only on
// their own entries.
func entryScopeFor(role Role, userID string) EntryScope {
	switch role {
	case RoleAdmin, RoleManager, RoleProjectManager:
		return EntryScope{All: true}
	default:
		return EntryScope{All: false, UserID: userID}
	}
}

// ProjectScope is the visibility predicate for project reads.
// All: no predicate. IncludeOwnedBy non-empty: enterprise-wide rows plus
// rows owned by that user. Otherwise enterprise-wide rows only.
type ProjectScope struct {
	All            bool
	IncludeOwnedBy string
	EnterpriseOnly bool
}

// projectScopeFor returns the project scope for a role. Admins see every
// project; project managers see enterprise-wide plus their own; everyone
// else sees enterprise-wide projects only.
func projectScopeFor(role Role, userID string) ProjectScope {
	switch role {
	case RoleAdmin:
		return ProjectScope{All: true}
	case RoleProjectManager:
		return ProjectScope{IncludeOwnedBy: userID}
	default:
		return ProjectScope{EnterpriseOnly: true}
	}
}
