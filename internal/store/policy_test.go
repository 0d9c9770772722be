package store

import (
	"testing"
)

func TestValidRole(t *testing.T) {
	for _, r := range Roles {
		if !ValidRole(string(r)) {
			t.Errorf("ValidRole(%q) = false, expected true", r)
		}
	}
	if ValidRole("superuser") {
		t.Error("ValidRole(\"superuser\") should be false")
	}
	if ValidRole("") {
		t.Error("ValidRole(\"\") should be false")
	}
	if ValidRole("Admin") {
		t.Error("role names are case sensitive")
	}
}

func TestRoleCan_ProjectManagement(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleAdmin, true},
		{RoleProjectManager, true},
		{RoleManager, false},
		{RoleEmployee, false},
		{RoleViewer, false},
	}
	for _, c := range cases {
		if got := roleCan(c.role, opManageProjects); got != c.want {
			t.Errorf("roleCan(%s, opManageProjects) = %v, expected %v", c.role, got, c.want)
		}
		if got := roleCan(c.role, opManageTasks); got != c.want {
			t.Errorf("roleCan(%s, opManageTasks) = %v, expected %v", c.role, got, c.want)
		}
		if got := roleCan(c.role, opAssignEmployees); got != c.want {
			t.Errorf("roleCan(%s, opAssignEmployees) = %v, expected %v", c.role, got, c.want)
		}
	}
}

func TestRoleCan_EmployeeManagement(t *testing.T) {
	if !roleCan(RoleAdmin, opManageEmployees) {
		t.Error("admin should manage employees")
	}
	if !roleCan(RoleManager, opManageEmployees) {
		t.Error("manager should manage employees")
	}
	if roleCan(RoleProjectManager, opManageEmployees) {
		t.Error("project manager should not manage employees")
	}
	if roleCan(RoleEmployee, opManageEmployees) {
		t.Error("employee should not manage employees")
	}
}

func TestRoleCan_AdminOnly(t *testing.T) {
	adminOnly := []opClass{opManageOrgUnits, opChangeRole, opManageUsers}
	for _, op := range adminOnly {
		if !roleCan(RoleAdmin, op) {
			t.Errorf("admin should hold capability %d", op)
		}
		for _, r := range []Role{RoleManager, RoleProjectManager, RoleEmployee, RoleViewer} {
			if roleCan(r, op) {
				t.Errorf("role %s should not hold capability %d", r, op)
			}
		}
	}
}

func TestEntryScopeFor(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleProjectManager} {
		scope := entryScopeFor(r, "u1")
		if !scope.All {
			t.Errorf("entryScopeFor(%s) should be unscoped", r)
		}
	}
	for _, r := range []Role{RoleEmployee, RoleViewer} {
		scope := entryScopeFor(r, "u1")
		if scope.All {
			t.Errorf("entryScopeFor(%s) should be restricted", r)
		}
		if scope.UserID != "u1" {
			t.Errorf("entryScopeFor(%s).UserID = %q, expected u1", r, scope.UserID)
		}
	}
}

func TestProjectScopeFor(t *testing.T) {
	admin := projectScopeFor(RoleAdmin, "u1")
	if !admin.All {
		t.Error("admin project scope should be unscoped")
	}

	pm := projectScopeFor(RoleProjectManager, "pm1")
	if pm.All {
		t.Error("project manager scope should not be unscoped")
	}
	if pm.IncludeOwnedBy != "pm1" {
		t.Errorf("project manager scope IncludeOwnedBy = %q, expected pm1", pm.IncludeOwnedBy)
	}

	for _, r := range []Role{RoleManager, RoleEmployee, RoleViewer} {
		scope := projectScopeFor(r, "u1")
		if scope.All || scope.IncludeOwnedBy != "" {
			t.Errorf("role %s should only see enterprise-wide projects", r)
		}
		if !scope.EnterpriseOnly {
			t.Errorf("role %s scope should be enterprise-only", r)
		}
	}
}

func TestStatsScopeFor(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleProjectManager} {
		if !statsScopeFor(r, "u1").All {
			t.Errorf("statsScopeFor(%s) should be unscoped", r)
		}
	}
	// Managers see all entries in listings but only their own headline stats.
	for _, r := range []Role{RoleManager, RoleEmployee, RoleViewer} {
		scope := statsScopeFor(r, "u1")
		if scope.All {
			t.Errorf("statsScopeFor(%s) should be restricted", r)
		}
		if scope.UserID != "u1" {
			t.Errorf("statsScopeFor(%s).UserID = %q, expected u1", r, scope.UserID)
		}
	}
}
