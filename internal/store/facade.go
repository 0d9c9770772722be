package store

import (
	"context"
	"time"

	"github.com/nvallee/timetracker/backend/internal/models"
	"github.com/nvallee/timetracker/backend/pkg/logger"
)

// Facade is the single entry point for all data access. Every call resolves
// the acting user's role from storage, applies the policy table, then runs
// the backend operation through the retry wrapper. Handlers pass the acting
// user's ID only; roles never travel in from the transport layer.
type Facade struct {
	adapter Adapter
	loc     *time.Location
	now     func() time.Time // swapped in tests
}

// New builds a facade over an adapter. loc is the deployment timezone used
// for all calendar-date math; nil falls back to UTC.
func New(adapter Adapter, loc *time.Location) *Facade {
	if loc == nil {
		loc = time.UTC
	}
	return &Facade{adapter: adapter, loc: loc, now: time.Now}
}

// run wraps a value-returning adapter call in the retry loop.
func run[T any](ctx context.Context, op string, fn func() (T, error)) (T, error) {
	var out T
	err := withRetry(ctx, op, func() error {
		var e error
		out, e = fn()
		return e
	})
	return out, err
}

// resolveRole loads the acting user and returns their role. Unknown users
// act with the least-privileged default so a stale session can never
// escalate.
func (f *Facade) resolveRole(ctx context.Context, userID string) (Role, error) {
	u, err := run(ctx, "get user", func() (*models.User, error) {
		return f.adapter.GetUser(ctx, userID)
	})
	if err != nil {
		if IsNotFound(err) {
			return RoleEmployee, nil
		}
		return "", err
	}
	if ValidRole(u.Role) {
		return Role(u.Role), nil
	}
	return RoleEmployee, nil
}

func (f *Facade) require(ctx context.Context, actorID string, op opClass, what string) (Role, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return "", err
	}
	if !roleCan(role, op) {
		return role, PermissionDenied("role " + string(role) + " may not " + what)
	}
	return role, nil
}

// audit records a sensitive operation. Failures are logged and swallowed so
// an audit-trail hiccup never fails the operation itself.
func (f *Facade) audit(ctx context.Context, action, entity, entityID, message, actorID string) {
	entry := &models.AuditLog{
		Level:     "info",
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Message:   message,
		UserID:    actorID,
		CreatedAt: f.now(),
	}
	if err := f.adapter.InsertAuditLog(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("action", action).Msg("audit log write failed")
	}
}

func validDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}

// --- Users ---

func (f *Facade) GetUser(ctx context.Context, id string) (*models.User, error) {
	return run(ctx, "get user", func() (*models.User, error) {
		return f.adapter.GetUser(ctx, id)
	})
}

func (f *Facade) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return run(ctx, "get user by email", func() (*models.User, error) {
		return f.adapter.GetUserByEmail(ctx, email)
	})
}

// UpsertUser creates or refreshes the user row for a login. The role in the
// input applies on first insert only; an existing row keeps its assigned
// role, and the login timestamp is always refreshed.
func (f *Facade) UpsertUser(ctx context.Context, input UpsertUserInput) (*models.User, error) {
	if input.ID == "" {
		return nil, Invalid("user id is required")
	}
	if input.Email == "" {
		return nil, Invalid("email is required")
	}
	role := input.Role
	if role == "" {
		role = string(RoleEmployee)
	}
	if !ValidRole(role) {
		return nil, Invalid("unknown role: " + role)
	}
	now := f.now()
	u := &models.User{
		ID:              input.ID,
		Email:           input.Email,
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		ProfileImageURL: input.ProfileImageURL,
		Role:            role,
		IsActive:        true,
		PasswordHash:    input.PasswordHash,
		LastLoginAt:     &now,
	}
	return run(ctx, "upsert user", func() (*models.User, error) {
		return f.adapter.UpsertUser(ctx, u)
	})
}

// UpdateUserRole changes another user's role. Admin only; an admin cannot
// strip their own admin role, so the system always keeps at least the actor
// as admin.
func (f *Facade) UpdateUserRole(ctx context.Context, actorID, targetID, role string) (*models.User, error) {
	if !ValidRole(role) {
		return nil, Invalid("unknown role: " + role)
	}
	if _, err := f.require(ctx, actorID, opChangeRole, "change user roles"); err != nil {
		return nil, err
	}
	if actorID == targetID && Role(role) != RoleAdmin {
		return nil, PermissionDenied("admins cannot remove their own admin role")
	}
	u, err := run(ctx, "update user role", func() (*models.User, error) {
		return f.adapter.UpdateUserRole(ctx, targetID, role)
	})
	if err != nil {
		return nil, err
	}
	f.audit(ctx, "user.role_change", "user", targetID, "role set to "+role, actorID)
	return u, nil
}

func (f *Facade) GetAllUsers(ctx context.Context, actorID string) ([]models.User, error) {
	if _, err := f.require(ctx, actorID, opManageUsers, "list users"); err != nil {
		return nil, err
	}
	return run(ctx, "list users", func() ([]models.User, error) {
		return f.adapter.ListUsers(ctx)
	})
}

// GetUsersWithoutEmployeeProfile lists accounts not yet linked to an
// employee record, the candidate set for the link operation.
func (f *Facade) GetUsersWithoutEmployeeProfile(ctx context.Context, actorID string) ([]models.User, error) {
	if _, err := f.require(ctx, actorID, opManageUsers, "list users"); err != nil {
		return nil, err
	}
	return run(ctx, "list unlinked users", func() ([]models.User, error) {
		return f.adapter.ListUsersWithoutEmployee(ctx)
	})
}

// --- Projects ---

func visibleProject(scope ProjectScope, p *models.Project) bool {
	if scope.All {
		return true
	}
	if p.IsEnterpriseWide {
		return true
	}
	return scope.IncludeOwnedBy != "" && p.UserID == scope.IncludeOwnedBy
}

func (f *Facade) GetProjects(ctx context.Context, actorID string) ([]models.Project, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	scope := projectScopeFor(role, actorID)
	return run(ctx, "list projects", func() ([]models.Project, error) {
		return f.adapter.ListProjects(ctx, scope)
	})
}

// GetProject returns a project if it is inside the caller's visibility.
// A project outside the scope is reported as not found, indistinguishable
// from an absent row.
func (f *Facade) GetProject(ctx context.Context, actorID, id string) (*models.Project, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	scope := projectScopeFor(role, actorID)
	p, err := run(ctx, "get project", func() (*models.Project, error) {
		return f.adapter.GetProject(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if !visibleProject(scope, p) {
		return nil, NotFound("project")
	}
	return p, nil
}

func (f *Facade) CreateProject(ctx context.Context, actorID string, input CreateProjectInput) (*models.Project, error) {
	if _, err := f.require(ctx, actorID, opManageProjects, "create projects"); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, Invalid("project name is required")
	}
	p := &models.Project{
		Name:             input.Name,
		ProjectNumber:    input.ProjectNumber,
		Description:      input.Description,
		Color:            input.Color,
		StartDate:        input.StartDate,
		EndDate:          input.EndDate,
		IsEnterpriseWide: true,
		UserID:           actorID,
	}
	if p.Color == "" {
		p.Color = "#1976D2"
	}
	if input.IsEnterpriseWide != nil {
		p.IsEnterpriseWide = *input.IsEnterpriseWide
	}
	return run(ctx, "create project", func() (*models.Project, error) {
		return f.adapter.CreateProject(ctx, p)
	})
}

func (f *Facade) UpdateProject(ctx context.Context, actorID, id string, patch ProjectPatch) (*models.Project, error) {
	if _, err := f.require(ctx, actorID, opManageProjects, "update projects"); err != nil {
		return nil, err
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, Invalid("project name cannot be empty")
	}
	return run(ctx, "update project", func() (*models.Project, error) {
		return f.adapter.UpdateProject(ctx, id, patch)
	})
}

func (f *Facade) DeleteProject(ctx context.Context, actorID, id string) error {
	if _, err := f.require(ctx, actorID, opManageProjects, "delete projects"); err != nil {
		return err
	}
	err := withRetry(ctx, "delete project", func() error {
		return f.adapter.DeleteProject(ctx, id)
	})
	if err != nil {
		return err
	}
	f.audit(ctx, "project.delete", "project", id, "project deleted", actorID)
	return nil
}

// --- Tasks ---

func (f *Facade) GetTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	return run(ctx, "list tasks", func() ([]models.Task, error) {
		return f.adapter.ListTasks(ctx, projectID)
	})
}

func (f *Facade) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return run(ctx, "get task", func() (*models.Task, error) {
		return f.adapter.GetTask(ctx, id)
	})
}

func validTaskStatus(s string) bool {
	switch s {
	case models.TaskStatusActive, models.TaskStatusCompleted, models.TaskStatusArchived:
		return true
	}
	return false
}

func (f *Facade) CreateTask(ctx context.Context, actorID string, input CreateTaskInput) (*models.Task, error) {
	if _, err := f.require(ctx, actorID, opManageTasks, "create tasks"); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, Invalid("task name is required")
	}
	status := input.Status
	if status == "" {
		status = models.TaskStatusActive
	}
	if !validTaskStatus(status) {
		return nil, Invalid("unknown task status: " + status)
	}
	if _, err := run(ctx, "get project", func() (*models.Project, error) {
		return f.adapter.GetProject(ctx, input.ProjectID)
	}); err != nil {
		return nil, err
	}
	t := &models.Task{
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		Description: input.Description,
		Status:      status,
	}
	return run(ctx, "create task", func() (*models.Task, error) {
		return f.adapter.CreateTask(ctx, t)
	})
}

func (f *Facade) UpdateTask(ctx context.Context, actorID, id string, patch TaskPatch) (*models.Task, error) {
	if _, err := f.require(ctx, actorID, opManageTasks, "update tasks"); err != nil {
		return nil, err
	}
	if patch.Status != nil && !validTaskStatus(*patch.Status) {
		return nil, Invalid("unknown task status: " + *patch.Status)
	}
	return run(ctx, "update task", func() (*models.Task, error) {
		return f.adapter.UpdateTask(ctx, id, patch)
	})
}

func (f *Facade) DeleteTask(ctx context.Context, actorID, id string) error {
	if _, err := f.require(ctx, actorID, opManageTasks, "delete tasks"); err != nil {
		return err
	}
	return withRetry(ctx, "delete task", func() error {
		return f.adapter.DeleteTask(ctx, id)
	})
}

// CloneTask copies a task's name and description into a new task on the
// target project (the source project when targetProjectID is empty). The
// clone always starts in active status regardless of the source.
func (f *Facade) CloneTask(ctx context.Context, actorID, taskID, targetProjectID string) (*models.Task, error) {
	if _, err := f.require(ctx, actorID, opManageTasks, "clone tasks"); err != nil {
		return nil, err
	}
	src, err := run(ctx, "get task", func() (*models.Task, error) {
		return f.adapter.GetTask(ctx, taskID)
	})
	if err != nil {
		return nil, err
	}
	projectID := targetProjectID
	if projectID == "" {
		projectID = src.ProjectID
	}
	if _, err := run(ctx, "get project", func() (*models.Project, error) {
		return f.adapter.GetProject(ctx, projectID)
	}); err != nil {
		return nil, err
	}
	clone := &models.Task{
		ProjectID:   projectID,
		Name:        src.Name,
		Description: src.Description,
		Status:      models.TaskStatusActive,
	}
	return run(ctx, "clone task", func() (*models.Task, error) {
		return f.adapter.CreateTask(ctx, clone)
	})
}

// --- Time entries ---

func (f *Facade) GetTimeEntries(ctx context.Context, actorID string, filters TimeEntryFilters) ([]models.TimeEntry, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	scope := entryScopeFor(role, actorID)
	if filters.StartDate != "" && !validDate(filters.StartDate) {
		return nil, Invalid("startDate must be YYYY-MM-DD")
	}
	if filters.EndDate != "" && !validDate(filters.EndDate) {
		return nil, Invalid("endDate must be YYYY-MM-DD")
	}
	return run(ctx, "list time entries", func() ([]models.TimeEntry, error) {
		return f.adapter.ListTimeEntries(ctx, scope, filters)
	})
}

func (f *Facade) GetTimeEntry(ctx context.Context, actorID, id string) (*models.TimeEntry, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	scope := entryScopeFor(role, actorID)
	return run(ctx, "get time entry", func() (*models.TimeEntry, error) {
		return f.adapter.GetTimeEntry(ctx, scope, id)
	})
}

func (f *Facade) validateEntryInput(input CreateTimeEntryInput) error {
	switch {
	case input.ProjectID == "":
		return Invalid("projectId is required")
	case !validDate(input.Date):
		return Invalid("date must be YYYY-MM-DD")
	case !validClock(input.StartTime):
		return Invalid("startTime must be HH:MM")
	case !validClock(input.EndTime):
		return Invalid("endTime must be HH:MM")
	case input.Duration < 0:
		return Invalid("duration cannot be negative")
	}
	return nil
}

// CreateTimeEntry logs a block of work. Employees and viewers may only log
// against their own account; privileged roles may log for anyone. Duration
// is stored as supplied and never recomputed from the start and end times.
func (f *Facade) CreateTimeEntry(ctx context.Context, actorID string, input CreateTimeEntryInput) (*models.TimeEntry, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if input.UserID == "" {
		input.UserID = actorID
	}
	scope := entryScopeFor(role, actorID)
	if !scope.All && input.UserID != actorID {
		return nil, PermissionDenied("cannot log time for another user")
	}
	if err := f.validateEntryInput(input); err != nil {
		return nil, err
	}
	e := &models.TimeEntry{
		UserID:      input.UserID,
		ProjectID:   input.ProjectID,
		TaskID:      input.TaskID,
		Description: input.Description,
		Date:        input.Date,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Duration:    input.Duration,
	}
	return run(ctx, "create time entry", func() (*models.TimeEntry, error) {
		return f.adapter.CreateTimeEntry(ctx, e)
	})
}

func (f *Facade) UpdateTimeEntry(ctx context.Context, actorID, id string, patch TimeEntryPatch) (*models.TimeEntry, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	scope := entryScopeFor(role, actorID)
	switch {
	case patch.Date != nil && !validDate(*patch.Date):
		return nil, Invalid("date must be YYYY-MM-DD")
	case patch.StartTime != nil && !validClock(*patch.StartTime):
		return nil, Invalid("startTime must be HH:MM")
	case patch.EndTime != nil && !validClock(*patch.EndTime):
		return nil, Invalid("endTime must be HH:MM")
	case patch.Duration != nil && *patch.Duration < 0:
		return nil, Invalid("duration cannot be negative")
	}
	return run(ctx, "update time entry", func() (*models.TimeEntry, error) {
		return f.adapter.UpdateTimeEntry(ctx, scope, id, patch)
	})
}

func (f *Facade) DeleteTimeEntry(ctx context.Context, actorID, id string) error {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return err
	}
	scope := entryScopeFor(role, actorID)
	return withRetry(ctx, "delete time entry", func() error {
		return f.adapter.DeleteTimeEntry(ctx, scope, id)
	})
}

// --- Employees and assignments ---

func (f *Facade) GetEmployees(ctx context.Context) ([]models.Employee, error) {
	return run(ctx, "list employees", func() ([]models.Employee, error) {
		return f.adapter.ListEmployees(ctx)
	})
}

func (f *Facade) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	return run(ctx, "get employee", func() (*models.Employee, error) {
		return f.adapter.GetEmployee(ctx, id)
	})
}

func (f *Facade) CreateEmployee(ctx context.Context, actorID string, input CreateEmployeeInput) (*models.Employee, error) {
	if _, err := f.require(ctx, actorID, opManageEmployees, "create employees"); err != nil {
		return nil, err
	}
	switch {
	case input.EmployeeID == "":
		return nil, Invalid("employeeId is required")
	case input.FirstName == "":
		return nil, Invalid("firstName is required")
	case input.LastName == "":
		return nil, Invalid("lastName is required")
	}
	e := &models.Employee{
		EmployeeID: input.EmployeeID,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Department: input.Department,
		UserID:     input.UserID,
	}
	return run(ctx, "create employee", func() (*models.Employee, error) {
		return f.adapter.CreateEmployee(ctx, e)
	})
}

func (f *Facade) UpdateEmployee(ctx context.Context, actorID, id string, patch EmployeePatch) (*models.Employee, error) {
	if _, err := f.require(ctx, actorID, opManageEmployees, "update employees"); err != nil {
		return nil, err
	}
	return run(ctx, "update employee", func() (*models.Employee, error) {
		return f.adapter.UpdateEmployee(ctx, id, patch)
	})
}

func (f *Facade) DeleteEmployee(ctx context.Context, actorID, id string) error {
	if _, err := f.require(ctx, actorID, opManageEmployees, "delete employees"); err != nil {
		return err
	}
	err := withRetry(ctx, "delete employee", func() error {
		return f.adapter.DeleteEmployee(ctx, id)
	})
	if err != nil {
		return err
	}
	f.audit(ctx, "employee.delete", "employee", id, "employee deleted", actorID)
	return nil
}

// LinkUserToEmployee attaches a user account to an employee profile so
// logged hours roll up into the employee's department.
func (f *Facade) LinkUserToEmployee(ctx context.Context, actorID, employeeID, userID string) (*models.Employee, error) {
	if _, err := f.require(ctx, actorID, opManageEmployees, "link users to employees"); err != nil {
		return nil, err
	}
	if _, err := run(ctx, "get user", func() (*models.User, error) {
		return f.adapter.GetUser(ctx, userID)
	}); err != nil {
		return nil, err
	}
	return run(ctx, "link user to employee", func() (*models.Employee, error) {
		return f.adapter.LinkUserToEmployee(ctx, employeeID, userID)
	})
}

// AssignEmployeesToProject replaces the project's full assignment set. An
// empty employeeIDs list clears every assignment.
func (f *Facade) AssignEmployeesToProject(ctx context.Context, actorID, projectID string, employeeIDs []string) error {
	if _, err := f.require(ctx, actorID, opAssignEmployees, "assign employees"); err != nil {
		return err
	}
	if _, err := run(ctx, "get project", func() (*models.Project, error) {
		return f.adapter.GetProject(ctx, projectID)
	}); err != nil {
		return err
	}
	err := withRetry(ctx, "replace project assignments", func() error {
		return f.adapter.ReplaceProjectAssignments(ctx, projectID, employeeIDs, actorID)
	})
	if err != nil {
		return err
	}
	f.audit(ctx, "project.assignments", "project", projectID, "assignment set replaced", actorID)
	return nil
}

func (f *Facade) GetProjectEmployees(ctx context.Context, projectID string) ([]models.Employee, error) {
	return run(ctx, "list project employees", func() ([]models.Employee, error) {
		return f.adapter.ListProjectEmployees(ctx, projectID)
	})
}

func (f *Facade) RemoveEmployeeFromProject(ctx context.Context, actorID, projectID, employeeID string) error {
	if _, err := f.require(ctx, actorID, opAssignEmployees, "assign employees"); err != nil {
		return err
	}
	return withRetry(ctx, "remove employee from project", func() error {
		return f.adapter.RemoveEmployeeFromProject(ctx, projectID, employeeID)
	})
}

// --- Organizations and departments ---

func (f *Facade) GetOrganizations(ctx context.Context) ([]models.Organization, error) {
	return run(ctx, "list organizations", func() ([]models.Organization, error) {
		return f.adapter.ListOrganizations(ctx)
	})
}

func (f *Facade) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	return run(ctx, "get organization", func() (*models.Organization, error) {
		return f.adapter.GetOrganization(ctx, id)
	})
}

func (f *Facade) CreateOrganization(ctx context.Context, actorID string, input CreateOrganizationInput) (*models.Organization, error) {
	if _, err := f.require(ctx, actorID, opManageOrgUnits, "manage organizations"); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, Invalid("organization name is required")
	}
	o := &models.Organization{
		Name:        input.Name,
		Description: input.Description,
		UserID:      actorID,
	}
	return run(ctx, "create organization", func() (*models.Organization, error) {
		return f.adapter.CreateOrganization(ctx, o)
	})
}

func (f *Facade) UpdateOrganization(ctx context.Context, actorID, id string, patch OrganizationPatch) (*models.Organization, error) {
	if _, err := f.require(ctx, actorID, opManageOrgUnits, "manage organizations"); err != nil {
		return nil, err
	}
	return run(ctx, "update organization", func() (*models.Organization, error) {
		return f.adapter.UpdateOrganization(ctx, id, patch)
	})
}

func (f *Facade) DeleteOrganization(ctx context.Context, actorID, id string) error {
	if _, err := f.require(ctx, actorID, opManageOrgUnits, "manage organizations"); err != nil {
		return err
	}
	err := withRetry(ctx, "delete organization", func() error {
		return f.adapter.DeleteOrganization(ctx, id)
	})
	if err != nil {
		return err
	}
	f.audit(ctx, "organization.delete", "organization", id, "organization deleted", actorID)
	return nil
}

func (f *Facade) GetDepartments(ctx context.Context, organizationID string) ([]models.Department, error) {
	return run(ctx, "list departments", func() ([]models.Department, error) {
		return f.adapter.ListDepartments(ctx, organizationID)
	})
}

func (f *Facade) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	return run(ctx, "get department", func() (*models.Department, error) {
		return f.adapter.GetDepartment(ctx, id)
	})
}

func (f *Facade) CreateDepartment(ctx context.Context, actorID string, input CreateDepartmentInput) (*models.Department, error) {
	if _, err := f.require(ctx, actorID, opManageOrgUnits, "manage departments"); err != nil {
		return nil, err
	}
	if input.Name == "" {
		return nil, Invalid("department name is required")
	}
	if _, err := run(ctx, "get organization", func() (*models.Organization, error) {
		return f.adapter.GetOrganization(ctx, input.OrganizationID)
	}); err != nil {
		return nil, err
	}
	if input.ManagerID != nil {
		if _, err := run(ctx, "get employee", func() (*models.Employee, error) {
			return f.adapter.GetEmployee(ctx, *input.ManagerID)
		}); err != nil {
			return nil, err
		}
	}
	d := &models.Department{
		Name:           input.Name,
		OrganizationID: input.OrganizationID,
		Description:    input.Description,
		ManagerID:      input.ManagerID,
		UserID:         actorID,
	}
	return run(ctx, "create department", func() (*models.Department, error) {
		return f.adapter.CreateDepartment(ctx, d)
	})
}

func (f *Facade) UpdateDepartment(ctx context.Context, actorID, id string, patch DepartmentPatch) (*models.Department, error) {
	if _, err := f.require(ctx, actorID, opManageOrgUnits, "manage departments"); err != nil {
		return nil, err
	}
	if patch.ManagerID != nil && *patch.ManagerID != "" {
		if _, err := run(ctx, "get employee", func() (*models.Employee, error) {
			return f.adapter.GetEmployee(ctx, *patch.ManagerID)
		}); err != nil {
			return nil, err
		}
	}
	return run(ctx, "update department", func() (*models.Department, error) {
		return f.adapter.UpdateDepartment(ctx, id, patch)
	})
}

func (f *Facade) DeleteDepartment(ctx context.Context, actorID, id string) error {
	if _, err := f.require(ctx, actorID, opManageOrgUnits, "manage departments"); err != nil {
		return err
	}
	return withRetry(ctx, "delete department", func() error {
		return f.adapter.DeleteDepartment(ctx, id)
	})
}

// AssignManagerToDepartment sets the department's manager reference. The
// manager must be an existing employee.
func (f *Facade) AssignManagerToDepartment(ctx context.Context, actorID, departmentID, employeeID string) (*models.Department, error) {
	if _, err := f.require(ctx, actorID, opManageOrgUnits, "manage departments"); err != nil {
		return nil, err
	}
	if _, err := run(ctx, "get employee", func() (*models.Employee, error) {
		return f.adapter.GetEmployee(ctx, employeeID)
	}); err != nil {
		return nil, err
	}
	patch := DepartmentPatch{ManagerID: &employeeID}
	return run(ctx, "update department", func() (*models.Department, error) {
		return f.adapter.UpdateDepartment(ctx, departmentID, patch)
	})
}

// Ping verifies backend connectivity, for health endpoints.
func (f *Facade) Ping(ctx context.Context) error {
	return f.adapter.Ping(ctx)
}

// Close releases the underlying backend connection.
func (f *Facade) Close() error {
	return f.adapter.Close()
}
