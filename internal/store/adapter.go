package store

import (
	"context"
	"time"

	"github.com/nvallee/timetracker/backend/internal/models"
)

// Adapter is the storage backend behind the facade. Implementations must be
// dumb and mechanical: visibility scoping arrives pre-computed in EntryScope
// and ProjectScope values and has to be applied inside the query itself, so
// that a caller can never observe rows outside its scope.
//
// Two implementations exist: a GORM-backed one for the managed deployment
// (Postgres, MySQL or SQLite) and a raw database/sql one for on-prem
// SQL Server. The facade is the only intended caller.
type Adapter interface {
	// Users
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpsertUser(ctx context.Context, u *models.User) (*models.User, error)
	UpdateUserRole(ctx context.Context, id string, role string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersWithoutEmployee(ctx context.Context) ([]models.User, error)

	// Projects
	ListProjects(ctx context.Context, scope ProjectScope) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	CreateProject(ctx context.Context, p *models.Project) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	// Tasks
	ListTasks(ctx context.Context, projectID string) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (*models.Task, error)
	CreateTask(ctx context.Context, t *models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Time entries
	ListTimeEntries(ctx context.Context, scope EntryScope, f TimeEntryFilters) ([]models.TimeEntry, error)
	GetTimeEntry(ctx context.Context, scope EntryScope, id string) (*models.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, scope EntryScope, id string, patch TimeEntryPatch) (*models.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, scope EntryScope, id string) error

	// Employees and project assignments
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployee(ctx context.Context, id string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, e *models.Employee) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
	LinkUserToEmployee(ctx context.Context, employeeID, userID string) (*models.Employee, error)
	ReplaceProjectAssignments(ctx context.Context, projectID string, employeeIDs []string, assignedBy string) error
	ListProjectEmployees(ctx context.Context, projectID string) ([]models.Employee, error)
	RemoveEmployeeFromProject(ctx context.Context, projectID, employeeID string) error

	// Organizations and departments
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	GetOrganization(ctx context.Context, id string) (*models.Organization, error)
	CreateOrganization(ctx context.Context, o *models.Organization) (*models.Organization, error)
	UpdateOrganization(ctx context.Context, id string, patch OrganizationPatch) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
	ListDepartments(ctx context.Context, organizationID string) ([]models.Department, error)
	GetDepartment(ctx context.Context, id string) (*models.Department, error)
	CreateDepartment(ctx context.Context, d *models.Department) (*models.Department, error)
	UpdateDepartment(ctx context.Context, id string, patch DepartmentPatch) (*models.Department, error)
	DeleteDepartment(ctx context.Context, id string) error

	// Aggregates. Scoping is applied inside the query; date arguments are
	// inclusive calendar-date strings, "" meaning unbounded.
	SumDurations(ctx context.Context, scope EntryScope, from, to string) (float64, error)
	CountActiveProjects(ctx context.Context, scope EntryScope, since string) (int, error)
	ProjectHours(ctx context.Context, scope ProjectScope, from, to string) ([]ProjectHoursRow, error)
	DepartmentHours(ctx context.Context, scope EntryScope, from, to string) ([]DepartmentHoursRow, error)
	ListEntriesForProject(ctx context.Context, projectID string) ([]ProjectEntryRow, error)

	// Audit trail
	InsertAuditLog(ctx context.Context, entry *models.AuditLog) error
	PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error)

	Ping(ctx context.Context) error
	Close() error
}
