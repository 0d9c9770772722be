// Package store implements the role-scoped data access layer: one public
// facade combining per-call role resolution, the authorization policy, a
// bounded retry wrapper and one of two interchangeable backend adapters.
package store

import (
	"time"

	"github.com/nvallee/timetracker/backend/internal/models"
)

// TimeEntryFilters narrows time-entry listings. Zero values mean "no filter".
// Dates are calendar-date strings (YYYY-MM-DD), inclusive on both ends.
type TimeEntryFilters struct {
	ProjectID string
	TaskID    string
	StartDate string
	EndDate   string
	Limit     int
	Offset    int
}

// DashboardStats is the personal (or, for privileged roles,
// organization-wide) headline view.
type DashboardStats struct {
	TodayHours     float64 `json:"todayHours"`
	WeekHours      float64 `json:"weekHours"`
	MonthHours     float64 `json:"monthHours"`
	ActiveProjects int     `json:"activeProjects"`
}

// ProjectHoursRow is a raw per-project duration sum from an adapter.
type ProjectHoursRow struct {
	Project    models.Project
	TotalHours float64
}

// ProjectBreakdownRow is one slice of the project time breakdown.
// Percentage is rounded independently per row; the column is not guaranteed
// to sum to 100.
type ProjectBreakdownRow struct {
	Project    models.Project `json:"project"`
	TotalHours float64        `json:"totalHours"`
	Percentage int            `json:"percentage"`
}

// DepartmentHoursRow aggregates hours by the employees' free-text department
// label.
type DepartmentHoursRow struct {
	Department    string  `json:"department"`
	TotalHours    float64 `json:"totalHours"`
	EmployeeCount int     `json:"employeeCount"`
}

// ProjectEntryRow is a time entry enriched with the logging user, used by
// per-project reports.
type ProjectEntryRow struct {
	Entry models.TimeEntry `json:"entry"`
	User  *models.User     `json:"user,omitempty"`
}

// --- Write inputs ---

// UpsertUserInput creates or refreshes a user row keyed by ID. Role applies
// on first insert only; later logins never change an assigned role.
type UpsertUserInput struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL string
	Role            string
	PasswordHash    string
}

type CreateProjectInput struct {
	Name             string
	ProjectNumber    string
	Description      string
	Color            string
	StartDate        *time.Time
	EndDate          *time.Time
	IsEnterpriseWide *bool // defaults to true
}

// ProjectPatch updates a project; nil fields are left unchanged.
type ProjectPatch struct {
	Name             *string
	ProjectNumber    *string
	Description      *string
	Color            *string
	StartDate        *time.Time
	EndDate          *time.Time
	IsEnterpriseWide *bool
}

type CreateTaskInput struct {
	ProjectID   string
	Name        string
	Description string
	Status      string // defaults to active
}

type TaskPatch struct {
	Name        *string
	Description *string
	Status      *string
}

type CreateTimeEntryInput struct {
	UserID      string
	ProjectID   string
	TaskID      *string
	Description string
	Date        string // YYYY-MM-DD
	StartTime   string // HH:MM
	EndTime     string // HH:MM
	Duration    float64
}

type TimeEntryPatch struct {
	ProjectID   *string
	TaskID      *string
	Description *string
	Date        *string
	StartTime   *string
	EndTime     *string
	Duration    *float64
}

type CreateEmployeeInput struct {
	EmployeeID string
	FirstName  string
	LastName   string
	Department string
	UserID     *string
}

type EmployeePatch struct {
	EmployeeID *string
	FirstName  *string
	LastName   *string
	Department *string
}

type CreateOrganizationInput struct {
	Name        string
	Description string
}

type OrganizationPatch struct {
	Name        *string
	Description *string
}

type CreateDepartmentInput struct {
	Name           string
	OrganizationID string
	Description    string
	ManagerID      *string
}

type DepartmentPatch struct {
	Name        *string
	Description *string
	ManagerID   *string
}
