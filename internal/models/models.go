package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task status values
const (
	TaskStatusActive    = "active"
	TaskStatusCompleted = "completed"
	TaskStatusArchived  = "archived"
)

// User represents an authenticated account. Users are created on first
// successful login (upsert by id) and deactivated rather than deleted.
type User struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Email           string     `gorm:"uniqueIndex;size:255" json:"email"`
	FirstName       string     `gorm:"size:100" json:"firstName"`
	LastName        string     `gorm:"size:100" json:"lastName"`
	ProfileImageURL string     `gorm:"size:500" json:"profileImageUrl"`
	Role            string     `gorm:"size:50;default:employee" json:"role"` // admin, manager, project_manager, employee, viewer
	IsActive        bool       `gorm:"default:true" json:"isActive"`
	PasswordHash    string     `gorm:"size:255" json:"-"` // empty for SSO-provisioned users
	LastLoginAt     *time.Time `json:"lastLoginAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Project groups tasks and time entries. Enterprise-wide projects are visible
// to every authenticated user; restricted projects only to explicitly
// assigned employees.
type Project struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	ProjectNumber    string     `gorm:"size:50" json:"projectNumber"`
	Description      string     `gorm:"type:text" json:"description"`
	Color            string     `gorm:"size:7;default:#1976D2" json:"color"`
	StartDate        *time.Time `json:"startDate"`
	EndDate          *time.Time `json:"endDate"`
	IsEnterpriseWide bool       `gorm:"default:true;not null" json:"isEnterpriseWide"`
	UserID           string     `gorm:"size:36;not null;index" json:"userId"` // owner
	User             *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Task belongs to exactly one project.
type Task struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID   string    `gorm:"size:36;not null;index" json:"projectId"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:50;not null;default:active" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TimeEntry is a logged block of work. Date is the calendar date string
// (YYYY-MM-DD) in the deployment timezone; all aggregation compares these
// strings, never timestamps. Duration is decimal hours as supplied by the
// caller and is not recomputed from start/end times.
type TimeEntry struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	UserID      string    `gorm:"size:36;not null;index" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ProjectID   string    `gorm:"size:36;not null;index" json:"projectId"`
	Project     *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"project,omitempty"`
	TaskID      *string   `gorm:"size:36;index" json:"taskId"`
	Task        *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:SET NULL" json:"task,omitempty"`
	Description string    `gorm:"type:text" json:"description"`
	Date        string    `gorm:"size:10;not null;index" json:"date"`      // YYYY-MM-DD
	StartTime   string    `gorm:"size:5;not null" json:"startTime"`        // HH:MM
	EndTime     string    `gorm:"size:5;not null" json:"endTime"`          // HH:MM
	Duration    float64   `gorm:"type:decimal(5,2);not null" json:"duration"` // hours, 2 fraction digits
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Employee is a work profile, optionally linked to a User account.
// Department is a free-text label; it is NOT a foreign key to the
// departments table, and hour summaries group on this string.
type Employee struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	EmployeeID string    `gorm:"uniqueIndex;size:50;not null" json:"employeeId"`
	FirstName  string    `gorm:"size:100;not null" json:"firstName"`
	LastName   string    `gorm:"size:100;not null" json:"lastName"`
	Department string    `gorm:"size:255;not null" json:"department"`
	UserID     *string   `gorm:"size:36;index" json:"userId"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProjectEmployee assigns an employee to a restricted project.
type ProjectEmployee struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID  string    `gorm:"size:36;not null;index" json:"projectId"`
	Project    *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	EmployeeID string    `gorm:"size:36;not null;index" json:"employeeId"`
	Employee   *Employee `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     string    `gorm:"size:36;not null" json:"userId"` // who made the assignment, audit only
	CreatedAt  time.Time `json:"createdAt"`
}

// Organization is the top of the org-unit hierarchy.
type Organization struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      string    `gorm:"size:36;not null" json:"userId"` // creator
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Department belongs to an organization and optionally references an
// employee as its manager. Distinct from Employee.Department, which is a
// plain string.
type Department struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	Name           string        `gorm:"size:255;not null" json:"name"`
	OrganizationID string        `gorm:"size:36;not null;index" json:"organizationId"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
	ManagerID      *string       `gorm:"size:36" json:"managerId"`
	Manager        *Employee     `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Description    string        `gorm:"size:500" json:"description"`
	UserID         string        `gorm:"size:36;not null" json:"userId"` // creator
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// AuditLog records sensitive operations (role changes, deletions,
// assignment rewrites).
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:20;index" json:"level"` // info, warning, error
	Action    string    `gorm:"size:100;index" json:"action"`
	Entity    string    `gorm:"size:50;index" json:"entity"`
	EntityID  string    `gorm:"size:36" json:"entityId"`
	Message   string    `gorm:"type:text" json:"message"`
	UserID    string    `gorm:"size:36;index" json:"userId"` // acting principal
	IP        string    `gorm:"size:50" json:"ip"`
	Extra     string    `gorm:"type:text" json:"extra"` // JSON extra data
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName overrides
func (User) TableName() string            { return "users" }
func (Project) TableName() string         { return "projects" }
func (Task) TableName() string            { return "tasks" }
func (TimeEntry) TableName() string       { return "time_entries" }
func (Employee) TableName() string        { return "employees" }
func (ProjectEmployee) TableName() string { return "project_employees" }
func (Organization) TableName() string    { return "organizations" }
func (Department) TableName() string      { return "departments" }
func (AuditLog) TableName() string        { return "audit_logs" }

// Primary keys are opaque strings generated at insert time when the caller
// does not supply one.

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (e *TimeEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (pe *ProjectEmployee) BeforeCreate(tx *gorm.DB) error {
	if pe.ID == "" {
		pe.ID = uuid.NewString()
	}
	return nil
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// FullName is a display helper.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
