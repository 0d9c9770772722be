package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nvallee/timetracker/backend/internal/models"
)

// GormAdapter backs the facade with a GORM connection (Postgres, MySQL or
// SQLite). It applies the scope values it is handed inside the generated SQL
// and classifies driver failures into transient/fatal kinds for the retry
// wrapper.
type GormAdapter struct {
	db *gorm.DB
}

func NewGormAdapter(db *gorm.DB) *GormAdapter {
	return &GormAdapter{db: db}
}

// wrapDB classifies a backend error. Credential problems are fatal and never
// retried; everything else is treated as transient.
func wrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "permission") ||
		strings.Contains(msg, "access denied") ||
		strings.Contains(msg, "login failed") {
		return Fatal(op+" failed", err)
	}
	return Transient(op+" failed", err)
}

func (a *GormAdapter) scopedEntries(ctx context.Context, scope EntryScope) *gorm.DB {
	q := a.db.WithContext(ctx).Model(&models.TimeEntry{})
	if !scope.All {
		q = q.Where("time_entries.user_id = ?", scope.UserID)
	}
	return q
}

func (a *GormAdapter) scopedProjects(ctx context.Context, scope ProjectScope) *gorm.DB {
	q := a.db.WithContext(ctx).Model(&models.Project{})
	switch {
	case scope.All:
	case scope.IncludeOwnedBy != "":
		q = q.Where("projects.is_enterprise_wide = ? OR projects.user_id = ?", true, scope.IncludeOwnedBy)
	default:
		q = q.Where("projects.is_enterprise_wide = ?", true)
	}
	return q
}

// --- Users ---

func (a *GormAdapter) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	err := a.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("user")
	}
	if err != nil {
		return nil, wrapDB("get user", err)
	}
	return &u, nil
}

func (a *GormAdapter) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := a.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("user")
	}
	if err != nil {
		return nil, wrapDB("get user by email", err)
	}
	return &u, nil
}

// UpsertUser inserts or refreshes a user row keyed by id. A conflicting row
// keeps its role; profile fields and the login timestamp are overwritten.
func (a *GormAdapter) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	err := a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "first_name", "last_name", "profile_image_url",
			"last_login_at", "updated_at",
		}),
	}).Create(u).Error
	if err != nil {
		return nil, wrapDB("upsert user", err)
	}
	return a.GetUser(ctx, u.ID)
}

func (a *GormAdapter) UpdateUserRole(ctx context.Context, id string, role string) (*models.User, error) {
	u, err := a.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Role = role
	if err := a.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, wrapDB("update user role", err)
	}
	return u, nil
}

func (a *GormAdapter) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := a.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, wrapDB("list users", err)
	}
	return users, nil
}

func (a *GormAdapter) ListUsersWithoutEmployee(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := a.db.WithContext(ctx).Model(&models.User{}).
		Joins("LEFT JOIN employees ON employees.user_id = users.id").
		Where("employees.id IS NULL").
		Order("users.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, wrapDB("list unlinked users", err)
	}
	return users, nil
}

// --- Projects ---

func (a *GormAdapter) ListProjects(ctx context.Context, scope ProjectScope) ([]models.Project, error) {
	var projects []models.Project
	err := a.scopedProjects(ctx, scope).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, wrapDB("list projects", err)
	}
	return projects, nil
}

func (a *GormAdapter) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var p models.Project
	err := a.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("project")
	}
	if err != nil {
		return nil, wrapDB("get project", err)
	}
	return &p, nil
}

func (a *GormAdapter) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if err := a.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, wrapDB("create project", err)
	}
	return p, nil
}

func (a *GormAdapter) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
	p, err := a.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.ProjectNumber != nil {
		p.ProjectNumber = *patch.ProjectNumber
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.StartDate != nil {
		p.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = patch.EndDate
	}
	if patch.IsEnterpriseWide != nil {
		p.IsEnterpriseWide = *patch.IsEnterpriseWide
	}
	if err := a.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, wrapDB("update project", err)
	}
	return p, nil
}

func (a *GormAdapter) DeleteProject(ctx context.Context, id string) error {
	res := a.db.WithContext(ctx).Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		return wrapDB("delete project", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("project")
	}
	return nil
}

// --- Tasks ---

func (a *GormAdapter) ListTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	var tasks []models.Task
	q := a.db.WithContext(ctx).Model(&models.Task{})
	if projectID != "" {
		q = q.Where("project_id = ?", projectID)
	}
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, wrapDB("list tasks", err)
	}
	return tasks, nil
}

func (a *GormAdapter) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var t models.Task
	err := a.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("task")
	}
	if err != nil {
		return nil, wrapDB("get task", err)
	}
	return &t, nil
}

func (a *GormAdapter) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	if err := a.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, wrapDB("create task", err)
	}
	return t, nil
}

func (a *GormAdapter) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*models.Task, error) {
	t, err := a.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if err := a.db.WithContext(ctx).Save(t).Error; err != nil {
		return nil, wrapDB("update task", err)
	}
	return t, nil
}

func (a *GormAdapter) DeleteTask(ctx context.Context, id string) error {
	res := a.db.WithContext(ctx).Delete(&models.Task{}, "id = ?", id)
	if res.Error != nil {
		return wrapDB("delete task", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("task")
	}
	return nil
}

// --- Time entries ---

func (a *GormAdapter) ListTimeEntries(ctx context.Context, scope EntryScope, f TimeEntryFilters) ([]models.TimeEntry, error) {
	q := a.scopedEntries(ctx, scope)
	if f.ProjectID != "" {
		q = q.Where("time_entries.project_id = ?", f.ProjectID)
	}
	if f.TaskID != "" {
		q = q.Where("time_entries.task_id = ?", f.TaskID)
	}
	if f.StartDate != "" {
		q = q.Where("time_entries.date >= ?", f.StartDate)
	}
	if f.EndDate != "" {
		q = q.Where("time_entries.date <= ?", f.EndDate)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var entries []models.TimeEntry
	err := q.Preload("Project").Preload("Task").
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, wrapDB("list time entries", err)
	}
	return entries, nil
}

func (a *GormAdapter) GetTimeEntry(ctx context.Context, scope EntryScope, id string) (*models.TimeEntry, error) {
	var e models.TimeEntry
	err := a.scopedEntries(ctx, scope).
		Preload("Project").Preload("Task").
		First(&e, "time_entries.id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("time entry")
	}
	if err != nil {
		return nil, wrapDB("get time entry", err)
	}
	return &e, nil
}

func (a *GormAdapter) CreateTimeEntry(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error) {
	if err := a.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, wrapDB("create time entry", err)
	}
	return e, nil
}

func (a *GormAdapter) UpdateTimeEntry(ctx context.Context, scope EntryScope, id string, patch TimeEntryPatch) (*models.TimeEntry, error) {
	e, err := a.GetTimeEntry(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if patch.ProjectID != nil {
		e.ProjectID = *patch.ProjectID
	}
	if patch.TaskID != nil {
		e.TaskID = patch.TaskID
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.StartTime != nil {
		e.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		e.EndTime = *patch.EndTime
	}
	if patch.Duration != nil {
		e.Duration = *patch.Duration
	}
	e.Project = nil
	e.Task = nil
	if err := a.db.WithContext(ctx).Save(e).Error; err != nil {
		return nil, wrapDB("update time entry", err)
	}
	return e, nil
}

func (a *GormAdapter) DeleteTimeEntry(ctx context.Context, scope EntryScope, id string) error {
	q := a.db.WithContext(ctx).Where("id = ?", id)
	if !scope.All {
		q = q.Where("user_id = ?", scope.UserID)
	}
	res := q.Delete(&models.TimeEntry{})
	if res.Error != nil {
		return wrapDB("delete time entry", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("time entry")
	}
	return nil
}

// --- Employees and assignments ---

func (a *GormAdapter) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := a.db.WithContext(ctx).Order("last_name, first_name").Find(&employees).Error
	if err != nil {
		return nil, wrapDB("list employees", err)
	}
	return employees, nil
}

func (a *GormAdapter) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	var e models.Employee
	err := a.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("employee")
	}
	if err != nil {
		return nil, wrapDB("get employee", err)
	}
	return &e, nil
}

func (a *GormAdapter) CreateEmployee(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	if err := a.db.WithContext(ctx).Create(e).Error; err != nil {
		return nil, wrapDB("create employee", err)
	}
	return e, nil
}

func (a *GormAdapter) UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (*models.Employee, error) {
	e, err := a.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.EmployeeID != nil {
		e.EmployeeID = *patch.EmployeeID
	}
	if patch.FirstName != nil {
		e.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		e.LastName = *patch.LastName
	}
	if patch.Department != nil {
		e.Department = *patch.Department
	}
	if err := a.db.WithContext(ctx).Save(e).Error; err != nil {
		return nil, wrapDB("update employee", err)
	}
	return e, nil
}

func (a *GormAdapter) DeleteEmployee(ctx context.Context, id string) error {
	res := a.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id)
	if res.Error != nil {
		return wrapDB("delete employee", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("employee")
	}
	return nil
}

func (a *GormAdapter) LinkUserToEmployee(ctx context.Context, employeeID, userID string) (*models.Employee, error) {
	e, err := a.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	e.UserID = &userID
	if err := a.db.WithContext(ctx).Save(e).Error; err != nil {
		return nil, wrapDB("link user to employee", err)
	}
	return e, nil
}

// ReplaceProjectAssignments rewrites the full assignment set for a project:
// every existing row is removed and the given employee list inserted, in one
// transaction.
func (a *GormAdapter) ReplaceProjectAssignments(ctx context.Context, projectID string, employeeIDs []string, assignedBy string) error {
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectEmployee{}).Error; err != nil {
			return err
		}
		for _, empID := range employeeIDs {
			pe := models.ProjectEmployee{
				ProjectID:  projectID,
				EmployeeID: empID,
				UserID:     assignedBy,
			}
			if err := tx.Create(&pe).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return wrapDB("replace project assignments", err)
}

func (a *GormAdapter) ListProjectEmployees(ctx context.Context, projectID string) ([]models.Employee, error) {
	var employees []models.Employee
	err := a.db.WithContext(ctx).Model(&models.Employee{}).
		Joins("JOIN project_employees ON project_employees.employee_id = employees.id").
		Where("project_employees.project_id = ?", projectID).
		Order("employees.last_name, employees.first_name").
		Find(&employees).Error
	if err != nil {
		return nil, wrapDB("list project employees", err)
	}
	return employees, nil
}

func (a *GormAdapter) RemoveEmployeeFromProject(ctx context.Context, projectID, employeeID string) error {
	res := a.db.WithContext(ctx).
		Where("project_id = ? AND employee_id = ?", projectID, employeeID).
		Delete(&models.ProjectEmployee{})
	if res.Error != nil {
		return wrapDB("remove employee from project", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("assignment")
	}
	return nil
}

// --- Organizations and departments ---

func (a *GormAdapter) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	var orgs []models.Organization
	err := a.db.WithContext(ctx).Order("name").Find(&orgs).Error
	if err != nil {
		return nil, wrapDB("list organizations", err)
	}
	return orgs, nil
}

func (a *GormAdapter) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	var o models.Organization
	err := a.db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("organization")
	}
	if err != nil {
		return nil, wrapDB("get organization", err)
	}
	return &o, nil
}

func (a *GormAdapter) CreateOrganization(ctx context.Context, o *models.Organization) (*models.Organization, error) {
	if err := a.db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, wrapDB("create organization", err)
	}
	return o, nil
}

func (a *GormAdapter) UpdateOrganization(ctx context.Context, id string, patch OrganizationPatch) (*models.Organization, error) {
	o, err := a.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		o.Name = *patch.Name
	}
	if patch.Description != nil {
		o.Description = *patch.Description
	}
	if err := a.db.WithContext(ctx).Save(o).Error; err != nil {
		return nil, wrapDB("update organization", err)
	}
	return o, nil
}

func (a *GormAdapter) DeleteOrganization(ctx context.Context, id string) error {
	res := a.db.WithContext(ctx).Delete(&models.Organization{}, "id = ?", id)
	if res.Error != nil {
		return wrapDB("delete organization", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("organization")
	}
	return nil
}

func (a *GormAdapter) ListDepartments(ctx context.Context, organizationID string) ([]models.Department, error) {
	q := a.db.WithContext(ctx).Model(&models.Department{}).Preload("Manager")
	if organizationID != "" {
		q = q.Where("organization_id = ?", organizationID)
	}
	var departments []models.Department
	if err := q.Order("name").Find(&departments).Error; err != nil {
		return nil, wrapDB("list departments", err)
	}
	return departments, nil
}

func (a *GormAdapter) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	err := a.db.WithContext(ctx).Preload("Manager").First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("department")
	}
	if err != nil {
		return nil, wrapDB("get department", err)
	}
	return &d, nil
}

func (a *GormAdapter) CreateDepartment(ctx context.Context, d *models.Department) (*models.Department, error) {
	if err := a.db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, wrapDB("create department", err)
	}
	return d, nil
}

func (a *GormAdapter) UpdateDepartment(ctx context.Context, id string, patch DepartmentPatch) (*models.Department, error) {
	d, err := a.GetDepartment(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		d.Name = *patch.Name
	}
	if patch.Description != nil {
		d.Description = *patch.Description
	}
	if patch.ManagerID != nil {
		d.ManagerID = patch.ManagerID
	}
	d.Manager = nil
	if err := a.db.WithContext(ctx).Save(d).Error; err != nil {
		return nil, wrapDB("update department", err)
	}
	return d, nil
}

func (a *GormAdapter) DeleteDepartment(ctx context.Context, id string) error {
	res := a.db.WithContext(ctx).Delete(&models.Department{}, "id = ?", id)
	if res.Error != nil {
		return wrapDB("delete department", res.Error)
	}
	if res.RowsAffected == 0 {
		return NotFound("department")
	}
	return nil
}

// --- Aggregates ---

func (a *GormAdapter) SumDurations(ctx context.Context, scope EntryScope, from, to string) (float64, error) {
	q := a.scopedEntries(ctx, scope).Select("COALESCE(SUM(duration), 0)")
	if from != "" {
		q = q.Where("date >= ?", from)
	}
	if to != "" {
		q = q.Where("date <= ?", to)
	}
	var total float64
	if err := q.Scan(&total).Error; err != nil {
		return 0, wrapDB("sum durations", err)
	}
	return total, nil
}

func (a *GormAdapter) CountActiveProjects(ctx context.Context, scope EntryScope, since string) (int, error) {
	q := a.scopedEntries(ctx, scope)
	if since != "" {
		q = q.Where("date >= ?", since)
	}
	var count int64
	if err := q.Distinct("project_id").Count(&count).Error; err != nil {
		return 0, wrapDB("count active projects", err)
	}
	return int(count), nil
}

func (a *GormAdapter) ProjectHours(ctx context.Context, scope ProjectScope, from, to string) ([]ProjectHoursRow, error) {
	q := a.db.WithContext(ctx).Table("time_entries").
		Select("time_entries.project_id AS project_id, COALESCE(SUM(time_entries.duration), 0) AS total_hours").
		Joins("JOIN projects ON projects.id = time_entries.project_id")
	switch {
	case scope.All:
	case scope.IncludeOwnedBy != "":
		q = q.Where("projects.is_enterprise_wide = ? OR projects.user_id = ?", true, scope.IncludeOwnedBy)
	default:
		q = q.Where("projects.is_enterprise_wide = ?", true)
	}
	if from != "" {
		q = q.Where("time_entries.date >= ?", from)
	}
	if to != "" {
		q = q.Where("time_entries.date <= ?", to)
	}
	var scanned []struct {
		ProjectID  string
		TotalHours float64
	}
	err := q.Group("time_entries.project_id").
		Order("total_hours DESC").
		Scan(&scanned).Error
	if err != nil {
		return nil, wrapDB("project hours", err)
	}

	if len(scanned) == 0 {
		return []ProjectHoursRow{}, nil
	}
	ids := make([]string, 0, len(scanned))
	for _, s := range scanned {
		ids = append(ids, s.ProjectID)
	}
	var projects []models.Project
	if err := a.db.WithContext(ctx).Find(&projects, "id IN ?", ids).Error; err != nil {
		return nil, wrapDB("project hours", err)
	}
	byID := make(map[string]models.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}
	rows := make([]ProjectHoursRow, 0, len(scanned))
	for _, s := range scanned {
		p, ok := byID[s.ProjectID]
		if !ok {
			continue
		}
		rows = append(rows, ProjectHoursRow{Project: p, TotalHours: s.TotalHours})
	}
	return rows, nil
}

// DepartmentHours groups logged hours on the employees' free-text department
// label, joining entries through the employee's linked user account. The
// date window sits in the join condition so the left join stays a left join;
// departments without hours come back as zero rows and are dropped upstream.
func (a *GormAdapter) DepartmentHours(ctx context.Context, scope EntryScope, from, to string) ([]DepartmentHoursRow, error) {
	join := "LEFT JOIN time_entries ON time_entries.user_id = employees.user_id"
	args := []interface{}{}
	if from != "" {
		join += " AND time_entries.date >= ?"
		args = append(args, from)
	}
	if to != "" {
		join += " AND time_entries.date <= ?"
		args = append(args, to)
	}
	q := a.db.WithContext(ctx).Table("employees").
		Select("employees.department AS department, COALESCE(SUM(time_entries.duration), 0) AS total_hours, COUNT(DISTINCT employees.id) AS employee_count").
		Joins(join, args...)
	if !scope.All {
		q = q.Where("employees.user_id = ?", scope.UserID)
	}
	var rows []DepartmentHoursRow
	err := q.Group("employees.department").
		Having("employees.department IS NOT NULL AND employees.department != ''").
		Order("total_hours DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapDB("department hours", err)
	}
	return rows, nil
}

func (a *GormAdapter) ListEntriesForProject(ctx context.Context, projectID string) ([]ProjectEntryRow, error) {
	var entries []models.TimeEntry
	err := a.db.WithContext(ctx).
		Preload("Task").
		Where("project_id = ?", projectID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, wrapDB("list project entries", err)
	}

	userIDs := make([]string, 0, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			userIDs = append(userIDs, e.UserID)
		}
	}
	users := make(map[string]*models.User)
	if len(userIDs) > 0 {
		var list []models.User
		if err := a.db.WithContext(ctx).Where("id IN ?", userIDs).Find(&list).Error; err != nil {
			return nil, wrapDB("list project entries", err)
		}
		for i := range list {
			users[list[i].ID] = &list[i]
		}
	}

	rows := make([]ProjectEntryRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, ProjectEntryRow{Entry: e, User: users[e.UserID]})
	}
	return rows, nil
}

// --- Audit trail ---

func (a *GormAdapter) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := a.db.WithContext(ctx).Create(entry).Error; err != nil {
		return wrapDB("insert audit log", err)
	}
	return nil
}

func (a *GormAdapter) PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	res := a.db.WithContext(ctx).Where("created_at < ?", before).Delete(&models.AuditLog{})
	if res.Error != nil {
		return 0, wrapDB("purge audit logs", res.Error)
	}
	return res.RowsAffected, nil
}

func (a *GormAdapter) Ping(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return wrapDB("ping", err)
	}
	return wrapDB("ping", sqlDB.PingContext(ctx))
}

func (a *GormAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
