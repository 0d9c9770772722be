package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	mssql "github.com/microsoft/go-mssqldb"

	"github.com/google/uuid"
	"github.com/nvallee/timetracker/backend/internal/models"
)

// MSSQLAdapter backs the facade with an on-prem SQL Server over plain
// database/sql. The schema is provisioned by DBA scripts (see
// scripts/mssql_schema.sql); this adapter never migrates.
type MSSQLAdapter struct {
	db *sql.DB
}

// OpenMSSQL opens a SQL Server connection with pool settings and verifies
// connectivity.
func OpenMSSQL(dsn string, maxOpen, maxIdle int, idleTimeout time.Duration) (*MSSQLAdapter, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxIdleTime(idleTimeout)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, wrapSQL("open", err)
	}
	return &MSSQLAdapter{db: db}, nil
}

func NewMSSQLAdapter(db *sql.DB) *MSSQLAdapter {
	return &MSSQLAdapter{db: db}
}

// wrapSQL classifies a SQL Server error. Login and permission failures are
// fatal; duplicate-key violations and everything else count as transient so
// the retry wrapper re-attempts (a lost upsert race resolves itself on the
// next attempt).
func wrapSQL(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	var me mssql.Error
	if errors.As(err, &me) {
		switch me.Number {
		case 18456, 18452, 4060: // login failed / untrusted domain / cannot open database
			return Fatal(op+" failed", err)
		case 229, 230: // permission denied on object/column
			return Fatal(op+" failed", err)
		}
		return Transient(op+" failed", err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "authentication") || strings.Contains(msg, "login failed") || strings.Contains(msg, "permission") {
		return Fatal(op+" failed", err)
	}
	return Transient(op+" failed", err)
}

// param appends v to args and returns its @pN placeholder.
func param(args *[]interface{}, v interface{}) string {
	*args = append(*args, v)
	return fmt.Sprintf("@p%d", len(*args))
}

func nullStr(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func strPtr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	s := n.String
	return &s
}

func nullTime(p *time.Time) sql.NullTime {
	if p == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *p, Valid: true}
}

func timePtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	t := n.Time
	return &t
}

// --- row scanners ---

const userCols = "id, email, first_name, last_name, profile_image_url, role, is_active, password_hash, last_login_at, created_at, updated_at"

func scanUser(row interface{ Scan(...interface{}) error }) (*models.User, error) {
	var u models.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.Role, &u.IsActive, &u.PasswordHash, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.LastLoginAt = timePtr(lastLogin)
	return &u, nil
}

const projectCols = "id, name, project_number, description, color, start_date, end_date, is_enterprise_wide, user_id, created_at, updated_at"

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	var start, end sql.NullTime
	err := row.Scan(&p.ID, &p.Name, &p.ProjectNumber, &p.Description, &p.Color,
		&start, &end, &p.IsEnterpriseWide, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.StartDate = timePtr(start)
	p.EndDate = timePtr(end)
	return &p, nil
}

const taskCols = "id, project_id, name, description, status, created_at, updated_at"

func scanTask(row interface{ Scan(...interface{}) error }) (*models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Name, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const entryCols = "id, user_id, project_id, task_id, description, date, start_time, end_time, duration, created_at, updated_at"

func scanEntry(row interface{ Scan(...interface{}) error }) (*models.TimeEntry, error) {
	var e models.TimeEntry
	var taskID sql.NullString
	err := row.Scan(&e.ID, &e.UserID, &e.ProjectID, &taskID, &e.Description,
		&e.Date, &e.StartTime, &e.EndTime, &e.Duration, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.TaskID = strPtr(taskID)
	return &e, nil
}

const employeeCols = "id, employee_id, first_name, last_name, department, user_id, created_at, updated_at"

func scanEmployee(row interface{ Scan(...interface{}) error }) (*models.Employee, error) {
	var e models.Employee
	var userID sql.NullString
	err := row.Scan(&e.ID, &e.EmployeeID, &e.FirstName, &e.LastName, &e.Department,
		&userID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.UserID = strPtr(userID)
	return &e, nil
}

const orgCols = "id, name, description, user_id, created_at, updated_at"

func scanOrg(row interface{ Scan(...interface{}) error }) (*models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.UserID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

const deptCols = "id, name, organization_id, manager_id, description, user_id, created_at, updated_at"

func scanDept(row interface{ Scan(...interface{}) error }) (*models.Department, error) {
	var d models.Department
	var managerID sql.NullString
	err := row.Scan(&d.ID, &d.Name, &d.OrganizationID, &managerID, &d.Description,
		&d.UserID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.ManagerID = strPtr(managerID)
	return &d, nil
}

// --- Users ---

func (a *MSSQLAdapter) GetUser(ctx context.Context, id string) (*models.User, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+userCols+" FROM users WHERE id = @p1", id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("user")
	}
	if err != nil {
		return nil, wrapSQL("get user", err)
	}
	return u, nil
}

func (a *MSSQLAdapter) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+userCols+" FROM users WHERE email = @p1", email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("user")
	}
	if err != nil {
		return nil, wrapSQL("get user by email", err)
	}
	return u, nil
}

// UpsertUser checks for the row inside a transaction and branches to UPDATE
// or INSERT. A concurrent insert losing the race surfaces as a duplicate-key
// violation, classified transient, and succeeds on the caller's retry.
func (a *MSSQLAdapter) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now()
	err := a.inTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id = @p1", u.ID).Scan(&existing)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			u.CreatedAt = now
			u.UpdatedAt = now
			_, err = tx.ExecContext(ctx,
				"INSERT INTO users ("+userCols+") VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11)",
				u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL,
				u.Role, u.IsActive, u.PasswordHash, nullTime(u.LastLoginAt), u.CreatedAt, u.UpdatedAt)
			return err
		case err != nil:
			return err
		default:
			_, err = tx.ExecContext(ctx,
				"UPDATE users SET email = @p2, first_name = @p3, last_name = @p4, profile_image_url = @p5, last_login_at = @p6, updated_at = @p7 WHERE id = @p1",
				u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL,
				nullTime(u.LastLoginAt), now)
			return err
		}
	})
	if err != nil {
		return nil, wrapSQL("upsert user", err)
	}
	return a.GetUser(ctx, u.ID)
}

func (a *MSSQLAdapter) UpdateUserRole(ctx context.Context, id string, role string) (*models.User, error) {
	res, err := a.db.ExecContext(ctx,
		"UPDATE users SET role = @p2, updated_at = @p3 WHERE id = @p1", id, role, time.Now())
	if err != nil {
		return nil, wrapSQL("update user role", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, NotFound("user")
	}
	return a.GetUser(ctx, id)
}

func (a *MSSQLAdapter) ListUsers(ctx context.Context) ([]models.User, error) {
	return a.queryUsers(ctx, "SELECT "+userCols+" FROM users ORDER BY created_at DESC")
}

func (a *MSSQLAdapter) ListUsersWithoutEmployee(ctx context.Context) ([]models.User, error) {
	return a.queryUsers(ctx,
		"SELECT "+qualify(userCols, "u")+" FROM users u LEFT JOIN employees e ON e.user_id = u.id WHERE e.id IS NULL ORDER BY u.created_at DESC")
}

// qualify prefixes every column in a comma-separated list with a table
// alias.
func qualify(cols, alias string) string {
	parts := strings.Split(cols, ", ")
	for i, c := range parts {
		parts[i] = alias + "." + c
	}
	return strings.Join(parts, ", ")
}

func (a *MSSQLAdapter) queryUsers(ctx context.Context, query string, args ...interface{}) ([]models.User, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("list users", err)
	}
	defer rows.Close()
	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapSQL("list users", err)
		}
		users = append(users, *u)
	}
	return users, wrapSQL("list users", rows.Err())
}

// --- Projects ---

func projectScopeSQL(scope ProjectScope, args *[]interface{}) string {
	switch {
	case scope.All:
		return ""
	case scope.IncludeOwnedBy != "":
		return "(projects.is_enterprise_wide = 1 OR projects.user_id = " + param(args, scope.IncludeOwnedBy) + ")"
	default:
		return "projects.is_enterprise_wide = 1"
	}
}

func (a *MSSQLAdapter) ListProjects(ctx context.Context, scope ProjectScope) ([]models.Project, error) {
	var args []interface{}
	query := "SELECT " + qualify(projectCols, "projects") + " FROM projects"
	if cond := projectScopeSQL(scope, &args); cond != "" {
		query += " WHERE " + cond
	}
	query += " ORDER BY projects.created_at DESC"
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("list projects", err)
	}
	defer rows.Close()
	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, wrapSQL("list projects", err)
		}
		projects = append(projects, *p)
	}
	return projects, wrapSQL("list projects", rows.Err())
}

func (a *MSSQLAdapter) GetProject(ctx context.Context, id string) (*models.Project, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+projectCols+" FROM projects WHERE id = @p1", id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("project")
	}
	if err != nil {
		return nil, wrapSQL("get project", err)
	}
	return p, nil
}

func (a *MSSQLAdapter) CreateProject(ctx context.Context, p *models.Project) (*models.Project, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO projects ("+projectCols+") VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11)",
		p.ID, p.Name, p.ProjectNumber, p.Description, p.Color,
		nullTime(p.StartDate), nullTime(p.EndDate), p.IsEnterpriseWide, p.UserID, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("create project", err)
	}
	return p, nil
}

func (a *MSSQLAdapter) UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*models.Project, error) {
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
	p.UpdatedAt = time.Now()
	_, err = a.db.ExecContext(ctx,
		"UPDATE projects SET name = @p2, project_number = @p3, description = @p4, color = @p5, start_date = @p6, end_date = @p7, is_enterprise_wide = @p8, updated_at = @p9 WHERE id = @p1",
		p.ID, p.Name, p.ProjectNumber, p.Description, p.Color,
		nullTime(p.StartDate), nullTime(p.EndDate), p.IsEnterpriseWide, p.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("update project", err)
	}
	return p, nil
}

func (a *MSSQLAdapter) DeleteProject(ctx context.Context, id string) error {
	return a.deleteByID(ctx, "projects", "project", id)
}

func (a *MSSQLAdapter) deleteByID(ctx context.Context, table, entity, id string) error {
	res, err := a.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = @p1", id)
	if err != nil {
		return wrapSQL("delete "+entity, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFound(entity)
	}
	return nil
}

// --- Tasks ---

func (a *MSSQLAdapter) ListTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	var args []interface{}
	query := "SELECT " + taskCols + " FROM tasks"
	if projectID != "" {
		query += " WHERE project_id = " + param(&args, projectID)
	}
	query += " ORDER BY created_at DESC"
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("list tasks", err)
	}
	defer rows.Close()
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrapSQL("list tasks", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, wrapSQL("list tasks", rows.Err())
}

func (a *MSSQLAdapter) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+taskCols+" FROM tasks WHERE id = @p1", id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("task")
	}
	if err != nil {
		return nil, wrapSQL("get task", err)
	}
	return t, nil
}

func (a *MSSQLAdapter) CreateTask(ctx context.Context, t *models.Task) (*models.Task, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO tasks ("+taskCols+") VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7)",
		t.ID, t.ProjectID, t.Name, t.Description, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("create task", err)
	}
	return t, nil
}

func (a *MSSQLAdapter) UpdateTask(ctx context.Context, id string, patch TaskPatch) (*models.Task, error) {
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
	t.UpdatedAt = time.Now()
	_, err = a.db.ExecContext(ctx,
		"UPDATE tasks SET name = @p2, description = @p3, status = @p4, updated_at = @p5 WHERE id = @p1",
		t.ID, t.Name, t.Description, t.Status, t.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("update task", err)
	}
	return t, nil
}

func (a *MSSQLAdapter) DeleteTask(ctx context.Context, id string) error {
	return a.deleteByID(ctx, "tasks", "task", id)
}

// --- Time entries ---

func entryScopeSQL(scope EntryScope, args *[]interface{}) string {
	if scope.All {
		return ""
	}
	return "time_entries.user_id = " + param(args, scope.UserID)
}

func (a *MSSQLAdapter) ListTimeEntries(ctx context.Context, scope EntryScope, f TimeEntryFilters) ([]models.TimeEntry, error) {
	var args []interface{}
	var conds []string
	if c := entryScopeSQL(scope, &args); c != "" {
		conds = append(conds, c)
	}
	if f.ProjectID != "" {
		conds = append(conds, "time_entries.project_id = "+param(&args, f.ProjectID))
	}
	if f.TaskID != "" {
		conds = append(conds, "time_entries.task_id = "+param(&args, f.TaskID))
	}
	if f.StartDate != "" {
		conds = append(conds, "time_entries.date >= "+param(&args, f.StartDate))
	}
	if f.EndDate != "" {
		conds = append(conds, "time_entries.date <= "+param(&args, f.EndDate))
	}
	query := "SELECT " + qualify(entryCols, "time_entries") + " FROM time_entries"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY time_entries.date DESC, time_entries.created_at DESC"
	if f.Limit > 0 {
		offset := f.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", offset, f.Limit)
	} else if f.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d ROWS", f.Offset)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("list time entries", err)
	}
	defer rows.Close()
	var entries []models.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrapSQL("list time entries", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSQL("list time entries", err)
	}
	if err := a.attachEntryRefs(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// attachEntryRefs batch-loads the projects and tasks referenced by entries,
// matching the eager loading the GORM adapter does.
func (a *MSSQLAdapter) attachEntryRefs(ctx context.Context, entries []models.TimeEntry) error {
	projectIDs := map[string]bool{}
	taskIDs := map[string]bool{}
	for i := range entries {
		projectIDs[entries[i].ProjectID] = true
		if entries[i].TaskID != nil {
			taskIDs[*entries[i].TaskID] = true
		}
	}
	projects := map[string]*models.Project{}
	for id := range projectIDs {
		p, err := a.GetProject(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return err
		}
		projects[id] = p
	}
	tasks := map[string]*models.Task{}
	for id := range taskIDs {
		t, err := a.GetTask(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return err
		}
		tasks[id] = t
	}
	for i := range entries {
		entries[i].Project = projects[entries[i].ProjectID]
		if entries[i].TaskID != nil {
			entries[i].Task = tasks[*entries[i].TaskID]
		}
	}
	return nil
}

func (a *MSSQLAdapter) GetTimeEntry(ctx context.Context, scope EntryScope, id string) (*models.TimeEntry, error) {
	args := []interface{}{}
	cond := "time_entries.id = " + param(&args, id)
	if c := entryScopeSQL(scope, &args); c != "" {
		cond += " AND " + c
	}
	row := a.db.QueryRowContext(ctx,
		"SELECT "+qualify(entryCols, "time_entries")+" FROM time_entries WHERE "+cond, args...)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("time entry")
	}
	if err != nil {
		return nil, wrapSQL("get time entry", err)
	}
	one := []models.TimeEntry{*e}
	if err := a.attachEntryRefs(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (a *MSSQLAdapter) CreateTimeEntry(ctx context.Context, e *models.TimeEntry) (*models.TimeEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO time_entries ("+entryCols+") VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9, @p10, @p11)",
		e.ID, e.UserID, e.ProjectID, nullStr(e.TaskID), e.Description,
		e.Date, e.StartTime, e.EndTime, e.Duration, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("create time entry", err)
	}
	return e, nil
}

func (a *MSSQLAdapter) UpdateTimeEntry(ctx context.Context, scope EntryScope, id string, patch TimeEntryPatch) (*models.TimeEntry, error) {
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
	e.UpdatedAt = time.Now()
	_, err = a.db.ExecContext(ctx,
		"UPDATE time_entries SET project_id = @p2, task_id = @p3, description = @p4, date = @p5, start_time = @p6, end_time = @p7, duration = @p8, updated_at = @p9 WHERE id = @p1",
		e.ID, e.ProjectID, nullStr(e.TaskID), e.Description,
		e.Date, e.StartTime, e.EndTime, e.Duration, e.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("update time entry", err)
	}
	return e, nil
}

func (a *MSSQLAdapter) DeleteTimeEntry(ctx context.Context, scope EntryScope, id string) error {
	args := []interface{}{}
	cond := "id = " + param(&args, id)
	if !scope.All {
		cond += " AND user_id = " + param(&args, scope.UserID)
	}
	res, err := a.db.ExecContext(ctx, "DELETE FROM time_entries WHERE "+cond, args...)
	if err != nil {
		return wrapSQL("delete time entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFound("time entry")
	}
	return nil
}

// --- Employees and assignments ---

func (a *MSSQLAdapter) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return a.queryEmployees(ctx, "SELECT "+employeeCols+" FROM employees ORDER BY last_name, first_name")
}

func (a *MSSQLAdapter) queryEmployees(ctx context.Context, query string, args ...interface{}) ([]models.Employee, error) {
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("list employees", err)
	}
	defer rows.Close()
	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, wrapSQL("list employees", err)
		}
		employees = append(employees, *e)
	}
	return employees, wrapSQL("list employees", rows.Err())
}

func (a *MSSQLAdapter) GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+employeeCols+" FROM employees WHERE id = @p1", id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("employee")
	}
	if err != nil {
		return nil, wrapSQL("get employee", err)
	}
	return e, nil
}

func (a *MSSQLAdapter) CreateEmployee(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	e.CreatedAt = now
	e.UpdatedAt = now
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO employees ("+employeeCols+") VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)",
		e.ID, e.EmployeeID, e.FirstName, e.LastName, e.Department, nullStr(e.UserID), e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("create employee", err)
	}
	return e, nil
}

func (a *MSSQLAdapter) UpdateEmployee(ctx context.Context, id string, patch EmployeePatch) (*models.Employee, error) {
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
	e.UpdatedAt = time.Now()
	_, err = a.db.ExecContext(ctx,
		"UPDATE employees SET employee_id = @p2, first_name = @p3, last_name = @p4, department = @p5, updated_at = @p6 WHERE id = @p1",
		e.ID, e.EmployeeID, e.FirstName, e.LastName, e.Department, e.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("update employee", err)
	}
	return e, nil
}

func (a *MSSQLAdapter) DeleteEmployee(ctx context.Context, id string) error {
	return a.deleteByID(ctx, "employees", "employee", id)
}

func (a *MSSQLAdapter) LinkUserToEmployee(ctx context.Context, employeeID, userID string) (*models.Employee, error) {
	res, err := a.db.ExecContext(ctx,
		"UPDATE employees SET user_id = @p2, updated_at = @p3 WHERE id = @p1",
		employeeID, userID, time.Now())
	if err != nil {
		return nil, wrapSQL("link user to employee", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, NotFound("employee")
	}
	return a.GetEmployee(ctx, employeeID)
}

func (a *MSSQLAdapter) ReplaceProjectAssignments(ctx context.Context, projectID string, employeeIDs []string, assignedBy string) error {
	err := a.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM project_employees WHERE project_id = @p1", projectID); err != nil {
			return err
		}
		now := time.Now()
		for _, empID := range employeeIDs {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO project_employees (id, project_id, employee_id, user_id, created_at) VALUES (@p1, @p2, @p3, @p4, @p5)",
				uuid.NewString(), projectID, empID, assignedBy, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	return wrapSQL("replace project assignments", err)
}

func (a *MSSQLAdapter) ListProjectEmployees(ctx context.Context, projectID string) ([]models.Employee, error) {
	return a.queryEmployees(ctx,
		"SELECT "+qualify(employeeCols, "e")+" FROM employees e JOIN project_employees pe ON pe.employee_id = e.id WHERE pe.project_id = @p1 ORDER BY e.last_name, e.first_name",
		projectID)
}

func (a *MSSQLAdapter) RemoveEmployeeFromProject(ctx context.Context, projectID, employeeID string) error {
	res, err := a.db.ExecContext(ctx,
		"DELETE FROM project_employees WHERE project_id = @p1 AND employee_id = @p2", projectID, employeeID)
	if err != nil {
		return wrapSQL("remove employee from project", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFound("assignment")
	}
	return nil
}

// --- Organizations and departments ---

func (a *MSSQLAdapter) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	rows, err := a.db.QueryContext(ctx, "SELECT "+orgCols+" FROM organizations ORDER BY name")
	if err != nil {
		return nil, wrapSQL("list organizations", err)
	}
	defer rows.Close()
	var orgs []models.Organization
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, wrapSQL("list organizations", err)
		}
		orgs = append(orgs, *o)
	}
	return orgs, wrapSQL("list organizations", rows.Err())
}

func (a *MSSQLAdapter) GetOrganization(ctx context.Context, id string) (*models.Organization, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+orgCols+" FROM organizations WHERE id = @p1", id)
	o, err := scanOrg(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("organization")
	}
	if err != nil {
		return nil, wrapSQL("get organization", err)
	}
	return o, nil
}

func (a *MSSQLAdapter) CreateOrganization(ctx context.Context, o *models.Organization) (*models.Organization, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO organizations ("+orgCols+") VALUES (@p1, @p2, @p3, @p4, @p5, @p6)",
		o.ID, o.Name, o.Description, o.UserID, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("create organization", err)
	}
	return o, nil
}

func (a *MSSQLAdapter) UpdateOrganization(ctx context.Context, id string, patch OrganizationPatch) (*models.Organization, error) {
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
	o.UpdatedAt = time.Now()
	_, err = a.db.ExecContext(ctx,
		"UPDATE organizations SET name = @p2, description = @p3, updated_at = @p4 WHERE id = @p1",
		o.ID, o.Name, o.Description, o.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("update organization", err)
	}
	return o, nil
}

func (a *MSSQLAdapter) DeleteOrganization(ctx context.Context, id string) error {
	return a.deleteByID(ctx, "organizations", "organization", id)
}

func (a *MSSQLAdapter) ListDepartments(ctx context.Context, organizationID string) ([]models.Department, error) {
	var args []interface{}
	query := "SELECT " + deptCols + " FROM departments"
	if organizationID != "" {
		query += " WHERE organization_id = " + param(&args, organizationID)
	}
	query += " ORDER BY name"
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("list departments", err)
	}
	defer rows.Close()
	var departments []models.Department
	for rows.Next() {
		d, err := scanDept(rows)
		if err != nil {
			return nil, wrapSQL("list departments", err)
		}
		departments = append(departments, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSQL("list departments", err)
	}
	for i := range departments {
		if err := a.attachManager(ctx, &departments[i]); err != nil {
			return nil, err
		}
	}
	return departments, nil
}

func (a *MSSQLAdapter) attachManager(ctx context.Context, d *models.Department) error {
	if d.ManagerID == nil {
		return nil
	}
	m, err := a.GetEmployee(ctx, *d.ManagerID)
	if err != nil {
		if IsNotFound(err) {
			return nil
		}
		return err
	}
	d.Manager = m
	return nil
}

func (a *MSSQLAdapter) GetDepartment(ctx context.Context, id string) (*models.Department, error) {
	row := a.db.QueryRowContext(ctx, "SELECT "+deptCols+" FROM departments WHERE id = @p1", id)
	d, err := scanDept(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFound("department")
	}
	if err != nil {
		return nil, wrapSQL("get department", err)
	}
	if err := a.attachManager(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (a *MSSQLAdapter) CreateDepartment(ctx context.Context, d *models.Department) (*models.Department, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO departments ("+deptCols+") VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8)",
		d.ID, d.Name, d.OrganizationID, nullStr(d.ManagerID), d.Description, d.UserID, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("create department", err)
	}
	return d, nil
}

func (a *MSSQLAdapter) UpdateDepartment(ctx context.Context, id string, patch DepartmentPatch) (*models.Department, error) {
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
	d.UpdatedAt = time.Now()
	_, err = a.db.ExecContext(ctx,
		"UPDATE departments SET name = @p2, manager_id = @p3, description = @p4, updated_at = @p5 WHERE id = @p1",
		d.ID, d.Name, nullStr(d.ManagerID), d.Description, d.UpdatedAt)
	if err != nil {
		return nil, wrapSQL("update department", err)
	}
	return d, nil
}

func (a *MSSQLAdapter) DeleteDepartment(ctx context.Context, id string) error {
	return a.deleteByID(ctx, "departments", "department", id)
}

// --- Aggregates ---

func (a *MSSQLAdapter) SumDurations(ctx context.Context, scope EntryScope, from, to string) (float64, error) {
	var args []interface{}
	var conds []string
	if c := entryScopeSQL(scope, &args); c != "" {
		conds = append(conds, c)
	}
	if from != "" {
		conds = append(conds, "time_entries.date >= "+param(&args, from))
	}
	if to != "" {
		conds = append(conds, "time_entries.date <= "+param(&args, to))
	}
	query := "SELECT COALESCE(SUM(duration), 0) FROM time_entries"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	var total float64
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, wrapSQL("sum durations", err)
	}
	return total, nil
}

func (a *MSSQLAdapter) CountActiveProjects(ctx context.Context, scope EntryScope, since string) (int, error) {
	var args []interface{}
	var conds []string
	if c := entryScopeSQL(scope, &args); c != "" {
		conds = append(conds, c)
	}
	if since != "" {
		conds = append(conds, "time_entries.date >= "+param(&args, since))
	}
	query := "SELECT COUNT(DISTINCT project_id) FROM time_entries"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	var count int
	if err := a.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrapSQL("count active projects", err)
	}
	return count, nil
}

func (a *MSSQLAdapter) ProjectHours(ctx context.Context, scope ProjectScope, from, to string) ([]ProjectHoursRow, error) {
	var args []interface{}
	var conds []string
	if c := projectScopeSQL(scope, &args); c != "" {
		conds = append(conds, c)
	}
	if from != "" {
		conds = append(conds, "time_entries.date >= "+param(&args, from))
	}
	if to != "" {
		conds = append(conds, "time_entries.date <= "+param(&args, to))
	}
	query := "SELECT time_entries.project_id, COALESCE(SUM(time_entries.duration), 0) AS total_hours" +
		" FROM time_entries JOIN projects ON projects.id = time_entries.project_id"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " GROUP BY time_entries.project_id ORDER BY total_hours DESC"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("project hours", err)
	}
	defer rows.Close()
	type scanned struct {
		projectID string
		total     float64
	}
	var all []scanned
	for rows.Next() {
		var s scanned
		if err := rows.Scan(&s.projectID, &s.total); err != nil {
			return nil, wrapSQL("project hours", err)
		}
		all = append(all, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSQL("project hours", err)
	}

	if len(all) == 0 {
		return []ProjectHoursRow{}, nil
	}
	var inArgs []interface{}
	places := make([]string, 0, len(all))
	for _, s := range all {
		places = append(places, param(&inArgs, s.projectID))
	}
	prows, err := a.db.QueryContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id IN ("+strings.Join(places, ", ")+")", inArgs...)
	if err != nil {
		return nil, wrapSQL("project hours", err)
	}
	defer prows.Close()
	byID := make(map[string]models.Project, len(all))
	for prows.Next() {
		p, err := scanProject(prows)
		if err != nil {
			return nil, wrapSQL("project hours", err)
		}
		byID[p.ID] = *p
	}
	if err := prows.Err(); err != nil {
		return nil, wrapSQL("project hours", err)
	}

	result := make([]ProjectHoursRow, 0, len(all))
	for _, s := range all {
		p, ok := byID[s.projectID]
		if !ok {
			continue
		}
		result = append(result, ProjectHoursRow{Project: p, TotalHours: s.total})
	}
	return result, nil
}

func (a *MSSQLAdapter) DepartmentHours(ctx context.Context, scope EntryScope, from, to string) ([]DepartmentHoursRow, error) {
	var args []interface{}
	join := "LEFT JOIN time_entries ON time_entries.user_id = employees.user_id"
	if from != "" {
		join += " AND time_entries.date >= " + param(&args, from)
	}
	if to != "" {
		join += " AND time_entries.date <= " + param(&args, to)
	}
	query := "SELECT employees.department, COALESCE(SUM(time_entries.duration), 0) AS total_hours, COUNT(DISTINCT employees.id) AS employee_count" +
		" FROM employees " + join
	if !scope.All {
		query += " WHERE employees.user_id = " + param(&args, scope.UserID)
	}
	query += " GROUP BY employees.department HAVING employees.department IS NOT NULL AND employees.department != '' ORDER BY total_hours DESC"

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapSQL("department hours", err)
	}
	defer rows.Close()
	var result []DepartmentHoursRow
	for rows.Next() {
		var r DepartmentHoursRow
		if err := rows.Scan(&r.Department, &r.TotalHours, &r.EmployeeCount); err != nil {
			return nil, wrapSQL("department hours", err)
		}
		result = append(result, r)
	}
	return result, wrapSQL("department hours", rows.Err())
}

func (a *MSSQLAdapter) ListEntriesForProject(ctx context.Context, projectID string) ([]ProjectEntryRow, error) {
	entries, err := a.ListTimeEntries(ctx, EntryScope{All: true}, TimeEntryFilters{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	users := map[string]*models.User{}
	result := make([]ProjectEntryRow, 0, len(entries))
	for _, e := range entries {
		u, ok := users[e.UserID]
		if !ok {
			u, err = a.GetUser(ctx, e.UserID)
			if err != nil {
				if !IsNotFound(err) {
					return nil, err
				}
				u = nil
			}
			users[e.UserID] = u
		}
		result = append(result, ProjectEntryRow{Entry: e, User: u})
	}
	return result, nil
}

// --- Audit trail ---

func (a *MSSQLAdapter) InsertAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO audit_logs (level, action, entity, entity_id, message, user_id, ip, extra, created_at) VALUES (@p1, @p2, @p3, @p4, @p5, @p6, @p7, @p8, @p9)",
		entry.Level, entry.Action, entry.Entity, entry.EntityID, entry.Message,
		entry.UserID, entry.IP, entry.Extra, entry.CreatedAt)
	return wrapSQL("insert audit log", err)
}

func (a *MSSQLAdapter) PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	res, err := a.db.ExecContext(ctx, "DELETE FROM audit_logs WHERE created_at < @p1", before)
	if err != nil {
		return 0, wrapSQL("purge audit logs", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (a *MSSQLAdapter) Ping(ctx context.Context) error {
	return wrapSQL("ping", a.db.PingContext(ctx))
}

func (a *MSSQLAdapter) Close() error {
	return a.db.Close()
}

func (a *MSSQLAdapter) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
