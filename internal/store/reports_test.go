package store

import (
	"context"
	"testing"
	"time"
)

// fixedNow pins the facade clock so calendar windows are deterministic.
func fixedNow(f *Facade, iso string) {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		panic(err)
	}
	f.now = func() time.Time { return t }
}

func TestGetDashboardStats(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	// Tuesday 2025-03-18: week window starts 03-11, month window 03-01,
	// activity window 02-16.
	fixedNow(f, "2025-03-18T12:00:00Z")

	seedUser(t, f, "admin", "admin")
	seedUser(t, f, "emp", "employee")
	p1 := seedProject(t, f, "admin", "P1")
	p2 := seedProject(t, f, "admin", "P2")

	seedEntry(t, f, "admin", "", p1.ID, "2025-03-18", 2)   // today
	seedEntry(t, f, "admin", "", p1.ID, "2025-03-12", 3)   // this week
	seedEntry(t, f, "admin", "", p2.ID, "2025-03-03", 4)   // this month
	seedEntry(t, f, "admin", "", p2.ID, "2025-02-20", 5)   // last month, inside 30d
	seedEntry(t, f, "admin", "", p1.ID, "2024-12-01", 9)   // ancient
	seedEntry(t, f, "emp", "", p1.ID, "2025-03-18", 1.5)   // another user, today

	stats, err := f.GetDashboardStats(ctx, "admin", "", "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TodayHours != 3.5 {
		t.Errorf("TodayHours = %v, expected 3.5", stats.TodayHours)
	}
	if stats.WeekHours != 6.5 {
		t.Errorf("WeekHours = %v, expected 6.5", stats.WeekHours)
	}
	if stats.MonthHours != 10.5 {
		t.Errorf("MonthHours = %v, expected 10.5", stats.MonthHours)
	}
	if stats.ActiveProjects != 2 {
		t.Errorf("ActiveProjects = %d, expected 2", stats.ActiveProjects)
	}

	// Employees get personal numbers only.
	empStats, err := f.GetDashboardStats(ctx, "emp", "", "")
	if err != nil {
		t.Fatalf("emp stats: %v", err)
	}
	if empStats.TodayHours != 1.5 {
		t.Errorf("employee TodayHours = %v, expected 1.5", empStats.TodayHours)
	}
	if empStats.WeekHours != 1.5 {
		t.Errorf("employee WeekHours = %v, expected 1.5", empStats.WeekHours)
	}
	if empStats.ActiveProjects != 1 {
		t.Errorf("employee ActiveProjects = %d, expected 1", empStats.ActiveProjects)
	}
}

func TestGetDashboardStats_ZeroHistory(t *testing.T) {
	f := newTestStore(t)
	seedUser(t, f, "admin", "admin")

	stats, err := f.GetDashboardStats(context.Background(), "admin", "", "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TodayHours != 0 || stats.WeekHours != 0 || stats.MonthHours != 0 || stats.ActiveProjects != 0 {
		t.Errorf("empty history should produce all zeros, got %+v", stats)
	}
}

func TestGetDashboardStats_ExplicitWindow(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	fixedNow(f, "2025-03-18T12:00:00Z")

	seedUser(t, f, "admin", "admin")
	p1 := seedProject(t, f, "admin", "P1")
	p2 := seedProject(t, f, "admin", "P2")

	seedEntry(t, f, "admin", "", p1.ID, "2025-03-18", 2)
	seedEntry(t, f, "admin", "", p1.ID, "2025-03-12", 3)
	seedEntry(t, f, "admin", "", p2.ID, "2025-03-03", 4)
	seedEntry(t, f, "admin", "", p2.ID, "2025-02-20", 5)

	// An explicit window replaces the default week range only; today,
	// month and active-project figures stay pinned to the clock.
	stats, err := f.GetDashboardStats(ctx, "admin", "2025-02-01", "2025-03-05")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.WeekHours != 9 {
		t.Errorf("WeekHours = %v, expected 9 for the explicit window", stats.WeekHours)
	}
	if stats.TodayHours != 2 {
		t.Errorf("TodayHours = %v, expected 2", stats.TodayHours)
	}
	if stats.MonthHours != 9 {
		t.Errorf("MonthHours = %v, expected 9", stats.MonthHours)
	}
	if stats.ActiveProjects != 2 {
		t.Errorf("ActiveProjects = %d, expected 2", stats.ActiveProjects)
	}

	// Either bound may be given alone; the other keeps its default.
	open, err := f.GetDashboardStats(ctx, "admin", "2025-03-01", "")
	if err != nil {
		t.Fatalf("open-ended stats: %v", err)
	}
	if open.WeekHours != 9 {
		t.Errorf("WeekHours = %v, expected 9 for start through today", open.WeekHours)
	}

	if _, err := f.GetDashboardStats(ctx, "admin", "03/01/2025", ""); !IsValidation(err) {
		t.Errorf("malformed startDate error = %v, expected validation", err)
	}
	if _, err := f.GetDashboardStats(ctx, "admin", "", "not-a-date"); !IsValidation(err) {
		t.Errorf("malformed endDate error = %v, expected validation", err)
	}
}

func TestGetProjectTimeBreakdown_Percentages(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	seedUser(t, f, "admin", "admin")
	pa := seedProject(t, f, "admin", "A")
	pb := seedProject(t, f, "admin", "B")
	pc := seedProject(t, f, "admin", "C")

	seedEntry(t, f, "admin", "", pa.ID, "2025-03-10", 30)
	seedEntry(t, f, "admin", "", pb.ID, "2025-03-10", 20)
	seedEntry(t, f, "admin", "", pc.ID, "2025-03-10", 10)

	rows, err := f.GetProjectTimeBreakdown(ctx, "admin", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, expected 3", len(rows))
	}
	// Ordered by hours descending; percentages round per row.
	want := []struct {
		hours float64
		pct   int
	}{{30, 50}, {20, 33}, {10, 17}}
	for i, w := range want {
		if rows[i].TotalHours != w.hours {
			t.Errorf("rows[%d].TotalHours = %v, expected %v", i, rows[i].TotalHours, w.hours)
		}
		if rows[i].Percentage != w.pct {
			t.Errorf("rows[%d].Percentage = %d, expected %d", i, rows[i].Percentage, w.pct)
		}
	}
}

func TestGetProjectTimeBreakdown_RoundingDoesNotForce100(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	seedUser(t, f, "admin", "admin")
	for _, n := range []string{"A", "B", "C"} {
		p := seedProject(t, f, "admin", n)
		seedEntry(t, f, "admin", "", p.ID, "2025-03-10", 1)
	}

	rows, err := f.GetProjectTimeBreakdown(ctx, "admin", "", "")
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, expected 3", len(rows))
	}
	sum := 0
	for _, r := range rows {
		if r.Percentage != 33 {
			t.Errorf("Percentage = %d, expected 33", r.Percentage)
		}
		sum += r.Percentage
	}
	if sum != 99 {
		t.Errorf("percentage sum = %d, expected 99 (no normalization)", sum)
	}
}

func TestGetProjectTimeBreakdown_ScopeAndValidation(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	seedUser(t, f, "admin", "admin")
	seedUser(t, f, "pm", "project_manager")
	seedUser(t, f, "emp", "employee")

	open := seedProject(t, f, "admin", "Open")
	restricted := false
	hidden, err := f.CreateProject(ctx, "pm", CreateProjectInput{Name: "Hidden", IsEnterpriseWide: &restricted})
	if err != nil {
		t.Fatalf("create hidden: %v", err)
	}
	seedEntry(t, f, "admin", "", open.ID, "2025-03-10", 4)
	seedEntry(t, f, "admin", "", hidden.ID, "2025-03-10", 6)

	adminRows, err := f.GetProjectTimeBreakdown(ctx, "admin", "", "")
	if err != nil {
		t.Fatalf("admin breakdown: %v", err)
	}
	if len(adminRows) != 2 {
		t.Errorf("admin sees %d rows, expected 2", len(adminRows))
	}

	// The restricted project's hours stay out of the employee's breakdown
	// and out of its percentage base.
	empRows, err := f.GetProjectTimeBreakdown(ctx, "emp", "", "")
	if err != nil {
		t.Fatalf("emp breakdown: %v", err)
	}
	if len(empRows) != 1 {
		t.Fatalf("employee sees %d rows, expected 1", len(empRows))
	}
	if empRows[0].Project.ID != open.ID {
		t.Error("employee should see only the enterprise-wide project")
	}
	if empRows[0].Percentage != 100 {
		t.Errorf("Percentage = %d, expected 100 within the visible slice", empRows[0].Percentage)
	}

	if _, err := f.GetProjectTimeBreakdown(ctx, "admin", "03-01-2025", ""); !IsValidation(err) {
		t.Errorf("bad start date should be a validation error, got %v", err)
	}
}

func TestGetDepartmentHoursSummary(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	seedUser(t, f, "admin", "admin")
	seedUser(t, f, "mgr", "manager")
	seedUser(t, f, "u-eng", "employee")
	seedUser(t, f, "u-eng2", "employee")
	seedUser(t, f, "u-sales", "employee")
	p := seedProject(t, f, "admin", "P")

	mk := func(empID, userID, dept string) {
		e, err := f.CreateEmployee(ctx, "admin", CreateEmployeeInput{
			EmployeeID: empID, FirstName: empID, LastName: "X", Department: dept,
		})
		if err != nil {
			t.Fatalf("create employee %s: %v", empID, err)
		}
		if _, err := f.LinkUserToEmployee(ctx, "admin", e.ID, userID); err != nil {
			t.Fatalf("link %s: %v", empID, err)
		}
	}
	mk("E-1", "u-eng", "Engineering")
	mk("E-2", "u-eng2", "Engineering")
	mk("E-3", "u-sales", "Sales")

	seedEntry(t, f, "admin", "u-eng", p.ID, "2025-03-10", 5)
	seedEntry(t, f, "admin", "u-eng2", p.ID, "2025-03-11", 3)
	seedEntry(t, f, "admin", "u-sales", p.ID, "2025-03-10", 2)

	rows, err := f.GetDepartmentHoursSummary(ctx, "admin", "2025-03-01", "2025-03-31")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, expected 2", len(rows))
	}
	if rows[0].Department != "Engineering" || rows[0].TotalHours != 8 {
		t.Errorf("rows[0] = %+v, expected Engineering with 8 hours", rows[0])
	}
	if rows[0].EmployeeCount != 2 {
		t.Errorf("Engineering EmployeeCount = %d, expected 2", rows[0].EmployeeCount)
	}
	if rows[1].Department != "Sales" || rows[1].TotalHours != 2 {
		t.Errorf("rows[1] = %+v, expected Sales with 2 hours", rows[1])
	}

	// A window with no activity drops every department.
	empty, err := f.GetDepartmentHoursSummary(ctx, "admin", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("empty window: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty window returned %d rows, expected 0", len(empty))
	}

	// Non-admins only see the slice their own account contributes.
	own, err := f.GetDepartmentHoursSummary(ctx, "u-sales", "", "")
	if err != nil {
		t.Fatalf("own summary: %v", err)
	}
	if len(own) != 1 || own[0].Department != "Sales" || own[0].TotalHours != 2 {
		t.Errorf("own summary = %+v, expected only the Sales slice", own)
	}

	mgrRows, err := f.GetDepartmentHoursSummary(ctx, "mgr", "", "")
	if err != nil {
		t.Fatalf("manager summary: %v", err)
	}
	if len(mgrRows) != 0 {
		t.Errorf("unlinked manager should see no departments, got %d", len(mgrRows))
	}
}

func TestGetRecentActivity(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	seedUser(t, f, "admin", "admin")
	seedUser(t, f, "emp", "employee")
	p := seedProject(t, f, "admin", "P")

	for day := 1; day <= 12; day++ {
		date := time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		seedEntry(t, f, "admin", "", p.ID, date, 1)
	}
	seedEntry(t, f, "emp", "", p.ID, "2025-03-20", 2)

	recent, err := f.GetRecentActivity(ctx, "admin", 0, "", "")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 10 {
		t.Errorf("default limit returned %d entries, expected 10", len(recent))
	}
	if recent[0].Date != "2025-03-20" {
		t.Errorf("first entry date = %q, expected the newest", recent[0].Date)
	}

	three, err := f.GetRecentActivity(ctx, "admin", 3, "", "")
	if err != nil {
		t.Fatalf("recent 3: %v", err)
	}
	if len(three) != 3 {
		t.Errorf("limit 3 returned %d entries", len(three))
	}

	ownRecent, err := f.GetRecentActivity(ctx, "emp", 0, "", "")
	if err != nil {
		t.Fatalf("emp recent: %v", err)
	}
	if len(ownRecent) != 1 {
		t.Errorf("employee recent = %d entries, expected 1", len(ownRecent))
	}
}

func TestGetRecentActivity_DateWindow(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	seedUser(t, f, "admin", "admin")
	p := seedProject(t, f, "admin", "P")

	for day := 1; day <= 12; day++ {
		date := time.Date(2025, 3, day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
		seedEntry(t, f, "admin", "", p.ID, date, 1)
	}

	windowed, err := f.GetRecentActivity(ctx, "admin", 0, "2025-03-05", "2025-03-08")
	if err != nil {
		t.Fatalf("windowed recent: %v", err)
	}
	if len(windowed) != 4 {
		t.Fatalf("windowed recent = %d entries, expected 4", len(windowed))
	}
	if windowed[0].Date != "2025-03-08" || windowed[3].Date != "2025-03-05" {
		t.Errorf("window bounds wrong: first %q, last %q", windowed[0].Date, windowed[3].Date)
	}

	if _, err := f.GetRecentActivity(ctx, "admin", 0, "bogus", ""); !IsValidation(err) {
		t.Errorf("malformed startDate error = %v, expected validation", err)
	}
}

func TestGetTimeEntriesForProject(t *testing.T) {
	f := newTestStore(t)
	ctx := context.Background()
	seedUser(t, f, "admin", "admin")
	seedUser(t, f, "emp", "employee")
	p := seedProject(t, f, "admin", "P")
	other := seedProject(t, f, "admin", "Other")

	seedEntry(t, f, "admin", "", p.ID, "2025-03-10", 2)
	seedEntry(t, f, "emp", "", p.ID, "2025-03-12", 3)
	seedEntry(t, f, "admin", "", other.ID, "2025-03-12", 4)

	rows, err := f.GetTimeEntriesForProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("project entries: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, expected 2", len(rows))
	}
	if rows[0].Entry.Date != "2025-03-12" {
		t.Errorf("rows[0].Date = %q, expected newest first", rows[0].Entry.Date)
	}
	for _, r := range rows {
		if r.User == nil {
			t.Error("each row should carry the logging user")
		} else if r.User.ID != r.Entry.UserID {
			t.Errorf("row user %q does not match entry user %q", r.User.ID, r.Entry.UserID)
		}
	}
}
