package store

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nvallee/timetracker/backend/internal/models"
	"github.com/nvallee/timetracker/backend/pkg/logger"
)

// Reporting operations. All calendar math happens in the deployment
// timezone and produces YYYY-MM-DD strings that are compared against the
// stored date column as plain strings.

func (f *Facade) dateIn(t time.Time) string {
	return t.In(f.loc).Format("2006-01-02")
}

func (f *Facade) today() string {
	return f.dateIn(f.now())
}

// statsScopeFor is the visibility rule for headline stats: admins and
// project managers see organization-wide numbers, everyone else their own.
// This is deliberately narrower than the listing scope, where managers also
// see all entries.
func statsScopeFor(role Role, userID string) EntryScope {
	switch role {
	case RoleAdmin, RoleProjectManager:
		return EntryScope{All: true}
	default:
		return EntryScope{All: false, UserID: userID}
	}
}

// GetDashboardStats returns today's, this week's and this month's logged
// hours plus the count of projects with activity in the trailing 30 days.
// startDate and endDate, when given, replace the default week window of the
// last seven days through today; the other figures stay anchored to the
// current date. The four sums run concurrently; the first backend failure
// cancels the rest.
func (f *Facade) GetDashboardStats(ctx context.Context, actorID, startDate, endDate string) (*DashboardStats, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if startDate != "" && !validDate(startDate) {
		return nil, Invalid("startDate must be YYYY-MM-DD")
	}
	if endDate != "" && !validDate(endDate) {
		return nil, Invalid("endDate must be YYYY-MM-DD")
	}
	scope := statsScopeFor(role, actorID)

	now := f.now().In(f.loc)
	today := f.dateIn(now)
	weekStart := startDate
	if weekStart == "" {
		weekStart = f.dateIn(now.AddDate(0, 0, -7))
	}
	weekEnd := endDate
	if weekEnd == "" {
		weekEnd = today
	}
	monthStart := f.dateIn(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, f.loc))
	activeSince := f.dateIn(now.AddDate(0, 0, -30))

	stats := &DashboardStats{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := run(gctx, "sum durations", func() (float64, error) {
			return f.adapter.SumDurations(gctx, scope, today, today)
		})
		stats.TodayHours = v
		return err
	})
	g.Go(func() error {
		v, err := run(gctx, "sum durations", func() (float64, error) {
			return f.adapter.SumDurations(gctx, scope, weekStart, weekEnd)
		})
		stats.WeekHours = v
		return err
	})
	g.Go(func() error {
		v, err := run(gctx, "sum durations", func() (float64, error) {
			return f.adapter.SumDurations(gctx, scope, monthStart, today)
		})
		stats.MonthHours = v
		return err
	})
	g.Go(func() error {
		v, err := run(gctx, "count active projects", func() (int, error) {
			return f.adapter.CountActiveProjects(gctx, scope, activeSince)
		})
		stats.ActiveProjects = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// GetProjectTimeBreakdown sums hours per visible project over the date range
// (both ends optional) and attaches a whole-number percentage of the range
// total, rounded per row. Projects with zero hours are dropped. Unlike the
// other reads, a backend failure here degrades to an empty breakdown so a
// reporting hiccup never takes the dashboard down with it.
func (f *Facade) GetProjectTimeBreakdown(ctx context.Context, actorID, startDate, endDate string) ([]ProjectBreakdownRow, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if startDate != "" && !validDate(startDate) {
		return nil, Invalid("startDate must be YYYY-MM-DD")
	}
	if endDate != "" && !validDate(endDate) {
		return nil, Invalid("endDate must be YYYY-MM-DD")
	}
	scope := projectScopeFor(role, actorID)

	raw, err := run(ctx, "project hours", func() ([]ProjectHoursRow, error) {
		return f.adapter.ProjectHours(ctx, scope, startDate, endDate)
	})
	if err != nil {
		logger.Error().Err(err).Msg("project time breakdown query failed")
		return []ProjectBreakdownRow{}, nil
	}

	var total float64
	for _, r := range raw {
		total += r.TotalHours
	}
	rows := make([]ProjectBreakdownRow, 0, len(raw))
	for _, r := range raw {
		if r.TotalHours <= 0 {
			continue
		}
		pct := 0
		if total > 0 {
			pct = int(math.Round(r.TotalHours / total * 100))
		}
		rows = append(rows, ProjectBreakdownRow{
			Project:    r.Project,
			TotalHours: r.TotalHours,
			Percentage: pct,
		})
	}
	return rows, nil
}

// GetDepartmentHoursSummary groups hours by the employees' department label.
// Admins see every department; everyone else only the slice their own linked
// employee row contributes. Departments with no positive hours in the range
// are omitted.
func (f *Facade) GetDepartmentHoursSummary(ctx context.Context, actorID, startDate, endDate string) ([]DepartmentHoursRow, error) {
	role, err := f.resolveRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if startDate != "" && !validDate(startDate) {
		return nil, Invalid("startDate must be YYYY-MM-DD")
	}
	if endDate != "" && !validDate(endDate) {
		return nil, Invalid("endDate must be YYYY-MM-DD")
	}
	scope := EntryScope{All: role == RoleAdmin, UserID: actorID}

	raw, err := run(ctx, "department hours", func() ([]DepartmentHoursRow, error) {
		return f.adapter.DepartmentHours(ctx, scope, startDate, endDate)
	})
	if err != nil {
		return nil, err
	}
	rows := make([]DepartmentHoursRow, 0, len(raw))
	for _, r := range raw {
		if r.TotalHours > 0 {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// GetRecentActivity returns the caller's most recent time entries within
// their visibility, newest first, optionally restricted to a date window.
// limit defaults to 10.
func (f *Facade) GetRecentActivity(ctx context.Context, actorID string, limit int, startDate, endDate string) ([]models.TimeEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return f.GetTimeEntries(ctx, actorID, TimeEntryFilters{
		Limit:     limit,
		StartDate: startDate,
		EndDate:   endDate,
	})
}

// GetTimeEntriesForProject returns every entry logged against a project,
// newest first, each carrying the logging user for display.
func (f *Facade) GetTimeEntriesForProject(ctx context.Context, projectID string) ([]ProjectEntryRow, error) {
	return run(ctx, "list project entries", func() ([]ProjectEntryRow, error) {
		return f.adapter.ListEntriesForProject(ctx, projectID)
	})
}

// PurgeAuditLogs removes audit rows older than the retention window. Called
// by the scheduled cleanup job.
func (f *Facade) PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	return run(ctx, "purge audit logs", func() (int64, error) {
		return f.adapter.PurgeAuditLogs(ctx, before)
	})
}
