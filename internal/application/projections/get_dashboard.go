package projections

import (
	"context"
	"time"

	rollcallDomain "rollcall/internal/domain/rollcall"
	scheduleDomain "rollcall/internal/domain/schedule"
)

// DashboardScheduleStore defines the schedule store interface needed by the
// dashboard projection.
type DashboardScheduleStore interface {
	ListByDay(ctx context.Context, day string) ([]scheduleDomain.Entry, error)
}

// DashboardRollCallStore defines the roll-call store interface needed by the
// dashboard projection.
type DashboardRollCallStore interface {
	CurrentSession(ctx context.Context) (rollcallDomain.Session, bool, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Squad string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	ScheduleStore DashboardScheduleStore
	RollCallStore DashboardRollCallStore
}

// DashboardResult carries everything the squad dashboard renders.
type DashboardResult struct {
	Squad    string
	Today    []scheduleDomain.Entry
	Tomorrow []scheduleDomain.Entry

	// Done is true when the squad has marked in the current round;
	// DoneAt is only meaningful then. Earlier rounds are invisible here.
	Done   bool
	DoneAt time.Time
}

// QueryGetDashboard aggregates the squad's view: both day columns in
// canonical order plus the squad's mark status for the current round only.
// PRE: query.Squad is a non-empty squad name
// POST: Returns the read model; reading never creates a session
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	result := DashboardResult{Squad: query.Squad}

	today, err := deps.ScheduleStore.ListByDay(ctx, scheduleDomain.DayToday)
	if err != nil {
		return DashboardResult{}, err
	}
	tomorrow, err := deps.ScheduleStore.ListByDay(ctx, scheduleDomain.DayTomorrow)
	if err != nil {
		return DashboardResult{}, err
	}
	result.Today = today
	result.Tomorrow = tomorrow

	cur, ok, err := deps.RollCallStore.CurrentSession(ctx)
	if err != nil {
		return DashboardResult{}, err
	}
	if ok {
		if entry, found := cur.EntryFor(query.Squad); found {
			result.Done = true
			result.DoneAt = entry.MarkedAt
		}
	}

	return result, nil
}
