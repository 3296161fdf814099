package projections

import (
	"context"

	rollcallDomain "rollcall/internal/domain/rollcall"
	scheduleDomain "rollcall/internal/domain/schedule"
)

// AdminRollCallStore defines the roll-call store interface needed by the
// admin overview projection.
type AdminRollCallStore interface {
	ListSessions(ctx context.Context) ([]rollcallDomain.Session, error)
}

// GetAdminOverviewDeps holds dependencies for the admin overview projection.
type GetAdminOverviewDeps struct {
	ScheduleStore DashboardScheduleStore
	RollCallStore AdminRollCallStore
}

// AdminOverviewResult carries everything the admin page renders.
type AdminOverviewResult struct {
	Today    []scheduleDomain.Entry
	Tomorrow []scheduleDomain.Entry

	// Sessions is the full roll-call history in creation order; Current is
	// the latest one. HasCurrent is false only before the first session
	// has ever been created.
	Sessions   []rollcallDomain.Session
	Current    rollcallDomain.Session
	HasCurrent bool
}

// QueryGetAdminOverview aggregates the admin view: the whole schedule board
// plus every roll-call round ever run.
// PRE: caller has already been gated to the admin role
// POST: Returns the read model; reading never creates a session
func QueryGetAdminOverview(ctx context.Context, deps GetAdminOverviewDeps) (AdminOverviewResult, error) {
	result := AdminOverviewResult{}

	today, err := deps.ScheduleStore.ListByDay(ctx, scheduleDomain.DayToday)
	if err != nil {
		return AdminOverviewResult{}, err
	}
	tomorrow, err := deps.ScheduleStore.ListByDay(ctx, scheduleDomain.DayTomorrow)
	if err != nil {
		return AdminOverviewResult{}, err
	}
	result.Today = today
	result.Tomorrow = tomorrow

	sessions, err := deps.RollCallStore.ListSessions(ctx)
	if err != nil {
		return AdminOverviewResult{}, err
	}
	result.Sessions = sessions
	if n := len(sessions); n > 0 {
		result.Current = sessions[n-1]
		result.HasCurrent = true
	}

	return result, nil
}
