// Package schedule provides reference implementations of the gatekeeper's
// market-schedule and data-freshness collaborators, backed by a static UTC
// session table. Production deployments substitute exchange-calendar-aware
// implementations behind the same interfaces.
package schedule

import (
	"fmt"
	"time"

	"github.com/quantrun/riskgate/internal/domain"
	"github.com/quantrun/riskgate/internal/gates"
)

// weeklyBoundaryWindow flags sessions within this much of a weekly close or
// reopen; such trades warn but are not blocked.
const weeklyBoundaryWindow = time.Hour

// Static answers schedule queries from fixed UTC session windows
type Static struct{}

// NewStatic returns the static session-table schedule
func NewStatic() *Static {
	return &Static{}
}

// Status reports the current market state for an asset
func (s *Static) Status(asset string, class domain.AssetClass) gates.ScheduleStatus {
	return s.StatusAt(asset, class, time.Now().UTC())
}

// StatusAt reports the market state at a historical instant, for replay
func (s *Static) StatusAt(asset string, class domain.AssetClass, at time.Time) gates.ScheduleStatus {
	at = at.UTC()

	switch class {
	case domain.AssetCrypto:
		return gates.ScheduleStatus{IsOpen: true, Session: "24/7"}
	case domain.AssetForex:
		return forexStatus(at)
	default:
		return sessionStatus(at, 13*time.Hour+30*time.Minute, 20*time.Hour, string(class))
	}
}

// sessionStatus models a Monday-Friday cash session between two UTC offsets
// from midnight.
func sessionStatus(at time.Time, open, close time.Duration, session string) gates.ScheduleStatus {
	wd := at.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return gates.ScheduleStatus{Session: session + "/weekend"}
	}

	sinceMidnight := at.Sub(at.Truncate(24 * time.Hour))
	if sinceMidnight < open || sinceMidnight >= close {
		return gates.ScheduleStatus{Session: session + "/closed"}
	}

	status := gates.ScheduleStatus{IsOpen: true, Session: session}
	// Friday close is the weekly boundary for cash sessions.
	if wd == time.Friday && close-sinceMidnight <= weeklyBoundaryWindow {
		status.NearWeeklyBoundary = true
		status.Warning = fmt.Sprintf("within %s of weekly close", weeklyBoundaryWindow)
	}
	return status
}

// forexStatus models the continuous FX week: Sunday 22:00 UTC through
// Friday 22:00 UTC.
func forexStatus(at time.Time) gates.ScheduleStatus {
	wd := at.Weekday()
	sinceMidnight := at.Sub(at.Truncate(24 * time.Hour))

	open := true
	switch wd {
	case time.Saturday:
		open = false
	case time.Sunday:
		open = sinceMidnight >= 22*time.Hour
	case time.Friday:
		open = sinceMidnight < 22*time.Hour
	}
	if !open {
		return gates.ScheduleStatus{Session: "fx/closed"}
	}

	status := gates.ScheduleStatus{IsOpen: true, Session: "fx"}
	nearClose := wd == time.Friday && 22*time.Hour-sinceMidnight <= weeklyBoundaryWindow
	nearOpen := wd == time.Sunday && sinceMidnight-22*time.Hour <= weeklyBoundaryWindow
	if nearClose || nearOpen {
		status.NearWeeklyBoundary = true
		status.Warning = fmt.Sprintf("within %s of weekly FX boundary", weeklyBoundaryWindow)
	}
	return status
}
