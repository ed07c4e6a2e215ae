package coverage

import (
	"time"

	"github.com/CommunityWatchNC/CW-Backend/internal/metrics"
)

// SchedulingMode selects how dispatcher coverage is tracked: per zone (the
// legacy behavior), per county, or region-wide. It drives both the coverage
// classifier and which secondary views are built.
type SchedulingMode string

const (
	ModeZone     SchedulingMode = "ZONE"
	ModeCounty   SchedulingMode = "COUNTY"
	ModeRegional SchedulingMode = "REGIONAL"
)

// ParseSchedulingMode maps a stored setting to a known mode. Unknown or empty
// values fall back to the legacy per-zone mode.
func ParseSchedulingMode(s string) SchedulingMode {
	switch SchedulingMode(s) {
	case ModeZone, ModeCounty, ModeRegional:
		return SchedulingMode(s)
	default:
		return ModeZone
	}
}

// VolunteerMode is the volunteer-signup flavor. It never affects grid math;
// it is echoed back so the client can render the matching signup UI.
type VolunteerMode string

const (
	VolunteerModeOpen     VolunteerMode = "OPEN"
	VolunteerModeAssigned VolunteerMode = "ASSIGNED"
)

func ParseVolunteerMode(s string) VolunteerMode {
	switch VolunteerMode(s) {
	case VolunteerModeOpen, VolunteerModeAssigned:
		return VolunteerMode(s)
	default:
		return VolunteerModeOpen
	}
}

// CoverageLevel classifies how well a cell's staffing requirements are met.
type CoverageLevel string

const (
	CoverageFull    CoverageLevel = "full"
	CoveragePartial CoverageLevel = "partial"
	CoverageNone    CoverageLevel = "none"
)

// DefaultTimezone is the organizational default used when no timezone is
// configured or the configured one cannot be loaded.
const DefaultTimezone = "America/New_York"

// Settings is the per-request configuration, resolved once from the stored
// row (or its absence) and passed down immutably.
type Settings struct {
	Timezone       string
	Location       *time.Location // nil means UTC hour bucketing (degraded)
	DispatcherMode SchedulingMode
	VolunteerMode  VolunteerMode
}

// ResolveSettings applies documented defaults for anything missing or
// malformed. A nil row (no settings stored for the org) is not an error.
func ResolveSettings(row *OrgSettings) Settings {
	s := Settings{
		Timezone:       DefaultTimezone,
		DispatcherMode: ModeZone,
		VolunteerMode:  VolunteerModeOpen,
	}
	if row != nil {
		if row.Timezone != "" {
			s.Timezone = row.Timezone
		}
		s.DispatcherMode = ParseSchedulingMode(row.DispatcherSchedulingMode)
		s.VolunteerMode = ParseVolunteerMode(row.SchedulingMode)
	}

	loc, err := time.LoadLocation(s.Timezone)
	if err != nil && s.Timezone != DefaultTimezone {
		loc, err = time.LoadLocation(DefaultTimezone)
	}
	if err != nil {
		// No usable zoneinfo at all: bucket by UTC hours rather than failing.
		metrics.TimezoneFallbacksTotal.Inc()
		loc = nil
	}
	s.Location = loc
	return s
}
