package coverage

import (
	"context"
	"time"

	"github.com/CommunityWatchNC/CW-Backend/internal/metrics"
)

// ScheduleParams are the caller's validated-on-entry request parameters.
// County is empty for the whole region.
type ScheduleParams struct {
	Start  string
	End    string
	County string
}

// ScheduleResponse is the full coverage grid plus the vocabulary the client
// needs to render it (counties, zones, blocks, dates) and the configuration
// used to produce it, so no second round trip is needed.
type ScheduleResponse struct {
	Counties                  []string         `json:"counties"`
	Zones                     []Zone           `json:"zones"`
	TimeBlocks                []TimeBlock      `json:"timeBlocks"`
	Dates                     []string         `json:"dates"`
	Schedule                  []Cell           `json:"schedule"`
	DispatcherSchedulingMode  SchedulingMode   `json:"dispatcherSchedulingMode"`
	SchedulingMode            VolunteerMode    `json:"schedulingMode"`
	RegionalDispatchers       []DispatcherSlot `json:"regionalDispatchers,omitempty"`
	CountyDispatchers         []DispatcherSlot `json:"countyDispatchers,omitempty"`
	RegionalBackupDispatchers []DispatcherSlot `json:"regionalBackupDispatchers"`
	RegionalLeads             []LeadSlot       `json:"regionalLeads"`
}

// BuildSchedule is the whole aggregation: validate, fetch everything in
// parallel, resolve configuration, index once, assemble, classify, and build
// the mode views. It holds no state across calls and writes nothing.
func BuildSchedule(ctx context.Context, store CoverageStore, settingsStore SettingsStore,
	orgID string, params ScheduleParams) (*ScheduleResponse, error) {

	dates, err := enumerateDates(params.Start, params.End)
	if err != nil {
		return nil, err
	}
	from, to, err := queryWindowUTC(params.Start, params.End)
	if err != nil {
		return nil, err
	}

	started := time.Now()

	rs, err := fetchRecordSets(ctx, store, settingsStore, orgID, from, to, params.County)
	if err != nil {
		return nil, err
	}

	settings := ResolveSettings(rs.settings)
	loc := settings.Location

	// Blocks come from shifts inside the requested local dates only; the
	// padded UTC window can pull in a neighboring day's shifts.
	shifts := shiftsWithinDates(rs.shifts, dates, loc)
	blocks := deriveTimeBlocks(shifts, loc)

	dispatchers := append(rs.dispatchers, rs.regionalBackups...)
	ix := buildIndex(rs.zones, shifts, dispatchers, loc)

	cells := assembleGrid(gridInput{
		Mode:   settings.DispatcherMode,
		County: params.County,
		Dates:  dates,
		Blocks: blocks,
		Index:  ix,
	})

	resp := &ScheduleResponse{
		Counties:                  ix.counties(),
		Zones:                     rs.zones,
		TimeBlocks:                blocks,
		Dates:                     dates,
		Schedule:                  cells,
		DispatcherSchedulingMode:  settings.DispatcherMode,
		SchedulingMode:            settings.VolunteerMode,
		RegionalBackupDispatchers: buildRegionalBackupView(ix, dates, blocks),
		RegionalLeads:             buildRegionalLeadView(rs.leads, dates),
	}

	switch settings.DispatcherMode {
	case ModeRegional:
		resp.RegionalDispatchers = buildRegionalDispatcherView(ix, dates, blocks)
		resp.CountyDispatchers = buildCountyDispatcherView(ix, resp.Counties, dates, blocks)
	case ModeCounty:
		resp.CountyDispatchers = buildCountyDispatcherView(ix, resp.Counties, dates, blocks)
	}

	metrics.GridBuildDuration.Observe(time.Since(started).Seconds())
	metrics.GridCellsEmitted.Observe(float64(len(cells)))
	return resp, nil
}
