package coverage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture builders shared by the grid tests

func zone(name, county string) Zone {
	return Zone{ID: uuid.New(), Name: name, County: county, Active: true}
}

func publishedShift(z Zone, loc *time.Location, date string, startHour, endHour int, signups ...ShiftSignup) Shift {
	return Shift{
		ID:        uuid.New(),
		ZoneID:    z.ID,
		StartTime: localAt(loc, date, startHour),
		EndTime:   localAt(loc, date, endHour),
		Status:    ShiftPublished,
		Signups:   signups,
	}
}

func signup(name string, status string, isLead bool) ShiftSignup {
	return ShiftSignup{
		ID:          uuid.New(),
		UserID:      "u-" + name,
		DisplayName: name,
		Status:      status,
		IsZoneLead:  isLead,
	}
}

func dispatcher(scope string, loc *time.Location, date string, startHour, endHour int, backup bool) DispatcherAssignment {
	return DispatcherAssignment{
		ID:          uuid.New(),
		Scope:       scope,
		StartTime:   localAt(loc, date, startHour),
		EndTime:     localAt(loc, date, endHour),
		IsBackup:    backup,
		UserID:      "u-dispatch",
		DisplayName: "Dispatch " + scope,
	}
}

func assemble(mode SchedulingMode, county string, dates []string, zones []Zone, shifts []Shift, dispatchers []DispatcherAssignment, loc *time.Location) []Cell {
	return assembleGrid(gridInput{
		Mode:   mode,
		County: county,
		Dates:  dates,
		Blocks: deriveTimeBlocks(shifts, loc),
		Index:  buildIndex(zones, shifts, dispatchers, loc),
	})
}

func TestClassifyCoverage(t *testing.T) {
	tests := map[string]struct {
		mode          SchedulingMode
		hasDispatcher bool
		staffed       int
		withLead      int
		want          CoverageLevel
	}{
		"zone: dispatcher and all zones led":     {ModeZone, true, 2, 2, CoverageFull},
		"zone: dispatcher, nothing to lead":      {ModeZone, true, 0, 0, CoveragePartial},
		"zone: no dispatcher, unled zone":        {ModeZone, false, 1, 0, CoveragePartial},
		"zone: no dispatcher, all zones led":     {ModeZone, false, 2, 2, CoveragePartial},
		"zone: nothing at all":                   {ModeZone, false, 0, 0, CoverageNone},
		"county: all zones led, no dispatcher":   {ModeCounty, false, 2, 2, CoverageFull},
		"county: one of two zones led":           {ModeCounty, false, 2, 1, CoveragePartial},
		"county: zones staffed but none led":     {ModeCounty, false, 2, 0, CoverageNone},
		"county: no staffed zones":               {ModeCounty, true, 0, 0, CoverageNone},
		"regional: all zones led":                {ModeRegional, false, 3, 3, CoverageFull},
		"regional: some zones led":               {ModeRegional, true, 3, 1, CoveragePartial},
		"regional: none led despite dispatcher":  {ModeRegional, true, 2, 0, CoverageNone},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyCoverage(tc.mode, tc.hasDispatcher, tc.staffed, tc.withLead))
		})
	}
}

// TestGrid_FullCoverageScenario: shift in an Alamance zone on 2025-03-10,
// local 6:00-10:00, one confirmed zone-lead signup, dispatcher present for
// the same county/date/block, ZONE mode.
func TestGrid_FullCoverageScenario(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	z := zone("Haw River North", "Alamance")

	lead := signup("Ada", SignupConfirmed, true)
	shift := publishedShift(z, loc, "2025-03-10", 6, 10, lead)
	disp := dispatcher("Alamance", loc, "2025-03-10", 6, 10, false)

	cells := assemble(ModeZone, "", []string{"2025-03-10"},
		[]Zone{z}, []Shift{shift}, []DispatcherAssignment{disp}, loc)
	require.Len(t, cells, 1)

	cell := cells[0]
	assert.Equal(t, "Alamance", cell.County)
	assert.Equal(t, "2025-03-10", cell.Date)
	assert.Equal(t, "6-10", cell.TimeBlock)
	assert.Equal(t, CoverageFull, cell.Coverage)
	require.NotNil(t, cell.Dispatcher)
	assert.Equal(t, "u-dispatch", cell.Dispatcher.UserID)
	assert.Empty(t, cell.BackupDispatchers)

	require.Len(t, cell.Zones, 1)
	agg := cell.Zones[0]
	assert.Equal(t, z.ID, agg.ZoneID)
	require.Len(t, agg.ZoneLeads, 1)
	assert.Equal(t, lead.UserID, agg.ZoneLeads[0].UserID)
	assert.Empty(t, agg.Volunteers)
	require.Len(t, agg.Shifts, 1)
	assert.Equal(t, shift.ID, agg.Shifts[0].ID)

	assert.False(t, cell.Gaps.NeedsDispatcher)
	assert.Empty(t, cell.Gaps.ZonesNeedingLeads)
}

// TestGrid_PartialWithGaps: same shift but no lead flag and no dispatcher.
func TestGrid_PartialWithGaps(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	z := zone("Haw River North", "Alamance")

	shift := publishedShift(z, loc, "2025-03-10", 6, 10, signup("Ben", SignupConfirmed, false))

	cells := assemble(ModeZone, "", []string{"2025-03-10"},
		[]Zone{z}, []Shift{shift}, nil, loc)
	require.Len(t, cells, 1)

	cell := cells[0]
	assert.Equal(t, CoveragePartial, cell.Coverage)
	assert.Nil(t, cell.Dispatcher)
	assert.True(t, cell.Gaps.NeedsDispatcher)
	assert.Equal(t, []string{"Haw River North"}, cell.Gaps.ZonesNeedingLeads)

	require.Len(t, cell.Zones, 1)
	assert.Empty(t, cell.Zones[0].ZoneLeads)
	require.Len(t, cell.Zones[0].Volunteers, 1)
}

// TestGrid_DispatcherAloneIsPartialInZoneMode: a dispatcher with zero staffed
// zones still produces a cell, classified partial, and the gap descriptor
// does not demand a dispatcher that is already there.
func TestGrid_DispatcherAloneIsPartialInZoneMode(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	zA := zone("Haw River North", "Alamance")
	zB := zone("Eno Ridge", "Orange")

	// The only shift is in Orange; it defines the 6-10 block. Alamance has a
	// dispatcher for that block but no shifts.
	shift := publishedShift(zB, loc, "2025-03-10", 6, 10, signup("Dev", SignupConfirmed, true))
	disp := dispatcher("Alamance", loc, "2025-03-10", 6, 10, false)

	cells := assemble(ModeZone, "", []string{"2025-03-10"},
		[]Zone{zA, zB}, []Shift{shift}, []DispatcherAssignment{disp}, loc)
	require.Len(t, cells, 2)

	// Counties iterate sorted: Alamance first.
	alamance := cells[0]
	assert.Equal(t, "Alamance", alamance.County)
	assert.Equal(t, CoveragePartial, alamance.Coverage)
	assert.Empty(t, alamance.Zones)
	assert.False(t, alamance.Gaps.NeedsDispatcher)
}

// TestGrid_CountyModePartialAndNone: the COUNTY-mode classifier ignores
// dispatcher presence for the cell itself.
func TestGrid_CountyModePartialAndNone(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	zA := zone("Haw River North", "Alamance")
	zB := zone("Haw River South", "Alamance")

	shiftLed := publishedShift(zA, loc, "2025-03-10", 6, 10, signup("Ada", SignupConfirmed, true))
	shiftUnled := publishedShift(zB, loc, "2025-03-10", 6, 10, signup("Cara", SignupPending, false))

	cells := assemble(ModeCounty, "", []string{"2025-03-10"},
		[]Zone{zA, zB}, []Shift{shiftLed, shiftUnled}, nil, loc)
	require.Len(t, cells, 1)
	assert.Equal(t, CoveragePartial, cells[0].Coverage)
	assert.Equal(t, []string{"Haw River South"}, cells[0].Gaps.ZonesNeedingLeads)

	// Strip the lead flag from the only led zone: none.
	shiftUnled2 := publishedShift(zA, loc, "2025-03-11", 6, 10, signup("Ada", SignupConfirmed, false))
	shiftUnled3 := publishedShift(zB, loc, "2025-03-11", 6, 10, signup("Cara", SignupConfirmed, false))

	cells = assemble(ModeCounty, "", []string{"2025-03-11"},
		[]Zone{zA, zB}, []Shift{shiftUnled2, shiftUnled3}, nil, loc)
	require.Len(t, cells, 1)
	assert.Equal(t, CoverageNone, cells[0].Coverage)
	assert.True(t, cells[0].Gaps.NeedsDispatcher)
}

// TestGrid_NoCrossZoneLeakage: a lone shift's cell shows exactly its own
// leads/volunteers and nothing from other zones, dates, or blocks.
func TestGrid_NoCrossZoneLeakage(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	zA := zone("Haw River North", "Alamance")
	zB := zone("Haw River South", "Alamance")

	target := publishedShift(zA, loc, "2025-03-10", 6, 10,
		signup("Ada", SignupConfirmed, true), signup("Ben", SignupPending, false))
	otherZone := publishedShift(zB, loc, "2025-03-10", 18, 22, signup("Cara", SignupConfirmed, true))
	otherDate := publishedShift(zA, loc, "2025-03-11", 6, 10, signup("Dev", SignupConfirmed, false))

	cells := assemble(ModeZone, "", []string{"2025-03-10", "2025-03-11"},
		[]Zone{zA, zB}, []Shift{target, otherZone, otherDate}, nil, loc)

	var found *Cell
	for i := range cells {
		if cells[i].Date == "2025-03-10" && cells[i].TimeBlock == "6-10" {
			found = &cells[i]
			break
		}
	}
	require.NotNil(t, found)
	require.Len(t, found.Zones, 1)
	agg := found.Zones[0]
	assert.Equal(t, zA.ID, agg.ZoneID)
	require.Len(t, agg.ZoneLeads, 1)
	assert.Equal(t, "u-Ada", agg.ZoneLeads[0].UserID)
	require.Len(t, agg.Volunteers, 1)
	assert.Equal(t, "u-Ben", agg.Volunteers[0].UserID)
	require.Len(t, agg.Shifts, 1)
	assert.Equal(t, target.ID, agg.Shifts[0].ID)
}

// TestGrid_DeclinedSignupsExcluded: only CONFIRMED/PENDING statuses count.
func TestGrid_DeclinedSignupsExcluded(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	z := zone("Haw River North", "Alamance")

	shift := publishedShift(z, loc, "2025-03-10", 6, 10,
		signup("Ada", SignupConfirmed, true),
		signup("Ben", "DECLINED", false),
		signup("Cara", SignupPending, false),
	)

	cells := assemble(ModeZone, "", []string{"2025-03-10"}, []Zone{z}, []Shift{shift}, nil, loc)
	require.Len(t, cells, 1)
	agg := cells[0].Zones[0]
	assert.Len(t, agg.ZoneLeads, 1)
	assert.Len(t, agg.Volunteers, 1) // Cara only
	assert.Equal(t, "u-Cara", agg.Volunteers[0].UserID)
}

// TestGrid_DispatcherHoursNeverCreateBlocks: an assignment recorded with an
// hour pair no shift uses must not fabricate a column or a cell.
func TestGrid_DispatcherHoursNeverCreateBlocks(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	z := zone("Haw River North", "Alamance")

	shift := publishedShift(z, loc, "2025-03-10", 6, 10, signup("Ada", SignupConfirmed, true))
	staleDisp := dispatcher("Alamance", loc, "2025-03-10", 5, 9, false)

	shifts := []Shift{shift}
	blocks := deriveTimeBlocks(shifts, loc)
	require.Len(t, blocks, 1)
	assert.Equal(t, "6-10", blocks[0].Key())

	cells := assemble(ModeZone, "", []string{"2025-03-10"},
		[]Zone{z}, shifts, []DispatcherAssignment{staleDisp}, loc)
	require.Len(t, cells, 1)
	// The 5-9 assignment lands in no derived block; the 6-10 cell has no dispatcher.
	assert.Nil(t, cells[0].Dispatcher)
	assert.True(t, cells[0].Gaps.NeedsDispatcher)
}

// TestGrid_CountyFilter limits iteration to the requested county.
func TestGrid_CountyFilter(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	zA := zone("Haw River North", "Alamance")
	zB := zone("Eno Ridge", "Orange")

	shifts := []Shift{
		publishedShift(zA, loc, "2025-03-10", 6, 10, signup("Ada", SignupConfirmed, true)),
		publishedShift(zB, loc, "2025-03-10", 6, 10, signup("Dev", SignupConfirmed, true)),
	}

	cells := assemble(ModeZone, "Orange", []string{"2025-03-10"}, []Zone{zA, zB}, shifts, nil, loc)
	require.Len(t, cells, 1)
	assert.Equal(t, "Orange", cells[0].County)

	cells = assemble(ModeZone, "Nowhere", []string{"2025-03-10"}, []Zone{zA, zB}, shifts, nil, loc)
	assert.Empty(t, cells)
}

// TestGrid_PrimaryAndBackupSplit: first non-backup wins primary; all backup
// assignments collect into the backup list.
func TestGrid_PrimaryAndBackupSplit(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	z := zone("Haw River North", "Alamance")

	shift := publishedShift(z, loc, "2025-03-10", 6, 10, signup("Ada", SignupConfirmed, true))
	backup1 := dispatcher("Alamance", loc, "2025-03-10", 6, 10, true)
	primary := dispatcher("Alamance", loc, "2025-03-10", 6, 10, false)
	backup2 := dispatcher("Alamance", loc, "2025-03-10", 6, 10, true)

	cells := assemble(ModeZone, "", []string{"2025-03-10"},
		[]Zone{z}, []Shift{shift}, []DispatcherAssignment{backup1, primary, backup2}, loc)
	require.Len(t, cells, 1)

	cell := cells[0]
	require.NotNil(t, cell.Dispatcher)
	assert.Equal(t, primary.ID, cell.Dispatcher.ID)
	assert.False(t, cell.Dispatcher.IsBackup)
	require.Len(t, cell.BackupDispatchers, 2)
	assert.Equal(t, backup1.ID, cell.BackupDispatchers[0].ID)
	assert.Equal(t, backup2.ID, cell.BackupDispatchers[1].ID)
}

// TestGrid_Idempotence: assembling the same frozen inputs twice yields
// byte-identical JSON.
func TestGrid_Idempotence(t *testing.T) {
	loc := mustLoadLocation(t, "America/New_York")
	zA := zone("Haw River North", "Alamance")
	zB := zone("Haw River South", "Alamance")
	zC := zone("Eno Ridge", "Orange")

	shifts := []Shift{
		publishedShift(zA, loc, "2025-03-10", 6, 10, signup("Ada", SignupConfirmed, true)),
		publishedShift(zB, loc, "2025-03-10", 6, 10, signup("Ben", SignupPending, false)),
		publishedShift(zC, loc, "2025-03-11", 18, 22, signup("Cara", SignupConfirmed, true)),
	}
	dispatchers := []DispatcherAssignment{
		dispatcher("Alamance", loc, "2025-03-10", 6, 10, false),
		dispatcher("Orange", loc, "2025-03-11", 18, 22, true),
	}
	dates := []string{"2025-03-10", "2025-03-11"}

	first := assemble(ModeZone, "", dates, []Zone{zA, zB, zC}, shifts, dispatchers, loc)
	second := assemble(ModeZone, "", dates, []Zone{zA, zB, zC}, shifts, dispatchers, loc)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
