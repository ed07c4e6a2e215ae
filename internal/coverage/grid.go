package coverage

import (
	"time"

	"github.com/google/uuid"
)

type DispatcherRef struct {
	ID       uuid.UUID `json:"id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	IsBackup bool      `json:"is_backup"`
	Notes    string    `json:"notes,omitempty"`
}

type Participant struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

type ShiftSummary struct {
	ID       uuid.UUID `json:"id"`
	StartUTC time.Time `json:"startUTC"`
	EndUTC   time.Time `json:"endUTC"`
	Status   string    `json:"status"`
}

// ZoneAggregate is one zone's slice of a cell: confirmed/pending signups
// partitioned by the zone-lead flag, plus the shifts they came from.
type ZoneAggregate struct {
	ZoneID     uuid.UUID      `json:"zoneId"`
	ZoneName   string         `json:"zoneName"`
	ZoneLeads  []Participant  `json:"zoneLeads"`
	Volunteers []Participant  `json:"volunteers"`
	Shifts     []ShiftSummary `json:"shifts"`
}

// GapDescriptor explains why a cell is not fully covered. It is computed the
// same way in every scheduling mode, independent of the classification.
type GapDescriptor struct {
	NeedsDispatcher   bool     `json:"needsDispatcher"`
	ZonesNeedingLeads []string `json:"zonesNeedingLeads"`
}

type Cell struct {
	County            string          `json:"county"`
	Date              string          `json:"date"`
	TimeBlock         string          `json:"timeBlock"`
	Dispatcher        *DispatcherRef  `json:"dispatcher"`
	BackupDispatchers []DispatcherRef `json:"backupDispatchers"`
	Zones             []ZoneAggregate `json:"zones"`
	Coverage          CoverageLevel   `json:"coverage"`
	Gaps              GapDescriptor   `json:"gaps"`
}

// classifyCoverage maps staffing facts to a coverage level.
//
// In ZONE mode dispatcher presence is part of the cell's own classification.
// In COUNTY and REGIONAL modes the dispatcher rotation is tracked through the
// per-day views instead, so the cell classifies on lead coverage alone. The
// gap descriptor keeps reporting dispatcher absence in every mode; the two
// signals are consumed independently downstream.
func classifyCoverage(mode SchedulingMode, hasDispatcher bool, staffedZones, zonesWithLead int) CoverageLevel {
	switch mode {
	case ModeCounty, ModeRegional:
		switch {
		case staffedZones > 0 && zonesWithLead == staffedZones:
			return CoverageFull
		case zonesWithLead > 0 && zonesWithLead < staffedZones:
			return CoveragePartial
		default:
			return CoverageNone
		}
	default: // ModeZone
		switch {
		case hasDispatcher && staffedZones > 0 && zonesWithLead == staffedZones:
			return CoverageFull
		case hasDispatcher || staffedZones > 0:
			return CoveragePartial
		default:
			return CoverageNone
		}
	}
}

// gridInput is everything the assembler needs; all of it is immutable and
// already indexed, so assembly is a pure function of this struct.
type gridInput struct {
	Mode   SchedulingMode
	County string // "" means all counties
	Dates  []string
	Blocks []TimeBlock
	Index  *recordIndex
}

// assembleGrid walks county × date × block × zone using only O(1) lookups and
// emits a cell whenever the slot carries any data. Iteration order is fixed
// (sorted counties, request-ordered dates, sorted blocks, name-sorted zones),
// so identical inputs produce identical output.
func assembleGrid(in gridInput) []Cell {
	counties := in.Index.counties()
	if in.County != "" {
		counties = nil
		if _, ok := in.Index.zonesByCounty[in.County]; ok {
			counties = []string{in.County}
		}
	}

	cells := make([]Cell, 0)
	for _, county := range counties {
		zones := in.Index.zonesByCounty[county]
		for _, date := range in.Dates {
			for _, block := range in.Blocks {
				if cell, ok := buildCell(in.Index, in.Mode, county, zones, date, block.Key()); ok {
					cells = append(cells, cell)
				}
			}
		}
	}
	return cells
}

func buildCell(ix *recordIndex, mode SchedulingMode, county string, zones []Zone, date, block string) (Cell, bool) {
	primary, backups := splitDispatchers(ix.dispatchersAt(county, date, block))

	aggregates := make([]ZoneAggregate, 0)
	staffedZones := 0
	zonesWithLead := 0
	zonesNeedingLeads := make([]string, 0)

	for _, zone := range zones {
		shifts := ix.shiftsAt(zone.ID, date, block)
		if len(shifts) == 0 {
			continue
		}

		agg := ZoneAggregate{
			ZoneID:     zone.ID,
			ZoneName:   zone.Name,
			ZoneLeads:  make([]Participant, 0),
			Volunteers: make([]Participant, 0),
			Shifts:     make([]ShiftSummary, 0, len(shifts)),
		}
		for _, s := range shifts {
			agg.Shifts = append(agg.Shifts, ShiftSummary{
				ID:       s.ID,
				StartUTC: s.StartTime.UTC(),
				EndUTC:   s.EndTime.UTC(),
				Status:   s.Status,
			})
			for _, signup := range s.Signups {
				if signup.Status != SignupConfirmed && signup.Status != SignupPending {
					continue
				}
				p := Participant{UserID: signup.UserID, Name: signup.DisplayName}
				if signup.IsZoneLead {
					agg.ZoneLeads = append(agg.ZoneLeads, p)
				} else {
					agg.Volunteers = append(agg.Volunteers, p)
				}
			}
		}

		staffedZones++
		if len(agg.ZoneLeads) > 0 {
			zonesWithLead++
		} else {
			zonesNeedingLeads = append(zonesNeedingLeads, zone.Name)
		}
		aggregates = append(aggregates, agg)
	}

	hasDispatcher := primary != nil
	if !hasDispatcher && len(backups) == 0 && len(aggregates) == 0 {
		// Empty slot: suppressed, keeping output proportional to activity.
		return Cell{}, false
	}

	return Cell{
		County:            county,
		Date:              date,
		TimeBlock:         block,
		Dispatcher:        primary,
		BackupDispatchers: backups,
		Zones:             aggregates,
		Coverage:          classifyCoverage(mode, hasDispatcher, staffedZones, zonesWithLead),
		Gaps: GapDescriptor{
			NeedsDispatcher:   !hasDispatcher && staffedZones > 0,
			ZonesNeedingLeads: zonesNeedingLeads,
		},
	}, true
}
