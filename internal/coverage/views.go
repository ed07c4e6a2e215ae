package coverage

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DispatcherSlot is one entry of the lower-cardinality dispatcher views.
// County is empty for the region-wide views.
type DispatcherSlot struct {
	Date              string          `json:"date"`
	TimeBlock         string          `json:"timeBlock"`
	County            string          `json:"county,omitempty"`
	Dispatcher        *DispatcherRef  `json:"dispatcher"`
	BackupDispatchers []DispatcherRef `json:"backupDispatchers"`
	Coverage          CoverageLevel   `json:"coverage"`
}

type LeadRef struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	IsPrimary bool      `json:"is_primary"`
	Notes     string    `json:"notes,omitempty"`
}

// LeadSlot groups regional leads by date only; leadership is a whole-day
// role, so there is no time-block axis.
type LeadSlot struct {
	Date  string    `json:"date"`
	Leads []LeadRef `json:"leads"`
}

// binaryCoverage is the dispatcher-view classification: a dispatcher slot is
// either filled or it isn't, no partial state.
func binaryCoverage(primary *DispatcherRef) CoverageLevel {
	if primary != nil {
		return CoverageFull
	}
	return CoverageNone
}

// buildRegionalDispatcherView groups scope-"ALL" assignments by date and
// block. Sparse: only slots with at least one assignment are emitted.
func buildRegionalDispatcherView(ix *recordIndex, dates []string, blocks []TimeBlock) []DispatcherSlot {
	out := make([]DispatcherSlot, 0)
	for _, date := range dates {
		for _, block := range blocks {
			list := ix.dispatchersAt(ScopeAll, date, block.Key())
			if len(list) == 0 {
				continue
			}
			primary, backups := splitDispatchers(list)
			out = append(out, DispatcherSlot{
				Date:              date,
				TimeBlock:         block.Key(),
				Dispatcher:        primary,
				BackupDispatchers: backups,
				Coverage:          binaryCoverage(primary),
			})
		}
	}
	return out
}

// buildCountyDispatcherView groups county-scoped assignments by county, date
// and block. Sparse, like the regional view.
func buildCountyDispatcherView(ix *recordIndex, counties, dates []string, blocks []TimeBlock) []DispatcherSlot {
	out := make([]DispatcherSlot, 0)
	for _, county := range counties {
		for _, date := range dates {
			for _, block := range blocks {
				list := ix.dispatchersAt(county, date, block.Key())
				if len(list) == 0 {
					continue
				}
				primary, backups := splitDispatchers(list)
				out = append(out, DispatcherSlot{
					Date:              date,
					TimeBlock:         block.Key(),
					County:            county,
					Dispatcher:        primary,
					BackupDispatchers: backups,
					Coverage:          binaryCoverage(primary),
				})
			}
		}
	}
	return out
}

// buildRegionalBackupView groups scope-"REGIONAL" assignments by date and
// block. Unlike the primary views this one is dense: every date×block gets an
// entry, possibly with an empty backup list, so the client can render the
// whole backup rota without filling holes itself.
func buildRegionalBackupView(ix *recordIndex, dates []string, blocks []TimeBlock) []DispatcherSlot {
	out := make([]DispatcherSlot, 0, len(dates)*len(blocks))
	for _, date := range dates {
		for _, block := range blocks {
			list := ix.dispatchersAt(ScopeRegional, date, block.Key())
			backups := make([]DispatcherRef, 0, len(list))
			for _, d := range list {
				backups = append(backups, DispatcherRef{
					ID:       d.ID,
					UserID:   d.UserID,
					Name:     d.DisplayName,
					IsBackup: true,
					Notes:    d.Notes,
				})
			}
			coverage := CoverageNone
			if len(backups) > 0 {
				coverage = CoverageFull
			}
			out = append(out, DispatcherSlot{
				Date:              date,
				TimeBlock:         block.Key(),
				Dispatcher:        nil,
				BackupDispatchers: backups,
				Coverage:          coverage,
			})
		}
	}
	return out
}

// buildRegionalLeadView groups day-level lead assignments by calendar date,
// primaries before backups. Day-granularity records are stored UTC-midnight
// anchored, so the stored date is the calendar date.
func buildRegionalLeadView(leads []RegionalLeadAssignment, dates []string) []LeadSlot {
	byDate := make(map[string][]LeadRef, len(dates))
	for _, l := range leads {
		date := l.Date.UTC().Format(dateLayout)
		byDate[date] = append(byDate[date], LeadRef{
			ID:        l.ID,
			UserID:    l.UserID,
			Name:      l.DisplayName,
			IsPrimary: l.IsPrimary,
			Notes:     l.Notes,
		})
	}

	out := make([]LeadSlot, 0, len(byDate))
	for _, date := range dates {
		refs, ok := byDate[date]
		if !ok {
			continue
		}
		sort.SliceStable(refs, func(i, j int) bool {
			return refs[i].IsPrimary && !refs[j].IsPrimary
		})
		out = append(out, LeadSlot{Date: date, Leads: refs})
	}
	return out
}

// shiftsWithinDates drops shifts whose local calendar date falls outside the
// requested range — the store is queried one day wide in each direction.
func shiftsWithinDates(shifts []Shift, dates []string, loc *time.Location) []Shift {
	wanted := make(map[string]bool, len(dates))
	for _, d := range dates {
		wanted[d] = true
	}
	out := make([]Shift, 0, len(shifts))
	for _, s := range shifts {
		if wanted[localDate(s.StartTime, loc)] {
			out = append(out, s)
		}
	}
	return out
}
