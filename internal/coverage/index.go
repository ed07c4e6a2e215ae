package coverage

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// slotKey addresses one (scope, local date, time block) slot. Scope is a zone
// ID for shifts and a county name / "ALL" / "REGIONAL" for dispatchers. Using
// a value type instead of a concatenated string keeps key formats from
// drifting between writers and readers.
type slotKey struct {
	Scope string
	Date  string
	Block string
}

// indexedShift is a shift annotated exactly once with its local-time
// coordinates. The assembler never re-derives hours from raw records.
type indexedShift struct {
	Shift
	LocalDate string
	BlockKey  string
}

type indexedDispatcher struct {
	DispatcherAssignment
	LocalDate string
	BlockKey  string
}

// recordIndex holds the O(1) lookup structures for one aggregation pass.
// It is built once per request and never mutated afterwards.
type recordIndex struct {
	shifts        map[slotKey][]indexedShift
	dispatchers   map[slotKey][]indexedDispatcher
	zonesByCounty map[string][]Zone
}

func buildIndex(zones []Zone, shifts []Shift, dispatchers []DispatcherAssignment, loc *time.Location) *recordIndex {
	ix := &recordIndex{
		shifts:        make(map[slotKey][]indexedShift, len(shifts)),
		dispatchers:   make(map[slotKey][]indexedDispatcher, len(dispatchers)),
		zonesByCounty: make(map[string][]Zone),
	}

	for _, z := range zones {
		if z.County == "" {
			continue
		}
		ix.zonesByCounty[z.County] = append(ix.zonesByCounty[z.County], z)
	}
	for county := range ix.zonesByCounty {
		zs := ix.zonesByCounty[county]
		sort.Slice(zs, func(i, j int) bool { return zs[i].Name < zs[j].Name })
	}

	for _, s := range shifts {
		annotated := indexedShift{
			Shift:     s,
			LocalDate: localDate(s.StartTime, loc),
			BlockKey:  blockKey(localHour(s.StartTime, loc), localHour(s.EndTime, loc)),
		}
		key := slotKey{Scope: s.ZoneID.String(), Date: annotated.LocalDate, Block: annotated.BlockKey}
		ix.shifts[key] = append(ix.shifts[key], annotated)
	}

	for _, d := range dispatchers {
		annotated := indexedDispatcher{
			DispatcherAssignment: d,
			LocalDate:            localDate(d.StartTime, loc),
			BlockKey:             blockKey(localHour(d.StartTime, loc), localHour(d.EndTime, loc)),
		}
		key := slotKey{Scope: d.Scope, Date: annotated.LocalDate, Block: annotated.BlockKey}
		ix.dispatchers[key] = append(ix.dispatchers[key], annotated)
	}

	return ix
}

func (ix *recordIndex) shiftsAt(zoneID uuid.UUID, date, block string) []indexedShift {
	return ix.shifts[slotKey{Scope: zoneID.String(), Date: date, Block: block}]
}

func (ix *recordIndex) dispatchersAt(scope, date, block string) []indexedDispatcher {
	return ix.dispatchers[slotKey{Scope: scope, Date: date, Block: block}]
}

// counties returns the sorted distinct county names that have at least one
// indexed zone.
func (ix *recordIndex) counties() []string {
	out := make([]string, 0, len(ix.zonesByCounty))
	for county := range ix.zonesByCounty {
		out = append(out, county)
	}
	sort.Strings(out)
	return out
}

// splitDispatchers resolves one slot's assignments into a primary (the first
// non-backup, arbitrary among ties) and the backup list.
func splitDispatchers(list []indexedDispatcher) (*DispatcherRef, []DispatcherRef) {
	var primary *DispatcherRef
	backups := make([]DispatcherRef, 0)
	for _, d := range list {
		ref := DispatcherRef{
			ID:       d.ID,
			UserID:   d.UserID,
			Name:     d.DisplayName,
			IsBackup: d.IsBackup,
			Notes:    d.Notes,
		}
		if d.IsBackup {
			backups = append(backups, ref)
		} else if primary == nil {
			primary = &ref
		}
	}
	return primary, backups
}
