package coverage

import (
	"context"
	"errors"
	"time"

	"github.com/CommunityWatchNC/CW-Backend/internal/db"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CoverageStore fetches the raw record sets the engine aggregates. Every
// method returns rows already scoped to the organization; the UTC window is
// expected to be the padded one from queryWindowUTC.
type CoverageStore interface {
	ActiveZones(ctx context.Context, orgID string) ([]Zone, error)
	PublishedShifts(ctx context.Context, orgID string, from, to time.Time, county string) ([]Shift, error)
	DispatcherAssignments(ctx context.Context, orgID string, from, to time.Time) ([]DispatcherAssignment, error)
	RegionalBackups(ctx context.Context, orgID string, from, to time.Time) ([]DispatcherAssignment, error)
	RegionalLeads(ctx context.Context, orgID string, from, to time.Time) ([]RegionalLeadAssignment, error)
}

// SettingsStore fetches per-org configuration. A missing row is returned as
// (nil, nil); defaults are applied by ResolveSettings, not here.
type SettingsStore interface {
	OrgSettings(ctx context.Context, orgID string) (*OrgSettings, error)
}

// GormStore backs both interfaces with the shared gorm connection.
type GormStore struct{}

func (GormStore) ActiveZones(ctx context.Context, orgID string) ([]Zone, error) {
	var zones []Zone
	err := db.DB.WithContext(ctx).
		Where("org_id = ? AND active = ?", orgID, true).
		Order("name").
		Find(&zones).Error
	return zones, err
}

func (GormStore) PublishedShifts(ctx context.Context, orgID string, from, to time.Time, county string) ([]Shift, error) {
	q := db.DB.WithContext(ctx).
		Preload("Signups").
		Where("org_id = ? AND status = ?", orgID, ShiftPublished).
		Where("start_time >= ? AND start_time < ?", from, to)
	if county != "" {
		q = q.Where("zone_id IN (?)",
			db.DB.Model(&Zone{}).Select("id").Where("org_id = ? AND county = ?", orgID, county))
	}

	var shifts []Shift
	err := q.Order("start_time").Find(&shifts).Error
	return shifts, err
}

func (GormStore) DispatcherAssignments(ctx context.Context, orgID string, from, to time.Time) ([]DispatcherAssignment, error) {
	var assignments []DispatcherAssignment
	err := db.DB.WithContext(ctx).
		Where("org_id = ? AND scope <> ?", orgID, ScopeRegional).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time, created_at").
		Find(&assignments).Error
	return assignments, err
}

func (GormStore) RegionalBackups(ctx context.Context, orgID string, from, to time.Time) ([]DispatcherAssignment, error) {
	var assignments []DispatcherAssignment
	err := db.DB.WithContext(ctx).
		Where("org_id = ? AND scope = ?", orgID, ScopeRegional).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time").
		Find(&assignments).Error
	return assignments, err
}

func (GormStore) RegionalLeads(ctx context.Context, orgID string, from, to time.Time) ([]RegionalLeadAssignment, error) {
	var leads []RegionalLeadAssignment
	err := db.DB.WithContext(ctx).
		Where("org_id = ?", orgID).
		Where("date >= ? AND date < ?", from, to).
		Order("date").
		Find(&leads).Error
	return leads, err
}

func (GormStore) OrgSettings(ctx context.Context, orgID string) (*OrgSettings, error) {
	var row OrgSettings
	err := db.DB.WithContext(ctx).First(&row, "org_id = ?", orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// recordSets is everything one aggregation pass consumes, fetched up front.
type recordSets struct {
	zones           []Zone
	shifts          []Shift
	dispatchers     []DispatcherAssignment
	regionalBackups []DispatcherAssignment
	leads           []RegionalLeadAssignment
	settings        *OrgSettings
}

// fetchRecordSets runs the six independent reads in parallel and waits for
// all of them. Annotation needs the settings (timezone, modes), so nothing
// downstream starts until the whole group has finished; the first error — or
// the caller's cancellation — aborts the group and the request gets no
// partial grid.
func fetchRecordSets(ctx context.Context, store CoverageStore, settings SettingsStore,
	orgID string, from, to time.Time, county string) (*recordSets, error) {

	rs := &recordSets{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		rs.zones, err = store.ActiveZones(ctx, orgID)
		return err
	})
	g.Go(func() (err error) {
		rs.shifts, err = store.PublishedShifts(ctx, orgID, from, to, county)
		return err
	})
	g.Go(func() (err error) {
		rs.dispatchers, err = store.DispatcherAssignments(ctx, orgID, from, to)
		return err
	})
	g.Go(func() (err error) {
		rs.regionalBackups, err = store.RegionalBackups(ctx, orgID, from, to)
		return err
	})
	g.Go(func() (err error) {
		rs.leads, err = store.RegionalLeads(ctx, orgID, from, to)
		return err
	})
	g.Go(func() (err error) {
		rs.settings, err = settings.OrgSettings(ctx, orgID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rs, nil
}
