// Package seeds loads YAML development fixtures into the coverage tables.
package seeds

import (
	"fmt"
	"os"
	"time"

	"github.com/CommunityWatchNC/CW-Backend/internal/coverage"
	"github.com/CommunityWatchNC/CW-Backend/internal/db"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Fixture struct {
	Orgs []OrgFixture `yaml:"orgs"`
}

type OrgFixture struct {
	OrgID                    string              `yaml:"org_id"`
	Timezone                 string              `yaml:"timezone"`
	DispatcherSchedulingMode string              `yaml:"dispatcher_scheduling_mode"`
	SchedulingMode           string              `yaml:"scheduling_mode"`
	Zones                    []ZoneFixture       `yaml:"zones"`
	Shifts                   []ShiftFixture      `yaml:"shifts"`
	Dispatchers              []DispatcherFixture `yaml:"dispatchers"`
	RegionalLeads            []LeadFixture       `yaml:"regional_leads"`
}

type ZoneFixture struct {
	Name    string   `yaml:"name"`
	County  string   `yaml:"county"`
	Aliases []string `yaml:"aliases"`
}

type SignupFixture struct {
	UserID     string `yaml:"user_id"`
	Name       string `yaml:"name"`
	Status     string `yaml:"status"`
	IsZoneLead bool   `yaml:"is_zone_lead"`
}

// ShiftFixture uses local wall-clock hours; Apply converts them to UTC
// instants with the org's timezone.
type ShiftFixture struct {
	Zone      string          `yaml:"zone"`
	Date      string          `yaml:"date"`
	StartHour int             `yaml:"start_hour"`
	EndHour   int             `yaml:"end_hour"`
	Status    string          `yaml:"status"`
	Signups   []SignupFixture `yaml:"signups"`
}

type DispatcherFixture struct {
	Scope     string `yaml:"scope"`
	Date      string `yaml:"date"`
	StartHour int    `yaml:"start_hour"`
	EndHour   int    `yaml:"end_hour"`
	IsBackup  bool   `yaml:"is_backup"`
	Notes     string `yaml:"notes"`
	UserID    string `yaml:"user_id"`
	Name      string `yaml:"name"`
}

type LeadFixture struct {
	Date      string `yaml:"date"`
	IsPrimary bool   `yaml:"is_primary"`
	Notes     string `yaml:"notes"`
	UserID    string `yaml:"user_id"`
	Name      string `yaml:"name"`
}

func Load(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks fixture internals before anything touches the database.
func Validate(f *Fixture) error {
	for _, org := range f.Orgs {
		if org.OrgID == "" {
			return fmt.Errorf("org with empty org_id")
		}
		zoneNames := map[string]bool{}
		for _, z := range org.Zones {
			if z.Name == "" {
				return fmt.Errorf("org %s: zone with empty name", org.OrgID)
			}
			zoneNames[z.Name] = true
		}
		for _, s := range org.Shifts {
			if !zoneNames[s.Zone] {
				return fmt.Errorf("org %s: shift references unknown zone %q", org.OrgID, s.Zone)
			}
			if _, err := time.Parse("2006-01-02", s.Date); err != nil {
				return fmt.Errorf("org %s: bad shift date %q", org.OrgID, s.Date)
			}
		}
	}
	return nil
}

// Apply inserts the fixture rows. It assumes the target tables were already
// wiped by the caller (cmd/seed owns the destructive part).
func Apply(f *Fixture) error {
	for _, org := range f.Orgs {
		loc, err := time.LoadLocation(orgTimezone(org))
		if err != nil {
			return fmt.Errorf("org %s: bad timezone %q: %w", org.OrgID, org.Timezone, err)
		}

		settings := coverage.OrgSettings{
			OrgID:                    org.OrgID,
			Timezone:                 orgTimezone(org),
			DispatcherSchedulingMode: org.DispatcherSchedulingMode,
			SchedulingMode:           org.SchedulingMode,
		}
		if err := db.DB.Create(&settings).Error; err != nil {
			return err
		}

		zoneIDs := map[string]uuid.UUID{}
		for _, z := range org.Zones {
			zone := coverage.Zone{
				ID:      uuid.New(),
				OrgID:   org.OrgID,
				Name:    z.Name,
				County:  z.County,
				Aliases: pq.StringArray(z.Aliases),
				Active:  true,
			}
			if err := db.DB.Create(&zone).Error; err != nil {
				return err
			}
			zoneIDs[z.Name] = zone.ID
		}

		for _, s := range org.Shifts {
			start, end, err := localWindow(s.Date, s.StartHour, s.EndHour, loc)
			if err != nil {
				return err
			}
			status := s.Status
			if status == "" {
				status = coverage.ShiftPublished
			}
			shift := coverage.Shift{
				ID:        uuid.New(),
				OrgID:     org.OrgID,
				ZoneID:    zoneIDs[s.Zone],
				Date:      start.Truncate(24 * time.Hour),
				StartTime: start,
				EndTime:   end,
				Status:    status,
			}
			for _, su := range s.Signups {
				status := su.Status
				if status == "" {
					status = coverage.SignupConfirmed
				}
				shift.Signups = append(shift.Signups, coverage.ShiftSignup{
					ID:          uuid.New(),
					UserID:      su.UserID,
					DisplayName: su.Name,
					Status:      status,
					IsZoneLead:  su.IsZoneLead,
				})
			}
			if err := db.DB.Create(&shift).Error; err != nil {
				return err
			}
		}

		for _, d := range org.Dispatchers {
			start, end, err := localWindow(d.Date, d.StartHour, d.EndHour, loc)
			if err != nil {
				return err
			}
			row := coverage.DispatcherAssignment{
				ID:          uuid.New(),
				OrgID:       org.OrgID,
				Scope:       d.Scope,
				Date:        start.Truncate(24 * time.Hour),
				StartTime:   start,
				EndTime:     end,
				IsBackup:    d.IsBackup,
				Notes:       d.Notes,
				UserID:      d.UserID,
				DisplayName: d.Name,
			}
			if err := db.DB.Create(&row).Error; err != nil {
				return err
			}
		}

		for _, l := range org.RegionalLeads {
			date, err := time.Parse("2006-01-02", l.Date)
			if err != nil {
				return fmt.Errorf("org %s: bad lead date %q", org.OrgID, l.Date)
			}
			row := coverage.RegionalLeadAssignment{
				ID:          uuid.New(),
				OrgID:       org.OrgID,
				Date:        date,
				IsPrimary:   l.IsPrimary,
				Notes:       l.Notes,
				UserID:      l.UserID,
				DisplayName: l.Name,
			}
			if err := db.DB.Create(&row).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func orgTimezone(org OrgFixture) string {
	if org.Timezone == "" {
		return coverage.DefaultTimezone
	}
	return org.Timezone
}

// localWindow turns a fixture's (date, local start/end hours) into UTC
// instants. An end hour at or before the start hour rolls to the next day.
func localWindow(date string, startHour, endHour int, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("bad date %q", date)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), startHour, 0, 0, 0, loc)
	endDay := day
	if endHour <= startHour {
		endDay = day.AddDate(0, 0, 1)
	}
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), endHour, 0, 0, 0, loc)
	return start.UTC(), end.UTC(), nil
}
