package coverage

import (
	"log"

	"github.com/CommunityWatchNC/CW-Backend/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "coverage"); err != nil {
		log.Fatal("Failed to create coverage schema: ", err)
	}

	if err := db.DB.AutoMigrate(
		&Zone{}, &Shift{}, &ShiftSignup{},
		&DispatcherAssignment{}, &RegionalLeadAssignment{}, &OrgSettings{},
	); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
