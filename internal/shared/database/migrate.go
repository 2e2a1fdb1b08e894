package database

import (
	"fmt"

	"tiketku/internal/bookings"
	"tiketku/internal/events"
	"tiketku/internal/rewards"
	"tiketku/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&events.Event{},
		&events.TicketType{},
		&bookings.Booking{},
		&bookings.LineItem{},
		&bookings.Attendance{},
		&rewards.PointLot{},
		&rewards.Voucher{},
		&rewards.CouponTemplate{},
		&rewards.Coupon{},
	); err != nil {
		return err
	}
	return migrateConstraints(db)
}

type checkConstraint struct {
	table string
	name  string
	expr  string
}

func (c checkConstraint) addSQL() string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)",
		c.table, c.name, c.expr)
}

var counterChecks = []checkConstraint{
	{"ticket_types", "chk_ticket_types_reserved_within_capacity",
		"reserved >= 0 AND reserved <= capacity"},
	{"events", "chk_events_booked_within_available",
		"booked_seats >= 0 AND booked_seats <= available_seats"},
	{"vouchers", "chk_vouchers_used_within_max",
		"used_count >= 0 AND used_count <= max_usage"},
}

// migrateConstraints adds the guards AutoMigrate cannot express. The counter
// checks are the database-side backstop for the no-oversell invariant.
// Postgres has no ADD CONSTRAINT IF NOT EXISTS, so existence is checked first.
func migrateConstraints(db *gorm.DB) error {
	for _, c := range counterChecks {
		var exists bool
		err := db.Raw(
			`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name,
		).Scan(&exists).Error
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := db.Exec(c.addSQL()).Error; err != nil {
			return err
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_bookings_status_deadline
			ON bookings (status, payment_deadline);`,
		`CREATE INDEX IF NOT EXISTS idx_point_lots_user_expiry
			ON point_lots (user_id, expires_at);`,
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
