package main

import (
	"fmt"
	"log"
	"time"

	"tiketku/internal/events"
	"tiketku/internal/pricing"
	"tiketku/internal/rewards"
	"tiketku/internal/shared/config"
	"tiketku/internal/shared/database"
	"tiketku/internal/users"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Seeder struct {
	db *database.DB

	organizerID uuid.UUID
	userID      uuid.UUID
	eventID     uuid.UUID
}

func main() {
	fmt.Println("Starting Tiketku database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}

	fmt.Println("Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	fmt.Println("Seeding completed. Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"attendances",
		"booking_line_items",
		"bookings",
		"coupons",
		"coupon_templates",
		"vouchers",
		"point_lots",
		"ticket_types",
		"events",
		"users",
	}
	for _, table := range tables {
		if err := s.db.PostgreSQL.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	if err := s.seedUsers(); err != nil {
		return err
	}
	if err := s.seedEvents(); err != nil {
		return err
	}
	if err := s.seedRewards(); err != nil {
		return err
	}
	return nil
}

func (s *Seeder) seedUsers() error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	seedUsers := []users.User{
		{FirstName: "Site", LastName: "Admin", Email: "admin@tiketku.dev", Password: string(hash), Role: users.RoleAdmin, ReferralCode: "ADMN2345"},
		{FirstName: "Maya", LastName: "Organizer", Email: "organizer@tiketku.dev", Password: string(hash), Role: users.RoleOrganizer, ReferralCode: "ORGZ2345"},
		{FirstName: "Budi", LastName: "Buyer", Email: "buyer@tiketku.dev", Password: string(hash), Role: users.RoleUser, ReferralCode: "BUYR2345"},
	}
	for i := range seedUsers {
		if err := s.db.PostgreSQL.Create(&seedUsers[i]).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", seedUsers[i].Email, err)
		}
	}

	s.organizerID = seedUsers[1].ID
	s.userID = seedUsers[2].ID
	fmt.Printf("  created %d users\n", len(seedUsers))
	return nil
}

func (s *Seeder) seedEvents() error {
	start := time.Now().AddDate(0, 1, 0)
	event := events.Event{
		Name:           "Jakarta Jazz Night",
		Description:    "An evening of live jazz at the waterfront.",
		Venue:          "Ancol Open Stage",
		StartDate:      start,
		EndDate:        start.Add(6 * time.Hour),
		Status:         events.StatusPublished,
		AvailableSeats: 500,
		OrganizerID:    s.organizerID,
		TicketTypes: []events.TicketType{
			{Name: "Regular", Price: 100000, Capacity: 400},
			{Name: "VIP", Price: 250000, Capacity: 100},
		},
	}
	if err := s.db.PostgreSQL.Create(&event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	s.eventID = event.ID
	fmt.Println("  created 1 event with 2 ticket types")
	return nil
}

func (s *Seeder) seedRewards() error {
	voucher := rewards.Voucher{
		EventID:       s.eventID,
		Code:          "JAZZ10",
		DiscountType:  pricing.RulePercentage,
		DiscountValue: 10,
		MaxDiscount:   20000,
		MaxUsage:      100,
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 2, 0),
	}
	if err := s.db.PostgreSQL.Create(&voucher).Error; err != nil {
		return fmt.Errorf("failed to create voucher: %w", err)
	}

	template := rewards.CouponTemplate{
		Name:          "Welcome Discount",
		DiscountType:  pricing.RuleFixed,
		DiscountValue: 15000,
		ValidityDays:  30,
	}
	if err := s.db.PostgreSQL.Create(&template).Error; err != nil {
		return fmt.Errorf("failed to create coupon template: %w", err)
	}

	coupon := rewards.Coupon{
		UserID:     s.userID,
		TemplateID: template.ID,
		Code:       "CPN-WELCOME123",
		ExpiresAt:  time.Now().AddDate(0, 0, template.ValidityDays),
	}
	if err := s.db.PostgreSQL.Create(&coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	lot := rewards.PointLot{
		UserID:        s.userID,
		Amount:        50000,
		InitialAmount: 50000,
		Source:        rewards.LotSourceSignup,
		ExpiresAt:     time.Now().AddDate(1, 0, 0),
	}
	if err := s.db.PostgreSQL.Create(&lot).Error; err != nil {
		return fmt.Errorf("failed to create point lot: %w", err)
	}

	fmt.Println("  created voucher JAZZ10, welcome coupon and a 50000 point lot")
	return nil
}
