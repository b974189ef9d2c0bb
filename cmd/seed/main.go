package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/leavehub/hr-platform-api/internal/config"
	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
)

type CLI struct {
	db *gorm.DB
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db.DB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	cli := &CLI{db: db.DB()}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		cli.seedDemo()
	case "db-status":
		cli.checkDatabaseStatus()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// seedDemo creates two organizations with overlapping members so workspace
// switching and role separation can be exercised locally:
//
//	alice  - admin of acme, employee of globex
//	bob    - manager of acme
//	carol  - employee of acme, admin of globex
func (c *CLI) seedDemo() {
	fmt.Println("Seeding demo data...")

	err := c.db.Transaction(func(tx *gorm.DB) error {
		acme, err := c.createOrganization(tx, "Acme Corp", "acme")
		if err != nil {
			return err
		}
		globex, err := c.createOrganization(tx, "Globex Inc", "globex")
		if err != nil {
			return err
		}

		alice, err := c.createUser(tx, "alice@example.com", "Alice", "Anderson")
		if err != nil {
			return err
		}
		bob, err := c.createUser(tx, "bob@example.com", "Bob", "Brown")
		if err != nil {
			return err
		}
		carol, err := c.createUser(tx, "carol@example.com", "Carol", "Clark")
		if err != nil {
			return err
		}

		memberships := []models.Membership{
			{ProfileID: alice.ID, OrganizationID: acme.ID, Role: models.RoleAdmin, IsActive: true, IsDefault: true, JoinedVia: "seed"},
			{ProfileID: alice.ID, OrganizationID: globex.ID, Role: models.RoleEmployee, IsActive: true, JoinedVia: "seed"},
			{ProfileID: bob.ID, OrganizationID: acme.ID, Role: models.RoleManager, IsActive: true, IsDefault: true, JoinedVia: "seed"},
			{ProfileID: carol.ID, OrganizationID: acme.ID, Role: models.RoleEmployee, IsActive: true, JoinedVia: "seed"},
			{ProfileID: carol.ID, OrganizationID: globex.ID, Role: models.RoleAdmin, IsActive: true, IsDefault: true, JoinedVia: "seed"},
		}
		for i := range memberships {
			if err := tx.Create(&memberships[i]).Error; err != nil {
				return err
			}
		}

		for _, org := range []*models.Organization{acme, globex} {
			settings := models.OrganizationSettings{
				OrganizationID:  org.ID,
				AnnualLeaveDays: 26,
				CarryOverDays:   5,
				RequireApproval: true,
				Timezone:        "UTC",
				Plan:            "free",
			}
			if err := tx.Create(&settings).Error; err != nil {
				return err
			}
		}

		leave := models.LeaveRequest{
			OrganizationID: acme.ID,
			ProfileID:      carol.ID,
			Type:           models.LeaveTypeVacation,
			Status:         models.LeaveStatusPending,
			StartDate:      time.Now().AddDate(0, 1, 0),
			EndDate:        time.Now().AddDate(0, 1, 5),
			Reason:         "Summer holiday",
		}
		if err := tx.Create(&leave).Error; err != nil {
			return err
		}

		team := models.Team{OrganizationID: acme.ID, Name: "Engineering", Description: "Product engineering"}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		member := models.TeamMember{TeamID: team.ID, ProfileID: carol.ID}
		return tx.Create(&member).Error
	})
	if err != nil {
		log.Fatalf("Failed to seed demo data: %v", err)
	}

	fmt.Println("Demo data seeded. All accounts use password 'password123'.")
}

func (c *CLI) createOrganization(tx *gorm.DB, name, slug string) (*models.Organization, error) {
	org := &models.Organization{Name: name, Slug: slug}
	if err := tx.Create(org).Error; err != nil {
		return nil, err
	}
	return org, nil
}

func (c *CLI) createUser(tx *gorm.DB, email, firstName, lastName string) (*models.Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
	}
	if err := tx.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (c *CLI) checkDatabaseStatus() {
	var profiles, organizations, memberships int64
	c.db.Model(&models.Profile{}).Count(&profiles)
	c.db.Model(&models.Organization{}).Count(&organizations)
	c.db.Model(&models.Membership{}).Count(&memberships)

	fmt.Printf("profiles:      %d\n", profiles)
	fmt.Printf("organizations: %d\n", organizations)
	fmt.Printf("memberships:   %d\n", memberships)
}

func printUsage() {
	fmt.Println(`Usage: go run cmd/seed/main.go <command>

Commands:
  demo        Seed demo organizations and users
  db-status   Show row counts for core tables`)
}
