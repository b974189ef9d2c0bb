package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/leavehub/hr-platform-api/internal/database"
	"github.com/leavehub/hr-platform-api/internal/models"
)

// newTestDB opens an isolated in-memory database per test and migrates the
// full schema.
func newTestDB(t *testing.T) database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Profile{},
		&models.Organization{},
		&models.Membership{},
		&models.LeaveRequest{},
		&models.Team{},
		&models.TeamMember{},
		&models.Invitation{},
		&models.OrganizationSettings{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return database.NewGormAdapter(db)
}

func createTestProfile(t *testing.T, db database.Database, email string) *models.Profile {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	profile := &models.Profile{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    "Test",
		LastName:     "User",
		IsActive:     true,
	}
	require.NoError(t, db.DB().Create(profile).Error)
	return profile
}

func createTestOrganization(t *testing.T, db database.Database, slug string) *models.Organization {
	t.Helper()

	org := &models.Organization{
		Name: slug,
		Slug: slug,
	}
	require.NoError(t, db.DB().Create(org).Error)
	return org
}

func createTestMembership(t *testing.T, db database.Database, profile *models.Profile, org *models.Organization, role models.Role, opts ...func(*models.Membership)) *models.Membership {
	t.Helper()

	m := &models.Membership{
		ProfileID:      profile.ID,
		OrganizationID: org.ID,
		Role:           role,
		IsActive:       true,
		JoinedVia:      "test",
	}
	for _, opt := range opts {
		opt(m)
	}
	require.NoError(t, db.DB().Create(m).Error)
	return m
}

func asDefault(m *models.Membership) { m.IsDefault = true }

func asInactive(m *models.Membership) { m.IsActive = false }
