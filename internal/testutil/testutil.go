// Package testutil builds throwaway infrastructure for package tests.
package testutil

import (
	"testing"

	"creativeminds-backend/internal/domain"
	"creativeminds-backend/internal/infrastructure/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema and
// an empty main pool.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	require.NoError(t, database.EnsurePool(db))
	return db
}

// NewRedis starts a miniredis server and returns a client for it.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

// SeedProject stores a project with a full timeline. The listed milestone
// indexes start out reimbursed.
func SeedProject(t *testing.T, db *gorm.DB, reimbursed ...int) *domain.Project {
	t.Helper()
	flags := domain.MilestoneFlags{0: false, 1: false, 2: false, 3: false}
	for _, i := range reimbursed {
		flags[i] = true
	}
	all := flags.All()
	p := &domain.Project{
		Title:             "Short film",
		Category:          "Film",
		Timeline:          datatypes.JSONSlice[string]{"research", "storyboard", "crowdfund", "release"},
		Budget:            datatypes.JSONSlice[float64]{100, 200, 300, 400},
		TotalBudget:       1000,
		Progress:          float64(flags.Count()) * 100 / domain.MilestoneCount,
		Completed:         all,
		FullyReimbursed:   all,
		Reimbursements:    datatypes.NewJSONType(flags),
		MilestoneEvidence: datatypes.NewJSONType(domain.EvidenceMap{}),
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// FundPool sets the main pool balance.
func FundPool(t *testing.T, db *gorm.DB, total float64) {
	t.Helper()
	require.NoError(t, db.Model(&domain.Pool{}).Where("id = ?", domain.MainPoolID).Update("total", total).Error)
}

// PoolTotal reads the main pool balance.
func PoolTotal(t *testing.T, db *gorm.DB) float64 {
	t.Helper()
	var p domain.Pool
	require.NoError(t, db.Where("id = ?", domain.MainPoolID).First(&p).Error)
	return p.Total
}

// ReloadProject reads a project back from the database.
func ReloadProject(t *testing.T, db *gorm.DB, p *domain.Project) *domain.Project {
	t.Helper()
	var out domain.Project
	require.NoError(t, db.Where("id = ?", p.ID).First(&out).Error)
	return &out
}
