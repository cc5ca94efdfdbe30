package services

import (
	"testing"

	"github.com/HoneyBadgered/alchemy-sub004/database"
	"github.com/HoneyBadgered/alchemy-sub004/models"
	"github.com/HoneyBadgered/alchemy-sub004/store"
	"github.com/HoneyBadgered/alchemy-sub004/store/gormstore"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (store.Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return gormstore.New(db), db
}

func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func seedQuest(t *testing.T, db *gorm.DB, quest *models.Quest) uint {
	t.Helper()
	require.NoError(t, db.Create(quest).Error)
	return quest.ID
}

func seedPlayerQuest(t *testing.T, db *gorm.DB, pq *models.PlayerQuest) {
	t.Helper()
	require.NoError(t, db.Create(pq).Error)
}
