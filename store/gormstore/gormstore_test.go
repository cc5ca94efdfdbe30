package gormstore

import (
	"context"
	"testing"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/database"
	"github.com/HoneyBadgered/alchemy-sub004/models"
	"github.com/HoneyBadgered/alchemy-sub004/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return New(db), db
}

func newTestUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	user := models.User{Username: username, Password: "x", DisplayName: username}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func TestAddItemStacksQuantity(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, db, "morgana")

	require.NoError(t, st.Inventory().AddItem(ctx, userID, "mandrake_root", "ingredient", 2))
	require.NoError(t, st.Inventory().AddItem(ctx, userID, "mandrake_root", "ingredient", 3))
	require.NoError(t, st.Inventory().AddItem(ctx, userID, "nightshade", "ingredient", 1))

	items, err := st.Inventory().ListItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byItem := map[string]int{}
	for _, item := range items {
		byItem[item.ItemID] = item.Quantity
	}
	assert.Equal(t, 5, byItem["mandrake_root"])
	assert.Equal(t, 1, byItem["nightshade"])
}

func TestUnlockThemesIdempotentUnion(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, db, "morgana")
	now := time.Now().UTC()

	require.NoError(t, st.Cosmetics().UnlockThemes(ctx, userID, []string{"emberglow"}, now))
	require.NoError(t, st.Cosmetics().UnlockThemes(ctx, userID, []string{"emberglow", "midnight_ink"}, now))

	themes, err := st.Cosmetics().ListThemes(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"emberglow", "midnight_ink"}, themes)
}

func TestMarkClaimedGuard(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, db, "morgana")

	quest := models.Quest{Name: "First Brew", EventType: "order_placed", Target: 1, XPReward: 100, IsActive: true}
	require.NoError(t, db.Create(&quest).Error)

	now := time.Now().UTC()
	pq := models.PlayerQuest{
		UserID: userID, QuestID: quest.ID,
		Status: models.QuestStatusCompleted, Progress: 1, CompletedAt: &now,
	}
	require.NoError(t, db.Create(&pq).Error)

	claimed, err := st.Quests().MarkClaimed(ctx, pq.ID, now)
	require.NoError(t, err)
	assert.True(t, claimed)

	// The status/claimed_at predicate makes the second attempt a no-op.
	claimed, err = st.Quests().MarkClaimed(ctx, pq.ID, now)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestDeductPointsGuard(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, db, "morgana")

	_, err := st.Points().GetOrCreatePoints(ctx, userID)
	require.NoError(t, err)
	_, err = st.Points().AddPoints(ctx, userID, 100)
	require.NoError(t, err)

	ok, err := st.Points().DeductPoints(ctx, userID, 150)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = st.Points().DeductPoints(ctx, userID, 100)
	require.NoError(t, err)
	assert.True(t, ok)

	points, err := st.Points().GetPoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, points.Balance)
	assert.Equal(t, 100, points.LifetimeEarned)
}

func TestDecrementStockGuard(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()

	stock := 1
	limited := models.Reward{Name: "Limited Elixir Kit", PointsCost: 100, IsActive: true, Stock: &stock}
	require.NoError(t, db.Create(&limited).Error)
	unlimited := models.Reward{Name: "Free Delivery", PointsCost: 100, IsActive: true}
	require.NoError(t, db.Create(&unlimited).Error)

	ok, err := st.Catalog().DecrementStock(ctx, limited.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Catalog().DecrementStock(ctx, limited.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unlimited stock is never decremented.
	ok, err = st.Catalog().DecrementStock(ctx, unlimited.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetOrCreateSurvivesExistingRow(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, db, "morgana")

	// Rows already inserted by a racing first-touch request must not turn
	// the conflicting create into an error.
	require.NoError(t, db.Create(&models.PlayerState{UserID: userID, Level: 3, TotalXP: 500}).Error)
	require.NoError(t, db.Create(&models.RewardPoints{UserID: userID, Balance: 40, LifetimeEarned: 90, Tier: "Novice"}).Error)

	state, err := st.Progression().GetOrCreatePlayerState(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Level)
	assert.Equal(t, 500, state.TotalXP)

	points, err := st.Points().GetOrCreatePoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 40, points.Balance)
	assert.Equal(t, 90, points.LifetimeEarned)

	var stateRows, pointsRows int64
	require.NoError(t, db.Model(&models.PlayerState{}).Where("user_id = ?", userID).Count(&stateRows).Error)
	require.NoError(t, db.Model(&models.RewardPoints{}).Where("user_id = ?", userID).Count(&pointsRows).Error)
	assert.Equal(t, int64(1), stateRows)
	assert.Equal(t, int64(1), pointsRows)
}

func TestTouchDailyRewardGuard(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, db, "morgana")

	_, err := st.Progression().GetOrCreatePlayerState(ctx, userID)
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	dayStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	touched, err := st.Progression().TouchDailyReward(ctx, userID, 1, 1, now, dayStart)
	require.NoError(t, err)
	assert.True(t, touched)

	touched, err = st.Progression().TouchDailyReward(ctx, userID, 2, 2, now.Add(time.Hour), dayStart)
	require.NoError(t, err)
	assert.False(t, touched)

	nextDay := dayStart.AddDate(0, 0, 1)
	touched, err = st.Progression().TouchDailyReward(ctx, userID, 2, 2, nextDay.Add(time.Hour), nextDay)
	require.NoError(t, err)
	assert.True(t, touched)
}

func TestAtomicallyRollsBack(t *testing.T) {
	st, db := newTestDB(t)
	ctx := context.Background()
	userID := newTestUser(t, db, "morgana")

	_, err := st.Points().GetOrCreatePoints(ctx, userID)
	require.NoError(t, err)

	sentinel := assert.AnError
	err = st.Atomically(ctx, func(uow store.UnitOfWork) error {
		if _, err := uow.Points().AddPoints(ctx, userID, 500); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	points, err := st.Points().GetPoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 0, points.Balance)
}

func TestErrNotFoundTranslation(t *testing.T) {
	st, _ := newTestDB(t)
	ctx := context.Background()

	_, err := st.Users().GetByID(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Quests().GetPlayerQuest(ctx, 1, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Catalog().GetReward(ctx, 9999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
