package services

import (
	"context"
	"testing"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/apperr"
	"github.com/HoneyBadgered/alchemy-sub004/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func completedQuestFixture(t *testing.T, db *gorm.DB, userID uint) uint {
	t.Helper()
	questID := seedQuest(t, db, &models.Quest{
		Name:      "First Brew",
		EventType: "order_placed",
		Target:    1,
		XPReward:  100,
		IsActive:  true,
		IngredientRewards: []models.QuestIngredientReward{
			{IngredientID: "mandrake_root", Quantity: 2},
		},
		CosmeticRewards: []models.QuestCosmeticReward{
			{Theme: "emberglow"},
		},
	})
	now := time.Now().UTC()
	seedPlayerQuest(t, db, &models.PlayerQuest{
		UserID:      userID,
		QuestID:     questID,
		Status:      models.QuestStatusCompleted,
		Progress:    1,
		StartedAt:   &now,
		CompletedAt: &now,
	})
	return questID
}

func setTotalXP(t *testing.T, db *gorm.DB, userID uint, totalXP int) {
	t.Helper()
	state := models.PlayerState{UserID: userID, Level: 1}
	require.NoError(t, db.Where(models.PlayerState{UserID: userID}).FirstOrCreate(&state).Error)
	level, into := LevelProgress(totalXP)
	require.NoError(t, db.Model(&models.PlayerState{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{"total_xp": totalXP, "level": level, "xp": into}).Error)
}

func TestClaimQuestAwardsEverything(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	userID := seedUser(t, db, "morgana")
	setTotalXP(t, db, userID, 800)
	questID := completedQuestFixture(t, db, userID)

	result, err := svc.ClaimQuest(ctx, userID, questID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 100, result.XPGained)

	state, err := st.Progression().GetPlayerState(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 900, state.TotalXP)
	assert.Equal(t, Level(900), state.Level)

	items, err := st.Inventory().ListItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "mandrake_root", items[0].ItemID)
	assert.Equal(t, 2, items[0].Quantity)

	themes, err := st.Cosmetics().ListThemes(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"emberglow"}, themes)

	pq, err := st.Quests().GetPlayerQuest(ctx, userID, questID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestStatusClaimed, pq.Status)
	require.NotNil(t, pq.ClaimedAt)
}

func TestClaimQuestIdempotent(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	userID := seedUser(t, db, "morgana")
	setTotalXP(t, db, userID, 800)
	questID := completedQuestFixture(t, db, userID)

	_, err := svc.ClaimQuest(ctx, userID, questID)
	require.NoError(t, err)

	_, err = svc.ClaimQuest(ctx, userID, questID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAlreadyClaimed, apperr.KindOf(err))

	// XP was awarded exactly once.
	state, err := st.Progression().GetPlayerState(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 900, state.TotalXP)

	items, err := st.Inventory().ListItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestClaimQuestNotFound(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)

	userID := seedUser(t, db, "morgana")

	_, err := svc.ClaimQuest(context.Background(), userID, 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestClaimQuestNotCompleted(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)

	userID := seedUser(t, db, "morgana")
	questID := seedQuest(t, db, &models.Quest{
		Name: "Regular Customer", EventType: "order_placed", Target: 5, XPReward: 250, IsActive: true,
	})
	seedPlayerQuest(t, db, &models.PlayerQuest{
		UserID: userID, QuestID: questID, Status: models.QuestStatusActive, Progress: 2,
	})

	_, err := svc.ClaimQuest(context.Background(), userID, questID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err))
}

func TestClaimQuestRewardComposition(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	userID := seedUser(t, db, "morgana")

	// Player already owns some of both reward kinds.
	require.NoError(t, st.Inventory().AddItem(ctx, userID, "mandrake_root", "ingredient", 3))
	require.NoError(t, st.Cosmetics().UnlockThemes(ctx, userID, []string{"midnight_ink", "emberglow"}, time.Now().UTC()))

	questID := completedQuestFixture(t, db, userID)

	_, err := svc.ClaimQuest(ctx, userID, questID)
	require.NoError(t, err)

	items, err := st.Inventory().ListItems(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)

	// The unlocked set only ever grows; no duplicates from re-unlocking.
	themes, err := st.Cosmetics().ListThemes(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"emberglow", "midnight_ink"}, themes)
}

func TestTrackQuestProgressTransitions(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	userID := seedUser(t, db, "morgana")
	questID := seedQuest(t, db, &models.Quest{
		Name: "Regular Customer", EventType: "order_placed", Target: 5, XPReward: 250, IsActive: true,
	})

	updated, err := svc.TrackQuestProgress(ctx, userID, "order_placed", 2)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, models.QuestStatusActive, updated[0].Status)
	assert.Equal(t, 2, updated[0].Progress)

	// Overshooting clamps at the target and completes the quest.
	updated, err = svc.TrackQuestProgress(ctx, userID, "order_placed", 10)
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, models.QuestStatusCompleted, updated[0].Status)
	assert.Equal(t, 5, updated[0].Progress)

	// Completed quests no longer move.
	updated, err = svc.TrackQuestProgress(ctx, userID, "order_placed", 1)
	require.NoError(t, err)
	assert.Empty(t, updated)

	pq, err := st.Quests().GetPlayerQuest(ctx, userID, questID)
	require.NoError(t, err)
	assert.Equal(t, models.QuestStatusCompleted, pq.Status)
	require.NotNil(t, pq.CompletedAt)
}

func TestTrackQuestProgressViewsCarryRewards(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)

	userID := seedUser(t, db, "morgana")
	seedQuest(t, db, &models.Quest{
		Name: "First Brew", EventType: "order_placed", Target: 2, XPReward: 100, IsActive: true,
		IngredientRewards: []models.QuestIngredientReward{
			{IngredientID: "mandrake_root", Quantity: 2},
		},
		CosmeticRewards: []models.QuestCosmeticReward{{Theme: "emberglow"}},
	})

	updated, err := svc.TrackQuestProgress(context.Background(), userID, "order_placed", 1)
	require.NoError(t, err)
	require.Len(t, updated, 1)

	// Progress views carry the same reward detail as the quest list.
	require.Len(t, updated[0].IngredientRewards, 1)
	assert.Equal(t, "mandrake_root", updated[0].IngredientRewards[0].IngredientID)
	assert.Equal(t, []string{"emberglow"}, updated[0].CosmeticRewards)
}

func TestTrackQuestProgressUnknownEvent(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)

	userID := seedUser(t, db, "morgana")

	updated, err := svc.TrackQuestProgress(context.Background(), userID, "cauldron_polished", 1)
	require.NoError(t, err)
	assert.Empty(t, updated)
}

func TestGetQuestsMergesCatalog(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	userID := seedUser(t, db, "morgana")
	touchedID := seedQuest(t, db, &models.Quest{
		Name: "First Brew", EventType: "order_placed", Target: 1, XPReward: 100, IsActive: true,
	})
	seedQuest(t, db, &models.Quest{
		Name: "Potion Scholar", EventType: "article_read", Target: 10, XPReward: 150, IsActive: true,
	})
	seedPlayerQuest(t, db, &models.PlayerQuest{
		UserID: userID, QuestID: touchedID, Status: models.QuestStatusActive, Progress: 1,
	})

	quests, err := svc.GetQuests(ctx, userID)
	require.NoError(t, err)
	require.Len(t, quests, 2)

	byName := map[string]QuestView{}
	for _, q := range quests {
		byName[q.Name] = q
	}
	assert.Equal(t, models.QuestStatusActive, byName["First Brew"].Status)
	assert.Equal(t, 1, byName["First Brew"].Progress)
	assert.Equal(t, models.QuestStatusAvailable, byName["Potion Scholar"].Status)
}

func TestGetQuestsUnknownUser(t *testing.T) {
	st, _ := newTestStore(t)
	svc := NewQuestService(st, nil)

	_, err := svc.GetQuests(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDailyCheckInStreaks(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	userID := seedUser(t, db, "morgana")

	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day1 }

	result, err := svc.DailyCheckIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, DailyRewardPoints, result.PointsAwarded)
	assert.Equal(t, 1, result.CurrentStreak)

	// Second claim the same day is rejected and awards nothing.
	_, err = svc.DailyCheckIn(ctx, userID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindAlreadyClaimed, apperr.KindOf(err))

	state, err := st.Progression().GetPlayerState(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, DailyRewardXP, state.TotalXP)

	// Next day extends the streak.
	svc.now = func() time.Time { return day1.AddDate(0, 0, 1) }
	result, err = svc.DailyCheckIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CurrentStreak)
	assert.Equal(t, 2, result.LongestStreak)

	// A missed day resets the streak but keeps the longest.
	svc.now = func() time.Time { return day1.AddDate(0, 0, 4) }
	result, err = svc.DailyCheckIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Equal(t, 2, result.LongestStreak)

	points, err := st.Points().GetPoints(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 3*DailyRewardPoints, points.Balance)
	assert.Equal(t, 3*DailyRewardPoints, points.LifetimeEarned)
}

func TestGetProgressLazyCreates(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	userID := seedUser(t, db, "morgana")

	progress, err := svc.GetProgress(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Level)
	assert.Equal(t, 0, progress.TotalXP)

	_, err = st.Progression().GetPlayerState(ctx, userID)
	require.NoError(t, err)
}

func TestGetLeaderboardOrder(t *testing.T) {
	st, db := newTestStore(t)
	svc := NewQuestService(st, nil)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	setTotalXP(t, db, alice, 500)
	setTotalXP(t, db, bob, 1500)

	entries, err := svc.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, bob, entries[0].UserID)
	assert.Equal(t, "bob", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, alice, entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
}
