// services/quest_service.go - Player progression, quest ledger, and the
// quest claim orchestrator.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/apperr"
	"github.com/HoneyBadgered/alchemy-sub004/models"
	"github.com/HoneyBadgered/alchemy-sub004/store"
)

// Daily check-in rewards.
const (
	DailyRewardPoints = 10
	DailyRewardXP     = 10
)

type QuestService struct {
	store    store.Store
	notifier Notifier
	now      func() time.Time
}

func NewQuestService(st store.Store, notifier Notifier) *QuestService {
	if notifier == nil {
		notifier = NopNotifier()
	}
	return &QuestService{
		store:    st,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type ProgressView struct {
	Level             int        `json:"level"`
	XP                int        `json:"xp"`
	TotalXP           int        `json:"total_xp"`
	XPToNextLevel     int        `json:"xp_to_next_level"`
	CurrentStreak     int        `json:"current_streak"`
	LongestStreak     int        `json:"longest_streak"`
	LastLoginAt       *time.Time `json:"last_login_at"`
	LastDailyRewardAt *time.Time `json:"last_daily_reward_at"`
}

type QuestView struct {
	QuestID           uint                           `json:"quest_id"`
	Name              string                         `json:"name"`
	Description       string                         `json:"description"`
	Icon              string                         `json:"icon"`
	EventType         string                         `json:"event_type"`
	Status            string                         `json:"status"`
	Progress          int                            `json:"progress"`
	Target            int                            `json:"target"`
	XPReward          int                            `json:"xp_reward"`
	IngredientRewards []models.QuestIngredientReward `json:"ingredient_rewards"`
	CosmeticRewards   []string                       `json:"cosmetic_rewards"`
	StartedAt         *time.Time                     `json:"started_at"`
	CompletedAt       *time.Time                     `json:"completed_at"`
	ClaimedAt         *time.Time                     `json:"claimed_at"`
}

type ClaimResult struct {
	Success   bool `json:"success"`
	XPGained  int  `json:"xp_gained"`
	Level     int  `json:"level"`
	LeveledUp bool `json:"leveled_up"`
}

type CheckInResult struct {
	PointsAwarded int  `json:"points_awarded"`
	XPAwarded     int  `json:"xp_awarded"`
	CurrentStreak int  `json:"current_streak"`
	LongestStreak int  `json:"longest_streak"`
	Level         int  `json:"level"`
	LeveledUp     bool `json:"leveled_up"`
}

type LeaderboardEntry struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Level    int    `json:"level"`
	TotalXP  int    `json:"total_xp"`
	Rank     int    `json:"rank"`
}

// GetProgress reports a player's progression state, creating the zero-state
// row on first access.
func (s *QuestService) GetProgress(ctx context.Context, userID uint) (*ProgressView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	state, err := s.store.Progression().GetOrCreatePlayerState(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &ProgressView{
		Level:             state.Level,
		XP:                state.XP,
		TotalXP:           state.TotalXP,
		XPToNextLevel:     XPForLevel(state.Level),
		CurrentStreak:     state.CurrentStreak,
		LongestStreak:     state.LongestStreak,
		LastLoginAt:       state.LastLoginAt,
		LastDailyRewardAt: state.LastDailyRewardAt,
	}, nil
}

// GetQuests merges the active quest catalog with the player's own quest rows.
// Catalog quests the player has not touched yet show as available.
func (s *QuestService) GetQuests(ctx context.Context, userID uint) ([]QuestView, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	quests, err := s.store.Quests().ListActiveQuests(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	playerQuests, err := s.store.Quests().ListPlayerQuests(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	byQuest := make(map[uint]models.PlayerQuest, len(playerQuests))
	for _, pq := range playerQuests {
		byQuest[pq.QuestID] = pq
	}

	views := make([]QuestView, 0, len(quests))
	for i := range quests {
		view := questView(&quests[i], nil)
		if pq, ok := byQuest[quests[i].ID]; ok {
			view = questView(&quests[i], &pq)
		}
		views = append(views, view)
	}
	return views, nil
}

// ClaimQuest converts a completed quest's pending rewards into persisted
// player state. All five mutations commit or roll back together; the
// claimed-at guard runs inside the same unit, so a second claim cannot
// re-award.
func (s *QuestService) ClaimQuest(ctx context.Context, userID, questID uint) (*ClaimResult, error) {
	var result ClaimResult
	err := s.store.Atomically(ctx, func(uow store.UnitOfWork) error {
		pq, err := uow.Quests().GetPlayerQuest(ctx, userID, questID)
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("quest not found")
		}
		if err != nil {
			return apperr.Internal(err)
		}

		if pq.ClaimedAt != nil || pq.Status == models.QuestStatusClaimed {
			return apperr.AlreadyClaimed("quest reward already claimed")
		}
		if pq.Status != models.QuestStatusCompleted {
			return apperr.InvalidState("quest is not completed")
		}

		quest, err := uow.Quests().GetQuest(ctx, questID)
		if err != nil {
			return apperr.Internal(err)
		}

		now := s.now()
		claimed, err := uow.Quests().MarkClaimed(ctx, pq.ID, now)
		if err != nil {
			return apperr.Internal(err)
		}
		if !claimed {
			// A concurrent request won the race inside its own transaction.
			return apperr.AlreadyClaimed("quest reward already claimed")
		}

		before, err := uow.Progression().GetOrCreatePlayerState(ctx, userID)
		if err != nil {
			return apperr.Internal(err)
		}

		state, err := uow.Progression().AddXP(ctx, userID, quest.XPReward)
		if err != nil {
			return apperr.Internal(err)
		}
		level, xpInto := LevelProgress(state.TotalXP)
		if err := uow.Progression().SetLevel(ctx, userID, level, xpInto); err != nil {
			return apperr.Internal(err)
		}

		for _, ir := range quest.IngredientRewards {
			if err := uow.Inventory().AddItem(ctx, userID, ir.IngredientID, "ingredient", ir.Quantity); err != nil {
				return apperr.Internal(err)
			}
		}

		if len(quest.CosmeticRewards) > 0 {
			themes := make([]string, 0, len(quest.CosmeticRewards))
			for _, cr := range quest.CosmeticRewards {
				themes = append(themes, cr.Theme)
			}
			if err := uow.Cosmetics().UnlockThemes(ctx, userID, themes, now); err != nil {
				return apperr.Internal(err)
			}
		}

		result = ClaimResult{
			Success:   true,
			XPGained:  quest.XPReward,
			Level:     level,
			LeveledUp: level > before.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.LeveledUp {
		s.notifier.Publish(ProgressionEvent{Type: EventLevelUp, UserID: userID, Level: result.Level})
	}
	return &result, nil
}

// TrackQuestProgress advances every active quest listening for the given
// gameplay event. Completed and claimed quests never move backwards.
func (s *QuestService) TrackQuestProgress(ctx context.Context, userID uint, eventType string, amount int) ([]QuestView, error) {
	if amount <= 0 {
		return nil, apperr.Validation("progress amount must be positive")
	}

	var updated []QuestView
	err := s.store.Atomically(ctx, func(uow store.UnitOfWork) error {
		quests, err := uow.Quests().ListQuestsByEvent(ctx, eventType)
		if err != nil {
			return apperr.Internal(err)
		}

		now := s.now()
		for i := range quests {
			quest := &quests[i]

			pq, err := uow.Quests().GetPlayerQuest(ctx, userID, quest.ID)
			if errors.Is(err, store.ErrNotFound) {
				pq = &models.PlayerQuest{
					UserID:  userID,
					QuestID: quest.ID,
					Status:  models.QuestStatusAvailable,
				}
				if err := uow.Quests().CreatePlayerQuest(ctx, pq); err != nil {
					return apperr.Internal(err)
				}
			} else if err != nil {
				return apperr.Internal(err)
			}

			if pq.Status == models.QuestStatusCompleted || pq.Status == models.QuestStatusClaimed {
				continue
			}

			if pq.StartedAt == nil {
				pq.StartedAt = &now
				pq.Status = models.QuestStatusActive
			}
			pq.Progress += amount
			if pq.Progress >= quest.Target {
				pq.Progress = quest.Target
				pq.Status = models.QuestStatusCompleted
				pq.CompletedAt = &now
			}
			if err := uow.Quests().SavePlayerQuest(ctx, pq); err != nil {
				return apperr.Internal(err)
			}

			updated = append(updated, questView(quest, pq))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DailyCheckIn grants the once-per-UTC-day streak reward: points through the
// loyalty ledger and a small XP drip, all in one atomic unit.
func (s *QuestService) DailyCheckIn(ctx context.Context, userID uint) (*CheckInResult, error) {
	var result CheckInResult
	var tierUpdated bool
	var newTier string

	err := s.store.Atomically(ctx, func(uow store.UnitOfWork) error {
		state, err := uow.Progression().GetOrCreatePlayerState(ctx, userID)
		if err != nil {
			return apperr.Internal(err)
		}

		now := s.now()
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

		streak := 1
		if state.LastDailyRewardAt != nil {
			last := state.LastDailyRewardAt.UTC()
			if !last.Before(dayStart) {
				return apperr.AlreadyClaimed("daily reward already claimed today")
			}
			if !last.Before(dayStart.AddDate(0, 0, -1)) {
				streak = state.CurrentStreak + 1
			}
		}
		longest := state.LongestStreak
		if streak > longest {
			longest = streak
		}

		touched, err := uow.Progression().TouchDailyReward(ctx, userID, streak, longest, now, dayStart)
		if err != nil {
			return apperr.Internal(err)
		}
		if !touched {
			return apperr.AlreadyClaimed("daily reward already claimed today")
		}

		after, err := uow.Progression().AddXP(ctx, userID, DailyRewardXP)
		if err != nil {
			return apperr.Internal(err)
		}
		level, xpInto := LevelProgress(after.TotalXP)
		if err := uow.Progression().SetLevel(ctx, userID, level, xpInto); err != nil {
			return apperr.Internal(err)
		}

		outcome, err := earnPoints(ctx, uow, userID, DailyRewardPoints, "Daily check-in", nil, now)
		if err != nil {
			return err
		}
		tierUpdated = outcome.TierUpdated
		newTier = outcome.Tier

		result = CheckInResult{
			PointsAwarded: DailyRewardPoints,
			XPAwarded:     DailyRewardXP,
			CurrentStreak: streak,
			LongestStreak: longest,
			Level:         level,
			LeveledUp:     level > state.Level,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.LeveledUp {
		s.notifier.Publish(ProgressionEvent{Type: EventLevelUp, UserID: userID, Level: result.Level})
	}
	if tierUpdated {
		s.notifier.Publish(ProgressionEvent{Type: EventTierUp, UserID: userID, Tier: newTier})
	}
	return &result, nil
}

// GetInventory lists a player's items sorted by item type, newest first
// within a type.
func (s *QuestService) GetInventory(ctx context.Context, userID uint) ([]models.InventoryItem, error) {
	items, err := s.store.Inventory().ListItems(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

// GetCosmetics lists the themes a player has unlocked.
func (s *QuestService) GetCosmetics(ctx context.Context, userID uint) ([]string, error) {
	themes, err := s.store.Cosmetics().ListThemes(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return themes, nil
}

// RecordLogin stamps last login, creating the state row if needed. Called by
// the auth surface after a successful login.
func (s *QuestService) RecordLogin(ctx context.Context, userID uint) error {
	if _, err := s.store.Progression().GetOrCreatePlayerState(ctx, userID); err != nil {
		return apperr.Internal(err)
	}
	if err := s.store.Progression().SetLastLogin(ctx, userID, s.now()); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetLeaderboard returns the top players by lifetime XP.
func (s *QuestService) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 25
	}
	states, err := s.store.Progression().TopByTotalXP(ctx, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	entries := make([]LeaderboardEntry, 0, len(states))
	for i, state := range states {
		entry := LeaderboardEntry{
			UserID:  state.UserID,
			Level:   state.Level,
			TotalXP: state.TotalXP,
			Rank:    i + 1,
		}
		if state.User != nil {
			entry.Username = state.User.Username
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *QuestService) requireUser(ctx context.Context, userID uint) error {
	_, err := s.store.Users().GetByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func questView(quest *models.Quest, pq *models.PlayerQuest) QuestView {
	view := QuestView{
		QuestID:           quest.ID,
		Name:              quest.Name,
		Description:       quest.Description,
		Icon:              quest.Icon,
		EventType:         quest.EventType,
		Status:            models.QuestStatusAvailable,
		Target:            quest.Target,
		XPReward:          quest.XPReward,
		IngredientRewards: quest.IngredientRewards,
		CosmeticRewards:   make([]string, 0, len(quest.CosmeticRewards)),
	}
	for _, cr := range quest.CosmeticRewards {
		view.CosmeticRewards = append(view.CosmeticRewards, cr.Theme)
	}
	if pq != nil {
		view.Status = pq.Status
		view.Progress = pq.Progress
		view.StartedAt = pq.StartedAt
		view.CompletedAt = pq.CompletedAt
		view.ClaimedAt = pq.ClaimedAt
	}
	return view
}
