// store/store.go - Repository and unit-of-work contracts for the
// progression/rewards core. Orchestrators depend on these interfaces only;
// the gorm implementation lives in store/gormstore.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/models"
)

// ErrNotFound is returned by repositories when a row does not exist.
var ErrNotFound = errors.New("record not found")

type UserRepo interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type ProgressionRepo interface {
	GetPlayerState(ctx context.Context, userID uint) (*models.PlayerState, error)
	// GetOrCreatePlayerState lazily creates a zero-state row on first access.
	GetOrCreatePlayerState(ctx context.Context, userID uint) (*models.PlayerState, error)
	// AddXP atomically increments TotalXP and returns the state after the
	// increment, as seen inside the current unit of work.
	AddXP(ctx context.Context, userID uint, xp int) (*models.PlayerState, error)
	// SetLevel persists a recomputed level and the XP earned inside it.
	SetLevel(ctx context.Context, userID uint, level, xpIntoLevel int) error
	SetLastLogin(ctx context.Context, userID uint, at time.Time) error
	// TouchDailyReward applies streak state and stamps LastDailyRewardAt only
	// when the previous stamp is before dayStart. Returns false when the
	// reward was already taken today.
	TouchDailyReward(ctx context.Context, userID uint, streak, longest int, at, dayStart time.Time) (bool, error)
	TopByTotalXP(ctx context.Context, limit int) ([]models.PlayerState, error)
}

type QuestRepo interface {
	ListActiveQuests(ctx context.Context) ([]models.Quest, error)
	GetQuest(ctx context.Context, questID uint) (*models.Quest, error)
	ListQuestsByEvent(ctx context.Context, eventType string) ([]models.Quest, error)
	ListPlayerQuests(ctx context.Context, userID uint) ([]models.PlayerQuest, error)
	GetPlayerQuest(ctx context.Context, userID, questID uint) (*models.PlayerQuest, error)
	CreatePlayerQuest(ctx context.Context, pq *models.PlayerQuest) error
	SavePlayerQuest(ctx context.Context, pq *models.PlayerQuest) error
	// MarkClaimed flips a completed, unclaimed player quest to claimed.
	// The guard runs inside the same statement as the write; false means
	// another request claimed it first.
	MarkClaimed(ctx context.Context, playerQuestID uint, at time.Time) (bool, error)
}

type InventoryRepo interface {
	// ListItems returns items ordered by item type asc, then created at desc.
	ListItems(ctx context.Context, userID uint) ([]models.InventoryItem, error)
	// AddItem increments an existing stack or creates one at the given quantity.
	AddItem(ctx context.Context, userID uint, itemID, itemType string, quantity int) error
}

type CosmeticsRepo interface {
	ListThemes(ctx context.Context, userID uint) ([]string, error)
	// UnlockThemes unions the given themes into the player's set. Already
	// unlocked themes are left untouched.
	UnlockThemes(ctx context.Context, userID uint, themes []string, at time.Time) error
}

type PointsRepo interface {
	GetPoints(ctx context.Context, userID uint) (*models.RewardPoints, error)
	GetOrCreatePoints(ctx context.Context, userID uint) (*models.RewardPoints, error)
	// AddPoints atomically increments balance and lifetime earned and returns
	// the ledger row after the increment.
	AddPoints(ctx context.Context, userID uint, points int) (*models.RewardPoints, error)
	// DeductPoints decrements balance only when it covers the amount; the
	// check and the write are one statement. Returns false on short balance.
	DeductPoints(ctx context.Context, userID uint, points int) (bool, error)
	SetTier(ctx context.Context, userID uint, tier string, at time.Time) error
	AppendHistory(ctx context.Context, entry *models.RewardHistoryEntry) error
	History(ctx context.Context, userID uint, offset, limit int) ([]models.RewardHistoryEntry, int64, error)
}

type CatalogRepo interface {
	ListActiveRewards(ctx context.Context) ([]models.Reward, error)
	GetReward(ctx context.Context, rewardID uint) (*models.Reward, error)
	// DecrementStock takes one unit only while stock is positive; the check
	// and the write are one statement. Returns false when stock ran out.
	DecrementStock(ctx context.Context, rewardID uint) (bool, error)
}

// UnitOfWork exposes every repository against a single storage scope:
// either the base connection or one open transaction.
type UnitOfWork interface {
	Users() UserRepo
	Progression() ProgressionRepo
	Quests() QuestRepo
	Inventory() InventoryRepo
	Cosmetics() CosmeticsRepo
	Points() PointsRepo
	Catalog() CatalogRepo
}

// Store is the root handle. Atomically runs fn against a unit of work whose
// mutations all commit or all roll back together.
type Store interface {
	UnitOfWork
	Atomically(ctx context.Context, fn func(UnitOfWork) error) error
}
