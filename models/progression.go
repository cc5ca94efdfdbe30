// models/progression.go - Player progression and quest models
package models

import (
	"time"
)

// PlayerState holds per-player XP, level and streak state. A row is created
// lazily on first access with zero state.
type PlayerState struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `json:"-" gorm:"foreignKey:UserID"`

	// XP is the amount earned inside the current level; TotalXP is lifetime
	// and never decreases. Level is always Level(TotalXP).
	XP      int `gorm:"default:0" json:"xp"`
	TotalXP int `gorm:"default:0" json:"total_xp"`
	Level   int `gorm:"default:1" json:"level"`

	CurrentStreak int `gorm:"default:0" json:"current_streak"`
	LongestStreak int `gorm:"default:0" json:"longest_streak"`

	LastLoginAt       *time.Time `json:"last_login_at"`
	LastDailyRewardAt *time.Time `json:"last_daily_reward_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Quest statuses move strictly forward.
const (
	QuestStatusAvailable = "available"
	QuestStatusActive    = "active"
	QuestStatusCompleted = "completed"
	QuestStatusClaimed   = "claimed"
)

// Quest is an immutable catalog entry describing a goal and its rewards.
type Quest struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:100" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:50" json:"icon"`

	// EventType names the gameplay event that advances this quest
	// ("order_placed", "recipe_brewed", ...); Target is the progress needed
	// to complete it.
	EventType string `gorm:"size:50;index" json:"event_type"`
	Target    int    `gorm:"default:1" json:"target"`

	XPReward int  `gorm:"default:0" json:"xp_reward"`
	IsActive bool `gorm:"default:true" json:"is_active"`

	IngredientRewards []QuestIngredientReward `gorm:"foreignKey:QuestID" json:"ingredient_rewards,omitempty"`
	CosmeticRewards   []QuestCosmeticReward   `gorm:"foreignKey:QuestID" json:"cosmetic_rewards,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// QuestIngredientReward grants a quantity of one ingredient on claim.
type QuestIngredientReward struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	QuestID      uint   `gorm:"not null;index" json:"quest_id"`
	IngredientID string `gorm:"not null;size:50" json:"ingredient_id"`
	Quantity     int    `gorm:"not null" json:"quantity"`
}

// QuestCosmeticReward unlocks one cosmetic theme on claim.
type QuestCosmeticReward struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	QuestID uint   `gorm:"not null;index" json:"quest_id"`
	Theme   string `gorm:"not null;size:50" json:"theme"`
}

// PlayerQuest tracks one player's instance of a quest.
type PlayerQuest struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index:idx_player_quest,unique" json:"user_id"`
	QuestID uint   `gorm:"not null;index:idx_player_quest,unique" json:"quest_id"`
	Quest   *Quest `json:"quest,omitempty" gorm:"foreignKey:QuestID"`

	Status   string `gorm:"default:'available';size:20" json:"status"`
	Progress int    `gorm:"default:0" json:"progress"`

	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	ClaimedAt   *time.Time `json:"claimed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlayerState) TableName() string {
	return "player_states"
}

func (Quest) TableName() string {
	return "quests"
}

func (QuestIngredientReward) TableName() string {
	return "quest_ingredient_rewards"
}

func (QuestCosmeticReward) TableName() string {
	return "quest_cosmetic_rewards"
}

func (PlayerQuest) TableName() string {
	return "player_quests"
}
