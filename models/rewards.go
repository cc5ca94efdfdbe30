// models/rewards.go - Loyalty points ledger and redeemable catalog
package models

import (
	"time"
)

// RewardPoints is a player's loyalty ledger row. Balance never exceeds
// LifetimeEarned; LifetimeEarned is monotonic and drives the tier.
type RewardPoints struct {
	ID     uint  `gorm:"primaryKey" json:"id"`
	UserID uint  `gorm:"uniqueIndex;not null" json:"user_id"`
	User   *User `json:"-" gorm:"foreignKey:UserID"`

	Balance        int    `gorm:"default:0" json:"balance"`
	LifetimeEarned int    `gorm:"default:0" json:"lifetime_earned"`
	Tier           string `gorm:"default:'Novice';size:20" json:"tier"`

	TierUpdatedAt time.Time `json:"tier_updated_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Reward history entry types.
const (
	RewardHistoryEarned   = "earned"
	RewardHistoryRedeemed = "redeemed"
)

// RewardHistoryEntry is an append-only audit row. Points are signed:
// positive for earned, negative for redeemed.
type RewardHistoryEntry struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	Type        string  `gorm:"not null;size:20" json:"type"`
	Points      int     `gorm:"not null" json:"points"`
	Description string  `gorm:"size:255" json:"description"`
	OrderID     *string `gorm:"size:50" json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Reward is a redeemable catalog entry. Stock nil means unlimited.
type Reward struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;size:100" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:50" json:"icon"`

	PointsCost  int    `gorm:"not null" json:"points_cost"`
	MinimumTier string `gorm:"default:'Novice';size:20" json:"minimum_tier"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
	Stock       *int   `json:"stock"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RewardPoints) TableName() string {
	return "reward_points"
}

func (RewardHistoryEntry) TableName() string {
	return "reward_history_entries"
}

func (Reward) TableName() string {
	return "rewards"
}
