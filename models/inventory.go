// models/inventory.go - Player inventory and cosmetics
package models

import (
	"time"
)

// InventoryItem is one stack of an item in a player's inventory. Quantity is
// additive and never negative; a row is created on first award.
type InventoryItem struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index:idx_inventory_item,unique" json:"user_id"`
	ItemID   string `gorm:"not null;size:50;index:idx_inventory_item,unique" json:"item_id"`
	ItemType string `gorm:"not null;size:30" json:"item_type"`
	Quantity int    `gorm:"default:0" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerCosmetic records one unlocked theme. The set of rows per user only
// grows; unlocking the same theme twice is a no-op.
type PlayerCosmetic struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_player_cosmetic,unique" json:"user_id"`
	Theme      string    `gorm:"not null;size:50;index:idx_player_cosmetic,unique" json:"theme"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

func (PlayerCosmetic) TableName() string {
	return "player_cosmetics"
}
