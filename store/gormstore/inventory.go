package gormstore

import (
	"context"
	"time"

	"github.com/HoneyBadgered/alchemy-sub004/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type inventoryRepo struct {
	db *gorm.DB
}

func (r inventoryRepo) ListItems(ctx context.Context, userID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("item_type ASC, created_at DESC").
		Find(&items).Error
	return items, err
}

func (r inventoryRepo) AddItem(ctx context.Context, userID uint, itemID, itemType string, quantity int) error {
	// Increment an existing stack first; fall back to creating one.
	res := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.InventoryItem{
		UserID:   userID,
		ItemID:   itemID,
		ItemType: itemType,
		Quantity: quantity,
	}).Error
}

type cosmeticsRepo struct {
	db *gorm.DB
}

func (r cosmeticsRepo) ListThemes(ctx context.Context, userID uint) ([]string, error) {
	var themes []string
	err := r.db.WithContext(ctx).Model(&models.PlayerCosmetic{}).
		Where("user_id = ?", userID).
		Order("theme ASC").
		Pluck("theme", &themes).Error
	return themes, err
}

func (r cosmeticsRepo) UnlockThemes(ctx context.Context, userID uint, themes []string, at time.Time) error {
	for _, theme := range themes {
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "theme"}},
				DoNothing: true,
			}).
			Create(&models.PlayerCosmetic{
				UserID:     userID,
				Theme:      theme,
				UnlockedAt: at,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
