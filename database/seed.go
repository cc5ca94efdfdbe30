// database/seed.go - Default quest and reward catalogs
package database

import (
	"log"

	"github.com/HoneyBadgered/alchemy-sub004/models"

	"gorm.io/gorm"
)

// Seed inserts the default quest and reward catalogs when the tables are
// empty. Existing catalogs are left untouched.
func Seed(db *gorm.DB) error {
	if err := seedQuests(db); err != nil {
		return err
	}
	return seedRewards(db)
}

func seedQuests(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Quest{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default quest catalog...")
	quests := []models.Quest{
		{
			Name:        "First Brew",
			Description: "Place your first order",
			Icon:        "cauldron",
			EventType:   "order_placed",
			Target:      1,
			XPReward:    100,
			IngredientRewards: []models.QuestIngredientReward{
				{IngredientID: "mandrake_root", Quantity: 2},
			},
			IsActive: true,
		},
		{
			Name:        "Regular Customer",
			Description: "Place five orders",
			Icon:        "basket",
			EventType:   "order_placed",
			Target:      5,
			XPReward:    250,
			IngredientRewards: []models.QuestIngredientReward{
				{IngredientID: "phoenix_feather", Quantity: 1},
				{IngredientID: "mandrake_root", Quantity: 3},
			},
			CosmeticRewards: []models.QuestCosmeticReward{
				{Theme: "emberglow"},
			},
			IsActive: true,
		},
		{
			Name:        "Potion Scholar",
			Description: "Read ten grimoire articles",
			Icon:        "scroll",
			EventType:   "article_read",
			Target:      10,
			XPReward:    150,
			CosmeticRewards: []models.QuestCosmeticReward{
				{Theme: "midnight_ink"},
			},
			IsActive: true,
		},
		{
			Name:        "Apprentice Mixer",
			Description: "Brew three recipes in the mixing bench",
			Icon:        "alembic",
			EventType:   "recipe_brewed",
			Target:      3,
			XPReward:    200,
			IngredientRewards: []models.QuestIngredientReward{
				{IngredientID: "moon_dew", Quantity: 5},
			},
			IsActive: true,
		},
	}
	return db.Create(&quests).Error
}

func seedRewards(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Reward{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	log.Println("Seeding default reward catalog...")
	limited := 50
	rare := 10
	rewards := []models.Reward{
		{Name: "Free Shipping Voucher", Description: "Free shipping on your next order", Icon: "owl", PointsCost: 200, MinimumTier: "Novice", IsActive: true},
		{Name: "5% Off Coupon", Description: "5% off one order", Icon: "tag", PointsCost: 350, MinimumTier: "Novice", IsActive: true},
		{Name: "Sample Ingredient Pack", Description: "Three sample ingredients", Icon: "pouch", PointsCost: 500, MinimumTier: "Adept", IsActive: true, Stock: &limited},
		{Name: "15% Off Coupon", Description: "15% off one order", Icon: "tag", PointsCost: 900, MinimumTier: "Alchemist", IsActive: true},
		{Name: "Golden Cauldron Theme", Description: "Exclusive storefront theme", Icon: "cauldron", PointsCost: 1500, MinimumTier: "Master", IsActive: true, Stock: &rare},
	}
	return db.Create(&rewards).Error
}
