// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"github.com/HoneyBadgered/alchemy-sub004/models"

	"gorm.io/gorm"
)

// Migrate runs all schema migrations.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.PlayerState{},
		&models.Quest{},
		&models.QuestIngredientReward{},
		&models.QuestCosmeticReward{},
		&models.PlayerQuest{},
		&models.InventoryItem{},
		&models.PlayerCosmetic{},
		&models.RewardPoints{},
		&models.RewardHistoryEntry{},
		&models.Reward{},
	); err != nil {
		return err
	}

	createIndexes(db)
	log.Println("Migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) {
	// Leaderboard and lookup paths not covered by struct tags.
	db.Exec("CREATE INDEX IF NOT EXISTS idx_player_states_total_xp ON player_states(total_xp DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_player_quests_status ON player_quests(status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reward_history_user_created ON reward_history_entries(user_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_rewards_active ON rewards(is_active)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quests_event_type ON quests(event_type)")
}
