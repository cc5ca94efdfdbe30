// Imports quest and reward catalogs from JSON files into the database.
//
// Usage:
//
//	catalog-importer -quests ./data/quests.json -rewards ./data/rewards.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/HoneyBadgered/alchemy-sub004/database"
	"github.com/HoneyBadgered/alchemy-sub004/models"
	"github.com/HoneyBadgered/alchemy-sub004/services"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

type questFile struct {
	Quests []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		EventType   string `json:"event_type"`
		Target      int    `json:"target"`
		XPReward    int    `json:"xp_reward"`
		Ingredients []struct {
			IngredientID string `json:"ingredient_id"`
			Quantity     int    `json:"quantity"`
		} `json:"ingredient_rewards"`
		Cosmetics []string `json:"cosmetic_rewards"`
	} `json:"quests"`
}

type rewardFile struct {
	Rewards []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
		PointsCost  int    `json:"points_cost"`
		MinimumTier string `json:"minimum_tier"`
		Stock       *int   `json:"stock"`
	} `json:"rewards"`
}

func main() {
	questsPath := flag.String("quests", "", "path to quests JSON file")
	rewardsPath := flag.String("rewards", "", "path to rewards JSON file")
	flag.Parse()

	if *questsPath == "" && *rewardsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	if *questsPath != "" {
		if err := importQuests(db, *questsPath); err != nil {
			log.Fatal("Failed to import quests: ", err)
		}
	}
	if *rewardsPath != "" {
		if err := importRewards(db, *rewardsPath); err != nil {
			log.Fatal("Failed to import rewards: ", err)
		}
	}
}

func importQuests(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file questFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}

	imported := 0
	for _, q := range file.Quests {
		if q.Name == "" || q.EventType == "" || q.Target < 1 || q.XPReward < 0 {
			log.Printf("Skipping invalid quest %q", q.Name)
			continue
		}

		quest := models.Quest{
			Name:        q.Name,
			Description: q.Description,
			Icon:        q.Icon,
			EventType:   q.EventType,
			Target:      q.Target,
			XPReward:    q.XPReward,
			IsActive:    true,
		}
		for _, ing := range q.Ingredients {
			if ing.Quantity < 1 {
				continue
			}
			quest.IngredientRewards = append(quest.IngredientRewards, models.QuestIngredientReward{
				IngredientID: ing.IngredientID,
				Quantity:     ing.Quantity,
			})
		}
		for _, theme := range q.Cosmetics {
			quest.CosmeticRewards = append(quest.CosmeticRewards, models.QuestCosmeticReward{Theme: theme})
		}

		if err := db.Create(&quest).Error; err != nil {
			return err
		}
		imported++
	}

	fmt.Printf("Imported %d quests\n", imported)
	return nil
}

func importRewards(db *gorm.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file rewardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return err
	}

	imported := 0
	for _, r := range file.Rewards {
		if r.Name == "" || r.PointsCost < 0 {
			log.Printf("Skipping invalid reward %q", r.Name)
			continue
		}
		tier := r.MinimumTier
		if tier == "" {
			tier = services.TierNovice
		}
		if services.TierRank(tier) < 0 {
			log.Printf("Skipping reward %q: unknown minimum tier %q", r.Name, tier)
			continue
		}

		reward := models.Reward{
			Name:        r.Name,
			Description: r.Description,
			Icon:        r.Icon,
			PointsCost:  r.PointsCost,
			MinimumTier: tier,
			IsActive:    true,
			Stock:       r.Stock,
		}
		if err := db.Create(&reward).Error; err != nil {
			return err
		}
		imported++
	}

	fmt.Printf("Imported %d rewards\n", imported)
	return nil
}
