// store/gormstore/gormstore.go - gorm-backed implementation of store.Store.
// Atomically maps to a database transaction; every repo method runs against
// whichever *gorm.DB scope the unit was built with.
package gormstore

import (
	"context"
	"errors"

	"github.com/HoneyBadgered/alchemy-sub004/store"

	"gorm.io/gorm"
)

type Store struct {
	unit
}

func New(db *gorm.DB) *Store {
	return &Store{unit{db: db}}
}

func (s *Store) Atomically(ctx context.Context, fn func(store.UnitOfWork) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(unit{db: tx})
	})
}

// unit satisfies store.UnitOfWork for both the base connection and an open
// transaction.
type unit struct {
	db *gorm.DB
}

func (u unit) Users() store.UserRepo              { return userRepo{db: u.db} }
func (u unit) Progression() store.ProgressionRepo { return progressionRepo{db: u.db} }
func (u unit) Quests() store.QuestRepo            { return questRepo{db: u.db} }
func (u unit) Inventory() store.InventoryRepo     { return inventoryRepo{db: u.db} }
func (u unit) Cosmetics() store.CosmeticsRepo     { return cosmeticsRepo{db: u.db} }
func (u unit) Points() store.PointsRepo           { return pointsRepo{db: u.db} }
func (u unit) Catalog() store.CatalogRepo         { return catalogRepo{db: u.db} }

// translate maps gorm's sentinel onto the store contract.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
