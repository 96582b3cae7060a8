package repository

import (
	"go-sealindo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockRepository interface {
	FindByPlace(placeCode string) ([]model.Inventory, error)
	FindByID(id uuid.UUID) (*model.Inventory, error)
	FindForUpdate(tx *gorm.DB, productID, placeID uuid.UUID) (*model.Inventory, error)
	FindForUpdateByID(tx *gorm.DB, id uuid.UUID) (*model.Inventory, error)
	Ensure(tx *gorm.DB, productID, placeID uuid.UUID, createdBy string) (*model.Inventory, error)
	UpdateQty(tx *gorm.DB, id uuid.UUID, newQty int, updatedBy string) error
	CreateMovement(tx *gorm.DB, movement *model.StockMovement) error
	ListMovements(inventoryID uuid.UUID) ([]model.StockMovement, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

// lockForUpdate menambahkan FOR UPDATE pada query. Sqlite (dipakai test
// in-memory) tidak mengenal klausa itu dan serialisasi writer-nya sudah
// global, jadi dilewati.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (r *stockRepo) FindByPlace(placeCode string) ([]model.Inventory, error) {
	var entries []model.Inventory
	err := r.db.Preload("Product").Preload("Place").
		Joins("JOIN places ON places.id = inventories.place_id").
		Where("places.code = ?", placeCode).
		Find(&entries).Error
	return entries, err
}

func (r *stockRepo) FindByID(id uuid.UUID) (*model.Inventory, error) {
	var entry model.Inventory
	err := r.db.Preload("Product").Preload("Place").First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *stockRepo) FindForUpdate(tx *gorm.DB, productID, placeID uuid.UUID) (*model.Inventory, error) {
	var entry model.Inventory
	err := lockForUpdate(tx).
		First(&entry, "product_id = ? AND place_id = ?", productID, placeID).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *stockRepo) FindForUpdateByID(tx *gorm.DB, id uuid.UUID) (*model.Inventory, error) {
	var entry model.Inventory
	err := lockForUpdate(tx).First(&entry, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Ensure membuat ledger entry qty 0 bila belum ada, lalu mengembalikannya
// dalam keadaan terkunci. Idempotent.
func (r *stockRepo) Ensure(tx *gorm.DB, productID, placeID uuid.UUID, createdBy string) (*model.Inventory, error) {
	entry, err := r.FindForUpdate(tx, productID, placeID)
	if err == gorm.ErrRecordNotFound {
		fresh := model.Inventory{ProductID: productID, PlaceID: placeID, Qty: 0}
		fresh.CreatedBy = createdBy
		fresh.UpdatedBy = createdBy
		if err := tx.Create(&fresh).Error; err != nil {
			return nil, err
		}
		return &fresh, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *stockRepo) UpdateQty(tx *gorm.DB, id uuid.UUID, newQty int, updatedBy string) error {
	return tx.Model(&model.Inventory{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"qty":        newQty,
			"updated_by": updatedBy,
		}).Error
}

func (r *stockRepo) CreateMovement(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *stockRepo) ListMovements(inventoryID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Where("inventory_id = ?", inventoryID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}
