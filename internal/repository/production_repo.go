package repository

import (
	"go-sealindo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductionRepository interface {
	FindAll() ([]model.Production, error)
	FindByID(id uuid.UUID) (*model.Production, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Production, error)
}

type productionRepo struct {
	db *gorm.DB
}

func NewProductionRepo(db *gorm.DB) ProductionRepository {
	return &productionRepo{db}
}

func (r *productionRepo) FindAll() ([]model.Production, error) {
	var jobs []model.Production
	err := r.db.Preload("Product").Preload("Employee").Preload("TransaksiDetail").
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

// FindForUpdate mengunci job agar dua transisi status konkuren tidak
// menggandakan side effect stok.
func (r *productionRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Production, error) {
	var job model.Production
	err := lockForUpdate(tx).First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *productionRepo) FindByID(id uuid.UUID) (*model.Production, error) {
	var job model.Production
	err := r.db.Preload("Product").Preload("Employee").Preload("TransaksiDetail").
		First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}
