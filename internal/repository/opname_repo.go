package repository

import (
	"go-sealindo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OpnameRepository interface {
	FindAll() ([]model.StokOpname, error)
	FindByID(id uuid.UUID) (*model.StokOpname, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.StokOpname, error)
	FindDetailByID(id uuid.UUID) (*model.StokOpnameDetail, error)
}

type opnameRepo struct {
	db *gorm.DB
}

func NewOpnameRepo(db *gorm.DB) OpnameRepository {
	return &opnameRepo{db}
}

func (r *opnameRepo) FindAll() ([]model.StokOpname, error) {
	var headers []model.StokOpname
	err := r.db.Preload("Details").Order("created_at DESC").Find(&headers).Error
	return headers, err
}

func (r *opnameRepo) FindByID(id uuid.UUID) (*model.StokOpname, error) {
	var header model.StokOpname
	err := r.db.Preload("Details").Preload("Details.Inventory").
		Preload("Details.Inventory.Product").Preload("Details.Inventory.Place").
		First(&header, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

// FindForUpdate mengunci header agar finalize dan cancel tidak balapan.
func (r *opnameRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.StokOpname, error) {
	var header model.StokOpname
	err := lockForUpdate(tx).First(&header, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &header, nil
}

func (r *opnameRepo) FindDetailByID(id uuid.UUID) (*model.StokOpnameDetail, error) {
	var detail model.StokOpnameDetail
	err := r.db.Preload("Inventory").First(&detail, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}
