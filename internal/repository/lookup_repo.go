package repository

import (
	"go-sealindo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LookupRepository menangani tabel referensi kecil: lokasi dan label status.

type LookupRepository interface {
	FindPlaceByCode(code string) (*model.Place, error)
	FindPlaceByID(id uuid.UUID) (*model.Place, error)
	FindStatusByCode(code model.StatusCode) (*model.StatusTransaksi, error)
	FindStatusByID(id uuid.UUID) (*model.StatusTransaksi, error)
	SeedDefaults() error
}

type lookupRepo struct {
	db *gorm.DB
}

func NewLookupRepo(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) FindPlaceByCode(code string) (*model.Place, error) {
	var place model.Place
	err := r.db.Where("code = ?", code).First(&place).Error
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *lookupRepo) FindPlaceByID(id uuid.UUID) (*model.Place, error) {
	var place model.Place
	err := r.db.First(&place, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func (r *lookupRepo) FindStatusByCode(code model.StatusCode) (*model.StatusTransaksi, error) {
	var status model.StatusTransaksi
	err := r.db.Where("code = ?", code).First(&status).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *lookupRepo) FindStatusByID(id uuid.UUID) (*model.StatusTransaksi, error) {
	var status model.StatusTransaksi
	err := r.db.First(&status, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func (r *lookupRepo) SeedDefaults() error {
	places := []model.Place{
		{Code: model.PlaceBengkel, Name: "Bengkel"},
		{Code: model.PlaceToko, Name: "Toko"},
	}
	for _, place := range places {
		var existing model.Place
		err := r.db.Where("code = ?", place.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&place).Error; err != nil {
				return err
			}
		}
	}

	for _, label := range model.DefaultStatusLabels {
		var existing model.StatusTransaksi
		err := r.db.Where("code = ?", label.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := r.db.Create(&label).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
