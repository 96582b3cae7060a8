package repository

import (
	"go-sealindo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HargaRepository interface {
	Create(tx *gorm.DB, harga *model.HargaProduct) error
	FindByID(id uuid.UUID) (*model.HargaProduct, error)
	FindCurrent(tx *gorm.DB, productID uuid.UUID, customerID *uuid.UUID) (*model.HargaProduct, error)
}

type hargaRepo struct {
	db *gorm.DB
}

func NewHargaRepo(db *gorm.DB) HargaRepository {
	return &hargaRepo{db}
}

func (r *hargaRepo) Create(tx *gorm.DB, harga *model.HargaProduct) error {
	return tx.Create(harga).Error
}

func (r *hargaRepo) FindByID(id uuid.UUID) (*model.HargaProduct, error) {
	var harga model.HargaProduct
	err := r.db.First(&harga, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &harga, nil
}

// FindCurrent mencari harga berlaku: record khusus customer (bila
// customerID non-nil) menang atas harga umum; dalam satu scope dipilih
// tanggal berlaku terbaru, tie-break record yang dibuat paling akhir.
// ErrRecordNotFound bila produk belum punya harga sama sekali.
func (r *hargaRepo) FindCurrent(tx *gorm.DB, productID uuid.UUID, customerID *uuid.UUID) (*model.HargaProduct, error) {
	var harga model.HargaProduct

	if customerID != nil {
		err := tx.Where("product_id = ? AND customer_id = ?", productID, *customerID).
			Order("tanggal_berlaku DESC").Order("created_at DESC").
			First(&harga).Error
		if err == nil {
			return &harga, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
	}

	err := tx.Where("product_id = ? AND customer_id IS NULL", productID).
		Order("tanggal_berlaku DESC").Order("created_at DESC").
		First(&harga).Error
	if err != nil {
		return nil, err
	}
	return &harga, nil
}
