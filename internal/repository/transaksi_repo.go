package repository

import (
	"go-sealindo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransaksiRepository interface {
	FindAll() ([]model.Transaksi, error)
	FindByID(id uuid.UUID) (*model.Transaksi, error)
	FindDetailByID(id uuid.UUID) (*model.TransaksiDetail, error)
	FindDetailForUpdate(tx *gorm.DB, id uuid.UUID) (*model.TransaksiDetail, error)
	ListPayments(detailID uuid.UUID) ([]model.Pembayaran, error)
	SumPayments(tx *gorm.DB, detailID uuid.UUID) (int64, error)
}

type transaksiRepo struct {
	db *gorm.DB
}

func NewTransaksiRepo(db *gorm.DB) TransaksiRepository {
	return &transaksiRepo{db}
}

func (r *transaksiRepo) FindAll() ([]model.Transaksi, error) {
	var transaksi []model.Transaksi
	err := r.db.Preload("Customer").
		Preload("Details").Preload("Details.Product").Preload("Details.Status").
		Order("created_at DESC").
		Find(&transaksi).Error
	return transaksi, err
}

func (r *transaksiRepo) FindByID(id uuid.UUID) (*model.Transaksi, error) {
	var transaksi model.Transaksi
	err := r.db.Preload("Customer").
		Preload("Details").Preload("Details.Product").Preload("Details.Status").
		Preload("Details.HargaProduct").Preload("Details.Pembayaran").
		First(&transaksi, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaksi, nil
}

func (r *transaksiRepo) FindDetailByID(id uuid.UUID) (*model.TransaksiDetail, error) {
	var detail model.TransaksiDetail
	err := r.db.Preload("Product").Preload("Status").Preload("Pembayaran").
		First(&detail, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindDetailForUpdate mengunci satu order line untuk serialisasi
// pembayaran konkuren terhadap line yang sama.
func (r *transaksiRepo) FindDetailForUpdate(tx *gorm.DB, id uuid.UUID) (*model.TransaksiDetail, error) {
	var detail model.TransaksiDetail
	err := lockForUpdate(tx).First(&detail, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *transaksiRepo) ListPayments(detailID uuid.UUID) ([]model.Pembayaran, error) {
	var payments []model.Pembayaran
	err := r.db.Where("transaksi_detail_id = ?", detailID).
		Order("tanggal ASC").Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *transaksiRepo) SumPayments(tx *gorm.DB, detailID uuid.UUID) (int64, error) {
	var total int64
	err := tx.Model(&model.Pembayaran{}).
		Where("transaksi_detail_id = ?", detailID).
		Select("COALESCE(SUM(jumlah), 0)").
		Scan(&total).Error
	return total, err
}
