package repository

import (
	"go-sealindo/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByKode(kode string) (*model.Product, error)
	FindOrCreateKind(tx *gorm.DB, name string) (*model.ProductKind, error)
	FindOrCreateType(tx *gorm.DB, name string) (*model.ProductType, error)
	FindOrCreateMaterial(tx *gorm.DB, name string) (*model.Material, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Kind").Preload("Type").Preload("Material").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Kind").Preload("Type").Preload("Material").
		Preload("Customer").Preload("Distributor").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindByKode(kode string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "kode = ?", kode).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Lookup by-name dengan auto-create, dipakai order engine saat payload
// membawa klasifikasi baru. Menerima tx agar ikut rollback order.

func (r *productRepo) FindOrCreateKind(tx *gorm.DB, name string) (*model.ProductKind, error) {
	var kind model.ProductKind
	err := tx.Where("name = ?", name).First(&kind).Error
	if err == gorm.ErrRecordNotFound {
		kind = model.ProductKind{Name: name}
		err = tx.Create(&kind).Error
	}
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

func (r *productRepo) FindOrCreateType(tx *gorm.DB, name string) (*model.ProductType, error) {
	var typ model.ProductType
	err := tx.Where("name = ?", name).First(&typ).Error
	if err == gorm.ErrRecordNotFound {
		typ = model.ProductType{Name: name}
		err = tx.Create(&typ).Error
	}
	if err != nil {
		return nil, err
	}
	return &typ, nil
}

func (r *productRepo) FindOrCreateMaterial(tx *gorm.DB, name string) (*model.Material, error) {
	var material model.Material
	err := tx.Where("name = ?", name).First(&material).Error
	if err == gorm.ErrRecordNotFound {
		material = model.Material{Name: name}
		err = tx.Create(&material).Error
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}
