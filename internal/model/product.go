package model

import "github.com/google/uuid"

// Lookup klasifikasi produk. Dibuat otomatis by-name saat order masuk
// dengan klasifikasi baru.
type ProductKind struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
}

type ProductType struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
}

type Material struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name" validate:"required"`
}

type Product struct {
	BaseModel
	Kode       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"kode" validate:"required"`
	KindID     uuid.UUID  `gorm:"type:uuid;not null" json:"kind_id" validate:"uuid_required"`
	TypeID     *uuid.UUID `gorm:"type:uuid" json:"type_id"`
	MaterialID *uuid.UUID `gorm:"type:uuid" json:"material_id"`
	Size       string     `gorm:"type:varchar(100)" json:"size"`
	Notes      string     `json:"notes"`

	// Pemilik: customer untuk barang custom, distributor untuk barang beli.
	CustomerID    *uuid.UUID `gorm:"type:uuid" json:"customer_id"`
	DistributorID *uuid.UUID `gorm:"type:uuid" json:"distributor_id"`

	// Tiga foto referensi. Job pesanan tidak boleh selesai sebelum ketiganya terisi.
	FotoAtas    *string `gorm:"type:varchar(255)" json:"foto_atas"`
	FotoSamping *string `gorm:"type:varchar(255)" json:"foto_samping"`
	FotoDepan   *string `gorm:"type:varchar(255)" json:"foto_depan"`

	Kind        ProductKind  `json:"kind" validate:"-"`
	Type        *ProductType `json:"type,omitempty" validate:"-"`
	Material    *Material    `json:"material,omitempty" validate:"-"`
	Customer    *Customer    `json:"customer,omitempty" validate:"-"`
	Distributor *Distributor `json:"distributor,omitempty" validate:"-"`

	Harga []HargaProduct `gorm:"constraint:OnDelete:CASCADE" json:"harga,omitempty" validate:"-"`
}

// HasAllPhotos melaporkan apakah ketiga foto referensi sudah terisi.
func (p *Product) HasAllPhotos() bool {
	return p.FotoAtas != nil && *p.FotoAtas != "" &&
		p.FotoSamping != nil && *p.FotoSamping != "" &&
		p.FotoDepan != nil && *p.FotoDepan != ""
}
