package model

import (
	"time"

	"github.com/google/uuid"
)

type TransaksiJenis string

const (
	TransaksiDaily   TransaksiJenis = "daily"   // penjualan retail langsung, stok toko dipotong saat create
	TransaksiPesanan TransaksiJenis = "pesanan" // order custom, dipenuhi lewat production
)

// Transaksi adalah header order. Total = jumlah subtotal line-nya,
// denormalisasi yang dihitung ulang saat create.
type Transaksi struct {
	BaseModel
	CustomerID *uuid.UUID     `gorm:"type:uuid;index" json:"customer_id"` // nil = walk-in
	Jenis      TransaksiJenis `gorm:"type:varchar(10);not null" json:"jenis" validate:"required,oneof=daily pesanan"`
	Total      int64          `gorm:"not null;default:0" json:"total"`

	Customer *Customer         `json:"customer,omitempty" validate:"-"`
	Details  []TransaksiDetail `gorm:"constraint:OnDelete:CASCADE" json:"details,omitempty" validate:"-"`
}

// TransaksiDetail adalah satu line order. Harga adalah snapshot unit price
// saat create, bukan referensi hidup; Subtotal = Harga*Qty - Diskon dan
// tidak pernah dihitung ulang.
type TransaksiDetail struct {
	BaseModel
	TransaksiID    uuid.UUID `gorm:"type:uuid;not null;index" json:"transaksi_id"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	HargaProductID uuid.UUID `gorm:"type:uuid;not null" json:"harga_product_id"`
	StatusID       uuid.UUID `gorm:"type:uuid;not null" json:"status_id"`
	Qty            int       `gorm:"not null" json:"qty"`
	Harga          int64     `gorm:"not null" json:"harga"`
	Diskon         int64     `gorm:"not null;default:0" json:"diskon"`
	Subtotal       int64     `gorm:"not null" json:"subtotal"`
	Tanggal        time.Time `gorm:"type:date;not null" json:"tanggal"`
	Note           string    `json:"note"`

	Product      *Product         `json:"product,omitempty"`
	HargaProduct *HargaProduct    `json:"harga_product,omitempty"`
	Status       *StatusTransaksi `json:"status,omitempty"`
	Pembayaran   []Pembayaran     `gorm:"constraint:OnDelete:CASCADE" json:"pembayaran,omitempty"`
}
