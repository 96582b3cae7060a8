package model

import (
	"time"

	"github.com/google/uuid"
)

type ProductionJenis string

const (
	ProduksiPesanan   ProductionJenis = "pesanan"   // memenuhi satu order line
	ProduksiInventory ProductionJenis = "inventory" // restock gudang
)

type ProductionStatus string

const (
	ProduksiAntri   ProductionStatus = "antri"
	ProduksiJalan   ProductionStatus = "produksi"
	ProduksiSelesai ProductionStatus = "selesai"
	ProduksiBatal   ProductionStatus = "batal"
)

// Production adalah job produksi. Transisi status menggerakkan stok:
// selesai mengkredit qty ke BENGKEL (movement produksi); job pesanan
// langsung mendebit lagi untuk memenuhi order line-nya (movement out).
type Production struct {
	BaseModel
	ProductID         uuid.UUID        `gorm:"type:uuid;not null" json:"product_id" validate:"uuid_required"`
	EmployeeID        *uuid.UUID       `gorm:"type:uuid" json:"employee_id"`
	TransaksiDetailID *uuid.UUID       `gorm:"type:uuid" json:"transaksi_detail_id"`
	JenisPembuatan    ProductionJenis  `gorm:"type:varchar(10);not null" json:"jenis_pembuatan" validate:"required,oneof=pesanan inventory"`
	Qty               int              `gorm:"not null" json:"qty" validate:"required,gt=0"`
	Status            ProductionStatus `gorm:"type:varchar(10);not null;default:'antri'" json:"status"`
	StartedAt         *time.Time       `json:"started_at"`
	FinishedAt        *time.Time       `json:"finished_at"`

	Product         *Product         `json:"product,omitempty" validate:"-"`
	Employee        *Employee        `json:"employee,omitempty" validate:"-"`
	TransaksiDetail *TransaksiDetail `json:"transaksi_detail,omitempty" validate:"-"`
}
