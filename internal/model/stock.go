package model

import "github.com/google/uuid"

// Inventory adalah ledger entry: qty on-hand satu produk di satu lokasi.
// Unik per (product, place). Qty tidak boleh negatif; semua mutasi lewat
// StockService di dalam transaksi dengan row lock.
type Inventory struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_place" json:"product_id" validate:"uuid_required"`
	PlaceID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_place" json:"place_id" validate:"uuid_required"`
	Qty       int       `gorm:"not null;default:0" json:"qty"`

	Product *Product `json:"product,omitempty" validate:"-"`
	Place   *Place   `json:"place,omitempty" validate:"-"`
}

type MovementType string

const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
	// Transfer antar lokasi disimpan sebagai pasangan out+in yang berbagi
	// TransferID, bukan satu baris bertipe transfer, supaya saldo ledger
	// tetap jumlah bertanda sederhana.
	MovementTransfer MovementType = "transfer"
	MovementProduksi MovementType = "produksi"
)

// MovementRef menandai record penyebab sebuah movement.
type MovementRef string

const (
	RefTransaksiDetail MovementRef = "transaksi_detail"
	RefProduction      MovementRef = "production"
	RefStokOpname      MovementRef = "stok_opname"
)

// StockMovement adalah fakta append-only: satu perubahan qty pada satu
// ledger entry. Tidak pernah di-update atau dihapus.
type StockMovement struct {
	BaseModel
	InventoryID uuid.UUID    `gorm:"type:uuid;not null;index" json:"inventory_id"`
	Type        MovementType `gorm:"type:varchar(20);not null" json:"type"`
	Qty         int          `gorm:"not null" json:"qty"` // selalu positif; arah dari Type

	// Referensi penyebab (tagged union: ref_type + ref_id).
	RefType *MovementRef `gorm:"type:varchar(30)" json:"ref_type,omitempty"`
	RefID   *uuid.UUID   `gorm:"type:uuid" json:"ref_id,omitempty"`

	// Pasangan out+in pada transfer berbagi satu TransferID.
	TransferID *uuid.UUID `gorm:"type:uuid;index" json:"transfer_id,omitempty"`

	Note string `json:"note"`

	Inventory *Inventory `json:"inventory,omitempty"`
}

// Signed mengembalikan delta bertanda movement ini terhadap ledger entry-nya.
func (m *StockMovement) Signed() int {
	if m.Type == MovementOut {
		return -m.Qty
	}
	return m.Qty
}
