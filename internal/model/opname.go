package model

import (
	"time"

	"github.com/google/uuid"
)

type OpnameStatus string

const (
	OpnameDraft      OpnameStatus = "draft"
	OpnameSelesai    OpnameStatus = "selesai"
	OpnameDibatalkan OpnameStatus = "dibatalkan"
)

// StokOpname adalah header satu sesi stock reconciliation: snapshot qty
// sistem per ledger entry terpilih, diisi hitungan fisik oleh operator,
// lalu di-finalize menjadi movement koreksi.
type StokOpname struct {
	BaseModel
	Operator string       `gorm:"type:varchar(255);not null" json:"operator"`
	Tanggal  time.Time    `gorm:"type:date;not null" json:"tanggal"`
	Note     string       `json:"note"`
	Status   OpnameStatus `gorm:"type:varchar(15);not null;default:'draft'" json:"status"`

	Details []StokOpnameDetail `gorm:"constraint:OnDelete:CASCADE" json:"details,omitempty"`
}

// StokOpnameDetail memotret satu ledger entry. PhysicalQty nil sampai
// operator mengisinya; Difference = PhysicalQty - SystemQty.
type StokOpnameDetail struct {
	BaseModel
	StokOpnameID uuid.UUID `gorm:"type:uuid;not null;index" json:"stok_opname_id"`
	InventoryID  uuid.UUID `gorm:"type:uuid;not null" json:"inventory_id"`
	SystemQty    int       `gorm:"not null" json:"system_qty"`
	PhysicalQty  *int      `json:"physical_qty"`
	Difference   *int      `json:"difference"`
	Note         string    `json:"note"`

	Inventory *Inventory `json:"inventory,omitempty"`
}
