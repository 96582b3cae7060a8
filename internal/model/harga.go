package model

import (
	"time"

	"github.com/google/uuid"
)

// HargaProduct adalah price list bertanggal per produk. CustomerID nil
// berarti harga umum; non-nil berarti harga khusus pelanggan tersebut.
// "Harga berlaku" = record dengan tanggal berlaku terbaru pada scope yang
// diminta (customer-specific menang atas umum), tie-break record yang
// dibuat paling akhir.
type HargaProduct struct {
	BaseModel
	ProductID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	CustomerID     *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	Harga          int64      `gorm:"not null" json:"harga" validate:"gte=0"`
	TanggalBerlaku time.Time  `gorm:"type:date;not null" json:"tanggal_berlaku"`
	Note           string     `json:"note"`

	Product  *Product  `json:"product,omitempty" validate:"-"`
	Customer *Customer `json:"customer,omitempty" validate:"-"`
}
