package model

import (
	"time"

	"github.com/google/uuid"
)

// Pembayaran adalah cicilan terhadap satu order line. Jumlah kumulatif
// tidak boleh melebihi subtotal line, dan tanggal harus non-decreasing
// serta tidak mendahului tanggal transaksi line-nya.
type Pembayaran struct {
	BaseModel
	TransaksiDetailID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaksi_detail_id"`
	Jumlah            int64     `gorm:"not null" json:"jumlah"`
	Tanggal           time.Time `gorm:"type:date;not null" json:"tanggal"`

	TransaksiDetail *TransaksiDetail `json:"transaksi_detail,omitempty"`
}
