package model

// Customer adalah pelanggan (bisa nil untuk penjualan walk-in).
type Customer struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Address string `json:"address"`
}

// Distributor memasok produk jadi yang dijual ulang.
type Distributor struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone   string `gorm:"type:varchar(20)" json:"phone"`
	Address string `json:"address"`
}

// Employee dirujuk oleh production job. Master data-nya dikelola di luar
// modul ini.
type Employee struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name"`
}
