package model

// Place adalah lokasi penyimpanan stok. Dua lokasi di-seed saat boot:
// BENGKEL (workshop) dan TOKO (storefront).
type Place struct {
	BaseModel
	Code string `gorm:"type:varchar(20);uniqueIndex;not null" json:"code" validate:"required"`
	Name string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
}

const (
	PlaceBengkel = "BENGKEL"
	PlaceToko    = "TOKO"
)
