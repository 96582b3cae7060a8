package model

// StatusCode adalah enum tertutup untuk status order line yang dipakai
// business logic. Tabel StatusTransaksi boleh di-rename/di-renumber oleh
// admin tanpa mengubah perilaku: logic hanya melihat Code.
type StatusCode string

const (
	StatusProses     StatusCode = "proses"
	StatusDipesan    StatusCode = "dipesan"
	StatusDibuat     StatusCode = "dibuat"
	StatusSiap       StatusCode = "siap"
	StatusSelesai    StatusCode = "selesai"
	StatusDibatalkan StatusCode = "dibatalkan"
)

// StatusTransaksi adalah label status yang tampil ke user.
type StatusTransaksi struct {
	BaseModel
	Code StatusCode `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Nama string     `gorm:"type:varchar(50);not null" json:"nama"`
}

// DefaultStatusLabels di-seed saat boot.
var DefaultStatusLabels = []StatusTransaksi{
	{Code: StatusProses, Nama: "Proses"},
	{Code: StatusDipesan, Nama: "Di pesan"},
	{Code: StatusDibuat, Nama: "Di buat"},
	{Code: StatusSiap, Nama: "Siap"},
	{Code: StatusSelesai, Nama: "Selesai"},
	{Code: StatusDibatalkan, Nama: "Dibatalkan"},
}
