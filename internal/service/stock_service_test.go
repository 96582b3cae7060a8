package service_test

import (
	"fmt"
	"testing"

	"go-sealindo/internal/apperr"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB membuka database in-memory terpisah per test (DSN unik),
// migrate semua model, dan seed dua lokasi default.
func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&model.Place{},
		&model.Customer{},
		&model.Distributor{},
		&model.Employee{},
		&model.ProductKind{},
		&model.ProductType{},
		&model.Material{},
		&model.Product{},
		&model.HargaProduct{},
		&model.Inventory{},
		&model.StockMovement{},
		&model.StatusTransaksi{},
		&model.Transaksi{},
		&model.TransaksiDetail{},
		&model.Pembayaran{},
		&model.Production{},
		&model.StokOpname{},
		&model.StokOpnameDetail{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := repository.NewLookupRepo(db).SeedDefaults(); err != nil {
		t.Fatalf("failed to seed defaults: %v", err)
	}
	return db
}

// seedProduct membuat satu produk dengan kind seadanya.
func seedProduct(t *testing.T, db *gorm.DB, kode string) *model.Product {
	t.Helper()
	kind := model.ProductKind{Name: "Oil Seal " + kode}
	assert.NoError(t, db.Create(&kind).Error)
	product := model.Product{Kode: kode, KindID: kind.ID}
	assert.NoError(t, db.Create(&product).Error)
	return &product
}

func placeByCode(t *testing.T, db *gorm.DB, code string) *model.Place {
	t.Helper()
	var place model.Place
	assert.NoError(t, db.Where("code = ?", code).First(&place).Error)
	return &place
}

// seedInventory membuat ledger entry dengan qty awal tertentu.
func seedInventory(t *testing.T, db *gorm.DB, productID, placeID uuid.UUID, qty int) *model.Inventory {
	t.Helper()
	entry := model.Inventory{ProductID: productID, PlaceID: placeID, Qty: qty}
	assert.NoError(t, db.Create(&entry).Error)
	return &entry
}

func newStockService(db *gorm.DB) service.StockService {
	return service.NewStockService(
		repository.NewStockRepo(db),
		repository.NewLookupRepo(db),
		db, nil,
	)
}

func TestTransferMovesQtyBetweenPlaces(t *testing.T) {
	db := setupTestDB(t, "stock_transfer")
	svc := newStockService(db)

	product := seedProduct(t, db, "OS-001")
	bengkel := placeByCode(t, db, model.PlaceBengkel)
	toko := placeByCode(t, db, model.PlaceToko)
	src := seedInventory(t, db, product.ID, bengkel.ID, 10)

	err := svc.Transfer(&service.TransferRequest{
		ProductID: product.ID,
		FromPlace: model.PlaceBengkel,
		ToPlace:   model.PlaceToko,
		Qty:       4,
	}, "tester")
	assert.NoError(t, err)

	var after model.Inventory
	assert.NoError(t, db.First(&after, "id = ?", src.ID).Error)
	assert.Equal(t, 6, after.Qty)

	var dst model.Inventory
	assert.NoError(t, db.First(&dst, "product_id = ? AND place_id = ?", product.ID, toko.ID).Error)
	assert.Equal(t, 4, dst.Qty)

	// Transfer tercatat sebagai pasangan out+in yang berbagi transfer_id.
	var movements []model.StockMovement
	assert.NoError(t, db.Where("transfer_id IS NOT NULL").Order("created_at").Find(&movements).Error)
	assert.Len(t, movements, 2)
	assert.Equal(t, model.MovementOut, movements[0].Type)
	assert.Equal(t, model.MovementIn, movements[1].Type)
	assert.Equal(t, *movements[0].TransferID, *movements[1].TransferID)
	assert.Equal(t, 4, movements[0].Qty)
	assert.Equal(t, 4, movements[1].Qty)
}

func TestTransferInsufficientStockLeavesLedgerUntouched(t *testing.T) {
	db := setupTestDB(t, "stock_transfer_insufficient")
	svc := newStockService(db)

	product := seedProduct(t, db, "OS-002")
	bengkel := placeByCode(t, db, model.PlaceBengkel)
	src := seedInventory(t, db, product.ID, bengkel.ID, 3)

	err := svc.Transfer(&service.TransferRequest{
		ProductID: product.ID,
		FromPlace: model.PlaceBengkel,
		ToPlace:   model.PlaceToko,
		Qty:       5,
	}, "tester")
	assert.Equal(t, apperr.CodeInsufficientStock, apperr.CodeOf(err))

	var after model.Inventory
	assert.NoError(t, db.First(&after, "id = ?", src.ID).Error)
	assert.Equal(t, 3, after.Qty)

	var count int64
	db.Model(&model.StockMovement{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestTransferSamePlaceRejected(t *testing.T) {
	db := setupTestDB(t, "stock_transfer_same_place")
	svc := newStockService(db)
	product := seedProduct(t, db, "OS-003")

	err := svc.Transfer(&service.TransferRequest{
		ProductID: product.ID,
		FromPlace: model.PlaceToko,
		ToPlace:   model.PlaceToko,
		Qty:       1,
	}, "tester")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestMovementsAgreeWithLedgerQty(t *testing.T) {
	db := setupTestDB(t, "stock_ledger_agreement")
	svc := newStockService(db)

	product := seedProduct(t, db, "OS-004")
	bengkel := placeByCode(t, db, model.PlaceBengkel)

	// Serangkaian kredit/debit lewat jalur tx-scoped.
	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := svc.CreditTx(tx, product.ID, bengkel.ID, 8, model.MovementIn, nil, nil, "restock", "tester"); err != nil {
			return err
		}
		if _, err := svc.DebitTx(tx, product.ID, bengkel.ID, 3, nil, nil, "keluar", "tester"); err != nil {
			return err
		}
		_, err := svc.CreditTx(tx, product.ID, bengkel.ID, 2, model.MovementProduksi, nil, nil, "hasil produksi", "tester")
		return err
	})
	assert.NoError(t, err)

	var entry model.Inventory
	assert.NoError(t, db.First(&entry, "product_id = ? AND place_id = ?", product.ID, bengkel.ID).Error)
	assert.Equal(t, 7, entry.Qty)

	var movements []model.StockMovement
	assert.NoError(t, db.Where("inventory_id = ?", entry.ID).Find(&movements).Error)
	sum := 0
	for _, m := range movements {
		assert.Greater(t, m.Qty, 0)
		sum += m.Signed()
	}
	assert.Equal(t, entry.Qty, sum)
}

func TestDebitTxNeverGoesNegative(t *testing.T) {
	db := setupTestDB(t, "stock_no_negative")
	svc := newStockService(db)

	product := seedProduct(t, db, "OS-005")
	toko := placeByCode(t, db, model.PlaceToko)
	seedInventory(t, db, product.ID, toko.ID, 2)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.DebitTx(tx, product.ID, toko.ID, 3, nil, nil, "", "tester")
		return err
	})
	assert.Equal(t, apperr.CodeInsufficientStock, apperr.CodeOf(err))

	// Debit terhadap produk yang belum punya ledger entry juga gagal.
	other := seedProduct(t, db, "OS-006")
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.DebitTx(tx, other.ID, toko.ID, 1, nil, nil, "", "tester")
		return err
	})
	assert.Equal(t, apperr.CodeInsufficientStock, apperr.CodeOf(err))
}
