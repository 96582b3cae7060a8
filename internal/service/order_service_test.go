package service_test

import (
	"testing"
	"time"

	"go-sealindo/internal/apperr"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newOrderService(db *gorm.DB) service.OrderService {
	return service.NewOrderService(
		repository.NewProductRepo(db),
		repository.NewHargaRepo(db),
		repository.NewTransaksiRepo(db),
		repository.NewLookupRepo(db),
		newStockService(db),
		db, nil,
	)
}

func seedHarga(t *testing.T, db *gorm.DB, productID uuid.UUID, customerID *uuid.UUID, harga int64, berlaku time.Time) *model.HargaProduct {
	t.Helper()
	record := model.HargaProduct{
		ProductID:      productID,
		CustomerID:     customerID,
		Harga:          harga,
		TanggalBerlaku: berlaku,
	}
	assert.NoError(t, db.Create(&record).Error)
	return &record
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateDailyOrderDebitsStorefrontStock(t *testing.T) {
	db := setupTestDB(t, "order_daily")
	svc := newOrderService(db)

	product := seedProduct(t, db, "OS-100")
	toko := placeByCode(t, db, model.PlaceToko)
	entry := seedInventory(t, db, product.ID, toko.ID, 10)
	seedHarga(t, db, product.ID, nil, 5000, day("2025-01-01"))

	created, err := svc.Create(&service.CreateOrderRequest{
		Jenis: model.TransaksiDaily,
		Lines: []service.OrderLineRequest{{
			ProductID: &product.ID,
			Qty:       3,
			Diskon:    500,
			Tanggal:   day("2025-02-01"),
			Status:    model.StatusSelesai,
		}},
	}, "tester")
	assert.NoError(t, err)
	assert.Len(t, created.Details, 1)
	assert.Equal(t, int64(5000), created.Details[0].Harga)
	assert.Equal(t, int64(5000*3-500), created.Details[0].Subtotal)
	assert.Equal(t, created.Details[0].Subtotal, created.Total)

	var after model.Inventory
	assert.NoError(t, db.First(&after, "id = ?", entry.ID).Error)
	assert.Equal(t, 7, after.Qty)

	// Movement out merujuk balik ke line yang menyebabkannya.
	var movement model.StockMovement
	assert.NoError(t, db.Where("inventory_id = ?", entry.ID).First(&movement).Error)
	assert.Equal(t, model.MovementOut, movement.Type)
	assert.Equal(t, model.RefTransaksiDetail, *movement.RefType)
	assert.Equal(t, created.Details[0].ID, *movement.RefID)
}

func TestCreateDailyOrderCollectsAllInsufficientLines(t *testing.T) {
	db := setupTestDB(t, "order_preflight")
	svc := newOrderService(db)

	product := seedProduct(t, db, "OS-101")
	toko := placeByCode(t, db, model.PlaceToko)
	seedInventory(t, db, product.ID, toko.ID, 5)
	seedHarga(t, db, product.ID, nil, 1000, day("2025-01-01"))

	// Line kedua melampaui stok secara kumulatif, line ketiga produk baru
	// yang jelas belum punya stok. Keduanya harus terlapor sekaligus.
	_, err := svc.Create(&service.CreateOrderRequest{
		Jenis: model.TransaksiDaily,
		Lines: []service.OrderLineRequest{
			{ProductID: &product.ID, Qty: 3, Tanggal: day("2025-02-01"), Status: model.StatusSelesai},
			{ProductID: &product.ID, Qty: 4, Tanggal: day("2025-02-01"), Status: model.StatusSelesai},
			{NewProduct: &service.NewProductRequest{Kode: "OS-NEW", KindName: "Oil Seal"}, Qty: 1, Tanggal: day("2025-02-01"), Status: model.StatusSelesai},
		},
	}, "tester")
	assert.Equal(t, apperr.CodeInsufficientStock, apperr.CodeOf(err))

	var appErr *apperr.Error
	assert.ErrorAs(t, err, &appErr)
	assert.Len(t, appErr.Fields, 2)

	// Tidak ada yang tersisa di database.
	var headers int64
	db.Model(&model.Transaksi{}).Count(&headers)
	assert.Equal(t, int64(0), headers)
	var entry model.Inventory
	assert.NoError(t, db.First(&entry, "product_id = ?", product.ID).Error)
	assert.Equal(t, 5, entry.Qty)
}

func TestCreatePesananOrderLeavesStockUntouched(t *testing.T) {
	db := setupTestDB(t, "order_pesanan")
	svc := newOrderService(db)

	product := seedProduct(t, db, "OS-102")
	seedHarga(t, db, product.ID, nil, 2000, day("2025-01-01"))

	created, err := svc.Create(&service.CreateOrderRequest{
		NewCustomer: &service.NewCustomerRequest{Name: "PT Maju"},
		Jenis:       model.TransaksiPesanan,
		Lines: []service.OrderLineRequest{{
			ProductID: &product.ID,
			Qty:       20,
			Tanggal:   day("2025-02-01"),
			Status:    model.StatusDipesan,
		}},
	}, "tester")
	assert.NoError(t, err)
	assert.NotNil(t, created.CustomerID)

	var movements int64
	db.Model(&model.StockMovement{}).Count(&movements)
	assert.Equal(t, int64(0), movements)
}

func TestPriceResolutionPrefersCustomerScopeAndLatestDate(t *testing.T) {
	db := setupTestDB(t, "order_pricing")
	svc := newOrderService(db)

	product := seedProduct(t, db, "OS-103")
	customer := model.Customer{Name: "CV Sentosa"}
	assert.NoError(t, db.Create(&customer).Error)

	seedHarga(t, db, product.ID, nil, 1000, day("2025-01-01"))
	seedHarga(t, db, product.ID, nil, 1500, day("2025-03-01")) // general terbaru
	seedHarga(t, db, product.ID, &customer.ID, 1200, day("2025-02-01"))

	created, err := svc.Create(&service.CreateOrderRequest{
		CustomerID: &customer.ID,
		Jenis:      model.TransaksiPesanan,
		Lines: []service.OrderLineRequest{{
			ProductID: &product.ID,
			Qty:       1,
			Tanggal:   day("2025-04-01"),
			Status:    model.StatusDipesan,
		}},
	}, "tester")
	assert.NoError(t, err)
	// Harga scoped customer menang walau general punya tanggal lebih baru.
	assert.Equal(t, int64(1200), created.Details[0].Harga)

	// Tanpa customer, harga general terbaru yang dipakai.
	walkIn, err := svc.Create(&service.CreateOrderRequest{
		Jenis: model.TransaksiPesanan,
		Lines: []service.OrderLineRequest{{
			ProductID: &product.ID,
			Qty:       1,
			Tanggal:   day("2025-04-01"),
			Status:    model.StatusDipesan,
		}},
	}, "tester")
	assert.NoError(t, err)
	assert.Equal(t, int64(1500), walkIn.Details[0].Harga)
}

func TestMissingPriceSynthesizesFlaggedZeroRecord(t *testing.T) {
	db := setupTestDB(t, "order_zero_price")
	svc := newOrderService(db)

	product := seedProduct(t, db, "OS-104")

	created, err := svc.Create(&service.CreateOrderRequest{
		Jenis: model.TransaksiPesanan,
		Lines: []service.OrderLineRequest{{
			ProductID: &product.ID,
			Qty:       2,
			Tanggal:   day("2025-02-01"),
			Status:    model.StatusDipesan,
		}},
	}, "tester")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), created.Details[0].Harga)
	assert.Contains(t, created.Details[0].Note, "harga belum diatur")

	var harga model.HargaProduct
	assert.NoError(t, db.First(&harga, "id = ?", created.Details[0].HargaProductID).Error)
	assert.Equal(t, int64(0), harga.Harga)
	assert.NotEmpty(t, harga.Note)
}

func TestDiscountExceedingLineAmountRollsBackEverything(t *testing.T) {
	db := setupTestDB(t, "order_atomicity")
	svc := newOrderService(db)

	product := seedProduct(t, db, "OS-105")
	toko := placeByCode(t, db, model.PlaceToko)
	seedInventory(t, db, product.ID, toko.ID, 10)
	seedHarga(t, db, product.ID, nil, 1000, day("2025-01-01"))

	_, err := svc.Create(&service.CreateOrderRequest{
		Jenis: model.TransaksiDaily,
		Lines: []service.OrderLineRequest{
			{ProductID: &product.ID, Qty: 2, Tanggal: day("2025-02-01"), Status: model.StatusSelesai},
			{ProductID: &product.ID, Qty: 1, Diskon: 99999, Tanggal: day("2025-02-01"), Status: model.StatusSelesai},
		},
	}, "tester")
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	// Line pertama yang sempat diproses ikut ter-rollback, stok utuh.
	var headers, details, movements int64
	db.Model(&model.Transaksi{}).Count(&headers)
	db.Model(&model.TransaksiDetail{}).Count(&details)
	db.Model(&model.StockMovement{}).Count(&movements)
	assert.Equal(t, int64(0), headers)
	assert.Equal(t, int64(0), details)
	assert.Equal(t, int64(0), movements)

	var entry model.Inventory
	assert.NoError(t, db.First(&entry, "product_id = ?", product.ID).Error)
	assert.Equal(t, 10, entry.Qty)
}

func TestInlineProductCreationReusesLookupNames(t *testing.T) {
	db := setupTestDB(t, "order_inline_product")
	svc := newOrderService(db)

	created, err := svc.Create(&service.CreateOrderRequest{
		NewCustomer: &service.NewCustomerRequest{Name: "Bapak Joko"},
		Jenis:       model.TransaksiPesanan,
		Lines: []service.OrderLineRequest{
			{
				NewProduct: &service.NewProductRequest{Kode: "OS-201", KindName: "Oil Seal", MaterialName: "NBR"},
				HargaBaru:  int64Ptr(7500),
				Qty:        1,
				Tanggal:    day("2025-02-01"),
				Status:     model.StatusDipesan,
			},
			{
				NewProduct: &service.NewProductRequest{Kode: "OS-202", KindName: "Oil Seal", MaterialName: "NBR"},
				HargaBaru:  int64Ptr(8000),
				Qty:        1,
				Tanggal:    day("2025-02-01"),
				Status:     model.StatusDipesan,
			},
		},
	}, "tester")
	assert.NoError(t, err)
	assert.Len(t, created.Details, 2)
	assert.Equal(t, int64(7500+8000), created.Total)

	// Nama lookup yang sama tidak boleh menghasilkan baris ganda.
	var kinds, materials int64
	db.Model(&model.ProductKind{}).Where("name = ?", "Oil Seal").Count(&kinds)
	db.Model(&model.Material{}).Where("name = ?", "NBR").Count(&materials)
	assert.Equal(t, int64(1), kinds)
	assert.Equal(t, int64(1), materials)

	// Produk bespoke dimiliki customer pemesan.
	var product model.Product
	assert.NoError(t, db.First(&product, "kode = ?", "OS-201").Error)
	assert.NotNil(t, product.CustomerID)
	assert.Equal(t, *created.CustomerID, *product.CustomerID)
}

func int64Ptr(v int64) *int64 { return &v }
