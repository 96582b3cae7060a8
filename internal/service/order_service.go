package service

import (
	"fmt"
	"time"

	"go-sealindo/internal/apperr"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/internal/ws"
	"go-sealindo/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderService membuat order daily (penjualan retail langsung) dan pesanan
// (order custom). Daily memotong stok TOKO dalam transaksi yang sama dengan
// insert line-nya; pesanan tidak menyentuh stok sampai production selesai.
type OrderService interface {
	Create(req *CreateOrderRequest, actorID string) (*model.Transaksi, error)
	GetAll() ([]model.Transaksi, error)
	GetByID(id uuid.UUID) (*model.Transaksi, error)
	GetDetailByID(id uuid.UUID) (*model.TransaksiDetail, error)
}

type NewCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// NewProductRequest membuat produk inline. Klasifikasi boleh berupa id atau
// nama; nama yang belum ada di lookup dibuat otomatis.
type NewProductRequest struct {
	Kode         string     `json:"kode" validate:"required"`
	KindID       *uuid.UUID `json:"kind_id"`
	KindName     string     `json:"kind_name"`
	TypeID       *uuid.UUID `json:"type_id"`
	TypeName     string     `json:"type_name"`
	MaterialID   *uuid.UUID `json:"material_id"`
	MaterialName string     `json:"material_name"`
	Size         string     `json:"size"`
	Notes        string     `json:"notes"`
}

type OrderLineRequest struct {
	ProductID      *uuid.UUID         `json:"product_id"`
	NewProduct     *NewProductRequest `json:"new_product"`
	HargaProductID *uuid.UUID         `json:"harga_product_id"`
	HargaBaru      *int64             `json:"harga_baru" validate:"omitempty,gte=0"`
	Qty            int                `json:"qty" validate:"required,gt=0"`
	Diskon         int64              `json:"diskon" validate:"gte=0"`
	Tanggal        time.Time          `json:"tanggal" validate:"required"`
	Status         model.StatusCode   `json:"status" validate:"required,oneof=proses dipesan dibuat siap selesai dibatalkan"`
	Note           string             `json:"note"`
}

type CreateOrderRequest struct {
	CustomerID  *uuid.UUID           `json:"customer_id"`
	NewCustomer *NewCustomerRequest  `json:"new_customer"`
	Jenis       model.TransaksiJenis `json:"jenis" validate:"required,oneof=daily pesanan"`
	Lines       []OrderLineRequest   `json:"lines" validate:"required,min=1,dive"`
}

type orderService struct {
	productRepo   repository.ProductRepository
	hargaRepo     repository.HargaRepository
	transaksiRepo repository.TransaksiRepository
	lookupRepo    repository.LookupRepository
	stockService  StockService
	db            *gorm.DB
	wsHub         *ws.Hub
}

func NewOrderService(
	productRepo repository.ProductRepository,
	hargaRepo repository.HargaRepository,
	transaksiRepo repository.TransaksiRepository,
	lookupRepo repository.LookupRepository,
	stockService StockService,
	db *gorm.DB,
	hub *ws.Hub,
) OrderService {
	return &orderService{
		productRepo:   productRepo,
		hargaRepo:     hargaRepo,
		transaksiRepo: transaksiRepo,
		lookupRepo:    lookupRepo,
		stockService:  stockService,
		db:            db,
		wsHub:         hub,
	}
}

func (s *orderService) Create(req *CreateOrderRequest, actorID string) (*model.Transaksi, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if err := s.checkShape(req); err != nil {
		return nil, err
	}

	toko, err := s.lookupRepo.FindPlaceByCode(model.PlaceToko)
	if err != nil {
		return nil, err
	}

	// Pre-flight: kumpulkan semua kekurangan stok sebelum masuk transaksi,
	// supaya user menerima satu daftar error, bukan rollback membingungkan
	// di tengah jalan. Cek otoritatif tetap terjadi di dalam tx di bawah lock.
	if req.Jenis == model.TransaksiDaily {
		if err := s.preflightStock(req, toko.ID); err != nil {
			return nil, err
		}
	}

	var created *model.Transaksi
	err = s.db.Transaction(func(tx *gorm.DB) error {
		customerID, err := s.resolveCustomer(tx, req, actorID)
		if err != nil {
			return err
		}

		header := model.Transaksi{
			CustomerID: customerID,
			Jenis:      req.Jenis,
		}
		header.CreatedBy = actorID
		header.UpdatedBy = actorID
		if err := tx.Create(&header).Error; err != nil {
			return err
		}

		var total int64
		for i, line := range req.Lines {
			product, err := s.resolveProduct(tx, &line, customerID, actorID)
			if err != nil {
				return err
			}

			harga, err := s.resolvePrice(tx, &line, product.ID, customerID, actorID)
			if err != nil {
				return err
			}

			subtotal := harga.Harga*int64(line.Qty) - line.Diskon
			if subtotal < 0 {
				return apperr.Validation(fmt.Sprintf("lines[%d].diskon exceeds line amount", i))
			}

			var status model.StatusTransaksi
			if err := tx.Where("code = ?", line.Status).First(&status).Error; err != nil {
				return apperr.NotFound("status label")
			}

			note := line.Note
			if harga.Harga == 0 && harga.Note != "" {
				// Harga nol hasil sintesis harus terlihat oleh pemanggil.
				note = joinNote(note, harga.Note)
			}

			detail := model.TransaksiDetail{
				TransaksiID:    header.ID,
				ProductID:      product.ID,
				HargaProductID: harga.ID,
				StatusID:       status.ID,
				Qty:            line.Qty,
				Harga:          harga.Harga,
				Diskon:         line.Diskon,
				Subtotal:       subtotal,
				Tanggal:        line.Tanggal,
				Note:           note,
			}
			detail.CreatedBy = actorID
			detail.UpdatedBy = actorID
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}

			if req.Jenis == model.TransaksiDaily {
				ref := model.RefTransaksiDetail
				_, err := s.stockService.DebitTx(tx, product.ID, toko.ID, line.Qty,
					&ref, &detail.ID, "penjualan harian", actorID)
				if err != nil {
					return err
				}
			}

			total += subtotal
		}

		if err := tx.Model(&header).Update("total", total).Error; err != nil {
			return err
		}

		created = &header
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaksi_id": created.ID,
		"jenis":        created.Jenis,
		"lines":        len(req.Lines),
	}).Info("order created")

	broadcast(s.wsHub, "order_created", map[string]interface{}{
		"transaksi_id": created.ID,
		"jenis":        created.Jenis,
	}, actorID)

	return s.transaksiRepo.FindByID(created.ID)
}

// checkShape memvalidasi aturan yang tidak bisa diekspresikan tag validator:
// referensi vs payload inline harus tepat satu.
func (s *orderService) checkShape(req *CreateOrderRequest) error {
	var fields []string
	if req.CustomerID != nil && req.NewCustomer != nil {
		fields = append(fields, "customer_id and new_customer are mutually exclusive")
	}
	for i, line := range req.Lines {
		if line.ProductID == nil && line.NewProduct == nil {
			fields = append(fields, fmt.Sprintf("lines[%d]: product_id or new_product required", i))
		}
		if line.ProductID != nil && line.NewProduct != nil {
			fields = append(fields, fmt.Sprintf("lines[%d]: product_id and new_product are mutually exclusive", i))
		}
		if line.NewProduct != nil && line.NewProduct.KindID == nil && line.NewProduct.KindName == "" {
			fields = append(fields, fmt.Sprintf("lines[%d].new_product: kind_id or kind_name required", i))
		}
		if line.HargaProductID != nil && line.HargaBaru != nil {
			fields = append(fields, fmt.Sprintf("lines[%d]: harga_product_id and harga_baru are mutually exclusive", i))
		}
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

// preflightStock mengecek ketersediaan stok TOKO per line, memperhitungkan
// permintaan kumulatif bila beberapa line memakai produk yang sama.
func (s *orderService) preflightStock(req *CreateOrderRequest, tokoID uuid.UUID) error {
	var fields []string
	demand := map[uuid.UUID]int{}
	available := map[uuid.UUID]int{}

	for i, line := range req.Lines {
		if line.ProductID == nil {
			// Produk baru belum pernah punya stok.
			fields = append(fields, fmt.Sprintf("lines[%d]: insufficient stock (available: 0)", i))
			continue
		}
		pid := *line.ProductID
		if _, ok := available[pid]; !ok {
			qty, err := s.stockService.AvailableQty(pid, tokoID)
			if err != nil {
				return err
			}
			available[pid] = qty
		}
		demand[pid] += line.Qty
		if demand[pid] > available[pid] {
			fields = append(fields, fmt.Sprintf("lines[%d]: insufficient stock (available: %d)", i, available[pid]))
		}
	}

	if len(fields) > 0 {
		return &apperr.Error{
			Code:    apperr.CodeInsufficientStock,
			Message: "insufficient stock on one or more lines",
			Fields:  fields,
		}
	}
	return nil
}

func (s *orderService) resolveCustomer(tx *gorm.DB, req *CreateOrderRequest, actorID string) (*uuid.UUID, error) {
	if req.CustomerID != nil {
		var customer model.Customer
		if err := tx.First(&customer, "id = ?", *req.CustomerID).Error; err != nil {
			return nil, apperr.NotFound("customer")
		}
		return req.CustomerID, nil
	}
	if req.NewCustomer != nil {
		customer := model.Customer{
			Name:    req.NewCustomer.Name,
			Phone:   req.NewCustomer.Phone,
			Address: req.NewCustomer.Address,
		}
		customer.CreatedBy = actorID
		customer.UpdatedBy = actorID
		if err := tx.Create(&customer).Error; err != nil {
			return nil, err
		}
		return &customer.ID, nil
	}
	return nil, nil // walk-in
}

func (s *orderService) resolveProduct(tx *gorm.DB, line *OrderLineRequest, customerID *uuid.UUID, actorID string) (*model.Product, error) {
	if line.ProductID != nil {
		var product model.Product
		if err := tx.First(&product, "id = ?", *line.ProductID).Error; err != nil {
			return nil, apperr.NotFound("product")
		}
		return &product, nil
	}

	np := line.NewProduct
	product := model.Product{
		Kode:       np.Kode,
		Size:       np.Size,
		Notes:      np.Notes,
		CustomerID: customerID, // barang bespoke dimiliki pemesan
	}
	product.CreatedBy = actorID
	product.UpdatedBy = actorID

	if np.KindID != nil {
		var kind model.ProductKind
		if err := tx.First(&kind, "id = ?", *np.KindID).Error; err != nil {
			return nil, apperr.NotFound("product kind")
		}
		product.KindID = kind.ID
	} else {
		kind, err := s.productRepo.FindOrCreateKind(tx, np.KindName)
		if err != nil {
			return nil, err
		}
		product.KindID = kind.ID
	}

	if np.TypeID != nil {
		var typ model.ProductType
		if err := tx.First(&typ, "id = ?", *np.TypeID).Error; err != nil {
			return nil, apperr.NotFound("product type")
		}
		product.TypeID = &typ.ID
	} else if np.TypeName != "" {
		typ, err := s.productRepo.FindOrCreateType(tx, np.TypeName)
		if err != nil {
			return nil, err
		}
		product.TypeID = &typ.ID
	}

	if np.MaterialID != nil {
		var material model.Material
		if err := tx.First(&material, "id = ?", *np.MaterialID).Error; err != nil {
			return nil, apperr.NotFound("material")
		}
		product.MaterialID = &material.ID
	} else if np.MaterialName != "" {
		material, err := s.productRepo.FindOrCreateMaterial(tx, np.MaterialName)
		if err != nil {
			return nil, err
		}
		product.MaterialID = &material.ID
	}

	if err := tx.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// resolvePrice menentukan price record untuk satu line: id eksplisit, harga
// baru inline, atau harga berlaku terakhir. Produk tanpa harga sama sekali
// mendapat record nol yang ditandai, bukan kegagalan — master data yang
// bolong tidak boleh memblokir penjualan, tapi harus kelihatan.
func (s *orderService) resolvePrice(tx *gorm.DB, line *OrderLineRequest, productID uuid.UUID, customerID *uuid.UUID, actorID string) (*model.HargaProduct, error) {
	if line.HargaProductID != nil {
		var harga model.HargaProduct
		if err := tx.First(&harga, "id = ?", *line.HargaProductID).Error; err != nil {
			return nil, apperr.NotFound("harga product")
		}
		if harga.ProductID != productID {
			return nil, apperr.Validation("harga_product_id does not belong to product")
		}
		return &harga, nil
	}

	if line.HargaBaru != nil {
		harga := model.HargaProduct{
			ProductID:      productID,
			CustomerID:     customerID,
			Harga:          *line.HargaBaru,
			TanggalBerlaku: line.Tanggal,
		}
		harga.CreatedBy = actorID
		harga.UpdatedBy = actorID
		if err := s.hargaRepo.Create(tx, &harga); err != nil {
			return nil, err
		}
		return &harga, nil
	}

	harga, err := s.hargaRepo.FindCurrent(tx, productID, customerID)
	if err == gorm.ErrRecordNotFound {
		fallback := model.HargaProduct{
			ProductID:      productID,
			Harga:          0,
			TanggalBerlaku: line.Tanggal,
			Note:           "harga belum diatur - lengkapi master data harga",
		}
		fallback.CreatedBy = actorID
		fallback.UpdatedBy = actorID
		if err := s.hargaRepo.Create(tx, &fallback); err != nil {
			return nil, err
		}
		return &fallback, nil
	}
	if err != nil {
		return nil, err
	}
	return harga, nil
}

func (s *orderService) GetAll() ([]model.Transaksi, error) {
	return s.transaksiRepo.FindAll()
}

func (s *orderService) GetByID(id uuid.UUID) (*model.Transaksi, error) {
	return s.transaksiRepo.FindByID(id)
}

func (s *orderService) GetDetailByID(id uuid.UUID) (*model.TransaksiDetail, error) {
	return s.transaksiRepo.FindDetailByID(id)
}

func joinNote(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
