package service

import (
	"go-sealindo/internal/apperr"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/internal/ws"
	"go-sealindo/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StockService adalah satu-satunya jalur mutasi ledger. Setiap perubahan
// qty terjadi dalam transaksi, di bawah row lock, dan selalu ditemani satu
// baris StockMovement dengan delta yang sama.
type StockService interface {
	ListByPlace(placeCode string) ([]model.Inventory, error)
	ListMovements(inventoryID uuid.UUID) ([]model.StockMovement, error)
	Transfer(req *TransferRequest, actorID string) error

	// Operasi tx-scoped, dipakai order/production/opname service di dalam
	// transaksi mereka sendiri.
	CreditTx(tx *gorm.DB, productID, placeID uuid.UUID, qty int, mvType model.MovementType, ref *model.MovementRef, refID *uuid.UUID, note, actorID string) (*model.Inventory, error)
	DebitTx(tx *gorm.DB, productID, placeID uuid.UUID, qty int, ref *model.MovementRef, refID *uuid.UUID, note, actorID string) (*model.Inventory, error)
	AvailableQty(productID, placeID uuid.UUID) (int, error)
}

type TransferRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	FromPlace string    `json:"from_place" validate:"required"`
	ToPlace   string    `json:"to_place" validate:"required"`
	Qty       int       `json:"qty" validate:"required,gt=0"`
	Note      string    `json:"note"`
}

type stockService struct {
	stockRepo  repository.StockRepository
	lookupRepo repository.LookupRepository
	db         *gorm.DB
	wsHub      *ws.Hub
}

func NewStockService(stockRepo repository.StockRepository, lookupRepo repository.LookupRepository, db *gorm.DB, hub *ws.Hub) StockService {
	return &stockService{
		stockRepo:  stockRepo,
		lookupRepo: lookupRepo,
		db:         db,
		wsHub:      hub,
	}
}

func (s *stockService) ListByPlace(placeCode string) ([]model.Inventory, error) {
	return s.stockRepo.FindByPlace(placeCode)
}

func (s *stockService) ListMovements(inventoryID uuid.UUID) ([]model.StockMovement, error) {
	return s.stockRepo.ListMovements(inventoryID)
}

func (s *stockService) AvailableQty(productID, placeID uuid.UUID) (int, error) {
	var entry model.Inventory
	err := s.db.First(&entry, "product_id = ? AND place_id = ?", productID, placeID).Error
	if err == gorm.ErrRecordNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return entry.Qty, nil
}

// CreditTx menaikkan qty ledger entry (dibuat bila belum ada) dan mencatat
// movement masuk (in atau produksi).
func (s *stockService) CreditTx(tx *gorm.DB, productID, placeID uuid.UUID, qty int, mvType model.MovementType, ref *model.MovementRef, refID *uuid.UUID, note, actorID string) (*model.Inventory, error) {
	entry, err := s.stockRepo.Ensure(tx, productID, placeID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.stockRepo.UpdateQty(tx, entry.ID, entry.Qty+qty, actorID); err != nil {
		return nil, err
	}
	entry.Qty += qty

	movement := &model.StockMovement{
		InventoryID: entry.ID,
		Type:        mvType,
		Qty:         qty,
		RefType:     ref,
		RefID:       refID,
		Note:        note,
	}
	movement.CreatedBy = actorID
	movement.UpdatedBy = actorID
	if err := s.stockRepo.CreateMovement(tx, movement); err != nil {
		return nil, err
	}
	return entry, nil
}

// DebitTx menurunkan qty ledger entry dan mencatat movement out. Gagal
// dengan InsufficientStock bila hasilnya akan negatif.
func (s *stockService) DebitTx(tx *gorm.DB, productID, placeID uuid.UUID, qty int, ref *model.MovementRef, refID *uuid.UUID, note, actorID string) (*model.Inventory, error) {
	entry, err := s.stockRepo.FindForUpdate(tx, productID, placeID)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.InsufficientStock(0)
	}
	if err != nil {
		return nil, err
	}

	if entry.Qty < qty {
		return nil, apperr.InsufficientStock(entry.Qty)
	}

	if err := s.stockRepo.UpdateQty(tx, entry.ID, entry.Qty-qty, actorID); err != nil {
		return nil, err
	}
	entry.Qty -= qty

	movement := &model.StockMovement{
		InventoryID: entry.ID,
		Type:        model.MovementOut,
		Qty:         qty,
		RefType:     ref,
		RefID:       refID,
		Note:        note,
	}
	movement.CreatedBy = actorID
	movement.UpdatedBy = actorID
	if err := s.stockRepo.CreateMovement(tx, movement); err != nil {
		return nil, err
	}
	return entry, nil
}

// Transfer memindahkan qty antar lokasi sebagai pasangan movement out+in
// yang berbagi satu transfer id.
func (s *stockService) Transfer(req *TransferRequest, actorID string) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	if req.FromPlace == req.ToPlace {
		return apperr.Validation("from_place and to_place must differ")
	}

	from, err := s.lookupRepo.FindPlaceByCode(req.FromPlace)
	if err != nil {
		return apperr.NotFound("from_place")
	}
	to, err := s.lookupRepo.FindPlaceByCode(req.ToPlace)
	if err != nil {
		return apperr.NotFound("to_place")
	}

	transferID := uuid.New()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		src, err := s.stockRepo.FindForUpdate(tx, req.ProductID, from.ID)
		if err == gorm.ErrRecordNotFound {
			return apperr.InsufficientStock(0)
		}
		if err != nil {
			return err
		}
		if src.Qty < req.Qty {
			return apperr.InsufficientStock(src.Qty)
		}
		dst, err := s.stockRepo.Ensure(tx, req.ProductID, to.ID, actorID)
		if err != nil {
			return err
		}

		if err := s.stockRepo.UpdateQty(tx, src.ID, src.Qty-req.Qty, actorID); err != nil {
			return err
		}
		if err := s.stockRepo.UpdateQty(tx, dst.ID, dst.Qty+req.Qty, actorID); err != nil {
			return err
		}

		out := &model.StockMovement{
			InventoryID: src.ID,
			Type:        model.MovementOut,
			Qty:         req.Qty,
			TransferID:  &transferID,
			Note:        req.Note,
		}
		out.CreatedBy = actorID
		out.UpdatedBy = actorID
		in := &model.StockMovement{
			InventoryID: dst.ID,
			Type:        model.MovementIn,
			Qty:         req.Qty,
			TransferID:  &transferID,
			Note:        req.Note,
		}
		in.CreatedBy = actorID
		in.UpdatedBy = actorID
		if err := s.stockRepo.CreateMovement(tx, out); err != nil {
			return err
		}
		return s.stockRepo.CreateMovement(tx, in)
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"product_id":  req.ProductID,
		"from":        req.FromPlace,
		"to":          req.ToPlace,
		"qty":         req.Qty,
		"transfer_id": transferID,
	}).Info("stock transferred")

	broadcast(s.wsHub, "stock_transfer", map[string]interface{}{
		"product_id":  req.ProductID,
		"from":        req.FromPlace,
		"to":          req.ToPlace,
		"qty":         req.Qty,
		"transfer_id": transferID,
	}, actorID)

	return nil
}
