package service

import (
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

// ProductionService menjalankan state machine job produksi:
// antri -> produksi -> selesai, atau batal dari antri/produksi.
// Masuk selesai mengkredit qty ke BENGKEL; job pesanan langsung mendebitnya
// lagi untuk memenuhi order line-nya ("dibuat lalu dikirim sekali jalan").
type ProductionService interface {
	Create(req *CreateProductionRequest, actorID string) (*model.Production, error)
	UpdateStatus(id uuid.UUID, target model.ProductionStatus, now time.Time, actorID string) (*model.Production, error)
	Delete(id uuid.UUID) error
	GetAll() ([]model.Production, error)
	GetByID(id uuid.UUID) (*model.Production, error)
}

type CreateProductionRequest struct {
	ProductID         uuid.UUID             `json:"product_id" validate:"uuid_required"`
	EmployeeID        *uuid.UUID            `json:"employee_id"`
	TransaksiDetailID *uuid.UUID            `json:"transaksi_detail_id"`
	JenisPembuatan    model.ProductionJenis `json:"jenis_pembuatan" validate:"required,oneof=pesanan inventory"`
	Qty               int                   `json:"qty" validate:"required,gt=0"`
}

type productionService struct {
	productionRepo repository.ProductionRepository
	lookupRepo     repository.LookupRepository
	stockService   StockService
	db             *gorm.DB
	wsHub          *ws.Hub
}

func NewProductionService(
	productionRepo repository.ProductionRepository,
	lookupRepo repository.LookupRepository,
	stockService StockService,
	db *gorm.DB,
	hub *ws.Hub,
) ProductionService {
	return &productionService{
		productionRepo: productionRepo,
		lookupRepo:     lookupRepo,
		stockService:   stockService,
		db:             db,
		wsHub:          hub,
	}
}

func (s *productionService) Create(req *CreateProductionRequest, actorID string) (*model.Production, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if req.JenisPembuatan == model.ProduksiPesanan && req.TransaksiDetailID == nil {
		return nil, apperr.Validation("transaksi_detail_id required for jenis_pembuatan pesanan")
	}

	var product model.Product
	if err := s.db.First(&product, "id = ?", req.ProductID).Error; err != nil {
		return nil, apperr.NotFound("product")
	}
	if req.TransaksiDetailID != nil {
		var detail model.TransaksiDetail
		if err := s.db.First(&detail, "id = ?", *req.TransaksiDetailID).Error; err != nil {
			return nil, apperr.NotFound("transaksi detail")
		}
	}
	if req.EmployeeID != nil {
		var employee model.Employee
		if err := s.db.First(&employee, "id = ?", *req.EmployeeID).Error; err != nil {
			return nil, apperr.NotFound("employee")
		}
	}

	job := model.Production{
		ProductID:         req.ProductID,
		EmployeeID:        req.EmployeeID,
		TransaksiDetailID: req.TransaksiDetailID,
		JenisPembuatan:    req.JenisPembuatan,
		Qty:               req.Qty,
		Status:            model.ProduksiAntri,
	}
	job.CreatedBy = actorID
	job.UpdatedBy = actorID
	if err := s.db.Create(&job).Error; err != nil {
		return nil, err
	}
	return s.productionRepo.FindByID(job.ID)
}

// UpdateStatus memindahkan job ke status target. now diberikan pemanggil
// supaya timestamps deterministik.
func (s *productionService) UpdateStatus(id uuid.UUID, target model.ProductionStatus, now time.Time, actorID string) (*model.Production, error) {
	switch target {
	case model.ProduksiJalan, model.ProduksiSelesai, model.ProduksiBatal:
	default:
		return nil, apperr.Validation("unknown production status")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		job, err := s.productionRepo.FindForUpdate(tx, id)
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("production job")
		}
		if err != nil {
			return err
		}

		if !transitionAllowed(job.Status, target) {
			return apperr.InvalidTransition("cannot move production job from " + string(job.Status) + " to " + string(target))
		}

		switch target {
		case model.ProduksiJalan:
			if job.StartedAt == nil {
				job.StartedAt = &now
			}
		case model.ProduksiBatal:
			job.StartedAt = nil
			job.FinishedAt = nil
		case model.ProduksiSelesai:
			if err := s.complete(tx, job, now, actorID); err != nil {
				return err
			}
		}

		job.Status = target
		job.UpdatedBy = actorID
		return tx.Save(job).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"production_id": id,
		"status":        target,
	}).Info("production status updated")

	if target == model.ProduksiSelesai {
		broadcast(s.wsHub, "production_done", map[string]interface{}{
			"production_id": id,
		}, actorID)
	}

	return s.productionRepo.FindByID(id)
}

// complete menjalankan side effect masuk selesai: cek foto untuk job
// pesanan, kredit BENGKEL, dan untuk pesanan debit lagi + naikkan status
// line ke Siap.
func (s *productionService) complete(tx *gorm.DB, job *model.Production, now time.Time, actorID string) error {
	var product model.Product
	if err := tx.First(&product, "id = ?", job.ProductID).Error; err != nil {
		return apperr.NotFound("product")
	}

	if job.JenisPembuatan == model.ProduksiPesanan && !product.HasAllPhotos() {
		return apperr.MissingAsset("product is missing reference photos; complete all three before finishing an order job")
	}

	if job.StartedAt == nil {
		job.StartedAt = &now
	}
	job.FinishedAt = &now

	var bengkel model.Place
	if err := tx.Where("code = ?", model.PlaceBengkel).First(&bengkel).Error; err != nil {
		return err
	}

	ref := model.RefProduction
	if _, err := s.stockService.CreditTx(tx, job.ProductID, bengkel.ID, job.Qty,
		model.MovementProduksi, &ref, &job.ID, "hasil produksi", actorID); err != nil {
		return err
	}

	if job.TransaksiDetailID == nil {
		return nil
	}

	// Job pesanan: barang yang baru jadi langsung keluar memenuhi order.
	detailRef := model.RefTransaksiDetail
	if _, err := s.stockService.DebitTx(tx, job.ProductID, bengkel.ID, job.Qty,
		&detailRef, job.TransaksiDetailID, "pengiriman pesanan", actorID); err != nil {
		return err
	}

	var siap model.StatusTransaksi
	if err := tx.Where("code = ?", model.StatusSiap).First(&siap).Error; err != nil {
		return err
	}
	return tx.Model(&model.TransaksiDetail{}).
		Where("id = ?", *job.TransaksiDetailID).
		Updates(map[string]interface{}{
			"status_id":  siap.ID,
			"updated_by": actorID,
		}).Error
}

func transitionAllowed(from, to model.ProductionStatus) bool {
	switch from {
	case model.ProduksiAntri:
		return to == model.ProduksiJalan || to == model.ProduksiSelesai || to == model.ProduksiBatal
	case model.ProduksiJalan:
		return to == model.ProduksiSelesai || to == model.ProduksiBatal
	default:
		// selesai dan batal adalah status terminal
		return false
	}
}

// Delete hanya diizinkan selama job masih antri.
func (s *productionService) Delete(id uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		job, err := s.productionRepo.FindForUpdate(tx, id)
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("production job")
		}
		if err != nil {
			return err
		}
		if job.Status != model.ProduksiAntri {
			return apperr.InvalidTransition("only queued production jobs can be deleted")
		}
		return tx.Delete(job).Error
	})
}

func (s *productionService) GetAll() ([]model.Production, error) {
	return s.productionRepo.FindAll()
}

func (s *productionService) GetByID(id uuid.UUID) (*model.Production, error) {
	job, err := s.productionRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("production job")
	}
	return job, err
}
