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

// OpnameService menangani stok opname: snapshot qty sistem, input hitungan
// fisik per baris, lalu finalize yang menulis movement koreksi dan
// menerapkan selisihnya ke ledger.
type OpnameService interface {
	Start(req *StartOpnameRequest, actorID string) (*model.StokOpname, error)
	RecordCount(detailID uuid.UUID, physicalQty int, note string, actorID string) (*model.StokOpnameDetail, error)
	Finalize(id uuid.UUID, actorID string) (*model.StokOpname, error)
	Cancel(id uuid.UUID, actorID string) (*model.StokOpname, error)
	GetAll() ([]model.StokOpname, error)
	GetByID(id uuid.UUID) (*model.StokOpname, error)
}

type StartOpnameRequest struct {
	InventoryIDs []uuid.UUID `json:"inventory_ids" validate:"required,min=1"`
	Tanggal      time.Time   `json:"tanggal" validate:"required"`
	Note         string      `json:"note"`
}

type opnameService struct {
	opnameRepo repository.OpnameRepository
	stockRepo  repository.StockRepository
	db         *gorm.DB
	wsHub      *ws.Hub
}

func NewOpnameService(
	opnameRepo repository.OpnameRepository,
	stockRepo repository.StockRepository,
	db *gorm.DB,
	hub *ws.Hub,
) OpnameService {
	return &opnameService{
		opnameRepo: opnameRepo,
		stockRepo:  stockRepo,
		db:         db,
		wsHub:      hub,
	}
}

// Start memotret qty sistem dari setiap ledger entry terpilih ke baris
// detail dengan hitungan fisik kosong.
func (s *opnameService) Start(req *StartOpnameRequest, actorID string) (*model.StokOpname, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var header model.StokOpname
	err := s.db.Transaction(func(tx *gorm.DB) error {
		header = model.StokOpname{
			Operator: actorID,
			Tanggal:  req.Tanggal,
			Note:     req.Note,
			Status:   model.OpnameDraft,
		}
		header.CreatedBy = actorID
		header.UpdatedBy = actorID
		if err := tx.Create(&header).Error; err != nil {
			return err
		}

		for _, invID := range req.InventoryIDs {
			// Lock supaya snapshot konsisten dengan qty saat itu.
			entry, err := s.stockRepo.FindForUpdateByID(tx, invID)
			if err == gorm.ErrRecordNotFound {
				return apperr.NotFound("inventory")
			}
			if err != nil {
				return err
			}

			detail := model.StokOpnameDetail{
				StokOpnameID: header.ID,
				InventoryID:  entry.ID,
				SystemQty:    entry.Qty,
			}
			detail.CreatedBy = actorID
			detail.UpdatedBy = actorID
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.opnameRepo.FindByID(header.ID)
}

// RecordCount mengisi hitungan fisik satu baris, hanya selama header draft.
func (s *opnameService) RecordCount(detailID uuid.UUID, physicalQty int, note string, actorID string) (*model.StokOpnameDetail, error) {
	if physicalQty < 0 {
		return nil, apperr.Validation("physical_qty must not be negative")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var detail model.StokOpnameDetail
		if err := tx.First(&detail, "id = ?", detailID).Error; err != nil {
			return apperr.NotFound("opname detail")
		}

		header, err := s.opnameRepo.FindForUpdate(tx, detail.StokOpnameID)
		if err != nil {
			return err
		}
		if header.Status != model.OpnameDraft {
			return apperr.InvalidTransition("counts can only be recorded on a draft opname")
		}

		difference := physicalQty - detail.SystemQty
		return tx.Model(&detail).Updates(map[string]interface{}{
			"physical_qty": physicalQty,
			"difference":   difference,
			"note":         note,
			"updated_by":   actorID,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.opnameRepo.FindDetailByID(detailID)
}

// Finalize menolak bila masih ada baris tanpa hitungan fisik; selebihnya
// setiap selisih non-nol menjadi movement koreksi (in bila plus, out bila
// minus) dan diterapkan langsung ke ledger, lalu header jadi selesai.
func (s *opnameService) Finalize(id uuid.UUID, actorID string) (*model.StokOpname, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		header, err := s.opnameRepo.FindForUpdate(tx, id)
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("stok opname")
		}
		if err != nil {
			return err
		}
		if header.Status != model.OpnameDraft {
			return apperr.InvalidTransition("only a draft opname can be finalized")
		}

		var details []model.StokOpnameDetail
		if err := tx.Where("stok_opname_id = ?", header.ID).Find(&details).Error; err != nil {
			return err
		}

		var unresolved []string
		for _, d := range details {
			if d.PhysicalQty == nil {
				unresolved = append(unresolved, d.InventoryID.String())
			}
		}
		if len(unresolved) > 0 {
			return &apperr.Error{
				Code:    apperr.CodeIncompleteCount,
				Message: fmt.Sprintf("%d entries still uncounted", len(unresolved)),
				Fields:  unresolved,
			}
		}

		ref := model.RefStokOpname
		for _, d := range details {
			diff := *d.Difference
			if diff == 0 {
				continue
			}

			entry, err := s.stockRepo.FindForUpdateByID(tx, d.InventoryID)
			if err != nil {
				return err
			}

			newQty := entry.Qty + diff
			if newQty < 0 {
				// Qty sistem bergeser sejak snapshot; koreksi tidak boleh
				// membuat ledger negatif.
				return apperr.InsufficientStock(entry.Qty)
			}
			if err := s.stockRepo.UpdateQty(tx, entry.ID, newQty, actorID); err != nil {
				return err
			}

			mvType := model.MovementIn
			qty := diff
			if diff < 0 {
				mvType = model.MovementOut
				qty = -diff
			}
			movement := &model.StockMovement{
				InventoryID: entry.ID,
				Type:        mvType,
				Qty:         qty,
				RefType:     &ref,
				RefID:       &header.ID,
				Note:        "koreksi stok opname",
			}
			movement.CreatedBy = actorID
			movement.UpdatedBy = actorID
			if err := s.stockRepo.CreateMovement(tx, movement); err != nil {
				return err
			}
		}

		header.Status = model.OpnameSelesai
		header.UpdatedBy = actorID
		return tx.Save(header).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("stok_opname_id", id).Info("stock opname finalized")

	broadcast(s.wsHub, "opname_finalized", map[string]interface{}{
		"stok_opname_id": id,
	}, actorID)

	return s.opnameRepo.FindByID(id)
}

// Cancel hanya dari draft; tidak ada efek ledger.
func (s *opnameService) Cancel(id uuid.UUID, actorID string) (*model.StokOpname, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		header, err := s.opnameRepo.FindForUpdate(tx, id)
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("stok opname")
		}
		if err != nil {
			return err
		}
		if header.Status != model.OpnameDraft {
			return apperr.InvalidTransition("only a draft opname can be cancelled")
		}
		header.Status = model.OpnameDibatalkan
		header.UpdatedBy = actorID
		return tx.Save(header).Error
	})
	if err != nil {
		return nil, err
	}
	return s.opnameRepo.FindByID(id)
}

func (s *opnameService) GetAll() ([]model.StokOpname, error) {
	return s.opnameRepo.FindAll()
}

func (s *opnameService) GetByID(id uuid.UUID) (*model.StokOpname, error) {
	header, err := s.opnameRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("stok opname")
	}
	return header, err
}
