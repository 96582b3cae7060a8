package service

import (
	"time"

	"go-sealindo/internal/apperr"
	"go-sealindo/internal/model"
	"go-sealindo/internal/repository"
	"go-sealindo/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentService mencatat cicilan terhadap order line. Dua invariant:
// jumlah kumulatif tidak melebihi subtotal, dan tanggal non-decreasing
// (tidak boleh mendahului pembayaran terakhir maupun tanggal transaksi).
type PaymentService interface {
	RecordPayment(req *PaymentRequest, actorID string) (*model.Pembayaran, error)
	Summary(detailID uuid.UUID) (*PaymentSummary, error)
}

type PaymentRequest struct {
	TransaksiDetailID uuid.UUID `json:"transaksi_detail_id" validate:"uuid_required"`
	Jumlah            int64     `json:"jumlah" validate:"required,gt=0"`
	Tanggal           time.Time `json:"tanggal" validate:"required"`
}

type PaymentSummary struct {
	TransaksiDetailID uuid.UUID          `json:"transaksi_detail_id"`
	Subtotal          int64              `json:"subtotal"`
	Dibayar           int64              `json:"dibayar"`
	Sisa              int64              `json:"sisa"`
	Lunas             bool               `json:"lunas"`
	Pembayaran        []model.Pembayaran `json:"pembayaran"`
}

type paymentService struct {
	transaksiRepo repository.TransaksiRepository
	db            *gorm.DB
}

func NewPaymentService(transaksiRepo repository.TransaksiRepository, db *gorm.DB) PaymentService {
	return &paymentService{
		transaksiRepo: transaksiRepo,
		db:            db,
	}
}

func (s *paymentService) RecordPayment(req *PaymentRequest, actorID string) (*model.Pembayaran, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var payment *model.Pembayaran
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock line-nya supaya dua pembayaran konkuren terhadap line yang
		// sama tidak sama-sama lolos cek saldo.
		detail, err := s.transaksiRepo.FindDetailForUpdate(tx, req.TransaksiDetailID)
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("transaksi detail")
		}
		if err != nil {
			return err
		}

		if req.Tanggal.Before(detail.Tanggal) {
			return apperr.BackdatedPayment(detail.Tanggal)
		}

		var last model.Pembayaran
		err = tx.Where("transaksi_detail_id = ?", detail.ID).
			Order("tanggal DESC").Order("created_at DESC").
			First(&last).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err == nil && req.Tanggal.Before(last.Tanggal) {
			return apperr.BackdatedPayment(last.Tanggal)
		}

		paid, err := s.transaksiRepo.SumPayments(tx, detail.ID)
		if err != nil {
			return err
		}
		remaining := detail.Subtotal - paid
		if req.Jumlah > remaining {
			return apperr.Overpayment(remaining)
		}

		payment = &model.Pembayaran{
			TransaksiDetailID: detail.ID,
			Jumlah:            req.Jumlah,
			Tanggal:           req.Tanggal,
		}
		payment.CreatedBy = actorID
		payment.UpdatedBy = actorID
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"transaksi_detail_id": req.TransaksiDetailID,
		"jumlah":              req.Jumlah,
	}).Info("payment recorded")

	return payment, nil
}

func (s *paymentService) Summary(detailID uuid.UUID) (*PaymentSummary, error) {
	detail, err := s.transaksiRepo.FindDetailByID(detailID)
	if err == gorm.ErrRecordNotFound {
		return nil, apperr.NotFound("transaksi detail")
	}
	if err != nil {
		return nil, err
	}

	payments, err := s.transaksiRepo.ListPayments(detailID)
	if err != nil {
		return nil, err
	}

	var paid int64
	for _, p := range payments {
		paid += p.Jumlah
	}

	return &PaymentSummary{
		TransaksiDetailID: detailID,
		Subtotal:          detail.Subtotal,
		Dibayar:           paid,
		Sisa:              detail.Subtotal - paid,
		Lunas:             paid >= detail.Subtotal,
		Pembayaran:        payments,
	}, nil
}
