package handler

import (
	"go-sealindo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

type createPaymentBody struct {
	TransaksiDetailID uuid.UUID `json:"transaksi_detail_id"`
	Jumlah            int64     `json:"jumlah"`
	Tanggal           string    `json:"tanggal"`
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var body createPaymentBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tanggal, err := parseDate(body.Tanggal)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "tanggal must be YYYY-MM-DD"})
	}

	payment, err := h.service.RecordPayment(&service.PaymentRequest{
		TransaksiDetailID: body.TransaksiDetailID,
		Jumlah:            body.Jumlah,
		Tanggal:           tanggal,
	}, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Pembayaran recorded", "data": payment})
}

func (h *PaymentHandler) Summary(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaksi detail ID"})
	}
	summary, err := h.service.Summary(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(summary)
}
