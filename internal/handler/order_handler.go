package handler

import (
	"fmt"

	"go-sealindo/internal/model"
	"go-sealindo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

type orderLineBody struct {
	ProductID      *uuid.UUID                 `json:"product_id"`
	NewProduct     *service.NewProductRequest `json:"new_product"`
	HargaProductID *uuid.UUID                 `json:"harga_product_id"`
	HargaBaru      *int64                     `json:"harga_baru"`
	Qty            int                        `json:"qty"`
	Diskon         int64                      `json:"diskon"`
	Tanggal        string                     `json:"tanggal"`
	Status         string                     `json:"status"`
	Note           string                     `json:"note"`
}

type createOrderBody struct {
	CustomerID  *uuid.UUID                  `json:"customer_id"`
	NewCustomer *service.NewCustomerRequest `json:"new_customer"`
	Jenis       string                      `json:"jenis"`
	Lines       []orderLineBody             `json:"lines"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var body createOrderBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	req := service.CreateOrderRequest{
		CustomerID:  body.CustomerID,
		NewCustomer: body.NewCustomer,
		Jenis:       model.TransaksiJenis(body.Jenis),
	}
	for i, line := range body.Lines {
		tanggal, err := parseDate(line.Tanggal)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": fmt.Sprintf("lines[%d].tanggal must be YYYY-MM-DD", i)})
		}
		req.Lines = append(req.Lines, service.OrderLineRequest{
			ProductID:      line.ProductID,
			NewProduct:     line.NewProduct,
			HargaProductID: line.HargaProductID,
			HargaBaru:      line.HargaBaru,
			Qty:            line.Qty,
			Diskon:         line.Diskon,
			Tanggal:        tanggal,
			Status:         model.StatusCode(line.Status),
			Note:           line.Note,
		})
	}

	created, err := h.service.Create(&req, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaksi created", "data": created})
}

func (h *OrderHandler) GetAll(c *fiber.Ctx) error {
	transaksi, err := h.service.GetAll()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(transaksi)
}

func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaksi ID"})
	}
	transaksi, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaksi not found"})
	}
	return c.JSON(transaksi)
}

func (h *OrderHandler) GetDetailByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaksi detail ID"})
	}
	detail, err := h.service.GetDetailByID(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(detail)
}
