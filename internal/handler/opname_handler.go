package handler

import (
	"go-sealindo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OpnameHandler struct {
	service service.OpnameService
}

func NewOpnameHandler(s service.OpnameService) *OpnameHandler {
	return &OpnameHandler{service: s}
}

type startOpnameBody struct {
	InventoryIDs []uuid.UUID `json:"inventory_ids"`
	Tanggal      string      `json:"tanggal"`
	Note         string      `json:"note"`
}

func (h *OpnameHandler) Start(c *fiber.Ctx) error {
	var body startOpnameBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	tanggal, err := parseDate(body.Tanggal)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "tanggal must be YYYY-MM-DD"})
	}

	header, err := h.service.Start(&service.StartOpnameRequest{
		InventoryIDs: body.InventoryIDs,
		Tanggal:      tanggal,
		Note:         body.Note,
	}, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stok opname started", "data": header})
}

type recordCountBody struct {
	PhysicalQty *int   `json:"physical_qty"`
	Note        string `json:"note"`
}

func (h *OpnameHandler) RecordCount(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid opname detail ID"})
	}

	var body recordCountBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if body.PhysicalQty == nil {
		return c.Status(400).JSON(fiber.Map{"error": "physical_qty is required"})
	}

	detail, err := h.service.RecordCount(id, *body.PhysicalQty, body.Note, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Count recorded", "data": detail})
}

func (h *OpnameHandler) Finalize(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid opname ID"})
	}
	header, err := h.service.Finalize(id, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stok opname finalized", "data": header})
}

func (h *OpnameHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid opname ID"})
	}
	header, err := h.service.Cancel(id, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stok opname cancelled", "data": header})
}

func (h *OpnameHandler) GetAll(c *fiber.Ctx) error {
	headers, err := h.service.GetAll()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(headers)
}

func (h *OpnameHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid opname ID"})
	}
	header, err := h.service.GetByID(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(header)
}
