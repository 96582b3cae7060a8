package handler

import (
	"go-sealindo/internal/model"
	"go-sealindo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StockHandler struct {
	service service.StockService
}

func NewStockHandler(s service.StockService) *StockHandler {
	return &StockHandler{service: s}
}

func (h *StockHandler) GetByPlace(c *fiber.Ctx) error {
	place := c.Query("place", model.PlaceToko)
	entries, err := h.service.ListByPlace(place)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(entries)
}

func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var req service.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.Transfer(&req, getUserID(c)); err != nil {
		return respondErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock transferred"})
}

func (h *StockHandler) GetMovements(c *fiber.Ctx) error {
	inventoryID, err := parseUUID(c.Query("inventory_id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "inventory_id query param is required"})
	}
	movements, err := h.service.ListMovements(inventoryID)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(movements)
}
