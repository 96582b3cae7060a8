package handler

import (
	"time"

	"go-sealindo/internal/model"
	"go-sealindo/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProductionHandler struct {
	service service.ProductionService
}

func NewProductionHandler(s service.ProductionService) *ProductionHandler {
	return &ProductionHandler{service: s}
}

func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var req service.CreateProductionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	job, err := h.service.Create(&req, getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Production job created", "data": job})
}

type updateStatusBody struct {
	Status string `json:"status"`
}

func (h *ProductionHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production ID"})
	}

	var body updateStatusBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	// Jam dioper eksplisit supaya service bebas dari clock global.
	job, err := h.service.UpdateStatus(id, model.ProductionStatus(body.Status), time.Now(), getUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Production status updated", "data": job})
}

func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production ID"})
	}
	if err := h.service.Delete(id); err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Production job deleted"})
}

func (h *ProductionHandler) GetAll(c *fiber.Ctx) error {
	jobs, err := h.service.GetAll()
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(jobs)
}

func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid production ID"})
	}
	job, err := h.service.GetByID(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(job)
}
