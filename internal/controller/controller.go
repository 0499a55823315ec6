package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"payment-report-service/internal/model"
	"payment-report-service/internal/report"
	"payment-report-service/internal/service"
)

type PaymentController interface {
	CreatePayment(c *fiber.Ctx) error
	RunReport(c *fiber.Ctx) error
}

// paymentController exposes HTTP handlers for ingestion and reporting.
type paymentController struct {
	paymentService service.PaymentService
}

// NewPaymentController builds a PaymentController.
func NewPaymentController(svc service.PaymentService) PaymentController {
	return &paymentController{paymentService: svc}
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

type reportEnvelope struct {
	Success bool           `json:"success"`
	Data    *report.Result `json:"data"`
}

// CreatePayment accepts single payment record payloads.
func (h *paymentController) CreatePayment(c *fiber.Ctx) error {
	var req model.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	payment, err := h.paymentService.BuildPayment(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if _, err := h.paymentService.ProcessPayment(c.Context(), payment); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to process payment")
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// RunReport executes a declarative report query over the payment store.
func (h *paymentController) RunReport(c *fiber.Ctx) error {
	var req report.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{
			Error:   "INVALID_REQUEST",
			Message: "invalid json payload",
		})
	}

	// The record store is continuously written by booking traffic, so
	// report responses must never be cached.
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	c.Set("Pragma", "no-cache")

	result, err := h.paymentService.RunReport(c.Context(), req)
	if err != nil {
		var verr *report.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(errorEnvelope{
				Error:   verr.Code,
				Message: verr.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(errorEnvelope{
			Error:   "REPORT_ENGINE_FAILED",
			Message: "failed to build report",
		})
	}

	return c.JSON(reportEnvelope{Success: true, Data: result})
}
