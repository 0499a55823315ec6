package routes

import (
	"github.com/gofiber/fiber/v2"

	"payment-report-service/internal/controller"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, paymentController controller.PaymentController) {
	app.Post("/payments", paymentController.CreatePayment)
	app.Post("/reports/payments", paymentController.RunReport)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
