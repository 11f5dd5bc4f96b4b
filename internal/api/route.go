package api

import (
	v1 "github.com/Kha-Noob/liteflow-sub002/internal/api/v1"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixPayment = "/payment"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	payment := app.Group(prefixPayment)
	payment.Post("/create", handler.CreatePayment)
	payment.Get("/return", handler.Return)
	payment.Get("/ipn", handler.IPN)
	payment.Post("/ipn", handler.IPN)
	payment.Get("/transactions/:id", handler.GetTransaction)
}
