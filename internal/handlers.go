package internal

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/DrGermanius/OrderRelay/internal/model"
)

type Handlers struct {
	Service IService
	logger  *zap.SugaredLogger
}

func NewHandlers(Service IService, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{Service: Service, logger: logger}
}

type fiscalInput struct {
	FiscalID string `json:"fiscal_id" form:"fiscal_id"`
}

// NewApp builds the fiber app serving the relay routes and the metrics of gatherer.
func NewApp(h *Handlers, gatherer prometheus.Gatherer) *fiber.App {
	app := fiber.New(fiber.Config{UnescapePath: true})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	h.Register(app)
	return app
}

// Register mounts the relay routes on r. Static segments go first.
func (h *Handlers) Register(r fiber.Router) {
	r.Post("/process-json", h.SubmitOrder)
	r.Post("/refundroute", h.RequestRefund)

	orders := r.Group("/orders")
	orders.Get("/by-id/:order_id", h.GetOrder)
	orders.Get("/pending_refund/:venue", h.FetchPendingRefunds)
	orders.Post("/:order_id/update", h.AcknowledgeFiscal)
	orders.Get("/:venue", h.FetchPendingOrders)
}

func (h *Handlers) SubmitOrder(c *fiber.Ctx) error {
	var i model.OrderInput

	if err := c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on submit order request: %s", err.Error())
		return errorResponse(c, fiber.StatusBadRequest, "Error on submit order request", err)
	}

	id, err := h.Service.SubmitOrder(c.Context(), i)
	if err != nil {
		h.logger.Errorf("Error on submit order request: %s", err.Error())
		return h.mapError(c, "Error on submit order request", err)
	}

	h.logger.Infow("order stored", "id", id, "venue", i.Venue)
	return c.Status(fiber.StatusOK).SendString("Order received and stored successfully")
}

func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Error on get order request", err)
	}

	o, err := h.Service.GetOrder(c.Context(), id)
	if err != nil {
		return h.mapError(c, "Error on get order request", err)
	}

	return c.Status(fiber.StatusOK).JSON(o)
}

func (h *Handlers) FetchPendingOrders(c *fiber.Ctx) error {
	orders, err := h.Service.FetchPendingOrders(c.Context(), c.Params("venue"))
	if err != nil {
		h.logger.Errorf("Error on fetch orders request: %s", err.Error())
		return h.mapError(c, "Error on fetch orders request", err)
	}

	return c.Status(fiber.StatusOK).JSON(orders)
}

func (h *Handlers) AcknowledgeFiscal(c *fiber.Ctx) error {
	id, err := orderIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Error on update order request", err)
	}

	var i fiscalInput
	if err = c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on update order request: %s", err.Error())
		return errorResponse(c, fiber.StatusBadRequest, "Error on update order request", err)
	}

	err = h.Service.AcknowledgeFiscal(c.Context(), id, i.FiscalID)
	if err != nil {
		h.logger.Errorf("Error on update order request: %s", err.Error())
		return h.mapError(c, "Error on update order request", err)
	}

	return c.Status(fiber.StatusOK).SendString("Order updated successfully")
}

func (h *Handlers) RequestRefund(c *fiber.Ctx) error {
	var i model.RefundInput

	if err := c.BodyParser(&i); err != nil {
		h.logger.Errorf("Error on refund request: %s", err.Error())
		return errorResponse(c, fiber.StatusBadRequest, "Error processing refund request", err)
	}

	err := h.Service.RequestRefund(c.Context(), i)
	if err != nil {
		h.logger.Errorf("Error on refund request: %s", err.Error())
		return h.mapError(c, "Error processing refund request", err)
	}

	return c.Status(fiber.StatusOK).SendString("Refund request processed successfully")
}

func (h *Handlers) FetchPendingRefunds(c *fiber.Ctx) error {
	refunds, err := h.Service.FetchPendingRefunds(c.Context(), c.Params("venue"))
	if err != nil {
		h.logger.Errorf("Error on fetch refunds request: %s", err.Error())
		return h.mapError(c, "Error on fetch refunds request", err)
	}

	return c.Status(fiber.StatusOK).JSON(refunds)
}

func (h *Handlers) mapError(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, ErrInvalidOrder), errors.Is(err, ErrEmptyFiscalID):
		return errorResponse(c, fiber.StatusBadRequest, message, err)
	case errors.Is(err, ErrNoRecords):
		return errorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, ErrOrderAlreadyExists), errors.Is(err, ErrInvalidTransition):
		return errorResponse(c, fiber.StatusConflict, message, err)
	}

	h.logger.Errorw("storage failure", "path", c.Path(), "error", err)
	return errorResponse(c, fiber.StatusInternalServerError, message, errors.New("storage failure"))
}

func errorResponse(c *fiber.Ctx, status int, message string, err error) error {
	return c.Status(status).JSON(fiber.Map{"status": "error", "message": message, "data": err.Error()})
}

func orderIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("order_id"), 10, 64)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidOrder, "order id is not a number")
	}
	return id, nil
}
