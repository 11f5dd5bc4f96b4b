package v1

import (
	"errors"
	"net/url"

	"github.com/Kha-Noob/liteflow-sub002/internal/api/contract"
	"github.com/Kha-Noob/liteflow-sub002/internal/api/validator"
	"github.com/Kha-Noob/liteflow-sub002/internal/config"
	"github.com/Kha-Noob/liteflow-sub002/internal/constants"
	"github.com/Kha-Noob/liteflow-sub002/internal/metrics"
	"github.com/Kha-Noob/liteflow-sub002/internal/service"
	"github.com/Kha-Noob/liteflow-sub002/pkg/paymentgateway"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const resultStatusError = "ERROR"

type Handler struct {
	logger        *zap.Logger
	payments      service.PaymentRequestService
	callbacks     service.CallbackValidator
	reconciler    service.ReconcileService
	XValidator    validator.IXValidator
	metrics       *metrics.Metrics
	resultPageURL string
}

func NewHandler(logger *zap.Logger, payments service.PaymentRequestService, callbacks service.CallbackValidator,
	reconciler service.ReconcileService, XValidator validator.IXValidator, metrics *metrics.Metrics,
	cfg *config.Config) *Handler {
	return &Handler{
		logger:        logger,
		payments:      payments,
		callbacks:     callbacks,
		reconciler:    reconciler,
		XValidator:    XValidator,
		metrics:       metrics,
		resultPageURL: cfg.Gateway.ResultPageURL,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	var handlerRequest CreatePaymentRequest

	responseError := h.XValidator.Validator(&handlerRequest, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Invalid payment request", zap.String("message", responseError.Message))
		return c.JSON(responseError)
	}

	cmd := service.CreatePaymentCommand{
		SessionID:   handlerRequest.SessionID,
		TableID:     handlerRequest.TableID,
		OrderID:     handlerRequest.OrderID,
		Amount:      handlerRequest.Amount,
		ClientIP:    c.IP(),
		InitiatedBy: handlerRequest.InitiatedBy,
		Description: handlerRequest.Description,
		BankCode:    handlerRequest.BankCode,
	}

	result, err := h.payments.CreateRequest(c.UserContext(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("payment request created", result))
}

func (h *Handler) GetTransaction(c *fiber.Ctx) error {
	view, err := h.payments.GetTransaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(contract.Success("", view))
}

// Return handles the browser redirect from the gateway. It always answers with a redirect
// to the result page, whatever happened.
func (h *Handler) Return(c *fiber.Ctx) error {
	raw := string(c.Request().URI().QueryString())

	callback, err := h.callbacks.ValidateReturn(raw)
	if err != nil {
		h.metrics.RecordCallback(string(service.ChannelReturn), "rejected")
		return h.redirectError(c, err)
	}

	result, err := h.reconciler.Reconcile(c.UserContext(), callback, false)
	if err != nil {
		h.metrics.RecordCallback(string(service.ChannelReturn), "error")
		return h.redirectError(c, err)
	}

	h.metrics.RecordCallback(string(service.ChannelReturn), callbackOutcome(result))

	return h.redirect(c, url.Values{
		"transactionId": {result.TransactionID},
		"status":        {string(result.Status)},
		"responseCode":  {result.ResponseCode},
		"message":       {result.Message},
	})
}

// IPN handles the gateway's server-to-server notification. The gateway only understands the
// plain-text tokens, so no error ever reaches the error handler from here.
func (h *Handler) IPN(c *fiber.Ctx) error {
	raw := string(c.Request().URI().QueryString())
	if c.Method() == fiber.MethodPost && len(c.Body()) > 0 {
		raw = string(c.Body())
	}

	callback, err := h.callbacks.ValidateIPN(raw)
	if err != nil {
		h.metrics.RecordCallback(string(service.ChannelIPN), "rejected")
		return h.ack(c, ipnToken(err))
	}

	result, err := h.reconciler.Reconcile(c.UserContext(), callback, true)
	if err != nil {
		h.metrics.RecordCallback(string(service.ChannelIPN), "error")
		return h.ack(c, ipnToken(err))
	}

	h.metrics.RecordCallback(string(service.ChannelIPN), callbackOutcome(result))

	return h.ack(c, paymentgateway.IPNAckOK)
}

func (h *Handler) ack(c *fiber.Ctx, token string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(token)
}

func (h *Handler) redirectError(c *fiber.Ctx, err error) error {
	code := errorCode(err)
	return h.redirect(c, url.Values{
		"status":  {resultStatusError},
		"code":    {code},
		"message": {constants.GetErrorMessage(code)},
	})
}

func (h *Handler) redirect(c *fiber.Ctx, params url.Values) error {
	target, err := url.Parse(h.resultPageURL)
	if err != nil {
		h.logger.Error("Invalid result page url", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString(constants.ErrMsgInternalError)
	}

	query := target.Query()
	for key, values := range params {
		if len(values) > 0 && values[0] != "" {
			query.Set(key, values[0])
		}
	}
	target.RawQuery = query.Encode()

	return c.Redirect(target.String(), fiber.StatusFound)
}

func errorCode(err error) string {
	var serviceErr service.Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return constants.ErrCodeInternalError
}

func ipnToken(err error) string {
	switch errorCode(err) {
	case constants.ErrCodeInvalidSignature, constants.ErrCodeMalformedCallback:
		return paymentgateway.IPNAckInvalidHash
	case constants.ErrCodeTransactionNotFound:
		return paymentgateway.IPNAckNotFound
	default:
		return paymentgateway.IPNAckRetry
	}
}

func callbackOutcome(result service.ReconciliationResult) string {
	if result.Replay {
		return "replay"
	}
	return string(result.Status)
}
