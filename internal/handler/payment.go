package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/config"
	"orderflow/internal/dto"
	"orderflow/internal/model"
	"orderflow/internal/service"
)

type PaymentHandler struct {
	checkoutService service.CheckoutService
	pages           config.Payment
}

func NewPaymentHandler(checkoutService service.CheckoutService, pages config.Payment) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
		pages:           pages,
	}
}

func (h *PaymentHandler) Init(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.checkoutService.InitiateCheckout(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) Success(c echo.Context) error {
	return h.callback(c, service.CallbackSuccess)
}

func (h *PaymentHandler) Fail(c echo.Context) error {
	return h.callback(c, service.CallbackFail)
}

func (h *PaymentHandler) Cancel(c echo.Context) error {
	return h.callback(c, service.CallbackCancel)
}

// callback resolves the gateway redirect and sends the customer's browser to
// the page matching the validated outcome, not the URL the gateway hit.
func (h *PaymentHandler) callback(c echo.Context, kind service.CallbackKind) error {
	ctx := c.Request().Context()
	ref := c.Param("reference")

	var req dto.GatewayCallbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid callback body")
	}

	order, err := h.checkoutService.HandleCallback(ctx, ref, kind, req.ValID)
	if err != nil {
		return httpError(err)
	}

	switch order.PaymentStatus {
	case model.PaymentPaid:
		return c.Redirect(http.StatusFound, h.pages.SuccessRedirect)
	case model.PaymentCancelled:
		return c.Redirect(http.StatusFound, h.pages.CancelRedirect)
	default:
		return c.Redirect(http.StatusFound, h.pages.FailRedirect)
	}
}
