package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/dto"
	"orderflow/internal/service"
)

type MFSHandler struct {
	manualService service.ManualPaymentService
}

func NewMFSHandler(manualService service.ManualPaymentService) *MFSHandler {
	return &MFSHandler{
		manualService: manualService,
	}
}

func (h *MFSHandler) Init(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ManualPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.manualService.Submit(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *MFSHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.manualService.List(ctx, c.QueryParam("status"))
	if err != nil {
		return httpError(err)
	}

	resp := make([]*dto.OrderResponse, len(orders))
	for i := range orders {
		resp[i] = dto.NewOrderResponse(&orders[i])
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *MFSHandler) Decide(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.DecisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	order, err := h.manualService.Decide(ctx, c.Param("id"), req.Action)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}
