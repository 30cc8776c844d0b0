package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"orderflow/internal/dto"
	"orderflow/internal/service"
)

type AutomationHandler struct {
	automationService service.AutomationService
}

func NewAutomationHandler(automationService service.AutomationService) *AutomationHandler {
	return &AutomationHandler{
		automationService: automationService,
	}
}

func (h *AutomationHandler) List(c echo.Context) error {
	subs, err := h.automationService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, subs)
}

func (h *AutomationHandler) Create(c echo.Context) error {
	var req dto.AutomationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sub, err := h.automationService.Create(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, sub)
}

func (h *AutomationHandler) Update(c echo.Context) error {
	id, err := subscriptionID(c)
	if err != nil {
		return err
	}

	var req dto.AutomationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sub, err := h.automationService.Update(c.Request().Context(), id, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, sub)
}

func (h *AutomationHandler) Delete(c echo.Context) error {
	id, err := subscriptionID(c)
	if err != nil {
		return err
	}

	if err := h.automationService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AutomationHandler) Test(c echo.Context) error {
	id, err := subscriptionID(c)
	if err != nil {
		return err
	}

	if err := h.automationService.Test(c.Request().Context(), id); err != nil {
		if httpErr := httpError(err); httpErr != err {
			return httpErr
		}
		return echo.NewHTTPError(http.StatusBadGateway, "webhook endpoint unreachable: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "delivered"})
}

func subscriptionID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid subscription id")
	}
	return uint(id), nil
}
