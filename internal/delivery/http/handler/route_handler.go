package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/route-gateway/internal/pkg/errors"
	"github.com/route-gateway/internal/pkg/utils"
	"github.com/route-gateway/internal/pkg/validator"
	"github.com/route-gateway/internal/usecase"
	"github.com/route-gateway/internal/usecase/dto"
	"go.uber.org/zap"
)

// RouteHandler - обработчик расчёта маршрутов
type RouteHandler struct {
	routeUC *usecase.RouteUseCase
	logger  *zap.Logger
}

// NewRouteHandler - создание нового RouteHandler
func NewRouteHandler(routeUC *usecase.RouteUseCase, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		routeUC: routeUC,
		logger:  logger,
	}
}

// GetRoute godoc
// @Summary Маршрут между двумя точками
// @Description Рассчитывает маршрут на время DepartureTime (по умолчанию - момент запроса). Ответ провайдера возвращается без изменений.
// @Tags Routes
// @Accept json
// @Produce json
// @Param request body dto.RouteRequest true "Точки [lon, lat] и время отправления"
// @Success 200 {object} map[string]interface{} "Ответ провайдера"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/getRoute/ [post]
func (h *RouteHandler) GetRoute(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.routeUC.GetRoute(c.Context(), *req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendRaw(c, result)
}

// GetRoutes godoc
// @Summary Маршруты на завтра по расписанию
// @Description Рассчитывает маршрут на завтра в 01:00, 09:00, 12:00 и 17:15. data[i] соответствует i-му времени. DepartureTime из запроса не используется. Ошибка любого из расчётов - ошибка всего запроса.
// @Tags Routes
// @Accept json
// @Produce json
// @Param request body dto.RouteRequest true "Точки [lon, lat]"
// @Success 200 {object} dto.MultiRouteResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/getRoutes [post]
func (h *RouteHandler) GetRoutes(c *fiber.Ctx) error {
	req, err := h.parseRequest(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.routeUC.GetRoutes(c.Context(), *req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return c.JSON(result)
}

func (h *RouteHandler) parseRequest(c *fiber.Ctx) (*dto.RouteRequest, error) {
	var req dto.RouteRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("Invalid route request body", zap.Error(err))
		return nil, errors.ErrInvalidBody.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		})
	}

	if err := validator.Validate(&req); err != nil {
		return nil, err
	}

	return &req, nil
}
