package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/route-gateway/internal/pkg/errors"
	"github.com/route-gateway/internal/pkg/utils"
	"github.com/route-gateway/internal/pkg/validator"
	"github.com/route-gateway/internal/usecase"
	"github.com/route-gateway/internal/usecase/dto"
	"go.uber.org/zap"
)

// SearchHandler - обработчик текстового поиска мест
type SearchHandler struct {
	searchUC *usecase.SearchUseCase
	logger   *zap.Logger
}

// NewSearchHandler - создание нового SearchHandler
func NewSearchHandler(searchUC *usecase.SearchUseCase, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// Search godoc
// @Summary Поиск мест по тексту
// @Description Ищет места в индексе мест провайдера (автодополнение). Ответ провайдера возвращается без изменений.
// @Tags Search
// @Produce json
// @Param text query string true "Поисковый запрос"
// @Param maxResults query int false "Максимальное количество результатов, передаётся провайдеру как есть" default(5)
// @Success 200 {object} map[string]interface{} "Ответ провайдера"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 502 {object} utils.ErrorResponse
// @Router /api/search/ [get]
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	req := dto.PlaceSearchRequest{
		Text:       c.Query("text"),
		MaxResults: usecase.DefaultMaxResults,
	}

	if raw := c.Query("maxResults"); raw != "" {
		// провайдер принимает int32, значения вне диапазона отклоняем
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
				"fields": map[string]interface{}{"maxResults": "int32"},
			}))
		}
		req.MaxResults = int(n)
	}

	// Валидация
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendRaw(c, result)
}
