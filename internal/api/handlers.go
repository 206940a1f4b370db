package api

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jeovahfialho/portfolio/internal/domain"
	"github.com/jeovahfialho/portfolio/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const Version = "1.0.0"

type EquityQuerier interface {
	LatestPrice(ctx context.Context, symbol domain.Symbol) (float64, error)
	Summary(ctx context.Context, symbol domain.Symbol, period domain.TimePeriod) (domain.EquitySummary, error)
}

type LookupLister interface {
	RecentLookups(ctx context.Context, limit int) ([]domain.Lookup, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	equity   EquityQuerier
	lookups  LookupLister
	checks   map[string]HealthChecker
	validate *validator.Validate
}

// NewHandler wires the API. lookups may be nil when no database is configured;
// checks lists the backing services probed by /ready.
func NewHandler(equity EquityQuerier, lookups LookupLister, checks map[string]HealthChecker) *Handler {
	if checks == nil {
		checks = map[string]HealthChecker{}
	}
	return &Handler{
		equity:   equity,
		lookups:  lookups,
		checks:   checks,
		validate: validator.New(),
	}
}

// GetLatestPrice godoc
// @Summary Último preço de fechamento
// @Param symbol path string true "Símbolo"
// @Success 200 {object} LatestPriceResponse
// @Failure 400,404,502 {object} ErrorResponse
// @Router /equity/{symbol}/latest-price [get]
func (h *Handler) GetLatestPrice(c *fiber.Ctx) error {
	start := time.Now()

	symbol, err := domain.NewSymbol(c.Params("symbol"))
	if err != nil {
		return h.fail(c, err)
	}

	price, err := h.equity.LatestPrice(c.UserContext(), symbol)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(LatestPriceResponse{
		Symbol:         symbol.String(),
		Price:          decimal.NewFromFloat(price),
		ProcessingTime: time.Since(start).String(),
	})
}

// GetSummary godoc
// @Summary Resumo de preços no período
// @Param symbol path string true "Símbolo"
// @Param period query string false "month, year ou all" default(year)
// @Success 200 {object} SummaryResponse
// @Failure 400,404,422,502 {object} ErrorResponse
// @Router /equity/{symbol}/summary [get]
func (h *Handler) GetSummary(c *fiber.Ctx) error {
	start := time.Now()

	symbol, err := domain.NewSymbol(c.Params("symbol"))
	if err != nil {
		return h.fail(c, err)
	}

	var req SummaryRequest
	if err := c.QueryParser(&req); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "parâmetros inválidos"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "period deve ser month, year ou all"))
	}

	periodStr := req.Period
	if periodStr == "" {
		periodStr = "year"
	}
	period, err := domain.ParseTimePeriod(periodStr)
	if err != nil {
		return h.fail(c, err)
	}

	summary, err := h.equity.Summary(c.UserContext(), symbol, period)
	if err != nil {
		return h.fail(c, err)
	}

	response := newSummaryResponse(symbol, period, summary)
	response.ProcessingTime = time.Since(start).String()

	return c.JSON(response)
}

func (h *Handler) GetLookups(c *fiber.Ctx) error {
	if h.lookups == nil {
		return h.fail(c, fiber.NewError(fiber.StatusNotFound, "registro de consultas desabilitado"))
	}

	var req LookupsRequest
	if err := c.QueryParser(&req); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "parâmetros inválidos"))
	}
	if err := h.validate.Struct(req); err != nil {
		return h.fail(c, fiber.NewError(fiber.StatusBadRequest, "limit deve estar entre 1 e 1000"))
	}

	lookups, err := h.lookups.RecentLookups(c.UserContext(), req.Limit)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(LookupsResponse{
		Data:  lookups,
		Count: len(lookups),
	})
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	services := make(map[string]ServiceHealth, len(h.checks))
	status := "ready"

	for name, check := range h.checks {
		checkStart := time.Now()
		if err := check.HealthCheck(ctx); err != nil {
			services[name] = ServiceHealth{
				Status: "unhealthy",
				Error:  err.Error(),
			}
			status = "not_ready"
			continue
		}
		services[name] = ServiceHealth{
			Status:  "healthy",
			Latency: time.Since(checkStart).String(),
		}
	}

	response := HealthResponse{
		Status:    status,
		Version:   Version,
		Timestamp: time.Now(),
		Services:  services,
	}

	if status != "ready" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}

	return c.JSON(response)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	code, message := errorStatus(err)

	log := logger.WithContext(c.UserContext())
	if code >= fiber.StatusInternalServerError {
		log.Error(message, zap.String("path", c.Path()), zap.Error(err))
	} else {
		log.Debug(message, zap.String("path", c.Path()), zap.Error(err))
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: getRequestID(c),
		Timestamp: time.Now(),
	})
}

// errorStatus maps the error taxonomy onto HTTP. Upstream failures are a bad
// gateway: the request was fine, the quotes API was not.
func errorStatus(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, domain.ErrInvalidSymbol), errors.Is(err, domain.ErrInvalidPeriod):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrEmptyResult):
		return fiber.StatusNotFound, "nenhum dado no período solicitado"
	case errors.Is(err, domain.ErrNonOrderable):
		return fiber.StatusUnprocessableEntity, "dados do provedor não comparáveis"
	case errors.Is(err, domain.ErrParse):
		return fiber.StatusBadGateway, "resposta inválida do provedor de cotações"
	case errors.Is(err, domain.ErrTransport):
		return fiber.StatusBadGateway, "erro ao consultar provedor de cotações"
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout, "tempo esgotado"
	default:
		return fiber.StatusInternalServerError, "erro interno"
	}
}

func getRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDLocal).(string); ok {
		return id
	}
	return ""
}
