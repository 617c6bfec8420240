package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/tixera/tixera/internal/api/dto"
	"github.com/tixera/tixera/internal/domain/taxrule"
	ierr "github.com/tixera/tixera/internal/errors"
	"github.com/tixera/tixera/internal/logger"
	"github.com/tixera/tixera/internal/service"
)

type TaxHandler struct {
	taxService        service.TaxService
	remittanceService service.RemittanceService
	catalogService    service.CatalogService
	logger            *logger.Logger
}

func NewTaxHandler(
	taxService service.TaxService,
	remittanceService service.RemittanceService,
	catalogService service.CatalogService,
	logger *logger.Logger,
) *TaxHandler {
	return &TaxHandler{
		taxService:        taxService,
		remittanceService: remittanceService,
		catalogService:    catalogService,
		logger:            logger,
	}
}

// @Summary Compute a tax breakdown
// @Description Compute the applicable levies and dues for a ticket sale
// @Tags Tax
// @Accept json
// @Produce json
// @Param request body dto.ApplyTaxRequest true "Ticket sale to evaluate"
// @Success 200 {object} dto.TaxBreakdownResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/apply [post]
func (h *TaxHandler) Apply(c *gin.Context) {
	var req dto.ApplyTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	result, err := h.taxService.Apply(c.Request.Context(), req.ToContext())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.TaxBreakdownResponse{Result: result})
}

// @Summary Schedule remittance obligations
// @Description Turn a computed breakdown into remittance obligations with due dates
// @Tags Tax
// @Accept json
// @Produce json
// @Param request body dto.ScheduleObligationsRequest true "Breakdown to schedule"
// @Success 200 {object} dto.ObligationsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/obligations [post]
func (h *TaxHandler) ScheduleObligations(c *gin.Context) {
	var req dto.ScheduleObligationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	obligations, err := h.remittanceService.Schedule(c.Request.Context(), req.Lines, req.ToContext())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.ObligationsResponse{Items: obligations})
}

// @Summary List catalog rules
// @Description List the rules of the current tax catalog snapshot
// @Tags Tax
// @Produce json
// @Success 200 {object} dto.ListTaxRulesResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tax/rules [get]
func (h *TaxHandler) ListRules(c *gin.Context) {
	snapshot, err := h.catalogService.Current()
	if err != nil {
		c.Error(err)
		return
	}

	items := lo.Map(snapshot.Rules(), func(rule *taxrule.TaxRule, _ int) *dto.TaxRuleResponse {
		return &dto.TaxRuleResponse{TaxRule: rule}
	})

	c.JSON(http.StatusOK, dto.ListTaxRulesResponse{
		Items:    items,
		LoadedAt: snapshot.LoadedAt(),
	})
}
