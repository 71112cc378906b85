package hr

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/celestiq/interviewer/internal/dto"
	"github.com/celestiq/interviewer/internal/service"
)

type HRController struct {
	hrService service.HRService
}

func NewHRController(hs service.HRService) *HRController {
	return &HRController{hrService: hs}
}

// ListInterviews godoc
// @Summary (HR) List all interview results
// @Description Returns every recorded session with aggregates recomputed from the raw question units.
// @Tags HR
// @Produce json
// @Success 200 {array} service.InterviewResult
// @Failure 500 {object} dto.ErrorResponse
// @Router /hr/interviews [get]
func (c *HRController) ListInterviews(ctx *gin.Context) {
	results, err := c.hrService.ListResults(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("HR ListInterviews: failed to load results")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load interview results"})
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// CategoryAnalytics godoc
// @Summary (HR) Per-category score analytics
// @Description Average score and answer count per interview category across all candidates.
// @Tags HR
// @Produce json
// @Success 200 {array} service.CategoryStat
// @Failure 500 {object} dto.ErrorResponse
// @Router /hr/analytics [get]
func (c *HRController) CategoryAnalytics(ctx *gin.Context) {
	stats, err := c.hrService.CategoryAnalytics(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("HR CategoryAnalytics: failed to compute stats")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to compute analytics"})
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// ExportInterviews godoc
// @Summary (HR) Export all results as a spreadsheet
// @Description Downloads an xlsx workbook with a per-session summary sheet and a per-answer detail sheet.
// @Tags HR
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} dto.ErrorResponse
// @Router /hr/interviews/export [get]
func (c *HRController) ExportInterviews(ctx *gin.Context) {
	data, err := c.hrService.ExportResults(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("HR ExportInterviews: failed to build workbook")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to export interview results"})
		return
	}

	filename := fmt.Sprintf("interviews-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
