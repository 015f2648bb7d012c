package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/service"
)

type DrawService interface {
	RunDue(ctx context.Context) (service.DrawSummary, error)
	DrawRaffle(ctx context.Context, id uint) (domain.DrawOutcome, error)
}

type DrawHandler struct {
	svc DrawService
}

func NewDrawHandler(svc DrawService) *DrawHandler {
	return &DrawHandler{
		svc: svc,
	}
}

// HandleRunDraws godoc
// @Summary      Run the draw engine once
// @Description  Draws every raffle that is due now, the same way a scheduled run does
// @Tags         draws
// @Produce      json
// @Success      200  {object}  service.DrawSummary
// @Failure      500  {object}  response.Err
// @Router       /draws/run [post]
func (h *DrawHandler) HandleRunDraws(ctx *gin.Context) {
	summary, err := h.svc.RunDue(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleRunDraws -> h.svc.RunDue -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, summary)
}

// HandleDrawRaffle godoc
// @Summary      Draw a single raffle
// @Description  Draws one raffle whose draw date has passed
// @Tags         draws
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200       {object}  domain.DrawOutcome
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      422       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /raffles/{raffleID}/draw [post]
func (h *DrawHandler) HandleDrawRaffle(ctx *gin.Context) {
	raffleID, err := uintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrInvalidParam("raffleID", err))
		return
	}

	outcome, err := h.svc.DrawRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaffleNotFound):
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
		case errors.Is(err, service.ErrRaffleAlreadyClaimed):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrRaffleNotDue):
			response.RenderErr(ctx, response.ErrUnprocessable(err))
		default:
			err = fmt.Errorf("HandleDrawRaffle -> h.svc.DrawRaffle -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, outcome)
}
