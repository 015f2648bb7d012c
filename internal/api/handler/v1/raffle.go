package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api/handler/v1/request"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/api/handler/v1/response"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"
	"github.com/yizeng/gab/gin/gorm/raffle-draw/internal/service"
)

type RaffleService interface {
	GetRaffle(ctx context.Context, id uint) (domain.Raffle, error)
	GetWinners(ctx context.Context, id uint) ([]domain.WinnerRecord, error)
	ConfirmPayment(ctx context.Context, raffleID, ticketID uint, paid bool) (domain.Ticket, error)
}

type RaffleHandler struct {
	svc RaffleService
}

func NewRaffleHandler(svc RaffleService) *RaffleHandler {
	return &RaffleHandler{
		svc: svc,
	}
}

// HandleGetRaffle godoc
// @Summary      Get a raffle
// @Description  Returns the raffle with its current status and, once drawn, its winners
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200       {object}  domain.Raffle
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /raffles/{raffleID} [get]
func (h *RaffleHandler) HandleGetRaffle(ctx *gin.Context) {
	raffleID, err := uintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrInvalidParam("raffleID", err))
		return
	}

	raffle, err := h.svc.GetRaffle(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("HandleGetRaffle -> h.svc.GetRaffle -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, raffle)
}

// HandleGetWinners godoc
// @Summary      Get raffle winners
// @Description  Winners in prize order. Empty until the raffle is finished.
// @Tags         raffles
// @Produce      json
// @Param        raffleID  path      int  true  "Raffle ID"
// @Success      200       {object}  response.WinnersResponse
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /raffles/{raffleID}/winners [get]
func (h *RaffleHandler) HandleGetWinners(ctx *gin.Context) {
	raffleID, err := uintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrInvalidParam("raffleID", err))
		return
	}

	winners, err := h.svc.GetWinners(ctx.Request.Context(), raffleID)
	if err != nil {
		if errors.Is(err, service.ErrRaffleNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("raffle", "ID", raffleID))
			return
		}

		err = fmt.Errorf("HandleGetWinners -> h.svc.GetWinners -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.WinnersResponse{RaffleID: raffleID, Winners: winners})
}

// HandleConfirmPayment godoc
// @Summary      Confirm or revoke a ticket payment
// @Description  Updates the payment flag of a ticket. The raffle sold tickets counter follows asynchronously.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        raffleID  path      int                             true  "Raffle ID"
// @Param        ticketID  path      int                             true  "Ticket ID"
// @Param        input     body      request.ConfirmPaymentRequest  true  "Payment state"
// @Success      200       {object}  domain.Ticket
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /raffles/{raffleID}/tickets/{ticketID}/payment [put]
func (h *RaffleHandler) HandleConfirmPayment(ctx *gin.Context) {
	raffleID, err := uintParam(ctx, "raffleID")
	if err != nil {
		response.RenderErr(ctx, response.ErrInvalidParam("raffleID", err))
		return
	}
	ticketID, err := uintParam(ctx, "ticketID")
	if err != nil {
		response.RenderErr(ctx, response.ErrInvalidParam("ticketID", err))
		return
	}

	var input request.ConfirmPaymentRequest
	if err = ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err = input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.ConfirmPayment(ctx.Request.Context(), raffleID, ticketID, *input.IsPaid)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ticket", "ID", ticketID))
			return
		}

		err = fmt.Errorf("HandleConfirmPayment -> h.svc.ConfirmPayment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}
