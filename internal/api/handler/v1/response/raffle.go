package response

import "github.com/yizeng/gab/gin/gorm/raffle-draw/internal/domain"

type WinnersResponse struct {
	RaffleID uint                  `json:"raffle_id"`
	Winners  []domain.WinnerRecord `json:"winners"`
}
