package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type ConfirmPaymentRequest struct {
	IsPaid *bool `json:"is_paid"`
}

func (req *ConfirmPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.IsPaid, validation.NotNil),
	)
}
