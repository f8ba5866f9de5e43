package request

type CreateOfferingRequest struct {
	Name                     string `json:"name" validate:"required,min=3,max=100"`
	Description              string `json:"description" validate:"max=500"`
	Capacity                 int    `json:"capacity" validate:"required,min=1"`
	AdvancePaymentPercentage *int   `json:"advance_payment_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type UpdateOfferingRequest struct {
	Name                     string `json:"name" validate:"required,min=3,max=100"`
	Description              string `json:"description" validate:"max=500"`
	Capacity                 int    `json:"capacity" validate:"required,min=1"`
	AdvancePaymentPercentage *int   `json:"advance_payment_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Enabled                  *bool  `json:"enabled,omitempty"`
}
