package order

// Form holds the customer contact fields of the checkout page.
// swagger:model CheckoutForm
type Form struct {
	Name    string `json:"name"    validate:"required,max=200" example:"Ana Pérez"`
	Email   string `json:"email"   validate:"required,email"   example:"ana@example.com"`
	Address string `json:"address" validate:"required"         example:"Calle 10 # 4-20, Bogotá"`
}

// CheckoutRequest payload for checkout: contact fields plus payment method.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	Form
	PaymentInput
}

// BulkActionRequest payload for staff actions over many orders.
// swagger:model BulkActionRequest
type BulkActionRequest struct {
	Action string   `json:"action" binding:"required" example:"approve_return"`
	IDs    []string `json:"ids"    binding:"required,min=1"`
}

// BulkActionResponse reports how many orders actually changed.
// swagger:model BulkActionResponse
type BulkActionResponse struct {
	Transitioned int `json:"transitioned" example:"3"`
}

// Detail is an order with its receipt lines.
// swagger:model OrderDetail
type Detail struct {
	Order
	Items []Item `json:"items"`
}
