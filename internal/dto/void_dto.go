package dto

// Void requests all require an audit reason of at least 3 characters.

type VoidItemRequest struct {
	OrderItemID string  `json:"order_item_id" validate:"required,uuid"`
	Quantity    int     `json:"quantity"      validate:"required,min=1"`
	Reason      string  `json:"reason"        validate:"required,min=3"`
	Note        *string `json:"note"`
}

type VoidOrderRequest struct {
	OrderID string  `json:"order_id" validate:"required,uuid"`
	Reason  string  `json:"reason"   validate:"required,min=3"`
	Note    *string `json:"note"`
}

type VoidCheckRequest struct {
	CheckID string  `json:"check_id" validate:"required,uuid"`
	Reason  string  `json:"reason"   validate:"required,min=3"`
	Note    *string `json:"note"`
}

type VoidRecordResponse struct {
	ID        string  `json:"id"`
	Target    string  `json:"target"`
	TargetID  string  `json:"target_id"`
	Reason    string  `json:"reason"`
	VoidedBy  string  `json:"voided_by"`
	Note      *string `json:"note,omitempty"`
	CreatedAt string  `json:"created_at"`
}
