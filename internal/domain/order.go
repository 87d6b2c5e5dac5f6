package domain

// OrderStatus is the server-owned lifecycle state of an order. The
// client never advances it locally; it only observes new values by
// re-fetching the order.
type OrderStatus string

const (
	OrderStatusPending             OrderStatus = "pending"
	OrderStatusPaid                OrderStatus = "paid"
	OrderStatusCompleted           OrderStatus = "completed"
	OrderStatusCancelled           OrderStatus = "cancelled"
	OrderStatusPendingVerification OrderStatus = "pending_verification"
)

// IsTerminal reports whether the order can still change state.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem snapshots a product's name and price at order time, so a
// later catalog price change cannot alter an already placed order.
type OrderItem struct {
	ID          int64   `json:"id,omitempty"`
	OrderID     int64   `json:"order_id,omitempty"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

type Order struct {
	ID              int64       `json:"id,omitempty"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email"`
	CustomerPhone   string      `json:"customer_phone"`
	ShippingAddress string      `json:"shipping_address"`
	TotalAmount     float64     `json:"total_amount"`
	Status          OrderStatus `json:"status,omitempty"`
	CreatedAt       string      `json:"created_at,omitempty"`
	UpdatedAt       string      `json:"updated_at,omitempty"`
	OrderItems      []OrderItem `json:"order_items"`
}

// Receipt is the order as served by the receipt endpoint, with the
// derived receipt number and payment date joined in.
type Receipt struct {
	Order
	ReceiptNumber string `json:"receipt_number"`
	PaymentDate   string `json:"payment_date,omitempty"`
}

// PaymentProof records one uploaded proof image for an order. An order
// can accumulate several; the latest one wins for verification.
type PaymentProof struct {
	ID         int64  `json:"id,omitempty"`
	OrderID    int64  `json:"order_id"`
	FilePath   string `json:"file_path,omitempty"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}
