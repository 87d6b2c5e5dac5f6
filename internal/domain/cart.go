package domain

// CartItem is a single line in the customer's cart. Quantity is always
// at least 1; an entry that would drop to zero is removed instead of
// being stored with a zero quantity.
type CartItem struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
	Quantity int     `json:"quantity"`
}
