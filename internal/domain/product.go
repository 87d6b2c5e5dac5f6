package domain

// Product is a catalog entry. Products are read-only on the client;
// only the backend mutates them.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Series      string  `json:"series"`
	Size        string  `json:"size"`
	Material    string  `json:"material"`
	Stock       int     `json:"stock"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}
