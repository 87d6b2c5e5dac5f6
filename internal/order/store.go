// Package order drives the checkout workflow: create the order from a
// cart snapshot, upload the payment proof, and re-fetch server state.
// Once created, the backend owns the order; the store only caches its
// last known view, which goes stale the moment the backend moves the
// status and must be refreshed explicitly.
package order

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dummassdenzel/Mubu/internal/api"
	"github.com/dummassdenzel/Mubu/internal/cart"
	"github.com/dummassdenzel/Mubu/internal/domain"
	"github.com/dummassdenzel/Mubu/internal/reactive"
)

// ProofFieldName is the multipart field the proof image is sent under.
const ProofFieldName = "payment_proof"

// Client is the slice of the API client the order workflow needs.
type Client interface {
	Get(ctx context.Context, endpoint string) (*api.Envelope, error)
	Post(ctx context.Context, endpoint string, body any) (*api.Envelope, error)
	PostMultipart(ctx context.Context, endpoint string, fields map[string]string, fileField, filename string, file io.Reader) (*api.Envelope, error)
}

// CheckoutForm is what the customer fills in before submitting.
type CheckoutForm struct {
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerEmail   string `json:"customer_email" validate:"required,email"`
	CustomerPhone   string `json:"customer_phone" validate:"required"`
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

type Store struct {
	client   Client
	current  *reactive.Container[*domain.Order]
	validate *validator.Validate
}

func New(client Client) *Store {
	return &Store{
		client:   client,
		current:  reactive.New[*domain.Order](nil),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Subscribe observes the cached order; nil means no current order.
func (s *Store) Subscribe(fn func(*domain.Order)) func() {
	return s.current.Subscribe(fn)
}

// Current returns the cached order, or nil when none exists.
func (s *Store) Current() *domain.Order {
	return s.current.Get()
}

// CreateOrder submits a new order built from the checkout form and the
// given cart snapshot. items is passed by value, so cart edits made
// while the request is in flight do not leak into the submission. On
// success the store caches the server's view of the order, including
// the assigned id and status; on any failure the cached order is left
// unchanged and the caller decides whether to retry.
func (s *Store) CreateOrder(ctx context.Context, form CheckoutForm, items []domain.CartItem) (*domain.Order, error) {
	if err := s.validate.Struct(form); err != nil {
		return nil, fmt.Errorf("invalid checkout form: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	orderItems := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, domain.OrderItem{
			ProductID:   it.ID,
			ProductName: it.Name,
			Quantity:    it.Quantity,
			Price:       it.Price,
		})
	}

	payload := domain.Order{
		CustomerName:    form.CustomerName,
		CustomerEmail:   form.CustomerEmail,
		CustomerPhone:   form.CustomerPhone,
		ShippingAddress: form.ShippingAddress,
		TotalAmount:     cart.Total(items),
		OrderItems:      orderItems,
	}

	env, err := s.client.Post(ctx, "orders", payload)
	if err != nil {
		return nil, err
	}
	var created domain.Order
	if err := env.Bind(&created); err != nil {
		return nil, err
	}
	s.current.Set(&created)
	return &created, nil
}

// UploadPaymentProof sends the proof image for orderID and returns the
// stored file path. The cached order is not touched: the backend moves
// the order to pending_verification out-of-band, so callers re-fetch
// with GetOrder to observe the new status.
func (s *Store) UploadPaymentProof(ctx context.Context, orderID int64, filename string, file io.Reader) (string, error) {
	fields := map[string]string{"order_id": strconv.FormatInt(orderID, 10)}
	env, err := s.client.PostMultipart(ctx, "payment-proof", fields, ProofFieldName, filename, file)
	if err != nil {
		return "", err
	}
	var resp struct {
		FilePath string `json:"file_path"`
	}
	if err := env.Bind(&resp); err != nil {
		return "", err
	}
	return resp.FilePath, nil
}

// GetOrder refreshes the cached order from the backend.
func (s *Store) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	env, err := s.client.Get(ctx, fmt.Sprintf("orders/%d", orderID))
	if err != nil {
		return nil, err
	}
	var o domain.Order
	if err := env.Bind(&o); err != nil {
		return nil, err
	}
	s.current.Set(&o)
	return &o, nil
}

// GetReceipt is a pure read; it never touches the cached order.
func (s *Store) GetReceipt(ctx context.Context, orderID int64) (*domain.Receipt, error) {
	env, err := s.client.Get(ctx, fmt.Sprintf("receipt/%d", orderID))
	if err != nil {
		return nil, err
	}
	var r domain.Receipt
	if err := env.Bind(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

// ClearOrder forgets the cached order.
func (s *Store) ClearOrder() {
	s.current.Set(nil)
}
