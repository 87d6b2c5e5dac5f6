package devserver_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dummassdenzel/Mubu/internal/api"
	"github.com/dummassdenzel/Mubu/internal/cart"
	"github.com/dummassdenzel/Mubu/internal/catalog"
	"github.com/dummassdenzel/Mubu/internal/devserver"
	"github.com/dummassdenzel/Mubu/internal/domain"
	"github.com/dummassdenzel/Mubu/internal/kvstore"
	"github.com/dummassdenzel/Mubu/internal/order"
)

// pngBytes is a minimal payload the content sniffer identifies as image/png.
var pngBytes = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)

func seed() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Classic Tote", Description: "Canvas tote", Price: 450, Category: "Bags", Series: "Classic", Stock: 10},
		{ID: 2, Name: "Keychain", Description: "Crocheted keychain", Price: 120, Category: "Accessories", Series: "Classic", Stock: 30},
	}
}

func newClient(t *testing.T) (*api.Client, *devserver.Server) {
	t.Helper()
	srv := devserver.New(seed())
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return api.New(ts.URL), srv
}

func TestCatalogFetchAgainstDevServer(t *testing.T) {
	client, _ := newClient(t)
	products := catalog.New(client)

	require.NoError(t, products.FetchProducts(context.Background()))
	assert.Len(t, products.Products(), 2)

	products.SetCategory("Bags")
	got := products.Products()
	require.Len(t, got, 1)
	assert.Equal(t, "Classic Tote", got[0].Name)
}

func TestCheckoutFlow_EndToEnd(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	cartStore := cart.New(kvstore.NewMemory())
	cartStore.AddToCart(domain.CartItem{ID: 1, Name: "Classic Tote", Price: 450})
	cartStore.AddToCart(domain.CartItem{ID: 1, Name: "Classic Tote", Price: 450})
	cartStore.AddToCart(domain.CartItem{ID: 2, Name: "Keychain", Price: 120})

	orders := order.New(client)
	form := order.CheckoutForm{
		CustomerName:    "Ana Cruz",
		CustomerEmail:   "ana@example.com",
		CustomerPhone:   "09171234567",
		ShippingAddress: "123 Mabini St, Manila",
	}

	created, err := orders.CreateOrder(ctx, form, cartStore.Items())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	assert.Equal(t, 1020.0, created.TotalAmount)
	require.Len(t, created.OrderItems, 2)
	assert.Equal(t, created.ID, created.OrderItems[0].OrderID)

	// proof upload succeeds but leaves the cached order untouched
	path, err := orders.UploadPaymentProof(ctx, created.ID, "proof.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.Equal(t, domain.OrderStatusPending, orders.Current().Status)

	// the new status becomes visible only on explicit re-fetch
	refreshed, err := orders.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPendingVerification, refreshed.Status)

	receipt, err := orders.GetReceipt(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "MUBU-000001", receipt.ReceiptNumber)
	assert.NotEmpty(t, receipt.PaymentDate)
}

func TestCreateOrder_DevServerRejectsTotalMismatch(t *testing.T) {
	client, _ := newClient(t)

	payload := domain.Order{
		CustomerName:    "Ana Cruz",
		CustomerEmail:   "ana@example.com",
		CustomerPhone:   "09171234567",
		ShippingAddress: "123 Mabini St, Manila",
		TotalAmount:     1, // wrong on purpose
		OrderItems: []domain.OrderItem{
			{ProductID: 1, ProductName: "Classic Tote", Quantity: 2, Price: 450},
		},
	}

	_, err := client.Post(context.Background(), "orders", payload)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "total_amount")
}

func TestUploadPaymentProof_RejectsNonImage(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	orders := order.New(client)
	form := order.CheckoutForm{
		CustomerName:    "Ana Cruz",
		CustomerEmail:   "ana@example.com",
		CustomerPhone:   "09171234567",
		ShippingAddress: "123 Mabini St, Manila",
	}
	created, err := orders.CreateOrder(ctx, form, []domain.CartItem{{ID: 2, Name: "Keychain", Price: 120, Quantity: 1}})
	require.NoError(t, err)

	_, err = orders.UploadPaymentProof(ctx, created.ID, "proof.txt", bytes.NewReader([]byte("plain text, not an image")))

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "Invalid file type")

	// order status is unchanged on a rejected upload
	refreshed, err := orders.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, refreshed.Status)
}

func TestUploadPaymentProof_UnknownOrder(t *testing.T) {
	client, _ := newClient(t)
	orders := order.New(client)

	_, err := orders.UploadPaymentProof(context.Background(), 999, "proof.png", bytes.NewReader(pngBytes))

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Order not found", apiErr.Message)
}

func TestSetOrderStatus_DrivesServerSideTransitions(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()

	orders := order.New(client)
	form := order.CheckoutForm{
		CustomerName:    "Ana Cruz",
		CustomerEmail:   "ana@example.com",
		CustomerPhone:   "09171234567",
		ShippingAddress: "123 Mabini St, Manila",
	}
	created, err := orders.CreateOrder(ctx, form, []domain.CartItem{{ID: 1, Name: "Classic Tote", Price: 450, Quantity: 1}})
	require.NoError(t, err)

	require.True(t, srv.SetOrderStatus(created.ID, domain.OrderStatusPaid))
	assert.False(t, srv.SetOrderStatus(999, domain.OrderStatusPaid))

	refreshed, err := orders.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, refreshed.Status)
}

func TestGetProduct_NotFound(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.Get(context.Background(), "products/999")

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Product not found", apiErr.Message)
}
