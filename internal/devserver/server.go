// Package devserver is an in-memory stand-in for the production
// storefront API. It speaks the same response envelope over the same
// routes, so the client stores can be exercised end-to-end in tests
// and local development without the real backend.
package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dummassdenzel/Mubu/internal/domain"
)

// ReceiptPrefix plus the zero-padded order id forms the receipt number.
const ReceiptPrefix = "MUBU-"

const (
	maxProofSize = 7 << 20 // 7MB
	timeLayout   = "2006-01-02 15:04:05"
)

type Server struct {
	mu       sync.RWMutex
	products []domain.Product
	orders   map[int64]*domain.Order
	proofs   map[int64][]domain.PaymentProof
	nextID   int64

	router *chi.Mux
}

func New(products []domain.Product) *Server {
	s := &Server{
		products: products,
		orders:   make(map[int64]*domain.Order),
		proofs:   make(map[int64][]domain.PaymentProof),
		nextID:   1,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/products", s.listProducts)
	r.Get("/products/{id}", s.getProduct)
	r.Get("/orders", s.listOrders)
	r.Get("/orders/{id}", s.getOrder)
	r.Get("/receipt/{id}", s.getReceipt)
	r.Post("/orders", s.createOrder)
	r.Post("/payment-proof", s.uploadPaymentProof)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetOrderStatus plays the admin side of the workflow (marking an
// order paid, completed, ...), so callers can observe status
// transitions through the order endpoints. Returns false when the
// order does not exist.
func (s *Server) SetOrderStatus(id int64, status domain.OrderStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return false
	}
	o.Status = status
	o.UpdatedAt = time.Now().Format(timeLayout)
	return true
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	success(w, "Successfully retrieved products", s.products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid product id")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			success(w, "Successfully retrieved products", p)
			return
		}
	}
	failure(w, http.StatusNotFound, "Product not found")
}

func (s *Server) listOrders(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		orders = append(orders, *o)
	}
	success(w, "Successfully retrieved orders", orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid order id")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		failure(w, http.StatusNotFound, "Order not found")
		return
	}
	success(w, "Successfully retrieved order", *o)
}

func (s *Server) getReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid order id")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		failure(w, http.StatusNotFound, "Order not found")
		return
	}
	receipt := domain.Receipt{
		Order:         *o,
		ReceiptNumber: fmt.Sprintf("%s%06d", ReceiptPrefix, o.ID),
	}
	if proofs := s.proofs[o.ID]; len(proofs) > 0 {
		receipt.PaymentDate = proofs[len(proofs)-1].UploadedAt // latest proof wins
	}
	success(w, "Successfully retrieved receipt", receipt)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var o domain.Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		failure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(o.OrderItems) == 0 {
		failure(w, http.StatusBadRequest, "order has no items")
		return
	}

	// The client-computed total is never trusted blindly.
	var total float64
	for _, it := range o.OrderItems {
		total += it.Price * float64(it.Quantity)
	}
	if math.Abs(total-o.TotalAmount) > 0.001 {
		failure(w, http.StatusBadRequest, "total_amount does not match order items")
		return
	}

	s.mu.Lock()
	o.ID = s.nextID
	s.nextID++
	o.Status = domain.OrderStatusPending
	now := time.Now().Format(timeLayout)
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.OrderItems {
		o.OrderItems[i].ID = int64(i + 1)
		o.OrderItems[i].OrderID = o.ID
	}
	s.orders[o.ID] = &o
	s.mu.Unlock()

	success(w, "Order created successfully", o)
}

func (s *Server) uploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxProofSize); err != nil {
		failure(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	orderID, err := strconv.ParseInt(r.FormValue("order_id"), 10, 64)
	if err != nil {
		failure(w, http.StatusBadRequest, "invalid order_id")
		return
	}

	file, header, err := r.FormFile("payment_proof")
	if err != nil {
		failure(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProofSize+1))
	if err != nil {
		failure(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if len(data) > maxProofSize {
		failure(w, http.StatusBadRequest, "File is too large. Maximum size is 7MB")
		return
	}
	if !allowedImage(data) {
		failure(w, http.StatusBadRequest, "Invalid file type. Only JPEG, PNG and GIF are allowed")
		return
	}

	s.mu.Lock()
	o, ok := s.orders[orderID]
	if !ok {
		s.mu.Unlock()
		failure(w, http.StatusNotFound, "Order not found")
		return
	}
	filename := uuid.NewString() + filepath.Ext(header.Filename)
	s.proofs[orderID] = append(s.proofs[orderID], domain.PaymentProof{
		OrderID:    orderID,
		FilePath:   filename,
		UploadedAt: time.Now().Format(timeLayout),
	})
	o.Status = domain.OrderStatusPendingVerification
	o.UpdatedAt = time.Now().Format(timeLayout)
	s.mu.Unlock()

	success(w, "Payment proof uploaded successfully", map[string]string{"file_path": filename})
}

func allowedImage(data []byte) bool {
	switch http.DetectContentType(data) {
	case "image/jpeg", "image/png", "image/gif":
		return true
	}
	return false
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

type statusBody struct {
	Remarks string `json:"remarks"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type envelope struct {
	Status  statusBody `json:"status"`
	Payload any        `json:"payload"`
}

func success(w http.ResponseWriter, message string, payload any) {
	respond(w, http.StatusOK, "success", message, payload)
}

func failure(w http.ResponseWriter, code int, message string) {
	respond(w, code, "failed", message, nil)
}

func respond(w http.ResponseWriter, code int, remarks, message string, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	env := envelope{
		Status:  statusBody{Remarks: remarks, Message: message, Code: code},
		Payload: payload,
	}
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
