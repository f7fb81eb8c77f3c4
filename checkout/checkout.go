package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"heritage/appstate"
	"heritage/backend"
	"heritage/filemgr"
	"heritage/models"
	"heritage/mq"

	"github.com/rs/zerolog"
)

const (
	FreeShippingThreshold int64 = 50000
	ShippingFee           int64 = 1500

	FallbackError = "Failed to place order. Please try again."
)

// ErrInProgress rejects a checkout while another one for the same cart is
// still waiting on the backend.
var ErrInProgress = errors.New("checkout already in progress")

// Form is what the visitor fills in on the checkout page.
type Form struct {
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Phone         string               `json:"phone"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	PostalCode    string               `json:"postalCode"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
}

type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Total    int64 `json:"total"`
}

// ShippingFor is free at or above the threshold.
func ShippingFor(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

func ComputeTotals(lines []models.CartLine) Totals {
	var sub int64
	for _, l := range lines {
		sub += l.LineTotal()
	}
	ship := ShippingFor(sub)
	return Totals{Subtotal: sub, Shipping: ship, Total: sub + ship}
}

// AmountToFreeShipping is how much more the visitor must spend to stop
// paying for shipping. Zero once the threshold is reached.
func AmountToFreeShipping(subtotal int64) int64 {
	if subtotal >= FreeShippingThreshold {
		return 0
	}
	return FreeShippingThreshold - subtotal
}

// ValidationError is a problem with the visitor's input. It is reported
// before any backend call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks the form, the cart and the payment proof. On success it
// returns the inspected proof, which is nil for cash on delivery.
func Validate(form Form, cart []models.CartLine, proof *models.Attachment) (*models.Attachment, error) {
	if len(cart) == 0 {
		return nil, &ValidationError{Field: "cart", Message: "Your cart is empty"}
	}

	required := []struct{ field, value, label string }{
		{"name", form.Name, "Name"},
		{"email", form.Email, "Email"},
		{"phone", form.Phone, "Phone"},
		{"address", form.Address, "Address"},
		{"city", form.City, "City"},
		{"postalCode", form.PostalCode, "Postal code"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &ValidationError{Field: r.field, Message: r.label + " is required"}
		}
	}

	switch form.PaymentMethod {
	case models.PaymentCOD:
		return nil, nil
	case models.PaymentBankTransfer:
	default:
		return nil, &ValidationError{Field: "paymentMethod", Message: "Please choose a payment method"}
	}

	if proof == nil || len(proof.Data) == 0 {
		return nil, &ValidationError{Field: "paymentScreenshot", Message: "Please upload a payment screenshot for bank transfer"}
	}
	checked, err := filemgr.Inspect(proof.Filename, proof.ContentType, proof.Data, filemgr.PicProof)
	if err != nil {
		return nil, ProofError(err)
	}
	return &checked, nil
}

// ProofError turns a rejected upload into the message shown next to the
// payment screenshot field.
func ProofError(err error) *ValidationError {
	msg := "Invalid image file. Please upload a valid JPEG or PNG."
	switch {
	case errors.Is(err, filemgr.ErrFileTooLarge):
		msg = "File size exceeds 5MB limit"
	case errors.Is(err, filemgr.ErrInvalidMIME), errors.Is(err, filemgr.ErrInvalidExtension):
		msg = "Only JPEG and PNG images are allowed"
	}
	return &ValidationError{Field: "paymentScreenshot", Message: msg}
}

// BuildRequest snapshots the cart into an order creation payload.
func BuildRequest(form Form, cart []models.CartLine) models.OrderRequest {
	items := make([]models.OrderItem, len(cart))
	for i, l := range cart {
		items[i] = models.OrderItem{
			ProductID:     l.ProductID,
			Name:          l.Name,
			Price:         l.Price,
			Quantity:      l.Quantity,
			SelectedSize:  l.SelectedSize,
			SelectedColor: l.SelectedColor,
			Image:         l.Image,
		}
	}
	t := ComputeTotals(cart)
	return models.OrderRequest{
		Items: items,
		Customer: models.Customer{
			Name:    strings.TrimSpace(form.Name),
			Email:   strings.TrimSpace(form.Email),
			Phone:   strings.TrimSpace(form.Phone),
			Address: strings.Join([]string{strings.TrimSpace(form.Address), strings.TrimSpace(form.City), strings.TrimSpace(form.PostalCode)}, ", "),
		},
		Subtotal:      t.Subtotal,
		Shipping:      t.Shipping,
		Total:         t.Total,
		PaymentMethod: form.PaymentMethod,
		Status:        models.StatusPending,
	}
}

// SubmitError is a failed order placement. Message is safe to show.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }
func (e *SubmitError) Unwrap() error { return e.Err }

type Result struct {
	OrderID  string `json:"orderId"`
	Redirect string `json:"redirect"`
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req models.OrderRequest, proof *models.Attachment) (models.Order, error)
}

type Service struct {
	orders OrderCreator
	events *mq.Emitter
	log    zerolog.Logger

	mu       sync.Mutex
	inFlight map[*appstate.Store]struct{}
}

func NewService(orders OrderCreator, events *mq.Emitter, log zerolog.Logger) *Service {
	return &Service{orders: orders, events: events, log: log, inFlight: make(map[*appstate.Store]struct{})}
}

func (s *Service) acquire(store *appstate.Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[store]; busy {
		return false
	}
	s.inFlight[store] = struct{}{}
	return true
}

func (s *Service) release(store *appstate.Store) {
	s.mu.Lock()
	delete(s.inFlight, store)
	s.mu.Unlock()
}

// Submit places an order for the store's current cart. Once the backend
// accepts it, exactly the ordered lines leave the cart. A second Submit for
// the same store fails with ErrInProgress until the first returns.
func (s *Service) Submit(ctx context.Context, store *appstate.Store, form Form, proof *models.Attachment) (Result, error) {
	if !s.acquire(store) {
		return Result{}, ErrInProgress
	}
	defer s.release(store)

	cart := store.State().Cart

	checked, err := Validate(form, cart, proof)
	if err != nil {
		return Result{}, err
	}

	order, err := s.orders.CreateOrder(ctx, BuildRequest(form, cart), checked)
	if err != nil {
		s.log.Error().Err(err).Str("payment_method", string(form.PaymentMethod)).Msg("checkout failed")
		return Result{}, &SubmitError{Message: backend.UserMessage(err, FallbackError), Err: err}
	}
	if order.ID == "" {
		err := errors.New("backend returned an order without id")
		s.log.Error().Err(err).Msg("checkout failed")
		return Result{}, &SubmitError{Message: FallbackError, Err: err}
	}

	store.Dispatch(appstate.ClearOrdered{Lines: cart})
	s.events.Emit(ctx, mq.OrderCreated, order.ID)
	s.log.Info().Str("order_id", order.ID).Int("lines", len(cart)).Msg("order placed")

	return Result{OrderID: order.ID, Redirect: "/order-success/" + order.ID}, nil
}
