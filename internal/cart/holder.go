package cart

import (
	"context"
	"log/slog"
	"sync"

	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/MaximoGamba/DemoEcommers/internal/metrics"
	"github.com/MaximoGamba/DemoEcommers/internal/models"
	"github.com/shopspring/decimal"
)

// Backend is the slice of the REST client the holder needs. The full cart
// endpoint surface lives on api.Client; this keeps the holder testable with a
// small fake.
type Backend interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, req models.AddItemRequest) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, itemID int64) (*models.Cart, error)
	ClearCart(ctx context.Context) (*models.Cart, error)
	TransferCart(ctx context.Context, userID int64) (*models.Cart, error)
}

// Result is the outcome of a cart mutation: the flag tells the caller whether
// the cart changed, the message is ready to show to the shopper either way.
type Result struct {
	Success bool
	Message string
}

// Holder owns the client-side copy of the cart. The backend is the source of
// truth; every mutation round-trips and replaces the local snapshot with the
// server's answer. A single mutex serializes mutations so two concurrent adds
// cannot interleave and publish a stale snapshot.
type Holder struct {
	backend Backend
	logger  *slog.Logger

	mu   sync.Mutex
	cart *models.Cart
}

func NewHolder(backend Backend, logger *slog.Logger) *Holder {
	return &Holder{
		backend: backend,
		logger:  logger,
		cart:    models.NewEmptyCart(),
	}
}

// Cart returns the current snapshot. The pointer is shared; callers must not
// mutate it.
func (h *Holder) Cart() *models.Cart {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cart
}

func (h *Holder) ItemCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cart.ItemCount
}

func (h *Holder) Total() decimal.Decimal {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cart.Total
}

func (h *Holder) IsEmpty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.cart.IsEmpty()
}

// Refresh re-reads the cart from the backend. A missing cart comes back as an
// empty one, so refresh never leaves the holder without a snapshot.
func (h *Holder) Refresh(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cart, err := h.backend.GetCart(ctx)
	if err != nil {
		metrics.RecordCartOperation("refresh", metrics.ResultError)

		return err
	}

	h.cart = cart
	metrics.RecordCartOperation("refresh", metrics.ResultSuccess)

	return nil
}

// AddItem adds quantity units of a product variant. Business rejections (out
// of stock, unknown variant) come back as a failed Result with the server's
// message; transport failures are still errors.
func (h *Holder) AddItem(ctx context.Context, variantID int64, quantity int) (Result, error) {
	if quantity < 1 {
		return Result{Message: "La cantidad debe ser al menos 1"}, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cart, err := h.backend.AddItem(ctx, models.AddItemRequest{VariantID: variantID, Quantity: quantity})
	if err != nil {
		return h.mutationFailed("add_item", err)
	}

	h.cart = cart
	metrics.RecordCartOperation("add_item", metrics.ResultSuccess)

	return Result{Success: true, Message: "Producto agregado al carrito"}, nil
}

// UpdateQuantity sets the quantity of a cart line. Zero or negative means
// remove the line.
func (h *Holder) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (Result, error) {
	if quantity <= 0 {
		return h.RemoveItem(ctx, itemID)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	cart, err := h.backend.UpdateItemQuantity(ctx, itemID, quantity)
	if err != nil {
		return h.mutationFailed("update_quantity", err)
	}

	h.cart = cart
	metrics.RecordCartOperation("update_quantity", metrics.ResultSuccess)

	return Result{Success: true, Message: "Cantidad actualizada"}, nil
}

func (h *Holder) RemoveItem(ctx context.Context, itemID int64) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cart, err := h.backend.RemoveItem(ctx, itemID)
	if err != nil {
		return h.mutationFailed("remove_item", err)
	}

	h.cart = cart
	metrics.RecordCartOperation("remove_item", metrics.ResultSuccess)

	return Result{Success: true, Message: "Producto eliminado del carrito"}, nil
}

func (h *Holder) Clear(ctx context.Context) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cart, err := h.backend.ClearCart(ctx)
	if err != nil {
		return h.mutationFailed("clear", err)
	}

	h.cart = cart
	metrics.RecordCartOperation("clear", metrics.ResultSuccess)

	return Result{Success: true, Message: "Carrito vaciado"}, nil
}

// ResetLocal drops the local snapshot without calling the backend. Used after
// a successful checkout when the server already consumed the cart.
func (h *Holder) ResetLocal() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cart = models.NewEmptyCart()
}

// Transfer adopts the anonymous cart for a freshly logged-in user and keeps
// the merged cart as the new snapshot.
func (h *Holder) Transfer(ctx context.Context, userID int64) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cart, err := h.backend.TransferCart(ctx, userID)
	if err != nil {
		return h.mutationFailed("transfer", err)
	}

	if cart != nil {
		h.cart = cart
	}

	metrics.RecordCartOperation("transfer", metrics.ResultSuccess)

	return Result{Success: true, Message: "Carrito transferido"}, nil
}

// mutationFailed classifies a backend failure. Business rejections keep the
// current snapshot and surface the server's message as a failed Result;
// anything else propagates as an error. Callers must hold the mutex.
func (h *Holder) mutationFailed(operation string, err error) (Result, error) {
	if appErrors.IsBusiness(err) {
		metrics.RecordCartOperation(operation, metrics.ResultRejected)
		h.logger.Info("cart mutation rejected",
			slog.String("operation", operation),
			slog.String("reason", appErrors.UserMessage(err, "")),
		)

		return Result{Message: appErrors.UserMessage(err, "No se pudo actualizar el carrito")}, nil
	}

	metrics.RecordCartOperation(operation, metrics.ResultError)

	return Result{}, err
}
