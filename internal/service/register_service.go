package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/cashier/internal/checkout"
	"github.com/mmynk/cashier/internal/middleware"
	"github.com/mmynk/cashier/internal/models"
	"github.com/mmynk/cashier/internal/notify"
	"github.com/mmynk/cashier/internal/register"
	"github.com/mmynk/cashier/pkg/api"
)

// ReceiptLister reads the receipt journal.
type ReceiptLister interface {
	ListReceipts(ctx context.Context, filter models.ReceiptFilter) ([]*models.Receipt, error)
}

// RegisterService implements the RegisterService RPC interface over one
// register terminal.
type RegisterService struct {
	terminal *register.Terminal
	notices  *notify.Queue
	receipts ReceiptLister
	logger   *slog.Logger
}

// NewRegisterService creates the register service. notices must be the
// queue the terminal notifies into.
func NewRegisterService(terminal *register.Terminal, notices *notify.Queue, receipts ReceiptLister, logger *slog.Logger) *RegisterService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterService{
		terminal: terminal,
		notices:  notices,
		receipts: receipts,
		logger:   logger,
	}
}

// RefreshCatalog reloads products and categories from the backend.
func (s *RegisterService) RefreshCatalog(ctx context.Context, req *connect.Request[api.RefreshCatalogRequest]) (*connect.Response[api.RefreshCatalogResponse], error) {
	if err := s.terminal.RefreshCatalog(ctx); err != nil {
		s.logger.Error("Catalog refresh failed", "error", err)
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.RefreshCatalogResponse{
		Products:   s.terminal.CatalogSize(),
		Categories: len(s.terminal.Categories()),
	}), nil
}

// ListProducts returns the filtered product list and the active filter.
func (s *RegisterService) ListProducts(ctx context.Context, req *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error) {
	return connect.NewResponse(s.productList()), nil
}

// SetFilter changes the category immediately and the search text after the debounce.
func (s *RegisterService) SetFilter(ctx context.Context, req *connect.Request[api.SetFilterRequest]) (*connect.Response[api.ListProductsResponse], error) {
	switch {
	case req.Msg.ClearCategory:
		s.terminal.SetCategory(nil)
	case req.Msg.CategoryID != nil:
		s.terminal.SetCategory(req.Msg.CategoryID)
	}
	if req.Msg.Query != nil {
		s.terminal.SetQuery(*req.Msg.Query)
	}
	if req.Msg.Flush {
		s.terminal.FlushQuery()
	}
	return connect.NewResponse(s.productList()), nil
}

// AddItem adds one unit of a catalog product to the cart.
func (s *RegisterService) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.CartResponse], error) {
	if _, err := s.terminal.AddProduct(req.Msg.ProductID); err != nil {
		return nil, connectError(err)
	}
	return s.cartResponse(), nil
}

// AdjustQuantity changes a cart line's quantity by delta.
func (s *RegisterService) AdjustQuantity(ctx context.Context, req *connect.Request[api.AdjustQuantityRequest]) (*connect.Response[api.CartResponse], error) {
	s.terminal.AdjustQuantity(req.Msg.ProductID, req.Msg.Delta)
	return s.cartResponse(), nil
}

// RemoveItem drops a cart line.
func (s *RegisterService) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.CartResponse], error) {
	s.terminal.RemoveItem(req.Msg.ProductID)
	return s.cartResponse(), nil
}

// GetCart returns the cart.
func (s *RegisterService) GetCart(ctx context.Context, req *connect.Request[api.GetCartRequest]) (*connect.Response[api.CartResponse], error) {
	return s.cartResponse(), nil
}

// Key forwards keystrokes to the scanner disambiguator.
func (s *RegisterService) Key(ctx context.Context, req *connect.Request[api.KeyRequest]) (*connect.Response[api.KeyResponse], error) {
	s.terminal.Keys(req.Msg.Text)
	resp := &api.KeyResponse{
		State:    s.terminal.ScanState().String(),
		Buffered: s.terminal.ScanBuffered(),
	}
	if last := s.terminal.ScanLastKey(); !last.IsZero() {
		resp.LastKeyAt = last.UnixMilli()
	}
	return connect.NewResponse(resp), nil
}

// ScanBarcode looks a barcode up directly, as from a camera scanner.
func (s *RegisterService) ScanBarcode(ctx context.Context, req *connect.Request[api.ScanBarcodeRequest]) (*connect.Response[api.ScanBarcodeResponse], error) {
	if req.Msg.Barcode == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("barcode is required"))
	}

	p, err := s.terminal.ScanBarcode(ctx, req.Msg.Barcode)
	resp := &api.ScanBarcodeResponse{}
	switch {
	case errors.Is(err, models.ErrProductNotFound):
		// unknown barcodes are a result, not a failure
	case err != nil:
		s.logger.Warn("Barcode lookup failed", "barcode", req.Msg.Barcode, "error", err)
		return nil, connectError(err)
	default:
		resp.Found = true
		product := productToAPI(*p)
		resp.Product = &product
	}
	resp.Cart = cartToAPI(s.terminal.Cart())
	return connect.NewResponse(resp), nil
}

// Checkout submits the cart on behalf of the calling operator.
func (s *RegisterService) Checkout(ctx context.Context, req *connect.Request[api.CheckoutRequest]) (*connect.Response[api.CheckoutResponse], error) {
	sess, ok := middleware.GetSession(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("session required"))
	}

	conf, err := s.terminal.Checkout(ctx, sess)
	if err != nil {
		return nil, connectError(err)
	}

	s.logger.Info("Order placed", "order_id", conf.ID, "order_number", conf.OrderNumber, "user_id", sess.UserID)
	return connect.NewResponse(&api.CheckoutResponse{
		Order: api.Order{
			ID:          conf.ID,
			OrderNumber: conf.OrderNumber,
			TotalAmount: conf.TotalAmount,
			Status:      conf.Status,
		},
		Cart: cartToAPI(s.terminal.Cart()),
	}), nil
}

// DrainNotices returns the notices raised since the last call.
func (s *RegisterService) DrainNotices(ctx context.Context, req *connect.Request[api.DrainNoticesRequest]) (*connect.Response[api.DrainNoticesResponse], error) {
	notices := s.notices.Drain()
	resp := &api.DrainNoticesResponse{Notices: make([]api.Notice, len(notices))}
	for i, n := range notices {
		resp.Notices[i] = api.Notice{
			Kind:        string(n.Kind),
			Title:       n.Title,
			Description: n.Description,
			At:          n.At.UnixMilli(),
		}
	}
	return connect.NewResponse(resp), nil
}

// ListReceipts returns the receipt journal. Only admins may read it.
func (s *RegisterService) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	if sess, _ := middleware.GetSession(ctx); sess.Role != models.RoleAdmin {
		return nil, connect.NewError(connect.CodePermissionDenied, middleware.ErrForbidden)
	}

	receipts, err := s.receipts.ListReceipts(ctx, models.ReceiptFilter{
		Status: req.Msg.Status,
		Search: req.Msg.Search,
	})
	if err != nil {
		s.logger.Error("Failed to list receipts", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &api.ListReceiptsResponse{Receipts: make([]api.Receipt, len(receipts))}
	for i, r := range receipts {
		resp.Receipts[i] = receiptToAPI(r)
	}
	return connect.NewResponse(resp), nil
}

func (s *RegisterService) productList() *api.ListProductsResponse {
	products := s.terminal.Products()
	categories := s.terminal.Categories()
	category, query := s.terminal.Filter()

	resp := &api.ListProductsResponse{
		Products:   make([]api.Product, len(products)),
		Categories: make([]api.Category, len(categories)),
		CategoryID: category,
		Query:      query,
	}
	for i, p := range products {
		resp.Products[i] = productToAPI(p)
	}
	for i, c := range categories {
		resp.Categories[i] = api.Category{ID: c.ID, Name: c.Name}
	}
	return resp
}

func (s *RegisterService) cartResponse() *connect.Response[api.CartResponse] {
	return connect.NewResponse(&api.CartResponse{Cart: cartToAPI(s.terminal.Cart())})
}

// connectError maps engine errors onto Connect codes.
func connectError(err error) error {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, checkout.ErrInProgress):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, models.ErrProductNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeUnavailable, err)
	}
}
