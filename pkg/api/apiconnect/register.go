package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/cashier/pkg/api"
)

// RegisterServiceName is the fully-qualified name of the RegisterService service.
const RegisterServiceName = "cashier.v1.RegisterService"

// These constants are the fully-qualified names of the RPCs defined in RegisterService.
const (
	RegisterServiceRefreshCatalogProcedure = "/cashier.v1.RegisterService/RefreshCatalog"
	RegisterServiceListProductsProcedure   = "/cashier.v1.RegisterService/ListProducts"
	RegisterServiceSetFilterProcedure      = "/cashier.v1.RegisterService/SetFilter"
	RegisterServiceAddItemProcedure        = "/cashier.v1.RegisterService/AddItem"
	RegisterServiceAdjustQuantityProcedure = "/cashier.v1.RegisterService/AdjustQuantity"
	RegisterServiceRemoveItemProcedure     = "/cashier.v1.RegisterService/RemoveItem"
	RegisterServiceGetCartProcedure        = "/cashier.v1.RegisterService/GetCart"
	RegisterServiceKeyProcedure            = "/cashier.v1.RegisterService/Key"
	RegisterServiceScanBarcodeProcedure    = "/cashier.v1.RegisterService/ScanBarcode"
	RegisterServiceCheckoutProcedure       = "/cashier.v1.RegisterService/Checkout"
	RegisterServiceDrainNoticesProcedure   = "/cashier.v1.RegisterService/DrainNotices"
	RegisterServiceListReceiptsProcedure   = "/cashier.v1.RegisterService/ListReceipts"
)

// RegisterServiceHandler is implemented by the register's RPC service.
type RegisterServiceHandler interface {
	RefreshCatalog(context.Context, *connect.Request[api.RefreshCatalogRequest]) (*connect.Response[api.RefreshCatalogResponse], error)
	ListProducts(context.Context, *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error)
	SetFilter(context.Context, *connect.Request[api.SetFilterRequest]) (*connect.Response[api.ListProductsResponse], error)
	AddItem(context.Context, *connect.Request[api.AddItemRequest]) (*connect.Response[api.CartResponse], error)
	AdjustQuantity(context.Context, *connect.Request[api.AdjustQuantityRequest]) (*connect.Response[api.CartResponse], error)
	RemoveItem(context.Context, *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.CartResponse], error)
	GetCart(context.Context, *connect.Request[api.GetCartRequest]) (*connect.Response[api.CartResponse], error)
	Key(context.Context, *connect.Request[api.KeyRequest]) (*connect.Response[api.KeyResponse], error)
	ScanBarcode(context.Context, *connect.Request[api.ScanBarcodeRequest]) (*connect.Response[api.ScanBarcodeResponse], error)
	Checkout(context.Context, *connect.Request[api.CheckoutRequest]) (*connect.Response[api.CheckoutResponse], error)
	DrainNotices(context.Context, *connect.Request[api.DrainNoticesRequest]) (*connect.Response[api.DrainNoticesResponse], error)
	ListReceipts(context.Context, *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error)
}

// NewRegisterServiceHandler builds an HTTP handler from the service implementation. It returns
// the path on which to mount the handler and the handler itself.
func NewRegisterServiceHandler(svc RegisterServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	handlers := map[string]http.Handler{
		RegisterServiceRefreshCatalogProcedure: connect.NewUnaryHandler(RegisterServiceRefreshCatalogProcedure, svc.RefreshCatalog, opts...),
		RegisterServiceListProductsProcedure:   connect.NewUnaryHandler(RegisterServiceListProductsProcedure, svc.ListProducts, opts...),
		RegisterServiceSetFilterProcedure:      connect.NewUnaryHandler(RegisterServiceSetFilterProcedure, svc.SetFilter, opts...),
		RegisterServiceAddItemProcedure:        connect.NewUnaryHandler(RegisterServiceAddItemProcedure, svc.AddItem, opts...),
		RegisterServiceAdjustQuantityProcedure: connect.NewUnaryHandler(RegisterServiceAdjustQuantityProcedure, svc.AdjustQuantity, opts...),
		RegisterServiceRemoveItemProcedure:     connect.NewUnaryHandler(RegisterServiceRemoveItemProcedure, svc.RemoveItem, opts...),
		RegisterServiceGetCartProcedure:        connect.NewUnaryHandler(RegisterServiceGetCartProcedure, svc.GetCart, opts...),
		RegisterServiceKeyProcedure:            connect.NewUnaryHandler(RegisterServiceKeyProcedure, svc.Key, opts...),
		RegisterServiceScanBarcodeProcedure:    connect.NewUnaryHandler(RegisterServiceScanBarcodeProcedure, svc.ScanBarcode, opts...),
		RegisterServiceCheckoutProcedure:       connect.NewUnaryHandler(RegisterServiceCheckoutProcedure, svc.Checkout, opts...),
		RegisterServiceDrainNoticesProcedure:   connect.NewUnaryHandler(RegisterServiceDrainNoticesProcedure, svc.DrainNotices, opts...),
		RegisterServiceListReceiptsProcedure:   connect.NewUnaryHandler(RegisterServiceListReceiptsProcedure, svc.ListReceipts, opts...),
	}
	return "/" + RegisterServiceName + "/", mux(handlers)
}

// RegisterServiceClient is a client for the cashier.v1.RegisterService service.
type RegisterServiceClient struct {
	refreshCatalog *connect.Client[api.RefreshCatalogRequest, api.RefreshCatalogResponse]
	listProducts   *connect.Client[api.ListProductsRequest, api.ListProductsResponse]
	setFilter      *connect.Client[api.SetFilterRequest, api.ListProductsResponse]
	addItem        *connect.Client[api.AddItemRequest, api.CartResponse]
	adjustQuantity *connect.Client[api.AdjustQuantityRequest, api.CartResponse]
	removeItem     *connect.Client[api.RemoveItemRequest, api.CartResponse]
	getCart        *connect.Client[api.GetCartRequest, api.CartResponse]
	key            *connect.Client[api.KeyRequest, api.KeyResponse]
	scanBarcode    *connect.Client[api.ScanBarcodeRequest, api.ScanBarcodeResponse]
	checkout       *connect.Client[api.CheckoutRequest, api.CheckoutResponse]
	drainNotices   *connect.Client[api.DrainNoticesRequest, api.DrainNoticesResponse]
	listReceipts   *connect.Client[api.ListReceiptsRequest, api.ListReceiptsResponse]
}

// NewRegisterServiceClient constructs a client for the cashier.v1.RegisterService service.
// The URL should be the base URL of the server (e.g. http://localhost:8080).
func NewRegisterServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *RegisterServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &RegisterServiceClient{
		refreshCatalog: connect.NewClient[api.RefreshCatalogRequest, api.RefreshCatalogResponse](httpClient, baseURL+RegisterServiceRefreshCatalogProcedure, opts...),
		listProducts:   connect.NewClient[api.ListProductsRequest, api.ListProductsResponse](httpClient, baseURL+RegisterServiceListProductsProcedure, opts...),
		setFilter:      connect.NewClient[api.SetFilterRequest, api.ListProductsResponse](httpClient, baseURL+RegisterServiceSetFilterProcedure, opts...),
		addItem:        connect.NewClient[api.AddItemRequest, api.CartResponse](httpClient, baseURL+RegisterServiceAddItemProcedure, opts...),
		adjustQuantity: connect.NewClient[api.AdjustQuantityRequest, api.CartResponse](httpClient, baseURL+RegisterServiceAdjustQuantityProcedure, opts...),
		removeItem:     connect.NewClient[api.RemoveItemRequest, api.CartResponse](httpClient, baseURL+RegisterServiceRemoveItemProcedure, opts...),
		getCart:        connect.NewClient[api.GetCartRequest, api.CartResponse](httpClient, baseURL+RegisterServiceGetCartProcedure, opts...),
		key:            connect.NewClient[api.KeyRequest, api.KeyResponse](httpClient, baseURL+RegisterServiceKeyProcedure, opts...),
		scanBarcode:    connect.NewClient[api.ScanBarcodeRequest, api.ScanBarcodeResponse](httpClient, baseURL+RegisterServiceScanBarcodeProcedure, opts...),
		checkout:       connect.NewClient[api.CheckoutRequest, api.CheckoutResponse](httpClient, baseURL+RegisterServiceCheckoutProcedure, opts...),
		drainNotices:   connect.NewClient[api.DrainNoticesRequest, api.DrainNoticesResponse](httpClient, baseURL+RegisterServiceDrainNoticesProcedure, opts...),
		listReceipts:   connect.NewClient[api.ListReceiptsRequest, api.ListReceiptsResponse](httpClient, baseURL+RegisterServiceListReceiptsProcedure, opts...),
	}
}

// RefreshCatalog calls cashier.v1.RegisterService.RefreshCatalog.
func (c *RegisterServiceClient) RefreshCatalog(ctx context.Context, req *connect.Request[api.RefreshCatalogRequest]) (*connect.Response[api.RefreshCatalogResponse], error) {
	return c.refreshCatalog.CallUnary(ctx, req)
}

// ListProducts calls cashier.v1.RegisterService.ListProducts.
func (c *RegisterServiceClient) ListProducts(ctx context.Context, req *connect.Request[api.ListProductsRequest]) (*connect.Response[api.ListProductsResponse], error) {
	return c.listProducts.CallUnary(ctx, req)
}

// SetFilter calls cashier.v1.RegisterService.SetFilter.
func (c *RegisterServiceClient) SetFilter(ctx context.Context, req *connect.Request[api.SetFilterRequest]) (*connect.Response[api.ListProductsResponse], error) {
	return c.setFilter.CallUnary(ctx, req)
}

// AddItem calls cashier.v1.RegisterService.AddItem.
func (c *RegisterServiceClient) AddItem(ctx context.Context, req *connect.Request[api.AddItemRequest]) (*connect.Response[api.CartResponse], error) {
	return c.addItem.CallUnary(ctx, req)
}

// AdjustQuantity calls cashier.v1.RegisterService.AdjustQuantity.
func (c *RegisterServiceClient) AdjustQuantity(ctx context.Context, req *connect.Request[api.AdjustQuantityRequest]) (*connect.Response[api.CartResponse], error) {
	return c.adjustQuantity.CallUnary(ctx, req)
}

// RemoveItem calls cashier.v1.RegisterService.RemoveItem.
func (c *RegisterServiceClient) RemoveItem(ctx context.Context, req *connect.Request[api.RemoveItemRequest]) (*connect.Response[api.CartResponse], error) {
	return c.removeItem.CallUnary(ctx, req)
}

// GetCart calls cashier.v1.RegisterService.GetCart.
func (c *RegisterServiceClient) GetCart(ctx context.Context, req *connect.Request[api.GetCartRequest]) (*connect.Response[api.CartResponse], error) {
	return c.getCart.CallUnary(ctx, req)
}

// Key calls cashier.v1.RegisterService.Key.
func (c *RegisterServiceClient) Key(ctx context.Context, req *connect.Request[api.KeyRequest]) (*connect.Response[api.KeyResponse], error) {
	return c.key.CallUnary(ctx, req)
}

// ScanBarcode calls cashier.v1.RegisterService.ScanBarcode.
func (c *RegisterServiceClient) ScanBarcode(ctx context.Context, req *connect.Request[api.ScanBarcodeRequest]) (*connect.Response[api.ScanBarcodeResponse], error) {
	return c.scanBarcode.CallUnary(ctx, req)
}

// Checkout calls cashier.v1.RegisterService.Checkout.
func (c *RegisterServiceClient) Checkout(ctx context.Context, req *connect.Request[api.CheckoutRequest]) (*connect.Response[api.CheckoutResponse], error) {
	return c.checkout.CallUnary(ctx, req)
}

// DrainNotices calls cashier.v1.RegisterService.DrainNotices.
func (c *RegisterServiceClient) DrainNotices(ctx context.Context, req *connect.Request[api.DrainNoticesRequest]) (*connect.Response[api.DrainNoticesResponse], error) {
	return c.drainNotices.CallUnary(ctx, req)
}

// ListReceipts calls cashier.v1.RegisterService.ListReceipts.
func (c *RegisterServiceClient) ListReceipts(ctx context.Context, req *connect.Request[api.ListReceiptsRequest]) (*connect.Response[api.ListReceiptsResponse], error) {
	return c.listReceipts.CallUnary(ctx, req)
}

// mux routes a service's procedures by exact path.
func mux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
