package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/oms-labs/order-svc/internal/service/models/order"
	"github.com/oms-labs/order-svc/internal/service/services/authsvc"
	"github.com/oms-labs/order-svc/internal/tokens"
	additem "github.com/oms-labs/order-svc/internal/transport/http/add_item"
	createorder "github.com/oms-labs/order-svc/internal/transport/http/create_order"
	getorder "github.com/oms-labs/order-svc/internal/transport/http/get_order"
	listorders "github.com/oms-labs/order-svc/internal/transport/http/list_orders"
	listorderspaged "github.com/oms-labs/order-svc/internal/transport/http/list_orders_paged"
	"github.com/oms-labs/order-svc/internal/transport/http/login"
	"github.com/oms-labs/order-svc/internal/transport/http/middleware/auth"
	"github.com/oms-labs/order-svc/internal/transport/http/register"
	removeitem "github.com/oms-labs/order-svc/internal/transport/http/remove_item"
	transitionorder "github.com/oms-labs/order-svc/internal/transport/http/transition_order"
	"github.com/oms-labs/order-svc/pkg/http/middleware/trace"
	"github.com/oms-labs/order-svc/pkg/logger"
)

// orderService is the order-facing service surface the transport needs.
type orderService interface {
	CreateForUser(ctx context.Context, userID uuid.UUID) (*order.Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error)
	ListForUserPaged(ctx context.Context, userID uuid.UUID, q *order.QueryOrdersModel) ([]*order.Order, int64, error)
	AddItem(ctx context.Context, userID, orderID uuid.UUID, name string, quantity int, unitPrice decimal.Decimal) (mo.Option[*order.Order], error)
	RemoveItem(ctx context.Context, userID, orderID, itemID uuid.UUID) (mo.Option[*order.Order], error)
	Submit(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
	Complete(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (mo.Option[*order.Order], error)
}

// authService is the auth-facing service surface the transport needs.
type authService interface {
	Register(ctx context.Context, email, password, fullName string) (authsvc.AuthResult, error)
	Login(ctx context.Context, email, password string) (authsvc.AuthResult, error)
}

type HTTPTransport struct {
	server   *http.Server
	router   *chi.Mux
	orderSvc orderService
	authSvc  authService
	issuer   *tokens.Issuer
}

func NewHTTPTransport(orderSvc orderService, authSvc authService, issuer *tokens.Issuer) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:   server,
		router:   router,
		orderSvc: orderSvc,
		authSvc:  authSvc,
		issuer:   issuer,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(auth.NewAuthMiddleware(h.issuer))

			r.Post("/orders", h.createOrder)
			r.Get("/orders/{orderID}", h.getOrder)
			r.Get("/me/orders", h.listOrders)
			r.Get("/me/orders/paged", h.listOrdersPaged)
			r.Post("/orders/{orderID}/items", h.addItem)
			r.Delete("/orders/{orderID}/items/{itemID}", h.removeItem)
			r.Post("/orders/{orderID}/submit", h.submit)
			r.Post("/orders/{orderID}/complete", h.complete)
			r.Post("/orders/{orderID}/cancel", h.cancel)
		})
	})

	h.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

func (h *HTTPTransport) register(w http.ResponseWriter, r *http.Request) {
	register.Register(w, r, h.authSvc)
}

func (h *HTTPTransport) login(w http.ResponseWriter, r *http.Request) {
	login.Login(w, r, h.authSvc)
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	getorder.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrdersPaged(w http.ResponseWriter, r *http.Request) {
	listorderspaged.ListOrdersPaged(w, r, h.orderSvc)
}

func (h *HTTPTransport) addItem(w http.ResponseWriter, r *http.Request) {
	additem.AddItem(w, r, h.orderSvc)
}

func (h *HTTPTransport) removeItem(w http.ResponseWriter, r *http.Request) {
	removeitem.RemoveItem(w, r, h.orderSvc)
}

func (h *HTTPTransport) submit(w http.ResponseWriter, r *http.Request) {
	transitionorder.Submit(w, r, h.orderSvc)
}

func (h *HTTPTransport) complete(w http.ResponseWriter, r *http.Request) {
	transitionorder.Complete(w, r, h.orderSvc)
}

func (h *HTTPTransport) cancel(w http.ResponseWriter, r *http.Request) {
	transitionorder.Cancel(w, r, h.orderSvc)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
