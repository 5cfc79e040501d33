package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oms-labs/order-svc/internal/dal/postgres"
	"github.com/oms-labs/order-svc/internal/dal/rabbitmq"
	auditpg "github.com/oms-labs/order-svc/internal/dal/repositories/audit/postgres"
	auditmq "github.com/oms-labs/order-svc/internal/dal/repositories/audit/rabbitmq"
	outboxrepo "github.com/oms-labs/order-svc/internal/dal/repositories/outbox/postgres"
	userrepo "github.com/oms-labs/order-svc/internal/dal/repositories/user/postgres"
	"github.com/oms-labs/order-svc/internal/otel"
	"github.com/oms-labs/order-svc/internal/service/services/auditsvc"
	"github.com/oms-labs/order-svc/internal/service/services/authsvc"
	"github.com/oms-labs/order-svc/internal/service/services/ordersvc"
	"github.com/oms-labs/order-svc/internal/tokens"
	httptransport "github.com/oms-labs/order-svc/internal/transport/http"
	outboxworker "github.com/oms-labs/order-svc/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	authSvc        *authsvc.AuthService
	auditSvc       *auditsvc.AuditService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	auditPublisher := auditmq.NewAuditPublisher(rabbitClient)
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient)

	auditSvc := auditsvc.MustNewAuditService(
		auditsvc.WithRepository(auditpg.NewAuditRepository(postgresClient)),
		auditsvc.WithPublisher(auditPublisher),
		auditsvc.WithOutboxRepository(outboxRepository),
	)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithAuditService(auditSvc),
	)

	issuer := tokens.MustNewIssuer()
	authSvc := authsvc.MustNewAuthService(
		authsvc.WithUserRepository(userrepo.NewPostgresUserRepository(postgresClient.Pool())),
		authsvc.WithTokenIssuer(issuer),
		authsvc.WithAuditService(auditSvc),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, authSvc, issuer)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, auditPublisher)

	return &App{
		orderSvc:       orderSvc,
		authSvc:        authSvc,
		auditSvc:       auditSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	defer cancelWorker()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go a.outboxWorker.Start(workerCtx)

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.outboxWorker.Stop()
	cancelWorker()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	}

	a.postgresClient.Close()
	slog.Info("Database connection closed gracefully")

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
