package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	_ "github.com/Krimson/dental-vto/planner/docs" // Swagger docs
	"github.com/Krimson/dental-vto/planner/internal/config"
	"github.com/Krimson/dental-vto/planner/internal/handler"
	"github.com/Krimson/dental-vto/planner/internal/health"
	"github.com/Krimson/dental-vto/planner/internal/metrics"
	"github.com/Krimson/dental-vto/planner/internal/server"
	"github.com/Krimson/dental-vto/planner/internal/service"
	"github.com/Krimson/dental-vto/planner/internal/websocket"
)

func serveCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP, WebSocket and gRPC servers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFlags(*configPath, cmd.Flags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}

	cmd.Flags().String("http-port", "8080", "HTTP port")
	cmd.Flags().String("grpc-port", "50051", "gRPC port")
	cmd.Flags().String("tables", "", "Path to reference tables YAML")
	cmd.Flags().String("allowed-origin", "*", "CORS allowed origin")

	return cmd
}

// newRouter собирает HTTP маршруты: API, WebSocket, метрики и Swagger UI
func newRouter(svc *service.PlannerService, hub *websocket.Hub, m *metrics.Metrics, allowedOrigin string) http.Handler {
	router := mux.NewRouter()

	handler.NewHTTPHandler(svc).RegisterRoutes(router)
	router.HandleFunc("/ws", hub.HandleWebSocket)
	router.Handle("/metrics", m.Handler()).Methods("GET")

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return handler.EnableCORS(allowedOrigin, router)
}

func serve(ctx context.Context, cfg *config.Config) error {
	log.Printf("[INFO] Starting planner: http_port=%s grpc_port=%s", cfg.HTTPPort, cfg.GRPCPort)

	engine, err := newEngine(cfg.TablesPath)
	if err != nil {
		return err
	}

	m := metrics.New()
	svc := service.NewPlannerService(engine, m)
	hub := websocket.NewHub(svc, m)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      newRouter(svc, hub, m, cfg.AllowedOrigin),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(server.LoggingInterceptor))
	server.Register(grpcServer, server.NewGRPCServer(svc))

	healthServer := health.NewHealthServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	grpcAddr := ":" + cfg.GRPCPort
	listener, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", grpcAddr, err)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(hubCtx)
		return nil
	})

	g.Go(func() error {
		log.Printf("[INFO] HTTP server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Printf("[INFO] gRPC server listening on %s", grpcAddr)
		healthServer.SetServingStatus(server.ServiceName)
		if err := grpcServer.Serve(listener); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("[INFO] Starting graceful shutdown...")

		healthServer.Shutdown()
		stopHub()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] HTTP shutdown: %v", err)
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			log.Printf("[WARN] Graceful shutdown timeout, forcing stop")
			grpcServer.Stop()
		}
		return nil
	})

	err = g.Wait()
	if err != nil {
		log.Printf("[ERROR] Server error: %v", err)
		return err
	}

	log.Printf("[INFO] Server stopped")
	return nil
}
