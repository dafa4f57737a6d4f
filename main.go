package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"limelight/governance"
	"limelight/lifecycle"
	"limelight/mq"
	"limelight/quote"
	"limelight/ratelim"
	"limelight/routes"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// runHygieneLoop runs the deposit hygiene sweep on a fixed interval so
// stale unpaid holds release their dates even without an external
// scheduler hitting the admin endpoint.
func runHygieneLoop(svc *governance.Service, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			count, err := svc.RunDepositHygiene(context.Background())
			if err != nil {
				log.Printf("[Hygiene] sweep failed: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("[Hygiene] expired %d stale booking hold(s)", count)
			}
		case <-stop:
			return
		}
	}
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	// read port
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	rateLimiter := ratelim.NewRateLimiter()

	// wire the revenue core: stores -> services, explicit dependencies
	emitter := mq.NewRedisEmitter()
	settingsStore := governance.NewMongoSettingsStore()
	auditStore := quote.NewMongoAuditStore()
	bookingStore := lifecycle.NewMongoBookingStore()

	govService := governance.NewService(
		settingsStore,
		governance.NewMongoGovLogStore(),
		governance.NewMongoIncidentStore(),
		nil, // lifecycle wired below
		emitter,
	)
	engine := quote.NewEngine(quote.NewMongoRuleStore(), settingsStore, govService, auditStore)
	bookingService := lifecycle.NewService(bookingStore, auditStore, emitter, engine)
	govService.SetLifecycle(bookingService)

	router := httprouter.New()
	router.GET("/health", Index)
	routes.AddQuoteRoutes(router, engine, rateLimiter)
	routes.AddBookingRoutes(router, bookingService, rateLimiter)
	routes.AddGovernanceRoutes(router, govService)

	// background workers
	go mq.StartNotificationWorker()
	stopHygiene := make(chan struct{})
	go runHygieneLoop(govService, time.Hour, stopHygiene)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		close(stopHygiene)
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
