package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/leadflow/internal/assign"
	"github.com/xavierca1/leadflow/internal/infra/database"
	"github.com/xavierca1/leadflow/internal/infra/http/handlers"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/infra/mail"
	"github.com/xavierca1/leadflow/internal/infra/queue"
	"github.com/xavierca1/leadflow/internal/infra/worker"
	"github.com/xavierca1/leadflow/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal(err)
	}

	rabbitMQ, err := queue.NewRabbitMQ(
		envOr("AMQP_USER", "guest"),
		envOr("AMQP_PASS", "guest"),
		envOr("AMQP_HOST", "localhost"),
		envOr("AMQP_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	userRepo := database.NewUserRepository(db)
	historyRepo := database.NewAssignmentHistoryRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	store := database.NewAssignmentStore(db)

	// 2. Política de prazos (15h inicial / 4h reatribuição, ajustável por env)
	policy := assign.Policy{
		InitialWindow:  envHours("ASSIGN_INITIAL_WINDOW_HOURS", 15),
		ReassignWindow: envHours("ASSIGN_REASSIGN_WINDOW_HOURS", 4),
	}

	// 3. Notificações: producer publica, worker consome e entrega
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)

	notifyWorker := queue.NewWorker(rabbitMQ.Ch, userRepo, notificationRepo, mailSender, leadRepo)
	go notifyWorker.Start(queue.QueueName)

	// 4. UseCases
	assignUC := usecase.NewAssignLeadUseCase(leadRepo, userRepo, store, producer, policy)
	submitUC := usecase.NewSubmitLeadUseCase(leadRepo, assignUC)
	decideUC := usecase.NewDecideLeadUseCase(leadRepo, assignUC)
	reassignUC := usecase.NewReassignOverdueUseCase(leadRepo, userRepo, store, producer, policy)

	// 5. Worker de reatribuição (tick fixo + lock exclusivo entre processos)
	runLock := database.NewRunLock(db)
	reassignWorker := worker.NewReassignmentWorker(
		reassignUC,
		runLock,
		envMinutes("REASSIGN_TICK_MINUTES", 15),
	)
	go reassignWorker.Start(context.Background())

	// 6. Handlers
	leadHandler := handlers.NewLeadHandler(submitUC, leadRepo, historyRepo)
	decisionHandler := handlers.NewDecisionHandler(decideUC)
	assignmentHandler := handlers.NewAssignmentHandler(assignUC)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Post("/leads", leadHandler.HandleSubmit)
	r.Get("/leads/{leadId}", leadHandler.HandleGet)
	r.Get("/leads/{leadId}/history", leadHandler.HandleHistory)
	r.Post("/leads/{leadId}/decision", decisionHandler.Handle)
	r.Post("/leads/{leadId}/assign", assignmentHandler.Handle)
	r.Get("/users/{userId}/notifications", notificationHandler.HandleListUnread)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🔥 Server Leadflow rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envHours(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return time.Duration(fallback) * time.Hour
}

func envMinutes(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(fallback) * time.Minute
}
