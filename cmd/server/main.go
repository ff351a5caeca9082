// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/haarwerk/haarwerk/internal/config"
	"github.com/haarwerk/haarwerk/internal/domain"
	"github.com/haarwerk/haarwerk/internal/handlers"
	"github.com/haarwerk/haarwerk/internal/middleware"
	"github.com/haarwerk/haarwerk/internal/ratelimit"
	"github.com/haarwerk/haarwerk/internal/repository/conversation"
	"github.com/haarwerk/haarwerk/internal/repository/message"
	"github.com/haarwerk/haarwerk/internal/repository/profile"
	"github.com/haarwerk/haarwerk/internal/services"
	"github.com/haarwerk/haarwerk/internal/services/ai"
	"github.com/haarwerk/haarwerk/internal/services/chat"
	"github.com/haarwerk/haarwerk/internal/services/intent"
	"github.com/haarwerk/haarwerk/internal/services/memory"
	"github.com/haarwerk/haarwerk/internal/services/retrieval"
	"github.com/haarwerk/haarwerk/internal/services/title"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, X-User-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("haarwerk")

	db, err := gorm.Open(sqlite.Open("haarwerk.db"), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(&domain.User{}, &domain.Conversation{}, &domain.Message{}, &domain.HairProfile{}); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}

	// --- Repositories ---
	conversationRepo := conversation.NewConversationRepository(db)
	messageRepo := message.NewMessageRepository(db)
	profileRepo := profile.NewProfileRepository(db)

	// --- AI Provider ---
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.BaseURL = cfg.OpenAIBaseURL
	aiConfig.EmbeddingModel = cfg.EmbeddingModel
	provider, err := ai.NewOpenAIProvider(aiConfig, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	// --- Vector Stores (one namespace per corpus) ---
	productStore, err := services.NewPineconeService(
		cfg.PineconeAPIKey, cfg.PineconeHost, cfg.ProductNamespace, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize product vector store: %v", err)
	}
	defer productStore.Close()

	contentStore, err := services.NewPineconeService(
		cfg.PineconeAPIKey, cfg.PineconeHost, cfg.ContentNamespace, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize content vector store: %v", err)
	}
	defer contentStore.Close()

	// --- Services ---
	classifier := intent.NewClassifier(provider, cfg.SmallModel, logger)
	matcher := retrieval.NewMatcher(provider, productStore, logger)
	retriever := retrieval.NewRetriever(provider, contentStore, logger)

	extractor := memory.NewExtractor(provider, conversationRepo, messageRepo, profileRepo, cfg.SmallModel, logger)
	memoryDispatcher := memory.NewDispatcher(extractor, logger)
	titleGenerator := title.NewGenerator(provider, conversationRepo, cfg.SmallModel, logger)

	chatConfig := chat.DefaultConfig()
	chatConfig.RetrievalTopK = cfg.RetrievalTopK
	chatConfig.ChatModel = cfg.ChatModel
	chatConfig.SmallModel = cfg.SmallModel
	if err := chatConfig.Validate(); err != nil {
		log.Fatalf("FATAL: Invalid chat configuration: %v", err)
	}

	streamingService := chat.NewStreamingService(
		chatConfig,
		conversationRepo,
		messageRepo,
		profileRepo,
		provider,
		classifier,
		retriever,
		matcher,
		memoryDispatcher,
		titleGenerator,
		logger,
	)
	conversationService := chat.NewConversationService(conversationRepo, messageRepo, logger)

	chatLimiter := ratelimit.NewMemoryStore(ratelimit.DefaultChatConfig())
	defer chatLimiter.Close()

	// --- Handlers ---
	chatHandler := handlers.NewChatHandler(streamingService, conversationService)

	// --- Router Setup ---
	r := mux.NewRouter()
	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireUser)

	chatRoute := api.PathPrefix("/chat").Subrouter()
	chatRoute.Use(middleware.RateLimitMiddleware(chatLimiter, "chat"))
	chatRoute.HandleFunc("", chatHandler.StreamChat).Methods("POST")

	api.HandleFunc("/conversations", chatHandler.CreateConversation).Methods("POST")
	api.HandleFunc("/conversations", chatHandler.GetConversations).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}/messages", chatHandler.GetConversationMessages).Methods("GET")
	api.HandleFunc("/conversations/{id:[0-9]+}", chatHandler.DeleteConversation).Methods("DELETE")

	// --- Server Configuration ---
	port := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Haarwerk advice service starting on port %s", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down server gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}
