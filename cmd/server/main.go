package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/taskcomply/obrigacoes-service/internal/api"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/auth"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/blob"
	"github.com/taskcomply/obrigacoes-service/internal/infrastructure/client"
	"github.com/taskcomply/obrigacoes-service/internal/repository"
	"github.com/taskcomply/obrigacoes-service/internal/usecase"
	"github.com/taskcomply/obrigacoes-service/internal/worker"
)

func main() {
	var wg sync.WaitGroup

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_NAME"))

	rabbitMQURL := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		os.Getenv("RABBITMQ_USER"),
		os.Getenv("RABBITMQ_PASSWORD"),
		os.Getenv("RABBITMQ_HOST"),
		os.Getenv("RABBITMQ_PORT"))

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}

	blobDir := os.Getenv("BLOB_DIR")
	if blobDir == "" {
		blobDir = "/var/lib/obrigacoes/evidences"
	}

	// Rodamos as migrações
	if err := runMigrations(dbURL); err != nil {
		log.Fatal("❌ Erro nas migrações:", err)
	}

	// Conectamos no banco
	postgres, err := client.NewPostgresClient(client.Config{
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		SSLMode:  "disable",
	})
	if err != nil {
		log.Fatal("❌ Erro de conexão com o banco:", err)
	}
	defer postgres.Close()
	fmt.Println("✅ Conexão com o banco estabelecida")

	db := postgres.GetPool()

	// Conectamos no RabbitMQ
	rabbitMQ, err := client.NewRabbitMQClient(rabbitMQURL)
	if err != nil {
		log.Fatal("❌ Erro de conexão com o RabbitMQ:", err)
	}
	defer rabbitMQ.Close()
	fmt.Println("✅ Conexão com o RabbitMQ estabelecida")

	// Blob store local para evidências
	blobStore, err := blob.NewFSStore(blobDir)
	if err != nil {
		log.Fatal("❌ Erro ao preparar o diretório de evidências:", err)
	}

	// Inicializamos os repositórios
	taskRepo := repository.NewTaskRepository(db)
	justificationRepo := repository.NewJustificationRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Guard, JWT e senha
	guard := auth.NewTenantScopeGuard()
	jwtManager := auth.NewJWTManager()
	passwordManager := auth.NewPasswordManager()

	// Inicializamos os serviços
	ruleService := usecase.NewRuleService(ruleRepo, guard)
	taskService := usecase.NewTaskService(taskRepo, justificationRepo, ruleService, guard, rabbitMQ)
	justificationService := usecase.NewJustificationService(justificationRepo, taskRepo, evidenceRepo, guard, rabbitMQ)
	evidenceService := usecase.NewEvidenceService(evidenceRepo, taskRepo, justificationRepo, blobStore, guard)
	authService := usecase.NewAuthService(userRepo, refreshTokenRepo, passwordManager, jwtManager)

	// Worker de notificações consumindo os eventos de workflow
	notificationWorker := worker.NewNotificationWorker(rabbitMQURL, notificationRepo)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Println("Iniciando Notification Worker...")
		notificationWorker.Start(workerCtx)
	}()

	// Servidor HTTP
	router := api.NewRouter(jwtManager, taskService, justificationService, ruleService, evidenceService, authService)
	server := &http.Server{
		Addr:    ":" + httpPort,
		Handler: router,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		fmt.Printf("Iniciando servidor HTTP na porta %s...\n", httpPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ HTTP server error: %v", err)
		}
	}()

	fmt.Println("✅ Serviço de obrigações pronto!")
	fmt.Printf(" API: http://localhost:%s/api/v1/tasks\n", httpPort)
	fmt.Println("Notification Worker aguardando eventos...")
	fmt.Println("Para parar pressione Ctrl+C")

	// Aguardamos o sinal de término
	waitForShutdown(server, workerCancel)
	wg.Wait()
	fmt.Println("✅ Aplicação finalizada corretamente")
}

func waitForShutdown(server *http.Server, workerCancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan

	fmt.Println("Finalizando...")

	// Paramos o worker e drenamos o servidor HTTP
	workerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Erro no shutdown do servidor: %v", err)
	}
}

func runMigrations(dbURL string) error {
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		return fmt.Errorf("erro ao criar o migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("erro ao executar as migrações: %w", err)
	}

	fmt.Println("✅ Migrações executadas com sucesso")
	return nil
}
