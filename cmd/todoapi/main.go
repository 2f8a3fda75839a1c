// main is the entry point for the todo API
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/cirocosta/todoapi/internal/api"
	"github.com/cirocosta/todoapi/internal/config"
	"github.com/cirocosta/todoapi/internal/database"
	"github.com/cirocosta/todoapi/internal/logger"
	"github.com/cirocosta/todoapi/internal/repository"
	"github.com/cirocosta/todoapi/internal/service"
	"github.com/cirocosta/todoapi/internal/validation"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	os.Args = os.Args[1:]

	switch cmd {
	case "run":
		os.Exit(runServer())
	case "openapi-gen":
		if err := generateOpenAPI(); err != nil {
			fmt.Fprintf(os.Stderr, "openapi-gen: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`
Usage: todoapi <command> [options]

Commands:
  run          Start the HTTP server
  openapi-gen  Generate OpenAPI documentation

Configuration is read from TODOAPI_* environment variables and an optional .env file.
Run 'todoapi <command> -h' for more information on a command.
`)
}

// runServer serves the API until a termination signal and returns the exit code
func runServer() int {
	addr := flag.String("addr", "", "HTTP server address, overrides TODOAPI_SERVER_ADDR")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	log := logger.New(cfg.Logging, cfg.Primary.Env)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to open database")
		return 1
	}

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Error().Err(err).Msg("failed to create schema")
		_ = database.Close(db)
		return 1
	}

	todoRepo := repository.NewSQLiteTodoRepository(db, log)
	todoService := service.NewTodoService(todoRepo, log)

	r := api.NewRouter(todoService, validation.New(), func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, log)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr, err := startServer(server)
	if err != nil {
		log.Error().Err(err).Str("addr", cfg.Server.Addr).Msg("failed to start server")
		_ = database.Close(db)
		return 1
	}
	log.Info().
		Str("addr", cfg.Server.Addr).
		Str("database", cfg.Database.Path).
		Msg("server started")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		shutdownOperations(log, server, db),
	)

	var exitCode int
	select {
	case err, ok := <-serveErr:
		if ok {
			log.Error().Err(err).Msg("server error")
			if cerr := database.Close(db); cerr != nil {
				log.Error().Err(cerr).Msg("failed to close database")
			}
			return 1
		}
		// serving stopped because shutdown began
		exitCode = <-wait
	case exitCode = <-wait:
	}

	log.Info().Int("exit_code", exitCode).Msg("server stopped")
	return exitCode
}

// startServer binds the server address and serves in the background. The
// returned channel yields the error that stopped serving, if any, and is
// closed once the server has stopped.
func startServer(server *http.Server) (<-chan error, error) {
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", server.Addr, err)
	}

	serveErr := make(chan error, 1)
	go func() {
		defer close(serveErr)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	return serveErr, nil
}

// shutdownOperations stops the server before the database it depends on is closed
func shutdownOperations(log zerolog.Logger, server *http.Server, db *gorm.DB) map[string]gfshutdown.Operation {
	serverStopped := make(chan struct{})

	return map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			defer close(serverStopped)
			log.Info().Msg("shutting down server")
			return server.Shutdown(ctx)
		},
		"database": func(ctx context.Context) error {
			select {
			case <-serverStopped:
			case <-ctx.Done():
			}
			return database.Close(db)
		},
	}
}

func generateOpenAPI() error {
	output := flag.String("o", "openapi.json", "Output file path")
	flag.Parse()

	data, err := api.GenerateOpenAPI()
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}

	if err := os.WriteFile(*output, data, 0o644); err != nil {
		return fmt.Errorf("write openapi spec to file '%s': %w", *output, err)
	}

	fmt.Printf("OpenAPI spec generated at %s\n", *output)
	return nil
}
