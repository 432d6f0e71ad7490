// Package main provides launch of the upscaling service
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nvoropaev/upscaler/internal/mwlogger"
	"github.com/nvoropaev/upscaler/internal/service"
	"github.com/nvoropaev/upscaler/internal/store"
	"github.com/nvoropaev/upscaler/internal/sweeper"
	"github.com/nvoropaev/upscaler/internal/transport"
	"github.com/nvoropaev/upscaler/internal/upscale"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env file loaded: %s", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	if err := zlog.SetLevel("info"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// готовим транзитные директории
	incomingDir := cfgString(appConfig, "UPLOAD_DIR", "uploads")
	outgoingDir := cfgString(appConfig, "OUTPUT_DIR", "outputs")
	strg := store.New(incomingDir, outgoingDir)
	if err := strg.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create transient directories: %v\nExiting app...", err)
	}

	// собираем инвокер внешнего апскейлера
	invoker := upscale.NewInvoker(
		cfgString(appConfig, "UPSCALER_BIN", "realesrgan-ncnn-vulkan"),
		cfgString(appConfig, "MODEL_DIR", "models"),
		cfgString(appConfig, "MODEL_NAME", "realesrgan-x4plus"),
		cfgInt(appConfig, "SCALE_FACTOR", 4),
	)

	// создаем экземпляр сервиса
	var svc UpscaleAPIService = service.NewUpscaleService(strg, invoker)
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewUpscaleHandler(svc)
	// сетапим сервер
	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/health", handlers.Health)
	engine.POST("/upscale", handlers.Upscale)

	srv := &http.Server{
		Addr:    ":" + cfgString(appConfig, "APP_PORT", "3000"),
		Handler: mwlogger.NewMWLogger(engine),
	}

	// Server launch
	go func() {
		log.Printf("Server running on http://localhost%s\n", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				log.Println("Server gracefully stopping...")
			default:
				log.Printf("Server stopped: %v", err)
				stop()
			}
		}
	}()

	// запускаем фоновую зачистку осиротевших файлов
	sw := sweeper.New(strg,
		[]string{incomingDir, outgoingDir},
		cfgDuration(appConfig, "SWEEP_INTERVAL", time.Hour),
		cfgDuration(appConfig, "RETENTION", 30*time.Minute),
	)
	go sw.Run(ctx)

	// ждем отмены контекста для запуска грейсфул остановки сервера
	<-ctx.Done()

	shutdown(srv)
	log.Println("Exiting app...")
}

func shutdown(srv *http.Server) {
	log.Println("Interrupt received!!! Starting shutdown sequence...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Failed to stop server correctly:", err)
		return
	}
	log.Println("Server stopped")
}

func cfgString(cfg *config.Config, key, fallback string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return fallback
}

func cfgInt(cfg *config.Config, key string, fallback int) int {
	v, err := strconv.Atoi(cfg.GetString(key))
	if err != nil {
		return fallback
	}
	return v
}

func cfgDuration(cfg *config.Config, key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(cfg.GetString(key))
	if err != nil {
		return fallback
	}
	return v
}
