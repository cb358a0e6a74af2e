package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/config"
	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	"github.com/cristianadrielbraun/qrdesigner/internal/handlers"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"github.com/cristianadrielbraun/qrdesigner/internal/settings"
	"github.com/cristianadrielbraun/qrdesigner/internal/storage"
	"github.com/cristianadrielbraun/qrdesigner/internal/studio"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("QRD_CONFIG"))
	if err != nil {
		_ = appLogger.Initialize(false)
		appLogger.Fatal(constant.MsgFailedToLoadConfig, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppConfig,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	if err := appLogger.Initialize(cfg.Production()); err != nil {
		panic(err)
	}
	defer appLogger.Close()

	appLogger.Info(constant.MsgApplicationStarting, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
		Data: map[string]interface{}{
			constant.DataPort:        cfg.Port,
			constant.DataDriver:      cfg.Storage.Driver,
			constant.DataEnvironment: cfg.LogLevel,
		},
	})

	ctx := context.Background()
	kv, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		appLogger.Fatal(constant.MsgFailedToInitStorage, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppStorageInit,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
			Data: map[string]interface{}{
				constant.DataDriver: cfg.Storage.Driver,
			},
		})
	}
	defer kv.Close()

	store := settings.NewStore(kv, cfg.Storage.MaxRecordBytes)
	registry := studio.NewRegistry(cfg.Studio.SessionCapacity, handlers.SessionFactory(store, handlers.DefaultRestoreTimeout))
	defer registry.Close()

	gin.SetMode(gin.ReleaseMode)
	appLogger.Debug(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{ContextFunction: constant.CtxRouter})
	h := handlers.New(registry, store, handlers.Options{
		CookieName:   cfg.Studio.CookieName,
		MaxLogoBytes: cfg.Studio.MaxLogoBytes,
		BaseURL:      cfg.BaseURL,
	})
	router := handlers.NewRouter(h)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info(constant.MsgServerStarting, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Data: map[string]interface{}{
				constant.DataPort: cfg.Port,
			},
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(constant.MsgServerFailedToStart, appLogger.LoggerInfo{
				ContextFunction: constant.CtxMain,
				Error: &appLogger.CustomError{
					Code:    constant.ErrCodeAppServerStart,
					Message: err.Error(),
					Type:    constant.ErrTypeApp,
				},
				Data: map[string]interface{}{
					constant.DataPort: cfg.Port,
				},
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info(constant.MsgServerShuttingDown, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(constant.MsgServerShutdownError, appLogger.LoggerInfo{
			ContextFunction: constant.CtxMain,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeAppServerShutdown,
				Message: err.Error(),
				Type:    constant.ErrTypeApp,
			},
		})
	}

	appLogger.Info(constant.MsgServerStopped, appLogger.LoggerInfo{
		ContextFunction: constant.CtxMain,
	})
}
