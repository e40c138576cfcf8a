package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"menugenius/config"
	"menugenius/domain"
	"menugenius/kiosk/internal/client"
	"menugenius/kiosk/internal/service"
	"menugenius/kiosk/internal/storage"
	"menugenius/recommend"

	"go.uber.org/zap"
)

// app is the wired kiosk: one store file, one session holder and the
// services every command works through.
type app struct {
	cfg    *config.KioskConfig
	logger *zap.Logger
	store  *storage.SQLiteStore

	auth        *service.Auth
	basket      *service.Basket
	orders      *service.OrderManager
	preferences *service.Preferences
	recommender *service.Recommender
	menu        service.MenuSource
	menuEditor  service.MenuEditor
}

func newApp(cfg *config.KioskConfig, logger *zap.Logger) (*app, error) {
	store, err := storage.OpenSQLite(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	local := store.Local()

	a := &app{cfg: cfg, logger: logger, store: store}
	a.auth = service.NewAuth(store.Session(), local, logger, service.AuthConfig{
		Secret:          []byte(cfg.SessionSecret),
		SessionDuration: cfg.SessionDuration,
	})
	a.auth.Restore()

	api := client.New(client.Config{
		BaseURL:        cfg.APIURL,
		HTTP:           &http.Client{Timeout: cfg.RequestTimeout},
		Tokens:         a.auth,
		OnUnauthorized: a.auth.Logout,
	}, logger)

	var backend service.OrderBackend = client.NewOrderClient(api)
	if cfg.OfflineOrders {
		backend = service.NewLocalBackend(local, logger)
	}

	var gateway service.RecommendationGateway = client.NewRecommendationClient(api)
	menuClient := client.NewMenuClient(api)
	a.menu, a.menuEditor = menuClient, menuClient
	if cfg.MockRecommendations {
		localMenu := service.NewLocalMenu(local, recommend.SampleCatalog(), logger)
		catalog, _ := localMenu.MenuItems(context.Background())
		gateway = service.NewMockGateway(catalog)
		a.menu, a.menuEditor = localMenu, localMenu
	}

	a.basket = service.NewBasket(local, logger)
	a.orders = service.NewOrderManager(backend, local, logger)
	a.preferences = service.NewPreferences(local, logger)
	a.recommender = service.NewRecommender(gateway, logger)

	logger.Debug("kiosk ready",
		zap.String("api_url", cfg.APIURL),
		zap.String("data_path", cfg.DataPath),
		zap.Bool("offline_orders", cfg.OfflineOrders),
		zap.Bool("mock_recommendations", cfg.MockRecommendations))
	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", zap.Error(err))
	}
	a.logger.Sync()
}

// userError turns err into the message a guest or kitchen user sees.
func userError(err error) error {
	if err == nil {
		return nil
	}
	msg := domain.UserMessage(err)
	if client.IsRetryable(err) {
		msg += " You can try again in a moment."
	}
	return errors.New(msg)
}

// requireKitchen fails unless a live session carries permission.
func (a *app) requireKitchen(permission string) error {
	if !a.auth.IsAuthenticated() {
		return errors.New("please log in first: kiosk kitchen login <username> <password>")
	}
	if !a.auth.HasPermission(permission) {
		return fmt.Errorf("your role does not allow this (%s)", permission)
	}
	a.auth.Touch()
	return nil
}
