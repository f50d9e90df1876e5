package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"heven-store/internal/cache"
	"heven-store/internal/config"
	"heven-store/internal/db"
	"heven-store/internal/httpserver"
	"heven-store/internal/pricing"
	cartitemrepo "heven-store/internal/repository/cartitem"
	categoryrepo "heven-store/internal/repository/category"
	couponrepo "heven-store/internal/repository/coupon"
	orderrepo "heven-store/internal/repository/order"
	productrepo "heven-store/internal/repository/product"
	profilerepo "heven-store/internal/repository/profile"
	tokenrepo "heven-store/internal/repository/token"
	wishlistrepo "heven-store/internal/repository/wishlist"
	authsvc "heven-store/internal/service/auth"
	cartsvc "heven-store/internal/service/cart"
	catalogsvc "heven-store/internal/service/catalog"
	checkoutsvc "heven-store/internal/service/checkout"
	wishlistsvc "heven-store/internal/service/wishlist"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	pricingCfg := pricing.Config{
		ShippingFlatCents:          cfg.ShippingFlatCents,
		FreeShippingThresholdCents: cfg.FreeShippingThresholdCents,
		TaxRatePercent:             cfg.TaxRatePercent,
	}
	tracker := cache.NewTracker()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	cartItemRepo := cartitemrepo.NewPostgres(dbpool)
	wishlistRepo := wishlistrepo.NewPostgres(dbpool)
	couponRepo := couponrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	profileRepo := profilerepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	authService := authsvc.New(profileRepo, tokenRepo, tracker)
	catalogService := catalogsvc.New(productRepo, categoryRepo)
	cartService := cartsvc.New(cartItemRepo, productRepo, couponRepo, tracker, pricingCfg)
	wishlistService := wishlistsvc.New(wishlistRepo, productRepo, tracker)
	checkoutService := checkoutsvc.New(cartItemRepo, couponRepo, orderRepo, tracker, pricingCfg)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		CatalogSvc:  catalogService,
		CartSvc:     cartService,
		WishlistSvc: wishlistService,
		CheckoutSvc: checkoutService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
