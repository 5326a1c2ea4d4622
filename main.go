// Package main pustak API.
//
// @title           Pustak Book Rental API
// @version         1.0
// @description     peer-to-peer book rental marketplace (listings, rental requests, rentals, dashboard).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/moin-0887/pustak/app/echoServer"
	authctrl "github.com/moin-0887/pustak/app/echoServer/controller/auth"
	dashctrl "github.com/moin-0887/pustak/app/echoServer/controller/dashboard"
	listingctrl "github.com/moin-0887/pustak/app/echoServer/controller/listing"
	profilectrl "github.com/moin-0887/pustak/app/echoServer/controller/profile"
	requestctrl "github.com/moin-0887/pustak/app/echoServer/controller/request"
	rentalctrl "github.com/moin-0887/pustak/app/echoServer/controller/rental"
	"github.com/moin-0887/pustak/app/echoServer/validation"
	"github.com/moin-0887/pustak/config"
	authrepo "github.com/moin-0887/pustak/repository/auth"
	listingrepo "github.com/moin-0887/pustak/repository/listing"
	profilerepo "github.com/moin-0887/pustak/repository/profile"
	requestrepo "github.com/moin-0887/pustak/repository/request"
	rentalrepo "github.com/moin-0887/pustak/repository/rental"
	storagerepo "github.com/moin-0887/pustak/repository/storage"
	authsvc "github.com/moin-0887/pustak/service/auth"
	dashsvc "github.com/moin-0887/pustak/service/dashboard"
	listingsvc "github.com/moin-0887/pustak/service/listing"
	profilesvc "github.com/moin-0887/pustak/service/profile"
	requestsvc "github.com/moin-0887/pustak/service/request"
	rentalsvc "github.com/moin-0887/pustak/service/rental"
	"github.com/moin-0887/pustak/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB over pgx
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ar := authrepo.New(db)
	lr := listingrepo.New(db)
	rqr := requestrepo.New(db)
	rr := rentalrepo.New(db)
	pr := profilerepo.New(db)
	st := storagerepo.NewHTTP(cfg.StorageURL, cfg.StorageToken)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	ls := listingsvc.New(lr, st)
	rqs := requestsvc.New(db, rqr, lr, rr)
	rs := rentalsvc.New(db, rr)
	ds := dashsvc.New(lr, rqr, rr)
	ps := profilesvc.New(pr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	listingC := &listingctrl.Controller{Svc: ls, V: v, Log: log}
	requestC := &requestctrl.Controller{Svc: rqs, V: v, Log: log}
	rentalC := &rentalctrl.Controller{Svc: rs, Log: log}
	dashC := &dashctrl.Controller{Svc: ds, Log: log}
	profileC := &profilectrl.Controller{Svc: ps, V: v, Log: log}

	// overdue sweep
	sweeper := rentalsvc.NewSweeper(rr)
	cr := cron.New(cron.WithSeconds())
	if _, err := cr.AddFunc(cfg.OverdueSweep, func() {
		n, err := sweeper.MarkOverdue(context.Background())
		if err != nil {
			log.Error("overdue sweep failed", "err", err)
			return
		}
		if n > 0 {
			log.Info("marked rentals overdue", "count", n)
		}
	}); err != nil {
		log.Error("overdue sweep schedule invalid", "cron", cfg.OverdueSweep, "err", err)
		os.Exit(1)
	}
	cr.Start()
	defer cr.Stop()

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Listing:   listingC,
		Request:   requestC,
		Rental:    rentalC,
		Dashboard: dashC,
		Profile:   profileC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
