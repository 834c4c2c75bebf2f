package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/armandsalle/poll/internal/config"
	"github.com/armandsalle/poll/internal/database"
	"github.com/armandsalle/poll/internal/handler"
	"github.com/armandsalle/poll/internal/notify"
	"github.com/armandsalle/poll/internal/queue"
	"github.com/armandsalle/poll/internal/repository"
	"github.com/armandsalle/poll/internal/router"
	"github.com/armandsalle/poll/internal/service"
	"github.com/armandsalle/poll/internal/session"
)

func main() {
	// Load a local .env when present; real deployments set env vars directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	regs := repository.NewRegistrationRepo(db)
	resets := repository.NewResetRepo(db)

	sender := notify.NewAMQPSender(cfg.AMQPURL)
	sessions := session.NewManager(
		cfg.SessionSecret,
		time.Duration(cfg.SessionTTLMin)*time.Minute,
		time.Duration(cfg.RememberDays)*24*time.Hour,
		cfg.Env != "dev",
	)

	registration := service.NewRegistration(users, regs, sender, cfg.BaseURL, cfg.BcryptCost, cfg.NotifyTimeout)
	reset := service.NewPasswordReset(users, resets, sender, cfg.BaseURL, cfg.BcryptCost, cfg.NotifyTimeout)
	auth := service.NewAuth(users)

	// The email worker drains the broker queue independently of request
	// handling; it reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartEmailConsumer(notify.BrokerURL(cfg.AMQPURL)); err != nil {
			log.Printf("email-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e,
		handler.NewAuthHandler(registration, auth, sessions),
		handler.NewResetHandler(reset),
		sessions,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
