package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventrsvp/config"
	_ "eventrsvp/docs"
	"eventrsvp/internal/adapters/auth"
	"eventrsvp/internal/adapters/email"
	"eventrsvp/internal/adapters/rabbitmq"
	httpdelivery "eventrsvp/internal/delivery/http"
	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/domain"
	"eventrsvp/internal/repository/postgres"
	"eventrsvp/internal/services"
)

// @title           Event RSVP API
// @version         1.0
// @description     Accounts with email verification, role-gated event management and RSVP tracking.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.DBUrl, cfg.DBConnectAttempts, logger)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.RunMigrations(ctx, db); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.AWSRegion,
			AccessKeyID:        cfg.Email.AWSAccessKeyID,
			SecretAccessKey:    cfg.Email.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		logger.Error("failed to load email templates", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, renderer, logger)

	var publisher domain.EventPublisher = rabbitmq.NewNoopPublisher()
	if cfg.AMQPURL != "" {
		p, closeAMQP, err := rabbitmq.Dial(cfg.AMQPURL, logger)
		if err != nil {
			logger.Warn("lifecycle events disabled, broker unavailable", "err", err)
		} else {
			publisher = p
			defer func() {
				if err := closeAMQP(); err != nil {
					logger.Warn("failed to close broker connection", "err", err)
				}
			}()
		}
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)

	userRepo := postgres.NewUserRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	participantRepo := postgres.NewParticipantRepository(db)

	accountService := services.NewAccountService(
		userRepo,
		hasher,
		auth.NewCodeGenerator(),
		jwtManager,
		emailService,
		publisher,
		services.AccountConfig{
			DBTimeout:     cfg.DBTimeout,
			NotifyTimeout: cfg.Email.Timeout,
			Seed: services.SeedAdmin{
				Email:    cfg.SeedAdminEmail,
				Password: cfg.SeedAdminPassword,
				Name:     cfg.SeedAdminName,
			},
		},
		logger,
	)
	userService := services.NewUserService(userRepo, participantRepo, hasher, cfg.DBTimeout)
	eventService := services.NewEventService(eventRepo, participantRepo, cfg.DBTimeout)
	participantService := services.NewParticipantService(participantRepo, eventRepo, userRepo, cfg.DBTimeout)

	router := httpdelivery.NewRouter(logger, jwtManager, httpdelivery.Controllers{
		Auth:        controllers.NewAuthController(logger, accountService),
		Users:       controllers.NewUserController(logger, userService),
		Events:      controllers.NewEventController(logger, eventService),
		Participant: controllers.NewParticipantController(logger, participantService),
		System:      controllers.NewSystemController(logger, accountService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpdelivery.NewHandler(logger, cfg.CORSAllowedOrigins, router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down server")
	case err := <-serveErr:
		if err != nil {
			logger.Error("server error", "err", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}
	accountService.Wait()
	logger.Info("server exited")
}
