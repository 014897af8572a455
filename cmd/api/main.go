package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/lock"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("❌ configuração inválida")
	}
	setupLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, cfg.Database.URL); err != nil {
			log.WithError(err).Fatal("❌ falha nas migrations")
		}
	}

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("❌ falha ao conectar no Postgres")
	}
	defer pool.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(pool)
	clientRepo := database.NewClientRepository(pool)
	taskRepo := database.NewTaskRepository(pool)
	templateRepo := database.NewTemplateRepository(pool)
	activityRepo := database.NewActivityRepository(pool)
	userRepo := database.NewUserRepository(pool)
	txManager := database.NewTxManager(pool)

	// 2. Lock, fila e email
	var locker usecase.Locker = lock.NoopLocker{}
	var redisPing handlers.CachePinger
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.WithError(err).Fatal("❌ falha ao conectar no Redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
		redisPing = pingRedis(rdb)
	} else {
		log.Warn("⚠️ REDIS_URL vazio, lock por operação desligado")
	}

	var followUps queue.FollowUpPublisher = queue.LogProducer{}
	var broker handlers.BrokerState
	var rmq *queue.RabbitMQ
	var producer *queue.RabbitMQProducer
	if cfg.RabbitMQ.Enabled() {
		rmq, err = queue.NewRabbitMQ(cfg.RabbitMQ.URL)
		if err != nil {
			log.WithError(err).Fatal("❌ falha ao conectar no RabbitMQ")
		}
		defer rmq.Close()
		producer = queue.NewProducer(rmq.Ch)
		followUps = producer
		broker = rmq
	} else {
		log.Warn("⚠️ RABBITMQ_URL vazio, follow-ups só serão logados")
	}

	var notifier usecase.AssignmentNotifier = mail.LogNotifier{}
	if cfg.Mail.Enabled() {
		notifier = mail.NewEmailSender(cfg.Mail)
	}

	// 3. UseCases
	convertUC := usecase.NewConvertLeadUseCase(
		leadRepo, clientRepo, activityRepo, userRepo, locker, followUps, notifier,
	)
	applyUC := usecase.NewApplyTemplateUseCase(
		clientRepo, templateRepo, taskRepo, activityRepo, userRepo, txManager, locker, followUps,
		usecase.OnboardingDefaults{
			DueDays:  cfg.Onboarding.DefaultDueDays,
			Priority: cfg.Onboarding.DefaultPriority,
			Category: cfg.Onboarding.DefaultCategory,
		},
	)
	followUpUC := usecase.NewFollowUpUseCase(leadRepo, taskRepo, activityRepo, userRepo)
	queryUC := usecase.NewQueryUseCase(leadRepo, clientRepo, taskRepo, activityRepo, templateRepo, userRepo)

	// 4. Workers
	if rmq != nil {
		consumerCh, err := rmq.Conn.Channel()
		if err != nil {
			log.WithError(err).Fatal("❌ falha ao abrir canal do worker")
		}
		if err := consumerCh.Qos(1, 0, false); err != nil {
			log.WithError(err).Fatal("❌ falha ao configurar prefetch")
		}
		w := queue.NewWorker(consumerCh, followUpUC, producer, cfg.RabbitMQ.MaxAttempts)
		w.OnResult = func(kind queue.FollowUpKind, result string) {
			middleware.RecordFollowUp(string(kind), result)
		}
		go func() {
			if err := w.Start(ctx); err != nil {
				log.WithError(err).Error("❌ follow-up worker parou")
			}
		}()
	}

	if cfg.Reconcile.Interval > 0 {
		go worker.NewReconcileWorker(leadRepo, cfg.Reconcile.Interval).Start(ctx)
	}

	limiter := handlers.NewRateLimiter(handlers.FunctionRateLimit, time.Minute)
	go limiter.Cleanup(ctx.Done())

	// 5. Router
	router := handlers.NewRouter(handlers.RouterDeps{
		CORS:       cfg.CORS,
		Verifier:   middleware.NewTokenVerifier(cfg.Auth.JWTSecret),
		Logger:     log.StandardLogger(),
		Conversion: handlers.NewConversionHandler(convertUC),
		Onboarding: handlers.NewOnboardingHandler(applyUC),
		Queries:    handlers.NewQueryHandler(queryUC),
		Health:     handlers.NewHealthHandler(pool, broker, redisPing),
		Limiter:    limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("🔥 Server ligue-crm rodando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("❌ servidor caiu")
		}
	}()

	<-ctx.Done()
	log.Info("🛑 desligando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ shutdown forçado")
	}
}

func setupLogger(cfg config.LogConfig) {
	if strings.EqualFold(cfg.Format, "text") {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.WithField("level", cfg.Level).Warn("⚠️ LOG_LEVEL inválido, usando info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func pingRedis(rdb *redis.Client) handlers.CachePinger {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
