package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/create_booking"
	expireBookingsHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/expire_bookings"
	getBookingHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/get_booking"
	getCarrierBookingsHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/get_carrier_bookings"
	getSlotCapacityHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/get_slot_capacity"
	getTerminalBookingsHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/get_terminal_bookings"
	recalculateCapacityHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/recalculate_capacity"
	updateBookingStatusHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/update_booking_status"
	updateTimeSlotHandler "github.com/m04kA/TAS-BookingService/internal/api/handlers/update_time_slot"
	"github.com/m04kA/TAS-BookingService/internal/api/middleware"
	"github.com/m04kA/TAS-BookingService/internal/config"
	"github.com/m04kA/TAS-BookingService/internal/infra/audit"
	"github.com/m04kA/TAS-BookingService/internal/infra/cache"
	bookingRepo "github.com/m04kA/TAS-BookingService/internal/infra/storage/booking"
	slotTemplateRepo "github.com/m04kA/TAS-BookingService/internal/infra/storage/slottemplate"
	timeSlotRepo "github.com/m04kA/TAS-BookingService/internal/infra/storage/timeslot"
	authServiceClient "github.com/m04kA/TAS-BookingService/internal/integrations/authservice"
	fleetServiceClient "github.com/m04kA/TAS-BookingService/internal/integrations/fleetservice"
	terminalServiceClient "github.com/m04kA/TAS-BookingService/internal/integrations/terminalservice"
	autovalidationService "github.com/m04kA/TAS-BookingService/internal/service/autovalidation"
	bookingsService "github.com/m04kA/TAS-BookingService/internal/service/bookings"
	capacityService "github.com/m04kA/TAS-BookingService/internal/service/capacity"
	createBookingUC "github.com/m04kA/TAS-BookingService/internal/usecase/create_booking"
	expireBookingsUC "github.com/m04kA/TAS-BookingService/internal/usecase/expire_bookings"
	getSlotCapacityUC "github.com/m04kA/TAS-BookingService/internal/usecase/get_slot_capacity"
	recalculateCapacityUC "github.com/m04kA/TAS-BookingService/internal/usecase/recalculate_capacity"
	updateTimeSlotUC "github.com/m04kA/TAS-BookingService/internal/usecase/update_time_slot"
	"github.com/m04kA/TAS-BookingService/pkg/dbmetrics"
	"github.com/m04kA/TAS-BookingService/pkg/logger"
	"github.com/m04kA/TAS-BookingService/pkg/metrics"
	"github.com/m04kA/TAS-BookingService/pkg/simpletxmanager"
	"github.com/m04kA/TAS-BookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting TAS-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	terminalClient := terminalServiceClient.NewClient(
		cfg.TerminalService.URL,
		time.Duration(cfg.TerminalService.Timeout)*time.Second,
		log,
	)
	fleetClient := fleetServiceClient.NewClient(
		cfg.FleetService.URL,
		time.Duration(cfg.FleetService.Timeout)*time.Second,
		log,
	)
	authClient := authServiceClient.NewClient(
		cfg.AuthService.URL,
		time.Duration(cfg.AuthService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (TerminalService=%s, FleetService=%s, AuthService=%s)",
		cfg.TerminalService.URL, cfg.FleetService.URL, cfg.AuthService.URL)

	// Инициализируем издателя аудита (если включен)
	type AuditRecorder interface {
		Record(ctx context.Context, event audit.Event)
	}
	var auditor AuditRecorder

	if cfg.Audit.Enabled {
		publisher := audit.NewPublisher(cfg.Audit.URL, cfg.Audit.Queue, log)
		defer publisher.Close()
		auditor = publisher
		log.Info("Audit publisher initialized (queue=%s)", cfg.Audit.Queue)
	} else {
		auditor = audit.NewNoopRecorder()
		log.Info("Audit publishing disabled")
	}

	// Инициализируем кэш снапшотов (если включен)
	type SnapshotCache interface {
		Get(ctx context.Context, terminalID int64, date string) ([]byte, error)
		Set(ctx context.Context, terminalID int64, date string, data []byte)
		Invalidate(ctx context.Context, terminalID int64, date string)
	}
	var snapshotCache SnapshotCache

	if cfg.Cache.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr})
		defer redisClient.Close()
		snapshotCache = cache.NewSnapshotCache(redisClient, time.Duration(cfg.Cache.TTL)*time.Second, log)
		log.Info("Snapshot cache initialized (addr=%s, ttl=%ds)", cfg.Cache.Addr, cfg.Cache.TTL)
	} else {
		snapshotCache = cache.NewNoop()
		log.Info("Snapshot cache disabled")
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		timeSlotRepository     *timeSlotRepo.Repository
		slotTemplateRepository *slotTemplateRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		timeSlotRepository = timeSlotRepo.NewRepository(wrappedDB)
		slotTemplateRepository = slotTemplateRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB, metricsCollector)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		timeSlotRepository = timeSlotRepo.NewRepository(db)
		slotTemplateRepository = slotTemplateRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	ledger := capacityService.NewLedger(timeSlotRepository, slotTemplateRepository, log)
	validator := autovalidationService.NewEngine(bookingRepository, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		ledger,
		authClient,
		txMgr,
		auditor,
		snapshotCache,
		metricsCollector,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		ledger,
		validator,
		terminalClient,
		fleetClient,
		authClient,
		txMgr,
		auditor,
		snapshotCache,
		metricsCollector,
		log,
	)
	getSlotCapacityUseCase := getSlotCapacityUC.NewUseCase(
		ledger,
		validator,
		terminalClient,
		snapshotCache,
		log,
	)
	updateTimeSlotUseCase := updateTimeSlotUC.NewUseCase(
		ledger,
		terminalClient,
		txMgr,
		auditor,
		snapshotCache,
		log,
	)
	recalculateCapacityUseCase := recalculateCapacityUC.NewUseCase(
		ledger,
		txMgr,
		auditor,
		snapshotCache,
		log,
	)
	expireBookingsUseCase := expireBookingsUC.NewUseCase(
		bookingRepository,
		bookingSvc,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getCarrierBookings := getCarrierBookingsHandler.NewHandler(bookingSvc, log)
	getTerminalBookings := getTerminalBookingsHandler.NewHandler(bookingSvc, log)
	getSlotCapacity := getSlotCapacityHandler.NewHandler(getSlotCapacityUseCase, log)
	updateTimeSlot := updateTimeSlotHandler.NewHandler(updateTimeSlotUseCase, log)
	recalculateCapacity := recalculateCapacityHandler.NewHandler(recalculateCapacityUseCase, log)
	expireBookings := expireBookingsHandler.NewHandler(expireBookingsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Служебный endpoint для внешнего планировщика sweep
	r.HandleFunc("/internal/bookings/expire", expireBookings.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Снапшот ёмкости терминала на дату
	api.HandleFunc("/terminals/{terminalId}/capacity", getSlotCapacity.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID или референс-коду
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перевод бронирования в другой статус (confirm/reject/consume)
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// История бронирований перевозчика
	protected.HandleFunc("/carriers/{carrierId}/bookings", getCarrierBookings.Handle).Methods(http.MethodGet)

	// --- Управление терминалом (для операторов) ---
	// Список бронирований терминала
	protected.HandleFunc("/terminals/{terminalId}/bookings", getTerminalBookings.Handle).Methods(http.MethodGet)

	// Административное изменение слота
	protected.HandleFunc("/terminals/{terminalId}/slots", updateTimeSlot.Handle).Methods(http.MethodPut)

	// Пересчет счетчиков ёмкости
	protected.HandleFunc("/terminals/{terminalId}/capacity/recalculate", recalculateCapacity.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
