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

	calculatePriceHandler "github.com/avilkin/AppointmentService/internal/api/handlers/calculate_price"
	cancelBookingHandler "github.com/avilkin/AppointmentService/internal/api/handlers/cancel_booking"
	checkAvailabilityHandler "github.com/avilkin/AppointmentService/internal/api/handlers/check_availability"
	completeBookingHandler "github.com/avilkin/AppointmentService/internal/api/handlers/complete_booking"
	confirmBookingHandler "github.com/avilkin/AppointmentService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/avilkin/AppointmentService/internal/api/handlers/create_booking"
	createServiceHandler "github.com/avilkin/AppointmentService/internal/api/handlers/create_service"
	findNextSlotHandler "github.com/avilkin/AppointmentService/internal/api/handlers/find_next_slot"
	getAvailableSlotsHandler "github.com/avilkin/AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/avilkin/AppointmentService/internal/api/handlers/get_booking"
	getStatsHandler "github.com/avilkin/AppointmentService/internal/api/handlers/get_stats"
	getUserBookingsHandler "github.com/avilkin/AppointmentService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/avilkin/AppointmentService/internal/api/handlers/list_bookings"
	listServicesHandler "github.com/avilkin/AppointmentService/internal/api/handlers/list_services"
	markNoShowHandler "github.com/avilkin/AppointmentService/internal/api/handlers/mark_no_show"
	sendRemindersHandler "github.com/avilkin/AppointmentService/internal/api/handlers/send_reminders"
	updateBookingHandler "github.com/avilkin/AppointmentService/internal/api/handlers/update_booking"
	validatePromoHandler "github.com/avilkin/AppointmentService/internal/api/handlers/validate_promo"
	"github.com/avilkin/AppointmentService/internal/api/middleware"
	"github.com/avilkin/AppointmentService/internal/config"
	bookingRepo "github.com/avilkin/AppointmentService/internal/infra/storage/booking"
	promoRepo "github.com/avilkin/AppointmentService/internal/infra/storage/promo"
	serviceRepo "github.com/avilkin/AppointmentService/internal/infra/storage/service"
	notifierClient "github.com/avilkin/AppointmentService/internal/integrations/notifier"
	userServiceClient "github.com/avilkin/AppointmentService/internal/integrations/userservice"
	"github.com/avilkin/AppointmentService/internal/scheduler"
	bookingsService "github.com/avilkin/AppointmentService/internal/service/bookings"
	catalogService "github.com/avilkin/AppointmentService/internal/service/catalog"
	pricingService "github.com/avilkin/AppointmentService/internal/service/pricing"
	remindersService "github.com/avilkin/AppointmentService/internal/service/reminders"
	statsService "github.com/avilkin/AppointmentService/internal/service/stats"
	checkAvailabilityUC "github.com/avilkin/AppointmentService/internal/usecase/check_availability"
	createBookingUC "github.com/avilkin/AppointmentService/internal/usecase/create_booking"
	findNextSlotUC "github.com/avilkin/AppointmentService/internal/usecase/find_next_slot"
	getAvailableSlotsUC "github.com/avilkin/AppointmentService/internal/usecase/get_available_slots"
	updateBookingUC "github.com/avilkin/AppointmentService/internal/usecase/update_booking"
	"github.com/avilkin/AppointmentService/pkg/clock"
	"github.com/avilkin/AppointmentService/pkg/dbmetrics"
	"github.com/avilkin/AppointmentService/pkg/logger"
	"github.com/avilkin/AppointmentService/pkg/metrics"
	"github.com/avilkin/AppointmentService/pkg/simpletxmanager"
	"github.com/avilkin/AppointmentService/pkg/txmanager"
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

	log.Info("Starting AppointmentService...")
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
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	notifier := notifierClient.NewClient(
		cfg.Notifier.URL,
		time.Duration(cfg.Notifier.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, Notifier=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.Notifier.URL, cfg.Notifier.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		serviceRepository *serviceRepo.Repository
		promoRepository   *promoRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		promoRepository = promoRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		promoRepository = promoRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Сеем стартовые промокоды
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := promoRepository.Seed(seedCtx, promoRepo.DefaultCodes()); err != nil {
		log.Error("Failed to seed promo codes: %v", err)
	}
	seedCancel()

	timeSource := clock.System{}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	catalogSvc := catalogService.NewService(serviceRepository, log)
	pricingSvc := pricingService.NewService(serviceRepository, promoRepository, log)
	statsSvc := statsService.NewService(bookingRepository, serviceRepository, timeSource, log)
	remindersSvc := remindersService.NewService(
		bookingRepository,
		serviceRepository,
		userClient,
		notifier,
		timeSource,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		txMgr,
		timeSource,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		txMgr,
		timeSource,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		log,
	)
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(
		bookingRepository,
		serviceRepository,
		log,
	)
	findNextSlotUseCase := findNextSlotUC.NewUseCase(
		getAvailableSlotsUseCase,
		timeSource,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	completeBooking := completeBookingHandler.NewHandler(bookingSvc, log)
	markNoShow := markNoShowHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	checkAvailability := checkAvailabilityHandler.NewHandler(checkAvailabilityUseCase, log)
	findNextSlot := findNextSlotHandler.NewHandler(findNextSlotUseCase, log)
	calculatePrice := calculatePriceHandler.NewHandler(pricingSvc, log)
	validatePromo := validatePromoHandler.NewHandler(pricingSvc, log)
	sendReminders := sendRemindersHandler.NewHandler(remindersSvc, log)
	getStats := getStatsHandler.NewHandler(statsSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг и доступность
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/availability", checkAvailability.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/next-slot", findNextSlot.Handle).Methods(http.MethodGet)
	api.HandleFunc("/services/{serviceId}/price", calculatePrice.Handle).Methods(http.MethodGet)
	api.HandleFunc("/promocodes/{code}/validate", validatePromo.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", listBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/no-show", markNoShow.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление каталогом и операциями ---
	protected.HandleFunc("/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reminders/send", sendReminders.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/stats", getStats.HandleOverall).Methods(http.MethodGet)
	protected.HandleFunc("/stats/by-day", getStats.HandleByDayOfWeek).Methods(http.MethodGet)
	protected.HandleFunc("/stats/monthly", getStats.HandleMonthlyTrend).Methods(http.MethodGet)
	protected.HandleFunc("/stats/top-services", getStats.HandleTopServices).Methods(http.MethodGet)
	protected.HandleFunc("/stats/average-duration", getStats.HandleAverageDuration).Methods(http.MethodGet)

	// Запускаем фоновые задачи напоминаний
	var cronScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		cronScheduler = scheduler.New(remindersSvc, scheduler.Config{
			ReminderSpec:       cfg.Scheduler.ReminderSpec,
			ReminderHoursAhead: cfg.Scheduler.ReminderHoursAhead,
			FollowUpSpec:       cfg.Scheduler.FollowUpSpec,
			FlagResetSpec:      cfg.Scheduler.FlagResetSpec,
		}, log)

		if err := cronScheduler.Start(); err != nil {
			log.Fatal("Failed to start scheduler: %v", err)
		}
	}

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

	if cronScheduler != nil {
		cronScheduler.Stop()
	}

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

	log.Info("Server stopped gracefully")
}
