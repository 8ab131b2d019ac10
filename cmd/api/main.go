package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/settings"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/hris-attendance-go/internal/handler/http"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hris-attendance-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hris-attendance-go/internal/service/employee"
	holidayService "github.com/cmlabs-hris/hris-attendance-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-attendance-go/internal/service/notification"
	settingsService "github.com/cmlabs-hris/hris-attendance-go/internal/service/settings"
	"github.com/shopspring/decimal"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeDB, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer closeDB()

	loc, _ := cfg.Location()
	workStart, _ := cfg.WorkStart()

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	var mailer email.EmailService
	if cfg.SMTP.Host != "" {
		mailer, err = email.NewEmailService(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to initialize email service: ", err)
		}
	}

	hub := sse.NewHub(cfg.Notification.QueueSize / 100)
	notifSvc := notificationService.NewNotificationService(hub, mailer, notificationService.Config{
		BatchSize:     cfg.Notification.BatchSize,
		FlushInterval: cfg.Notification.FlushInterval,
		WorkerCount:   cfg.Notification.WorkerCount,
		QueueSize:     cfg.Notification.QueueSize,
	})

	settingsSvc := settingsService.NewSettingsService(store.Settings)
	err = settingsSvc.EnsureOfficeLocation(ctx, settings.OfficeLocation{
		Latitude:                  cfg.Office.Latitude,
		Longitude:                 cfg.Office.Longitude,
		MaxDistanceKm:             cfg.Office.MaxDistanceKm,
		LocationValidationEnabled: cfg.Office.LocationValidationEnabled,
	})
	if err != nil {
		log.Fatal("Failed to seed office location: ", err)
	}

	holidaySvc := holidayService.NewHolidayService(store.Holidays)
	employeeSvc := employeeService.NewEmployeeService(store.Transactor, store.Employees)
	authSvc := serviceAuth.NewAuthService(store.Employees, JWTService)
	ledgerSvc := leaveService.NewLedgerService(store.Transactor, store.Employees, store.Ledger)
	leaveSvc := leaveService.NewLeaveService(
		store.Transactor,
		store.LeaveRequests,
		store.Employees,
		ledgerSvc,
		holidaySvc,
		notifSvc,
		leaveService.Config{Location: loc},
	)
	attendanceSvc := attendanceService.NewAttendanceService(
		store.Transactor,
		store.Attendance,
		store.Employees,
		store.LeaveRequests,
		settingsSvc,
		holidaySvc,
		attendanceService.Config{
			Policy: attendance.WorkPolicy{
				WorkStart:     workStart,
				GracePeriod:   time.Duration(cfg.Attendance.LateGraceMinutes) * time.Minute,
				StandardHours: decimal.NewFromFloat(cfg.Attendance.StandardWorkHours),
				Location:      loc,
			},
		},
	)

	if err := bootstrapAdmin(ctx, cfg.Bootstrap, employeeSvc); err != nil {
		log.Fatal("Failed to bootstrap admin: ", err)
	}

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, loc, cfg.Attendance.AbsenceJobInterval).RegisterJobs(scheduler)
	scheduler.Start()

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc),
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveSvc, ledgerSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc, ledgerSvc),
		Holiday:      appHTTP.NewHolidayHandler(holidaySvc),
		Settings:     appHTTP.NewSettingsHandler(settingsSvc),
		Notification: appHTTP.NewNotificationHandler(notifSvc, authSvc, JWTService),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()
	notifSvc.Stop()
}

// openStore connects to the configured backend and applies the schema.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return repository.Store{}, nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return repository.Store{}, nil, err
		}
		return sqlite.NewStore(db), func() { db.Close() }, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return repository.Store{}, nil, err
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return repository.Store{}, nil, err
		}
		return postgresql.NewStore(db), db.Close, nil
	}
}

// bootstrapAdmin creates the configured admin once. An existing account is left alone.
func bootstrapAdmin(ctx context.Context, cfg config.BootstrapConfig, svc employee.EmployeeService) error {
	if cfg.AdminEmail == "" {
		return nil
	}

	_, err := svc.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		EmployeeCode: "ADMIN",
		FullName:     cfg.AdminName,
		Email:        cfg.AdminEmail,
		Password:     cfg.AdminPassword,
		Role:         string(user.RoleAdmin),
	})
	if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrEmployeeCodeExists) {
		return nil
	}
	if err == nil {
		slog.Info("Bootstrapped admin account", "email", cfg.AdminEmail)
	}
	return err
}
