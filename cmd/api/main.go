package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/workpay-hq/payroll-engine-go/internal/config"
	appHTTP "github.com/workpay-hq/payroll-engine-go/internal/handler/http"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/cron"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/database"
	"github.com/workpay-hq/payroll-engine-go/internal/pkg/jwt"
	"github.com/workpay-hq/payroll-engine-go/internal/repository/postgresql"
	attendanceService "github.com/workpay-hq/payroll-engine-go/internal/service/attendance"
	payrollService "github.com/workpay-hq/payroll-engine-go/internal/service/payroll"
	shiftService "github.com/workpay-hq/payroll-engine-go/internal/service/shift"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "payroll-engine"),
		slog.String("env", cfg.App.Env),
	)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	shiftSvc := shiftService.NewShiftService(db, shiftRepo)
	attendanceSvc := attendanceService.NewAttendanceService(db, attendanceRepo, leaveRequestRepo, payrollRepo)
	payrollSvc := payrollService.NewPayrollService(db, payrollRepo, employeeRepo, attendanceRepo, leaveRequestRepo, logger)

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)

	if cfg.Cron.Enabled {
		scheduler := cron.NewScheduler()
		payrollJobs := cron.NewPayrollJobs(payrollRepo, employeeRepo, attendanceRepo, leaveRequestRepo, db)
		payrollJobs.RegisterJobs(scheduler)
		scheduler.Start()
		defer scheduler.Stop()
	}

	router := appHTTP.NewRouter(
		JWTService,
		payrollHandler,
		shiftHandler,
		attendanceHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
