package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"ATS-backend/internal/attendance"
	"ATS-backend/internal/platform/auth"
	"ATS-backend/internal/platform/db"
	"ATS-backend/internal/reports"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = db.DefaultConfigPath
	}
	cfg, err := db.LoadConfig(cfgPath)
	if err != nil {
		panic(err)
	}

	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)
	if mode != "dev" && mode != "release" {
		log.Fatal("config mode must be dev or release")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("auth.jwt_secret (or JWT_SECRET) is required")
	}

	rules, err := rulesFromConfig(cfg.Attendance)
	if err != nil {
		log.Fatalf("attendance config: %v", err)
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS, dev frontend only
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	secret := []byte(cfg.Auth.JWTSecret)
	ttl := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	authSvc := auth.NewService(conn, secret, ttl)

	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, authSvc)

	protected := api.Group("", auth.RequireAuth(secret))
	auth.RegisterProtectedRoutes(protected, authSvc)
	attendance.RegisterRoutes(protected, attendance.NewService(conn, rules))

	managerOnly := protected.Group("", auth.RequireRole(auth.RoleManager))
	reports.RegisterRoutes(protected, managerOnly, reports.NewService(conn, authSvc.Store(), rules))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}

func rulesFromConfig(c db.AttendanceConfig) (attendance.Rules, error) {
	rules := attendance.DefaultRules()
	if c.LateCutoff != "" {
		cutoff, err := attendance.ParseCutoff(c.LateCutoff)
		if err != nil {
			return rules, err
		}
		rules.LateCutoff = cutoff
	}
	if c.HalfDayHours > 0 {
		rules.HalfDayHours = c.HalfDayHours
	}
	if c.FullDayHours > 0 {
		rules.FullDayHours = c.FullDayHours
	}
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return rules, err
		}
		rules.Loc = loc
	}
	return rules, nil
}
