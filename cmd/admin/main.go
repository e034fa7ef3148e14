// admin 初始化表结构并创建管理员账号，走与 POST /users 相同的校验与哈希
package main

import (
	"context"
	"flag"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-gin-gorm-users/internal/app"
	"go-gin-gorm-users/internal/core/config"
	"go-gin-gorm-users/internal/core/validation"
	"go-gin-gorm-users/internal/service"
)

func main() {
	_ = godotenv.Load()
	var (
		cfgPath  = flag.String("config", os.Getenv("CONFIG_PATH"), "config file")
		name     = flag.String("name", "admin", "admin name")
		email    = flag.String("email", "", "admin email")
		password = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (or ADMIN_PASSWORD)")
	)
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	cfg.DB.AutoMigrate = true
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()

	db, err := app.OpenDB(cfg, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}

	svc := app.NewUserService(cfg, db, app.OpenCache(cfg, log), log)
	admin := true
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err = svc.Save(ctx, service.SaveInput{
		Name:            *name,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *password,
		Admin:           &admin,
	})
	if msg, ok := validation.Message(err); ok {
		log.Error("admin not created", zap.String("reason", msg))
		cleanup()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal("admin not created", zap.Error(err))
	}
	log.Info("admin created", zap.String("email", *email))
}
