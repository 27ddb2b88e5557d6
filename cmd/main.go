package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" //драйвер postgres
	goose "github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"typegame/gates/server"
	storage "typegame/gates/storage/postgres"
	"typegame/iternal/config"
	"typegame/iternal/logger"
	"typegame/iternal/pkg"
)

func main() {

	//настройка конфига
	cfg := config.MustLoad()

	//регистрация логгера
	log := logger.MustInitLogger(cfg)

	//подключение к бд
	dbhost := os.Getenv("DB_HOST")
	if dbhost == "" {
		dbhost = cfg.DB.Host
	}
	connstr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=%s",
		cfg.DB.User, cfg.DB.Pass, cfg.DB.Name, dbhost, cfg.DB.Port, cfg.DB.Ssl)
	conn, err := sqlx.Connect("postgres", connstr)
	if err != nil {
		panic(err)
	}
	db := storage.NewDB(conn, log)

	//накатываем миграции
	err = goose.Up(conn.DB, "./gates/storage/migrations")
	if err != nil {
		panic(err)
	}

	//настройка роутера и запуск REST сервера
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	//лимит запросов по ip включается только если в конфиге есть redis
	if cfg.RateLimit.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPass,
		})
		router.Use(server.RateLimit(rdb, log, cfg.RateLimit.Max, cfg.RateLimit.Window))
		log.Info("rate limiter enabled", "addr", cfg.RateLimit.RedisAddr)
	}

	_ = server.NewServer(db, cfg, log, router, pkg.NormalClock{})
	restServerAddr := cfg.Rest.Host + ":" + cfg.Rest.Port
	log.Info("starting server", "addr", restServerAddr)
	err = router.Run(restServerAddr)
	if err != nil {
		panic(err)
	}
}
