package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type DB struct {
	User string `yaml:"user" env:"DB_USER" env-required:"true"`
	Pass string `yaml:"password" env:"DB_PASS" env-required:"true"`
	Host string `yaml:"host" env:"DB_HOST" env-required:"true"`
	Port string `yaml:"port" env:"DB_PORT"`
	Name string `yaml:"dbname" env:"DB_NAME" env-default:"typegame"`
	Ssl  string `yaml:"sslmode" env:"DB_SSLMODE" env-required:"true"`
}

type Rest struct {
	Host string `yaml:"host" env:"REST_HOST" env-required:"true"`
	Port string `yaml:"port" env:"REST_PORT" env-required:"true"`
}

type Log struct {
	FilePath string `yaml:"logger_file_path"`
}

// длительности только через env, yaml в time.Duration не умеет
type Auth struct {
	Secret   string        `yaml:"secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL time.Duration `yaml:"-" env:"TOKEN_TTL" env-default:"1h"`
}

// RateLimit - лимит запросов по ip, работает только если задан redis addr
type RateLimit struct {
	RedisAddr string        `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPass string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	Max       int           `yaml:"max_requests" env:"RATE_LIMIT_MAX" env-default:"100"`
	Window    time.Duration `yaml:"-" env:"RATE_LIMIT_WINDOW" env-default:"1s"`
}

type Config struct {
	Env       string    `yaml:"env" env:"APP_ENV" env-default:"local"`
	DB        DB        `yaml:"postgres_db"`
	Rest      Rest      `yaml:"rest"`
	Log       Log       `yaml:"logger"`
	Auth      Auth      `yaml:"auth"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config.yaml"
	}

	//проверка существует ли файл
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatal("cannot read config file")
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		log.Fatal(err)
	}
	return &cfg
}
