package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App    AppConfig
	DB     DBConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
	Mail   MailConfig
	Redis  RedisConfig
	Worker WorkerConfig
	S3     S3Config
	Store  StoreConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int
	AutoMigrate    bool
	MigrationsPath string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MailConfig servidor SMTP para las confirmaciones de pedido. Sin usuario el envío queda desactivado.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled indica si hay credenciales SMTP configuradas.
func (c MailConfig) Enabled() bool {
	return c.Username != "" && c.Password != ""
}

// RedisConfig cola de trabajos posteriores al commit.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// WorkerConfig tamaño del pool de workers de correo.
type WorkerConfig struct {
	Count int
}

// S3Config almacenamiento de imágenes de producto (S3 o compatible).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // vacío = AWS; con valor = MinIO, R2, etc.
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PublicBaseURL   string
}

// StoreConfig datos de la tienda impresos en comprobantes y correos.
type StoreConfig struct {
	Name string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, JWT_SECRET, MAIL_USERNAME, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "morvic-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "morvic"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MaxConns:       getInt(v, "DB_MAX_CONNS", 10),
			AutoMigrate:    getBool(v, "DB_AUTO_MIGRATE", false),
			MigrationsPath: getString(v, "DB_MIGRATIONS_PATH", "migrations"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "morvic-api"),
		},
		HTTP: HTTPConfig{
			Host:           getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:           getInt(v, "HTTP_PORT", 8080),
			RequestTimeout: time.Duration(getInt(v, "HTTP_REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Mail: MailConfig{
			Host:     getString(v, "MAIL_HOST", "smtp.gmail.com"),
			Port:     getInt(v, "MAIL_PORT", 587),
			Username: getString(v, "MAIL_USERNAME", ""),
			Password: getString(v, "MAIL_PASSWORD", ""),
			From:     getString(v, "MAIL_FROM", ""),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Worker: WorkerConfig{
			Count: getInt(v, "WORKER_COUNT", 2),
		},
		S3: S3Config{
			Bucket:          getString(v, "S3_BUCKET_NAME", ""),
			Region:          getString(v, "AWS_REGION", "us-east-1"),
			Endpoint:        getString(v, "S3_ENDPOINT", ""),
			AccessKeyID:     getString(v, "AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getString(v, "AWS_SECRET_ACCESS_KEY", ""),
			UsePathStyle:    getBool(v, "S3_USE_PATH_STYLE", false),
			PublicBaseURL:   getString(v, "S3_PUBLIC_BASE_URL", ""),
		},
		Store: StoreConfig{
			Name: getString(v, "STORE_NAME", "Morvic"),
		},
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es obligatorio en production")
	}
	if c.Worker.Count < 1 {
		c.Worker.Count = 1
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(v.GetString(key))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
