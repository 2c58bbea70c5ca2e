package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingJWTSecret is returned when neither jwt.key nor JWT_SECRET is set.
var ErrMissingJWTSecret = errors.New("jwt secret not configured: set jwt.key or JWT_SECRET")

// Log holds logger settings shared by both services.
type Log struct {
	Level  string
	Format string
}

// HTTP holds server tuning knobs.
type HTTP struct {
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

// DB selects the gorm dialect and its connection settings.
type DB struct {
	Driver string // sqlite | mysql
	Path   string // sqlite file
	DSN    string // mysql dsn
}

// API is the configuration of the todo API service.
type API struct {
	Port           string
	Log            Log
	HTTP           HTTP
	DB             DB
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	AllowedOrigins []string
}

// Session configures the dashboard session store.
type Session struct {
	Secret        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	IdleTimeout   time.Duration
	Secure        bool
}

// Dashboard is the configuration of the server-rendered front-end.
type Dashboard struct {
	Port       string
	Log        Log
	HTTP       HTTP
	APIBaseURL string
	APITimeout time.Duration
	Session    Session
}

// newViper builds a viper instance reading <dir>/<name>.yml with env overrides.
// A missing file is not an error: defaults and env still apply.
func newViper(dir, name string) (*viper.Viper, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(name)
	v.SetConfigType("yml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 10*time.Second)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s/%s: %w", dir, name, err)
		}
	}
	return v, nil
}

func readLog(v *viper.Viper) Log {
	return Log{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
}

func readHTTP(v *viper.Viper) HTTP {
	return HTTP{
		ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
		WriteTimeout:      v.GetDuration("http.write_timeout"),
		IdleTimeout:       v.GetDuration("http.idle_timeout"),
		ShutdownTimeout:   v.GetDuration("http.shutdown_timeout"),
	}
}

// LoadAPI reads configs/<name>.yml for the API service.
// The service must not start without a signing secret, so that case is an error.
func LoadAPI(dir, name string) (*API, error) {
	v, err := newViper(dir, name)
	if err != nil {
		return nil, err
	}
	v.SetDefault("port", "8080")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "todo.db")
	v.SetDefault("jwt.ttl", time.Hour)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5206"})
	// Both spellings are accepted for the signing secret.
	if err := v.BindEnv("jwt.key", "JWT_SECRET", "Jwt_SECRET"); err != nil {
		return nil, fmt.Errorf("bind jwt env: %w", err)
	}

	cfg := &API{
		Port: v.GetString("port"),
		Log:  readLog(v),
		HTTP: readHTTP(v),
		DB: DB{
			Driver: strings.ToLower(v.GetString("db.driver")),
			Path:   v.GetString("db.path"),
			DSN:    v.GetString("db.dsn"),
		},
		JWTSecret:      v.GetString("jwt.key"),
		TokenTTL:       v.GetDuration("jwt.ttl"),
		BcryptCost:     v.GetInt("auth.bcrypt_cost"),
		AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, ErrMissingJWTSecret
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("auth.bcrypt_cost %d out of range [%d,%d]", cfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return cfg, nil
}

// LoadDashboard reads configs/<name>.yml for the dashboard service.
func LoadDashboard(dir, name string) (*Dashboard, error) {
	v, err := newViper(dir, name)
	if err != nil {
		return nil, err
	}
	v.SetDefault("port", "5206")
	v.SetDefault("api.base_url", "http://api:8080")
	v.SetDefault("api.timeout", 10*time.Second)
	v.SetDefault("session.idle_timeout", 20*time.Minute)

	cfg := &Dashboard{
		Port:       v.GetString("port"),
		Log:        readLog(v),
		HTTP:       readHTTP(v),
		APIBaseURL: strings.TrimRight(v.GetString("api.base_url"), "/"),
		APITimeout: v.GetDuration("api.timeout"),
		Session: Session{
			Secret:        v.GetString("session.secret"),
			RedisAddr:     v.GetString("session.redis_addr"),
			RedisPassword: v.GetString("session.redis_password"),
			RedisDB:       v.GetInt("session.redis_db"),
			IdleTimeout:   v.GetDuration("session.idle_timeout"),
			Secure:        v.GetBool("session.secure"),
		},
	}
	if len(cfg.Session.Secret) < 16 {
		return nil, errors.New("session.secret must be at least 16 bytes")
	}
	return cfg, nil
}
