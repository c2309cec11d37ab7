package buildCFG

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"artfoundation/internal/auth"
	"artfoundation/internal/gateway"
	"artfoundation/internal/mailer"
)

// Source is the subset of *config.Config the builders read.
type Source interface {
	GetString(key string) string
	GetInt(key string) int
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
}

type ServerConfig struct {
	Port            string
	Mode            string
	ShutdownTimeout time.Duration
	FrontendURL     string
}

type RabbitConfig struct {
	Url            string
	Exchange       string
	Queue          string
	ReconcileDelay time.Duration
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTL        time.Duration
	ResetTTL        time.Duration
	VerificationTTL time.Duration
	BcryptCost      int
}

func BuildServerConfig(cfg Source, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:            stringOr(cfg, "server.port", "8080"),
		Mode:            stringOr(cfg, "server.mode", "release"),
		ShutdownTimeout: durationOr(cfg, "server.shutdown_timeout", 10*time.Second),
		FrontendURL:     stringOr(cfg, "server.frontend_url", "http://localhost:3000"),
	}
	log.Debug().Str("port", sc.Port).Str("mode", sc.Mode).Msg("server config loaded")
	return sc
}

func BuildDBConfig(cfg Source, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	master := cfg.GetString("postgres.master_dsn")
	if master == "" {
		return "", nil, nil, errors.New("postgres.master_dsn is required")
	}
	opts := &dbpg.Options{
		MaxOpenConns: intOr(cfg, "postgres.max_open_conns", 10),
		MaxIdleConns: intOr(cfg, "postgres.max_idle_conns", 5),
	}
	slaves := cfg.GetStringSlice("postgres.slave_dsns")
	log.Debug().Int("slaves", len(slaves)).Int("max_open_conns", opts.MaxOpenConns).Msg("db config loaded")
	return master, slaves, opts, nil
}

func MigrationsDir(cfg Source) string {
	return stringOr(cfg, "postgres.migrations_dir", "migrations/postgres")
}

func BuildRabbitConfig(cfg Source, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:            cfg.GetString("rabbitmq.url"),
		Exchange:       stringOr(cfg, "rabbitmq.exchange", "artfoundation.delayed"),
		Queue:          stringOr(cfg, "rabbitmq.queue", "artfoundation.jobs"),
		ReconcileDelay: durationOr(cfg, "rabbitmq.reconcile_delay", 30*time.Minute),
	}
	if rc.Url == "" {
		return RabbitConfig{}, errors.New("rabbitmq.url is required")
	}
	log.Debug().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbitmq config loaded")
	return rc, nil
}

func BuildStripeConfig(cfg Source) (gateway.Config, error) {
	sc := gateway.Config{
		SecretKey:         cfg.GetString("stripe.secret_key"),
		Currency:          stringOr(cfg, "stripe.currency", "usd"),
		Timeout:           durationOr(cfg, "stripe.timeout", 15*time.Second),
		MaxNetworkRetries: int64(cfg.GetInt("stripe.max_network_retries")),
	}
	if sc.SecretKey == "" {
		return gateway.Config{}, errors.New("stripe.secret_key is required")
	}
	return sc, nil
}

func BuildAuthConfig(cfg Source) (AuthConfig, error) {
	ac := AuthConfig{
		JWTSecret:       cfg.GetString("auth.jwt_secret"),
		TokenTTL:        durationOr(cfg, "auth.token_ttl", 24*time.Hour),
		ResetTTL:        durationOr(cfg, "auth.reset_ttl", 30*time.Minute),
		VerificationTTL: durationOr(cfg, "auth.verification_ttl", 24*time.Hour),
		BcryptCost:      intOr(cfg, "auth.bcrypt_cost", auth.MinBcryptCost),
	}
	if ac.JWTSecret == "" {
		return AuthConfig{}, errors.New("auth.jwt_secret is required")
	}
	if ac.ResetTTL < 30*time.Minute || ac.ResetTTL > time.Hour {
		return AuthConfig{}, fmt.Errorf("auth.reset_ttl must be between 30m and 1h, got %s", ac.ResetTTL)
	}
	if ac.BcryptCost < auth.MinBcryptCost {
		ac.BcryptCost = auth.MinBcryptCost
	}
	return ac, nil
}

func BuildMailConfig(cfg Source) mailer.Config {
	return mailer.Config{
		Host:     stringOr(cfg, "mail.host", "localhost"),
		Port:     intOr(cfg, "mail.port", 587),
		Username: cfg.GetString("mail.username"),
		Password: cfg.GetString("mail.password"),
		From:     cfg.GetString("mail.from"),
	}
}

func SnowflakeNode(cfg Source) int64 {
	return int64(intOr(cfg, "snowflake.node_id", 1))
}

func stringOr(cfg Source, key, def string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return def
}

func intOr(cfg Source, key string, def int) int {
	if v := cfg.GetInt(key); v != 0 {
		return v
	}
	return def
}

func durationOr(cfg Source, key string, def time.Duration) time.Duration {
	if v := cfg.GetDuration(key); v > 0 {
		return v
	}
	return def
}
