package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

// EngineConfig tunes the performance engine. LaborDailyHours and
// LaborUtilization drive the prorated payroll share of the dashboard
// actual-cost series; CurveMaxSamples caps the S-curve resolution.
type EngineConfig struct {
	CurveMaxSamples  int
	LaborDailyHours  float64
	LaborUtilization float64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Engine      EngineConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Engine: EngineConfig{
			CurveMaxSamples:  v.GetInt("CURVE_MAX_SAMPLES"),
			LaborDailyHours:  v.GetFloat64("LABOR_DAILY_HOURS"),
			LaborUtilization: v.GetFloat64("LABOR_UTILIZATION"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Engine.CurveMaxSamples == 0 {
		cfg.Engine.CurveMaxSamples = 50
	}
	if cfg.Engine.LaborDailyHours == 0 {
		cfg.Engine.LaborDailyHours = 8
	}
	if cfg.Engine.LaborUtilization == 0 {
		cfg.Engine.LaborUtilization = 0.75
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Engine.LaborUtilization < 0 || cfg.Engine.LaborUtilization > 1 {
		return fmt.Errorf("LABOR_UTILIZATION must be within [0,1]")
	}
	return nil
}
