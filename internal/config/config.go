package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort        string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL     string `env:"DATABASE_URL,required"`
	DBMaxConns      int    `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns      int    `env:"DB_MIN_CONNS" envDefault:"1"`
	JWTSecret       string `env:"JWT_SECRET,required"`
	LLMAPIKey       string `env:"LLM_API_KEY,required"`
	LLMBaseURL      string `env:"LLM_BASE_URL" envDefault:"https://api.openai.com/v1"`
	LLMModel        string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	LLMSummaryModel string `env:"LLM_SUMMARY_MODEL" envDefault:"gpt-4o-mini"`
	HistoryWindow   int    `env:"HISTORY_WINDOW" envDefault:"10"`
	RedisAddr       string `env:"REDIS_ADDR"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	RedisDB         int    `env:"REDIS_DB" envDefault:"0"`
	ChatRateWindow  int    `env:"CHAT_RATE_WINDOW_SECONDS" envDefault:"60"`
	ChatRateMax     int    `env:"CHAT_RATE_MAX" envDefault:"20"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 10
	}
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}
	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		cfg.DBMinConns = 1
	}
	return &cfg, nil
}
