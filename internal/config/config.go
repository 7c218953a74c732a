package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Embedding EmbeddingConfig
	LLM       LLMConfig
	Bank      BankConfig
	RateLimit RateLimitConfig
	CacheTTLs CacheTTLConfig
	JWTSecret string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	// DSN is the sqlite data source name, e.g. "file:academy.db?_fk=1".
	DSN string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type EmbeddingConfig struct {
	APIKey string
	Model  string
	// Dimension is the expected vector length. Vectors of any other
	// length are rejected, never truncated or padded.
	Dimension int
}

type LLMConfig struct {
	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	// Timeout bounds a single provider call; on expiry the call counts
	// as a failure and the next fallback tier is attempted.
	Timeout time.Duration
}

type BankConfig struct {
	// QuestionsPerCategory is the target bank size per skill category.
	QuestionsPerCategory int
	// BatchSize caps questions requested in a single provider call.
	BatchSize int
	// TTL marks a bank entry stale and eligible for regeneration.
	TTL time.Duration
	// CategoryLessons maps a category to the lesson IDs whose chunks
	// ground its question generation. Categories without a dedicated
	// course map to no lessons and generate from general knowledge.
	CategoryLessons map[string][]string
}

type RateLimitConfig struct {
	ChatMaxRequests    int
	ChatWindow         time.Duration
	SummaryMaxRequests int
	SummaryWindow      time.Duration
}

type CacheTTLConfig struct {
	Embedding time.Duration
	Summary   time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("database.dsn", "file:academy.db?_fk=1")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("embedding.model", "text-embedding-ada-002")
	viper.SetDefault("embedding.dimension", 1536)
	viper.SetDefault("llm.openai_model", "gpt-4o-mini")
	viper.SetDefault("llm.gemini_model", "gemini-1.5-flash")
	viper.SetDefault("llm.timeout", 30)
	viper.SetDefault("bank.questions_per_category", 10)
	viper.SetDefault("bank.batch_size", 10)
	viper.SetDefault("bank.ttl_hours", 168)
	viper.SetDefault("ratelimit.chat_max_requests", 20)
	viper.SetDefault("ratelimit.chat_window", 300)
	viper.SetDefault("ratelimit.summary_max_requests", 10)
	viper.SetDefault("ratelimit.summary_window", 600)
	viper.SetDefault("cache_ttls.embedding_hours", 168)
	viper.SetDefault("cache_ttls.summary_hours", 24)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus environment
		// variables must be enough to boot.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("database.dsn"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Embedding: EmbeddingConfig{
			APIKey:    viper.GetString("embedding.api_key"),
			Model:     viper.GetString("embedding.model"),
			Dimension: viper.GetInt("embedding.dimension"),
		},
		LLM: LLMConfig{
			OpenAIAPIKey: viper.GetString("llm.openai_api_key"),
			OpenAIModel:  viper.GetString("llm.openai_model"),
			GeminiAPIKey: viper.GetString("llm.gemini_api_key"),
			GeminiModel:  viper.GetString("llm.gemini_model"),
			Timeout:      viper.GetDuration("llm.timeout") * time.Second,
		},
		Bank: BankConfig{
			QuestionsPerCategory: viper.GetInt("bank.questions_per_category"),
			BatchSize:            viper.GetInt("bank.batch_size"),
			TTL:                  viper.GetDuration("bank.ttl_hours") * time.Hour,
			CategoryLessons:      viper.GetStringMapStringSlice("bank.category_lessons"),
		},
		RateLimit: RateLimitConfig{
			ChatMaxRequests:    viper.GetInt("ratelimit.chat_max_requests"),
			ChatWindow:         viper.GetDuration("ratelimit.chat_window") * time.Second,
			SummaryMaxRequests: viper.GetInt("ratelimit.summary_max_requests"),
			SummaryWindow:      viper.GetDuration("ratelimit.summary_window") * time.Second,
		},
		CacheTTLs: CacheTTLConfig{
			Embedding: viper.GetDuration("cache_ttls.embedding_hours") * time.Hour,
			Summary:   viper.GetDuration("cache_ttls.summary_hours") * time.Hour,
		},
		JWTSecret: viper.GetString("jwt_secret"),
	}

	// Secrets come from the environment in every deployed setup.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Embedding.APIKey = key
		cfg.LLM.OpenAIAPIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.LLM.GeminiAPIKey = key
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if addr := os.Getenv("REDIS_ADDRESS"); addr != "" {
		cfg.Redis.Address = addr
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	return cfg, nil
}
