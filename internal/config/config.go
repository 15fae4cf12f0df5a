package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App            App            `mapstructure:",squash"`
	Server         Server         `mapstructure:",squash"`
	Database       Database       `mapstructure:",squash"`
	MoySklad       MoySklad       `mapstructure:",squash"`
	Sync           Sync           `mapstructure:",squash"`
	Reconciliation Reconciliation `mapstructure:",squash"`
	Notifier       Notifier       `mapstructure:",squash"`
	Redis          Redis          `mapstructure:",squash"`
}

type App struct {
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

// MoySklad agrupa as credenciais e limites da API JSON 1.2
type MoySklad struct {
	URL               string        `mapstructure:"moysklad_url"`
	Token             string        `mapstructure:"moysklad_token"`
	Login             string        `mapstructure:"moysklad_login"`
	Password          string        `mapstructure:"moysklad_password"`
	Timeout           time.Duration `mapstructure:"moysklad_timeout"`
	RequestsPerSecond int           `mapstructure:"moysklad_requests_per_second"`
	Timezone          string        `mapstructure:"moysklad_timezone"`
}

type Sync struct {
	CronSchedule      string        `mapstructure:"sync_cron"`
	FullCronSchedule  string        `mapstructure:"sync_full_cron"`
	Enabled           bool          `mapstructure:"sync_enabled"`
	PageRetries       int           `mapstructure:"sync_page_retries"`
	RetryDelay        time.Duration `mapstructure:"sync_retry_delay"`
	MaxConcurrentJobs int           `mapstructure:"sync_max_concurrent_jobs"`
	MaxErrorRate      float64       `mapstructure:"sync_max_error_rate"`
	LockTTL           time.Duration `mapstructure:"sync_lock_ttl"`
	ReportPeriodDays  int           `mapstructure:"sync_report_period_days"`
	JobHistorySize    int           `mapstructure:"sync_job_history_size"`
}

type Reconciliation struct {
	HistoricalCostLookbackDays int     `mapstructure:"historical_cost_lookback_days"`
	MetricsWindowDays          int     `mapstructure:"metrics_window_days"`
	LowMarginPercent           float64 `mapstructure:"metrics_low_margin_percent"`
	OverstockDays              float64 `mapstructure:"metrics_overstock_days"`
	ReorderDays                float64 `mapstructure:"metrics_reorder_days"`
	MissingCostSampleSize      int     `mapstructure:"missing_cost_sample_size"`
}

type Notifier struct {
	WebhookURL string        `mapstructure:"notify_webhook_url"`
	Timeout    time.Duration `mapstructure:"notify_timeout"`
}

type Redis struct {
	Address  string `mapstructure:"redis_address"`
	Password string `mapstructure:"redis_password"`
	DB       int    `mapstructure:"redis_db"`
}

// Location retorna o fuso horário usado pela conta do MoySklad
func (m MoySklad) Location() *time.Location {
	loc, err := time.LoadLocation(m.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Fuso horário inválido: %s, usando UTC", m.Timezone)
		return time.UTC
	}
	return loc
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/inventory?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)

	viper.SetDefault("MOYSKLAD_URL", "https://api.moysklad.ru/api/remap/1.2")
	viper.SetDefault("MOYSKLAD_TOKEN", "")
	viper.SetDefault("MOYSKLAD_LOGIN", "")
	viper.SetDefault("MOYSKLAD_PASSWORD", "")
	viper.SetDefault("MOYSKLAD_TIMEOUT", "60s")
	viper.SetDefault("MOYSKLAD_REQUESTS_PER_SECOND", 10) // limite da API: 45 requisições a cada 3 segundos
	viper.SetDefault("MOYSKLAD_TIMEZONE", "Europe/Moscow")

	viper.SetDefault("SYNC_CRON", "0 */2 * * *")      // A cada duas horas, incremental
	viper.SetDefault("SYNC_FULL_CRON", "30 3 * * 0")  // Domingo às 3h30, completa
	viper.SetDefault("SYNC_ENABLED", false)
	viper.SetDefault("SYNC_PAGE_RETRIES", 2)
	viper.SetDefault("SYNC_RETRY_DELAY", "2s")
	viper.SetDefault("SYNC_MAX_CONCURRENT_JOBS", 4)
	viper.SetDefault("SYNC_MAX_ERROR_RATE", 0) // 0 desabilita o limite
	viper.SetDefault("SYNC_LOCK_TTL", "2h")
	viper.SetDefault("SYNC_REPORT_PERIOD_DAYS", 30)
	viper.SetDefault("SYNC_JOB_HISTORY_SIZE", 20)

	viper.SetDefault("HISTORICAL_COST_LOOKBACK_DAYS", 365)
	viper.SetDefault("METRICS_WINDOW_DAYS", 30)
	viper.SetDefault("METRICS_LOW_MARGIN_PERCENT", 15)
	viper.SetDefault("METRICS_OVERSTOCK_DAYS", 90)
	viper.SetDefault("METRICS_REORDER_DAYS", 7)
	viper.SetDefault("MISSING_COST_SAMPLE_SIZE", 10)

	viper.SetDefault("NOTIFY_WEBHOOK_URL", "")
	viper.SetDefault("NOTIFY_TIMEOUT", "10s")

	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

func (c *Config) validate() error {
	if c.MoySklad.Token == "" && (c.MoySklad.Login == "" || c.MoySklad.Password == "") {
		return fmt.Errorf("configure MOYSKLAD_TOKEN ou MOYSKLAD_LOGIN e MOYSKLAD_PASSWORD")
	}

	if c.Sync.MaxErrorRate < 0 || c.Sync.MaxErrorRate > 1 {
		return fmt.Errorf("SYNC_MAX_ERROR_RATE deve estar entre 0 e 1, recebido %v", c.Sync.MaxErrorRate)
	}

	if c.Sync.MaxConcurrentJobs < 1 {
		c.Sync.MaxConcurrentJobs = 1
	}

	c.MoySklad.URL = strings.TrimRight(c.MoySklad.URL, "/")

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
