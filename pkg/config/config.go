package config

import (
	"os"
	"strconv"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds the shared JWT verification secret.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// WebhookConfig holds the outbound webhook targets for the parent app.
// An empty URL or secret disables the corresponding delivery path.
type WebhookConfig struct {
	DashboardURL        string `yaml:"dashboard_url"`
	DashboardSecret     string `yaml:"dashboard_secret"`
	NotificationsURL    string `yaml:"notifications_url"`
	NotificationsSecret string `yaml:"notifications_secret"`
	TimeoutMS           int    `yaml:"timeout_ms"`
	Retries             int    `yaml:"retries"`
	QueueSize           int    `yaml:"queue_size"`
	Workers             int    `yaml:"workers"`
}

// ParentConfig points at the parent application.
type ParentConfig struct {
	BaseURL string `yaml:"base_url"`
}

// LimitsConfig holds free-tier resource limits.
type LimitsConfig struct {
	MaxPlans int `yaml:"max_plans"`
	MaxTasks int `yaml:"max_tasks"`
	MaxLogs  int `yaml:"max_logs"`
}

// OverrideDBFromEnv applies DB_* environment variables on top of cfg.
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

// OverrideRedisFromEnv applies REDIS_* environment variables on top of cfg.
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

// OverrideJWTFromEnv applies JWT_SECRET on top of cfg.
func OverrideJWTFromEnv(cfg *JWTConfig) {
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Secret = secret
	}
}

// OverrideServerFromEnv applies SERVER_PORT on top of cfg.
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
}

// OverrideWebhookFromEnv applies the ANSIVERSA_* environment variables the
// parent app provisions. ANSIVERSA_WEBHOOK_SECRET doubles as the dashboard
// secret when no dedicated one is set.
func OverrideWebhookFromEnv(cfg *WebhookConfig) {
	if url := os.Getenv("ANSIVERSA_DASHBOARD_WEBHOOK_URL"); url != "" {
		cfg.DashboardURL = url
	}
	if secret := os.Getenv("ANSIVERSA_DASHBOARD_WEBHOOK_SECRET"); secret != "" {
		cfg.DashboardSecret = secret
	} else if secret := os.Getenv("ANSIVERSA_WEBHOOK_SECRET"); secret != "" {
		cfg.DashboardSecret = secret
	}
	if url := os.Getenv("ANSIVERSA_NOTIFICATIONS_WEBHOOK_URL"); url != "" {
		cfg.NotificationsURL = url
	}
	if secret := os.Getenv("ANSIVERSA_NOTIFICATIONS_WEBHOOK_SECRET"); secret != "" {
		cfg.NotificationsSecret = secret
	}
	if raw := os.Getenv("ANSIVERSA_WEBHOOK_TIMEOUT_MS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.TimeoutMS = v
		}
	}
	if raw := os.Getenv("ANSIVERSA_WEBHOOK_RETRIES"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			cfg.Retries = v
		}
	}
}

// OverrideParentFromEnv applies PARENT_APP_URL on top of cfg.
func OverrideParentFromEnv(cfg *ParentConfig) {
	if url := os.Getenv("PARENT_APP_URL"); url != "" {
		cfg.BaseURL = url
	}
}
