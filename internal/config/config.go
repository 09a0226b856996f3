package config

import (
	"fmt"
	"strings"
	"time"

	"mess-app-go/pkg/logger"

	"github.com/spf13/viper"
)

const (
	IdentityProviderSupabase = "supabase"
	IdentityProviderMemory   = "memory"
)

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	Mess        MessConfig
	DB          DBConfig
	Identity    IdentityConfig
}

type MessConfig struct {
	Location     *time.Location
	CutoffHour   int
	EmailDomain  string
	AdminEmail   string
	MenuCacheTTL time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type IdentityConfig struct {
	Provider        string
	Supabase        SupabaseConfig
	MemoryJWTSecret string
}

type SupabaseConfig struct {
	URL            string
	PublishableKey string
	ServiceRoleKey string
	JWTSecret      string
	AuthTimeout    time.Duration
}

var defaults = map[string]any{
	"HTTP_PORT":                 "8080",
	"ENV":                       "development",
	"CORS_ORIGINS":              "http://localhost:5173",
	"MESS_TIMEZONE":             "Asia/Karachi",
	"MESS_CUTOFF_HOUR":          9,
	"EMAIL_DOMAIN":              "giki.edu.pk",
	"ADMIN_EMAIL":               "admin@giki.edu.pk",
	"MENU_CACHE_TTL":            time.Minute,
	"DB_DSN":                    "",
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "5432",
	"DB_USER":                   "postgres",
	"DB_PASSWORD":               "postgres",
	"DB_NAME":                   "mess_app",
	"DB_SSLMODE":                "disable",
	"DB_TIMEZONE":               "UTC",
	"DB_MAX_OPEN_CONNS":         10,
	"DB_MAX_IDLE_CONNS":         5,
	"DB_CONN_MAX_LIFETIME":      30 * time.Minute,
	"DB_AUTO_MIGRATE":           true,
	"IDENTITY_PROVIDER":         IdentityProviderSupabase,
	"SUPABASE_URL":              "",
	"SUPABASE_PUBLISHABLE_KEY":  "",
	"SUPABASE_SERVICE_ROLE_KEY": "",
	"SUPABASE_JWT_SECRET":       "",
	"SUPABASE_AUTH_TIMEOUT":     5 * time.Second,
	"MEMORY_JWT_SECRET":         "dev-only-secret",
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	location, err := time.LoadLocation(v.GetString("MESS_TIMEZONE"))
	if err != nil {
		return Config{}, fmt.Errorf("mess timezone: %w", err)
	}

	cutoffHour := v.GetInt("MESS_CUTOFF_HOUR")
	if cutoffHour < 0 || cutoffHour > 23 {
		return Config{}, fmt.Errorf("mess cutoff hour out of range: %d", cutoffHour)
	}

	provider := strings.ToLower(strings.TrimSpace(v.GetString("IDENTITY_PROVIDER")))
	if provider == "" {
		provider = IdentityProviderSupabase
	}
	if provider != IdentityProviderSupabase && provider != IdentityProviderMemory {
		return Config{}, fmt.Errorf("unknown identity provider %q", provider)
	}

	// Supabase publishes the anon key under the VITE_ prefix for the frontend.
	publishableKey := v.GetString("SUPABASE_PUBLISHABLE_KEY")
	if publishableKey == "" {
		publishableKey = v.GetString("VITE_SUPABASE_PUBLISHABLE_KEY")
	}

	return Config{
		HTTPPort:    v.GetString("HTTP_PORT"),
		Env:         v.GetString("ENV"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		Mess: MessConfig{
			Location:     location,
			CutoffHour:   cutoffHour,
			EmailDomain:  strings.ToLower(strings.TrimSpace(v.GetString("EMAIL_DOMAIN"))),
			AdminEmail:   strings.ToLower(strings.TrimSpace(v.GetString("ADMIN_EMAIL"))),
			MenuCacheTTL: v.GetDuration("MENU_CACHE_TTL"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Identity: IdentityConfig{
			Provider: provider,
			Supabase: SupabaseConfig{
				URL:            strings.TrimRight(v.GetString("SUPABASE_URL"), "/"),
				PublishableKey: publishableKey,
				ServiceRoleKey: v.GetString("SUPABASE_SERVICE_ROLE_KEY"),
				JWTSecret:      v.GetString("SUPABASE_JWT_SECRET"),
				AuthTimeout:    v.GetDuration("SUPABASE_AUTH_TIMEOUT"),
			},
			MemoryJWTSecret: v.GetString("MEMORY_JWT_SECRET"),
		},
	}, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
