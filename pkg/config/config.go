package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingAPIURL se devuelve cuando no se definió la URL del backend GraphQL.
var ErrMissingAPIURL = errors.New("API_URL no está definido. Crea un archivo .env basado en .env.example y asigna la URL del backend")

// Config agrupa la configuración del cliente (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	API     APIConfig
	Sync    SyncConfig
	Storage StorageConfig
	HTTP    HTTPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
	Timezone string // zona usada para resolver rangos de fecha (inicio/fin de día)
}

// APIConfig endpoint GraphQL del backend y URL de health para despertarlo.
type APIConfig struct {
	URL       string
	HealthURL string // vacío = no se envía el ping de arranque
}

// SyncConfig intervalos del refresco periódico y de las notificaciones.
type SyncConfig struct {
	Interval time.Duration
	ToastTTL time.Duration
}

// StorageConfig ubicación del almacenamiento local (solo guarda el token de acceso).
type StorageConfig struct {
	Dir string
}

// HTTPConfig configuración del puente HTTP local que consume la capa de presentación.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Location resuelve la zona horaria configurada; si no existe usa time.Local.
func (c AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. API_URL es obligatoria.
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

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "inventario-silo"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Timezone: getString(v, "TIMEZONE", "America/La_Paz"),
		},
		API: APIConfig{
			URL:       strings.TrimSpace(getString(v, "API_URL", "")),
			HealthURL: strings.TrimSpace(getString(v, "HEALTH_URL", "")),
		},
		Sync: SyncConfig{
			Interval: time.Duration(getInt(v, "SYNC_INTERVAL_SECONDS", 30)) * time.Second,
			ToastTTL: time.Duration(getInt(v, "TOAST_TTL_MS", 4500)) * time.Millisecond,
		},
		Storage: StorageConfig{
			Dir: getString(v, "STATE_DIR", ".inventario"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "127.0.0.1"),
			Port: getInt(v, "HTTP_PORT", 8090),
		},
	}

	if cfg.API.URL == "" {
		return nil, ErrMissingAPIURL
	}
	if cfg.Sync.Interval <= 0 {
		cfg.Sync.Interval = 30 * time.Second
	}
	if cfg.Sync.ToastTTL <= 0 {
		cfg.Sync.ToastTTL = 4500 * time.Millisecond
	}
	return cfg, nil
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
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
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
