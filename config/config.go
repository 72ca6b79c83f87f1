// Package config carga las credenciales de PayPal/OpenAI y los ajustes del
// servidor desde el entorno. Se construye una sola vez al arrancar y luego
// sólo se lee.
package config

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port            string        `env:"PORT" env-default:"8080"`
	GinMode         string        `env:"GIN_MODE" env-default:"release" validate:"oneof=release debug test"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" env-default:"15s" validate:"gt=0"`

	OpenAI OpenAI
	PayPal PayPal
}

type OpenAI struct {
	APIKey  string `env:"OPENAI_API_KEY" env-required:"true" validate:"required"`
	Model   string `env:"OPENAI_MODEL" env-default:"gpt-4o-mini" validate:"required"`
	BaseURL string `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
}

type PayPal struct {
	ClientID string `env:"PAYPAL_CLIENT_ID" env-required:"true" validate:"required"`
	Secret   string `env:"PAYPAL_SECRET" env-required:"true" validate:"required"`
	APIBase  string `env:"PAYPAL_API_BASE" env-required:"true" validate:"required,url"`
	// Plan que usa el botón de suscripción de la página principal.
	PlanID string `env:"PAYPAL_PLAN_ID"`
}

// Error is returned when a required variable is missing or invalid. The
// server must not start when Load returns it.
type Error struct {
	Vars []string
	Err  error
}

func (e *Error) Error() string {
	if len(e.Vars) > 0 {
		return fmt.Sprintf("configuración inválida: revisa %s en el archivo .env", strings.Join(e.Vars, ", "))
	}
	return fmt.Sprintf("configuración inválida: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Load reads the given dotenv files (missing ones are skipped, existing
// environment wins) and then the process environment.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			log.Printf("[CONFIG] %s no cargado, usando variables del proceso", f)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, &Error{Err: err}
	}

	cfg.OpenAI.APIKey = sanitizeEnv(cfg.OpenAI.APIKey)
	cfg.PayPal.ClientID = sanitizeEnv(cfg.PayPal.ClientID)
	cfg.PayPal.Secret = sanitizeEnv(cfg.PayPal.Secret)
	cfg.PayPal.APIBase = strings.TrimRight(sanitizeEnv(cfg.PayPal.APIBase), "/")
	cfg.PayPal.PlanID = sanitizeEnv(cfg.PayPal.PlanID)

	if err := newValidator().Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			vars := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				vars = append(vars, fe.Field())
			}
			return nil, &Error{Vars: vars, Err: err}
		}
		return nil, &Error{Err: err}
	}
	return &cfg, nil
}

// MaskedClientID returns the first 20 characters of the PayPal client id,
// enough to tell sandbox and live credentials apart in diagnostics.
func (c *Config) MaskedClientID() string {
	id := c.PayPal.ClientID
	if len(id) > 20 {
		id = id[:20]
	}
	return id + "..."
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// newValidator reports field errors by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// sanitizeEnv quita espacios y comillas que a veces quedan en los .env copiados.
func sanitizeEnv(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
