package config

import (
	"os"
	"strconv"
	"strings"
)

type Env struct {
	AppAddr string
	GinMode string

	DBDSN string

	SupplierBaseURL      string
	SupplierClientID     string
	SupplierClientSecret string

	JWTSecret string

	// DefaultMarkupPercent applies when no route-specific markup rule matches.
	DefaultMarkupPercent float64

	CORSAllowedOrigins []string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	if dsn == "" {
		dsn = "root:@tcp(127.0.0.1:3306)/travel_app?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "super-secret-key-change-me"
	}

	markup := 8.0
	if raw := strings.TrimSpace(os.Getenv("DEFAULT_MARKUP_PERCENT")); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0 {
			markup = v
		}
	}

	origins := []string{"http://localhost:3000", "http://localhost:5173"}
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return Env{
		AppAddr:              appAddr,
		GinMode:              strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBDSN:                dsn,
		SupplierBaseURL:      strings.TrimSpace(os.Getenv("SUPPLIER_BASE_URL")),
		SupplierClientID:     strings.TrimSpace(os.Getenv("SUPPLIER_CLIENT_ID")),
		SupplierClientSecret: strings.TrimSpace(os.Getenv("SUPPLIER_CLIENT_SECRET")),
		JWTSecret:            secret,
		DefaultMarkupPercent: markup,
		CORSAllowedOrigins:   origins,
	}
}
