package configs

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type OAuthClient struct {
	ClientID     string
	ClientSecret string
}

type ENV struct {
	AppPort string
	AppEnv  string
	AppURL  string

	DBDriver   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	AppAuthKey string
	AppEncKey  string
	CSRFKey    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LoginRateLimit  int
	LoginRateWindow time.Duration
	RememberMeTTL   time.Duration

	Google OAuthClient
	GitHub OAuthClient
	Kakao  OAuthClient
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

// LoadEnv reads .env (when present) and the process environment.
func LoadEnv() (ENV, error) {
	// .env is optional
	_ = godotenv.Load(".env")
	return loadFrom(viper.New())
}

func loadFrom(v *viper.Viper) (ENV, error) {
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_URL", "http://localhost:8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "shoppingmall")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOGIN_RATE_LIMIT", 10)
	v.SetDefault("LOGIN_RATE_WINDOW", "1m")
	v.SetDefault("REMEMBER_ME_TTL", "24h")

	env := ENV{
		AppPort:         v.GetString("APP_PORT"),
		AppEnv:          v.GetString("APP_ENV"),
		AppURL:          v.GetString("APP_URL"),
		DBDriver:        v.GetString("DB_DRIVER"),
		DBHost:          v.GetString("DB_HOST"),
		DBUser:          v.GetString("DB_USER"),
		DBPassword:      v.GetString("DB_PASSWORD"),
		DBName:          v.GetString("DB_NAME"),
		DBPort:          v.GetString("DB_PORT"),
		AppAuthKey:      v.GetString("APP_AUTH_KEY"),
		AppEncKey:       v.GetString("APP_ENC_KEY"),
		CSRFKey:         v.GetString("CSRF_KEY"),
		RedisAddr:       v.GetString("REDIS_ADDR"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisDB:         v.GetInt("REDIS_DB"),
		LoginRateLimit:  v.GetInt("LOGIN_RATE_LIMIT"),
		LoginRateWindow: v.GetDuration("LOGIN_RATE_WINDOW"),
		RememberMeTTL:   v.GetDuration("REMEMBER_ME_TTL"),
		Google: OAuthClient{
			ClientID:     v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		},
		GitHub: OAuthClient{
			ClientID:     v.GetString("GITHUB_CLIENT_ID"),
			ClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		},
		Kakao: OAuthClient{
			ClientID:     v.GetString("KAKAO_CLIENT_ID"),
			ClientSecret: v.GetString("KAKAO_CLIENT_SECRET"),
		},
	}

	switch env.DBDriver {
	case DriverMySQL, DriverPostgres:
	default:
		return ENV{}, fmt.Errorf("unsupported DB_DRIVER %q", env.DBDriver)
	}
	if env.LoginRateWindow <= 0 {
		return ENV{}, fmt.Errorf("LOGIN_RATE_WINDOW must be positive, got %s", env.LoginRateWindow)
	}

	return env, nil
}
