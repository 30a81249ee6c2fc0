package configs

import (
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const (
	maxRetries = 10
	retryDelay = 5 * time.Second
)

// DSN builds the connection string for the configured driver.
func (e ENV) DSN() string {
	if e.DBDriver == DriverPostgres {
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			e.DBHost, e.DBUser, e.DBPassword, e.DBName, e.DBPort)
	}

	cfg := mysqldriver.NewConfig()
	cfg.User = e.DBUser
	cfg.Passwd = e.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = e.DBHost + ":" + e.DBPort
	cfg.DBName = e.DBName
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

func (e ENV) dialector() gorm.Dialector {
	if e.DBDriver == DriverPostgres {
		return postgres.Open(e.DSN())
	}
	return mysql.Open(e.DSN())
}

// OpenConnection connects to the database, retrying while it starts up.
func OpenConnection(env ENV, logger *zap.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if !env.IsProduction() {
		logLevel = gormlogger.Info
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		logger.Info("Attempting to connect to database",
			zap.String("driver", env.DBDriver),
			zap.String("host", env.DBHost),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries))

		db, err := gorm.Open(env.dialector(), &gorm.Config{
			Logger: gormlogger.Default.LogMode(logLevel),
		})
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				pingErr = sqlDB.Ping()
				if pingErr == nil {
					logger.Info("Database connection successful")
					return db, nil
				}
			}
			lastErr = pingErr
			logger.Warn("Failed to ping database", zap.Error(pingErr), zap.Duration("retry_in", retryDelay))
		} else {
			lastErr = err
			logger.Warn("Failed to open gorm connection", zap.Error(err), zap.Duration("retry_in", retryDelay))
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to the database after %d retries: %w", maxRetries, lastErr)
}
