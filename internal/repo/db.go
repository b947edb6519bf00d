package repo

import (
	"TravelJournal/internal/model"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const connectTimeoutSeconds = "10"

// InitDB открывает БД и применяет миграции.
// Пустой dsn или sqlite:///path - встроенный SQLite-файл, иначе PostgreSQL.
func InitDB(dsn, fallbackPath string, verbose bool) (*gorm.DB, error) {
	dialector, isSQLite := OpenDialector(dsn, fallbackPath)

	logMode := logger.Silent
	if verbose {
		logMode = logger.Warn
	}
	db, err := gorm.Open(dialector, NewGormConfig(logMode))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if isSQLite {
		// один писатель - без "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// NewGormConfig возвращает общую конфигурацию gorm (UTC-время, трансляция ошибок драйвера).
func NewGormConfig(logMode logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logMode),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	}
}

// Migrate создаёт/обновляет таблицы users, journals, sessions.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.Journal{}, &model.Session{})
}

// OpenDialector выбирает драйвер по строке подключения.
func OpenDialector(dsn, fallbackPath string) (gorm.Dialector, bool) {
	dsn = strings.TrimSpace(dsn)
	switch {
	case dsn == "":
		return SQLiteDialector(sqliteFileDSN(fallbackPath)), true
	case strings.HasPrefix(dsn, "sqlite://"):
		// sqlite:///relative.db -> relative.db, sqlite:////abs.db -> /abs.db
		return SQLiteDialector(sqliteFileDSN(strings.TrimPrefix(dsn, "sqlite:///"))), true
	default:
		return postgres.Open(postgresDSN(dsn)), false
	}
}

// SQLiteDialector: pure-Go SQLite (modernc.org/sqlite) через gorm-драйвер.
func SQLiteDialector(dsn string) gorm.Dialector {
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

func sqliteFileDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// postgresDSN нормализует схему postgres:// и добавляет connect_timeout.
func postgresDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") {
		dsn = "postgresql://" + strings.TrimPrefix(dsn, "postgres://")
	}
	if strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		if q.Get("connect_timeout") == "" {
			q.Set("connect_timeout", connectTimeoutSeconds)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	// key=value DSN
	if !strings.Contains(dsn, "connect_timeout=") {
		dsn += " connect_timeout=" + connectTimeoutSeconds
	}
	return dsn
}
