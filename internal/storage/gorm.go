package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cristianadrielbraun/qrdesigner/internal/constant"
	appLogger "github.com/cristianadrielbraun/qrdesigner/internal/logger"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

// maxLoggedSQL caps the statement length written to the log.
const maxLoggedSQL = 512

// RecordModel is the GORM model for a stored settings record.
type RecordModel struct {
	Key       string `gorm:"column:record_key;primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (RecordModel) TableName() string { return "design_records" }

// GormKV implements KV on top of a SQL database.
type GormKV struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) a SQLite database at path.
func OpenSQLite(path string) (*GormKV, error) {
	return openGorm(sqlite.Open(path), path)
}

// OpenPostgres opens (and migrates) a Postgres database.
func OpenPostgres(dsn string) (*GormKV, error) {
	return openGorm(postgres.Open(dsn), "postgres")
}

func openGorm(dialector gorm.Dialector, target string) (*GormKV, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: &GormLogger{}})
	if err != nil {
		appLogger.Error("Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{constant.DataPath: target},
		})
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(&RecordModel{}); err != nil {
		appLogger.Error("Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	appLogger.Info("Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data:            map[string]interface{}{constant.DataPath: target},
	})
	return &GormKV{db: db}, nil
}

func (g *GormKV) Get(ctx context.Context, key string) (string, error) {
	var m RecordModel
	err := g.db.WithContext(ctx).Where("record_key = ?", key).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return m.Value, nil
}

func (g *GormKV) Set(ctx context.Context, key, value string) error {
	m := RecordModel{Key: key, Value: value, UpdatedAt: time.Now()}
	err := g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&m).Error
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (g *GormKV) Delete(ctx context.Context, key string) error {
	if err := g.db.WithContext(ctx).Where("record_key = ?", key).Delete(&RecordModel{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (g *GormKV) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		appLogger.Error("Failed to close database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}
	return nil
}

// GormLogger routes GORM's logging into the application logger.
type GormLogger struct{}

func (l *GormLogger) LogMode(gormLogger.LogLevel) gormLogger.Interface {
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data:            map[string]interface{}{constant.DataData: data},
	})
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data:            map[string]interface{}{constant.DataData: data},
	})
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{constant.DataData: data},
	})
}

// Trace logs SQL statements at debug level and failures at error level.
// Missing rows are expected on first load and are not errors. The statement
// is only built when it will be written.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	if !failed && !appLogger.Enabled(zapcore.DebugLevel) {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	data := map[string]interface{}{
		constant.DataElapsed: elapsed.String(),
		constant.DataRows:    rows,
		constant.DataSQL:     truncateSQL(sql),
	}

	if failed {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: data,
		})
		return
	}

	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data:            data,
	})
}

// truncateSQL shortens statements carrying large values such as logo data URLs.
func truncateSQL(sql string) string {
	if len(sql) <= maxLoggedSQL {
		return sql
	}
	return fmt.Sprintf("%s... (%d bytes)", sql[:maxLoggedSQL], len(sql))
}
