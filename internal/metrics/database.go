package metrics

import (
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "metrics:query_start"

const slowQueryThreshold = 100 * time.Millisecond

// DatabaseMetricsCollector samples pool stats and times every gorm statement.
type DatabaseMetricsCollector struct {
	metrics *Metrics
	logger  *zap.Logger
	sqlDB   *sql.DB
	ticker  *time.Ticker
	stopCh  chan struct{}
}

func NewDatabaseMetricsCollector(metrics *Metrics, logger *zap.Logger, db *gorm.DB) *DatabaseMetricsCollector {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get sql.DB from gorm.DB", zap.Error(err))
		metrics.RecordDBConnectionError()
	}

	return &DatabaseMetricsCollector{
		metrics: metrics,
		logger:  logger,
		sqlDB:   sqlDB,
		stopCh:  make(chan struct{}),
	}
}

// Instrument registers before/after callbacks on the CRUD processors of db.
func (dmc *DatabaseMetricsCollector) Instrument(db *gorm.DB) error {
	cb := db.Callback()

	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", dmc.before),
		cb.Create().After("gorm:create").Register("metrics:after_create", dmc.after("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", dmc.before),
		cb.Query().After("gorm:query").Register("metrics:after_query", dmc.after("select")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", dmc.before),
		cb.Update().After("gorm:update").Register("metrics:after_update", dmc.after("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", dmc.before),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", dmc.after("delete")),
	)
}

func (dmc *DatabaseMetricsCollector) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (dmc *DatabaseMetricsCollector) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		value, ok := db.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		start, ok := value.(time.Time)
		if !ok {
			return
		}

		duration := time.Since(start)
		status := queryStatus(db.Error)
		table := db.Statement.Table

		dmc.metrics.RecordDBQuery(operation, table, status, duration)

		if duration > slowQueryThreshold {
			dmc.logger.Warn("Slow database query",
				zap.String("operation", operation),
				zap.String("table", table),
				zap.String("status", status),
				zap.Duration("duration", duration),
			)
		}
	}
}

func queryStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (dmc *DatabaseMetricsCollector) Start(interval time.Duration) {
	if dmc.sqlDB == nil {
		dmc.logger.Warn("Cannot start database metrics collector: sqlDB is nil")
		return
	}

	dmc.ticker = time.NewTicker(interval)
	go dmc.collectLoop()
	dmc.logger.Info("Database metrics collector started", zap.Duration("interval", interval))
}

func (dmc *DatabaseMetricsCollector) Stop() {
	if dmc.ticker != nil {
		dmc.ticker.Stop()
	}
	close(dmc.stopCh)
	dmc.logger.Info("Database metrics collector stopped")
}

func (dmc *DatabaseMetricsCollector) collectLoop() {
	dmc.collect()

	for {
		select {
		case <-dmc.ticker.C:
			dmc.collect()
		case <-dmc.stopCh:
			return
		}
	}
}

func (dmc *DatabaseMetricsCollector) collect() {
	if dmc.sqlDB == nil {
		return
	}

	stats := dmc.sqlDB.Stats()

	dmc.metrics.DBConnectionsInUse.Set(float64(stats.InUse))
	dmc.metrics.DBConnectionsIdle.Set(float64(stats.Idle))

	dmc.logger.Debug("Database connection stats",
		zap.Int("openConnections", stats.OpenConnections),
		zap.Int("inUse", stats.InUse),
		zap.Int("idle", stats.Idle),
		zap.Int64("waitCount", stats.WaitCount),
	)
}

// HealthCheck pings the database. Backs the /health endpoint.
func (dmc *DatabaseMetricsCollector) HealthCheck() error {
	if dmc.sqlDB == nil {
		dmc.metrics.RecordDBConnectionError()
		return sql.ErrConnDone
	}

	start := time.Now()
	err := dmc.sqlDB.Ping()
	dmc.metrics.RecordDBQuery("ping", "health_check", queryStatus(err), time.Since(start))
	if err != nil {
		dmc.metrics.RecordDBConnectionError()
	}

	return err
}
