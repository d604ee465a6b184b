package repository

import (
	"Slipboard/internal/pkg/metrics"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxTxRetries = 3
	retryBackoff = 20 * time.Millisecond
)

// MySQL 可重试错误码
const (
	errDuplicateEntry  = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// forUpdate 行锁，SQLite 方言下会被忽略
var forUpdate = clause.Locking{Strength: "UPDATE"}

// isRetryable 死锁、锁等待超时、并发插入主键冲突时整个事务重试
func isRetryable(err error) bool {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) {
		return false
	}
	switch mysqlErr.Number {
	case errDuplicateEntry, errLockWaitTimeout, errDeadlock:
		return true
	}
	return false
}

// runTx 执行事务，可重试错误最多重试 maxTxRetries 次
func runTx(ctx context.Context, db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = db.WithContext(ctx).Transaction(fn)
		if err == nil || !isRetryable(err) || attempt >= maxTxRetries {
			return err
		}
		metrics.Default().RecordTxRetry(op)
		log.WarnContext(ctx, "transaction retry", "op", op, "attempt", attempt+1, "err", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * retryBackoff):
		}
	}
}
