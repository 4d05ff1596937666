package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string) {
	t.Helper()
	require.NoError(t, db.Exec(q).Error, "exec failed: query=%s", q)
}

func createMerchantTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE merchants (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		api_key_hash TEXT NOT NULL UNIQUE,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createPaymentTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		gateway TEXT NOT NULL,
		provider_payment_id TEXT,
		idempotency_key TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		CONSTRAINT idx_merchant_idempotency UNIQUE (merchant_id, idempotency_key)
	);`)
	mustExec(t, db, `CREATE TABLE payment_attempts (
		id TEXT PRIMARY KEY,
		payment_id TEXT NOT NULL,
		attempt_no INTEGER NOT NULL,
		status TEXT NOT NULL,
		error_code TEXT,
		error_message TEXT,
		provider_response TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createRefundTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE refunds (
		id TEXT PRIMARY KEY,
		payment_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		reason TEXT,
		status TEXT NOT NULL,
		provider_refund_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createOutboxAndEventTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE outbox (
		id TEXT PRIMARY KEY,
		aggregate_type TEXT NOT NULL,
		aggregate_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT false,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE events (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		payload TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createWebhookTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE webhook_endpoints (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		url TEXT NOT NULL,
		secret TEXT NOT NULL,
		events TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE webhook_deliveries (
		id TEXT PRIMARY KEY,
		endpoint_id TEXT NOT NULL,
		event_id TEXT NOT NULL,
		status TEXT NOT NULL,
		attempt_count INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		next_retry_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
