package postgressink

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/timelane-go/timelane"
	"github.com/AntonStoeckl/timelane-go/timelane/postgressink/internal/adapters"
)

const (
	defaultTableName = "timelane_records"

	colSequenceNumber = "sequence_number"
	colRunID          = "run_id"
	colKind           = "kind"
	colLane           = "lane"
	colSubscriptionID = "subscription_id"
	colOccurredAt     = "occurred_at"
	colPayload        = "payload"

	dialectPostgres = "postgres"
	castJsonb       = "?::jsonb"
	castUUID        = "?::uuid"
	typeText        = "TEXT"
)

const schemaTemplate = `CREATE TABLE IF NOT EXISTS %[1]s (
    sequence_number BIGSERIAL PRIMARY KEY,
    run_id UUID NOT NULL,
    kind TEXT NOT NULL,
    lane TEXT NOT NULL,
    subscription_id BIGINT NOT NULL,
    occurred_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS %[1]s_run_lane_idx ON %[1]s (run_id, lane, sequence_number);`

// Recorder writes lane records into PostgreSQL and reads them back in insertion order.
type Recorder struct {
	db               adapters.DBAdapter
	tableName        string
	runID            uuid.UUID
	logger           timelane.Logger
	metricsCollector timelane.MetricsCollector
	tracingCollector timelane.TracingCollector
	contextualLogger timelane.ContextualLogger
}

// RecordQuery selects stored records. Zero fields do not filter, a zero Limit returns all rows.
type RecordQuery struct {
	RunID          uuid.UUID
	Lane           string
	SubscriptionID timelane.SubscriptionID
	Limit          uint
}

// StoredRecord is a record together with the row identity it was stored under.
type StoredRecord struct {
	SequenceNumber int64
	RunID          uuid.UUID
	Record         timelane.Record
}

// NewRecorderFromPGXPool creates a Recorder using a pgx Pool with optional configuration.
func NewRecorderFromPGXPool(db *pgxpool.Pool, options ...Option) (Recorder, error) {
	if db == nil {
		return Recorder{}, ErrNilDatabaseConnection
	}

	return newRecorder(adapters.NewPGXAdapter(db), options...)
}

// NewRecorderFromSQLDB creates a Recorder using a sql.DB with optional configuration.
func NewRecorderFromSQLDB(db *sql.DB, options ...Option) (Recorder, error) {
	if db == nil {
		return Recorder{}, ErrNilDatabaseConnection
	}

	return newRecorder(adapters.NewSQLAdapter(db), options...)
}

// NewRecorderFromSQLX creates a Recorder using a sqlx.DB with optional configuration.
func NewRecorderFromSQLX(db *sqlx.DB, options ...Option) (Recorder, error) {
	if db == nil {
		return Recorder{}, ErrNilDatabaseConnection
	}

	return newRecorder(adapters.NewSQLXAdapter(db), options...)
}

func newRecorder(db adapters.DBAdapter, options ...Option) (Recorder, error) {
	r := Recorder{
		db:        db,
		tableName: defaultTableName,
		runID:     uuid.New(),
	}

	for _, option := range options {
		if err := option(&r); err != nil {
			return Recorder{}, err
		}
	}

	return r, nil
}

// RunID identifies the rows written by this Recorder.
func (r Recorder) RunID() uuid.UUID {
	return r.runID
}

// TableName returns the configured table.
func (r Recorder) TableName() string {
	return r.tableName
}

// Schema returns the DDL creating the table and its index.
func (r Recorder) Schema() string {
	return fmt.Sprintf(schemaTemplate, r.tableName)
}

// EnsureSchema creates the table and its index if they do not exist.
func (r Recorder) EnsureSchema(ctx context.Context) error {
	ddl := r.Schema()

	start := time.Now()
	_, execErr := r.db.Exec(ctx, ddl)
	duration := time.Since(start)
	r.logQueryWithDuration(ctx, ddl, operationEnsureSchema, duration)

	if execErr != nil {
		r.logError(ctx, logMsgDBExecFailed, execErr, logAttrOperation, operationEnsureSchema)
		return errors.Join(ErrWritingRecordsFailed, execErr)
	}

	r.logOperation(ctx, operationEnsureSchema, logAttrTable, r.tableName)

	return nil
}

// Write stores records with one multi-row INSERT. It has the signature of buffered.Writer.
// Writing no records is a no-op.
func (r Recorder) Write(ctx context.Context, records []timelane.Record) error {
	if len(records) == 0 {
		return nil
	}

	tracing, ctx := r.startWriteTracing(ctx, len(records))
	metrics := r.startWriteMetrics(ctx)

	sqlQuery, args, buildErr := r.buildInsertQuery(records)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildInsertQueryFailed, buildErr, logAttrRecordCount, len(records))
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return buildErr
	}

	start := time.Now()
	result, execErr := r.db.Exec(ctx, sqlQuery, args...)
	duration := time.Since(start)
	r.logQueryWithDuration(ctx, sqlQuery, operationWrite, duration)

	if execErr != nil {
		r.logError(ctx, logMsgDBExecFailed, execErr, logAttrRecordCount, len(records))
		tracing.finishError(errorTypeDatabaseExec, duration)
		metrics.recordError(errorTypeDatabaseExec, duration)

		return errors.Join(ErrWritingRecordsFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		r.logError(ctx, logMsgRowsAffectedFailed, rowsErr)
		rowsAffected = int64(len(records))
	}

	r.logOperation(ctx, operationWrite,
		logAttrRecordCount, rowsAffected,
		logAttrDurationMS, toMilliseconds(duration))
	tracing.finishSuccess(rowsAffected, duration)
	metrics.recordSuccess(int(rowsAffected), duration)

	return nil
}

// Query returns the stored records matching q, ordered by sequence number.
func (r Recorder) Query(ctx context.Context, q RecordQuery) ([]StoredRecord, error) {
	tracing, ctx := r.startQueryTracing(ctx, q)
	metrics := r.startQueryMetrics(ctx)

	sqlQuery, args, buildErr := r.buildSelectQuery(q)
	if buildErr != nil {
		r.logError(ctx, logMsgBuildSelectQueryFailed, buildErr)
		tracing.finishError(errorTypeBuildQuery, 0)
		metrics.recordError(errorTypeBuildQuery, 0)

		return nil, buildErr
	}

	start := time.Now()
	rows, queryErr := r.db.Query(ctx, sqlQuery, args...)
	if queryErr != nil {
		duration := time.Since(start)
		r.logQueryWithDuration(ctx, sqlQuery, operationQuery, duration)
		r.logError(ctx, logMsgDBQueryFailed, queryErr, logAttrQuery, sqlQuery)
		tracing.finishError(errorTypeDatabaseQuery, duration)
		metrics.recordError(errorTypeDatabaseQuery, duration)

		return nil, errors.Join(ErrQueryingRecordsFailed, queryErr)
	}
	defer r.closeRows(ctx, rows)

	stored, scanErr := r.processQueryResults(ctx, rows)
	duration := time.Since(start)
	r.logQueryWithDuration(ctx, sqlQuery, operationQuery, duration)

	if scanErr != nil {
		tracing.finishError(errorTypeRowScan, duration)
		metrics.recordError(errorTypeRowScan, duration)

		return nil, scanErr
	}

	r.logOperation(ctx, operationQuery,
		logAttrRecordCount, len(stored),
		logAttrDurationMS, toMilliseconds(duration))
	tracing.finishSuccess(int64(len(stored)), duration)
	metrics.recordSuccess(len(stored), duration)

	return stored, nil
}

func (r Recorder) processQueryResults(ctx context.Context, rows adapters.DBRows) ([]StoredRecord, error) {
	stored := make([]StoredRecord, 0)

	var (
		sequenceNumber int64
		runID          string
		payload        []byte
	)

	for rows.Next() {
		if err := rows.Scan(&sequenceNumber, &runID, &payload); err != nil {
			r.logError(ctx, logMsgScanRowFailed, err)
			return nil, errors.Join(ErrScanningRowFailed, err)
		}

		parsedRunID, parseErr := uuid.Parse(runID)
		if parseErr != nil {
			r.logError(ctx, logMsgScanRowFailed, parseErr, logAttrSequenceNumber, sequenceNumber)
			return nil, errors.Join(ErrScanningRowFailed, parseErr)
		}

		record, decodeErr := timelane.UnmarshalRecordJSON(payload)
		if decodeErr != nil {
			r.logError(ctx, logMsgDecodeRecordFailed, decodeErr, logAttrSequenceNumber, sequenceNumber)
			return nil, errors.Join(ErrScanningRowFailed, decodeErr)
		}

		stored = append(stored, StoredRecord{
			SequenceNumber: sequenceNumber,
			RunID:          parsedRunID,
			Record:         record,
		})
	}

	if err := rows.Err(); err != nil {
		r.logError(ctx, logMsgScanRowFailed, err)
		return nil, errors.Join(ErrScanningRowFailed, err)
	}

	return stored, nil
}

func (r Recorder) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		r.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}

func (r Recorder) buildInsertQuery(records []timelane.Record) (string, []any, error) {
	rows := make([]any, 0, len(records))

	for _, record := range records {
		payload, encodeErr := timelane.MarshalRecordJSON(record)
		if encodeErr != nil {
			return "", nil, errors.Join(ErrBuildingQueryFailed, encodeErr)
		}

		occurredAt := record.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = time.Now()
		}

		rows = append(rows, goqu.Record{
			colRunID:          goqu.L(castUUID, r.runID.String()),
			colKind:           record.Kind.String(),
			colLane:           record.Subscription,
			colSubscriptionID: int64(record.SubscriptionID),
			colOccurredAt:     occurredAt.UTC(),
			colPayload:        goqu.L(castJsonb, string(payload)),
		})
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(r.tableName).
		Rows(rows...).
		Prepared(true)

	sqlQuery, args, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}

func (r Recorder) buildSelectQuery(q RecordQuery) (string, []any, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(r.tableName).
		Select(
			goqu.C(colSequenceNumber),
			goqu.Cast(goqu.C(colRunID), typeText).As(colRunID),
			goqu.C(colPayload),
		).
		Order(goqu.I(colSequenceNumber).Asc()).
		Prepared(true)

	var conditions []goqu.Expression

	if q.RunID != uuid.Nil {
		conditions = append(conditions, goqu.C(colRunID).Eq(goqu.L(castUUID, q.RunID.String())))
	}

	if q.Lane != "" {
		conditions = append(conditions, goqu.C(colLane).Eq(q.Lane))
	}

	if q.SubscriptionID != 0 {
		conditions = append(conditions, goqu.C(colSubscriptionID).Eq(int64(q.SubscriptionID)))
	}

	if len(conditions) > 0 {
		selectStmt = selectStmt.Where(conditions...)
	}

	if q.Limit > 0 {
		selectStmt = selectStmt.Limit(q.Limit)
	}

	sqlQuery, args, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", nil, errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, args, nil
}
