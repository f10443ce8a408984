package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
)

// PostgresLogs хранит журнал действий в PostgreSQL (LOG_STORE=postgres).
// Идентификаторы остаются ObjectID в hex, чтобы API не зависел от хранилища.
type PostgresLogs struct {
	db *sql.DB
}

func NewPostgresLogs(db *sql.DB) *PostgresLogs { return &PostgresLogs{db: db} }

var _ LogRepository = (*PostgresLogs)(nil)

// OpenPostgres открывает пул через драйвер pgx и проверяет соединение
func OpenPostgres(ctx context.Context, dsn string, maxOpen int) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("missing postgres dsn")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen / 3)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

func (r *PostgresLogs) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT,
			user_name TEXT NOT NULL,
			user_role TEXT NOT NULL,
			method TEXT NOT NULL,
			endpoint TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs (created_at DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresLogs) Create(ctx context.Context, l *domain.Log) error {
	l.ID = primitive.NewObjectID()
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	var userID sql.NullString
	if l.UserID != nil {
		userID = sql.NullString{String: l.UserID.Hex(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (id, user_id, user_name, user_role, method, endpoint, action, details, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		l.ID.Hex(), userID, l.UserName, l.UserRole, l.Method, l.Endpoint, l.Action, l.Details, l.Timestamp)
	return err
}

func (r *PostgresLogs) List(ctx context.Context) ([]domain.Log, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, user_name, user_role, method, endpoint, action, details, created_at
		FROM audit_logs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Log, 0)
	for rows.Next() {
		var (
			l       domain.Log
			id      string
			userID  sql.NullString
			details sql.NullString
		)
		if err := rows.Scan(&id, &userID, &l.UserName, &l.UserRole, &l.Method, &l.Endpoint, &l.Action, &details, &l.Timestamp); err != nil {
			return nil, err
		}
		if l.ID, err = primitive.ObjectIDFromHex(id); err != nil {
			return nil, fmt.Errorf("log id %q: %w", id, err)
		}
		if userID.Valid {
			if uid, err := primitive.ObjectIDFromHex(userID.String); err == nil {
				l.UserID = &uid
			}
		}
		l.Details = details.String
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresLogs) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs WHERE id=$1`, id.Hex())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresLogs) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_logs`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
