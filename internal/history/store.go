// CropAdvisor - Crop and Fertilizer Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cropadvisor

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
)

// Limits for ListByFarmer.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

const defaultQueryTimeout = 30 * time.Second

// ErrInvalidRecord is returned by Save for records missing required fields.
var ErrInvalidRecord = errors.New("invalid advisory record")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS advisory_records (
		id VARCHAR PRIMARY KEY,
		farmer_uid VARCHAR NOT NULL,
		land_parcel_id BIGINT,
		recommendation_type VARCHAR NOT NULL,
		recommendation_data VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_advisory_records_farmer
		ON advisory_records (farmer_uid, created_at)`,
}

// Store persists advisory records in DuckDB.
type Store struct {
	conn *sql.DB
}

// Open opens the DuckDB database at path and creates the schema. An empty
// path or ":memory:" opens an in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	connStr := path
	if path != "" && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
		connStr = path + "?access_mode=read_write&autoinstall_known_extensions=false&autoload_known_extensions=false"
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s, err := NewStore(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an open connection and creates the schema.
func NewStore(ctx context.Context, conn *sql.DB) (*Store, error) {
	if conn == nil {
		return nil, errors.New("database connection is required")
	}
	s := &Store{conn: conn}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to create advisory_records schema: %w", err)
		}
	}
	return s, nil
}

// Save inserts a record, assigning ID and CreatedAt when empty.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.FarmerUID == "" {
		return fmt.Errorf("%w: farmer_uid is required", ErrInvalidRecord)
	}
	if !rec.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidRecord, rec.Type)
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	var parcel sql.NullInt64
	if rec.LandParcelID != nil {
		parcel = sql.NullInt64{Int64: *rec.LandParcelID, Valid: true}
	}

	query := `
		INSERT INTO advisory_records (
			id, farmer_uid, land_parcel_id, recommendation_type,
			recommendation_data, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.conn.ExecContext(ctx, query,
		rec.ID, rec.FarmerUID, parcel, string(rec.Type),
		string(rec.Data), rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert advisory record: %w", err)
	}
	return nil
}

// ListByFarmer returns a farmer's records, newest first. limit is clamped
// to [1, MaxListLimit]; zero or less selects DefaultListLimit.
func (s *Store) ListByFarmer(ctx context.Context, farmerUID string, limit int) ([]Record, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()

	query := `
		SELECT id, farmer_uid, land_parcel_id, recommendation_type,
			recommendation_data, created_at
		FROM advisory_records
		WHERE farmer_uid = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := s.conn.QueryContext(ctx, query, farmerUID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query advisory records: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec    Record
			parcel sql.NullInt64
			typ    string
			data   string
		)
		if err := rows.Scan(&rec.ID, &rec.FarmerUID, &parcel, &typ, &data, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan advisory record: %w", err)
		}
		if parcel.Valid {
			v := parcel.Int64
			rec.LandParcelID = &v
		}
		rec.Type = Type(typ)
		rec.Data = []byte(data)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advisory records: %w", err)
	}
	return records, nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	return s.conn.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// ensureContext applies the default timeout when ctx has no deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		return context.WithTimeout(context.Background(), defaultQueryTimeout)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, defaultQueryTimeout)
	}
	return ctx, func() {}
}
