package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"donapoint/internal/point/models"
	"donapoint/pkg/platform/sentinel"
)

// Postgres persists points in PostgreSQL through database/sql and lib/pq.
// Schedule fields are stored as minutes since midnight; optional columns are
// nullable rather than sentinel-valued.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Migrate creates the donation_points table when it does not exist yet.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS donation_points (
			id               UUID PRIMARY KEY,
			name             TEXT NOT NULL,
			address          TEXT NOT NULL,
			latitude         DOUBLE PRECISION NOT NULL,
			longitude        DOUBLE PRECISION NOT NULL,
			donation_types   TEXT NOT NULL,
			open_minute      INT,
			close_minute     INT,
			phone            TEXT,
			email            TEXT,
			active           BOOLEAN NOT NULL,
			state            TEXT NOT NULL,
			creator_id       UUID,
			creator_type     TEXT,
			rejection_reason TEXT NOT NULL DEFAULT '',
			created_at       TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate donation_points: %w", err)
	}
	return nil
}

const pointColumns = `id, name, address, latitude, longitude, donation_types,
	open_minute, close_minute, phone, email, active, state, creator_id,
	creator_type, rejection_reason, created_at`

func (s *Postgres) Create(ctx context.Context, p *models.Point) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO donation_points (`+pointColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		p.ID, p.Name, p.Address, p.Latitude, p.Longitude, p.DonationTypes,
		nullMinute(p.OpenTime), nullMinute(p.CloseTime),
		nullString(p.Phone), nullString(p.Email),
		p.Active, string(p.State), nullUUID(p.CreatorID),
		nullCreatorType(p.CreatorType), p.RejectionReason, p.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert point: %w", err)
	}
	return nil
}

func (s *Postgres) Save(ctx context.Context, p *models.Point) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE donation_points SET
			name = $2, address = $3, latitude = $4, longitude = $5,
			donation_types = $6, open_minute = $7, close_minute = $8,
			phone = $9, email = $10, active = $11, state = $12,
			creator_id = $13, creator_type = $14, rejection_reason = $15
		WHERE id = $1`,
		p.ID, p.Name, p.Address, p.Latitude, p.Longitude, p.DonationTypes,
		nullMinute(p.OpenTime), nullMinute(p.CloseTime),
		nullString(p.Phone), nullString(p.Email),
		p.Active, string(p.State), nullUUID(p.CreatorID),
		nullCreatorType(p.CreatorType), p.RejectionReason)
	if err != nil {
		return fmt.Errorf("update point: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM donation_points WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete point: %w", err)
	}
	return requireRow(res)
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Point, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+pointColumns+` FROM donation_points WHERE id = $1`, id)
	p, err := scanPoint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find point: %w", err)
	}
	return p, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Point, error) {
	return s.query(ctx,
		`SELECT `+pointColumns+` FROM donation_points ORDER BY created_at, id`)
}

func (s *Postgres) ListByState(ctx context.Context, state models.PointState) ([]*models.Point, error) {
	return s.query(ctx,
		`SELECT `+pointColumns+` FROM donation_points WHERE state = $1 ORDER BY created_at, id`,
		string(state))
}

func (s *Postgres) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*models.Point, error) {
	return s.query(ctx,
		`SELECT `+pointColumns+` FROM donation_points
		 WHERE creator_id = $1 AND creator_type = $2 ORDER BY created_at, id`,
		creatorID, string(models.CreatorOrganization))
}

func (s *Postgres) ListVisible(ctx context.Context) ([]*models.Point, error) {
	return s.query(ctx,
		`SELECT `+pointColumns+` FROM donation_points
		 WHERE active AND state = $1 ORDER BY created_at, id`,
		string(models.StateActive))
}

func (s *Postgres) ListByDonationType(ctx context.Context, t models.DonationType) ([]*models.Point, error) {
	return s.query(ctx,
		`SELECT `+pointColumns+` FROM donation_points
		 WHERE active AND lower(donation_types) LIKE '%' || $1 || '%'
		 ORDER BY created_at, id`,
		t.String())
}

func (s *Postgres) SearchByName(ctx context.Context, name string) ([]*models.Point, error) {
	return s.query(ctx,
		`SELECT `+pointColumns+` FROM donation_points
		 WHERE active AND name ILIKE '%' || $1 || '%'
		 ORDER BY created_at, id`,
		escapeLike(name))
}

func (s *Postgres) query(ctx context.Context, q string, args ...any) ([]*models.Point, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query points: %w", err)
	}
	defer rows.Close()

	var points []*models.Point
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate points: %w", err)
	}
	return points, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPoint(row scanner) (*models.Point, error) {
	var (
		p           models.Point
		openMinute  sql.NullInt64
		closeMinute sql.NullInt64
		phone       sql.NullString
		email       sql.NullString
		creatorID   sql.Null[uuid.UUID]
		creatorType sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &p.Address, &p.Latitude, &p.Longitude,
		&p.DonationTypes, &openMinute, &closeMinute, &phone, &email,
		&p.Active, &p.State, &creatorID, &creatorType,
		&p.RejectionReason, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if openMinute.Valid {
		t := models.FromMinuteOfDay(int(openMinute.Int64))
		p.OpenTime = &t
	}
	if closeMinute.Valid {
		t := models.FromMinuteOfDay(int(closeMinute.Int64))
		p.CloseTime = &t
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	if email.Valid {
		p.Email = &email.String
	}
	if creatorID.Valid {
		id := creatorID.V
		p.CreatorID = &id
	}
	if creatorType.Valid {
		p.CreatorType = models.CreatorType(creatorType.String)
	}
	return &p, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullMinute(t *models.TimeOfDay) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(t.MinuteOfDay()), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullUUID(id *uuid.UUID) sql.Null[uuid.UUID] {
	if id == nil {
		return sql.Null[uuid.UUID]{}
	}
	return sql.Null[uuid.UUID]{V: *id, Valid: true}
}

func nullCreatorType(ct models.CreatorType) sql.NullString {
	if ct == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(ct), Valid: true}
}

// escapeLike neutralizes LIKE wildcards in user-supplied search terms.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
