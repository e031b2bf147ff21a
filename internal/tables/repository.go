package tables

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Marcial-ar/tpv/internal/domain"
)

var ErrTableNotFound = errors.New("table not found")

type TableRepository struct {
	db *sql.DB
}

func NewTableRepository(db *sql.DB) *TableRepository {
	return &TableRepository{db: db}
}

func (r *TableRepository) TablesByZone(ctx context.Context, zone domain.Zone) ([]domain.Table, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, zone, seats, status, current_order_id
		FROM dining_tables
		WHERE zone = $1
		ORDER BY number
	`, zone)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tables := []domain.Table{}
	for rows.Next() {
		var t domain.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

func (r *TableRepository) Table(ctx context.Context, id string) (*domain.Table, error) {
	t := &domain.Table{}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, number, zone, seats, status, current_order_id
		FROM dining_tables
		WHERE id = $1
	`, id)
	if err := scanTable(row, t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return t, nil
}

func (r *TableRepository) UpdateTableStatus(ctx context.Context, tableID string, status domain.TableStatus, currentOrder *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE dining_tables SET status = $1, current_order_id = $2
		WHERE id = $3
	`, status, currentOrder, tableID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrTableNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTable(s scanner, t *domain.Table) error {
	var current sql.NullString
	if err := s.Scan(&t.ID, &t.Number, &t.Zone, &t.Seats, &t.Status, &current); err != nil {
		return err
	}
	if current.Valid {
		t.CurrentOrder = &current.String
	}
	return nil
}
