package readings

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/envmon/internal/dbx"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/google/uuid"
)

var newID = uuid.NewString

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, reading *models.Reading) (*models.Reading, error) {

	query :=
		`INSERT INTO readings (id, timestamp, temperature, humidity)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`

	created := *reading
	created.ID = newID()

	err := r.db.QueryRowContext(ctx, query,
		created.ID, created.Timestamp, created.Temperature, created.Humidity,
	).Scan(&created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &created, nil
}

func (r *PostgresRepository) List(ctx context.Context, order Order) ([]*models.Reading, error) {

	direction := "DESC"
	if order == OldestFirst {
		direction = "ASC"
	}

	query := fmt.Sprintf(
		`SELECT id, timestamp, temperature, humidity, created_at FROM readings
		 ORDER BY created_at %[1]s, id %[1]s`, direction)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Reading, 0)
	for rows.Next() {
		item := &models.Reading{}
		if err := rows.Scan(&item.ID, &item.Timestamp, &item.Temperature, &item.Humidity, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

// Ping runs a trivial query through the bound DBTX.
func (r *PostgresRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
