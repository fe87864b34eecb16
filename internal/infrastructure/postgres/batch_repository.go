package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farmacia-pro/internal/domain"
	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con
// pool o tx). position es un BIGSERIAL: el orden de inserción lo asigna la
// base y sirve de desempate FIFO estable.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, product_id, batch_number, expiration_date, received_date, quantity_received, quantity_remaining, unit_cost, sale_price, supplier_id, notes, position, created_at, updated_at`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var supplierID *string
	err := row.Scan(
		&b.ID, &b.ProductID, &b.BatchNumber, &b.ExpirationDate, &b.ReceivedDate,
		&b.QuantityReceived, &b.QuantityRemaining, &b.UnitCost, &b.SalePrice,
		&supplierID, &b.Notes, &b.Position, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if supplierID != nil {
		b.SupplierID = *supplierID
	}
	return &b, nil
}

// Create persiste un lote nuevo; la base asigna position y aquí se refleja en
// la entidad.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO product_batches (id, product_id, batch_number, expiration_date, received_date, quantity_received, quantity_remaining, unit_cost, sale_price, supplier_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING position`
	supplierID := (*string)(nil)
	if batch.SupplierID != "" {
		supplierID = &batch.SupplierID
	}
	err := r.q.QueryRow(context.Background(), query,
		batch.ID, batch.ProductID, batch.BatchNumber, batch.ExpirationDate, batch.ReceivedDate,
		batch.QuantityReceived, batch.QuantityRemaining, batch.UnitCost, batch.SalePrice,
		supplierID, batch.Notes, batch.CreatedAt, batch.UpdatedAt,
	).Scan(&batch.Position)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBatchNumber
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByProduct lista todos los lotes de un producto en orden de inserción.
func (r *BatchRepo) ListByProduct(productID string) ([]entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE product_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var list []entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return list, nil
}

// Update actualiza los campos no cuantitativos de un lote. Las cantidades no
// aparecen en el SET: solo UpdateRemaining las muta.
func (r *BatchRepo) Update(batch *entity.Batch) error {
	query := `
		UPDATE product_batches
		SET batch_number = $2, expiration_date = $3, unit_cost = $4, sale_price = $5,
		    supplier_id = $6, notes = $7, updated_at = $8
		WHERE id = $1`
	supplierID := (*string)(nil)
	if batch.SupplierID != "" {
		supplierID = &batch.SupplierID
	}
	tag, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.BatchNumber, batch.ExpirationDate, batch.UnitCost, batch.SalePrice,
		supplierID, batch.Notes, batch.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateBatchNumber
		}
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

// UpdateRemaining fija el restante de un lote. El CHECK de la tabla
// (0 ≤ quantity_remaining ≤ quantity_received) respalda lo que el asignador
// ya garantiza.
func (r *BatchRepo) UpdateRemaining(batchID string, remaining int64) error {
	query := `UPDATE product_batches SET quantity_remaining = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, batchID, remaining)
	if err != nil {
		return fmt.Errorf("update batch remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}
