package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/farmacia-pro/internal/domain/entity"
	"github.com/jhoicas/farmacia-pro/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: el libro no se edita.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, batch_id, type, quantity, unit_cost, reference_type, reference_id, notes, created_at, created_by`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var batchID, refType, refID *string
	err := row.Scan(
		&m.ID, &m.ProductID, &batchID, &m.Type, &m.Quantity, &m.UnitCost,
		&refType, &refID, &m.Notes, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if batchID != nil {
		m.BatchID = *batchID
	}
	if refType != nil {
		m.ReferenceType = *refType
	}
	if refID != nil {
		m.ReferenceID = *refID
	}
	return &m, nil
}

// Create persiste una entrada del libro.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batchID := (*string)(nil)
	if movement.BatchID != "" {
		batchID = &movement.BatchID
	}
	refType := (*string)(nil)
	if movement.ReferenceType != "" {
		refType = &movement.ReferenceType
	}
	refID := (*string)(nil)
	if movement.ReferenceID != "" {
		refID = &movement.ReferenceID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ProductID, batchID, movement.Type, movement.Quantity,
		movement.UnitCost, refType, refID, movement.Notes, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByProduct lista el libro de un producto, más reciente primero, con
// filtro opcional de fechas y paginación.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	if from != nil {
		args = append(args, *from)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC, id LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return list, nil
}

// SumDeltasByProduct suma todos los deltas del libro de un producto. Debe
// coincidir con el stock cacheado y con la suma de restantes por lote.
func (r *StockMovementRepo) SumDeltasByProduct(productID string) (int64, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_movements WHERE product_id = $1`
	var total int64
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum movement deltas: %w", err)
	}
	return total, nil
}
