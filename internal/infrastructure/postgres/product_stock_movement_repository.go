package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

var _ repository.ProductStockMovementRepository = (*ProductStockMovementRepo)(nil)

// ProductStockMovementRepo adaptador do ledger de produto acabado. Mesmo
// contrato append-only do ledger de materiais.
type ProductStockMovementRepo struct {
	q Querier
}

// NewProductStockMovementRepository constrói o adaptador. Passar pool ou tx.
func NewProductStockMovementRepository(q Querier) *ProductStockMovementRepo {
	return &ProductStockMovementRepo{q: q}
}

// Create insere um movimento de produto acabado.
func (r *ProductStockMovementRepo) Create(movement *entity.ProductStockMovement) error {
	query := `
		INSERT INTO product_stock_movements (id, company_id, product_id, type, quantity, note, source, order_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), $9, NULLIF($10, ''))`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.ProductID, movement.Type, movement.Quantity,
		movement.Note, movement.Source, movement.OrderID, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert product movement: %w", err)
	}
	return nil
}

// ListByCompany lista os movimentos de produto acabado do tenant, do mais
// novo ao mais antigo.
func (r *ProductStockMovementRepo) ListByCompany(companyID string, limit int) ([]*entity.ProductStockMovement, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, company_id, product_id, type, quantity, COALESCE(note, ''), source, COALESCE(order_id::text, ''), created_at, COALESCE(created_by::text, '')
		FROM product_stock_movements WHERE company_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("list product movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProductStockMovement
	for rows.Next() {
		var m entity.ProductStockMovement
		err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.Quantity,
			&m.Note, &m.Source, &m.OrderID, &m.CreatedAt, &m.CreatedBy)
		if err != nil {
			return nil, fmt.Errorf("scan product movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// BalancesForProducts reconstrói no banco o saldo por produto (soma com
// sinal sobre o ledger de produto acabado).
func (r *ProductStockMovementRepo) BalancesForProducts(companyID string, productIDs []string) (map[string]decimal.Decimal, error) {
	if len(productIDs) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	query := `
		SELECT product_id,
		       SUM(CASE WHEN type IN ('IN', 'IN_ADJUST') THEN quantity ELSE -quantity END)
		FROM product_stock_movements
		WHERE company_id = $1 AND product_id = ANY($2)
		GROUP BY product_id`
	rows, err := r.q.Query(context.Background(), query, companyID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("sum product balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var id string
		var balance decimal.Decimal
		if err := rows.Scan(&id, &balance); err != nil {
			return nil, fmt.Errorf("scan product balance: %w", err)
		}
		balances[id] = balance
	}
	return balances, rows.Err()
}
