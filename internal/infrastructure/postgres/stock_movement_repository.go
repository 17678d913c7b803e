package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo adaptador do ledger de materiais. Append-only: não há
// UPDATE nem DELETE aqui, por contrato.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, company_id, material_id, color, type, quantity, note, source, order_id, created_at, created_by`

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var note, orderID, createdBy *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.MaterialID, &m.Color, &m.Type, &m.Quantity,
		&note, &m.Source, &orderID, &m.CreatedAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	if note != nil {
		m.Note = *note
	}
	if orderID != nil {
		m.OrderID = *orderID
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}

// Create insere um movimento no ledger.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, company_id, material_id, color, type, quantity, note, source, order_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, NULLIF($9, ''), $10, NULLIF($11, ''))`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.CompanyID, movement.MaterialID, movement.Color, movement.Type,
		movement.Quantity, movement.Note, movement.Source, movement.OrderID,
		movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByCompany lista o ledger inteiro do tenant, do mais antigo ao mais novo.
func (r *StockMovementRepo) ListByCompany(companyID string) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE company_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByMaterial lista o extrato de um material com filtro opcional de
// período, do mais novo ao mais antigo.
func (r *StockMovementRepo) ListByMaterial(materialID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements
		WHERE material_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, materialID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list material movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// BalancesForMaterials reconstrói no banco o saldo de cada par
// (material, cor): soma com sinal sobre o ledger. É a mesma dobra de
// stock.ReplayBalances, expressa em SQL para rodar dentro de transações.
func (r *StockMovementRepo) BalancesForMaterials(companyID string, materialIDs []string) (map[repository.BalanceKey]decimal.Decimal, error) {
	if len(materialIDs) == 0 {
		return map[repository.BalanceKey]decimal.Decimal{}, nil
	}
	query := `
		SELECT material_id, color,
		       SUM(CASE WHEN type IN ('IN', 'IN_ADJUST') THEN quantity ELSE -quantity END)
		FROM stock_movements
		WHERE company_id = $1 AND material_id = ANY($2)
		GROUP BY material_id, color`
	rows, err := r.q.Query(context.Background(), query, companyID, materialIDs)
	if err != nil {
		return nil, fmt.Errorf("sum balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[repository.BalanceKey]decimal.Decimal)
	for rows.Next() {
		var key repository.BalanceKey
		var balance decimal.Decimal
		if err := rows.Scan(&key.MaterialID, &key.Color, &balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		balances[key] = balance
	}
	return balances, rows.Err()
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
