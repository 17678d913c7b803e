package postgres

import (
	"context"
	"fmt"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

// StockEntryRepo adaptador das entradas de compra.
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create persiste a entrada e seus itens. Chamar dentro de transação: os
// movimentos IN e o custo médio fazem parte do mesmo commit.
func (r *StockEntryRepo) Create(entry *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (id, company_id, supplier_name, freight_cost, total_cost, note, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.CompanyID, entry.SupplierName, entry.FreightCost,
		entry.TotalCost, entry.Note, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}
	for _, item := range entry.Items {
		itemQuery := `
			INSERT INTO stock_entry_items (id, stock_entry_id, material_id, color, quantity, unit_cost, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := r.q.Exec(context.Background(), itemQuery,
			item.ID, item.StockEntryID, item.MaterialID, item.Color,
			item.Quantity, item.UnitCost, item.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("insert stock entry item: %w", err)
		}
	}
	return nil
}

// ListByCompany lista as entradas do tenant com seus itens, da mais recente
// para a mais antiga.
func (r *StockEntryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockEntry, error) {
	query := `
		SELECT id, company_id, COALESCE(supplier_name, ''), freight_cost, total_cost, COALESCE(note, ''), created_at
		FROM stock_entries WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StockEntry
	ids := make([]string, 0)
	for rows.Next() {
		var e entity.StockEntry
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.SupplierName, &e.FreightCost, &e.TotalCost, &e.Note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		entries = append(entries, &e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	itemQuery := `
		SELECT id, stock_entry_id, material_id, color, quantity, unit_cost, subtotal
		FROM stock_entry_items WHERE stock_entry_id = ANY($1)`
	itemRows, err := r.q.Query(context.Background(), itemQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list stock entry items: %w", err)
	}
	defer itemRows.Close()

	byEntry := make(map[string]*entity.StockEntry, len(entries))
	for _, e := range entries {
		byEntry[e.ID] = e
	}
	for itemRows.Next() {
		var item entity.StockEntryItem
		if err := itemRows.Scan(&item.ID, &item.StockEntryID, &item.MaterialID, &item.Color, &item.Quantity, &item.UnitCost, &item.Subtotal); err != nil {
			return nil, fmt.Errorf("scan stock entry item: %w", err)
		}
		if e := byEntry[item.StockEntryID]; e != nil {
			e.Items = append(e.Items, item)
		}
	}
	return entries, itemRows.Err()
}
