package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo adaptador de pedidos.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste o pedido e seus itens.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (id, company_id, customer_id, status, due_date, total_value, discount, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.CustomerID, order.Status, order.DueDate,
		order.TotalValue, order.Discount, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, item := range order.Items {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO order_items (id, order_id, product_id, quantity, price, discount)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price, item.Discount,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// GetByID busca o pedido com itens, produtos e fichas técnicas populados
// (necessários para a expansão de materiais na baixa de estoque).
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT o.id, o.company_id, COALESCE(o.customer_id::text, ''), o.status, o.due_date, o.total_value, o.discount, o.created_at, o.updated_at,
		       COALESCE(c.name, '')
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1`
	var o entity.Order
	var customerName string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CompanyID, &o.CustomerID, &o.Status, &o.DueDate,
		&o.TotalValue, &o.Discount, &o.CreatedAt, &o.UpdatedAt, &customerName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if o.CustomerID != "" {
		o.Customer = &entity.Customer{ID: o.CustomerID, CompanyID: o.CompanyID, Name: customerName}
	}
	if err := r.loadItems([]*entity.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListByCompany lista pedidos paginados do tenant, mais recentes primeiro.
// Devolve também o total para a paginação.
func (r *OrderRepo) ListByCompany(companyID string, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	var total int
	err := r.q.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM orders
		WHERE company_id = $1 AND ($2 = '' OR status = $2)`,
		companyID, filter.Status,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `
		SELECT o.id, o.company_id, COALESCE(o.customer_id::text, ''), o.status, o.due_date, o.total_value, o.discount, o.created_at, o.updated_at,
		       COALESCE(c.name, '')
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.company_id = $1 AND ($2 = '' OR o.status = $2)
		ORDER BY o.created_at DESC
		LIMIT NULLIF($3, 0) OFFSET $4`
	limit := filter.Limit
	if limit < 0 {
		limit = 0
	}
	rows, err := r.q.Query(context.Background(), query, companyID, filter.Status, limit, filter.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		var o entity.Order
		var customerName string
		err := rows.Scan(&o.ID, &o.CompanyID, &o.CustomerID, &o.Status, &o.DueDate,
			&o.TotalValue, &o.Discount, &o.CreatedAt, &o.UpdatedAt, &customerName)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		if o.CustomerID != "" {
			o.Customer = &entity.Customer{ID: o.CustomerID, CompanyID: o.CompanyID, Name: customerName}
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := r.loadItems(out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// UpdateStatus atualiza o status do pedido.
func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateStatusFrom atualiza o status condicionado ao status corrente.
// Zero linhas afetadas significa que outra transação mudou o pedido antes.
func (r *OrderRepo) UpdateStatusFrom(id, status string, expectedCurrent []string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1 AND status = ANY($3)`,
		id, status, expectedCurrent)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Delete remove o pedido (itens caem por cascade). Movimentos de estoque já
// registrados ficam no ledger.
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

// CountActive conta pedidos fora de estado final.
func (r *OrderRepo) CountActive(companyID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(), `
		SELECT COUNT(*) FROM orders
		WHERE company_id = $1 AND status NOT IN ('DELIVERED', 'CANCELLED')`, companyID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active orders: %w", err)
	}
	return count, nil
}

// loadItems carrega itens e, via ProductRepo, os produtos com ficha técnica.
func (r *OrderRepo) loadItems(orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	byID := make(map[string]*entity.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
	}

	rows, err := r.q.Query(context.Background(), `
		SELECT id, order_id, product_id, quantity, price, discount
		FROM order_items WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	productIDs := make([]string, 0)
	seen := make(map[string]bool)
	type itemRef struct {
		order *entity.Order
		index int
	}
	refs := make(map[string][]itemRef)
	for rows.Next() {
		var item entity.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price, &item.Discount); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		o := byID[item.OrderID]
		if o == nil {
			continue
		}
		o.Items = append(o.Items, item)
		refs[item.ProductID] = append(refs[item.ProductID], itemRef{order: o, index: len(o.Items) - 1})
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	products, err := NewProductRepository(r.q).GetByIDs(productIDs)
	if err != nil {
		return err
	}
	for _, p := range products {
		for _, ref := range refs[p.ID] {
			ref.order.Items[ref.index].Product = p
		}
	}
	return nil
}
