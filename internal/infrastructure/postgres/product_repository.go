package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo adaptador de produtos e fichas técnicas.
type ProductRepo struct {
	q Querier
}

// NewProductRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, name, COALESCE(image_url, ''), labor_time, profit_margin, price, acquisition_cost, min_quantity, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var price, acquisitionCost, minQty decimal.NullDecimal
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.ImageURL, &p.LaborTime, &p.ProfitMargin,
		&price, &acquisitionCost, &minQty, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if price.Valid {
		p.Price = &price.Decimal
	}
	if acquisitionCost.Valid {
		p.AcquisitionCost = &acquisitionCost.Decimal
	}
	if minQty.Valid {
		p.MinQuantity = &minQty.Decimal
	}
	return &p, nil
}

func nullDec(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// Create persiste o produto e as linhas da ficha técnica.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, name, image_url, labor_time, profit_margin, price, acquisition_cost, min_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CompanyID, product.Name, product.ImageURL, product.LaborTime,
		product.ProfitMargin, nullDec(product.Price), nullDec(product.AcquisitionCost),
		nullDec(product.MinQuantity), product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return r.replaceBOM(product)
}

// Update atualiza o produto e, quando Materials não é nil, substitui a ficha
// técnica inteira.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, image_url = NULLIF($3, ''), labor_time = $4, profit_margin = $5,
		       price = $6, acquisition_cost = $7, min_quantity = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.ImageURL, product.LaborTime, product.ProfitMargin,
		nullDec(product.Price), nullDec(product.AcquisitionCost), nullDec(product.MinQuantity),
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return r.replaceBOM(product)
}

func (r *ProductRepo) replaceBOM(product *entity.Product) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM product_materials WHERE product_id = $1`, product.ID)
	if err != nil {
		return fmt.Errorf("clear bom: %w", err)
	}
	for _, line := range product.Materials {
		_, err := r.q.Exec(context.Background(), `
			INSERT INTO product_materials (id, product_id, material_id, quantity, unit, color)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			line.ID, line.ProductID, line.MaterialID, line.Quantity, line.Unit, line.Color,
		)
		if err != nil {
			return fmt.Errorf("insert bom line: %w", err)
		}
	}
	return nil
}

// Delete remove o produto (a ficha técnica cai por cascade).
func (r *ProductRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// GetByID busca o produto com a ficha técnica e os materiais de cada linha.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadBOM([]*entity.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// GetByIDs busca vários produtos com fichas técnicas.
func (r *ProductRepo) GetByIDs(ids []string) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadBOM(products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCompany lista os produtos do tenant com fichas técnicas.
func (r *ProductRepo) ListByCompany(companyID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadBOM(products); err != nil {
		return nil, err
	}
	return products, nil
}

// ListWithMinQuantity lista produtos com limiar de alerta de produto acabado.
func (r *ProductRepo) ListWithMinQuantity(companyID string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND min_quantity IS NOT NULL ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list products with threshold: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// LockByIDs trava as linhas dos produtos (SELECT FOR UPDATE) para serializar
// deduções de produto acabado. Só faz sentido dentro de transação.
func (r *ProductRepo) LockByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT id FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return fmt.Errorf("lock products: %w", err)
	}
	rows.Close()
	return rows.Err()
}

// loadBOM carrega as fichas técnicas dos produtos com os materiais de cada
// linha, em duas queries (linhas + materiais).
func (r *ProductRepo) loadBOM(products []*entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, len(products))
	byID := make(map[string]*entity.Product, len(products))
	for i, p := range products {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	query := `
		SELECT pm.id, pm.product_id, pm.material_id, pm.quantity, pm.unit, pm.color,
		       m.id, m.company_id, m.name, m.unit, m.cost, m.min_quantity, m.colors, m.supplier_id, m.created_at, m.updated_at
		FROM product_materials pm
		JOIN materials m ON m.id = pm.material_id
		WHERE pm.product_id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return fmt.Errorf("load bom: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line entity.BOMLine
		var m entity.Material
		var minQty decimal.NullDecimal
		var supplierID *string
		err := rows.Scan(
			&line.ID, &line.ProductID, &line.MaterialID, &line.Quantity, &line.Unit, &line.Color,
			&m.ID, &m.CompanyID, &m.Name, &m.Unit, &m.Cost, &minQty, &m.Colors, &supplierID,
			&m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("scan bom line: %w", err)
		}
		if minQty.Valid {
			m.MinQuantity = &minQty.Decimal
		}
		if supplierID != nil {
			m.SupplierID = *supplierID
		}
		line.Material = &m
		if p := byID[line.ProductID]; p != nil {
			p.Materials = append(p.Materials, line)
		}
	}
	return rows.Err()
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
