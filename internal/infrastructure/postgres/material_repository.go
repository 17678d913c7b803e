package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo implementação do porto MaterialRepository sobre PostgreSQL
// (usável com pool ou tx).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

const materialColumns = `id, company_id, name, unit, cost, min_quantity, colors, supplier_id, created_at, updated_at`

func scanMaterial(row pgx.Row) (*entity.Material, error) {
	var m entity.Material
	var minQty decimal.NullDecimal
	var supplierID *string
	err := row.Scan(
		&m.ID, &m.CompanyID, &m.Name, &m.Unit, &m.Cost, &minQty,
		&m.Colors, &supplierID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if minQty.Valid {
		m.MinQuantity = &minQty.Decimal
	}
	if supplierID != nil {
		m.SupplierID = *supplierID
	}
	return &m, nil
}

// Create persiste um material novo.
func (r *MaterialRepo) Create(material *entity.Material) error {
	query := `
		INSERT INTO materials (id, company_id, name, unit, cost, min_quantity, colors, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)`
	var minQty decimal.NullDecimal
	if material.MinQuantity != nil {
		minQty = decimal.NullDecimal{Decimal: *material.MinQuantity, Valid: true}
	}
	_, err := r.q.Exec(context.Background(), query,
		material.ID, material.CompanyID, material.Name, material.Unit, material.Cost,
		minQty, material.Colors, material.SupplierID, material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert material: %w", err)
	}
	return nil
}

// Update atualiza nome, unidade, limiar, cores e fornecedor. Custo fica de
// fora: só UpdateCost mexe nele.
func (r *MaterialRepo) Update(material *entity.Material) error {
	query := `
		UPDATE materials SET name = $2, unit = $3, min_quantity = $4, colors = $5, supplier_id = NULLIF($6, ''), updated_at = $7
		WHERE id = $1`
	var minQty decimal.NullDecimal
	if material.MinQuantity != nil {
		minQty = decimal.NullDecimal{Decimal: *material.MinQuantity, Valid: true}
	}
	_, err := r.q.Exec(context.Background(), query,
		material.ID, material.Name, material.Unit, minQty, material.Colors,
		material.SupplierID, material.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	return nil
}

// Delete remove o material.
func (r *MaterialRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete material: %w", err)
	}
	return nil
}

// GetByID busca um material por ID. Devolve nil sem erro quando não existe.
func (r *MaterialRepo) GetByID(id string) (*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = $1`
	m, err := scanMaterial(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return m, nil
}

// GetByIDs busca vários materiais de uma vez.
func (r *MaterialRepo) GetByIDs(ids []string) ([]*entity.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + materialColumns + ` FROM materials WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("get materials: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// ListByCompany lista os materiais do tenant.
func (r *MaterialRepo) ListByCompany(companyID string) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE company_id = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// ListWithMinQuantity lista materiais com limiar de alerta configurado.
func (r *MaterialRepo) ListWithMinQuantity(companyID string) ([]*entity.Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials WHERE company_id = $1 AND min_quantity IS NOT NULL ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list materials with threshold: %w", err)
	}
	defer rows.Close()
	return collectMaterials(rows)
}

// LockByIDs trava as linhas dos materiais (SELECT FOR UPDATE) para serializar
// deduções e entradas concorrentes. Só faz sentido dentro de transação.
func (r *MaterialRepo) LockByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.q.Query(context.Background(),
		`SELECT id FROM materials WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return fmt.Errorf("lock materials: %w", err)
	}
	rows.Close()
	return rows.Err()
}

// UpdateCost grava o novo custo médio ponderado.
func (r *MaterialRepo) UpdateCost(id string, cost decimal.Decimal) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE materials SET cost = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update material cost: %w", err)
	}
	return nil
}

func collectMaterials(rows pgx.Rows) ([]*entity.Material, error) {
	var out []*entity.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
