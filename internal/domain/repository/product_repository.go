package repository

import "github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"

// ProductRepository define o porto de persistência para produtos e suas
// fichas técnicas (BOM).
type ProductRepository interface {
	Create(product *entity.Product) error
	Update(product *entity.Product) error
	Delete(id string) error
	// GetByID devolve o produto com as linhas da ficha técnica e os materiais
	// de cada linha populados.
	GetByID(id string) (*entity.Product, error)
	GetByIDs(ids []string) ([]*entity.Product, error)
	ListByCompany(companyID string) ([]*entity.Product, error)
	// ListWithMinQuantity lista produtos com limiar de alerta de produto acabado.
	ListWithMinQuantity(companyID string) ([]*entity.Product, error)
	// LockByIDs bloqueia as linhas dos produtos (SELECT FOR UPDATE) para
	// serializar deduções de produto acabado.
	LockByIDs(ids []string) error
}
