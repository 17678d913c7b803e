package repository

import "github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"

// OrderFilter filtra a listagem paginada de pedidos.
// Limit <= 0 lista sem limite (usado pelo sumário financeiro, que precisa da
// carteira inteira).
type OrderFilter struct {
	Status string
	Limit  int
	Offset int
}

// OrderRepository define o porto de persistência para pedidos.
type OrderRepository interface {
	// Create persiste o pedido e seus itens (mesma transação do Querier usado).
	Create(order *entity.Order) error
	// GetByID devolve o pedido com itens, produtos e fichas técnicas populados.
	GetByID(id string) (*entity.Order, error)
	ListByCompany(companyID string, filter OrderFilter) ([]*entity.Order, int, error)
	UpdateStatus(id, status string) error
	// UpdateStatusFrom escreve o status apenas se o status corrente ainda é
	// um dos esperados. Devolve ErrConflict quando outra transação ganhou a
	// corrida e nenhuma linha casou.
	UpdateStatusFrom(id, status string, expectedCurrent []string) error
	Delete(id string) error
	CountActive(companyID string) (int, error)
}
