package stock

import (
	"context"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação de BD, passando
// repositórios atados a essa tx. Garante atomicidade para o motor de estoque.
type TxRunner interface {
	// Run abre a transação de movimentação de materiais (entradas de compra,
	// movimentos manuais).
	Run(ctx context.Context, fn func(
		materialRepo repository.MaterialRepository,
		movementRepo repository.StockMovementRepository,
		entryRepo repository.StockEntryRepository,
	) error) error

	// RunOrder abre a transação de transição de pedido, com os repositórios
	// necessários para atualizar o status e deduzir estoque no mesmo commit.
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		materialRepo repository.MaterialRepository,
		movementRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		productMovementRepo repository.ProductStockMovementRepository,
	) error) error
}
