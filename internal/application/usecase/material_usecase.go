package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/dto"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/units"
)

// MaterialUseCase casos de uso CRUD para materiais. O custo médio e o saldo
// são geridos pelo motor de estoque, nunca por aqui.
type MaterialUseCase struct {
	repo repository.MaterialRepository
}

// NewMaterialUseCase constrói o caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo}
}

// Create cria um material. O custo inicial é o informado; depois disso só a
// entrada de compra atualiza (média ponderada).
func (uc *MaterialUseCase) Create(companyID string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if _, ok := units.Lookup(in.Unit); !ok {
		return nil, domain.ErrInvalidInput
	}
	if in.Cost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.MinQuantity != nil && in.MinQuantity.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	colors := make([]string, 0, len(in.Colors))
	for _, c := range in.Colors {
		colors = append(colors, entity.NormalizeColor(c))
	}
	now := time.Now()
	material := &entity.Material{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        in.Name,
		Unit:        in.Unit,
		Cost:        in.Cost,
		MinQuantity: in.MinQuantity,
		Colors:      colors,
		SupplierID:  in.SupplierID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(material); err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// GetByID busca um material do tenant.
func (uc *MaterialUseCase) GetByID(companyID, id string) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil || material.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toMaterialResponse(material), nil
}

// List lista os materiais do tenant.
func (uc *MaterialUseCase) List(companyID string) ([]dto.MaterialResponse, error) {
	materials, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, len(materials))
	for i, m := range materials {
		out[i] = *toMaterialResponse(m)
	}
	return out, nil
}

// Update atualiza um material. Não permite mexer no custo (média ponderada
// via entrada de compra).
func (uc *MaterialUseCase) Update(companyID, id string, in dto.UpdateMaterialRequest) (*dto.MaterialResponse, error) {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if material == nil || material.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		material.Name = *in.Name
	}
	if in.Unit != nil {
		if _, ok := units.Lookup(*in.Unit); !ok {
			return nil, domain.ErrInvalidInput
		}
		material.Unit = *in.Unit
	}
	if in.MinQuantity != nil {
		if in.MinQuantity.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		material.MinQuantity = in.MinQuantity
	}
	if in.Colors != nil {
		colors := make([]string, 0, len(in.Colors))
		for _, c := range in.Colors {
			colors = append(colors, entity.NormalizeColor(c))
		}
		material.Colors = colors
	}
	if in.SupplierID != nil {
		material.SupplierID = *in.SupplierID
	}
	material.UpdatedAt = time.Now()
	if err := uc.repo.Update(material); err != nil {
		return nil, err
	}
	return toMaterialResponse(material), nil
}

// Delete remove um material do tenant.
func (uc *MaterialUseCase) Delete(companyID, id string) error {
	material, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if material == nil || material.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Unit:        m.Unit,
		Cost:        m.Cost,
		MinQuantity: m.MinQuantity,
		Colors:      m.Colors,
		SupplierID:  m.SupplierID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
