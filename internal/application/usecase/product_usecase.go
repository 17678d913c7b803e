package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/thiagocbrandao05/atelie-facil-api/internal/application/dto"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/repository"
	"github.com/thiagocbrandao05/atelie-facil-api/internal/domain/units"
)

// ProductUseCase casos de uso CRUD para produtos e suas fichas técnicas.
type ProductUseCase struct {
	repo         repository.ProductRepository
	materialRepo repository.MaterialRepository
}

// NewProductUseCase constrói o caso de uso.
func NewProductUseCase(repo repository.ProductRepository, materialRepo repository.MaterialRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, materialRepo: materialRepo}
}

// buildBOM valida e monta as linhas da ficha técnica. A unidade da linha
// precisa ser conversível para a unidade estocada do material (validação
// estrita aqui, na escrita; a leitura usa conversão suave).
func (uc *ProductUseCase) buildBOM(companyID, productID string, lines []dto.BOMLineRequest) ([]entity.BOMLine, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.MaterialID == "" || !line.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		ids = append(ids, line.MaterialID)
	}
	materials, err := uc.materialRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Material, len(materials))
	for _, m := range materials {
		if m.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		byID[m.ID] = m
	}

	bom := make([]entity.BOMLine, len(lines))
	for i, line := range lines {
		material := byID[line.MaterialID]
		if material == nil {
			return nil, domain.ErrNotFound
		}
		if _, err := units.ConvertStrict(line.Quantity, line.Unit, material.Unit); err != nil {
			return nil, domain.ErrInvalidInput
		}
		bom[i] = entity.BOMLine{
			ID:         uuid.New().String(),
			ProductID:  productID,
			MaterialID: line.MaterialID,
			Quantity:   line.Quantity,
			Unit:       line.Unit,
			Color:      entity.NormalizeColor(line.Color),
			Material:   material,
		}
	}
	return bom, nil
}

// Create cria um produto com ficha técnica validada.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.LaborTime < 0 || in.ProfitMargin.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		Name:            in.Name,
		ImageURL:        in.ImageURL,
		LaborTime:       in.LaborTime,
		ProfitMargin:    in.ProfitMargin,
		Price:           in.Price,
		AcquisitionCost: in.AcquisitionCost,
		MinQuantity:     in.MinQuantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	bom, err := uc.buildBOM(companyID, product.ID, in.Materials)
	if err != nil {
		return nil, err
	}
	product.Materials = bom
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID busca um produto do tenant, com ficha técnica.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista os produtos do tenant.
func (uc *ProductUseCase) List(companyID string) ([]dto.ProductResponse, error) {
	products, err := uc.repo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, len(products))
	for i, p := range products {
		out[i] = *toProductResponse(p)
	}
	return out, nil
}

// Update atualiza um produto. Materials nil preserva a ficha técnica.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.ImageURL != nil {
		product.ImageURL = *in.ImageURL
	}
	if in.LaborTime != nil {
		if *in.LaborTime < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.LaborTime = *in.LaborTime
	}
	if in.ProfitMargin != nil {
		if in.ProfitMargin.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.ProfitMargin = *in.ProfitMargin
	}
	if in.Price != nil {
		product.Price = in.Price
	}
	if in.AcquisitionCost != nil {
		product.AcquisitionCost = in.AcquisitionCost
	}
	if in.MinQuantity != nil {
		product.MinQuantity = in.MinQuantity
	}
	if in.Materials != nil {
		bom, err := uc.buildBOM(companyID, product.ID, in.Materials)
		if err != nil {
			return nil, err
		}
		product.Materials = bom
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete remove um produto do tenant.
func (uc *ProductUseCase) Delete(companyID, id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	materials := make([]dto.BOMLineResponse, len(p.Materials))
	for i, line := range p.Materials {
		materials[i] = dto.BOMLineResponse{
			MaterialID: line.MaterialID,
			Quantity:   line.Quantity,
			Unit:       line.Unit,
			Color:      line.Color,
		}
		if line.Material != nil {
			materials[i].MaterialName = line.Material.Name
		}
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Name:            p.Name,
		ImageURL:        p.ImageURL,
		LaborTime:       p.LaborTime,
		ProfitMargin:    p.ProfitMargin,
		Price:           p.Price,
		AcquisitionCost: p.AcquisitionCost,
		MinQuantity:     p.MinQuantity,
		Materials:       materials,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
