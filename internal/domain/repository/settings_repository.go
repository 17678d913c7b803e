package repository

import "github.com/thiagocbrandao05/atelie-facil-api/internal/domain/entity"

// SettingsRepository define o porto dos ajustes de custo do tenant.
// Get devolve os defaults quando o tenant ainda não salvou ajustes.
type SettingsRepository interface {
	Get(companyID string) (*entity.CostSettings, error)
	Upsert(settings *entity.CostSettings) error
}

// CustomerRepository define o porto de persistência para clientes.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	Update(customer *entity.Customer) error
	Delete(id string) error
	GetByID(id string) (*entity.Customer, error)
	ListByCompany(companyID string) ([]*entity.Customer, error)
}

// UserRepository define o porto de persistência para usuários.
type UserRepository interface {
	Create(user *entity.User) error
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
}

// CompanyRepository define o porto de persistência para tenants.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	List() ([]*entity.Company, error)
}
