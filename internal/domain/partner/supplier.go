package partner

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Supplier is a vendor purchase orders are placed with
type Supplier struct {
	shared.OrganizationAggregateRoot
	Name          string `gorm:"type:varchar(200);not null"`
	Email         string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(50)"`
	Address       string `gorm:"type:text"`
	City          string `gorm:"type:varchar(100)"`
	Country       string `gorm:"type:varchar(100)"`
	VATNumber     string `gorm:"type:varchar(50)"`
	Currency      valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	PaymentTerms  string               `gorm:"type:varchar(200)"`
	Archived      bool                 `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier record
func NewSupplier(organizationID uuid.UUID, name, email string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	return &Supplier{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Name:                      name,
		Email:                     email,
		Currency:                  valueobject.DefaultCurrency,
	}, nil
}

// Update replaces the supplier's contact details
func (s *Supplier) Update(name, email, phone, address, city, country, vatNumber, paymentTerms string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}

	s.Name = name
	s.Email = email
	s.Phone = phone
	s.Address = address
	s.City = city
	s.Country = country
	s.VATNumber = vatNumber
	s.PaymentTerms = paymentTerms
	s.UpdatedAt = time.Now()
	return nil
}

// Archive hides the supplier from pickers without destroying history
func (s *Supplier) Archive() {
	s.Archived = true
	s.UpdatedAt = time.Now()
}

// Unarchive restores an archived supplier
func (s *Supplier) Unarchive() {
	s.Archived = false
	s.UpdatedAt = time.Now()
}
