package partner

import (
	"time"

	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Client is a customer of the organization, the party invoices and
// quotes are billed to.
type Client struct {
	shared.OrganizationAggregateRoot
	Name      string `gorm:"type:varchar(200);not null"`
	Email     string `gorm:"type:varchar(255)"`
	Phone     string `gorm:"type:varchar(50)"`
	Address   string `gorm:"type:text"`
	City      string `gorm:"type:varchar(100)"`
	Country   string `gorm:"type:varchar(100)"`
	VATNumber string `gorm:"type:varchar(50)"`
	Currency  valueobject.Currency `gorm:"type:varchar(3);not null;default:'EUR'"`
	Notes     string               `gorm:"type:text"`
	Archived  bool                 `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client record
func NewClient(organizationID uuid.UUID, name, email string) (*Client, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}

	return &Client{
		OrganizationAggregateRoot: shared.NewOrganizationAggregateRoot(organizationID),
		Name:                      name,
		Email:                     email,
		Currency:                  valueobject.DefaultCurrency,
	}, nil
}

// Update replaces the client's contact details
func (c *Client) Update(name, email, phone, address, city, country, vatNumber string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}

	c.Name = name
	c.Email = email
	c.Phone = phone
	c.Address = address
	c.City = city
	c.Country = country
	c.VATNumber = vatNumber
	c.UpdatedAt = time.Now()
	return nil
}

// SetCurrency changes the client's billing currency
func (c *Client) SetCurrency(currency valueobject.Currency) error {
	if !currency.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unknown currency code")
	}
	c.Currency = currency
	c.UpdatedAt = time.Now()
	return nil
}

// Archive hides the client from pickers without destroying history
func (c *Client) Archive() {
	c.Archived = true
	c.UpdatedAt = time.Now()
}

// Unarchive restores an archived client
func (c *Client) Unarchive() {
	c.Archived = false
	c.UpdatedAt = time.Now()
}
