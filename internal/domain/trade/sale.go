package trade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pharmapos/backend/internal/domain/shared"
	"github.com/pharmapos/backend/internal/domain/shared/valueobject"
)

// SaleStatus represents the status of a point-of-sale transaction
type SaleStatus string

const (
	SaleStatusDraft     SaleStatus = "DRAFT"
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusCancelled SaleStatus = "CANCELLED"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusDraft, SaleStatusCompleted, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	switch s {
	case SaleStatusDraft:
		return target == SaleStatusCompleted || target == SaleStatusCancelled
	case SaleStatusCompleted, SaleStatusCancelled:
		return false // Terminal states
	}
	return false
}

// SaleLine represents one product position on a ticket
type SaleLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // per-line absolute discount
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`           // Quantity * UnitPrice - Discount
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleLine) TableName() string {
	return "sale_lines"
}

// NewSaleLine creates a new sale line
func NewSaleLine(saleID, productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money, discount decimal.Decimal) (*SaleLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	gross := quantity.Mul(unitPrice.Amount())
	if discount.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line amount")
	}

	now := time.Now()
	return &SaleLine{
		ID:          uuid.New(),
		SaleID:      saleID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice.Amount(),
		Discount:    discount,
		Amount:      gross.Sub(discount),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the line quantity and recalculates the amount
func (l *SaleLine) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	gross := quantity.Mul(l.UnitPrice)
	if l.Discount.GreaterThan(gross) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed line amount")
	}

	l.Quantity = quantity
	l.Amount = gross.Sub(l.Discount)
	l.UpdatedAt = time.Now()

	return nil
}

// Sale is the aggregate root for a point-of-sale ticket. A ticket is built
// up in draft status and completed only after every line's stock has been
// consumed; completion is the point of no return.
type Sale struct {
	shared.TenantAggregateRoot
	TicketNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_sale_tenant_ticket,priority:2"`
	ShopID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashierID    uuid.UUID       `gorm:"type:uuid;not null"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index"` // anonymous walk-in when nil
	Lines        []SaleLine      `gorm:"foreignKey:SaleID;references:ID"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PaidAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       SaleStatus      `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	CompletedAt  *time.Time      `gorm:"index"`
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a new draft ticket
func NewSale(tenantID, shopID, cashierID uuid.UUID, ticketNumber string) (*Sale, error) {
	if ticketNumber == "" {
		return nil, shared.NewDomainError("INVALID_TICKET_NUMBER", "Ticket number cannot be empty")
	}
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASHIER", "Cashier ID cannot be empty")
	}

	sale := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		TicketNumber:        ticketNumber,
		ShopID:              shopID,
		CashierID:           cashierID,
		Lines:               make([]SaleLine, 0),
		TotalAmount:         decimal.Zero,
		PaidAmount:          decimal.Zero,
		Status:              SaleStatusDraft,
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, nil
}

// SetCustomer attaches a known customer to the ticket
func (s *Sale) SetCustomer(customerID uuid.UUID) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot change customer on a non-draft sale")
	}
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	s.CustomerID = &customerID
	s.UpdatedAt = time.Now()
	return nil
}

// AddLine adds a product to the ticket. Only allowed in DRAFT status.
// Scanning the same product twice merges into one line.
func (s *Sale) AddLine(productID uuid.UUID, productName string, quantity decimal.Decimal, unitPrice valueobject.Money, discount decimal.Decimal) (*SaleLine, error) {
	if s.Status != SaleStatusDraft {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a non-draft sale")
	}

	for idx := range s.Lines {
		if s.Lines[idx].ProductID == productID && s.Lines[idx].UnitPrice.Equal(unitPrice.Amount()) {
			if err := s.Lines[idx].UpdateQuantity(s.Lines[idx].Quantity.Add(quantity)); err != nil {
				return nil, err
			}
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return &s.Lines[idx], nil
		}
	}

	line, err := NewSaleLine(s.ID, productID, productName, quantity, unitPrice, discount)
	if err != nil {
		return nil, err
	}

	s.Lines = append(s.Lines, *line)
	s.recalculateTotals()
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return line, nil
}

// UpdateLineQuantity updates a line's quantity. Only allowed in DRAFT status.
func (s *Sale) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot update lines on a non-draft sale")
	}

	for idx := range s.Lines {
		if s.Lines[idx].ID == lineID {
			if err := s.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Sale line not found")
}

// RemoveLine removes a line from the ticket. Only allowed in DRAFT status.
func (s *Sale) RemoveLine(lineID uuid.UUID) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a non-draft sale")
	}

	for idx, line := range s.Lines {
		if line.ID == lineID {
			s.Lines = append(s.Lines[:idx], s.Lines[idx+1:]...)
			s.recalculateTotals()
			s.UpdatedAt = time.Now()
			s.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "Sale line not found")
}

// RecordPayment records money received against the ticket. Zero is a
// valid payment; the unpaid remainder stays on the balance.
func (s *Sale) RecordPayment(amount valueobject.Money) error {
	if s.Status != SaleStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot record payment on a non-draft sale")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}

	s.PaidAmount = s.PaidAmount.Add(amount.Amount())
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Balance returns the amount still owed (negative means change due)
func (s *Sale) Balance() decimal.Decimal {
	return s.TotalAmount.Sub(s.PaidAmount)
}

// Complete transitions the ticket from DRAFT to COMPLETED. The caller must
// have consumed stock for every line first; completion never fails halfway.
func (s *Sale) Complete() error {
	if !s.Status.CanTransitionTo(SaleStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete sale in %s status", s.Status))
	}
	if len(s.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot complete sale without lines")
	}

	now := time.Now()
	s.Status = SaleStatusCompleted
	s.CompletedAt = &now
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCompletedEvent(s))

	return nil
}

// Cancel cancels a draft ticket with a reason
func (s *Sale) Cancel(reason string) error {
	if !s.Status.CanTransitionTo(SaleStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	s.Status = SaleStatusCancelled
	s.CancelledAt = &now
	s.CancelReason = reason
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCancelledEvent(s, reason))

	return nil
}

func (s *Sale) recalculateTotals() {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.Amount)
	}
	s.TotalAmount = total
}

// GetTotalMoney returns the ticket total as a Money value object
func (s *Sale) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.TotalAmount)
}
