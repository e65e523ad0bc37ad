package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              FlexibleID      `json:"id"`
	UserID          FlexibleID      `json:"user_id,omitempty"`
	MemberID        *FlexibleID     `json:"member_id,omitempty"`
	OrderDate       time.Time       `json:"order_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Discount        decimal.Decimal `json:"discount"`
	Tax             decimal.Decimal `json:"tax"`
	Status          int             `json:"status"`
	PaymentInfo     string          `json:"payment_info,omitempty"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	Items           []OrderItem     `json:"items"`
	Metadata        OrderMetadata   `json:"metadata"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ProductID   FlexibleID      `json:"product_id"`
	VariantID   FlexibleID      `json:"variant_id,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	ProductName string          `json:"product_name,omitempty"`
	Product     *Product        `json:"product,omitempty"`
}

// Name returns the best display name available for the item.
func (i OrderItem) Name() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	if i.Product != nil {
		return i.Product.Name
	}
	return i.ProductID.String()
}

type OrderMetadata struct {
	TableID       FlexibleID `json:"table_id,omitempty"`
	PaymentMethod int        `json:"payment_method,omitempty"`
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	UserID          FlexibleID      `json:"user_id,omitempty"`
	OrderDate       time.Time       `json:"order_date"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Discount        decimal.Decimal `json:"discount"`
	Tax             decimal.Decimal `json:"tax"`
	Status          int             `json:"status"`
	PaymentInfo     string          `json:"payment_info,omitempty"`
	ShippingAddress string          `json:"shipping_address,omitempty"`
	Items           []OrderItem     `json:"items"`
	Metadata        OrderMetadata   `json:"metadata"`
}

type Table struct {
	ID        FlexibleID `json:"id"`
	Name      string     `json:"name"`
	Capacity  int        `json:"capacity"`
	Status    int        `json:"status"`
	AreaID    FlexibleID `json:"area_id"`
	IsActive  bool       `json:"is_active"`
	Note      string     `json:"note,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableUpdateRequest carries every required table field; the backend
// rejects partial table updates.
type TableUpdateRequest struct {
	Name     string     `json:"name"`
	Capacity int        `json:"capacity"`
	Status   int        `json:"status"`
	AreaID   FlexibleID `json:"area_id"`
	IsActive bool       `json:"is_active"`
	Note     string     `json:"note"`
}

// UpdateRequest builds the full update payload for t with a new status.
func (t Table) UpdateRequest(status int) TableUpdateRequest {
	return TableUpdateRequest{
		Name:     t.Name,
		Capacity: t.Capacity,
		Status:   status,
		AreaID:   t.AreaID,
		IsActive: t.IsActive,
		Note:     t.Note,
	}
}

type TableArea struct {
	ID       FlexibleID `json:"id"`
	Name     string     `json:"name"`
	Category FlexibleID `json:"category,omitempty"`
	IsActive bool       `json:"is_active"`
}

type Product struct {
	ID         FlexibleID             `json:"id"`
	Name       string                 `json:"name"`
	CategoryID FlexibleID             `json:"category_id,omitempty"`
	Variants   []Variant              `json:"variants,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	IsActive   bool                   `json:"is_active"`
}

// Variant returns the variant with id, or false.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID.String() == id {
			return v, true
		}
	}
	return Variant{}, false
}

type Variant struct {
	ID    FlexibleID      `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type ProductCategory struct {
	ID       FlexibleID `json:"id"`
	Name     string     `json:"name"`
	IsActive bool       `json:"is_active"`
}

type Employee struct {
	ID     FlexibleID `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email,omitempty"`
	Phone  string     `json:"phone,omitempty"`
	RoleID FlexibleID `json:"role_id,omitempty"`
	Status int        `json:"status,omitempty"`
	Shifts []Shift    `json:"shifts,omitempty"`
}

type Shift struct {
	ID         FlexibleID    `json:"id"`
	EmployeeID FlexibleID    `json:"employee_id"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Metadata   ShiftMetadata `json:"metadata"`
}

type ShiftMetadata struct {
	ShiftTypeID    string                 `json:"shift_type_id"`
	AdditionalData map[string]interface{} `json:"additional_data,omitempty"`
}

type CreateShiftRequest struct {
	EmployeeID FlexibleID    `json:"employee_id"`
	StartTime  time.Time     `json:"start_time"`
	EndTime    time.Time     `json:"end_time"`
	Metadata   ShiftMetadata `json:"metadata"`
}

type Discount struct {
	Code      string          `json:"code"`
	Name      string          `json:"name,omitempty"`
	Type      string          `json:"type,omitempty"`
	Value     decimal.Decimal `json:"value"`
	IsActive  bool            `json:"is_active"`
	StartsAt  *time.Time      `json:"starts_at,omitempty"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
}

type Coupon struct {
	ID           FlexibleID `json:"id"`
	Code         string     `json:"code"`
	DiscountCode string     `json:"discount_code,omitempty"`
	MemberID     FlexibleID `json:"member_id,omitempty"`
	IsUsed       bool       `json:"is_used"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// Blob is a binary download such as the order invoice or payment QR.
type Blob struct {
	ContentType string
	Data        []byte
}

// UploadedFile is the backend answer to POST /files/upload.
type UploadedFile struct {
	ID       FlexibleID `json:"id,omitempty"`
	URL      string     `json:"url"`
	Filename string     `json:"filename,omitempty"`
}
