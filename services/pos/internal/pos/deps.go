package pos

import (
	"context"
	"io"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// OrderAPI is the order backend surface the controllers need.
type OrderAPI interface {
	ListOrders(ctx context.Context) ([]api.Order, error)
	GetOrder(ctx context.Context, id string) (*api.Order, error)
	CreateOrder(ctx context.Context, req api.CreateOrderRequest, idempotencyKey string) (*api.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status int) (*api.Order, error)
	GetInvoice(ctx context.Context, id string) (*api.Blob, error)
}

type TableAPI interface {
	ListTables(ctx context.Context) ([]api.Table, error)
	GetTable(ctx context.Context, id string) (*api.Table, error)
	UpdateTable(ctx context.Context, id string, req api.TableUpdateRequest) (*api.Table, error)
	DeleteTable(ctx context.Context, id string) error
}

type AreaAPI interface {
	ListAreas(ctx context.Context) ([]api.TableArea, error)
}

type ProductAPI interface {
	GetProduct(ctx context.Context, id string) (*api.Product, error)
}

type ShiftAPI interface {
	ListShifts(ctx context.Context) ([]api.Shift, error)
	CreateShift(ctx context.Context, req api.CreateShiftRequest) (*api.Shift, error)
	DeleteShift(ctx context.Context, id string) error
}

type EmployeeAPI interface {
	ListEmployees(ctx context.Context) ([]api.Employee, error)
}

// UserResolver returns the id of the signed-in user.
type UserResolver interface {
	CurrentUserID(ctx context.Context) (string, error)
}

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context) error
}

// CatalogAPI is the read side of the menu plus the admin records the
// terminal can look up.
type CatalogAPI interface {
	ListProducts(ctx context.Context) ([]api.Product, error)
	ListCategories(ctx context.Context) ([]api.ProductCategory, error)
	GetDiscount(ctx context.Context, code string) (*api.Discount, error)
	ListCoupons(ctx context.Context) ([]api.Coupon, error)
}

type FileAPI interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*api.UploadedFile, error)
}
