package pos

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/appetiteclub/cafepos/services/pos/internal/api"
)

// MockOrderAPI is a test mock for OrderAPI
type MockOrderAPI struct {
	mu                    sync.Mutex
	orders                []api.Order
	created               []api.CreateOrderRequest
	keys                  []string
	statusUpdates         []statusUpdate
	invoiceCalls          int
	ListOrdersFunc        func(ctx context.Context) ([]api.Order, error)
	GetOrderFunc          func(ctx context.Context, id string) (*api.Order, error)
	CreateOrderFunc       func(ctx context.Context, req api.CreateOrderRequest, key string) (*api.Order, error)
	UpdateOrderStatusFunc func(ctx context.Context, id string, status int) (*api.Order, error)
	GetInvoiceFunc        func(ctx context.Context, id string) (*api.Blob, error)
}

type statusUpdate struct {
	ID     string
	Status int
}

func NewMockOrderAPI(orders ...api.Order) *MockOrderAPI {
	return &MockOrderAPI{orders: orders}
}

func (m *MockOrderAPI) ListOrders(ctx context.Context) ([]api.Order, error) {
	if m.ListOrdersFunc != nil {
		return m.ListOrdersFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *MockOrderAPI) GetOrder(ctx context.Context, id string) (*api.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID.String() == id {
			out := o
			return &out, nil
		}
	}
	return nil, &api.Error{Kind: api.KindHTTP, Op: "orders.get", Status: 404, Message: "not found"}
}

func (m *MockOrderAPI) CreateOrder(ctx context.Context, req api.CreateOrderRequest, key string) (*api.Order, error) {
	m.mu.Lock()
	m.created = append(m.created, req)
	m.keys = append(m.keys, key)
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req, key)
	}
	return &api.Order{ID: "42", Status: req.Status, Items: req.Items, Metadata: req.Metadata}, nil
}

func (m *MockOrderAPI) UpdateOrderStatus(ctx context.Context, id string, status int) (*api.Order, error) {
	m.mu.Lock()
	m.statusUpdates = append(m.statusUpdates, statusUpdate{ID: id, Status: status})
	m.mu.Unlock()
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID.String() == id {
			m.orders[i].Status = status
			out := m.orders[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockOrderAPI) GetInvoice(ctx context.Context, id string) (*api.Blob, error) {
	m.mu.Lock()
	m.invoiceCalls++
	m.mu.Unlock()
	if m.GetInvoiceFunc != nil {
		return m.GetInvoiceFunc(ctx, id)
	}
	return &api.Blob{ContentType: "image/png", Data: []byte("qr")}, nil
}

func (m *MockOrderAPI) Created() []api.CreateOrderRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.CreateOrderRequest(nil), m.created...)
}

func (m *MockOrderAPI) StatusUpdates() []statusUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]statusUpdate(nil), m.statusUpdates...)
}

// MockTableAPI is a test mock for TableAPI and AreaAPI
type MockTableAPI struct {
	mu              sync.Mutex
	tables          []api.Table
	areas           []api.TableArea
	updates         []tableUpdate
	deleted         []string
	ListTablesFunc  func(ctx context.Context) ([]api.Table, error)
	GetTableFunc    func(ctx context.Context, id string) (*api.Table, error)
	UpdateTableFunc func(ctx context.Context, id string, req api.TableUpdateRequest) (*api.Table, error)
	DeleteTableFunc func(ctx context.Context, id string) error
	ListAreasFunc   func(ctx context.Context) ([]api.TableArea, error)
}

type tableUpdate struct {
	ID  string
	Req api.TableUpdateRequest
}

func NewMockTableAPI(tables ...api.Table) *MockTableAPI {
	return &MockTableAPI{tables: tables}
}

func (m *MockTableAPI) ListTables(ctx context.Context) ([]api.Table, error) {
	if m.ListTablesFunc != nil {
		return m.ListTablesFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.Table, len(m.tables))
	copy(out, m.tables)
	return out, nil
}

func (m *MockTableAPI) GetTable(ctx context.Context, id string) (*api.Table, error) {
	if m.GetTableFunc != nil {
		return m.GetTableFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tables {
		if t.ID.String() == id {
			out := t
			return &out, nil
		}
	}
	return nil, errors.New("table not found")
}

func (m *MockTableAPI) UpdateTable(ctx context.Context, id string, req api.TableUpdateRequest) (*api.Table, error) {
	m.mu.Lock()
	m.updates = append(m.updates, tableUpdate{ID: id, Req: req})
	m.mu.Unlock()
	if m.UpdateTableFunc != nil {
		return m.UpdateTableFunc(ctx, id, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tables {
		if m.tables[i].ID.String() == id {
			m.tables[i].Status = req.Status
			out := m.tables[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (m *MockTableAPI) DeleteTable(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()
	if m.DeleteTableFunc != nil {
		return m.DeleteTableFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tables {
		if m.tables[i].ID.String() == id {
			m.tables = append(m.tables[:i], m.tables[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockTableAPI) ListAreas(ctx context.Context) ([]api.TableArea, error) {
	if m.ListAreasFunc != nil {
		return m.ListAreasFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.TableArea, len(m.areas))
	copy(out, m.areas)
	return out, nil
}

func (m *MockTableAPI) Updates() []tableUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tableUpdate(nil), m.updates...)
}

// MockProductAPI is a test mock for ProductAPI and CatalogAPI
type MockProductAPI struct {
	products           map[string]api.Product
	GetProductFunc     func(ctx context.Context, id string) (*api.Product, error)
	ListCategoriesFunc func(ctx context.Context) ([]api.ProductCategory, error)
	GetDiscountFunc    func(ctx context.Context, code string) (*api.Discount, error)
	ListCouponsFunc    func(ctx context.Context) ([]api.Coupon, error)
}

func NewMockProductAPI(products ...api.Product) *MockProductAPI {
	m := &MockProductAPI{products: make(map[string]api.Product)}
	for _, p := range products {
		m.products[p.ID.String()] = p
	}
	return m
}

func (m *MockProductAPI) GetProduct(ctx context.Context, id string) (*api.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	p, ok := m.products[id]
	if !ok {
		return nil, &api.Error{Kind: api.KindHTTP, Op: "products.get", Status: 404, Message: "not found"}
	}
	return &p, nil
}

func (m *MockProductAPI) ListProducts(ctx context.Context) ([]api.Product, error) {
	out := make([]api.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *MockProductAPI) ListCategories(ctx context.Context) ([]api.ProductCategory, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx)
	}
	return []api.ProductCategory{}, nil
}

func (m *MockProductAPI) GetDiscount(ctx context.Context, code string) (*api.Discount, error) {
	if m.GetDiscountFunc != nil {
		return m.GetDiscountFunc(ctx, code)
	}
	return &api.Discount{Code: code, IsActive: true}, nil
}

func (m *MockProductAPI) ListCoupons(ctx context.Context) ([]api.Coupon, error) {
	if m.ListCouponsFunc != nil {
		return m.ListCouponsFunc(ctx)
	}
	return []api.Coupon{}, nil
}

// MockShiftAPI is a test mock for ShiftAPI and EmployeeAPI
type MockShiftAPI struct {
	mu                sync.Mutex
	shifts            []api.Shift
	employees         []api.Employee
	created           []api.CreateShiftRequest
	deleted           []string
	nextID            int
	ListShiftsFunc    func(ctx context.Context) ([]api.Shift, error)
	CreateShiftFunc   func(ctx context.Context, req api.CreateShiftRequest) (*api.Shift, error)
	DeleteShiftFunc   func(ctx context.Context, id string) error
	ListEmployeesFunc func(ctx context.Context) ([]api.Employee, error)
}

func NewMockShiftAPI() *MockShiftAPI {
	return &MockShiftAPI{nextID: 100}
}

func (m *MockShiftAPI) ListShifts(ctx context.Context) ([]api.Shift, error) {
	if m.ListShiftsFunc != nil {
		return m.ListShiftsFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]api.Shift, len(m.shifts))
	copy(out, m.shifts)
	return out, nil
}

func (m *MockShiftAPI) CreateShift(ctx context.Context, req api.CreateShiftRequest) (*api.Shift, error) {
	m.mu.Lock()
	m.created = append(m.created, req)
	m.mu.Unlock()
	if m.CreateShiftFunc != nil {
		return m.CreateShiftFunc(ctx, req)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	shift := api.Shift{
		ID:         api.FlexibleID(strconv.Itoa(m.nextID)),
		EmployeeID: req.EmployeeID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Metadata:   req.Metadata,
	}
	m.shifts = append(m.shifts, shift)
	return &shift, nil
}

func (m *MockShiftAPI) DeleteShift(ctx context.Context, id string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, id)
	m.mu.Unlock()
	if m.DeleteShiftFunc != nil {
		return m.DeleteShiftFunc(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.shifts {
		if m.shifts[i].ID.String() == id {
			m.shifts = append(m.shifts[:i], m.shifts[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockShiftAPI) ListEmployees(ctx context.Context) ([]api.Employee, error) {
	if m.ListEmployeesFunc != nil {
		return m.ListEmployeesFunc(ctx)
	}
	return m.employees, nil
}

func (m *MockShiftAPI) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

// MockAuth is a test mock for Authenticator and UserResolver
type MockAuth struct {
	SignInFunc        func(ctx context.Context, email, password string) (string, error)
	SignOutFunc       func(ctx context.Context) error
	CurrentUserIDFunc func(ctx context.Context) (string, error)
}

func (m *MockAuth) SignIn(ctx context.Context, email, password string) (string, error) {
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	return "token", nil
}

func (m *MockAuth) SignOut(ctx context.Context) error {
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx)
	}
	return nil
}

func (m *MockAuth) CurrentUserID(ctx context.Context) (string, error) {
	if m.CurrentUserIDFunc != nil {
		return m.CurrentUserIDFunc(ctx)
	}
	return "7", nil
}

// MockPublisher records published station events
type MockPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{messages: make(map[string][][]byte)}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[topic] = append(m.messages[topic], msg)
	return nil
}

func (m *MockPublisher) Messages(topic string) [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.messages[topic]...)
}
