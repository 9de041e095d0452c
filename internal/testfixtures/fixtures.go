package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/property-dashboard/internal/auth"
	"github.com/example/property-dashboard/internal/property"
)

var (
	userCounter  uint64
	orderCounter uint64
)

// ----------------------------- User fixtures -----------------------------

// UserFixture represents a deterministic account record for session tests.
type UserFixture struct {
	ID          string
	Email       string
	Name        string
	Role        auth.Role
	Avatar      string
	Department  string
	Permissions []string
	LastLogin   *time.Time
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserOption configures the generated user fixture.
type UserOption func(*UserFixture)

// NewUserFixture returns a deterministic user fixture with optional overrides.
func NewUserFixture(opts ...UserOption) UserFixture {
	idx := atomic.AddUint64(&userCounter, 1)
	id := fmt.Sprintf("user-%03d", idx)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := UserFixture{
		ID:          id,
		Email:       fmt.Sprintf("%s@example.com", id),
		Name:        fmt.Sprintf("User %03d", idx),
		Role:        auth.RoleTenant,
		Department:  "Resident",
		Permissions: []string{"read:own", "write:own"},
		IsActive:    true,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithUserID overrides the generated user ID.
func WithUserID(id string) UserOption {
	return func(f *UserFixture) {
		f.ID = id
	}
}

// WithUserEmail overrides the generated email address.
func WithUserEmail(email string) UserOption {
	return func(f *UserFixture) {
		f.Email = email
	}
}

// WithUserName overrides the generated display name.
func WithUserName(name string) UserOption {
	return func(f *UserFixture) {
		f.Name = name
	}
}

// WithUserRole sets the role and the permissions that come with it.
func WithUserRole(role auth.Role, permissions ...string) UserOption {
	return func(f *UserFixture) {
		f.Role = role
		if len(permissions) > 0 {
			f.Permissions = append([]string(nil), permissions...)
		}
	}
}

// WithUserDepartment overrides the department.
func WithUserDepartment(department string) UserOption {
	return func(f *UserFixture) {
		f.Department = department
	}
}

// WithUserActive sets the active flag on the fixture.
func WithUserActive(active bool) UserOption {
	return func(f *UserFixture) {
		f.IsActive = active
	}
}

// WithUserLastLogin sets the last login timestamp.
func WithUserLastLogin(t time.Time) UserOption {
	return func(f *UserFixture) {
		login := t
		f.LastLogin = &login
	}
}

// WithUserTimestamps sets both created and updated timestamps on the fixture.
func WithUserTimestamps(created, updated time.Time) UserOption {
	return func(f *UserFixture) {
		f.CreatedAt = created
		f.UpdatedAt = updated
	}
}

// User returns the fixture as an auth.User value.
func (f UserFixture) User() auth.User {
	var lastLogin *time.Time
	if f.LastLogin != nil {
		t := *f.LastLogin
		lastLogin = &t
	}
	return auth.User{
		ID:          f.ID,
		Email:       f.Email,
		Name:        f.Name,
		Role:        f.Role,
		Avatar:      f.Avatar,
		Department:  f.Department,
		Permissions: append([]string(nil), f.Permissions...),
		LastLogin:   lastLogin,
		IsActive:    f.IsActive,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ----------------------------- Order fixtures ----------------------------

// OrderFixture represents a deterministic maintenance order record.
type OrderFixture struct {
	ID       string
	Type     string
	Count    int
	AvgDays  float64
	Status   property.OrderStatus
	Priority property.Priority
	Date     string
	Color    string
}

// OrderOption configures the generated order fixture.
type OrderOption func(*OrderFixture)

// NewOrderFixture returns a deterministic maintenance order fixture.
func NewOrderFixture(opts ...OrderOption) OrderFixture {
	idx := atomic.AddUint64(&orderCounter, 1)
	fixture := OrderFixture{
		ID:       fmt.Sprintf("order-%03d", idx),
		Type:     fmt.Sprintf("Auftrag %03d", idx),
		Count:    int(1 + idx%4),
		AvgDays:  2.5,
		Status:   property.OrderPending,
		Priority: property.PriorityMedium,
		Date:     referenceTime.Add(time.Duration(idx) * 24 * time.Hour).Format("2006-01-02"),
		Color:    "#f59e0b",
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithOrderID overrides the generated order ID.
func WithOrderID(id string) OrderOption {
	return func(f *OrderFixture) {
		f.ID = id
	}
}

// WithOrderType overrides the order type label.
func WithOrderType(orderType string) OrderOption {
	return func(f *OrderFixture) {
		f.Type = orderType
	}
}

// WithOrderCount overrides the open item count.
func WithOrderCount(count int) OrderOption {
	return func(f *OrderFixture) {
		f.Count = count
	}
}

// WithOrderStatus overrides the lifecycle status.
func WithOrderStatus(status property.OrderStatus) OrderOption {
	return func(f *OrderFixture) {
		f.Status = status
	}
}

// WithOrderPriority overrides the priority.
func WithOrderPriority(priority property.Priority) OrderOption {
	return func(f *OrderFixture) {
		f.Priority = priority
	}
}

// Order returns the fixture as a property.MaintenanceOrder value.
func (f OrderFixture) Order() property.MaintenanceOrder {
	return property.MaintenanceOrder{
		ID:       f.ID,
		Type:     f.Type,
		Count:    f.Count,
		AvgDays:  f.AvgDays,
		Status:   f.Status,
		Priority: f.Priority,
		Date:     f.Date,
		Color:    f.Color,
	}
}
