package employee

import "context"

// ActiveFilter narrows the active workforce before any attendance computation.
type ActiveFilter struct {
	EmployeeID *string
	Department *string
}

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	ExistsByEmployeeNumber(ctx context.Context, employeeNumber string, excludeID *string) (bool, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)
	// ListActive returns active employees ordered by name.
	ListActive(ctx context.Context, filter ActiveFilter) ([]Employee, error)
	ListDepartments(ctx context.Context) ([]string, error)
}
