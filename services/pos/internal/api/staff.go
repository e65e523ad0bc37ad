package api

import (
	"context"
	"fmt"
)

const (
	employeesResource = "employees"
	shiftsResource    = "shifts"
)

type EmployeeDataAccess struct {
	client *Client
}

func NewEmployeeDataAccess(client *Client) *EmployeeDataAccess {
	return &EmployeeDataAccess{client: client}
}

func (da *EmployeeDataAccess) ListEmployees(ctx context.Context) ([]Employee, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("employee client not configured")
	}
	return listAs[Employee](ctx, da.client, employeesResource)
}

func (da *EmployeeDataAccess) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("employee client not configured")
	}
	return getAs[Employee](ctx, da.client, employeesResource, id)
}

// ShiftDataAccess manages shift assignment records.
type ShiftDataAccess struct {
	client *Client
}

func NewShiftDataAccess(client *Client) *ShiftDataAccess {
	return &ShiftDataAccess{client: client}
}

func (da *ShiftDataAccess) ListShifts(ctx context.Context) ([]Shift, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("shift client not configured")
	}
	return listAs[Shift](ctx, da.client, shiftsResource)
}

func (da *ShiftDataAccess) CreateShift(ctx context.Context, req CreateShiftRequest) (*Shift, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("shift client not configured")
	}
	return createAs[Shift](ctx, da.client, shiftsResource, req)
}

func (da *ShiftDataAccess) UpdateShift(ctx context.Context, id string, req CreateShiftRequest) (*Shift, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("shift client not configured")
	}
	return updateAs[Shift](ctx, da.client, shiftsResource, id, req)
}

func (da *ShiftDataAccess) DeleteShift(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("shift client not configured")
	}
	return da.client.Delete(ctx, shiftsResource, id)
}
