package api

import (
	"context"
	"fmt"
)

const (
	tablesResource = "tables"
	areasResource  = "table-area"
)

// TableDataAccess centralizes decoding of table responses.
type TableDataAccess struct {
	client *Client
}

func NewTableDataAccess(client *Client) *TableDataAccess {
	return &TableDataAccess{client: client}
}

func (da *TableDataAccess) ListTables(ctx context.Context) ([]Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	return listAs[Table](ctx, da.client, tablesResource)
}

func (da *TableDataAccess) GetTable(ctx context.Context, id string) (*Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	return getAs[Table](ctx, da.client, tablesResource, id)
}

func (da *TableDataAccess) CreateTable(ctx context.Context, req TableUpdateRequest) (*Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	return createAs[Table](ctx, da.client, tablesResource, req)
}

// UpdateTable sends the full table record. The returned table may be a
// zero value when the backend answers without a body.
func (da *TableDataAccess) UpdateTable(ctx context.Context, id string, req TableUpdateRequest) (*Table, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("table client not configured")
	}
	return updateAs[Table](ctx, da.client, tablesResource, id, req)
}

func (da *TableDataAccess) DeleteTable(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("table client not configured")
	}
	return da.client.Delete(ctx, tablesResource, id)
}

// AreaDataAccess covers table area CRUD.
type AreaDataAccess struct {
	client *Client
}

func NewAreaDataAccess(client *Client) *AreaDataAccess {
	return &AreaDataAccess{client: client}
}

func (da *AreaDataAccess) ListAreas(ctx context.Context) ([]TableArea, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("area client not configured")
	}
	return listAs[TableArea](ctx, da.client, areasResource)
}

func (da *AreaDataAccess) GetArea(ctx context.Context, id string) (*TableArea, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("area client not configured")
	}
	return getAs[TableArea](ctx, da.client, areasResource, id)
}

func (da *AreaDataAccess) CreateArea(ctx context.Context, area TableArea) (*TableArea, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("area client not configured")
	}
	return createAs[TableArea](ctx, da.client, areasResource, area)
}

func (da *AreaDataAccess) UpdateArea(ctx context.Context, id string, area TableArea) (*TableArea, error) {
	if da == nil || da.client == nil {
		return nil, fmt.Errorf("area client not configured")
	}
	return updateAs[TableArea](ctx, da.client, areasResource, id, area)
}

func (da *AreaDataAccess) DeleteArea(ctx context.Context, id string) error {
	if da == nil || da.client == nil {
		return fmt.Errorf("area client not configured")
	}
	return da.client.Delete(ctx, areasResource, id)
}
