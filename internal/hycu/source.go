package hycu

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/hycu-tools/check-hycu/schema"
)

// Page sizes per endpoint.
const (
	listPageSize    = 1000
	backupPageSize  = 10
	jobPageSize     = 10000
	licensePageSize = 100
)

func mapEntities[T any](items []T, fn func(T) schema.Entity) []schema.Entity {
	out := make([]schema.Entity, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// VMs implements the Source interface.
func (c *Client) VMs(ctx context.Context) ([]schema.Entity, error) {
	items, err := listAll[vmResponse](ctx, c, "/vms", listPageSize, nil)
	if err != nil {
		return nil, err
	}
	return mapEntities(items, vmResponse.entity), nil
}

// VMBackups reads the first page only; the controller lists the latest backup first.
func (c *Client) VMBackups(ctx context.Context, vmID string) ([]schema.Entity, error) {
	var env envelope[backupResponse]
	if err := c.getJSON(ctx, "/vms/"+url.PathEscape(vmID)+"/backups", pageQuery(backupPageSize, 1), &env); err != nil {
		return nil, err
	}
	return mapEntities(env.Entities, backupResponse.entity), nil
}

// Targets implements the Source interface.
func (c *Client) Targets(ctx context.Context) ([]schema.Entity, error) {
	items, err := listAll[targetResponse](ctx, c, "/targets", listPageSize, nil)
	if err != nil {
		return nil, err
	}
	return mapEntities(items, targetResponse.entity), nil
}

// Target implements the Source interface.
func (c *Client) Target(ctx context.Context, targetID string) (schema.Entity, error) {
	var resp targetDetailResponse
	if err := c.getJSON(ctx, "/targets/"+url.PathEscape(targetID), nil, &resp); err != nil {
		return schema.Entity{}, err
	}
	e := resp.target().entity()
	if e.ID == "" {
		e.ID = targetID
	}
	return e, nil
}

// Applications implements the Source interface.
func (c *Client) Applications(ctx context.Context) ([]schema.Entity, error) {
	items, err := listAll[namedResponse](ctx, c, "/applications", listPageSize, nil)
	if err != nil {
		return nil, err
	}
	return mapEntities(items, func(r namedResponse) schema.Entity { return r.entity(schema.AppKind) }), nil
}

// VolumeGroups implements the Source interface.
func (c *Client) VolumeGroups(ctx context.Context) ([]schema.Entity, error) {
	items, err := listAll[namedResponse](ctx, c, "/volumegroups", listPageSize, nil)
	if err != nil {
		return nil, err
	}
	return mapEntities(items, func(r namedResponse) schema.Entity { return r.entity(schema.VolumeGroupKind) }), nil
}

// Shares implements the Source interface.
func (c *Client) Shares(ctx context.Context) ([]schema.Entity, error) {
	items, err := listAll[shareResponse](ctx, c, "/shares", listPageSize, nil)
	if err != nil {
		return nil, err
	}
	return mapEntities(items, shareResponse.entity), nil
}

// Policies implements the Source interface.
func (c *Client) Policies(ctx context.Context) ([]schema.Entity, error) {
	items, err := listAll[policyResponse](ctx, c, "/policies", listPageSize, nil)
	if err != nil {
		return nil, err
	}
	return mapEntities(items, policyResponse.entity), nil
}

// Policy implements the Source interface.
func (c *Client) Policy(ctx context.Context, policyID string) (schema.PolicyDetail, error) {
	var env envelope[policyResponse]
	if err := c.getJSON(ctx, "/policies/"+url.PathEscape(policyID), nil, &env); err != nil {
		return schema.PolicyDetail{}, err
	}
	if len(env.Entities) == 0 {
		return schema.PolicyDetail{}, &schema.NotFoundError{Name: policyID}
	}
	return env.Entities[0].detail(), nil
}

// Dashboard returns zero counters when the controller sends no dashboard.
func (c *Client) Dashboard(ctx context.Context) (schema.Dashboard, error) {
	var env envelope[dashboardResponse]
	if err := c.getJSON(ctx, "/mom/dashboards/vms", nil, &env); err != nil {
		return schema.Dashboard{}, err
	}
	if len(env.Entities) == 0 {
		return schema.Dashboard{}, nil
	}
	return env.Entities[0].dashboard(), nil
}

// Jobs implements the Source interface. The range is sent in epoch milliseconds.
func (c *Client) Jobs(ctx context.Context, start, end time.Time) ([]schema.Entity, error) {
	extra := url.Values{}
	extra.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	extra.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	items, err := listAll[jobResponse](ctx, c, "/jobs", jobPageSize, extra)
	if err != nil {
		return nil, err
	}
	return mapEntities(items, jobResponse.entity), nil
}

// License implements the Source interface.
func (c *Client) License(ctx context.Context) (*schema.License, error) {
	lic, err := first[licenseResponse](ctx, c, "/administration/license", licensePageSize)
	if err != nil || lic == nil {
		return nil, err
	}
	return lic.license(), nil
}

// Controller implements the Source interface.
func (c *Client) Controller(ctx context.Context) (*schema.Controller, error) {
	ctrl, err := first[controllerResponse](ctx, c, "/administration/controller", 1)
	if err != nil || ctrl == nil {
		return nil, err
	}
	return ctrl.controller(), nil
}
