// Package master defines the coordinator boundary which the admin
// client consumes. The master owns all authoritative table and region
// state; the client never caches any of it across calls.
package master

import (
	"context"
	"regexp"

	"github.com/adammck/tadmin/pkg/api"
)

// Master is the interface to the coordinator. Every admin verb maps to
// exactly one logical call here. Implementations serialize operations
// against the same table; the client does not lock.
//
// Errors returned across this boundary are classified by
// api.Classify, so implementations may return either taxonomy errors
// or gRPC status errors.
type Master interface {
	CreateTable(ctx context.Context, desc api.TableDescriptor, splits []api.Key) error
	DeleteTable(ctx context.Context, name api.TableName) error

	// TruncateTable destroys all row data. With preserveSplits the
	// original region boundaries survive; without it the table comes
	// back as a single region.
	TruncateTable(ctx context.Context, name api.TableName, preserveSplits bool) error

	EnableTable(ctx context.Context, name api.TableName) error
	DisableTable(ctx context.Context, name api.TableName) error

	AddColumnFamily(ctx context.Context, name api.TableName, fd api.FamilyDescriptor) error
	ModifyColumnFamily(ctx context.Context, name api.TableName, fd api.FamilyDescriptor) error
	DeleteColumnFamily(ctx context.Context, name api.TableName, family string) error

	TableExists(ctx context.Context, name api.TableName) (bool, error)
	GetDescriptor(ctx context.Context, name api.TableName) (api.TableDescriptor, error)

	// ListTableNames returns the names of all tables matching the
	// pattern (nil matches everything). System tables are included
	// only when asked for explicitly.
	ListTableNames(ctx context.Context, pattern *regexp.Regexp, includeSystem bool) ([]api.TableName, error)

	GetTableState(ctx context.Context, name api.TableName) (api.TableState, error)
	GetTableRegions(ctx context.Context, name api.TableName) ([]api.RegionInfo, error)

	// LocateRegion accepts either a full region name or its encoded
	// form, and returns the same location for both.
	LocateRegion(ctx context.Context, nameOrEncoded string) (api.RegionLocation, error)

	// CloseRegion asks the named server to stop serving the region.
	// The identifier may be a full or encoded region name; an unknown
	// identifier is rejected as not found.
	CloseRegion(ctx context.Context, nameOrEncoded string, server api.ServerName) error

	IsBalancerEnabled(ctx context.Context) (bool, error)

	// SetBalancerRunning flips the balancer switch and returns the
	// previous value. The read-modify-return is atomic on the master.
	SetBalancerRunning(ctx context.Context, on bool) (bool, error)
}
