// Package admin is the asynchronous administrative client. Every
// method returns a Future immediately; the work runs on its own
// goroutine and resolves to a typed value or a typed failure. The
// master stays authoritative for all table and region state; nothing
// here caches it across calls.
package admin

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/adammck/tadmin/pkg/api"
	"github.com/adammck/tadmin/pkg/master"
	"github.com/adammck/tadmin/pkg/split"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Admin holds no mutable state besides the config, so one instance is
// safe for any number of concurrent callers.
type Admin struct {
	cfg Config
	m   master.Master
	log *zap.Logger
}

func New(m master.Master, cfg Config, logger *zap.Logger) *Admin {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Admin{
		cfg: cfg.withDefaults(),
		m:   m,
		log: logger,
	}
}

// dispatch runs fn under the retry policy on a new goroutine. It's a
// free function because methods can't have type parameters.
func dispatch[T any](a *Admin, op string, fn func(context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	log := a.log.With(zap.String("op", op), zap.String("id", uuid.NewString()[:8]))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cfg.OperationTimeout)
		defer cancel()

		v, err := retry(a, ctx, log, fn)
		if err != nil {
			log.Warn("operation failed", zap.Error(err))
		}

		f.complete(v, err)
	}()

	return f
}

// fail returns a future already completed with a client-side
// validation error. No RPC is attempted and nothing is retried.
func fail[T any](a *Admin, op string, err error) *Future[T] {
	a.log.Warn("rejected client-side", zap.String("op", op), zap.Error(err))

	f := newFuture[T]()
	var zero T
	f.complete(zero, err)
	return f
}

func retry[T any](a *Admin, ctx context.Context, log *zap.Logger, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var last error

	for attempt := 0; attempt <= a.cfg.MaxRetries; attempt++ {
		actx, cancel := context.WithTimeout(ctx, a.cfg.RPCTimeout)
		v, err := fn(actx)
		cancel()

		if err == nil {
			return v, nil
		}

		err = api.Classify(err)
		if !api.Retryable(err) {
			return zero, err
		}
		last = err

		log.Debug("attempt failed", zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-time.After(pause(a.cfg.PauseBase, attempt)):
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: last error: %v", api.ErrTimeout, last)
		}
	}

	return zero, &api.RetriesExhaustedError{Attempts: a.cfg.MaxRetries + 1, Cause: last}
}

func pause(base time.Duration, attempt int) time.Duration {
	if attempt > 10 {
		attempt = 10
	}
	return base << attempt
}

func (a *Admin) TableExists(name api.TableName) *Future[bool] {
	return dispatch(a, "tableExists", func(ctx context.Context) (bool, error) {
		return a.m.TableExists(ctx, name)
	})
}

func (a *Admin) GetDescriptor(name api.TableName) *Future[api.TableDescriptor] {
	return dispatch(a, "getDescriptor", func(ctx context.Context) (api.TableDescriptor, error) {
		return a.m.GetDescriptor(ctx, name)
	})
}

func (a *Admin) GetTableState(name api.TableName) *Future[api.TableState] {
	return dispatch(a, "getTableState", func(ctx context.Context) (api.TableState, error) {
		return a.m.GetTableState(ctx, name)
	})
}

// ListTableNames returns the names of the tables matching the pattern
// (nil matches everything), including system tables only on request.
func (a *Admin) ListTableNames(pattern *regexp.Regexp, includeSystem bool) *Future[[]api.TableName] {
	return dispatch(a, "listTableNames", func(ctx context.Context) ([]api.TableName, error) {
		return a.m.ListTableNames(ctx, pattern, includeSystem)
	})
}

// ListTables is ListTableNames plus a descriptor fetch per table.
// Tables deleted between the two reads are skipped, not errors.
func (a *Admin) ListTables(pattern *regexp.Regexp, includeSystem bool) *Future[[]api.TableDescriptor] {
	return dispatch(a, "listTables", func(ctx context.Context) ([]api.TableDescriptor, error) {
		names, err := a.m.ListTableNames(ctx, pattern, includeSystem)
		if err != nil {
			return nil, err
		}

		out := make([]api.TableDescriptor, 0, len(names))
		for _, name := range names {
			td, err := a.m.GetDescriptor(ctx, name)
			if err != nil {
				if errors.Is(api.Classify(err), api.ErrNotFound) {
					continue
				}
				return nil, err
			}
			out = append(out, td)
		}

		return out, nil
	})
}

// CreateTable creates a single-region table.
func (a *Admin) CreateTable(desc api.TableDescriptor) *Future[Void] {
	return a.CreateTableWithSplits(desc, nil)
}

// CreateTableWithSplits creates a table pre-split at the given keys:
// n keys make n+1 regions. Empty or duplicate keys reject the whole
// operation before any RPC.
func (a *Admin) CreateTableWithSplits(desc api.TableDescriptor, splits []api.Key) *Future[Void] {
	if len(desc.Families) == 0 {
		return fail[Void](a, "createTable", fmt.Errorf("%w: table %s needs at least one column family", api.ErrInvalidArgument, desc.Name))
	}

	boundaries, err := split.Validate(splits)
	if err != nil {
		return fail[Void](a, "createTable", err)
	}

	return dispatch(a, "createTable", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.CreateTable(ctx, desc, boundaries)
	})
}

// CreateTableWithRange creates a table with numRegions regions of
// equal key-space width over [start, end). Fewer than three regions is
// rejected; use explicit splits (or none) for that.
func (a *Admin) CreateTableWithRange(desc api.TableDescriptor, start, end api.Key, numRegions int) *Future[Void] {
	if numRegions < 3 {
		return fail[Void](a, "createTable", fmt.Errorf("%w: numRegions must be at least 3, got %d", api.ErrInvalidArgument, numRegions))
	}

	boundaries, err := split.Plan(start, end, numRegions)
	if err != nil {
		return fail[Void](a, "createTable", err)
	}

	return a.CreateTableWithSplits(desc, boundaries)
}

func (a *Admin) DeleteTable(name api.TableName) *Future[Void] {
	if err := guardMeta(name); err != nil {
		return fail[Void](a, "deleteTable", err)
	}

	return dispatch(a, "deleteTable", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.DeleteTable(ctx, name)
	})
}

// TruncateTable destroys all row data. With preserveSplits the
// original region boundaries (and count) come back; without it the
// table is recreated with a single region.
func (a *Admin) TruncateTable(name api.TableName, preserveSplits bool) *Future[Void] {
	if err := guardMeta(name); err != nil {
		return fail[Void](a, "truncateTable", err)
	}

	return dispatch(a, "truncateTable", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.TruncateTable(ctx, name, preserveSplits)
	})
}

// DisableTable takes the table out of service. Disabling a table
// which isn't enabled fails with ErrIllegalState; it never silently
// succeeds.
func (a *Admin) DisableTable(name api.TableName) *Future[Void] {
	if err := guardMeta(name); err != nil {
		return fail[Void](a, "disableTable", err)
	}

	return dispatch(a, "disableTable", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.DisableTable(ctx, name)
	})
}

// EnableTable brings a disabled table back, retaining the region
// assignment it had before it was disabled.
func (a *Admin) EnableTable(name api.TableName) *Future[Void] {
	return dispatch(a, "enableTable", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.EnableTable(ctx, name)
	})
}

func (a *Admin) AddColumnFamily(name api.TableName, fd api.FamilyDescriptor) *Future[Void] {
	return dispatch(a, "addColumnFamily", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.AddColumnFamily(ctx, name, fd)
	})
}

func (a *Admin) ModifyColumnFamily(name api.TableName, fd api.FamilyDescriptor) *Future[Void] {
	return dispatch(a, "modifyColumnFamily", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.ModifyColumnFamily(ctx, name, fd)
	})
}

func (a *Admin) DeleteColumnFamily(name api.TableName, family string) *Future[Void] {
	return dispatch(a, "deleteColumnFamily", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.DeleteColumnFamily(ctx, name, family)
	})
}

func (a *Admin) GetTableRegions(name api.TableName) *Future[[]api.RegionInfo] {
	return dispatch(a, "getTableRegions", func(ctx context.Context) ([]api.RegionInfo, error) {
		return a.m.GetTableRegions(ctx, name)
	})
}

// GetRegion resolves a full or encoded region name to its location.
// Both forms of the same region resolve to the same answer.
func (a *Admin) GetRegion(nameOrEncoded string) *Future[api.RegionLocation] {
	if nameOrEncoded == "" {
		return fail[api.RegionLocation](a, "getRegion", fmt.Errorf("%w: empty region name", api.ErrInvalidArgument))
	}

	return dispatch(a, "getRegion", func(ctx context.Context) (api.RegionLocation, error) {
		return a.m.LocateRegion(ctx, nameOrEncoded)
	})
}

// CloseRegion asks the given server to stop serving the region. The
// identifier may be a full or encoded region name; the distinction is
// preserved and the master decides whether it resolves. A blank server
// name is rejected here, before any RPC.
func (a *Admin) CloseRegion(nameOrEncoded string, server api.ServerName) *Future[Void] {
	if server.IsBlank() {
		return fail[Void](a, "closeRegion", fmt.Errorf("%w: server name must be non-blank", api.ErrInvalidArgument))
	}
	if nameOrEncoded == "" {
		return fail[Void](a, "closeRegion", fmt.Errorf("%w: empty region name", api.ErrInvalidArgument))
	}

	return dispatch(a, "closeRegion", func(ctx context.Context) (Void, error) {
		return Void{}, a.m.CloseRegion(ctx, nameOrEncoded, server)
	})
}

func (a *Admin) IsBalancerEnabled() *Future[bool] {
	return dispatch(a, "isBalancerEnabled", func(ctx context.Context) (bool, error) {
		return a.m.IsBalancerEnabled(ctx)
	})
}

// SetBalancerRunning flips the balancer and resolves to the previous
// state. The read-modify-return is atomic on the master; concurrent
// togglers are serialized there, not here.
func (a *Admin) SetBalancerRunning(on bool) *Future[bool] {
	return dispatch(a, "setBalancerRunning", func(ctx context.Context) (bool, error) {
		return a.m.SetBalancerRunning(ctx, on)
	})
}

// guardMeta fails destructive operations against the meta table
// before they reach the master.
func guardMeta(name api.TableName) error {
	if name.IsMeta() {
		return fmt.Errorf("%w: %s is the meta table", api.ErrProtectedResource, name)
	}
	return nil
}
