package admin

import (
	"context"
	"regexp"
	"sort"

	"github.com/adammck/tadmin/pkg/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// The bulk operations resolve a pattern to a set of tables, apply the
// single-table operation to each concurrently, and resolve to the
// subset of names that failed. An empty result means total success;
// one target failing never suppresses the others. Targets run in no
// particular order, and a target which was already in the wrong state
// (say, disabling a disabled table) fails like it would alone.

func (a *Admin) DisableTables(pattern *regexp.Regexp, includeSystem bool) *Future[[]api.TableName] {
	return a.bulk("disableTables", pattern, includeSystem, a.m.DisableTable)
}

func (a *Admin) EnableTables(pattern *regexp.Regexp, includeSystem bool) *Future[[]api.TableName] {
	return a.bulk("enableTables", pattern, includeSystem, a.m.EnableTable)
}

func (a *Admin) DeleteTables(pattern *regexp.Regexp, includeSystem bool) *Future[[]api.TableName] {
	return a.bulk("deleteTables", pattern, includeSystem, a.m.DeleteTable)
}

func (a *Admin) bulk(op string, pattern *regexp.Regexp, includeSystem bool, fn func(context.Context, api.TableName) error) *Future[[]api.TableName] {
	return dispatch(a, op, func(ctx context.Context) ([]api.TableName, error) {
		names, err := a.m.ListTableNames(ctx, pattern, includeSystem)
		if err != nil {
			return nil, err
		}

		// One isolated error slot per target, so the group needs no
		// shared mutable state and never aborts early.
		errs := make([]error, len(names))
		g, gctx := errgroup.WithContext(ctx)

		for i, name := range names {
			i, name := i, name
			g.Go(func() error {
				errs[i] = api.Classify(fn(gctx, name))
				return nil
			})
		}

		// The group error is always nil; failures live in errs.
		g.Wait()

		failed := []api.TableName{}
		for i, err := range errs {
			if err != nil {
				failed = append(failed, names[i])
			}
		}

		if combined := multierr.Combine(errs...); combined != nil {
			a.log.Info("bulk operation partially failed",
				zap.String("op", op),
				zap.Int("targets", len(names)),
				zap.Int("failed", len(failed)),
				zap.Error(combined))
		}

		sort.Slice(failed, func(i, j int) bool {
			return failed[i].Less(failed[j])
		})

		return failed, nil
	})
}
