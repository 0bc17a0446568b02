package admin

import (
	"context"
	"fmt"

	"github.com/adammck/tadmin/pkg/api"
	"github.com/lthibault/jitterbug"
)

// WaitTableState blocks until the table reaches the wanted state,
// polling with a jittered ticker so many waiters don't herd the
// master. Absence is a state too: wait for api.StateNone to observe a
// delete. The master's answer is only ever read, never cached.
func (a *Admin) WaitTableState(ctx context.Context, name api.TableName, want api.TableState) error {
	ticker := jitterbug.New(a.cfg.PauseBase, &jitterbug.Norm{Stdev: a.cfg.PauseBase / 10})
	defer ticker.Stop()

	for {
		s, err := a.m.GetTableState(ctx, name)
		if err != nil {
			err = api.Classify(err)
			if !api.Retryable(err) {
				return err
			}
		} else if s == want {
			return nil
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return fmt.Errorf("%w: waiting for table %s to be %s", api.ErrTimeout, name, want)
		}
	}
}
