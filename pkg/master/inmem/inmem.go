// Package inmem is an in-process master. It owns the authoritative
// table registry and enforces the table state machine behind a single
// mutex, which is the serialization that the client side leans on
// instead of locking. It backs the tests and the tadminctl demo.
package inmem

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adammck/tadmin/pkg/api"
	"github.com/adammck/tadmin/pkg/persister"
	pinmem "github.com/adammck/tadmin/pkg/persister/inmem"
	"github.com/adammck/tadmin/pkg/placement"
	"github.com/adammck/tadmin/pkg/schema"
	"github.com/adammck/tadmin/pkg/split"
	"go.uber.org/zap"
)

type table struct {
	desc  api.TableDescriptor
	state api.TableState

	regions []api.RegionInfo

	// encoded region name -> hosting server. Entries survive disable,
	// so enable can retain the previous assignment.
	assign map[string]api.ServerName

	// Boundaries at creation time, for truncate with preserveSplits.
	splits []api.Key
}

type Master struct {
	mu       sync.Mutex
	tables   map[api.TableName]*table
	servers  []api.ServerName
	cursor   int // round-robin placement cursor
	balancer bool
	lastID   int64

	mirror persister.Persister
	log    *zap.Logger

	// Just for testing: counts calls that reached the master, so tests
	// can assert that client-side validation never got here.
	calls uint64
}

// New returns a master hosting only the meta table, placed on the
// first server if any. A nil mirror gets an in-memory one; a nil
// logger gets a nop.
func New(mirror persister.Persister, logger *zap.Logger, servers ...api.ServerName) *Master {
	if mirror == nil {
		mirror = pinmem.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Master{
		tables:   map[api.TableName]*table{},
		servers:  append([]api.ServerName{}, servers...),
		balancer: true,
		lastID:   time.Now().UnixMilli(),
		mirror:   mirror,
		log:      logger,
	}

	// The meta table always exists. It carries fewer regions than its
	// peers by design, so verifiers exclude its server from the pool.
	meta := &table{
		desc:   api.NewTableDescriptor(api.MetaTableName, api.NewFamily("info")),
		state:  api.StateEnabled,
		assign: map[string]api.ServerName{},
	}
	meta.regions = []api.RegionInfo{{Table: api.MetaTableName, ID: m.nextID()}}
	if len(m.servers) > 0 {
		meta.assign[meta.regions[0].EncodedName()] = m.servers[0]
	}
	m.tables[api.MetaTableName] = meta
	m.mirror.PutDescriptor(meta.desc)

	return m
}

// Calls returns how many RPCs have reached the master.
func (m *Master) Calls() uint64 {
	return atomic.LoadUint64(&m.calls)
}

// Assignments returns the region-to-server map for one table, for
// verifying spread. Not part of the Master interface.
func (m *Master) Assignments(name api.TableName) (map[api.ServerName][]api.RegionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", api.ErrNotFound, name)
	}

	out := map[api.ServerName][]api.RegionInfo{}
	for _, ri := range t.regions {
		if sn, ok := t.assign[ri.EncodedName()]; ok {
			out[sn] = append(out[sn], ri)
		}
	}

	return out, nil
}

func (m *Master) CreateTable(ctx context.Context, desc api.TableDescriptor, splits []api.Key) error {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	if desc.Name.Qualifier == "" {
		return fmt.Errorf("%w: empty table name", api.ErrInvalidArgument)
	}
	if len(desc.Families) == 0 {
		return fmt.Errorf("%w: table %s needs at least one column family", api.ErrInvalidArgument, desc.Name)
	}
	if _, ok := m.tables[desc.Name]; ok {
		return fmt.Errorf("%w: table %s", api.ErrAlreadyExists, desc.Name)
	}

	boundaries, err := split.Validate(splits)
	if err != nil {
		return err
	}

	t := &table{
		desc:   desc,
		state:  api.StateNone,
		assign: map[string]api.ServerName{},
		splits: boundaries,
	}
	t.regions = m.materialize(desc.Name, boundaries)
	m.place(t)

	if err := m.transition(t, api.StateEnabled); err != nil {
		return err
	}

	// Mirror before registering, so a failed write leaves no table
	// behind.
	if err := m.mirror.PutDescriptor(desc); err != nil {
		return fmt.Errorf("writing descriptor mirror: %w", err)
	}
	m.tables[desc.Name] = t

	m.log.Info("created table",
		zap.String("table", desc.Name.String()),
		zap.Int("regions", len(t.regions)))

	return nil
}

func (m *Master) DeleteTable(ctx context.Context, name api.TableName) error {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.protected(name)
	if err != nil {
		return err
	}

	if t.state != api.StateDisabled {
		return fmt.Errorf("%w: table %s is %s; disable it first", api.ErrIllegalState, name, t.state)
	}

	if err := m.transition(t, api.StateDeleting); err != nil {
		return err
	}

	if err := m.mirror.DeleteDescriptor(name); err != nil {
		return fmt.Errorf("deleting descriptor mirror: %w", err)
	}
	delete(m.tables, name)

	m.log.Info("deleted table", zap.String("table", name.String()))
	return nil
}

func (m *Master) TruncateTable(ctx context.Context, name api.TableName, preserveSplits bool) error {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.protected(name)
	if err != nil {
		return err
	}

	if t.state != api.StateDisabled {
		return fmt.Errorf("%w: table %s is %s; disable it first", api.ErrIllegalState, name, t.state)
	}

	boundaries := []api.Key{}
	if preserveSplits {
		boundaries = t.splits
	} else {
		t.splits = nil
	}

	// Truncate is delete-and-recreate, so the regions are new values
	// with new IDs, and the table comes back enabled.
	t.assign = map[string]api.ServerName{}
	t.regions = m.materialize(name, boundaries)
	m.place(t)
	t.state = api.StateEnabled

	if err := m.mirror.PutDescriptor(t.desc); err != nil {
		return fmt.Errorf("writing descriptor mirror: %w", err)
	}

	m.log.Info("truncated table",
		zap.String("table", name.String()),
		zap.Bool("preserveSplits", preserveSplits),
		zap.Int("regions", len(t.regions)))

	return nil
}

func (m *Master) EnableTable(ctx context.Context, name api.TableName) error {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return fmt.Errorf("%w: table %s", api.ErrNotFound, name)
	}

	// Enabling an enabled (or mid-transition) table is a hard error,
	// same as disable below.
	if err := m.transition(t, api.StateEnabling); err != nil {
		return err
	}

	// Retain assignment: the regions and their server mapping were
	// kept across disable, so nothing to re-place here.
	if err := m.transition(t, api.StateEnabled); err != nil {
		return err
	}

	m.log.Info("enabled table", zap.String("table", name.String()))
	return nil
}

func (m *Master) DisableTable(ctx context.Context, name api.TableName) error {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.protected(name)
	if err != nil {
		return err
	}

	// Disabling an already-disabled table fails; it must not silently
	// succeed.
	if err := m.transition(t, api.StateDisabling); err != nil {
		return err
	}

	if err := m.transition(t, api.StateDisabled); err != nil {
		return err
	}

	m.log.Info("disabled table", zap.String("table", name.String()))
	return nil
}

func (m *Master) AddColumnFamily(ctx context.Context, name api.TableName, fd api.FamilyDescriptor) error {
	atomic.AddUint64(&m.calls, 1)
	return m.mutateSchema(name, func(td api.TableDescriptor) (api.TableDescriptor, error) {
		return schema.AddFamily(td, fd)
	})
}

func (m *Master) ModifyColumnFamily(ctx context.Context, name api.TableName, fd api.FamilyDescriptor) error {
	atomic.AddUint64(&m.calls, 1)
	return m.mutateSchema(name, func(td api.TableDescriptor) (api.TableDescriptor, error) {
		return schema.ModifyFamily(td, fd)
	})
}

func (m *Master) DeleteColumnFamily(ctx context.Context, name api.TableName, family string) error {
	atomic.AddUint64(&m.calls, 1)
	return m.mutateSchema(name, func(td api.TableDescriptor) (api.TableDescriptor, error) {
		return schema.DeleteFamily(td, family)
	})
}

// mutateSchema applies one copy-on-write descriptor mutation, writing
// the mirror first. The in-memory descriptor only changes if the
// mirror write succeeded, so the two can't diverge.
func (m *Master) mutateSchema(name api.TableName, fn func(api.TableDescriptor) (api.TableDescriptor, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, err := m.protected(name)
	if err != nil {
		return err
	}

	if t.state != api.StateDisabled {
		return fmt.Errorf("%w: table %s is %s; disable it first", api.ErrIllegalState, name, t.state)
	}

	td, err := fn(t.desc)
	if err != nil {
		return err
	}

	if err := m.mirror.PutDescriptor(td); err != nil {
		return fmt.Errorf("writing descriptor mirror: %w", err)
	}
	t.desc = td

	m.log.Info("mutated schema",
		zap.String("table", name.String()),
		zap.Int("families", len(td.Families)))

	return nil
}

func (m *Master) TableExists(ctx context.Context, name api.TableName) (bool, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tables[name]
	return ok, nil
}

func (m *Master) GetDescriptor(ctx context.Context, name api.TableName) (api.TableDescriptor, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return api.TableDescriptor{}, fmt.Errorf("%w: table %s", api.ErrNotFound, name)
	}

	return t.desc, nil
}

func (m *Master) ListTableNames(ctx context.Context, pattern *regexp.Regexp, includeSystem bool) ([]api.TableName, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []api.TableName{}
	for tn := range m.tables {
		if tn.IsSystem() && !includeSystem {
			continue
		}
		if pattern != nil && !pattern.MatchString(tn.String()) {
			continue
		}
		out = append(out, tn)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Less(out[j])
	})

	return out, nil
}

func (m *Master) GetTableState(ctx context.Context, name api.TableName) (api.TableState, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return api.StateNone, nil
	}

	return t.state, nil
}

func (m *Master) GetTableRegions(ctx context.Context, name api.TableName) ([]api.RegionInfo, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", api.ErrNotFound, name)
	}

	out := make([]api.RegionInfo, len(t.regions))
	copy(out, t.regions)
	return out, nil
}

func (m *Master) LocateRegion(ctx context.Context, nameOrEncoded string) (api.RegionLocation, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ri, err := m.findRegion(nameOrEncoded)
	if err != nil {
		return api.RegionLocation{}, err
	}

	if t.state != api.StateEnabled {
		return api.RegionLocation{}, fmt.Errorf("%w: table %s is %s", api.ErrNotServing, ri.Table, t.state)
	}

	sn, ok := t.assign[ri.EncodedName()]
	if !ok {
		return api.RegionLocation{}, fmt.Errorf("%w: region %s is not assigned", api.ErrNotServing, ri.EncodedName())
	}

	return api.RegionLocation{Region: ri, Server: sn}, nil
}

func (m *Master) CloseRegion(ctx context.Context, nameOrEncoded string, server api.ServerName) error {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ri, err := m.findRegion(nameOrEncoded)
	if err != nil {
		return err
	}

	enc := ri.EncodedName()
	sn, ok := t.assign[enc]
	if !ok || sn != server {
		return fmt.Errorf("%w: region %s is not hosted on %s", api.ErrNotServing, enc, server)
	}

	delete(t.assign, enc)

	m.log.Info("closed region",
		zap.String("region", enc),
		zap.String("server", server.String()))

	return nil
}

func (m *Master) IsBalancerEnabled(ctx context.Context) (bool, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balancer, nil
}

func (m *Master) SetBalancerRunning(ctx context.Context, on bool) (bool, error) {
	atomic.AddUint64(&m.calls, 1)
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.balancer
	m.balancer = on

	if prev != on {
		m.log.Info("balancer toggled", zap.Bool("enabled", on))
	}

	return prev, nil
}

// findRegion resolves either a full region name or its encoded form.
// Anything else is not found.
func (m *Master) findRegion(nameOrEncoded string) (*table, api.RegionInfo, error) {
	for _, t := range m.tables {
		for _, ri := range t.regions {
			if ri.Name() == nameOrEncoded || ri.EncodedName() == nameOrEncoded {
				return t, ri, nil
			}
		}
	}

	return nil, api.RegionInfo{}, fmt.Errorf("%w: region %q", api.ErrNotFound, nameOrEncoded)
}

// protected looks up a table and rejects destructive operations
// against the meta table.
func (m *Master) protected(name api.TableName) (*table, error) {
	if name.IsMeta() {
		return nil, fmt.Errorf("%w: %s is the meta table", api.ErrProtectedResource, name)
	}

	t, ok := m.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: table %s", api.ErrNotFound, name)
	}

	return t, nil
}

// transition moves a table to the given state, or fails with
// ErrIllegalState if the state machine forbids it.
func (m *Master) transition(t *table, to api.TableState) error {
	if !t.state.CanTransition(to) {
		return fmt.Errorf("%w: table %s can't go from %s to %s", api.ErrIllegalState, t.desc.Name, t.state, to)
	}

	m.log.Debug("table state transition",
		zap.String("table", t.desc.Name.String()),
		zap.String("from", t.state.String()),
		zap.String("to", to.String()))

	t.state = to
	return nil
}

// materialize turns n boundaries into n+1 regions covering the whole
// keyspace.
func (m *Master) materialize(name api.TableName, boundaries []api.Key) []api.RegionInfo {
	edges := make([]api.Key, 0, len(boundaries)+2)
	edges = append(edges, api.ZeroKey)
	edges = append(edges, boundaries...)
	edges = append(edges, api.ZeroKey)

	out := make([]api.RegionInfo, 0, len(edges)-1)
	for i := 0; i < len(edges)-1; i++ {
		out = append(out, api.RegionInfo{
			Table: name,
			Start: edges[i],
			End:   edges[i+1],
			ID:    m.nextID(),
		})
	}

	return out
}

// place deals the table's regions across the registered servers. The
// cursor persists across tables so load rotates, but each table's own
// spread still satisfies placement.Balanced.
func (m *Master) place(t *table) {
	if len(m.servers) == 0 {
		return
	}

	rotated := make([]api.ServerName, len(m.servers))
	for i := range m.servers {
		rotated[i] = m.servers[(m.cursor+i)%len(m.servers)]
	}
	m.cursor = (m.cursor + len(t.regions)) % len(m.servers)

	for sn, regions := range placement.RoundRobin(t.regions, rotated) {
		for _, ri := range regions {
			t.assign[ri.EncodedName()] = sn
		}
	}
}

func (m *Master) nextID() int64 {
	m.lastID++
	return m.lastID
}
