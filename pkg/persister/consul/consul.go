// Package consul persists table descriptors in Consul KV, one key per
// table under tables/. Writes are CAS transactions guarded by the last
// seen ModifyIndex, so two masters racing on the same table lose
// loudly instead of silently.
package consul

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/adammck/tadmin/pkg/api"
	capi "github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

const prefix = "tables"

type Persister struct {
	kv  *capi.KV
	log *zap.Logger

	// keep track of the last ModifyIndex for each table.
	modifyIndex map[api.TableName]uint64

	// guards modifyIndex
	sync.Mutex
}

func New(client *capi.Client, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Persister{
		kv:          client.KV(),
		log:         logger,
		modifyIndex: map[api.TableName]uint64{},
	}
}

func (cp *Persister) GetDescriptors() ([]api.TableDescriptor, error) {
	pairs, _, err := cp.kv.List(prefix, nil)
	if err != nil {
		return nil, err
	}

	out := []api.TableDescriptor{}

	cp.Lock()
	defer cp.Unlock()

	for _, kv := range pairs {
		s := strings.SplitN(kv.Key, "/", 2)
		if len(s) != 2 {
			cp.log.Warn("invalid consul key", zap.String("key", kv.Key))
			continue
		}

		td := api.TableDescriptor{}
		if err := json.Unmarshal(kv.Value, &td); err != nil {
			cp.log.Warn("invalid descriptor in consul", zap.String("key", kv.Key), zap.Error(err))
			continue
		}

		if td.Name.String() != s[1] {
			cp.log.Warn("mismatch between consul key and encoded descriptor",
				zap.String("key", s[1]), zap.String("table", td.Name.String()))
			continue
		}

		cp.modifyIndex[td.Name] = kv.ModifyIndex
		out = append(out, td)
	}

	return out, nil
}

func (cp *Persister) PutDescriptor(td api.TableDescriptor) error {
	v, err := json.Marshal(td)
	if err != nil {
		return err
	}

	cp.Lock()
	defer cp.Unlock()

	op := &capi.KVTxnOp{
		Verb:  capi.KVCAS,
		Key:   key(td.Name),
		Value: v,
	}

	if index, ok := cp.modifyIndex[td.Name]; ok {
		op.Index = index
	}

	ok, res, _, err := cp.kv.Txn(capi.KVTxnOps{op}, nil)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("consul CAS failed for table %s", td.Name)
	}
	if len(res.Results) != 1 {
		return fmt.Errorf("expected 1 result from Txn, got %d", len(res.Results))
	}

	cp.modifyIndex[td.Name] = res.Results[0].ModifyIndex
	return nil
}

func (cp *Persister) DeleteDescriptor(name api.TableName) error {
	cp.Lock()
	defer cp.Unlock()

	if _, err := cp.kv.Delete(key(name), nil); err != nil {
		return err
	}

	delete(cp.modifyIndex, name)
	return nil
}

func key(name api.TableName) string {
	return fmt.Sprintf("%s/%s", prefix, name)
}
