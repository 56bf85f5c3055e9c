// Package registry holds the process-wide device registry. It is built once at
// startup from configuration and never mutated afterwards, so it is safe to
// share across concurrent dispatch workers without locking.
package registry

import (
	"fmt"
	"sort"

	"github.com/etna-dt/twinhub/core/model"
)

// Registry maps device ids to their configured devices.
type Registry struct {
	devices map[string]model.Device
}

// New builds a Registry from the given devices. Duplicate ids and invalid
// devices are rejected.
func New(devices []model.Device) (*Registry, error) {
	m := make(map[string]model.Device, len(devices))
	for _, d := range devices {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, ok := m[d.ID]; ok {
			return nil, fmt.Errorf("duplicate device id %s", d.ID)
		}
		m[d.ID] = d
	}
	return &Registry{devices: m}, nil
}

// Get returns the device for the given id.
func (r *Registry) Get(id string) (model.Device, bool) {
	d, ok := r.devices[id]
	return d, ok
}

// Len returns the number of registered devices.
func (r *Registry) Len() int { return len(r.devices) }

// All returns every registered device sorted by id.
func (r *Registry) All() []model.Device {
	res := make([]model.Device, 0, len(r.devices))
	for _, d := range r.devices {
		res = append(res, d)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res
}

// Resolve returns the target device set for a dispatch. A nil id list selects
// every registered device. Ids absent from the registry are silently dropped;
// they cannot be dispatched to.
func (r *Registry) Resolve(ids []string) []model.Device {
	if ids == nil {
		return r.All()
	}
	seen := make(map[string]bool, len(ids))
	var res []model.Device
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if d, ok := r.devices[id]; ok {
			res = append(res, d)
		}
	}
	return res
}
