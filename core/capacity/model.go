// Package capacity derives how much of a product a truck can carry per trip.
package capacity

import (
	"sync"

	"github.com/ktakeda/loadplan/core/model"
)

type pairKey struct {
	truckID     int64
	containerID int64
}

type fitKey struct {
	truckID     int64
	containerID int64
	stackFactor int
}

// Model answers the effective per-trip ceiling for a (truck, container,
// product) combination. A registered truck-container rule is authoritative;
// otherwise the ceiling is derived from physical dimensions and weight.
//
// Derived fits are cached. The cache is guarded by a RWMutex so concurrent
// planning runs may share one Model.
type Model struct {
	rules map[pairKey]model.TruckContainerRule

	mu    sync.RWMutex
	cache map[fitKey]int
}

// New builds a Model from the optional override rules. Later rules for the
// same pair replace earlier ones.
func New(rules []model.TruckContainerRule) *Model {
	m := &Model{
		rules: make(map[pairKey]model.TruckContainerRule, len(rules)),
		cache: make(map[fitKey]int),
	}
	for _, r := range rules {
		m.rules[pairKey{r.TruckID, r.ContainerID}] = r
	}
	return m
}

// Rule returns the override for the pair, if one is registered.
func (m *Model) Rule(truckID, containerID int64) (model.TruckContainerRule, bool) {
	r, ok := m.rules[pairKey{truckID, containerID}]
	return r, ok
}

// MaxQuantity returns the unit ceiling for one trip of truck carrying
// product packed in container.
func (m *Model) MaxQuantity(truck model.Truck, container model.Container, product model.Product) int {
	if rule, ok := m.Rule(truck.ID, container.ID); ok && rule.MaxQuantity > 0 {
		return rule.MaxQuantity
	}
	return m.MaxContainers(truck, container, product) * product.CapacityPerContainer
}

// MaxContainers returns how many containers of this product fit on the
// truck, the minimum of the volume, floor-area and weight fits.
func (m *Model) MaxContainers(truck model.Truck, container model.Container, product model.Product) int {
	stack := stackFactor(container, product)
	if rule, ok := m.Rule(truck.ID, container.ID); ok && rule.StackCount > 0 {
		stack = rule.StackCount
	}

	key := fitKey{truck.ID, container.ID, stack}
	m.mu.RLock()
	n, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		return n
	}

	n = derivedFit(truck, container, stack)
	m.mu.Lock()
	m.cache[key] = n
	m.mu.Unlock()
	return n
}

func derivedFit(truck model.Truck, container model.Container, stack int) int {
	fit := -1

	if v := container.Volume(); v > 0 {
		fit = minFit(fit, int(truck.Volume()/v))
	}
	if fp := container.Footprint(); fp > 0 {
		fit = minFit(fit, int(truck.FloorArea()/fp)*stack)
	}
	if container.MaxWeight > 0 && truck.MaxWeight > 0 {
		fit = minFit(fit, int(truck.MaxWeight/container.MaxWeight))
	}
	if fit < 0 {
		return 0
	}
	return fit
}

func stackFactor(container model.Container, product model.Product) int {
	if !product.Stackable {
		return 1
	}
	return container.StackFactor()
}

func minFit(current, candidate int) int {
	if candidate < 0 {
		candidate = 0
	}
	if current < 0 || candidate < current {
		return candidate
	}
	return current
}
