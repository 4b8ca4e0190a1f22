package plan

import "github.com/ktakeda/loadplan/core/model"

// Masters is the immutable master-data snapshot a planning run works on.
// Slices keep the order the collaborator returned them in; the planner uses
// that order as the stable tie-break between equally ranked trucks.
type Masters struct {
	Products   []model.Product
	Containers []model.Container
	Trucks     []model.Truck
	Rules      []model.TruckContainerRule
}

// Empty reports whether the snapshot lacks trucks or containers entirely,
// which puts the planner into degraded mode.
func (m Masters) Empty() bool {
	return len(m.Trucks) == 0 || len(m.Containers) == 0
}

func (m Masters) productByID() map[int64]model.Product {
	idx := make(map[int64]model.Product, len(m.Products))
	for _, p := range m.Products {
		idx[p.ID] = p
	}
	return idx
}

func (m Masters) containerByID() map[int64]model.Container {
	idx := make(map[int64]model.Container, len(m.Containers))
	for _, c := range m.Containers {
		idx[c.ID] = c
	}
	return idx
}

func (m Masters) truckByID() map[int64]model.Truck {
	idx := make(map[int64]model.Truck, len(m.Trucks))
	for _, t := range m.Trucks {
		idx[t.ID] = t
	}
	return idx
}
