package capacity

import (
	"testing"

	"github.com/ktakeda/loadplan/core/model"
)

// 20 m3 volume, 10 m2 floor, 10 t payload.
var testTruck = model.Truck{ID: 1, Width: 2000, Depth: 5000, Height: 2000, MaxWeight: 10000}

// 0.5 m3, 1 m2, 100 kg per loaded container.
var testContainer = model.Container{ID: 1, Width: 1000, Depth: 1000, Height: 500, MaxWeight: 100}

var testProduct = model.Product{ID: 1, Code: "P1", CapacityPerContainer: 10, ContainerID: 1}

func TestDerivedFitFloorBound(t *testing.T) {
	m := New(nil)
	// volume fits 40, floor fits 10, weight fits 100; floor binds.
	if n := m.MaxContainers(testTruck, testContainer, testProduct); n != 10 {
		t.Fatalf("expected 10 containers, got %d", n)
	}
	if q := m.MaxQuantity(testTruck, testContainer, testProduct); q != 100 {
		t.Fatalf("expected 100 units, got %d", q)
	}
}

func TestStackingRaisesFloorFit(t *testing.T) {
	m := New(nil)
	c := testContainer
	c.Stackable = true
	c.MaxStack = 2
	p := testProduct
	p.Stackable = true
	if n := m.MaxContainers(testTruck, c, p); n != 20 {
		t.Fatalf("expected 20 containers with stacking, got %d", n)
	}
	// A non-stackable product must not be stacked even in a stackable box.
	if n := m.MaxContainers(testTruck, c, testProduct); n != 10 {
		t.Fatalf("expected 10 containers without stacking, got %d", n)
	}
}

func TestRuleOverrides(t *testing.T) {
	m := New([]model.TruckContainerRule{{TruckID: 1, ContainerID: 1, MaxQuantity: 300}})
	if q := m.MaxQuantity(testTruck, testContainer, testProduct); q != 300 {
		t.Fatalf("rule max quantity must be authoritative, got %d", q)
	}

	m = New([]model.TruckContainerRule{{TruckID: 1, ContainerID: 1, StackCount: 3}})
	if n := m.MaxContainers(testTruck, testContainer, testProduct); n != 30 {
		t.Fatalf("rule stack count should apply, got %d", n)
	}
}

func TestDerivedFitZeroDimensions(t *testing.T) {
	m := New(nil)
	empty := model.Container{ID: 2}
	if n := m.MaxContainers(testTruck, empty, testProduct); n != 0 {
		t.Fatalf("dimensionless container has no derivable fit, got %d", n)
	}
}
