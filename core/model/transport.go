package model

import "time"

const (
	mm2PerM2 = 1_000_000
	mm3PerM3 = 1_000_000_000
)

// Container is a reusable transport box products are packed into.
// Dimensions are millimetres, weights kilograms.
type Container struct {
	ID     int64
	Name   string
	Width  float64
	Depth  float64
	Height float64

	// MaxWeight is the weight of one fully loaded container. It doubles as
	// the unit weight when deriving how many containers a truck can carry.
	MaxWeight float64
	// MaxVolume caps the content volume in m3. Zero means use the physical
	// volume of the box.
	MaxVolume float64

	CanMix    bool
	Stackable bool
	MaxStack  int
}

// Footprint returns the floor area of one container in m2.
func (c Container) Footprint() float64 {
	return c.Width * c.Depth / mm2PerM2
}

// Volume returns the physical volume of one container in m3.
func (c Container) Volume() float64 {
	if c.MaxVolume > 0 {
		return c.MaxVolume
	}
	return c.Width * c.Depth * c.Height / mm3PerM3
}

// StackFactor returns how many containers share one floor slot.
func (c Container) StackFactor() int {
	if c.Stackable && c.MaxStack > 1 {
		return c.MaxStack
	}
	return 1
}

// Truck is one vehicle with a fixed daily departure.
type Truck struct {
	ID     int64
	Name   string
	Width  float64
	Depth  float64
	Height float64

	// MaxWeight is the payload limit in kg.
	MaxWeight float64

	DepartureTime string
	ArrivalTime   string

	// ArrivalDayOffset is 0 for same-day arrival, 1 for next-day.
	ArrivalDayOffset int

	// DefaultUse marks trucks considered for every product.
	DefaultUse bool

	// PriorityProductCodes lists product codes this truck should carry
	// first, in order.
	PriorityProductCodes []string
}

// FloorArea returns the loadable floor area in m2.
func (t Truck) FloorArea() float64 {
	return t.Width * t.Depth / mm2PerM2
}

// Volume returns the loadable volume in m3.
func (t Truck) Volume() float64 {
	return t.Width * t.Depth * t.Height / mm3PerM3
}

// HasPriorityFor reports whether code is on the truck's priority list.
func (t Truck) HasPriorityFor(code string) bool {
	for _, c := range t.PriorityProductCodes {
		if c == code {
			return true
		}
	}
	return false
}

// CanArriveBy reports whether a loading on loadingDate reaches the customer
// no later than dueDate, given the truck's arrival day offset.
func (t Truck) CanArriveBy(loadingDate, dueDate time.Time) bool {
	if dueDate.IsZero() || loadingDate.IsZero() {
		return true
	}
	arrival := Day(loadingDate).AddDate(0, 0, t.ArrivalDayOffset)
	return !arrival.After(Day(dueDate))
}

// TruckContainerRule overrides the derived capacity for one truck and
// container pair. When absent the capacity model falls back to physical
// dimensions and weight.
type TruckContainerRule struct {
	TruckID     int64
	ContainerID int64
	// MaxQuantity is the authoritative unit ceiling per trip.
	MaxQuantity int
	// StackCount, when positive, overrides the container's stack limit.
	StackCount int
	Priority   int
}
