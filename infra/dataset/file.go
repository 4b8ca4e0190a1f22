// Package dataset loads master data and outstanding demand from a JSON
// document, the input format of the command line planner.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ktakeda/loadplan/core/demand"
	"github.com/ktakeda/loadplan/core/model"
	"github.com/ktakeda/loadplan/core/plan"
)

type productRow struct {
	ID                   int64   `json:"id"`
	Code                 string  `json:"code"`
	Name                 string  `json:"name"`
	CapacityPerContainer int     `json:"capacity_per_container"`
	LeadTimeDays         int     `json:"lead_time_days"`
	FixedPointDays       int     `json:"fixed_point_days"`
	CanAdvance           bool    `json:"can_advance"`
	Stackable            bool    `json:"stackable"`
	ContainerID          int64   `json:"container_id"`
	TruckIDs             []int64 `json:"truck_ids"`
}

type containerRow struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Width     float64 `json:"width"`
	Depth     float64 `json:"depth"`
	Height    float64 `json:"height"`
	MaxWeight float64 `json:"max_weight"`
	MaxVolume float64 `json:"max_volume"`
	CanMix    bool    `json:"can_mix"`
	Stackable bool    `json:"stackable"`
	MaxStack  int     `json:"max_stack"`
}

type truckRow struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Width                float64  `json:"width"`
	Depth                float64  `json:"depth"`
	Height               float64  `json:"height"`
	MaxWeight            float64  `json:"max_weight"`
	DepartureTime        string   `json:"departure_time"`
	ArrivalTime          string   `json:"arrival_time"`
	ArrivalDayOffset     int      `json:"arrival_day_offset"`
	DefaultUse           bool     `json:"default_use"`
	PriorityProductCodes []string `json:"priority_product_codes"`
}

type ruleRow struct {
	TruckID     int64 `json:"truck_id"`
	ContainerID int64 `json:"container_id"`
	MaxQuantity int   `json:"max_quantity"`
	StackCount  int   `json:"stack_count"`
	Priority    int   `json:"priority"`
}

type demandRow struct {
	ProductID       int64  `json:"product_id"`
	DueDate         string `json:"due_date"`
	OrderQuantity   int    `json:"order_quantity"`
	ShippedQuantity int    `json:"shipped_quantity"`
	PlannedQuantity int    `json:"planned_quantity"`
}

type document struct {
	Products   []productRow   `json:"products"`
	Containers []containerRow `json:"containers"`
	Trucks     []truckRow     `json:"trucks"`
	Rules      []ruleRow      `json:"rules"`
	Demand     []demandRow    `json:"demand"`
}

// FileSource serves masters and demand from one loaded document. It
// implements both the service's master source and the demand source.
type FileSource struct {
	masters plan.Masters
	backlog []demand.BacklogRow
}

// Load reads and decodes the document at path.
func Load(path string) (*FileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", path, err)
	}

	src := &FileSource{}
	for _, r := range doc.Products {
		src.masters.Products = append(src.masters.Products, model.Product{
			ID:                   r.ID,
			Code:                 r.Code,
			Name:                 r.Name,
			CapacityPerContainer: r.CapacityPerContainer,
			LeadTimeDays:         r.LeadTimeDays,
			FixedPointDays:       r.FixedPointDays,
			CanAdvance:           r.CanAdvance,
			Stackable:            r.Stackable,
			ContainerID:          r.ContainerID,
			TruckIDs:             r.TruckIDs,
		})
	}
	for _, r := range doc.Containers {
		src.masters.Containers = append(src.masters.Containers, model.Container{
			ID:        r.ID,
			Name:      r.Name,
			Width:     r.Width,
			Depth:     r.Depth,
			Height:    r.Height,
			MaxWeight: r.MaxWeight,
			MaxVolume: r.MaxVolume,
			CanMix:    r.CanMix,
			Stackable: r.Stackable,
			MaxStack:  r.MaxStack,
		})
	}
	for _, r := range doc.Trucks {
		src.masters.Trucks = append(src.masters.Trucks, model.Truck{
			ID:                   r.ID,
			Name:                 r.Name,
			Width:                r.Width,
			Depth:                r.Depth,
			Height:               r.Height,
			MaxWeight:            r.MaxWeight,
			DepartureTime:        r.DepartureTime,
			ArrivalTime:          r.ArrivalTime,
			ArrivalDayOffset:     r.ArrivalDayOffset,
			DefaultUse:           r.DefaultUse,
			PriorityProductCodes: r.PriorityProductCodes,
		})
	}
	for _, r := range doc.Rules {
		src.masters.Rules = append(src.masters.Rules, model.TruckContainerRule{
			TruckID:     r.TruckID,
			ContainerID: r.ContainerID,
			MaxQuantity: r.MaxQuantity,
			StackCount:  r.StackCount,
			Priority:    r.Priority,
		})
	}
	for _, r := range doc.Demand {
		due, err := time.Parse(model.DateLayout, r.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q: %w", r.DueDate, err)
		}
		src.backlog = append(src.backlog, demand.BacklogRow{
			ProductID:       r.ProductID,
			DueDate:         due,
			OrderQuantity:   r.OrderQuantity,
			ShippedQuantity: r.ShippedQuantity,
			PlannedQuantity: r.PlannedQuantity,
		})
	}
	return src, nil
}

// Masters returns the master-data snapshot.
func (s *FileSource) Masters(context.Context) (plan.Masters, error) {
	return s.masters, nil
}

// OutstandingDemand returns the backlog rows due inside [start, end].
func (s *FileSource) OutstandingDemand(start, end time.Time) ([]demand.BacklogRow, error) {
	var out []demand.BacklogRow
	for _, r := range s.backlog {
		day := model.Day(r.DueDate)
		if day.Before(model.Day(start)) || day.After(model.Day(end)) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
