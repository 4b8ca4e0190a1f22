package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ktakeda/loadplan/core/model"
)

const sampleDoc = `{
  "products": [
    {"id": 1, "code": "P1", "name": "製品1", "capacity_per_container": 10,
     "lead_time_days": 2, "can_advance": true, "container_id": 1, "truck_ids": [1]}
  ],
  "containers": [
    {"id": 1, "name": "箱A", "width": 1000, "depth": 1000, "height": 500, "max_weight": 100}
  ],
  "trucks": [
    {"id": 1, "name": "4tトラック", "width": 2000, "depth": 5000, "height": 2000,
     "max_weight": 10000, "default_use": true}
  ],
  "rules": [
    {"truck_id": 1, "container_id": 1, "max_quantity": 300}
  ],
  "demand": [
    {"product_id": 1, "due_date": "2026-01-06", "order_quantity": 100, "shipped_quantity": 20},
    {"product_id": 1, "due_date": "2026-01-20", "order_quantity": 50}
  ]
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

	src, err := Load(path)
	require.NoError(t, err)

	masters, err := src.Masters(context.Background())
	require.NoError(t, err)
	require.Len(t, masters.Products, 1)
	require.Equal(t, "P1", masters.Products[0].Code)
	require.True(t, masters.Products[0].CanAdvance)
	require.Len(t, masters.Containers, 1)
	require.Len(t, masters.Trucks, 1)
	require.True(t, masters.Trucks[0].DefaultUse)
	require.Equal(t, 300, masters.Rules[0].MaxQuantity)
}

func TestOutstandingDemandFiltersRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))
	src, err := Load(path)
	require.NoError(t, err)

	start, _ := time.Parse(model.DateLayout, "2026-01-05")
	end, _ := time.Parse(model.DateLayout, "2026-01-09")
	rows, err := src.OutstandingDemand(start, end)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 100, rows[0].OrderQuantity)
	require.Equal(t, 80, rows[0].Outstanding())
}

func TestLoadRejectsBadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	bad := `{"demand": [{"product_id": 1, "due_date": "06/01/2026", "order_quantity": 1}]}`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
