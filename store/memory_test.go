package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	res := samplePlan()

	id, err := st.Save(ctx, day("2026-01-05"), day("2026-01-06"), res)
	require.NoError(t, err)

	header, got, err := st.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, res, got)
	require.Equal(t, res.Summary.Status, header.Status)

	headers, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, headers, 1)

	require.NoError(t, st.Delete(ctx, id))
	_, _, err = st.Get(ctx, id)
	require.Error(t, err)
	require.Error(t, st.Delete(ctx, id))
}

func TestMemoryStorePlannedQuantities(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, st.RecomputePlannedQuantities(ctx, samplePlan()))
	pqs, err := st.PlannedQuantities(ctx)
	require.NoError(t, err)
	require.Equal(t, []PlannedQuantity{{ProductID: 1, DueDate: day("2026-01-06"), Quantity: 30}}, pqs)
}
