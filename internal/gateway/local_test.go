package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/lazyvibe/propertydesk/internal/model"
	"github.com/lazyvibe/propertydesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	s, err := store.NewJSONStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewLocal(s)
}

func validRow(name string) RowUpdate {
	return RowUpdate{Fields: map[model.Field]string{
		model.FieldName:        name,
		model.FieldDescription: "desc",
		model.FieldPrice:       "100",
		model.FieldCategory:    "Small",
		model.FieldImage:       "img.png",
	}}
}

func receive(t *testing.T, ch <-chan ListEvent) ListEvent {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "stream closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for list event")
	}
	return ListEvent{}
}

func TestLocalListAllPushesChanges(t *testing.T) {
	g := newLocal(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := g.ListAll(ctx)
	first := receive(t, stream)
	require.NoError(t, first.Err)
	assert.Empty(t, first.Rows)

	id, err := g.CreateOrUpdate(ctx, validRow("Loft"))
	require.NoError(t, err)

	second := receive(t, stream)
	require.NoError(t, second.Err)
	require.Len(t, second.Rows, 1)
	assert.Equal(t, id, second.Rows[0].ID)
	assert.Greater(t, second.Revision, first.Revision)

	cancel()
	select {
	case _, ok := <-stream:
		if ok {
			// One in-flight event may still drain before close.
			_, ok = <-stream
		}
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stream not closed after cancel")
	}
}

func TestLocalCreateOrUpdate(t *testing.T) {
	g := newLocal(t)
	ctx := context.Background()

	id, err := g.CreateOrUpdate(ctx, validRow("Loft"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = g.CreateOrUpdate(ctx, RowUpdate{ID: id, Fields: map[model.Field]string{model.FieldPrice: "250"}})
	require.NoError(t, err)
	p, err := g.Store().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 250.0, p.Price)
	assert.Equal(t, "Loft", p.Name)

	_, err = g.CreateOrUpdate(ctx, RowUpdate{Fields: map[model.Field]string{
		model.FieldPrice:    "abc",
		model.FieldCategory: "Huge",
	}})
	f := FailureOf(err)
	assert.Equal(t, FailureList, f.Kind)
	assert.Len(t, f.Messages, 2)

	_, err = g.CreateOrUpdate(ctx, RowUpdate{ID: "missing", Fields: map[model.Field]string{model.FieldName: "x"}})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLocalCreateRejectsNonFinitePrice(t *testing.T) {
	g := newLocal(t)
	ctx := context.Background()

	for _, price := range []string{"NaN", "Inf"} {
		row := validRow("Odd")
		row.Fields[model.FieldPrice] = price
		_, err := g.CreateOrUpdate(ctx, row)
		require.Error(t, err, price)
		assert.Equal(t, FailureList, FailureOf(err).Kind)
	}

	_, err := g.CreateOrUpdate(ctx, validRow("Loft"))
	require.NoError(t, err)
	all, err := g.Store().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Loft", all[0].Name)
}

func TestLocalSearchAndDelete(t *testing.T) {
	g := newLocal(t)
	ctx := context.Background()

	small, err := g.CreateOrUpdate(ctx, validRow("Studio"))
	require.NoError(t, err)
	big := validRow("Villa")
	big.Fields[model.FieldCategory] = "Large"
	big.Fields[model.FieldPrice] = "5000"
	_, err = g.CreateOrUpdate(ctx, big)
	require.NoError(t, err)

	got, err := g.Search(ctx, SearchRequest{Filters: []model.Category{model.CategoryLarge}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Villa", got[0].Name)

	got, err = g.Search(ctx, SearchRequest{PriceCeiling: store.AtMost(1000)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Studio", got[0].Name)

	got, err = g.Search(ctx, SearchRequest{PriceCeiling: store.AtMost(0)})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, g.DeleteByID(ctx, small))
	assert.ErrorIs(t, g.DeleteByID(ctx, small), store.ErrNotFound)
}

func TestLocalBatchUpdate(t *testing.T) {
	g := newLocal(t)
	ctx := context.Background()
	id, err := g.CreateOrUpdate(ctx, validRow("Loft"))
	require.NoError(t, err)

	rev := g.Store().Revision()
	require.NoError(t, g.BatchUpdate(ctx, []RowUpdate{{ID: id, Fields: map[model.Field]string{model.FieldName: "Penthouse"}}}))
	assert.Equal(t, rev+1, g.WaitForChange(ctx, rev))

	err = g.BatchUpdate(ctx, []RowUpdate{{ID: id, Fields: map[model.Field]string{model.FieldCategory: "XL"}}})
	assert.Equal(t, FailureList, FailureOf(err).Kind)
}
