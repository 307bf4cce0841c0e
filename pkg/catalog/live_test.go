package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingua/pkg/catalog"
)

func TestLive(t *testing.T) {
	t.Parallel()

	first, err := catalog.New(catalog.WithMessages("de", map[string]any{"Hello": "Hallo"}))
	require.NoError(t, err)
	second, err := catalog.New(catalog.WithMessages("de", map[string]any{"Hello": "Guten Tag"}))
	require.NoError(t, err)

	live, err := catalog.NewLive(first)
	require.NoError(t, err)
	assert.Equal(t, "Hallo", live.Lookup("Hello", "de"))

	t.Run("readers see old or new catalog during reload", func(t *testing.T) {
		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 1000 {
					got := live.Lookup("Hello", "de")
					assert.Contains(t, []string{"Hallo", "Guten Tag"}, got)
				}
			}()
		}
		require.NoError(t, live.Reload(context.Background(), func(context.Context) (*catalog.Catalog, error) {
			return second, nil
		}))
		wg.Wait()
		assert.Equal(t, "Guten Tag", live.Lookup("Hello", "de"))
	})

	t.Run("failed reload keeps current catalog", func(t *testing.T) {
		boom := errors.New("boom")
		err := live.Reload(context.Background(), func(context.Context) (*catalog.Catalog, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)
		assert.Same(t, second, live.Current())
	})

	_, err = catalog.NewLive(nil)
	require.ErrorIs(t, err, catalog.ErrNilCatalog)
	require.ErrorIs(t, live.Store(nil), catalog.ErrNilCatalog)
}
