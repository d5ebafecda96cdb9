//go:build integration

package repo

import (
	"context"
	"os"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/procat-browse/internal/app/catalog/contracts"
	"github.com/light-bringer/procat-browse/internal/models/m_brand"
	"github.com/light-bringer/procat-browse/internal/models/m_category"
	"github.com/light-bringer/procat-browse/internal/models/m_product"
	"github.com/light-bringer/procat-browse/internal/pkg/committer"
)

// testSpannerDB returns the emulator database the integration tests run against.
func testSpannerDB() string {
	if db := os.Getenv("SPANNER_DATABASE"); db != "" {
		return db
	}
	return "projects/test-project/instances/test-instance/databases/catalog-test"
}

func cleanSpanner(t *testing.T, client *spanner.Client) {
	t.Helper()

	_, err := client.Apply(context.Background(), []*spanner.Mutation{
		m_product.NewModel().DeleteAllMut(),
		m_brand.NewModel().DeleteAllMut(),
		m_category.NewModel().DeleteAllMut(),
	})
	require.NoError(t, err, "failed to clean database")
}

func newSpannerStore(t *testing.T) (contracts.ReadModel, contracts.CatalogWriter) {
	t.Helper()

	if os.Getenv("SPANNER_EMULATOR_HOST") == "" {
		t.Skip("SPANNER_EMULATOR_HOST not set")
	}

	client, err := spanner.NewClient(context.Background(), testSpannerDB())
	require.NoError(t, err, "failed to create Spanner client")

	cleanSpanner(t, client)
	t.Cleanup(func() {
		cleanSpanner(t, client)
		client.Close()
	})

	return NewSpannerReadModel(client), NewSpannerWriter(committer.NewCommitter(client))
}

func TestSpannerReadModel(t *testing.T) {
	runReadModelSuite(t, newSpannerStore)
}
