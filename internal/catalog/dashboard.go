package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/medsupply/catadmin/internal/api"
)

// DashboardTTL is how long dashboard notifications stay visible
const DashboardTTL = 5 * time.Second

// Amounts are the collection sizes shown on the dashboard
type Amounts struct {
	Products   int `json:"products"`
	Brands     int `json:"brands"`
	Providers  int `json:"providers"`
	Categories int `json:"categories"`
	Registries int `json:"sanitary_registries"`
}

// FetchAmounts queries every amount endpoint concurrently. Any failure
// fails the whole result.
func FetchAmounts(ctx context.Context, client *api.Client) (Amounts, error) {
	var amounts Amounts

	targets := []struct {
		path string
		dst  *int
	}{
		{api.ProductPath, &amounts.Products},
		{api.BrandPath, &amounts.Brands},
		{api.ProviderPath, &amounts.Providers},
		{api.CategoryPath, &amounts.Categories},
		{api.SanitaryRegistryPath, &amounts.Registries},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		t := t
		g.Go(func() error {
			n, err := client.Amount(gctx, t.path)
			if err != nil {
				return err
			}
			*t.dst = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Amounts{}, err
	}
	return amounts, nil
}
