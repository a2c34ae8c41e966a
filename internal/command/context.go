package command

import (
	"context"
	"fmt"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/config"
	"github.com/medsupply/catadmin/internal/logger"
	"github.com/medsupply/catadmin/internal/notify"
	"github.com/medsupply/catadmin/internal/output"
)

// App is everything a command needs, built once by the root command
type App struct {
	Config   *config.Config
	Client   *api.Client
	Catalog  *catalog.Catalog
	Notifier *notify.Notifier
	Printer  *output.Printer
	Log      *logger.Logger
}

type appKey struct{}

// WithApp returns a new context with the application instance
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// GetApp retrieves the application instance from the context
func GetApp(ctx context.Context) *App {
	if app, ok := ctx.Value(appKey{}).(*App); ok {
		return app
	}
	return nil
}

// RequireApp retrieves the application instance and returns an error if not found
func RequireApp(ctx context.Context) (*App, error) {
	app := GetApp(ctx)
	if app == nil {
		return nil, fmt.Errorf("application context not initialized")
	}
	return app, nil
}
