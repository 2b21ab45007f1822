// Package bootstrap runs a service through a uniform lifecycle: start the
// registered components, run the configure callbacks, check readiness,
// serve until a signal arrives, then shut down in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(database.NewComponent(cfg.Database, app.Logger))
//	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*Config]) error {
//	    // wire stores and strategies once the database is up
//	    return nil
//	})
//	return app.Run(ctx)
package bootstrap
