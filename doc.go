// Package beacon provides an opinionated web framework built around a
// controller dispatch pipeline: routes map to destination strings
// ("bundle.controller@method"), controllers group actions behind
// named filters, and every action result is normalized into a
// Response.
//
// # Quick Start
//
// Create an application with beacon.New(), declare routes as
// destinations, and call Run() to start the HTTP server:
//
//	shop := beacon.NewBundle("shop").
//	    Controller("products", func() beacon.Controller { return NewProducts(repo) })
//
//	app := beacon.New(
//	    beacon.WithBundles(shop),
//	    beacon.WithSession(sessions),
//	)
//	app.GET("/products", "shop.products@index")
//	app.GET("/products/{id}", "shop.products@show")
//
// A destination method may reference positional parameters: the
// destination "pages@(:1)" on GET /pages/{page} dispatches to the
// action named by the URL, falling back to "index" when absent.
//
//	if err := app.Run(":8080", beacon.Logger(log)); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Controllers
//
// Controllers embed [Base] and register actions under prefixed keys.
// RESTful controllers select actions by HTTP verb instead:
//
//	type Products struct {
//	    beacon.Base
//	    repo *repository.Queries
//	}
//
//	func NewProducts(repo *repository.Queries) *Products {
//	    p := &Products{repo: repo}
//	    p.Layout = "main"
//	    p.Handle("action_index", p.index)
//	    p.Handle("action_show", p.show)
//	    p.Filter(beacon.FilterBefore, "auth").Except("index")
//	    return p
//	}
//
//	func (p *Products) index(c beacon.Context, params ...string) any {
//	    return views.ProductList(p.repo.All())
//	}
//
// Soft failures never panic: an unknown destination, controller, or
// action renders the standardized 404 page.
//
// # Sessions
//
// Sessions are explicit and per-request. StartSession provisions the
// payload from the client token; it is saved automatically before the
// first response byte:
//
//	if err := c.StartSession(); err != nil { ... }
//	sess, _ := c.Session()
//	sess.Flash("notice", "saved")
//
// # Shutdown
//
// The application handles SIGINT/SIGTERM for graceful shutdown.
// Register cleanup functions with ShutdownHook:
//
//	app.Run(":8080",
//	    beacon.ShutdownHook(db.Shutdown(pool)),
//	)
package beacon
