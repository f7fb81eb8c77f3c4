package routes

import (
	"time"

	"heritage/admin"
	"heritage/auth"
	"heritage/cart"
	"heritage/products"
	"heritage/ratelim"
	"heritage/stream"

	"github.com/julienschmidt/httprouter"
)

// Deps is everything the route groups need.
type Deps struct {
	Products *products.Handler
	Session  *cart.Handler
	Admin    *admin.Handler
	Auth     *auth.Manager
	Hub      *stream.Hub
	Limiter  *ratelim.RateLimiter

	// Visitor attaches the visitor session; Protect requires an admin login.
	Visitor func(httprouter.Handle) httprouter.Handle
	Protect func(httprouter.Handle) httprouter.Handle

	RequestTimeout time.Duration
}

func RoutesWrapper(router *httprouter.Router, d Deps) {
	router.GET("/health", Index)
	AddStaticRoutes(router)
	AddProductRoutes(router, d)
	AddSessionRoutes(router, d)
	AddAuthRoutes(router, d)
	AddAdminRoutes(router, d)
}
