package routes

import (
	"fmt"
	"net/http"

	"heritage/auth"
	"heritage/stream"

	"github.com/julienschmidt/httprouter"
)

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/*filepath", http.Dir("static"))
}

// AddProductRoutes registers the public catalog. The visitor session is
// attached so saved filters and the wishlist flag apply.
func AddProductRoutes(router *httprouter.Router, d Deps) {
	h := d.Products
	router.GET("/api/products", d.Visitor(h.List))
	router.GET("/api/products/:id", d.Visitor(h.Get))
	router.GET("/api/search/preview", h.SearchPreview)
}

func AddSessionRoutes(router *httprouter.Router, d Deps) {
	h := d.Session
	router.GET("/api/session/state", d.Visitor(h.State))
	router.GET("/api/session/stream", d.Visitor(stream.WebSocketHandler(d.Hub)))

	router.POST("/api/cart", d.Visitor(h.AddToCart))
	router.PUT("/api/cart/:productId", d.Visitor(h.UpdateQuantity))
	router.DELETE("/api/cart/:productId", d.Visitor(h.RemoveFromCart))

	router.POST("/api/wishlist/:productId", d.Visitor(h.ToggleWishlist))

	router.PATCH("/api/filters", d.Visitor(h.PatchFilters))
	router.PUT("/api/search", d.Visitor(h.SetSearch))

	router.POST("/api/notification", d.Visitor(h.ShowNotification))
	router.DELETE("/api/notification", d.Visitor(h.HideNotification))

	router.PUT("/api/modal", d.Visitor(h.OpenModal))
	router.DELETE("/api/modal", d.Visitor(h.CloseModal))

	router.POST("/api/checkout", d.Limiter.Limit(d.Visitor(h.Checkout)))
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/auth/login", d.Limiter.Limit(d.Auth.LoginHandler(d.RequestTimeout)))
	router.POST("/api/auth/logout", d.Auth.LogoutHandler)
	router.GET("/api/auth/session", d.Protect(auth.SessionHandler))
}

func AddAdminRoutes(router *httprouter.Router, d Deps) {
	h := d.Admin
	router.GET("/api/admin/orders", d.Protect(h.ListOrders))
	router.PUT("/api/admin/orders/:id/status", d.Protect(h.UpdateOrderStatus))
	router.DELETE("/api/admin/orders/:id", d.Protect(h.DeleteOrder))
	router.GET("/api/admin/orders/:id/invoice", d.Protect(h.OrderInvoice))
	router.GET("/api/admin/export/orders", d.Protect(h.ExportOrders))

	router.GET("/api/admin/products", d.Protect(h.ListProducts))
	router.POST("/api/admin/products", d.Protect(h.CreateProduct))
	router.PUT("/api/admin/products/:id", d.Protect(h.UpdateProduct))
	router.PUT("/api/admin/products/:id/stock", d.Protect(h.UpdateStock))
	router.DELETE("/api/admin/products/:id", d.Protect(h.DeleteProduct))
	router.GET("/api/admin/export/products", d.Protect(h.ExportProducts))
}
