package posapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Marcial-ar/tpv/internal/catalog"
	"github.com/Marcial-ar/tpv/internal/orders"
	"github.com/Marcial-ar/tpv/internal/tables"
	"github.com/Marcial-ar/tpv/internal/telemetry"
)

type Routes struct {
	Sessions *Handler
	Products *catalog.Handler
	Tables   *tables.Handler
	Orders   *orders.Handler
	Metrics  http.Handler
}

func NewRouter(rt Routes) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(telemetry.RouteAttribute)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if rt.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.Metrics)
	}

	r.Get("/products", rt.Products.HandleListProducts)
	r.Get("/products/{id}", rt.Products.HandleGetProduct)
	r.Get("/categories", rt.Products.HandleListCategories)
	r.Get("/tables", rt.Tables.HandleList)
	r.Get("/orders", rt.Orders.HandleList)
	r.Get("/orders/{id}", rt.Orders.HandleGet)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", rt.Sessions.HandleListSessions)
		r.Post("/", rt.Sessions.HandleStartSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", rt.Sessions.HandleGetSession)
			r.Delete("/", rt.Sessions.HandleEndSession)
			r.Put("/zone", rt.Sessions.HandleSetZone)
			r.Put("/table", rt.Sessions.HandleSelectTable)
			r.Post("/lines", rt.Sessions.HandleAddLine)
			r.Put("/lines/{productId}", rt.Sessions.HandleUpdateLine)
			r.Delete("/lines/{productId}", rt.Sessions.HandleRemoveLine)
			r.Post("/cancel", rt.Sessions.HandleCancel)
			r.Post("/finalize", rt.Sessions.HandleFinalize)
		})
	})

	return r
}
