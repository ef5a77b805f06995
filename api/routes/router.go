package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yejielnehmad/community-sales-manager-sub000/api/controllers"
	"github.com/yejielnehmad/community-sales-manager-sub000/api/middleware"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/analysis"
	clientsvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/clients"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/drafts"
	ordersvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/orders"
	productsvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/products"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/config"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      redis.Pinger
	Registry   *prometheus.Registry
	Clients    *clientsvc.Service
	Products   *productsvc.Service
	Orders     *ordersvc.Service
	Analysis   *analysis.Service
	DraftStore *drafts.Store
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(d.Config.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ListClients(d.Clients, d.Logger))
			r.Post("/", controllers.CreateClient(d.Clients, d.Logger))
			r.Get("/{clientId}", controllers.GetClient(d.Clients, d.Logger))
			r.Patch("/{clientId}", controllers.UpdateClient(d.Clients, d.Logger))
			r.Delete("/{clientId}", controllers.DeleteClient(d.Clients, d.Logger))
			r.Get("/{clientId}/orders", controllers.ListClientOrders(d.Orders, d.Logger))
			r.Get("/{clientId}/summary", controllers.ClientOrderSummary(d.Orders, d.Logger))
			r.Post("/{clientId}/groups/paid", controllers.SetClientGroupPaid(d.Orders, d.Logger))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(d.Products, d.Logger))
			r.Post("/", controllers.CreateProduct(d.Products, d.Logger))
			r.Get("/{productId}", controllers.GetProduct(d.Products, d.Logger))
			r.Patch("/{productId}", controllers.UpdateProduct(d.Products, d.Logger))
			r.Delete("/{productId}", controllers.DeleteProduct(d.Products, d.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(d.Orders, d.Logger))
			r.Post("/", controllers.CreateOrder(d.Orders, d.Logger))
			r.Get("/{orderId}", controllers.GetOrder(d.Orders, d.Logger))
			r.Delete("/{orderId}", controllers.DeleteOrder(d.Orders, d.Logger))
			r.Patch("/items/{itemId}/quantity", controllers.UpdateOrderItemQuantity(d.Orders, d.Logger))
			r.Patch("/items/{itemId}/paid", controllers.SetOrderItemPaid(d.Orders, d.Logger))
			r.Delete("/items/{itemId}", controllers.DeleteOrderItem(d.Orders, d.Logger))
		})

		r.Route("/magic", func(r chi.Router) {
			reconciler := &controllers.DraftReconciler{
				Store:    d.DraftStore,
				Clients:  d.Clients,
				Products: d.Products,
			}

			r.Post("/analyze", controllers.AnalyzeMessage(d.Analysis, d.DraftStore, d.Logger))
			r.Post("/analyze/{sessionId}/cancel", controllers.CancelAnalysis(d.Analysis, d.Logger))

			r.Route("/drafts/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.GetDrafts(d.DraftStore, d.Logger))
				r.Delete("/", controllers.ClearDrafts(d.DraftStore, d.Logger))
				r.Route("/orders/{draftId}", func(r chi.Router) {
					r.Post("/client", controllers.SetDraftClient(reconciler, d.Logger))
					r.Post("/confirm", controllers.ConfirmDraft(reconciler, d.Orders, d.Logger))
					r.Post("/items/{itemIndex}/product", controllers.SetDraftItemProduct(reconciler, d.Logger))
					r.Post("/items/{itemIndex}/variant", controllers.SetDraftItemVariant(reconciler, d.Logger))
					r.Post("/items/{itemIndex}/quantity", controllers.SetDraftItemQuantity(reconciler, d.Logger))
				})
			})

			r.Route("/template", func(r chi.Router) {
				r.Get("/", controllers.GetAnalysisTemplate(d.Analysis, d.Logger))
				r.Put("/", controllers.SetAnalysisTemplate(d.Analysis, d.Logger))
				r.Delete("/", controllers.ResetAnalysisTemplate(d.Analysis, d.Logger))
			})
		})
	})

	return r
}
