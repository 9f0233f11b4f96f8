package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	limiter "github.com/ulule/limiter/v3"

	"github.com/noah-isme/backend-food/internal/app"
	"github.com/noah-isme/backend-food/internal/appversion"
	"github.com/noah-isme/backend-food/internal/audit"
	"github.com/noah-isme/backend-food/internal/auth"
	"github.com/noah-isme/backend-food/internal/cart"
	"github.com/noah-isme/backend-food/internal/catalog"
	"github.com/noah-isme/backend-food/internal/checkout"
	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/config"
	"github.com/noah-isme/backend-food/internal/coupon"
	"github.com/noah-isme/backend-food/internal/geo"
	"github.com/noah-isme/backend-food/internal/health"
	"github.com/noah-isme/backend-food/internal/lock"
	"github.com/noah-isme/backend-food/internal/notify"
	"github.com/noah-isme/backend-food/internal/obs"
	"github.com/noah-isme/backend-food/internal/order"
	"github.com/noah-isme/backend-food/internal/payment"
	"github.com/noah-isme/backend-food/internal/pricing"
	"github.com/noah-isme/backend-food/internal/ratelimit"
	"github.com/noah-isme/backend-food/internal/rider"
	"github.com/noah-isme/backend-food/internal/security"
	"github.com/noah-isme/backend-food/internal/support"
	"github.com/noah-isme/backend-food/internal/user"
)

type handlers struct {
	AuthMW       auth.Middleware
	Auth         *auth.Handler
	Catalog      *catalog.Handler
	Cart         *cart.Handler
	Addresses    *user.Handler
	Checkout     *checkout.Handler
	Coupons      *coupon.Handler
	CouponAdmin  *coupon.AdminHandler
	RiderAdmin   *rider.AdminHandler
	Orders       *order.Handler
	OrderAdmin   *order.AdminHandler
	Rider        *rider.Handler
	Payments     *payment.Handler
	Push         *notify.Handler
	PushAdmin    *notify.AdminHandler
	AppVersion   *appversion.Handler
	Support      *support.Handler
	SupportAdmin *support.AdminHandler
	Audit        audit.Handler
	AuditLog     audit.Recorder
	Idem         common.Idem
}

// buildHandlers wires every service onto the shared clients.
func buildHandlers(d *app.Dependencies) (*handlers, error) {
	cfg := d.Config
	q := d.Queries
	restaurant := geo.Point{Lat: cfg.Restaurant.Lat, Lng: cfg.Restaurant.Lng}
	delivery := pricing.DeliveryPolicy{
		FreeRadiusKm: cfg.Pricing.FreeDeliveryRadiusKm,
		PerKm:        cfg.Pricing.DeliveryPerKm,
		MaxRadiusKm:  cfg.Pricing.MaxDeliveryRadiusKm,
	}

	var sms auth.SMSSender = auth.LogSMS{}
	if cfg.Fast2SMSAPIKey != "" {
		sms = auth.NewFast2SMS(cfg.Fast2SMSAPIKey, "", "", "")
	}
	authSvc, err := auth.NewService(auth.Config{
		Queries:         q,
		Secret:          cfg.JWTSecret,
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
		OTPTTL:          cfg.OTPTTL,
		SMS:             sms,
		Limiter:         ratelimit.Limiter{Client: d.Redis, Prefix: "food:otp:"},
		OTPSendLimit:    int(cfg.OTPSendLimit),
		OTPSendWindow:   cfg.OTPSendWindow,
	})
	if err != nil {
		return nil, err
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Queries: q,
		Pool:    d.DB,
		Cache:   catalog.NewMenuCache(d.Redis, cfg.CatalogCacheTTL),
	})
	if err != nil {
		return nil, err
	}

	var geocoder geo.Geocoder
	if cfg.GoogleMapsAPIKey != "" {
		geocoder = geo.NewGoogleGeocoder(cfg.GoogleMapsAPIKey)
	}
	cartSvc := &cart.Service{Q: q, PlatformFee: cfg.Pricing.PlatformFee}
	userSvc := &user.Service{Pool: d.DB, Q: q, Geocoder: geocoder, Restaurant: restaurant, Delivery: delivery}
	couponSvc := &coupon.Service{Q: q, Cart: cartSvc}

	checkoutSvc := &checkout.Service{
		Cart:       cartSvc,
		Addresses:  userSvc,
		Coupons:    couponSvc,
		Tx:         checkout.PoolTx{Pool: d.DB},
		Lock:       lock.Mutex{Client: d.Redis, Wait: 5 * time.Second},
		Events:     d.Bus,
		Composer:   pricing.Composer{PlatformFee: cfg.Pricing.PlatformFee, Delivery: delivery},
		Restaurant: restaurant,
	}

	orderSvc := order.NewService(order.ServiceConfig{
		Queries:    q,
		Pool:       d.DB,
		Events:     d.Bus,
		Stats:      order.NewStatsCache(d.Redis, cfg.DashboardCacheTTL),
		Restaurant: restaurant,
	})

	var gateway payment.Gateway
	if cfg.RazorpayKeyID != "" && cfg.RazorpayKeySecret != "" {
		gateway = payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}
	paymentSvc := &payment.Service{
		Gateway:  gateway,
		Checkout: checkoutSvc,
		Guard:    &payment.ReplayGuard{Client: d.Redis, TTL: cfg.PaymentReplayTTL},
		KeyID:    cfg.RazorpayKeyID,
	}

	broadcaster := &notify.Broadcaster{Queue: d.Tasks}
	auditSvc := &audit.Service{Store: q, Enabled: true}
	supportSvc := &support.Service{Queries: q, Pool: d.DB, Events: d.Bus}

	return &handlers{
		AuthMW:       auth.Middleware{Service: authSvc},
		Auth:         &auth.Handler{Service: authSvc},
		Catalog:      catalog.NewHandler(catalog.HandlerConfig{Service: catalogSvc}),
		Cart:         &cart.Handler{Svc: cartSvc},
		Addresses:    &user.Handler{Svc: userSvc},
		Checkout:     &checkout.Handler{Svc: checkoutSvc},
		Coupons:      &coupon.Handler{Svc: couponSvc},
		CouponAdmin:  &coupon.AdminHandler{Q: q},
		Orders:       &order.Handler{Service: orderSvc},
		OrderAdmin:   &order.AdminHandler{Service: orderSvc},
		Rider:        &rider.Handler{Service: &rider.Service{Queries: q, Events: d.Bus}},
		RiderAdmin:   &rider.AdminHandler{Q: q},
		Payments:     &payment.Handler{Svc: paymentSvc},
		Push:         &notify.Handler{Tokens: &notify.TokenService{Tokens: q}},
		PushAdmin:    &notify.AdminHandler{Broadcaster: broadcaster},
		AppVersion:   &appversion.Handler{Svc: &appversion.Service{Queries: q, Announcer: broadcaster}},
		Support:      &support.Handler{Svc: supportSvc},
		SupportAdmin: &support.AdminHandler{Svc: supportSvc},
		Audit:        audit.Handler{Store: q},
		AuditLog:     audit.Recorder{Service: auditSvc},
		Idem:         common.Idem{R: d.Redis, TTL: cfg.IdempotencyTTL},
	}, nil
}

type routerConfig struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Handlers *handlers
	Metrics  *obs.HTTPMetrics
	Tracing  bool
	Limiter  limiter.Store
	Health   health.Handler
}

func newRouter(rc routerConfig) chi.Router {
	h := rc.Handlers
	cfg := rc.Config

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if rc.Tracing {
		r.Use(obs.TracingMiddleware)
	}
	if rc.Metrics != nil {
		r.Use(obs.HTTPObs{Metrics: rc.Metrics}.Middleware)
		r.Handle("/metrics", promhttp.Handler())
	}
	r.Use(obs.RequestLogger{Logger: rc.Logger}.Middleware)
	r.Use(security.Headers{HSTS: cfg.EnableHSTS}.Middleware)
	r.Use(security.CORS(cfg.CORSAllowedOrigins))

	r.Get("/health/live", rc.Health.Live)
	r.Get("/health/ready", rc.Health.Ready)

	authMW := h.AuthMW
	r.Route("/api/v1", func(v chi.Router) {
		v.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
		v.Use(authMW.Authenticate)
		v.Use(ratelimit.PerClient(rc.Limiter, cfg.RateLimitPerMinute))

		v.Get("/home", h.Catalog.Home)
		v.Get("/combos", h.Catalog.Combos)
		v.Get("/items/{id}", h.Catalog.Item)
		v.Get("/app/version", h.AppVersion.Check)

		v.Route("/auth", func(a chi.Router) {
			a.Post("/otp/send", h.Auth.SendCustomerOTP)
			a.Post("/otp/verify", h.Auth.VerifyCustomerOTP)
			a.Post("/refresh", h.Auth.Refresh)
			a.Post("/logout", h.Auth.Logout)
			a.With(authMW.RequireAuth).Get("/me", h.Auth.Me)
			a.With(authMW.RequireAuth).Patch("/me", h.Auth.UpdateProfile)
		})

		v.Group(func(c chi.Router) {
			c.Use(authMW.RequireRole(common.RoleCustomer))

			c.Get("/cart", h.Cart.Get)
			c.Post("/cart/items", h.Cart.AddItem)
			c.Patch("/cart/items/{id}", h.Cart.UpdateItem)
			c.Delete("/cart/items/{id}", h.Cart.RemoveItem)

			c.Get("/addresses", h.Addresses.ListAddresses)
			c.Post("/addresses", h.Addresses.CreateAddress)
			c.Delete("/addresses/{id}", h.Addresses.DeleteAddress)

			c.Get("/coupons/available", h.Coupons.Available)
			c.Post("/coupons/validate", h.Coupons.Validate)
			c.Post("/coupons/apply", h.Coupons.Apply)

			c.With(h.Idem.Middleware).Post("/checkout", h.Checkout.Checkout)
			c.Post("/payments/razorpay/order", h.Payments.CreateOrder)
			c.With(h.Idem.Middleware).Post("/payments/razorpay/verify", h.Payments.Verify)

			c.Get("/orders", h.Orders.List)
			c.Get("/orders/active", h.Orders.Active)
			c.Get("/orders/{id}", h.Orders.Get)
			c.Post("/orders/{id}/cancel", h.Orders.Cancel)
			c.Get("/orders/{id}/review", h.Orders.GetReview)
			c.Post("/orders/{id}/review", h.Orders.SubmitReview)

			c.Post("/support/tickets", h.Support.Create)
			c.Get("/support/tickets", h.Support.List)
			c.Get("/support/tickets/{id}/messages", h.Support.Messages)
			c.Post("/support/tickets/{id}/messages", h.Support.Post)
		})

		v.Group(func(p chi.Router) {
			p.Use(authMW.RequireRole(common.RoleCustomer, common.RoleRider))
			p.Post("/push/register", h.Push.Register)
			p.Post("/push/unregister", h.Push.Unregister)
		})

		v.Route("/rider", func(rd chi.Router) {
			rd.Post("/auth/otp/send", h.Auth.SendRiderOTP)
			rd.Post("/auth/otp/verify", h.Auth.VerifyRiderOTP)
			rd.Group(func(g chi.Router) {
				g.Use(authMW.RequireRole(common.RoleRider))
				g.Use(h.AuditLog.Middleware("rider.order"))
				g.Get("/orders", h.Rider.Assigned)
				g.Get("/orders/ready", h.Rider.Ready)
				g.Post("/orders/{id}/accept", h.Rider.Accept)
				g.Post("/orders/{id}/deliver", h.Rider.Deliver)
				g.Post("/orders/{id}/status", h.Rider.UpdateStatus)
				g.Post("/location", h.Rider.UpdateLocation)
			})
		})

		v.Route("/admin", func(ad chi.Router) {
			ad.Post("/auth/login", h.Auth.AdminLogin)
			ad.Group(func(g chi.Router) {
				g.Use(authMW.RequireRole(common.RoleAdmin))

				g.With(h.AuditLog.Middleware("admin.password")).Post("/auth/password", h.Auth.ChangePassword)
				g.Get("/dashboard", h.OrderAdmin.Stats)
				g.Get("/orders", h.OrderAdmin.List)
				g.Get("/orders/{id}", h.OrderAdmin.Get)
				g.With(h.AuditLog.Middleware("order")).Patch("/orders/{id}/status", h.OrderAdmin.PatchStatus)

				g.Group(func(cat chi.Router) {
					cat.Use(h.AuditLog.Middleware("catalog"))
					cat.Get("/items", h.Catalog.AdminItems)
					cat.Post("/items", h.Catalog.CreateItem)
					cat.Put("/items/{id}", h.Catalog.UpdateItem)
					cat.Patch("/items/{id}/availability", h.Catalog.SetAvailability)
					cat.Put("/items/{id}/components", h.Catalog.SetComboComponents)
					cat.Get("/categories", h.Catalog.AdminCategories)
					cat.Post("/categories", h.Catalog.CreateCategory)
					cat.Put("/categories/{id}", h.Catalog.UpdateCategory)
				})

				g.Group(func(cp chi.Router) {
					cp.Use(h.AuditLog.Middleware("coupon"))
					cp.Get("/coupons", h.CouponAdmin.List)
					cp.Post("/coupons", h.CouponAdmin.Create)
					cp.Get("/coupons/{id}", h.CouponAdmin.Get)
					cp.Put("/coupons/{id}", h.CouponAdmin.Update)
					cp.Delete("/coupons/{id}", h.CouponAdmin.Delete)
					cp.Get("/coupon-usages", h.CouponAdmin.Usages)
				})

				g.Group(func(rd chi.Router) {
					rd.Use(h.AuditLog.Middleware("rider"))
					rd.Get("/riders", h.RiderAdmin.List)
					rd.Post("/riders", h.RiderAdmin.Create)
					rd.Patch("/riders/{id}", h.RiderAdmin.SetActive)
				})

				g.Group(func(sp chi.Router) {
					sp.Use(h.AuditLog.Middleware("support_ticket"))
					sp.Get("/support/tickets", h.SupportAdmin.List)
					sp.Get("/support/tickets/{id}", h.SupportAdmin.Get)
					sp.Post("/support/tickets/{id}/messages", h.SupportAdmin.Reply)
					sp.Patch("/support/tickets/{id}/status", h.SupportAdmin.SetStatus)
				})

				g.With(h.AuditLog.Middleware("push")).Post("/push/broadcast", h.PushAdmin.Broadcast)
				g.With(h.AuditLog.Middleware("app_version")).Post("/app/versions", h.AppVersion.Publish)
				g.Get("/audit-logs", h.Audit.List)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		common.JSONError(w, http.StatusNotFound, common.CodeNotFound, "route not found", nil)
	})
	return r
}
