package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/handler"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	basePath   string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithBasePath sets the mount point of every registered group (e.g. "/apcms")
func WithBasePath(path string) RouterOption {
	return func(r *Router) {
		r.basePath = path
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		basePath:   "/apcms",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.basePath)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup creates a route group for a specific domain
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{
		name:       name,
		prefix:     prefix,
		routes:     make([]routeDefinition, 0),
		subgroups:  make([]*DomainGroup, 0),
		middleware: make([]gin.HandlerFunc, 0),
	}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{
		method:   method,
		path:     path,
		handlers: handlers,
	})
	return dg
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)

	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}

	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// APCMSRoutes declares the cooperative-society endpoints behind auth.
func APCMSRoutes(h *handler.APCMSHandler, auth ...gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("apcms", "").Use(auth...)

	g.POST("/add_item_master", h.Upsert(apcms.ItemMaster))
	g.GET("/get_item_master", h.List(apcms.ItemMaster))
	g.POST("/add_society_master", h.Upsert(apcms.SocietyMaster))
	g.GET("/get_society_master", h.List(apcms.SocietyMaster))

	g.POST("/add_member_loan_deposit", h.UpsertBatch(apcms.MemberLoanDeposit))
	g.GET("/get_member_loan_deposit/:type", h.List(apcms.MemberLoanDeposit))
	g.POST("/add_sales_purchase", h.UpsertBatch(apcms.SalesPurchase))
	g.GET("/get_sales_purchase/:type", h.List(apcms.SalesPurchase))
	g.POST("/add_marketing", h.UpsertBatch(apcms.Marketing))
	g.GET("/get_marketing", h.List(apcms.Marketing))
	g.POST("/add_godown_utilization", h.UpsertBatch(apcms.GodownUtilization))
	g.GET("/get_godown_utilization", h.List(apcms.GodownUtilization))

	g.GET("/get_last_record/:entity", h.LastRecord)

	report := g.Group("reports", "/loan_report/:societyId/:itemId")
	report.GET("", h.LoanReport)
	report.GET("/export", h.ExportLoanReport)

	return g
}

// PublicRoutes registers the unauthenticated endpoints at the engine root.
func PublicRoutes(engine *gin.Engine, h *handler.HealthHandler, metrics http.Handler) {
	engine.GET("/", h.Banner)
	engine.GET("/health", h.Health)
	if metrics != nil {
		engine.GET("/metrics", gin.WrapH(metrics))
	}
}
