package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/urfave/cli/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MikeMC777/tienda-ecom/docs"
	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/config"
	"github.com/MikeMC777/tienda-ecom/internal/httpx"
	ord "github.com/MikeMC777/tienda-ecom/internal/order"
	"github.com/MikeMC777/tienda-ecom/internal/product"
	"github.com/MikeMC777/tienda-ecom/internal/review"
	"github.com/MikeMC777/tienda-ecom/internal/storage"
)

const healthService = "tienda.order"

func main() {
	app := &cli.App{
		Name:   "order-service",
		Usage:  "cart, checkout, orders and reviews API",
		Action: serve,
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API and the gRPC health endpoint", Action: serve},
			{Name: "migrate", Usage: "apply database migrations", Action: migrate},
			{
				Name:  "token",
				Usage: "issue a signed bearer token for local testing",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Required: true, Usage: "user id"},
					&cli.StringFlag{Name: "role", Value: httpx.RoleCustomer, Usage: "customer or admin"},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
				},
				Action: token,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrate(*cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	return storage.Migrate(cfg.PostgresDSN)
}

func token(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	tok, err := httpx.NewAuth(cfg.JWTSecret).Issue(c.String("user"), c.String("role"), c.Duration("ttl"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, tok)
	return err
}

type deps struct {
	auth     *httpx.Auth
	enforcer *casbin.Enforcer
	carts    *cart.Service
	checkout *ord.Checkout
	orders   *ord.Service
	reviews  *review.Service
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), d.auth.Identify(), httpx.Session())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.InstanceName(docs.OrderInstance)))

	// anonymous sessions
	r.GET("/cart", cartViewHandler(d.carts))
	r.POST("/cart/items", addCartItemHandler(d.carts))
	r.PUT("/cart/items", updateCartItemsHandler(d.carts))
	r.PUT("/cart/items/:id", setCartItemHandler(d.carts))
	r.DELETE("/cart/items/:id", removeCartItemHandler(d.carts))
	r.GET("/products/:id/comments", listCommentsHandler(d.reviews))

	auth := r.Group("/", httpx.Authorize(d.enforcer))
	auth.POST("/buy-now/:product_id", buyNowHandler(d.carts))
	auth.DELETE("/buy-now", cancelBuyNowHandler(d.carts))
	auth.POST("/checkout", checkoutHandler(d.checkout))
	auth.GET("/orders", listOrdersHandler(d.orders))
	auth.GET("/orders/:id", getOrderHandler(d.orders))
	auth.POST("/orders/:id/:action", customerActionHandler(d.orders))
	auth.POST("/products/:id/comments", addCommentHandler(d.reviews))
	auth.DELETE("/comments/:id", deleteCommentHandler(d.reviews))

	admin := auth.Group("/admin")
	admin.POST("/orders/actions", bulkActionHandler(d.orders))
	admin.POST("/orders/:id/:action", adminActionHandler(d.orders))
	return r
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	enforcer, err := httpx.NewEnforcer()
	if err != nil {
		return err
	}

	catalog := product.NewClient(cfg.ProductSvcBaseURL, cfg.HTTPClientTimeout)
	cartRepo := cart.NewPGRepo(db)
	buyNow := cart.NewPGBuyNowStore(db)
	orderRepo := ord.NewPGRepo(db)

	router := newRouter(deps{
		auth:     httpx.NewAuth(cfg.JWTSecret),
		enforcer: enforcer,
		carts:    cart.NewService(cartRepo, buyNow, catalog),
		checkout: ord.NewCheckout(cartRepo, buyNow, catalog, orderRepo),
		orders:   ord.NewService(orderRepo),
		reviews:  review.NewService(review.NewPGRepo(db), catalog),
	})

	// gRPC health for the orchestrator
	lis, err := net.Listen("tcp", cfg.OrderGRPCAddr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", cfg.OrderGRPCAddr)
	}
	gs := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus(healthService, healthpb.HealthCheckResponse_SERVING)
	go func() {
		log.WithField("addr", cfg.OrderGRPCAddr).Info("order-service gRPC health listening")
		if err := gs.Serve(lis); err != nil {
			log.WithError(err).Error("grpc serve")
		}
	}()

	srv := &http.Server{
		Addr:              cfg.OrderSvcAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		hs.Shutdown()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		gs.GracefulStop()
	}()

	log.WithField("addr", cfg.OrderSvcAddr).Info("order-service listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
