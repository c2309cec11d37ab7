package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/wb-go/wbf/ginext"

	"artfoundation/cmd/middleware"
	"artfoundation/internal/dto"
)

const wsPath = "/v1/ws/payments"

type StatusFeed interface {
	ServeWS(c *ginext.Context)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Routers struct {
	Mode    string
	Handler *Handler
	Feed    StatusFeed
	Tokens  middleware.TokenParser
	DB      Pinger
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New(r.Mode)

	app.Use(middleware.Recovery())
	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	app.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{wsPath})))

	h := r.Handler
	requireArtist := middleware.Auth(r.Tokens)

	apiGroup := app.Group("/v1")

	apiGroup.POST("/registrations", h.Register)
	apiGroup.GET("/registrations", h.ListRegistrations)
	apiGroup.GET("/registrations/:id", h.GetRegistration)
	apiGroup.GET("/registrations/:id/payment", h.GetRegistrationWithPayment)
	apiGroup.GET("/registrations/:id/ticket.png", h.Ticket)
	apiGroup.PATCH("/registrations/:id/status", h.UpdateRegistrationStatus)

	apiGroup.POST("/payments", h.CreatePayment)
	apiGroup.GET("/payments", h.ListPayments)
	apiGroup.GET("/payments/:id", h.GetPayment)
	apiGroup.GET("/payments/by-registration/:id", h.GetPaymentByRegistration)
	apiGroup.PATCH("/payments/:id/status", h.SetPaymentStatus)
	apiGroup.POST("/payments/:id/confirm", h.ConfirmPayment)
	apiGroup.POST("/create-payment-intent", h.CreatePaymentIntent)

	artists := apiGroup.Group("/artists")
	artists.POST("/signup", h.Signup)
	artists.POST("/login", h.Login)
	artists.POST("/verify-email", h.VerifyEmail)
	artists.POST("/password-reset/request", h.RequestPasswordReset)
	artists.POST("/password-reset", h.ResetPassword)
	artists.GET("/me", requireArtist, h.Me)

	apiGroup.POST("/events", requireArtist, h.CreateEvent)
	apiGroup.GET("/events", h.ListEvents)
	apiGroup.GET("/events/:id", h.GetEvent)

	if r.Feed != nil {
		app.GET(wsPath, r.Feed.ServeWS)
	}

	app.GET("/healthz", func(c *ginext.Context) {
		if r.DB != nil {
			if err := r.DB.Ping(c.Request.Context()); err != nil {
				dto.InternalServerError(c)
				return
			}
		}
		dto.SuccessResponse(c, "ok", nil)
	})

	return app
}

// NewServer wraps the engine in an http.Server so it can be shut down
// gracefully.
func NewServer(addr string, app *ginext.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
