// Package server exposes the route planner and the assistant over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	reqctx "github.com/va6996/routebot/context"
	"github.com/va6996/routebot/geo"
	"github.com/va6996/routebot/log"
	"github.com/va6996/routebot/routing"
	"github.com/va6996/routebot/session"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// RoutePlanner plans a route for a user context
type RoutePlanner interface {
	PlanRoute(ctx context.Context, req routing.RouteRequest, uc routing.UserContext) string
}

// Asker answers a question on behalf of a user
type Asker interface {
	Ask(ctx context.Context, question string, userID int64) string
}

// RouteBody is the JSON body of POST /v1/route
type RouteBody struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination" validate:"required"`
	Waypoints   []string `json:"waypoints" validate:"max=25"`
	Mode        string   `json:"mode"`
	UserID      int64    `json:"user_id"`
}

// AskBody is the JSON body of POST /v1/ask
type AskBody struct {
	UserID   int64  `json:"user_id" validate:"required"`
	Question string `json:"question" validate:"required"`
}

// TextResponse carries the rendered answer
type TextResponse struct {
	Text string `json:"text"`
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, routing.ValidationMessage(err))
	}
	return nil
}

type Server struct {
	echo    *echo.Echo
	planner RoutePlanner
	asker   Asker
	store   session.Store
	now     func() time.Time
}

// New builds the HTTP API. store is used to look up a user's shared
// location for route requests and may be nil.
func New(planner RoutePlanner, asker Asker, store session.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	s := &Server{
		echo:    e,
		planner: planner,
		asker:   asker,
		store:   store,
		now:     time.Now,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(requestContext)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error != nil {
				log.Warnf(ctx, "%s %s -> %d (%s): %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Infof(ctx, "%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.GET("/ping", s.ping)
	v1 := e.Group("/v1")
	v1.POST("/route", s.route)
	v1.POST("/ask", s.ask)

	return s
}

// Handler returns the API as an http.Handler that also speaks cleartext HTTP/2
func (s *Server) Handler() http.Handler {
	return h2c.NewHandler(s.echo, &http2.Server{})
}

// requestContext tags each request with a fresh request id
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		ctx := reqctx.WithRequestID(req.Context(), reqctx.NewRequestID())
		c.SetRequest(req.WithContext(ctx))
		return next(c)
	}
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "pong"})
}

func (s *Server) route(c echo.Context) error {
	var body RouteBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	ctx := c.Request().Context()
	uc := routing.UserContext{}
	if body.UserID != 0 {
		ctx = reqctx.WithUserID(ctx, body.UserID)
		uc = s.userContext(ctx, body.UserID)
	}

	text := s.planner.PlanRoute(ctx, routing.RouteRequest{
		Origin:      body.Origin,
		Destination: body.Destination,
		Waypoints:   body.Waypoints,
		Mode:        body.Mode,
	}, uc)
	return c.JSON(http.StatusOK, TextResponse{Text: text})
}

func (s *Server) ask(c echo.Context) error {
	var body AskBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&body); err != nil {
		return err
	}

	ctx := reqctx.WithUserID(c.Request().Context(), body.UserID)
	return c.JSON(http.StatusOK, TextResponse{Text: s.asker.Ask(ctx, body.Question, body.UserID)})
}

// userContext returns the user's shared location if it is still fresh
func (s *Server) userContext(ctx context.Context, userID int64) routing.UserContext {
	if s.store == nil {
		return routing.UserContext{}
	}
	rec, err := s.store.Get(ctx, userID)
	if err != nil {
		log.Warnf(ctx, "Failed to load session for user %d: %v", userID, err)
		return routing.UserContext{}
	}
	if sample, ok := geo.FreshLocation(rec.CurrentLocation, s.now()); ok {
		return routing.UserContext{CurrentLocation: &sample}
	}
	return routing.UserContext{}
}
