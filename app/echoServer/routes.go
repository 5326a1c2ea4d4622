package echoServer

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/moin-0887/pustak/app/echoServer/controller/auth"
	"github.com/moin-0887/pustak/app/echoServer/controller/dashboard"
	"github.com/moin-0887/pustak/app/echoServer/controller/listing"
	"github.com/moin-0887/pustak/app/echoServer/controller/profile"
	"github.com/moin-0887/pustak/app/echoServer/controller/request"
	"github.com/moin-0887/pustak/app/echoServer/controller/rental"
)

type C struct {
	Auth      *auth.Controller
	Listing   *listing.Controller
	Request   *request.Controller
	Rental    *rental.Controller
	Dashboard *dashboard.Controller
	Profile   *profile.Controller

	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	authg := e.Group("/v1")
	authg.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
	}))
	authg.Use(extractUserID)

	// Listings
	authg.GET("/listings", c.Listing.Browse)
	authg.GET("/listings/my", c.Listing.My)
	authg.GET("/listings/:id", c.Listing.Detail)
	authg.POST("/listings", c.Listing.Create)
	authg.POST("/listings/cover", c.Listing.UploadCover)
	authg.PATCH("/listings/:id/availability", c.Listing.SetAvailability)
	authg.DELETE("/listings/:id", c.Listing.Delete)

	// Rental requests
	authg.POST("/requests", c.Request.Create)
	authg.GET("/requests/incoming", c.Request.Incoming)
	authg.GET("/requests/outgoing", c.Request.Outgoing)
	authg.POST("/requests/:id/approve", c.Request.Approve)
	authg.POST("/requests/:id/reject", c.Request.Reject)

	// Rentals
	authg.GET("/rentals/my", c.Rental.My)
	authg.POST("/rentals/:id/return", c.Rental.Return)

	// Dashboard & profile
	authg.GET("/dashboard", c.Dashboard.Summary)
	authg.GET("/profile", c.Profile.Get)
	authg.PUT("/profile", c.Profile.Update)
}

// extractUserID lifts the sub claim into "user_id" so handlers never touch the
// raw token.
func extractUserID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		tokenObj := ctx.Get("user")
		if tokenObj == nil {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}

		var claims jwt.MapClaims
		switch t := tokenObj.(type) {
		case *jwt.Token:
			mc, ok := t.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims = mc
		case jwt.MapClaims:
			claims = t
		default:
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
		}

		ctx.Set("user_id", int64(sub))
		return next(ctx)
	}
}
