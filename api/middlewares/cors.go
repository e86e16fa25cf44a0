package middlewares

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/http-file-store/types"
)

// CORS builds the CORS middleware from the cors config block. It returns nil
// when the origin setting disables CORS.
func CORS(cfg *types.CORSConfig) (gin.HandlerFunc, error) {
	if cfg == nil {
		return nil, nil
	}
	c := cors.Config{
		AllowCredentials: cfg.Credentials,
		AllowMethods:     cfg.Methods,
		AllowHeaders:     cfg.AllowedHeaders,
		ExposeHeaders:    cfg.ExposedHeaders,
		MaxAge:           time.Duration(cfg.MaxAge) * time.Second,
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{"GET", "PUT", "POST"}
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	}

	switch origin := cfg.Origin.(type) {
	case nil:
		c.AllowOriginFunc = func(string) bool { return true }
	case bool:
		if !origin {
			return nil, nil
		}
		// true reflects the request origin
		c.AllowOriginFunc = func(string) bool { return true }
	case string:
		if origin == "*" {
			c.AllowAllOrigins = true
		} else {
			c.AllowOrigins = []string{origin}
		}
	case []string:
		c.AllowOrigins = origin
	case []any:
		for _, o := range origin {
			s, ok := o.(string)
			if !ok {
				return nil, fmt.Errorf("cors origin list must hold strings, got %T", o)
			}
			c.AllowOrigins = append(c.AllowOrigins, s)
		}
	default:
		return nil, fmt.Errorf("unsupported cors origin %T", cfg.Origin)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cors config: %w", err)
	}
	return cors.New(c), nil
}
