// Package server contains the HTTP server, routes and handlers for the CodeVault API.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codevault/cache"
	"codevault/config"
	"codevault/database"
	"codevault/middleware"
	"codevault/models"
	"codevault/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "codevault-api"
	tokenAudience = "codevault-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config           *config.Config
	db               *gorm.DB
	redis            *redis.Client
	userRepo         repository.UserRepository
	categoryRepo     repository.CategoryRepository
	assetRepo        repository.AssetRepository
	communityRepo    repository.CommunityRepository
	contestRepo      repository.ContestRepository
	reviewRepo       repository.ReviewRepository
	subscriptionRepo repository.SubscriptionRepository
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return newServerWithDB(cfg, db, cache.GetClient()), nil
}

// newServerWithDB wires repositories onto an existing connection. Tests use
// this directly with an in-memory database.
func newServerWithDB(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *Server {
	return &Server{
		config:           cfg,
		db:               db,
		redis:            rdb,
		userRepo:         repository.NewUserRepository(db),
		categoryRepo:     repository.NewCategoryRepository(db),
		assetRepo:        repository.NewAssetRepository(db),
		communityRepo:    repository.NewCommunityRepository(db),
		contestRepo:      repository.NewContestRepository(db),
		reviewRepo:       repository.NewReviewRepository(db),
		subscriptionRepo: repository.NewSubscriptionRepository(db),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/", s.HealthCheck)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/forgot-password", middleware.RateLimit(s.redis, 3, 15*time.Minute, "forgot_password"), s.ForgotPassword)
	auth.Post("/reset-password/:token", s.ResetPassword)
	auth.Get("/profile", s.AuthRequired(), s.GetProfile)
	auth.Put("/profile", s.AuthRequired(), s.UpdateProfile)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Asset routes. Listing is protected: the status filter depends on the
	// caller's role. Single fetch stays public.
	assets := api.Group("/assets")
	assets.Get("/", s.AuthRequired(), s.GetAllAssets)
	assets.Get("/user/favorites", s.AuthRequired(), s.GetFavorites)
	assets.Post("/:id/like", s.AuthRequired(), s.LikeAsset)
	assets.Get("/:id", s.GetAsset)
	assets.Post("/", s.AuthRequired(), s.CreateAsset)
	assets.Put("/:id", s.AuthRequired(), s.UpdateAsset)
	assets.Delete("/:id", s.AuthRequired(), s.DeleteAsset)

	// Category routes
	categories := api.Group("/categories")
	categories.Get("/", s.GetAllCategories)
	categories.Post("/", s.AuthRequired(), s.CreateCategory)

	// Community routes
	community := api.Group("/community")
	community.Get("/", s.GetAllPosts)
	community.Get("/:id/comments", s.GetComments)
	community.Post("/:id/comments", s.AuthRequired(), s.AddComment)
	community.Delete("/:id/comments/:commentId", s.AuthRequired(), s.DeleteComment)
	community.Post("/:id/like", s.AuthRequired(), s.LikePost)
	community.Get("/:id", s.GetPost)
	community.Post("/", s.AuthRequired(), s.CreatePost)
	community.Put("/:id", s.AuthRequired(), s.UpdatePost)
	community.Delete("/:id", s.AuthRequired(), s.DeletePost)

	// Contest routes
	contests := api.Group("/contests")
	contests.Get("/", s.GetAllContests)
	contests.Get("/:id/entries", s.GetContestEntries)
	contests.Post("/:id/entries", s.AuthRequired(), s.SubmitEntry)
	contests.Post("/:id/entries/:entryId/vote", s.AuthRequired(), s.VoteEntry)
	contests.Delete("/:id/entries/:entryId", s.AuthRequired(), s.DeleteEntry)
	contests.Get("/:id", s.GetContest)
	contests.Post("/", s.AuthRequired(), s.CreateContest)
	contests.Put("/:id", s.AuthRequired(), s.UpdateContest)
	contests.Delete("/:id", s.AuthRequired(), s.DeleteContest)

	// Review routes
	reviews := api.Group("/reviews")
	reviews.Get("/", s.AuthRequired(), s.GetMyReviews)
	reviews.Get("/asset/:assetId", s.GetAssetReviews)
	reviews.Post("/asset/:assetId", s.AuthRequired(), s.AddReview)
	reviews.Put("/:id", s.AuthRequired(), s.UpdateReview)
	reviews.Delete("/:id", s.AuthRequired(), s.DeleteReview)

	// Subscription routes. Plan management is gated behind elevated roles
	// only when PLAN_ADMIN_ONLY is set; the reference deployment left it
	// open to any authenticated user.
	subscriptions := api.Group("/subscriptions")
	subscriptions.Get("/plans", s.GetAllPlans)

	planGuard := []fiber.Handler{s.AuthRequired()}
	if s.config.PlanAdminOnly {
		planGuard = append(planGuard, s.RequireRoles(models.RoleManager, models.RoleSuperAdmin))
	}
	subscriptions.Post("/plans", append(planGuard, s.CreatePlan)...)
	subscriptions.Put("/plans/:id", append(planGuard, s.UpdatePlan)...)
	subscriptions.Delete("/plans/:id", append(planGuard, s.DeletePlan)...)

	subscriptions.Post("/subscribe", s.AuthRequired(), s.Subscribe)
	subscriptions.Get("/my-subscription", s.AuthRequired(), s.GetMySubscription)
	subscriptions.Post("/cancel", s.AuthRequired(), s.CancelSubscription)
	subscriptions.Post("/renew", s.AuthRequired(), s.RenewSubscription)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": "CodeVault API",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It verifies the bearer
// token, resolves the user and rejects deactivated accounts.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Not authorized, no token"))
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		user, err := s.userRepo.GetByID(c.Context(), uint(userID))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("User not found"))
		}
		if !user.IsActive {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Account deactivated"))
		}

		c.Locals("user", user)
		c.Locals("userID", user.ID)

		return c.Next()
	}
}

// RequireRoles gates a route to an allow-list of roles. Must run after
// AuthRequired.
func (s *Server) RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := currentUser(c)
		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError(fmt.Sprintf("Role '%s' not authorized", user.Role)))
	}
}

// currentUser returns the authenticated user attached by AuthRequired.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

// generateToken creates a JWT token for the given user ID
func (s *Server) generateToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	expireHours := s.config.JWTExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"exp": now.Add(time.Duration(expireHours) * time.Hour).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// pageParams reads page/limit query parameters with the listing defaults.
func pageParams(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	limit = c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// totalPages computes ceil(total / limit).
func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// Shutdown releases the database and cache connections. Closing is
// immediate; in-flight requests are drained by Fiber's own shutdown first.
func (s *Server) Shutdown() error {
	cache.Close()
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// App builds a configured fiber application without binding a listener.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "CodeVault API",
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}
