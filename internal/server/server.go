package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"anoa.com/ideaboard/internal/auth"
	"anoa.com/ideaboard/internal/config"
	"anoa.com/ideaboard/internal/entity"
	"anoa.com/ideaboard/internal/middleware"

	adminHttp "anoa.com/ideaboard/internal/modules/admin/delivery/http"
	adminService "anoa.com/ideaboard/internal/modules/admin/service"

	categoryHttp "anoa.com/ideaboard/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/ideaboard/internal/modules/category/repository"
	categoryService "anoa.com/ideaboard/internal/modules/category/service"

	commentHttp "anoa.com/ideaboard/internal/modules/comment/delivery/http"
	commentRepo "anoa.com/ideaboard/internal/modules/comment/repository"
	commentService "anoa.com/ideaboard/internal/modules/comment/service"

	ideaHttp "anoa.com/ideaboard/internal/modules/idea/delivery/http"
	ideaRepo "anoa.com/ideaboard/internal/modules/idea/repository"
	ideaService "anoa.com/ideaboard/internal/modules/idea/service"

	notiHttp "anoa.com/ideaboard/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/ideaboard/internal/modules/notification/repository"
	notifService "anoa.com/ideaboard/internal/modules/notification/service"

	reviewHttp "anoa.com/ideaboard/internal/modules/review/delivery/http"
	reviewRepo "anoa.com/ideaboard/internal/modules/review/repository"
	reviewService "anoa.com/ideaboard/internal/modules/review/service"

	searchService "anoa.com/ideaboard/internal/modules/search/service"

	userHttp "anoa.com/ideaboard/internal/modules/user/delivery/http"
	userRepo "anoa.com/ideaboard/internal/modules/user/repository"
	userService "anoa.com/ideaboard/internal/modules/user/service"

	voteHttp "anoa.com/ideaboard/internal/modules/vote/delivery/http"
	voteRepo "anoa.com/ideaboard/internal/modules/vote/repository"
	voteService "anoa.com/ideaboard/internal/modules/vote/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the process-wide resources the server is built from. Redis and
// Search may be nil.
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Search searchService.IdeaIndex
	Logger *zap.Logger
}

type Server struct {
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer(deps Deps) *Server {
	cfg := deps.Config

	tokens := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTTTL)
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	userRepository := userRepo.NewUserRepository(deps.DB)
	authSvc := userService.NewAuthService(userRepository, hasher, tokens, cfg.MaxAdmins)
	authHandler := userHttp.NewAuthHandler(authSvc)

	adminSvc := adminService.NewAdminService(userRepository, cfg.MaxAdmins)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	categoryRepository := categoryRepo.NewCategoryRepository(deps.DB)
	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(deps.DB)
	notificationSvc := notifService.NewNotificationService(notificationRepository)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc)

	ideaSvc := ideaService.NewIdeaService(
		ideaRepo.NewIdeaRepository(deps.DB),
		categoryRepository,
		userRepository,
		notificationSvc,
		deps.Search,
		deps.Redis,
		cfg.RateLimitIdea,
		deps.Logger,
	)
	ideaHandler := ideaHttp.NewIdeaHandler(ideaSvc)

	voteSvc := voteService.NewVoteService(voteRepo.NewVoteRepository(deps.DB), deps.Logger)
	voteHandler := voteHttp.NewVoteHandler(voteSvc)

	commentSvc := commentService.NewCommentService(commentRepo.NewCommentRepository(deps.DB), userRepository)
	commentHandler := commentHttp.NewCommentHandler(commentSvc)

	reviewSvc := reviewService.NewReviewService(reviewRepo.NewReviewRepository(deps.DB), notificationSvc, cfg.NotifyOnApproval, deps.Logger)
	reviewHandler := reviewHttp.NewReviewHandler(reviewSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Logger))

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	idempotent := middleware.Idempotency(deps.Redis, cfg.IdempotencyTTL, deps.Logger)

	api := router.Group("/api")

	// Public routes (no auth required)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/categories", categoryHandler.GetAllCategories)
		protected.GET("/categories/:id", categoryHandler.GetCategoryByID)

		categoryAdmin := protected.Group("/categories")
		categoryAdmin.Use(authMiddleware.RequireAdmin())
		{
			categoryAdmin.POST("", categoryHandler.CreateCategory)
			categoryAdmin.PUT("/:id", categoryHandler.UpdateCategory)
			categoryAdmin.PATCH("/:id/toggle-status", categoryHandler.ToggleCategoryStatus)
			categoryAdmin.DELETE("/:id", categoryHandler.DeleteCategory)
		}

		// Idea routes
		ideas := protected.Group("/idea")
		{
			ideas.POST("/submit",
				authMiddleware.RequireRoles(entity.RoleEmployee, entity.RoleManager, entity.RoleAdmin),
				idempotent,
				ideaHandler.SubmitIdea,
			)
			ideas.GET("", ideaHandler.GetAllIdeas)
			ideas.GET("/mine", ideaHandler.GetMyIdeas)
			ideas.GET("/search", ideaHandler.SearchIdeas)
			ideas.GET("/:id", ideaHandler.GetIdeaByID)
			ideas.PUT("/:id", ideaHandler.UpdateIdea)
			ideas.DELETE("/:id", ideaHandler.DeleteIdea)
		}

		// Vote routes
		votes := protected.Group("/vote")
		{
			votes.GET("/:ideaId", voteHandler.GetVotesForIdea)
			votes.GET("/:ideaId/user-vote", voteHandler.GetUserVoteStatus)
			votes.POST("/:ideaId/upvote", idempotent, voteHandler.Upvote)
			votes.POST("/:ideaId/downvote", idempotent, voteHandler.Downvote)
			votes.DELETE("/:ideaId", voteHandler.RemoveVote)
		}

		// Comment routes
		comments := protected.Group("/comment")
		{
			comments.POST("/idea/:ideaId", idempotent, commentHandler.AddComment)
			comments.GET("/idea/:ideaId", commentHandler.GetCommentsForIdea)
			comments.GET("/:id", commentHandler.GetCommentByID)
			comments.PUT("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}

		// Review routes
		review := protected.Group("/review")
		review.Use(authMiddleware.RequireManager())
		{
			review.GET("/ideas", reviewHandler.GetAllIdeasForReview)
			review.GET("/ideas/status/:status", reviewHandler.GetIdeasByStatus)
			review.GET("/ideas/:ideaId", reviewHandler.GetIdeaForReview)
			review.PUT("/ideas/:ideaId/status", reviewHandler.ChangeIdeaStatus)
			review.POST("/feedback/:ideaId", idempotent, reviewHandler.SubmitFeedback)
			review.GET("/my-reviews", reviewHandler.GetMyReviews)
			review.GET("/idea/:ideaId", reviewHandler.GetReviewsForIdea)
			review.GET("/:id", reviewHandler.GetReviewByID)
		}

		// User management routes
		users := protected.Group("/usermanagement")
		users.Use(authMiddleware.RequireAdmin())
		{
			users.GET("/users", adminHandler.GetAllUsers)
			users.GET("/users/role/:role", adminHandler.GetUsersByRole)
			users.GET("/users/status/:status", adminHandler.GetUsersByStatus)
			users.GET("/users/email/:email", adminHandler.GetUserByEmail)
			users.GET("/users/search", adminHandler.SearchUsers)
			users.GET("/statistics", adminHandler.GetStatistics)
			users.GET("/:userId", adminHandler.GetUserByID)
			users.PUT("/:userId/status", adminHandler.ToggleUserStatus)
			users.PUT("/:userId/activate", adminHandler.ActivateUser)
			users.PUT("/:userId/deactivate", adminHandler.DeactivateUser)
			users.PUT("/:userId/role", adminHandler.UpdateUserRole)
		}

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	return &Server{
		engine: router,
		logger: deps.Logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	for _, o := range strings.Split(allowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.IdempotencyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
