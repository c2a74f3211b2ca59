package handler

import (
	"context"

	"github.com/BloggingApp/blog-service/internal/model"
	"github.com/BloggingApp/blog-service/internal/ratelimit"
	"github.com/BloggingApp/blog-service/internal/realtime"
	"github.com/BloggingApp/blog-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
	hub *realtime.Hub
	globalLimiter *ratelimit.KeyedLimiter
	writeLimiter *ratelimit.KeyedLimiter
	aiLimiter *ratelimit.KeyedLimiter
}

func New(services *service.Service, hub *realtime.Hub) *Handler {
	return &Handler{
		services: services,
		hub: hub,
		globalLimiter: ratelimit.New(viper.GetFloat64("ratelimit.global-rps"), viper.GetInt("ratelimit.global-burst")),
		writeLimiter: ratelimit.New(viper.GetFloat64("ratelimit.write-rps"), viper.GetInt("ratelimit.write-burst")),
		aiLimiter: ratelimit.New(viper.GetFloat64("ratelimit.ai-rps"), viper.GetInt("ratelimit.ai-burst")),
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{viper.GetString("client.origin")},
		AllowMethods: []string{"POST", "GET", "PATCH", "DELETE"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1", h.rateLimit(h.globalLimiter))
	{
		posts := v1.Group("/posts")
		{
			posts.POST("/uploadImage", h.authMiddleware, h.postsUploadImage)
			posts.POST("", h.authMiddleware, h.rateLimit(h.writeLimiter), h.postsCreate)
			posts.GET("/my", h.authMiddleware, h.postsGetMy)
			posts.GET("/author/:userID", h.postsGet)
			posts.GET("/liked", h.authMiddleware, h.postsGetLiked)
			posts.GET("/trending", h.postsTrending)
			posts.GET("/search", h.postsSearch)
			posts.PATCH("/edit", h.authMiddleware, h.postsEdit)

			post := posts.Group("/:postID")
			{
				post.GET("", h.notRequiredAuthMiddleware, h.postsGetByID)
				post.POST("/publish", h.authMiddleware, h.postsPublish)
				post.DELETE("", h.authMiddleware, h.postsDelete)
				post.POST("/like", h.authMiddleware, h.postsLike)
				post.DELETE("/unlike", h.authMiddleware, h.postsUnlike)
				post.GET("/isLiked", h.authMiddleware, h.postsIsLiked)
				post.GET("/stream", h.postsStream)
			}
		}

		comments := v1.Group("/comments")
		{
			comments.POST("", h.authMiddleware, h.rateLimit(h.writeLimiter), h.commentsCreate)
			comments.GET("/post/:postID", h.commentsGet)
			comments.GET("", h.moderatorMiddleware, h.modGetAllComments)

			comment := comments.Group("/:commentID")
			{
				comment.DELETE("", h.authMiddleware, h.commentsDelete)
				comment.GET("/isLiked", h.authMiddleware, h.commentsIsLiked)
				comment.POST("/like", h.authMiddleware, h.commentsLike)
				comment.DELETE("/unlike", h.authMiddleware, h.commentsUnlike)
			}
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", h.tagsList)
			tags.GET("/trending", h.tagsTrending)
			tags.GET("/:name", h.tagsGetByName)
			tags.DELETE("/:name", h.moderatorMiddleware, h.modDeleteTag)
			tags.POST("/merge", h.moderatorMiddleware, h.modMergeTags)
		}

		users := v1.Group("/users")
		{
			users.GET("/@me", h.authMiddleware, h.usersGetMe)
			users.GET("/:username", h.usersGetByUsername)
		}

		notifications := v1.Group("/notifications", h.authMiddleware)
		{
			notifications.GET("", h.notificationsGet)
			notifications.GET("/unreadCount", h.notificationsUnreadCount)
			notifications.PATCH("/readAll", h.notificationsReadAll)
			notifications.PATCH("/:id/read", h.notificationsRead)
			notifications.DELETE("/:id", h.notificationsDelete)
			notifications.GET("/stream", h.notificationsStream)
		}

		ai := v1.Group("/ai", h.authMiddleware, h.rateLimit(h.aiLimiter))
		{
			ai.POST("/suggestTitles", h.aiSuggestTitles)
			ai.POST("/summarize", h.aiSummarize)
		}

		v1.GET("/dashboard-summary", h.authMiddleware, h.dashboardSummary)
	}

	return r
}

func (h *Handler) getUserDataFromClaims(ctx context.Context, claims jwt.MapClaims, accessToken string) (*model.CachedUser, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	return h.services.UserCache.CreateOrGet(ctx, id, accessToken)
}

func (h *Handler) getCachedUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get("cached-user")

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}
