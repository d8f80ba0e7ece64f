package main

import (
	"log"
	"os"

	"github.com/anywhere-app/backend/routes"
	"github.com/anywhere-app/backend/services"
	"github.com/anywhere-app/backend/storage"
	"github.com/anywhere-app/backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	redisClient := storage.InitializeRedis()
	storage.InitializeMedia()

	limiter := services.NewLoginLimiter(redisClient)
	defer limiter.Close()

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	auth := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshAuth := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})

	authHandlers := routes.NewAuthHandlers(limiter)

	authParty := app.Party("/api/auth")
	{
		authParty.Post("/register", authHandlers.Register)
		authParty.Post("/login", authHandlers.Login)
		authParty.Post("/refresh", refreshAuth, utils.RefreshToken)
		authParty.Post("/admin-user", auth, utils.AdminOnlyMiddleware, authHandlers.CreateAdminUser)
	}

	user := app.Party("/api/user")
	{
		user.Get("/", auth, routes.GetUser)
		user.Get("/all", auth, routes.GetAllUsers)

		user.Get("/wishlist", auth, routes.GetWishlist)
		user.Post("/wishlist", auth, routes.AddToWishlist)
		user.Delete("/wishlist/{pinID:uint}", auth, routes.RemoveFromWishlist)
		user.Get("/visited", auth, routes.GetVisited)
		user.Post("/visited", auth, routes.AddToVisited)
		user.Delete("/visited/{pinID:uint}", auth, routes.RemoveFromVisited)

		user.Get("/{id:uint}", auth, utils.SelfOrAdminMiddleware, routes.GetUserByID)
		user.Get("/{id:uint}/wishlist", auth, utils.SelfOrAdminMiddleware, routes.GetWishlistByUserID)
		user.Get("/{id:uint}/visited", auth, utils.SelfOrAdminMiddleware, routes.GetVisitedByUserID)
		user.Get("/{id:uint}/comments", auth, utils.SelfOrAdminMiddleware, routes.GetUserComments)
		user.Get("/{id:uint}/liked-posts", auth, utils.SelfOrAdminMiddleware, routes.GetUserLikedPosts)
		user.Get("/{id:uint}/liked-comments", auth, utils.SelfOrAdminMiddleware, routes.GetUserLikedComments)
		user.Get("/{id:uint}/posts", auth, routes.GetUserPosts)

		user.Get("/{id:uint}/followers", auth, routes.GetFollowers)
		user.Get("/{id:uint}/following", auth, routes.GetFollowing)
		user.Post("/{id:uint}/follow", auth, routes.FollowUser)
		user.Delete("/{id:uint}/follow", auth, routes.UnfollowUser)

		user.Post("/{id:uint}/suspend", auth, utils.AdminOnlyMiddleware, routes.SuspendUser)
	}

	pins := app.Party("/api/pins")
	{
		pins.Get("/", routes.GetAllPins)
		pins.Get("/{id:uint}", routes.GetPinByID)
		pins.Post("/", auth, routes.CreatePin)
		pins.Post("/requests", auth, routes.CreateLocationRequest)
	}

	categories := app.Party("/api/categories")
	{
		categories.Get("/", routes.GetAllCategories)
		categories.Get("/{id:uint}", routes.GetCategoryByID)
		categories.Post("/", auth, routes.CreateCategory)
	}

	hangouts := app.Party("/api/hangouts")
	{
		hangouts.Get("/", routes.GetAllHangouts)
		hangouts.Post("/", auth, routes.CreateHangout)
		hangouts.Get("/{id:uint}", routes.GetHangoutByID)
		hangouts.Put("/{id:uint}", auth, routes.UpdateHangout)
		hangouts.Delete("/{id:uint}", auth, routes.DeleteHangout)
		hangouts.Post("/{id:uint}/join", auth, routes.JoinHangout)
		hangouts.Post("/{id:uint}/leave", auth, routes.LeaveHangout)
		hangouts.Get("/{id:uint}/participants", routes.GetHangoutParticipants)
	}

	posts := app.Party("/api/posts")
	{
		posts.Get("/", routes.GetAllPosts)
		posts.Post("/", auth, routes.CreatePost)
		posts.Get("/{id:uint}", routes.GetPostByID)
		posts.Delete("/{id:uint}", auth, routes.DeletePost)
		posts.Post("/{id:uint}/like", auth, routes.LikePost)
		posts.Get("/{id:uint}/likes", routes.GetPostLikes)
		posts.Get("/{id:uint}/comments", routes.GetPostComments)
		posts.Post("/{id:uint}/comments", auth, routes.CreateComment)
		posts.Delete("/comments/{commentID:uint}", auth, routes.DeleteComment)
		posts.Post("/{id:uint}/comments/{commentID:uint}/like", auth, routes.LikeComment)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}
}
