package pkg

import (
	"context"
	"log"
	"os"

	"TutorHub/internal/auth"
	"TutorHub/internal/config"
	"TutorHub/internal/request"
	"TutorHub/internal/review"
	"TutorHub/internal/teacher"
	"TutorHub/pkg/middleware"

	"github.com/casbin/casbin/v2"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewLogger),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(middleware.NewEnforcer),
	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewUserService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(request.NewRequestRepository),
	fx.Provide(request.NewRequestService),
	fx.Provide(request.NewRequestHandler),
	fx.Provide(review.NewReviewRepository),
	fx.Provide(review.NewReviewService),
	fx.Provide(review.NewReviewHandler),
	fx.Provide(teacher.NewTeacherService),
	fx.Provide(teacher.NewTeacherHandler),
	fx.Invoke(RegisterRoutes))

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewRequestValidator()
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(":" + port); err != nil {
					log.Println("server stopped:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	users *auth.UserRepository,
	enforcer *casbin.Enforcer,
	authHandler *auth.AuthHandler,
	requestHandler *request.RequestHandler,
	reviewHandler *review.ReviewHandler,
	teacherHandler *teacher.TeacherHandler,
) {
	// Public surface.
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/api/auth/reset-password", authHandler.ResetPassword)
	e.GET("/api/teachers", teacherHandler.List)
	e.GET("/api/teachers/:id", teacherHandler.Get)

	protected := e.Group("/api", middleware.JWTMiddleware(users), middleware.CasbinMiddleware(enforcer))
	protected.GET("/auth/profile", authHandler.Profile)
	protected.DELETE("/auth/deactivate", authHandler.Deactivate)

	protected.POST("/requests", requestHandler.Send)
	protected.GET("/requests/my-requests", requestHandler.ListMine)
	protected.GET("/requests/received", requestHandler.ListReceived)
	protected.PUT("/requests/:id/accept", requestHandler.Accept)
	protected.PUT("/requests/:id/reject", requestHandler.Reject)
	protected.GET("/requests/my-students", requestHandler.ListMyStudents)

	protected.POST("/students/teachers/:id/reviews", reviewHandler.Create)
	protected.PUT("/students/reviews/:id", reviewHandler.Update)
	protected.DELETE("/students/reviews/:id", reviewHandler.Delete)

	protected.PUT("/teachers/profile", teacherHandler.UpdateProfile)
}
