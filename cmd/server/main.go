// Package main 是 API 服务器的入口点。
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arch-market-go/internal/config"
	"arch-market-go/internal/handler"
	"arch-market-go/internal/middleware"
	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"
	"arch-market-go/internal/service"
	"arch-market-go/pkg/database"
	"arch-market-go/pkg/log"
	"arch-market-go/pkg/token"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 1. 初始化配置
	config.Init(*configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化数据库和 Redis
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	if err := database.DB.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Consultation{},
		&model.ServiceOffering{},
		&model.Payment{},
		&model.Ticket{},
	); err != nil {
		log.Fatal("数据库迁移失败", err)
	}

	// 4. 初始化 Repository
	userRepo := repository.NewUserRepository(database.DB)
	projectRepo := repository.NewProjectRepository(database.DB)
	consultationRepo := repository.NewConsultationRepository(database.DB)
	serviceRepo := repository.NewServiceRepository(database.DB)
	paymentRepo := repository.NewPaymentRepository(database.DB)
	ticketRepo := repository.NewTicketRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.RDB, cfg.Chat.HistoryLimit, cfg.Chat.HistoryTTL)
	denylist := repository.NewTokenDenylist(database.RDB)

	// 5. 初始化 Service (依赖注入)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	authService := service.NewAuthService(userRepo, denylist, jwtManager)
	chatService := service.NewChatService(messageRepo, projectRepo)
	projectService := service.NewProjectService(projectRepo)
	consultationService := service.NewConsultationService(consultationRepo, userRepo)
	architectService := service.NewArchitectService(paymentRepo)
	adminService := service.NewAdminService(userRepo, serviceRepo, paymentRepo, projectRepo, consultationRepo)
	ticketService := service.NewTicketService(ticketRepo)

	// 6. 设置 Gin 模式并创建路由引擎
	gin.SetMode(cfg.Server.Mode)
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(middleware.RequestLogger(), gin.Recovery())

	registerRoutes(r, jwtManager, authService, chatService, projectService, consultationService, architectService, adminService, ticketService)

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("服务器启动失败", err)
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("服务器被强制关闭", err)
	}
	log.Info("服务器已退出")
}

// registerRoutes 注册全部 API 路由。
func registerRoutes(
	r *gin.Engine,
	jwtManager *token.JWTManager,
	authService service.AuthService,
	chatService service.ChatService,
	projectService service.ProjectService,
	consultationService service.ConsultationService,
	architectService service.ArchitectService,
	adminService service.AdminService,
	ticketService service.TicketService,
) {
	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	projectHandler := handler.NewProjectHandler(projectService)
	consultationHandler := handler.NewConsultationHandler(consultationService)
	architectHandler := handler.NewArchitectHandler(architectService)
	adminHandler := handler.NewAdminHandler(adminService)
	ticketHandler := handler.NewTicketHandler(ticketService)

	authed := middleware.AuthMiddleware(jwtManager, authService)

	api := r.Group("/api")
	{
		// Auth 路由组
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", authed, authHandler.Me)
			auth.POST("/logout", authed, authHandler.Logout)
		}

		// 历史遗留别名：前端 UserContext 使用 /users/me
		api.GET("/users/me", authed, authHandler.Me)

		// Project 路由组，需要认证
		projects := api.Group("/projects")
		projects.Use(authed)
		{
			projects.GET("", projectHandler.List)
			projects.POST("", projectHandler.Create)
			projects.GET("/:projectId", projectHandler.Get)
			projects.GET("/:projectId/messages", chatHandler.ProjectMessages)
			projects.POST("/:projectId/messages", chatHandler.SendProjectMessage)
		}

		// 大厅会话路由，需要认证
		chat := api.Group("/chat")
		chat.Use(authed)
		{
			chat.GET("/:conversationId", chatHandler.LobbyMessages)
			chat.POST("/:conversationId", chatHandler.SendLobbyMessage)
		}

		// Consultation 路由组，需要认证
		consultations := api.Group("/consultations")
		consultations.Use(authed)
		{
			consultations.POST("/client/book", consultationHandler.Book)
			consultations.GET("/client", consultationHandler.ListForClient)
			consultations.GET("/architect/:architectId", consultationHandler.ListForArchitect)
			consultations.PUT("/:id/status", consultationHandler.UpdateStatus)
		}

		// 支持工单提交，对所有已登录用户开放
		api.POST("/support/tickets", authed, ticketHandler.Create)

		// 建筑师路由组，需要认证且角色为建筑师
		architect := api.Group("/architect")
		architect.Use(authed, middleware.RequireRole(model.RoleArchitect))
		{
			architect.GET("/earnings", architectHandler.Earnings)
		}

		// 管理员路由组，需要同时通过认证和管理员授权两个中间件
		admin := api.Group("/admin")
		admin.Use(authed, middleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/services", adminHandler.ListServices)
			admin.POST("/services", adminHandler.SaveService)
			admin.GET("/payments", adminHandler.ListPayments)
			admin.POST("/payments", adminHandler.RecordPayment)
			admin.GET("/payments/summary", adminHandler.PaymentSummary)
			admin.GET("/reports", adminHandler.Report)
			admin.GET("/tickets", ticketHandler.List)
			admin.PUT("/tickets/:id/status", ticketHandler.UpdateStatus)
		}
	}
}
