package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sarfraz-web/bechdo.in/config"
	"github.com/sarfraz-web/bechdo.in/internal/api/order"
	"github.com/sarfraz-web/bechdo.in/internal/api/product"
	"github.com/sarfraz-web/bechdo.in/internal/api/user"
	"github.com/sarfraz-web/bechdo.in/internal/common"
	"github.com/sarfraz-web/bechdo.in/internal/middleware"
	"github.com/sarfraz-web/bechdo.in/internal/repository/mysql"
	"github.com/sarfraz-web/bechdo.in/internal/service"
	"github.com/sarfraz-web/bechdo.in/internal/storage"
	"github.com/sarfraz-web/bechdo.in/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 设置数据库连接字符串
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		config.AppConfig.DBUser,
		config.AppConfig.DBPassword,
		config.AppConfig.DBHost,
		config.AppConfig.DBPort,
		config.AppConfig.DBName)

	// 连接数据库
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	// 测试数据库连接，启动阶段允许重试
	if err := common.WithRetry(db.Ping, 3); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	util.Logger.Info("数据库连接池配置完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("product_condition", util.ValidateProductCondition)
		v.RegisterValidation("product_status", util.ValidateProductStatus)
		v.RegisterValidation("order_status", util.ValidateOrderStatus)
		v.RegisterValidation("payment_status", util.ValidatePaymentStatus)
	}

	// 初始化文件存储，按配置选择后端
	uploader := initUploader()

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	viewService := service.NewViewService(productRepo, userRepo)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, viewService)
	orderService := service.NewOrderService(orderRepo, productRepo, viewService)

	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, uploader)
	productHandler := product.NewProductHandler(productService, uploader)
	orderHandler := order.NewOrderHandler(orderService)

	// 初始化错误监控
	errorMonitor := middleware.NewErrorMonitor()

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorMonitor))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
		"Access-Control-Allow-Origin",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的CORS处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 配置静态文件服务
	r.Static("/uploads", config.AppConfig.LocalStoragePath)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 定义 API 路由
	api := r.Group("/api/v1")
	{
		// 认证相关路由
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/verify-email", authHandler.VerifyEmail)
			auth.POST("/request-password-reset", authHandler.RequestPasswordReset)
			auth.POST("/reset-password", authHandler.ResetPassword)

			authRequired := auth.Group("/")
			authRequired.Use(middleware.AuthMiddleware(userService))
			{
				authRequired.GET("/me", authHandler.Me)
				authRequired.POST("/logout", authHandler.Logout)
				authRequired.POST("/refresh-token", authHandler.RefreshToken)
			}
		}

		// 用户相关路由
		users := api.Group("/users")
		{
			users.GET("/:id", profileHandler.GetUserByID)
			users.GET("/:id/products", productHandler.UserProducts)

			usersAuth := users.Group("/")
			usersAuth.Use(middleware.AuthMiddleware(userService))
			{
				usersAuth.GET("/profile", profileHandler.GetProfile)
				usersAuth.PUT("/profile", profileHandler.UpdateProfile)
				usersAuth.POST("/profile/avatar", profileHandler.UploadAvatar)
			}
		}

		// 商品相关路由
		products := api.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.GetByID)

			productsAuth := products.Group("/")
			productsAuth.Use(middleware.AuthMiddleware(userService))
			{
				productsAuth.POST("", productHandler.Create)
				productsAuth.GET("/my", productHandler.MyProducts)
				productsAuth.PUT("/:id", productHandler.Update)
				productsAuth.DELETE("/:id", productHandler.Delete)
				productsAuth.POST("/images", productHandler.UploadImages)
			}
		}

		// 订单相关路由，全部需要认证
		orders := api.Group("/orders")
		orders.Use(middleware.AuthMiddleware(userService))
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/sales", orderHandler.Sales)
			orders.GET("/:id", orderHandler.GetByID)
			orders.PUT("/:id", orderHandler.Update)
		}
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// initUploader 按配置选择文件存储后端，默认使用本地存储
func initUploader() storage.Uploader {
	cfg := config.AppConfig

	if cfg.S3Bucket != "" {
		client, err := storage.NewS3Client(cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化S3存储失败", zap.Error(err))
		}
		util.Logger.Info("使用S3文件存储", zap.String("bucket", cfg.S3Bucket))
		return client
	}

	if cfg.GCSBucketName != "" {
		client, err := storage.NewGCSClient(cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
		if err != nil {
			util.Logger.Fatal("初始化GCS存储失败", zap.Error(err))
		}
		util.Logger.Info("使用GCS文件存储", zap.String("bucket", cfg.GCSBucketName))
		return client
	}

	localStorage, err := storage.NewLocalStorage(cfg.LocalStoragePath)
	if err != nil {
		util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
	}
	util.Logger.Info("使用本地文件存储", zap.String("path", cfg.LocalStoragePath))
	return localStorage
}
