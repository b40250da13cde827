package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appadmin "github.com/xiebiao/edubook/internal/application/admin"
	appbook "github.com/xiebiao/edubook/internal/application/book"
	appcourse "github.com/xiebiao/edubook/internal/application/course"
	appdashboard "github.com/xiebiao/edubook/internal/application/dashboard"
	applearning "github.com/xiebiao/edubook/internal/application/learning"
	apporder "github.com/xiebiao/edubook/internal/application/order"
	apppayment "github.com/xiebiao/edubook/internal/application/payment"
	appuser "github.com/xiebiao/edubook/internal/application/user"
	"github.com/xiebiao/edubook/internal/infrastructure/config"
	"github.com/xiebiao/edubook/internal/infrastructure/identity"
	infmedia "github.com/xiebiao/edubook/internal/infrastructure/media"
	infpayment "github.com/xiebiao/edubook/internal/infrastructure/payment"
	"github.com/xiebiao/edubook/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/edubook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/edubook/internal/interface/http/handler"
	"github.com/xiebiao/edubook/internal/interface/http/middleware"
	"github.com/xiebiao/edubook/pkg/jwt"
	"github.com/xiebiao/edubook/pkg/metrics"
	"github.com/xiebiao/edubook/pkg/mq"
	"github.com/xiebiao/edubook/pkg/response"
	"github.com/xiebiao/edubook/pkg/tracing"
)

// main 主程序入口
// 说明:保留手动依赖注入路径,wire.go是等价的自动组装版本
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化监控指标
	metrics.InitMetrics()

	// 3. 初始化分布式追踪(可选)
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("edubook-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("关闭追踪失败: %v", err)
			}
		}()
	}

	// 4. 初始化数据库和Redis
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化MQ发布者(可选,连不上只降级不拦启动)
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Printf("初始化MQ失败(事件发布降级): %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// 6. 依赖注入(手动组装)
	// Repository ← UseCase ← Handler

	// 基础设施层
	txManager := mysql.NewTxManager(db)
	bookRepo := mysql.NewBookRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	courseRepo := mysql.NewCourseRepository(db)
	purchaseRepo := mysql.NewPurchaseRepository(db)
	enrollmentRepo := mysql.NewEnrollmentRepository(db)
	progressRepo := mysql.NewProgressRepository(db)
	certificateRepo := mysql.NewCertificateRepository(db)
	userRepo := mysql.NewUserRepository(db)
	eventLedger := mysql.NewWebhookEventRepository(db)

	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire, cfg.JWT.RefreshTokenExpire)

	checkoutClient := infpayment.NewCheckoutClient(cfg)
	orderVerifier := infpayment.NewSignatureVerifier(cfg.Payment.OrderWebhookSecret)
	courseVerifier := infpayment.NewSignatureVerifier(cfg.Payment.CourseWebhookSecret)
	mediaClient := infmedia.NewHostClient(cfg)

	identityVerifier, err := identity.NewWebhookVerifier(cfg.Identity.WebhookSecret)
	if err != nil {
		log.Fatalf("初始化身份Webhook校验器失败: %v", err)
	}

	// 应用层
	createOrderUseCase := apporder.NewCreateOrderUseCase(orderRepo, bookRepo, checkoutClient, txManager, cfg.Payment.FrontendBaseURL)
	listOrdersUseCase := apporder.NewListOrdersUseCase(orderRepo)
	orderWebhookUseCase := apppayment.NewOrderWebhookUseCase(orderVerifier, eventLedger, orderRepo, bookRepo, txManager, webhookPublisher(publisher))
	courseWebhookUseCase := apppayment.NewCourseWebhookUseCase(courseVerifier, eventLedger, purchaseRepo, courseRepo, enrollmentRepo, txManager, webhookPublisher(publisher))

	createBookUseCase := appbook.NewCreateBookUseCase(bookRepo, mediaClient)
	listBooksUseCase := appbook.NewListBooksUseCase(bookRepo)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookRepo, mediaClient)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookRepo, mediaClient)

	addCourseUseCase := appcourse.NewAddCourseUseCase(courseRepo, mediaClient)
	listCoursesUseCase := appcourse.NewListCoursesUseCase(courseRepo)
	deleteCourseUseCase := appcourse.NewDeleteCourseUseCase(courseRepo, purchaseRepo, mediaClient, txManager)
	purchaseCourseUseCase := appcourse.NewPurchaseCourseUseCase(courseRepo, purchaseRepo, checkoutClient, cfg.Payment.FrontendBaseURL)

	dashboardUseCase := appdashboard.NewDashboardUseCase(courseRepo, purchaseRepo, userRepo)
	saveProgressUseCase := applearning.NewSaveProgressUseCase(enrollmentRepo, progressRepo)
	certificateUseCase := applearning.NewCertificateUseCase(enrollmentRepo, progressRepo, certificateRepo, courseRepo, userRepo)
	syncUserUseCase := appuser.NewSyncUserUseCase(userRepo)
	adminLoginUseCase := appadmin.NewLoginUseCase(cfg.Admin.Email, cfg.Admin.Password, jwtManager, sessionStore)

	// 接口层
	bookHandler := handler.NewBookHandler(createBookUseCase, listBooksUseCase, updateBookUseCase, deleteBookUseCase)
	orderHandler := handler.NewOrderHandler(createOrderUseCase, listOrdersUseCase)
	webhookHandler := handler.NewWebhookHandler(orderWebhookUseCase, courseWebhookUseCase)
	courseHandler := handler.NewCourseHandler(listCoursesUseCase, purchaseCourseUseCase)
	educatorHandler := handler.NewEducatorHandler(addCourseUseCase, listCoursesUseCase, deleteCourseUseCase, dashboardUseCase)
	learningHandler := handler.NewLearningHandler(saveProgressUseCase, certificateUseCase)
	identityHandler := handler.NewIdentityHandler(identityVerifier, syncUserUseCase)
	adminHandler := handler.NewAdminHandler(adminLoginUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, bookHandler, orderHandler, webhookHandler, courseHandler,
		educatorHandler, learningHandler, identityHandler, adminHandler, authMiddleware)

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功!\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   监控指标: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// webhookPublisher 把可能为nil的具体Publisher转成用例层接口
// 直接传*mq.Publisher会出现"非nil接口包nil指针"的经典陷阱
func webhookPublisher(p *mq.Publisher) apppayment.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	bookHandler *handler.BookHandler,
	orderHandler *handler.OrderHandler,
	webhookHandler *handler.WebhookHandler,
	courseHandler *handler.CourseHandler,
	educatorHandler *handler.EducatorHandler,
	learningHandler *handler.LearningHandler,
	identityHandler *handler.IdentityHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})

	// 监控指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// 图书模块:读公开,写需要管理端登录
		books := api.Group("/books")
		{
			books.GET("", bookHandler.ListBooks)
			books.GET("/:id", bookHandler.GetBook)
			books.POST("", authMiddleware.RequireAuth(), bookHandler.CreateBook)
			books.PUT("/:id", authMiddleware.RequireAuth(), bookHandler.UpdateBook)
			books.DELETE("/:id", authMiddleware.RequireAuth(), bookHandler.DeleteBook)
		}

		// 订单模块
		// 下单是学员侧接口(身份由外部服务保证),列表是管理端接口
		orders := api.Group("/orders")
		{
			orders.POST("", orderHandler.CreateOrder)
			orders.GET("", authMiddleware.RequireAuth(), orderHandler.ListOrders)
			orders.POST("/webhook", webhookHandler.OrderWebhook)
		}

		// 课程模块(学生端)
		api.GET("/courses", courseHandler.ListCourses)
		api.POST("/user/purchase", courseHandler.PurchaseCourse)
		api.POST("/course/webhook", webhookHandler.CourseWebhook)

		// 讲师模块
		educator := api.Group("/educator")
		educator.Use(authMiddleware.RequireAuth())
		{
			educator.POST("/add-course", educatorHandler.AddCourse)
			educator.GET("/courses", educatorHandler.ListCourses)
			educator.DELETE("/delete-course/:id", educatorHandler.DeleteCourse)
			educator.GET("/dashboard", educatorHandler.Dashboard)
			educator.GET("/enrolled-students", educatorHandler.EnrolledStudents)
		}

		// 学习记录
		api.POST("/progress/save", learningHandler.SaveProgress)
		certificates := api.Group("/certificates")
		{
			certificates.GET("", learningHandler.PrefillCertificateForm)
			certificates.POST("", learningHandler.SubmitCertificate)
			certificates.GET("/all", authMiddleware.RequireAuth(), learningHandler.ListCertificates)
			certificates.PUT("/:id/toggle", authMiddleware.RequireAuth(), learningHandler.ToggleCertificate)
			certificates.DELETE("/:id", authMiddleware.RequireAuth(), learningHandler.DeleteCertificate)
		}

		// 身份服务回调
		api.POST("/identity/webhook", identityHandler.Webhook)

		// 管理员
		admin := api.Group("/admin")
		{
			admin.POST("/login", adminHandler.Login)
			admin.POST("/logout", authMiddleware.RequireAuth(), adminHandler.Logout)
		}
	}
}
