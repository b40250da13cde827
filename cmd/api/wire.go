//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 说明:
// 1. Wire在编译期生成依赖组装代码,运行 `wire gen ./cmd/api` 生成wire_gen.go
// 2. Provider是构造函数,Injector声明最终要构造的目标类型
// 3. 监控指标和追踪的初始化仍在main.go中完成,不进注入图

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appadmin "github.com/xiebiao/edubook/internal/application/admin"
	appbook "github.com/xiebiao/edubook/internal/application/book"
	appcourse "github.com/xiebiao/edubook/internal/application/course"
	appdashboard "github.com/xiebiao/edubook/internal/application/dashboard"
	applearning "github.com/xiebiao/edubook/internal/application/learning"
	apporder "github.com/xiebiao/edubook/internal/application/order"
	apppayment "github.com/xiebiao/edubook/internal/application/payment"
	appuser "github.com/xiebiao/edubook/internal/application/user"
	"github.com/xiebiao/edubook/internal/domain/book"
	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/learning"
	"github.com/xiebiao/edubook/internal/domain/order"
	"github.com/xiebiao/edubook/internal/domain/media"
	"github.com/xiebiao/edubook/internal/domain/payment"
	"github.com/xiebiao/edubook/internal/domain/purchase"
	"github.com/xiebiao/edubook/internal/infrastructure/config"
	"github.com/xiebiao/edubook/internal/infrastructure/identity"
	infmedia "github.com/xiebiao/edubook/internal/infrastructure/media"
	infpayment "github.com/xiebiao/edubook/internal/infrastructure/payment"
	"github.com/xiebiao/edubook/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/edubook/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/edubook/internal/interface/http/handler"
	"github.com/xiebiao/edubook/internal/interface/http/middleware"
	"github.com/xiebiao/edubook/pkg/jwt"
	"github.com/xiebiao/edubook/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	infpayment.NewCheckoutClient,
	wire.Bind(new(payment.CheckoutProvider), new(*infpayment.CheckoutClient)),
	infmedia.NewHostClient,
	wire.Bind(new(media.Uploader), new(*infmedia.HostClient)),
	provideIdentityVerifier,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	mysql.NewOrderRepository,
	mysql.NewCourseRepository,
	mysql.NewPurchaseRepository,
	mysql.NewEnrollmentRepository,
	mysql.NewProgressRepository,
	mysql.NewCertificateRepository,
	mysql.NewUserRepository,
	mysql.NewWebhookEventRepository,
	mysql.NewTxManager,
	wire.Bind(new(apporder.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(apppayment.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(appcourse.Transactor), new(*mysql.TxManager)),
)

// applicationSet 应用层依赖
// 需要从Config提取参数的用例走自定义Provider
var applicationSet = wire.NewSet(
	provideCreateOrderUseCase,
	apporder.NewListOrdersUseCase,
	provideOrderWebhookUseCase,
	provideCourseWebhookUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	appcourse.NewAddCourseUseCase,
	appcourse.NewListCoursesUseCase,
	appcourse.NewDeleteCourseUseCase,
	providePurchaseCourseUseCase,
	appdashboard.NewDashboardUseCase,
	applearning.NewSaveProgressUseCase,
	applearning.NewCertificateUseCase,
	appuser.NewSyncUserUseCase,
	provideAdminLoginUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewOrderHandler,
	handler.NewWebhookHandler,
	handler.NewCourseHandler,
	handler.NewEducatorHandler,
	handler.NewLearningHandler,
	handler.NewIdentityHandler,
	handler.NewAdminHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideIdentityVerifier 从配置创建身份Webhook校验器
func provideIdentityVerifier(cfg *config.Config) (*identity.WebhookVerifier, error) {
	return identity.NewWebhookVerifier(cfg.Identity.WebhookSecret)
}

// provideEventPublisher 从配置创建事件发布者
// MQ未启用时返回nil,用例层按nil跳过发布
func provideEventPublisher(cfg *config.Config) apppayment.EventPublisher {
	if !cfg.MQ.Enabled {
		return nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil
	}
	return publisher
}

func provideCreateOrderUseCase(
	cfg *config.Config,
	orderRepo order.Repository,
	bookRepo book.Repository,
	checkout payment.CheckoutProvider,
	txManager apporder.Transactor,
) *apporder.CreateOrderUseCase {
	return apporder.NewCreateOrderUseCase(orderRepo, bookRepo, checkout, txManager, cfg.Payment.FrontendBaseURL)
}

func providePurchaseCourseUseCase(
	cfg *config.Config,
	courseRepo course.Repository,
	purchaseRepo purchase.Repository,
	checkout payment.CheckoutProvider,
) *appcourse.PurchaseCourseUseCase {
	return appcourse.NewPurchaseCourseUseCase(courseRepo, purchaseRepo, checkout, cfg.Payment.FrontendBaseURL)
}

// provideOrderWebhookUseCase 两个Webhook消费端各有独立签名密钥,
// Wire区分不了同类型的两个实例,所以校验器在Provider里现场构造
func provideOrderWebhookUseCase(
	cfg *config.Config,
	ledger payment.EventLedger,
	orderRepo order.Repository,
	bookRepo book.Repository,
	txManager apppayment.Transactor,
) *apppayment.OrderWebhookUseCase {
	verifier := infpayment.NewSignatureVerifier(cfg.Payment.OrderWebhookSecret)
	return apppayment.NewOrderWebhookUseCase(verifier, ledger, orderRepo, bookRepo, txManager, provideEventPublisher(cfg))
}

func provideCourseWebhookUseCase(
	cfg *config.Config,
	ledger payment.EventLedger,
	purchaseRepo purchase.Repository,
	courseRepo course.Repository,
	enrollmentRepo learning.EnrollmentRepository,
	txManager apppayment.Transactor,
) *apppayment.CourseWebhookUseCase {
	verifier := infpayment.NewSignatureVerifier(cfg.Payment.CourseWebhookSecret)
	return apppayment.NewCourseWebhookUseCase(verifier, ledger, purchaseRepo, courseRepo, enrollmentRepo, txManager, provideEventPublisher(cfg))
}

func provideAdminLoginUseCase(
	cfg *config.Config,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *appadmin.LoginUseCase {
	return appadmin.NewLoginUseCase(cfg.Admin.Email, cfg.Admin.Password, jwtManager, sessionStore)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册复用main.go中的registerRoutes,两条组装路径共享同一张路由表
func provideGinEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	orderHandler *handler.OrderHandler,
	webhookHandler *handler.WebhookHandler,
	courseHandler *handler.CourseHandler,
	educatorHandler *handler.EducatorHandler,
	learningHandler *handler.LearningHandler,
	identityHandler *handler.IdentityHandler,
	adminHandler *handler.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, bookHandler, orderHandler, webhookHandler, courseHandler,
		educatorHandler, learningHandler, identityHandler, adminHandler, authMiddleware)

	return r
}

// InitializeApp Wire注入器入口
// 运行 `wire gen ./cmd/api` 后由wire_gen.go提供实现
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
