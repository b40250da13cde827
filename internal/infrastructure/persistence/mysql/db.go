package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/edubook/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 注意：生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&OrderModel{},
		&OrderItemModel{},
		&CourseModel{},
		&CourseStudentModel{},
		&CourseRatingModel{},
		&PurchaseModel{},
		&EnrollmentModel{},
		&ProgressModel{},
		&CertificateModel{},
		&WebhookEventModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain层的实体不依赖GORM，Repository负责两者之间的转换
// 3. 认证委托给外部身份服务，本地不存密码，记录由Webhook同步
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    string         `gorm:"uniqueIndex;size:64;not null;comment:外部身份标识"`
	Email     string         `gorm:"index;size:100;comment:邮箱"`
	Name      string         `gorm:"size:100;comment:姓名"`
	Username  string         `gorm:"size:100;comment:用户名"`
	ImageURL  string         `gorm:"size:500;comment:头像URL"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. 库存拆成available_stock/reserved_stock两个计数器,
//    下单预占和履约扣减都走原子条件UPDATE,防止超卖
type BookModel struct {
	ID             uint           `gorm:"primaryKey"`
	Name           string         `gorm:"index:idx_search;size:200;not null;comment:书名"`
	Author         string         `gorm:"index:idx_search;size:100;not null;comment:作者"`
	Price          int64          `gorm:"not null;comment:价格(分)"`
	AvailableStock int            `gorm:"default:0;comment:在架库存"`
	ReservedStock  int            `gorm:"default:0;comment:已预占数量"`
	ImageURL       string         `gorm:"size:500;comment:封面图片URL"`
	Notes          string         `gorm:"type:text;comment:备注"`
	CreatedAt      time.Time      `gorm:"index;comment:创建时间"`
	UpdatedAt      time.Time      `gorm:"comment:更新时间"`
	DeletedAt      gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

func (BookModel) TableName() string {
	return "books"
}

// OrderModel GORM订单模型
// 设计说明:
// 1. 与OrderItemModel是一对多关系
// 2. OrderNo有唯一索引(业务主键)
// 3. CheckoutSessionID有索引,Webhook按会话回查订单
type OrderModel struct {
	ID                uint             `gorm:"primaryKey"`
	OrderNo           string           `gorm:"uniqueIndex;size:32;not null;comment:订单号"`
	UserID            string           `gorm:"index;size:64;not null;comment:买家用户ID(外部身份标识)"`
	UserName          string           `gorm:"size:100;comment:下单时的用户名快照"`
	TotalAmount       int64            `gorm:"not null;comment:订单总金额(分)"`
	Status            string           `gorm:"index;size:16;default:pending;comment:订单状态(pending/completed/failed)"`
	CheckoutSessionID string           `gorm:"index;size:128;comment:托管支付会话ID"`
	Items             []OrderItemModel `gorm:"foreignKey:OrderID"`
	CreatedAt         time.Time        `gorm:"index;comment:创建时间"`
	UpdatedAt         time.Time        `gorm:"comment:更新时间"`
}

func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel GORM订单明细模型
// 记录下单时的书名和单价快照
type OrderItemModel struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   uint   `gorm:"index;not null;comment:订单ID"`
	BookID    uint   `gorm:"index;not null;comment:图书ID"`
	BookName  string `gorm:"size:200;not null;comment:下单时书名快照"`
	Quantity  int    `gorm:"not null;comment:购买数量"`
	UnitPrice int64  `gorm:"not null;comment:下单时单价(分)"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

// CourseModel GORM课程模型
// EnrolledStudents/Ratings在MySQL里落成关联表(Mongo数组的关系化)
type CourseModel struct {
	ID           uint                 `gorm:"primaryKey"`
	CourseID     string               `gorm:"uniqueIndex;size:64;not null;comment:课程业务标识(uuid)"`
	Title        string               `gorm:"size:200;not null;comment:课程标题"`
	Description  string               `gorm:"type:text;comment:课程描述"`
	Price        int64                `gorm:"not null;comment:原价(分)"`
	Discount     int                  `gorm:"default:0;comment:折扣百分比"`
	ThumbnailURL string               `gorm:"size:500;comment:缩略图URL"`
	EducatorID   string               `gorm:"index;size:64;not null;comment:讲师用户ID"`
	DurationDays int                  `gorm:"default:0;comment:课程时长(天)"`
	Students     []CourseStudentModel `gorm:"foreignKey:CourseRef"`
	Ratings      []CourseRatingModel  `gorm:"foreignKey:CourseRef"`
	CreatedAt    time.Time            `gorm:"comment:创建时间"`
	UpdatedAt    time.Time            `gorm:"comment:更新时间"`
	DeletedAt    gorm.DeletedAt       `gorm:"index;comment:删除时间(软删除)"`
}

func (CourseModel) TableName() string {
	return "courses"
}

// CourseStudentModel 课程已报名学生关联表
// (course_ref, user_id)唯一,保证重复报名幂等
type CourseStudentModel struct {
	ID        uint   `gorm:"primaryKey"`
	CourseRef uint   `gorm:"uniqueIndex:idx_course_student;not null;comment:课程内部ID"`
	UserID    string `gorm:"uniqueIndex:idx_course_student;size:64;not null;comment:学生用户ID"`
}

func (CourseStudentModel) TableName() string {
	return "course_students"
}

// CourseRatingModel 课程评分关联表
type CourseRatingModel struct {
	ID        uint   `gorm:"primaryKey"`
	CourseRef uint   `gorm:"uniqueIndex:idx_course_rating;not null;comment:课程内部ID"`
	UserID    string `gorm:"uniqueIndex:idx_course_rating;size:64;not null;comment:评分用户ID"`
	Rating    int    `gorm:"not null;comment:评分(1-5)"`
}

func (CourseRatingModel) TableName() string {
	return "course_ratings"
}

// PurchaseModel GORM课程购买记录模型
type PurchaseModel struct {
	ID                uint      `gorm:"primaryKey"`
	PurchaseID        string    `gorm:"uniqueIndex;size:64;not null;comment:购买业务标识(uuid)"`
	UserID            string    `gorm:"index;size:64;not null;comment:购买人用户ID"`
	CourseID          string    `gorm:"index;size:64;not null;comment:课程业务标识"`
	Amount            int64     `gorm:"not null;comment:实付金额(分)"`
	Status            string    `gorm:"index;size:16;default:pending;comment:状态(pending/completed/failed)"`
	CheckoutSessionID string    `gorm:"index;size:128;comment:托管支付会话ID"`
	CreatedAt         time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt         time.Time `gorm:"comment:更新时间"`
}

func (PurchaseModel) TableName() string {
	return "purchases"
}

// EnrollmentModel GORM选课记录模型
// (user_id, course_id)唯一,一个学生对一门课只有一条选课记录
type EnrollmentModel struct {
	ID             uint      `gorm:"primaryKey"`
	EnrollmentID   string    `gorm:"uniqueIndex;size:64;not null;comment:选课业务标识(uuid)"`
	UserID         string    `gorm:"uniqueIndex:idx_user_course;size:64;not null;comment:学生用户ID"`
	CourseID       string    `gorm:"uniqueIndex:idx_user_course;size:64;not null;comment:课程业务标识"`
	EnrollmentDate time.Time `gorm:"comment:选课日期"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
	UpdatedAt      time.Time `gorm:"comment:更新时间"`
}

func (EnrollmentModel) TableName() string {
	return "enrollments"
}

// ProgressModel GORM学习进度模型
// EnrollmentID唯一索引支撑按选课记录upsert
type ProgressModel struct {
	ID                 uint      `gorm:"primaryKey"`
	ProgressID         string    `gorm:"uniqueIndex;size:64;not null;comment:进度业务标识(uuid)"`
	EnrollmentID       string    `gorm:"uniqueIndex;size:64;not null;comment:选课业务标识"`
	LessonsCompleted   int       `gorm:"default:0;comment:已完成课时数"`
	ProgressPercentage int       `gorm:"default:0;comment:进度百分比"`
	CurrentStatus      string    `gorm:"size:16;default:'In Progress';comment:当前状态"`
	CreatedAt          time.Time `gorm:"comment:创建时间"`
	UpdatedAt          time.Time `gorm:"comment:更新时间"`
}

func (ProgressModel) TableName() string {
	return "progress_records"
}

// CertificateModel GORM证书申请模型
type CertificateModel struct {
	ID                uint      `gorm:"primaryKey"`
	RequestID         string    `gorm:"uniqueIndex;size:64;not null;comment:申请业务标识(uuid)"`
	UserID            string    `gorm:"index;size:64;not null;comment:学生用户ID"`
	CourseID          string    `gorm:"index;size:64;not null;comment:课程业务标识"`
	StudentName       string    `gorm:"size:100;comment:学生姓名"`
	StartDate         time.Time `gorm:"comment:开始日期(选课日期)"`
	EndDate           time.Time `gorm:"comment:结束日期(选课日期+课程时长)"`
	SubmissionDate    time.Time `gorm:"comment:提交日期"`
	Progress          int       `gorm:"default:0;comment:提交时进度百分比快照"`
	CertificateIssued bool      `gorm:"default:false;comment:是否已签发"`
	CreatedAt         time.Time `gorm:"comment:创建时间"`
	UpdatedAt         time.Time `gorm:"comment:更新时间"`
}

func (CertificateModel) TableName() string {
	return "certificate_requests"
}

// WebhookEventModel GORM已处理Webhook事件模型(去重账本)
// EventID唯一索引是幂等的根基:重复投递在入账时撞索引
type WebhookEventModel struct {
	ID          uint      `gorm:"primaryKey"`
	EventID     string    `gorm:"uniqueIndex;size:128;not null;comment:网关事件ID"`
	EventType   string    `gorm:"index;size:64;not null;comment:事件类型"`
	ProcessedAt time.Time `gorm:"comment:处理时间"`
}

func (WebhookEventModel) TableName() string {
	return "webhook_events"
}
