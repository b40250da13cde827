package course

import (
	"time"
)

// Course 课程实体(聚合根)
// DDD设计说明:
// 1. CourseID是对外暴露的uuid业务标识,自增ID仅内部使用
// 2. EnrolledStudents保存已报名学生的外部用户ID,由购买成功回调追加
// 3. Price单位为分,Discount是0-100的百分比折扣
type Course struct {
	ID               uint
	CourseID         string // 业务标识(uuid)
	Title            string
	Description      string
	Price            int64 // 原价(分)
	Discount         int   // 折扣百分比(0-100)
	ThumbnailURL     string
	EducatorID       string   // 讲师用户ID(外部身份标识)
	DurationDays     int      // 课程时长(天),用于证书结束日期推算
	EnrolledStudents []string // 已报名学生用户ID
	Ratings          []Rating
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Rating 课程评分(聚合内子实体)
type Rating struct {
	UserID string
	Rating int // 1-5
}

// NewCourse 创建新课程(工厂方法)
func NewCourse(courseID, title, description string, price int64, discount int, thumbnailURL, educatorID string, durationDays int) (*Course, error) {
	if title == "" {
		return nil, ErrMissingTitle
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if discount < 0 || discount > 100 {
		return nil, ErrInvalidDiscount
	}
	now := time.Now()
	return &Course{
		CourseID:     courseID,
		Title:        title,
		Description:  description,
		Price:        price,
		Discount:     discount,
		ThumbnailURL: thumbnailURL,
		EducatorID:   educatorID,
		DurationDays: durationDays,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// DiscountedPrice 折后价(分)
func (c *Course) DiscountedPrice() int64 {
	return c.Price - c.Price*int64(c.Discount)/100
}

// EnrollStudent 报名学生(购买成功回调时调用)
// 重复报名是幂等的:已存在则不追加
func (c *Course) EnrollStudent(userID string) bool {
	for _, s := range c.EnrolledStudents {
		if s == userID {
			return false
		}
	}
	c.EnrolledStudents = append(c.EnrolledStudents, userID)
	c.UpdatedAt = time.Now()
	return true
}

// IsEnrolled 学生是否已报名
func (c *Course) IsEnrolled(userID string) bool {
	for _, s := range c.EnrolledStudents {
		if s == userID {
			return true
		}
	}
	return false
}

// AverageRating 平均评分,无评分时返回0
func (c *Course) AverageRating() float64 {
	if len(c.Ratings) == 0 {
		return 0
	}
	var sum int
	for _, r := range c.Ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(c.Ratings))
}

// IsOwnedBy 课程是否由指定讲师创建
func (c *Course) IsOwnedBy(educatorID string) bool {
	return c.EducatorID == educatorID
}
