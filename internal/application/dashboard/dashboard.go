// Package dashboard 实现讲师仪表盘聚合用例。
// 所有指标都是请求时对已完成购买记录的纯聚合,不做缓存。
package dashboard

import (
	"context"
	"sort"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/purchase"
	"github.com/xiebiao/edubook/internal/domain/user"
)

// DashboardUseCase 讲师仪表盘用例
type DashboardUseCase struct {
	courseRepo   course.Repository
	purchaseRepo purchase.Repository
	userRepo     user.Repository
}

// NewDashboardUseCase 创建仪表盘用例
func NewDashboardUseCase(
	courseRepo course.Repository,
	purchaseRepo purchase.Repository,
	userRepo user.Repository,
) *DashboardUseCase {
	return &DashboardUseCase{
		courseRepo:   courseRepo,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
	}
}

// DailyRevenue 单日收入(按UTC自然日分桶)
type DailyRevenue struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Revenue int64  `json:"revenue"`
}

// CourseStat 课程统计条目
type CourseStat struct {
	CourseID      string  `json:"course_id"`
	Title         string  `json:"title"`
	Enrollments   int     `json:"enrollments"`
	AverageRating float64 `json:"average_rating"`
}

// DashboardResponse 仪表盘响应DTO
type DashboardResponse struct {
	TotalEarnings int64          `json:"total_earnings"`
	TotalCourses  int            `json:"total_courses"`
	DailyRevenue  []DailyRevenue `json:"daily_revenue"`
	BestCourses   []CourseStat   `json:"best_courses"`
	WeakCourses   []CourseStat   `json:"weak_courses"`
}

// Execute 聚合讲师仪表盘
//
// 收入口径:只统计completed状态的购买,金额是购买时的折后价快照。
// 好课/待改进课的阈值区间有意重叠(报名数恰为3且平均分恰为4的课
// 会同时出现在两个榜单),沿用既有产品口径。
func (uc *DashboardUseCase) Execute(ctx context.Context, educatorID string) (*DashboardResponse, error) {
	courses, err := uc.courseRepo.ListByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.CourseID)
	}

	var purchases []*purchase.Purchase
	if len(courseIDs) > 0 {
		purchases, err = uc.purchaseRepo.ListCompletedByCourseIDs(ctx, courseIDs)
		if err != nil {
			return nil, err
		}
	}

	// 总收入 + 按UTC自然日分桶
	var totalEarnings int64
	revenueByDay := make(map[string]int64)
	for _, p := range purchases {
		totalEarnings += p.Amount
		day := p.CreatedAt.UTC().Format("2006-01-02")
		revenueByDay[day] += p.Amount
	}

	daily := make([]DailyRevenue, 0, len(revenueByDay))
	for day, revenue := range revenueByDay {
		daily = append(daily, DailyRevenue{Date: day, Revenue: revenue})
	}
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date < daily[j].Date })

	return &DashboardResponse{
		TotalEarnings: totalEarnings,
		TotalCourses:  len(courses),
		DailyRevenue:  daily,
		BestCourses:   bestCourses(courses),
		WeakCourses:   weakCourses(courses),
	}, nil
}

// bestCourses 好课榜:报名数≥3且平均分≥3,按报名数降序取前3
func bestCourses(courses []*course.Course) []CourseStat {
	stats := make([]CourseStat, 0)
	for _, c := range courses {
		enrollments := len(c.EnrolledStudents)
		avg := c.AverageRating()
		if enrollments >= 3 && avg >= 3 {
			stats = append(stats, CourseStat{
				CourseID:      c.CourseID,
				Title:         c.Title,
				Enrollments:   enrollments,
				AverageRating: avg,
			})
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Enrollments > stats[j].Enrollments })
	return top3(stats)
}

// weakCourses 待改进榜:报名数≤3或平均分<4,按报名数升序取前3
func weakCourses(courses []*course.Course) []CourseStat {
	stats := make([]CourseStat, 0)
	for _, c := range courses {
		enrollments := len(c.EnrolledStudents)
		avg := c.AverageRating()
		if enrollments <= 3 || avg < 4 {
			stats = append(stats, CourseStat{
				CourseID:      c.CourseID,
				Title:         c.Title,
				Enrollments:   enrollments,
				AverageRating: avg,
			})
		}
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Enrollments < stats[j].Enrollments })
	return top3(stats)
}

func top3(stats []CourseStat) []CourseStat {
	if len(stats) > 3 {
		return stats[:3]
	}
	return stats
}

// EnrolledStudent 已报名学生条目(讲师端花名册)
type EnrolledStudent struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	ImageURL     string `json:"image_url"`
	CourseTitle  string `json:"course_title"`
	PurchaseDate string `json:"purchase_date"`
}

// EnrolledStudents 查询讲师全部课程的已报名学生
// 以完成购买为准,关联用户资料和课程标题
func (uc *DashboardUseCase) EnrolledStudents(ctx context.Context, educatorID string) ([]EnrolledStudent, error) {
	courses, err := uc.courseRepo.ListByEducator(ctx, educatorID)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return []EnrolledStudent{}, nil
	}

	titleByCourseID := make(map[string]string, len(courses))
	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.CourseID)
		titleByCourseID[c.CourseID] = c.Title
	}

	purchases, err := uc.purchaseRepo.ListCompletedByCourseIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(purchases))
	seen := make(map[string]bool)
	for _, p := range purchases {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			userIDs = append(userIDs, p.UserID)
		}
	}

	userByID := make(map[string]*user.User)
	if len(userIDs) > 0 {
		users, err := uc.userRepo.FindByUserIDs(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			userByID[u.UserID] = u
		}
	}

	students := make([]EnrolledStudent, 0, len(purchases))
	for _, p := range purchases {
		entry := EnrolledStudent{
			UserID:       p.UserID,
			CourseTitle:  titleByCourseID[p.CourseID],
			PurchaseDate: p.CreatedAt.Format("2006-01-02"),
		}
		// 用户记录可能尚未同步到,只降级展示不报错
		if u, ok := userByID[p.UserID]; ok {
			entry.Name = u.Name
			entry.ImageURL = u.ImageURL
		}
		students = append(students, entry)
	}
	return students, nil
}
