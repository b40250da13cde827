package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/purchase"
	"github.com/xiebiao/edubook/internal/domain/user"
)

// 测试说明:仪表盘是对已完成购买的纯聚合
// 1. 总收入 = 全部completed购买金额之和
// 2. 日收入按UTC自然日分桶,升序输出
// 3. 好课/待改进课阈值区间有意重叠,两个榜单可能同时收录一门课

type fakeCourseRepo struct {
	courses []*course.Course
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *course.Course) error { return nil }

func (r *fakeCourseRepo) FindByCourseID(ctx context.Context, courseID string) (*course.Course, error) {
	for _, c := range r.courses {
		if c.CourseID == courseID {
			return c, nil
		}
	}
	return nil, course.ErrCourseNotFound
}

func (r *fakeCourseRepo) ListByEducator(ctx context.Context, educatorID string) ([]*course.Course, error) {
	result := make([]*course.Course, 0)
	for _, c := range r.courses {
		if c.EducatorID == educatorID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCourseRepo) List(ctx context.Context) ([]*course.Course, error) {
	return r.courses, nil
}

func (r *fakeCourseRepo) Update(ctx context.Context, c *course.Course) error { return nil }
func (r *fakeCourseRepo) Delete(ctx context.Context, courseID string) error { return nil }

type fakePurchaseRepo struct {
	purchases []*purchase.Purchase
}

func (r *fakePurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error { return nil }

func (r *fakePurchaseRepo) FindByPurchaseID(ctx context.Context, purchaseID string) (*purchase.Purchase, error) {
	return nil, purchase.ErrPurchaseNotFound
}

func (r *fakePurchaseRepo) Update(ctx context.Context, p *purchase.Purchase) error { return nil }

func (r *fakePurchaseRepo) ListCompletedByCourseIDs(ctx context.Context, courseIDs []string) ([]*purchase.Purchase, error) {
	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	result := make([]*purchase.Purchase, 0)
	for _, p := range r.purchases {
		if p.Status == purchase.StatusCompleted && wanted[p.CourseID] {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *fakePurchaseRepo) DeleteByCourseID(ctx context.Context, courseID string) error { return nil }

type fakeUserRepo struct {
	users map[string]*user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) FindByUserID(ctx context.Context, userID string) (*user.User, error) {
	u, ok := r.users[userID]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByUserIDs(ctx context.Context, userIDs []string) ([]*user.User, error) {
	result := make([]*user.User, 0)
	for _, id := range userIDs {
		if u, ok := r.users[id]; ok {
			result = append(result, u)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }
func (r *fakeUserRepo) Delete(ctx context.Context, userID string) error { return nil }

func testCourse(t *testing.T, courseID, title, educatorID string, enrolled []string, ratings []int) *course.Course {
	t.Helper()
	c, err := course.NewCourse(courseID, title, "", 9900, 0, "", educatorID, 30)
	if err != nil {
		t.Fatalf("构造课程失败: %v", err)
	}
	c.EnrolledStudents = enrolled
	for i, r := range ratings {
		c.Ratings = append(c.Ratings, course.Rating{UserID: enrolled[i%len(enrolled)], Rating: r})
	}
	return c
}

func completedPurchase(userID, courseID string, amount int64, createdAt time.Time) *purchase.Purchase {
	p := purchase.NewPurchase("pur_"+userID+"_"+courseID, userID, courseID, amount)
	p.Status = purchase.StatusCompleted
	p.CreatedAt = createdAt
	return p
}

func TestDashboardRevenueAggregation(t *testing.T) {
	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)

	courseRepo := &fakeCourseRepo{courses: []*course.Course{
		testCourse(t, "c1", "Go入门", "edu_1", []string{"u1", "u2"}, nil),
		testCourse(t, "c2", "Go进阶", "edu_1", []string{"u1"}, nil),
	}}
	purchaseRepo := &fakePurchaseRepo{purchases: []*purchase.Purchase{
		completedPurchase("u1", "c1", 1000, day1),
		completedPurchase("u2", "c1", 2000, day1),
		completedPurchase("u1", "c2", 500, day2),
		// pending购买不计入收入
		purchase.NewPurchase("pur_x", "u3", "c1", 9999),
	}}
	uc := NewDashboardUseCase(courseRepo, purchaseRepo, &fakeUserRepo{})

	resp, err := uc.Execute(context.Background(), "edu_1")
	if err != nil {
		t.Fatalf("仪表盘聚合失败: %v", err)
	}

	if resp.TotalEarnings != 3500 {
		t.Errorf("总收入应为3500, 实际%d", resp.TotalEarnings)
	}
	if resp.TotalCourses != 2 {
		t.Errorf("课程数应为2, 实际%d", resp.TotalCourses)
	}

	if len(resp.DailyRevenue) != 2 {
		t.Fatalf("应有2个日收入分桶, 实际%d", len(resp.DailyRevenue))
	}
	// 按日期升序
	if resp.DailyRevenue[0].Date != "2026-08-01" || resp.DailyRevenue[0].Revenue != 3000 {
		t.Errorf("首日分桶异常: %+v", resp.DailyRevenue[0])
	}
	if resp.DailyRevenue[1].Date != "2026-08-02" || resp.DailyRevenue[1].Revenue != 500 {
		t.Errorf("次日分桶异常: %+v", resp.DailyRevenue[1])
	}
}

func TestDashboardCourseRankings(t *testing.T) {
	courseRepo := &fakeCourseRepo{courses: []*course.Course{
		// 报名5人,平均分5:只进好课榜
		testCourse(t, "c1", "热门课", "edu_1", []string{"u1", "u2", "u3", "u4", "u5"}, []int{5, 5, 5}),
		// 报名1人,无评分:只进待改进榜
		testCourse(t, "c2", "冷门课", "edu_1", []string{"u1"}, nil),
		// 报名恰3人,平均分恰4:阈值重叠,同时进两个榜单
		testCourse(t, "c3", "边界课", "edu_1", []string{"u1", "u2", "u3"}, []int{4, 4, 4}),
	}}
	uc := NewDashboardUseCase(courseRepo, &fakePurchaseRepo{}, &fakeUserRepo{})

	resp, err := uc.Execute(context.Background(), "edu_1")
	if err != nil {
		t.Fatalf("仪表盘聚合失败: %v", err)
	}

	bestIDs := make([]string, 0)
	for _, s := range resp.BestCourses {
		bestIDs = append(bestIDs, s.CourseID)
	}
	weakIDs := make([]string, 0)
	for _, s := range resp.WeakCourses {
		weakIDs = append(weakIDs, s.CourseID)
	}

	// 好课榜按报名数降序:c1 > c3
	if len(bestIDs) != 2 || bestIDs[0] != "c1" || bestIDs[1] != "c3" {
		t.Errorf("好课榜异常: %v", bestIDs)
	}
	// 待改进榜按报名数升序:c2 < c3
	if len(weakIDs) != 2 || weakIDs[0] != "c2" || weakIDs[1] != "c3" {
		t.Errorf("待改进榜异常: %v", weakIDs)
	}
}

func TestEnrolledStudentsRoster(t *testing.T) {
	day := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	courseRepo := &fakeCourseRepo{courses: []*course.Course{
		testCourse(t, "c1", "Go入门", "edu_1", []string{"u1"}, nil),
	}}
	purchaseRepo := &fakePurchaseRepo{purchases: []*purchase.Purchase{
		completedPurchase("u1", "c1", 1000, day),
		completedPurchase("u2", "c1", 1000, day),
	}}
	userRepo := &fakeUserRepo{users: map[string]*user.User{
		// u2的资料缺失(身份服务没同步过来),花名册降级为空名字
		"u1": user.NewUser("u1", "u1@example.com", "张三", "zhangsan", ""),
	}}
	uc := NewDashboardUseCase(courseRepo, purchaseRepo, userRepo)

	students, err := uc.EnrolledStudents(context.Background(), "edu_1")
	if err != nil {
		t.Fatalf("查询花名册失败: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("应有2条记录, 实际%d", len(students))
	}

	byUser := make(map[string]EnrolledStudent)
	for _, s := range students {
		byUser[s.UserID] = s
	}
	if byUser["u1"].Name != "张三" || byUser["u1"].CourseTitle != "Go入门" {
		t.Errorf("u1条目异常: %+v", byUser["u1"])
	}
	if byUser["u2"].Name != "" {
		t.Errorf("缺失用户应降级为空名字: %+v", byUser["u2"])
	}
}
