package payment

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/xiebiao/edubook/internal/domain/course"
	"github.com/xiebiao/edubook/internal/domain/learning"
	"github.com/xiebiao/edubook/internal/domain/payment"
	"github.com/xiebiao/edubook/internal/domain/purchase"
)

// 测试说明:课程购买回调与订单回调同链路,
// 区别是成功的副作用——报名(花名册+选课记录)而不是库存结转

type fakePurchaseRepo struct {
	purchases map[string]*purchase.Purchase
}

func newFakePurchaseRepo(purchases ...*purchase.Purchase) *fakePurchaseRepo {
	repo := &fakePurchaseRepo{purchases: make(map[string]*purchase.Purchase)}
	for _, p := range purchases {
		repo.purchases[p.PurchaseID] = p
	}
	return repo
}

func (r *fakePurchaseRepo) Create(ctx context.Context, p *purchase.Purchase) error {
	r.purchases[p.PurchaseID] = p
	return nil
}

func (r *fakePurchaseRepo) FindByPurchaseID(ctx context.Context, purchaseID string) (*purchase.Purchase, error) {
	p, ok := r.purchases[purchaseID]
	if !ok {
		return nil, purchase.ErrPurchaseNotFound
	}
	return p, nil
}

func (r *fakePurchaseRepo) Update(ctx context.Context, p *purchase.Purchase) error {
	r.purchases[p.PurchaseID] = p
	return nil
}

func (r *fakePurchaseRepo) ListCompletedByCourseIDs(ctx context.Context, courseIDs []string) ([]*purchase.Purchase, error) {
	return nil, nil
}

func (r *fakePurchaseRepo) DeleteByCourseID(ctx context.Context, courseID string) error { return nil }

type fakeCourseRepo struct {
	courses map[string]*course.Course
	updates int
}

func newFakeCourseRepo(courses ...*course.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: make(map[string]*course.Course)}
	for _, c := range courses {
		repo.courses[c.CourseID] = c
	}
	return repo
}

func (r *fakeCourseRepo) Create(ctx context.Context, c *course.Course) error { return nil }

func (r *fakeCourseRepo) FindByCourseID(ctx context.Context, courseID string) (*course.Course, error) {
	c, ok := r.courses[courseID]
	if !ok {
		return nil, course.ErrCourseNotFound
	}
	return c, nil
}

func (r *fakeCourseRepo) ListByEducator(ctx context.Context, educatorID string) ([]*course.Course, error) {
	return nil, nil
}

func (r *fakeCourseRepo) List(ctx context.Context) ([]*course.Course, error) { return nil, nil }

func (r *fakeCourseRepo) Update(ctx context.Context, c *course.Course) error {
	r.updates++
	r.courses[c.CourseID] = c
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, courseID string) error { return nil }

type fakeEnrollmentRepo struct {
	enrollments []*learning.Enrollment
}

func (r *fakeEnrollmentRepo) Create(ctx context.Context, e *learning.Enrollment) error {
	r.enrollments = append(r.enrollments, e)
	return nil
}

func (r *fakeEnrollmentRepo) FindByEnrollmentID(ctx context.Context, enrollmentID string) (*learning.Enrollment, error) {
	return nil, learning.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) FindByUserAndCourse(ctx context.Context, userID, courseID string) (*learning.Enrollment, error) {
	return nil, learning.ErrEnrollmentNotFound
}

func (r *fakeEnrollmentRepo) ListByUser(ctx context.Context, userID string) ([]*learning.Enrollment, error) {
	return nil, nil
}

func coursePayload(t *testing.T, eventID, eventType, purchaseID string) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]interface{}{
		"id":   eventID,
		"type": eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "cs_test_2",
				"metadata": map[string]string{"purchaseId": purchaseID},
			},
		},
	})
	if err != nil {
		t.Fatalf("构造事件失败: %v", err)
	}
	return payload
}

func newCourseWebhookFixture(t *testing.T) (*CourseWebhookUseCase, *fakePurchaseRepo, *fakeCourseRepo, *fakeEnrollmentRepo, *fakePublisher) {
	t.Helper()
	c, err := course.NewCourse("c1", "Go入门", "", 9900, 10, "", "edu_1", 30)
	if err != nil {
		t.Fatalf("构造课程失败: %v", err)
	}

	purchaseRepo := newFakePurchaseRepo(purchase.NewPurchase("pur_1", "u1", "c1", 8910))
	courseRepo := newFakeCourseRepo(c)
	enrollmentRepo := &fakeEnrollmentRepo{}
	publisher := &fakePublisher{}

	uc := NewCourseWebhookUseCase(
		&fakeVerifier{validSignature: validSig},
		newFakeLedger(), purchaseRepo, courseRepo, enrollmentRepo,
		passthroughTx{}, publisher)
	return uc, purchaseRepo, courseRepo, enrollmentRepo, publisher
}

func TestCourseWebhookCompletedEnrollsStudent(t *testing.T) {
	uc, purchaseRepo, courseRepo, enrollmentRepo, publisher := newCourseWebhookFixture(t)

	payload := coursePayload(t, "evt_1", payment.EventCheckoutCompleted, "pur_1")
	if err := uc.Execute(context.Background(), payload, validSig); err != nil {
		t.Fatalf("回调处理应成功: %v", err)
	}

	if purchaseRepo.purchases["pur_1"].Status != purchase.StatusCompleted {
		t.Errorf("购买记录应完成, 实际%s", purchaseRepo.purchases["pur_1"].Status)
	}

	c := courseRepo.courses["c1"]
	if len(c.EnrolledStudents) != 1 || c.EnrolledStudents[0] != "u1" {
		t.Errorf("学生应进花名册: %v", c.EnrolledStudents)
	}

	if len(enrollmentRepo.enrollments) != 1 {
		t.Fatalf("应创建1条选课记录, 实际%d", len(enrollmentRepo.enrollments))
	}
	e := enrollmentRepo.enrollments[0]
	if e.UserID != "u1" || e.CourseID != "c1" {
		t.Errorf("选课记录异常: %+v", e)
	}

	if len(publisher.published) != 1 || publisher.published[0] != "purchase.completed" {
		t.Errorf("应发布purchase.completed事件, 实际%v", publisher.published)
	}
}

func TestCourseWebhookRedeliveryEnrollsOnce(t *testing.T) {
	uc, _, courseRepo, enrollmentRepo, _ := newCourseWebhookFixture(t)

	payload := coursePayload(t, "evt_1", payment.EventCheckoutCompleted, "pur_1")
	if err := uc.Execute(context.Background(), payload, validSig); err != nil {
		t.Fatalf("首次投递应成功: %v", err)
	}
	if err := uc.Execute(context.Background(), payload, validSig); err != nil {
		t.Fatalf("重复投递应直接ack: %v", err)
	}

	if len(courseRepo.courses["c1"].EnrolledStudents) != 1 {
		t.Errorf("重复投递不应重复报名: %v", courseRepo.courses["c1"].EnrolledStudents)
	}
	if len(enrollmentRepo.enrollments) != 1 {
		t.Errorf("重复投递不应重复建选课记录, 实际%d条", len(enrollmentRepo.enrollments))
	}
}

func TestCourseWebhookExpiredFailsPurchase(t *testing.T) {
	uc, purchaseRepo, courseRepo, enrollmentRepo, publisher := newCourseWebhookFixture(t)

	payload := coursePayload(t, "evt_2", payment.EventCheckoutExpired, "pur_1")
	if err := uc.Execute(context.Background(), payload, validSig); err != nil {
		t.Fatalf("过期回调应处理成功: %v", err)
	}

	if purchaseRepo.purchases["pur_1"].Status != purchase.StatusFailed {
		t.Errorf("购买记录应失败, 实际%s", purchaseRepo.purchases["pur_1"].Status)
	}
	if len(courseRepo.courses["c1"].EnrolledStudents) != 0 {
		t.Error("过期购买不应报名")
	}
	if len(enrollmentRepo.enrollments) != 0 {
		t.Error("过期购买不应建选课记录")
	}
	if len(publisher.published) != 0 {
		t.Error("过期购买不应发布MQ事件")
	}
}
