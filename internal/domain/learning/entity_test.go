package learning

import (
	"testing"
	"time"
)

// TestProgress_Advance 测试进度更新与状态联动
func TestProgress_Advance(t *testing.T) {
	p, err := NewProgress("prog-uuid", "enroll-uuid", 3, 30)
	if err != nil {
		t.Fatalf("创建进度失败: %v", err)
	}
	if p.CurrentStatus != ProgressInProgress {
		t.Errorf("30%%进度状态应为In Progress,实际%s", p.CurrentStatus)
	}

	if err := p.Advance(10, 100); err != nil {
		t.Fatalf("更新进度失败: %v", err)
	}
	if p.CurrentStatus != ProgressCompleted {
		t.Errorf("100%%进度状态应为Completed,实际%s", p.CurrentStatus)
	}

	// 回退进度时状态跟随回退
	if err := p.Advance(5, 50); err != nil {
		t.Fatalf("更新进度失败: %v", err)
	}
	if p.CurrentStatus != ProgressInProgress {
		t.Errorf("50%%进度状态应为In Progress,实际%s", p.CurrentStatus)
	}
}

// TestProgress_InvalidPercentage 测试百分比越界
func TestProgress_InvalidPercentage(t *testing.T) {
	if _, err := NewProgress("prog-uuid", "enroll-uuid", 0, 101); err != ErrInvalidPercentage {
		t.Errorf("101%%应返回ErrInvalidPercentage,实际%v", err)
	}

	p, _ := NewProgress("prog-uuid", "enroll-uuid", 0, 0)
	if err := p.Advance(0, -1); err != ErrInvalidPercentage {
		t.Errorf("-1%%应返回ErrInvalidPercentage,实际%v", err)
	}
}

// TestCertificateRequest_ToggleIssued 测试签发状态切换
func TestCertificateRequest_ToggleIssued(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	c := NewCertificateRequest("req-uuid", "user_a", "course-uuid", "张三", start, end, 100)

	if c.CertificateIssued {
		t.Error("新申请默认未签发")
	}
	if got := c.ToggleIssued(); !got {
		t.Error("第一次切换后应为已签发")
	}
	if got := c.ToggleIssued(); got {
		t.Error("第二次切换后应回到未签发")
	}
}
