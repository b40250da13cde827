package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xiebiao/edubook/internal/infrastructure/payment"
)

// 集成测试辅助工具
// 测试目标是一个已经跑起来的服务实例,通过环境变量指定:
//
//	EDUBOOK_TEST_BASE_URL             服务地址,如 http://localhost:8080/api
//	EDUBOOK_TEST_ADMIN_EMAIL          管理员邮箱(默认admin@example.com)
//	EDUBOOK_TEST_ADMIN_PASSWORD       管理员密码(默认admin123)
//	EDUBOOK_TEST_ORDER_WEBHOOK_SECRET 订单Webhook签名密钥(配了才跑回调用例)
//
// 未配置EDUBOOK_TEST_BASE_URL时整个包跳过,避免单元测试流水线误跑

const requestTimeout = 10 * time.Second

// BaseURL 返回测试目标地址,未配置时跳过当前测试
func BaseURL(t *testing.T) string {
	t.Helper()
	base := os.Getenv("EDUBOOK_TEST_BASE_URL")
	if base == "" {
		t.Skip("未配置EDUBOOK_TEST_BASE_URL,跳过集成测试")
	}
	return base
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	BookID   uint   `json:"book_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Stock    int    `json:"stock"`
	ImageURL string `json:"image_url"`
}

// OrderData 下单响应数据
type OrderData struct {
	OrderID    uint   `json:"order_id"`
	OrderNo    string `json:"order_no"`
	Total      int64  `json:"total"`
	Status     string `json:"status"`
	SessionURL string `json:"session_url"`
}

// LoginData 管理员登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// PostJSON 发送POST请求并解析统一响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return doRequest(t, req)
}

// GetJSON 发送GET请求并解析统一响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return doRequest(t, req)
}

// PostForm 发送multipart表单请求(图书/课程的新增走表单)
func PostForm(t *testing.T, url string, fields map[string]string, token string) *Response {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v), "写入表单字段失败")
	}
	require.NoError(t, writer.Close(), "关闭表单失败")

	req, err := http.NewRequest("POST", url, &buf)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return doRequest(t, req)
}

func doRequest(t *testing.T, req *http.Request) *Response {
	t.Helper()
	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))
	return &result
}

// AdminToken 管理员登录并返回访问令牌
func AdminToken(t *testing.T) string {
	t.Helper()
	email := os.Getenv("EDUBOOK_TEST_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("EDUBOOK_TEST_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	resp := PostJSON(t, BaseURL(t)+"/admin/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, 0, resp.Code, "管理员登录失败: %s", resp.Message)

	var data LoginData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析登录响应失败")
	return data.AccessToken
}

// CreateTestBook 新增测试图书并返回图书ID
func CreateTestBook(t *testing.T, token, name string, priceFen int64, stock int) uint {
	t.Helper()
	resp := PostForm(t, BaseURL(t)+"/books", map[string]string{
		"name":   name,
		"author": "集成测试作者",
		"price":  fmt.Sprintf("%d", priceFen),
		"stock":  fmt.Sprintf("%d", stock),
		"notes":  "集成测试数据",
	}, token)
	require.Equal(t, 0, resp.Code, "新增图书失败: %s", resp.Message)

	var data BookData
	require.NoError(t, json.Unmarshal(resp.Data, &data), "解析图书响应失败")
	return data.BookID
}

// TestUserID 生成唯一的测试用户标识
func TestUserID(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

// PostSignedWebhook 向Webhook端点投递一个带合法签名的事件
// 需要配置EDUBOOK_TEST_ORDER_WEBHOOK_SECRET,未配置时跳过
func PostSignedWebhook(t *testing.T, url string, event map[string]interface{}) (int, []byte) {
	t.Helper()
	secret := os.Getenv("EDUBOOK_TEST_ORDER_WEBHOOK_SECRET")
	if secret == "" {
		t.Skip("未配置EDUBOOK_TEST_ORDER_WEBHOOK_SECRET,跳过回调用例")
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err, "序列化事件失败")

	ts := time.Now().Unix()
	header := fmt.Sprintf("t=%d,v1=%s", ts, payment.ComputeSignature(secret, ts, payload))

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(payload))
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("stripe-signature", header)

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送Webhook请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")
	return resp.StatusCode, body
}
