package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 订单模块集成测试
//
// 覆盖的关键点:
// 1. 下单返回托管支付页地址,订单停在pending
// 2. 预占库存:下单后可售余量立刻减少,但未支付前在架库存不动
// 3. 并发下单不超卖(原子条件UPDATE)
// 4. 签名合法的支付回调把订单推到completed并结转库存

// TestOrderCreate 测试下单
func TestOrderCreate(t *testing.T) {
	base := BaseURL(t)
	token := AdminToken(t)

	t.Run("正常下单", func(t *testing.T) {
		bookID := CreateTestBook(t, token, "《订单测试图书》", 8900, 10)

		resp := PostJSON(t, base+"/orders", map[string]interface{}{
			"userId":   TestUserID("buyer"),
			"userName": "集成测试买家",
			"items": []map[string]interface{}{
				{"bookId": bookID, "quantity": 3},
			},
			"totalAmount": 3 * 8900,
		}, "")
		require.Equal(t, 0, resp.Code, "下单应该成功: %s", resp.Message)

		var data OrderData
		require.NoError(t, json.Unmarshal(resp.Data, &data), "解析下单响应失败")
		assert.Equal(t, int64(3*8900), data.Total, "总金额应按数据库价格计算")
		assert.Equal(t, "pending", data.Status, "新订单应停在pending等回调")
		assert.NotEmpty(t, data.SessionURL, "应返回支付页跳转地址")

		// 可售余量已扣除预占
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", base, bookID), "")
		require.Equal(t, 0, bookResp.Code)
		var bookData BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
		assert.Equal(t, 7, bookData.Stock, "下单后可售余量应为10-3=7")
	})

	t.Run("金额不一致拒单", func(t *testing.T) {
		bookID := CreateTestBook(t, token, "《改价测试图书》", 8900, 10)

		resp := PostJSON(t, base+"/orders", map[string]interface{}{
			"userId":   TestUserID("buyer"),
			"userName": "集成测试买家",
			"items": []map[string]interface{}{
				{"bookId": bookID, "quantity": 1},
			},
			"totalAmount": 1, // 前端改价
		}, "")
		assert.NotEqual(t, 0, resp.Code, "金额不一致应拒单")
	})

	t.Run("库存不足拒单", func(t *testing.T) {
		bookID := CreateTestBook(t, token, "《缺货测试图书》", 8900, 2)

		resp := PostJSON(t, base+"/orders", map[string]interface{}{
			"userId":   TestUserID("buyer"),
			"userName": "集成测试买家",
			"items": []map[string]interface{}{
				{"bookId": bookID, "quantity": 5},
			},
		}, "")
		assert.NotEqual(t, 0, resp.Code, "库存不足应拒单")

		// 失败下单不留预占
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", base, bookID), "")
		var bookData BookData
		require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
		assert.Equal(t, 2, bookData.Stock, "失败下单不应占用库存")
	})
}

// TestOrderConcurrency 并发下单防超卖
// 库存5,10个并发请求各买1本,应恰好5成5败
func TestOrderConcurrency(t *testing.T) {
	base := BaseURL(t)
	token := AdminToken(t)
	bookID := CreateTestBook(t, token, "《并发测试图书》", 8900, 5)

	const workers = 10
	var wg sync.WaitGroup
	results := make(chan int, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			resp := PostJSON(t, base+"/orders", map[string]interface{}{
				"userId":   TestUserID(fmt.Sprintf("concurrent_%d", n)),
				"userName": "并发测试买家",
				"items": []map[string]interface{}{
					{"bookId": bookID, "quantity": 1},
				},
			}, "")
			results <- resp.Code
		}(i)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for code := range results {
		if code == 0 {
			succeeded++
		}
	}
	assert.Equal(t, 5, succeeded, "库存5只应成功5单")

	bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", base, bookID), "")
	var bookData BookData
	require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
	assert.Equal(t, 0, bookData.Stock, "可售余量应清零")
}

// TestOrderWebhookCompletes 签名回调驱动订单完成
func TestOrderWebhookCompletes(t *testing.T) {
	base := BaseURL(t)
	token := AdminToken(t)
	bookID := CreateTestBook(t, token, "《回调测试图书》", 8900, 10)

	resp := PostJSON(t, base+"/orders", map[string]interface{}{
		"userId":   TestUserID("webhook_buyer"),
		"userName": "回调测试买家",
		"items": []map[string]interface{}{
			{"bookId": bookID, "quantity": 2},
		},
	}, "")
	require.Equal(t, 0, resp.Code, "下单应该成功: %s", resp.Message)

	var data OrderData
	require.NoError(t, json.Unmarshal(resp.Data, &data))

	event := map[string]interface{}{
		"id":   "evt_it_" + data.OrderNo,
		"type": "checkout.session.completed",
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":       "cs_it_" + data.OrderNo,
				"metadata": map[string]string{"orderId": data.OrderNo},
			},
		},
	}

	status, body := PostSignedWebhook(t, base+"/orders/webhook", event)
	require.Equal(t, 200, status, "回调应被接受: %s", string(body))

	// 重复投递同一事件:仍然200,库存只扣一次
	status, body = PostSignedWebhook(t, base+"/orders/webhook", event)
	require.Equal(t, 200, status, "重复投递应直接ack: %s", string(body))

	bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", base, bookID), "")
	var bookData BookData
	require.NoError(t, json.Unmarshal(bookResp.Data, &bookData))
	assert.Equal(t, 8, bookData.Stock, "支付完成后可售余量应为10-2=8")
}
