package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"ReviewHub/internal/modules/notification/application/service"
	"ReviewHub/internal/modules/notification/domain/notification"
	"ReviewHub/internal/modules/notification/domain/pause"
	"ReviewHub/internal/modules/notification/domain/preference"
	"ReviewHub/internal/modules/notification/domain/reminder"
	"ReviewHub/internal/modules/notification/infrastructure/cache"
	"ReviewHub/internal/modules/notification/infrastructure/persistence"
	"ReviewHub/internal/modules/notification/infrastructure/sender"
	"ReviewHub/pkg/xerr"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handler.db")), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&preference.NotificationPreferences{}, &pause.PauseWindow{}, &notification.Notification{}, &reminder.Reminder{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	snd := sender.New(nil, nil, sender.Config{})
	pauseSvc := service.NewPauseService(persistence.NewPauseRepository(db), snd, nil)
	prefSvc := service.NewPreferenceService(persistence.NewPreferenceRepository(db), cache.NewPreferenceCache(nil, 0), pauseSvc, nil)
	dispatchSvc := service.NewDispatchService(persistence.NewNotificationRepository(db), prefSvc, snd, 10, nil)
	reminderSvc := service.NewReminderService(persistence.NewReminderRepository(db), prefSvc, snd, 3, 10, 0, nil)

	prefH := NewPreferenceHandler(prefSvc)
	pauseH := NewPauseHandler(pauseSvc)
	notifH := NewNotificationHandler(dispatchSvc)
	reminderH := NewReminderHandler(reminderSvc)

	r := gin.New()
	// 测试里用请求头模拟鉴权中间件写入的 uuid
	r.Use(func(c *gin.Context) {
		c.Set("uuid", c.GetHeader("X-Test-User"))
		c.Next()
	})
	r.GET("/notification/preferences", prefH.Get)
	r.PUT("/notification/preferences", prefH.Update)
	r.POST("/notification/preferences/reset", prefH.Reset)
	r.POST("/notification/preferences/check", prefH.Check)
	r.GET("/notification/pause", pauseH.Status)
	r.POST("/notification/pause", pauseH.Pause)
	r.DELETE("/notification/pause", pauseH.Resume)
	r.POST("/notification/submit", notifH.Submit)
	r.POST("/internal/notification/submit", notifH.SubmitForUser)
	r.GET("/notification/list", notifH.List)
	r.POST("/notification/read", notifH.MarkRead)
	r.POST("/reminder", reminderH.Create)
	r.GET("/reminder/list", reminderH.List)
	r.GET("/reminder/:id", reminderH.Get)
	r.DELETE("/reminder/:id", reminderH.Delete)
	return r
}

func do(t *testing.T, r http.Handler, method, path, user string, body interface{}) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", user)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return env
}

func TestPreferenceEndpoints(t *testing.T) {
	r := newTestRouter(t)

	env := do(t, r, http.MethodGet, "/notification/preferences", "u1", nil)
	if env.Code != xerr.OK {
		t.Fatalf("GET preferences = %+v", env)
	}
	var p preference.NotificationPreferences
	_ = json.Unmarshal(env.Data, &p)
	if !p.Active || p.MinimumUrgency != preference.UrgencyLow {
		t.Errorf("defaults = %+v", p)
	}

	env = do(t, r, http.MethodPut, "/notification/preferences", "u1", map[string]interface{}{
		"minimumUrgency": "high",
		"typeSettings": map[string]interface{}{
			"overdue-review": map[string]interface{}{"sendHour": "07:30"},
		},
	})
	if env.Code != xerr.OK {
		t.Fatalf("PUT preferences = %+v", env)
	}
	_ = json.Unmarshal(env.Data, &p)
	if p.MinimumUrgency != preference.UrgencyHigh || p.TypeSettings.OverdueReview.SendHour != "07:30" {
		t.Errorf("updated = %+v", p)
	}

	env = do(t, r, http.MethodPut, "/notification/preferences", "u1", map[string]interface{}{
		"typeSettings": map[string]interface{}{
			"overdue-review": map[string]interface{}{"frequency": "hourly"},
		},
	})
	if env.Code != xerr.BadRequest || env.Message != `unknown frequency "hourly" for overdue-review` {
		t.Errorf("PUT invalid = %+v", env)
	}

	env = do(t, r, http.MethodPost, "/notification/preferences/check", "u1", map[string]string{
		"notificationType": "pending-review",
		"urgency":          "medium",
	})
	var d struct {
		Allowed    bool   `json:"allowed"`
		ReasonCode string `json:"reasonCode"`
	}
	_ = json.Unmarshal(env.Data, &d)
	if env.Code != xerr.OK || d.Allowed || d.ReasonCode != "URGENCY_BELOW_MINIMUM" {
		t.Errorf("check = %+v %+v", env, d)
	}

	env = do(t, r, http.MethodPost, "/notification/preferences/check", "u1", map[string]string{"notificationType": "pending-review"})
	if env.Code != xerr.BadRequest {
		t.Errorf("check without urgency = %+v", env)
	}

	env = do(t, r, http.MethodPost, "/notification/preferences/reset", "u1", nil)
	_ = json.Unmarshal(env.Data, &p)
	if env.Code != xerr.OK || p.MinimumUrgency != preference.UrgencyLow {
		t.Errorf("reset = %+v", env)
	}
}

func TestPauseEndpoints(t *testing.T) {
	r := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/notification/pause", "u1", nil)
	var st struct {
		Paused bool       `json:"paused"`
		Until  *time.Time `json:"until"`
	}
	_ = json.Unmarshal(env.Data, &st)
	if env.Code != xerr.OK || !st.Paused || st.Until != nil {
		t.Fatalf("indefinite pause = %+v %+v", env, st)
	}

	env = do(t, r, http.MethodPost, "/notification/pause", "u1", map[string]interface{}{
		"startAt": time.Now().UTC().Format(time.RFC3339),
		"endAt":   time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
	})
	if env.Code != xerr.BadRequest || env.Message != "end must be after start" {
		t.Errorf("invalid pause = %+v", env)
	}

	var res struct {
		Resumed bool `json:"resumed"`
		Status  struct {
			Paused bool `json:"paused"`
		} `json:"status"`
	}
	env = do(t, r, http.MethodDelete, "/notification/pause", "u1", nil)
	_ = json.Unmarshal(env.Data, &res)
	if env.Code != xerr.OK || !res.Resumed || res.Status.Paused {
		t.Errorf("resume = %+v %+v", env, res)
	}
	env = do(t, r, http.MethodDelete, "/notification/pause", "u1", nil)
	_ = json.Unmarshal(env.Data, &res)
	if env.Code != xerr.OK || res.Resumed {
		t.Errorf("second resume = %+v %+v", env, res)
	}
}

func TestReminderEndpoints(t *testing.T) {
	r := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/reminder", "u1", map[string]interface{}{
		"title":        "review PR #42",
		"scheduledFor": time.Now().UTC().Add(time.Hour).Format(time.RFC3339),
		"urgency":      "high",
	})
	if env.Code != xerr.OK {
		t.Fatalf("create = %+v", env)
	}
	var item struct {
		ReminderId string `json:"reminderId"`
		Status     string `json:"status"`
	}
	_ = json.Unmarshal(env.Data, &item)
	if item.ReminderId == "" || item.Status != "pending" {
		t.Fatalf("item = %+v", item)
	}

	if env := do(t, r, http.MethodGet, "/reminder/"+item.ReminderId, "u2", nil); env.Code != xerr.NotFound {
		t.Errorf("get other user = %+v", env)
	}
	env = do(t, r, http.MethodGet, "/reminder/list", "u1", nil)
	var list []json.RawMessage
	_ = json.Unmarshal(env.Data, &list)
	if env.Code != xerr.OK || len(list) != 1 {
		t.Errorf("list = %+v", env)
	}
	if env := do(t, r, http.MethodDelete, "/reminder/"+item.ReminderId, "u1", nil); env.Code != xerr.OK {
		t.Errorf("delete = %+v", env)
	}

	if env := do(t, r, http.MethodPost, "/reminder", "u1", map[string]string{"title": "missing time"}); env.Code != xerr.BadRequest {
		t.Errorf("create without scheduledFor = %+v", env)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	r := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/notification/submit", "u1", map[string]string{
		"notificationType": "new-review-received",
		"title":            "you got a review",
	})
	if env.Code != xerr.OK {
		t.Fatalf("submit = %+v", env)
	}
	env = do(t, r, http.MethodGet, "/notification/list", "u1", nil)
	var list struct {
		Items  []json.RawMessage `json:"items"`
		Unread int64             `json:"unread"`
	}
	_ = json.Unmarshal(env.Data, &list)
	// 尚未派发，列表为空
	if env.Code != xerr.OK || len(list.Items) != 0 || list.Unread != 0 {
		t.Errorf("list = %+v %+v", env, list)
	}
	if env := do(t, r, http.MethodPost, "/notification/read", "u1", map[string]string{"notificationId": "missing"}); env.Code != xerr.NotFound {
		t.Errorf("read missing = %+v", env)
	}
}

func TestSubmitTargetsOnlyCaller(t *testing.T) {
	r := newTestRouter(t)
	body := map[string]string{
		"userId":           "u2",
		"notificationType": "new-review-received",
		"title":            "you got a review",
	}

	var n struct {
		UserId string `json:"userId"`
	}
	env := do(t, r, http.MethodPost, "/notification/submit", "u1", body)
	_ = json.Unmarshal(env.Data, &n)
	if env.Code != xerr.OK || n.UserId != "u1" {
		t.Errorf("user submit = %+v, stored for %q, want u1", env, n.UserId)
	}

	n.UserId = ""
	env = do(t, r, http.MethodPost, "/internal/notification/submit", "", body)
	_ = json.Unmarshal(env.Data, &n)
	if env.Code != xerr.OK || n.UserId != "u2" {
		t.Errorf("service submit = %+v, stored for %q, want u2", env, n.UserId)
	}

	delete(body, "userId")
	if env := do(t, r, http.MethodPost, "/internal/notification/submit", "", body); env.Code != xerr.BadRequest {
		t.Errorf("service submit without userId = %+v", env)
	}
}
