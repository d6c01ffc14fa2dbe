package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ReviewHub/internal/config"
	"ReviewHub/internal/modules/notification/application/dto/request"
	"ReviewHub/internal/modules/notification/application/dto/respond"
	"ReviewHub/internal/modules/notification/domain/notification"
	"ReviewHub/internal/modules/notification/domain/pause"
	"ReviewHub/pkg/util/myjwt"
	"ReviewHub/pkg/ws"
	"ReviewHub/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type stubPauseService struct {
	lastUser string
}

func (s *stubPauseService) Pause(context.Context, string, request.PauseRequest) (*pause.PauseWindow, error) {
	return nil, nil
}

func (s *stubPauseService) Resume(context.Context, string) (*pause.PauseWindow, bool, error) {
	return nil, false, nil
}

func (s *stubPauseService) Status(_ context.Context, userID string) (*respond.PauseStatusRespond, error) {
	s.lastUser = userID
	return &respond.PauseStatusRespond{Paused: false}, nil
}

func (s *stubPauseService) Current(context.Context, string, time.Time) (*pause.PauseWindow, error) {
	return nil, nil
}

type stubDispatchService struct {
	submittedFor string
}

func (s *stubDispatchService) Submit(_ context.Context, req request.SubmitNotificationRequest) (*notification.Notification, error) {
	s.submittedFor = req.UserId
	return &notification.Notification{UserId: req.UserId}, nil
}

func (s *stubDispatchService) DispatchPending(context.Context) (int, error) { return 0, nil }

func (s *stubDispatchService) List(context.Context, string, int) (*respond.NotificationListRespond, error) {
	return &respond.NotificationListRespond{}, nil
}

func (s *stubDispatchService) MarkRead(context.Context, string, string) error { return nil }

func (s *stubDispatchService) UnreadCount(context.Context, string) (int64, error) { return 0, nil }

func newTestRouter(t *testing.T) (*gin.Engine, *stubPauseService) {
	t.Helper()
	stub := &stubPauseService{}
	return buildRouter(t, stub, &stubDispatchService{}), stub
}

func buildRouter(t *testing.T, pauseSvc *stubPauseService, dispatchSvc *stubDispatchService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	conf := config.Default()
	conf.JwtConfig.Key = "test-secret"
	conf.MainConfig.ServiceToken = "svc-secret"
	config.SetConfig(conf)
	t.Cleanup(func() { config.SetConfig(nil) })

	return NewRouter(conf, Services{Pause: pauseSvc, Dispatch: dispatchSvc, Hub: ws.NewHub()})
}

func TestHealthzAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/healthz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, w.Code)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	r, stub := newTestRouter(t)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", xerr.Unauthorized},
		{"not bearer", "Basic abc", xerr.Unauthorized},
		{"garbage token", "Bearer not.a.jwt", xerr.Unauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/notification/pause", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			var body struct {
				Code int `json:"code"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			if body.Code != tt.code {
				t.Errorf("code = %d, want %d (%s)", body.Code, tt.code, w.Body.String())
			}
		})
	}
	if stub.lastUser != "" {
		t.Error("handler reached without a valid token")
	}
}

func TestAuthorizedRequestCarriesUser(t *testing.T) {
	r, stub := newTestRouter(t)

	token, err := myjwt.GenerateToken("user-123", "alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/notification/pause", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"paused":false`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if stub.lastUser != "user-123" {
		t.Errorf("uuid = %q, want user-123", stub.lastUser)
	}
}

func TestWebsocketRejectsMissingToken(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wss", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("GET /wss = %d, want 401", w.Code)
	}
}

func TestInternalSubmitRequiresServiceToken(t *testing.T) {
	dispatchStub := &stubDispatchService{}
	r := buildRouter(t, &stubPauseService{}, dispatchStub)
	userToken, err := myjwt.GenerateToken("user-123", "alice")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	body := `{"userId":"u2","notificationType":"new-review-received","title":"hi"}`

	tests := []struct {
		name    string
		headers map[string]string
		code    int
	}{
		{"no token", nil, xerr.Unauthorized},
		{"wrong token", map[string]string{"X-Service-Token": "nope"}, xerr.Unauthorized},
		{"user jwt only", map[string]string{"Authorization": "Bearer " + userToken}, xerr.Unauthorized},
		{"service token", map[string]string{"X-Service-Token": "svc-secret"}, xerr.OK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatchStub.submittedFor = ""
			req := httptest.NewRequest(http.MethodPost, "/internal/notification/submit", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			var resp struct {
				Code int `json:"code"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Code != tt.code {
				t.Errorf("code = %d, want %d (%s)", resp.Code, tt.code, w.Body.String())
			}
			want := ""
			if tt.code == xerr.OK {
				want = "u2"
			}
			if dispatchStub.submittedFor != want {
				t.Errorf("submitted for %q, want %q", dispatchStub.submittedFor, want)
			}
		})
	}
}
