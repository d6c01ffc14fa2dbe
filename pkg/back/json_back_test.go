package back

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"ReviewHub/pkg/xerr"

	"github.com/gin-gonic/gin"
)

func TestResult(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		data interface{}
		err  error
		code int
		msg  string
	}{
		{"success", gin.H{"ok": true}, nil, xerr.OK, "Success"},
		{"code error", nil, xerr.ErrNotFound, xerr.NotFound, xerr.ErrNotFound.Message},
		{"wrapped code error", nil, fmt.Errorf("load: %w", xerr.ErrConflict), xerr.Conflict, xerr.ErrConflict.Message},
		{"plain error", nil, errors.New("db down"), xerr.InternalServerError, xerr.ErrServerError.Message},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Result(c, tt.data, tt.err)

			var resp Response
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatal(err)
			}
			if resp.Code != tt.code || resp.Message != tt.msg {
				t.Errorf("Result() = %+v, want code %d message %q", resp, tt.code, tt.msg)
			}
		})
	}
}

func TestAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Abort(c, xerr.ErrUnauthorized)
	if !c.IsAborted() {
		t.Error("Abort() did not stop the chain")
	}
}
