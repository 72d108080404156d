package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/ovinet/pkg/clients/notify"
)

type fakeNotifier struct {
	last    notify.SendTextMessageRequest
	sendErr error
}

func (f *fakeNotifier) SendTextMessage(_ context.Context, req notify.SendTextMessageRequest) (*notify.SendTextMessageResponse, error) {
	f.last = req
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &notify.SendTextMessageResponse{}, nil
}

func postNotify(t *testing.T, h *NotifyHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SendMessage(c)
	return w
}

func TestSendMessage_DeliversBody(t *testing.T) {
	notifier := &fakeNotifier{}
	h := NewNotifyHandler(notifier, nil)

	w := postNotify(t, h, `{"to":"34600111222","message":"vaccination moved to friday"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "34600111222", notifier.last.To)
	assert.Equal(t, "vaccination moved to friday", notifier.last.Body)
}

func TestSendMessage_RejectsMissingFields(t *testing.T) {
	notifier := &fakeNotifier{}
	h := NewNotifyHandler(notifier, nil)

	w := postNotify(t, h, `{"to":"34600111222"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, notifier.last.To)
}

func TestSendMessage_UpstreamFailureIsBadGateway(t *testing.T) {
	notifier := &fakeNotifier{sendErr: errors.New("api unreachable")}
	h := NewNotifyHandler(notifier, nil)

	w := postNotify(t, h, `{"to":"34600111222","message":"hello"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}
