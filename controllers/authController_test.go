package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"civicvoice-be/apperr"
	"civicvoice-be/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]*models.User{}}
}

func (s *fakeUserStore) GetOrCreate(_ context.Context, mobile string) (*models.User, error) {
	if u, ok := s.users[mobile]; ok {
		return u, nil
	}
	u := &models.User{ID: primitive.NewObjectID(), Mobile: mobile}
	s.users[mobile] = u
	return u, nil
}

func (s *fakeUserStore) GetByMobile(_ context.Context, mobile string) (*models.User, error) {
	u, ok := s.users[mobile]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	return u, nil
}

func (s *fakeUserStore) byID(id primitive.ObjectID) *models.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *fakeUserStore) SetOTP(_ context.Context, id primitive.ObjectID, hash string, expires time.Time) error {
	u := s.byID(id)
	if u == nil {
		return apperr.New(apperr.NotFound, "User not found")
	}
	u.OTPHash = hash
	u.OTPExpires = &expires
	return nil
}

func (s *fakeUserStore) ClearOTP(_ context.Context, id primitive.ObjectID) error {
	u := s.byID(id)
	if u == nil {
		return apperr.New(apperr.NotFound, "User not found")
	}
	u.OTPHash = ""
	u.OTPExpires = nil
	return nil
}

// recordingNotifier captures outgoing texts so tests can read the code the
// citizen would have received.
type recordingNotifier struct {
	lastSMS string
	smsErr  error
}

func (n *recordingNotifier) SendEmail(context.Context, string, string, string) error { return nil }
func (n *recordingNotifier) SendSMS(_ context.Context, _ string, body string) error {
	if n.smsErr != nil {
		return n.smsErr
	}
	n.lastSMS = body
	return nil
}

var otpPattern = regexp.MustCompile(`\d{6}`)

func newOTPRouter(users *fakeUserStore, notifier *recordingNotifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ctrl := NewAuthController(users, notifier, []byte("test-secret"))
	r.POST("/api/auth/request-otp", ctrl.RequestOTP)
	r.POST("/api/auth/verify-otp", ctrl.VerifyOTP)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func requestOTP(t *testing.T, r *gin.Engine, notifier *recordingNotifier, mobile string) string {
	t.Helper()
	w := postJSON(t, r, "/api/auth/request-otp", map[string]string{"mobile": mobile})
	require.Equal(t, http.StatusOK, w.Code)
	code := otpPattern.FindString(notifier.lastSMS)
	require.Len(t, code, 6)
	return code
}

func TestVerifyOTPFlow(t *testing.T) {
	t.Run("correct code verifies once and cannot be replayed", func(t *testing.T) {
		users := newFakeUserStore()
		notifier := &recordingNotifier{}
		r := newOTPRouter(users, notifier)

		code := requestOTP(t, r, notifier, "9876543210")

		w := postJSON(t, r, "/api/auth/verify-otp", map[string]string{"mobile": "9876543210", "otp": code})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "token")

		// The stored hash is gone after a successful verification.
		assert.Empty(t, users.users["9876543210"].OTPHash)
		assert.Nil(t, users.users["9876543210"].OTPExpires)

		w = postJSON(t, r, "/api/auth/verify-otp", map[string]string{"mobile": "9876543210", "otp": code})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired OTP")
	})

	t.Run("wrong code is rejected and stays pending", func(t *testing.T) {
		users := newFakeUserStore()
		notifier := &recordingNotifier{}
		r := newOTPRouter(users, notifier)

		code := requestOTP(t, r, notifier, "9876543210")
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		w := postJSON(t, r, "/api/auth/verify-otp", map[string]string{"mobile": "9876543210", "otp": wrong})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, users.users["9876543210"].OTPHash)
	})

	t.Run("expired code is rejected", func(t *testing.T) {
		users := newFakeUserStore()
		notifier := &recordingNotifier{}
		r := newOTPRouter(users, notifier)

		code := requestOTP(t, r, notifier, "9876543210")
		stale := time.Now().Add(-time.Minute)
		users.users["9876543210"].OTPExpires = &stale

		w := postJSON(t, r, "/api/auth/verify-otp", map[string]string{"mobile": "9876543210", "otp": code})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid or expired OTP")
	})

	t.Run("unknown mobile is NotFound", func(t *testing.T) {
		r := newOTPRouter(newFakeUserStore(), &recordingNotifier{})

		w := postJSON(t, r, "/api/auth/verify-otp", map[string]string{"mobile": "9876543210", "otp": "123456"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRequestOTP(t *testing.T) {
	t.Run("sms delivery failure surfaces to the caller", func(t *testing.T) {
		users := newFakeUserStore()
		notifier := &recordingNotifier{smsErr: errors.New("twilio down")}
		r := newOTPRouter(users, notifier)

		w := postJSON(t, r, "/api/auth/request-otp", map[string]string{"mobile": "9876543210"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Could not send SMS")
	})

	t.Run("dummy numbers are refused", func(t *testing.T) {
		r := newOTPRouter(newFakeUserStore(), &recordingNotifier{})

		w := postJSON(t, r, "/api/auth/request-otp", map[string]string{"mobile": "1234567890"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("a fresh request replaces the previous code", func(t *testing.T) {
		users := newFakeUserStore()
		notifier := &recordingNotifier{}
		r := newOTPRouter(users, notifier)

		requestOTP(t, r, notifier, "9876543210")
		second := requestOTP(t, r, notifier, "9876543210")
		assert.Equal(t, hashOTP(second), users.users["9876543210"].OTPHash)

		w := postJSON(t, r, "/api/auth/verify-otp", map[string]string{
			"mobile": "9876543210",
			"otp":    second,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestMobileRegex(t *testing.T) {
	valid := []string{"9876543210", "+919876543210", "+91 9876543210"}
	for _, m := range valid {
		assert.True(t, mobileRegex.MatchString(m), m)
	}

	invalid := []string{"987654321", "98765432101", "+1 9876543210", "98765abcde", ""}
	for _, m := range invalid {
		assert.False(t, mobileRegex.MatchString(m), m)
	}
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := generateOTP()
		require.NoError(t, err)
		assert.Len(t, otp, 6)
		assert.GreaterOrEqual(t, otp, "100000")
		assert.LessOrEqual(t, otp, "999999")
	}
}

func TestHashOTPIsStableAndOpaque(t *testing.T) {
	a := hashOTP("123456")
	assert.Equal(t, a, hashOTP("123456"))
	assert.NotEqual(t, a, hashOTP("123457"))
	assert.NotContains(t, a, "123456")
	assert.Len(t, a, 64)
}
