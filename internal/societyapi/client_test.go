package societyapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/auth"
	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

// pngHeader is enough of a PNG file for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) (*Client, *auth.TokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := auth.NewTokenStore(token)
	client, err := New(srv.URL+"/api", creds)
	require.NoError(t, err)
	return client, creds
}

func writeEnvelope(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": status < 300,
		"data":    data,
		"message": message,
	})
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", auth.NewTokenStore(""))
	assert.Error(t, err)
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth, gotRequestID, gotPath string
	client, _ := newTestClient(t, "tok-123", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		writeEnvelope(w, http.StatusOK, []any{}, "")
	})

	items, err := client.ListResidents(context.Background(), url.Values{"status": {"pending"}})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, "/api/admin/users?status=pending", gotPath)
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	var gotAuth string
	var hadAuth bool
	client, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, hadAuth = r.Header["Authorization"]
		writeEnvelope(w, http.StatusOK, map[string]string{"token": "fresh"}, "")
	})

	token, err := client.Login(context.Background(), "42201-1111111-1", "pw")
	require.NoError(t, err)
	assert.Equal(t, "fresh", token)
	assert.Empty(t, gotAuth)
	assert.False(t, hadAuth)
}

func TestLoginSendsCredentials(t *testing.T) {
	var body map[string]string
	var contentType string
	client, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeEnvelope(w, http.StatusOK, map[string]string{"token": "t"}, "")
	})

	_, err := client.Login(context.Background(), "42201-1111111-1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]string{"cnicNumber": "42201-1111111-1", "password": "secret"}, body)
}

func TestUnauthorizedClearsCredentials(t *testing.T) {
	client, creds := newTestClient(t, "stale", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusUnauthorized, nil, "Token expired")
	})
	invalidated := 0
	creds.OnInvalidated(func() { invalidated++ })

	_, err := client.ListComplaints(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, 1, invalidated)

	_, ok := creds.Token()
	assert.False(t, ok)
}

func TestServerMessageSurfaced(t *testing.T) {
	client, creds := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusBadRequest, nil, "User already approved")
	})

	err := client.ApproveResident(context.Background(), "u1")
	require.Error(t, err)
	assert.Equal(t, "User already approved", domain.ServerMessage(err))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, ok := creds.Token()
	assert.True(t, ok, "non-401 errors keep the token")
}

func TestUnsuccessfulEnvelope(t *testing.T) {
	client, _ := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"success":false,"message":"Invalid CNIC or password"}`)
	})

	_, err := client.Login(context.Background(), "x", "y")
	require.Error(t, err)
	assert.Equal(t, "Invalid CNIC or password", domain.ServerMessage(err))
}

func TestCancelledRequest(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListPayments(ctx, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRejectBodies(t *testing.T) {
	tests := []struct {
		name     string
		call     func(*Client) error
		wantPath string
		wantBody string
	}{
		{"resident", func(c *Client) error { return c.RejectResident(context.Background(), "u1", "bad docs") },
			"/api/admin/users/u1/reject", `{"reason":"bad docs"}`},
		{"payment", func(c *Client) error { return c.RejectPayment(context.Background(), "p1", "blurry") },
			"/api/admin/payments/p1/reject", `{"rejectionReason":"blurry"}`},
		{"card suspend", func(c *Client) error { return c.SuspendCard(context.Background(), "c1", "lost") },
			"/api/admin/digital-cards/c1/suspend", `{"suspensionReason":"lost"}`},
		{"guest", func(c *Client) error { return c.RejectGuestRequest(context.Background(), "g1", "no") },
			"/api/admin/guest-requests/g1/reject", `{"adminResponse":"no"}`},
		{"payment approve", func(c *Client) error { return c.ApprovePayment(context.Background(), "p1") },
			"/api/admin/payments/p1/approve", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path, body, method string
			client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
				method = r.Method
				path = r.URL.Path
				b, _ := io.ReadAll(r.Body)
				body = string(b)
				writeEnvelope(w, http.StatusOK, nil, "ok")
			})
			require.NoError(t, tt.call(client))
			assert.Equal(t, http.MethodPut, method)
			assert.Equal(t, tt.wantPath, path)
			assert.JSONEq(t, tt.wantBody, body)
		})
	}
}

func TestGetCardUnwrapsDetail(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{
			"card": map[string]any{"_id": "c1", "cardNumber": "FB-0001", "status": "approved",
				"userId": map[string]any{"_id": "u1", "fullName": "Ayesha Khan", "cnicNumber": "42201-1111111-1"}},
		}, "")
	})

	card, err := client.GetCard(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "FB-0001", card.CardNumber)
	require.NotNil(t, card.Owner)
	assert.Equal(t, "Ayesha Khan", card.Owner.FullName)
}

func TestUserRefAcceptsBareID(t *testing.T) {
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, []any{
			map[string]any{"_id": "p1", "amount": 2500, "status": "submitted", "userId": "u9"},
		}, "")
	})

	payments, err := client.ListPayments(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "u9", payments[0].Owner.ID)
	assert.Equal(t, "2500", payments[0].Amount.String())
}

func TestCreateDealMultipart(t *testing.T) {
	var contentType string
	var fields map[string][]string
	var imageType string
	var calls int32
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		fields = r.MultipartForm.Value
		if files := r.MultipartForm.File["image"]; len(files) == 1 {
			imageType = files[0].Header.Get("Content-Type")
		}
		writeEnvelope(w, http.StatusCreated, nil, "created")
	})

	in := domain.DealInput{Name: "Pizza", Category: "food", Description: "2 for 1", IsFeatured: true}
	err := client.CreateDeal(context.Background(), in, &domain.Upload{Filename: "pizza.png", Data: pngHeader})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data; boundary="))
	assert.NotContains(t, contentType, "application/json")
	assert.Equal(t, []string{"Pizza"}, fields["name"])
	assert.Equal(t, []string{"true"}, fields["isFeatured"])
	assert.NotContains(t, fields, "discount")
	assert.Equal(t, "image/png", imageType)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreateDealRejectsBadImageBeforeSending(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeEnvelope(w, http.StatusCreated, nil, "")
	})

	in := domain.DealInput{Name: "Pizza", Category: "food", Description: "x"}

	err := client.CreateDeal(context.Background(), in, &domain.Upload{Filename: "notes.txt", Data: []byte("plain text")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	big := make([]byte, domain.MaxDealImageSize+1)
	copy(big, pngHeader)
	err = client.CreateDeal(context.Background(), in, &domain.Upload{Filename: "big.png", Data: big})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
