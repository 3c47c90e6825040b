package translator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMyMemory_Translate(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Good morning & more", r.URL.Query().Get("q"))
		assert.Equal(t, "en|es", r.URL.Query().Get("langpair"))
		assert.Empty(t, r.URL.Query().Get("de"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"Buenos días"}}`))
	}))
	defer srv.Close()

	m := NewMyMemory(srv.Client(), srv.URL, "")

	got, err := m.Translate(context.Background(), "Good morning & more", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "Buenos días", got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMyMemory_SendsEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ops@example.com", r.URL.Query().Get("de"))
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"ok"}}`))
	}))
	defer srv.Close()

	_, err := NewMyMemory(srv.Client(), srv.URL, "ops@example.com").Translate(context.Background(), "x", "es", "en")
	require.NoError(t, err)
}

func TestMyMemory_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{
			name:     "service status 403",
			status:   http.StatusOK,
			body:     `{"responseStatus":403,"responseDetails":"'INVALID LANGUAGE PAIR'","responseData":{"translatedText":"INVALID LANGUAGE PAIR"}}`,
			contains: "service status 403",
		},
		{
			name:     "service status as string",
			status:   http.StatusOK,
			body:     `{"responseStatus":"429","responseDetails":"MYMEMORY WARNING: YOU USED ALL AVAILABLE FREE TRANSLATIONS FOR TODAY","responseData":{"translatedText":""}}`,
			contains: "service status 429",
		},
		{
			name:     "http error",
			status:   http.StatusInternalServerError,
			body:     `oops`,
			contains: "http status 500",
		},
		{
			name:     "malformed payload",
			status:   http.StatusOK,
			body:     `<html>`,
			contains: "failed to parse response",
		},
		{
			name:     "empty translation",
			status:   http.StatusOK,
			body:     `{"responseStatus":200,"responseData":{"translatedText":""}}`,
			contains: "empty translation",
		},
		{
			name:     "missing status",
			status:   http.StatusOK,
			body:     `{"responseData":{"translatedText":"Hola"}}`,
			contains: "service status 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewMyMemory(srv.Client(), srv.URL, "").Translate(context.Background(), "hello", "en", "es")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMyMemory_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewMyMemory(nil, url, "").Translate(context.Background(), "hello", "en", "es")
	assert.ErrorContains(t, err, "request failed")
}

func TestMyMemory_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"responseStatus":200,"responseData":{"translatedText":"ok"}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMyMemory(srv.Client(), srv.URL, "").Translate(ctx, "hello", "en", "es")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatus_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: `200`, want: 200},
		{in: `"403"`, want: 403},
		{in: ` 429 `, want: 429},
		{in: `"OK"`, wantErr: true},
		{in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Status
			err := s.UnmarshalJSON([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}
