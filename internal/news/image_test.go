package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScrapeOGImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<meta property="og:title" content="Some Article" />
			<meta property="og:image" content="https://cdn.example.com/hero.png" />
		</head><body></body></html>`))
	}))
	defer server.Close()

	img := ScrapeOGImage(context.Background(), server.Client(), server.URL, time.Second)
	assert.Equal(t, "https://cdn.example.com/hero.png", img)
}

func TestScrapeOGImageReversedAttributes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<meta content="https://cdn.example.com/alt.png" property="og:image" />`))
	}))
	defer server.Close()

	img := ScrapeOGImage(context.Background(), server.Client(), server.URL, time.Second)
	assert.Equal(t, "https://cdn.example.com/alt.png", img)
}

func TestScrapeOGImageFailures(t *testing.T) {
	t.Run("no og:image tag", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html><head><title>plain</title></head></html>`))
		}))
		defer server.Close()

		assert.Empty(t, ScrapeOGImage(context.Background(), server.Client(), server.URL, time.Second))
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		assert.Empty(t, ScrapeOGImage(context.Background(), server.Client(), server.URL, time.Second))
	})

	t.Run("slow page aborts on timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
		}))
		defer server.Close()

		start := time.Now()
		img := ScrapeOGImage(context.Background(), server.Client(), server.URL, 50*time.Millisecond)
		assert.Empty(t, img)
		assert.Less(t, time.Since(start), 400*time.Millisecond)
	})

	t.Run("unreachable host", func(t *testing.T) {
		assert.Empty(t, ScrapeOGImage(context.Background(), http.DefaultClient, "http://127.0.0.1:1/none", 100*time.Millisecond))
	})
}
