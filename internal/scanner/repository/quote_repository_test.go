package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-sniper/internal/scanner/config"
	"stock-sniper/internal/scanner/dto"
	"stock-sniper/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.TWSE.MaxRequestPerMinute = 600000
	cfg.GoogleNews.MaxRequestPerMinute = 600000
	return cfg
}

func TestQuoteRepositoryFetchQuotes(t *testing.T) {
	var gotChannels string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotChannels = r.URL.Query().Get("ex_ch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"msgArray":[
			{"c":"2603","n":"長榮","z":"-","y":"150.00"},
			{"c":"2330","n":"台積電","z":"1005.00","y":"1000.00"}
		],"rtcode":"0000","rtmessage":"OK"}`))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.TWSE.QuoteURL = srv.URL
	repo := NewQuoteRepository(cfg, logger.NewNop())

	quotes, err := repo.FetchQuotes(context.Background(), []string{"2330", "2603", "9999"})
	require.NoError(t, err)
	assert.Equal(t, "tse_2330.tw|tse_2603.tw|tse_9999.tw", gotChannels)

	require.Contains(t, quotes, "2330")
	require.NotNil(t, quotes["2330"].Price)
	assert.Equal(t, "1005.00", *quotes["2330"].Price)
	assert.Equal(t, "台積電", quotes["2330"].Name)

	require.Contains(t, quotes, "2603")
	assert.Equal(t, "-", *quotes["2603"].Price)

	assert.NotContains(t, quotes, "9999")
}

func TestQuoteRepositoryFailureKinds(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
		want    dto.FailureKind
	}{
		{
			name: "non-200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			wantErr: dto.ErrProviderTransient,
			want:    dto.FailureTransient,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"msgArray":[{"c":`))
			},
			wantErr: dto.ErrProviderTransient,
			want:    dto.FailureTransient,
		},
		{
			name: "empty msgArray",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"msgArray":[],"rtcode":"0000"}`))
			},
			wantErr: dto.ErrEmptyResponse,
			want:    dto.FailureTransient,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantErr: dto.ErrEmptyResponse,
			want:    dto.FailureTransient,
		},
		{
			name: "provider rtcode",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"msgArray":[],"rtcode":"5001","rtmessage":"busy"}`))
			},
			wantErr: dto.ErrProviderTransient,
			want:    dto.FailureTransient,
		},
		{
			name: "connection dropped",
			handler: func(w http.ResponseWriter, r *http.Request) {
				hj, ok := w.(http.Hijacker)
				if !ok {
					return
				}
				conn, _, err := hj.Hijack()
				if err == nil {
					_ = conn.Close()
				}
			},
			wantErr: dto.ErrProviderConnection,
			want:    dto.FailureConnection,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			cfg := testConfig()
			cfg.TWSE.QuoteURL = srv.URL
			repo := NewQuoteRepository(cfg, logger.NewNop())

			_, err := repo.FetchQuotes(context.Background(), []string{"2330"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, dto.ClassifyProviderError(err))
		})
	}
}

func TestQuoteRepositoryTimeoutIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.TWSE.QuoteURL = srv.URL
	cfg.TWSE.QuoteTimeout = 50 * time.Millisecond
	repo := NewQuoteRepository(cfg, logger.NewNop())

	_, err := repo.FetchQuotes(context.Background(), []string{"2330"})
	require.Error(t, err)
	assert.ErrorIs(t, err, dto.ErrProviderTransient)
	assert.Equal(t, dto.FailureTransient, dto.ClassifyProviderError(err))
	assert.False(t, strings.Contains(err.Error(), dto.ErrProviderConnection.Error()))
}
