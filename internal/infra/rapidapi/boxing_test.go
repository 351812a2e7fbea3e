package rapidapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supabox/internal/config"
	"supabox/internal/domain/entity"
)

func TestBoxingFetcher_URL(t *testing.T) {
	cfg := config.DefaultUpstreamConfig().Boxing
	f := NewBoxingFetcher(newTestClient(t), cfg)

	u, err := url.Parse(f.URL())
	require.NoError(t, err)

	assert.Equal(t, "boxing-data-api.p.rapidapi.com", u.Host)
	assert.Equal(t, "/v1/events/schedule", u.Path)
	q := u.Query()
	assert.Equal(t, "7", q.Get("days"))
	assert.Equal(t, "12", q.Get("past_hours"))
	assert.Equal(t, "ASC", q.Get("date_sort"))
	assert.Equal(t, "1", q.Get("page_num"))
	assert.Equal(t, "25", q.Get("page_size"))
}

func TestBoxingFetcher_Fetch(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "data array",
			body: `{"data":[{"event_id":"a","event_title":"Fury vs Usyk"},{"event_id":"b"}]}`,
			want: []string{"a", "b"},
		},
		{
			name: "root array",
			body: `[{"event_id":"c"}]`,
			want: []string{"c"},
		},
		{
			name: "no recognizable list",
			body: `{"meta":{"total":0}}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/events/schedule", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			f := boxingFetcherFor(t, srv)
			assert.Equal(t, entity.SportBoxing, f.Sport())

			records, err := f.Fetch(context.Background())
			require.NoError(t, err)

			var ids []string
			for _, r := range records {
				ids = append(ids, r.Get("event_id").String())
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
