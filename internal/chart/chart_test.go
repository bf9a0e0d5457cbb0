// SPDX-License-Identifier: AGPL-3.0-or-later

package chart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/devupdates/internal/gitstats"
)

var fixedClock = func() time.Time { return time.Unix(1767225600, 0) }

type createCall struct {
	payload map[string]any
}

func fakeQuickChart(t *testing.T, status int, calls *[]createCall) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/chart/create", func(w http.ResponseWriter, req *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		*calls = append(*calls, createCall{payload: payload})
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"url":"https://quickchart.io/chart/render/abc"}`))
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestURL_ShortConfigUsesGet(t *testing.T) {
	var calls []createCall
	srv := fakeQuickChart(t, http.StatusOK, &calls)
	b := New(WithBaseURL(srv.URL), WithClock(fixedClock))

	got, err := b.URL(context.Background(), map[string]any{"type": "bar"}, 600, 300)
	require.NoError(t, err)
	assert.Empty(t, calls)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/chart", u.Path)
	q := u.Query()
	assert.Equal(t, `{"type":"bar"}`, q.Get("c"))
	assert.Equal(t, "600", q.Get("w"))
	assert.Equal(t, "300", q.Get("h"))
	assert.Equal(t, "#FFFFFF", q.Get("bkg"))
	assert.Equal(t, "1767225600", q.Get("cb"))
	assert.Contains(t, got, "bkg=%23FFFFFF")
}

func TestURL_CacheBusterChanges(t *testing.T) {
	now := time.Unix(100, 0)
	b := New(WithClock(func() time.Time { return now }))
	first, err := b.URL(context.Background(), map[string]any{"type": "bar"}, 600, 300)
	require.NoError(t, err)
	now = now.Add(time.Second)
	second, err := b.URL(context.Background(), map[string]any{"type": "bar"}, 600, 300)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, DefaultBaseURL+"/chart?"))
}

func TestURL_LongConfigUsesPost(t *testing.T) {
	var calls []createCall
	srv := fakeQuickChart(t, http.StatusOK, &calls)
	b := New(WithBaseURL(srv.URL), WithClock(fixedClock))

	config := map[string]any{"type": "bar", "data": strings.Repeat("x", 2500)}
	got, err := b.URL(context.Background(), config, 600, 300)
	require.NoError(t, err)
	assert.Equal(t, "https://quickchart.io/chart/render/abc", got)

	require.Len(t, calls, 1)
	p := calls[0].payload
	assert.Equal(t, "4", p["version"])
	assert.Equal(t, "#FFFFFF", p["backgroundColor"])
	assert.Equal(t, float64(600), p["width"])
	assert.Equal(t, "bar", p["chart"].(map[string]any)["type"])
}

func TestURL_PostFailureFallsBackToGet(t *testing.T) {
	var calls []createCall
	srv := fakeQuickChart(t, http.StatusInternalServerError, &calls)
	b := New(WithBaseURL(srv.URL), WithClock(fixedClock))

	config := map[string]any{"data": strings.Repeat("y", 2500)}
	got, err := b.URL(context.Background(), config, 600, 300)
	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(got, srv.URL+"/chart?c="))
	assert.GreaterOrEqual(t, len(got), MaxGetURL)
}

func TestURL_UnencodableConfig(t *testing.T) {
	_, err := New().URL(context.Background(), map[string]any{"f": func() {}}, 1, 1)
	assert.Error(t, err)
}

func TestPunchCard_RawPostHasNoVersion(t *testing.T) {
	var calls []createCall
	srv := fakeQuickChart(t, http.StatusOK, &calls)
	b := New(WithBaseURL(srv.URL), WithClock(fixedClock))

	var cells []gitstats.PunchCell
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			cells = append(cells, gitstats.PunchCell{Weekday: day, Hour: hour, Count: 1 + hour%6})
		}
	}
	got := b.PunchCard(context.Background(), cells)
	assert.Equal(t, "https://quickchart.io/chart/render/abc", got)

	require.Len(t, calls, 1)
	p := calls[0].payload
	_, hasVersion := p["version"]
	assert.False(t, hasVersion)
	assert.Equal(t, float64(700), p["width"])
	assert.Equal(t, PunchCardJS(cells), p["chart"])
}

func TestRawURL_ShortUsesGet(t *testing.T) {
	b := New(WithClock(fixedClock))
	got := b.RawURL(context.Background(), "{type:'bubble'}", 700, 300)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "{type:'bubble'}", u.Query().Get("c"))
	assert.Equal(t, "700", u.Query().Get("w"))
}

func TestPunchCardJS(t *testing.T) {
	js := PunchCardJS([]gitstats.PunchCell{
		{Weekday: 0, Hour: 23, Count: 1}, // Sunday is the last row
		{Weekday: 1, Hour: 9, Count: 4},
		{Weekday: 5, Hour: 14, Count: 12},
	})
	assert.Contains(t, js, "{label:'1-2 commits',data:[{x:23,y:6,r:5}]")
	assert.Contains(t, js, "{label:'3-4 commits',data:[{x:9,y:0,r:9}]")
	assert.Contains(t, js, "{label:'5+ commits',data:[{x:14,y:4,r:14}]")
	assert.True(t, strings.HasPrefix(js, "{type:'bubble'"))
	assert.Contains(t, js, "callback:function(v){return['Mon','Tue','Wed','Thu','Fri','Sat','Sun'][v]||''}")
}

func TestPunchCardJS_OmitsEmptyLevels(t *testing.T) {
	js := PunchCardJS([]gitstats.PunchCell{{Weekday: 2, Hour: 10, Count: 1}})
	assert.NotContains(t, js, "3-4 commits")
	assert.NotContains(t, js, "5+ commits")
}

func TestForDay(t *testing.T) {
	var calls []createCall
	srv := fakeQuickChart(t, http.StatusOK, &calls)
	b := New(WithBaseURL(srv.URL), WithClock(fixedClock))

	day := gitstats.DailyStat{
		Git:       gitstats.GitTotals{CommitsByDate: map[string]int{"2026-01-03": 2, "2026-01-01": 3}},
		PunchCard: []gitstats.PunchCell{{Weekday: 4, Hour: 9, Count: 3}},
	}
	charts, err := b.ForDay(context.Background(), day)
	require.NoError(t, err)

	u, err := url.Parse(charts.CommitLine)
	require.NoError(t, err)
	var cfg struct {
		Data struct {
			Labels   []string `json:"labels"`
			Datasets []struct {
				Data []int `json:"data"`
			} `json:"datasets"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(u.Query().Get("c")), &cfg))
	assert.Equal(t, []string{"01-01", "01-03"}, cfg.Data.Labels)
	assert.Equal(t, []int{3, 2}, cfg.Data.Datasets[0].Data)
	assert.NotEmpty(t, charts.PunchCard)

	empty, err := b.ForDay(context.Background(), gitstats.DailyStat{})
	require.NoError(t, err)
	assert.Equal(t, Daily{}, empty)
}
