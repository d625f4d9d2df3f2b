// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, routes map[string]string) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, WithRetries(0)), &hits
}

func TestPlugins(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/mc/bstats": `{"success":true,"message":"","data":{"plugins":[
			{"id":1,"name":"Alpha","owner":{"name":"me"},"software":{"id":1},"isGlobal":false,"chartIds":[1,2]},
			{"id":2,"name":"BigBrother","owner":{"name":"me"},"software":{"id":1},"isGlobal":true,"chartIds":[]}]}}`,
	})

	plugins, err := c.Plugins(context.Background())
	require.NoError(t, err)
	require.Len(t, plugins, 2)
	assert.Equal(t, "BigBrother", plugins[1].Name)
	assert.Equal(t, "2", plugins[1].Key())
	assert.Equal(t, []int{1, 2}, plugins[0].ChartIDs)
}

func TestWrapped_Unsuccessful(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/hf": `{"success":false,"message":"rate limited","data":null}`,
	})

	_, err := c.Models(context.Background())
	var ue *UnsuccessfulError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "rate limited", ue.Message)
	assert.Equal(t, "rate limited", err.Error())
	assert.True(t, IsWireFailure(err))
}

func TestWrapped_MissingList(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/mc/bstats": `{"success":true,"message":"","data":{}}`,
	})

	_, err := c.Plugins(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestStatusError(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{})

	_, err := c.PluginStats(context.Background(), 9)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.True(t, IsWireFailure(err))
}

func TestServerErrorIsRetried(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithRetries(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))
	_, err := c.Domains(context.Background())

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, WithRetries(0))
	_, err := c.Domains(context.Background())
	assert.ErrorIs(t, err, ErrTransport)
	assert.False(t, IsWireFailure(err))
}

func TestCancelledContext(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"/cloudflare": `[]`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Domains(ctx)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestWorkshopIDs_BothShapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []string
		wantErr bool
	}{
		{name: "bare", body: `{"workshop_ids":["1865844684","2"]}`, want: []string{"1865844684", "2"}},
		{name: "wrapped", body: `{"success":true,"data":{"workshop_ids":["3"]},"message":""}`, want: []string{"3"}},
		{name: "empty", body: `{}`, want: []string{}},
		{name: "wrapped failure", body: `{"success":false,"message":"down"}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, map[string]string{"/steam": tt.body})
			ids, err := c.WorkshopIDs(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestWorkshopItem(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/steam/7": `{"workshop_id":"7","title":"Mod","unique_visitors":null,"views":12,"file_size":2048}`,
		"/steam/8": `{"success":true,"message":"","data":{"workshop_id":"8","title":"Wrapped","unique_visitors":4}}`,
	})

	item, err := c.WorkshopItem(context.Background(), "7")
	require.NoError(t, err)
	assert.Nil(t, item.UniqueVisitors)
	assert.Equal(t, int64(12), *item.Reach())

	item, err = c.WorkshopItem(context.Background(), "8")
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", item.Title)
	assert.Equal(t, int64(4), *item.Reach())
}

func TestModelStats_PathWithSlash(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/hf/AssistantsLab/Tiny-Toxic-Detector": `{"success":true,"message":"","data":{"model_id":"AssistantsLab/Tiny-Toxic-Detector","downloads":1234}}`,
	})

	m, err := c.ModelStats(context.Background(), "AssistantsLab/Tiny-Toxic-Detector")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), *m.Downloads)
}

func TestDomainStats(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/cloudflare":    `[{"id":"z1","name":"michielo.com","status":"active"}]`,
		"/cloudflare/z1": `{"domain_id":"z1","traffic":[{"date":"2025-01-02","requests":10}]}`,
	})

	domains, err := c.Domains(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "michielo.com", domains[0].Name)

	stats, err := c.DomainStats(context.Background(), "z1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), stats.Traffic[0].Requests)
}

func TestObserver(t *testing.T) {
	var seen []string
	var codes []int
	c, _ := newTestClient(t, map[string]string{"/mc/bstats/5": `{"success":true,"data":{}}`})
	c.observer = func(endpoint string, code int, _ time.Duration) {
		seen = append(seen, endpoint)
		codes = append(codes, code)
	}

	_, _ = c.PluginStats(context.Background(), 5)
	_, _ = c.SpigotStats(context.Background(), 5)

	assert.Equal(t, []string{"/mc/bstats/{id}", "/mc/spigotmc/{id}"}, seen)
	assert.Equal(t, []int{200, 404}, codes)
}

func TestEndpointOf(t *testing.T) {
	tests := map[string]string{
		"/mc/bstats":        "/mc/bstats",
		"/mc/bstats/42":     "/mc/bstats/{id}",
		"/hf":               "/hf",
		"/hf/org/model":     "/hf/{id}",
		"/steam/1865844684": "/steam/{id}",
		"/cloudflare":       "/cloudflare",
	}
	for in, want := range tests {
		assert.Equal(t, want, endpointOf(in), in)
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClient("http://x/api/", WithTimeout(time.Second))
	assert.Equal(t, "http://x/api", c.BaseURL())
	assert.Equal(t, time.Second, c.http.HTTPClient.Timeout)
}
