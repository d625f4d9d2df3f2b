// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/staranto/statsctl/internal/aggregate"
	"github.com/staranto/statsctl/internal/api"
	"github.com/staranto/statsctl/internal/cache"
	"github.com/staranto/statsctl/internal/catalog"
	"github.com/staranto/statsctl/internal/config"
)

type fakeAPI struct {
	*httptest.Server
	mu     sync.Mutex
	routes map[string]string
}

func newFakeAPI(t *testing.T, routes map[string]string) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: routes}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		body, ok := f.routes[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) set(path, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[path] = body
}

// run executes statsctl with args and returns what it wrote.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	argv := append([]string{"statsctl"}, args...)
	app, err := InitApp(context.Background(), argv)
	require.NoError(t, err)

	var buf bytes.Buffer
	app.Writer = &buf
	app.ErrWriter = &buf
	err = app.Run(context.Background(), argv)
	return buf.String(), err
}

// memoryCache disables the file cache so each run starts empty.
func memoryCache(t *testing.T) {
	t.Setenv("STATSCTL_CACHE", "0")
}

func pluginRoutes() map[string]string {
	return map[string]string{
		"/mc/bstats":    `{"success":true,"message":"","data":{"plugins":[{"id":2,"name":"Zeta"},{"id":1,"name":"BigBrother"},{"id":3,"name":"alpha"}]}}`,
		"/mc/bstats/1":  `{"success":true,"message":"","data":{"plugin_id":1,"name":"BigBrother","servers":{"current":10},"players":{"current":100,"estimated_uniques":400}}}`,
		"/mc/bstats/2":  `{"success":true,"message":"","data":{"plugin_id":2,"name":"Zeta","servers":{"current":5},"players":{"current":50}}}`,
		"/mc/spigotmc/1": `{"success":true,"message":"","data":{"plugin_id":"1","resource_id":"r1","downloads":7000,"version":"2.1"}}`,
	}
}

func TestPq_List(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, pluginRoutes())

	out, err := run(t, "pq", "--api", srv.URL, "-o", "json")
	require.NoError(t, err)

	assert.JSONEq(t, `[
		{"id":"1","name":"BigBrother","servers":10,"players":100},
		{"id":"3","name":"alpha","servers":0,"players":0},
		{"id":"2","name":"Zeta","servers":5,"players":50}
	]`, out)
}

func TestPq_ListOnly(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, pluginRoutes())

	out, err := run(t, "pq", "--api", srv.URL, "--list", "-o", "json")
	require.NoError(t, err)

	// Detail routes exist but are not requested.
	assert.JSONEq(t, `[
		{"id":"1","name":"BigBrother","servers":0,"players":0},
		{"id":"3","name":"alpha","servers":0,"players":0},
		{"id":"2","name":"Zeta","servers":0,"players":0}
	]`, out)
}

func TestPq_Detail(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, pluginRoutes())

	out, err := run(t, "pq", "--api", srv.URL, "--id", "1", "-o", "json", "-a", "uniques")
	require.NoError(t, err)

	doc := gjson.Parse(out)
	require.Len(t, doc.Array(), 1)
	assert.Equal(t, "BigBrother", doc.Get("0.name").String())
	assert.Equal(t, int64(7000), doc.Get("0.downloads").Int())
	assert.Equal(t, "2.1", doc.Get("0.version").String())
	assert.Equal(t, int64(400), doc.Get("0.uniques").Int())
}

func TestPq_DetailWithoutSpigot(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, pluginRoutes())

	out, err := run(t, "pq", "--api", srv.URL, "--id", "2", "-o", "json")
	require.NoError(t, err)

	doc := gjson.Parse(out)
	assert.Equal(t, "Zeta", doc.Get("0.name").String())
	assert.Equal(t, gjson.Null, doc.Get("0.downloads").Type)
}

func TestPq_BadID(t *testing.T) {
	memoryCache(t)
	_, err := run(t, "pq", "--id", "abc")
	assert.ErrorContains(t, err, "numeric plugin id")
}

func TestPq_ListFailure(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, map[string]string{})

	_, err := run(t, "pq", "--api", srv.URL)
	var se *api.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestAq_SortedByDownloads(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, map[string]string{
		"/hf":       `{"success":true,"message":"","data":{"models":[{"model_id":"org/a"},{"model_id":"org/b"}]}}`,
		"/hf/org/a": `{"success":true,"message":"","data":{"model_id":"org/a","downloads":5}}`,
		"/hf/org/b": `{"success":true,"message":"","data":{"model_id":"org/b","downloads":50}}`,
	})

	out, err := run(t, "aq", "--api", srv.URL, "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"org/b","downloads":50},{"id":"org/a","downloads":5}]`, out)
}

func TestAq_ListOnly(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, map[string]string{
		"/hf":       `{"success":true,"message":"","data":{"models":[{"model_id":"org/a","downloads":1},{"model_id":"org/b","downloads":2}]}}`,
		"/hf/org/a": `{"success":true,"message":"","data":{"model_id":"org/a","downloads":5}}`,
		"/hf/org/b": `{"success":true,"message":"","data":{"model_id":"org/b","downloads":50}}`,
	})

	out, err := run(t, "aq", "--api", srv.URL, "-l", "-o", "json")
	require.NoError(t, err)

	doc := gjson.Parse(out)
	require.Len(t, doc.Array(), 2)
	assert.Equal(t, "org/b", doc.Get("0.id").String())
	assert.Equal(t, int64(2), doc.Get("0.downloads").Int())
	assert.Equal(t, int64(1), doc.Get("1.downloads").Int())
}

func TestMq_FanOutDropsFailures(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, map[string]string{
		"/steam":            `{"workshop_ids":["1865844684","b","c"]}`,
		"/steam/1865844684": `{"workshop_id":"1865844684","title":"A","unique_visitors":10,"views":99}`,
		"/steam/c":          `{"workshop_id":"c","title":"C","unique_visitors":null,"views":50}`,
	})

	out, err := run(t, "mq", "--api", srv.URL, "-o", "json", "-a", "!subscriptions")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"c","title":"C","reach":50},
		{"id":"1865844684","title":"A","game":"Hearts Of Iron 4","reach":10}
	]`, out)
}

func TestDq_Traffic(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, map[string]string{
		"/cloudflare/z1": `{"domain_id":"z1","traffic":[{"date":"2025-01-02","requests":2},{"date":"2025-01-01","requests":1}]}`,
	})

	out, err := run(t, "dq", "--api", srv.URL, "--id", "z1", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2025-01-01","requests":1},{"date":"2025-01-02","requests":2}]`, out)
}

func TestDq_List(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, map[string]string{
		"/cloudflare":    `[{"id":"z2","name":"zulu.dev","status":"active"},{"id":"z1","name":"michielo.com","status":"active"}]`,
		"/cloudflare/z1": `{"domain_id":"z1","traffic":[{"date":"2025-01-01","requests":3},{"date":"2025-01-02","requests":4}]}`,
		"/cloudflare/z2": `{"domain_id":"z2","traffic":[]}`,
	})

	out, err := run(t, "dq", "--api", srv.URL, "-o", "json", "-a", "!status")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"z1","name":"michielo.com","requests":7},{"id":"z2","name":"zulu.dev","requests":0}]`, out)
}

func impactRoutes() map[string]string {
	return map[string]string{
		"/mc/bstats":   `{"success":true,"message":"","data":{"plugins":[{"id":1,"name":"A"}]}}`,
		"/mc/bstats/1": `{"success":true,"message":"","data":{"plugin_id":1,"players":{"estimated_uniques":100}}}`,
		"/hf":          `{"success":true,"message":"","data":{"models":[{"model_id":"org/m"}]}}`,
		"/hf/org/m":    `{"success":true,"message":"","data":{"model_id":"org/m","downloads":20}}`,
		"/steam":       `{"workshop_ids":["x"]}`,
		"/steam/x":     `{"workshop_id":"x","views":3}`,
	}
}

func TestHq(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, impactRoutes())

	out, err := run(t, "hq", "--api", srv.URL, "-o", "json", "-a", "count,!source")
	require.NoError(t, err)

	doc := gjson.Parse(out)
	require.Len(t, doc.Array(), 5)
	assert.Equal(t, "Plugins", doc.Get("0.category").String())
	assert.Equal(t, int64(100), doc.Get("0.count").Int())
	assert.Equal(t, catalog.DiscordReach(), doc.Get("1.count").Int())
	assert.Equal(t, "Total", doc.Get("4.category").String())
	assert.Equal(t, catalog.DiscordReach()+123, doc.Get("4.count").Int())
}

func TestHq_Diff(t *testing.T) {
	t.Setenv("STATSCTL_CACHE_DIR", t.TempDir())
	srv := newFakeAPI(t, impactRoutes())

	out, err := run(t, "hq", "--api", srv.URL, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "no previous impact summary")

	out, err = run(t, "hq", "--api", srv.URL, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "unchanged since")

	// The cached summary is fresh, yet --diff refetches.
	srv.set("/hf/org/m", `{"success":true,"message":"","data":{"model_id":"org/m","downloads":25}}`)
	out, err = run(t, "hq", "--api", srv.URL, "--diff")
	require.NoError(t, err)
	assert.Contains(t, out, "changes since")
	assert.Contains(t, out, "25")
}

func TestMetricsFile(t *testing.T) {
	memoryCache(t)
	srv := newFakeAPI(t, impactRoutes())
	fn := filepath.Join(t.TempDir(), "statsctl.prom")

	_, err := run(t, "hq", "--api", srv.URL, "--metrics-file", fn)
	require.NoError(t, err)

	b, err := os.ReadFile(fn)
	require.NoError(t, err)
	assert.Contains(t, string(b), `statsctl_api_requests_total{code="200",endpoint="/hf"} 1`)
	assert.Contains(t, string(b), "statsctl_impact_total")
}

func TestCatalogCommands(t *testing.T) {
	out, err := run(t, "bq", "-t")
	require.NoError(t, err)
	assert.Contains(t, out, "Auditlogger V2")
	assert.Contains(t, out, "users")

	out, err = run(t, "rq", "-o", "json")
	require.NoError(t, err)
	assert.Len(t, gjson.Parse(out).Array(), len(catalog.Papers()))

	out, err = run(t, "wq", "-o", "json", "-a", "!visitors,!requests")
	require.NoError(t, err)
	assert.Len(t, gjson.Parse(out).Array(), len(catalog.Websites()))
}

func TestSchema(t *testing.T) {
	out, err := run(t, "mq", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema for ModRow --")
	assert.Contains(t, out, "file-size\n")
}

func TestOutputValidator(t *testing.T) {
	_, err := run(t, "bq", "-o", "xml")
	assert.ErrorContains(t, err, "must be one of")
}

func TestAPIValidator(t *testing.T) {
	_, err := run(t, "aq", "--api", "not a url")
	assert.ErrorContains(t, err, "absolute http or https URL")
}

func TestDash_NeedsTerminal(t *testing.T) {
	_, err := run(t, "dash")
	assert.ErrorContains(t, err, "needs a terminal")
}

func TestCache(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STATSCTL_CACHE_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x"), []byte("{}"), 0o600))

	out, err := run(t, "cache", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "entries  1")
	assert.Contains(t, out, "ttl      3h0m0s")

	out, err = run(t, "cache", "purge", "--hours", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 0 cache files")

	memoryCache(t)
	_, err = run(t, "cache", "info")
	assert.ErrorIs(t, err, errNoFileCache)
}

func TestCompletion(t *testing.T) {
	out, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "complete -F _statsctl statsctl")

	out, err = run(t, "completion", "zsh")
	require.NoError(t, err)
	assert.Contains(t, out, "#compdef statsctl")
}

func TestNewStore(t *testing.T) {
	t.Cleanup(func() { _, _ = config.Load() })

	write := func(body string) {
		fn := filepath.Join(t.TempDir(), config.FileName)
		require.NoError(t, os.WriteFile(fn, []byte(body), 0o600))
		t.Setenv("STATSCTL_CFG", fn)
		_, err := config.Load()
		require.NoError(t, err)
	}

	t.Setenv("STATSCTL_CACHE_DIR", t.TempDir())

	write("cache:\n  backend: memory\n")
	store, err := NewStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryStore{}, store)

	write("cache:\n  backend: file\n")
	store, err = NewStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &cache.FileStore{}, store)

	write("cache:\n  backend: s3\n")
	_, err = NewStore(context.Background())
	assert.ErrorContains(t, err, "requires cache.bucket")

	write("cache:\n  backend: tape\n")
	_, err = NewStore(context.Background())
	assert.ErrorContains(t, err, "unknown cache.backend")

	memoryCache(t)
	store, err = NewStore(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryStore{}, store)
}

func TestDegradedSources(t *testing.T) {
	snap := aggregate.Snapshot{ImpactData: []aggregate.Slice{
		{Category: "AI Models", Degraded: true},
		{Category: "Discord"},
	}}
	assert.Equal(t, map[string]bool{"ai-models": true, "discord": false}, degradedSources(snap))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "auditlogger-v2", slug("Auditlogger  V2"))
	assert.Equal(t, "", slug(""))
}
