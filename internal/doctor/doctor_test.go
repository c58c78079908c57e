package doctor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/basket/searchgate/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	return &cfg
}

func TestCheckConfig(t *testing.T) {
	if got := checkConfig(context.Background(), nil); got.Status != "FAIL" {
		t.Errorf("nil config status = %s, want FAIL", got.Status)
	}
	if got := checkConfig(context.Background(), testConfig(t)); got.Status != "PASS" {
		t.Errorf("loaded config status = %s, want PASS", got.Status)
	}
}

func TestCheckCredentials(t *testing.T) {
	for _, envVar := range []string{"BRAVE_API_KEY", "PERPLEXITY_API_KEY", "OPENROUTER_API_KEY", "BOCHA_API_KEY"} {
		t.Setenv(envVar, "")
	}

	cfg := testConfig(t)
	got := checkCredentials(context.Background(), cfg)
	if got.Status != "FAIL" {
		t.Errorf("no credentials status = %s, want FAIL", got.Status)
	}

	t.Setenv("OPENROUTER_API_KEY", "sk-or-testtesttesttest")
	got = checkCredentials(context.Background(), cfg)
	if got.Status != "WARN" {
		t.Errorf("partial credentials status = %s, want WARN", got.Status)
	}
	if !strings.Contains(got.Detail, "perplexity: OPENROUTER_API_KEY") {
		t.Errorf("detail = %q", got.Detail)
	}
	if strings.Contains(got.Detail, "testtesttesttest") {
		t.Error("credential value leaked into detail")
	}

	cfg.APIKeys = map[string]string{"brave": "BSAx", "perplexity": "pplx-x", "bocha": "b"}
	got = checkCredentials(context.Background(), cfg)
	if got.Status != "PASS" {
		t.Errorf("full credentials status = %s, want PASS", got.Status)
	}
	if !strings.Contains(got.Detail, "brave: config") {
		t.Errorf("detail = %q", got.Detail)
	}
}

func TestCheckCacheMemory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "memory"
	if got := checkCache(context.Background(), cfg); got.Status != "PASS" {
		t.Errorf("memory backend status = %s: %s", got.Status, got.Message)
	}
}

func TestCheckCacheSQLite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "sqlite"
	got := checkCache(context.Background(), cfg)
	if got.Status != "PASS" {
		t.Errorf("sqlite backend status = %s: %s", got.Status, got.Message)
	}
}

func TestCheckCacheUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "redis"
	if got := checkCache(context.Background(), cfg); got.Status != "FAIL" {
		t.Errorf("unknown backend status = %s, want FAIL", got.Status)
	}
}

func TestCheckPermissions(t *testing.T) {
	if got := checkPermissions(context.Background(), testConfig(t)); got.Status != "PASS" {
		t.Errorf("status = %s: %s", got.Status, got.Message)
	}
}

func TestCheckNetwork(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := checkNetwork(ctx, cfg)
	if got.Name != "Network" {
		t.Fatalf("name = %s", got.Name)
	}
	// Offline environments legitimately FAIL here.
	if got.Status != "PASS" && got.Status != "FAIL" {
		t.Errorf("status = %s, want PASS or FAIL", got.Status)
	}
}

func TestRunCoversAllChecks(t *testing.T) {
	d := Run(context.Background(), testConfig(t), "test")
	want := []string{"Config", "Credentials", "Permissions", "Cache", "Network"}
	if len(d.Results) != len(want) {
		t.Fatalf("results = %d, want %d", len(d.Results), len(want))
	}
	for i, name := range want {
		if d.Results[i].Name != name {
			t.Errorf("result[%d] = %s, want %s", i, d.Results[i].Name, name)
		}
	}
	if d.System.OS == "" || d.System.Go == "" {
		t.Error("system info not populated")
	}
}
