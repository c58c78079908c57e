// Package doctor runs environment diagnostics: configuration, provider
// credentials, cache backend, and network reachability.
package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/basket/searchgate/internal/cache"
	"github.com/basket/searchgate/internal/config"
)

type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "PASS", "FAIL", "WARN", "SKIP"
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type Diagnosis struct {
	Timestamp time.Time     `json:"timestamp"`
	System    SystemInfo    `json:"system"`
	Results   []CheckResult `json:"results"`
}

type SystemInfo struct {
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	Go      string `json:"go_version"`
	Version string `json:"version"`
}

// providerHosts are the API hosts probed by the network check.
var providerHosts = map[string]string{
	"brave":      "api.search.brave.com",
	"perplexity": "api.perplexity.ai",
	"bocha":      "api.bochaai.com",
}

// credentialEnvVars lists, per provider, the environment variables the
// credential resolver consults when config has no key.
var credentialEnvVars = map[string][]string{
	"brave":      {"BRAVE_API_KEY"},
	"perplexity": {"PERPLEXITY_API_KEY", "OPENROUTER_API_KEY"},
	"bocha":      {"BOCHA_API_KEY"},
}

// Run executes all diagnostic checks.
func Run(ctx context.Context, cfg *config.Config, version string) Diagnosis {
	d := Diagnosis{
		Timestamp: time.Now().UTC(),
		System: SystemInfo{
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			Go:      runtime.Version(),
			Version: version,
		},
	}

	checks := []func(context.Context, *config.Config) CheckResult{
		checkConfig,
		checkCredentials,
		checkPermissions,
		checkCache,
		checkNetwork,
	}
	for _, check := range checks {
		d.Results = append(d.Results, check(ctx, cfg))
	}
	return d
}

func checkConfig(_ context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "Config", Status: "FAIL", Message: "Configuration not loaded"}
	}
	return CheckResult{Name: "Config", Status: "PASS", Message: fmt.Sprintf("Loaded from %s", cfg.HomeDir)}
}

// checkCredentials reports, per provider, whether a key is available
// from config or the environment. Key values never appear in output.
func checkCredentials(_ context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "Credentials", Status: "SKIP", Message: "Config missing"}
	}

	var details []string
	usable := 0
	for _, provider := range []string{"brave", "perplexity", "bocha"} {
		source := credentialSource(cfg, provider)
		if source == "" {
			details = append(details, fmt.Sprintf("%s: not configured", provider))
			continue
		}
		usable++
		details = append(details, fmt.Sprintf("%s: %s", provider, source))
	}

	result := CheckResult{
		Name:   "Credentials",
		Detail: strings.Join(details, "; "),
	}
	switch usable {
	case 0:
		result.Status = "FAIL"
		result.Message = "No provider has a credential; every search will be rejected"
	case len(credentialEnvVars):
		result.Status = "PASS"
		result.Message = "All providers have credentials"
	default:
		result.Status = "WARN"
		result.Message = fmt.Sprintf("%d of %d providers have credentials", usable, len(credentialEnvVars))
	}
	return result
}

func credentialSource(cfg *config.Config, provider string) string {
	if cfg.APIKey(provider) != "" {
		return "config"
	}
	for _, envVar := range credentialEnvVars[provider] {
		if os.Getenv(envVar) != "" {
			return envVar
		}
	}
	return ""
}

func checkPermissions(_ context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "Permissions", Status: "SKIP", Message: "Config missing"}
	}
	testFile := filepath.Join(cfg.HomeDir, ".write_test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return CheckResult{Name: "Permissions", Status: "FAIL", Message: fmt.Sprintf("Home dir unwritable: %v", err)}
	}
	os.Remove(testFile)
	return CheckResult{Name: "Permissions", Status: "PASS", Message: "Home directory writable"}
}

func checkCache(ctx context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "Cache", Status: "SKIP", Message: "Config missing"}
	}
	switch cfg.Cache.Backend {
	case "memory":
		return CheckResult{Name: "Cache", Status: "PASS", Message: "In-memory backend (no persistence)"}
	case "sqlite":
		store, err := cache.OpenSQLite(config.CachePath(cfg.HomeDir), time.Duration(cfg.Cache.TTLMinutes)*time.Minute)
		if err != nil {
			return CheckResult{Name: "Cache", Status: "FAIL", Message: fmt.Sprintf("Open failed: %v", err)}
		}
		defer store.Close()
		if _, err := store.Sweep(ctx); err != nil {
			return CheckResult{Name: "Cache", Status: "FAIL", Message: fmt.Sprintf("Query failed: %v", err)}
		}
		return CheckResult{Name: "Cache", Status: "PASS", Message: "SQLite backend reachable, schema valid"}
	default:
		return CheckResult{Name: "Cache", Status: "FAIL", Message: fmt.Sprintf("Unknown backend %q", cfg.Cache.Backend)}
	}
}

func checkNetwork(ctx context.Context, cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Name: "Network", Status: "SKIP", Message: "Config missing"}
	}

	host, ok := providerHosts[cfg.Search.DefaultProvider]
	if !ok {
		host = providerHosts["brave"]
	}

	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	start := time.Now()
	addrs, err := net.DefaultResolver.LookupHost(lookupCtx, host)
	if err != nil {
		return CheckResult{
			Name:    "Network",
			Status:  "FAIL",
			Message: fmt.Sprintf("DNS lookup of %s failed: %v", host, err),
		}
	}
	return CheckResult{
		Name:    "Network",
		Status:  "PASS",
		Message: fmt.Sprintf("Resolved %s in %s", host, time.Since(start).Round(time.Millisecond)),
		Detail:  fmt.Sprintf("%d addresses", len(addrs)),
	}
}
