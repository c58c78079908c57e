package search

import "testing"

func TestNormalizeFreshness(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		value    string
		want     string
		wantCode string
	}{
		{"brave shorthand", ProviderBrave, "pd", "pd", ""},
		{"brave past year", ProviderBrave, "py", "py", ""},
		{"brave trims whitespace", ProviderBrave, "  pw ", "pw", ""},
		{"bocha shorthand", ProviderBocha, "oneWeek", "oneWeek", ""},
		{"bocha no limit", ProviderBocha, "noLimit", "noLimit", ""},
		{"bocha rejects brave token", ProviderBocha, "pd", "", CodeInvalidFreshness},
		{"brave rejects bocha token", ProviderBrave, "oneDay", "", CodeInvalidFreshness},
		{"valid range brave", ProviderBrave, "2024-01-01to2024-01-31", "2024-01-01to2024-01-31", ""},
		{"valid range bocha", ProviderBocha, "2024-01-01to2024-01-31", "2024-01-01to2024-01-31", ""},
		{"single-day range", ProviderBrave, "2024-06-15to2024-06-15", "2024-06-15to2024-06-15", ""},
		{"february thirtieth", ProviderBrave, "2024-02-30to2024-03-01", "", CodeInvalidFreshness},
		{"thirteenth month", ProviderBocha, "2024-13-01to2024-12-31", "", CodeInvalidFreshness},
		{"reversed range", ProviderBrave, "2024-02-01to2024-01-01", "", CodeInvalidFreshness},
		{"malformed separator", ProviderBrave, "2024-01-01..2024-01-31", "", CodeInvalidFreshness},
		{"garbage", ProviderBocha, "lastTuesday", "", CodeInvalidFreshness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rej := normalizeFreshness(tt.provider, tt.value)
			if tt.wantCode == "" {
				if rej != nil {
					t.Fatalf("unexpected rejection %q: %s", rej.Error.Code, rej.Error.Message)
				}
				if got != tt.want {
					t.Errorf("normalized = %q, want %q", got, tt.want)
				}
				return
			}
			if rej == nil {
				t.Fatalf("expected rejection %q, got %q", tt.wantCode, got)
			}
			if rej.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", rej.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestValidISODate(t *testing.T) {
	valid := []string{"2024-01-01", "2024-02-29", "1999-12-31"}
	for _, d := range valid {
		if !validISODate(d) {
			t.Errorf("validISODate(%q) = false, want true", d)
		}
	}
	invalid := []string{"2023-02-29", "2024-00-10", "2024-04-31", "not-a-date"}
	for _, d := range invalid {
		if validISODate(d) {
			t.Errorf("validISODate(%q) = true, want false", d)
		}
	}
}
