package configutil

import "testing"

func TestDecodeSettingsNormalizesKeys(t *testing.T) {
	var out struct {
		APIKey  string  `mapstructure:"api_key"`
		Voice   string  `mapstructure:"voice"`
		Speed   float64 `mapstructure:"speed"`
		Enabled *bool   `mapstructure:"enabled"`
	}
	in := map[string]any{
		"Api-Key": "sk-test",
		"VOICE":   "ash",
		"speed":   "1.5",
		"enabled": true,
	}
	if err := DecodeSettings(in, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.APIKey != "sk-test" || out.Voice != "ash" {
		t.Fatalf("unexpected decode result: %+v", out)
	}
	if out.Speed != 1.5 {
		t.Fatalf("expected weakly-typed float, got %v", out.Speed)
	}
	if !BoolValue(out.Enabled, false) {
		t.Fatalf("expected enabled true")
	}
}

func TestRequireString(t *testing.T) {
	if err := RequireString("", "vendors.tts.settings.api_key"); err == nil {
		t.Fatalf("expected error for empty value")
	}
	if err := RequireString("x", "vendors.tts.settings.api_key"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFallbackValues(t *testing.T) {
	if IntValue(nil, 7) != 7 {
		t.Fatalf("expected int fallback")
	}
	if FloatValue(nil, 1.2) != 1.2 {
		t.Fatalf("expected float fallback")
	}
	v := 3
	if IntValue(&v, 7) != 3 {
		t.Fatalf("expected explicit value")
	}
}
