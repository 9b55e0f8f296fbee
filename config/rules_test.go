package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRulesFor_Profiles(t *testing.T) {
	for _, network := range []NetworkType{Mainnet, Testnet, Regtest} {
		rules := RulesFor(network)
		if err := rules.Validate(); err != nil {
			t.Errorf("%s rules invalid: %v", network, err)
		}
	}
}

func TestRulesFor_Distinct(t *testing.T) {
	if MainnetRules().BiddingPeriod == RegtestRules().BiddingPeriod {
		t.Error("mainnet and regtest should differ")
	}
}

func TestRegtestRules_Windows(t *testing.T) {
	r := RegtestRules()
	if r.TreeInterval != 5 || r.BiddingPeriod != 5 || r.RevealPeriod != 5 {
		t.Errorf("regtest windows = %d/%d/%d, want 5/5/5",
			r.TreeInterval, r.BiddingPeriod, r.RevealPeriod)
	}
	if r.TransferLockup != 10 {
		t.Errorf("regtest transfer lockup = %d, want 10", r.TransferLockup)
	}
}

func TestNamingRules_Validate(t *testing.T) {
	r := RegtestRules()
	r.TreeInterval = 0
	if err := r.Validate(); err == nil {
		t.Error("zero tree interval should fail")
	}

	r = RegtestRules()
	r.RenewalMaturity = r.RenewalWindow
	if err := r.Validate(); err == nil {
		t.Error("maturity >= window should fail")
	}

	r = RegtestRules()
	r.ClaimKey = []byte{0x01}
	if err := r.Validate(); err == nil {
		t.Error("short claim key should fail")
	}
}

func TestSetClaimKeyHex(t *testing.T) {
	r := RegtestRules()
	if err := r.SetClaimKeyHex(""); err != nil {
		t.Fatalf("empty key: %v", err)
	}
	if r.ClaimKey != nil {
		t.Error("empty hex should clear the key")
	}

	if err := r.SetClaimKeyHex("02" + "00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"); err != nil {
		t.Fatalf("valid key: %v", err)
	}
	if len(r.ClaimKey) != 33 {
		t.Errorf("key length = %d, want 33", len(r.ClaimKey))
	}

	if err := r.SetClaimKeyHex("zz"); err == nil {
		t.Error("invalid hex should fail")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	values, err := LoadFile(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected empty map, got %v", values)
	}
}

func TestLoadFile_ApplyFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.conf")
	content := "# comment\nnetwork = regtest\nlog.level = debug\nmetrics.enabled = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	cfg := Default(Mainnet)
	if err := ApplyFileConfig(cfg, values); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}
	if cfg.Network != Regtest {
		t.Errorf("network = %s, want regtest", cfg.Network)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %s, want debug", cfg.Log.Level)
	}
	if !cfg.Metrics.Enabled {
		t.Error("metrics should be enabled")
	}
}

func TestApplyFileConfig_UnknownKey(t *testing.T) {
	cfg := Default(Mainnet)
	if err := ApplyFileConfig(cfg, map[string]string{"bogus": "1"}); err == nil {
		t.Error("unknown key should fail")
	}
}
