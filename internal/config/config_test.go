package config

import "testing"

// TestLoad covers required values, overrides and defaults for the optional
// knobs.
func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "fitness")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")
	t.Setenv("DB_MAX_IDLE_CONNS", "")
	t.Setenv("DB_CONN_LIFETIME_MIN", "")
	t.Setenv("BCRYPT_COST", "")

	cfg := Load()

	if cfg.Env != "test" || cfg.Port != "8080" || cfg.DBName != "fitness" {
		t.Errorf("required values not loaded: %+v", cfg)
	}
	if cfg.DBMaxOpenConns != 5 {
		t.Errorf("DBMaxOpenConns = %d, want override 5", cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns != 25 {
		t.Errorf("DBMaxIdleConns = %d, want default 25", cfg.DBMaxIdleConns)
	}
	if cfg.DBConnLifetimeMin != 30 {
		t.Errorf("DBConnLifetimeMin = %d, want default 30", cfg.DBConnLifetimeMin)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want default 10", cfg.BcryptCost)
	}
}
