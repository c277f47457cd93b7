package postgres

import (
	"testing"
	"time"
)

func TestPoolConfig_WithDefaults(t *testing.T) {
	p := PoolConfig{}.withDefaults()

	if p.MaxOpenConns != 20 {
		t.Fatalf("MaxOpenConns = %d, want 20", p.MaxOpenConns)
	}
	if p.MaxIdleConns != 10 {
		t.Fatalf("MaxIdleConns = %d, want 10", p.MaxIdleConns)
	}
	if p.ConnMaxLifetime != 30*time.Minute {
		t.Fatalf("ConnMaxLifetime = %v, want 30m", p.ConnMaxLifetime)
	}
	if p.ConnMaxIdleTime != 5*time.Minute {
		t.Fatalf("ConnMaxIdleTime = %v, want 5m", p.ConnMaxIdleTime)
	}
}

func TestPoolConfig_WithDefaultsKeepsExplicitValues(t *testing.T) {
	p := PoolConfig{MaxOpenConns: 1, ConnMaxLifetime: time.Minute}.withDefaults()

	if p.MaxOpenConns != 1 {
		t.Fatalf("MaxOpenConns = %d, want 1", p.MaxOpenConns)
	}
	if p.ConnMaxLifetime != time.Minute {
		t.Fatalf("ConnMaxLifetime = %v, want 1m", p.ConnMaxLifetime)
	}
	if p.MaxIdleConns != 10 {
		t.Fatalf("MaxIdleConns = %d, want defaulted 10", p.MaxIdleConns)
	}
}
