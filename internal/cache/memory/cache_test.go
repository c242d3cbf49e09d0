package memory

import (
	"testing"
	"time"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

func sampleReport() *domain.ResearchReport {
	return &domain.ResearchReport{
		Analysis: "## Round 1\n\nfindings",
		SearchHistory: []domain.RoundRecord{
			{Round: 1, Query: "q"},
		},
	}
}

func TestCache_SetGet(t *testing.T) {
	c := New()
	defer c.Stop()

	key := Key("quantum computing", 3)
	c.Set(key, sampleReport(), time.Minute)

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("Get() should find the report")
	}
	if got.Analysis != "## Round 1\n\nfindings" {
		t.Errorf("analysis = %q", got.Analysis)
	}
}

func TestCache_Miss(t *testing.T) {
	c := New()
	defer c.Stop()

	if _, ok := c.Get(Key("unknown", 2)); ok {
		t.Error("Get() should miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New()
	defer c.Stop()

	key := Key("q", 2)
	c.Set(key, sampleReport(), 10*time.Millisecond)

	if _, ok := c.Get(key); !ok {
		t.Fatal("report should be cached before TTL")
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Error("report should expire after TTL")
	}
}

func TestCache_Delete(t *testing.T) {
	c := New()
	defer c.Stop()

	key := Key("q", 2)
	c.Set(key, sampleReport(), time.Minute)
	c.Delete(key)

	if _, ok := c.Get(key); ok {
		t.Error("Get() should miss after Delete()")
	}
}

func TestKey_Normalization(t *testing.T) {
	// регистр и лишние пробелы не должны плодить разные ключи
	a := Key("Quantum  Computing", 3)
	b := Key("  quantum computing ", 3)
	if a != b {
		t.Errorf("keys differ for equivalent queries: %q != %q", a, b)
	}

	// разная глубина - разные ключи
	if Key("quantum computing", 2) == Key("quantum computing", 3) {
		t.Error("keys should differ for different depths")
	}
}
