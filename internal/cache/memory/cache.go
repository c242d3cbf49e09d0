package memory

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kitbuilder587/deepresearch-bot/internal/domain"
)

type item struct {
	report    *domain.ResearchReport
	expiresAt time.Time
}

// Cache - in-memory кеш готовых отчетов с TTL. Одинаковые недавние
// запросы (тот же вопрос, та же глубина) не гоняют заново весь цикл.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]item
	stopChan chan struct{}
	stopped  bool
}

func New() *Cache {
	return NewWithContext(context.Background())
}

func NewWithContext(ctx context.Context) *Cache {
	c := &Cache{
		items:    make(map[string]item),
		stopChan: make(chan struct{}),
	}
	go c.cleanup(ctx)
	return c
}

// Key строит ключ кеша из нормализованного вопроса и глубины
func Key(query string, depth int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(query))), " ")
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", normalized, depth)))
	return fmt.Sprintf("report:%x", hash[:8])
}

func (c *Cache) Get(key string) (*domain.ResearchReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, ok := c.items[key]
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.report, true
}

func (c *Cache) Set(key string, report *domain.ResearchReport, ttl time.Duration) {
	c.mu.Lock()
	c.items[key] = item{report: report, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *Cache) Stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.stopChan)
	}
	c.mu.Unlock()
}

// cleanup чистит просроченные записи раз в 5 минут
func (c *Cache) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}
