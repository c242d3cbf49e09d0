package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	limiter := New(Config{
		RequestsPerMinute: 3,
	})

	source := "ip:10.0.0.1"

	for i := 0; i < 3; i++ {
		if !limiter.Allow(source) {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if limiter.Allow(source) {
		t.Error("Fourth request should be blocked due to rate limit")
	}
}

func TestLimiter_DifferentSources(t *testing.T) {
	limiter := New(Config{
		RequestsPerMinute: 1,
	})

	if !limiter.Allow("ip:1.1.1.1") {
		t.Error("First source should be allowed")
	}
	if !limiter.Allow("tg:222") {
		t.Error("Second source should be allowed")
	}
	if limiter.Allow("ip:1.1.1.1") {
		t.Error("First source second request should be blocked")
	}
	if limiter.Allow("tg:222") {
		t.Error("Second source second request should be blocked")
	}
}

func TestLimiter_RemainingRequests(t *testing.T) {
	limiter := New(Config{
		RequestsPerMinute: 5,
	})

	source := "ip:10.0.0.1"

	if remaining := limiter.RemainingRequests(source); remaining != 5 {
		t.Errorf("RemainingRequests() = %d, want 5", remaining)
	}

	limiter.Allow(source)
	limiter.Allow(source)
	limiter.Allow(source)

	if remaining := limiter.RemainingRequests(source); remaining != 2 {
		t.Errorf("RemainingRequests() = %d, want 2", remaining)
	}

	limiter.Allow(source)
	limiter.Allow(source)

	if remaining := limiter.RemainingRequests(source); remaining != 0 {
		t.Errorf("RemainingRequests() = %d, want 0", remaining)
	}
}

func TestLimiter_ResetTime(t *testing.T) {
	limiter := New(Config{
		RequestsPerMinute: 1,
	})

	source := "ip:10.0.0.1"

	before := time.Now()
	limiter.Allow(source)

	resetTime := limiter.ResetTime(source)

	expectedReset := before.Add(time.Minute)
	tolerance := 2 * time.Second

	if resetTime.Before(expectedReset.Add(-tolerance)) || resetTime.After(expectedReset.Add(tolerance)) {
		t.Errorf("ResetTime() = %v, expected around %v", resetTime, expectedReset)
	}
}

func TestLimiter_DefaultConfig(t *testing.T) {
	limiter := New(Config{
		RequestsPerMinute: 0,
	})

	source := "ip:10.0.0.1"

	for i := 0; i < 10; i++ {
		if !limiter.Allow(source) {
			t.Errorf("Request %d should be allowed with default config", i+1)
		}
	}

	if limiter.Allow(source) {
		t.Error("11th request should be blocked")
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := New(Config{
		RequestsPerMinute: 100,
	})

	done := make(chan bool)
	source := "ip:10.0.0.1"

	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 20; j++ {
				limiter.Allow(source)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if remaining := limiter.RemainingRequests(source); remaining != 0 {
		t.Errorf("RemainingRequests() = %d, want 0 after concurrent access", remaining)
	}
}
