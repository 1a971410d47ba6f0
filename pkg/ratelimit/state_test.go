package ratelimit

import (
	"testing"
	"time"
)

func TestRateLimitState_IsStale(t *testing.T) {
	tests := []struct {
		name     string
		state    *RateLimitState
		maxAge   time.Duration
		expected bool
	}{
		{
			name:     "fresh state",
			state:    &RateLimitState{LastUpdate: time.Now()},
			maxAge:   5 * time.Minute,
			expected: false,
		},
		{
			name:     "stale state",
			state:    &RateLimitState{LastUpdate: time.Now().Add(-10 * time.Minute)},
			maxAge:   5 * time.Minute,
			expected: true,
		},
		{
			name:     "just under max age",
			state:    &RateLimitState{LastUpdate: time.Now().Add(-4 * time.Minute)},
			maxAge:   5 * time.Minute,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.state.IsStale(tt.maxAge); result != tt.expected {
				t.Errorf("IsStale() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestRateLimitState_Thresholds(t *testing.T) {
	tests := []struct {
		name           string
		remaining      int
		resetIn        time.Duration
		expectBlock    bool
		expectThrottle bool
		expectHealthy  bool
	}{
		{
			name:          "full budget",
			remaining:     60,
			resetIn:       time.Minute,
			expectHealthy: true,
		},
		{
			name:          "at healthy threshold",
			remaining:     ThresholdHealthy,
			resetIn:       time.Minute,
			expectHealthy: true,
		},
		{
			name:           "warning band",
			remaining:      5,
			resetIn:        time.Minute,
			expectThrottle: true,
		},
		{
			name:           "at critical threshold throttles",
			remaining:      ThresholdCritical,
			resetIn:        time.Minute,
			expectThrottle: true,
		},
		{
			name:        "below critical threshold blocks",
			remaining:   ThresholdCritical - 1,
			resetIn:     time.Minute,
			expectBlock: true,
		},
		{
			name:      "exhausted but window already reset",
			remaining: 0,
			resetIn:   -time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &RateLimitState{
				Remaining:  tt.remaining,
				ResetAt:    time.Now().Add(tt.resetIn),
				LastUpdate: time.Now(),
			}
			state.UpdateHealth()

			if got := state.NeedsCriticalBlock(); got != tt.expectBlock {
				t.Errorf("NeedsCriticalBlock() = %v, want %v", got, tt.expectBlock)
			}
			if got := state.NeedsThrottling(); got != tt.expectThrottle {
				t.Errorf("NeedsThrottling() = %v, want %v", got, tt.expectThrottle)
			}
			if state.IsHealthy != tt.expectHealthy {
				t.Errorf("IsHealthy = %v, want %v", state.IsHealthy, tt.expectHealthy)
			}
		})
	}
}

func TestRateLimitState_TimeUntilReset(t *testing.T) {
	past := &RateLimitState{ResetAt: time.Now().Add(-time.Hour)}
	if got := past.TimeUntilReset(); got != 0 {
		t.Errorf("TimeUntilReset() = %v, want 0 for past reset", got)
	}

	future := &RateLimitState{ResetAt: time.Now().Add(30 * time.Second)}
	got := future.TimeUntilReset()
	if got <= 28*time.Second || got > 30*time.Second {
		t.Errorf("TimeUntilReset() = %v, want about 30s", got)
	}
}
