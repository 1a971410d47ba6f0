package ratelimit

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name            string
		remainHeader    string
		resetHeader     string
		expectNil       bool
		expectedRemain  int
		expectedHealthy bool
		expectedResetIn time.Duration
		shouldError     bool
	}{
		{
			name:            "healthy state",
			remainHeader:    "55",
			resetHeader:     "60",
			expectedRemain:  55,
			expectedHealthy: true,
			expectedResetIn: 60 * time.Second,
		},
		{
			name:            "warning state",
			remainHeader:    "8",
			resetHeader:     "30",
			expectedRemain:  8,
			expectedResetIn: 30 * time.Second,
		},
		{
			name:            "reset header missing defaults to one minute",
			remainHeader:    "40",
			expectedRemain:  40,
			expectedHealthy: true,
			expectedResetIn: 60 * time.Second,
		},
		{
			name:      "no budget headers",
			expectNil: true,
		},
		{
			name:         "invalid remain header",
			remainHeader: "lots",
			resetHeader:  "60",
			shouldError:  true,
		},
		{
			name:         "invalid reset header",
			remainHeader: "40",
			resetHeader:  "soon",
			shouldError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.remainHeader != "" {
				headers.Set(HeaderRemaining, tt.remainHeader)
			}
			if tt.resetHeader != "" {
				headers.Set(HeaderReset, tt.resetHeader)
			}

			state, err := ParseHeaders(headers)
			if tt.shouldError {
				if err == nil {
					t.Fatal("Expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.expectNil {
				if state != nil {
					t.Errorf("ParseHeaders() = %+v, want nil", state)
				}
				return
			}

			if state.Remaining != tt.expectedRemain {
				t.Errorf("Remaining = %d, want %d", state.Remaining, tt.expectedRemain)
			}
			if state.IsHealthy != tt.expectedHealthy {
				t.Errorf("IsHealthy = %v, want %v", state.IsHealthy, tt.expectedHealthy)
			}
			resetIn := state.TimeUntilReset()
			if resetIn < tt.expectedResetIn-2*time.Second || resetIn > tt.expectedResetIn {
				t.Errorf("TimeUntilReset() = %v, want about %v", resetIn, tt.expectedResetIn)
			}
		})
	}
}

func TestUpdateFromHeaders_InvalidHeaders(t *testing.T) {
	logger := zerolog.New(os.Stderr).Level(zerolog.Disabled)
	// Invalid or missing headers never reach Redis
	tracker := NewTracker(nil, logger)

	tests := []struct {
		name         string
		remainHeader string
		resetHeader  string
		shouldError  bool
	}{
		{
			name:        "both headers missing",
			resetHeader: "",
			shouldError: false,
		},
		{
			name:        "missing remain header",
			resetHeader: "60",
			shouldError: false,
		},
		{
			name:         "invalid remain header",
			remainHeader: "invalid",
			resetHeader:  "60",
			shouldError:  true,
		},
		{
			name:         "invalid reset header",
			remainHeader: "50",
			resetHeader:  "invalid",
			shouldError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := http.Header{}
			if tt.remainHeader != "" {
				headers.Set(HeaderRemaining, tt.remainHeader)
			}
			if tt.resetHeader != "" {
				headers.Set(HeaderReset, tt.resetHeader)
			}

			err := tracker.UpdateFromHeaders(context.Background(), headers)

			if tt.shouldError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNewTracker_DefaultThrottleDelay(t *testing.T) {
	tracker := NewTracker(nil, zerolog.Nop())
	if tracker.throttleDelay != DefaultThrottleDelay {
		t.Errorf("throttleDelay = %v, want %v", tracker.throttleDelay, DefaultThrottleDelay)
	}

	tracker.SetThrottleDelay(10 * time.Millisecond)
	if tracker.throttleDelay != 10*time.Millisecond {
		t.Errorf("throttleDelay = %v after SetThrottleDelay, want 10ms", tracker.throttleDelay)
	}
}
