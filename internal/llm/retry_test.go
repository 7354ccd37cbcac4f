package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func unavailable() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("503 from upstream")}}
}

func TestRetry_Attempts(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
		wantText  string
		wantErr   bool
	}{
		{
			name:      "first attempt succeeds",
			responses: []MockResponse{Text("Try the fraction strips lesson.")},
			wantCalls: 1,
			wantText:  "Try the fraction strips lesson.",
		},
		{
			name:      "outage then success",
			responses: []MockResponse{unavailable(), Text("Recovered.")},
			wantCalls: 2,
			wantText:  "Recovered.",
		},
		{
			name:      "outage on every attempt",
			responses: []MockResponse{unavailable(), unavailable(), unavailable()},
			wantCalls: 3,
			wantErr:   true,
		},
		{
			name: "rate limit honours retry-after",
			responses: []MockResponse{
				{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}},
				Text("After the wait."),
			},
			wantCalls: 2,
			wantText:  "After the wait.",
		},
		{
			name:      "truncated output is not retried",
			responses: []MockResponse{{Err: &ErrMaxTokensExceeded{}}},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name:      "rejected request is not retried",
			responses: []MockResponse{{Err: &ErrRequestRejected{StatusCode: 401, Err: errors.New("invalid x-api-key")}}, Text("unreached")},
			wantCalls: 1,
			wantErr:   true,
		},
		{
			name: "empty response retried once",
			responses: []MockResponse{
				{Err: &ErrInvalidResponse{Err: errors.New("no text")}},
				{Err: &ErrInvalidResponse{Err: errors.New("no text")}},
				Text("unreached"),
			},
			wantCalls: 2,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			text, err := Complete(context.Background(), WithRetry(mock, fastRetry(), nil), "sys", "prompt", 0.5, 100)
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if text != tt.wantText {
				t.Errorf("text = %q, want %q", text, tt.wantText)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetry_KeepsTypedError(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRequestRejected{StatusCode: 404, Err: errors.New("model not found")}})
	_, err := WithRetry(mock, fastRetry(), nil).Generate(context.Background(), Request{})

	var rejected *ErrRequestRejected
	if !errors.As(err, &rejected) || rejected.StatusCode != 404 {
		t.Fatalf("expected ErrRequestRejected(404), got %T (%v)", err, err)
	}
}

func TestRetry_StopsOnCancelledContext(t *testing.T) {
	mock := NewMockProvider(unavailable(), unavailable(), Text("unreached"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, fastRetry(), nil).Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetry_ModelIDDelegates(t *testing.T) {
	if got := WithRetry(NewMockProvider(), fastRetry(), nil).ModelID(); got != "mock" {
		t.Fatalf("ModelID = %q, want mock", got)
	}
}
