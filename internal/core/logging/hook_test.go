package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "review session and suggestion",
			setupCtx: func() context.Context {
				ctx := context.Background()
				ctx = WithReviewSessionID(ctx, "rs-123")
				ctx = WithSuggestionID(ctx, "sugg-456")
				return ctx
			},
			wantKeys: []string{"review_session_id", "suggestion_id"},
		},
		{
			name: "only review session",
			setupCtx: func() context.Context {
				return WithReviewSessionID(context.Background(), "rs-123")
			},
			wantKeys:  []string{"review_session_id"},
			wantEmpty: []string{"suggestion_id"},
		},
		{
			name: "only suggestion",
			setupCtx: func() context.Context {
				return WithSuggestionID(context.Background(), "sugg-456")
			},
			wantKeys:  []string{"suggestion_id"},
			wantEmpty: []string{"review_session_id"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"review_session_id", "suggestion_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := tt.setupCtx()

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(ctx).Msg("test")

			var logEntry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}
