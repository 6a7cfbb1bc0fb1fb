package logger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/zerr"

	"github.com/mohitmv/qrun/internal/adapters/logger"
)

func TestCollectErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			name: "single standard error",
			err:  errors.New("simple error"),
			want: []string{"simple error"},
		},
		{
			name: "zerr single error",
			err:  zerr.New("zerr error"),
			want: []string{"zerr error"},
		},
		{
			name: "zerr wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(
					errors.New("root cause"),
					"middle layer",
				),
				"outer layer",
			),
			want: []string{"outer layer", "middle layer", "root cause"},
		},
		{
			name: "stdlib chain collapses into one entry",
			err:  errors.Join(errors.New("first"), errors.New("second")),
			want: []string{"first\nsecond"},
		},
		{
			name: "nil error handling",
			err:  nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.CollectErrorMessages(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     string
	}{
		{
			name:     "single message",
			messages: []string{"single error"},
			want:     "Error: single error",
		},
		{
			name:     "two messages with caused by",
			messages: []string{"outer error", "inner error"},
			want:     "Error: outer error\n\n  Caused by:\n    → inner error",
		},
		{
			name:     "three messages",
			messages: []string{"first", "second", "third"},
			want:     "Error: first\n\n  Caused by:\n    → second\n    → third",
		},
		{
			name:     "multiline message",
			messages: []string{"line1\nline2\nline3"},
			want:     "Error: line1\n       line2\n       line3",
		},
		{
			name:     "multiline cause message",
			messages: []string{"main", "cause line1\ncause line2"},
			want:     "Error: main\n\n  Caused by:\n    → cause line1\n      cause line2",
		},
		{
			name:     "no messages",
			messages: nil,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := logger.FormatErrorMessages(tt.messages)
			assert.Equal(t, tt.want, got)
		})
	}
}
