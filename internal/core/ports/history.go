package ports

import "github.com/mohitmv/qrun/internal/core/domain"

// HistoryStore defines the interface for recording invocation outcomes.
//
//go:generate mockgen -source=history.go -destination=mocks/mock_history.go -package=mocks
type HistoryStore interface {
	// Append records a finished invocation under the given root.
	Append(root string, inv domain.Invocation) error

	// Last retrieves the most recent recorded invocation under the given
	// root. Returns nil, nil when no history exists.
	Last(root string) (*domain.Invocation, error)
}
