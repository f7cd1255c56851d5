package querycache

import "time"

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State mirrors {isLoading, error, data} for one key.
type State struct {
	Status    Status
	Data      any
	Err       error
	UpdatedAt time.Time
}

func (s State) IsLoading() bool { return s.Status == StatusLoading }

// As extracts typed data from a successful state.
func As[T any](s State) (T, bool) {
	var zero T
	if s.Status != StatusSuccess {
		return zero, false
	}
	t, ok := s.Data.(T)
	return t, ok
}
