// internal/domain/class/repository.go
package class

import "context"

// Repository defines the operations for persisting and retrieving
// session records.
//
// The store does not enforce key uniqueness; callers must check
// ListByDate and de-duplicate before Insert. MarkSent is a no-op when
// no row matches the key.
type Repository interface {
	ListByDate(ctx context.Context, date string) ([]Session, error)
	Insert(ctx context.Context, session *Session) error
	ListPending(ctx context.Context, date string) ([]Session, error)
	MarkSent(ctx context.Context, date, className, timeRange string) error
}
