package subscriptions

import "context"

type Repository interface {
	// Insert adds the (user, stock) pair. It reports false when the pair
	// already exists instead of failing on the unique constraint.
	Insert(ctx context.Context, userID, stockID string) (bool, error)
	// Delete removes the pair and reports whether a row was removed.
	Delete(ctx context.Context, userID, stockID string) (bool, error)
	// ListTickers returns the tickers the user subscribes to, ordered.
	ListTickers(ctx context.Context, userID string) ([]string, error)
}
