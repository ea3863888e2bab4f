package database

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrStoreUnavailable marks infrastructure failures of the record store.
// It is the only error class callers may treat as transient.
var ErrStoreUnavailable = errors.New("record store unavailable")

// Unavailable wraps err with ErrStoreUnavailable when it looks like a
// connectivity or timeout problem, and returns it unchanged otherwise.
func Unavailable(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if IsUnavailable(err) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func IsUnavailable(err error) bool {
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) || pgconn.Timeout(err) {
		return true
	}

	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
