package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

// IdKey carries the identifier of the authenticated user. Authentication itself
// happens upstream (the identity provider in front of this service); this
// package only propagates the resolved ID to services that partition data per user.
const IdKey contextKey = "userId"

var ErrNoUser = errors.New("user not found in request context")

// CurrentId retrieves the current user's ID from the context. Returns ErrNoUser if not present.
func CurrentId(ctx context.Context) (string, error) {
	id, ok := ctx.Value(IdKey).(string)
	if !ok || id == "" {
		log.Trace("user not found in context")
		return "", ErrNoUser
	}
	return id, nil
}

func WithId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, IdKey, id)
}
