package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// stateTTL bounds how long a started GitHub login may stay pending before
// the callback arrives.
const stateTTL = 10 * time.Minute

// OAuthStateRepo stores one-shot state values for the GitHub login flow.
// States normally live in Redis so that the callback may land on any
// instance behind a load balancer; when Redis is unavailable the repo
// degrades to a process-local map, which still protects a single-instance
// deployment against CSRF on the callback.
type OAuthStateRepo struct {
	rdb    *redis.Client
	prefix string

	mu    sync.Mutex
	local map[string]time.Time // state -> expiry, used only when rdb == nil
}

func NewOAuthStateRepo(rdb *redis.Client) *OAuthStateRepo {
	return &OAuthStateRepo{
		rdb:    rdb,
		prefix: "oauth:state:",
		local:  make(map[string]time.Time),
	}
}

// Create mints a fresh random state value and stores it with a TTL.
func (r *OAuthStateRepo) Create(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if r.rdb != nil {
		if err := r.rdb.Set(ctx, r.prefix+state, "1", stateTTL).Err(); err != nil {
			return "", err
		}
		return state, nil
	}
	r.mu.Lock()
	r.local[state] = time.Now().UTC().Add(stateTTL)
	r.mu.Unlock()
	return state, nil
}

// Consume validates a state value and deletes it in the same step so a
// state can be redeemed at most once.  Unknown, reused or expired states
// return ErrStateNotFound.
func (r *OAuthStateRepo) Consume(ctx context.Context, state string) error {
	if state == "" {
		return ErrStateNotFound
	}
	if r.rdb != nil {
		err := r.rdb.GetDel(ctx, r.prefix+state).Err()
		if err == redis.Nil {
			return ErrStateNotFound
		}
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.local[state]
	if !ok {
		return ErrStateNotFound
	}
	delete(r.local, state)
	if time.Now().UTC().After(exp) {
		return ErrStateNotFound
	}
	return nil
}
