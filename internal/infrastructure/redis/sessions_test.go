package redis

import (
	"context"
	"testing"
	"time"

	"github.com/barangay-cms/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url://")
	assert.ErrorContains(t, err, "invalid URL")
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "cms:session:01HS", sessionKey("01HS"))
}

func TestPut_RejectsExpiredWithoutRoundTrip(t *testing.T) {
	// unreachable address; the expired check must fail before any dial
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
	defer client.Close()
	repo := NewSessionRepo(client)

	err := repo.Put(context.Background(), &domain.Session{
		SessionID: "01HS",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.ErrorContains(t, err, "already expired")
}
