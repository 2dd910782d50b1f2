package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var dest map[string]int
	assert.ErrorIs(t, repo.Get(ctx, "k", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "k"))
	assert.NoError(t, repo.DeleteByPattern(ctx, "k*"))
	assert.NoError(t, repo.Ping(ctx))
}
