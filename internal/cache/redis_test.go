package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector/internal/model"
)

func setupTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisFromClient(client)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestKey_Normalized(t *testing.T) {
	a := Key("Tacos El Buen Sabor", "Ciudad de México")
	b := Key("  TACOS EL BUEN SABOR ", "ciudad de mexico")
	assert.Equal(t, a, b)
	assert.Equal(t, "enrich:tacoselbuensabor:ciudaddemexico", a)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, _ := setupTestCache(t)
	ctx := context.Background()

	p := &model.EnrichmentProfile{
		CompanyName: "Tacos El Buen Sabor",
		Location:    "Ciudad de México",
		LeadScore:   60,
		Emails: []model.EmailCandidate{
			{Address: "contacto@tacoselbuensabor.com.mx", Confidence: 1, Source: model.EmailSourcePattern},
		},
		Sources:    []string{"email_generation"},
		EnrichedAt: time.Now().UTC().Truncate(time.Second),
	}

	key := Key(p.CompanyName, p.Location)
	require.NoError(t, c.SetProfile(ctx, key, p, time.Hour))

	got, err := c.GetProfile(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.CompanyName, got.CompanyName)
	assert.Equal(t, p.LeadScore, got.LeadScore)
	assert.Equal(t, p.Emails, got.Emails)
}

func TestRedisCache_MissReturnsNil(t *testing.T) {
	c, _ := setupTestCache(t)

	got, err := c.GetProfile(context.Background(), "enrich:nadie:aqui")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	p := &model.EnrichmentProfile{CompanyName: "X", Location: "Y"}
	key := Key("X", "Y")
	require.NoError(t, c.SetProfile(ctx, key, p, time.Hour))

	mr.FastForward(time.Hour + time.Second)

	got, err := c.GetProfile(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "expired entry must look like a miss")
}

func TestNopCache(t *testing.T) {
	var c Cache = Nop{}
	ctx := context.Background()

	require.NoError(t, c.SetProfile(ctx, "k", &model.EnrichmentProfile{}, time.Hour))
	got, err := c.GetProfile(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Close())
}
