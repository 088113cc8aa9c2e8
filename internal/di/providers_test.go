package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NYCalc/pkg/cache"
	"NYCalc/pkg/config"
	applogger "NYCalc/pkg/logger"
)

func TestInitializeAppWithoutInfra(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Output = "stderr"

	app, cleanup, err := InitializeApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app)
	cleanup()
}

func TestOptionalProvidersAreNil(t *testing.T) {
	cfg := config.Default()
	l := applogger.Nop()

	ch, cleanup, err := ProvideClickHouseClient(cfg, l)
	require.NoError(t, err)
	assert.Nil(t, ch)
	cleanup()

	p, cleanup, err := ProvideKafkaProducer(cfg, l)
	require.NoError(t, err)
	assert.Nil(t, p)
	cleanup()

	c, err := ProvideKafkaConsumer(cfg, l)
	require.NoError(t, err)
	assert.Nil(t, c)

	mem := cache.NewMemoryCache()
	defer mem.Close()
	assert.Nil(t, ProvideCandleStore(nil, mem, cfg, l))
	assert.Nil(t, ProvideResultPublisher(nil, cfg))
}

func TestProvideCacheInMemory(t *testing.T) {
	svc, cleanup, err := ProvideCache(config.Default(), applogger.Nop())
	require.NoError(t, err)
	defer cleanup()
	_, ok := svc.(*cache.MemoryCache)
	assert.True(t, ok)
}
