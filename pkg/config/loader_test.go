package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymgo/gymgo/pkg/config"
)

type TestConfigDefault struct {
	TestString string `env:"TEST_STRING_DEFAULT" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_DEFAULT" envDefault:"42"`
	TestBool   bool   `env:"TEST_BOOL_DEFAULT" envDefault:"true"`
}

type TestConfigSuccess struct {
	TestString string `env:"TEST_STRING_SUCCESS" envDefault:"default_value"`
	TestInt    int    `env:"TEST_INT_SUCCESS" envDefault:"42"`
	TestBool   bool   `env:"TEST_BOOL_SUCCESS" envDefault:"true"`
}

type TestConfigSingleton struct {
	TestString string `env:"TEST_STRING_SINGLETON" envDefault:"default_value"`
}

type RequiredConfig struct {
	Required string `env:"REQUIRED_VALUE,required"`
}

func TestLoadSuccess(t *testing.T) {
	t.Setenv("TEST_STRING_SUCCESS", "test_value")
	t.Setenv("TEST_INT_SUCCESS", "100")
	t.Setenv("TEST_BOOL_SUCCESS", "false")

	var cfg TestConfigSuccess
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "test_value", cfg.TestString)
	assert.Equal(t, 100, cfg.TestInt)
	assert.Equal(t, false, cfg.TestBool)
}

func TestLoadDefaultValues(t *testing.T) {
	os.Unsetenv("TEST_STRING_DEFAULT")
	os.Unsetenv("TEST_INT_DEFAULT")
	os.Unsetenv("TEST_BOOL_DEFAULT")

	var cfg TestConfigDefault
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "default_value", cfg.TestString)
	assert.Equal(t, 42, cfg.TestInt)
	assert.Equal(t, true, cfg.TestBool)
}

func TestLoadMissingRequired(t *testing.T) {
	os.Unsetenv("REQUIRED_VALUE")

	var cfg RequiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadSingleton(t *testing.T) {
	t.Setenv("TEST_STRING_SINGLETON", "first_value")

	var firstConfig TestConfigSingleton
	require.NoError(t, config.Load(&firstConfig))

	// Changing the environment after the first load must not change the
	// cached value.
	t.Setenv("TEST_STRING_SINGLETON", "second_value")

	var secondConfig TestConfigSingleton
	require.NoError(t, config.Load(&secondConfig))
	assert.Equal(t, "first_value", secondConfig.TestString)
}

func TestLoadNilPointer(t *testing.T) {
	var cfg *TestConfigSuccess
	err := config.Load(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestResetCache(t *testing.T) {
	t.Setenv("TEST_STRING_SINGLETON", "before_reset")

	config.ResetCache()
	var first TestConfigSingleton
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "before_reset", first.TestString)

	t.Setenv("TEST_STRING_SINGLETON", "after_reset")
	config.ResetCache()

	var second TestConfigSingleton
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "after_reset", second.TestString)
}
