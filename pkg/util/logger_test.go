package util

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l, err := NewLogger(&buf, LogFormatLogfmt, false)
	require.NoError(t, err)
	level.Debug(l).Log("msg", "hidden")
	level.Info(l).Log("msg", "shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `level=info msg=shown`)

	buf.Reset()
	l, err = NewLogger(&buf, LogFormatJSON, true)
	require.NoError(t, err)
	level.Debug(LoggerWithProfile("cpu.pprof", l)).Log("msg", "shown")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"profile":"cpu.pprof"`)

	_, err = NewLogger(&buf, "xml", false)
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, LoggerFromContext(ctx))
	assert.NotNil(t, RegistryFromContext(ctx))

	l := log.NewNopLogger()
	reg := prometheus.NewRegistry()
	ctx = WithRegistry(WithLogger(ctx, l), reg)
	assert.Equal(t, l, LoggerFromContext(ctx))
	assert.Equal(t, prometheus.Registerer(reg), RegistryFromContext(ctx))
}

func TestLoadYAML(t *testing.T) {
	var cfg struct {
		Cutoff float64 `yaml:"cutoff"`
		Pin    string  `yaml:"y_pin"`
	}
	cfg.Pin = "deepest-leaf"
	require.NoError(t, LoadYAML(strings.NewReader("cutoff: 0.01\n"), &cfg))
	assert.Equal(t, 0.01, cfg.Cutoff)
	assert.Equal(t, "deepest-leaf", cfg.Pin)

	require.NoError(t, LoadYAML(strings.NewReader(""), &cfg))
	assert.Error(t, LoadYAML(strings.NewReader("unknown: 1\n"), &cfg))
}
