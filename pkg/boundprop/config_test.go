package boundprop

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(TraceEnv, "")
	cfg := DefaultConfig()
	assert.Equal(t, zerolog.Disabled, cfg.Logger.GetLevel())
	assert.True(t, cfg.TableCrossRow)
	assert.False(t, cfg.CheckInvariants)
	assert.Zero(t, cfg.MaxTreeVertices)
	assert.Nil(t, cfg.OnBound)
}

func TestDefaultConfig_TraceEnv(t *testing.T) {
	t.Setenv(TraceEnv, "1")
	assert.Equal(t, zerolog.TraceLevel, DefaultConfig().Logger.GetLevel())
}

func TestNew_NilConfig(t *testing.T) {
	p := New(nil, nil)
	require.NotNil(t, p.cfg)
	assert.True(t, p.cfg.TableCrossRow)
}

func TestTraceOutput(t *testing.T) {
	var buf bytes.Buffer
	f, r0, r1 := twoRowsSameKey(t)
	f.cfg.Logger = zerolog.New(&buf).Level(zerolog.TraceLevel)
	p := f.start()

	p.CheapEqTable(r0)
	p.CheapEqTable(r1)
	p.CheapEqTree(r0)
	p.AnalyzeRow(r0)

	out := buf.String()
	for _, tag := range []string{`"tag":"cheap_eqs"`, `"tag":"cheap_eq"`, `"reporting eq"`, `"display":"r0: a - b - k1 = 0 [k1=3]"`} {
		assert.Contains(t, out, tag)
	}
}
