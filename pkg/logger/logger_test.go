package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/morvic-api/pkg/logger"
)

func TestComponent_AgregaCampo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "info", Out: &buf})

	log := l.Component("order")
	log.Info().Int64("id_pedido", 7).Msg("pedido creado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "order", entry["component"])
	assert.Equal(t, "pedido creado", entry["message"])
	assert.EqualValues(t, 7, entry["id_pedido"])
}

func TestNivelInvalido_UsaInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "ruidoso", Out: &buf})

	l.Debug().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	l.Info().Msg("sí sale")
	assert.NotZero(t, buf.Len())
}
