package common_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/factorycore/internal/application/common"
)

type pingCommand struct{ Value string }

type recordingLogger struct {
	levels []string
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.levels = append(l.levels, level)
}

func TestMediator_SendDispatchesByRequestType(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	err := common.RegisterHandler[*pingCommand](m, common.HandlerFunc(func(ctx context.Context, request common.Request) (common.Response, error) {
		return "pong:" + request.(*pingCommand).Value, nil
	}))
	require.NoError(t, err)

	// Act
	resp, err := m.Send(context.Background(), &pingCommand{Value: "a"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pong:a", resp)
}

func TestMediator_RegisterRejectsDuplicates(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	noop := common.HandlerFunc(func(context.Context, common.Request) (common.Response, error) { return nil, nil })
	require.NoError(t, common.RegisterHandler[*pingCommand](m, noop))

	// Act
	err := common.RegisterHandler[*pingCommand](m, noop)

	// Assert
	assert.Error(t, err)
}

func TestMediator_SendUnknownRequest(t *testing.T) {
	// Arrange
	m := common.NewMediator()

	// Act
	_, err := m.Send(context.Background(), &pingCommand{})

	// Assert
	assert.ErrorContains(t, err, "no handler registered")
}

func TestMediator_SendRecoversHandlerPanic(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	require.NoError(t, common.RegisterHandler[*pingCommand](m, common.HandlerFunc(func(context.Context, common.Request) (common.Response, error) {
		panic("boom")
	})))
	logger := &recordingLogger{}
	ctx := common.WithLogger(context.Background(), logger)

	// Act
	resp, err := m.Send(ctx, &pingCommand{})

	// Assert
	assert.Nil(t, resp)
	var panicErr *common.ErrHandlerPanic
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "boom", panicErr.Value)
	assert.Equal(t, []string{common.LevelError}, logger.levels)
}

func TestMediator_MiddlewaresWrapInRegistrationOrder(t *testing.T) {
	// Arrange
	m := common.NewMediator()
	var trace []string
	require.NoError(t, common.RegisterHandler[*pingCommand](m, common.HandlerFunc(func(context.Context, common.Request) (common.Response, error) {
		trace = append(trace, "handler")
		return nil, nil
	})))
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.Use(func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
			trace = append(trace, name)
			return next(ctx, request)
		})
	}

	// Act
	_, err := m.Send(context.Background(), &pingCommand{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
}

func TestLoggerFromContext_FallsBackToNoOp(t *testing.T) {
	// Act
	logger := common.LoggerFromContext(context.Background())

	// Assert
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Log(common.LevelInfo, "ignored", nil) })
}
