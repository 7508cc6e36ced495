package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMockLoggerRecordsMessages(t *testing.T) {
	mock := NewMockLogger()

	mock.Info("importing finding", "slug", "sql-injection")
	mock.Warn("image copy failed")
	mock.Error("database commit failed")

	assert.True(t, mock.HasMessage("INFO", "importing finding"))
	assert.True(t, mock.HasMessage("WARN", "image copy failed"))
	assert.True(t, mock.HasMessageContaining("ERROR", "commit"))
	assert.False(t, mock.HasMessage("DEBUG", "importing finding"))
}

func TestMockLoggerWithSharesMessages(t *testing.T) {
	mock := NewMockLogger()

	derived := mock.With("client", "acme")
	derived.Info("wrote asset")

	assert.True(t, mock.HasMessage("INFO", "wrote asset"))
	assert.Len(t, *mock.Messages, 1)
	assert.Equal(t, []any{"client", "acme"}, (*mock.Messages)[0].Args)
}

func TestMockLoggerClear(t *testing.T) {
	mock := NewMockLogger()
	mock.Info("something")
	mock.Clear()
	assert.Empty(t, *mock.Messages)
}

func TestSetupLoggerReplacesGlobal(t *testing.T) {
	orig := GetGlobalLogger()
	defer SetGlobalLogger(orig)

	SetupLogger(true, "json")
	assert.NotNil(t, GetGlobalLogger())

	mock := NewMockLogger()
	SetGlobalLogger(mock)
	WithClient("acme").Info("hello")
	assert.True(t, mock.HasMessage("INFO", "hello"))
}
