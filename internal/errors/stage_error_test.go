package errors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageError(t *testing.T) {
	cause := NewSinkError("failed to create output directory", errors.New("read-only file system"))
	err := NewStageError("sink", 1500*time.Millisecond, cause)

	assert.Equal(t, "stage sink failed: [SINK] failed to create output directory: read-only file system", err.Error())
	assert.Equal(t, 1500*time.Millisecond, err.Elapsed)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeSink, appErr.Type)
	assert.True(t, IsType(err, ErrTypeSink))
}

func TestStageError_NilAndEmpty(t *testing.T) {
	var nilErr *StageError
	assert.Equal(t, "unknown stage error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())

	assert.Equal(t, "stage extract failed", NewStageError("extract", 0, nil).Error())
}

func TestPanicError(t *testing.T) {
	err := NewStageError("enrich", 0, &PanicError{Value: "index out of range"})

	var p *PanicError
	require.True(t, errors.As(err, &p))
	assert.Equal(t, "panic: index out of range", p.Error())
}
