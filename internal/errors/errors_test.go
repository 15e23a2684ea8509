package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))

	plain := Wrap(fs.ErrNotExist, "open data file")
	assert.Equal(t, CodeInternalError, GetCode(plain))
	assert.True(t, stderrors.Is(plain, fs.ErrNotExist))
	assert.Equal(t, "open data file: file does not exist", plain.Error())

	cfg := Wrap(ConfigInvalid("ALPHA must be in (0, 1)"), "load configuration")
	assert.Equal(t, CodeConfigInvalid, GetCode(cfg))

	nested := Wrapf(fmt.Errorf("outer: %w", cfg), "run %d", 1)
	assert.Equal(t, CodeConfigInvalid, GetCode(nested))
	assert.Equal(t, "run 1: outer: load configuration: ALPHA must be in (0, 1)", nested.Error())
}

func TestWithCode(t *testing.T) {
	assert.Nil(t, WithCode(CodeNotFound, nil))

	err := WithCode(CodeNotFound, fs.ErrNotExist)
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
}

func TestGetCodeAndExitCode(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("boom")))
	assert.False(t, IsAppError(stderrors.New("boom")))
	assert.True(t, IsAppError(fmt.Errorf("wrapped: %w", InvalidInput("bad field"))))

	assert.Equal(t, 2, ExitCode(ConfigInvalid("x")))
	assert.Equal(t, 3, ExitCode(InvalidInput("x")))
	assert.Equal(t, 3, ExitCode(NotFound("data file")))
	assert.Equal(t, 1, ExitCode(InternalError("x")))
	assert.Equal(t, 1, ExitCode(stderrors.New("boom")))
	assert.Equal(t, "data file not found", NotFound("data file").Error())
}
