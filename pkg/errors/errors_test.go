package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeParseSyntax, "unexpected token")

	require.NotNil(t, err)
	assert.Equal(t, ErrCodeParseSyntax, err.Code)
	assert.Equal(t, "unexpected token", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Equal(t, "[PARSE_001] unexpected token", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCodeParseRingClosure, "ring bond %d never closed", 3)
	assert.Equal(t, "[PARSE_003] ring bond 3 never closed", err.Error())
}

func TestWithDetail(t *testing.T) {
	base := New(ErrCodeParseValence, "valence violation")
	detailed := base.WithDetail("atom=N degree=5")

	assert.Empty(t, base.Detail, "WithDetail must not mutate the receiver")
	assert.Equal(t, "atom=N degree=5", detailed.Detail)
	assert.Contains(t, detailed.Error(), "atom=N degree=5")

	var nilErr *AppError
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrCodeIndexLoadFailed, "load failed"))
	})

	t.Run("wraps and unwraps", func(t *testing.T) {
		cause := stderrors.New("disk gone")
		err := Wrap(cause, ErrCodeIndexLoadFailed, "failed to load snapshot")

		require.NotNil(t, err)
		assert.Equal(t, ErrCodeIndexLoadFailed, err.Code)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("CodeUnknown preserves inner code", func(t *testing.T) {
		inner := New(ErrCodeParseBracket, "unclosed bracket")
		err := Wrap(inner, CodeUnknown, "parse failed")
		assert.Equal(t, ErrCodeParseBracket, err.Code)
	})
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeMatchTimeout, "pattern budget exhausted")
	wrapped := fmt.Errorf("tier 3: %w", Wrap(inner, CodeUnknown, "scaffold scan"))

	assert.True(t, IsCode(wrapped, ErrCodeMatchTimeout))
	assert.False(t, IsCode(wrapped, ErrCodeParseSyntax))
	assert.False(t, IsCode(nil, ErrCodeMatchTimeout))
}

func TestIsParseError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"parse code", New(ErrCodeParseUnknownAtom, "symbol Xx"), true},
		{"wrapped parse code", Wrap(New(ErrCodeParseEmptyStructure, "no atoms"), CodeInternal, "classify"), true},
		{"non-parse code", New(ErrCodeIndexLoadFailed, "boom"), false},
		{"plain error", stderrors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsParseError(tt.err))
		})
	}
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodePatternCompileFailed, GetCode(New(ErrCodePatternCompileFailed, "bad smarts")))
}

func TestConvenienceFactories(t *testing.T) {
	assert.Equal(t, CodeNotFound, NotFound("missing").Code)
	assert.Equal(t, CodeInvalidParam, InvalidParam("bad").Code)
	assert.Equal(t, CodeInternal, Internal("boom").Code)
	assert.True(t, IsNotFound(NotFound("missing")))
}
