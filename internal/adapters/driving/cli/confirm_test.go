package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAskYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := askYesNo(strings.NewReader(tt.input), &out, "Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Proceed? [y/N]: ", out.String())
		})
	}
}

func TestConfirmOrSkip_Yes(t *testing.T) {
	called := false
	old := confirm
	confirm = func(_ io.Writer, _ string) (bool, error) {
		called = true
		return false, nil
	}
	defer func() { confirm = old }()

	assert.NoError(t, confirmOrSkip(&bytes.Buffer{}, true, "Proceed?"))
	assert.False(t, called)
}
