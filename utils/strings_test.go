package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Camiseta Manga Longa Azul": "camiseta-manga-longa-azul",
		"  Moletom  Cinza  ":        "moletom-cinza",
		"Tenis (Edicao Limitada)!":  "tenis-edicao-limitada",
		"ja_com_underscores":        "ja-com-underscores",
		"---":                       "",
		"":                          "",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(4)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9A-F]{8}$`, a)

	b, err := RandomHex(4)
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two draws should differ")
}
