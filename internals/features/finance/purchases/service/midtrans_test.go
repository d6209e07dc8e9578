package service

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateOnRunes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 50))
	assert.Equal(t, "abcde", truncate("abcdefgh", 5))

	// multi-byte title must never be cut mid-rune
	title := strings.Repeat("Pemrograman Gö ", 10)
	cut := truncate(title, 50)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, 50, utf8.RuneCountInString(cut))

	assert.Equal(t, "été", truncate("été", 3))
}
