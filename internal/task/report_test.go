package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnHeaders_WidthMatchesRule(t *testing.T) {
	headers := ColumnHeaders(false, 2)
	rule := ColumnHeaderRule(false, 2, "")
	assert.Equal(t, len(rule), len(headers))
}

func TestColumnHeaders_WithChecksumsAddsFourColumns(t *testing.T) {
	withChecksums := ColumnHeaders(true, 2)
	without := ColumnHeaders(false, 2)
	assert.True(t, len(withChecksums) > len(without))
}

func TestColumnString_MatchesHeaderWidth(t *testing.T) {
	tk := New("v1", "Widget", map[string]any{"name": "t1"}, map[string]any{"size": "large"})
	row := tk.State.ColumnString(true, true, 2)
	headers := ColumnHeaders(true, 2)
	assert.Equal(t, len(headers), len(row))
}

func TestColumnHeaderRule_CustomLineChar(t *testing.T) {
	rule := ColumnHeaderRule(false, 2, "=")
	assert.True(t, strings.Count(rule, "=") == len(rule))
}
