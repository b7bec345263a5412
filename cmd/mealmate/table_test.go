package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, renderTable(nil, [][]string{{"x"}}, nil))
}

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := renderTable([]string{"Name", "Ready"}, [][]string{{"Pancakes"}, {"Omelette", "yes"}}, nil)

	assert.Contains(t, out, "Pancakes")
	assert.Contains(t, out, "Omelette")
	assert.Contains(t, out, "yes")
	// Rounded style corners.
	assert.True(t, strings.HasPrefix(out, "╭"))
	assert.True(t, strings.HasSuffix(out, "╯"))
}

func TestRenderTable_RightAlign(t *testing.T) {
	out := renderTable(
		[]string{"Label", "Count"},
		[][]string{{"a", "1"}, {"b", "100"}},
		[]columnAlignment{alignLeft, alignRight},
	)

	// "1" is padded on the left to the width of "Count".
	assert.Contains(t, out, "     1 │")
}
