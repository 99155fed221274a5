package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalWidth_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, defaultTermWidth, TerminalWidth(&buf))
}

func TestColumnWidth(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, defaultTermWidth-35, columnWidth(&buf, 35))
	assert.Equal(t, MinColumnWidth, columnWidth(&buf, 75), "narrow terminals keep the floor")
}

func TestNewWrappingTable_Renders(t *testing.T) {
	var buf bytes.Buffer
	table := NewWrappingTable(&buf, 20)
	table.Header([]string{"Field", "Value"})
	assert.NoError(t, table.Bulk([][]string{{"regName", "한국인터넷진흥원"}}))
	assert.NoError(t, table.Render())
	assert.Contains(t, buf.String(), "regName")
	assert.Contains(t, buf.String(), "한국인터넷진흥원")
}

func TestNewGroupedWrappingTable_Renders(t *testing.T) {
	var buf bytes.Buffer
	table := NewGroupedWrappingTable(&buf, 45)
	table.Header([]string{"Query", "Field", "Value"})
	assert.NoError(t, table.Bulk([][]string{
		{"kisa.or.kr", "regName", "KISA"},
		{"kisa.or.kr", "post", "58324"},
		{"8.8.8.8", "countryCode", "US"},
	}))
	assert.NoError(t, table.Render())
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "kisa.or.kr"), "rows of one query are merged")
	assert.Contains(t, out, "countryCode")
}
