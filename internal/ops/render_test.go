package ops_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbckr/krwhois/internal/ops"
	"github.com/tbckr/krwhois/internal/output"
)

func TestLookupReports_Plain(t *testing.T) {
	o := newOps(exampleFetcher())
	reports := ops.LookupReports{
		o.Lookup(context.Background(), "8.8.8.8", ""),
		o.Lookup(context.Background(), "not-a-real-host.invalid", ""),
	}

	var buf bytes.Buffer
	require.NoError(t, output.Write(&buf, output.FormatPlain, reports))
	assert.Equal(t,
		"8.8.8.8\tcountryCode\tUS\n"+
			"8.8.8.8\tregistry\tARIN\n"+
			"not-a-real-host.invalid\terror\tmalformed response: XML syntax error\n",
		buf.String())
}

func TestLookupReports_Table(t *testing.T) {
	o := newOps(exampleFetcher())
	reports := ops.LookupReports{o.Lookup(context.Background(), "8.8.8.8", "")}

	var buf bytes.Buffer
	require.NoError(t, output.Write(&buf, output.FormatTable, reports))
	out := buf.String()
	assert.Contains(t, out, "8.8.8.8")
	assert.Contains(t, out, "countryCode")
	assert.Contains(t, out, "ARIN")
}

func TestBulkReport_Render(t *testing.T) {
	opts := ops.DefaultBulkOptions()
	opts.IncludeFailures = true
	report := newOps(exampleFetcher()).BulkLookup(context.Background(),
		[]string{"8.8.8.8", "not-a-real-host.invalid"}, opts)

	var plain bytes.Buffer
	require.NoError(t, output.Write(&plain, output.FormatPlain, report))
	assert.Equal(t, "8.8.8.8\tsuccess\nnot-a-real-host.invalid\terror\n", plain.String())

	var table bytes.Buffer
	require.NoError(t, output.Write(&table, output.FormatTable, report))
	assert.Contains(t, table.String(), "50.0%")
	assert.Contains(t, table.String(), "not-a-real-host.invalid")
}

func TestLoadReport_Plain(t *testing.T) {
	report := &ops.LoadReport{Status: ops.StatusSuccess, Items: []string{"a.kr", "1.2.3.4"}}
	var buf bytes.Buffer
	require.NoError(t, output.Write(&buf, output.FormatPlain, report))
	assert.Equal(t, "a.kr\n1.2.3.4\n", buf.String())
}

func TestSaveReport_Render(t *testing.T) {
	ok := &ops.SaveReport{Status: ops.StatusSuccess, FilePath: "out.csv", RecordsSaved: 2}
	var buf bytes.Buffer
	require.NoError(t, output.Write(&buf, output.FormatPlain, ok))
	assert.Equal(t, "success\tout.csv\n", buf.String())

	buf.Reset()
	require.NoError(t, output.Write(&buf, output.FormatTable, ok))
	assert.Contains(t, buf.String(), "out.csv")
}
