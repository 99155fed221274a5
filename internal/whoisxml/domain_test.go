package whoisxml_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/whoisxml"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return b
}

func TestParseDomain_Full(t *testing.T) {
	rec, err := whoisxml.ParseDomain(readFixture(t, "domain_full.xml"), "kisa.or.kr")
	require.NoError(t, err)

	assert.Equal(t, append([]string{"query"}, whoisxml.DomainFields()...), rec.Keys())
	assert.Equal(t, "kisa.or.kr", rec.Query())

	get := func(key string) string {
		v, ok := rec.Get(key)
		require.True(t, ok, "missing key %q", key)
		return v.String()
	}
	assert.Equal(t, "한국인터넷진흥원", get("regName"))
	assert.Equal(t, "domain@kisa.or.kr", get("adminEmail"))
	assert.Equal(t, "2023. 01. 12.", get("lastUpdatedDate"))
	assert.Equal(t, "Korea Internet & Security Agency", get("e_regName"))
	assert.Equal(t, "http://www.gabia.co.kr", get("agency_url"))
	assert.Equal(t, "unsigned", get("dnssec"))

	status, _ := rec.Get("domainStatus")
	assert.True(t, status.IsList())
	assert.Equal(t, []string{"ok", "serverTransferProhibited"}, status.Items())

	ns, _ := rec.Get("ns1")
	ips, _ := rec.Get("ip1")
	assert.Equal(t, []string{"ns.kisa.or.kr", "ns2.kisa.or.kr"}, ns.Items())
	assert.Equal(t, []string{"211.252.150.2", "211.252.150.3"}, ips.Items())
}

func TestParseDomain_MissingOptionalFields(t *testing.T) {
	rec, err := whoisxml.ParseDomain(readFixture(t, "domain_no_lastupdated.xml"), "example.kr")
	require.NoError(t, err)

	v, ok := rec.Get("lastUpdatedDate")
	require.True(t, ok, "absent fields keep their key")
	assert.True(t, v.IsAbsent())

	v, ok = rec.Get("adminEmail")
	require.True(t, ok)
	assert.True(t, v.IsAbsent(), "empty element is absent")

	v, _ = rec.Get("ip1")
	assert.True(t, v.IsList())
	assert.Empty(t, v.Items())

	v, _ = rec.Get("regName")
	assert.Equal(t, "예시 주식회사", v.String())
	assert.Equal(t, 1+len(whoisxml.DomainFields()), rec.Len())
}

func TestParseDomain_MissingRecordNode(t *testing.T) {
	rec, err := whoisxml.ParseDomain(readFixture(t, "domain_missing_record.xml"), "not-a-real-host.invalid")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "whois/krdomain")
	assert.Nil(t, rec)
}

func TestParseDomain_GatewayEnvelope(t *testing.T) {
	_, err := whoisxml.ParseDomain(readFixture(t, "gateway_error.xml"), "example.kr")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "SERVICE_KEY_IS_NOT_REGISTERED_ERROR")
	assert.Contains(t, err.Error(), "reason code 30")
}

func TestParseDomain_Malformed(t *testing.T) {
	for _, body := range []string{
		"<response><whois><krdomain>",
		"<response></whois>",
		"",
		"SERVICE ERROR",
	} {
		t.Run(body, func(t *testing.T) {
			_, err := whoisxml.ParseDomain([]byte(body), "example.kr")
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
			assert.NotErrorIs(t, err, apperr.ErrSchemaMismatch)
		})
	}
}

func TestParseDomain_EUCKR(t *testing.T) {
	doc := `<?xml version="1.0" encoding="euc-kr"?>
<response><whois><krdomain><name>kisa.or.kr</name><regName>한국인터넷진흥원</regName></krdomain></whois></response>`
	encoded, err := korean.EUCKR.NewEncoder().String(doc)
	require.NoError(t, err)

	rec, err := whoisxml.ParseDomain([]byte(encoded), "kisa.or.kr")
	require.NoError(t, err)
	v, _ := rec.Get("regName")
	assert.Equal(t, "한국인터넷진흥원", v.String())
}
