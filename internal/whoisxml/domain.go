package whoisxml

import (
	"github.com/tbckr/krwhois/internal/record"
)

// DomainRecordPath locates the domain record below the document element.
const DomainRecordPath = "whois/krdomain"

type domainField struct {
	name string
	list bool
}

// domainFields is the krdomain schema in upstream document order.
// Fields prefixed e_ are the ASCII variants of the Korean contact fields.
var domainFields = []domainField{
	{name: "name"},
	{name: "regName"},
	{name: "addr"},
	{name: "post"},
	{name: "adminName"},
	{name: "adminEmail"},
	{name: "adminPhone"},
	{name: "lastUpdatedDate"},
	{name: "regDate"},
	{name: "endDate"},
	{name: "infoYN"},
	{name: "domainStatus", list: true},
	{name: "agency"},
	{name: "agency_url"},
	{name: "e_regName"},
	{name: "e_addr"},
	{name: "e_adminName"},
	{name: "e_agency"},
	{name: "dnssec"},
	{name: "ns1", list: true},
	{name: "ip1", list: true},
}

// DomainFields returns the field names ParseDomain always emits after "query".
func DomainFields() []string {
	names := make([]string, len(domainFields))
	for i, f := range domainFields {
		names[i] = f.name
	}
	return names
}

// ParseDomain extracts a domain record from a domain_name endpoint response.
//
// Every field of the schema is present in the result; optional elements
// missing from the document are stored as absent values. Repeating elements
// are collected as ordered lists. The only fatal conditions are a body that is
// not well-formed XML (apperr.ErrMalformedResponse) and a document without a
// whois/krdomain node (apperr.ErrSchemaMismatch).
func ParseDomain(body []byte, query string) (*record.Record, error) {
	root, err := decode(body)
	if err != nil {
		return nil, err
	}
	node := root.FindElement("./" + DomainRecordPath)
	if node == nil {
		return nil, notFound(root, DomainRecordPath)
	}

	rec := record.New(query)
	for _, f := range domainFields {
		if !f.list {
			rec.Set(f.name, scalar(node.FindElement(f.name)))
			continue
		}
		elems := node.FindElements(f.name)
		items := make([]string, 0, len(elems))
		for _, el := range elems {
			items = append(items, text(el))
		}
		rec.Set(f.name, record.List(items...))
	}
	return rec, nil
}
