package whoisxml

import (
	"github.com/tbckr/krwhois/internal/record"
)

// IPRecordPath locates the IP record below the document element.
const IPRecordPath = "whois"

// ipBaseFields are the top-level scalars of the IP schema, emitted after "query".
var ipBaseFields = []string{"queryType", "registry", "countryCode"}

// ipLanguages and ipHolders span the four parallel subtrees of an IP record.
// In practice a registry fills only one combination.
var (
	ipLanguages = []string{"korean", "english"}
	ipHolders   = []string{"ISP", "user"}
)

// ParseIP extracts an IP record from an ip_address endpoint response.
//
// The result always holds query, queryType, registry and countryCode. Every
// child of <lang>/<holder>/netInfo is flattened as {lang}_{holder}_{tag} and
// every child of <lang>/<holder>/techContact as {lang}_{holder}_contact_{tag}.
// Subtrees missing from the document contribute no keys, so the key set varies
// per record. The upstream query echo never replaces the original query.
func ParseIP(body []byte, query string) (*record.Record, error) {
	root, err := decode(body)
	if err != nil {
		return nil, err
	}
	node := root.FindElement("./" + IPRecordPath)
	if node == nil {
		return nil, notFound(root, IPRecordPath)
	}

	rec := record.New(query)
	for _, name := range ipBaseFields {
		rec.Set(name, scalar(node.FindElement(name)))
	}
	for _, lang := range ipLanguages {
		for _, holder := range ipHolders {
			prefix := lang + "_" + holder + "_"
			base := lang + "/" + holder
			for _, child := range node.FindElements(base + "/netInfo/*") {
				rec.Set(prefix+child.Tag, scalar(child))
			}
			for _, child := range node.FindElements(base + "/techContact/*") {
				rec.Set(prefix+"contact_"+child.Tag, scalar(child))
			}
		}
	}
	return rec, nil
}
