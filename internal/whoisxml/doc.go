// Package whoisxml normalizes the two KISA WHOIS response schemas into
// record.Record values.
//
// The domain and IP endpoints publish independent, separately versioned
// contracts, so ParseDomain and ParseIP share nothing but their output type.
// ParseDomain emits a fixed field set with explicit absent values;
// ParseIP emits only the keys present in the document.
package whoisxml
