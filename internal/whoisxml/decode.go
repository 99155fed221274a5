package whoisxml

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"

	"github.com/tbckr/krwhois/internal/apperr"
	"github.com/tbckr/krwhois/internal/output"
	"github.com/tbckr/krwhois/internal/record"
)

// decode parses body into an element tree and returns the document element.
// Non-UTF-8 encodings declared in the prolog (euc-kr is common) are converted.
func decode(body []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrMalformedResponse, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", apperr.ErrMalformedResponse)
	}
	return root, nil
}

// notFound builds the schema-mismatch error for a missing record node. When the
// document is a data.go.kr gateway envelope its status is appended, so a
// rejected service key is not reported as a bare "not found".
func notFound(root *etree.Element, path string) error {
	if detail := gatewayDetail(root); detail != "" {
		return fmt.Errorf("%w: %s element not found (gateway: %s)", apperr.ErrSchemaMismatch, path, detail)
	}
	return fmt.Errorf("%w: %s element not found", apperr.ErrSchemaMismatch, path)
}

// gatewayDetail extracts the error status of a data.go.kr gateway response.
// Two envelopes exist: OpenAPI_ServiceResponse/cmmMsgHeader for key and quota
// errors, and response/header for service-level result codes.
func gatewayDetail(root *etree.Element) string {
	if hdr := root.FindElement("//cmmMsgHeader"); hdr != nil {
		parts := nonEmpty(
			text(hdr.FindElement("returnAuthMsg")),
			text(hdr.FindElement("errMsg")),
		)
		if code := text(hdr.FindElement("returnReasonCode")); code != "" {
			parts = append(parts, "reason code "+code)
		}
		return strings.Join(parts, ", ")
	}
	if hdr := root.FindElement("./header"); hdr != nil {
		code := text(hdr.FindElement("resultCode"))
		msg := text(hdr.FindElement("resultMsg"))
		if code == "" && msg == "" {
			return ""
		}
		return strings.Join(nonEmpty(code, msg), " ")
	}
	return ""
}

// text returns the trimmed character data of el, or "" when el is nil.
// Terminal escape sequences in registry data are dropped.
func text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return strings.TrimSpace(output.StripANSI(el.Text()))
}

// scalar converts an optional element into a record value.
// Missing elements and elements without text are absent.
func scalar(el *etree.Element) record.Value {
	t := text(el)
	if t == "" {
		return record.Absent()
	}
	return record.Scalar(t)
}

func nonEmpty(ss ...string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
