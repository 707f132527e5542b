package stripe

import (
	"net/url"
	"strings"
)

// Pair is one flattened key/value pair of an encoded parameter set.
type Pair struct {
	Key   string
	Value string
}

// bracketUnescaper restores the bracket characters in composed keys. The API
// accepts them either way and literal brackets keep request logs readable.
var bracketUnescaper = strings.NewReplacer("%5B", "[", "%5D", "]")

// Pairs flattens p into bracket-notation pairs in traversal order. Absent
// entries are skipped at every depth.
func (p *Params) Pairs() []Pair {
	if p == nil {
		return nil
	}

	return p.appendPairs(nil, "")
}

// Encode renders p as an application/x-www-form-urlencoded string. An empty
// mapping, or one holding only absent entries, encodes to "".
func (p *Params) Encode() string {
	return EncodePairs(p.Pairs())
}

// Encode is the nil-safe form of (*Params).Encode.
func Encode(p *Params) string {
	if p == nil {
		return ""
	}

	return p.Encode()
}

// EncodePairs percent-encodes and joins already flattened pairs.
func EncodePairs(pairs []Pair) string {
	if len(pairs) == 0 {
		return ""
	}

	var builder strings.Builder

	for i, pair := range pairs {
		if i > 0 {
			builder.WriteByte('&')
		}

		builder.WriteString(bracketUnescaper.Replace(url.QueryEscape(pair.Key)))
		builder.WriteByte('=')
		builder.WriteString(url.QueryEscape(pair.Value))
	}

	return builder.String()
}
