package signature

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

var (
	ErrMalformedQuery = errors.New("MALFORMED_QUERY")
	ErrDuplicateParam = errors.New("DUPLICATE_PARAMETER")
)

// EncodeValue encodes a parameter value the way the gateway hashes it: space becomes '+'
// and percent escapes are upper case.
func EncodeValue(value string) string {
	return url.QueryEscape(value)
}

// Canonicalize builds the signing input for an outbound request. Names are sorted
// byte-wise, empty values are skipped and excluded names never take part.
func Canonicalize(params url.Values, exclude ...string) string {
	skip := toSet(exclude)

	names := make([]string, 0, len(params))
	for name, values := range params {
		if _, ok := skip[name]; ok {
			continue
		}
		if len(values) == 0 || values[0] == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(EncodeValue(name))
		b.WriteByte('=')
		b.WriteString(EncodeValue(params.Get(name)))
	}

	return b.String()
}

// CanonicalizeRaw builds the signing input from a query string exactly as it arrived.
// Only names are decoded (for ordering and exclusion); value bytes are kept verbatim so
// that re-encoding differences such as '+' vs '%20' cannot change the result.
func CanonicalizeRaw(rawQuery string, exclude ...string) (string, error) {
	skip := toSet(exclude)

	type pair struct {
		name string
		raw  string
	}

	seen := make(map[string]struct{})
	pairs := make([]pair, 0)

	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}

		rawName, rawValue, _ := strings.Cut(part, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrMalformedQuery, rawName)
		}

		if _, ok := skip[name]; ok {
			continue
		}
		if _, dup := seen[name]; dup {
			return "", fmt.Errorf("%w: %s", ErrDuplicateParam, name)
		}
		seen[name] = struct{}{}

		if rawValue == "" {
			continue
		}
		pairs = append(pairs, pair{name: name, raw: rawName + "=" + rawValue})
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	raws := make([]string, len(pairs))
	for i, p := range pairs {
		raws[i] = p.raw
	}

	return strings.Join(raws, "&"), nil
}

// ParseRaw decodes a raw query string into values, keeping every parameter.
func ParseRaw(rawQuery string) (url.Values, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedQuery, err)
	}

	return values, nil
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
