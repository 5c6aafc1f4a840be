package builds

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/qluke/genshin-builds/internal/domain"
)

// ErrMalformedToken marks an encoded stat token that does not follow the
// "key|value" or "key|value/count" grammar.
var ErrMalformedToken = errors.New("malformed stat token")

const (
	tokenSep = ","
	kvSep    = "|"
	countSep = "/"
)

// ParseStatBlock decodes "key|value,key|value". Later duplicates of a key
// overwrite earlier ones. Malformed tokens are skipped and reported in the
// returned error; the map holds every well-formed token.
func ParseStatBlock(s string) (map[string]float64, error) {
	out := map[string]float64{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	var errs []error
	for _, tok := range strings.Split(s, tokenSep) {
		key, raw, ok := strings.Cut(tok, kvSep)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q: missing %q", ErrMalformedToken, tok, kvSep))
			continue
		}
		v, err := parseNumber(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrMalformedToken, tok, err))
			continue
		}
		out[key] = v
	}
	return out, errors.Join(errs...)
}

// ParseSubStats decodes "key|value/count,...". Duplicate keys and malformed
// tokens are handled as in ParseStatBlock.
func ParseSubStats(s string) (map[string]domain.SubStat, error) {
	out := map[string]domain.SubStat{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}

	var errs []error
	for _, tok := range strings.Split(s, tokenSep) {
		key, data, ok := strings.Cut(tok, kvSep)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q: missing %q", ErrMalformedToken, tok, kvSep))
			continue
		}
		rawValue, rawCount, ok := strings.Cut(data, countSep)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q: missing %q", ErrMalformedToken, tok, countSep))
			continue
		}
		v, err := parseNumber(rawValue)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrMalformedToken, tok, err))
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rawCount))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: count: %v", ErrMalformedToken, tok, err))
			continue
		}
		out[key] = domain.SubStat{Value: v, Count: n}
	}
	return out, errors.Join(errs...)
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
