// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package attrs parses the --attrs flag and applies the per attribute
// transforms at output time.
package attrs

import (
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
)

// Attr is one key of the output. Key is a driller path into a jsonapi row,
// e.g. "attributes.downloads" or "id".
type Attr struct {
	Key string
	// Include is false for attrs that are only used for filtering and sorting.
	Include bool
	// OutputKey is the output field name and the text column title.
	OutputKey string
	// TransformSpec is a string of transform letters and an optional length:
	//   l/u   lower/upper case (the last one wins)
	//   h     thousands separators for numbers
	//   b     byte size for numbers
	//   t     RFC3339 string or epoch seconds to local time
	//   r     relative time ("3 days ago")
	//   N/-N  truncate to N, or elide the middle to N
	TransformSpec string
}

var lengthRegex = regexp.MustCompile(`-?\d+`)

// Transform applies the TransformSpec to value. Values it can't handle are
// returned unchanged.
func (a *Attr) Transform(value interface{}) interface{} {
	spec := a.TransformSpec
	if spec == "" {
		return value
	}

	if n, ok := toNumber(value); ok {
		switch {
		case strings.Contains(spec, "b"):
			if n < 0 {
				return value
			}
			return humanize.Bytes(uint64(n))
		case strings.Contains(spec, "h"):
			return humanize.Comma(int64(n))
		case strings.ContainsAny(spec, "tTr"):
			// Numbers under a time transform are epoch seconds, as sent for
			// Steam Workshop items.
			value = time.Unix(int64(n), 0).UTC().Format(time.RFC3339)
		default:
			return value
		}
	}

	s, ok := value.(string)
	if !ok {
		return value
	}

	if strings.ContainsAny(spec, "tTr") {
		s = a.timeOf(s)
	}
	s = applyCase(spec, s)
	return truncate(spec, s)
}

// timeOf converts an RFC3339 or date-only string. "r" renders relative to
// now; "t" converts to the zone in TZ, when set.
func (a *Attr) timeOf(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse(time.DateOnly, s)
	}
	if err != nil {
		log.Debugf("not a time: %s", s)
		return s
	}

	if strings.Contains(a.TransformSpec, "r") {
		return humanize.Time(t)
	}

	tz := os.Getenv("TZ")
	if tz == "" {
		return s
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.WithError(err).Errorf("unknown TZ %s", tz)
		return s
	}
	return t.In(loc).Format("2006-01-02T15:04:05MST")
}

// applyCase honours the last case letter in spec, so a global "*::U" can be
// overridden per attr.
func applyCase(spec, s string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")
	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	}
	return s
}

// truncate applies the last length in spec. A negative length keeps both
// ends: "-6" turns "abcdefghij" into "ab..ij".
func truncate(spec, s string) string {
	match := lengthRegex.FindAllString(spec, -1)
	if len(match) == 0 {
		return s
	}
	l, _ := strconv.Atoi(match[len(match)-1])
	abs := int(math.Abs(float64(l)))
	if len(s) <= abs {
		return s
	}
	if l >= 0 {
		return s[:l]
	}
	keep := abs/2 - 1
	if keep < 1 {
		return s[:abs]
	}
	return s[:keep] + ".." + s[len(s)-keep:]
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

type AttrList []Attr

// String returns the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Set parses a comma separated --attrs value and merges it into the list.
// Each spec is key[:output[:transform]]. A leading "!" hides the attr, a
// leading "." addresses the row root instead of its attributes, and "*"
// carries a transform applied to every attr.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr := parseSpec(spec)

		// Respecifying a known attr only changes how it is shown.
		if i := a.index(attr.Key); i >= 0 {
			(*a)[i].Include = attr.Include
			(*a)[i].OutputKey = attr.OutputKey
			(*a)[i].TransformSpec = attr.TransformSpec
			continue
		}

		switch {
		case strings.HasPrefix(attr.Key, "."):
			attr.Key = attr.Key[1:]
		case attr.Key != "*":
			attr.Key = "attributes." + attr.Key
		}

		*a = append(*a, attr)
	}

	return nil
}

func parseSpec(spec string) Attr {
	fields := strings.Split(spec, ":")
	attr := Attr{Include: true, Key: strings.TrimSpace(fields[0])}

	if strings.HasPrefix(attr.Key, "!") {
		attr.Include = false
		attr.Key = attr.Key[1:]
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	switch {
	case len(fields) == 1:
		segments := strings.Split(attr.Key, ".")
		attr.OutputKey = segments[len(segments)-1]
	case strings.TrimSpace(fields[1]) != "":
		attr.OutputKey = strings.TrimSpace(fields[1])
	default:
		attr.OutputKey = attr.Key
	}

	if len(fields) > 2 {
		attr.TransformSpec = strings.TrimSpace(fields[2])
	}
	return attr
}

func (a *AttrList) index(key string) int {
	for i := range *a {
		if (*a)[i].Key == key || (*a)[i].OutputKey == key {
			return i
		}
	}
	return -1
}

// SetGlobalTransformSpec prepends the transform of the "*" attr, if any, to
// every attr in the list.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	return nil
}

func (a *AttrList) Type() string {
	return "list"
}
