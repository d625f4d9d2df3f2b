// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package filters implements the --filter flag: key, operator, target
// expressions evaluated against each row of a dataset.
package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/staranto/statsctl/internal/attrs"
	"github.com/staranto/statsctl/internal/driller"
)

// filterRegex splits key, operator and target. Operators are = ^ ~ < > @ /,
// each optionally negated with a leading !.
var filterRegex = regexp.MustCompile(`^(.*?)(!?[=^~<>@/])(.*)$`)

// Filter is one parsed filter expression. Key is an attr output key.
type Filter struct {
	Key     string
	Negate  bool
	Operand string
	Target  string
}

// Delimiter separates expressions in a spec. STATSCTL_FILTER_DELIM overrides
// the default ",".
func Delimiter() string {
	if d, ok := os.LookupEnv("STATSCTL_FILTER_DELIM"); ok {
		return d
	}
	return ","
}

// BuildFilters parses spec. Malformed expressions are logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter
	if spec == "" {
		return filters
	}

	for _, expr := range strings.Split(spec, Delimiter()) {
		parts := filterRegex.FindStringSubmatch(expr)
		if parts == nil {
			log.Error("invalid filter: " + expr)
			continue
		}

		op := parts[2]
		negate := strings.HasPrefix(op, "!")
		filters = append(filters, Filter{
			Key:     parts[1],
			Negate:  negate,
			Operand: strings.TrimPrefix(op, "!"),
			Target:  parts[3],
		})
	}

	return filters
}

// FilterDataset keeps the candidates matching every filter of spec and
// projects each onto attrs, keyed by OutputKey. Values are left raw;
// transforms run later.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var rows []map[string]interface{}
	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		row := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			if attr.Key == "*" {
				continue
			}
			row[attr.OutputKey] = driller.Driller(candidate.Raw, attr.Key).Value()
		}
		rows = append(rows, row)
	}

	return rows
}

// applyFilters reports whether candidate passes all filters. A filter whose
// key names no attr is reported and ignored; a null value never passes.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		key := keyFor(attrs, filter.Key)
		if key == "" {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		value := driller.Driller(candidate.Raw, key).Value()
		if value == nil {
			return false
		}
		if !match(value, filter) {
			return false
		}
	}

	return true
}

func keyFor(attrs attrs.AttrList, outputKey string) string {
	for _, attr := range attrs {
		if attr.OutputKey == outputKey {
			return attr.Key
		}
	}
	return ""
}

// match dispatches on the type of value. Composite values only support @.
func match(value interface{}, filter Filter) bool {
	switch v := value.(type) {
	case string:
		return checkStringOperand(v, filter)
	case bool:
		return checkStringOperand(strconv.FormatBool(v), filter)
	}
	if num, ok := toFloat64(value); ok {
		return checkNumericOperand(num, filter)
	}
	if filter.Operand == "@" {
		return checkContainsOperand(value, filter)
	}
	return true
}

// checkContainsOperand tests membership of Target in a list, or key presence
// in an object.
func checkContainsOperand(value interface{}, filter Filter) bool {
	var found bool
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if item == filter.Target {
				found = true
				break
			}
		}
	case map[string]any:
		_, found = val[filter.Target]
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}
	return found != filter.Negate
}

// checkNumericOperand supports =, > and <.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Target), 64)
	if err != nil {
		log.Error("invalid numeric target: " + filter.Target)
		return false
	}

	var result bool
	switch filter.Operand {
	case "=":
		result = value == tgt
	case ">":
		result = value > tgt
	case "<":
		result = value < tgt
	default:
		log.Error("unsupported numeric operand: " + filter.Operand)
		return false
	}
	return result != filter.Negate
}

// checkStringOperand supports = (exact), ~ (case insensitive), ^ (prefix),
// < and > (lexical), @ (substring) and / (regex).
func checkStringOperand(value string, filter Filter) bool {
	var result bool
	switch filter.Operand {
	case "=":
		result = value == filter.Target
	case "~":
		result = strings.EqualFold(value, filter.Target)
	case "^":
		result = strings.HasPrefix(value, filter.Target)
	case ">":
		result = value > filter.Target
	case "<":
		result = value < filter.Target
	case "@":
		result = strings.Contains(value, filter.Target)
	case "/":
		matched, err := regexp.MatchString(filter.Target, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Target)
			return false
		}
		result = matched
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
	return result != filter.Negate
}

// toFloat64 normalizes the numeric kinds gjson and callers produce.
func toFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
