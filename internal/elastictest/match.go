// internal/elastictest/match.go
package elastictest

import (
	"fmt"
	"strings"
)

// matches evaluates the subset of the query DSL the stores emit:
// match_all, term (short form), bool/must, and nested. A nil query
// matches everything.
func matches(doc map[string]interface{}, query map[string]interface{}) bool {
	if len(query) == 0 {
		return true
	}
	if _, ok := query["match_all"]; ok {
		return true
	}
	if term, ok := query["term"].(map[string]interface{}); ok {
		return matchTerm(doc, term, "")
	}
	if b, ok := query["bool"].(map[string]interface{}); ok {
		return matchBool(doc, b, "")
	}
	if n, ok := query["nested"].(map[string]interface{}); ok {
		return matchNested(doc, n)
	}
	return false
}

// matchClause evaluates a clause against a single object, stripping the
// given path prefix from field names. Inside a nested query the object
// is one sub-item and fields arrive as "path.field".
func matchClause(obj map[string]interface{}, clause map[string]interface{}, prefix string) bool {
	if _, ok := clause["match_all"]; ok {
		return true
	}
	if term, ok := clause["term"].(map[string]interface{}); ok {
		return matchTerm(obj, term, prefix)
	}
	if b, ok := clause["bool"].(map[string]interface{}); ok {
		return matchBool(obj, b, prefix)
	}
	if n, ok := clause["nested"].(map[string]interface{}); ok {
		return matchNested(obj, n)
	}
	return false
}

func matchBool(obj map[string]interface{}, b map[string]interface{}, prefix string) bool {
	must, ok := b["must"]
	if !ok {
		return true
	}
	switch m := must.(type) {
	case []interface{}:
		for _, raw := range m {
			clause, ok := raw.(map[string]interface{})
			if !ok || !matchClause(obj, clause, prefix) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		return matchClause(obj, m, prefix)
	default:
		return false
	}
}

func matchTerm(obj map[string]interface{}, term map[string]interface{}, prefix string) bool {
	for field, want := range term {
		field = strings.TrimPrefix(field, prefix)
		// The long form wraps the value in {"value": ...}.
		if wrapped, ok := want.(map[string]interface{}); ok {
			want = wrapped["value"]
		}
		got, ok := lookup(obj, field)
		if !ok || fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func matchNested(obj map[string]interface{}, n map[string]interface{}) bool {
	path, _ := n["path"].(string)
	inner, _ := n["query"].(map[string]interface{})
	if path == "" || inner == nil {
		return false
	}

	items, ok := lookup(obj, path)
	if !ok {
		return false
	}
	list, ok := items.([]interface{})
	if !ok {
		return false
	}
	for _, raw := range list {
		item, ok := raw.(map[string]interface{})
		if ok && matchClause(item, inner, path+".") {
			return true
		}
	}
	return false
}

// lookup resolves a dotted field path against nested objects.
func lookup(obj map[string]interface{}, field string) (interface{}, bool) {
	parts := strings.Split(field, ".")
	var cur interface{} = obj
	for _, p := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
