package sexpr

import "fmt"

// Items returns the elements of a list, or nil for leaves.
func Items(s Sexp) []Sexp {
	if l, ok := s.(*List); ok {
		return l.elements
	}
	return nil
}

// Atom returns the text of a Symbol or String leaf.
func Atom(s Sexp) (string, bool) {
	switch v := s.(type) {
	case Symbol:
		return string(v), true
	case String:
		return string(v), true
	}
	return "", false
}

// Key returns the leading symbol of a list, e.g. "Button" for (Button ...).
func Key(s Sexp) string {
	items := Items(s)
	if len(items) == 0 {
		return ""
	}
	if sym, ok := items[0].(Symbol); ok {
		return string(sym)
	}
	return ""
}

// FindNode searches for a child list whose key is key.
// Example: FindNode(s, "@") finds (@ android:text "Hi") in a list
func FindNode(s Sexp, key string) (Sexp, bool) {
	for _, item := range Items(s) {
		if Key(item) == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists whose key is key.
func FindAllNodes(s Sexp, key string) []Sexp {
	var results []Sexp
	for _, item := range Items(s) {
		if Key(item) == key {
			results = append(results, item)
		}
	}
	return results
}

// GetString extracts the atom at index in a list. Index 0 is the key.
func GetString(s Sexp, index int) (string, error) {
	items := Items(s)
	if items == nil {
		return "", fmt.Errorf("expected list, got %v", s)
	}
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}
	str, ok := Atom(items[index])
	if !ok {
		return "", fmt.Errorf("expected atom at index %d, got %T", index, items[index])
	}
	return str, nil
}
