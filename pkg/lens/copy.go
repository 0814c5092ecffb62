package lens

// Copy returns a deep copy of v. Records and lists are copied recursively;
// all other values are returned as is.
func Copy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		if v == nil {
			return v
		}
		m := make(map[string]any, len(v))
		for k, elem := range v {
			m[k] = Copy(elem)
		}
		return m
	case []any:
		if v == nil {
			return v
		}
		li := make([]any, len(v))
		for i, elem := range v {
			li[i] = Copy(elem)
		}
		return li
	default:
		return v
	}
}
