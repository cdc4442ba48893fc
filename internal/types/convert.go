package types

// Truthy reports whether a scanned SQLite value counts as true.
// Zero numbers, empty strings, empty byte slices and false are false;
// everything else, including the string "0", is true. nil is false.
func Truthy(v any) bool {
	switch i := v.(type) {
	case nil:
		return false
	case bool:
		return i
	case int64:
		return i != 0
	case int:
		return i != 0
	case int32:
		return i != 0
	case int16:
		return i != 0
	case int8:
		return i != 0
	case uint:
		return i != 0
	case uint64:
		return i != 0
	case uint32:
		return i != 0
	case uint16:
		return i != 0
	case uint8:
		return i != 0
	case float64:
		return i != 0
	case float32:
		return i != 0
	case string:
		return i != ""
	case []byte:
		return len(i) > 0
	default:
		return true
	}
}

// ToBool coerces a value for a boolean destination column.
// nil stays nil so NULL is preserved.
func ToBool(v any) any {
	if v == nil {
		return nil
	}
	return Truthy(v)
}
