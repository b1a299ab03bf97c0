package tool

import "math/big"

// Stringify walks a nested structure of maps, slices and scalar leaves
// and replaces every *big.Int leaf with its decimal string form. The
// result contains no arbitrary-precision values and is safe to encode
// for transports limited to 64-bit numerics.
func Stringify(value interface{}) interface{} {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil
		}
		return v.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, elem := range v {
			out[key] = Stringify(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = Stringify(elem)
		}
		return out
	default:
		return v
	}
}

// Parse is the inverse of Stringify: every string leaf that is a valid
// base-10 integer becomes a *big.Int with the exact original value.
// Strings that do not parse as integers pass through unchanged.
func Parse(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		if n, ok := new(big.Int).SetString(v, 10); ok {
			return n
		}
		return v
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, elem := range v {
			out[key] = Parse(elem)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, elem := range v {
			out[i] = Parse(elem)
		}
		return out
	default:
		return v
	}
}
