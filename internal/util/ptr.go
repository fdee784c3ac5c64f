package util

// OptString returns nil for blank input.
func OptString(v string) *string {
	if IsBlank(v) {
		return nil
	}
	return &v
}

func DerefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
