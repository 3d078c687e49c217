package domain

// StrPtrOrNil returns nil for the empty string.
func StrPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
