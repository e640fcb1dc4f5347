//go:build !gocv

package cv

// NewMatcher returns the matcher compiled into this binary
func NewMatcher() Matcher {
	return NCCMatcher{}
}
