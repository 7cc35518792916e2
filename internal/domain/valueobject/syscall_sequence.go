package valueobject

import "strings"

// PaddingToken fills sequences shorter than the model's expected length.
const PaddingToken = "0"

// TokenSeparator separates syscall tokens in the textual sequence format.
const TokenSeparator = ","

// SyscallSequence is an ordered list of syscall tokens. Tokens are opaque
// strings; they are not trimmed or converted.
type SyscallSequence struct {
	tokens []string
}

// ParseSyscallSequence splits s on commas. An empty string yields a single
// empty token.
func ParseSyscallSequence(s string) SyscallSequence {
	return SyscallSequence{tokens: strings.Split(s, TokenSeparator)}
}

// NewSyscallSequence wraps already split tokens.
func NewSyscallSequence(tokens []string) SyscallSequence {
	return SyscallSequence{tokens: append([]string(nil), tokens...)}
}

// Len returns the number of tokens.
func (s SyscallSequence) Len() int {
	return len(s.tokens)
}

// Tokens returns a copy of the tokens.
func (s SyscallSequence) Tokens() []string {
	return append([]string(nil), s.tokens...)
}

// HasEmptyTokens reports whether any token is the empty string.
func (s SyscallSequence) HasEmptyTokens() bool {
	for _, t := range s.tokens {
		if t == "" {
			return true
		}
	}
	return false
}

// Fit returns exactly length tokens: the sequence truncated at the tail, or
// extended with PaddingToken at the end.
func (s SyscallSequence) Fit(length int) []string {
	if length <= 0 {
		return []string{}
	}

	out := make([]string, length)
	n := copy(out, s.tokens)
	for i := n; i < length; i++ {
		out[i] = PaddingToken
	}
	return out
}

// String joins the tokens back into the comma-separated form.
func (s SyscallSequence) String() string {
	return strings.Join(s.tokens, TokenSeparator)
}
