package core

import "strings"

// TopicMatcher determines whether a route pattern matches an event tag.
type TopicMatcher interface {
	Match(pattern string, event string) bool
}

// DefaultMatcher matches dot-separated event tags. It supports exact
// segments, a single-segment wildcard (*) and a multi-segment wildcard (#).
//
//	"user.sign_in" matches "user.sign_in"
//	"user.*"       matches "user.sign_in" but not "user.profile.update"
//	"user.#"       matches "user.profile.update" and "user.sign_in"
type DefaultMatcher struct{}

func (DefaultMatcher) Match(pattern, event string) bool {
	return matchFrom(strings.Split(pattern, "."), 0, strings.Split(event, "."), 0)
}

func matchFrom(pat []string, pi int, ev []string, ei int) bool {
	for pi < len(pat) && ei < len(ev) {
		switch pat[pi] {
		case "#":
			// trailing # swallows the rest
			if pi == len(pat)-1 {
				return true
			}
			for k := ei; k <= len(ev); k++ {
				if matchFrom(pat, pi+1, ev, k) {
					return true
				}
			}
			return false
		case "*":
			pi++
			ei++
		default:
			if pat[pi] != ev[ei] {
				return false
			}
			pi++
			ei++
		}
	}
	return pi == len(pat) && ei == len(ev)
}
