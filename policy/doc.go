// Package policy decides whether a vacation request may move between
// lifecycle states. It is pure: every input, including the evaluation time and
// the other approved requests of the team, is passed in explicitly, and the
// returned Decision describes the new state without persisting it.
package policy
