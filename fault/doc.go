// Package fault defines the enumerated error kinds returned by the vacation
// engine. Callers branch on Kind (via KindOf or errors.Is against the per-kind
// sentinels) and never on message text.
package fault
