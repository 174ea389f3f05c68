// Package model contains the entities shared by the vacation engine: requests
// and their lifecycle status, acting identities, organisation settings and
// the date-only calendar types all rules are expressed in.
package model
