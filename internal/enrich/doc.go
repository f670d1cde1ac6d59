// Package enrich runs capability providers over organized media.
//
// A capability produces one facet of enrichment (tags, a description,
// detected text) for a file. Providers are assembled once from the
// per-kind config toggles; at job time each applicable capability runs
// and contributes its value to a Result. Provider failures are logged
// and leave their key absent, so a Result is always partial and
// callers must not assume completeness.
package enrich
