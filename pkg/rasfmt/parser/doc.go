// Package parser reads the line-oriented RAS grammar:
//
//	RAS <version> <dialect>
//	<prefix><scope> <origin> <target> <class>
//	<prefix><scope> <origin> <target> <class> <member> <descriptor>
//
// The prefix selects the failure policy (' ' warn, '@' soft, '!' hard).
// A lenient compatibility path accepts a missing prefix when the line
// starts with a recognized scope token; the canonical prefix is
// synthesized and a warning logged, since other RAS implementations may
// reject such files.
//
// Parsing is atomic per source: the first error aborts the whole file
// and nothing from it is registered.
package parser
