// Package presentation implements the Presentation Registry (C9): a
// registry of purely-functional (name, entityType) -> Segment renderers and
// (name, entityType) -> action handlers, plus the baseline set of each the
// core ships (§4.9). Hosts compose renderers into Layouts and call actions
// by name; neither renderer nor action touches a terminal, buffer, or any
// other host surface directly.
package presentation
