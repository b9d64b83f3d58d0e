// Package option compiles declared option groups into browser preference
// overlays.
//
// # Overview
//
// A Group is a static declaration of options (boolean toggles, text fields
// and choices), each carrying a declarative emission Rule. Given a caller's
// Submission for that group, the compiler produces:
//
//   - an Overlay: preference key → literal value (bool, int or string)
//   - an AddonList: add-on identifiers in the group's emission order
//
// # Two-phase contract
//
//	v, err := option.Validate(group, submission) // *ValidationError on bad input
//	overlay, addons := option.Emit(v)            // total, pure
//
// Compile runs both phases and returns empty results when validation fails,
// so a partial overlay is never observable.
//
// # Precedence
//
// When several options of one group govern the same preference, the group
// declares a Precedence entry ordering them. Only the first active option of
// that order writes the preference:
//
//	precedence:
//	  - pref: network.cookie.cookieBehavior
//	    order: [all_cookies, thirdparty_cookies]
//
// Group.Check rejects declarations where two options emit the same
// preference without such an entry.
//
// # Concurrency
//
// Groups are read-only once Normalize has run, and Validate/Emit keep no
// state, so any number of compilations may run in parallel over shared groups.
//
// Merging the overlays of several groups is left to the caller; see
// package profile.
package option
