// Package access is the access-flag codec for the RAS grammar. It maps
// modifier tokens to class-file bit values, classifies which entity
// kinds each modifier may target, groups the mutually exclusive
// visibility bits, and renders flag sets back to tokens for
// diagnostics.
//
// All functions are pure and total over the fixed modifier set.
package access
