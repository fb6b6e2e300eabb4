// Package subtle implements constant-time primitives used as building blocks
// for elliptic-curve and other cryptographic arithmetic.
//
// Every function here executes the same instruction sequence and touches the
// same memory regardless of the values passed in. Results that would
// naturally be a bool are returned as a uint8 choice flag, 1 for true and 0
// for false.
//
// Functions taking a choice flag require it to be exactly 0 or 1. Any other
// value is a caller bug and the result is unspecified; it is not checked, as
// checking would require a branch on the flag.
//
// Types gain constant-time selection and comparison by implementing
// Assignable and Equatable. Conditional negation is then available through
// ConditionalNegate for any Assignable type that can negate itself.
package subtle
