package subtle

// Assignable is implemented by types which can be conditionally assigned in constant time.
//
// ConditionalAssign sets the receiver to other if choice == 1, and leaves it unchanged if choice == 0.
type Assignable[T any] interface {
	ConditionalAssign(other T, choice uint8)
}

// Equatable is implemented by types whose equality can be tested in constant time.
//
// ConstantTimeEq returns 1 if the receiver equals other and 0 otherwise. All limbs or bytes of both
// operands must be examined, no matter where a difference is found.
type Equatable[T any] interface {
	ConstantTimeEq(other T) uint8
}

// Negatable is an Assignable type which can negate a value into itself.
// Negate sets the receiver to -x and returns the receiver, same as edwards25519 field elements and scalars.
type Negatable[T any] interface {
	Assignable[T]
	Negate(x T) T
}

// ConditionallyNegatable is the method set exposed by types that forward to ConditionalNegate
type ConditionallyNegatable interface {
	ConditionalNegate(choice uint8)
}

// ConditionalNegate sets v to -v if choice == 1, and leaves it unchanged if choice == 0.
//
// The negation is always computed, then selected with ConditionalAssign.
// Type parameters are resolved at compile time, v is never boxed into an interface.
func ConditionalNegate[T any, PT interface {
	*T
	Negatable[PT]
}](v PT, choice uint8) {
	var neg T
	PT(&neg).Negate(v)
	v.ConditionalAssign(PT(&neg), choice)
}
