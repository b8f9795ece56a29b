package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
// NaN has no place in a total order, callers must not store it
// in ordered containers.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// Comparator
// Assume i is the new value.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
//
// Any positive or negative number is accepted, only the sign matters.
type Comparator[T any] func(i, j T) int64

// AscComparator orders the keys from small to big.
func AscComparator[K OrderedKey]() Comparator[K] {
	return func(i, j K) int64 {
		if i == j {
			return 0
		} else if i < j {
			return -1
		}
		return 1
	}
}

// DescComparator orders the keys from big to small.
func DescComparator[K OrderedKey]() Comparator[K] {
	return Reverse(AscComparator[K]())
}

// Reverse flips the order of an existing comparator.
func Reverse[T any](cmp Comparator[T]) Comparator[T] {
	if cmp == nil {
		panic( /* debug assertion */ "[infra] reverse a nil comparator")
	}
	return func(i, j T) int64 {
		return cmp(j, i)
	}
}
