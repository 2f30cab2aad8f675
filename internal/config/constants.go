package config

import "math"

const SourceFileExt = ".corvus"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".corvus", ".cv"}

// TypesFileExt is the extension of type declaration files read by the CLI.
const TypesFileExt = ".types"

// Prelude keywords
const (
	CalcKeyword      = "calc"
	PlusKeyword      = "plus"
	MinusKeyword     = "minus"
	SubtractKeyword  = "subtract"
	TimesKeyword     = "times"
	DividedByKeyword = "dividedBy"
	CountFromKeyword = "countFrom"
	ToKeyword        = "to"
	EachKeyword      = "each"
	DoKeyword        = "do"
	StringifyKeyword = "stringify"
	IfKeyword        = "if"
	ThenKeyword      = "then"
	ElseKeyword      = "else"
	NotKeyword       = "not"
	BothKeyword      = "both"
	AndKeyword       = "and"
	EitherKeyword    = "either"
	OrKeyword        = "or"
	CompareKeyword   = "compare"
	EqualsKeyword    = "equals"
	LessThanKeyword  = "lessThan"
	ConcatKeyword    = "concat"
	WithKeyword      = "with"
	LengthKeyword    = "length"
)

// Runtime limits
const (
	// MaxFrameCount bounds block nesting depth on both paths.
	MaxFrameCount = 1024
	// InitialStackSize is the starting VM operand stack size; it grows on demand.
	InitialStackSize = 64
	// MaxRangeLength bounds a single countFrom:to: range even when
	// max_iterations is unlimited.
	MaxRangeLength = math.MaxInt32
)
