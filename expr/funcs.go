package expr

import (
	"math"
	"sort"
)

type function struct {
	f1 func(float64) float64
	f2 func(float64, float64) float64
	f3 func(float64, float64, float64) float64
}

func (f function) arity() int {
	switch {
	case f.f1 != nil:
		return 1
	case f.f2 != nil:
		return 2
	}
	return 3
}

var constants = map[string]float64{
	"pi":  math.Pi,
	"tau": 2 * math.Pi,
	"e":   math.E,
}

var functions = map[string]function{
	"sin":   {f1: math.Sin},
	"cos":   {f1: math.Cos},
	"tan":   {f1: math.Tan},
	"asin":  {f1: math.Asin},
	"acos":  {f1: math.Acos},
	"atan":  {f1: math.Atan},
	"sinh":  {f1: math.Sinh},
	"cosh":  {f1: math.Cosh},
	"tanh":  {f1: math.Tanh},
	"exp":   {f1: math.Exp},
	"log":   {f1: math.Log},
	"log2":  {f1: math.Log2},
	"log10": {f1: math.Log10},
	"sqrt":  {f1: math.Sqrt},
	"abs":   {f1: math.Abs},
	"floor": {f1: math.Floor},
	"ceil":  {f1: math.Ceil},
	"round": {f1: math.Round},
	"sign":  {f1: sign},
	"atan2": {f2: math.Atan2},
	"min":   {f2: math.Min},
	"max":   {f2: math.Max},
	"pow":   {f2: math.Pow},
	"mod":   {f2: math.Mod},
	"clamp": {f3: clamp},
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

// Functions returns the names of all callable functions.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for n := range functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
