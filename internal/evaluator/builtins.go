package evaluator

import (
	"caml/internal/ast"
	"caml/internal/object"
	"math"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Builtin struct {
	Fn func(e *Evaluator, args ...object.Object) (object.Object, error)
}

var builtins = map[string]*Builtin{
	// arithmetic
	"add":          funcArithmetic(ast.Increase),
	"subtract":     funcArithmetic(ast.Decrease),
	"multiply":     funcArithmetic(ast.Multiply),
	"divide":       funcArithmetic(ast.Divide),
	"exponentiate": funcArithmetic(ast.Exponentiate),
	"concat":       funcConcat(),

	// math
	"square":              funcSquare(),
	"square_of":           funcSquare(),
	"squareroot":          funcSquareRoot(),
	"squareroot_of":       funcSquareRoot(),
	"sqrt":                funcSquareRoot(),
	"gcd":                 funcGcd(),
	"lcm":                 funcLcm(),
	"random_int":          funcRandomInt(),
	"generate_random_int": funcRandomInt(),

	// text
	"upper":    funcCase("upper"),
	"lower":    funcCase("lower"),
	"camel":    funcCase("camel"),
	"pascal":   funcCase("pascal"),
	"snake":    funcCase("snake"),
	"get_case": funcGetCase(),

	// introspection
	"length":     funcLength(),
	"get_length": funcLength(),
	"type":       funcType(),
	"get_type":   funcType(),
}

func wrongArgs(name string, got int, want string) error {
	return object.NewRuntimeError(object.TypeMismatch, "wrong number of arguments to `%s`, got=%d, want=%s", name, got, want)
}

// funcArithmetic folds the operator over two or more arguments, left to right.
func funcArithmetic(op ast.UpdateOp) *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			if len(args) < 2 {
				return nil, wrongArgs(builtinName(op), len(args), ">=2")
			}
			result := args[0]
			for _, arg := range args[1:] {
				var err error
				if result, err = arithmetic(op, result, arg); err != nil {
					return nil, err
				}
			}
			return result, nil
		},
	}
}

func builtinName(op ast.UpdateOp) string {
	switch op {
	case ast.Increase:
		return "add"
	case ast.Decrease:
		return "subtract"
	}
	return string(op)
}

func funcConcat() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			var out strings.Builder
			for _, arg := range args {
				out.WriteString(arg.Inspect())
			}
			return &object.Text{Value: out.String()}, nil
		},
	}
}

func funcSquare() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, wrongArgs("square", len(args), "1")
			}
			return arithmetic(ast.Multiply, args[0], args[0])
		},
	}
}

func funcSquareRoot() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, wrongArgs("squareroot", len(args), "1")
			}
			f, ok := object.ToFloat(args[0])
			if !ok {
				return nil, notNumber("squareroot", args[0])
			}
			return &object.Float{Value: math.Sqrt(f)}, nil
		},
	}
}

func funcGcd() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			a, b, err := integerPair("gcd", args)
			if err != nil {
				return nil, err
			}
			return &object.Integer{Value: gcd(a, b)}, nil
		},
	}
}

func funcLcm() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			a, b, err := integerPair("lcm", args)
			if err != nil {
				return nil, err
			}
			if a == 0 || b == 0 {
				return &object.Integer{Value: 0}, nil
			}
			return &object.Integer{Value: abs(a*b) / gcd(a, b)}, nil
		},
	}
}

// funcRandomInt draws from the inclusive range [lo, hi], defaulting to [1, 10].
func funcRandomInt() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			bounds := []int64{1, 10}
			if len(args) > 2 {
				return nil, wrongArgs("random_int", len(args), "0..2")
			}
			for i, arg := range args {
				n, err := integerBound("random_int", arg)
				if err != nil {
					return nil, err
				}
				bounds[i] = n
			}
			lo, hi := bounds[0], bounds[1]
			if lo > hi {
				lo, hi = hi, lo
			}
			return &object.Integer{Value: randomBetween(e.rand, lo, hi)}, nil
		},
	}
}

func funcCase(mode string) *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, wrongArgs(mode, len(args), "1")
			}
			return convertCase(args[0].Inspect(), mode), nil
		},
	}
}

func funcGetCase() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			switch len(args) {
			case 1:
				return convertCase(args[0].Inspect(), "lower"), nil
			case 2:
				return convertCase(args[0].Inspect(), args[1].Inspect()), nil
			}
			return nil, wrongArgs("get_case", len(args), "1..2")
		},
	}
}

// convertCase applies a case mode. An unknown mode leaves the text unchanged and an
// empty mode lowercases.
func convertCase(text, mode string) *object.Text {
	switch strings.ToLower(mode) {
	case "upper":
		text = strings.ToUpper(text)
	case "", "lower":
		text = strings.ToLower(text)
	case "camel", "pascal":
		var out strings.Builder
		for _, word := range strings.Fields(text) {
			out.WriteString(capitalize(word))
		}
		text = out.String()
	case "snake":
		text = strings.ToLower(strings.ReplaceAll(text, " ", "_"))
	}
	return &object.Text{Value: text}
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// funcLength counts runes, list elements or dict keys; any other value has length 0.
func funcLength() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, wrongArgs("length", len(args), "1")
			}
			var n int
			switch arg := args[0].(type) {
			case *object.Text:
				n = utf8.RuneCountInString(arg.Value)
			case *object.List:
				n = len(arg.Elements)
			case *object.Dict:
				n = arg.Len()
			}
			return &object.Integer{Value: int64(n)}, nil
		},
	}
}

func funcType() *Builtin {
	return &Builtin{
		Fn: func(e *Evaluator, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, wrongArgs("type", len(args), "1")
			}
			return &object.Text{Value: string(args[0].Type())}, nil
		},
	}
}

func notNumber(name string, got object.Object) error {
	return object.NewRuntimeError(object.TypeMismatch, "argument to `%s` must be a number, got %s", name, got.Type())
}

func integerPair(name string, args []object.Object) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, wrongArgs(name, len(args), "2")
	}
	var out [2]int64
	for i, arg := range args {
		f, ok := object.ToFloat(arg)
		if !ok {
			return 0, 0, notNumber(name, arg)
		}
		out[i] = int64(f)
	}
	return out[0], out[1], nil
}

func gcd(a, b int64) int64 {
	a, b = abs(a), abs(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// arithmetic applies op to two numbers. Integers stay integers except for division
// and negative exponents.
func arithmetic(op ast.UpdateOp, left, right object.Object) (object.Object, error) {
	lf, lok := object.ToFloat(left)
	rf, rok := object.ToFloat(right)
	if !lok || !rok {
		return nil, object.NewRuntimeError(object.TypeMismatch, "%s supports numbers only, got %s and %s", op, left.Type(), right.Type())
	}

	li, lint := left.(*object.Integer)
	ri, rint := right.(*object.Integer)
	bothInt := lint && rint

	switch op {
	case ast.Increase:
		if bothInt {
			return &object.Integer{Value: li.Value + ri.Value}, nil
		}
		return &object.Float{Value: lf + rf}, nil
	case ast.Decrease:
		if bothInt {
			return &object.Integer{Value: li.Value - ri.Value}, nil
		}
		return &object.Float{Value: lf - rf}, nil
	case ast.Multiply:
		if bothInt {
			return &object.Integer{Value: li.Value * ri.Value}, nil
		}
		return &object.Float{Value: lf * rf}, nil
	case ast.Divide:
		if rf == 0 {
			return nil, object.NewRuntimeError(object.DivisionByZero, "division by zero")
		}
		return &object.Float{Value: lf / rf}, nil
	case ast.Exponentiate:
		if bothInt && ri.Value >= 0 {
			return &object.Integer{Value: ipow(li.Value, ri.Value)}, nil
		}
		return &object.Float{Value: math.Pow(lf, rf)}, nil
	}
	return nil, object.NewRuntimeError(object.TypeMismatch, "unknown operator %s", op)
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// integerBound reads an integer argument exactly and truncates a float one. Floats
// outside the int64 range are rejected.
func integerBound(name string, arg object.Object) (int64, error) {
	switch arg := arg.(type) {
	case *object.Integer:
		return arg.Value, nil
	case *object.Float:
		f := math.Trunc(arg.Value)
		if math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, object.NewRuntimeError(object.TypeMismatch, "%s: %s is out of the integer range", name, arg.Inspect())
		}
		return int64(f), nil
	}
	return 0, notNumber(name, arg)
}

// randomBetween draws uniformly from [lo, hi] without overflowing on wide ranges.
func randomBetween(r *rand.Rand, lo, hi int64) int64 {
	span := uint64(hi) - uint64(lo)
	if span < math.MaxInt64 {
		return lo + r.Int63n(int64(span)+1)
	}
	for {
		if v := r.Uint64(); v <= span {
			return int64(uint64(lo) + v)
		}
	}
}
