// Operator semantics for scalars, vectors, matrices, lists and strings
// (spec.md §4.F E.1-E.5, E.10; §9 design note (b): "^ = dot", "* between two
// vectors = componentwise (Hadamard)").
package interp

import (
	math "github.com/chewxy/math32"

	"github.com/soypat/gfxlang/token"
)

// BinaryOp evaluates l op r, dispatching on (l.Kind, op, r.Kind) per §4.E.
func BinaryOp(op token.Kind, l, r Value, sp token.Span) (Value, error) {
	switch {
	case l.Kind == KString || r.Kind == KString:
		return stringOp(op, l, r, sp)
	case (l.Kind == KInt || l.Kind == KFloat) && (r.Kind == KInt || r.Kind == KFloat):
		return numericOp(op, l, r, sp)
	case l.Kind == KBool && r.Kind == KBool:
		return boolOp(op, l, r, sp)
	case isVec(l.Kind) && isVec(r.Kind):
		return vecVecOp(op, l, r, sp)
	case isVec(l.Kind) && (r.Kind == KInt || r.Kind == KFloat):
		return vecScalarOp(op, l, r, sp)
	case (l.Kind == KInt || l.Kind == KFloat) && isVec(r.Kind):
		return scalarVecOp(op, l, r, sp)
	case isMat(l.Kind) && isMat(r.Kind):
		return matMatOp(op, l, r, sp)
	case isMat(l.Kind) && isVec(r.Kind):
		return matVecOp(op, l, r, sp)
	case isMat(l.Kind) && (r.Kind == KInt || r.Kind == KFloat):
		return matScalarOp(op, l, r, sp)
	case (l.Kind == KInt || l.Kind == KFloat) && isMat(r.Kind):
		return scalarMatOp(op, l, r, sp)
	}
	return Value{}, errf(KindType, sp, "illegal operand types %s %s %s", l.Kind, op, r.Kind)
}

func asFloat(v Value) float32 {
	if v.Kind == KInt {
		return float32(v.I)
	}
	return v.F
}

// numericOp implements §4.E.1: "+ - * / on Int×Int, Float×Float, and mixed
// scalar (mixed promotes to Float)... Int / Int always yields Float."
func numericOp(op token.Kind, l, r Value, sp token.Span) (Value, error) {
	bothInt := l.Kind == KInt && r.Kind == KInt
	switch op {
	case token.Plus, token.Minus, token.Star:
		if bothInt {
			a, b := l.I, r.I
			switch op {
			case token.Plus:
				return Int(a + b), nil
			case token.Minus:
				return Int(a - b), nil
			case token.Star:
				return Int(a * b), nil
			}
		}
		a, b := asFloat(l), asFloat(r)
		switch op {
		case token.Plus:
			return Float(a + b), nil
		case token.Minus:
			return Float(a - b), nil
		case token.Star:
			return Float(a * b), nil
		}
	case token.Slash:
		a, b := asFloat(l), asFloat(r)
		if b == 0 {
			return Value{}, errf(KindRuntimeBound, sp, "division by zero")
		}
		return Float(a / b), nil
	case token.Percent:
		if !bothInt {
			return Value{}, errf(KindType, sp, "%% requires two ints (got %s %% %s)", l.Kind, r.Kind)
		}
		if r.I == 0 {
			return Value{}, errf(KindRuntimeBound, sp, "modulo by zero")
		}
		return Int(l.I % r.I), nil
	case token.Caret:
		return Value{}, errf(KindType, sp, "^ (dot) is not defined on scalars")
	case token.Eq, token.Neq, token.Lt, token.Gt, token.Le, token.Ge:
		a, b := asFloat(l), asFloat(r)
		return Bool(compareFloat(op, a, b)), nil
	}
	return Value{}, errf(KindType, sp, "unsupported numeric operator %s", op)
}

func compareFloat(op token.Kind, a, b float32) bool {
	switch op {
	case token.Eq:
		return a == b
	case token.Neq:
		return a != b
	case token.Lt:
		return a < b
	case token.Gt:
		return a > b
	case token.Le:
		return a <= b
	case token.Ge:
		return a >= b
	}
	return false
}

func boolOp(op token.Kind, l, r Value, sp token.Span) (Value, error) {
	switch op {
	case token.And:
		return Bool(l.B && r.B), nil
	case token.Or:
		return Bool(l.B || r.B), nil
	case token.Eq:
		return Bool(l.B == r.B), nil
	case token.Neq:
		return Bool(l.B != r.B), nil
	}
	return Value{}, errf(KindType, sp, "operator %s not defined on bool", op)
}

// stringOp implements §4.E.5: "str + x and x + str coerce the non-string
// side through the canonical pretty-printer; ==, <, ... compare strings."
func stringOp(op token.Kind, l, r Value, sp token.Span) (Value, error) {
	if op == token.Plus {
		return Str(Sprint(l) + Sprint(r)), nil
	}
	if l.Kind != KString || r.Kind != KString {
		return Value{}, errf(KindType, sp, "operator %s requires both operands to be strings (or + for coercion)", op)
	}
	switch op {
	case token.Eq:
		return Bool(l.S == r.S), nil
	case token.Neq:
		return Bool(l.S != r.S), nil
	case token.Lt:
		return Bool(l.S < r.S), nil
	case token.Gt:
		return Bool(l.S > r.S), nil
	case token.Le:
		return Bool(l.S <= r.S), nil
	case token.Ge:
		return Bool(l.S >= r.S), nil
	}
	return Value{}, errf(KindType, sp, "operator %s not defined on string", op)
}

// vecVecOp implements §4.E.2: componentwise + - * /, ^ = dot -> Float,
// % = cross (2D->Float, 3D->Vec3).
func vecVecOp(op token.Kind, l, r Value, sp token.Span) (Value, error) {
	if l.Kind != r.Kind {
		return Value{}, errf(KindType, sp, "mismatched vector arity: %s vs %s", l.Kind, r.Kind)
	}
	n := vecArity(l.Kind)
	switch op {
	case token.Plus, token.Minus, token.Star, token.Slash:
		comps := make([]Value, n)
		for i := 0; i < n; i++ {
			c, err := numericOp(op, l.Vec[i], r.Vec[i], sp)
			if err != nil {
				return Value{}, err
			}
			comps[i] = c
		}
		return VecN(comps), nil
	case token.Caret:
		var sum float32
		for i := 0; i < n; i++ {
			sum += asFloat(l.Vec[i]) * asFloat(r.Vec[i])
		}
		return Float(sum), nil
	case token.Percent:
		switch n {
		case 2:
			ax, ay := asFloat(l.Vec[0]), asFloat(l.Vec[1])
			bx, by := asFloat(r.Vec[0]), asFloat(r.Vec[1])
			return Float(ax*by - ay*bx), nil
		case 3:
			ax, ay, az := asFloat(l.Vec[0]), asFloat(l.Vec[1]), asFloat(l.Vec[2])
			bx, by, bz := asFloat(r.Vec[0]), asFloat(r.Vec[1]), asFloat(r.Vec[2])
			return Vec3(
				Float(ay*bz-az*by),
				Float(az*bx-ax*bz),
				Float(ax*by-ay*bx),
			), nil
		default:
			return Value{}, errf(KindType, sp, "%% (cross) only defined on vec2/vec3, got %s", l.Kind)
		}
	case token.Eq, token.Neq:
		eq := true
		for i := 0; i < n; i++ {
			if asFloat(l.Vec[i]) != asFloat(r.Vec[i]) {
				eq = false
				break
			}
		}
		if op == token.Neq {
			eq = !eq
		}
		return Bool(eq), nil
	}
	return Value{}, errf(KindType, sp, "operator %s not defined between two %s", op, l.Kind)
}

// vecScalarOp implements §4.E.3: vec*scalar, vec/scalar componentwise.
func vecScalarOp(op token.Kind, v, s Value, sp token.Span) (Value, error) {
	n := vecArity(v.Kind)
	switch op {
	case token.Star, token.Slash:
		comps := make([]Value, n)
		for i := 0; i < n; i++ {
			c, err := numericOp(op, v.Vec[i], s, sp)
			if err != nil {
				return Value{}, err
			}
			comps[i] = c
		}
		return VecN(comps), nil
	}
	return Value{}, errf(KindType, sp, "operator %s not defined between %s and scalar", op, v.Kind)
}

// scalarVecOp implements §4.E.3: scalar*vec componentwise; scalar/vec is
// undefined.
func scalarVecOp(op token.Kind, s, v Value, sp token.Span) (Value, error) {
	if op != token.Star {
		return Value{}, errf(KindType, sp, "scalar %s vector is undefined (only scalar * vector is defined)", op)
	}
	return vecScalarOp(token.Star, v, s, sp)
}

// matMatOp implements §4.E.4: mat*mat via row.col dot products; mat/scalar
// etc are handled in matScalarOp.
func matMatOp(op token.Kind, l, r Value, sp token.Span) (Value, error) {
	if l.Kind != r.Kind {
		return Value{}, errf(KindType, sp, "mismatched matrix size: %s vs %s", l.Kind, r.Kind)
	}
	n := len(l.Rows)
	switch op {
	case token.Star:
		rows := make([]Value, n)
		for i := 0; i < n; i++ {
			comps := make([]Value, n)
			for j := 0; j < n; j++ {
				var sum float32
				for k := 0; k < n; k++ {
					sum += asFloat(l.Rows[i].Vec[k]) * asFloat(r.Cols[j].Vec[k])
				}
				comps[j] = Float(sum)
			}
			rows[i] = VecN(comps)
		}
		return NewMat(rows), nil
	case token.Plus, token.Minus:
		rows := make([]Value, n)
		for i := 0; i < n; i++ {
			row, err := vecVecOp(op, l.Rows[i], r.Rows[i], sp)
			if err != nil {
				return Value{}, err
			}
			rows[i] = row
		}
		return NewMat(rows), nil
	}
	return Value{}, errf(KindType, sp, "operator %s not defined between two %s", op, l.Kind)
}

// matVecOp implements §4.E.4: mat*vec — result[i] = dot(row_i, vec).
func matVecOp(op token.Kind, m, v Value, sp token.Span) (Value, error) {
	if op != token.Star {
		return Value{}, errf(KindType, sp, "operator %s not defined between matrix and vector", op)
	}
	n := len(m.Rows)
	if vecArity(v.Kind) != n {
		return Value{}, errf(KindType, sp, "matrix/vector size mismatch: %s * %s", m.Kind, v.Kind)
	}
	comps := make([]Value, n)
	for i := 0; i < n; i++ {
		var sum float32
		for k := 0; k < n; k++ {
			sum += asFloat(m.Rows[i].Vec[k]) * asFloat(v.Vec[k])
		}
		comps[i] = Float(sum)
	}
	return VecN(comps), nil
}

// matScalarOp implements §4.E.4: mat*scalar, mat/scalar row-wise.
func matScalarOp(op token.Kind, m, s Value, sp token.Span) (Value, error) {
	if op != token.Star && op != token.Slash {
		return Value{}, errf(KindType, sp, "operator %s not defined between matrix and scalar", op)
	}
	n := len(m.Rows)
	rows := make([]Value, n)
	for i := 0; i < n; i++ {
		row, err := vecScalarOp(op, m.Rows[i], s, sp)
		if err != nil {
			return Value{}, err
		}
		rows[i] = row
	}
	return NewMat(rows), nil
}

// scalarMatOp implements §4.E.4: scalar*mat row-wise.
func scalarMatOp(op token.Kind, s, m Value, sp token.Span) (Value, error) {
	if op != token.Star {
		return Value{}, errf(KindType, sp, "scalar %s matrix is undefined", op)
	}
	return matScalarOp(token.Star, m, s, sp)
}

// UnaryOp implements §4.F E.10: "-x negates numerics and componentwise-
// negates vectors; !b on Bool; |x| per E.4."
func UnaryOp(op token.Kind, x Value, sp token.Span) (Value, error) {
	switch op {
	case token.Minus:
		switch x.Kind {
		case KInt:
			return Int(-x.I), nil
		case KFloat:
			return Float(-x.F), nil
		case KVec2, KVec3, KVec4:
			comps := make([]Value, len(x.Vec))
			for i, c := range x.Vec {
				neg, err := UnaryOp(token.Minus, c, sp)
				if err != nil {
					return Value{}, err
				}
				comps[i] = neg
			}
			return VecN(comps), nil
		}
		return Value{}, errf(KindType, sp, "unary - not defined on %s", x.Kind)
	case token.Not:
		if x.Kind != KBool {
			return Value{}, errf(KindType, sp, "unary ! requires bool, got %s", x.Kind)
		}
		return Bool(!x.B), nil
	case token.Pipe:
		return AbsOp(x, sp)
	}
	return Value{}, errf(KindType, sp, "unsupported unary operator %s", op)
}

// AbsOp implements §4.E.4: |mat| determinant, |vec| Euclidean length,
// |int|/|float| absolute value, |list| length.
func AbsOp(x Value, sp token.Span) (Value, error) {
	switch x.Kind {
	case KInt:
		if x.I < 0 {
			return Int(-x.I), nil
		}
		return Int(x.I), nil
	case KFloat:
		return Float(math.Abs(x.F)), nil
	case KVec2, KVec3, KVec4:
		var sum float32
		for _, c := range x.Vec {
			f := asFloat(c)
			sum += f * f
		}
		return Float(math.Sqrt(sum)), nil
	case KMat2, KMat3, KMat4:
		return Float(determinant(x)), nil
	case KList:
		return Int(int32(len(x.List.Elems))), nil
	}
	return Value{}, errf(KindType, sp, "|...| not defined on %s", x.Kind)
}

func m(x Value, i, j int) float32 { return asFloat(x.Rows[i].Vec[j]) }

// determinant computes 2x2/3x3/4x4 determinants via closed formulas
// (spec.md §4.E.4: "closed formulas for 2/3/4").
func determinant(x Value) float32 {
	switch x.Kind {
	case KMat2:
		return m(x, 0, 0)*m(x, 1, 1) - m(x, 0, 1)*m(x, 1, 0)
	case KMat3:
		return m(x, 0, 0)*(m(x, 1, 1)*m(x, 2, 2)-m(x, 1, 2)*m(x, 2, 1)) -
			m(x, 0, 1)*(m(x, 1, 0)*m(x, 2, 2)-m(x, 1, 2)*m(x, 2, 0)) +
			m(x, 0, 2)*(m(x, 1, 0)*m(x, 2, 1)-m(x, 1, 1)*m(x, 2, 0))
	case KMat4:
		return det4(x)
	}
	return 0
}

func det3sub(x Value, rows, cols [3]int) float32 {
	get := func(i, j int) float32 { return m(x, rows[i], cols[j]) }
	return get(0, 0)*(get(1, 1)*get(2, 2)-get(1, 2)*get(2, 1)) -
		get(0, 1)*(get(1, 0)*get(2, 2)-get(1, 2)*get(2, 0)) +
		get(0, 2)*(get(1, 0)*get(2, 1)-get(1, 1)*get(2, 0))
}

// det4 expands a 4x4 determinant by cofactors along the first row.
func det4(x Value) float32 {
	var sum float32
	allRows := [4]int{0, 1, 2, 3}
	sign := float32(1)
	for col := 0; col < 4; col++ {
		var minorCols [3]int
		k := 0
		for c := 0; c < 4; c++ {
			if c == col {
				continue
			}
			minorCols[k] = c
			k++
		}
		minorRows := [3]int{allRows[1], allRows[2], allRows[3]}
		sum += sign * m(x, 0, col) * det3sub(x, minorRows, minorCols)
		sign = -sign
	}
	return sum
}
