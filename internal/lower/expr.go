package lower

import (
	"github.com/sunholo/corelower/internal/coreast"
	"github.com/sunholo/corelower/internal/coretypes"
	"github.com/sunholo/corelower/internal/errors"
	"github.com/sunholo/corelower/internal/srcast"
)

// lowerMany lowers each of srcs in order, aborting on the first error.
func (l *Lowerer) lowerMany(srcs []srcast.Expr) ([]coreast.Expr, error) {
	out := make([]coreast.Expr, len(srcs))
	for i, s := range srcs {
		e, err := l.lowerExpr(s)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// atomizeMany let-binds every non-atomic expression in exprs to a fresh
// name of a fresh type hole, in order, so the returned atoms can be
// used directly as application arguments (spec.md §3 invariant 5). wrap
// threads the accumulated let-bindings around whatever expression the
// caller builds from the atoms.
func (l *Lowerer) atomizeMany(exprs []coreast.Expr, span srcast.Span) (atoms []coreast.Expr, wrap func(coreast.Expr) coreast.Expr) {
	atoms = make([]coreast.Expr, len(exprs))
	var binds []func(coreast.Expr) coreast.Expr
	for idx, e := range exprs {
		if coreast.IsAtomic(e) {
			atoms[idx] = e
			continue
		}
		name := l.ns.FreshVar()
		t := l.ns.FreshType()
		val := e
		atoms[idx] = varRef(span, name)
		binds = append(binds, func(cont coreast.Expr) coreast.Expr {
			return &coreast.Let{CoreNode: node(span), Name: name, Type: t, Value: val, Body: cont}
		})
	}
	wrap = func(inner coreast.Expr) coreast.Expr {
		for k := len(binds) - 1; k >= 0; k-- {
			inner = binds[k](inner)
		}
		return inner
	}
	return atoms, wrap
}

// lowerApplyBuiltin lowers srcs, atomizes them, and applies the named
// Core builtin to the resulting atoms.
func (l *Lowerer) lowerApplyBuiltin(span srcast.Span, name string, srcs ...srcast.Expr) (coreast.Expr, error) {
	lowered, err := l.lowerMany(srcs)
	if err != nil {
		return nil, err
	}
	atoms, wrap := l.atomizeMany(lowered, span)
	return wrap(apply(span, builtin(span, name), atoms...)), nil
}

// lowerExpr lowers one Source expression to one Core expression,
// spec.md §4.E.
func (l *Lowerer) lowerExpr(e srcast.Expr) (coreast.Expr, error) {
	switch ex := e.(type) {
	case *srcast.Var:
		return varRef(ex.Span, l.scope.Resolve(ex.Name)), nil

	case *srcast.IntLit:
		return litInt(ex.Span, ex.Value), nil

	case *srcast.BoolLit:
		return litBool(ex.Span, ex.Value), nil

	case *srcast.NoneLit:
		return &coreast.TupleCtor{CoreNode: node(ex.Span)}, nil

	case *srcast.BuiltinRef:
		return builtin(ex.Span, ex.Name), nil

	case *srcast.BoolOp:
		return l.lowerApplyBuiltin(ex.Span, boolOpBuiltin[ex.Op], ex.Left, ex.Right)

	case *srcast.BinOp:
		name, err := binOpName(ex.Op, ex.Span)
		if err != nil {
			return nil, err
		}
		return l.lowerApplyBuiltin(ex.Span, name, ex.Left, ex.Right)

	case *srcast.UnaryOp:
		return l.lowerUnaryOp(ex)

	case *srcast.Lambda:
		return l.lowerLambda(ex)

	case *srcast.IfExp:
		return l.lowerIfExp(ex)

	case *srcast.ListComp:
		return l.lowerListComp(ex)

	case *srcast.Compare:
		return l.lowerCompare(ex)

	case *srcast.Call:
		return l.lowerCall(ex)

	case *srcast.Attribute:
		return l.lowerAttribute(ex)

	case *srcast.Subscript:
		return l.lowerApplyBuiltin(ex.Span, "at", ex.Base, ex.Index)

	case *srcast.SubscriptSlice:
		return l.lowerSubscriptSlice(ex)

	case *srcast.Starred:
		return nil, semErr(errors.LOW005, ex.Span, "starred expression is not allowed here")

	case *srcast.ListLit:
		return l.lowerListLit(ex)

	case *srcast.TupleLit:
		lowered, err := l.lowerMany(ex.Elems)
		if err != nil {
			return nil, err
		}
		atoms, wrap := l.atomizeMany(lowered, ex.Span)
		return wrap(&coreast.TupleCtor{CoreNode: node(ex.Span), Elems: atoms}), nil

	default:
		return nil, semErr(errors.LOW901, e.Position(), "unresolved Source expression %T", e)
	}
}

func (l *Lowerer) lowerUnaryOp(ex *srcast.UnaryOp) (coreast.Expr, error) {
	if ex.Op == srcast.UnaryPlus {
		operandE, err := l.lowerExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		t := l.ns.FreshType()
		pName := l.ns.FreshVar()
		idLambda := lambda(ex.Span, []coreast.Param{{Name: pName, Type: t}}, varRef(ex.Span, pName))
		atoms, wrap := l.atomizeMany([]coreast.Expr{operandE}, ex.Span)
		return wrap(apply(ex.Span, idLambda, atoms...)), nil
	}
	name, ok := unaryOpBuiltin[ex.Op]
	if !ok {
		return nil, semErr(errors.LOW901, ex.Span, "unresolved unary operator")
	}
	return l.lowerApplyBuiltin(ex.Span, name, ex.Operand)
}

func (l *Lowerer) lowerLambda(ex *srcast.Lambda) (coreast.Expr, error) {
	params := make([]coreast.Param, len(ex.Params))
	for i, p := range ex.Params {
		params[i] = coreast.Param{Name: p, Type: l.ns.FreshType()}
	}
	var body coreast.Expr
	err := l.scope.WithScope(func() error {
		for _, p := range ex.Params {
			l.scope.Define(p)
		}
		b, err := l.lowerExpr(ex.Body)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lambda(ex.Span, params, body), nil
}

func (l *Lowerer) lowerIfExp(ex *srcast.IfExp) (coreast.Expr, error) {
	condE, err := l.lowerExpr(ex.Cond)
	if err != nil {
		return nil, err
	}
	thenE, err := l.lowerExpr(ex.Then)
	if err != nil {
		return nil, err
	}
	elseE, err := l.lowerExpr(ex.Else)
	if err != nil {
		return nil, err
	}
	resultT := l.ns.FreshType()
	return l.atom(condE, l.ns.FreshType(), ex.Span, func(c coreast.Expr) coreast.Expr {
		return &coreast.If{CoreNode: node(ex.Span), ResultType: resultT, Cond: c, Then: thenE, Else: elseE}
	}), nil
}

func (l *Lowerer) lowerListComp(ex *srcast.ListComp) (coreast.Expr, error) {
	iterE, err := l.lowerExpr(ex.Iter)
	if err != nil {
		return nil, err
	}
	elemT := l.ns.FreshType()
	yName := l.ns.FreshVar()

	headBody, err := l.assignTarget(ex.Target, varRef(ex.Span, yName), elemT, func() (coreast.Expr, error) {
		return l.lowerExpr(ex.Head)
	})
	if err != nil {
		return nil, err
	}
	mapFn := lambda(ex.Span, []coreast.Param{{Name: yName, Type: elemT}}, headBody)

	var predFn *coreast.Lambda
	if ex.Filter != nil {
		predBody, err := l.assignTarget(ex.Target, varRef(ex.Span, yName), elemT, func() (coreast.Expr, error) {
			return l.lowerExpr(ex.Filter)
		})
		if err != nil {
			return nil, err
		}
		predFn = lambda(ex.Span, []coreast.Param{{Name: yName, Type: elemT}}, predBody)
	}

	return l.atom(iterE, l.ns.FreshType(), ex.Span, func(iterVar coreast.Expr) coreast.Expr {
		source := iterVar
		if predFn != nil {
			source = apply(ex.Span, builtin(ex.Span, "filter"), predFn, iterVar)
		}
		return apply(ex.Span, builtin(ex.Span, "map"), mapFn, source)
	}), nil
}

func (l *Lowerer) lowerCompare(c *srcast.Compare) (coreast.Expr, error) {
	linkE, err := l.lowerCompareLink(c)
	if err != nil {
		return nil, err
	}
	if c.Next == nil {
		return linkE, nil
	}
	restE, err := l.lowerCompare(c.Next)
	if err != nil {
		return nil, err
	}
	atoms, wrap := l.atomizeMany([]coreast.Expr{linkE, restE}, c.Span)
	return wrap(apply(c.Span, builtin(c.Span, "and"), atoms...)), nil
}

func (l *Lowerer) lowerCompareLink(c *srcast.Compare) (coreast.Expr, error) {
	if c.Op == srcast.NotIn {
		inE, err := l.lowerApplyBuiltin(c.Span, "in", c.Left, c.Right)
		if err != nil {
			return nil, err
		}
		atoms, wrap := l.atomizeMany([]coreast.Expr{inE}, c.Span)
		return wrap(apply(c.Span, builtin(c.Span, "not"), atoms...)), nil
	}
	name, ok := compareOpBuiltin[c.Op]
	if !ok {
		return nil, semErr(errors.LOW901, c.Span, "unresolved comparison operator")
	}
	return l.lowerApplyBuiltin(c.Span, name, c.Left, c.Right)
}

func (l *Lowerer) lowerCall(ex *srcast.Call) (coreast.Expr, error) {
	if bref, ok := ex.Func.(*srcast.BuiltinRef); ok {
		switch bref.Name {
		case "max", "min":
			switch {
			case len(ex.Args) == 0:
				return nil, semErr(errors.LOW101, ex.Span, "%s() requires at least 1 argument", bref.Name)
			case len(ex.Args) == 1:
				// spec.md §4.E: max/min is 1-ary over a list as well as
				// variadic; the 1-ary form calls the list-folding builtin
				// directly instead of chaining max2/min2.
				listName := "maxList"
				if bref.Name == "min" {
					listName = "minList"
				}
				return l.lowerApplyBuiltin(ex.Span, listName, ex.Args[0])
			default:
				return l.lowerVariadicMaxMin(bref.Name, ex.Args, ex.Span)
			}

		case "zip":
			if len(ex.Args) == 0 {
				return nil, semErr(errors.LOW101, ex.Span, "zip() requires at least 1 argument")
			}
			return l.lowerZip(ex.Args, ex.Span)

		case "enumerate":
			if len(ex.Args) != 1 {
				return nil, semErr(errors.LOW101, ex.Span, "enumerate() takes exactly 1 argument")
			}
			return l.lowerEnumerate(ex.Args[0], ex.Span)

		case "map":
			if len(ex.Args) < 2 {
				return nil, semErr(errors.LOW101, ex.Span, "map() requires a function and at least 1 list")
			}
			return l.lowerMapOverLists(ex.Args[0], ex.Args[1:], ex.Span)

		case "input", "print":
			return nil, semErr(errors.LOW006, ex.Span, "%s() has no Core semantics; I/O is stripped before lowering", bref.Name)
		}
	}
	fnE, err := l.lowerExpr(ex.Func)
	if err != nil {
		return nil, err
	}
	argsE, err := l.lowerMany(ex.Args)
	if err != nil {
		return nil, err
	}
	all := append([]coreast.Expr{fnE}, argsE...)
	atoms, wrap := l.atomizeMany(all, ex.Span)
	return wrap(apply(ex.Span, atoms[0], atoms[1:]...)), nil
}

// lowerVariadicMaxMin desugars variadic max/min of arity N>=2 into the
// right-associated chain spec.md §4.E specifies: max2(x0, max2(x1, ...)).
// Every intermediate link except the outermost is let-bound through
// foldBuiltin2Right, since it is itself used as an application argument
// one level up; only the final, outermost max2/min2 call is left as the
// (possibly non-atomic) result.
func (l *Lowerer) lowerVariadicMaxMin(name string, srcs []srcast.Expr, span srcast.Span) (coreast.Expr, error) {
	lowered, err := l.lowerMany(srcs)
	if err != nil {
		return nil, err
	}
	atoms, wrap := l.atomizeMany(lowered, span)
	builtinName := "max2"
	if name == "min" {
		builtinName = "min2"
	}
	chain, chainWrap := l.foldBuiltin2Right(builtinName, atoms, span)
	return wrap(chainWrap(chain)), nil
}

// foldBuiltin2Right builds name(atoms[0], name(atoms[1], name(atoms[2], ...))),
// right-associated. wrap threads the lets that atomize every link but
// the outermost one (each such link becomes an argument of the link
// above it and is passed as a variable). The returned result may
// itself be non-atomic — callers that use it as a further argument must
// atomize it themselves, e.g. via l.atom.
func (l *Lowerer) foldBuiltin2Right(builtinName string, atoms []coreast.Expr, span srcast.Span) (result coreast.Expr, wrap func(coreast.Expr) coreast.Expr) {
	if len(atoms) == 1 {
		return atoms[0], func(e coreast.Expr) coreast.Expr { return e }
	}
	restAtom, restWrap := l.foldBuiltin2RightAtomic(builtinName, atoms[1:], span)
	return apply(span, builtin(span, builtinName), atoms[0], restAtom), restWrap
}

// foldBuiltin2RightAtomic is foldBuiltin2Right but additionally atomizes
// its own result, for the recursive step whose result feeds another
// application as an argument.
func (l *Lowerer) foldBuiltin2RightAtomic(builtinName string, atoms []coreast.Expr, span srcast.Span) (coreast.Expr, func(coreast.Expr) coreast.Expr) {
	result, wrap := l.foldBuiltin2Right(builtinName, atoms, span)
	if coreast.IsAtomic(result) {
		return result, wrap
	}
	name := l.ns.FreshVar()
	t := l.ns.FreshType()
	return varRef(span, name), func(e coreast.Expr) coreast.Expr {
		return wrap(&coreast.Let{CoreNode: node(span), Name: name, Type: t, Value: result, Body: e})
	}
}

// lowerIndexedMap builds the Core encoding spec.md §4.E's builtin-
// translation rule specifies for map/zip/enumerate over K input lists:
//
//	map (λi. buildElem(i, xs0[i], ..., xsK-1[i])) (range1 (min (len xs0) ... (len xsK-1)))
//
// listAtoms must already be atomic. buildElem receives the loop index
// and each list's element at that index, both already atomized, and
// returns the per-index result (spec.md's f-application for map, a
// tuple for zip/enumerate).
func (l *Lowerer) lowerIndexedMap(span srcast.Span, listAtoms []coreast.Expr, buildElem func(idxVar coreast.Expr, elemsAtI []coreast.Expr) coreast.Expr) coreast.Expr {
	lens := make([]coreast.Expr, len(listAtoms))
	for i, la := range listAtoms {
		lens[i] = apply(span, builtin(span, "len"), la)
	}
	lenAtoms, wrapLens := l.atomizeMany(lens, span)
	minLen, minWrap := l.foldBuiltin2Right("min2", lenAtoms, span)

	iName := l.ns.FreshVar()
	idxVar := varRef(span, iName)
	ats := make([]coreast.Expr, len(listAtoms))
	for j, la := range listAtoms {
		ats[j] = apply(span, builtin(span, "at"), la, idxVar)
	}
	atAtoms, wrapAts := l.atomizeMany(ats, span)
	mapFn := lambda(span, []coreast.Param{{Name: iName, Type: &coretypes.TInt{}}}, wrapAts(buildElem(idxVar, atAtoms)))

	body := l.atom(minLen, &coretypes.TInt{}, span, func(minLenVar coreast.Expr) coreast.Expr {
		rangeCall := apply(span, builtin(span, "range1"), minLenVar)
		return apply(span, builtin(span, "map"), mapFn, rangeCall)
	})
	return wrapLens(minWrap(body))
}

// lowerZip desugars zip(xs0, ..., xsK-1) per spec.md §4.E.
func (l *Lowerer) lowerZip(srcs []srcast.Expr, span srcast.Span) (coreast.Expr, error) {
	lowered, err := l.lowerMany(srcs)
	if err != nil {
		return nil, err
	}
	listAtoms, wrap := l.atomizeMany(lowered, span)
	return wrap(l.lowerIndexedMap(span, listAtoms, func(_ coreast.Expr, elemsAtI []coreast.Expr) coreast.Expr {
		return &coreast.TupleCtor{CoreNode: node(span), Elems: elemsAtI}
	})), nil
}

// lowerEnumerate desugars enumerate(xs) to
// map (λi. (i, xs[i])) (range1 (len xs)), per spec.md §4.E.
func (l *Lowerer) lowerEnumerate(xsSrc srcast.Expr, span srcast.Span) (coreast.Expr, error) {
	xsE, err := l.lowerExpr(xsSrc)
	if err != nil {
		return nil, err
	}
	listAtoms, wrap := l.atomizeMany([]coreast.Expr{xsE}, span)
	return wrap(l.lowerIndexedMap(span, listAtoms, func(idxVar coreast.Expr, elemsAtI []coreast.Expr) coreast.Expr {
		return &coreast.TupleCtor{CoreNode: node(span), Elems: []coreast.Expr{idxVar, elemsAtI[0]}}
	})), nil
}

// lowerMapOverLists desugars map(f, xs0, ..., xsK-1) per spec.md §4.E; f
// is lowered and atomized once, outside the per-index lambda, and
// applied to the indexed elements inside it.
func (l *Lowerer) lowerMapOverLists(fSrc srcast.Expr, listsSrc []srcast.Expr, span srcast.Span) (coreast.Expr, error) {
	fE, err := l.lowerExpr(fSrc)
	if err != nil {
		return nil, err
	}
	listsE, err := l.lowerMany(listsSrc)
	if err != nil {
		return nil, err
	}
	all := append([]coreast.Expr{fE}, listsE...)
	atoms, wrap := l.atomizeMany(all, span)
	fAtom, listAtoms := atoms[0], atoms[1:]
	return wrap(l.lowerIndexedMap(span, listAtoms, func(_ coreast.Expr, elemsAtI []coreast.Expr) coreast.Expr {
		return apply(span, fAtom, elemsAtI...)
	})), nil
}

func (l *Lowerer) lowerAttribute(ex *srcast.Attribute) (coreast.Expr, error) {
	switch ex.Method {
	case "count":
		if len(ex.Args) != 1 {
			return nil, semErr(errors.LOW101, ex.Span, "count() takes exactly 1 argument")
		}
		recvE, err := l.lowerExpr(ex.Recv)
		if err != nil {
			return nil, err
		}
		argE, err := l.lowerExpr(ex.Args[0])
		if err != nil {
			return nil, err
		}
		return l.atom(recvE, l.ns.FreshType(), ex.Span, func(recvVar coreast.Expr) coreast.Expr {
			return l.atom(argE, l.ns.FreshType(), ex.Span, func(argVar coreast.Expr) coreast.Expr {
				yName := l.ns.FreshVar()
				pred := lambda(ex.Span, []coreast.Param{{Name: yName, Type: l.ns.FreshType()}},
					apply(ex.Span, builtin(ex.Span, "eq"), argVar, varRef(ex.Span, yName)))
				return apply(ex.Span, builtin(ex.Span, "len"),
					apply(ex.Span, builtin(ex.Span, "filter"), pred, recvVar))
			})
		}), nil

	case "index":
		if len(ex.Args) != 1 {
			return nil, semErr(errors.LOW101, ex.Span, "index() takes exactly 1 argument")
		}
		recvE, err := l.lowerExpr(ex.Recv)
		if err != nil {
			return nil, err
		}
		argE, err := l.lowerExpr(ex.Args[0])
		if err != nil {
			return nil, err
		}
		return l.atom(recvE, l.ns.FreshType(), ex.Span, func(recvVar coreast.Expr) coreast.Expr {
			return l.atom(argE, l.ns.FreshType(), ex.Span, func(argVar coreast.Expr) coreast.Expr {
				iName := l.ns.FreshVar()
				pred := lambda(ex.Span, []coreast.Param{{Name: iName, Type: &coretypes.TInt{}}},
					apply(ex.Span, builtin(ex.Span, "eq"),
						apply(ex.Span, builtin(ex.Span, "at"), recvVar, varRef(ex.Span, iName)), argVar))
				rangeCall := apply(ex.Span, builtin(ex.Span, "range1"),
					apply(ex.Span, builtin(ex.Span, "len"), recvVar))
				return apply(ex.Span, builtin(ex.Span, "minList"),
					apply(ex.Span, builtin(ex.Span, "filter"), pred, rangeCall))
			})
		}), nil

	case "copy":
		recvE, err := l.lowerExpr(ex.Recv)
		if err != nil {
			return nil, err
		}
		return l.atom(recvE, l.ns.FreshType(), ex.Span, func(recvVar coreast.Expr) coreast.Expr {
			return apply(ex.Span, builtin(ex.Span, "copyList"), recvVar)
		}), nil

	default:
		return nil, semErr(errors.LOW006, ex.Span, "%s() is not legal here", ex.Method)
	}
}

func (l *Lowerer) lowerSubscriptSlice(ex *srcast.SubscriptSlice) (coreast.Expr, error) {
	baseE, err := l.lowerExpr(ex.Base)
	if err != nil {
		return nil, err
	}
	var loE coreast.Expr = litInt(ex.Span, 0)
	if ex.Lo != nil {
		if loE, err = l.lowerExpr(ex.Lo); err != nil {
			return nil, err
		}
	}
	needsLen := ex.Hi == nil
	var hiE coreast.Expr
	if ex.Hi != nil {
		if hiE, err = l.lowerExpr(ex.Hi); err != nil {
			return nil, err
		}
	}
	var stepE coreast.Expr
	if ex.Step != nil {
		if stepE, err = l.lowerExpr(ex.Step); err != nil {
			return nil, err
		}
	}

	return l.atom(baseE, l.ns.FreshType(), ex.Span, func(baseVar coreast.Expr) coreast.Expr {
		hi := hiE
		if needsLen {
			hi = apply(ex.Span, builtin(ex.Span, "len"), baseVar)
		}
		var rangeCall coreast.Expr
		if stepE != nil {
			atoms, wrap := l.atomizeMany([]coreast.Expr{loE, hi, stepE}, ex.Span)
			rangeCall = wrap(apply(ex.Span, builtin(ex.Span, "range3"), atoms...))
		} else {
			atoms, wrap := l.atomizeMany([]coreast.Expr{loE, hi}, ex.Span)
			rangeCall = wrap(apply(ex.Span, builtin(ex.Span, "range2"), atoms...))
		}
		iName := l.ns.FreshVar()
		mapFn := lambda(ex.Span, []coreast.Param{{Name: iName, Type: l.ns.FreshType()}},
			apply(ex.Span, builtin(ex.Span, "at"), baseVar, varRef(ex.Span, iName)))
		return apply(ex.Span, builtin(ex.Span, "map"), mapFn, rangeCall)
	}), nil
}

func (l *Lowerer) lowerListLit(ex *srcast.ListLit) (coreast.Expr, error) {
	var elemT coretypes.Type
	if ex.ElemType != nil {
		t, err := coretypes.Translate(ex.ElemType, ex.Span)
		if err != nil {
			return nil, err
		}
		elemT = t
	} else {
		elemT = l.ns.FreshType()
	}
	acc := coreast.Expr(&coreast.NilOfType{CoreNode: node(ex.Span), ElemType: elemT})
	for k := len(ex.Elems) - 1; k >= 0; k-- {
		e, err := l.lowerExpr(ex.Elems[k])
		if err != nil {
			return nil, err
		}
		atoms, wrap := l.atomizeMany([]coreast.Expr{e, acc}, ex.Span)
		acc = wrap(apply(ex.Span, builtin(ex.Span, "cons"), atoms...))
	}
	return acc, nil
}
