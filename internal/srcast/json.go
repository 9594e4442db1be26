package srcast

import (
	"encoding/json"
	"fmt"
)

// This file lets cmd/corelowerc read/write a Program as JSON, standing
// in for the real Source parser (an external collaborator out of
// scope, spec.md §1/§6): a driver upstream of this pass is expected to
// produce this wire shape instead of surface text. Expr/Stmt/Target/Type
// are interfaces, so each gets a tagged "kind" envelope and a pair of
// Marshal.../Unmarshal... functions dispatching on it.

func marshalTagged(kind string, fields map[string]any) (json.RawMessage, error) {
	m := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		m[k] = v
	}
	m["kind"] = kind
	return json.Marshal(m)
}

func kindOf(data json.RawMessage) (string, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return "", err
	}
	return head.Kind, nil
}

func isNullRaw(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}

// ---- Expr ----

func MarshalExpr(e Expr) (json.RawMessage, error) {
	if e == nil {
		return json.Marshal(nil)
	}
	switch ex := e.(type) {
	case *Var:
		return marshalTagged("Var", map[string]any{"name": ex.Name, "span": ex.Span})
	case *IntLit:
		return marshalTagged("IntLit", map[string]any{"value": ex.Value, "span": ex.Span})
	case *BoolLit:
		return marshalTagged("BoolLit", map[string]any{"value": ex.Value, "span": ex.Span})
	case *NoneLit:
		return marshalTagged("NoneLit", map[string]any{"span": ex.Span})
	case *BuiltinRef:
		return marshalTagged("BuiltinRef", map[string]any{"name": ex.Name, "span": ex.Span})
	case *BoolOp:
		left, err := MarshalExpr(ex.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalExpr(ex.Right)
		if err != nil {
			return nil, err
		}
		return marshalTagged("BoolOp", map[string]any{"op": ex.Op, "left": left, "right": right, "span": ex.Span})
	case *BinOp:
		left, err := MarshalExpr(ex.Left)
		if err != nil {
			return nil, err
		}
		right, err := MarshalExpr(ex.Right)
		if err != nil {
			return nil, err
		}
		return marshalTagged("BinOp", map[string]any{"op": ex.Op, "left": left, "right": right, "span": ex.Span})
	case *UnaryOp:
		operand, err := MarshalExpr(ex.Operand)
		if err != nil {
			return nil, err
		}
		return marshalTagged("UnaryOp", map[string]any{"op": ex.Op, "operand": operand, "span": ex.Span})
	case *Lambda:
		body, err := MarshalExpr(ex.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged("Lambda", map[string]any{"params": ex.Params, "body": body, "span": ex.Span})
	case *IfExp:
		cond, err := MarshalExpr(ex.Cond)
		if err != nil {
			return nil, err
		}
		then, err := MarshalExpr(ex.Then)
		if err != nil {
			return nil, err
		}
		els, err := MarshalExpr(ex.Else)
		if err != nil {
			return nil, err
		}
		return marshalTagged("IfExp", map[string]any{"cond": cond, "then": then, "else": els, "span": ex.Span})
	case *ListComp:
		head, err := MarshalExpr(ex.Head)
		if err != nil {
			return nil, err
		}
		target, err := MarshalTarget(ex.Target)
		if err != nil {
			return nil, err
		}
		iter, err := MarshalExpr(ex.Iter)
		if err != nil {
			return nil, err
		}
		filter, err := MarshalExpr(ex.Filter)
		if err != nil {
			return nil, err
		}
		return marshalTagged("ListComp", map[string]any{
			"head": head, "target": target, "iter": iter, "filter": filter, "span": ex.Span,
		})
	case *Compare:
		w, err := toCompareWire(ex)
		if err != nil {
			return nil, err
		}
		return marshalTagged("Compare", map[string]any{"chain": w})
	case *Call:
		fn, err := MarshalExpr(ex.Func)
		if err != nil {
			return nil, err
		}
		args, err := marshalExprSlice(ex.Args)
		if err != nil {
			return nil, err
		}
		return marshalTagged("Call", map[string]any{"func": fn, "args": args, "span": ex.Span})
	case *Attribute:
		recv, err := MarshalExpr(ex.Recv)
		if err != nil {
			return nil, err
		}
		args, err := marshalExprSlice(ex.Args)
		if err != nil {
			return nil, err
		}
		return marshalTagged("Attribute", map[string]any{"recv": recv, "method": ex.Method, "args": args, "span": ex.Span})
	case *Subscript:
		base, err := MarshalExpr(ex.Base)
		if err != nil {
			return nil, err
		}
		index, err := MarshalExpr(ex.Index)
		if err != nil {
			return nil, err
		}
		return marshalTagged("Subscript", map[string]any{"base": base, "index": index, "span": ex.Span})
	case *SubscriptSlice:
		base, err := MarshalExpr(ex.Base)
		if err != nil {
			return nil, err
		}
		lo, err := MarshalExpr(ex.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := MarshalExpr(ex.Hi)
		if err != nil {
			return nil, err
		}
		step, err := MarshalExpr(ex.Step)
		if err != nil {
			return nil, err
		}
		return marshalTagged("SubscriptSlice", map[string]any{
			"base": base, "lo": lo, "hi": hi, "step": step, "span": ex.Span,
		})
	case *Starred:
		inner, err := MarshalExpr(ex.Inner)
		if err != nil {
			return nil, err
		}
		return marshalTagged("Starred", map[string]any{"inner": inner, "span": ex.Span})
	case *ListLit:
		elemType, err := MarshalType(ex.ElemType)
		if err != nil {
			return nil, err
		}
		elems, err := marshalExprSlice(ex.Elems)
		if err != nil {
			return nil, err
		}
		return marshalTagged("ListLit", map[string]any{"elem_type": elemType, "elems": elems, "span": ex.Span})
	case *TupleLit:
		elems, err := marshalExprSlice(ex.Elems)
		if err != nil {
			return nil, err
		}
		return marshalTagged("TupleLit", map[string]any{"elems": elems, "span": ex.Span})
	default:
		return nil, fmt.Errorf("srcast: no JSON encoding for expr type %T", e)
	}
}

func marshalExprSlice(exprs []Expr) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(exprs))
	for i, e := range exprs {
		raw, err := MarshalExpr(e)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func unmarshalExprSlice(raws []json.RawMessage) ([]Expr, error) {
	out := make([]Expr, len(raws))
	for i, raw := range raws {
		e, err := UnmarshalExpr(raw)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

type compareWire struct {
	Left  json.RawMessage `json:"left"`
	Op    CompareOp       `json:"op"`
	Right json.RawMessage `json:"right"`
	Next  *compareWire    `json:"next,omitempty"`
	Span  Span            `json:"span"`
}

func toCompareWire(c *Compare) (*compareWire, error) {
	if c == nil {
		return nil, nil
	}
	left, err := MarshalExpr(c.Left)
	if err != nil {
		return nil, err
	}
	right, err := MarshalExpr(c.Right)
	if err != nil {
		return nil, err
	}
	next, err := toCompareWire(c.Next)
	if err != nil {
		return nil, err
	}
	return &compareWire{Left: left, Op: c.Op, Right: right, Next: next, Span: c.Span}, nil
}

func fromCompareWire(w *compareWire) (*Compare, error) {
	if w == nil {
		return nil, nil
	}
	left, err := UnmarshalExpr(w.Left)
	if err != nil {
		return nil, err
	}
	right, err := UnmarshalExpr(w.Right)
	if err != nil {
		return nil, err
	}
	next, err := fromCompareWire(w.Next)
	if err != nil {
		return nil, err
	}
	return &Compare{Left: left, Op: w.Op, Right: right, Next: next, Span: w.Span}, nil
}

// UnmarshalExpr decodes one tagged Expr node. A null/empty payload
// decodes to (nil, nil) since several Expr fields (ListComp.Filter,
// SubscriptSlice.Lo/Hi/Step) are legitimately absent.
func UnmarshalExpr(data json.RawMessage) (Expr, error) {
	if isNullRaw(data) {
		return nil, nil
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "Var":
		var w struct {
			Name string `json:"name"`
			Span Span   `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &Var{Name: w.Name, Span: w.Span}, nil
	case "IntLit":
		var w struct {
			Value int64 `json:"value"`
			Span  Span  `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &IntLit{Value: w.Value, Span: w.Span}, nil
	case "BoolLit":
		var w struct {
			Value bool `json:"value"`
			Span  Span `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &BoolLit{Value: w.Value, Span: w.Span}, nil
	case "NoneLit":
		var w struct {
			Span Span `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &NoneLit{Span: w.Span}, nil
	case "BuiltinRef":
		var w struct {
			Name string `json:"name"`
			Span Span   `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &BuiltinRef{Name: w.Name, Span: w.Span}, nil
	case "BoolOp":
		var w struct {
			Op    BoolOpKind      `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Span  Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		left, err := UnmarshalExpr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &BoolOp{Op: w.Op, Left: left, Right: right, Span: w.Span}, nil
	case "BinOp":
		var w struct {
			Op    BinOpKind       `json:"op"`
			Left  json.RawMessage `json:"left"`
			Right json.RawMessage `json:"right"`
			Span  Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		left, err := UnmarshalExpr(w.Left)
		if err != nil {
			return nil, err
		}
		right, err := UnmarshalExpr(w.Right)
		if err != nil {
			return nil, err
		}
		return &BinOp{Op: w.Op, Left: left, Right: right, Span: w.Span}, nil
	case "UnaryOp":
		var w struct {
			Op      UnaryOpKind     `json:"op"`
			Operand json.RawMessage `json:"operand"`
			Span    Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		operand, err := UnmarshalExpr(w.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: w.Op, Operand: operand, Span: w.Span}, nil
	case "Lambda":
		var w struct {
			Params []string        `json:"params"`
			Body   json.RawMessage `json:"body"`
			Span   Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		body, err := UnmarshalExpr(w.Body)
		if err != nil {
			return nil, err
		}
		return &Lambda{Params: w.Params, Body: body, Span: w.Span}, nil
	case "IfExp":
		var w struct {
			Cond Span
		}
		_ = w
		var w2 struct {
			Cond json.RawMessage `json:"cond"`
			Then json.RawMessage `json:"then"`
			Else json.RawMessage `json:"else"`
			Span Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w2); err != nil {
			return nil, err
		}
		cond, err := UnmarshalExpr(w2.Cond)
		if err != nil {
			return nil, err
		}
		then, err := UnmarshalExpr(w2.Then)
		if err != nil {
			return nil, err
		}
		els, err := UnmarshalExpr(w2.Else)
		if err != nil {
			return nil, err
		}
		return &IfExp{Cond: cond, Then: then, Else: els, Span: w2.Span}, nil
	case "ListComp":
		var w struct {
			Head   json.RawMessage `json:"head"`
			Target json.RawMessage `json:"target"`
			Iter   json.RawMessage `json:"iter"`
			Filter json.RawMessage `json:"filter"`
			Span   Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		head, err := UnmarshalExpr(w.Head)
		if err != nil {
			return nil, err
		}
		target, err := UnmarshalTarget(w.Target)
		if err != nil {
			return nil, err
		}
		iter, err := UnmarshalExpr(w.Iter)
		if err != nil {
			return nil, err
		}
		filter, err := UnmarshalExpr(w.Filter)
		if err != nil {
			return nil, err
		}
		return &ListComp{Head: head, Target: target, Iter: iter, Filter: filter, Span: w.Span}, nil
	case "Compare":
		var w struct {
			Chain *compareWire `json:"chain"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		c, err := fromCompareWire(w.Chain)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "Call":
		var w struct {
			Func json.RawMessage   `json:"func"`
			Args []json.RawMessage `json:"args"`
			Span Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		fn, err := UnmarshalExpr(w.Func)
		if err != nil {
			return nil, err
		}
		args, err := unmarshalExprSlice(w.Args)
		if err != nil {
			return nil, err
		}
		return &Call{Func: fn, Args: args, Span: w.Span}, nil
	case "Attribute":
		var w struct {
			Recv   json.RawMessage   `json:"recv"`
			Method string            `json:"method"`
			Args   []json.RawMessage `json:"args"`
			Span   Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		recv, err := UnmarshalExpr(w.Recv)
		if err != nil {
			return nil, err
		}
		args, err := unmarshalExprSlice(w.Args)
		if err != nil {
			return nil, err
		}
		return &Attribute{Recv: recv, Method: w.Method, Args: args, Span: w.Span}, nil
	case "Subscript":
		var w struct {
			Base  json.RawMessage `json:"base"`
			Index json.RawMessage `json:"index"`
			Span  Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		base, err := UnmarshalExpr(w.Base)
		if err != nil {
			return nil, err
		}
		index, err := UnmarshalExpr(w.Index)
		if err != nil {
			return nil, err
		}
		return &Subscript{Base: base, Index: index, Span: w.Span}, nil
	case "SubscriptSlice":
		var w struct {
			Base json.RawMessage `json:"base"`
			Lo   json.RawMessage `json:"lo"`
			Hi   json.RawMessage `json:"hi"`
			Step json.RawMessage `json:"step"`
			Span Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		base, err := UnmarshalExpr(w.Base)
		if err != nil {
			return nil, err
		}
		lo, err := UnmarshalExpr(w.Lo)
		if err != nil {
			return nil, err
		}
		hi, err := UnmarshalExpr(w.Hi)
		if err != nil {
			return nil, err
		}
		step, err := UnmarshalExpr(w.Step)
		if err != nil {
			return nil, err
		}
		return &SubscriptSlice{Base: base, Lo: lo, Hi: hi, Step: step, Span: w.Span}, nil
	case "Starred":
		var w struct {
			Inner json.RawMessage `json:"inner"`
			Span  Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		inner, err := UnmarshalExpr(w.Inner)
		if err != nil {
			return nil, err
		}
		return &Starred{Inner: inner, Span: w.Span}, nil
	case "ListLit":
		var w struct {
			ElemType json.RawMessage   `json:"elem_type"`
			Elems    []json.RawMessage `json:"elems"`
			Span     Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elemType, err := UnmarshalType(w.ElemType)
		if err != nil {
			return nil, err
		}
		elems, err := unmarshalExprSlice(w.Elems)
		if err != nil {
			return nil, err
		}
		return &ListLit{ElemType: elemType, Elems: elems, Span: w.Span}, nil
	case "TupleLit":
		var w struct {
			Elems []json.RawMessage `json:"elems"`
			Span  Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elems, err := unmarshalExprSlice(w.Elems)
		if err != nil {
			return nil, err
		}
		return &TupleLit{Elems: elems, Span: w.Span}, nil
	default:
		return nil, fmt.Errorf("srcast: unknown expr kind %q", kind)
	}
}

// ---- Target ----

func MarshalTarget(t Target) (json.RawMessage, error) {
	if t == nil {
		return json.Marshal(nil)
	}
	switch tt := t.(type) {
	case *NameTarget:
		return marshalTagged("NameTarget", map[string]any{"name": tt.Name, "span": tt.Span})
	case *SubscriptTarget:
		base, err := MarshalTarget(tt.Base)
		if err != nil {
			return nil, err
		}
		index, err := MarshalExpr(tt.Index)
		if err != nil {
			return nil, err
		}
		return marshalTagged("SubscriptTarget", map[string]any{"base": base, "index": index, "span": tt.Span})
	case *TupleTarget:
		elems := make([]json.RawMessage, len(tt.Elems))
		for i, e := range tt.Elems {
			raw, err := MarshalTarget(e)
			if err != nil {
				return nil, err
			}
			elems[i] = raw
		}
		return marshalTagged("TupleTarget", map[string]any{"elems": elems, "span": tt.Span})
	default:
		return nil, fmt.Errorf("srcast: no JSON encoding for target type %T", t)
	}
}

func UnmarshalTarget(data json.RawMessage) (Target, error) {
	if isNullRaw(data) {
		return nil, nil
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "NameTarget":
		var w struct {
			Name string `json:"name"`
			Span Span   `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &NameTarget{Name: w.Name, Span: w.Span}, nil
	case "SubscriptTarget":
		var w struct {
			Base  json.RawMessage `json:"base"`
			Index json.RawMessage `json:"index"`
			Span  Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		base, err := UnmarshalTarget(w.Base)
		if err != nil {
			return nil, err
		}
		index, err := UnmarshalExpr(w.Index)
		if err != nil {
			return nil, err
		}
		return &SubscriptTarget{Base: base, Index: index, Span: w.Span}, nil
	case "TupleTarget":
		var w struct {
			Elems []json.RawMessage `json:"elems"`
			Span  Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elems := make([]Target, len(w.Elems))
		for i, raw := range w.Elems {
			t, err := UnmarshalTarget(raw)
			if err != nil {
				return nil, err
			}
			elems[i] = t
		}
		return &TupleTarget{Elems: elems, Span: w.Span}, nil
	default:
		return nil, fmt.Errorf("srcast: unknown target kind %q", kind)
	}
}

// ---- Type ----

func MarshalType(t Type) (json.RawMessage, error) {
	if t == nil {
		return json.Marshal(nil)
	}
	switch tt := t.(type) {
	case *TypeVar:
		return marshalTagged("TypeVar", map[string]any{"name": tt.Name, "span": tt.Span})
	case *IntType:
		return marshalTagged("IntType", map[string]any{"span": tt.Span})
	case *BoolType:
		return marshalTagged("BoolType", map[string]any{"span": tt.Span})
	case *StrType:
		return marshalTagged("StrType", map[string]any{"span": tt.Span})
	case *SideEffectType:
		return marshalTagged("SideEffectType", map[string]any{"name": tt.Name, "span": tt.Span})
	case *ListType:
		elem, err := MarshalType(tt.Elem)
		if err != nil {
			return nil, err
		}
		return marshalTagged("ListType", map[string]any{"elem": elem, "span": tt.Span})
	case *TupleType:
		elems := make([]json.RawMessage, len(tt.Elems))
		for i, e := range tt.Elems {
			raw, err := MarshalType(e)
			if err != nil {
				return nil, err
			}
			elems[i] = raw
		}
		return marshalTagged("TupleType", map[string]any{"elems": elems, "span": tt.Span})
	case *CallableType:
		args := make([]json.RawMessage, len(tt.Args))
		for i, a := range tt.Args {
			raw, err := MarshalType(a)
			if err != nil {
				return nil, err
			}
			args[i] = raw
		}
		ret, err := MarshalType(tt.Ret)
		if err != nil {
			return nil, err
		}
		return marshalTagged("CallableType", map[string]any{"args": args, "ret": ret, "span": tt.Span})
	default:
		return nil, fmt.Errorf("srcast: no JSON encoding for type %T", t)
	}
}

func UnmarshalType(data json.RawMessage) (Type, error) {
	if isNullRaw(data) {
		return nil, nil
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "TypeVar":
		var w struct {
			Name string `json:"name"`
			Span Span   `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &TypeVar{Name: w.Name, Span: w.Span}, nil
	case "IntType":
		var w struct {
			Span Span `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &IntType{Span: w.Span}, nil
	case "BoolType":
		var w struct {
			Span Span `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &BoolType{Span: w.Span}, nil
	case "StrType":
		var w struct {
			Span Span `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &StrType{Span: w.Span}, nil
	case "SideEffectType":
		var w struct {
			Name string `json:"name"`
			Span Span   `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &SideEffectType{Name: w.Name, Span: w.Span}, nil
	case "ListType":
		var w struct {
			Elem json.RawMessage `json:"elem"`
			Span Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elem, err := UnmarshalType(w.Elem)
		if err != nil {
			return nil, err
		}
		return &ListType{Elem: elem, Span: w.Span}, nil
	case "TupleType":
		var w struct {
			Elems []json.RawMessage `json:"elems"`
			Span  Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		elems := make([]Type, len(w.Elems))
		for i, raw := range w.Elems {
			e, err := UnmarshalType(raw)
			if err != nil {
				return nil, err
			}
			elems[i] = e
		}
		return &TupleType{Elems: elems, Span: w.Span}, nil
	case "CallableType":
		var w struct {
			Args []json.RawMessage `json:"args"`
			Ret  json.RawMessage   `json:"ret"`
			Span Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		args := make([]Type, len(w.Args))
		for i, raw := range w.Args {
			a, err := UnmarshalType(raw)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		ret, err := UnmarshalType(w.Ret)
		if err != nil {
			return nil, err
		}
		return &CallableType{Args: args, Ret: ret, Span: w.Span}, nil
	default:
		return nil, fmt.Errorf("srcast: unknown type kind %q", kind)
	}
}

// ---- Stmt ----

func MarshalStmt(s Stmt) (json.RawMessage, error) {
	if s == nil {
		return json.Marshal(nil)
	}
	switch st := s.(type) {
	case *ReturnStmt:
		v, err := MarshalExpr(st.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged("ReturnStmt", map[string]any{"value": v, "span": st.Span})
	case *AnnAssign:
		target, err := MarshalTarget(st.TargetV)
		if err != nil {
			return nil, err
		}
		typ, err := MarshalType(st.Type)
		if err != nil {
			return nil, err
		}
		val, err := MarshalExpr(st.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged("AnnAssign", map[string]any{"target": target, "type": typ, "value": val, "span": st.Span})
	case *AugAssign:
		target, err := MarshalTarget(st.TargetV)
		if err != nil {
			return nil, err
		}
		val, err := MarshalExpr(st.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged("AugAssign", map[string]any{"target": target, "op": st.Op, "value": val, "span": st.Span})
	case *ForStmt:
		v, err := MarshalTarget(st.Var)
		if err != nil {
			return nil, err
		}
		iter, err := MarshalExpr(st.Iter)
		if err != nil {
			return nil, err
		}
		body, err := marshalStmtSlice(st.Body)
		if err != nil {
			return nil, err
		}
		return marshalTagged("ForStmt", map[string]any{"var": v, "iter": iter, "body": body, "span": st.Span})
	case *IfStmt:
		cond, err := MarshalExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		then, err := marshalStmtSlice(st.Then)
		if err != nil {
			return nil, err
		}
		els, err := marshalStmtSlice(st.Else)
		if err != nil {
			return nil, err
		}
		return marshalTagged("IfStmt", map[string]any{"cond": cond, "then": then, "else": els, "span": st.Span})
	case *AssertStmt:
		cond, err := MarshalExpr(st.Cond)
		if err != nil {
			return nil, err
		}
		return marshalTagged("AssertStmt", map[string]any{"cond": cond, "span": st.Span})
	case *AppendStmt:
		target, err := MarshalExpr(st.TargetExpr)
		if err != nil {
			return nil, err
		}
		val, err := MarshalExpr(st.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged("AppendStmt", map[string]any{"target_expr": target, "value": val, "span": st.Span})
	case *ExprStmt:
		v, err := MarshalExpr(st.Value)
		if err != nil {
			return nil, err
		}
		return marshalTagged("ExprStmt", map[string]any{"value": v, "span": st.Span})
	default:
		return nil, fmt.Errorf("srcast: no JSON encoding for stmt type %T", s)
	}
}

func marshalStmtSlice(stmts []Stmt) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(stmts))
	for i, s := range stmts {
		raw, err := MarshalStmt(s)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func unmarshalStmtSlice(raws []json.RawMessage) ([]Stmt, error) {
	out := make([]Stmt, len(raws))
	for i, raw := range raws {
		s, err := UnmarshalStmt(raw)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func UnmarshalStmt(data json.RawMessage) (Stmt, error) {
	if isNullRaw(data) {
		return nil, nil
	}
	kind, err := kindOf(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "ReturnStmt":
		var w struct {
			Value json.RawMessage `json:"value"`
			Span  Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		v, err := UnmarshalExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: v, Span: w.Span}, nil
	case "AnnAssign":
		var w struct {
			Target json.RawMessage `json:"target"`
			Type   json.RawMessage `json:"type"`
			Value  json.RawMessage `json:"value"`
			Span   Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		target, err := UnmarshalTarget(w.Target)
		if err != nil {
			return nil, err
		}
		typ, err := UnmarshalType(w.Type)
		if err != nil {
			return nil, err
		}
		val, err := UnmarshalExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &AnnAssign{TargetV: target, Type: typ, Value: val, Span: w.Span}, nil
	case "AugAssign":
		var w struct {
			Target json.RawMessage `json:"target"`
			Op     BinOpKind       `json:"op"`
			Value  json.RawMessage `json:"value"`
			Span   Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		target, err := UnmarshalTarget(w.Target)
		if err != nil {
			return nil, err
		}
		val, err := UnmarshalExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &AugAssign{TargetV: target, Op: w.Op, Value: val, Span: w.Span}, nil
	case "ForStmt":
		var w struct {
			Var  json.RawMessage   `json:"var"`
			Iter json.RawMessage   `json:"iter"`
			Body []json.RawMessage `json:"body"`
			Span Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		v, err := UnmarshalTarget(w.Var)
		if err != nil {
			return nil, err
		}
		iter, err := UnmarshalExpr(w.Iter)
		if err != nil {
			return nil, err
		}
		body, err := unmarshalStmtSlice(w.Body)
		if err != nil {
			return nil, err
		}
		return &ForStmt{Var: v, Iter: iter, Body: body, Span: w.Span}, nil
	case "IfStmt":
		var w struct {
			Cond json.RawMessage   `json:"cond"`
			Then []json.RawMessage `json:"then"`
			Else []json.RawMessage `json:"else"`
			Span Span              `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		cond, err := UnmarshalExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := unmarshalStmtSlice(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := unmarshalStmtSlice(w.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Then: then, Else: els, Span: w.Span}, nil
	case "AssertStmt":
		var w struct {
			Cond json.RawMessage `json:"cond"`
			Span Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		cond, err := UnmarshalExpr(w.Cond)
		if err != nil {
			return nil, err
		}
		return &AssertStmt{Cond: cond, Span: w.Span}, nil
	case "AppendStmt":
		var w struct {
			TargetExpr json.RawMessage `json:"target_expr"`
			Value      json.RawMessage `json:"value"`
			Span       Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		target, err := UnmarshalExpr(w.TargetExpr)
		if err != nil {
			return nil, err
		}
		val, err := UnmarshalExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &AppendStmt{TargetExpr: target, Value: val, Span: w.Span}, nil
	case "ExprStmt":
		var w struct {
			Value json.RawMessage `json:"value"`
			Span  Span            `json:"span"`
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		v, err := UnmarshalExpr(w.Value)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{Value: v, Span: w.Span}, nil
	default:
		return nil, fmt.Errorf("srcast: unknown stmt kind %q", kind)
	}
}

// ---- Program ----

type paramWire struct {
	Name string          `json:"name"`
	Type json.RawMessage `json:"type"`
	Span Span            `json:"span"`
}

type funcDefWire struct {
	Name       string            `json:"name"`
	Params     []paramWire       `json:"params"`
	ReturnType json.RawMessage   `json:"return_type"`
	Body       []json.RawMessage `json:"body"`
	Span       Span              `json:"span"`
}

type annAssignWire struct {
	Target json.RawMessage `json:"target"`
	Type   json.RawMessage `json:"type"`
	Value  json.RawMessage `json:"value"`
	Span   Span            `json:"span"`
}

type programWire struct {
	ToplevelAssigns []annAssignWire `json:"toplevel_assigns"`
	Funcs           []funcDefWire   `json:"funcs"`
}

// MarshalProgram serializes a whole toplevel program to the JSON wire
// format cmd/corelowerc reads.
func MarshalProgram(p *Program) ([]byte, error) {
	var pw programWire
	for _, a := range p.ToplevelAssigns {
		target, err := MarshalTarget(a.TargetV)
		if err != nil {
			return nil, err
		}
		typ, err := MarshalType(a.Type)
		if err != nil {
			return nil, err
		}
		val, err := MarshalExpr(a.Value)
		if err != nil {
			return nil, err
		}
		pw.ToplevelAssigns = append(pw.ToplevelAssigns, annAssignWire{Target: target, Type: typ, Value: val, Span: a.Span})
	}
	for _, f := range p.Funcs {
		params := make([]paramWire, len(f.Params))
		for i, pr := range f.Params {
			typ, err := MarshalType(pr.Type)
			if err != nil {
				return nil, err
			}
			params[i] = paramWire{Name: pr.Name, Type: typ, Span: pr.Span}
		}
		retT, err := MarshalType(f.ReturnType)
		if err != nil {
			return nil, err
		}
		body, err := marshalStmtSlice(f.Body)
		if err != nil {
			return nil, err
		}
		pw.Funcs = append(pw.Funcs, funcDefWire{Name: f.Name, Params: params, ReturnType: retT, Body: body, Span: f.Span})
	}
	return json.Marshal(pw)
}

// UnmarshalProgram parses the JSON wire format into a *Program.
func UnmarshalProgram(data []byte) (*Program, error) {
	var pw programWire
	if err := json.Unmarshal(data, &pw); err != nil {
		return nil, err
	}
	prog := &Program{}
	for _, a := range pw.ToplevelAssigns {
		target, err := UnmarshalTarget(a.Target)
		if err != nil {
			return nil, err
		}
		typ, err := UnmarshalType(a.Type)
		if err != nil {
			return nil, err
		}
		val, err := UnmarshalExpr(a.Value)
		if err != nil {
			return nil, err
		}
		prog.ToplevelAssigns = append(prog.ToplevelAssigns, &AnnAssign{TargetV: target, Type: typ, Value: val, Span: a.Span})
	}
	for _, f := range pw.Funcs {
		params := make([]Param, len(f.Params))
		for i, pr := range f.Params {
			typ, err := UnmarshalType(pr.Type)
			if err != nil {
				return nil, err
			}
			params[i] = Param{Name: pr.Name, Type: typ, Span: pr.Span}
		}
		retT, err := UnmarshalType(f.ReturnType)
		if err != nil {
			return nil, err
		}
		body, err := unmarshalStmtSlice(f.Body)
		if err != nil {
			return nil, err
		}
		prog.Funcs = append(prog.Funcs, &FuncDef{Name: f.Name, Params: params, ReturnType: retT, Body: body, Span: f.Span})
	}
	return prog, nil
}
