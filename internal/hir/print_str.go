package hir

import (
	"fmt"
	"strings"

	"hirlower/internal/abi"
)

func (p *Printer) visStr(v *Visibility) string {
	if v.Kind == VisRestricted {
		return "pub(in " + p.pathStr(v.Path) + ")"
	}
	return v.Kind.String()
}

func (p *Printer) pathStr(path *Path) string {
	if path == nil {
		return "<nil>"
	}
	var sb strings.Builder
	for i := range path.Segments {
		if i > 0 {
			sb.WriteString("::")
		}
		seg := &path.Segments[i]
		sb.WriteString(p.c.Name(seg.Ident))
		if seg.Args != nil {
			sb.WriteString(p.argsStr(seg.Args))
		}
	}
	return sb.String()
}

func (p *Printer) argsStr(a *GenericArgs) string {
	parts := make([]string, 0, len(a.Args))
	for _, arg := range a.Args {
		if arg.Lifetime != nil {
			parts = append(parts, p.lifetimeStr(arg.Lifetime))
		} else {
			parts = append(parts, p.tyStr(arg.Type))
		}
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (p *Printer) paramNameStr(n ParamName) string {
	switch n.Kind {
	case ParamFresh:
		return fmt.Sprintf("'_%d", n.Fresh)
	case ParamError:
		return "'{error}"
	}
	return p.c.Name(n.Ident)
}

func (p *Printer) lifetimeStr(l *Lifetime) string {
	if l == nil {
		return ""
	}
	switch l.Name.Kind {
	case LtParam:
		return p.paramNameStr(l.Name.Param)
	case LtImplicit:
		return "'{implicit}"
	case LtUnderscore:
		return "'_"
	case LtStatic:
		return "'static"
	}
	return "'{error}"
}

func (p *Printer) genericsStr(g *Generics) string {
	if g == nil || (len(g.Params) == 0 && len(g.Where.Predicates) == 0) {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.paramsStr(g.Params))
	if len(g.Where.Predicates) > 0 {
		preds := make([]string, len(g.Where.Predicates))
		for i := range g.Where.Predicates {
			preds[i] = p.predStr(&g.Where.Predicates[i])
		}
		sb.WriteString(" where " + strings.Join(preds, ", "))
	}
	sb.WriteString(" ")
	return sb.String()
}

func (p *Printer) paramsStr(ps []GenericParam) string {
	parts := make([]string, len(ps))
	for i := range ps {
		gp := &ps[i]
		s := p.paramNameStr(gp.Name)
		switch gp.Kind {
		case GenericParamLifetime:
			if gp.LifetimeKind != LifetimeExplicit {
				s += "(" + gp.LifetimeKind.String() + ")"
			}
		case GenericParamConst:
			s = "const " + s + ": " + p.tyStr(gp.Ty)
		}
		if len(gp.Bounds) > 0 {
			s += ": " + p.boundsStr(gp.Bounds)
		}
		if gp.Default != nil {
			s += " = " + p.tyStr(gp.Default)
		}
		parts[i] = s
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func (p *Printer) predStr(pred *WherePredicate) string {
	switch pred.Kind {
	case WhereRegion:
		return p.lifetimeStr(pred.Lifetime) + ": " + p.boundsStr(pred.Bounds)
	case WhereEq:
		return p.tyStr(pred.Lhs) + " = " + p.tyStr(pred.Rhs)
	}
	s := p.tyStr(pred.BoundedTy) + ":"
	if len(pred.Bounds) > 0 {
		s += " " + p.boundsStr(pred.Bounds)
	}
	return s
}

func (p *Printer) boundsStr(bs []GenericBound) string {
	parts := make([]string, len(bs))
	for i := range bs {
		b := &bs[i]
		if b.Kind == BoundOutlives {
			parts[i] = p.lifetimeStr(b.Lifetime)
			continue
		}
		prefix := ""
		switch b.Modifier {
		case BoundModMaybe:
			prefix = "?"
		case BoundModMaybeConst:
			prefix = "?const "
		case BoundModMaybeConstMaybe:
			prefix = "?const ?"
		}
		parts[i] = prefix + p.pathStr(b.Trait.TraitRef.Path)
	}
	return strings.Join(parts, " + ")
}

func (p *Printer) tyStr(t *Ty) string {
	if t == nil {
		return "()"
	}
	switch t.Kind {
	case TyPath:
		return p.pathStr(t.Path)
	case TyRef:
		mut := ""
		if t.Mut {
			mut = "mut "
		}
		lt := p.lifetimeStr(t.Lifetime)
		if lt != "" {
			lt += " "
		}
		return "&" + lt + mut + p.tyStr(t.Elem)
	case TyPtr:
		if t.Mut {
			return "*mut " + p.tyStr(t.Elem)
		}
		return "*const " + p.tyStr(t.Elem)
	case TySlice:
		return "[" + p.tyStr(t.Elem) + "]"
	case TyArray:
		return "[" + p.tyStr(t.Elem) + "; _]"
	case TyTup:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = p.tyStr(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case TyNever:
		return "!"
	case TyInfer:
		return "_"
	case TyOpaque:
		if t.Origin == OpaqueAsyncFn {
			return "impl Future<Output = " + p.tyStr(t.Elem) + ">"
		}
		return "impl " + p.boundsStr(t.Bounds)
	case TyTraitObject:
		return "dyn " + p.boundsStr(t.Bounds)
	}
	return "{type error}"
}

func (p *Printer) declStr(d *FnDecl) string {
	if d == nil {
		return "()"
	}
	ins := make([]string, len(d.Inputs))
	for i, in := range d.Inputs {
		ins[i] = p.tyStr(in)
	}
	s := "(" + strings.Join(ins, ", ") + ")"
	if d.Output.Ty != nil {
		s += " -> " + p.tyStr(d.Output.Ty)
	}
	return s
}

func (p *Printer) sigStr(sig *FnSig) string {
	var sb strings.Builder
	if sig.Header.Const {
		sb.WriteString("const ")
	}
	if sig.Header.Async {
		sb.WriteString("async ")
	}
	if sig.Header.Unsafe {
		sb.WriteString("unsafe ")
	}
	if sig.Header.Abi != abi.Default {
		fmt.Fprintf(&sb, "extern %q ", sig.Header.Abi.String())
	}
	sb.WriteString("fn")
	sb.WriteString(p.declStr(sig.Decl))
	return sb.String()
}

func (p *Printer) variantDataStr(vd *VariantData) string {
	fields := make([]string, len(vd.Fields))
	for i := range vd.Fields {
		f := &vd.Fields[i]
		fields[i] = p.c.Name(f.Ident) + ": " + p.tyStr(f.Ty)
	}
	switch vd.Kind {
	case VariantTuple:
		return "(" + strings.Join(fields, ", ") + ")"
	case VariantUnit:
		return "unit"
	}
	return "{" + strings.Join(fields, ", ") + "}"
}

func (p *Printer) patStr(pat *Pat) string {
	if pat == nil {
		return "_"
	}
	switch pat.Kind {
	case PatBinding:
		s := p.c.Name(pat.Ident)
		switch pat.Binding {
		case BindMutable:
			s = "mut " + s
		case BindRef:
			s = "ref " + s
		case BindRefMut:
			s = "ref mut " + s
		}
		if pat.Sub != nil {
			s += " @ " + p.patStr(pat.Sub)
		}
		return s
	case PatTuple, PatTupleStruct:
		parts := make([]string, len(pat.Elems))
		for i, e := range pat.Elems {
			parts[i] = p.patStr(e)
		}
		head := ""
		if pat.Kind == PatTupleStruct {
			head = p.pathStr(pat.Path)
		}
		return head + "(" + strings.Join(parts, ", ") + ")"
	case PatRef:
		return "&" + p.patStr(pat.Sub)
	case PatLit:
		return pat.Lit.Value
	case PatPath:
		return p.pathStr(pat.Path)
	case PatRest:
		return ".."
	}
	return "_"
}

func (p *Printer) exprStr(e *Expr) string {
	if e == nil {
		return "()"
	}
	switch e.Kind {
	case ExprLit:
		return e.Lit.Value
	case ExprPath:
		return p.pathStr(e.Path)
	case ExprCall:
		return p.exprStr(e.Callee) + "(" + p.exprList(e.Args) + ")"
	case ExprMethodCall:
		if len(e.Args) == 0 {
			return "<bad method call>"
		}
		return p.exprStr(e.Args[0]) + "." + p.c.Name(e.Method.Ident) + "(" + p.exprList(e.Args[1:]) + ")"
	case ExprBinary:
		return "(" + p.exprStr(e.Lhs) + " " + e.Op + " " + p.exprStr(e.Rhs) + ")"
	case ExprUnary:
		return e.Op + p.exprStr(e.Operand)
	case ExprField:
		return p.exprStr(e.Operand) + "." + p.c.Name(e.Field)
	case ExprTup:
		return "(" + p.exprList(e.Elems) + ")"
	case ExprBlock:
		return p.blockStr(e.Block)
	case ExprIf:
		s := "if " + p.exprStr(e.Operand) + " " + p.blockStr(e.Block)
		if e.Else != nil {
			s += " else " + p.exprStr(e.Else)
		}
		return s
	case ExprRet:
		if e.Operand == nil {
			return "return"
		}
		return "return " + p.exprStr(e.Operand)
	case ExprAssign:
		return p.exprStr(e.Lhs) + " = " + p.exprStr(e.Rhs)
	case ExprAddrOf:
		if e.Mut {
			return "&mut " + p.exprStr(e.Operand)
		}
		return "&" + p.exprStr(e.Operand)
	case ExprAwait:
		return p.exprStr(e.Operand) + ".await"
	case ExprDropTemps:
		return "drop-temps " + p.exprStr(e.Operand)
	case ExprClosure:
		head := "closure"
		if e.Closure.Generator == GeneratorAsyncFn {
			head = "async move"
		}
		if b := p.c.Body(e.Closure.Body); b != nil {
			return head + " " + p.exprStr(b.Value)
		}
		return head + " <missing body>"
	}
	return "{expr error}"
}

func (p *Printer) exprList(es []*Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = p.exprStr(e)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) blockStr(b *Block) string {
	if b == nil {
		return "{}"
	}
	parts := make([]string, 0, len(b.Stmts)+1)
	for i := range b.Stmts {
		s := &b.Stmts[i]
		switch s.Kind {
		case StmtLocal:
			l := "let " + p.patStr(s.Local.Pat)
			if s.Local.Ty != nil {
				l += ": " + p.tyStr(s.Local.Ty)
			}
			if s.Local.Init != nil {
				l += " = " + p.exprStr(s.Local.Init)
			}
			parts = append(parts, l+";")
		case StmtItem:
			parts = append(parts, fmt.Sprintf("item #%d;", s.Item))
		case StmtSemi:
			parts = append(parts, p.exprStr(s.Expr)+";")
		case StmtExpr:
			parts = append(parts, p.exprStr(s.Expr))
		}
	}
	if b.Expr != nil {
		parts = append(parts, p.exprStr(b.Expr))
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
