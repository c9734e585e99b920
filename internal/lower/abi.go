package lower

import (
	"strings"

	"hirlower/internal/abi"
	"hirlower/internal/ast"
	"hirlower/internal/diag"
	"hirlower/internal/source"
)

func (l *lowerer) lowerExtern(ext ast.Extern, sp source.Span) abi.Abi {
	switch ext.Kind {
	case ast.ExternImplicit:
		l.warnMissingABI(sp)
		return abi.Implicit
	case ast.ExternExplicit:
		return l.lowerAbi(ext.Abi)
	default:
		return abi.Default
	}
}

// lowerAbi looks the written convention up; an unknown one is reported and
// replaced by the default.
func (l *lowerer) lowerAbi(lit ast.StrLit) abi.Abi {
	if a, ok := abi.Lookup(lit.Symbol); ok {
		return a
	}
	l.errorOnInvalidAbi(lit)
	return abi.Default
}

func (l *lowerer) lowerForeignModAbi(lit *ast.StrLit, sp source.Span) abi.Abi {
	if lit == nil {
		l.warnMissingABI(sp)
		return abi.Implicit
	}
	return l.lowerAbi(*lit)
}

func (l *lowerer) errorOnInvalidAbi(lit ast.StrLit) {
	l.reporter.Report(diag.Errorf(diag.LowInvalidABI, lit.Span, "invalid ABI: found `%s`", lit.Symbol).
		WithLabel("invalid ABI").
		WithHelp("valid ABIs: " + strings.Join(abi.AllNames(), ", ")))
}

func (l *lowerer) warnMissingABI(sp source.Span) {
	if l.opts.MissingABI != MissingABIWarn {
		return
	}
	l.reporter.Report(diag.Warnf(diag.LowMissingABI, sp, "extern declarations without an explicit ABI are deprecated").
		WithHelp(`explicitly specify the "C" ABI`))
}
