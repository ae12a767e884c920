package loader

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlanticdynamic/lynxrun/internal/modcache"
	"github.com/robbyt/go-polyscript/engines/risor"
	"github.com/robbyt/go-polyscript/engines/starlark"
	"github.com/robbyt/go-polyscript/platform"
	"github.com/robbyt/go-polyscript/platform/constants"
	"github.com/robbyt/go-polyscript/platform/data"
	scriptloader "github.com/robbyt/go-polyscript/platform/script/loader"
)

// Compiler turns module source into a runnable program.
type Compiler interface {
	Compile(engine EngineType, id string, source string) (modcache.Program, error)
}

var _ Compiler = (*PolyscriptCompiler)(nil)

// PolyscriptCompiler compiles Starlark and Risor modules with go-polyscript.
type PolyscriptCompiler struct {
	handler slog.Handler
}

// NewPolyscriptCompiler creates a compiler whose engines log to handler.
func NewPolyscriptCompiler(handler slog.Handler) *PolyscriptCompiler {
	return &PolyscriptCompiler{handler: handler}
}

// Compile builds a go-polyscript evaluator for the module source.
func (c *PolyscriptCompiler) Compile(engine EngineType, id string, source string) (modcache.Program, error) {
	sl, err := scriptloader.NewFromString(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoaderCreation, id, err)
	}

	var eval platform.Evaluator
	switch engine {
	case EngineStarlark:
		eval, err = starlark.FromStarlarkLoader(c.handler, sl)
	case EngineRisor:
		eval, err = risor.FromRisorLoader(c.handler, sl)
	default:
		return nil, fmt.Errorf("%w: %s for %s", ErrUnknownEngine, engine, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s script %s: %w", ErrCompilationFailed, engine, id, err)
	}
	return &program{id: id, engine: engine, eval: eval}, nil
}

// program adapts a compiled evaluator to modcache.Program.
type program struct {
	id     string
	engine EngineType
	eval   platform.Evaluator
}

func (p *program) String() string {
	return fmt.Sprintf("%s(%s)", p.engine, p.id)
}

// Run places evalData in the context, where scripts read it through the ctx
// global, and returns the script's result value.
func (p *program) Run(ctx context.Context, evalData map[string]any) (any, error) {
	provider := data.NewContextProvider(constants.EvalData)
	enriched, err := provider.AddDataToContext(ctx, evalData)
	if err != nil {
		return nil, fmt.Errorf("failed to add eval data: %w", err)
	}

	result, err := p.eval.Eval(enriched)
	if err != nil {
		return nil, err
	}
	return result.Interface(), nil
}
