package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/morphkit/internal/graph"
	"github.com/roach88/morphkit/internal/graphdef"
	"github.com/roach88/morphkit/internal/rule"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeScanError     = "E002" // Directory scan error
	ErrCodeNoFiles       = "E003" // No CUE files found
	ErrCodeLoadFailed    = "E004" // CUE load failed
	ErrCodeNotFound      = "E005" // Path not found
	ErrCodeBuildFailed   = "E006" // CUE build failed
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeBadDefinition = "E008" // Graph definition invalid
	ErrCodeUnknownName   = "E009" // Named rule/target not found
	ErrCodeBadArgument   = "E010" // Invalid command argument
)

// LoadMode controls how errors are handled during graph loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadError represents an error that occurred during graph loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NamedRule is a compiled rule together with its annotated source graph.
type NamedRule struct {
	Name   string
	Source *graph.Graph
	Rule   *rule.Rule
}

// NamedGraph is a plain target graph.
type NamedGraph struct {
	Name  string
	Graph *graph.Graph
}

// LoadResult contains the results of loading graphs from a directory.
// Rules and Targets preserve CUE declaration order, which downstream
// output depends on.
type LoadResult struct {
	Rules     []NamedRule
	Targets   []NamedGraph
	FileCount int // Number of CUE files found
}

// Rule returns the named rule, or nil.
func (r *LoadResult) Rule(name string) *NamedRule {
	for i := range r.Rules {
		if r.Rules[i].Name == name {
			return &r.Rules[i]
		}
	}
	return nil
}

// Target returns the named target graph, or nil.
func (r *LoadResult) Target(name string) *NamedGraph {
	for i := range r.Targets {
		if r.Targets[i].Name == name {
			return &r.Targets[i]
		}
	}
	return nil
}

// LoadGraphs loads annotated rule graphs and plain target graphs from a
// directory of CUE files. Rule graphs live under the top-level "rule"
// struct and are compiled on load; target graphs live under "target".
//
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadGraphs(dir string, mode LoadMode) (*LoadResult, []error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("graphs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing graphs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	// Load CUE instances
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{FileCount: len(cueFiles)}
	var errs []error

	// Extract annotated rule graphs and compile each.
	rulesVal := value.LookupPath(cue.ParsePath("rule"))
	if rulesVal.Exists() {
		iter, iterErr := rulesVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating rules: %v", iterErr)})
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			for iter.Next() {
				name := iter.Label()
				source, loadErr := decodeGraph(iter.Value(), "rule", name)
				if loadErr != nil {
					errs = append(errs, loadErr)
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				compiled, compileErr := rule.Compile(source)
				if compileErr != nil {
					errs = append(errs, convertCompileError(compileErr, name))
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				result.Rules = append(result.Rules, NamedRule{Name: name, Source: source, Rule: compiled})
			}
		}
	}

	// Extract plain target graphs.
	targetsVal := value.LookupPath(cue.ParsePath("target"))
	if targetsVal.Exists() {
		iter, iterErr := targetsVal.Fields()
		if iterErr != nil {
			errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating targets: %v", iterErr)})
			if mode == LoadModeFailFast {
				return result, errs
			}
		} else {
			for iter.Next() {
				name := iter.Label()
				g, loadErr := decodeGraph(iter.Value(), "target", name)
				if loadErr != nil {
					errs = append(errs, loadErr)
					if mode == LoadModeFailFast {
						return result, errs
					}
					continue
				}
				result.Targets = append(result.Targets, NamedGraph{Name: name, Graph: g})
			}
		}
	}

	if len(result.Rules) == 0 && len(result.Targets) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no rules or targets found in graphs"})
	}

	return result, errs
}

// decodeGraph decodes one CUE graph value into the engine model.
func decodeGraph(v cue.Value, kind, name string) (*graph.Graph, *LoadError) {
	var def graphdef.GraphDef
	if err := v.Decode(&def); err != nil {
		return nil, &LoadError{
			Code:    ErrCodeBadDefinition,
			Message: fmt.Sprintf("decoding %s.%s: %v", kind, name, err),
		}
	}
	g, err := def.ToGraph(name)
	if err != nil {
		return nil, &LoadError{
			Code:    ErrCodeBadDefinition,
			Message: fmt.Sprintf("%s.%s: %v", kind, name, err),
		}
	}
	return g, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a rule compiler error to a LoadError,
// preserving the structural error code.
func convertCompileError(err error, name string) *LoadError {
	var se *rule.StructuralError
	if errors.As(err, &se) {
		return &LoadError{
			Code:    se.Code,
			Message: fmt.Sprintf("rule.%s: %s", name, se.Message),
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("rule.%s: %v", name, err),
	}
}
