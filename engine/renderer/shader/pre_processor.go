// pre_processor.go implements a small WGSL pre-processor. Lines of the form
//
//	//@flycam:include <struct>
//	//@flycam:uniform <group> <binding> <var_name> <struct>
//
// are replaced with the embedded WGSL struct source of a Go GPU type, or with the
// generated uniform declaration for it, so the Go and WGSL layouts never drift apart.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/flycam/engine/camera"
	"github.com/Carmen-Shannon/flycam/engine/model"
)

// directivePrefix is the marker that identifies a pre-processor directive within a WGSL comment line.
const directivePrefix = "//@flycam:"

// registryEntry pairs a WGSL struct source string (embedded from a .wgsl asset file)
// with the WGSL type name it declares.
type registryEntry struct {
	Source string
	Type   string
}

// UniformDeclaration records a uniform binding generated by a //@flycam:uniform directive.
type UniformDeclaration struct {
	Group   int
	Binding int
	VarName string
	Struct  string
	Line    int
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	registry     map[string]registryEntry
	declarations []UniformDeclaration
}

// PreProcessor expands //@flycam: directives in WGSL source.
type PreProcessor interface {
	// Process expands every directive in source. Includes are emitted at most once.
	//
	// Parameters:
	//   - source: raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error naming the line of a malformed or unknown directive
	Process(source string) (string, error)

	// Declarations returns the uniform declarations generated by the last Process call, in source order.
	Declarations() []UniformDeclaration
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor that knows the camera uniform and vertex input structs.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]registryEntry{
			"camera": {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			"vertex": {Source: model.GPUVertexSource, Type: "VertexInput"},
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := make(map[string]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		_, after, ok := strings.Cut(strings.TrimSpace(line), directivePrefix)
		if !ok {
			out = append(out, line)
			continue
		}

		args := strings.Fields(after)
		if len(args) == 0 {
			return "", fmt.Errorf("line %d: empty directive", i+1)
		}
		switch args[0] {
		case "include":
			if len(args) != 2 {
				return "", fmt.Errorf("line %d: include takes exactly one struct name", i+1)
			}
			entry, ok := p.registry[args[1]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct %q", i+1, args[1])
			}
			if !included[args[1]] {
				out = append(out, strings.TrimRight(entry.Source, "\n"))
				included[args[1]] = true
			}
		case "uniform":
			if len(args) != 5 {
				return "", fmt.Errorf("line %d: uniform takes group, binding, var name and struct name", i+1)
			}
			group, err := strconv.Atoi(args[1])
			if err != nil {
				return "", fmt.Errorf("line %d: invalid group %q: %w", i+1, args[1], err)
			}
			binding, err := strconv.Atoi(args[2])
			if err != nil {
				return "", fmt.Errorf("line %d: invalid binding %q: %w", i+1, args[2], err)
			}
			entry, ok := p.registry[args[4]]
			if !ok {
				return "", fmt.Errorf("line %d: unknown struct %q", i+1, args[4])
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) var<uniform> %s: %s;", group, binding, args[3], entry.Type))
			p.declarations = append(p.declarations, UniformDeclaration{
				Group:   group,
				Binding: binding,
				VarName: args[3],
				Struct:  args[4],
				Line:    i + 1,
			})
		default:
			return "", fmt.Errorf("line %d: unknown directive %q", i+1, args[0])
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []UniformDeclaration {
	return slices.Clone(p.declarations)
}
