package shader

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which pipeline stage a shader supplies.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

var (
	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)
	lineCommentRegex   = regexp.MustCompile(`//[^\n]*`)
	blockCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	module     *wgpu.ShaderModuleDescriptor

	declarations []UniformDeclaration
}

// Shader defines the interface for a loaded WGSL shader stage. It exposes the shader's
// unique key, pre-processed source, entry point and the module descriptor the renderer compiles.
// A single WGSL file may hold both stages; load it once per stage.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL shader source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point name for this shader's stage.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor for this shader.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Declarations returns the uniform bindings generated by the pre-processor.
	//
	// Returns:
	//   - []UniformDeclaration: uniform declarations in source order
	Declarations() []UniformDeclaration
}

var _ Shader = &shader{}

// NewShader reads WGSL from sourcePath and builds a Shader for one stage.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage whose entry point is extracted
//   - sourcePath: the file path to read WGSL source from
//
// Returns:
//   - Shader: a new Shader instance
//   - error: error if the file cannot be read, fails pre-processing or has no entry point for the stage
func NewShader(key string, shaderType ShaderType, sourcePath string) (Shader, error) {
	data, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", sourcePath, err)
	}
	return NewShaderFromSource(key, shaderType, string(data))
}

// NewShaderFromSource builds a Shader for one stage from WGSL source held in memory.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the stage whose entry point is extracted
//   - source: the raw WGSL source
//
// Returns:
//   - Shader: a new Shader instance
//   - error: error if pre-processing fails or no entry point exists for the stage
func NewShaderFromSource(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to pre-process %s: %w", key, err)
	}

	entry := parseEntryPoint(processed, shaderType)
	if entry == "" {
		return nil, errors.New("shader: " + key + " has no entry point for its stage")
	}

	return &shader{
		key:        key,
		source:     processed,
		shaderType: shaderType,
		entryPoint: entry,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: processed,
			},
		},
		declarations: pp.Declarations(),
	}, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []UniformDeclaration {
	return s.declarations
}

// parseEntryPoint extracts the entry point function name for the given shader type
// from WGSL source. Returns an empty string if no matching entry point attribute is found.
//
// Parameters:
//   - source: the WGSL source code string
//   - shaderType: the stage to search for
//
// Returns:
//   - string: the entry point function name, or empty string if not found
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := blockCommentRegex.ReplaceAllString(source, "")
	cleaned = lineCommentRegex.ReplaceAllString(cleaned, "")

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}
