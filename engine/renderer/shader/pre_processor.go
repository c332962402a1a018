package shader

import (
	"embed"
	"fmt"
	"strings"
)

// annotationPrefix marks a pre-processor directive inside a WGSL line comment.
const annotationPrefix = "//@oxy:"

//go:embed shaders/structs/*.wgsl
var structFS embed.FS

// PreProcessor expands //@oxy:include directives in WGSL source. Each directive names a
// registered struct source (mvp, pbr_lighting, instance) which is spliced in place of the
// directive line. A struct included twice is emitted once.
type PreProcessor interface {
	// Process expands every include directive in source.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: an error for an unknown directive or an unregistered include name
	Process(source string) (string, error)
}

type preProcessor struct {
	// structRegistry maps include names to WGSL struct source text.
	structRegistry map[string]string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor whose registry holds the embedded uniform and
// instance struct definitions.
func NewPreProcessor() PreProcessor {
	registry := make(map[string]string)
	entries, _ := structFS.ReadDir("shaders/structs")
	for _, e := range entries {
		data, err := structFS.ReadFile("shaders/structs/" + e.Name())
		if err != nil {
			continue
		}
		registry[strings.TrimSuffix(e.Name(), ".wgsl")] = string(data)
	}
	return &preProcessor{structRegistry: registry}
}

func (p *preProcessor) Process(source string) (string, error) {
	var sb strings.Builder
	included := make(map[string]bool)

	for i, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, annotationPrefix) {
			sb.WriteString(line)
			sb.WriteByte('\n')
			continue
		}

		fields := strings.Fields(strings.TrimPrefix(trimmed, annotationPrefix))
		if len(fields) != 2 || fields[0] != "include" {
			return "", fmt.Errorf("line %d: malformed directive %q", i+1, trimmed)
		}
		name := fields[1]
		src, ok := p.structRegistry[name]
		if !ok {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		if included[name] {
			continue
		}
		included[name] = true
		sb.WriteString(src)
	}

	return strings.TrimSuffix(sb.String(), "\n"), nil
}
