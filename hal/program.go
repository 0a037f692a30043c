package hal

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// uniformSizes maps Kage uniform types to their float count.
var uniformSizes = map[string]int{
	"float": 1,
	"vec2":  2,
	"vec3":  3,
	"vec4":  4,
	"mat2":  4,
	"mat3":  9,
	"mat4":  16,
}

type uniformDecl struct {
	name string
	size int
}

// parseUniforms lists the top-level uniform declarations of a Kage program
// in source order, both `var Name type` lines and `var ( ... )` blocks with
// one declaration per line. The index of a declaration is its location.
// ebiten compiles Kage without exposing the uniform layout, so the
// declarations are read from the source.
func parseUniforms(src []byte) []uniformDecl {
	var out []uniformDecl
	sc := bufio.NewScanner(bytes.NewReader(src))
	depth := 0
	inBlock := false
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			if strings.HasPrefix(trimmed, ")") {
				inBlock = false
			} else if trimmed != "" {
				out = append(out, parseVarLine(trimmed)...)
			}
		case depth == 0 && (strings.HasPrefix(trimmed, "var ") || strings.HasPrefix(trimmed, "var(")):
			rest := strings.TrimSpace(trimmed[len("var"):])
			if rest == "(" {
				inBlock = true
			} else {
				out = append(out, parseVarLine(rest)...)
			}
		}
		depth += strings.Count(line, "{") - strings.Count(line, "}")
	}
	return out
}

func parseVarLine(s string) []uniformDecl {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) < 2 {
		return nil
	}
	typ := fields[len(fields)-1]
	size, ok := uniformSizes[typ]
	if !ok {
		return nil
	}
	out := make([]uniformDecl, 0, len(fields)-1)
	for _, name := range fields[:len(fields)-1] {
		out = append(out, uniformDecl{name: name, size: size})
	}
	return out
}

type program struct {
	key      uint64
	refs     int
	uniforms []uniformDecl
	values   [][]float32
	err      error
	native   any
}

func (p *program) usable() bool {
	return p != nil && p.err == nil && p.native != nil
}

// lookup returns the current value of the named uniform.
func (p *program) lookup(name string) ([]float32, bool) {
	if p == nil {
		return nil, false
	}
	for i, u := range p.uniforms {
		if u.name == name {
			return p.values[i], true
		}
	}
	return nil, false
}

// programTable is the program bookkeeping shared by the graphics devices.
// Programs with identical source share one compilation.
type programTable struct {
	programs map[ProgramID]*program
	byKey    map[uint64]ProgramID
	next     ProgramID
	current  *program
}

func newProgramTable() programTable {
	return programTable{
		programs: make(map[ProgramID]*program),
		byKey:    make(map[uint64]ProgramID),
	}
}

func (t *programTable) compile(src []byte, build func([]byte) (any, error)) (ProgramID, error) {
	key := xxhash.Sum64(src)
	if id, ok := t.byKey[key]; ok {
		p := t.programs[id]
		p.refs++
		return id, p.err
	}

	p := &program{key: key, refs: 1, uniforms: parseUniforms(src)}
	p.values = make([][]float32, len(p.uniforms))
	for i, u := range p.uniforms {
		p.values[i] = make([]float32, u.size)
	}
	p.native, p.err = build(src)

	t.next++
	id := t.next
	t.programs[id] = p
	t.byKey[key] = id
	return id, p.err
}

// release drops one reference and returns the native object once the last
// reference is gone.
func (t *programTable) release(id ProgramID) (any, bool) {
	p, ok := t.programs[id]
	if !ok {
		return nil, false
	}
	p.refs--
	if p.refs > 0 {
		return nil, false
	}
	delete(t.programs, id)
	delete(t.byKey, p.key)
	if t.current == p {
		t.current = nil
	}
	return p.native, true
}

func (t *programTable) use(id ProgramID) {
	t.current = t.programs[id]
}

func (t *programTable) location(id ProgramID, name string) int {
	p, ok := t.programs[id]
	if !ok {
		return -1
	}
	for i, u := range p.uniforms {
		if u.name == name {
			return i
		}
	}
	return -1
}

func (t *programTable) set(loc int, v []float32) {
	p := t.current
	if p == nil || loc < 0 || loc >= len(p.uniforms) {
		return
	}
	if len(v) != p.uniforms[loc].size {
		return
	}
	copy(p.values[loc], v)
}

// uniformMap returns the bound program's uniforms keyed by name.
func (t *programTable) uniformMap(dst map[string]any) map[string]any {
	p := t.current
	if p == nil {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(p.uniforms))
	}
	for i, u := range p.uniforms {
		dst[u.name] = p.values[i]
	}
	return dst
}
