package kernel

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteSTL writes m as an ASCII STL solid named after the mesh.
func (m *Mesh) WriteSTL(w io.Writer) error {
	name := strings.Join(strings.Fields(m.Name), "_")
	if name == "" {
		name = "mesh"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0 := int(m.Indices[t]) * 3
		if i0+2 >= len(m.Normals) {
			return fmt.Errorf("stl: normal index %d out of range", m.Indices[t])
		}
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", m.Normals[i0], m.Normals[i0+1], m.Normals[i0+2])
		fmt.Fprintln(bw, "    outer loop")
		for j := 0; j < 3; j++ {
			v := int(m.Indices[t+j]) * 3
			if v+2 >= len(m.Vertices) {
				return fmt.Errorf("stl: vertex index %d out of range", m.Indices[t+j])
			}
			fmt.Fprintf(bw, "      vertex %g %g %g\n", m.Vertices[v], m.Vertices[v+1], m.Vertices[v+2])
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	return bw.Flush()
}
