package schema

// Annotation is attached to fields and entity schemas to carry
// dialect- or tool-specific metadata. Name identifies the annotation
// and must be unique among the annotations of one declaration.
type Annotation interface {
	Name() string
}

// Merger is implemented by annotations that can be combined when the
// same annotation name is declared more than once (for example, once
// in a mixin and once in the schema itself).
type Merger interface {
	Merge(Annotation) Annotation
}

// CommentAnnotation carries a human-readable comment for an entity.
// It becomes the table comment in rendered DDL.
type CommentAnnotation struct {
	Text string
}

// Name implements the Annotation interface.
func (*CommentAnnotation) Name() string { return "Comment" }

// Comment returns a comment annotation for an entity schema.
func Comment(text string) *CommentAnnotation {
	return &CommentAnnotation{Text: text}
}

// Merge merges annotations that share a name. Later annotations win,
// Merger implementations are given the chance to combine values.
func Merge(ants []Annotation) []Annotation {
	var (
		out = make([]Annotation, 0, len(ants))
		idx = make(map[string]int, len(ants))
	)
	for _, a := range ants {
		i, ok := idx[a.Name()]
		if !ok {
			idx[a.Name()] = len(out)
			out = append(out, a)
			continue
		}
		if m, ok := out[i].(Merger); ok {
			out[i] = m.Merge(a)
		} else {
			out[i] = a
		}
	}
	return out
}
