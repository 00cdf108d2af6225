package mesh

// Entity ids are allocated from per-kind counters starting at 1 and are
// never reused within an object's lifetime, even after deletion. External
// references (signed edge refs, serialized records, collaboration messages)
// stay unambiguous across edits because of this.
type (
	VertexID int
	EdgeID   int
	FaceID   int
	UVID     int
)

// EdgeRef is a signed reference to an edge. Because edge ids start at 1 the
// sign encodes traversal direction without a -0 ambiguity: a positive ref
// traverses start→end, a negative ref traverses end→start. One edge can be
// shared by two adjacent faces with opposite winding.
type EdgeRef int

// ID returns the unsigned edge id.
func (r EdgeRef) ID() EdgeID {
	if r < 0 {
		return EdgeID(-r)
	}
	return EdgeID(r)
}

// Forward reports whether the ref traverses start→end.
func (r EdgeRef) Forward() bool { return r > 0 }

// Reversed returns the same edge traversed the other way.
func (r EdgeRef) Reversed() EdgeRef { return -r }

func refTo(id EdgeID, forward bool) EdgeRef {
	if forward {
		return EdgeRef(id)
	}
	return -EdgeRef(id)
}
