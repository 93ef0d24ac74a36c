package service

import "hash/fnv"

// teacherPalette is the fixed set of cell colors the UI renders teachers
// with. Assignment is a pure hash of the teacher ID, so a teacher keeps the
// same color across sessions, variants and processes.
var teacherPalette = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// ColorFor returns the deterministic display color for a teacher.
func ColorFor(teacherID int) string {
	h := fnv.New32a()
	var buf [4]byte
	buf[0] = byte(teacherID)
	buf[1] = byte(teacherID >> 8)
	buf[2] = byte(teacherID >> 16)
	buf[3] = byte(teacherID >> 24)
	_, _ = h.Write(buf[:])
	return teacherPalette[h.Sum32()%uint32(len(teacherPalette))]
}
