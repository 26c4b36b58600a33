package ast

import (
	"lavish/internal/source"
)

// File is one parsed source unit: an ordered list of top-level namespaces.
type File struct {
	Span       source.Span
	Source     source.FileID
	Namespaces []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:       sp,
		Source:     sp.File,
		Namespaces: make([]ItemID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
