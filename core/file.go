package core

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	MB = 1024 * 1024

	BrochureMaxSize = 5 * MB
	DocumentPDFMax  = 1 * MB
	DocumentMaxSize = 2 * MB
)

// File is a selected upload waiting to be sent along with a form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// NewFile builds a File, sniffing the content type when none is given.
func NewFile(name, contentType string, data []byte) *File {
	if contentType == "" {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
}

func (f *File) ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

func (f *File) IsPDF() bool {
	return f.ContentType == "application/pdf" || f.ext() == ".pdf"
}

func (f *File) IsJPEG() bool {
	return f.ContentType == "image/jpeg" || f.ext() == ".jpg" || f.ext() == ".jpeg"
}

func (f *File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/") || f.IsJPEG() || f.ext() == ".png"
}

// CheckSize returns ErrFileTooLarge when f is bigger than max bytes.
func (f *File) CheckSize(max int64) error {
	if f.Size > max {
		return ErrFileTooLarge
	}
	return nil
}

// DocumentLimit is the upload limit for documents: 1MB for PDF, 2MB otherwise.
func DocumentLimit(f *File) int64 {
	if f.IsPDF() {
		return DocumentPDFMax
	}
	return DocumentMaxSize
}
