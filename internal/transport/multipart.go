package transport

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// MultipartBoundary is the fixed boundary token used for every multipart body.
const MultipartBoundary = "PresentAPIClientBoundary-PP"

// copyBufferSize bounds the memory used to stream a file part.
const copyBufferSize = 4096

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

type openedFile struct {
	File
	body io.ReadCloser
}

func newMultipartWriter(w io.Writer) (*multipart.Writer, error) {
	mw := multipart.NewWriter(w)
	if err := mw.SetBoundary(MultipartBoundary); err != nil {
		return nil, err
	}
	return mw, nil
}

// writeMultipart writes one part per field and per file followed by the
// closing boundary. Every file body is closed, even on error.
func writeMultipart(mw *multipart.Writer, fields []Field, files []openedFile) (err error) {
	defer func() {
		for _, f := range files {
			if cerr := f.body.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %s: %w", f.Filename, cerr)
			}
		}
	}()

	for _, field := range fields {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, quoteEscaper.Replace(field.Name)))
		h.Set("Content-Type", "text/plain; charset=UTF-8")
		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("create field part %s: %w", field.Name, err)
		}
		if _, err := io.WriteString(part, field.Value); err != nil {
			return fmt.Errorf("write field part %s: %w", field.Name, err)
		}
	}

	buf := make([]byte, copyBufferSize)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Filename)))
		h.Set("Content-Type", f.contentType())
		h.Set("Content-Transfer-Encoding", "binary")
		part, err := mw.CreatePart(h)
		if err != nil {
			return fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		// Hide ReaderFrom/WriterTo so the copy goes through buf.
		if _, err := io.CopyBuffer(struct{ io.Writer }{part}, struct{ io.Reader }{f.body}, buf); err != nil {
			return fmt.Errorf("stream file part %s: %w", f.Field, err)
		}
	}

	return mw.Close()
}
