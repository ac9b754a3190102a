package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/BradenHooton/storefront/internal/services"
)

const multipartOverhead = 1 << 20

// openUploads parses a multipart request and opens every file under
// field. The content type is sniffed from the file itself. The returned
// closer releases the files and must always be called.
func openUploads(w http.ResponseWriter, r *http.Request, field string, maxFiles int) ([]services.Upload, func(), error) {
	noop := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*services.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(services.MaxImageSize); err != nil {
		return nil, noop, fmt.Errorf("invalid multipart body")
	}

	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, noop, fmt.Errorf("%s is required", field)
	}
	if len(headers) > maxFiles {
		return nil, noop, fmt.Errorf("at most %d files per upload", maxFiles)
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
		_ = r.MultipartForm.RemoveAll()
	}

	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, noop, fmt.Errorf("unable to read %s", fh.Filename)
		}
		opened = append(opened, f)

		var sniff [512]byte
		n, _ := io.ReadFull(f, sniff[:])
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			closeAll()
			return nil, noop, fmt.Errorf("unable to read %s", fh.Filename)
		}

		uploads = append(uploads, services.Upload{
			Filename:    fh.Filename,
			ContentType: http.DetectContentType(sniff[:n]),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return uploads, closeAll, nil
}
