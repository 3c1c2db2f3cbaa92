package validators

import (
	"errors"
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/agentops/licensetrack/pkg/errors"
)

// UploadField is the multipart field carrying import files.
const UploadField = "file"

// FormFile returns the uploaded file under UploadField. The request body is
// capped at maxBytes; callers close the returned file.
func FormFile(w http.ResponseWriter, r *http.Request, maxBytes int64) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "upload too large").
				WithDetails(map[string]any{"max_bytes": maxBytes})
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file is required").
			WithDetails(map[string]any{"field": UploadField})
	}
	return file, header, nil
}
