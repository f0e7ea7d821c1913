package handling

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ParseIDParam reads a uuid route parameter.
func ParseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, (&lib.ValidationError{}).Add(name, "must be a valid UUID")
	}
	return id, nil
}

// ParseStatusFilter reads ?status=, defaulting to the in-progress status.
func ParseStatusFilter(r *http.Request) (tables.RepairStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return tables.StatusInProgress, nil
	}

	status := tables.RepairStatus(raw)
	if !status.IsValid() {
		return "", (&lib.ValidationError{}).Add("status", "must be one of: en cours, prêt, livré")
	}
	return status, nil
}

// ParseRepairForm reads a multipart repair submission: the JSON "payload" field plus
// one "item_<n>_photos" file list per item index. The returned cleanup closes the files
// and must run once the submission is done with them.
func ParseRepairForm(r *http.Request, maxMemory int64) (*structs.RepairInput, func(), error) {
	noop := func() {}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, noop, (&lib.ValidationError{}).Add("body", "is too large")
		}
		return nil, noop, (&lib.ValidationError{}).Add("body", "is not a valid multipart form")
	}

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
		r.MultipartForm.RemoveAll()
	}

	raw := r.FormValue("payload")
	if raw == "" {
		return nil, cleanup, (&lib.ValidationError{}).Add("payload", "is required")
	}

	input, err := lib.DecodeString[structs.RepairInput](raw)
	if err != nil {
		return nil, cleanup, err
	}

	for i := range input.Items {
		for _, header := range r.MultipartForm.File[fmt.Sprintf("item_%d_photos", i)] {
			file, err := header.Open()
			if err != nil {
				return nil, cleanup, (&lib.ValidationError{}).Add(fmt.Sprintf("items[%d].photos", i), "could not be read")
			}
			opened = append(opened, file)

			input.Items[i].NewPhotos = append(input.Items[i].NewPhotos, structs.PhotoUpload{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			})
		}
	}

	return input, cleanup, nil
}
