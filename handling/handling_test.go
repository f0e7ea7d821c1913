package handling

import (
	"bijouterie_server/lib"
	"bijouterie_server/structs/tables"
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{(&lib.ValidationError{}).Add("client.full_name", "is required"), http.StatusBadRequest},
		{lib.ErrAuth, http.StatusUnauthorized},
		{lib.ErrInvalidCredentials, http.StatusUnauthorized},
		{lib.ErrForbidden, http.StatusForbidden},
		{lib.ErrNotFound, http.StatusNotFound},
		{lib.ErrConflict, http.StatusConflict},
		{lib.Dispatch(lib.ErrUnavailable, errors.New("client not ready")), http.StatusServiceUnavailable},
		{lib.Persistence("delete repair", errors.New("violates foreign key")), http.StatusInternalServerError},
		{lib.Storage("upload photo", errors.New("bucket missing")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestRespondError_RawMessageForStoreFailures(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, gecho.NewDefaultLogger(), lib.Persistence("delete repair", errors.New("violates foreign key constraint")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "violates foreign key constraint")
}

func TestHandleError_GenericInternalError(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(errors.New("signing key missing"), "generate access token", gecho.NewDefaultLogger(), rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "signing key missing")
}

func TestParseStatusFilter(t *testing.T) {
	status, err := ParseStatusFilter(httptest.NewRequest(http.MethodGet, "/repairs", nil))
	require.NoError(t, err)
	assert.Equal(t, tables.StatusInProgress, status)

	status, err = ParseStatusFilter(httptest.NewRequest(http.MethodGet, "/repairs?status=pr%C3%AAt", nil))
	require.NoError(t, err)
	assert.Equal(t, tables.StatusReady, status)

	_, err = ParseStatusFilter(httptest.NewRequest(http.MethodGet, "/repairs?status=pret", nil))
	assert.ErrorIs(t, err, lib.ErrValidation)
}

func multipartRepair(t *testing.T, payload string, photos map[string][]byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if payload != "" {
		require.NoError(t, mw.WriteField("payload", payload))
	}
	for field, data := range photos {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="bague.png"`)
		header.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/repairs", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestParseRepairForm(t *testing.T) {
	payload := `{
		"client": {"full_name": "Fatima Zahra", "phone": "0612345678"},
		"workshop": "atelier central",
		"date_received": "2025-03-01",
		"price": "150",
		"items": [
			{"product_type": "bague", "item_price": "100"},
			{"product_type": "autre", "custom_product_type": "broche"}
		]
	}`
	req := multipartRepair(t, payload, map[string][]byte{"item_1_photos": []byte("png-bytes")})

	input, cleanup, err := ParseRepairForm(req, 1<<20)
	defer cleanup()
	require.NoError(t, err)

	require.Len(t, input.Items, 2)
	assert.Empty(t, input.Items[0].NewPhotos)
	require.Len(t, input.Items[1].NewPhotos, 1)

	upload := input.Items[1].NewPhotos[0]
	assert.Equal(t, "bague.png", upload.FileName)
	assert.Equal(t, "image/png", upload.ContentType)

	data, err := io.ReadAll(upload.Body)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestParseRepairForm_Invalid(t *testing.T) {
	_, cleanup, err := ParseRepairForm(multipartRepair(t, "", nil), 1<<20)
	cleanup()
	assert.ErrorIs(t, err, lib.ErrValidation)

	_, cleanup, err = ParseRepairForm(multipartRepair(t, `{"client": `, nil), 1<<20)
	cleanup()
	assert.ErrorIs(t, err, lib.ErrValidation)

	plain := httptest.NewRequest(http.MethodPost, "/repairs", bytes.NewBufferString("{}"))
	plain.Header.Set("Content-Type", "application/json")
	_, cleanup, err = ParseRepairForm(plain, 1<<20)
	cleanup()
	assert.ErrorIs(t, err, lib.ErrValidation)
}
