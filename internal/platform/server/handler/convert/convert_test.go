package convert

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jonx/internal/application/service"
	"jonx/internal/platform/codec"
	"jonx/internal/platform/compress"
	"jonx/internal/platform/jonxfile"
	"jonx/internal/platform/jsoncodec"
	"jonx/internal/platform/messaging/zeromq/publisher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newHandler() *ConvertHandler {
	jsonCodec := jsoncodec.New()
	cdc := codec.New(jsonCodec)
	writer := jonxfile.NewWriter(cdc, jsonCodec, compress.NewZstdCompressor())
	opener := jonxfile.NewOpener(jsonCodec, cdc, compress.NewZstdDecompressor())
	noop := publisher.NewNoopPublisher()
	logger := zap.NewNop()

	return NewConvertHandler(
		service.NewEncodeService(writer, noop, logger),
		service.NewDecodeService(opener, noop, logger),
		service.NewPreviewService(writer),
	)
}

func uploadRequest(t *testing.T, target, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func TestEncodeUploadReturnsAttachment(t *testing.T) {
	handler := newHandler()
	req := uploadRequest(t, "/api/encode", "data.json", []byte(`[{"id":1},{"id":2}]`))
	rec := httptest.NewRecorder()

	handler.Encode(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "data.jonx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("JONX")))
}

func TestEncodeUploadRejectsMalformedJSON(t *testing.T) {
	handler := newHandler()
	req := uploadRequest(t, "/api/encode", "data.json", []byte(`{"not":"a list"}`))
	rec := httptest.NewRecorder()

	handler.Encode(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEncodeWithoutUpload(t *testing.T) {
	handler := newHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/encode", strings.NewReader("no form"))
	rec := httptest.NewRecorder()

	handler.Encode(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDecodeUploadRoundTrip(t *testing.T) {
	handler := newHandler()
	document := `[{"id":1,"name":"a"},{"id":2,"name":"b"}]`

	encodeReq := uploadRequest(t, "/api/encode", "data.json", []byte(document))
	encodeRec := httptest.NewRecorder()
	handler.Encode(encodeRec, encodeReq)
	require.Equal(t, http.StatusOK, encodeRec.Code)

	decodeReq := uploadRequest(t, "/api/decode", "data.jonx", encodeRec.Body.Bytes())
	decodeRec := httptest.NewRecorder()
	handler.Decode(decodeRec, decodeReq)

	require.Equal(t, http.StatusOK, decodeRec.Code)
	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(decodeRec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, uint32(1), resp.Version)
	assert.Equal(t, 2, resp.NumRows)
	assert.Equal(t, []string{"id", "name"}, resp.Fields)
	assert.JSONEq(t, document, string(resp.JsonData))
}

func TestDecodeUploadRejectsGarbage(t *testing.T) {
	handler := newHandler()
	req := uploadRequest(t, "/api/decode", "data.jonx", []byte("not a jonx file"))
	rec := httptest.NewRecorder()

	handler.Decode(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPreview(t *testing.T) {
	handler := newHandler()
	body := `{"data":[{"id":1,"tag":"x"},{"id":2,"tag":"x"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Preview(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.NumRows)
	assert.Equal(t, []string{"id", "tag"}, resp.Fields)
	assert.Greater(t, resp.EstimatedSize, 8)
}

func TestPreviewRejectsMissingData(t *testing.T) {
	handler := newHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.Preview(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
