package convert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"jonx/internal/application/service"
	"jonx/internal/domain"
	"jonx/internal/platform/jsoncodec"
)

// ConvertHandler exposes the converter over HTTP: upload JSON to get a JONX
// attachment back, upload JONX to get the document back, or preview the
// schema a document would get.
type ConvertHandler struct {
	encodeService  *service.EncodeService
	decodeService  *service.DecodeService
	previewService *service.PreviewService
}

func NewConvertHandler(encodeService *service.EncodeService,
	decodeService *service.DecodeService,
	previewService *service.PreviewService) *ConvertHandler {
	return &ConvertHandler{
		encodeService:  encodeService,
		decodeService:  decodeService,
		previewService: previewService,
	}
}

type DecodeResponse struct {
	Success  bool                           `json:"success"`
	FileName string                         `json:"file_name"`
	FileSize int                            `json:"file_size"`
	Version  uint32                         `json:"version"`
	Fields   []string                       `json:"fields"`
	Types    map[string]domain.PhysicalType `json:"types"`
	NumRows  int                            `json:"num_rows"`
	JsonData json.RawMessage                `json:"json_data"`
}

type PreviewRequest struct {
	Data json.RawMessage `json:"data"`
}

type PreviewResponse struct {
	Success       bool                           `json:"success"`
	Version       uint32                         `json:"version"`
	Fields        []string                       `json:"fields"`
	Types         map[string]domain.PhysicalType `json:"types"`
	NumRows       int                            `json:"num_rows"`
	EstimatedSize int                            `json:"estimated_size"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *ConvertHandler) Encode(w http.ResponseWriter, r *http.Request) {
	data, name, ok := readUpload(w, r)
	if !ok {
		return
	}
	result, err := h.encodeService.Execute(service.EncodeCommand{Data: data, Name: name})
	if err != nil {
		writeError(w, err)
		return
	}

	outName := strings.TrimSuffix(name, filepath.Ext(name)) + ".jonx"
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outName))
	w.Write(result.Jonx)
}

func (h *ConvertHandler) Decode(w http.ResponseWriter, r *http.Request) {
	data, name, ok := readUpload(w, r)
	if !ok {
		return
	}
	result, err := h.decodeService.Execute(service.DecodeCommand{Data: data, Name: name})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DecodeResponse{
		Success:  true,
		FileName: name,
		FileSize: len(data),
		Version:  result.Version,
		Fields:   result.Fields,
		Types:    result.Types,
		NumRows:  result.Rows,
		JsonData: json.RawMessage(result.JSON),
	})
}

func (h *ConvertHandler) Preview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "cannot read request body"})
		return
	}
	var request PreviewRequest
	if err := json.Unmarshal(body, &request); err != nil || len(request.Data) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "body must be an object with a data array"})
		return
	}
	records, fields, err := jsoncodec.DecodeRecords(request.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.previewService.Execute(service.PreviewQuery{Records: records, Fields: fields})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PreviewResponse{
		Success:       true,
		Version:       1,
		Fields:        result.Fields,
		Types:         result.Types,
		NumRows:       result.NumRows,
		EstimatedSize: result.EstimatedSize,
	})
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "no file uploaded"})
		return nil, "", false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "cannot read uploaded file"})
		return nil, "", false
	}
	if len(data) == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "uploaded file is empty"})
		return nil, "", false
	}
	return data, header.Filename, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var e *domain.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case domain.KindValidation, domain.KindDecode:
			status = http.StatusBadRequest
		case domain.KindEncode:
			status = http.StatusUnprocessableEntity
		}
	}
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	output, _ := json.Marshal(v)
	w.Write(output)
}
