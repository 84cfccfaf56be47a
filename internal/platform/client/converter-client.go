package client

import (
	"bytes"
	"fmt"

	"github.com/go-resty/resty/v2"
)

const (
	encode_endpoint  = "/api/encode"
	decode_endpoint  = "/api/decode"
	preview_endpoint = "/api/preview"
)

// ConverterClient talks to a running jonx converter service.
type ConverterClient struct {
	client    *resty.Client
	serverUrl string
}

func NewConverterClient(serverUrl string) *ConverterClient {
	return &ConverterClient{
		client:    resty.New(),
		serverUrl: serverUrl,
	}
}

type DecodeResponse struct {
	Success  bool              `json:"success"`
	FileName string            `json:"file_name"`
	FileSize int               `json:"file_size"`
	Version  uint32            `json:"version"`
	Fields   []string          `json:"fields"`
	Types    map[string]string `json:"types"`
	NumRows  int               `json:"num_rows"`
	JsonData []map[string]any  `json:"json_data"`
}

type PreviewResponse struct {
	Success       bool              `json:"success"`
	Version       uint32            `json:"version"`
	Fields        []string          `json:"fields"`
	Types         map[string]string `json:"types"`
	NumRows       int               `json:"num_rows"`
	EstimatedSize int               `json:"estimated_size"`
}

type PreviewRequest struct {
	Data any `json:"data"`
}

// Encode uploads a JSON document and returns the JONX bytes.
func (c *ConverterClient) Encode(jsonData []byte, filename string) ([]byte, error) {
	resp, err := c.client.R().
		SetFileReader("file", filename, bytes.NewReader(jsonData)).
		Post(c.serverUrl + encode_endpoint)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("encode failed: %s: %s", resp.Status(), resp.String())
	}
	return resp.Body(), nil
}

// Decode uploads JONX bytes and returns the decoded document and metadata.
func (c *ConverterClient) Decode(jonxData []byte, filename string) (*DecodeResponse, error) {
	var result DecodeResponse
	resp, err := c.client.R().
		SetFileReader("file", filename, bytes.NewReader(jonxData)).
		SetResult(&result).
		Post(c.serverUrl + decode_endpoint)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("decode failed: %s: %s", resp.Status(), resp.String())
	}
	return &result, nil
}

// Preview asks the service what schema and size a record set would get.
func (c *ConverterClient) Preview(records any) (*PreviewResponse, error) {
	var result PreviewResponse
	resp, err := c.client.R().
		SetBody(PreviewRequest{Data: records}).
		SetResult(&result).
		Post(c.serverUrl + preview_endpoint)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("preview failed: %s: %s", resp.Status(), resp.String())
	}
	return &result, nil
}
