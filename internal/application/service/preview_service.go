package service

import (
	"jonx/internal/domain"
	"jonx/internal/platform/jonxfile"
)

// PreviewService reports the schema and encoded size a record set would get,
// without producing a file.
type PreviewService struct {
	writer *jonxfile.Writer
}

func NewPreviewService(writer *jonxfile.Writer) *PreviewService {
	return &PreviewService{writer: writer}
}

type PreviewQuery struct {
	Records []domain.Record
	Fields  []string
}

type PreviewResult struct {
	Fields        []string
	Types         map[string]domain.PhysicalType
	NumRows       int
	EstimatedSize int
}

func (s *PreviewService) Execute(query PreviewQuery) (PreviewResult, error) {
	if err := domain.ValidateRecords(query.Records); err != nil {
		return PreviewResult{}, err
	}
	fields := query.Fields
	if len(fields) == 0 {
		fields = domain.SortedFields(query.Records[0])
	}
	columns := domain.Pivot(query.Records, fields)
	types := make(map[string]domain.PhysicalType, len(fields))
	for _, f := range fields {
		types[f] = domain.DetectType(columns[f])
	}

	// The estimate is exact: encoding is deterministic, so the dry run has
	// the same size as the real file would.
	out, err := s.writer.EncodeWithOptions(query.Records, jonxfile.EncodeOptions{Fields: fields})
	if err != nil {
		return PreviewResult{}, err
	}

	return PreviewResult{
		Fields:        fields,
		Types:         types,
		NumRows:       len(query.Records),
		EstimatedSize: len(out),
	}, nil
}
