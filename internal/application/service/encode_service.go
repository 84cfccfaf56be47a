package service

import (
	"jonx/internal/domain"
	"jonx/internal/platform/jonxfile"
	"jonx/internal/platform/jsoncodec"

	"go.uber.org/zap"
)

// EncodeService turns a JSON document into JONX bytes.
type EncodeService struct {
	writer    *jonxfile.Writer
	publisher domain.ConversionPublisher
	logger    *zap.Logger
}

func NewEncodeService(writer *jonxfile.Writer,
	publisher domain.ConversionPublisher,
	logger *zap.Logger) *EncodeService {
	return &EncodeService{
		writer:    writer,
		publisher: publisher,
		logger:    logger,
	}
}

type EncodeCommand struct {
	Data []byte
	Name string
}

type EncodeResult struct {
	Jonx    []byte
	Rows    int
	Columns int
}

func (s *EncodeService) Execute(command EncodeCommand) (EncodeResult, error) {
	if len(command.Data) == 0 {
		return EncodeResult{}, domain.ValidationError("input document is empty")
	}
	records, fields, err := jsoncodec.DecodeRecords(command.Data)
	if err != nil {
		return EncodeResult{}, err
	}
	out, err := s.writer.EncodeWithOptions(records, jonxfile.EncodeOptions{Fields: fields})
	if err != nil {
		return EncodeResult{}, err
	}

	s.logger.Info("encoded record set",
		zap.String("name", command.Name),
		zap.Int("rows", len(records)),
		zap.Int("columns", len(fields)),
		zap.Int("bytes", len(out)))
	s.publish(domain.ConversionEvent{
		Operation: "encode",
		Name:      command.Name,
		Rows:      len(records),
		Columns:   len(fields),
		SizeBytes: int64(len(out)),
	})

	return EncodeResult{Jonx: out, Rows: len(records), Columns: len(fields)}, nil
}

func (s *EncodeService) publish(ev domain.ConversionEvent) {
	if err := s.publisher.PublishConversion(ev); err != nil {
		s.logger.Warn("conversion event not published", zap.Error(err))
	}
}
