package service

import (
	"jonx/internal/domain"
	"jonx/internal/platform/jonxfile"
	"jonx/internal/platform/jsoncodec"

	"go.uber.org/zap"
)

// DecodeService turns JONX bytes back into the original JSON document.
type DecodeService struct {
	opener    *jonxfile.Opener
	publisher domain.ConversionPublisher
	logger    *zap.Logger
}

func NewDecodeService(opener *jonxfile.Opener,
	publisher domain.ConversionPublisher,
	logger *zap.Logger) *DecodeService {
	return &DecodeService{
		opener:    opener,
		publisher: publisher,
		logger:    logger,
	}
}

type DecodeCommand struct {
	Data []byte
	Name string
}

type DecodeResult struct {
	JSON    []byte
	Version uint32
	Rows    int
	Fields  []string
	Types   map[string]domain.PhysicalType
}

func (s *DecodeService) Execute(command DecodeCommand) (DecodeResult, error) {
	reader, err := s.opener.FromBytes(command.Data, command.Name)
	if err != nil {
		return DecodeResult{}, err
	}
	records, err := reader.Records()
	if err != nil {
		return DecodeResult{}, err
	}
	out, err := jsoncodec.EncodeRecords(records, reader.Fields())
	if err != nil {
		return DecodeResult{}, err
	}

	info, err := reader.Info()
	if err != nil {
		return DecodeResult{}, err
	}
	s.logger.Info("decoded record set",
		zap.String("name", command.Name),
		zap.Int("rows", info.NumRows),
		zap.Int("columns", info.NumColumns))
	s.publish(domain.ConversionEvent{
		Operation: "decode",
		Name:      command.Name,
		Rows:      info.NumRows,
		Columns:   info.NumColumns,
		SizeBytes: int64(len(out)),
	})

	return DecodeResult{
		JSON:    out,
		Version: info.Version,
		Rows:    info.NumRows,
		Fields:  info.Fields,
		Types:   info.Types,
	}, nil
}

func (s *DecodeService) publish(ev domain.ConversionEvent) {
	if err := s.publisher.PublishConversion(ev); err != nil {
		s.logger.Warn("conversion event not published", zap.Error(err))
	}
}
