package service

import (
	"os"
	"path/filepath"

	"jonx/internal/domain"
)

// DecodeFileService decodes a JONX file on disk back into a JSON file.
type DecodeFileService struct {
	decode *DecodeService
}

func NewDecodeFileService(decode *DecodeService) *DecodeFileService {
	return &DecodeFileService{decode: decode}
}

type DecodeFileCommand struct {
	InputPath  string
	OutputPath string
}

type DecodeFileResult struct {
	Version    uint32
	Rows       int
	Columns    int
	OutputSize int64
}

func (s *DecodeFileService) Execute(command DecodeFileCommand) (DecodeFileResult, error) {
	data, err := os.ReadFile(command.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DecodeFileResult{}, domain.Wrap(err, domain.KindFile, "source file does not exist: %s", command.InputPath)
		}
		return DecodeFileResult{}, domain.Wrap(err, domain.KindFile, "cannot read %s", command.InputPath)
	}

	result, err := s.decode.Execute(DecodeCommand{Data: data, Name: filepath.Base(command.InputPath)})
	if err != nil {
		return DecodeFileResult{}, err
	}

	if dir := filepath.Dir(command.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return DecodeFileResult{}, domain.Wrap(err, domain.KindFile, "cannot create directory %s", dir)
		}
	}
	if err := os.WriteFile(command.OutputPath, result.JSON, 0o644); err != nil {
		return DecodeFileResult{}, domain.Wrap(err, domain.KindFile, "cannot write %s", command.OutputPath)
	}

	return DecodeFileResult{
		Version:    result.Version,
		Rows:       result.Rows,
		Columns:    len(result.Fields),
		OutputSize: int64(len(result.JSON)),
	}, nil
}
