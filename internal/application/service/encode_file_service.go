package service

import (
	"os"
	"path/filepath"

	"jonx/internal/domain"
)

// EncodeFileService encodes a JSON file on disk into a JONX file.
type EncodeFileService struct {
	encode *EncodeService
}

func NewEncodeFileService(encode *EncodeService) *EncodeFileService {
	return &EncodeFileService{encode: encode}
}

type EncodeFileCommand struct {
	InputPath  string
	OutputPath string
}

type EncodeFileResult struct {
	Rows       int
	Columns    int
	InputSize  int64
	OutputSize int64
}

func (s *EncodeFileService) Execute(command EncodeFileCommand) (EncodeFileResult, error) {
	stat, err := os.Stat(command.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return EncodeFileResult{}, domain.Wrap(err, domain.KindFile, "source file does not exist: %s", command.InputPath)
		}
		return EncodeFileResult{}, domain.Wrap(err, domain.KindFile, "cannot stat %s", command.InputPath)
	}
	if stat.IsDir() {
		return EncodeFileResult{}, domain.FileError("source path is not a file: %s", command.InputPath)
	}

	data, err := os.ReadFile(command.InputPath)
	if err != nil {
		return EncodeFileResult{}, domain.Wrap(err, domain.KindFile, "cannot read %s", command.InputPath)
	}
	if len(data) == 0 {
		return EncodeFileResult{}, domain.ValidationError("source file is empty: %s", command.InputPath)
	}

	result, err := s.encode.Execute(EncodeCommand{Data: data, Name: filepath.Base(command.InputPath)})
	if err != nil {
		return EncodeFileResult{}, err
	}

	if dir := filepath.Dir(command.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return EncodeFileResult{}, domain.Wrap(err, domain.KindFile, "cannot create directory %s", dir)
		}
	}
	if err := os.WriteFile(command.OutputPath, result.Jonx, 0o644); err != nil {
		return EncodeFileResult{}, domain.Wrap(err, domain.KindFile, "cannot write %s", command.OutputPath)
	}

	return EncodeFileResult{
		Rows:       result.Rows,
		Columns:    result.Columns,
		InputSize:  stat.Size(),
		OutputSize: int64(len(result.Jonx)),
	}, nil
}
