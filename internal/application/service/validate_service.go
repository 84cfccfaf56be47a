package service

import (
	"jonx/internal/domain"
	"jonx/internal/platform/jonxfile"
)

// ValidateService checks every block of a JONX file and aggregates failures.
type ValidateService struct {
	opener *jonxfile.Opener
}

func NewValidateService(opener *jonxfile.Opener) *ValidateService {
	return &ValidateService{opener: opener}
}

type ValidateQuery struct {
	Path string
}

func (s *ValidateService) Execute(query ValidateQuery) (domain.CheckReport, error) {
	reader, err := s.opener.Open(query.Path)
	if err != nil {
		return domain.CheckReport{}, err
	}
	return reader.Validate(), nil
}
