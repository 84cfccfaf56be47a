package service

import "jonx/internal/platform/jonxfile"

// InfoService summarises a JONX file on disk.
type InfoService struct {
	opener *jonxfile.Opener
}

func NewInfoService(opener *jonxfile.Opener) *InfoService {
	return &InfoService{opener: opener}
}

type InfoQuery struct {
	Path string
}

func (s *InfoService) Execute(query InfoQuery) (jonxfile.Info, error) {
	reader, err := s.opener.Open(query.Path)
	if err != nil {
		return jonxfile.Info{}, err
	}
	return reader.Info()
}
