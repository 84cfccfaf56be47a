package service

import (
	"jonx/internal/domain"
	"jonx/internal/platform/jonxfile"
)

// QueryOperation selects the aggregate to run.
type QueryOperation string

const (
	QueryMin   QueryOperation = "min"
	QueryMax   QueryOperation = "max"
	QuerySum   QueryOperation = "sum"
	QueryAvg   QueryOperation = "avg"
	QueryCount QueryOperation = "count"
)

// QueryService runs one aggregate against one column of a JONX file.
type QueryService struct {
	opener *jonxfile.Opener
}

func NewQueryService(opener *jonxfile.Opener) *QueryService {
	return &QueryService{opener: opener}
}

type QueryCommand struct {
	Path      string
	Column    string
	Operation QueryOperation
	UseIndex  bool
}

type QueryResult struct {
	Value any
}

func (s *QueryService) Execute(command QueryCommand) (QueryResult, error) {
	reader, err := s.opener.Open(command.Path)
	if err != nil {
		return QueryResult{}, err
	}

	var value any
	switch command.Operation {
	case QueryMin:
		value, err = reader.FindMin(command.Column, command.UseIndex)
	case QueryMax:
		value, err = reader.FindMax(command.Column, command.UseIndex)
	case QuerySum:
		value, err = reader.Sum(command.Column)
	case QueryAvg:
		value, err = reader.Avg(command.Column)
	case QueryCount:
		value, err = reader.Count(command.Column)
	default:
		return QueryResult{}, domain.ValidationError("unknown operation %q", command.Operation)
	}
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Value: value}, nil
}
