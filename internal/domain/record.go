package domain

import "sort"

// ValidateRecords checks that the record set is non-empty and that every
// record carries exactly the key set of the first record. The encoder is
// fail-fast: the first heterogeneous record aborts the whole encoding.
func ValidateRecords(records []Record) error {
	if len(records) == 0 {
		return ValidationError("record set cannot be empty")
	}
	first := records[0]
	if len(first) == 0 {
		return ValidationError("records must have at least one field")
	}
	for i, rec := range records[1:] {
		if len(rec) != len(first) {
			return heterogeneousError(i+1, first, rec)
		}
		for k := range rec {
			if _, ok := first[k]; !ok {
				return heterogeneousError(i+1, first, rec)
			}
		}
	}
	return nil
}

func heterogeneousError(index int, first, rec Record) *Error {
	var missing, extra []string
	for k := range first {
		if _, ok := rec[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range rec {
		if _, ok := first[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return EncodeError("record %d has a different key set", index).
		WithDetail("index", index).
		WithDetail("missing_keys", missing).
		WithDetail("extra_keys", extra)
}

// SortedFields returns the field names of a record in sorted order. Used as
// the canonical field order when the caller did not preserve one.
func SortedFields(rec Record) []string {
	fields := make([]string, 0, len(rec))
	for k := range rec {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Pivot turns the record set into one column per field. Every value is
// normalised to its canonical form.
func Pivot(records []Record, fields []string) map[string]Column {
	columns := make(map[string]Column, len(fields))
	for _, f := range fields {
		col := make(Column, len(records))
		for i, rec := range records {
			col[i] = Normalize(rec[f])
		}
		columns[f] = col
	}
	return columns
}
