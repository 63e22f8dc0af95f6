// Package transform normalizes date-like fields in fetched collections.
package transform

import (
	"strings"
	"time"

	"github.com/jonathan/stackoverflow-pipeline/internal/records"
)

// dateSuffix marks fields holding epoch-seconds timestamps in the API.
const dateSuffix = "_date"

// dateLayout is dd-mm-yyyy.
const dateLayout = "02-01-2006"

// ConvertDate formats an epoch-seconds timestamp as dd-mm-yyyy in UTC.
// Zero yields the empty string.
func ConvertDate(seconds int64) string {
	if seconds == 0 {
		return ""
	}
	return time.Unix(seconds, 0).UTC().Format(dateLayout)
}

// Dates returns a copy of collection in which every field whose name ends
// with "_date" is replaced: integer epoch seconds become dd-mm-yyyy text,
// anything else (null, zero, non-numeric) becomes empty text. Fields not
// matching the suffix pass through unchanged; the input is not mutated.
func Dates(collection []records.Record) []records.Record {
	if collection == nil {
		return nil
	}

	out := make([]records.Record, 0, len(collection))
	for _, rec := range collection {
		transformed := rec.Clone()
		for _, key := range transformed.Keys() {
			if !strings.HasSuffix(key, dateSuffix) {
				continue
			}
			val, _ := transformed.Get(key)
			if val.Kind == records.KindInt {
				transformed.Set(key, records.TextValue(ConvertDate(val.Int)))
			} else {
				transformed.Set(key, records.TextValue(""))
			}
		}
		out = append(out, transformed)
	}
	return out
}
