// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for curioquest.
// Paper records come from the search adapter, summary lengths and chat turns
// travel between the assistant, the session store and the HTTP surface, and
// the config structs are filled by viper at startup.
package types

// ErrorTitle is the title of the sentinel record returned when the search API
// answers with a non-success status.
const ErrorTitle = "Error"

// errorAbstract is the abstract carried by the sentinel record.
const errorAbstract = "Could not fetch papers from ArXiv"

// ErrorRecord returns the sentinel record used to signal an upstream search
// failure in-band. Callers detect it with PaperRecord.IsError.
func ErrorRecord() PaperRecord {
	return PaperRecord{Title: ErrorTitle, Abstract: errorAbstract}
}
