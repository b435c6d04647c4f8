// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package marketingcloud

// Data extension column names
const (
	ColumnEmailAddress = "email_address"
	ColumnCreationDate = "creation_date"
	ColumnFirstName    = "first_name"
	ColumnLastName     = "last_name"

	optInDateSuffix  = " Opt In Date"
	optOutDateSuffix = " Opt out Date"
	optInMarker      = "Opt In"
)

// RowsetItem is one row upsert in a data event rowset
type RowsetItem struct {
	Keys   map[string]string `json:"keys"`
	Values map[string]string `json:"values"`
}

// FieldObject describes one data extension column
type FieldObject struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// FieldsResponse lists the columns of a data extension
type FieldsResponse struct {
	Fields []FieldObject `json:"fields"`
}

// ErrorResponse is the error body returned by the REST API
type ErrorResponse struct {
	Message   string `json:"message"`
	ErrorCode int    `json:"errorcode"`
}
