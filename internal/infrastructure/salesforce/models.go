// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package salesforce

import (
	"strings"
	"time"
)

// Object API names
const (
	ObjectContact      = "Contact"
	ObjectNewsletter   = "Newsletter__c"
	ObjectSubscription = "Newsletter_Subscription__c"
)

// Salesforce serializes datetimes without a colon in the offset
const datetimeLayout = "2006-01-02T15:04:05.000-0700"

// Datetime is a Salesforce datetime field
type Datetime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Datetime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(datetimeLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

// QueryResponse is the envelope of a SOQL query result
type QueryResponse[T any] struct {
	TotalSize      int    `json:"totalSize"`
	Done           bool   `json:"done"`
	NextRecordsURL string `json:"nextRecordsUrl,omitempty"`
	Records        []T    `json:"records"`
}

// ContactRecord is the writable part of a Contact sObject
type ContactRecord struct {
	Email         string `json:"Email"`
	FirstName     string `json:"FirstName"`
	LastName      string `json:"LastName"`
	EmailValidity string `json:"Email_Validity__c,omitempty"`
}

// contactQueryRecord carries the read-only fields returned by queries
type contactQueryRecord struct {
	ID               string   `json:"Id"`
	Email            string   `json:"Email"`
	FirstName        string   `json:"FirstName"`
	LastName         string   `json:"LastName"`
	EmailValidity    string   `json:"Email_Validity__c"`
	LastModifiedDate Datetime `json:"LastModifiedDate"`
}

// NewsletterRecord is a Newsletter__c sObject
type NewsletterRecord struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// SubscriptionRecord is the writable part of a Newsletter_Subscription__c sObject
type SubscriptionRecord struct {
	Contact    string `json:"Contact__c,omitempty"`
	Newsletter string `json:"Newsletter__c,omitempty"`
	Active     bool   `json:"Active__c"`
	Source     string `json:"Source__c,omitempty"`
	OptInDate  string `json:"Opt_In_Date__c,omitempty"`
}

// subscriptionQueryRecord carries the fields returned by queries
type subscriptionQueryRecord struct {
	ID               string   `json:"Id"`
	Contact          string   `json:"Contact__c"`
	Newsletter       string   `json:"Newsletter__c"`
	Active           bool     `json:"Active__c"`
	Source           string   `json:"Source__c"`
	OptInDate        string   `json:"Opt_In_Date__c"`
	LastModifiedDate Datetime `json:"LastModifiedDate"`
}

// APIError is one entry of an error response or a create response
type APIError struct {
	Message   string   `json:"message"`
	ErrorCode string   `json:"errorCode,omitempty"`
	Fields    []string `json:"fields,omitempty"`
}

// CreateResponse is returned by sObject create calls
type CreateResponse struct {
	ID      string     `json:"id"`
	Success bool       `json:"success"`
	Errors  []APIError `json:"errors"`
}
