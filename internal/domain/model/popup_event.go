// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package model

// PopupFormEvent is a lead submitted through the pop-up form widget
type PopupFormEvent struct {
	Lead PopupLead `json:"lead"`
	Meta PopupMeta `json:"meta"`
}

// PopupLead is the subscriber captured by the widget
type PopupLead struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PopupMeta carries the target lists ("++" delimited) and the signup source
type PopupMeta struct {
	Lists  string `json:"lists"`
	Source string `json:"source"`
}
