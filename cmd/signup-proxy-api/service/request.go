// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/internal/domain/model"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/constants"
	"github.com/linuxfoundation/lfx-v2-signup-proxy-service/pkg/errors"
)

const maxMultipartMemory = 1 << 20

// listField accepts a single list (possibly "++" delimited) or an array
type listField []string

func (l *listField) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = model.SplitListField(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("list must be a string or an array of strings")
	}
	var out []string
	for _, raw := range many {
		out = append(out, model.SplitListField(raw)...)
	}
	*l = out
	return nil
}

type subscribePayload struct {
	Email     string    `json:"email"`
	List      listField `json:"list"`
	Source    string    `json:"source"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// parseSubscribe reads a JSON or form body into a signup intent
func parseSubscribe(r *http.Request) (model.SignupIntent, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return model.SignupIntent{}, errors.NewValidation("unable to read request body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return model.SignupIntent{}, errors.NewValidation(constants.ErrMsgNoData)
	}

	var payload subscribePayload
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch {
	case mediaType == "application/json" || bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")):
		if err := json.Unmarshal(body, &payload); err != nil {
			return model.SignupIntent{}, errors.NewValidation("request body is not valid JSON", err)
		}
	case mediaType == "multipart/form-data":
		r.Body = io.NopCloser(bytes.NewReader(body))
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return model.SignupIntent{}, errors.NewValidation("unable to parse form", err)
		}
		payload = payloadFromForm(r.MultipartForm.Value)
	default:
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return model.SignupIntent{}, errors.NewValidation("unable to parse form", err)
		}
		payload = payloadFromForm(values)
	}

	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || len(payload.List) == 0 {
		return model.SignupIntent{}, errors.NewValidation(constants.ErrMsgMissingField)
	}

	intent := model.NewSignupIntent(
		payload.Email,
		payload.List,
		payload.Source,
		model.WithName(payload.FirstName, payload.LastName),
	)
	if len(intent.Lists) == 0 {
		return model.SignupIntent{}, errors.NewValidation(constants.ErrMsgMissingField)
	}
	return intent, nil
}

func payloadFromForm(values map[string][]string) subscribePayload {
	form := url.Values(values)
	var lists []string
	for _, raw := range form["list"] {
		lists = append(lists, model.SplitListField(raw)...)
	}
	return subscribePayload{
		Email:     form.Get("email"),
		List:      lists,
		Source:    form.Get("source"),
		FirstName: form.Get("first_name"),
		LastName:  form.Get("last_name"),
	}
}

// decodeJSON decodes a webhook body, mapping failures to validation errors
func decodeJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.NewValidation("unable to read request body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.NewValidation(constants.ErrMsgNoData)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidation("request body is not valid JSON", err)
	}
	return nil
}
