// Package translator talks to the remote translation service.
package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// SuccessStatus is the only responseStatus accepted as a translation.
const SuccessStatus = 200

// Translator translates text between two service codes.
type Translator interface {
	Translate(ctx context.Context, text, sourceCode, targetCode string) (string, error)
}

// LangPair formats the langpair parameter, e.g. "en|es".
func LangPair(sourceCode, targetCode string) string {
	return sourceCode + "|" + targetCode
}

// Response is the translation service payload.
type Response struct {
	ResponseStatus  Status `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails,omitempty"`
	ResponseData    struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
}

// Status is a responseStatus value. The service sends it either as a
// number or as a numeric string depending on the error path.
type Status int

// UnmarshalJSON accepts 200 and "200".
func (s *Status) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		b = []byte(str)
	}

	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("invalid responseStatus %s", b)
	}
	*s = Status(n)
	return nil
}

// text returns the translation or an error describing why there is none.
func (r *Response) text() (string, error) {
	if r.ResponseStatus != SuccessStatus {
		if r.ResponseDetails != "" {
			return "", fmt.Errorf("service status %d: %s", r.ResponseStatus, r.ResponseDetails)
		}
		return "", fmt.Errorf("service status %d", r.ResponseStatus)
	}
	if r.ResponseData.TranslatedText == "" {
		return "", fmt.Errorf("service returned an empty translation")
	}
	return r.ResponseData.TranslatedText, nil
}
