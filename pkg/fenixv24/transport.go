package fenixv24

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// envelope is the wrapper the vendor puts around every API response.
// code.key is "OK" on success; anything else is a vendor-reported failure.
type envelope struct {
	Code struct {
		Code  vendorString `json:"code"`
		Key   vendorString `json:"key"`
		Value vendorString `json:"value"`
	} `json:"code"`
	Data json.RawMessage `json:"data"`
}

const envelopeOK = "OK"

// postForm issues a single form-encoded POST against an API endpoint and
// returns the envelope's data payload. token is attached as a Bearer
// header; when tokenField is set it is additionally sent as a form field
// (the push endpoint silently rejects requests missing either one).
//
// There is no retry at this layer. Each call either succeeds or fails with
// one of the defined error kinds; retry policy belongs to the caller.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, token string, tokenField bool) (json.RawMessage, error) {
	if tokenField {
		form.Set("token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &NetworkError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: "post " + endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{Op: "post " + endpoint, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &NetworkError{Op: "decode " + endpoint, Err: err}
	}
	if string(env.Code.Key) != envelopeOK {
		return nil, &APIError{
			Code: string(env.Code.Code),
			Key:  string(env.Code.Key),
			Msg:  string(env.Code.Value),
		}
	}
	return env.Data, nil
}

// The vendor is loose about scalar types: numbers arrive as JSON strings
// or numbers depending on endpoint and firmware. vendorString, vendorInt
// and vendorBool accept either representation.

type vendorString string

func (v *vendorString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = vendorString(s)
		return nil
	}
	if string(b) == "null" {
		*v = ""
		return nil
	}
	*v = vendorString(b)
	return nil
}

type vendorInt int

func (v *vendorInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", s, err)
	}
	*v = vendorInt(math.Round(f))
	return nil
}

type vendorBool bool

func (v *vendorBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	*v = s == "1" || s == "true"
	return nil
}
