package sdb

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jacentio/simpledb/internal/sigv2"
)

// serviceVersion is the protocol version sent as the Version parameter
// of every request.
const serviceVersion = "2009-04-15"

// newParams starts the parameter set for an action.
func newParams(action string) url.Values {
	return url.Values{
		"Action":  []string{action},
		"Version": []string{serviceVersion},
	}
}

// endpointURL is the POST target for every request.
func (c *Client) endpointURL() string {
	scheme := "https"
	if c.config.Insecure {
		scheme = "http"
	}
	return scheme + "://" + c.config.Endpoint
}

// response is implemented by every success document.
type response interface {
	metadata() responseMetadata
}

// responseMetadata is the trailing element of every success response.
type responseMetadata struct {
	RequestID string `xml:"RequestId"`
	BoxUsage  string `xml:"BoxUsage"`
}

// baseResponse carries the metadata element shared by all success
// responses; concrete response documents embed it.
type baseResponse struct {
	Metadata responseMetadata `xml:"ResponseMetadata"`
}

func (r baseResponse) metadata() responseMetadata { return r.Metadata }

type createDomainResponse struct{ baseResponse }
type deleteDomainResponse struct{ baseResponse }
type putAttributesResponse struct{ baseResponse }
type deleteAttributesResponse struct{ baseResponse }
type batchPutAttributesResponse struct{ baseResponse }

type listDomainsResponse struct {
	baseResponse
	Result listDomainsResult `xml:"ListDomainsResult"`
}

type listDomainsResult struct {
	DomainNames []string `xml:"DomainName"`
	NextToken   string   `xml:"NextToken"`
}

type domainMetadataResponse struct {
	baseResponse
	Result *domainMetadataResult `xml:"DomainMetadataResult"`
}

type domainMetadataResult struct {
	ItemCount                int64 `xml:"ItemCount"`
	ItemNamesSizeBytes       int64 `xml:"ItemNamesSizeBytes"`
	AttributeNameCount       int64 `xml:"AttributeNameCount"`
	AttributeNamesSizeBytes  int64 `xml:"AttributeNamesSizeBytes"`
	AttributeValueCount      int64 `xml:"AttributeValueCount"`
	AttributeValuesSizeBytes int64 `xml:"AttributeValuesSizeBytes"`
	Timestamp                int64 `xml:"Timestamp"`
}

type getAttributesResponse struct {
	baseResponse
	Result getAttributesResult `xml:"GetAttributesResult"`
}

type getAttributesResult struct {
	Attributes []attributeXML `xml:"Attribute"`
}

type selectResponse struct {
	baseResponse
	Result selectResult `xml:"SelectResult"`
}

type selectResult struct {
	Items     []itemXML `xml:"Item"`
	NextToken string    `xml:"NextToken"`
}

type attributeXML struct {
	Name  string `xml:"Name"`
	Value string `xml:"Value"`
}

type itemXML struct {
	Name       string         `xml:"Name"`
	Attributes []attributeXML `xml:"Attribute"`
}

// errorResponse is the envelope of a failure response. The service
// writes it without a namespace, so local-name matching picks it up.
type errorResponse struct {
	Errors    []remoteErrorXML `xml:"Errors>Error"`
	RequestID string           `xml:"RequestID"`
}

type remoteErrorXML struct {
	Code     string `xml:"Code"`
	Message  string `xml:"Message"`
	BoxUsage string `xml:"BoxUsage"`
}

// parseRemoteError returns the structured service error carried by body,
// or nil when body is not an error envelope.
func parseRemoteError(body []byte) *RemoteError {
	var envelope errorResponse
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	if len(envelope.Errors) == 0 {
		return nil
	}
	first := envelope.Errors[0]
	return &RemoteError{
		Code:      first.Code,
		Message:   first.Message,
		RequestID: envelope.RequestID,
		BoxUsage:  first.BoxUsage,
	}
}

// do signs params, posts them to the endpoint, and decodes the response
// document into out. Failures reported by the service come back as
// *RemoteError.
func (c *Client) do(ctx context.Context, params url.Values, out response) error {
	action := params.Get("Action")
	if c.config.Credentials == nil {
		return fmt.Errorf("simpledb: no credentials configured for %s", action)
	}
	creds, err := c.config.Credentials.Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("retrieve credentials: %w", err)
	}
	params.Set("AWSAccessKeyId", creds.AccessKeyID)
	if creds.SessionToken != "" {
		params.Set("SecurityToken", creds.SessionToken)
	}
	params.Set("SignatureVersion", sigv2.Version)
	params.Set("SignatureMethod", c.signer.Name)
	params.Set("Timestamp", sigv2.Timestamp(time.Now()))
	signature, err := c.signer.Sign(http.MethodPost, c.endpointURL(), params, creds.SecretAccessKey)
	if err != nil {
		return err
	}
	params.Set("Signature", signature)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(), strings.NewReader(sigv2.Encode(params)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", action, err)
	}

	if remote := parseRemoteError(body); remote != nil {
		c.config.Logger.DebugContext(ctx, "simpledb call failed",
			"action", action,
			"code", remote.Code,
			"requestID", remote.RequestID)
		return remote
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: status %d for %s: %v", ErrMalformedResponse, resp.StatusCode, action, err)
	}
	meta := out.metadata()
	if meta.RequestID == "" {
		return fmt.Errorf("%w: no request id in %s response", ErrMalformedResponse, action)
	}
	c.config.Logger.DebugContext(ctx, "simpledb call",
		"action", action,
		"requestID", meta.RequestID,
		"boxUsage", meta.BoxUsage)
	return nil
}

// decodeAttributes converts wire attributes into the decoded multi-value
// map, applying the configured encoder.
func (c *Client) decodeAttributes(domain string, raw []attributeXML) (Attributes, error) {
	attrs := make(Attributes, len(raw))
	for _, a := range raw {
		v, err := c.config.Encoder.Decode(domain, a.Name, a.Value)
		if err != nil {
			return nil, err
		}
		attrs[a.Name] = append(attrs[a.Name], v)
	}
	return attrs, nil
}

// addPutAttrs appends Attribute.N wire parameters for attrs. prefix is
// empty for single-item calls and "Item.N." inside a batch.
func (c *Client) addPutAttrs(params url.Values, domain, prefix string, attrs []Attr) error {
	idx := 0
	for _, attr := range attrs {
		values, ok := valueSlice(attr.Value)
		if !ok {
			values = []any{attr.Value}
		}
		for _, v := range values {
			if v == nil {
				return fmt.Errorf("simpledb: nil value for attribute %q", attr.Name)
			}
			encoded, err := c.config.Encoder.Encode(domain, attr.Name, v)
			if err != nil {
				return err
			}
			params.Set(fmt.Sprintf("%sAttribute.%d.Name", prefix, idx), attr.Name)
			params.Set(fmt.Sprintf("%sAttribute.%d.Value", prefix, idx), encoded)
			if !attr.Add {
				params.Set(fmt.Sprintf("%sAttribute.%d.Replace", prefix, idx), "true")
			}
			idx++
		}
	}
	return nil
}

// addDeleteAttrs appends Attribute.N wire parameters for a delete. An
// attr with a nil value carries no Value parameter, deleting every value
// of that name.
func (c *Client) addDeleteAttrs(params url.Values, domain string, attrs []Attr) error {
	idx := 0
	for _, attr := range attrs {
		if attr.Value == nil {
			params.Set(fmt.Sprintf("Attribute.%d.Name", idx), attr.Name)
			idx++
			continue
		}
		values, ok := valueSlice(attr.Value)
		if !ok {
			values = []any{attr.Value}
		}
		for _, v := range values {
			encoded, err := c.config.Encoder.Encode(domain, attr.Name, v)
			if err != nil {
				return err
			}
			params.Set(fmt.Sprintf("Attribute.%d.Name", idx), attr.Name)
			params.Set(fmt.Sprintf("Attribute.%d.Value", idx), encoded)
			idx++
		}
	}
	return nil
}
