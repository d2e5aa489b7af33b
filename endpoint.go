package mealinfo

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"
)

const EndpointDefaultTimeout = DefaultTimeout

type Endpoint struct {
	Url        string
	Method     string
	Headers    []Header
	HttpClient *http.Client
	Timeout    int
}

type Header struct {
	Name  string
	Value string
}

var JSONAcceptHeaders = []Header{
	Header{
		Name:  "Accept",
		Value: "application/json",
	},
}

func NewGetEndpoint(url string, timeout int, headers ...Header) *Endpoint {
	endpoint := new(Endpoint)
	endpoint.Url = url
	endpoint.Method = "GET"
	endpoint.Headers = headers
	endpoint.Timeout = timeout
	return endpoint
}

// Fetch issues one request. A transport failure comes back as the raw client
// error with a nil body. Any status outside 2xx comes back with the body and a
// *HttpStatusError.
func (endpoint *Endpoint) Fetch(name string) ([]byte, int, error) {
	if endpoint.Method != "GET" && endpoint.Method != "POST" {
		return nil, 0, fmt.Errorf("Unknown method: %s", endpoint.Method)
	}

	client := endpoint.HttpClient
	if client == nil {
		timeout := endpoint.Timeout
		if timeout <= 0 {
			timeout = EndpointDefaultTimeout
		}
		client = &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		}
	}

	req, err := http.NewRequest(endpoint.Method, endpoint.Url, nil)
	if err != nil {
		return nil, 0, err
	}

	for _, header := range endpoint.Headers {
		req.Header.Add(header.Name, header.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		Log.Debugf("%s: error during fetch: %v", name, err)
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	// only set when the transport did not already decode it
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		Log.Debug("Decompressing gzipped content...")

		gzReader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, resp.StatusCode, err
		}

		body, err = ioutil.ReadAll(gzReader)
		if err != nil {
			return nil, resp.StatusCode, err
		}
	}

	Log.Debugf("%s: fetched %d bytes with status code %d from %s", name, len(body), resp.StatusCode, censorUrlString(endpoint.Url))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		Log.Warnf("%s: Status code: %d, %s", name, resp.StatusCode, snippet(body, 128))
		return body, resp.StatusCode, &HttpStatusError{StatusCode: resp.StatusCode, Url: endpoint.Url}
	}

	return body, resp.StatusCode, nil
}

func snippet(body []byte, max int) string {
	if len(body) > max {
		body = body[:max]
	}
	return strings.ReplaceAll(string(body), "\n", " ")
}
