package folio

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"
)

// contains http utils to deal with remote quote services

// diskCache implements a simple disk cache for HTTP responses
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// get from disk
	// diskcache implements a unique key per day, so the local tmp expires every day.
	key := fmt.Sprintf("%s %s %s", Today().String(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	// otherwise attempt to store it in cache

	err = c.put(key, resp)
	if err != nil {
		log.Printf("cache write err (ignored): %v\n", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk
func (c *diskCache) get(key string, req *http.Request) (resp *http.Response, err error) {
	file := filepath.Join(os.TempDir(), key)
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to disk cache
func (c *diskCache) put(key string, resp *http.Response) (err error) {
	file := filepath.Join(os.TempDir(), key)

	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}

	f, err := os.Create(file)
	if err != nil {
		return err
	}

	_, err = f.Write(content)
	f.Close()
	return err
}

// DailyClient returns an http client with a bounded timeout and a disk
// cache that expires daily, so each quote endpoint is hit at most once
// per day.
func DailyClient() *http.Client {
	return &http.Client{
		Timeout:   10 * time.Second,
		Transport: &diskCache{http.DefaultTransport},
	}
}

// GetJSON performs an HTTP GET request and unmarshals the JSON response
// into the provided data structure. Failures are classified against the
// quote sentinel errors: transport errors and non-2xx statuses report
// ErrUnavailable (404 reports ErrNotFound), undecodable payloads report
// ErrMalformed.
func GetJSON(client *http.Client, addr string, data interface{}) error {
	body, err := getBody(client, addr)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, data); err != nil {
		return fmt.Errorf("cannot decode response from %v: %v: %w", addr, err, ErrMalformed)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as
// a string, with the same error classification as GetJSON.
func GetText(client *http.Client, addr string) (string, error) {
	body, err := getBody(client, addr)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func getBody(client *http.Client, addr string) ([]byte, error) {
	resp, err := client.Get(addr)
	if err != nil {
		return nil, fmt.Errorf("cannot http GET %v: %v: %w", addr, err, ErrUnavailable)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("cannot http GET %v: %v: %w", addr, resp.Status, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("cannot http GET %v: %v: %w", addr, resp.Status, ErrUnavailable)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, fmt.Errorf("cannot read response from %v: %v: %w", addr, err, ErrUnavailable)
	}
	return buf.Bytes(), nil
}
