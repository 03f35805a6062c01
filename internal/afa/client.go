// Package afa is the HTTP client of the crop report site, it fetches crop code
// listings and report pages.
package afa

import (
	"agrafa/internal/components/assert"
	"agrafa/internal/components/telemetry"
	"agrafa/internal/directory"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch_code_list = "client.fetch-code-list"
	report_client_fetch_report    = "client.fetch-report"
)

const (
	DefaultBaseUrl = "https://agr.afa.gov.tw/afa"

	codeListPath = "/ajax/jsonAfaCode1.jsp"
	reportPath   = "/pgcroptown.jsp"

	// value of the submit button of the query form
	submitMarker = "送　出"
)

// QueryKey identifies one report query.
type QueryKey struct {
	// Year is the ROC calendar year, zero padded to 3 digits.
	Year         string
	SeasonPeriod string
	// CropCategory may be empty, the site then searches every category.
	CropCategory string
	Crop         string
	Region       string
}

// FormatYear zero pads a ROC calendar year to 3 digits.
func FormatYear(year int) string {
	return fmt.Sprintf("%03d", year)
}

type Options struct {
	BaseUrl string
	Timeout time.Duration
	// RequestsPerSecond limits the request rate, 0 disables the limit.
	RequestsPerSecond float64
	UserAgent         string
}

// Client implements directory.CodeListFetcher and the report fetcher of the walker.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(opts Options, tel telemetry.API) *Client {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("afa_client", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetTimeout(opts.Timeout)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}

	if opts.RequestsPerSecond > 0 {
		// burst of 1, requests are sequential anyway
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)

	return &Client{http: httpClient, tel: tel}
}

// FetchCodeList retrieves the crop listing of a crop category.
func (c *Client) FetchCodeList(ctx context.Context, cropCategory string) ([]directory.Entry, error) {
	c.tel.ReportDebug(report_client_fetch_code_list, cropCategory)

	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"corn001":  cropCategory,
			"input803": "",
		}).
		Post(codeListPath)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_code_list,
			fmt.Errorf("fetch: %w", err),
			cropCategory,
		)
		return nil, &NetworkError{Op: "fetch code list", Url: codeListPath, Err: err}
	}
	if res.IsError() {
		statusErr := &StatusError{Url: codeListPath, StatusCode: res.StatusCode(), Status: res.Status()}
		c.tel.ReportBroken(report_client_fetch_code_list, statusErr, cropCategory)
		return nil, statusErr
	}

	body, err := decodeBody(res)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_code_list,
			fmt.Errorf("decode charset: %w", err),
			cropCategory,
		)
		return nil, err
	}

	var entries []directory.Entry
	err = json.Unmarshal(body, &entries)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_code_list,
			fmt.Errorf("unmarshal json: %w", err),
			cropCategory,
		)
		return nil, fmt.Errorf("crop category %s: unmarshal code list: %w", cropCategory, err)
	}

	return entries, nil
}

// FetchReport submits the report query form and returns the page as UTF-8 html.
func (c *Client) FetchReport(ctx context.Context, key QueryKey) ([]byte, error) {
	c.tel.ReportDebug(report_client_fetch_report, key)

	res, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"accountingyear": key.Year,
			"item":           key.SeasonPeriod,
			"corn001":        key.CropCategory,
			"input803":       "",
			"crop":           key.Crop,
			"city":           key.Region,
			"btnSend":        submitMarker,
		}).
		Post(reportPath)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_report,
			fmt.Errorf("fetch: %w", err),
			key,
		)
		return nil, &NetworkError{Op: "fetch report", Url: reportPath, Err: err}
	}
	if res.IsError() {
		statusErr := &StatusError{Url: reportPath, StatusCode: res.StatusCode(), Status: res.Status()}
		c.tel.ReportBroken(report_client_fetch_report, statusErr, key)
		return nil, statusErr
	}

	body, err := decodeBody(res)
	if err != nil {
		c.tel.ReportBroken(
			report_client_fetch_report,
			fmt.Errorf("decode charset: %w", err),
			key,
		)
		return nil, err
	}
	return body, nil
}

// decodeBody transcodes the response body to UTF-8 using the charset of the
// content-type header, or the meta tags of the body when the header has none.
func decodeBody(res *resty.Response) ([]byte, error) {
	reader, err := charset.NewReader(bytes.NewReader(res.Body()), res.Header().Get("content-type"))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
